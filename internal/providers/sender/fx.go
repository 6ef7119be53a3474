package sender

import (
	"github.com/kampahq/kampa/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.sender",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Sender {
	switch cfg.SenderMode {
	case config.SenderNoop:
		return NoOpSender{}
	default:
		return NewLogSender(log)
	}
}
