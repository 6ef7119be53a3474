package docstore

import (
	"github.com/kampahq/kampa/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewStore(cfg config.Config, log *zap.Logger) *Store {
	return Open(cfg.DataDir, log)
}

var Module = fx.Module("docstore",
	fx.Provide(NewStore),
)
