package segment

import (
	"github.com/kampahq/kampa/internal/segment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("segment.service",
	fx.Provide(service.New),
)
