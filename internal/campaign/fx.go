package campaign

import (
	"github.com/kampahq/kampa/internal/campaign/service"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.service",
	fx.Provide(service.New),
)
