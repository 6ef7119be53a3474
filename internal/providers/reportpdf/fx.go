package reportpdf

import "go.uber.org/fx"

var Module = fx.Module("providers.reportpdf",
	fx.Provide(New),
)
