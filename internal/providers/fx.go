package providers

import (
	"github.com/kampahq/kampa/internal/providers/reportpdf"
	"github.com/kampahq/kampa/internal/providers/sender"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	sender.Module,
	reportpdf.Module,
)
