package main

import (
	"github.com/kampahq/kampa/internal/analytics"
	"github.com/kampahq/kampa/internal/campaign"
	"github.com/kampahq/kampa/internal/clock"
	"github.com/kampahq/kampa/internal/config"
	"github.com/kampahq/kampa/internal/customer"
	"github.com/kampahq/kampa/internal/ids"
	"github.com/kampahq/kampa/internal/observability"
	"github.com/kampahq/kampa/internal/providers"
	"github.com/kampahq/kampa/internal/segment"
	"github.com/kampahq/kampa/internal/server"
	"github.com/kampahq/kampa/pkg/docstore"
	"github.com/kampahq/kampa/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		docstore.Module,
		clock.Module,
		ids.Module,

		// Functional domains
		customer.Module,
		segment.Module,
		campaign.Module,
		analytics.Module,
		providers.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}
