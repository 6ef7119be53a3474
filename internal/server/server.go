package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/kampahq/kampa/internal/analytics/domain"
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	"github.com/kampahq/kampa/internal/clock"
	"github.com/kampahq/kampa/internal/config"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	obstracing "github.com/kampahq/kampa/internal/observability/tracing"
	"github.com/kampahq/kampa/internal/providers/reportpdf"
	"github.com/kampahq/kampa/internal/providers/sender"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	clock        clock.Clock
	customerSvc  customerdomain.Service
	segmentSvc   segmentdomain.Service
	campaignSvc  campaigndomain.Service
	analyticsSvc analyticsdomain.Service
	snd          sender.Sender
	reports      reportpdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Clock        clock.Clock
	CustomerSvc  customerdomain.Service
	SegmentSvc   segmentdomain.Service
	CampaignSvc  campaigndomain.Service
	AnalyticsSvc analyticsdomain.Service
	Sender       sender.Sender
	Reports      reportpdf.Provider
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http"),
		clock:        p.Clock,
		customerSvc:  p.CustomerSvc,
		segmentSvc:   p.SegmentSvc,
		campaignSvc:  p.CampaignSvc,
		analyticsSvc: p.AnalyticsSvc,
		snd:          p.Sender,
		reports:      p.Reports,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.GET("/dashboard", s.GetDashboard)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Segments --------
	api.POST("/segments/preview", s.PreviewSegment)
	api.GET("/segments/cities", s.ListSegmentCities)

	// -------- Campaigns --------
	api.GET("/campaigns", s.ListCampaigns)
	api.POST("/campaigns", s.CreateCampaign)
	api.GET("/campaigns/:id", s.GetCampaignByID)
	api.POST("/campaigns/:id/launch", s.LaunchCampaign)

	// -------- Analytics --------
	api.GET("/campaigns/:id/performance", s.GetCampaignPerformance)
	api.POST("/campaigns/:id/simulate", s.SimulateCampaignEngagement)
	api.GET("/campaigns/:id/distribution/geography", s.GetCampaignGeography)
	api.GET("/campaigns/:id/distribution/devices", s.GetCampaignDevices)
	api.GET("/campaigns/:id/report", s.GetCampaignReport)
}
