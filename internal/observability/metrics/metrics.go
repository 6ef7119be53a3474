package metrics

import (
	"strings"

	"github.com/kampahq/kampa/internal/config"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	LaunchResultSent          = "sent"
	LaunchResultEmptyAudience = "empty_audience"
)

// Metrics captures campaign delivery health signals.
type Metrics struct {
	campaignsCreated      prometheus.Counter
	campaignLaunches      *prometheus.CounterVec
	emailsSent            prometheus.Counter
	emailsFailed          prometheus.Counter
	engagementSimulations prometheus.Counter
}

func New(cfg config.Config) *Metrics {
	return newMetrics(prometheus.DefaultRegisterer, cfg.AppName, cfg.Environment)
}

func newMetrics(registerer prometheus.Registerer, service, env string) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	service = strings.TrimSpace(service)
	if service == "" {
		service = "kampa"
	}
	env = strings.TrimSpace(env)
	if env == "" {
		env = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": service,
		"env":     env,
	}

	campaignsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "kampa_campaigns_created_total",
		Help:        "Campaigns created.",
		ConstLabels: constLabels,
	})
	campaignLaunches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "kampa_campaign_launches_total",
		Help:        "Campaign launches by outcome.",
		ConstLabels: constLabels,
	}, []string{"result"})
	emailsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "kampa_emails_sent_total",
		Help:        "Messages handed to the sender successfully.",
		ConstLabels: constLabels,
	})
	emailsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "kampa_emails_failed_total",
		Help:        "Messages the sender rejected.",
		ConstLabels: constLabels,
	})
	engagementSimulations := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "kampa_engagement_simulations_total",
		Help:        "Synthetic engagement draws applied to sent campaigns.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		campaignsCreated,
		campaignLaunches,
		emailsSent,
		emailsFailed,
		engagementSimulations,
	)

	return &Metrics{
		campaignsCreated:      campaignsCreated,
		campaignLaunches:      campaignLaunches,
		emailsSent:            emailsSent,
		emailsFailed:          emailsFailed,
		engagementSimulations: engagementSimulations,
	}
}

func (m *Metrics) IncCampaignCreated() {
	if m == nil || m.campaignsCreated == nil {
		return
	}
	m.campaignsCreated.Inc()
}

func (m *Metrics) IncCampaignLaunch(result string) {
	if m == nil || m.campaignLaunches == nil {
		return
	}
	m.campaignLaunches.WithLabelValues(result).Inc()
}

func (m *Metrics) AddEmailsSent(count int) {
	if m == nil || m.emailsSent == nil || count <= 0 {
		return
	}
	m.emailsSent.Add(float64(count))
}

func (m *Metrics) AddEmailsFailed(count int) {
	if m == nil || m.emailsFailed == nil || count <= 0 {
		return
	}
	m.emailsFailed.Add(float64(count))
}

func (m *Metrics) IncEngagementSimulation() {
	if m == nil || m.engagementSimulations == nil {
		return
	}
	m.engagementSimulations.Inc()
}
