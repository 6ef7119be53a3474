package domain

import (
	"context"

	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
)

type Service interface {
	Performance(ctx context.Context, campaignID string) (Performance, error)
	SimulateEngagement(ctx context.Context, campaignID string) (campaigndomain.Campaign, error)
	GeographicDistribution(ctx context.Context, campaignID string) (map[string]int, error)
	DeviceDistribution(ctx context.Context, campaignID string) (map[string]float64, error)
}
