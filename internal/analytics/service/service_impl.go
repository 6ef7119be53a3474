package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/kampahq/kampa/internal/analytics/domain"
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	"github.com/kampahq/kampa/internal/config"
	obsmetrics "github.com/kampahq/kampa/internal/observability/metrics"
	"github.com/kampahq/kampa/pkg/docstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config  config.Config
	Store   *docstore.Store
	Log     *zap.Logger
	Holder  *config.AnalyticsParamsHolder
	Rand    *rand.Rand          `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	holder  *config.AnalyticsParamsHolder
	metrics *obsmetrics.Metrics
	repo    *docstore.Collection[campaigndomain.Campaign]

	// rng is not safe for concurrent use; every draw goes through draw().
	randMu sync.Mutex
	rng    *rand.Rand
}

func New(p Params) domain.Service {
	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		log:     p.Log.Named("analytics.service"),
		holder:  p.Holder,
		metrics: p.Metrics,
		rng:     rng,
		repo: docstore.ProvideCollection(p.Store, p.Config.CampaignsFile, func(c campaigndomain.Campaign) string {
			return c.ID
		}),
	}
}

func (s *Service) Performance(ctx context.Context, campaignID string) (domain.Performance, error) {
	campaign, err := s.find(ctx, campaignID)
	if err != nil {
		return domain.Performance{}, err
	}

	params := s.holder.Get()
	stats := campaign.Stats

	deliveryRate := percentage(stats.Sent, stats.Sent+stats.Failed)
	openRate := percentage(stats.Opened, stats.Sent)
	clickRate := percentage(stats.Clicked, stats.Opened)
	clickThroughRate := percentage(stats.Clicked, stats.Sent)

	engagement := openRate*params.OpenWeight + clickThroughRate*params.ClickWeight
	if engagement > 100 {
		engagement = 100
	}

	return domain.Performance{
		CampaignID:       campaign.ID,
		Title:            campaign.Title,
		Status:           campaign.Status,
		Criteria:         campaign.Criteria,
		Stats:            stats,
		DeliveryRate:     round2(deliveryRate),
		OpenRate:         round2(openRate),
		ClickRate:        round2(clickRate),
		ClickThroughRate: round2(clickThroughRate),
		ROIPrediction:    round2(float64(stats.Clicked) * params.ROIPerClick),
		EngagementScore:  round1(engagement),
	}, nil
}

// SimulateEngagement backfills opens and clicks for a campaign that sent
// mail but has no recorded engagement yet. Opens are drawn as a share of
// the sent count and clicks as a share of the opens, both truncated to
// whole recipients. Campaigns with any engagement already on record, and
// campaigns that never sent anything, come back unchanged.
func (s *Service) SimulateEngagement(ctx context.Context, campaignID string) (campaigndomain.Campaign, error) {
	campaign, err := s.find(ctx, campaignID)
	if err != nil {
		return campaigndomain.Campaign{}, err
	}

	stats := campaign.Stats
	if stats.Sent == 0 || stats.Opened > 0 || stats.Clicked > 0 {
		return campaign, nil
	}

	sim := s.holder.Get().Simulation
	opened := int(float64(stats.Sent) * s.draw(sim.OpenRateMin, sim.OpenRateMax))
	clicked := int(float64(opened) * s.draw(sim.ClickRateMin, sim.ClickRateMax))

	campaign.Stats.Opened = opened
	campaign.Stats.Clicked = clicked
	if _, err := s.repo.Update(ctx, campaign.ID, campaign); err != nil {
		return campaigndomain.Campaign{}, fmt.Errorf("persist simulated engagement: %w", err)
	}

	s.metrics.IncEngagementSimulation()
	s.log.Info("engagement simulated",
		zap.String("campaign_id", campaign.ID),
		zap.Int("sent", stats.Sent),
		zap.Int("opened", opened),
		zap.Int("clicked", clicked))
	return campaign, nil
}

// GeographicDistribution splits the sent count by city. A campaign
// targeted at one city attributes everything to that city; otherwise the
// configured ratios are applied and whatever truncation leaves over lands
// in the remainder bucket, so the buckets always sum to the sent count.
// A campaign that sent nothing and pinned no city has no buckets at all.
func (s *Service) GeographicDistribution(ctx context.Context, campaignID string) (map[string]int, error) {
	campaign, err := s.find(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	sent := campaign.Stats.Sent
	if campaign.Criteria.City != nil {
		return map[string]int{*campaign.Criteria.City: sent}, nil
	}
	if sent == 0 {
		return map[string]int{}, nil
	}

	geo := s.holder.Get().Geography
	distribution := make(map[string]int, len(geo.CityRatios)+1)
	assigned := 0
	for city, share := range geo.CityRatios {
		n := int(float64(sent) * share)
		distribution[city] = n
		assigned += n
	}
	distribution[geo.RemainderKey] = sent - assigned
	return distribution, nil
}

func (s *Service) DeviceDistribution(ctx context.Context, campaignID string) (map[string]float64, error) {
	campaign, err := s.find(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.Stats.Opened == 0 {
		return map[string]float64{
			domain.DeviceMobile:  0,
			domain.DeviceDesktop: 0,
			domain.DeviceTablet:  0,
		}, nil
	}

	devices := s.holder.Get().Devices
	mobile := round1(s.draw(devices.MobileMin, devices.MobileMax))
	tablet := round1(s.draw(devices.TabletMin, devices.TabletMax))
	return map[string]float64{
		domain.DeviceMobile:  mobile,
		domain.DeviceDesktop: round1(100 - mobile - tablet),
		domain.DeviceTablet:  tablet,
	}, nil
}

func (s *Service) find(ctx context.Context, campaignID string) (campaigndomain.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return campaigndomain.Campaign{}, campaigndomain.ErrNotFound
		}
		return campaigndomain.Campaign{}, err
	}
	return campaign, nil
}

func (s *Service) draw(min, max float64) float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return min + s.rng.Float64()*(max-min)
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
