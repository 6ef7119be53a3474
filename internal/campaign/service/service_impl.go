package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kampahq/kampa/internal/campaign/domain"
	"github.com/kampahq/kampa/internal/clock"
	"github.com/kampahq/kampa/internal/config"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/internal/ids"
	obsmetrics "github.com/kampahq/kampa/internal/observability/metrics"
	"github.com/kampahq/kampa/internal/providers/sender"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
	"github.com/kampahq/kampa/pkg/docstore"
	"github.com/kampahq/kampa/pkg/isotime"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config     config.Config
	Store      *docstore.Store
	Log        *zap.Logger
	GenID      ids.Generator
	Clock      clock.Clock
	SegmentSvc segmentdomain.Service
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      ids.Generator
	clock      clock.Clock
	segmentSvc segmentdomain.Service
	metrics    *obsmetrics.Metrics
	repo       *docstore.Collection[domain.Campaign]
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("campaign.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		segmentSvc: p.SegmentSvc,
		metrics:    p.Metrics,
		repo: docstore.ProvideCollection(p.Store, p.Config.CampaignsFile, func(c domain.Campaign) string {
			return c.ID
		}),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCampaignRequest) (domain.Campaign, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Campaign{}, domain.ErrEmptyTitle
	}

	template := strings.TrimSpace(req.ContentTemplate)
	if template == "" {
		return domain.Campaign{}, domain.ErrEmptyTemplate
	}

	if req.Criteria.IsZero() {
		return domain.Campaign{}, domain.ErrEmptyCriteria
	}

	campaign := domain.Campaign{
		ID:              s.genID.NewID(),
		Title:           title,
		ContentTemplate: template,
		Criteria:        req.Criteria,
		Status:          domain.StatusDraft,
		CreatedAt:       isotime.New(s.clock.Now()),
	}

	saved, err := s.repo.Insert(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, err
	}

	s.metrics.IncCampaignCreated()
	return saved, nil
}

// Launch resolves the audience and attempts delivery to each member
// exactly once, in filter order. Individual send failures are counted,
// never fatal. The Draft to Sent transition happens once; a sent
// campaign can never be relaunched.
func (s *Service) Launch(ctx context.Context, id string, snd sender.Sender) (domain.LaunchResult, error) {
	campaign, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.LaunchResult{}, err
	}
	if campaign.Status == domain.StatusSent {
		return domain.LaunchResult{}, domain.ErrAlreadySent
	}

	audience, err := s.segmentSvc.Filter(ctx, campaign.Criteria)
	if err != nil {
		return domain.LaunchResult{}, err
	}

	launchID := ulid.Make().String()
	log := s.log.With(
		zap.String("campaign_id", campaign.ID),
		zap.String("launch_id", launchID),
	)

	if len(audience) == 0 {
		log.Warn("launch skipped, criteria matched no customers")
		s.metrics.IncCampaignLaunch(obsmetrics.LaunchResultEmptyAudience)
		return domain.LaunchResult{
			CampaignID: campaign.ID,
			LaunchID:   launchID,
		}, nil
	}

	var sent, failed int
	for _, customer := range audience {
		content := personalize(campaign.ContentTemplate, customer)
		if err := snd.Send(ctx, customer.Email, campaign.Title, content); err != nil {
			failed++
			log.Warn("send failed",
				zap.String("customer_id", customer.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	campaign.Status = domain.StatusSent
	campaign.Stats = domain.Stats{Sent: sent, Failed: failed}
	if _, err := s.repo.Update(ctx, campaign.ID, campaign); err != nil {
		return domain.LaunchResult{}, err
	}

	log.Info("campaign launched",
		zap.Int("audience", len(audience)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	s.metrics.IncCampaignLaunch(obsmetrics.LaunchResultSent)
	s.metrics.AddEmailsSent(sent)
	s.metrics.AddEmailsFailed(failed)

	return domain.LaunchResult{
		CampaignID:         campaign.ID,
		LaunchID:           launchID,
		Success:            true,
		EmailsSent:         sent,
		EmailsFailed:       failed,
		TargetAudienceSize: len(audience),
	}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Campaign, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, err
	}
	return item, nil
}

func (s *Service) Drafts(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.Find(ctx, func(c domain.Campaign) bool {
		return c.Status == domain.StatusDraft
	})
}

func (s *Service) SentCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.Find(ctx, func(c domain.Campaign) bool {
		return c.Status == domain.StatusSent
	})
}

// personalize substitutes the placeholders literally, position
// independent. Placeholder text inside customer data is substituted as
// well; callers accept that in exchange for not needing an escaping
// template engine.
func personalize(template string, c customerdomain.Customer) string {
	content := strings.ReplaceAll(template, "{name}", c.Name)
	content = strings.ReplaceAll(content, "{email}", c.Email)
	content = strings.ReplaceAll(content, "{city}", c.City)
	return content
}
