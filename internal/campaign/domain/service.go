package domain

import (
	"context"
	"errors"

	"github.com/kampahq/kampa/internal/providers/sender"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
)

type CreateCampaignRequest struct {
	Title           string
	ContentTemplate string
	Criteria        segmentdomain.Criteria
}

type Service interface {
	Create(context.Context, CreateCampaignRequest) (Campaign, error)
	Launch(ctx context.Context, id string, snd sender.Sender) (LaunchResult, error)
	List(context.Context) ([]Campaign, error)
	GetByID(ctx context.Context, id string) (Campaign, error)
	Drafts(context.Context) ([]Campaign, error)
	SentCampaigns(context.Context) ([]Campaign, error)
}

var (
	ErrEmptyTitle    = errors.New("empty_title")
	ErrEmptyTemplate = errors.New("empty_template")
	ErrEmptyCriteria = errors.New("empty_criteria")
	ErrNotFound      = errors.New("not_found")
	ErrAlreadySent   = errors.New("already_sent")
)
