package domain

import (
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
	"github.com/kampahq/kampa/pkg/isotime"
)

type Status string

const (
	StatusDraft Status = "Draft"
	StatusSent  Status = "Sent"
)

// Stats is a value; updates replace it wholesale so no two callers ever
// share a live counters object.
type Stats struct {
	Sent    int `json:"sent"`
	Opened  int `json:"opened"`
	Clicked int `json:"clicked"`
	Failed  int `json:"failed"`
}

type Campaign struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	ContentTemplate string                 `json:"content_template"`
	Criteria        segmentdomain.Criteria `json:"target_segment_criteria"`
	Status          Status                 `json:"status"`
	CreatedAt       isotime.Time           `json:"created_at"`
	Stats           Stats                  `json:"stats"`
}

// LaunchResult reports one launch attempt. Success is false when the
// criteria matched nobody; the campaign then stays Draft and may be
// launched again once the customer base changes.
type LaunchResult struct {
	CampaignID         string `json:"campaign_id"`
	LaunchID           string `json:"launch_id"`
	Success            bool   `json:"success"`
	EmailsSent         int    `json:"emails_sent"`
	EmailsFailed       int    `json:"emails_failed"`
	TargetAudienceSize int    `json:"target_audience_size"`
}
