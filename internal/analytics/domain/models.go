package domain

import (
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
)

// Performance is the derived scorecard for one campaign. Rates are
// percentages rounded to two decimals. EngagementScore is a weighted
// blend of open and click-through rates, capped at 100 and rounded to
// one decimal. Every rate with a zero denominator reports as 0.
type Performance struct {
	CampaignID       string                 `json:"campaign_id"`
	Title            string                 `json:"title"`
	Status           campaigndomain.Status  `json:"status"`
	Criteria         segmentdomain.Criteria `json:"target_segment_criteria"`
	Stats            campaigndomain.Stats   `json:"stats"`
	DeliveryRate     float64                `json:"delivery_rate"`
	OpenRate         float64                `json:"open_rate"`
	ClickRate        float64                `json:"click_rate"`
	ClickThroughRate float64                `json:"click_through_rate"`
	ROIPrediction    float64                `json:"roi_prediction"`
	EngagementScore  float64                `json:"engagement_score"`
}

const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
	DeviceTablet  = "tablet"
)
