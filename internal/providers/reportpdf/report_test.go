package reportpdf

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCampaignReport(t *testing.T) {
	provider := New()

	reader, err := provider.GenerateCampaignReport(context.Background(), ReportData{
		Title:       "Spring Sale",
		CampaignID:  "cmp_001",
		Status:      "Sent",
		CreatedAt:   "2026-03-10T09:00:00Z",
		GeneratedAt: "2026-03-12T14:30:00Z",
		Sent:        100,
		Opened:      40,
		Clicked:     8,
		Metrics: []MetricRow{
			{Name: "Delivery rate", Value: "100.00%"},
			{Name: "Open rate", Value: "40.00%"},
			{Name: "Click rate", Value: "20.00%"},
			{Name: "Click-through rate", Value: "8.00%"},
			{Name: "Predicted ROI", Value: "120.00"},
			{Name: "Engagement score", Value: "56.0"},
		},
		Cities: []DistributionRow{
			{Name: "Istanbul", Share: "40"},
			{Name: "Ankara", Share: "25"},
		},
		Devices: []DistributionRow{
			{Name: "mobile", Share: "57.5%"},
			{Name: "desktop", Share: "35.3%"},
			{Name: "tablet", Share: "7.2%"},
		},
	})
	require.NoError(t, err)

	raw, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
	assert.Greater(t, len(raw), 1000)
}

func TestGenerateCampaignReportWithoutDistributions(t *testing.T) {
	provider := New()

	reader, err := provider.GenerateCampaignReport(context.Background(), ReportData{
		Title:      "Draft Teaser",
		CampaignID: "cmp_002",
		Status:     "Draft",
	})
	require.NoError(t, err)

	raw, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
