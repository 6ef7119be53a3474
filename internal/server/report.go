package server

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/kampahq/kampa/internal/analytics/domain"
	"github.com/kampahq/kampa/internal/providers/reportpdf"
	"github.com/samber/lo"
)

// GetCampaignReport renders the performance scorecard as a downloadable
// PDF.
func (s *Server) GetCampaignReport(c *gin.Context) {
	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))

	campaign, err := s.campaignSvc.GetByID(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	perf, err := s.analyticsSvc.Performance(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	geography, err := s.analyticsSvc.GeographicDistribution(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	devices, err := s.analyticsSvc.DeviceDistribution(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := reportpdf.ReportData{
		Title:       campaign.Title,
		CampaignID:  campaign.ID,
		Status:      string(campaign.Status),
		CreatedAt:   campaign.CreatedAt.UTC().Format(time.RFC3339),
		GeneratedAt: s.clock.Now().Format(time.RFC3339),
		Sent:        campaign.Stats.Sent,
		Opened:      campaign.Stats.Opened,
		Clicked:     campaign.Stats.Clicked,
		Failed:      campaign.Stats.Failed,
		Metrics: []reportpdf.MetricRow{
			{Name: "Delivery rate", Value: fmt.Sprintf("%.2f%%", perf.DeliveryRate)},
			{Name: "Open rate", Value: fmt.Sprintf("%.2f%%", perf.OpenRate)},
			{Name: "Click rate", Value: fmt.Sprintf("%.2f%%", perf.ClickRate)},
			{Name: "Click-through rate", Value: fmt.Sprintf("%.2f%%", perf.ClickThroughRate)},
			{Name: "Predicted ROI", Value: fmt.Sprintf("%.2f", perf.ROIPrediction)},
			{Name: "Engagement score", Value: fmt.Sprintf("%.1f", perf.EngagementScore)},
		},
		Cities:  cityRows(geography),
		Devices: deviceRows(devices),
	}

	reader, err := s.reports.GenerateCampaignReport(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "campaign-"+campaign.ID+"-report.pdf"))
	c.Data(http.StatusOK, "application/pdf", raw)
}

func cityRows(distribution map[string]int) []reportpdf.DistributionRow {
	entries := lo.Entries(distribution)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Key < entries[j].Key
	})
	return lo.Map(entries, func(e lo.Entry[string, int], _ int) reportpdf.DistributionRow {
		return reportpdf.DistributionRow{Name: e.Key, Share: strconv.Itoa(e.Value)}
	})
}

func deviceRows(distribution map[string]float64) []reportpdf.DistributionRow {
	order := []string{
		analyticsdomain.DeviceMobile,
		analyticsdomain.DeviceDesktop,
		analyticsdomain.DeviceTablet,
	}
	rows := make([]reportpdf.DistributionRow, 0, len(order))
	for _, device := range order {
		rows = append(rows, reportpdf.DistributionRow{
			Name:  device,
			Share: fmt.Sprintf("%.1f%%", distribution[device]),
		})
	}
	return rows
}
