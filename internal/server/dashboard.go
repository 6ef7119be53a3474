package server

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/pkg/isotime"
	"github.com/samber/lo"
)

const recentCampaignLimit = 5

type DashboardResponse struct {
	Customers DashboardCustomers `json:"customers"`
	Campaigns DashboardCampaigns `json:"campaigns"`
	Recent    []RecentCampaign   `json:"recent_campaigns"`
}

type DashboardCustomers struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type DashboardCampaigns struct {
	Total      int `json:"total"`
	Drafts     int `json:"drafts"`
	Sent       int `json:"sent"`
	EmailsSent int `json:"emails_sent"`
}

type RecentCampaign struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Status    campaigndomain.Status `json:"status"`
	CreatedAt isotime.Time          `json:"created_at"`
}

func (s *Server) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	customers, err := s.customerSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	campaigns, err := s.campaignSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sorted := make([]campaigndomain.Campaign, len(campaigns))
	copy(sorted, campaigns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Time.After(sorted[j].CreatedAt.Time)
	})

	resp := DashboardResponse{
		Customers: DashboardCustomers{
			Total: len(customers),
			Active: lo.CountBy(customers, func(c customerdomain.Customer) bool {
				return c.IsActive
			}),
		},
		Campaigns: DashboardCampaigns{
			Total: len(campaigns),
			Drafts: lo.CountBy(campaigns, func(c campaigndomain.Campaign) bool {
				return c.Status == campaigndomain.StatusDraft
			}),
			Sent: lo.CountBy(campaigns, func(c campaigndomain.Campaign) bool {
				return c.Status == campaigndomain.StatusSent
			}),
			EmailsSent: lo.SumBy(campaigns, func(c campaigndomain.Campaign) int {
				return c.Stats.Sent
			}),
		},
		Recent: lo.Map(lo.Slice(sorted, 0, recentCampaignLimit), func(c campaigndomain.Campaign, _ int) RecentCampaign {
			return RecentCampaign{
				ID:        c.ID,
				Title:     c.Title,
				Status:    c.Status,
				CreatedAt: c.CreatedAt,
			}
		}),
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
