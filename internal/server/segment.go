package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
	"github.com/samber/lo"
)

const audiencePreviewSize = 10

type audiencePreviewEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
}

func audiencePreview(customers []customerdomain.Customer) []audiencePreviewEntry {
	sample := lo.Slice(customers, 0, audiencePreviewSize)
	return lo.Map(sample, func(c customerdomain.Customer, _ int) audiencePreviewEntry {
		return audiencePreviewEntry{
			ID:    c.ID,
			Name:  c.Name,
			Email: c.Email,
			City:  c.City,
		}
	})
}

type segmentPreviewResponse struct {
	Criteria     segmentdomain.Criteria   `json:"criteria"`
	MatchedCount int                      `json:"matched_count"`
	Statistics   segmentdomain.Statistics `json:"statistics"`
	Preview      []audiencePreviewEntry   `json:"preview"`
}

// PreviewSegment evaluates criteria against the current base without
// creating anything.
func (s *Server) PreviewSegment(c *gin.Context) {
	var criteria segmentdomain.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	matched, err := s.segmentSvc.Filter(c.Request.Context(), criteria)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := segmentPreviewResponse{
		Criteria:     criteria,
		MatchedCount: len(matched),
		Statistics:   s.segmentSvc.Statistics(matched),
		Preview:      audiencePreview(matched),
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSegmentCities(c *gin.Context) {
	cities, err := s.segmentSvc.Cities(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cities})
}
