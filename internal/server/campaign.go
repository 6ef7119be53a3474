package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
)

type createCampaignRequest struct {
	Title           string                 `json:"title"`
	ContentTemplate string                 `json:"content_template"`
	Criteria        segmentdomain.Criteria `json:"target_segment_criteria"`
}

type campaignDetailResponse struct {
	Campaign        campaigndomain.Campaign `json:"campaign"`
	AudienceSize    int                     `json:"audience_size"`
	AudiencePreview []audiencePreviewEntry  `json:"audience_preview"`
}

func (s *Server) CreateCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.campaignSvc.Create(c.Request.Context(), campaigndomain.CreateCampaignRequest{
		Title:           strings.TrimSpace(req.Title),
		ContentTemplate: req.ContentTemplate,
		Criteria:        req.Criteria,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCampaigns(c *gin.Context) {
	var (
		resp []campaigndomain.Campaign
		err  error
	)

	switch strings.ToLower(strings.TrimSpace(c.Query("status"))) {
	case "":
		resp, err = s.campaignSvc.List(c.Request.Context())
	case "draft":
		resp, err = s.campaignSvc.Drafts(c.Request.Context())
	case "sent":
		resp, err = s.campaignSvc.SentCampaigns(c.Request.Context())
	default:
		AbortWithError(c, newValidationError("status", "invalid_status", "status must be draft or sent"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetCampaignByID returns the campaign along with who it would reach
// right now. The preview reflects the current base, not the base at
// launch time.
func (s *Server) GetCampaignByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	campaign, err := s.campaignSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	audience, err := s.segmentSvc.Filter(c.Request.Context(), campaign.Criteria)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := campaignDetailResponse{
		Campaign:        campaign,
		AudienceSize:    len(audience),
		AudiencePreview: audiencePreview(audience),
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) LaunchCampaign(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	result, err := s.campaignSvc.Launch(c.Request.Context(), id, s.snd)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func isCampaignValidationError(err error) bool {
	switch err {
	case campaigndomain.ErrEmptyTitle,
		campaigndomain.ErrEmptyTemplate,
		campaigndomain.ErrEmptyCriteria:
		return true
	default:
		return false
	}
}
