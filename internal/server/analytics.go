package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCampaignPerformance(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.analyticsSvc.Performance(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SimulateCampaignEngagement(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.analyticsSvc.SimulateEngagement(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCampaignGeography(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.analyticsSvc.GeographicDistribution(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCampaignDevices(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.analyticsSvc.DeviceDistribution(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
