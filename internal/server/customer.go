package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/pkg/money"
)

type createCustomerRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	City          string  `json:"city"`
	Age           int     `json:"age"`
	SpendingScore int     `json:"spending_score"`
	TotalSpent    float64 `json:"total_spent"`
	IsActive      *bool   `json:"is_active"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// New customers are active unless the caller says otherwise.
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		City:          strings.TrimSpace(req.City),
		Age:           req.Age,
		SpendingScore: req.SpendingScore,
		TotalSpent:    money.FromFloat(req.TotalSpent),
		IsActive:      isActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.customerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.customerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isCustomerValidationError(err error) bool {
	switch err {
	case customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidEmail,
		customerdomain.ErrInvalidCity,
		customerdomain.ErrInvalidAge,
		customerdomain.ErrInvalidSpendingScore,
		customerdomain.ErrInvalidTotalSpent:
		return true
	default:
		return false
	}
}
