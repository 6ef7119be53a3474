package domain

import (
	"strings"

	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/pkg/money"
)

// Criteria is a set of optional bounds combined with AND. A nil field
// imposes no constraint on that dimension.
type Criteria struct {
	City             *string       `json:"city,omitempty"`
	MinAge           *int          `json:"min_age,omitempty"`
	MaxAge           *int          `json:"max_age,omitempty"`
	MinSpendingScore *int          `json:"min_spending_score,omitempty"`
	MaxSpendingScore *int          `json:"max_spending_score,omitempty"`
	MinSpent         *money.Amount `json:"min_spent,omitempty"`
	MaxSpent         *money.Amount `json:"max_spent,omitempty"`
	IsActive         *bool         `json:"is_active,omitempty"`
}

// IsZero reports whether no bound is set. Zero criteria match the whole
// population, which is distinct from criteria that match nobody.
func (c Criteria) IsZero() bool {
	return c.City == nil &&
		c.MinAge == nil && c.MaxAge == nil &&
		c.MinSpendingScore == nil && c.MaxSpendingScore == nil &&
		c.MinSpent == nil && c.MaxSpent == nil &&
		c.IsActive == nil
}

// Matches reports whether every present bound holds for the customer.
// The city comparison is case-insensitive, numeric bounds are inclusive
// and is_active is exact equality.
func (c Criteria) Matches(customer customerdomain.Customer) bool {
	if c.City != nil && !strings.EqualFold(*c.City, customer.City) {
		return false
	}
	if c.MinAge != nil && customer.Age < *c.MinAge {
		return false
	}
	if c.MaxAge != nil && customer.Age > *c.MaxAge {
		return false
	}
	if c.MinSpendingScore != nil && customer.SpendingScore < *c.MinSpendingScore {
		return false
	}
	if c.MaxSpendingScore != nil && customer.SpendingScore > *c.MaxSpendingScore {
		return false
	}
	if c.MinSpent != nil && customer.TotalSpent.LessThan(c.MinSpent.Decimal) {
		return false
	}
	if c.MaxSpent != nil && customer.TotalSpent.GreaterThan(c.MaxSpent.Decimal) {
		return false
	}
	if c.IsActive != nil && customer.IsActive != *c.IsActive {
		return false
	}
	return true
}

// Statistics aggregates a matched segment.
type Statistics struct {
	TotalCount            int          `json:"total_count"`
	ActiveCount           int          `json:"active_count"`
	AvgAge                float64      `json:"avg_age"`
	AvgSpendingScore      float64      `json:"avg_spending_score"`
	TotalRevenue          money.Amount `json:"total_revenue"`
	AvgRevenuePerCustomer money.Amount `json:"avg_revenue_per_customer"`
}
