package domain

import (
	"github.com/kampahq/kampa/pkg/money"
)

// Customer is immutable after creation; there is no update path.
type Customer struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	City          string       `json:"city"`
	Age           int          `json:"age"`
	SpendingScore int          `json:"spending_score"`
	TotalSpent    money.Amount `json:"total_spent"`
	IsActive      bool         `json:"is_active"`
}
