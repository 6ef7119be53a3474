package domain

import (
	"context"

	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
)

type Service interface {
	Filter(ctx context.Context, criteria Criteria) ([]customerdomain.Customer, error)
	Statistics(customers []customerdomain.Customer) Statistics
	Cities(ctx context.Context) ([]string, error)
}
