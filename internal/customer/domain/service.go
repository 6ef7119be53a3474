package domain

import (
	"context"
	"errors"

	"github.com/kampahq/kampa/pkg/money"
)

type CreateCustomerRequest struct {
	Name          string
	Email         string
	City          string
	Age           int
	SpendingScore int
	TotalSpent    money.Amount
	IsActive      bool
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidCity          = errors.New("invalid_city")
	ErrInvalidAge           = errors.New("invalid_age")
	ErrInvalidSpendingScore = errors.New("invalid_spending_score")
	ErrInvalidTotalSpent    = errors.New("invalid_total_spent")
	ErrNotFound             = errors.New("not_found")
)
