package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kampahq/kampa/internal/config"
	"github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/internal/ids"
	"github.com/kampahq/kampa/pkg/docstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Store  *docstore.Store
	Log    *zap.Logger
	GenID  ids.Generator
}

type Service struct {
	log   *zap.Logger
	genID ids.Generator
	repo  *docstore.Collection[domain.Customer]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo: docstore.ProvideCollection(p.Store, p.Config.CustomersFile, func(c domain.Customer) string {
			return c.ID
		}),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		return domain.Customer{}, domain.ErrInvalidCity
	}

	if req.Age <= 0 {
		return domain.Customer{}, domain.ErrInvalidAge
	}
	if req.SpendingScore < 1 || req.SpendingScore > 100 {
		return domain.Customer{}, domain.ErrInvalidSpendingScore
	}
	if req.TotalSpent.IsNegative() {
		return domain.Customer{}, domain.ErrInvalidTotalSpent
	}

	customer := domain.Customer{
		ID:            s.genID.NewID(),
		Name:          name,
		Email:         email,
		City:          city,
		Age:           req.Age,
		SpendingScore: req.SpendingScore,
		TotalSpent:    req.TotalSpent,
		IsActive:      req.IsActive,
	}

	return s.repo.Insert(ctx, customer)
}

func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
