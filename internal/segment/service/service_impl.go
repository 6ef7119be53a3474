package service

import (
	"context"
	"math"
	"sort"

	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/internal/segment/domain"
	"github.com/kampahq/kampa/pkg/money"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	CustomerSvc customerdomain.Service
}

type Service struct {
	log         *zap.Logger
	customerSvc customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("segment.service"),
		customerSvc: p.CustomerSvc,
	}
}

func (s *Service) Filter(ctx context.Context, criteria domain.Criteria) ([]customerdomain.Customer, error) {
	customers, err := s.customerSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(customers, func(c customerdomain.Customer, _ int) bool {
		return criteria.Matches(c)
	}), nil
}

// Statistics aggregates a matched segment. An empty segment yields the
// zero aggregate; no division is attempted.
func (s *Service) Statistics(customers []customerdomain.Customer) domain.Statistics {
	if len(customers) == 0 {
		return domain.Statistics{}
	}

	count := len(customers)
	ageSum := lo.SumBy(customers, func(c customerdomain.Customer) int { return c.Age })
	scoreSum := lo.SumBy(customers, func(c customerdomain.Customer) int { return c.SpendingScore })
	revenue := lo.Reduce(customers, func(total money.Amount, c customerdomain.Customer, _ int) money.Amount {
		return total.Add(c.TotalSpent)
	}, money.Amount{})

	avgRevenue := money.New(revenue.Div(decimal.NewFromInt(int64(count))))

	return domain.Statistics{
		TotalCount:            count,
		ActiveCount:           lo.CountBy(customers, func(c customerdomain.Customer) bool { return c.IsActive }),
		AvgAge:                round1(float64(ageSum) / float64(count)),
		AvgSpendingScore:      round1(float64(scoreSum) / float64(count)),
		TotalRevenue:          revenue.Round(2),
		AvgRevenuePerCustomer: avgRevenue.Round(2),
	}
}

func (s *Service) Cities(ctx context.Context) ([]string, error) {
	customers, err := s.customerSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	cities := lo.Uniq(lo.Map(customers, func(c customerdomain.Customer, _ int) string {
		return c.City
	}))
	sort.Strings(cities)
	return cities, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
