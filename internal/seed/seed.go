package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gosimple/slug"
	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/internal/ids"
	segmentdomain "github.com/kampahq/kampa/internal/segment/domain"
	"github.com/kampahq/kampa/pkg/docstore"
	"github.com/kampahq/kampa/pkg/isotime"
	"github.com/kampahq/kampa/pkg/money"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var firstNames = []string{
	"Ayşe", "Fatma", "Mehmet", "Mustafa", "Emre", "Elif", "Zeynep", "Ahmet",
	"Can", "Cem", "Deniz", "Ece", "Burak", "Selin", "Murat", "Hülya",
	"Kerem", "Leyla", "Ozan", "Pınar",
}

var lastNames = []string{
	"Yılmaz", "Kaya", "Demir", "Şahin", "Çelik", "Yıldız", "Yıldırım", "Öztürk",
	"Aydın", "Arslan", "Doğan", "Kılıç", "Çetin", "Koç", "Kurt", "Özdemir",
}

var cities = []string{
	"Istanbul", "Ankara", "Izmir", "Bursa", "Antalya", "Adana", "Gaziantep", "Konya",
}

var emailDomains = []string{
	"gmail.com", "hotmail.com", "yandex.com", "outlook.com",
}

// Customers generates count demo customers. The output is fully
// determined by rng and the ID generator, so a fixed seed reproduces
// the same base.
func Customers(rng *rand.Rand, genID ids.Generator, count int) []customerdomain.Customer {
	customers := make([]customerdomain.Customer, 0, count)
	for i := 0; i < count; i++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		customers = append(customers, customerdomain.Customer{
			ID:            genID.NewID(),
			Name:          name,
			Email:         emailFor(rng, name),
			City:          cities[rng.Intn(len(cities))],
			Age:           18 + rng.Intn(48),
			SpendingScore: 1 + rng.Intn(100),
			TotalSpent:    money.New(decimal.New(10000+rng.Int63n(4990001), -2)),
			IsActive:      rng.Float64() < 0.75,
		})
	}
	return customers
}

// emailFor derives an ASCII address from a Turkish name, so
// "Ayşe Yılmaz" becomes something like ayse.yilmaz42@gmail.com.
func emailFor(rng *rand.Rand, name string) string {
	local := strings.ReplaceAll(slug.Make(name), "-", ".")
	return fmt.Sprintf("%s%d@%s", local, rng.Intn(100), emailDomains[rng.Intn(len(emailDomains))])
}

// EnsureCustomers fills an empty customer collection with demo data.
// A non-empty collection is left alone, so repeated runs don't pile up.
func EnsureCustomers(ctx context.Context, repo *docstore.Collection[customerdomain.Customer], rng *rand.Rand, genID ids.Generator, count int) (int, error) {
	existing, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	customers := Customers(rng, genID, count)
	if err := repo.InsertBatch(ctx, customers); err != nil {
		return 0, err
	}
	return len(customers), nil
}

// EnsureSampleCampaign adds one launchable draft to an empty campaign
// collection. Reports whether it created anything.
func EnsureSampleCampaign(ctx context.Context, repo *docstore.Collection[campaigndomain.Campaign], genID ids.Generator, now time.Time) (bool, error) {
	existing, err := repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	campaign := campaigndomain.Campaign{
		ID:              genID.NewID(),
		Title:           "Welcome Campaign",
		ContentTemplate: "Hi {name}, fresh deals for {city} are waiting in your inbox at {email}.",
		Criteria: segmentdomain.Criteria{
			City:     lo.ToPtr("Istanbul"),
			IsActive: lo.ToPtr(true),
		},
		Status:    campaigndomain.StatusDraft,
		CreatedAt: isotime.New(now),
	}
	if _, err := repo.Insert(ctx, campaign); err != nil {
		return false, err
	}
	return true, nil
}
