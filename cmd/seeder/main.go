package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	campaigndomain "github.com/kampahq/kampa/internal/campaign/domain"
	"github.com/kampahq/kampa/internal/config"
	customerdomain "github.com/kampahq/kampa/internal/customer/domain"
	"github.com/kampahq/kampa/internal/ids"
	"github.com/kampahq/kampa/internal/seed"
	"github.com/kampahq/kampa/pkg/docstore"
	"go.uber.org/zap"
)

func main() {
	count := flag.Int("count", 50, "number of demo customers")
	withCampaign := flag.Bool("campaign", true, "also seed a sample draft campaign")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed for reproducible runs")
	flag.Parse()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store := docstore.Open(cfg.DataDir, logger)
	rng := rand.New(rand.NewSource(*seedValue))
	genID := ids.NewGenerator()

	customers := docstore.ProvideCollection(store, cfg.CustomersFile, func(c customerdomain.Customer) string {
		return c.ID
	})
	inserted, err := seed.EnsureCustomers(ctx, customers, rng, genID, *count)
	if err != nil {
		log.Fatalf("seed customers: %v", err)
	}
	if inserted > 0 {
		log.Printf("Seeded %d customers into %s/%s", inserted, cfg.DataDir, cfg.CustomersFile)
	} else {
		log.Printf("Customer collection already populated, skipping")
	}

	if *withCampaign {
		campaigns := docstore.ProvideCollection(store, cfg.CampaignsFile, func(c campaigndomain.Campaign) string {
			return c.ID
		})
		created, err := seed.EnsureSampleCampaign(ctx, campaigns, genID, time.Now().UTC())
		if err != nil {
			log.Fatalf("seed campaign: %v", err)
		}
		if created {
			log.Printf("Seeded sample draft campaign into %s/%s", cfg.DataDir, cfg.CampaignsFile)
		}
	}

	log.Println("Seeding completed")
}
