package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"isp-selfcare/internal/config"
	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/domain/ports/repository"
	pg "isp-selfcare/internal/infra/db/postgres"
	"isp-selfcare/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool))
	userRepo := pg.NewUserRepo(pool)

	seedDemoUser(ctx, userRepo)

	// If plans already exist, do nothing
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (%s, %s, %s/%s)\n", p.Name, p.Speed, p.DataLimit, model.MajorString(p.PriceMinor), p.BillingCycle)
		}
		return
	}

	seed := []struct {
		Name      string
		Desc      string
		Price     float64 // major units
		Cycle     string
		Speed     string
		DataLimit string
	}{
		{"Home Basic", "Entry plan for browsing and email", 4_999.99, "monthly", "10 Mbps", "100 GB"},
		{"Home Plus", "Streaming and remote work", 9_999.99, "monthly", "50 Mbps", "500 GB"},
		{"Home Max", "Heavy households, no cap", 19_999.99, "monthly", "200 Mbps", "unlimited"},
		{"Annual Plus", "Home Plus paid once a year", 99_999.99, "yearly", "50 Mbps", "500 GB"},
	}

	for _, s := range seed {
		p, err := planUC.Create(ctx, s.Name, s.Desc, s.Price, s.Cycle, s.Speed, s.DataLimit)
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, %s, %s, %s/%s)\n", p.Name, p.ID, p.Speed, p.DataLimit, model.MajorString(p.PriceMinor), p.BillingCycle)
	}

	fmt.Println("Seeding complete.")
}

// seedDemoUser puts one known customer in place for smoke-testing the
// payment flow against a sandbox gateway.
func seedDemoUser(ctx context.Context, users repository.UserRepository) {
	const email = "demo@example.com"
	if _, err := users.FindByEmail(ctx, repository.NoTX, email); err == nil {
		return
	}
	u, err := model.NewUser(uuid.NewString(), email, "Demo Customer")
	if err != nil {
		log.Fatalf("demo user: %v", err)
	}
	if err := users.Save(ctx, repository.NoTX, u); err != nil {
		log.Fatalf("save demo user: %v", err)
	}
	fmt.Printf("seeded demo user %s (id=%s)\n", u.Email, u.ID)
}
