// Command seedrules loads the built-in notified-rule schedule into the
// database so rates and patterns can be amended without a code release.
// Usage: go run ./cmd/seedrules
package main

import (
	"context"
	"fmt"
	"log"

	"rcmbooks/internal/config"
	"rcmbooks/internal/repository/postgres"
	"rcmbooks/internal/rules"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ruleRepo := postgres.NewRuleRepo(db)
	ctx := context.Background()

	seeded := rules.SeedRules()
	for i := range seeded {
		if err := ruleRepo.Upsert(ctx, &seeded[i]); err != nil {
			return fmt.Errorf("upsert rule %s: %w", seeded[i].ID, err)
		}
	}

	log.Printf("seeded %d notified rules", len(seeded))
	return nil
}
