package port

import (
	"context"

	"rcmbooks/internal/domain"
)

// NotifiedRuleRepository defines the contract for notified-supply rule data
// access. The full rule set is loaded once at startup into an in-memory
// registry; writes only happen through the seeding command.
type NotifiedRuleRepository interface {
	LoadAll(ctx context.Context) ([]domain.NotifiedRule, error)
	Upsert(ctx context.Context, rule *domain.NotifiedRule) error
}
