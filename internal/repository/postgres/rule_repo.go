package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type ruleRepo struct {
	db *sqlx.DB
}

// NewRuleRepo creates a new PostgreSQL-backed NotifiedRuleRepository.
func NewRuleRepo(db *sqlx.DB) port.NotifiedRuleRepository {
	return &ruleRepo{db: db}
}

// code_patterns is stored comma-joined; patterns are bare HSN/SAC prefixes
// and never contain commas.
type ruleRow struct {
	ID              uuid.UUID       `db:"id"`
	Kind            string          `db:"kind"`
	CodePatterns    string          `db:"code_patterns"`
	Description     string          `db:"description"`
	GSTRate         decimal.Decimal `db:"gst_rate"`
	EffectiveFrom   time.Time       `db:"effective_from"`
	EffectiveTo     *time.Time      `db:"effective_to"`
	NotificationRef string          `db:"notification_ref"`
	IsActive        bool            `db:"is_active"`
	Priority        int             `db:"priority"`
	CreatedAt       time.Time       `db:"created_at"`
}

func (row *ruleRow) toDomain() domain.NotifiedRule {
	return domain.NotifiedRule{
		ID:              row.ID,
		Kind:            domain.RuleKind(row.Kind),
		CodePatterns:    strings.Split(row.CodePatterns, ","),
		Description:     row.Description,
		GSTRate:         row.GSTRate,
		EffectiveFrom:   row.EffectiveFrom,
		EffectiveTo:     row.EffectiveTo,
		NotificationRef: row.NotificationRef,
		IsActive:        row.IsActive,
		Priority:        row.Priority,
		CreatedAt:       row.CreatedAt,
	}
}

func (r *ruleRepo) LoadAll(ctx context.Context) ([]domain.NotifiedRule, error) {
	var rows []ruleRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM notified_rules ORDER BY priority DESC, effective_from DESC")
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.LoadAll: %w", err)
	}
	out := make([]domain.NotifiedRule, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *ruleRepo) Upsert(ctx context.Context, rule *domain.NotifiedRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO notified_rules (
		id, kind, code_patterns, description, gst_rate,
		effective_from, effective_to, notification_ref, is_active, priority, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		kind = EXCLUDED.kind,
		code_patterns = EXCLUDED.code_patterns,
		description = EXCLUDED.description,
		gst_rate = EXCLUDED.gst_rate,
		effective_from = EXCLUDED.effective_from,
		effective_to = EXCLUDED.effective_to,
		notification_ref = EXCLUDED.notification_ref,
		is_active = EXCLUDED.is_active,
		priority = EXCLUDED.priority`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Kind, strings.Join(rule.CodePatterns, ","), rule.Description, rule.GSTRate,
		rule.EffectiveFrom, rule.EffectiveTo, rule.NotificationRef, rule.IsActive, rule.Priority, rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("ruleRepo.Upsert: %w", err)
	}
	return nil
}
