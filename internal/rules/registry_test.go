package rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcmbooks/internal/domain"
)

func ruleAt(patterns []string, from time.Time, to *time.Time, priority int, active bool) domain.NotifiedRule {
	return domain.NotifiedRule{
		ID:            uuid.New(),
		Kind:          domain.RuleKindService,
		CodePatterns:  patterns,
		GSTRate:       d("18"),
		EffectiveFrom: from,
		EffectiveTo:   to,
		IsActive:      active,
		Priority:      priority,
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "998213", NormalizeCode("9982-13"))
	assert.Equal(t, "998213", NormalizeCode(" 99 82.13 "))
	assert.Equal(t, "998213", NormalizeCode("9982/13"))
	assert.Equal(t, "", NormalizeCode(""))
}

func TestRegistry_Match_PrefixAndExact(t *testing.T) {
	from := time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry([]domain.NotifiedRule{
		ruleAt([]string{"9982"}, from, nil, 10, true),
	})
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.NotNil(t, reg.Match("9982", asOf), "exact match")
	assert.NotNil(t, reg.Match("998213", asOf), "prefix match")
	assert.NotNil(t, reg.Match("9982-13", asOf), "normalized match")
	assert.Nil(t, reg.Match("9965", asOf), "non-matching code")
	assert.Nil(t, reg.Match("", asOf), "empty code")
}

func TestRegistry_Match_EffectiveWindow(t *testing.T) {
	from := time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, time.March, 31, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry([]domain.NotifiedRule{
		ruleAt([]string{"9965"}, from, &to, 10, true),
	})

	assert.Nil(t, reg.Match("9965", from.AddDate(0, 0, -1)), "before effective_from")
	assert.NotNil(t, reg.Match("9965", from), "effective_from boundary is inclusive")
	assert.NotNil(t, reg.Match("9965", to), "effective_to boundary is inclusive")
	assert.Nil(t, reg.Match("9965", to.AddDate(0, 0, 1)), "after effective_to")
}

func TestRegistry_Match_InactiveSkipped(t *testing.T) {
	from := time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry([]domain.NotifiedRule{
		ruleAt([]string{"9965"}, from, nil, 10, false),
	})
	assert.Nil(t, reg.Match("9965", from.AddDate(1, 0, 0)))
}

func TestRegistry_Match_PrioritySelection(t *testing.T) {
	from := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	low := ruleAt([]string{"9982"}, from, nil, 1, true)
	high := ruleAt([]string{"9982"}, from, nil, 20, true)
	reg := NewRegistry([]domain.NotifiedRule{low, high})

	got := reg.Match("9982", from.AddDate(2, 0, 0))
	require.NotNil(t, got)
	assert.Equal(t, high.ID, got.ID, "higher priority wins")
}

func TestRegistry_Match_NewerEffectiveFromBreaksTie(t *testing.T) {
	older := ruleAt([]string{"9982"}, time.Date(2017, time.July, 1, 0, 0, 0, 0, time.UTC), nil, 10, true)
	newer := ruleAt([]string{"9982"}, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), nil, 10, true)
	reg := NewRegistry([]domain.NotifiedRule{older, newer})

	got := reg.Match("9982", time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID, "newer effective_from wins on equal priority")

	// Before the newer rule's window opens, the older rule still applies.
	got = reg.Match("9982", time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, got)
	assert.Equal(t, older.ID, got.ID)
}

func TestRegistry_EmptyRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Nil(t, reg.Match("9982", time.Now()))
	assert.Equal(t, 0, reg.Len())
}

func TestSeedRules(t *testing.T) {
	reg := NewRegistry(SeedRules())
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	gta := reg.Match("996511", asOf)
	require.NotNil(t, gta)
	assert.Equal(t, domain.RuleKindService, gta.Kind)
	assert.True(t, gta.GSTRate.Equal(d("5")))

	legal := reg.Match("998213", asOf)
	require.NotNil(t, legal)
	assert.True(t, legal.GSTRate.Equal(d("18")))

	cashew := reg.Match("08011010", asOf)
	require.NotNil(t, cashew)
	assert.Equal(t, domain.RuleKindGoods, cashew.Kind)

	assert.Nil(t, reg.Match("8471", asOf), "computers are not notified")
}
