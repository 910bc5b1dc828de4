package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNilDeadline(t *testing.T) {
	assert.Nil(t, Classify(nil, time.Now()))
}

func TestClassifyTiers(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		tier     Tier
		days     int
	}{
		{"due this instant", now, TierUrgent, 0},
		{"two days out", now.Add(48 * time.Hour), TierUrgent, 2},
		{"three days out", now.Add(72 * time.Hour), TierUrgent, 3},
		{"four days out", now.Add(96 * time.Hour), TierApproaching, 4},
		{"seven days out", now.Add(7 * 24 * time.Hour), TierApproaching, 7},
		{"ten days out", now.Add(10 * 24 * time.Hour), TierOK, 10},
		{"one day overdue", now.Add(-24 * time.Hour), TierExpired, 1},
		{"five days overdue", now.Add(-5 * 24 * time.Hour), TierExpired, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Classify(&tt.deadline, now)
			require.NotNil(t, u)
			assert.Equal(t, tt.tier, u.Tier)
			assert.Equal(t, tt.days, u.Days)
		})
	}
}

// The today/overdue boundary sits exactly one day in the past: a millisecond
// inside it still classifies as urgent (daysUntil == 0), a millisecond past
// it flips to expired with one day overdue.
func TestClassifyTodayBoundary(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	inside := now.Add(-24*time.Hour + time.Millisecond)
	u := Classify(&inside, now)
	require.NotNil(t, u)
	assert.Equal(t, TierUrgent, u.Tier)
	assert.Equal(t, 0, u.Days)

	past := now.Add(-24 * time.Hour)
	u = Classify(&past, now)
	require.NotNil(t, u)
	assert.Equal(t, TierExpired, u.Tier)
	assert.Equal(t, 1, u.Days)
}

func TestClassifyIsTotal(t *testing.T) {
	now := time.Now()
	for d := -30; d <= 30; d++ {
		dl := now.Add(time.Duration(d) * 24 * time.Hour)
		u := Classify(&dl, now)
		require.NotNil(t, u)
		switch u.Tier {
		case TierExpired, TierUrgent, TierApproaching, TierOK:
		default:
			t.Fatalf("unexpected tier %q for %d days", u.Tier, d)
		}
	}
}

func TestTierLabels(t *testing.T) {
	for _, tier := range []Tier{TierExpired, TierUrgent, TierApproaching, TierOK} {
		assert.NotEmpty(t, tier.Label())
	}
}
