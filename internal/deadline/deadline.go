// Package deadline classifies deadlines into urgency tiers shared by
// processes, requirements and tasks.
package deadline

import (
	"math"
	"time"
)

// Tier is the urgency bucket derived from a deadline.
type Tier string

const (
	TierExpired     Tier = "expired"
	TierUrgent      Tier = "urgent"
	TierApproaching Tier = "approaching"
	TierOK          Tier = "ok"
)

// tierLabels maps every tier to its display label.
var tierLabels = map[Tier]string{
	TierExpired:     "Vencido",
	TierUrgent:      "Urgente",
	TierApproaching: "Próximo",
	TierOK:          "No Prazo",
}

// Label returns the display label for the tier.
func (t Tier) Label() string {
	return tierLabels[t]
}

// Urgency is the classification result. Days is the count until the
// deadline, except for TierExpired where it is the magnitude overdue.
type Urgency struct {
	Tier Tier `json:"tier"`
	Days int  `json:"days"`
}

// Classify maps a deadline to its urgency tier at the given instant.
// A nil deadline yields nil. daysUntil is ceil((deadline-now)/24h), so a
// deadline due "today" (daysUntil == 0) is urgent, not expired.
func Classify(dl *time.Time, now time.Time) *Urgency {
	if dl == nil {
		return nil
	}
	daysUntil := int(math.Ceil(dl.Sub(now).Hours() / 24))
	switch {
	case daysUntil < 0:
		return &Urgency{Tier: TierExpired, Days: -daysUntil}
	case daysUntil <= 3:
		return &Urgency{Tier: TierUrgent, Days: daysUntil}
	case daysUntil <= 7:
		return &Urgency{Tier: TierApproaching, Days: daysUntil}
	default:
		return &Urgency{Tier: TierOK, Days: daysUntil}
	}
}
