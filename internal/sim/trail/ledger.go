package trail

import (
	"fmt"
	"sort"

	"magictrail.dev/internal/sim/logic/mathx"
)

// Resource ids used by the core rules. Content may name other resources;
// the ledger tracks any id it is given.
const (
	ResFood    = "food"
	ResTreats  = "cat_treats"
	ResWheels  = "wagon_wheels"
	ResAxles   = "wagon_axles"
	ResTongues = "wagon_tongues"
	ResMagic   = "pixie_dust"
	ResGold    = "gold_coins"
	ResMedkits = "first_aid_kits"
)

// Ledger holds non-negative resource quantities. All writes go through
// Adjust or Spend.
type Ledger struct {
	q map[string]int
}

func NewLedger(initial map[string]int) *Ledger {
	l := &Ledger{q: make(map[string]int, len(initial))}
	for id, v := range initial {
		l.q[id] = mathx.NonNeg(v)
	}
	return l
}

func (l *Ledger) Get(id string) int { return l.q[id] }

// Adjust applies delta and clamps the result at zero. It returns the new quantity.
func (l *Ledger) Adjust(id string, delta int) int {
	v := mathx.NonNeg(l.q[id] + delta)
	l.q[id] = v
	return v
}

func (l *Ledger) CanAfford(id string, cost int) bool {
	return cost <= 0 || l.q[id] >= cost
}

// Spend deducts cost or fails without mutating anything.
func (l *Ledger) Spend(id string, cost int) error {
	if cost <= 0 {
		return nil
	}
	if !l.CanAfford(id, cost) {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrUnaffordable, id, cost, l.q[id])
	}
	l.q[id] -= cost
	return nil
}

func (l *Ledger) Totals() map[string]int {
	out := make(map[string]int, len(l.q))
	for id, v := range l.q {
		out[id] = v
	}
	return out
}

func (l *Ledger) IDs() []string {
	ids := make([]string, 0, len(l.q))
	for id := range l.q {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
