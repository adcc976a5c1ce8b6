package trail

import (
	"fmt"
	"strings"

	"magictrail.dev/internal/sim/logic/mathx"
)

const (
	KindCompanion = "companion"
	KindHuman     = "human"
	KindGuest     = "guest"
)

type Traveler struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
	Alive     bool   `json:"alive"`
}

// Roster owns the party. Alive is derived from health on every write and
// dead members never change again.
type Roster struct {
	members []Traveler
}

func NewRoster(members []Traveler) *Roster {
	r := &Roster{members: make([]Traveler, 0, len(members))}
	for _, m := range members {
		r.members = append(r.members, normalizeTraveler(m))
	}
	return r
}

func normalizeTraveler(t Traveler) Traveler {
	if t.MaxHealth <= 0 {
		t.MaxHealth = 100
	}
	t.Health = mathx.ClampInt(t.Health, 0, t.MaxHealth)
	t.Alive = t.Health > 0
	return t
}

func (r *Roster) Members() []Traveler {
	return append([]Traveler(nil), r.members...)
}

func (r *Roster) Len() int { return len(r.members) }

func (r *Roster) Add(t Traveler) error {
	for _, m := range r.members {
		if strings.EqualFold(m.ID, t.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateTraveler, t.ID)
		}
	}
	r.members = append(r.members, normalizeTraveler(t))
	return nil
}

// adjustAt changes one living member's health and returns the applied delta.
func (r *Roster) adjustAt(i, delta int) int {
	m := &r.members[i]
	if !m.Alive {
		return 0
	}
	old := m.Health
	m.Health = mathx.ClampInt(old+delta, 0, m.MaxHealth)
	m.Alive = m.Health > 0
	return m.Health - old
}

// Find resolves a living member by id or name, case-insensitively.
func (r *Roster) Find(target string) (Traveler, bool) {
	i := r.find(target)
	if i < 0 {
		return Traveler{}, false
	}
	return r.members[i], true
}

func (r *Roster) find(target string) int {
	for i, m := range r.members {
		if !m.Alive {
			continue
		}
		if strings.EqualFold(m.ID, target) || strings.EqualFold(m.Name, target) {
			return i
		}
	}
	return -1
}

// AdjustNamed heals (delta > 0) or damages one living member.
func (r *Roster) AdjustNamed(target string, delta int) bool {
	i := r.find(target)
	if i < 0 {
		return false
	}
	r.adjustAt(i, delta)
	return true
}

// AdjustAll applies delta to every living member of kind ("" for everyone)
// and reports how many were touched.
func (r *Roster) AdjustAll(kind string, delta int) int {
	n := 0
	for i, m := range r.members {
		if !m.Alive || (kind != "" && m.Kind != kind) {
			continue
		}
		r.adjustAt(i, delta)
		n++
	}
	return n
}

// DamageFloor hurts living members of kind but never pushes health below
// floor. Members already under the floor are left alone.
func (r *Roster) DamageFloor(kind string, amount, floor int) {
	for i, m := range r.members {
		if !m.Alive || (kind != "" && m.Kind != kind) {
			continue
		}
		next := m.Health - amount
		if next < floor {
			next = min(m.Health, floor)
		}
		r.adjustAt(i, next-m.Health)
	}
}

// HealFirstBelow heals the first living member whose health is under
// threshold.
func (r *Roster) HealFirstBelow(threshold, amount int) (Traveler, bool) {
	for i, m := range r.members {
		if m.Alive && m.Health < threshold {
			r.adjustAt(i, amount)
			return r.members[i], true
		}
	}
	return Traveler{}, false
}

func (r *Roster) AliveCount(kind string) int {
	n := 0
	for _, m := range r.members {
		if m.Alive && (kind == "" || m.Kind == kind) {
			n++
		}
	}
	return n
}

func (r *Roster) CountKind(kind string) int {
	n := 0
	for _, m := range r.members {
		if kind == "" || m.Kind == kind {
			n++
		}
	}
	return n
}
