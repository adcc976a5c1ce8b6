package trail

import "magictrail.dev/internal/sim/tuning"

const (
	PaceSteady    = "steady"
	PaceStrenuous = "strenuous"
	PaceGrueling  = "grueling"
	PaceResting   = "resting"
)

const (
	RationsFilling   = "filling"
	RationsMeager    = "meager"
	RationsBareBones = "bare-bones"
)

// PacePolicy maps pace and ration ids to their per-day numbers.
type PacePolicy struct {
	miles map[string]int
	food  map[string]int
}

func NewPacePolicy(t tuning.Tuning) PacePolicy {
	p := PacePolicy{miles: map[string]int{}, food: map[string]int{}}
	for id, m := range t.PaceMiles {
		p.miles[id] = m
	}
	for id, f := range t.RationFood {
		p.food[id] = f
	}
	return p
}

func (p PacePolicy) Miles(pace string) (int, bool) {
	m, ok := p.miles[pace]
	return m, ok
}

func (p PacePolicy) FoodPerTraveler(rations string) (int, bool) {
	f, ok := p.food[rations]
	return f, ok
}

// DailyConsumption is the food and treat demand of one travel day. Treats
// are a flat daily amount while any companion is alive.
func DailyConsumption(aliveTravelers, aliveCompanions, perTraveler, treatsPerDay int) (food, treats int) {
	food = aliveTravelers * perTraveler
	if aliveCompanions > 0 {
		treats = treatsPerDay
	}
	return food, treats
}

type Deprivation struct {
	CompanionHealth int
	Morale          int
	Starving        bool
	NoTreats        bool
}

// DeprivationPenalty computes the daily loss once consumption has been applied.
// The treat penalty only applies while a companion is alive.
func DeprivationPenalty(food, treats, aliveCompanions int, p tuning.Penalties) Deprivation {
	var d Deprivation
	if food <= 0 {
		d.Starving = true
		d.CompanionHealth += p.StarveHealth
		d.Morale += p.StarveMorale
	}
	if treats <= 0 && aliveCompanions > 0 {
		d.NoTreats = true
		d.CompanionHealth += p.NoTreatHealth
		d.Morale += p.NoTreatMorale
	}
	return d
}
