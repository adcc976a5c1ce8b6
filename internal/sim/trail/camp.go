package trail

import "fmt"

func (g *Game) OpenCamp() error {
	if err := g.requireMode(ModeTravel); err != nil {
		return err
	}
	g.mode = ModeRest
	g.status = "The party sets up camp."
	return nil
}

// Camp spends a day resting in camp.
func (g *Game) Camp() error {
	if err := g.requireMode(ModeRest); err != nil {
		return err
	}
	g.roster.AdjustAll("", g.tune.Rest.CampHeal)
	g.advanceDay()
	g.stats.Camps++
	g.status = "Everyone curls up by the fire and feels better."
	return nil
}

func (g *Game) UseMedkit() (Traveler, error) {
	if err := g.requireMode(ModeRest); err != nil {
		return Traveler{}, err
	}
	if !g.ledger.CanAfford(ResMedkits, 1) {
		return Traveler{}, fmt.Errorf("%w: no first aid kits", ErrUnaffordable)
	}
	for _, m := range g.roster.Members() {
		if m.Alive && m.Health < g.tune.Rest.MedkitThreshold {
			g.ledger.Adjust(ResMedkits, -1)
			healed, _ := g.roster.HealFirstBelow(g.tune.Rest.MedkitThreshold, g.tune.Rest.MedkitHeal)
			g.status = fmt.Sprintf("%s was patched up.", healed.Name)
			return healed, nil
		}
	}
	return Traveler{}, ErrNobodyHurt
}

// Stargaze reports whether the night sky paid out magic.
func (g *Game) Stargaze() (bool, error) {
	if err := g.requireMode(ModeRest); err != nil {
		return false, err
	}
	if g.rng.Float64() < g.tune.Rest.StargazeChance {
		g.ledger.Adjust(ResMagic, g.tune.Rest.StargazeReward)
		g.status = "A shooting star leaves a trail of pixie dust."
		return true, nil
	}
	g.status = "The stars are lovely tonight."
	return false, nil
}

// BreakCamp returns to the trail.
func (g *Game) BreakCamp() error {
	if err := g.requireMode(ModeRest); err != nil {
		return err
	}
	g.mode = ModeTravel
	g.status = "Camp is packed up."
	return nil
}
