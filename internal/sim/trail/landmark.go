package trail

import (
	"fmt"

	"magictrail.dev/internal/sim/catalogs"
)

// LandmarkEvent surfaces the current waypoint's special event, once per run.
func (g *Game) LandmarkEvent() (catalogs.Event, error) {
	if err := g.requireMode(ModeLandmark, ModeShop); err != nil {
		return catalogs.Event{}, err
	}
	if g.flags.Roadside {
		return catalogs.Event{}, fmt.Errorf("%w: not at a waypoint", ErrWrongMode)
	}
	wp := g.CurrentWaypoint()
	if wp.LandmarkEvent == "" || contains(g.flags.LandmarkEventsSeen, wp.ID) {
		return catalogs.Event{}, ErrNoLandmarkEvent
	}
	ev, ok := g.cat.Events.ByID[wp.LandmarkEvent]
	if !ok {
		return catalogs.Event{}, fmt.Errorf("%w: %s", ErrNoLandmarkEvent, wp.LandmarkEvent)
	}
	g.flags.LandmarkEventsSeen = append(g.flags.LandmarkEventsSeen, wp.ID)
	g.surface(ev, g.mode)
	return ev, nil
}

// OpenShop checks supplies from the trail. Continue returns to travel.
func (g *Game) OpenShop() error {
	if err := g.requireMode(ModeTravel); err != nil {
		return err
	}
	g.mode = ModeShop
	g.flags.Roadside = true
	g.status = "Checking supplies."
	return nil
}

func (g *Game) canShop() bool {
	switch g.mode {
	case ModeShop:
		return true
	case ModeLandmark:
		return g.CurrentWaypoint().HasShop
	}
	return false
}

// Buy purchases qty lots of a shop item.
func (g *Game) Buy(itemID string, qty int) error {
	if !g.canShop() {
		return fmt.Errorf("%w: no shop here", ErrWrongMode)
	}
	item, ok := g.cat.Shop.ByID[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if qty <= 0 {
		return ErrBadQuantity
	}
	if err := g.ledger.Spend(g.cat.Shop.Currency, item.Price*qty); err != nil {
		return err
	}
	g.ledger.Adjust(item.Resource, item.Quantity*qty)
	g.status = fmt.Sprintf("Bought %d x %s.", qty, item.Label)
	return nil
}

type RiverResult struct {
	Option          string
	Depth           int
	Deep            bool
	Success         bool
	FoodLost        int
	CompanionDamage int
}

// CrossRiver resolves the river at the current waypoint with one option.
// Paid options are deducted up front and always succeed.
func (g *Game) CrossRiver(optionID string) (RiverResult, error) {
	if err := g.requireMode(ModeLandmark); err != nil {
		return RiverResult{}, err
	}
	wp := g.CurrentWaypoint()
	if !wp.HasRiver {
		return RiverResult{}, fmt.Errorf("%w: no river at %s", ErrWrongMode, wp.ID)
	}
	if contains(g.flags.RiversCrossed, wp.ID) {
		return RiverResult{}, ErrAlreadyCrossed
	}
	opt, ok := g.cat.River.ByID[optionID]
	if !ok {
		return RiverResult{}, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	if opt.Cost != nil {
		if err := g.ledger.Spend(opt.Cost.Resource, opt.Cost.Amount); err != nil {
			return RiverResult{}, err
		}
	}

	rv := g.tune.River
	res := RiverResult{Option: opt.ID}
	res.Depth = rv.MinDepth + g.rng.Intn(rv.MaxDepth-rv.MinDepth+1)
	res.Deep = res.Depth >= rv.DeepAt
	chance := opt.SuccessChance
	if res.Deep {
		chance = opt.DeepSuccessChance
	}

	if g.rng.Float64() < chance {
		res.Success = true
		g.stats.RiverCrossings++
		g.stats.MeetCharacter(opt.Character)
		g.status = fmt.Sprintf("The party crossed safely at %s.", wp.Name)
	} else {
		res.FoodLost = opt.FoodLossMin
		if span := opt.FoodLossMax - opt.FoodLossMin; span > 0 {
			res.FoodLost += g.rng.Intn(span + 1)
		}
		g.ledger.Adjust(ResFood, -res.FoodLost)
		if opt.CompanionDamage > 0 {
			res.CompanionDamage = opt.CompanionDamage
			g.roster.DamageFloor(KindCompanion, opt.CompanionDamage, rv.DamageFloor)
		}
		g.status = fmt.Sprintf("The crossing went badly. Lost %d food.", res.FoodLost)
	}
	g.flags.RiversCrossed = append(g.flags.RiversCrossed, wp.ID)
	return res, nil
}

// Continue leaves the shop or landmark and resumes travel.
func (g *Game) Continue() error {
	if err := g.requireMode(ModeLandmark, ModeShop); err != nil {
		return err
	}
	wp := g.CurrentWaypoint()
	if g.mode == ModeLandmark && wp.HasRiver && !contains(g.flags.RiversCrossed, wp.ID) {
		return ErrRiverAhead
	}
	g.mode = ModeTravel
	g.flags.Roadside = false
	if next, ok := g.NextWaypoint(); ok {
		g.status = fmt.Sprintf("The journey continues toward %s.", next.Name)
	}
	return nil
}
