package trail

import (
	"fmt"

	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/logic/eventpick"
)

const (
	OutcomeRested    = "rested"
	OutcomeTraveled  = "traveled"
	OutcomeEvent     = "event"
	OutcomeArrived   = "arrived"
	OutcomeCompleted = "completed"
)

type TickResult struct {
	Outcome     string
	Miles       int
	Waypoint    string
	EventID     string
	FoodEaten   int
	TreatsEaten int
	Penalty     Deprivation
	Date        Date
}

// TickLogEntry is the per-day history record written by the session.
type TickLogEntry struct {
	Player   string `json:"player"`
	Day      int    `json:"day"`
	Date     string `json:"date"`
	Pace     string `json:"pace"`
	Rations  string `json:"rations"`
	Outcome  string `json:"outcome"`
	Miles    int    `json:"miles"`
	Traveled int    `json:"traveled"`
	Food     int    `json:"food"`
	Morale   int    `json:"morale"`
	Alive    int    `json:"alive"`
	EventID  string `json:"event_id,omitempty"`
	Waypoint string `json:"waypoint,omitempty"`
}

// Tick advances one simulated day. Arrival at a waypoint ends the tick
// before consumption, penalties, event roll and the clock.
func (g *Game) Tick() (TickResult, error) {
	if err := g.requireMode(ModeTravel); err != nil {
		return TickResult{}, err
	}
	if g.travel.Pace == PaceResting {
		return g.restTick(), nil
	}

	miles, _ := g.policy.Miles(g.travel.Pace)
	if Arrives(g.travel.DistanceToNext, miles) {
		return g.arrive(miles), nil
	}

	g.travel.DistanceTraveled += miles
	g.travel.DistanceToNext = g.route.DistanceToNext(g.travel.WaypointIndex, g.travel.DistanceTraveled)

	res := TickResult{Outcome: OutcomeTraveled, Miles: miles}
	res.FoodEaten, res.TreatsEaten = g.consume()
	res.Penalty = g.applyDeprivation()

	if g.rng.Float64() < g.tune.Events.TriggerChance {
		if ev, ok := g.pickEvent(); ok {
			g.surface(ev, ModeTravel)
			res.Outcome = OutcomeEvent
			res.EventID = ev.ID
			res.Date = g.date
			return res, nil
		}
	}

	g.advanceDay()
	res.Date = g.date
	if res.Penalty.Starving {
		g.status = fmt.Sprintf("Traveled %d miles. The food is gone; forage or check supplies.", miles)
	} else if next, ok := g.NextWaypoint(); ok {
		g.status = fmt.Sprintf("Traveled %d miles. %d miles to %s.", miles, g.travel.DistanceToNext, next.Name)
	}
	return res, nil
}

func (g *Game) restTick() TickResult {
	g.advanceDay()
	g.roster.AdjustAll("", g.tune.Rest.TickHeal)
	g.adjustMorale(g.tune.Rest.TickMorale)
	g.stats.RestDays++
	g.status = "The party rests for the day."
	return TickResult{Outcome: OutcomeRested, Date: g.date}
}

func (g *Game) arrive(miles int) TickResult {
	g.travel.DistanceTraveled += miles
	g.travel.WaypointIndex++
	if g.travel.WaypointIndex >= g.route.Terminal() {
		g.travel.WaypointIndex = g.route.Terminal()
		g.travel.DistanceToNext = 0
		wp, _ := g.route.At(g.travel.WaypointIndex)
		g.mode = ModeVictory
		g.status = fmt.Sprintf("You made it to %s!", wp.Name)
		return TickResult{Outcome: OutcomeCompleted, Miles: miles, Waypoint: wp.ID, Date: g.date}
	}
	g.travel.DistanceToNext = g.route.DistanceToNext(g.travel.WaypointIndex, g.travel.DistanceTraveled)
	wp, _ := g.route.At(g.travel.WaypointIndex)
	g.mode = ModeLandmark
	g.status = fmt.Sprintf("You have arrived at %s.", wp.Name)
	return TickResult{Outcome: OutcomeArrived, Miles: miles, Waypoint: wp.ID, Date: g.date}
}

func (g *Game) consume() (food, treats int) {
	per, _ := g.policy.FoodPerTraveler(g.travel.Rations)
	wantFood, wantTreats := DailyConsumption(
		g.roster.AliveCount(""),
		g.roster.AliveCount(KindCompanion),
		per,
		g.tune.TreatsPerDay,
	)
	food = min(wantFood, g.ledger.Get(ResFood))
	treats = min(wantTreats, g.ledger.Get(ResTreats))
	g.ledger.Adjust(ResFood, -wantFood)
	g.ledger.Adjust(ResTreats, -wantTreats)
	g.stats.TreatsGiven += treats
	return food, treats
}

func (g *Game) applyDeprivation() Deprivation {
	d := DeprivationPenalty(
		g.ledger.Get(ResFood),
		g.ledger.Get(ResTreats),
		g.roster.AliveCount(KindCompanion),
		g.tune.Penalties,
	)
	if d.Starving {
		g.stats.RanOutOfFood = true
	}
	if d.CompanionHealth != 0 {
		g.roster.AdjustAll(KindCompanion, -d.CompanionHealth)
	}
	if d.Morale != 0 {
		g.adjustMorale(-d.Morale)
	}
	return d
}

func (g *Game) pickEvent() (catalogs.Event, bool) {
	w := g.tune.Events
	band := eventpick.Pick([]eventpick.Band{
		{Name: catalogs.CategoryFavorable, Weight: w.Favorable},
		{Name: catalogs.CategoryAdverse, Weight: w.Adverse},
		{Name: catalogs.CategorySpecial, Weight: w.Special},
	}, g.rng.Float64())
	pool := g.cat.Events.Pool(band)
	i := eventpick.Index(len(pool), g.rng.Float64())
	if i < 0 {
		return catalogs.Event{}, false
	}
	return pool[i], true
}

// LogEntry summarizes the state after res for the tick history.
func (g *Game) LogEntry(res TickResult) TickLogEntry {
	return TickLogEntry{
		Player:   g.player,
		Day:      g.daysElapsed,
		Date:     g.date.String(),
		Pace:     g.travel.Pace,
		Rations:  g.travel.Rations,
		Outcome:  res.Outcome,
		Miles:    res.Miles,
		Traveled: g.travel.DistanceTraveled,
		Food:     g.ledger.Get(ResFood),
		Morale:   g.morale,
		Alive:    g.roster.AliveCount(""),
		EventID:  res.EventID,
		Waypoint: res.Waypoint,
	}
}
