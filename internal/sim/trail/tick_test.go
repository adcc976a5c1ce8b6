package trail

import (
	"errors"
	"testing"

	"magictrail.dev/internal/sim/tuning"
)

func TestTick_ConsumesFoodPerAliveTraveler(t *testing.T) {
	g := travelingGame(t, nil)
	if g.Resource(ResFood) != 200 {
		t.Fatalf("expected 200 food at start, got %d", g.Resource(ResFood))
	}
	res, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Outcome != OutcomeTraveled || res.Miles != 15 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := g.Resource(ResFood); got != 191 {
		t.Fatalf("expected 191 food, got %d", got)
	}
	if got := g.Resource(ResTreats); got != 49 {
		t.Fatalf("expected 49 treats, got %d", got)
	}
	tr := g.Travel()
	if tr.DistanceTraveled != 15 || tr.DistanceToNext != 85 {
		t.Fatalf("unexpected travel state: %+v", tr)
	}
	if g.Date() != (Date{Day: 2, Month: 3, Year: 2025}) || g.DaysElapsed() != 1 {
		t.Fatalf("unexpected date: %+v", g.Date())
	}
	if g.Stats().TreatsGiven != 1 {
		t.Fatalf("expected 1 treat given, got %d", g.Stats().TreatsGiven)
	}
}

func TestTick_StarvationFromPostConsumptionFood(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) {
		s.Resources[ResFood] = 0
		for i := range s.Party {
			if s.Party[i].ID == "marge" {
				s.Party[i].Health = 50
			} else {
				s.Party[i].Health = 0
			}
		}
	})
	if _, err := g.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if h := companionHealth(g)["marge"]; h != 45 {
		t.Fatalf("expected marge at 45, got %d", h)
	}
	if g.Morale() != 90 {
		t.Fatalf("expected morale 90, got %d", g.Morale())
	}
	if !g.Stats().RanOutOfFood {
		t.Fatalf("expected ran-out-of-food flag")
	}
}

func TestTick_NoStarvationWhileFoodRemains(t *testing.T) {
	g := travelingGame(t, nil)
	// 9 food covers exactly one day for three travelers; the penalty only
	// applies once the post-consumption level is zero.
	mustRestore(t, g, func(s *Snapshot) { s.Resources[ResFood] = 10 })
	if _, err := g.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if g.Resource(ResFood) != 1 || g.Morale() != 100 {
		t.Fatalf("unexpected food/morale: %d/%d", g.Resource(ResFood), g.Morale())
	}
	mustRestore(t, g, func(s *Snapshot) { s.Resources[ResFood] = 9 })
	if _, err := g.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if g.Resource(ResFood) != 0 || g.Morale() != 90 {
		t.Fatalf("expected starvation on reaching zero, got food=%d morale=%d", g.Resource(ResFood), g.Morale())
	}
}

func TestTick_RepeatedStarvation(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) { s.Resources[ResFood] = 0 })
	for i := 0; i < 3; i++ {
		if _, err := g.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	for id, h := range companionHealth(g) {
		if h != 85 {
			t.Fatalf("%s: expected 85 after three starving days, got %d", id, h)
		}
	}
	if g.Morale() != 70 {
		t.Fatalf("expected morale 70, got %d", g.Morale())
	}
}

func TestTick_StarvationAndNoTreatsStack(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) {
		s.Resources[ResFood] = 0
		s.Resources[ResTreats] = 0
	})
	res, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !res.Penalty.Starving || !res.Penalty.NoTreats {
		t.Fatalf("expected both penalties, got %+v", res.Penalty)
	}
	for id, h := range companionHealth(g) {
		if h != 93 {
			t.Fatalf("%s: expected 93, got %d", id, h)
		}
	}
	if g.Morale() != 85 {
		t.Fatalf("expected morale 85, got %d", g.Morale())
	}
}

func TestTick_HealthFloorsAtZero(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) {
		s.Resources[ResFood] = 0
		for i := range s.Party {
			s.Party[i].Health = 3
		}
	})
	if _, err := g.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	for _, m := range g.Party() {
		if m.Health != 0 || m.Alive {
			t.Fatalf("expected dead at 0, got %+v", m)
		}
	}
	// The next day there is no living companion to feed treats to.
	before := g.Resource(ResTreats)
	if _, err := g.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if g.Resource(ResTreats) != before {
		t.Fatalf("treats consumed with no living companions")
	}
}

func TestTick_RestingSkipsMovementConsumptionAndEvents(t *testing.T) {
	g := travelingGame(t, &scriptRoller{floats: []float64{0}})
	if err := g.SetPace(PaceResting); err != nil {
		t.Fatalf("set pace: %v", err)
	}
	mustRestore(t, g, func(s *Snapshot) {
		s.Resources[ResFood] = 0
		s.Morale = 50
		for i := range s.Party {
			s.Party[i].Health = 50
		}
	})
	res, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Outcome != OutcomeRested {
		t.Fatalf("expected rested, got %+v", res)
	}
	if g.Mode() != ModeTravel {
		t.Fatalf("resting must not surface events, mode=%s", g.Mode())
	}
	for _, m := range g.Party() {
		if m.Health != 55 {
			t.Fatalf("expected rest heal to 55, got %+v", m)
		}
	}
	if g.Morale() != 55 || g.Travel().DistanceTraveled != 0 || g.Resource(ResTreats) != 50 {
		t.Fatalf("unexpected state after rest: morale=%d traveled=%d treats=%d", g.Morale(), g.Travel().DistanceTraveled, g.Resource(ResTreats))
	}
	if g.Stats().RestDays != 1 || g.DaysElapsed() != 1 {
		t.Fatalf("expected one rest day counted")
	}
}

func TestTick_ArrivalShortCircuits(t *testing.T) {
	g := travelingGame(t, &scriptRoller{floats: []float64{0}})
	mustRestore(t, g, func(s *Snapshot) { s.Travel.DistanceTraveled = 90 })
	if g.Travel().DistanceToNext != 10 {
		t.Fatalf("expected 10 to next, got %d", g.Travel().DistanceToNext)
	}
	date := g.Date()
	res, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Outcome != OutcomeArrived || res.Waypoint != "portland" {
		t.Fatalf("unexpected result: %+v", res)
	}
	tr := g.Travel()
	if tr.DistanceTraveled != 105 || tr.WaypointIndex != 1 || tr.DistanceToNext != 195 {
		t.Fatalf("unexpected travel state: %+v", tr)
	}
	if g.Mode() != ModeLandmark {
		t.Fatalf("expected landmark mode, got %s", g.Mode())
	}
	if g.Resource(ResFood) != 200 || g.Date() != date {
		t.Fatalf("arrival must skip consumption and clock: food=%d date=%+v", g.Resource(ResFood), g.Date())
	}
	if _, err := g.Tick(); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("expected ErrWrongMode at landmark, got %v", err)
	}
}

func TestTick_TerminalArrivalCompletesJourney(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) {
		s.Travel.WaypointIndex = 16
		s.Travel.DistanceTraveled = 3190
	})
	res, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Outcome != OutcomeCompleted || res.Waypoint != "disney-world" {
		t.Fatalf("unexpected result: %+v", res)
	}
	s := g.Snapshot()
	if g.Mode() != ModeVictory || !s.Completed() || s.Travel.DistanceToNext != 0 {
		t.Fatalf("expected completed journey, got mode=%s travel=%+v", g.Mode(), s.Travel)
	}
}

func TestTick_EventEndsTheDayEarly(t *testing.T) {
	// trigger, adverse band, first adverse event
	g := travelingGame(t, &scriptRoller{floats: []float64{0.1, 0.5, 0.0}})
	res, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Outcome != OutcomeEvent || res.EventID != "minestrone-food-raid" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if g.Mode() != ModeEvent || g.DaysElapsed() != 0 {
		t.Fatalf("expected event pending before clock advance, mode=%s days=%d", g.Mode(), g.DaysElapsed())
	}
	if g.Resource(ResFood) != 191 {
		t.Fatalf("consumption happens before the event roll, food=%d", g.Resource(ResFood))
	}
	if _, err := g.Tick(); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("expected tick blocked by pending event, got %v", err)
	}
	if err := g.ResolveEvent(-1); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if g.Resource(ResFood) != 161 || g.Mode() != ModeTravel {
		t.Fatalf("unexpected state after resolve: food=%d mode=%s", g.Resource(ResFood), g.Mode())
	}
	if g.Stats().MischiefEvents != 1 {
		t.Fatalf("expected mischief counter, got %+v", g.Stats())
	}
}

func TestDeprivationPenalty(t *testing.T) {
	d := DeprivationPenalty(5, 5, 2, tuning.Defaults().Penalties)
	if d.CompanionHealth != 0 || d.Morale != 0 {
		t.Fatalf("expected no penalty, got %+v", d)
	}
	d = DeprivationPenalty(0, 5, 2, tuning.Defaults().Penalties)
	if d.CompanionHealth != 5 || d.Morale != 10 {
		t.Fatalf("starvation only: %+v", d)
	}
	d = DeprivationPenalty(3, 0, 0, tuning.Defaults().Penalties)
	if d.NoTreats {
		t.Fatalf("treat penalty needs a living companion: %+v", d)
	}
}

func TestDailyConsumption(t *testing.T) {
	food, treats := DailyConsumption(3, 2, 2, 1)
	if food != 6 || treats != 1 {
		t.Fatalf("got food=%d treats=%d", food, treats)
	}
	food, treats = DailyConsumption(1, 0, 3, 1)
	if food != 3 || treats != 0 {
		t.Fatalf("got food=%d treats=%d", food, treats)
	}
}
