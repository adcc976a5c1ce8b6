package trail

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	g := travelingGame(t, &scriptRoller{})
	for range 5 {
		if _, err := g.Tick(); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	g.ClickWagon()
	want := g.Snapshot()

	other := newTestGame(t, nil)
	if err := other.Restore(want); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := other.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSnapshot_RegionsVisited(t *testing.T) {
	g := travelingGame(t, nil)
	atWaypoint(t, g, 3)
	s := g.Snapshot()
	if len(s.RegionsVisited) < 2 {
		t.Fatalf("expected at least two regions by boise, got %v", s.RegionsVisited)
	}
	if s.RouteLength != 18 || s.RouteDistance != 3200 {
		t.Fatalf("unexpected route summary %d/%d", s.RouteLength, s.RouteDistance)
	}
}

func TestRestore_RejectsInvalid(t *testing.T) {
	cases := map[string]func(*Snapshot){
		"version":      func(s *Snapshot) { s.Version = 99 },
		"date":         func(s *Snapshot) { s.Date.Month = 13 },
		"days":         func(s *Snapshot) { s.DaysElapsed = -1 },
		"mode":         func(s *Snapshot) { s.Mode = "flying" },
		"index":        func(s *Snapshot) { s.Travel.WaypointIndex = 40 },
		"distance":     func(s *Snapshot) { s.Travel.DistanceTraveled = -5 },
		"pace":         func(s *Snapshot) { s.Travel.Pace = "warp" },
		"rations":      func(s *Snapshot) { s.Travel.Rations = "feast" },
		"duplicate":    func(s *Snapshot) { s.Party = append(s.Party, s.Party[0]) },
		"event":        func(s *Snapshot) { s.Mode = ModeEvent; s.ActiveEventID = "nope"; s.EventReturn = ModeTravel },
		"event return": func(s *Snapshot) { s.Mode = ModeEvent; s.ActiveEventID = "pothole"; s.EventReturn = ModeRest },
	}
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			g := travelingGame(t, nil)
			before := g.Snapshot()
			s := g.Snapshot()
			edit(&s)
			if err := g.Restore(s); !errors.Is(err, ErrBadSnapshot) {
				t.Fatalf("expected ErrBadSnapshot, got %v", err)
			}
			if got := g.Snapshot(); !reflect.DeepEqual(got, before) {
				t.Fatalf("rejected snapshot changed state")
			}
		})
	}
}

func TestRestore_RecomputesDistanceToNext(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) {
		s.Travel.DistanceTraveled = 60
		s.Travel.DistanceToNext = 9999
	})
	if got := g.Travel().DistanceToNext; got != 40 {
		t.Fatalf("expected 40 miles to portland, got %d", got)
	}
}
