package trail

import (
	"testing"

	"magictrail.dev/internal/sim/catalogs"
)

func TestRoute_DistanceToNext(t *testing.T) {
	r, err := NewRoute([]catalogs.Waypoint{
		{ID: "a", DistanceFromStart: 0},
		{ID: "b", DistanceFromStart: 100},
		{ID: "c", DistanceFromStart: 300},
	})
	if err != nil {
		t.Fatalf("new route: %v", err)
	}
	if got := r.DistanceToNext(0, 40); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
	if got := r.DistanceToNext(1, 105); got != 195 {
		t.Fatalf("expected 195, got %d", got)
	}
	if got := r.DistanceToNext(2, 305); got != 0 {
		t.Fatalf("terminal: expected 0, got %d", got)
	}
	if got := r.DistanceToNext(0, 130); got != 0 {
		t.Fatalf("overshoot: expected 0, got %d", got)
	}
	if r.Total() != 300 || r.Terminal() != 2 {
		t.Fatalf("unexpected total/terminal: %d/%d", r.Total(), r.Terminal())
	}
}

func TestRoute_RejectsNonIncreasing(t *testing.T) {
	_, err := NewRoute([]catalogs.Waypoint{{ID: "a"}, {ID: "b", DistanceFromStart: 0}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, err := NewRoute([]catalogs.Waypoint{{ID: "a"}}); err == nil {
		t.Fatalf("expected error for single waypoint")
	}
}

func TestArrives_IsPure(t *testing.T) {
	for i := 0; i < 2; i++ {
		if !Arrives(10, 15) || !Arrives(15, 15) || Arrives(16, 15) {
			t.Fatalf("arrival decision changed on repeat %d", i)
		}
	}
}

func TestDate_Next(t *testing.T) {
	d := Date{Day: 30, Month: 12, Year: 2025}.Next(30)
	if d != (Date{Day: 1, Month: 1, Year: 2026}) {
		t.Fatalf("year wrap: got %+v", d)
	}
	d = Date{Day: 30, Month: 3, Year: 2025}.Next(30)
	if d != (Date{Day: 1, Month: 4, Year: 2025}) {
		t.Fatalf("month wrap: got %+v", d)
	}
	d = Date{Day: 5, Month: 3, Year: 2025}.Next(30)
	if d.Day != 6 || d.String() != "2025-03-06" {
		t.Fatalf("plain advance: got %+v %s", d, d)
	}
}
