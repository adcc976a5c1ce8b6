package trail

import (
	"path/filepath"
	"testing"

	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/tuning"
)

// scriptRoller replays fixed rolls. Once exhausted Float64 returns 0.999,
// which never triggers an event, and Intn returns 0.
type scriptRoller struct {
	floats []float64
	ints   []int
}

func (r *scriptRoller) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.999
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptRoller) Intn(n int) int {
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func loadCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	c, err := catalogs.Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return c
}

func newTestGame(t *testing.T, r *scriptRoller) *Game {
	t.Helper()
	if r == nil {
		r = &scriptRoller{}
	}
	g, err := New(tuning.Defaults(), loadCatalogs(t), r)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

// travelingGame returns a started run already on the trail.
func travelingGame(t *testing.T, r *scriptRoller) *Game {
	t.Helper()
	g := newTestGame(t, r)
	if err := g.NewGame("Kristin", "actress"); err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := g.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	return g
}

// mustRestore applies edit to the current snapshot and restores it.
func mustRestore(t *testing.T, g *Game, edit func(*Snapshot)) {
	t.Helper()
	s := g.Snapshot()
	edit(&s)
	if err := g.Restore(s); err != nil {
		t.Fatalf("restore: %v", err)
	}
}

func companionHealth(g *Game) map[string]int {
	out := map[string]int{}
	for _, m := range g.Party() {
		if m.Kind == KindCompanion {
			out[m.ID] = m.Health
		}
	}
	return out
}
