package trail

import (
	"errors"
	"testing"
)

func TestNewGame(t *testing.T) {
	g := newTestGame(t, nil)
	if g.Mode() != ModeMenu || g.Started() {
		t.Fatalf("expected main menu before a run")
	}
	if err := g.NewGame("   ", "actress"); !errors.Is(err, ErrBadChoice) {
		t.Fatalf("expected ErrBadChoice for blank name, got %v", err)
	}
	if err := g.NewGame("Kristin", "card-shop-owner"); err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Resource(ResGold) != 600 || g.Mode() != ModeShop || g.Player() != "Kristin" {
		t.Fatalf("unexpected start: gold=%d mode=%s", g.Resource(ResGold), g.Mode())
	}
	if d := g.Date(); d.String() != "2025-03-01" {
		t.Fatalf("unexpected start date %s", d)
	}
	if len(g.Party()) != 3 || g.Morale() != 100 {
		t.Fatalf("unexpected party or morale")
	}

	if err := g.NewGame("Kristin", "juggler"); err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Resource(ResGold) != 400 {
		t.Fatalf("unknown profession keeps default gold, got %d", g.Resource(ResGold))
	}
}

func TestSetPaceAndRations(t *testing.T) {
	g := travelingGame(t, nil)
	if err := g.SetPace("warp"); !errors.Is(err, ErrUnknownPace) {
		t.Fatalf("expected ErrUnknownPace, got %v", err)
	}
	if err := g.SetPace(PaceGrueling); err != nil {
		t.Fatalf("set pace: %v", err)
	}
	if !g.Stats().UsedGruelingPace || g.Travel().Pace != PaceGrueling {
		t.Fatalf("grueling pace not recorded")
	}
	if err := g.SetRations("feast"); !errors.Is(err, ErrUnknownRations) {
		t.Fatalf("expected ErrUnknownRations, got %v", err)
	}
	if err := g.SetRations(RationsBareBones); err != nil || g.Travel().Rations != RationsBareBones {
		t.Fatalf("set rations: %v", err)
	}
}

func TestClickWagon_TogglesSecretMode(t *testing.T) {
	g := travelingGame(t, nil)
	for i := 1; i < 10; i++ {
		if g.ClickWagon() {
			t.Fatalf("secret mode after %d clicks", i)
		}
	}
	if !g.ClickWagon() {
		t.Fatalf("expected secret mode on the tenth click")
	}
	if g.Flags().WagonClicks != 0 {
		t.Fatalf("click counter should reset")
	}
	for range 10 {
		g.ClickWagon()
	}
	if g.Flags().SecretMode {
		t.Fatalf("another ten clicks should toggle back")
	}
}

func TestAddTraveler(t *testing.T) {
	g := travelingGame(t, nil)
	tr, err := g.AddTraveler("Aunt Kathy", KindHuman)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tr.ID != "aunt-kathy" || tr.Health != 100 || !tr.Alive {
		t.Fatalf("unexpected traveler %+v", tr)
	}
	if _, err := g.AddTraveler("aunt kathy", KindHuman); !errors.Is(err, ErrDuplicateTraveler) {
		t.Fatalf("expected ErrDuplicateTraveler, got %v", err)
	}
	if _, err := g.AddTraveler("Rex", "dinosaur"); !errors.Is(err, ErrBadChoice) {
		t.Fatalf("expected ErrBadChoice, got %v", err)
	}
	if len(g.Party()) != 4 {
		t.Fatalf("expected 4 travelers, got %d", len(g.Party()))
	}
}

func TestEndRunAndReset(t *testing.T) {
	g := travelingGame(t, nil)
	g.EndRun(CauseWrecked)
	if g.Mode() != ModeGameOver || g.Status() != CauseWrecked {
		t.Fatalf("unexpected end state %s %q", g.Mode(), g.Status())
	}
	g.Reset()
	if g.Mode() != ModeMenu || g.Started() || g.Resource(ResFood) != 200 {
		t.Fatalf("reset did not restore defaults")
	}
}

func TestUnlock_LatchesAndSurvivesRestore(t *testing.T) {
	g := travelingGame(t, nil)
	if fresh := g.Unlock("road-warrior", "first-steps"); len(fresh) != 2 {
		t.Fatalf("expected two fresh unlocks, got %v", fresh)
	}
	if fresh := g.Unlock("first-steps"); fresh != nil {
		t.Fatalf("repeat unlock should be ignored, got %v", fresh)
	}
	s := g.Snapshot()
	other := newTestGame(t, nil)
	if err := other.Restore(s); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got := other.Unlocked()
	if len(got) != 2 || got[0] != "first-steps" || got[1] != "road-warrior" {
		t.Fatalf("unexpected unlocked list %v", got)
	}
	other.Reset()
	if len(other.Unlocked()) != 0 {
		t.Fatalf("reset should clear unlocks")
	}
}
