package trail

import (
	"errors"
	"testing"
)

func TestRunEnded(t *testing.T) {
	g := travelingGame(t, nil)
	base := g.Snapshot()
	if _, ended := RunEnded(base); ended {
		t.Fatalf("fresh run should not be over")
	}

	empty := g.Snapshot()
	empty.Resources[ResFood] = 0
	if _, ended := RunEnded(empty); ended {
		t.Fatalf("an empty larder alone only strands the party")
	}
	if !Stranded(empty) {
		t.Fatalf("expected stranded with no food")
	}

	starved := g.Snapshot()
	starved.Resources[ResFood] = 0
	starved.Resources[ResWheels] = 0
	starved.Flags.ForagedNothing = true
	if cause, ended := RunEnded(starved); !ended || cause != CauseStarved {
		t.Fatalf("expected starvation first, got %q %v", cause, ended)
	}

	perished := g.Snapshot()
	for i := range perished.Party {
		perished.Party[i].Health = 0
		perished.Party[i].Alive = false
	}
	if cause, ended := RunEnded(perished); !ended || cause != CausePerished {
		t.Fatalf("expected perished, got %q %v", cause, ended)
	}

	wrecked := g.Snapshot()
	wrecked.Resources[ResWheels] = 0
	if cause, ended := RunEnded(wrecked); !ended || cause != CauseWrecked {
		t.Fatalf("expected wrecked, got %q %v", cause, ended)
	}

	won := wrecked
	won.Mode = ModeVictory
	if _, ended := RunEnded(won); ended {
		t.Fatalf("victory is never a failed run")
	}
	menu := wrecked
	menu.Started = false
	if _, ended := RunEnded(menu); ended {
		t.Fatalf("unstarted run cannot end")
	}
}

func TestRunEnded_HumansOnlyParty(t *testing.T) {
	s := Snapshot{
		Started:   true,
		Mode:      ModeTravel,
		Resources: map[string]int{ResFood: 10, ResWheels: 1},
		Party:     []Traveler{{ID: "kristin", Kind: KindHuman, Health: 0}},
	}
	if cause, ended := RunEnded(s); !ended || cause != CausePerished {
		t.Fatalf("expected perished, got %q %v", cause, ended)
	}
	s.Party[0].Health, s.Party[0].Alive = 50, true
	if _, ended := RunEnded(s); ended {
		t.Fatalf("living party should continue")
	}
}

func TestRunOver_StrandedPartyCanRecover(t *testing.T) {
	g := travelingGame(t, nil)
	mustRestore(t, g, func(s *Snapshot) { s.Resources[ResFood] = 0 })

	if _, over := g.RunOver(); over {
		t.Fatalf("stranded party with gold and a forage should carry on")
	}
	got := g.FoodRecovery()
	if len(got) != 2 || got[0] != RecoverForage || got[1] != RecoverShop {
		t.Fatalf("unexpected recovery options: %v", got)
	}
	if err := g.CanTravel(); !errors.Is(err, ErrOutOfFood) {
		t.Fatalf("expected ErrOutOfFood, got %v", err)
	}
	if err := g.SetPace(PaceResting); err != nil {
		t.Fatalf("pace: %v", err)
	}
	if err := g.CanTravel(); err != nil {
		t.Fatalf("resting needs no food, got %v", err)
	}

	// spend the gold: only foraging is left
	mustRestore(t, g, func(s *Snapshot) { s.Resources[ResGold] = 4 })
	if got := g.FoodRecovery(); len(got) != 1 || got[0] != RecoverForage {
		t.Fatalf("expected forage only, got %v", got)
	}
	if _, over := g.RunOver(); over {
		t.Fatalf("foraging is still possible")
	}
}

func TestRunOver_NoRecoveryLeft(t *testing.T) {
	g := travelingGame(t, nil)
	cat := g.Catalogs()
	delete(cat.Challenges.ByID, "pride-lands-forage")
	ids := cat.Challenges.IDs[:0]
	for _, id := range cat.Challenges.IDs {
		if id != "pride-lands-forage" {
			ids = append(ids, id)
		}
	}
	cat.Challenges.IDs = ids

	mustRestore(t, g, func(s *Snapshot) {
		s.Resources[ResFood] = 0
		s.Resources[ResGold] = 0
	})
	if cause, over := g.RunOver(); !over || cause != CauseStarved {
		t.Fatalf("expected starved with nothing left to try, got %q %v", cause, over)
	}
}
