package trail

const (
	CauseStarved  = "The party ran out of food."
	CausePerished = "All the companions have perished."
	CauseWrecked  = "The wagon broke down and cannot be repaired."
)

// Ways a party with no food can restock.
const (
	RecoverForage = "forage"
	RecoverShop   = "shop"
)

// RunEnded reports whether a started run is over and why. Causes are
// checked in a fixed order so the message is stable. An empty larder on
// its own only strands the party; it ends the run once a forage comes back
// empty.
func RunEnded(s Snapshot) (string, bool) {
	if !s.Started || s.Mode == ModeVictory || s.Mode == ModeMenu {
		return "", false
	}
	if s.Resources[ResFood] <= 0 && s.Flags.ForagedNothing {
		return CauseStarved, true
	}
	if companions := s.CountKind(KindCompanion); companions > 0 {
		if s.AliveCount(KindCompanion) == 0 {
			return CausePerished, true
		}
	} else if len(s.Party) > 0 && s.AliveCount("") == 0 {
		return CausePerished, true
	}
	if s.Resources[ResWheels] <= 0 {
		return CauseWrecked, true
	}
	return "", false
}

// Stranded is true while a run in progress has no food left.
func Stranded(s Snapshot) bool {
	if !s.Started || s.Mode == ModeVictory || s.Mode == ModeMenu || s.Mode == ModeGameOver {
		return false
	}
	return s.Resources[ResFood] <= 0
}

// FoodRecovery lists what the party can still do to get food.
func (g *Game) FoodRecovery() []string {
	var out []string
	if _, ok := g.ForageChallenge(); ok {
		out = append(out, RecoverForage)
	}
	gold := g.ledger.Get(g.cat.Shop.Currency)
	for _, item := range g.cat.Shop.Items {
		if item.Resource == ResFood && item.Quantity > 0 && gold >= item.Price {
			out = append(out, RecoverShop)
			break
		}
	}
	return out
}

// RunOver is RunEnded plus the stranded rule: a party with no food and no
// way to get more is finished.
func (g *Game) RunOver() (string, bool) {
	s := g.Snapshot()
	if cause, ended := RunEnded(s); ended {
		return cause, true
	}
	if Stranded(s) && len(g.FoodRecovery()) == 0 {
		return CauseStarved, true
	}
	return "", false
}

// CanTravel refuses moving days while the party has no food. Resting is
// always allowed.
func (g *Game) CanTravel() error {
	if err := g.requireMode(ModeTravel); err != nil {
		return err
	}
	if g.travel.Pace != PaceResting && g.ledger.Get(ResFood) <= 0 {
		return ErrOutOfFood
	}
	return nil
}
