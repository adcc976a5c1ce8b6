package trail

import (
	"fmt"
	"strings"

	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/logic/mathx"
)

func (g *Game) surface(ev catalogs.Event, returnMode string) {
	e := ev
	g.event = &e
	g.eventReturn = returnMode
	g.mode = ModeEvent
	g.status = ev.Title
}

// CanChoose reports whether choice i of the active event is affordable.
func (g *Game) CanChoose(i int) bool {
	if g.event == nil || i < 0 || i >= len(g.event.Choices) {
		return false
	}
	c := g.event.Choices[i].Cost
	return c == nil || g.ledger.CanAfford(c.Resource, c.Amount)
}

// ResolveEvent applies the active event. Events without choices ignore
// choice; with choices only the chosen branch applies, after its cost.
// A rejected resolution leaves the state untouched.
func (g *Game) ResolveEvent(choice int) error {
	if g.mode != ModeEvent || g.event == nil {
		return ErrNoActiveEvent
	}
	ev := *g.event
	effects := ev.Effects
	if len(ev.Choices) > 0 {
		if choice < 0 || choice >= len(ev.Choices) {
			return fmt.Errorf("%w: %d of %d", ErrBadChoice, choice, len(ev.Choices))
		}
		ch := ev.Choices[choice]
		if ch.Cost != nil {
			if err := g.ledger.Spend(ch.Cost.Resource, ch.Cost.Amount); err != nil {
				return err
			}
		}
		effects = ch.Effects
	}
	g.applyEffects(effects)
	recordEvent(&g.stats, ev)

	g.event = nil
	g.mode = g.eventReturn
	g.eventReturn = ""
	g.status = fmt.Sprintf("%s resolved.", ev.Title)
	return nil
}

func (g *Game) applyEffects(effects []catalogs.Effect) {
	for _, e := range effects {
		g.applyEffect(e)
	}
}

func (g *Game) applyEffect(e catalogs.Effect) {
	switch e.Kind {
	case catalogs.EffectResource:
		if e.Resource != "" {
			g.ledger.Adjust(e.Resource, e.Amount)
		}
	case catalogs.EffectHealth:
		if e.Target == "" || strings.EqualFold(e.Target, "all") {
			g.roster.AdjustAll("", e.Amount)
			return
		}
		g.roster.AdjustNamed(e.Target, e.Amount)
	case catalogs.EffectMorale:
		g.adjustMorale(e.Amount)
	case catalogs.EffectTime:
		for range mathx.AbsInt(e.Amount) {
			g.advanceDay()
		}
	}
}
