package trail

import (
	"fmt"
	"time"

	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/rhythm"
	"magictrail.dev/internal/sim/tuning"
)

// NewScorer builds a rhythm scorer for a challenge from its content and the
// tuned geometry it names.
func NewScorer(def catalogs.ChallengeDef, t tuning.Tuning) (*rhythm.Scorer, error) {
	geo, ok := t.Rhythm[def.Geometry]
	if !ok {
		return nil, fmt.Errorf("%w: %s: geometry %q", ErrUnknownChallenge, def.ID, def.Geometry)
	}
	segs := make([]rhythm.Segment, 0, len(def.Segments))
	for _, s := range def.Segments {
		segs = append(segs, rhythm.Segment{
			Start:   time.Duration(s.StartMs) * time.Millisecond,
			Targets: append([]float64(nil), s.Targets...),
		})
	}
	return rhythm.New(rhythm.GeometryFrom(geo), segs, t.Grades)
}

// BeginChallenge enters challenge mode and returns a fresh scorer.
// Foraging happens on the trail only.
func (g *Game) BeginChallenge(id string) (catalogs.ChallengeDef, *rhythm.Scorer, error) {
	if err := g.requireMode(ModeTravel, ModeLandmark); err != nil {
		return catalogs.ChallengeDef{}, nil, err
	}
	def, ok := g.cat.Challenges.ByID[id]
	if !ok {
		return catalogs.ChallengeDef{}, nil, fmt.Errorf("%w: %s", ErrUnknownChallenge, id)
	}
	if def.Kind == catalogs.KindForage && g.mode != ModeTravel {
		return catalogs.ChallengeDef{}, nil, fmt.Errorf("%w: forage from the trail", ErrWrongMode)
	}
	sc, err := NewScorer(def, g.tune)
	if err != nil {
		return catalogs.ChallengeDef{}, nil, err
	}
	g.challenge = def.ID
	g.challengeReturn = g.mode
	g.mode = ModeChallenge
	g.status = fmt.Sprintf("Get ready: %s!", def.Title)
	return def, sc, nil
}

// CompleteChallenge pays the grade's rewards into the ledger and then
// records stats.
func (g *Game) CompleteChallenge(res rhythm.Result) error {
	if err := g.requireMode(ModeChallenge); err != nil {
		return err
	}
	def, ok := g.cat.Challenges.ByID[g.challenge]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChallenge, g.challenge)
	}

	g.applyEffects(def.Rewards[res.Grade])
	paid := g.payout(def, res.Score)

	top := len(g.tune.Grades.Thresholds) > 0 && res.Grade == tuning.SortedThresholds(g.tune.Grades.Thresholds)[0].Grade
	switch def.Kind {
	case catalogs.KindKaraoke:
		g.stats.KaraokeSongs++
		if top {
			g.stats.KaraokeSRanks++
		}
		raise(&g.stats.KaraokeHighScore, res.Score)
	case catalogs.KindDance:
		g.stats.DanceRoutines++
		if top {
			g.stats.DanceSRanks++
		}
		raise(&g.stats.DanceHighScore, res.Score)
		g.stats.DancePerfects += res.Perfect
	case catalogs.KindForage:
		g.stats.ForageTrips++
		g.stats.ForagingFood += paid
		if paid == 0 && g.ledger.Get(ResFood) <= 0 {
			g.flags.ForagedNothing = true
		}
	}
	raise(&g.stats.MaxCombo, res.MaxCombo)

	g.finishChallenge()
	if def.Kind == catalogs.KindForage {
		g.status = fmt.Sprintf("%s: gathered %d food.", def.Title, paid)
		return nil
	}
	g.status = fmt.Sprintf("%s: grade %s, %d points.", def.Title, res.Grade, res.Score)
	return nil
}

func (g *Game) payout(def catalogs.ChallengeDef, score int) int {
	if def.Payout == nil || score <= 0 {
		return 0
	}
	amount := score
	if def.Payout.Cap > 0 {
		amount = min(amount, def.Payout.Cap)
	}
	g.ledger.Adjust(def.Payout.Resource, amount)
	return amount
}

// ForageChallenge is the challenge FORAGE starts, if the content has one.
func (g *Game) ForageChallenge() (string, bool) {
	def, ok := g.cat.Challenges.FirstOfKind(catalogs.KindForage)
	return def.ID, ok
}

// AbortChallenge leaves without rewards.
func (g *Game) AbortChallenge() error {
	if err := g.requireMode(ModeChallenge); err != nil {
		return err
	}
	g.finishChallenge()
	g.status = "Maybe next time."
	return nil
}

func (g *Game) finishChallenge() {
	g.mode = g.challengeReturn
	g.challenge = ""
	g.challengeReturn = ""
}
