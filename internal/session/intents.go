package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	persistlog "magictrail.dev/internal/persistence/log"
	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/persistence/snapshot"
	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/sim/achievements"
	"magictrail.dev/internal/sim/rhythm"
	"magictrail.dev/internal/sim/trail"
)

const saveTimeout = 5 * time.Second

// reply carries the optional parts of the STATE sent after an intent.
type reply struct {
	err   error
	tick  *protocol.TickView
	river *protocol.RiverView
	save  *protocol.SaveView
}

func (s *Session) handle(in protocol.IntentMsg) {
	var r reply
	if in.ProtocolVersion != "" && in.ProtocolVersion != protocol.Version {
		r.err = errBadVersion
	} else {
		r = s.apply(in)
	}
	s.settle()
	msg := s.state(in.Intent, in.Seq)
	msg.Tick, msg.River, msg.Save = r.tick, r.river, r.save
	if r.err != nil {
		msg.Error = &protocol.ErrorView{Code: codeFor(r.err), Message: r.err.Error()}
	}
	s.emit(msg)
}

func (s *Session) apply(in protocol.IntentMsg) reply {
	g := s.game
	switch in.Intent {
	case protocol.IntentNewGame:
		s.autoTravel = false
		s.stopChallenge()
		return reply{err: g.NewGame(in.Player, in.Profession)}
	case protocol.IntentReset:
		s.autoTravel = false
		s.stopChallenge()
		g.Reset()
		return reply{}
	case protocol.IntentAddTraveler:
		kind := in.Kind
		if kind == "" {
			kind = trail.KindGuest
		}
		_, err := g.AddTraveler(in.Name, kind)
		return reply{err: err}
	case protocol.IntentSetPace:
		return reply{err: g.SetPace(in.Pace)}
	case protocol.IntentSetRations:
		return reply{err: g.SetRations(in.Rations)}

	case protocol.IntentStartTravel:
		if err := g.CanTravel(); err != nil {
			return reply{err: err}
		}
		s.autoTravel = true
		return reply{}
	case protocol.IntentStopTravel:
		s.autoTravel = false
		return reply{}
	case protocol.IntentTravelDay:
		res, err := s.tickOnce()
		if err != nil {
			return reply{err: err}
		}
		return reply{tick: res}

	case protocol.IntentResolveEvent:
		choice := -1
		if in.Choice != nil {
			choice = *in.Choice
		}
		return reply{err: g.ResolveEvent(choice)}
	case protocol.IntentLandmarkEvent:
		_, err := g.LandmarkEvent()
		return reply{err: err}
	case protocol.IntentContinue:
		return reply{err: g.Continue()}
	case protocol.IntentOpenShop:
		return reply{err: g.OpenShop()}
	case protocol.IntentBuy:
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		return reply{err: g.Buy(in.Item, qty)}
	case protocol.IntentCrossRiver:
		res, err := g.CrossRiver(in.Option)
		if err != nil {
			return reply{err: err}
		}
		return reply{river: &protocol.RiverView{Option: res.Option, Depth: res.Depth, Success: res.Success, FoodLost: res.FoodLost}}

	case protocol.IntentOpenCamp:
		return reply{err: g.OpenCamp()}
	case protocol.IntentCamp:
		return reply{err: g.Camp()}
	case protocol.IntentMedkit:
		_, err := g.UseMedkit()
		return reply{err: err}
	case protocol.IntentStargaze:
		_, err := g.Stargaze()
		return reply{err: err}
	case protocol.IntentBreakCamp:
		return reply{err: g.BreakCamp()}

	case protocol.IntentForage:
		id, ok := g.ForageChallenge()
		if !ok {
			return reply{err: fmt.Errorf("%w: nothing to forage", trail.ErrUnknownChallenge)}
		}
		return reply{err: s.startChallenge(id)}
	case protocol.IntentStartChallenge:
		return reply{err: s.startChallenge(in.Challenge)}
	case protocol.IntentChallengeHit:
		return reply{err: s.hit()}
	case protocol.IntentQuitChallenge:
		if s.scorer == nil {
			return reply{err: rhythm.ErrNotActive}
		}
		s.stopChallenge()
		return reply{err: g.AbortChallenge()}

	case protocol.IntentClickWagon:
		g.ClickWagon()
		return reply{}

	case protocol.IntentSave:
		return s.save(in.Name)
	case protocol.IntentLoad:
		return s.load(in.Name)
	case protocol.IntentDeleteSave:
		return s.deleteSave(in.Name)
	}
	return reply{err: fmt.Errorf("%w: %q", errUnknownIntent, in.Intent)}
}

// settle applies the run-over rule and achievement latching after any
// change, then reconciles the schedulers with the new mode. A party out of
// food stops moving but keeps playing until it has nothing left to try.
func (s *Session) settle() {
	g := s.game
	if g.Started() && g.Mode() != trail.ModeGameOver {
		if cause, ended := g.RunOver(); ended {
			s.stopChallenge()
			g.EndRun(cause)
			s.log.Printf("run over for %s: %s", g.Player(), cause)
		}
	}
	if s.autoTravel && errors.Is(g.CanTravel(), trail.ErrOutOfFood) {
		s.autoTravel = false
		s.log.Printf("%s is out of food; auto-travel stopped", g.Player())
	}
	switch g.Mode() {
	case trail.ModeGameOver, trail.ModeVictory, trail.ModeMenu:
		s.autoTravel = false
	}
	if g.Mode() != trail.ModeChallenge && s.scorer != nil {
		s.stopChallenge()
	}
	if g.Started() {
		if fresh := g.Unlock(achievements.Evaluate(g.Snapshot())...); len(fresh) > 0 {
			s.fresh = append(s.fresh, fresh...)
			s.log.Printf("%s unlocked %v", g.Player(), fresh)
		}
	}
	s.archiveIfOver()
	s.syncTravel()
}

func finished(mode string) bool {
	return mode == trail.ModeVictory || mode == trail.ModeGameOver
}

func (s *Session) archiveIfOver() {
	if !finished(s.game.Mode()) {
		s.over = false
		return
	}
	if s.over {
		return
	}
	s.over = true
	if s.cfg.Archive == nil {
		return
	}
	dir, ok, err := s.cfg.Archive.ArchiveRun(s.game.Snapshot(), s.cfg.Now())
	switch {
	case err != nil:
		s.log.Printf("archive run: %v", err)
	case ok:
		s.log.Printf("run archived in %s", dir)
	}
}

func (s *Session) travelTick() {
	res, err := s.tickOnce()
	s.settle()
	msg := s.state("tick", 0)
	msg.Tick = res
	if err != nil {
		msg.Error = &protocol.ErrorView{Code: codeFor(err), Message: err.Error()}
	}
	s.emit(msg)
}

func (s *Session) tickOnce() (*protocol.TickView, error) {
	if err := s.game.CanTravel(); err != nil {
		return nil, err
	}
	res, err := s.game.Tick()
	if err != nil {
		return nil, err
	}
	if s.cfg.TickLog != nil {
		if err := s.cfg.TickLog.WriteTick(s.game.LogEntry(res)); err != nil {
			s.log.Printf("tick log: %v", err)
		}
	}
	return &protocol.TickView{
		Outcome:     res.Outcome,
		Miles:       res.Miles,
		FoodEaten:   res.FoodEaten,
		TreatsEaten: res.TreatsEaten,
		Starving:    res.Penalty.Starving,
		NoTreats:    res.Penalty.NoTreats,
		Waypoint:    res.Waypoint,
	}, nil
}

func (s *Session) startChallenge(id string) error {
	def, sc, err := s.game.BeginChallenge(id)
	if err != nil {
		return err
	}
	if err := sc.Start(); err != nil {
		_ = s.game.AbortChallenge()
		return err
	}
	s.scorer = sc
	s.challenge = def
	s.elapsed = 0
	s.feedback = rhythm.ClassNone
	s.frames.Start()
	return nil
}

func (s *Session) hit() error {
	if s.scorer == nil {
		return rhythm.ErrNotActive
	}
	res, err := s.scorer.Hit(s.elapsed)
	if err != nil {
		return err
	}
	if res.Class != rhythm.ClassNone {
		s.feedback = res.Class
	}
	return nil
}

// frame advances the challenge clock by one frame interval.
func (s *Session) frame() {
	if s.scorer == nil {
		s.frames.Stop()
		return
	}
	s.elapsed += s.frames.Interval()
	var err error
	if s.scorer.Advance(s.elapsed) == rhythm.StateFinished {
		err = s.finishChallenge()
	}
	s.settle()
	msg := s.state("frame", 0)
	if err != nil {
		msg.Error = &protocol.ErrorView{Code: codeFor(err), Message: err.Error()}
	}
	s.emit(msg)
}

func (s *Session) finishChallenge() error {
	res := s.scorer.Result()
	def := s.challenge
	s.stopChallenge()
	if err := s.game.CompleteChallenge(res); err != nil {
		return err
	}
	s.log.Printf("%s finished %s: grade %s score %d", s.game.Player(), def.ID, res.Grade, res.Score)
	return nil
}

func (s *Session) saveName(name string) string {
	if name == "" {
		return s.game.Player()
	}
	return name
}

func (s *Session) audit(op, name string, size int, err error) {
	if s.cfg.Audit == nil {
		return
	}
	e := persistlog.AuditEntry{At: s.cfg.Now().UTC(), Op: op, Save: name, Bytes: size}
	if err != nil {
		e.Error = err.Error()
	}
	if werr := s.cfg.Audit.WriteAudit(e); werr != nil {
		s.log.Printf("audit: %v", werr)
	}
}

func (s *Session) save(name string) reply {
	name = s.saveName(name)
	view := &protocol.SaveView{Op: "save", Name: name}
	if s.cfg.Store == nil {
		return reply{err: errNoStore, save: view}
	}
	if !s.game.Started() {
		return reply{err: fmt.Errorf("%w: nothing to save", trail.ErrWrongMode), save: view}
	}
	blob, err := snapshot.Encode(s.game.Snapshot(), s.cfg.Now())
	if err != nil {
		return reply{err: err, save: view}
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	at, err := s.cfg.Store.Save(ctx, name, blob)
	s.audit("save", name, len(blob), err)
	if err != nil {
		s.log.Printf("save %q: %v", name, err)
		return reply{err: storageErr(err), save: view}
	}
	view.SavedAt, view.Found = at, true
	return reply{save: view}
}

func (s *Session) load(name string) reply {
	name = s.saveName(name)
	view := &protocol.SaveView{Op: "load", Name: name}
	if s.cfg.Store == nil {
		return reply{err: errNoStore, save: view}
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	at, err := s.loadSave(ctx, name)
	s.audit("load", name, 0, err)
	if err != nil {
		return reply{err: storageErr(err), save: view}
	}
	view.SavedAt, view.Found = at, true
	return reply{save: view}
}

// loadSave restores a slot; the game is untouched unless the blob decodes
// and validates.
func (s *Session) loadSave(ctx context.Context, name string) (time.Time, error) {
	rec, err := s.cfg.Store.Load(ctx, name)
	if err != nil {
		return time.Time{}, err
	}
	_, snap, err := snapshot.Decode(rec.Blob)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", trail.ErrBadSnapshot, err)
	}
	if err := s.game.Restore(snap); err != nil {
		return time.Time{}, err
	}
	s.over = finished(s.game.Mode())
	s.autoTravel = false
	s.stopChallenge()
	return rec.SavedAt, nil
}

func (s *Session) deleteSave(name string) reply {
	name = s.saveName(name)
	view := &protocol.SaveView{Op: "delete", Name: name}
	if s.cfg.Store == nil {
		return reply{err: errNoStore, save: view}
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	found, err := s.cfg.Store.Exists(ctx, name)
	if err == nil && found {
		err = s.cfg.Store.Delete(ctx, name)
	}
	s.audit("delete", name, 0, err)
	if err != nil {
		return reply{err: storageErr(err), save: view}
	}
	view.Found = found
	return reply{save: view}
}

func storageErr(err error) error {
	if errors.Is(err, savestore.ErrNotFound) || errors.Is(err, savestore.ErrEmptyName) || errors.Is(err, trail.ErrBadSnapshot) {
		return err
	}
	return fmt.Errorf("%w: %v", errStorage, err)
}
