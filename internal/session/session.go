// Package session runs one player's journey. Run is the only goroutine that
// touches the game; everything else talks to it through channels.
package session

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	persistlog "magictrail.dev/internal/persistence/log"
	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/rhythm"
	"magictrail.dev/internal/sim/schedule"
	"magictrail.dev/internal/sim/trail"
	"magictrail.dev/internal/sim/tuning"
)

var ErrStopped = errors.New("session stopped")

type TickLogger interface {
	WriteTick(trail.TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(persistlog.AuditEntry) error
}

// Archiver keeps finished runs.
type Archiver interface {
	ArchiveRun(s trail.Snapshot, at time.Time) (string, bool, error)
}

type Config struct {
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs

	// Store may be nil; save intents then fail with E_STORAGE.
	Store   savestore.Store
	TickLog TickLogger
	Audit   AuditLogger
	Archive Archiver
	Logger  *log.Logger

	Seed int64
	// NewTicker defaults to schedule.RealTicker.
	NewTicker schedule.TickerFunc
	Now       func() time.Time
	// UpdateBuffer bounds queued STATE messages; the oldest is dropped
	// when the reader falls behind.
	UpdateBuffer int
}

type Session struct {
	cfg  Config
	game *trail.Game
	log  *log.Logger

	travel     *schedule.Scheduler
	frames     *schedule.Scheduler
	autoTravel bool

	scorer    *rhythm.Scorer
	challenge catalogs.ChallengeDef
	elapsed   time.Duration
	feedback  rhythm.Class

	// fresh holds achievements unlocked since the last STATE.
	fresh []string
	// over is set once a finished run has been archived.
	over bool

	intents  chan protocol.IntentMsg
	out      chan protocol.StateMsg
	stop     chan struct{}
	stopOnce sync.Once
	seq      uint64
}

func New(cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.UpdateBuffer <= 0 {
		cfg.UpdateBuffer = 64
	}
	g, err := trail.New(cfg.Tuning, cfg.Catalogs, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, err
	}
	sc := cfg.Tuning.Scheduler
	return &Session{
		cfg:     cfg,
		game:    g,
		log:     cfg.Logger,
		travel:  schedule.New(time.Duration(sc.TravelIntervalMs)*time.Millisecond, cfg.NewTicker),
		frames:  schedule.New(time.Duration(sc.FrameIntervalMs)*time.Millisecond, cfg.NewTicker),
		intents: make(chan protocol.IntentMsg, 64),
		out:     make(chan protocol.StateMsg, cfg.UpdateBuffer),
		stop:    make(chan struct{}),
	}, nil
}

// Updates delivers a STATE message after every change.
func (s *Session) Updates() <-chan protocol.StateMsg { return s.out }

// Submit queues an intent for the run loop.
func (s *Session) Submit(ctx context.Context, in protocol.IntentMsg) error {
	select {
	case s.intents <- in:
		return nil
	case <-s.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) Stop() { s.stopOnce.Do(func() { close(s.stop) }) }

// Run processes intents and scheduler ticks until ctx ends or Stop is called.
func (s *Session) Run(ctx context.Context) error {
	defer s.shutdown()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case in := <-s.intents:
			s.handle(in)
		case <-s.travel.C():
			s.travelTick()
		case <-s.frames.C():
			s.frame()
		}
	}
}

func (s *Session) shutdown() {
	s.travel.Stop()
	s.frames.Stop()
	s.scorer = nil
}

// Bootstrap starts or resumes a run before Run is called. It must not be
// used concurrently with Run.
func (s *Session) Bootstrap(ctx context.Context, player, profession, resume string) (resumed bool, err error) {
	if resume != "" && s.cfg.Store != nil {
		if _, err := s.loadSave(ctx, resume); err == nil {
			return true, nil
		} else if !errors.Is(err, savestore.ErrNotFound) {
			return false, err
		}
	}
	if player == "" {
		return false, nil
	}
	return false, s.game.NewGame(player, profession)
}

// Initial is the STATE sent right after WELCOME.
func (s *Session) Initial() protocol.StateMsg {
	return s.state("welcome", 0)
}

func (s *Session) Game() *trail.Game { return s.game }

func (s *Session) Timing() protocol.Timing {
	return protocol.Timing{
		TravelIntervalMs: s.cfg.Tuning.Scheduler.TravelIntervalMs,
		FrameIntervalMs:  s.cfg.Tuning.Scheduler.FrameIntervalMs,
	}
}

// emit drops the oldest pending update when the buffer is full.
func (s *Session) emit(msg protocol.StateMsg) {
	select {
	case s.out <- msg:
		return
	default:
	}
	select {
	case <-s.out:
	default:
	}
	select {
	case s.out <- msg:
	default:
	}
}

// syncTravel keeps the auto-travel ticker alive only while the player wants
// to move and the game is on the trail.
func (s *Session) syncTravel() {
	if s.autoTravel && s.game.Mode() == trail.ModeTravel {
		s.travel.Start()
		return
	}
	s.travel.Stop()
}

func (s *Session) stopChallenge() {
	s.frames.Stop()
	s.scorer = nil
	s.elapsed = 0
	s.feedback = rhythm.ClassNone
}
