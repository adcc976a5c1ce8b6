// Package schedule provides the single cancellable repeating timer used for
// auto-travel and challenge frames.
package schedule

import (
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker a Scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every interval.
type TickerFunc func(interval time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RealTicker wraps time.NewTicker.
func RealTicker(interval time.Duration) Ticker {
	return realTicker{t: time.NewTicker(interval)}
}

// Scheduler owns at most one live ticker. Start and Stop are idempotent.
type Scheduler struct {
	interval  time.Duration
	newTicker TickerFunc

	mu     sync.Mutex
	ticker Ticker
}

// New returns a stopped scheduler. A nil factory means RealTicker.
func New(interval time.Duration, newTicker TickerFunc) *Scheduler {
	if newTicker == nil {
		newTicker = RealTicker
	}
	return &Scheduler{interval: interval, newTicker: newTicker}
}

// Start reports whether a new ticker was created.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil || s.interval <= 0 {
		return false
	}
	s.ticker = s.newTicker(s.interval)
	return true
}

// Stop reports whether a running ticker was stopped.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return false
	}
	s.ticker.Stop()
	s.ticker = nil
	return true
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticker != nil
}

// C is nil while stopped, so a select on it blocks forever.
func (s *Scheduler) C() <-chan time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

func (s *Scheduler) Interval() time.Duration { return s.interval }
