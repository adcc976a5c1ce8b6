package schedule

import (
	"sync"
	"time"
)

// Manual is a ticker that fires only when told to. Tests and headless runs
// use it to drive a Scheduler step by step.
type Manual struct {
	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
	now     time.Time
	step    time.Duration
}

func NewManual(interval time.Duration) *Manual {
	return &Manual{ch: make(chan time.Time, 1), step: interval}
}

func (m *Manual) C() <-chan time.Time { return m.ch }

func (m *Manual) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *Manual) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Fire delivers one tick unless stopped. It drops the tick when the previous
// one has not been received yet, like time.Ticker.
func (m *Manual) Fire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return false
	}
	m.now = m.now.Add(m.step)
	select {
	case m.ch <- m.now:
		return true
	default:
		return false
	}
}

// ManualFactory hands out Manual tickers and remembers them in order.
type ManualFactory struct {
	mu      sync.Mutex
	tickers []*Manual
}

func (f *ManualFactory) New(interval time.Duration) Ticker {
	m := NewManual(interval)
	f.mu.Lock()
	f.tickers = append(f.tickers, m)
	f.mu.Unlock()
	return m
}

// Last returns the most recently created ticker, or nil.
func (f *ManualFactory) Last() *Manual {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tickers) == 0 {
		return nil
	}
	return f.tickers[len(f.tickers)-1]
}

func (f *ManualFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}
