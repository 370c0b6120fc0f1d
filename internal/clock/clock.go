// Package clock abstracts tickers so countdowns can be driven by tests.
package clock

import (
	"sync"
	"time"
)

// Ticker delivers ticks until it is stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Real returns a Clock backed by time.NewTicker.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// Manual is a Clock whose tickers fire only when Fire is called.
type Manual struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// NewManual returns an empty manual clock.
func NewManual() *Manual {
	return &Manual{}
}

// NewTicker implements Clock.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	t := &ManualTicker{ch: make(chan time.Time), Interval: d}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
	return t
}

// Tickers returns every ticker created so far, oldest first.
func (m *Manual) Tickers() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTicker(nil), m.tickers...)
}

// Last returns the most recently created ticker, or nil.
func (m *Manual) Last() *ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tickers) == 0 {
		return nil
	}
	return m.tickers[len(m.tickers)-1]
}

// ManualTicker is an unbuffered ticker. A Fire call returns once the
// consumer has received the tick.
type ManualTicker struct {
	ch       chan time.Time
	Interval time.Duration

	mu      sync.Mutex
	stopped bool
}

// C implements Ticker.
func (t *ManualTicker) C() <-chan time.Time { return t.ch }

// Stop implements Ticker.
func (t *ManualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers one tick, giving up after wait. It reports whether the tick
// was received.
func (t *ManualTicker) Fire(wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case t.ch <- time.Now():
		return true
	case <-timer.C:
		return false
	}
}
