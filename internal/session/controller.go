// Package session runs the training session countdown and its simulated metrics.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/rallybot/internal/clock"
	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/sampler"
)

// MaxDurationMinutes bounds the accepted session length.
const MaxDurationMinutes = 24 * 60

const tickInterval = time.Second

// ErrInvalidConfig is returned by New and Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid session config")

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	ID               string
	Mode             model.Mode
	SecondsRemaining int
	RunState         RunState
	TotalServes      int
	AccuracyPercent  int
	AvgSpeedKmh      int
	ProgressPercent  float64
	FormattedTime    string
	Ended            bool
	// Version grows with every published change.
	Version          uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used for ticking.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithSampler replaces the random source of the simulated metrics.
func WithSampler(s *sampler.Sampler) Option {
	return func(ctrl *Controller) {
		ctrl.sampler = s
	}
}

// WithID sets the session identifier instead of generating one.
func WithID(id string) Option {
	return func(ctrl *Controller) {
		ctrl.id = id
	}
}

// Controller owns one session: its state machine, the ticker that drives it
// while running, and the goroutine that applies ticks. All methods are safe
// for concurrent use; a tick and a user action never interleave.
type Controller struct {
	id      string
	cfg     model.SessionConfig
	clock   clock.Clock
	sampler *sampler.Sampler

	mu      sync.Mutex
	m       *machine
	ended   bool
	closed  bool
	ticker  clock.Ticker
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	version uint64
	changes chan Snapshot
	done    chan struct{}
}

// Validate checks that cfg can drive a session.
func Validate(cfg model.SessionConfig) error {
	if cfg.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be > 0 minutes, got %d", ErrInvalidConfig, cfg.DurationMinutes)
	}
	if cfg.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be <= %d minutes, got %d", ErrInvalidConfig, MaxDurationMinutes, cfg.DurationMinutes)
	}
	if !cfg.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Mode)
	}
	for _, field := range []struct {
		name  string
		value int
	}{
		{"intensity", cfg.Intensity},
		{"direction", cfg.Direction},
		{"frequency", cfg.Frequency},
	} {
		if field.value < 0 || field.value > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100, got %d", ErrInvalidConfig, field.name, field.value)
		}
	}
	return nil
}

// New validates cfg and returns an Idle controller.
func New(cfg model.SessionConfig, opts ...Option) (*Controller, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		clock:   clock.Real(),
		changes: make(chan Snapshot, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.sampler == nil {
		c.sampler = sampler.New()
	}
	c.m = newMachine(cfg, c.sampler)
	return c, nil
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Config returns the settings the session was created with.
func (c *Controller) Config() model.SessionConfig {
	return c.cfg
}

// Changes delivers the latest snapshot after every state change. Only the
// most recent undelivered snapshot is kept.
func (c *Controller) Changes() <-chan Snapshot {
	return c.changes
}

// Done is closed by Close.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Start begins the countdown from Idle.
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ended || !c.m.start() {
		return false
	}
	c.acquireLocked()
	c.publishLocked()
	return true
}

// Pause suspends a running countdown.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ended || !c.m.pause() {
		return false
	}
	c.releaseLocked()
	c.publishLocked()
	return true
}

// Resume continues a paused countdown from the frozen remaining time.
func (c *Controller) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ended || !c.m.resume() {
		return false
	}
	c.acquireLocked()
	c.publishLocked()
	return true
}

// Reset restores the state of a freshly created session. The countdown is
// left Idle.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ended {
		return false
	}
	c.releaseLocked()
	c.m.reset()
	c.publishLocked()
	return true
}

// End stops ticking and marks the session as finished by the player. The
// run state is left as is.
func (c *Controller) End() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ended {
		return false
	}
	c.ended = true
	c.releaseLocked()
	c.publishLocked()
	log.Printf("session %s ended at %s (%s)", c.id, FormatTime(c.m.remaining), c.m.run)
	return true
}

// Close releases the ticker and waits for the tick goroutine to exit. It is
// safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	c.releaseLocked()
	c.mu.Unlock()
	c.wg.Wait()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Samples returns the metric refreshes recorded since the last reset.
func (c *Controller) Samples() []model.MetricSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.MetricSample(nil), c.m.samples...)
}

func (c *Controller) acquireLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	t := c.clock.NewTicker(tickInterval)
	c.ticker = t
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(ctx, t)
}

func (c *Controller) releaseLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.ticker.Stop()
	c.cancel = nil
	c.ticker = nil
}

func (c *Controller) run(ctx context.Context, t clock.Ticker) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if !c.applyTick(ctx) {
				return
			}
		}
	}
}

// applyTick reports whether the goroutine should keep ticking.
func (c *Controller) applyTick(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A tick received before a pause took the lock must not be applied.
	if ctx.Err() != nil {
		return false
	}
	if !c.m.tick() {
		return false
	}
	if c.m.run == Completed {
		c.releaseLocked()
		c.publishLocked()
		log.Printf("session %s completed after %d ticks", c.id, c.m.ticks)
		return false
	}
	c.publishLocked()
	return true
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		ID:               c.id,
		Mode:             c.cfg.Mode,
		SecondsRemaining: c.m.remaining,
		RunState:         c.m.run,
		TotalServes:      c.m.serves,
		AccuracyPercent:  c.m.accuracy,
		AvgSpeedKmh:      c.m.speed,
		ProgressPercent:  c.m.progress(),
		FormattedTime:    FormatTime(c.m.remaining),
		Ended:            c.ended,
		Version:          c.version,
	}
}

func (c *Controller) publishLocked() {
	c.version++
	snap := c.snapshotLocked()
	select {
	case c.changes <- snap:
		return
	default:
	}
	select {
	case <-c.changes:
	default:
	}
	select {
	case c.changes <- snap:
	default:
	}
}
