package session

import (
	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/sampler"
)

// RunState is the lifecycle state of a session countdown.
type RunState string

const (
	Idle      RunState = "Idle"
	Running   RunState = "Running"
	Paused    RunState = "Paused"
	Completed RunState = "Completed"
)

const (
	refreshChance = 0.10
	accuracyMin   = 80
	accuracyMax   = 100
	speedMin      = 120
	speedMax      = 170
)

// machine holds the countdown state. It owns no timer; the Controller feeds
// it ticks and serializes access.
type machine struct {
	cfg     model.SessionConfig
	sampler *sampler.Sampler

	remaining int
	run       RunState
	ticks     int

	serves   int
	accuracy int
	speed    int
	samples  []model.MetricSample
}

func newMachine(cfg model.SessionConfig, s *sampler.Sampler) *machine {
	m := &machine{cfg: cfg, sampler: s}
	m.reset()
	return m
}

func (m *machine) start() bool {
	if m.run != Idle {
		return false
	}
	m.run = Running
	return true
}

func (m *machine) pause() bool {
	if m.run != Running {
		return false
	}
	m.run = Paused
	return true
}

func (m *machine) resume() bool {
	if m.run != Paused {
		return false
	}
	m.run = Running
	return true
}

func (m *machine) reset() {
	m.remaining = m.cfg.TotalSeconds()
	m.run = Idle
	m.ticks = 0
	m.serves = 0
	m.accuracy = 0
	m.speed = 0
	m.samples = nil
}

// tick advances the countdown by one second. It reports false when the
// machine is not running.
func (m *machine) tick() bool {
	if m.run != Running {
		return false
	}
	m.ticks++
	if m.remaining > 0 {
		m.remaining--
	}
	if m.sampler.Chance(refreshChance) {
		m.serves++
		m.accuracy = m.sampler.IntBetween(accuracyMin, accuracyMax)
		m.speed = m.sampler.IntBetween(speedMin, speedMax)
		m.samples = append(m.samples, model.MetricSample{
			Tick:            m.ticks,
			Serve:           m.serves,
			AccuracyPercent: m.accuracy,
			AvgSpeedKmh:     m.speed,
		})
	}
	if m.remaining == 0 {
		m.run = Completed
	}
	return true
}

func (m *machine) progress() float64 {
	return ProgressPercent(m.cfg.TotalSeconds(), m.remaining)
}
