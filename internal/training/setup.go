// Package training holds the editable session setup and player goals.
package training

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/rallybot/internal/model"
)

const (
	MinDuration  = 5
	MaxDuration  = 120
	DurationStep = 5
)

// ErrOutOfRange is wrapped by parse errors for values outside their bounds.
var ErrOutOfRange = errors.New("value out of range")

// Setup is the session configuration being edited before a session starts.
type Setup struct {
	cfg model.SessionConfig
}

// NewSetup starts editing from cfg.
func NewSetup(cfg model.SessionConfig) *Setup {
	return &Setup{cfg: cfg}
}

// AdjustDuration moves the duration one step up or down. Steps leaving
// [MinDuration, MaxDuration] are refused.
func (s *Setup) AdjustDuration(increase bool) bool {
	next := s.cfg.DurationMinutes - DurationStep
	if increase {
		next = s.cfg.DurationMinutes + DurationStep
	}
	if next < MinDuration || next > MaxDuration {
		return false
	}
	s.cfg.DurationMinutes = next
	return true
}

func (s *Setup) SetIntensity(v int) { s.cfg.Intensity = clampPercent(v) }
func (s *Setup) SetDirection(v int) { s.cfg.Direction = clampPercent(v) }
func (s *Setup) SetFrequency(v int) { s.cfg.Frequency = clampPercent(v) }

// SetMode selects a training mode. Unknown modes are ignored.
func (s *Setup) SetMode(mode model.Mode) bool {
	if !mode.Valid() {
		return false
	}
	s.cfg.Mode = mode
	return true
}

// DurationSteps lists every duration AdjustDuration can reach, shortest first.
func DurationSteps() []int {
	s := NewSetup(model.SessionConfig{DurationMinutes: MinDuration})
	steps := []int{MinDuration}
	for s.AdjustDuration(true) {
		steps = append(steps, s.Config().DurationMinutes)
	}
	return steps
}

// SnapDuration maps minutes onto the nearest duration step.
func SnapDuration(minutes int) int {
	if minutes <= MinDuration {
		return MinDuration
	}
	if minutes >= MaxDuration {
		return MaxDuration
	}
	return MinDuration + (minutes-MinDuration+DurationStep/2)/DurationStep*DurationStep
}

// Config returns the edited configuration.
func (s *Setup) Config() model.SessionConfig {
	return s.cfg
}

// ParseDuration parses a session length in minutes. Only whole steps are accepted.
func ParseDuration(text string) (int, error) {
	v, err := parseBounded(text, MinDuration, MaxDuration, "minutes")
	if err != nil {
		return 0, err
	}
	if (v-MinDuration)%DurationStep != 0 {
		return 0, fmt.Errorf("%w: duration must be a multiple of %d minutes", ErrOutOfRange, DurationStep)
	}
	return v, nil
}

// ParsePercent parses a slider value.
func ParsePercent(text string) (int, error) {
	return parseBounded(text, 0, 100, "%")
}

// ParseMode parses a mode name.
func ParseMode(text string) (model.Mode, error) {
	mode := model.Mode(strings.ToLower(strings.TrimSpace(text)))
	if !mode.Valid() {
		return "", fmt.Errorf("unknown mode %q (available: %s, %s)", text, model.ModeServe, model.ModeAI)
	}
	return mode, nil
}

func parseBounded(text string, lo, hi int, unit string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%w: enter a value between %d and %d %s", ErrOutOfRange, lo, hi, unit)
	}
	return v, nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
