// Package model defines shared data structures.
package model

// Mode selects the training program shown on the session screen.
type Mode string

const (
	ModeServe Mode = "serve"
	ModeAI    Mode = "ai"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeServe || m == ModeAI
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	if m == ModeAI {
		return "AI coach"
	}
	return "Flat serve"
}

// SessionConfig defines the settings of one training session.
type SessionConfig struct {
	DurationMinutes int
	Mode            Mode
	Intensity       int
	Direction       int
	Frequency       int
}

// DefaultSessionConfig returns the settings used when the caller supplies none.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DurationMinutes: 20,
		Mode:            ModeServe,
		Intensity:       50,
		Direction:       30,
		Frequency:       40,
	}
}

// TotalSeconds returns the planned session length in seconds.
func (c SessionConfig) TotalSeconds() int {
	return c.DurationMinutes * 60
}

// GoalKind identifies a player goal.
type GoalKind string

const (
	GoalTime  GoalKind = "time"
	GoalServe GoalKind = "serve"
)

// Goals holds the player's daily targets.
type Goals struct {
	DailyHours int
	ServeGoal  int
}

// DefaultGoals returns the goals used when nothing is configured.
func DefaultGoals() Goals {
	return Goals{DailyHours: 24, ServeGoal: 50}
}

// MetricSample records one metric refresh during a session.
type MetricSample struct {
	Tick            int
	Serve           int
	AccuracyPercent int
	AvgSpeedKmh     int
}
