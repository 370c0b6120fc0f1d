package analytics

import (
	"fmt"
	"io"

	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/session"
)

const trendWindow = 3

// Summary is the end of session report.
type Summary struct {
	SessionID      string
	Mode           model.Mode
	State          session.RunState
	PlannedSeconds int
	TrainedSeconds int
	Serves         int

	Samples      int
	AvgAccuracy  float64
	BestAccuracy int
	AvgSpeed     float64
	TopSpeed     int
	SpeedTrend   []float64

	TimeGoalPercent  float64
	ServeGoalPercent float64
}

// Summarize builds a Summary from the last snapshot and the recorded samples.
func Summarize(snap session.Snapshot, cfg model.SessionConfig, samples []model.MetricSample, goals model.Goals) Summary {
	planned := cfg.TotalSeconds()
	trained := max(0, planned-snap.SecondsRemaining)
	s := Summary{
		SessionID:      snap.ID,
		Mode:           snap.Mode,
		State:          snap.RunState,
		PlannedSeconds: planned,
		TrainedSeconds: trained,
		Serves:         snap.TotalServes,
		Samples:        len(samples),
	}

	if len(samples) > 0 {
		speeds := make([]float64, len(samples))
		var accSum, speedSum int
		for i, sample := range samples {
			accSum += sample.AccuracyPercent
			speedSum += sample.AvgSpeedKmh
			s.BestAccuracy = max(s.BestAccuracy, sample.AccuracyPercent)
			s.TopSpeed = max(s.TopSpeed, sample.AvgSpeedKmh)
			speeds[i] = float64(sample.AvgSpeedKmh)
		}
		n := float64(len(samples))
		s.AvgAccuracy = float64(accSum) / n
		s.AvgSpeed = float64(speedSum) / n
		s.SpeedTrend = MovingAverage(speeds, trendWindow)
	}

	s.TimeGoalPercent = GoalProgress(float64(trained), float64(goals.DailyHours*3600))
	s.ServeGoalPercent = GoalProgress(float64(snap.TotalServes), float64(goals.ServeGoal))
	return s
}

// GoalProgress returns value as a percentage of goal, clamped to [0,100].
func GoalProgress(value, goal float64) float64 {
	if goal <= 0 || value <= 0 {
		return 0
	}
	return min(100, value/goal*100)
}

// RenderSummary prints the summary table.
func RenderSummary(w io.Writer, s Summary) error {
	rows := [][]string{
		{"Session", s.SessionID},
		{"Mode", s.Mode.Label()},
		{"Status", string(s.State)},
		{"Trained", fmt.Sprintf("%s / %s", session.FormatTime(s.TrainedSeconds), session.FormatTime(s.PlannedSeconds))},
		{"Serves", fmt.Sprintf("%d", s.Serves)},
	}
	if s.Samples > 0 {
		rows = append(rows,
			[]string{"Avg accuracy", fmt.Sprintf("%.1f%%", s.AvgAccuracy)},
			[]string{"Best accuracy", fmt.Sprintf("%d%%", s.BestAccuracy)},
			[]string{"Avg speed", fmt.Sprintf("%.1f km/h", s.AvgSpeed)},
			[]string{"Top speed", fmt.Sprintf("%d km/h", s.TopSpeed)},
			[]string{"Speed trend", Sparkline(s.SpeedTrend)},
		)
	} else {
		rows = append(rows, []string{"Metrics", "no serves recorded"})
	}
	rows = append(rows,
		[]string{"Time goal", fmt.Sprintf("%.1f%%", s.TimeGoalPercent)},
		[]string{"Serve goal", fmt.Sprintf("%.1f%%", s.ServeGoalPercent)},
	)

	if _, err := fmt.Fprintln(w, "Session Summary"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Metric", "Value"}, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
