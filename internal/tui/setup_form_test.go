package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rallybot/internal/model"
)

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := model.SessionConfig{DurationMinutes: 45, Mode: model.ModeAI, Intensity: 70, Direction: 20, Frequency: 90}
	goals := model.Goals{DailyHours: 3, ServeGoal: 60}

	gotCfg, gotGoals, err := newSetupValues(cfg, goals).resolve()
	require.NoError(t, err)
	assert.Equal(t, cfg, gotCfg)
	assert.Equal(t, goals, gotGoals)
}

func TestSetupValuesRejectInvalidFields(t *testing.T) {
	cases := map[string]func(*setupValues){
		"mode":      func(v *setupValues) { v.mode = "smash" },
		"duration":  func(v *setupValues) { v.duration = 200 },
		"off step":  func(v *setupValues) { v.duration = 7 },
		"intensity": func(v *setupValues) { v.intensity = "x" },
		"frequency": func(v *setupValues) { v.frequency = "-1" },
		"hours":     func(v *setupValues) { v.dailyHours = 25 },
		"serves":    func(v *setupValues) { v.serveGoal = "0" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := newSetupValues(model.DefaultSessionConfig(), model.DefaultGoals())
			mutate(v)
			_, _, err := v.resolve()
			assert.Error(t, err)
		})
	}
}

func TestSetupValidators(t *testing.T) {
	assert.NoError(t, validatePercent("0"))
	assert.Error(t, validatePercent("101"))
	assert.NoError(t, goalValidator(model.GoalServe)("100"))
	assert.Error(t, goalValidator(model.GoalTime)("48"))
}

func TestNewSetupFormBuilds(t *testing.T) {
	v := newSetupValues(model.DefaultSessionConfig(), model.DefaultGoals())
	assert.NotNil(t, newSetupForm(v))
}

func TestSetupValuesSnapToSteps(t *testing.T) {
	cfg := model.DefaultSessionConfig()
	cfg.DurationMinutes = 7
	v := newSetupValues(cfg, model.Goals{DailyHours: 40, ServeGoal: 0})

	assert.Equal(t, 5, v.duration)
	assert.Equal(t, 24, v.dailyHours, "out of range goal falls back to default")
	assert.Equal(t, "50", v.serveGoal)

	gotCfg, gotGoals, err := v.resolve()
	require.NoError(t, err)
	assert.Equal(t, 5, gotCfg.DurationMinutes)
	assert.Equal(t, model.Goals{DailyHours: 24, ServeGoal: 50}, gotGoals)
}

func TestSetupOptionsFollowSteps(t *testing.T) {
	durations := durationOptions()
	require.Len(t, durations, 24)
	assert.Equal(t, "5 min", durations[0].Key)
	assert.Equal(t, 120, durations[len(durations)-1].Value)

	hours := goalOptions(model.GoalTime)
	require.Len(t, hours, 24)
	assert.Equal(t, "1 hours", hours[0].Key)
	assert.Equal(t, 24, hours[23].Value)
}

func TestSubmitGoal(t *testing.T) {
	n, err := submitGoal(model.GoalServe, " 75 ")
	require.NoError(t, err)
	assert.Equal(t, 75, n)

	_, err = submitGoal(model.GoalServe, "101")
	assert.ErrorContains(t, err, "Serve count goal")
}
