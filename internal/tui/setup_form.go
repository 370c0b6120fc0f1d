package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/training"
)

// ErrSetupAborted is returned when the player leaves the setup form.
var ErrSetupAborted = errors.New("setup aborted")

// setupValues holds the raw form fields.
type setupValues struct {
	mode       string
	duration   int
	intensity  string
	direction  string
	frequency  string
	dailyHours int
	serveGoal  string
}

func newSetupValues(cfg model.SessionConfig, goals model.Goals) *setupValues {
	return &setupValues{
		mode:       string(cfg.Mode),
		duration:   training.SnapDuration(cfg.DurationMinutes),
		intensity:  strconv.Itoa(cfg.Intensity),
		direction:  strconv.Itoa(cfg.Direction),
		frequency:  strconv.Itoa(cfg.Frequency),
		dailyHours: training.NewGoal(model.GoalTime, goals.DailyHours).Value,
		serveGoal:  strconv.Itoa(training.NewGoal(model.GoalServe, goals.ServeGoal).Value),
	}
}

// resolve converts the fields into settings, applying them through a
// training.Setup so the same bounds hold as for step adjustments.
func (v *setupValues) resolve() (model.SessionConfig, model.Goals, error) {
	mode, err := training.ParseMode(v.mode)
	if err != nil {
		return model.SessionConfig{}, model.Goals{}, err
	}
	duration, err := training.ParseDuration(strconv.Itoa(v.duration))
	if err != nil {
		return model.SessionConfig{}, model.Goals{}, fmt.Errorf("duration: %w", err)
	}
	sliders := make([]int, 0, 3)
	for _, field := range []struct{ name, text string }{
		{"intensity", v.intensity},
		{"direction", v.direction},
		{"frequency", v.frequency},
	} {
		n, err := training.ParsePercent(field.text)
		if err != nil {
			return model.SessionConfig{}, model.Goals{}, fmt.Errorf("%s: %w", field.name, err)
		}
		sliders = append(sliders, n)
	}
	hours, err := submitGoal(model.GoalTime, strconv.Itoa(v.dailyHours))
	if err != nil {
		return model.SessionConfig{}, model.Goals{}, err
	}
	serves, err := submitGoal(model.GoalServe, v.serveGoal)
	if err != nil {
		return model.SessionConfig{}, model.Goals{}, err
	}

	setup := training.NewSetup(model.SessionConfig{DurationMinutes: duration})
	setup.SetMode(mode)
	setup.SetIntensity(sliders[0])
	setup.SetDirection(sliders[1])
	setup.SetFrequency(sliders[2])
	return setup.Config(), model.Goals{DailyHours: hours, ServeGoal: serves}, nil
}

// submitGoal applies text to a fresh goal of kind.
func submitGoal(kind model.GoalKind, text string) (int, error) {
	g := training.NewGoal(kind, training.SpecFor(kind).Default)
	if err := g.Submit(text); err != nil {
		return 0, err
	}
	return g.Value, nil
}

func durationOptions() []huh.Option[int] {
	steps := training.DurationSteps()
	opts := make([]huh.Option[int], 0, len(steps))
	for _, minutes := range steps {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d min", minutes), minutes))
	}
	return opts
}

func goalOptions(kind model.GoalKind) []huh.Option[int] {
	steps := training.GoalSteps(kind)
	opts := make([]huh.Option[int], 0, len(steps))
	for _, g := range steps {
		opts = append(opts, huh.NewOption(g.String(), g.Value))
	}
	return opts
}

func numberInput(title, description string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description(description).
		Value(value).
		Validate(validate)
}

func newSetupForm(v *setupValues) *huh.Form {
	timeSpec := training.SpecFor(model.GoalTime)
	serveSpec := training.SpecFor(model.GoalServe)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Training mode").
				Options(
					huh.NewOption(model.ModeServe.Label(), string(model.ModeServe)),
					huh.NewOption(model.ModeAI.Label(), string(model.ModeAI)),
				).
				Value(&v.mode),
			huh.NewSelect[int]().
				Title("Duration").
				Description(fmt.Sprintf("%d-%d minutes in steps of %d", training.MinDuration, training.MaxDuration, training.DurationStep)).
				Options(durationOptions()...).
				Value(&v.duration),
			numberInput("Intensity", "0-100", &v.intensity, validatePercent),
			numberInput("Direction", "0-100", &v.direction, validatePercent),
			numberInput("Frequency", "0-100", &v.frequency, validatePercent),
		).Title("Training settings"),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(timeSpec.Title).
				Options(goalOptions(model.GoalTime)...).
				Value(&v.dailyHours),
			numberInput(serveSpec.Title, fmt.Sprintf("%s, %d-%d", serveSpec.Unit, serveSpec.Min, serveSpec.Max), &v.serveGoal, goalValidator(model.GoalServe)),
		).Title("Goals"),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func validatePercent(s string) error {
	_, err := training.ParsePercent(s)
	return err
}

func goalValidator(kind model.GoalKind) func(string) error {
	return func(s string) error {
		_, err := submitGoal(kind, s)
		return err
	}
}

// RunSetupForm asks the player for session settings and goals, pre-filled
// with cfg and goals.
func RunSetupForm(cfg model.SessionConfig, goals model.Goals) (model.SessionConfig, model.Goals, error) {
	values := newSetupValues(cfg, goals)
	if err := newSetupForm(values).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return model.SessionConfig{}, model.Goals{}, ErrSetupAborted
		}
		return model.SessionConfig{}, model.Goals{}, fmt.Errorf("failed to run setup form: %w", err)
	}
	return values.resolve()
}
