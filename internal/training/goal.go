package training

import (
	"fmt"
	"strconv"

	"github.com/verte-zerg/rallybot/internal/model"
)

// GoalSpec describes the bounds and labels of one goal kind.
type GoalSpec struct {
	Kind    model.GoalKind
	Title   string
	Unit    string
	Min     int
	Max     int
	Default int
}

var goalSpecs = map[model.GoalKind]GoalSpec{
	model.GoalTime:  {Kind: model.GoalTime, Title: "Daily training time", Unit: "hours", Min: 1, Max: 24, Default: 24},
	model.GoalServe: {Kind: model.GoalServe, Title: "Serve count goal", Unit: "serves", Min: 1, Max: 100, Default: 50},
}

// SpecFor returns the spec of kind. Unknown kinds fall back to the time goal.
func SpecFor(kind model.GoalKind) GoalSpec {
	if spec, ok := goalSpecs[kind]; ok {
		return spec
	}
	return goalSpecs[model.GoalTime]
}

// Goal is a goal value being edited.
type Goal struct {
	Spec  GoalSpec
	Value int
}

// NewGoal starts editing kind at value, or at the default when value is out of range.
func NewGoal(kind model.GoalKind, value int) *Goal {
	spec := SpecFor(kind)
	if value < spec.Min || value > spec.Max {
		value = spec.Default
	}
	return &Goal{Spec: spec, Value: value}
}

// Adjust moves the value by one, refusing to leave the spec range.
func (g *Goal) Adjust(increment bool) bool {
	next := g.Value - 1
	if increment {
		next = g.Value + 1
	}
	if next < g.Spec.Min || next > g.Spec.Max {
		return false
	}
	g.Value = next
	return true
}

// GoalSteps walks Adjust from the minimum of kind up to its maximum.
func GoalSteps(kind model.GoalKind) []Goal {
	spec := SpecFor(kind)
	g := NewGoal(kind, spec.Min)
	steps := []Goal{*g}
	for g.Adjust(true) {
		steps = append(steps, *g)
	}
	return steps
}

// Submit parses text as the new value. On error the current value is kept.
func (g *Goal) Submit(text string) error {
	v, err := ParseGoal(g.Spec.Kind, text)
	if err != nil {
		return err
	}
	g.Value = v
	return nil
}

// String renders the value with its unit.
func (g *Goal) String() string {
	return strconv.Itoa(g.Value) + " " + g.Spec.Unit
}

// ParseGoal parses text as a value of kind.
func ParseGoal(kind model.GoalKind, text string) (int, error) {
	spec := SpecFor(kind)
	v, err := parseBounded(text, spec.Min, spec.Max, spec.Unit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", spec.Title, err)
	}
	return v, nil
}

// ValidateGoals checks both goals.
func ValidateGoals(g model.Goals) error {
	if _, err := ParseGoal(model.GoalTime, strconv.Itoa(g.DailyHours)); err != nil {
		return err
	}
	if _, err := ParseGoal(model.GoalServe, strconv.Itoa(g.ServeGoal)); err != nil {
		return err
	}
	return nil
}
