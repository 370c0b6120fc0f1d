// Package tui provides the Bubble Tea training session interface.
package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rallybot/internal/analytics"
	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/session"
)

const (
	maxBarWidth  = 60
	feedbackText = "Try a slightly longer follow-through on the next shot."
)

type snapshotMsg session.Snapshot

// Model implements the Bubble Tea session screen.
type Model struct {
	ctrl  *session.Controller
	cfg   model.SessionConfig
	goals model.Goals

	snap    session.Snapshot
	keys    keyMap
	help    help.Model
	bar     progress.Model
	summary *analytics.Summary

	confirming bool

	width  int
	height int
}

var (
	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5CB33D")).
			Bold(true).
			Padding(1, 6)
	modeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	stateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Align(lipgloss.Center)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	feedbackStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#5CB33D")).
			Foreground(lipgloss.Color("#B8B8B8"))
	feedbackTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#527D40")).Bold(true)
	modalStyle         = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

// NewModel constructs the session screen for ctrl.
func NewModel(ctrl *session.Controller, goals model.Goals) *Model {
	bar := progress.New(progress.WithSolidFill("#5CB33D"), progress.WithoutPercentage())
	bar.Width = maxBarWidth
	m := &Model{
		ctrl:  ctrl,
		cfg:   ctrl.Config(),
		goals: goals,
		snap:  ctrl.Snapshot(),
		keys:  newKeyMap(),
		help:  help.New(),
		bar:   bar,
	}
	m.syncToggleHelp()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForSnapshot(m.ctrl.Changes(), m.ctrl.Done())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(maxBarWidth, msg.Width-8))
		m.help.Width = msg.Width
		return m, nil
	case snapshotMsg:
		m.setSnapshot(session.Snapshot(msg))
		return m, waitForSnapshot(m.ctrl.Changes(), m.ctrl.Done())
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.ctrl.Close()
		m.finish()
		return m, tea.Quit
	}
	if m.confirming {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirming = false
			m.ctrl.End()
			m.ctrl.Close()
			m.setSnapshot(m.ctrl.Snapshot())
			m.finish()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.confirming = false
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Reset):
		if m.ctrl.Reset() {
			m.summary = nil
		}
	case key.Matches(msg, m.keys.End):
		m.confirming = true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		return m, nil
	}
	m.setSnapshot(m.ctrl.Snapshot())
	return m, nil
}

func (m *Model) toggle() {
	current := m.ctrl.Snapshot()
	var ok bool
	switch current.RunState {
	case session.Idle:
		ok = m.ctrl.Start()
	case session.Running:
		ok = m.ctrl.Pause()
	case session.Paused:
		ok = m.ctrl.Resume()
	}
	if !ok {
		log.Printf("session %s: toggle ignored in state %s", current.ID, current.RunState)
	}
}

// setSnapshot drops snapshots older than the one already shown. A tick
// queued before a key press can arrive after it.
func (m *Model) setSnapshot(snap session.Snapshot) {
	if snap.Version < m.snap.Version {
		return
	}
	m.snap = snap
	if snap.RunState == session.Completed && m.summary == nil {
		m.finish()
	}
	m.syncToggleHelp()
}

func (m *Model) syncToggleHelp() {
	label := "start"
	switch m.snap.RunState {
	case session.Running:
		label = "pause"
	case session.Paused:
		label = "resume"
	}
	m.keys.Toggle.SetHelp("space", label)
	m.keys.Toggle.SetEnabled(m.snap.RunState != session.Completed)
}

func (m *Model) finish() {
	s := analytics.Summarize(m.snap, m.cfg, m.ctrl.Samples(), m.goals)
	m.summary = &s
}

// Summary returns the end of session report once the session has completed
// or been ended.
func (m *Model) Summary() (analytics.Summary, bool) {
	if m.summary == nil {
		return analytics.Summary{}, false
	}
	return *m.summary, true
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		timerStyle.Render(m.snap.FormattedTime),
		modeStyle.Render(m.cfg.Mode.Label() + " • wide zone target"),
		"",
		m.bar.ViewAs(m.snap.ProgressPercent / 100),
		stateStyle.Render(m.renderStatus()),
		"",
		m.renderCards(),
	}
	if m.cfg.Mode == model.ModeAI {
		sections = append(sections, "", m.renderFeedback())
	}
	if m.confirming {
		sections = append(sections, "", m.renderConfirm())
	}
	sections = append(sections, "", m.help.View(m.keys))
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderStatus() string {
	switch m.snap.RunState {
	case session.Idle:
		return "Ready"
	case session.Running:
		return fmt.Sprintf("Training %.0f%%", m.snap.ProgressPercent)
	case session.Paused:
		return "Paused"
	case session.Completed:
		return "Training complete. Press r to go again or e to finish."
	default:
		return string(m.snap.RunState)
	}
}

func (m *Model) renderCards() string {
	cards := []string{
		renderCard("Total serves", strconv.Itoa(m.snap.TotalServes)),
		renderCard("Accuracy", fmt.Sprintf("%d%%", m.snap.AccuracyPercent)),
		renderCard("Avg speed", fmt.Sprintf("%dkm/h", m.snap.AvgSpeedKmh)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value string) string {
	return cardStyle.Render(cardValueStyle.Render(value) + "\n" + cardTitleStyle.Render(title))
}

func (m *Model) renderFeedback() string {
	return feedbackStyle.Render(feedbackTitleStyle.Render("AI coach feedback") + "\n" + feedbackText)
}

func (m *Model) renderConfirm() string {
	lines := []string{
		"End training?",
		"Your session so far will be summarized.",
		"",
		"y: end  n: cancel",
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func waitForSnapshot(ch <-chan session.Snapshot, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-ch:
			return snapshotMsg(snap)
		case <-done:
			return nil
		}
	}
}
