// Package main provides the CLI entrypoint for rallybot.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/rallybot/internal/analytics"
	"github.com/verte-zerg/rallybot/internal/config"
	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/session"
	"github.com/verte-zerg/rallybot/internal/training"
	"github.com/verte-zerg/rallybot/internal/tui"
)

const logEnv = "RALLYBOT_LOG"

var (
	sessionDuration  int
	sessionMode      string
	sessionIntensity int
	sessionDirection int
	sessionFrequency int
	goalDailyHours   int
	goalServes       int
	skipSetup        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSessionConfig()
	goals := model.DefaultGoals()

	rootCmd := &cobra.Command{
		Use:           "rallybot",
		Short:         "Tennis serve-robot training companion",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().IntVar(&sessionDuration, "duration", defaults.DurationMinutes, "session length in minutes")
	rootCmd.Flags().StringVar(&sessionMode, "mode", string(defaults.Mode), "training mode (serve or ai)")
	rootCmd.Flags().IntVar(&sessionIntensity, "intensity", defaults.Intensity, "robot intensity (0-100)")
	rootCmd.Flags().IntVar(&sessionDirection, "direction", defaults.Direction, "serve direction (0-100)")
	rootCmd.Flags().IntVar(&sessionFrequency, "frequency", defaults.Frequency, "serve frequency (0-100)")
	rootCmd.Flags().IntVar(&goalDailyHours, "daily-hours", goals.DailyHours, "daily training time goal in hours")
	rootCmd.Flags().IntVar(&goalServes, "serve-goal", goals.ServeGoal, "serve count goal")
	rootCmd.Flags().BoolVar(&skipSetup, "no-setup", false, "skip the setup form and start with the given settings")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "duration", &sessionDuration, fileCfg.Session.Duration)
	applyStringConfig(cmd, "mode", &sessionMode, fileCfg.Session.Mode)
	applyIntConfig(cmd, "intensity", &sessionIntensity, fileCfg.Session.Intensity)
	applyIntConfig(cmd, "direction", &sessionDirection, fileCfg.Session.Direction)
	applyIntConfig(cmd, "frequency", &sessionFrequency, fileCfg.Session.Frequency)
	applyIntConfig(cmd, "daily-hours", &goalDailyHours, fileCfg.Goals.DailyHours)
	applyIntConfig(cmd, "serve-goal", &goalServes, fileCfg.Goals.ServeGoal)

	mode, err := training.ParseMode(sessionMode)
	if err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	cfg := model.SessionConfig{
		DurationMinutes: sessionDuration,
		Mode:            mode,
		Intensity:       sessionIntensity,
		Direction:       sessionDirection,
		Frequency:       sessionFrequency,
	}
	goals := model.Goals{DailyHours: goalDailyHours, ServeGoal: goalServes}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	if !skipSetup && term.IsTerminal(int(os.Stdin.Fd())) {
		cfg, goals, err = tui.RunSetupForm(cfg, goals)
		if errors.Is(err, tui.ErrSetupAborted) {
			logErrln("Setup cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}
	if err := session.Validate(cfg); err != nil {
		return err
	}
	if err := training.ValidateGoals(goals); err != nil {
		return err
	}

	ctrl, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	log.Printf("session %s: %d min, mode=%s intensity=%d direction=%d frequency=%d",
		ctrl.ID(), cfg.DurationMinutes, cfg.Mode, cfg.Intensity, cfg.Direction, cfg.Frequency)

	screen := tui.NewModel(ctrl, goals)
	program := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	summary, ok := screen.Summary()
	if !ok {
		return nil
	}
	if err := analytics.RenderSummary(cmd.OutOrStdout(), summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// setupLogging routes the standard logger to the file named by RALLYBOT_LOG,
// or discards it so log lines never land on the alt screen.
func setupLogging() (func(), error) {
	path := strings.TrimSpace(os.Getenv(logEnv))
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "rallybot")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := model.DefaultSessionConfig()
	goals := model.DefaultGoals()
	return fmt.Sprintf(`# rallybot configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# duration = %d           # Session length in minutes
# mode = %q          # Training mode: "serve" or "ai"
# intensity = %d          # Robot intensity (0-100)
# direction = %d          # Serve direction (0-100)
# frequency = %d          # Serve frequency (0-100)

[goals]
# daily-hours = %d        # Daily training time goal in hours (1-24)
# serve-goal = %d         # Serve count goal (1-100)
`,
		defaults.DurationMinutes,
		defaults.Mode,
		defaults.Intensity,
		defaults.Direction,
		defaults.Frequency,
		goals.DailyHours,
		goals.ServeGoal,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
