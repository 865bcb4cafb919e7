package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/michael-freling/tabletop-clock/internal/command"
	"github.com/michael-freling/tabletop-clock/internal/config"
	"github.com/michael-freling/tabletop-clock/internal/cue"
	"github.com/michael-freling/tabletop-clock/internal/logging"
	"github.com/michael-freling/tabletop-clock/internal/session"
	"github.com/michael-freling/tabletop-clock/internal/store"
	"github.com/michael-freling/tabletop-clock/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	baseDir      string
	storage      string
	alarmCommand string
	clickCommand string
	bell         bool
	logLevel     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:          "chess-clock",
		Short:        "A two-player chess clock for the terminal",
		Long:         `A two-player chess clock supporting standard, gong, Fischer increment and Bronstein delay timing, with games that can be suspended and resumed per mode.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", config.DefaultBaseDir(), "directory for settings, logs and saved games")
	rootCmd.PersistentFlags().StringVar(&storage, "storage", defaults.Storage, "storage backend for saved games (file or bolt)")
	rootCmd.PersistentFlags().StringVar(&alarmCommand, "alarm-command", defaults.AlarmCommand, "command played when a clock runs out")
	rootCmd.PersistentFlags().StringVar(&clickCommand, "click-command", defaults.ClickCommand, "command played on every accepted tap")
	rootCmd.PersistentFlags().BoolVar(&bell, "bell", defaults.Bell, "ring the terminal bell when a clock runs out")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newDiscardCmd())
	rootCmd.AddCommand(newTimerCmd())

	return rootCmd
}

// environment holds what every command needs: settings, the log file and
// the suspended game store
type environment struct {
	settings  config.Config
	logger    zerolog.Logger
	logCloser io.Closer
	store     *store.Store
}

func openEnvironment(cmd *cobra.Command) (*environment, error) {
	settings, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	applyFlags(cmd, &settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.Open(baseDir, settings.LogLevel)
	if err != nil {
		return nil, err
	}

	backend, err := store.OpenBackend(settings.Storage, baseDir)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &environment{
		settings:  settings,
		logger:    logger,
		logCloser: logCloser,
		store:     store.New(backend, logger),
	}, nil
}

func (e *environment) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("failed to close storage")
	}
	e.logCloser.Close()
}

// applyFlags overrides loaded settings with the flags given on the command line
func applyFlags(cmd *cobra.Command, settings *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		settings.Storage = storage
	}
	if flags.Changed("alarm-command") {
		settings.AlarmCommand = alarmCommand
	}
	if flags.Changed("click-command") {
		settings.ClickCommand = clickCommand
	}
	if flags.Changed("bell") {
		settings.Bell = bell
	}
	if flags.Changed("log-level") {
		settings.LogLevel = logLevel
	}
}

func (e *environment) player() (cue.Player, func()) {
	var players cue.Multi
	if e.settings.Bell {
		players = append(players, cue.NewBell(os.Stderr, false))
	}

	wait := func() {}
	if e.settings.AlarmCommand != "" || e.settings.ClickCommand != "" {
		c := cue.NewCommand(command.NewRunner(), e.settings.AlarmCommand, e.settings.ClickCommand, e.logger)
		players = append(players, c)
		wait = c.Wait
	}
	return players, wait
}

func newPlayCmd() *cobra.Command {
	var (
		mode     string
		total    int
		inc      int
		incStart int
		gong     int
		resume   bool
	)
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the chess clock",
		Long:  `Open the chess clock for a new game, or with --resume continue the game saved for the selected mode.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			flags := cmd.Flags()
			if flags.Changed("mode") {
				env.settings.Mode = clock.Mode(mode)
			}
			if flags.Changed("time") {
				env.settings.Clock.TotalTimeSeconds = total
			}
			if flags.Changed("inc") {
				env.settings.Clock.IncrementSeconds = inc
			}
			if flags.Changed("inc-start") {
				env.settings.Clock.IncrementStartTurn = incStart
			}
			if flags.Changed("gong") {
				env.settings.Clock.GongSeconds = gong
			}

			return play(cmd.Context(), env, resume)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(defaults.Mode), "timing mode (STANDARD, GONG, FISCHER or BRONSTEIN)")
	cmd.Flags().IntVar(&total, "time", defaults.Clock.TotalTimeSeconds, "seconds on each clock")
	cmd.Flags().IntVar(&inc, "inc", defaults.Clock.IncrementSeconds, "Fischer increment or Bronstein delay in seconds")
	cmd.Flags().IntVar(&incStart, "inc-start", defaults.Clock.IncrementStartTurn, "first turn that earns the Fischer increment")
	cmd.Flags().IntVar(&gong, "gong", defaults.Clock.GongSeconds, "seconds per move in gong mode")
	cmd.Flags().BoolVar(&resume, "resume", false, "continue the saved game of the selected mode")

	return cmd
}

func play(parent context.Context, env *environment, resume bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	player, waitPlayer := env.player()
	defer waitPlayer()

	engine := clock.NewEngine(clock.ModeStandard, clock.DefaultConfig(),
		clock.WithCue(player),
		clock.WithLogger(env.logger),
	)
	engineDone := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(engineDone)
	}()
	defer func() {
		cancel()
		<-engineDone
	}()

	confirmer := ui.NewConfirmer()
	notifier := ui.NewNotifier()
	sess := session.New(engine, env.store, confirmer, notifier, session.WithLogger(env.logger))

	mode := env.settings.Mode
	if err := sess.Configure(mode, env.settings.Clock); err != nil {
		return err
	}

	open := sess.Start
	if resume {
		has, err := sess.HasSuspended(mode)
		if err != nil {
			return err
		}
		if !has {
			return fmt.Errorf("%w: %s", session.ErrNoSuspendedGame, mode)
		}
		open = func(ctx context.Context) error {
			_, err := sess.ResumeFrom(mode)
			return err
		}
	}

	model := ui.NewClockModel(ctx, sess, confirmer, notifier, open)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("clock screen failed: %w", err)
	}
	return model.Err()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved games",
		Long:  `List the saved games, at most one per timing mode.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			games, err := env.store.List()
			if err != nil {
				return fmt.Errorf("failed to list saved games: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(games) == 0 {
				fmt.Fprintln(out, "No saved games.")
				return nil
			}
			for _, snap := range games {
				fmt.Fprintln(out, ui.FormatSuspended(snap))
			}
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <mode>",
		Short: "Show a saved game",
		Long:  `Show the details of the game saved for a timing mode.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := clock.ParseMode(args[0])
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			snap, ok, err := env.store.Get(mode)
			if err != nil {
				return fmt.Errorf("failed to read saved games: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: %s", session.ErrNoSuspendedGame, mode)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Game: %s\n", snap.GameID)
			fmt.Fprintf(out, "Mode: %s\n", snap.Mode)
			fmt.Fprintf(out, "Saved while: %s\n", ui.FormatState(snap.State))
			fmt.Fprintf(out, "Turn: %d\n", snap.TurnCount)
			fmt.Fprintf(out, "%s: %s\n", clock.SideOne, ui.FormatTime(snap.Time(clock.SideOne)))
			fmt.Fprintf(out, "%s: %s\n", clock.SideTwo, ui.FormatTime(snap.Time(clock.SideTwo)))
			fmt.Fprintf(out, "To move: %s\n", snap.Active)
			fmt.Fprintf(out, "Settings: time %ds, increment %ds from turn %d, gong %ds\n",
				snap.Config.TotalTimeSeconds,
				snap.Config.IncrementSeconds,
				snap.Config.IncrementStartTurn,
				snap.Config.GongSeconds,
			)
			return nil
		},
	}
}

func newDiscardCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "discard <mode>",
		Short: "Delete a saved game",
		Long:  `Delete the game saved for a timing mode.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := clock.ParseMode(args[0])
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			out := cmd.OutOrStdout()
			has, err := env.store.Has(mode)
			if err != nil {
				return fmt.Errorf("failed to read saved games: %w", err)
			}
			if !has {
				fmt.Fprintf(out, "No saved %s game.\n", mode)
				return nil
			}

			if !force {
				ok, err := ui.AskYesNo(cmd.InOrStdin(), out, fmt.Sprintf("Discard the saved %s game?", mode))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Discard cancelled.")
					return nil
				}
			}

			if err := env.store.Delete(mode); err != nil {
				return fmt.Errorf("failed to discard saved game: %w", err)
			}
			fmt.Fprintf(out, "Saved %s game discarded.\n", mode)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")

	return cmd
}

func newTimerCmd() *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Open a plain countdown timer",
		Long:  `Open a single countdown timer that can be started, stopped, reset and adjusted, and rings when it reaches zero.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if cmd.Flags().Changed("seconds") {
				env.settings.TimerSeconds = seconds
			}
			if env.settings.TimerSeconds < 0 {
				return fmt.Errorf("%w: timer seconds cannot be negative", config.ErrInvalidSetting)
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithCancel(parent)
			defer cancel()

			player, waitPlayer := env.player()
			defer waitPlayer()

			timer := clock.NewPlainTimer(env.settings.TimerSeconds, nil, player)
			timerDone := make(chan struct{})
			go func() {
				timer.Run(ctx)
				close(timerDone)
			}()
			defer func() {
				cancel()
				<-timerDone
			}()

			model := ui.NewTimerModel(ctx, timer)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("timer screen failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", config.DefaultTimerSeconds, "starting value in seconds")

	return cmd
}
