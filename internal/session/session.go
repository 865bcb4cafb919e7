// Package session drives a clock engine together with the suspended game
// store. Every operation that can lose a game asks the Confirmer first.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/michael-freling/tabletop-clock/internal/store"
	"github.com/rs/zerolog"
)

// Error variables for common error conditions
var (
	ErrCancelled       = errors.New("cancelled by user")
	ErrNoSuspendedGame = errors.New("no suspended game")
	ErrNothingToSave   = errors.New("no game in progress to save")
	ErrGameInProgress  = errors.New("a game is already in progress")
)

// Session is the calling flow around one clock engine
type Session struct {
	engine    *clock.Engine
	store     *store.Store
	confirmer Confirmer
	notifier  Notifier
	logger    zerolog.Logger
	newGameID func() string

	// mu serializes the storage flows; taps and pauses go straight to the engine
	mu      sync.Mutex
	resumed bool
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithGameIDs replaces the game ID generator
func WithGameIDs(newGameID func() string) Option {
	return func(s *Session) {
		s.newGameID = newGameID
	}
}

// New creates a session. The caller runs the engine.
func New(engine *clock.Engine, st *store.Store, confirmer Confirmer, notifier Notifier, opts ...Option) *Session {
	s := &Session{
		engine:    engine,
		store:     st,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    zerolog.Nop(),
		newGameID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure selects the mode and parameters of the next game
func (s *Session) Configure(mode clock.Mode, cfg clock.Config) error {
	return s.engine.Configure(mode, cfg)
}

// Start begins a new game with the configured mode. When a game of the same
// mode is suspended the user must agree to start over; the suspended game is
// kept until it is overwritten or discarded.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.engine.Snapshot()
	if err != nil {
		return err
	}
	if snap.State != clock.StateSetup {
		return fmt.Errorf("%w: %s", ErrGameInProgress, snap.State)
	}

	exists, err := s.store.Has(snap.Mode)
	if err != nil {
		return fmt.Errorf("failed to check suspended games: %w", err)
	}
	if exists {
		if err := s.confirm(ctx, Prompt{Kind: PromptStartOver, Mode: snap.Mode}); err != nil {
			return err
		}
	}

	if err := s.engine.Start(s.newGameID()); err != nil {
		return err
	}
	s.resumed = false
	return nil
}

// Tap presses the button of side
func (s *Session) Tap(side clock.Side) (clock.Transition, error) {
	return s.engine.Tap(side)
}

// Pause stops the running clock
func (s *Session) Pause() (clock.Transition, error) {
	return s.engine.Pause()
}

// Resume continues a paused clock
func (s *Session) Resume() (clock.Transition, error) {
	return s.engine.Resume()
}

// Save suspends the current game under its mode and returns the clock to
// SETUP. Overwriting a suspended game needs confirmation.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return err
	}
	if !snap.InProgress() {
		return fmt.Errorf("%w: %s", ErrNothingToSave, snap.State)
	}

	exists, err := s.store.Has(snap.Mode)
	if err != nil {
		return fmt.Errorf("failed to check suspended games: %w", err)
	}
	if exists {
		if err := s.confirm(ctx, Prompt{Kind: PromptOverwrite, Mode: snap.Mode}); err != nil {
			return err
		}
		// the clock kept running while the user answered
		if snap, err = s.engine.Snapshot(); err != nil {
			return err
		}
		if !snap.InProgress() {
			return fmt.Errorf("%w: %s", ErrNothingToSave, snap.State)
		}
	}

	if err := s.store.Save(snap.Mode, snap); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := s.engine.Reset(); err != nil {
		return err
	}
	s.resumed = false

	s.logger.Info().
		Str("game_id", snap.GameID).
		Str("mode", string(snap.Mode)).
		Int("turn", snap.TurnCount).
		Msg("game suspended")
	s.notifier.Notify(MessageSaved)
	return nil
}

// ResumeFrom loads the game suspended under mode. The clock comes back PAUSED
// and the game is marked as resumed so that abandoning it removes the entry.
func (s *Session) ResumeFrom(mode clock.Mode) (clock.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.engine.Snapshot()
	if err != nil {
		return clock.Snapshot{}, err
	}
	if current.State != clock.StateSetup {
		return clock.Snapshot{}, fmt.Errorf("%w: %s", ErrGameInProgress, current.State)
	}

	saved, ok, err := s.store.Get(mode)
	if err != nil {
		return clock.Snapshot{}, fmt.Errorf("failed to read suspended games: %w", err)
	}
	if !ok {
		return clock.Snapshot{}, fmt.Errorf("%w: %s", ErrNoSuspendedGame, mode)
	}

	if err := s.engine.Restore(saved); err != nil {
		return clock.Snapshot{}, fmt.Errorf("failed to restore %s game: %w", mode, err)
	}
	s.resumed = true

	return s.engine.Snapshot()
}

// Exit leaves the clock screen. With saveFirst the game is saved as by Save.
// Otherwise a running or paused game is only abandoned after confirmation,
// and a game that was resumed from storage is removed from it.
func (s *Session) Exit(ctx context.Context, saveFirst bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if saveFirst {
		return s.save(ctx)
	}

	snap, err := s.engine.Snapshot()
	if err != nil {
		return err
	}
	if snap.State == clock.StateSetup {
		return nil
	}
	if snap.InProgress() {
		if err := s.confirm(ctx, Prompt{Kind: PromptExitWithoutSaving, Mode: snap.Mode}); err != nil {
			return err
		}
	}

	if s.resumed {
		if err := s.store.Delete(snap.Mode); err != nil {
			return fmt.Errorf("failed to discard suspended game: %w", err)
		}
		s.logger.Info().
			Str("game_id", snap.GameID).
			Str("mode", string(snap.Mode)).
			Msg("resumed game abandoned")
		s.resumed = false
	}

	return s.engine.Reset()
}

// Resumed reports whether the live game was loaded from storage
func (s *Session) Resumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumed
}

// HasSuspended reports whether a game is suspended under mode
func (s *Session) HasSuspended(mode clock.Mode) (bool, error) {
	return s.store.Has(mode)
}

// Suspended lists every suspended game
func (s *Session) Suspended() ([]clock.Snapshot, error) {
	return s.store.List()
}

// Snapshot returns the live game state
func (s *Session) Snapshot() (clock.Snapshot, error) {
	return s.engine.Snapshot()
}

// Subscribe returns a channel of live game updates
func (s *Session) Subscribe() <-chan clock.Snapshot {
	return s.engine.Subscribe()
}

func (s *Session) confirm(ctx context.Context, prompt Prompt) error {
	ok, err := s.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to confirm %s: %w", prompt.Kind, err)
	}
	if !ok {
		s.logger.Debug().Str("prompt", string(prompt.Kind)).Msg("declined")
		return ErrCancelled
	}
	return nil
}
