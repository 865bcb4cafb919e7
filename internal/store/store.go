// Package store persists suspended games, at most one per clock mode, so a
// game can be resumed after the program exits.
package store

import (
	"fmt"
	"sync"

	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/rs/zerolog"
)

// Key is the namespaced key the suspended games are stored under
const Key = "tabletop.suspended_chess"

// Store reads and writes the suspended games as a single blob
type Store struct {
	backend Backend
	logger  zerolog.Logger
	mu      sync.Mutex
}

// New creates a store on top of backend
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Close closes the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// load reads every stored game. Blobs in an unreadable or obsolete layout
// yield an empty store; a mode-keyed map without a version is rewritten in
// the current layout.
func (s *Store) load() (map[clock.Mode]record, error) {
	data, err := s.backend.Get(Key)
	if err != nil {
		return nil, err
	}

	games, detected := decode(data)
	switch detected {
	case schemaCorrupt:
		s.logger.Warn().Int("bytes", len(data)).Msg("ignoring unreadable suspended games")
	case schemaFlat:
		s.logger.Info().Msg("discarding suspended game stored in the legacy single-game layout")
		if err := s.write(games); err != nil {
			return nil, err
		}
	case schemaModeMap:
		s.logger.Info().Int("games", len(games)).Msg("upgrading suspended games to the versioned layout")
		if err := s.write(games); err != nil {
			return nil, err
		}
	}
	return games, nil
}

func (s *Store) write(games map[clock.Mode]record) error {
	data, err := encode(games)
	if err != nil {
		return fmt.Errorf("failed to marshal suspended games: %w", err)
	}
	return s.backend.Put(Key, data)
}

// Load returns every suspended game keyed by mode
func (s *Store) Load() (map[clock.Mode]clock.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return nil, err
	}

	result := make(map[clock.Mode]clock.Snapshot, len(games))
	for mode, rec := range games {
		result[mode] = rec.snapshot(mode)
	}
	return result, nil
}

// List returns the suspended games in mode order
func (s *Store) List() ([]clock.Snapshot, error) {
	games, err := s.Load()
	if err != nil {
		return nil, err
	}

	list := make([]clock.Snapshot, 0, len(games))
	for _, mode := range clock.Modes {
		if snap, ok := games[mode]; ok {
			list = append(list, snap)
		}
	}
	return list, nil
}

// Get returns the game suspended under mode
func (s *Store) Get(mode clock.Mode) (clock.Snapshot, bool, error) {
	games, err := s.Load()
	if err != nil {
		return clock.Snapshot{}, false, err
	}
	snap, ok := games[mode]
	return snap, ok, nil
}

// Has reports whether a game is suspended under mode
func (s *Store) Has(mode clock.Mode) (bool, error) {
	_, ok, err := s.Get(mode)
	return ok, err
}

// Save stores snap under mode, replacing any game already there. Games of
// other modes are kept.
func (s *Store) Save(mode clock.Mode, snap clock.Snapshot) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", clock.ErrInvalidMode, mode)
	}
	if snap.Mode != mode {
		return fmt.Errorf("%w: %s game in %s slot", ErrModeMismatch, snap.Mode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return err
	}
	games[mode] = newRecord(snap)
	if err := s.write(games); err != nil {
		return err
	}

	s.logger.Info().
		Str("mode", string(mode)).
		Str("game_id", snap.GameID).
		Int("turn", snap.TurnCount).
		Msg("suspended game saved")
	return nil
}

// Delete removes the game suspended under mode. Deleting an empty slot is a no-op.
func (s *Store) Delete(mode clock.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := games[mode]; !ok {
		return nil
	}
	delete(games, mode)
	if err := s.write(games); err != nil {
		return err
	}

	s.logger.Info().Str("mode", string(mode)).Msg("suspended game deleted")
	return nil
}
