package clock

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Cue receives the audible feedback signals of the clock
type Cue interface {
	// Alarm fires once when a side's time runs out
	Alarm()
	// Click fires on every accepted tap
	Click()
}

// Engine drives a Machine in real time. Every input is applied on a single
// goroutine started by Run, so callers may use an Engine concurrently.
type Engine struct {
	loop
	machine *Machine
	cue     Cue
	logger  zerolog.Logger

	mu          sync.Mutex
	subscribers []chan Snapshot
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock replaces the real clock, typically with a clockwork.FakeClock
func WithClock(clk clockwork.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = clk
	}
}

// WithCue sets the audio cue sink
func WithCue(cue Cue) EngineOption {
	return func(e *Engine) {
		e.cue = cue
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine in SETUP. Call Run to start processing.
func NewEngine(mode Mode, cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		machine: NewMachine(mode, cfg),
		cue:     nopCue{},
		logger:  zerolog.Nop(),
	}
	e.loop = newLoop(clockwork.NewRealClock(), e.machine.Running, e.tick)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes inputs and ticks until ctx is cancelled
func (e *Engine) Run(ctx context.Context) {
	e.run(ctx)
}

// Subscribe returns a channel receiving the latest snapshot after every
// change. Slow readers only ever see the most recent value.
func (e *Engine) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()
	return ch
}

// Snapshot returns the current state
func (e *Engine) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := e.do(func() {
		snap = e.machine.Snapshot()
	})
	return snap, err
}

// Configure selects mode and parameters while in SETUP
func (e *Engine) Configure(mode Mode, cfg Config) error {
	var opErr error
	err := e.do(func() {
		opErr = e.machine.Configure(mode, cfg)
		if opErr == nil {
			e.publish()
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// Start moves from SETUP to READY with fresh clocks
func (e *Engine) Start(gameID string) error {
	var opErr error
	err := e.do(func() {
		opErr = e.machine.Start(gameID)
		if opErr != nil {
			return
		}
		snap := e.machine.Snapshot()
		e.logger.Info().
			Str("game_id", gameID).
			Str("mode", string(snap.Mode)).
			Int("time", snap.Times[0]).
			Msg("clock ready")
		e.publish()
	})
	if err != nil {
		return err
	}
	return opErr
}

// Tap presses the button of side
func (e *Engine) Tap(side Side) (Transition, error) {
	var (
		tr    Transition
		opErr error
	)
	err := e.do(func() {
		from := e.machine.State()
		tr, opErr = e.machine.Tap(side)
		if opErr != nil {
			e.logger.Warn().Err(opErr).Int("side", int(side)).Msg("rejected tap")
			return
		}
		if !tr.Accepted {
			return
		}

		snap := e.machine.Snapshot()
		if tr.TurnEnded {
			e.logger.Debug().
				Str("game_id", snap.GameID).
				Str("side", side.String()).
				Int("turn", snap.TurnCount).
				Int("time1", snap.Times[0]).
				Int("time2", snap.Times[1]).
				Msg("turn ended")
		}
		// continuing from a pause is silent
		if from == StateReady || tr.TurnEnded {
			e.cue.Click()
		}
		e.restart()
		e.publish()
	})
	if err != nil {
		return Transition{}, err
	}
	return tr, opErr
}

// Pause stops the running side
func (e *Engine) Pause() (Transition, error) {
	var tr Transition
	err := e.do(func() {
		tr = e.machine.Pause()
		if tr.Accepted {
			e.schedule()
			e.publish()
		}
	})
	return tr, err
}

// Resume continues a paused game
func (e *Engine) Resume() (Transition, error) {
	var tr Transition
	err := e.do(func() {
		tr = e.machine.Resume()
		if tr.Accepted {
			e.restart()
			e.publish()
		}
	})
	return tr, err
}

// Reset abandons the current game and returns to SETUP
func (e *Engine) Reset() error {
	return e.do(func() {
		e.machine.Reset()
		e.schedule()
		e.publish()
	})
}

// Restore loads a stored snapshot in PAUSED
func (e *Engine) Restore(snap Snapshot) error {
	var opErr error
	err := e.do(func() {
		opErr = e.machine.Restore(snap)
		if opErr != nil {
			return
		}
		e.schedule()
		e.logger.Info().
			Str("game_id", snap.GameID).
			Str("mode", string(snap.Mode)).
			Int("turn", snap.TurnCount).
			Msg("clock restored")
		e.publish()
	})
	if err != nil {
		return err
	}
	return opErr
}

func (e *Engine) tick() {
	tr := e.machine.Tick()
	if !tr.Accepted {
		return
	}
	if tr.Expired != SideNone {
		snap := e.machine.Snapshot()
		e.logger.Info().
			Str("game_id", snap.GameID).
			Str("side", tr.Expired.String()).
			Int("turn", snap.TurnCount).
			Msg("clock expired")
		e.cue.Alarm()
	}
	e.publish()
}

func (e *Engine) publish() {
	snap := e.machine.Snapshot()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

type nopCue struct{}

func (nopCue) Alarm() {}
func (nopCue) Click() {}
