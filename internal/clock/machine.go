package clock

import "fmt"

// Transition describes the effect of one input or tick on the machine
type Transition struct {
	// Accepted is false when the input was a no-op
	Accepted bool
	// TurnEnded is set when a turn-ending tap flipped the active side
	TurnEnded bool
	// Expired is the side whose clock reached zero on this transition
	Expired Side
}

// Machine is the clock state machine. It is not safe for concurrent use; the
// Engine owns one and serializes every call.
type Machine struct {
	gameID        string
	clocks        [2]Countdown
	active        Side
	turnCount     int
	turnStartTime int
	mode          Mode
	config        Config
	state         State
}

// NewMachine creates a machine in SETUP
func NewMachine(mode Mode, cfg Config) *Machine {
	m := &Machine{}
	m.setup(mode, cfg)
	return m
}

func (m *Machine) setup(mode Mode, cfg Config) {
	start := cfg.StartingTime(mode)
	*m = Machine{
		clocks: [2]Countdown{{Remaining: start}, {Remaining: start}},
		mode:   mode,
		config: cfg,
		state:  StateSetup,
	}
}

// Snapshot returns a copy of the current state
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		GameID:        m.gameID,
		Times:         [2]int{m.clocks[0].Remaining, m.clocks[1].Remaining},
		Active:        m.active,
		TurnCount:     m.turnCount,
		TurnStartTime: m.turnStartTime,
		Mode:          m.mode,
		Config:        m.config,
		State:         m.state,
	}
}

// State returns the lifecycle state
func (m *Machine) State() State {
	return m.state
}

// Running reports whether the active side's countdown should be ticking
func (m *Machine) Running() bool {
	return m.state == StatePlaying && m.active.Valid()
}

// Configure selects the mode and parameters. Only allowed in SETUP.
func (m *Machine) Configure(mode Mode, cfg Config) error {
	if m.state != StateSetup {
		return fmt.Errorf("%w: cannot configure while %s", ErrInvalidState, m.state)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.setup(mode, cfg)
	return nil
}

// Start seeds both sides from the configuration and waits for the first tap
func (m *Machine) Start(gameID string) error {
	if m.state != StateSetup {
		return fmt.Errorf("%w: cannot start while %s", ErrInvalidState, m.state)
	}

	m.setup(m.mode, m.config)
	start := m.config.StartingTime(m.mode)
	m.gameID = gameID
	m.turnCount = 1
	m.turnStartTime = start
	m.state = StateReady
	return nil
}

// Tap handles a press on side. Ignored taps return a zero Transition.
func (m *Machine) Tap(side Side) (Transition, error) {
	if !side.Valid() {
		return Transition{}, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}

	switch m.state {
	case StateReady:
		// the first tap starts the opponent's clock
		opponent := side.Opponent()
		m.active = opponent
		m.turnStartTime = m.clocks[opponent.index()].Remaining
		m.state = StatePlaying
		return Transition{Accepted: true}, nil

	case StatePaused:
		m.state = StatePlaying
		return Transition{Accepted: true}, nil

	case StatePlaying:
		if side != m.active {
			return Transition{}, nil
		}
		end := ApplyTurnEnd(m.mode, m.config, m.Snapshot(), side)
		m.clocks[side.index()].Remaining = end.NewTime
		m.active = side.Opponent()
		m.turnCount++
		m.turnStartTime = end.NextTurnStartTime
		return Transition{Accepted: true, TurnEnded: true}, nil

	default:
		return Transition{}, nil
	}
}

// Pause stops the active countdown
func (m *Machine) Pause() Transition {
	if m.state != StatePlaying {
		return Transition{}
	}
	m.state = StatePaused
	return Transition{Accepted: true}
}

// Resume continues the active side from PAUSED with no time adjustment
func (m *Machine) Resume() Transition {
	if m.state != StatePaused {
		return Transition{}
	}
	m.state = StatePlaying
	return Transition{Accepted: true}
}

// Tick consumes one second from the active side. Reaching zero finishes the
// game in the same step.
func (m *Machine) Tick() Transition {
	if !m.Running() {
		return Transition{}
	}

	if m.clocks[m.active.index()].Tick() {
		m.state = StateFinished
		return Transition{Accepted: true, Expired: m.active}
	}
	return Transition{Accepted: true}
}

// Reset abandons the current game and returns to SETUP keeping mode and config
func (m *Machine) Reset() {
	m.setup(m.mode, m.config)
}

// Restore rehydrates a stored snapshot. The game always comes back PAUSED so
// time only flows again after an explicit continue.
func (m *Machine) Restore(snap Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	m.gameID = snap.GameID
	m.clocks = [2]Countdown{{Remaining: snap.Times[0]}, {Remaining: snap.Times[1]}}
	m.active = snap.Active
	m.turnCount = snap.TurnCount
	m.turnStartTime = snap.TurnStartTime
	m.mode = snap.Mode
	m.config = snap.Config
	m.state = StatePaused
	return nil
}

func validateSnapshot(snap Snapshot) error {
	if !snap.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, snap.Mode)
	}
	if err := snap.Config.Validate(); err != nil {
		return err
	}
	if !snap.Active.Valid() {
		return fmt.Errorf("%w: snapshot has no active side", ErrInvalidState)
	}
	if snap.TurnCount < 1 {
		return fmt.Errorf("%w: turn count %d", ErrInvalidState, snap.TurnCount)
	}
	for _, t := range snap.Times {
		if t <= 0 {
			return fmt.Errorf("%w: snapshot has an expired clock", ErrInvalidState)
		}
	}
	return nil
}
