package clock

import (
	"errors"
	"fmt"
)

// Mode is the timing discipline of a game
type Mode string

const (
	ModeStandard  Mode = "STANDARD"
	ModeGong      Mode = "GONG"
	ModeFischer   Mode = "FISCHER"
	ModeBronstein Mode = "BRONSTEIN"
)

// Modes lists every mode in display order
var Modes = []Mode{ModeStandard, ModeGong, ModeFischer, ModeBronstein}

// ParseMode parses a case-sensitive mode name
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	_, err := ParseMode(string(m))
	return err == nil
}

// State is the lifecycle state of the clock
type State string

const (
	StateSetup    State = "SETUP"
	StateReady    State = "READY"
	StatePlaying  State = "PLAYING"
	StatePaused   State = "PAUSED"
	StateFinished State = "FINISHED"
)

// Side identifies one of the two clocks
type Side int

const (
	SideNone Side = 0
	SideOne  Side = 1
	SideTwo  Side = 2
)

// Valid reports whether s is side one or side two
func (s Side) Valid() bool {
	return s == SideOne || s == SideTwo
}

// Opponent returns the other side
func (s Side) Opponent() Side {
	switch s {
	case SideOne:
		return SideTwo
	case SideTwo:
		return SideOne
	default:
		return SideNone
	}
}

func (s Side) index() int {
	return int(s) - 1
}

func (s Side) String() string {
	switch s {
	case SideOne:
		return "P1"
	case SideTwo:
		return "P2"
	default:
		return "none"
	}
}

const (
	MinTotalTimeSeconds   = 60
	MinGongSeconds        = 1
	MinIncrementStartTurn = 1
)

// Config holds the user-chosen parameters. Every field is kept regardless of
// the selected mode so that switching modes never loses entered values.
type Config struct {
	TotalTimeSeconds   int `json:"time" yaml:"time"`
	IncrementSeconds   int `json:"inc" yaml:"inc"`
	IncrementStartTurn int `json:"incStart" yaml:"incStart"`
	GongSeconds        int `json:"gong" yaml:"gong"`
}

// DefaultConfig returns the initial configuration
func DefaultConfig() Config {
	return Config{
		TotalTimeSeconds:   600,
		IncrementSeconds:   3,
		IncrementStartTurn: 1,
		GongSeconds:        30,
	}
}

// Validate rejects values that cannot start a game
func (c Config) Validate() error {
	if c.TotalTimeSeconds < MinTotalTimeSeconds {
		return fmt.Errorf("%w: total time must be at least %d seconds, got %d", ErrInvalidConfig, MinTotalTimeSeconds, c.TotalTimeSeconds)
	}
	if c.IncrementSeconds < 0 {
		return fmt.Errorf("%w: increment cannot be negative, got %d", ErrInvalidConfig, c.IncrementSeconds)
	}
	if c.IncrementStartTurn < MinIncrementStartTurn {
		return fmt.Errorf("%w: increment start turn must be at least %d, got %d", ErrInvalidConfig, MinIncrementStartTurn, c.IncrementStartTurn)
	}
	if c.GongSeconds < MinGongSeconds {
		return fmt.Errorf("%w: gong time must be at least %d second, got %d", ErrInvalidConfig, MinGongSeconds, c.GongSeconds)
	}
	return nil
}

// StartingTime returns the allowance each side starts with under mode
func (c Config) StartingTime(mode Mode) int {
	if mode == ModeGong {
		return c.GongSeconds
	}
	return c.TotalTimeSeconds
}

// Snapshot is the full state of one game
type Snapshot struct {
	GameID        string
	Times         [2]int
	Active        Side
	TurnCount     int
	TurnStartTime int
	Mode          Mode
	Config        Config
	State         State
}

// Time returns the remaining seconds of side
func (s Snapshot) Time(side Side) int {
	if !side.Valid() {
		return 0
	}
	return s.Times[side.index()]
}

// Expired returns the side whose clock ran out, if any
func (s Snapshot) Expired() Side {
	if s.State != StateFinished {
		return SideNone
	}
	for _, side := range []Side{SideOne, SideTwo} {
		if s.Time(side) == 0 {
			return side
		}
	}
	return SideNone
}

// InProgress reports whether leaving the game would lose a running or paused clock
func (s Snapshot) InProgress() bool {
	return s.State == StatePlaying || s.State == StatePaused
}

// Error variables for common error conditions
var (
	ErrInvalidMode   = errors.New("invalid clock mode")
	ErrInvalidConfig = errors.New("invalid clock configuration")
	ErrInvalidSide   = errors.New("invalid side")
	ErrInvalidState  = errors.New("invalid clock state")
)
