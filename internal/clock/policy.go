package clock

// TurnEnd is the outcome of ending a turn
type TurnEnd struct {
	// NewTime is the remaining time of the side that just ended its turn
	NewTime int
	// NextTurnStartTime is the remaining time of the side that becomes active,
	// recorded so its own Bronstein delay can be measured later.
	NextTurnStartTime int
}

// ApplyTurnEnd computes the bonus or reset for endingSide under mode.
// snap.TurnCount is the count before this transition is counted.
func ApplyTurnEnd(mode Mode, cfg Config, snap Snapshot, endingSide Side) TurnEnd {
	remaining := snap.Time(endingSide)
	result := TurnEnd{
		NewTime:           remaining,
		NextTurnStartTime: snap.Time(endingSide.Opponent()),
	}

	switch mode {
	case ModeGong:
		result.NewTime = cfg.GongSeconds
	case ModeFischer:
		if snap.TurnCount >= cfg.IncrementStartTurn {
			result.NewTime = remaining + cfg.IncrementSeconds
		}
	case ModeBronstein:
		result.NewTime = remaining + bronsteinBonus(snap.TurnStartTime-remaining, cfg.IncrementSeconds)
	}

	return result
}

// bronsteinBonus gives back the time used this turn, capped at the delay
func bronsteinBonus(used, delay int) int {
	bonus := min(used, delay)
	if bonus < 0 {
		return 0
	}
	return bonus
}
