package ui

import (
	"testing"

	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{seconds: 0, want: "0:00"},
		{seconds: 9, want: "0:09"},
		{seconds: 59, want: "0:59"},
		{seconds: 60, want: "1:00"},
		{seconds: 600, want: "10:00"},
		{seconds: 3725, want: "62:05"},
		{seconds: -3, want: "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.seconds))
		})
	}
}

func TestFormatSuspended(t *testing.T) {
	snap := clock.Snapshot{
		Times:     [2]int{65, 58},
		Active:    clock.SideTwo,
		TurnCount: 3,
		Mode:      clock.ModeFischer,
		State:     clock.StatePlaying,
	}

	got := FormatSuspended(snap)
	assert.Contains(t, got, "FISCHER")
	assert.Contains(t, got, "turn 3")
	assert.Contains(t, got, "P1 1:05")
	assert.Contains(t, got, "P2 0:58")
	assert.Contains(t, got, "P2 to move")
}

func TestDescribeConfig(t *testing.T) {
	cfg := clock.Config{TotalTimeSeconds: 300, IncrementSeconds: 2, IncrementStartTurn: 5, GongSeconds: 20}

	tests := []struct {
		mode clock.Mode
		want string
	}{
		{mode: clock.ModeStandard, want: "5:00"},
		{mode: clock.ModeGong, want: "20s per move"},
		{mode: clock.ModeFischer, want: "5:00 +2s from turn 5"},
		{mode: clock.ModeBronstein, want: "5:00 delay 2s"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, describeConfig(tt.mode, cfg))
		})
	}
}
