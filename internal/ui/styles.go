// Package ui renders the clock screens and the command line output
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/michael-freling/tabletop-clock/internal/clock"
)

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	sideStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 4).
			Align(lipgloss.Center)
	activeSideStyle  = sideStyle.BorderForeground(lipgloss.Color("2")).Bold(true)
	expiredSideStyle = sideStyle.BorderForeground(lipgloss.Color("1")).Foreground(lipgloss.Color("1"))

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("3")).
			Padding(0, 2)
)

// Green returns a green colored string
func Green(s string) string {
	return greenStyle.Render(s)
}

// Red returns a red colored string
func Red(s string) string {
	return redStyle.Render(s)
}

// Yellow returns a yellow colored string
func Yellow(s string) string {
	return yellowStyle.Render(s)
}

// Cyan returns a cyan colored string
func Cyan(s string) string {
	return cyanStyle.Render(s)
}

// Bold returns a bold string
func Bold(s string) string {
	return boldStyle.Render(s)
}

// FormatTime formats seconds as m:ss
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatSuspended formats a suspended game as a single line
func FormatSuspended(snap clock.Snapshot) string {
	return fmt.Sprintf("%-10s turn %-3d %s %s  %s %s  %s to move",
		snap.Mode,
		snap.TurnCount,
		clock.SideOne, FormatTime(snap.Time(clock.SideOne)),
		clock.SideTwo, FormatTime(snap.Time(clock.SideTwo)),
		snap.Active,
	)
}

// FormatState colors a lifecycle state
func FormatState(state clock.State) string {
	switch state {
	case clock.StatePlaying:
		return Green(string(state))
	case clock.StatePaused:
		return Yellow(string(state))
	case clock.StateFinished:
		return Red(string(state))
	default:
		return Cyan(string(state))
	}
}
