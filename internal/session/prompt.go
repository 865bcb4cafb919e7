package session

import (
	"context"
	"fmt"

	"github.com/michael-freling/tabletop-clock/internal/clock"
)

// PromptKind identifies a destructive operation that needs the user's approval
type PromptKind string

const (
	PromptOverwrite         PromptKind = "overwrite"
	PromptStartOver         PromptKind = "start_over"
	PromptExitWithoutSaving PromptKind = "exit_without_saving"
)

// MessageSaved is sent to the Notifier after a game is suspended
const MessageSaved = "state saved"

// Prompt is a yes/no question asked before a destructive operation
type Prompt struct {
	Kind PromptKind
	Mode clock.Mode
}

// Message returns the question shown to the user
func (p Prompt) Message() string {
	switch p.Kind {
	case PromptOverwrite:
		return fmt.Sprintf("A %s game is already saved. Overwrite it?", p.Mode)
	case PromptStartOver:
		return fmt.Sprintf("A %s game is saved. Start a new game anyway?", p.Mode)
	case PromptExitWithoutSaving:
		return "Exit without saving? The current game will be lost."
	default:
		return string(p.Kind)
	}
}

// Confirmer asks the user to approve a destructive operation
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// Notifier shows short feedback messages
type Notifier interface {
	Notify(message string)
}
