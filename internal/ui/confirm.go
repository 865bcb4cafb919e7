package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/michael-freling/tabletop-clock/internal/session"
)

// AskYesNo asks question on w until a yes or no answer is read from r
func AskYesNo(r io.Reader, w io.Writer, question string) (bool, error) {
	scanner := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, Bold(question+" [y/n]: "))

		if !scanner.Scan() {
			return false, fmt.Errorf("failed to read input")
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(w, Yellow("Please enter 'y' or 'n'."))
		}
	}
}

type confirmRequest struct {
	prompt session.Prompt
	reply  chan bool
}

// Confirmer hands confirmation prompts to the clock screen and waits for the
// user's answer
type Confirmer struct {
	requests chan confirmRequest
}

// NewConfirmer creates a confirmer for use with a ClockModel
func NewConfirmer() *Confirmer {
	return &Confirmer{requests: make(chan confirmRequest)}
}

// Confirm blocks until the screen answers prompt or ctx is done
func (c *Confirmer) Confirm(ctx context.Context, prompt session.Prompt) (bool, error) {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Notifier hands short messages to the clock screen
type Notifier struct {
	messages chan string
}

// NewNotifier creates a notifier for use with a ClockModel
func NewNotifier() *Notifier {
	return &Notifier{messages: make(chan string, 4)}
}

// Notify queues message without blocking. Messages beyond the buffer are dropped.
func (n *Notifier) Notify(message string) {
	select {
	case n.messages <- message:
	default:
	}
}
