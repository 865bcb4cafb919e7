// Package command starts the external programs that play audio cues.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCommandFailed is returned when a program could not be started or exited
// with a non-zero status
var ErrCommandFailed = errors.New("command failed")

// Runner starts external programs and waits for them to exit
type Runner interface {
	// Run executes name with args. Output is discarded; a failing program's
	// stderr is included in the error.
	Run(ctx context.Context, name string, args ...string) error
}

type runner struct{}

// NewRunner creates a Runner backed by os/exec
func NewRunner() Runner {
	return &runner{}
}

func (r *runner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrCommandFailed, name, err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, name, err)
	}
	return nil
}

// SplitCommandLine splits a configured command line on whitespace into the
// program name and its arguments. Quoting is not supported.
func SplitCommandLine(line string) (string, []string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}
