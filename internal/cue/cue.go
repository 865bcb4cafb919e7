// Package cue provides the audible feedback sinks of the clock. Playback
// failures are logged and never reach the caller.
package cue

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/michael-freling/tabletop-clock/internal/command"
	"github.com/rs/zerolog"
)

const (
	bell = "\a"

	// DefaultCommandTimeout bounds how long an external player may run
	DefaultCommandTimeout = 10 * time.Second
)

// Player receives the alarm and click signals
type Player interface {
	Alarm()
	Click()
}

// Nop discards every signal
type Nop struct{}

func (Nop) Alarm() {}
func (Nop) Click() {}

// Bell rings the terminal bell
type Bell struct {
	mu     sync.Mutex
	w      io.Writer
	clicks bool
}

// NewBell creates a bell writing to w. Clicks are only rung when clicks is set.
func NewBell(w io.Writer, clicks bool) *Bell {
	return &Bell{w: w, clicks: clicks}
}

// Alarm rings the bell three times
func (b *Bell) Alarm() {
	b.ring(3)
}

// Click rings the bell once if clicks are enabled
func (b *Bell) Click() {
	if b.clicks {
		b.ring(1)
	}
}

func (b *Bell) ring(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		_, _ = io.WriteString(b.w, bell)
	}
}

// Command plays cues by running external programs such as paplay or aplay.
// Programs run in the background so the clock never waits for them.
type Command struct {
	runner  command.Runner
	alarm   string
	click   string
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewCommand creates a command cue. An empty command line disables that cue.
func NewCommand(runner command.Runner, alarmLine, clickLine string, logger zerolog.Logger) *Command {
	return &Command{
		runner:  runner,
		alarm:   alarmLine,
		click:   clickLine,
		timeout: DefaultCommandTimeout,
		logger:  logger,
	}
}

// Alarm runs the alarm command
func (c *Command) Alarm() {
	c.play("alarm", c.alarm)
}

// Click runs the click command
func (c *Command) Click() {
	c.play("click", c.click)
}

// Wait blocks until every started command has finished
func (c *Command) Wait() {
	c.wg.Wait()
}

func (c *Command) play(kind, line string) {
	name, args, ok := command.SplitCommandLine(line)
	if !ok {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.runner.Run(ctx, name, args...); err != nil {
			c.logger.Debug().
				Err(err).
				Str("cue", kind).
				Msg("audio cue failed")
		}
	}()
}

// Multi forwards every signal to each player in order
type Multi []Player

func (m Multi) Alarm() {
	for _, p := range m {
		p.Alarm()
	}
}

func (m Multi) Click() {
	for _, p := range m {
		p.Click()
	}
}
