package clock

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
)

// TimerState is the observable state of a PlainTimer
type TimerState struct {
	StartValue int
	Remaining  int
	Running    bool
}

// PlainTimer is a single countdown with start/pause, reset and adjustment,
// driven by the same loop as the two-sided clock.
type PlainTimer struct {
	loop
	countdown  Countdown
	startValue int
	active     bool
	cue        Cue

	mu          sync.Mutex
	subscribers []chan TimerState
}

// NewPlainTimer creates a stopped timer of seconds
func NewPlainTimer(seconds int, clk clockwork.Clock, cue Cue) *PlainTimer {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if cue == nil {
		cue = nopCue{}
	}
	t := &PlainTimer{
		countdown:  *NewCountdown(seconds),
		startValue: max(seconds, 0),
		cue:        cue,
	}
	t.loop = newLoop(clk, t.ticking, t.tick)
	return t
}

// Run processes inputs and ticks until ctx is cancelled
func (t *PlainTimer) Run(ctx context.Context) {
	t.run(ctx)
}

// Subscribe returns a channel receiving the latest state after every change
func (t *PlainTimer) Subscribe() <-chan TimerState {
	ch := make(chan TimerState, 1)
	t.mu.Lock()
	t.subscribers = append(t.subscribers, ch)
	t.mu.Unlock()
	return ch
}

// State returns the current state
func (t *PlainTimer) State() (TimerState, error) {
	var st TimerState
	err := t.do(func() {
		st = t.state()
	})
	return st, err
}

// Toggle starts or pauses the timer. Starting an expired timer rewinds it first.
func (t *PlainTimer) Toggle() error {
	return t.do(func() {
		if t.countdown.Expired() {
			t.countdown.Remaining = t.startValue
			t.active = true
		} else {
			t.active = !t.active
		}
		t.restart()
		t.publish()
	})
}

// Reset stops the timer and rewinds it to the start value
func (t *PlainTimer) Reset() error {
	return t.do(func() {
		t.active = false
		t.countdown.Remaining = t.startValue
		t.schedule()
		t.publish()
	})
}

// Adjust changes the timer by delta seconds. While stopped the start value
// moves with it; while running only the remaining time changes, and taking
// a running timer down to zero expires it.
func (t *PlainTimer) Adjust(delta int) error {
	return t.do(func() {
		if t.active {
			t.countdown.Add(delta)
			if t.countdown.Expired() {
				t.active = false
				t.cue.Alarm()
			}
		} else {
			t.startValue = max(t.startValue+delta, 0)
			t.countdown.Remaining = t.startValue
		}
		t.schedule()
		t.publish()
	})
}

func (t *PlainTimer) ticking() bool {
	return t.active && !t.countdown.Expired()
}

func (t *PlainTimer) tick() {
	if t.countdown.Tick() {
		t.active = false
		t.cue.Alarm()
	}
	t.publish()
}

func (t *PlainTimer) state() TimerState {
	return TimerState{
		StartValue: t.startValue,
		Remaining:  t.countdown.Remaining,
		Running:    t.ticking(),
	}
}

func (t *PlainTimer) publish() {
	st := t.state()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subscribers {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
