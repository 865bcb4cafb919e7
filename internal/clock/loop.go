package clock

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// TickInterval is the countdown resolution
const TickInterval = time.Second

// ErrEngineStopped is returned by inputs sent after the loop has exited
var ErrEngineStopped = errors.New("clock engine stopped")

// loop is a single-goroutine event loop. Inputs are closures applied in
// arrival order; the tick is a single-shot timer re-armed after each firing.
type loop struct {
	clock   clockwork.Clock
	inputs  chan func()
	done    chan struct{}
	timer   clockwork.Timer
	running func() bool
	onTick  func()
}

func newLoop(clk clockwork.Clock, running func() bool, onTick func()) loop {
	return loop{
		clock:   clk,
		inputs:  make(chan func()),
		done:    make(chan struct{}),
		running: running,
		onTick:  onTick,
	}
}

// run processes inputs and ticks until ctx is cancelled
func (l *loop) run(ctx context.Context) {
	defer close(l.done)
	defer l.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.tickChan():
			l.fire()
		case fn := <-l.inputs:
			// a tick that is already due is applied before the input
			l.drainTick()
			fn()
		}
	}
}

// do runs fn on the loop goroutine and waits for it to finish
func (l *loop) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case l.inputs <- func() { fn(); close(finished) }:
	case <-l.done:
		return ErrEngineStopped
	}
	<-finished
	return nil
}

func (l *loop) tickChan() <-chan time.Time {
	if l.timer == nil {
		return nil
	}
	return l.timer.Chan()
}

func (l *loop) fire() {
	l.timer = nil
	l.onTick()
	l.schedule()
}

func (l *loop) drainTick() {
	if l.timer == nil {
		return
	}
	select {
	case <-l.timer.Chan():
		l.fire()
	default:
	}
}

// schedule arms the next tick when the clock runs and cancels it otherwise
func (l *loop) schedule() {
	if !l.running() {
		l.stopTimer()
		return
	}
	if l.timer == nil {
		l.timer = l.clock.NewTimer(TickInterval)
	}
}

// restart drops any partially elapsed second and arms a fresh one
func (l *loop) restart() {
	l.stopTimer()
	l.schedule()
}

func (l *loop) stopTimer() {
	if l.timer == nil {
		return
	}
	if !l.timer.Stop() {
		select {
		case <-l.timer.Chan():
		default:
		}
	}
	l.timer = nil
}
