package input

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"codeberg.org/miketth/keylive/pkg/keylabel"
)

var (
	// ErrUnavailable is returned by Start when the backend cannot run in
	// this environment. Callers fall back to another backend.
	ErrUnavailable = errors.New("input backend unavailable")
	ErrNotStopped  = errors.New("monitor is not stopped")
)

// transitionBuffer bounds the queue between a monitor and the window.
const transitionBuffer = 64

// Transition is a normalized key press or release.
type Transition struct {
	Label   keylabel.Label
	Pressed bool
}

type State int32

const (
	Stopped State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	}

	return "unknown"
}

// Monitor produces key transitions from one input backend. Transitions for
// one key are delivered in the order the backend saw them.
type Monitor interface {
	Name() string
	Start(ctx context.Context) (<-chan Transition, error)
	// Stop waits at most timeout for the backend to wind down. A timeout is
	// reported as an error but leaves the monitor stopped.
	Stop(timeout time.Duration) error
	State() State
}

type lifecycle struct {
	state atomic.Int32
}

func (l *lifecycle) State() State {
	return State(l.state.Load())
}

func (l *lifecycle) swap(from, to State) bool {
	return l.state.CompareAndSwap(int32(from), int32(to))
}

func (l *lifecycle) set(s State) {
	l.state.Store(int32(s))
}
