//go:build hook

package input

import (
	"context"
	"fmt"
	"os"
	"time"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	hook "github.com/robotn/gohook"
	"go.uber.org/zap"
)

// charUndefined is what the hook reports as Keychar for non-printable keys.
const charUndefined = 0xFFFF

func hookSupported() (bool, string) {
	if os.Getenv("DISPLAY") == "" {
		return false, "no X11 display"
	}

	return true, ""
}

// HookMonitor listens to the global keyboard hook. The hook delivers events
// from its own thread; they are translated here and forwarded on the
// transition channel.
type HookMonitor struct {
	lifecycle

	mapper *keylabel.Mapper
	log    *zap.SugaredLogger

	quit chan struct{}
	done chan struct{}
}

func NewHookMonitor(mapper *keylabel.Mapper, log *zap.SugaredLogger) *HookMonitor {
	return &HookMonitor{mapper: mapper, log: log}
}

func newHookMonitor(mapper *keylabel.Mapper, log *zap.SugaredLogger) Monitor {
	return NewHookMonitor(mapper, log)
}

func (m *HookMonitor) Name() string {
	return BackendHook
}

func (m *HookMonitor) Start(ctx context.Context) (<-chan Transition, error) {
	if !m.swap(Stopped, Starting) {
		return nil, fmt.Errorf("start hook monitor: %w", ErrNotStopped)
	}

	events := hook.Start()
	if events == nil {
		m.set(Stopped)
		return nil, fmt.Errorf("start hook: %w", ErrUnavailable)
	}

	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	out := make(chan Transition, transitionBuffer)
	go m.pump(ctx, events, out)

	m.set(Running)
	return out, nil
}

func (m *HookMonitor) pump(ctx context.Context, events chan hook.Event, out chan<- Transition) {
	defer close(m.done)
	defer close(out)

	for {
		select {
		case <-m.quit:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			t, ok := m.translate(ev)
			if !ok {
				continue
			}

			select {
			case out <- t:
			case <-m.quit:
				return
			}
		}
	}
}

func (m *HookMonitor) translate(ev hook.Event) (Transition, bool) {
	var pressed bool
	switch ev.Kind {
	case hook.KeyHold:
		pressed = true
	case hook.KeyUp:
		pressed = false
	default:
		return Transition{}, false
	}

	code := hook.RawcodetoKeychar(ev.Rawcode)
	if code == "" && ev.Keychar != charUndefined {
		code = string(ev.Keychar)
	}

	label, ok := m.mapper.Map(keylabel.RawEvent{Source: keylabel.SourceHook, Code: code, Pressed: pressed})
	if !ok {
		return Transition{}, false
	}

	return Transition{Label: label, Pressed: pressed}, true
}

func (m *HookMonitor) Stop(timeout time.Duration) error {
	if !m.swap(Running, Stopping) {
		return nil
	}
	defer m.set(Stopped)

	close(m.quit)
	hook.End()

	select {
	case <-m.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("hook pump still running after %s", timeout)
	}
}
