package input

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

const DefaultFocusRelease = 150 * time.Millisecond

// FocusMonitor turns the window's own key events into transitions. It only
// sees keys while the window has focus. Terminals report presses but no
// releases, so a release is synthesized once a key has not repeated for the
// release delay, and losing focus releases everything.
type FocusMonitor struct {
	lifecycle

	mapper  *keylabel.Mapper
	release time.Duration
	log     *zap.SugaredLogger

	// mu guards everything below; every send on out happens with mu held
	mu     sync.Mutex
	out    chan Transition
	done   chan struct{}
	timers map[keylabel.Label]*time.Timer
	gen    map[keylabel.Label]uint64
}

func NewFocusMonitor(mapper *keylabel.Mapper, release time.Duration, log *zap.SugaredLogger) *FocusMonitor {
	if release <= 0 {
		release = DefaultFocusRelease
	}

	return &FocusMonitor{
		mapper:  mapper,
		release: release,
		log:     log,
	}
}

func (m *FocusMonitor) Name() string {
	return "focus"
}

func (m *FocusMonitor) Start(_ context.Context) (<-chan Transition, error) {
	if !m.swap(Stopped, Starting) {
		return nil, fmt.Errorf("start focus monitor: %w", ErrNotStopped)
	}

	m.mu.Lock()
	m.out = make(chan Transition, transitionBuffer)
	m.done = make(chan struct{})
	m.timers = make(map[keylabel.Label]*time.Timer)
	m.gen = make(map[keylabel.Label]uint64)
	m.mu.Unlock()

	m.set(Running)
	return m.out, nil
}

func (m *FocusMonitor) Stop(time.Duration) error {
	if !m.swap(Running, Stopping) {
		return nil
	}

	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.timers {
		t.Stop()
	}
	clear(m.timers)
	m.set(Stopped)
	close(m.out)

	return nil
}

// HandleEvent feeds one window event to the monitor. It must not be called
// from the goroutine that drains the transition channel.
func (m *FocusMonitor) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		m.handleKey(ev)
	case *tcell.EventFocus:
		if !ev.Focused {
			m.releaseAll()
		}
	}
}

func (m *FocusMonitor) handleKey(ev *tcell.EventKey) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() != Running {
		return
	}

	for _, code := range keyCodes(ev) {
		label, ok := m.mapper.Map(keylabel.RawEvent{Source: keylabel.SourceFocus, Code: code, Pressed: true})
		if !ok {
			m.log.Debugw("unmapped key", "code", code)
			continue
		}
		m.pressLocked(label)
	}
}

func (m *FocusMonitor) pressLocked(label keylabel.Label) {
	m.gen[label]++
	gen := m.gen[label]

	if t, held := m.timers[label]; held {
		// key repeat, push the synthetic release back
		t.Stop()
	} else {
		m.sendLocked(Transition{Label: label, Pressed: true})
	}

	m.timers[label] = time.AfterFunc(m.release, func() {
		m.expire(label, gen)
	})
}

func (m *FocusMonitor) expire(label keylabel.Label, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() != Running || m.gen[label] != gen {
		return
	}

	delete(m.timers, label)
	m.sendLocked(Transition{Label: label, Pressed: false})
}

func (m *FocusMonitor) releaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() != Running {
		return
	}

	labels := make([]keylabel.Label, 0, len(m.timers))
	for label := range m.timers {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	for _, label := range labels {
		m.timers[label].Stop()
		delete(m.timers, label)
		m.gen[label]++
		m.sendLocked(Transition{Label: label, Pressed: false})
	}
}

func (m *FocusMonitor) sendLocked(t Transition) {
	select {
	case m.out <- t:
	case <-m.done:
	}
}

// keyCodes lists the focus backend codes for a key event: modifier names
// first, then the key itself.
func keyCodes(ev *tcell.EventKey) []string {
	var codes []string

	mods := ev.Modifiers()
	if mods&tcell.ModShift != 0 {
		codes = append(codes, "Shift")
	}
	if mods&tcell.ModCtrl != 0 {
		codes = append(codes, "Ctrl")
	}
	if mods&tcell.ModAlt != 0 {
		codes = append(codes, "Alt")
	}
	if mods&tcell.ModMeta != 0 {
		codes = append(codes, "Meta")
	}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		codes = append(codes, string(ev.Rune()))
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && k != tcell.KeyTab && k != tcell.KeyEnter && k != tcell.KeyBackspace:
		codes = append(codes, string(rune('a'+k-tcell.KeyCtrlA)))
	default:
		if name, ok := tcell.KeyNames[k]; ok {
			codes = append(codes, name)
		}
	}

	return codes
}
