//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	evdev "github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

// evdev key values
const (
	keyReleased = 0
	keyPressed  = 1
	keyRepeat   = 2
)

var errNoKeyboard = errors.New("no input device looks like a keyboard")

// keyboardProbe are the codes a device must report to be taken for a
// keyboard.
var keyboardProbe = []evdev.EvCode{evdev.KEY_A, evdev.KEY_E, evdev.KEY_Q, evdev.KEY_Z, evdev.KEY_SPACE}

type keyDevice interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

func openDevice(path string) (keyDevice, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}

	return dev, nil
}

// DeviceMonitor reads a raw evdev keyboard on its own goroutine. It needs
// read access to /dev/input, usually through the input group.
type DeviceMonitor struct {
	lifecycle

	path   string
	mapper *keylabel.Mapper
	log    *zap.SugaredLogger
	open   func(path string) (keyDevice, error)

	// current is only touched by Start and Stop; an abandoned reader keeps
	// its own deviceRun
	current *deviceRun
}

// deviceRun is the state of one Start/Stop cycle, shared with its reader.
type deviceRun struct {
	dev       keyDevice
	stop      atomic.Bool
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	log       *zap.SugaredLogger
}

func (r *deviceRun) closeDevice() {
	r.closeOnce.Do(func() {
		if err := r.dev.Close(); err != nil {
			r.log.Debugw("close input device", "error", err)
		}
	})
}

func NewDeviceMonitor(path string, mapper *keylabel.Mapper, log *zap.SugaredLogger) *DeviceMonitor {
	return &DeviceMonitor{
		path:   path,
		mapper: mapper,
		log:    log,
		open:   openDevice,
	}
}

func newDeviceMonitor(path string, mapper *keylabel.Mapper, log *zap.SugaredLogger) Monitor {
	return NewDeviceMonitor(path, mapper, log)
}

func (m *DeviceMonitor) Name() string {
	return BackendDevice
}

func (m *DeviceMonitor) Start(ctx context.Context) (<-chan Transition, error) {
	if !m.swap(Stopped, Starting) {
		return nil, fmt.Errorf("start device monitor: %w", ErrNotStopped)
	}

	path := m.path
	if path == "" {
		found, _, err := findKeyboard()
		if err != nil {
			m.set(Stopped)
			return nil, fmt.Errorf("find keyboard: %w: %w", ErrUnavailable, err)
		}
		path = found
	}

	dev, err := m.open(path)
	if err != nil {
		m.set(Stopped)
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrUnavailable, err)
	}

	run := &deviceRun{
		dev:  dev,
		quit: make(chan struct{}),
		done: make(chan struct{}),
		log:  m.log,
	}
	m.current = run

	out := make(chan Transition, transitionBuffer)
	go m.readLoop(ctx, run, out)

	m.log.Infow("reading input device", "path", path)
	m.set(Running)
	return out, nil
}

func (m *DeviceMonitor) readLoop(ctx context.Context, run *deviceRun, out chan<- Transition) {
	defer close(run.done)
	defer close(out)
	defer run.closeDevice()

	for !run.stop.Load() {
		ev, err := run.dev.ReadOne()
		if err != nil {
			if !run.stop.Load() {
				m.log.Warnw("read input device", "error", err)
			}
			return
		}

		if ev.Type != evdev.EV_KEY || ev.Value == keyRepeat {
			continue
		}

		raw := keylabel.RawEvent{
			Source:  keylabel.SourceDevice,
			Code:    evdev.CodeName(ev.Type, ev.Code),
			Pressed: ev.Value == keyPressed,
		}
		label, ok := m.mapper.Map(raw)
		if !ok {
			continue
		}

		select {
		case out <- Transition{Label: label, Pressed: raw.Pressed}:
		case <-run.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop sets the stop flag and closes the device, which unblocks a pending
// read. If the reader still has not exited after timeout it is abandoned.
func (m *DeviceMonitor) Stop(timeout time.Duration) error {
	if !m.swap(Running, Stopping) {
		return nil
	}
	defer m.set(Stopped)

	run := m.current
	m.current = nil

	run.stop.Store(true)
	close(run.quit)
	run.closeDevice()

	select {
	case <-run.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("device reader still running after %s", timeout)
	}
}

func probeDevice(path string) (string, string, error) {
	if path != "" {
		dev, err := evdev.Open(path)
		if err != nil {
			return "", "", fmt.Errorf("open %s: %w", path, err)
		}
		defer dev.Close()

		name, _ := dev.Name()
		return path, name, nil
	}

	return findKeyboard()
}

// findKeyboard returns the first device that reports common letter keys.
func findKeyboard() (string, string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", "", fmt.Errorf("list devices: %w", err)
	}

	var openErr error
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			openErr = err
			continue
		}

		ok := looksLikeKeyboard(dev.CapableEvents(evdev.EV_KEY))
		dev.Close()

		if ok {
			return p.Path, p.Name, nil
		}
	}

	if openErr != nil {
		return "", "", fmt.Errorf("%w (last open error: %w)", errNoKeyboard, openErr)
	}

	return "", "", errNoKeyboard
}

func looksLikeKeyboard(codes []evdev.EvCode) bool {
	have := make(map[evdev.EvCode]bool, len(codes))
	for _, c := range codes {
		have[c] = true
	}

	for _, c := range keyboardProbe {
		if !have[c] {
			return false
		}
	}

	return true
}
