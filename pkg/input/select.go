package input

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	"go.uber.org/zap"
)

const (
	BackendAuto   = "auto"
	BackendHook   = "hook"
	BackendDevice = "device"
	BackendFocus  = "focus"

	DefaultStopTimeout = 2 * time.Second
)

// Capabilities is the result of probing the environment once at startup.
type Capabilities struct {
	Hook       bool
	HookReason string

	Device       bool
	DevicePath   string
	DeviceName   string
	DeviceReason string
}

// Probe checks which system wide backends can run. devicePath, when set,
// skips device enumeration.
func Probe(devicePath string) Capabilities {
	var caps Capabilities

	caps.Hook, caps.HookReason = hookSupported()

	path, name, err := probeDevice(devicePath)
	if err != nil {
		caps.DeviceReason = err.Error()
	} else {
		caps.Device = true
		caps.DevicePath = path
		caps.DeviceName = name
	}

	return caps
}

type Options struct {
	Backend     string
	StopTimeout time.Duration
	// MonitorLog is handed to the started backend. Select's own notices go
	// to the logger passed to Select. Defaults to that logger.
	MonitorLog *zap.SugaredLogger
}

// Select starts the first usable backend. System wide backends are tried in
// order (hook, then device) unless one is configured explicitly; the focus
// monitor is the fallback and always starts. A backend that fails to start
// is stopped before the next one is tried.
func Select(
	ctx context.Context,
	caps Capabilities,
	opts Options,
	mapper *keylabel.Mapper,
	focus *FocusMonitor,
	log *zap.SugaredLogger,
) (Monitor, <-chan Transition, error) {
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	if opts.MonitorLog == nil {
		opts.MonitorLog = log
	}

	for _, name := range candidates(opts.Backend) {
		var m Monitor
		switch name {
		case BackendHook:
			if !caps.Hook {
				log.Warnw("global hook unavailable, falling back", "reason", caps.HookReason)
				continue
			}
			m = newHookMonitor(mapper, opts.MonitorLog)
		case BackendDevice:
			if !caps.Device {
				log.Warnw("input device unavailable, falling back", "reason", caps.DeviceReason)
				continue
			}
			m = newDeviceMonitor(caps.DevicePath, mapper, opts.MonitorLog)
		}

		transitions, err := m.Start(ctx)
		if err != nil {
			log.Warnw("could not start input backend, falling back", "backend", name, "error", err)
			if err := m.Stop(opts.StopTimeout); err != nil {
				log.Warnw("stop failed backend", "backend", name, "error", err)
			}
			continue
		}

		log.Infow("using input backend", "backend", m.Name())
		return m, transitions, nil
	}

	transitions, err := focus.Start(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("start focus monitor: %w", err)
	}

	log.Infow("using input backend", "backend", focus.Name(), "note", "keys are only seen while the window has focus")
	return focus, transitions, nil
}

func candidates(backend string) []string {
	switch backend {
	case BackendHook:
		return []string{BackendHook}
	case BackendDevice:
		return []string{BackendDevice}
	case BackendFocus:
		return nil
	}

	return []string{BackendHook, BackendDevice}
}
