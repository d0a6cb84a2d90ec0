package input

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestSelectFallsBackToFocus(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	mapper := keylabel.NewMapper()

	for _, backend := range []string{BackendAuto, BackendHook, BackendDevice, BackendFocus, ""} {
		focus := NewFocusMonitor(mapper, 0, log)

		m, ch, err := Select(context.Background(), Capabilities{}, Options{Backend: backend}, mapper, focus, log)
		if err != nil {
			t.Fatalf("%q: %v", backend, err)
		}
		if m != Monitor(focus) || ch == nil {
			t.Errorf("%q: expected the focus monitor, got %s", backend, m.Name())
		}
		if focus.State() != Running {
			t.Errorf("%q: focus monitor state %s", backend, focus.State())
		}

		focus.Stop(time.Second)
	}
}

func TestSelectFallbackNotices(t *testing.T) {
	core, notices := observer.New(zapcore.InfoLevel)
	monitorCore, monitorLogs := observer.New(zapcore.DebugLevel)
	mapper := keylabel.NewMapper()
	focus := NewFocusMonitor(mapper, 0, zaptest.NewLogger(t).Sugar())

	caps := Capabilities{HookReason: "no X11 display", DeviceReason: "permission denied"}
	opts := Options{Backend: BackendAuto, MonitorLog: zap.New(monitorCore).Sugar()}

	m, _, err := Select(context.Background(), caps, opts, mapper, focus, zap.New(core).Sugar())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer m.Stop(time.Second)

	warnings := notices.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 fallback warnings, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Message != "global hook unavailable, falling back" || warnings[0].ContextMap()["reason"] != "no X11 display" {
		t.Errorf("unexpected hook notice %+v", warnings[0])
	}
	if warnings[1].Message != "input device unavailable, falling back" || warnings[1].ContextMap()["reason"] != "permission denied" {
		t.Errorf("unexpected device notice %+v", warnings[1])
	}

	chosen := notices.FilterMessage("using input backend").All()
	if len(chosen) != 1 || chosen[0].ContextMap()["backend"] != BackendFocus {
		t.Errorf("expected the focus backend to be announced, got %v", chosen)
	}

	if monitorLogs.Len() != 0 {
		t.Errorf("notices leaked into the monitor log: %v", monitorLogs.All())
	}
}

func TestSelectFocusAlreadyRunning(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	mapper := keylabel.NewMapper()
	focus := NewFocusMonitor(mapper, 0, log)

	if _, err := focus.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer focus.Stop(time.Second)

	_, _, err := Select(context.Background(), Capabilities{}, Options{}, mapper, focus, log)
	if !errors.Is(err, ErrNotStopped) {
		t.Errorf("expected ErrNotStopped, got %v", err)
	}
}

func TestUnavailableMonitor(t *testing.T) {
	u := unavailable{name: "test", reason: "not here"}

	if _, err := u.Start(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if u.State() != Stopped {
		t.Errorf("state = %s", u.State())
	}
}

func TestCandidates(t *testing.T) {
	if got := candidates(BackendAuto); len(got) != 2 || got[0] != BackendHook || got[1] != BackendDevice {
		t.Errorf("auto order: %v", got)
	}
	if got := candidates(BackendFocus); len(got) != 0 {
		t.Errorf("focus should not try system wide backends: %v", got)
	}
}
