package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"codeberg.org/miketth/keylive/pkg/config"
	"codeberg.org/miketth/keylive/pkg/diagram"
	"codeberg.org/miketth/keylive/pkg/input"
	"codeberg.org/miketth/keylive/pkg/keylabel"
	"codeberg.org/miketth/keylive/pkg/keylive"
	"codeberg.org/miketth/keylive/pkg/pressstore/json"
	"codeberg.org/miketth/keylive/pkg/pressstore/memory"
	"codeberg.org/miketth/keylive/pkg/pressstore/sqlite"
	"codeberg.org/miketth/keylive/pkg/surface"
	"codeberg.org/miketth/keylive/pkg/svgdoc"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const topPresses = 5

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml (default: search the XDG config dirs)")
	diagramPath := flag.String("diagram", "", "path to the keyboard diagram svg")
	backend := flag.String("backend", "", "input backend: auto, hook, device or focus")
	devicePath := flag.String("device", "", "input device to read, e.g. /dev/input/event3")
	stats := flag.String("stats", "", "press statistics store: sqlite, json, memory or none")
	snapshot := flag.String("snapshot", "", "write a png of the last frame here on exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, err := newLogger(*debug, "stderr")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	cfg, usedConfig, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if usedConfig != "" {
		log.Debugw("loaded config", "path", usedConfig)
	}

	overrideString(&cfg.Diagram, *diagramPath)
	overrideString(&cfg.Diagram, flag.Arg(0))
	overrideString(&cfg.Backend, *backend)
	overrideString(&cfg.Device, *devicePath)
	overrideString(&cfg.Stats, *stats)
	overrideString(&cfg.Snapshot, *snapshot)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if _, err := os.Stat(cfg.Diagram); err != nil {
		log.Errorw("diagram file not found", "path", cfg.Diagram)
		return fmt.Errorf("open diagram: %w", err)
	}

	doc, err := svgdoc.ParseFile(cfg.Diagram)
	if err != nil {
		return fmt.Errorf("parse diagram: %w", err)
	}

	if err := cfg.ResolveStatsPath(); err != nil {
		return fmt.Errorf("resolve stats path: %w", err)
	}

	caps := input.Probe(cfg.Device)
	log.Debugw("probed input backends",
		"hook", caps.Hook, "hookReason", caps.HookReason,
		"device", caps.Device, "devicePath", caps.DevicePath, "deviceReason", caps.DeviceReason,
	)

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	presses, err := openPressStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open press store: %w", err)
	}
	defer closePressStore(presses, log)

	logPath, err := config.LogFile()
	if err != nil {
		return fmt.Errorf("get log file: %w", err)
	}
	windowLog, err := newLogger(*debug, logPath)
	if err != nil {
		return fmt.Errorf("create window logger: %w", err)
	}

	// backend notices go to the console, before the window takes it over
	mapper := keylabel.NewMapper()
	focus := input.NewFocusMonitor(mapper, time.Duration(cfg.FocusRelease), windowLog)
	monitor, transitions, err := input.Select(ctx, caps, input.Options{
		Backend:     cfg.Backend,
		StopTimeout: time.Duration(cfg.StopTimeout),
		MonitorLog:  windowLog,
	}, mapper, focus, log)
	if err != nil {
		return fmt.Errorf("select input backend: %w", err)
	}
	log.Infow("logging to file while the window is open", "path", logPath)

	screen, err := openScreen()
	if err != nil {
		if stopErr := monitor.Stop(time.Duration(cfg.StopTimeout)); stopErr != nil {
			log.Warnw("input backend did not stop in time, leaking it", "backend", monitor.Name(), "error", stopErr)
		}
		return err
	}

	err = runWindow(ctx, cfg, doc, screen, focus, monitor, transitions, presses, windowLog)
	screen.Fini()
	_ = windowLog.Sync()

	switch {
	case errors.Is(err, keylive.ErrClosed), errors.Is(err, context.Canceled):
		log.Info("window closed")
	case err != nil:
		return err
	}

	logTopPresses(presses, log)
	log.Info("shutdown complete")
	return nil
}

func openScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableFocus()
	screen.HideCursor()

	return screen, nil
}

// runWindow serves the window until it is closed and then stops monitor.
func runWindow(
	ctx context.Context,
	cfg config.Config,
	doc *svgdoc.Document,
	screen tcell.Screen,
	focus *input.FocusMonitor,
	monitor input.Monitor,
	transitions <-chan input.Transition,
	presses *pressStore,
	log *zap.SugaredLogger,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surf := surface.New(surface.Options{Smooth: cfg.Smooth})
	mutator := diagram.NewMutator(doc, surf, log)

	events := make(chan tcell.Event, 16)
	go keylive.PumpEvents(ctx, screen, focus, events)

	errChan := make(chan error, 5)
	var wg sync.WaitGroup

	var reloads chan *svgdoc.Document
	if cfg.Watch {
		watcher, err := diagram.NewWatcher(cfg.Diagram, log)
		if err != nil {
			log.Warnw("could not watch diagram, live reload disabled", "error", err)
		} else {
			reloads = make(chan *svgdoc.Document)
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := watcher.Run(ctx, reloads); err != nil && !errors.Is(err, context.Canceled) {
					errChan <- fmt.Errorf("watch diagram: %w", err)
				}
			}()
		}
	}

	if presses.loop != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := presses.loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("save presses: %w", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := systemdNotifyLoop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()

	overlay := keylive.NewOverlay(mutator, surf, surface.Terminal{Screen: screen}, presses.counter, log)
	log.Infow("started keylive", "diagram", cfg.Diagram, "keys", len(mutator.Index()))

	wg.Add(1)
	go func() {
		defer wg.Done()
		errChan <- overlay.Run(ctx, keylive.Inputs{
			Transitions: transitions,
			Window:      events,
			Reloads:     reloads,
		})
	}()

	err := <-errChan
	cancel()

	if stopErr := monitor.Stop(time.Duration(cfg.StopTimeout)); stopErr != nil {
		log.Warnw("input backend did not stop in time, leaking it", "backend", monitor.Name(), "error", stopErr)
	}

	wg.Wait()

	if cfg.Snapshot != "" {
		writeSnapshot(cfg.Snapshot, surf, overlay.Held(), log)
	}

	return err
}

func writeSnapshot(path string, surf *surface.Surface, held []keylabel.Label, log *zap.SugaredLogger) {
	frame := surf.Frame()
	if frame == nil {
		log.Warn("nothing rendered yet, skipping snapshot")
		return
	}

	if err := surface.WriteSnapshot(path, frame, heldCaption(held)); err != nil {
		log.Warnw("could not write snapshot", "path", path, "error", err)
		return
	}

	log.Infow("wrote snapshot", "path", path)
}

func heldCaption(held []keylabel.Label) string {
	if len(held) == 0 {
		return "held: none"
	}

	names := make([]string, len(held))
	for i, l := range held {
		names[i] = string(l)
	}

	return "held: " + strings.Join(names, " ")
}

type pressStore struct {
	kind    string
	counter keylive.PressCounter
	loop    func(ctx context.Context) error
	close   func() error
}

func openPressStore(cfg config.Config, log *zap.SugaredLogger) (*pressStore, error) {
	noop := func() error { return nil }

	switch cfg.Stats {
	case config.StatsSQLite:
		store, err := sqlite.NewPressStore(cfg.StatsPath, log)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &pressStore{kind: cfg.Stats, counter: store, close: store.Close}, nil

	case config.StatsJSON:
		store, err := json.NewPressStore(cfg.StatsPath)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		return &pressStore{kind: cfg.Stats, counter: store, loop: store.SaveLooper, close: noop}, nil

	case config.StatsMemory:
		return &pressStore{kind: cfg.Stats, counter: memory.NewPressStore(), close: noop}, nil
	}

	return &pressStore{kind: cfg.Stats, close: noop}, nil
}

func closePressStore(presses *pressStore, log *zap.SugaredLogger) {
	if err := presses.close(); err != nil {
		log.Warnw("could not close press store", "stats", presses.kind, "error", err)
	}
}

type labelCount struct {
	label string
	count int
}

func topCounts(counts map[string]int, n int) []labelCount {
	top := make([]labelCount, 0, len(counts))
	for label, count := range counts {
		top = append(top, labelCount{label, count})
	}

	slices.SortFunc(top, func(a, b labelCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.label, b.label)
	})

	if len(top) > n {
		top = top[:n]
	}
	return top
}

func logTopPresses(presses *pressStore, log *zap.SugaredLogger) {
	if presses.counter == nil {
		return
	}

	counts, err := presses.counter.Counts()
	if err != nil {
		log.Warnw("could not read press counts", "error", err)
		return
	}

	for _, lc := range topCounts(counts, topPresses) {
		log.Infow("most pressed", "label", lc.label, "count", lc.count)
	}
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func systemdNotifyLoop(ctx context.Context) error {
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	_, _ = daemon.SdNotify(false, "STATUS=Watching the keyboard")

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}

func newLogger(debug bool, outputs ...string) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = outputs
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
