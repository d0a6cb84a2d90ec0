package diagram

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"codeberg.org/miketth/keylive/pkg/svgdoc"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const settleDelay = 150 * time.Millisecond

// Watcher re-parses the diagram whenever the file is rewritten and delivers
// the new document on a channel. Parsing happens on the watcher goroutine;
// the document is handed over and never touched here again.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     *zap.SugaredLogger
}

func NewWatcher(path string, log *zap.SugaredLogger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// generators usually replace the file, so watch the directory
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, watcher: w, log: log}, nil
}

func (w *Watcher) Run(ctx context.Context, docs chan<- *svgdoc.Document) error {
	defer w.watcher.Close()

	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				settle = time.After(settleDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("diagram watcher error", "error", err)

		case <-settle:
			settle = nil

			doc, err := svgdoc.ParseFile(w.path)
			if err != nil {
				w.log.Warnw("diagram changed but could not be parsed, keeping the old one", "error", err)
				continue
			}

			w.log.Infow("diagram changed, reloading", "path", w.path)
			select {
			case docs <- doc:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
