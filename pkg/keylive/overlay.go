package keylive

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/miketth/keylive/pkg/diagram"
	"codeberg.org/miketth/keylive/pkg/input"
	"codeberg.org/miketth/keylive/pkg/keylabel"
	"codeberg.org/miketth/keylive/pkg/keystate"
	"codeberg.org/miketth/keylive/pkg/surface"
	"codeberg.org/miketth/keylive/pkg/svgdoc"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// ErrClosed is returned by Run when the window was asked to close.
var ErrClosed = errors.New("overlay closed")

// Overlay is the window's owner loop. The key state, the diagram and the
// renderer are only touched from the goroutine running Run.
type Overlay struct {
	store    *keystate.Store
	mutator  *diagram.Mutator
	renderer Renderer
	target   surface.Target
	presses  PressCounter
	log      *zap.SugaredLogger

	resized bool
}

// Inputs are the channels the owner loop selects on. Any of them may be nil.
type Inputs struct {
	Transitions <-chan input.Transition
	Window      <-chan tcell.Event
	Reloads     <-chan *svgdoc.Document
}

func NewOverlay(
	mutator *diagram.Mutator,
	renderer Renderer,
	target surface.Target,
	presses PressCounter,
	log *zap.SugaredLogger,
) *Overlay {
	return &Overlay{
		store:    keystate.New(),
		mutator:  mutator,
		renderer: renderer,
		target:   target,
		presses:  presses,
		log:      log,
	}
}

func (o *Overlay) Held() []keylabel.Label {
	return o.store.Held()
}

// Apply handles one transition. The exit label never reaches the store.
func (o *Overlay) Apply(t input.Transition) error {
	if keylabel.IsExit(t.Label) {
		if t.Pressed {
			return ErrClosed
		}
		return nil
	}

	if !o.store.Apply(t.Label, t.Pressed) {
		return nil
	}

	if _, err := o.mutator.Update(t.Label, t.Pressed); err != nil {
		return fmt.Errorf("update diagram: %w", err)
	}

	if t.Pressed && o.presses != nil {
		if err := o.presses.RecordPress(string(t.Label)); err != nil {
			o.log.Warnw("could not record press", "label", t.Label, "error", err)
		}
	}

	return nil
}

// Run loads the diagram, paints it and then serves the inputs until the
// context ends or the window is closed.
func (o *Overlay) Run(ctx context.Context, in Inputs) error {
	if err := o.mutator.Load(); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	o.resized = true

	transitions := in.Transitions
	window := in.Window

	for {
		if err := o.repaint(); err != nil {
			return fmt.Errorf("repaint: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case t, ok := <-transitions:
			if !ok {
				o.log.Warnw("input backend stopped delivering key transitions")
				transitions = nil
				if err := o.releaseAll(); err != nil {
					return err
				}
				continue
			}
			if err := o.Apply(t); err != nil {
				return err
			}

		case ev, ok := <-window:
			if !ok {
				return ErrClosed
			}
			if err := o.handleWindowEvent(ev); err != nil {
				return err
			}

		case doc := <-in.Reloads:
			if err := o.mutator.Reload(doc, o.store.Held()); err != nil {
				return fmt.Errorf("reload diagram: %w", err)
			}
			o.log.Infow("diagram reloaded", "keys", len(o.mutator.Index()))
		}
	}
}

// releaseAll clears the key state and the highlights that went with it.
func (o *Overlay) releaseAll() error {
	for _, label := range o.store.Reset() {
		if _, err := o.mutator.Update(label, false); err != nil {
			return fmt.Errorf("update diagram: %w", err)
		}
	}

	return nil
}

func (o *Overlay) handleWindowEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return ErrClosed
		}
	case *tcell.EventResize:
		o.resized = true
	}

	return nil
}

func (o *Overlay) repaint() error {
	if !o.resized && !o.renderer.Dirty() {
		return nil
	}

	if err := o.renderer.Render(o.target); err != nil {
		return err
	}
	o.resized = false

	return nil
}
