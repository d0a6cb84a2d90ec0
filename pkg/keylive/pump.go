package keylive

import (
	"context"

	"codeberg.org/miketth/keylive/pkg/input"
	"github.com/gdamore/tcell/v2"
)

// PumpEvents polls the screen and feeds every event to the focus monitor
// and to out. It returns when the screen is finalized or ctx ends, and
// closes out.
func PumpEvents(ctx context.Context, screen tcell.Screen, focus *input.FocusMonitor, out chan<- tcell.Event) {
	defer close(out)

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		focus.HandleEvent(ev)

		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
