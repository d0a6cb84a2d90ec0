package keylive

import (
	"codeberg.org/miketth/keylive/pkg/diagram"
	"codeberg.org/miketth/keylive/pkg/surface"
)

type Renderer interface {
	diagram.Loader
	Dirty() bool
	Render(t surface.Target) error
}

// PressCounter records presses per label. Implementations live in
// pkg/pressstore.
type PressCounter interface {
	RecordPress(label string) error
	Counts() (map[string]int, error)
}
