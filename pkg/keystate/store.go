package keystate

import (
	"slices"

	"codeberg.org/miketth/keylive/pkg/keylabel"
)

// Store is the set of currently held labels. It is owned by a single
// goroutine and is not safe for concurrent use.
type Store struct {
	held map[keylabel.Label]struct{}
}

func New() *Store {
	return &Store{held: make(map[keylabel.Label]struct{})}
}

// Apply records a transition and reports whether the held set changed.
// Pressing a held label or releasing a label that is not held is a no-op.
func (s *Store) Apply(label keylabel.Label, pressed bool) bool {
	_, held := s.held[label]
	if held == pressed {
		return false
	}

	if pressed {
		s.held[label] = struct{}{}
	} else {
		delete(s.held, label)
	}

	return true
}

func (s *Store) IsHeld(label keylabel.Label) bool {
	_, ok := s.held[label]
	return ok
}

// Held returns a sorted snapshot of the held labels.
func (s *Store) Held() []keylabel.Label {
	out := make([]keylabel.Label, 0, len(s.held))
	for l := range s.held {
		out = append(out, l)
	}
	slices.Sort(out)

	return out
}

func (s *Store) Len() int {
	return len(s.held)
}

// Reset clears the store and returns what was held.
func (s *Store) Reset() []keylabel.Label {
	held := s.Held()
	clear(s.held)
	return held
}
