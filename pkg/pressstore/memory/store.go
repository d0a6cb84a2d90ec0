package memory

import (
	"maps"
	"sync"
)

type PressStore struct {
	lock   sync.Mutex
	counts map[string]int
}

func NewPressStore() *PressStore {
	return &PressStore{
		counts: make(map[string]int),
	}
}

func (s *PressStore) RecordPress(label string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.counts[label]++
	return nil
}

func (s *PressStore) Counts() (map[string]int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return maps.Clone(s.counts), nil
}
