package json

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sync"
	"time"
)

const saveInterval = time.Minute

// PressStore keeps press counts in memory and writes them to a json file
// from SaveLooper.
type PressStore struct {
	counts map[string]int
	file   *os.File
	lock   sync.Mutex
	dirty  bool
}

func NewPressStore(filename string) (*PressStore, error) {
	fileExists := true
	info, err := os.Stat(filename)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		fileExists = false
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	store := &PressStore{
		counts: make(map[string]int),
		file:   file,
	}

	if fileExists {
		if err := store.load(); err != nil {
			file.Close()
			return nil, fmt.Errorf("load: %w", err)
		}
	}

	return store, nil
}

func (s *PressStore) load() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err := s.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	if err := json.NewDecoder(s.file).Decode(&s.counts); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}

// Save writes the counts if they changed since the last save.
func (s *PressStore) Save() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.dirty {
		return nil
	}

	if _, err := s.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	if err := s.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate file: %w", err)
	}

	enc := json.NewEncoder(s.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.counts); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	s.dirty = false
	return nil
}

// SaveLooper saves periodically until ctx ends, then saves once more and
// closes the file.
func (s *PressStore) SaveLooper(ctx context.Context) error {
	defer s.file.Close()

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(); err != nil {
				return fmt.Errorf("save: %w", err)
			}

			return ctx.Err()
		case <-time.After(saveInterval):
			if err := s.Save(); err != nil {
				return fmt.Errorf("save: %w", err)
			}
		}
	}
}

func (s *PressStore) RecordPress(label string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.counts[label]++
	s.dirty = true
	return nil
}

func (s *PressStore) Counts() (map[string]int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return maps.Clone(s.counts), nil
}
