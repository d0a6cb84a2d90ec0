package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"codeberg.org/miketth/keylive/pkg/pressstore/sqlite/migrations"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// PressStore counts presses in a sqlite database. Every store instance is a
// new session; Counts reports the current session only.
type PressStore struct {
	db      *sql.DB
	querier *Queries
	session string
}

func NewPressStore(filename string, log *zap.SugaredLogger) (*PressStore, error) {
	db, err := sql.Open("sqlite3", filename+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	querier := New(db)
	session := uuid.NewString()

	if err := querier.CreateSession(context.Background(), session); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}
	log.Debugw("press store session started", "session", session)

	return &PressStore{
		db:      db,
		querier: querier,
		session: session,
	}, nil
}

func (s *PressStore) Close() error {
	return s.db.Close()
}

func (s *PressStore) Session() string {
	return s.session
}

func (s *PressStore) RecordPress(label string) error {
	if err := s.querier.IncrementPress(context.Background(), IncrementPressParams{
		SessionID: s.session,
		Label:     label,
	}); err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}

	return nil
}

func (s *PressStore) Counts() (map[string]int, error) {
	rows, err := s.querier.GetSessionCounts(context.Background(), s.session)
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	ret := make(map[string]int, len(rows))
	for _, row := range rows {
		ret[row.Label] = int(row.Count)
	}

	return ret, nil
}

// TotalCounts sums the counts of every session.
func (s *PressStore) TotalCounts() (map[string]int, error) {
	rows, err := s.querier.GetTotalCounts(context.Background())
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	ret := make(map[string]int, len(rows))
	for _, row := range rows {
		ret[row.Label] = int(row.Total)
	}

	return ret, nil
}
