package db

import (
	"fmt"

	"github.com/google/uuid"
)

// RecordRun stores a run and returns its generated id.
func (s *Store) RecordRun(brand, kind, summary string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs(id, brand, kind, summary, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		id, brand, kind, summary)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

func (s *Store) GetRun(id string) (Run, error) {
	var r Run
	err := s.db.QueryRow(`SELECT id, brand, kind, summary, created_at FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Brand, &r.Kind, &r.Summary, &r.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the newest runs first. An empty brand lists all brands.
func (s *Store) ListRuns(brand string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, brand, kind, summary, created_at FROM runs
		WHERE (? = '' OR brand = ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, brand, brand, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	items := make([]Run, 0)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Brand, &r.Kind, &r.Summary, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
