package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrKeyNotFound = errors.New("api key not found")

func (s *Store) CreateAPIKey(id, name, secretHash string) error {
	_, err := s.db.Exec(`INSERT INTO api_keys(id, name, secret_hash) VALUES (?, ?, ?)`, id, strings.TrimSpace(name), secretHash)
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *Store) GetAPIKey(id string) (APIKey, error) {
	var k APIKey
	var revoked int
	var last sqlNullTime
	err := s.db.QueryRow(`SELECT id, name, secret_hash, revoked, created_at, last_used_at FROM api_keys WHERE id = ?`, id).
		Scan(&k.ID, &k.Name, &k.SecretHash, &revoked, &k.CreatedAt, &last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return APIKey{}, ErrKeyNotFound
		}
		return APIKey{}, err
	}
	k.Revoked = revoked == 1
	k.LastUsedAt = last.ptr()
	return k, nil
}

func (s *Store) ListAPIKeys() ([]APIKey, error) {
	rows, err := s.db.Query(`SELECT id, name, secret_hash, revoked, created_at, last_used_at FROM api_keys ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	out := make([]APIKey, 0)
	for rows.Next() {
		var k APIKey
		var revoked int
		var last sqlNullTime
		if err := rows.Scan(&k.ID, &k.Name, &k.SecretHash, &revoked, &k.CreatedAt, &last); err != nil {
			return nil, err
		}
		k.Revoked = revoked == 1
		k.LastUsedAt = last.ptr()
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) RevokeAPIKey(id string) error {
	res, err := s.db.Exec(`UPDATE api_keys SET revoked = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (s *Store) TouchAPIKey(id string) error {
	_, err := s.db.Exec(`UPDATE api_keys SET last_used_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}
