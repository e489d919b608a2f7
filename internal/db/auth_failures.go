package db

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxAuthFailures is the number of bad keys a client may present before
// it is locked out.
const MaxAuthFailures = 5

func (s *Store) CheckAuthAllowed(key string) (locked bool, retryAfter time.Duration, err error) {
	var ignored int
	var lockedUntil sqlNullTime
	err = s.db.QueryRow(`SELECT failed_count, locked_until FROM auth_failures WHERE key = ?`, key).Scan(&ignored, &lockedUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, 0, nil
		}
		return false, 0, err
	}
	if !lockedUntil.Valid {
		return false, 0, nil
	}
	if lockedUntil.Time.After(time.Now()) {
		return true, time.Until(lockedUntil.Time), nil
	}
	return false, 0, nil
}

// RegisterAuthFailure counts a rejected key for the client and returns the
// lockout it earned, doubling per failure past the limit up to 32 minutes.
func (s *Store) RegisterAuthFailure(key string) (time.Duration, error) {
	now := time.Now()
	var failed int
	var locked sqlNullTime
	err := s.db.QueryRow(`SELECT failed_count, locked_until FROM auth_failures WHERE key = ?`, key).Scan(&failed, &locked)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		failed = 0
	}
	failed++
	var lockDuration time.Duration
	if failed >= MaxAuthFailures {
		power := math.Min(float64(failed-MaxAuthFailures), 5)
		lockDuration = time.Duration(math.Pow(2, power)) * time.Minute
	}
	var lockedUntil any
	if lockDuration > 0 {
		lockedUntil = now.Add(lockDuration).UTC().Format(time.RFC3339Nano)
	}
	_, err = s.db.Exec(`INSERT INTO auth_failures(key, failed_count, locked_until, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET failed_count = excluded.failed_count, locked_until = excluded.locked_until, updated_at = CURRENT_TIMESTAMP`,
		key, failed, lockedUntil)
	if err != nil {
		return 0, fmt.Errorf("register auth failure: %w", err)
	}
	return lockDuration, nil
}

func (s *Store) ResetAuthFailures(key string) error {
	_, err := s.db.Exec(`DELETE FROM auth_failures WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("reset auth failures: %w", err)
	}
	return nil
}
