package db

import "fmt"

func (s *Store) RecordAudit(actor, action, target, metadata string) error {
	if actor == "" {
		actor = "anonymous"
	}
	_, err := s.db.Exec(`INSERT INTO audit_logs(actor, action, target, metadata) VALUES (?, ?, ?, ?)`, actor, action, target, metadata)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (s *Store) ListAudit(limit int) ([]AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`SELECT id, actor, action, target, metadata, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()
	logs := make([]AuditLog, 0, limit)
	for rows.Next() {
		var l AuditLog
		if err := rows.Scan(&l.ID, &l.Actor, &l.Action, &l.Target, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
