package store

import (
	"database/sql"
	"fmt"
)

// Sessions carry no expiry column; validity over time is judged from the
// claim timestamp one layer up, and expired rows are removed in batches by
// DeleteExpiredSessions.

func (s *BaseStore) CreateSession(uuid string, createdAt int64) error {
	query := s.Converter(`INSERT INTO sessions (uuid, created_at) VALUES (?, ?)`)
	if _, err := s.DB.Exec(query, uuid, createdAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// IsSessionValid is a pure existence check.
func (s *BaseStore) IsSessionValid(uuid string) (bool, error) {
	var found string
	query := s.Converter(`SELECT uuid FROM sessions WHERE uuid = ?`)
	err := s.DB.Get(&found, query, uuid)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return true, nil
}

// DeleteExpiredSessions removes every session created before the cutoff, not
// just the one whose token triggered the sweep.
func (s *BaseStore) DeleteExpiredSessions(cutoff int64) (int64, error) {
	query := s.Converter(`DELETE FROM sessions WHERE created_at < ?`)
	result, err := s.DB.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return rows, nil
}
