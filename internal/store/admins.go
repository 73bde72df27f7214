package store

import (
	"database/sql"
	"fmt"
)

func (s *BaseStore) AddAdmin(email string) error {
	query := s.Converter(`INSERT INTO admins (email) VALUES (?) ON CONFLICT (email) DO NOTHING`)
	if _, err := s.DB.Exec(query, email); err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

func (s *BaseStore) RemoveAdmin(email string) error {
	query := s.Converter(`DELETE FROM admins WHERE email = ?`)
	if _, err := s.DB.Exec(query, email); err != nil {
		return fmt.Errorf("failed to remove admin: %w", err)
	}
	return nil
}

func (s *BaseStore) ListAdmins() ([]string, error) {
	var admins []string
	if err := s.DB.Select(&admins, `SELECT email FROM admins ORDER BY email`); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// IsAdmin checks membership by exact, case-sensitive match.
func (s *BaseStore) IsAdmin(email string) (bool, error) {
	var found string
	query := s.Converter(`SELECT email FROM admins WHERE email = ?`)
	err := s.DB.Get(&found, query, email)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin status: %w", err)
	}
	return found == email, nil
}
