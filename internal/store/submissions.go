package store

import (
	"fmt"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

// CreateSubmission registers a new pending submission and returns its uuid.
// The JSON side-file carrying the actual submission is written by the caller
// under the same uuid.
func (s *BaseStore) CreateSubmission() (string, error) {
	submissionUUID, err := s.freshUUID("submitted_protocols", "uuid")
	if err != nil {
		return "", err
	}

	query := s.Converter(`INSERT INTO submitted_protocols (uuid) VALUES (?)`)
	if _, err := s.DB.Exec(query, submissionUUID); err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}
	return submissionUUID, nil
}

func (s *BaseStore) ListSubmissions() ([]string, error) {
	var uuids []string
	if err := s.DB.Select(&uuids, `SELECT uuid FROM submitted_protocols ORDER BY uuid`); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return uuids, nil
}

func (s *BaseStore) RemoveSubmission(uuid string) error {
	if !models.ValidUUID(uuid) {
		return fmt.Errorf("malformed submission uuid")
	}
	query := s.Converter(`DELETE FROM submitted_protocols WHERE uuid = ?`)
	if _, err := s.DB.Exec(query, uuid); err != nil {
		return fmt.Errorf("failed to remove submission: %w", err)
	}
	return nil
}
