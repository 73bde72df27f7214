package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ResolveOrCreateRelation maps a full classification 5-tuple to its relation
// id, creating the row once and reusing it afterwards. Matching is exact
// equality on all five columns; no normalization or range logic on year.
func (s *BaseStore) ResolveOrCreateRelation(examinerID, subjectID, stexID, seasonID, year int64) (int64, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.resolveRelationTx(tx, examinerID, subjectID, stexID, seasonID, year)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// resolveRelationTx is the find-or-create core, shared with the protocol save
// path so a multi-pair save resolves all its relations in one transaction.
func (s *BaseStore) resolveRelationTx(tx *sqlx.Tx, examinerID, subjectID, stexID, seasonID, year int64) (int64, error) {
	insert := s.Converter(`
		INSERT INTO relations (examiner_id, subject_id, stex_id, season_id, year)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (examiner_id, subject_id, stex_id, season_id, year) DO NOTHING
	`)
	if _, err := tx.Exec(insert, examinerID, subjectID, stexID, seasonID, year); err != nil {
		return 0, fmt.Errorf("failed to create relation: %w", err)
	}

	var id int64
	query := s.Converter(`
		SELECT id FROM relations
		WHERE examiner_id = ?
		AND subject_id = ?
		AND stex_id = ?
		AND season_id = ?
		AND year = ?
	`)
	if err := tx.Get(&id, query, examinerID, subjectID, stexID, seasonID, year); err != nil {
		return 0, fmt.Errorf("failed to resolve relation: %w", err)
	}
	return id, nil
}
