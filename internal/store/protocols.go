package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

// SaveProtocol persists one metadata row per examiner/subject pair, all
// sharing a freshly generated protocol uuid. Every row is written in a single
// transaction, so a failing pair leaves nothing behind. The body itself is
// not stored here; callers write it to the archive after the rows commit.
func (s *BaseStore) SaveProtocol(pairs [][2]int64, stexID, seasonID, year int64, grades []int64) (string, error) {
	if len(pairs) == 0 {
		return "", fmt.Errorf("no examiner/subject pairs given")
	}
	if len(grades) != len(pairs) {
		return "", fmt.Errorf("got %d grades for %d examiner/subject pairs", len(grades), len(pairs))
	}

	protocolUUID, err := s.freshUUID("protocols", "protocol_uuid")
	if err != nil {
		return "", err
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := s.Converter(`
		INSERT INTO protocols (relation_id, protocol_uuid, grade)
		VALUES (?, ?, ?)
	`)
	for i, pair := range pairs {
		relationID, err := s.resolveRelationTx(tx, pair[0], pair[1], stexID, seasonID, year)
		if err != nil {
			return "", err
		}
		if _, err := tx.Exec(insert, relationID, protocolUUID, grades[i]); err != nil {
			return "", fmt.Errorf("failed to save protocol row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return protocolUUID, nil
}

// freshUUID generates a random uuid and verifies it is absent from the given
// column before handing it out. Collisions are astronomically unlikely; the
// point lookup is insurance, not a uniqueness guarantee.
func (s *BaseStore) freshUUID(table, column string) (string, error) {
	query := s.Converter(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, column))
	for {
		candidate := uuid.NewString()
		var count int64
		if err := s.DB.Get(&count, query, candidate); err != nil {
			return "", fmt.Errorf("failed to check uuid collision: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

func (s *BaseStore) ProtocolExists(protocolUUID string) (bool, error) {
	var count int64
	query := s.Converter(`SELECT COUNT(*) FROM protocols WHERE protocol_uuid = ?`)
	if err := s.DB.Get(&count, query, protocolUUID); err != nil {
		return false, fmt.Errorf("failed to check protocol: %w", err)
	}
	return count > 0, nil
}

// RemoveProtocol deletes all metadata rows of a protocol. A malformed uuid
// returns false without issuing any statement; that is an input guard, not a
// not-found signal.
func (s *BaseStore) RemoveProtocol(protocolUUID string) (bool, error) {
	if !models.ValidUUID(protocolUUID) {
		return false, nil
	}

	query := s.Converter(`DELETE FROM protocols WHERE protocol_uuid = ?`)
	result, err := s.DB.Exec(query, protocolUUID)
	if err != nil {
		return false, fmt.Errorf("failed to remove protocol: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count removed rows: %w", err)
	}
	return rows > 0, nil
}

// SearchProtocols finds every protocol with at least one relation matching
// the filter (ids OR'ed within a dimension, dimensions AND'ed together), then
// folds ALL rows of the matched protocols. Matching is per-protocol, not
// per-row: a protocol found through one of its examiners comes back with its
// complete pair list. With no filters the query is unconstrained; the
// handlers reject that case before it gets here.
func (s *BaseStore) SearchProtocols(examiners, subjects, stexes, seasons, years []int64) ([]models.AggregatedProtocol, error) {
	query := `
		SELECT
			p.protocol_uuid AS uuid,
			e.display_name AS examiner,
			sub.display_name AS subject,
			st.display_name AS stex,
			se.display_name AS season,
			r.year AS year
		FROM protocols p
		JOIN relations r ON r.id = p.relation_id
		JOIN examiners e ON e.id = r.examiner_id
		JOIN subjects sub ON sub.id = r.subject_id
		JOIN stexes st ON st.id = r.stex_id
		JOIN seasons se ON se.id = r.season_id
	`

	var clauses []string
	var args []interface{}
	appendClause := func(column string, ids []int64) {
		if len(ids) == 0 {
			return
		}
		clauses = append(clauses, fmt.Sprintf("(fr.%s IN (?))", column))
		args = append(args, ids)
	}
	appendClause("examiner_id", examiners)
	appendClause("subject_id", subjects)
	appendClause("stex_id", stexes)
	appendClause("season_id", seasons)
	appendClause("year", years)

	if len(clauses) > 0 {
		query += `
			WHERE p.protocol_uuid IN (
				SELECT fp.protocol_uuid
				FROM protocols fp
				JOIN relations fr ON fr.id = fp.relation_id
				WHERE ` + strings.Join(clauses, " AND ") + `
			)`
	}
	query += " ORDER BY p.protocol_uuid"

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	var rows []protocolRow
	if err := s.DB.Select(&rows, s.Converter(expanded), expandedArgs...); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to search protocols: %w", err)
	}

	return foldProtocolRows(rows), nil
}

// foldProtocolRows collapses the multi-row join result into one aggregate per
// protocol uuid. Each field is a containment-checked union, since a protocol
// spanning several relations repeats its shared values across rows.
func foldProtocolRows(rows []protocolRow) []models.AggregatedProtocol {
	var order []string
	byUUID := make(map[string]*models.AggregatedProtocol)

	for _, row := range rows {
		agg, ok := byUUID[row.UUID]
		if !ok {
			agg = &models.AggregatedProtocol{UUID: row.UUID}
			byUUID[row.UUID] = agg
			order = append(order, row.UUID)
		}

		pair := models.ExaminerSubject{Examiner: row.Examiner, Subject: row.Subject}
		if !containsPair(agg.ExaminerSubjects, pair) {
			agg.ExaminerSubjects = append(agg.ExaminerSubjects, pair)
		}
		if !containsString(agg.Stex, row.Stex) {
			agg.Stex = append(agg.Stex, row.Stex)
		}
		if !containsString(agg.Seasons, row.Season) {
			agg.Seasons = append(agg.Seasons, row.Season)
		}
		if !containsInt(agg.Years, row.Year) {
			agg.Years = append(agg.Years, row.Year)
		}
	}

	results := make([]models.AggregatedProtocol, 0, len(order))
	for _, id := range order {
		results = append(results, *byUUID[id])
	}
	return results
}

func containsPair(list []models.ExaminerSubject, pair models.ExaminerSubject) bool {
	for _, p := range list {
		if p == pair {
			return true
		}
	}
	return false
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func containsInt(list []int64, value int64) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
