package store

import (
	"fmt"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

// ResolveOrCreateDimension returns the id of displayName in the given
// dimension, creating the row if it does not exist yet. A name that fails the
// charset policy yields ok=false without touching the store; callers treat
// that as an empty result, not an error. The uniqueness constraint on
// display_name makes concurrent creation safe: at most one row wins and both
// callers resolve to it.
func (s *BaseStore) ResolveOrCreateDimension(dim models.Dimension, displayName string) (int64, bool, error) {
	if !models.ValidDisplayName(displayName) {
		return 0, false, nil
	}

	table, ok := dim.Table()
	if !ok {
		return 0, false, fmt.Errorf("unknown dimension %q", dim)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := s.Converter(fmt.Sprintf(
		`INSERT INTO %s (display_name) VALUES (?) ON CONFLICT (display_name) DO NOTHING`, table,
	))
	if _, err := tx.Exec(insert, displayName); err != nil {
		return 0, false, fmt.Errorf("failed to create %s value: %w", table, err)
	}

	var id int64
	query := s.Converter(fmt.Sprintf(`SELECT id FROM %s WHERE display_name = ?`, table))
	if err := tx.Get(&id, query, displayName); err != nil {
		return 0, false, fmt.Errorf("failed to resolve %s value: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit: %w", err)
	}
	return id, true, nil
}

func (s *BaseStore) ListDimension(dim models.Dimension) ([]models.DimensionValue, error) {
	table, ok := dim.Table()
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}

	var values []models.DimensionValue
	query := fmt.Sprintf(`SELECT id, display_name FROM %s ORDER BY id`, table)
	if err := s.DB.Select(&values, query); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return values, nil
}

// SelectionIdentifiers fetches the full id/name sets of all four dimensions.
func (s *BaseStore) SelectionIdentifiers() (*models.SelectionIdentifiers, error) {
	examiners, err := s.ListDimension(models.DimensionExaminer)
	if err != nil {
		return nil, err
	}
	subjects, err := s.ListDimension(models.DimensionSubject)
	if err != nil {
		return nil, err
	}
	stex, err := s.ListDimension(models.DimensionStex)
	if err != nil {
		return nil, err
	}
	seasons, err := s.ListDimension(models.DimensionSeason)
	if err != nil {
		return nil, err
	}

	return &models.SelectionIdentifiers{
		Examiners: examiners,
		Subjects:  subjects,
		Stex:      stex,
		Seasons:   seasons,
	}, nil
}
