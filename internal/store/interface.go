package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

// ProtocolStore is the storage contract the rest of the service depends on.
// Implementations exist for sqlite and postgres; both share BaseStore.
type ProtocolStore interface {
	Close() error
	ApplyMigrations(dir string) error

	ResolveOrCreateDimension(dim models.Dimension, displayName string) (int64, bool, error)
	ListDimension(dim models.Dimension) ([]models.DimensionValue, error)
	SelectionIdentifiers() (*models.SelectionIdentifiers, error)

	ResolveOrCreateRelation(examinerID, subjectID, stexID, seasonID, year int64) (int64, error)

	SaveProtocol(pairs [][2]int64, stexID, seasonID, year int64, grades []int64) (string, error)
	ProtocolExists(uuid string) (bool, error)
	RemoveProtocol(uuid string) (bool, error)
	SearchProtocols(examiners, subjects, stexes, seasons, years []int64) ([]models.AggregatedProtocol, error)

	CreateSession(uuid string, createdAt int64) error
	IsSessionValid(uuid string) (bool, error)
	DeleteExpiredSessions(cutoff int64) (int64, error)

	AddAdmin(email string) error
	RemoveAdmin(email string) error
	ListAdmins() ([]string, error)
	IsAdmin(email string) (bool, error)

	CreateSubmission() (string, error)
	ListSubmissions() ([]string, error)
	RemoveSubmission(uuid string) error
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}
