package app

import (
	"strings"

	"github.com/AzraAnimating/ProtokollDB/internal/store"
	"github.com/AzraAnimating/ProtokollDB/internal/store/postgres"
	"github.com/AzraAnimating/ProtokollDB/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.ProtocolStore, error) {
	if strings.HasPrefix(dsn, "postgres") {
		return postgres.NewPostgresStore(dsn, migrationsDir)
	}
	return sqlite.NewSQLiteStore(dsn, migrationsDir)
}
