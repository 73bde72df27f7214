// Command reconcile deletes orphaned protocol body files: files on disk with
// no corresponding metadata row. A crash between row commit and file cleanup
// can leave such strays behind; row-presence is authoritative.
package main

import (
	"os"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/app"
	"github.com/AzraAnimating/ProtokollDB/internal/archive"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	config, err := app.LoadConfig(configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	protocolStore, err := app.NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		logger.Error.Fatalf("Failed to init store: %v", err)
	}
	defer protocolStore.Close()

	fileArchive, err := archive.New(config.Storage.ProtocolDir, config.Storage.SubmissionDir)
	if err != nil {
		logger.Error.Fatalf("Failed to init archive: %v", err)
	}

	uuids, err := fileArchive.ListProtocolUUIDs()
	if err != nil {
		logger.Error.Fatalf("Failed to list protocol files: %v", err)
	}

	var removed int
	for _, id := range uuids {
		exists, err := protocolStore.ProtocolExists(id)
		if err != nil {
			logger.Error.Fatalf("Failed to check protocol %s: %v", id, err)
		}
		if exists {
			continue
		}

		if err := fileArchive.RemoveProtocol(id); err != nil {
			logger.Error.Printf("Failed to remove orphaned body %s: %v", id, err)
			continue
		}
		logger.Debug.Printf("Removed orphaned body file %s", id)
		removed++
	}

	logger.Info.Printf("Checked %d body files, removed %d orphans", len(uuids), removed)
}
