package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/grana-app/grana/internal/config"
	"github.com/grana-app/grana/internal/service"
	"github.com/grana-app/grana/internal/storage"
)

// initStorage opens the configured database and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
