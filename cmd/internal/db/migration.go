package db

import (
	"context"
	"fmt"
	"os"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
)

// ApplyMigrations runs the SQL script at path. The script is idempotent.
func ApplyMigrations(ctx context.Context, db repository.Querier, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading migration file: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("error applying migration: %w", err)
	}
	return nil
}
