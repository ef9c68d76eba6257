package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the directory tables when they do not exist yet.
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Truncate removes every row from the directory tables.
func Truncate(ctx context.Context, client *postgres.Client) error {
	const stmt = `TRUNCATE appointments, reviews, feedback, doctors, hospitals, users`
	if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
