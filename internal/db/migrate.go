package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables, indexes and constraints if they do not exist.
// It is safe to run on every startup.
func Migrate(ctx context.Context, q Querier) error {
	// The schema holds several statements and a DO block, which only the
	// simple protocol accepts in a single round trip.
	if _, err := q.Exec(ctx, schemaSQL, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("apply schema failed: %w", err)
	}
	return nil
}
