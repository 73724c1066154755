package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration in file name order.
// The scripts are idempotent, so running them on each start is safe.
func Migrate(ctx context.Context, conn DBTX) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations.ReadFile[%s]: %w", name, err)
		}

		if _, err := conn.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("conn.Exec[%s]: %w", name, err)
		}
	}

	return nil
}
