package store

import (
	"context"
	"embed"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending schema migrations. The SQL is written to
// the portable subset both dialects accept, so the same files run against
// the production Postgres and the sqlite databases used in tests.
func RunMigrations(ctx context.Context, gdb *gorm.DB, dialect string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, "migrations")
}
