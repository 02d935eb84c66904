package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate runs the embedded goose migrations against the given database.
// Migrations go through database/sql; the services themselves use pgxpool.
func Migrate(ctx context.Context, databaseURL string, migrations fs.FS) error {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations)

	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	return nil
}
