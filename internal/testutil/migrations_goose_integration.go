//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"

	"github.com/Gunvolt24/fx_deals/migrations"
)

// ApplyMigrationsGoose — накатывает встроенные миграции схемы сделок на базу по dsn.
func ApplyMigrationsGoose(dsn string) error {
	goose.SetLogger(log.New(os.Stdout, "", 0))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	return migrations.Run(context.Background(), db, "up")
}
