package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/joho/godotenv"

	"github.com/Gunvolt24/fx_deals/config"
	"github.com/Gunvolt24/fx_deals/migrations"
)

// CLI для применения миграций схемы сделок.
// Пример: migrate -cmd up; migrate -cmd status -dsn postgres://...
func main() {
	_ = godotenv.Load(".env.local")

	dsn := flag.String("dsn", "", "postgres DSN (default: FXDEALS_POSTGRES_DSN)")
	command := flag.String("cmd", "up", "goose command: up|down|status|version|redo|reset")
	flag.Parse()

	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		*dsn = cfg.Postgres.DSN
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, *command, flag.Args()...); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
