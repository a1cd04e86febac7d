package dbmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Run applies command (up, down or status) to the migrations in migrationsDir.
func Run(command string, dbURL string, migrationsDir string) error {
	return RunContext(context.Background(), command, dbURL, migrationsDir)
}

func RunContext(ctx context.Context, command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return errors.New("database URL is empty")
	}
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(migrationsDir))
	if err != nil {
		return fmt.Errorf("load migrations from %s: %w", migrationsDir, err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		for _, res := range results {
			log.Printf("migrate: applied version=%d in %s", res.Source.Version, res.Duration)
		}
	case "down":
		res, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		log.Printf("migrate: rolled back version=%d", res.Source.Version)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, st := range statuses {
			log.Printf("migrate: version=%d state=%s path=%s", st.Source.Version, st.State, st.Source.Path)
		}
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}

	return nil
}
