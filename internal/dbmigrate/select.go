package dbmigrate

import (
	"fmt"

	"github.com/fdg312/health-assistant/internal/config"
)

const DefaultMigrationsDir = "migrations"

// SelectDatabaseURL picks the URL used for DDL: DATABASE_URL_DIRECT, then DATABASE_URL.
// With requireDirect only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL string, source string, err error) {
	if cfg.DatabaseURLDirect != "" {
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", nil
	}
	if requireDirect {
		return "", "", fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
	}
	if cfg.DatabaseURLRaw != "" {
		return cfg.DatabaseURLRaw, "DATABASE_URL", nil
	}

	return "", "", fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
