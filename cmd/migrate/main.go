package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/health-assistant/internal/config"
	"github.com/fdg312/health-assistant/internal/dbmigrate"
)

const usage = "usage: migrate up|down|status [migrations-dir]"

type invocation struct {
	command string
	dir     string
}

// parseArgs reads the goose command and an optional migrations directory.
func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 || len(args) > 2 {
		return invocation{}, fmt.Errorf("%s", usage)
	}

	inv := invocation{command: args[0], dir: dbmigrate.DefaultMigrationsDir}
	switch inv.command {
	case "up", "down", "status":
	default:
		return invocation{}, fmt.Errorf("unknown command %q; %s", inv.command, usage)
	}
	if len(args) == 2 && args[1] != "" {
		inv.dir = args[1]
	}
	return inv, nil
}

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	dbURL, source, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		log.Fatalf("FATAL migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("migrate: command=%s dir=%s using=%s", inv.command, inv.dir, source)
	if err := dbmigrate.RunContext(ctx, inv.command, dbURL, inv.dir); err != nil {
		stop()
		log.Fatalf("FATAL migrate: %v", err)
	}
	log.Printf("migrate: %s done", inv.command)
}
