package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/health-assistant/internal/config"
	"github.com/fdg312/health-assistant/internal/dbmigrate"
	"github.com/fdg312/health-assistant/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)
	validateProductionConfig(cfg)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	server := httpserver.New(cfg)
	if err := serve(server); err != nil {
		log.Printf("FATAL server: %v", err)
		_ = server.Close()
		os.Exit(1)
	}
	if err := server.Close(); err != nil {
		log.Printf("WARN storage: close: %v", err)
	}
}

// serve runs until the listener fails or a shutdown signal drains it. A clean shutdown
// returns nil.
func serve(server *httpserver.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Printf("INFO server: received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("WARN server: shutdown: %v", err)
		}
		return nil
	}
}

// printStartupBanner logs the resolved configuration. Secrets show as set / not set.
func printStartupBanner(cfg *config.Config) {
	log.Println("========== Health Assistant API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	log.Println("---- database ----")
	if cfg.DatabaseURL == "" {
		log.Printf("  runtime_url      = not set (in-memory storage)")
	} else {
		log.Printf("  runtime_url      = set")
	}
	log.Printf("  direct           = %s", config.SetOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)

	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	log.Println("---- reports ----")
	log.Printf("  blob_mode        = %s", cfg.BlobMode)
	if cfg.BlobMode == config.BlobModeS3 {
		log.Printf("  s3: %s", cfg.S3.DiagnosticsSummary())
	}
	log.Printf("  font_path        = %s", config.NonEmptyOrDash(cfg.ReportsFontPath))

	log.Println("---- ai ----")
	log.Printf("  ai_mode          = %s", cfg.AIMode)
	if cfg.AIMode == config.AIModeNetworked {
		log.Printf("  openai_api_key   = %s", config.SetOrNot(cfg.OpenAIAPIKey))
	}

	log.Println("==========================================")
}

// validateProductionConfig holds the fatal checks for staging and production.
func validateProductionConfig(cfg *config.Config) {
	if cfg.BlobMode == config.BlobModeS3 {
		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	isProd := cfg.Env == "production" || cfg.Env == "staging"
	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}
	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "not set"
	case v == insecureDefault:
		return "set (insecure default)"
	default:
		return "set (custom)"
	}
}
