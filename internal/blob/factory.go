package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/health-assistant/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore builds the report store for BLOB_MODE. Local mode returns a nil store and
// reports are streamed to the client instead.
func NewBlobStore(ctx context.Context, mode string, s3cfg appcfg.S3Config, logger Logger) (Store, string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		level, code, msg := s3cfg.Diagnostics()
		if code == "s3_partial_config" {
			logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
		}
		logf(logger, "INFO blob: mode=local (reports streamed)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeS3:
		if !s3cfg.IsConfigured() {
			missing := s3cfg.MissingRequired()
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL blob.s3: %s", s3cfg.DiagnosticsSummary())
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		logf(logger, "INFO blob.s3: code=s3_ready %s", s3cfg.DiagnosticsSummary())
		store, err := NewS3Store(ctx, s3cfg.Endpoint, s3cfg.Region, s3cfg.Bucket, s3cfg.AccessKeyID, s3cfg.SecretAccessKey)
		if err != nil {
			logf(logger, "FATAL blob.s3: init_failed=%v", err)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		logf(logger, "INFO blob: mode=s3")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
