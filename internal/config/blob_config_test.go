package config

import (
	"strings"
	"testing"
)

func TestS3ConfigIsConfigured(t *testing.T) {
	t.Run("empty config is not configured", func(t *testing.T) {
		cfg := S3Config{}
		if cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=false for empty config")
		}
	})

	t.Run("required fields set is configured", func(t *testing.T) {
		cfg := S3Config{
			Endpoint:        "https://storage.yandexcloud.net",
			Region:          "ru-central1",
			Bucket:          "reports",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}
		if !cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=true when all required fields are set")
		}
	})
}

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{
		Endpoint: "https://storage.yandexcloud.net",
		Bucket:   "reports",
	}
	missing := cfg.MissingRequired()

	want := []string{"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d (%v)", len(want), len(missing), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected missing[%d]=%s, got %s", i, want[i], missing[i])
		}
	}
}

func TestS3ConfigDiagnostics(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		level, code, _ := (S3Config{}).Diagnostics()
		if level != "INFO" || code != "s3_not_configured" {
			t.Fatalf("expected INFO/s3_not_configured, got %s/%s", level, code)
		}
	})

	t.Run("partial config", func(t *testing.T) {
		level, code, _ := (S3Config{Endpoint: "https://storage.yandexcloud.net"}).Diagnostics()
		if level != "WARN" || code != "s3_partial_config" {
			t.Fatalf("expected WARN/s3_partial_config, got %s/%s", level, code)
		}
	})

	t.Run("ready", func(t *testing.T) {
		level, code, _ := (S3Config{
			Endpoint:        "https://storage.yandexcloud.net",
			Region:          "ru-central1",
			Bucket:          "reports",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}).Diagnostics()
		if level != "INFO" || code != "s3_ready" {
			t.Fatalf("expected INFO/s3_ready, got %s/%s", level, code)
		}
	})
}

func TestS3ConfigDiagnosticsSummaryMasksSecrets(t *testing.T) {
	summary := S3Config{
		Endpoint:        "https://storage.yandexcloud.net",
		AccessKeyID:     "AKIA-very-secret",
		SecretAccessKey: "s3cr3t",
	}.DiagnosticsSummary()

	if strings.Contains(summary, "AKIA-very-secret") || strings.Contains(summary, "s3cr3t") {
		t.Fatalf("summary leaks secrets: %s", summary)
	}
	if !strings.Contains(summary, "access_key_id=set") {
		t.Fatalf("expected masked access key in summary, got %s", summary)
	}
	if !strings.Contains(summary, "region=-") {
		t.Fatalf("expected dash for empty region, got %s", summary)
	}
}

func TestParseAIMode(t *testing.T) {
	cases := map[string]string{
		"":              AIModeDeterministic,
		"deterministic": AIModeDeterministic,
		"mock":          AIModeDeterministic,
		" MOCK ":        AIModeDeterministic,
		"networked":     AIModeNetworked,
		"OpenAI":        AIModeNetworked,
		"claude":        AIModeDeterministic,
	}
	for raw, want := range cases {
		if got := ParseAIMode(raw); got != want {
			t.Fatalf("ParseAIMode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLoadNetworkedMode(t *testing.T) {
	t.Setenv("AI_MODE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BLOB_MODE", "")
	t.Setenv("APP_ENV", "local")

	cfg := Load()
	if cfg.AIMode != AIModeNetworked {
		t.Fatalf("expected networked mode, got %s", cfg.AIMode)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("expected api key to be loaded")
	}
	if cfg.BlobMode != BlobModeLocal {
		t.Fatalf("expected local blob mode by default, got %s", cfg.BlobMode)
	}
	if cfg.S3.PresignTTLSeconds != 900 {
		t.Fatalf("expected default presign ttl 900, got %d", cfg.S3.PresignTTLSeconds)
	}
}
