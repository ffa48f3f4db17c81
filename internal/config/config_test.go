package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "API_BASE_URL", "API_TOKEN", "HTTP_TIMEOUT_SECONDS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "EXPORT_DIR", "WATCH_DIR",
		"BLOB_MODE", "BLOB_LOCAL_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "local" {
		t.Fatalf("expected env=local, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected API base: %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeoutSeconds != 30 || cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 20 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Blob.Mode != BlobModeLocal {
		t.Fatalf("expected blob mode local, got %s", cfg.Blob.Mode)
	}
}

func TestLoadOverridesAndTrailingSlash(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("BLOB_MODE", "S3")

	cfg := Load()
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("trailing slash should be trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeoutSeconds != 5 {
		t.Fatalf("expected timeout 5, got %d", cfg.HTTPTimeoutSeconds)
	}
	if cfg.RateLimitRPS != 10 {
		t.Fatalf("bad int should fall back to default, got %d", cfg.RateLimitRPS)
	}
	if cfg.Blob.Mode != BlobModeS3 {
		t.Fatalf("blob mode should be lowercased, got %s", cfg.Blob.Mode)
	}
}

func TestS3ConfigDiagnostics(t *testing.T) {
	empty := S3Config{}
	if empty.IsConfigured() {
		t.Fatal("empty config should not be configured")
	}
	level, code, _ := empty.Diagnostics()
	if level != "INFO" || code != "s3_not_configured" {
		t.Fatalf("unexpected diagnostics: %s %s", level, code)
	}

	partial := S3Config{Endpoint: "https://storage.example.com"}
	level, code, _ = partial.Diagnostics()
	if level != "WARN" || code != "s3_partial_config" {
		t.Fatalf("unexpected diagnostics: %s %s", level, code)
	}
	if len(partial.MissingRequired()) != 3 {
		t.Fatalf("expected 3 missing keys, got %v", partial.MissingRequired())
	}

	full := S3Config{
		Endpoint:        "https://storage.example.com",
		Bucket:          "exports",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}
	if !full.IsConfigured() {
		t.Fatal("full config should be configured")
	}
	level, code, _ = full.Diagnostics()
	if level != "INFO" || code != "s3_ready" {
		t.Fatalf("unexpected diagnostics: %s %s", level, code)
	}
	summary := full.DiagnosticsSummary()
	if summary == "" || summary != "endpoint=https://storage.example.com region=- bucket=exports access_key_id=set secret_access_key=set" {
		t.Fatalf("unexpected summary: %s", summary)
	}
}
