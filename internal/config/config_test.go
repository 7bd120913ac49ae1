package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-123")

	cfg, err := Load("testdata/nonexistent.env")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port: want 8080, got %s", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("default cache TTL: want 30s, got %s", cfg.Cache.TTL)
	}
	if cfg.Reporting.CronSchedule == "" {
		t.Errorf("default cron schedule must be set")
	}
}

func TestLoadRejectsMissingSheetConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")

	if _, err := Load("testdata/nonexistent.env"); err == nil {
		t.Fatalf("missing sheet credentials must fail validation")
	}
}

func TestLoadRejectsMalformedCacheTTL(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-123")
	t.Setenv("TABLE_CACHE_TTL_SECONDS", "treinta")

	if _, err := Load("testdata/nonexistent.env"); err == nil {
		t.Fatalf("malformed TTL must fail")
	}
}
