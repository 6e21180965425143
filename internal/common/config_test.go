package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Pricing.LookbackDays != 10 {
		t.Errorf("Pricing.LookbackDays default = %d, want 10", cfg.Pricing.LookbackDays)
	}
	if cfg.Clients.Polygon.GetTimeout() != 30*time.Second {
		t.Errorf("Polygon timeout default = %v, want 30s", cfg.Clients.Polygon.GetTimeout())
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_APIKeyEnvOverride(t *testing.T) {
	t.Setenv("POLYGON_API_KEY", "test-key")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Polygon.APIKey != "test-key" {
		t.Errorf("Polygon.APIKey = %q, want %q", cfg.Clients.Polygon.APIKey, "test-key")
	}
}

func TestLoadConfig_MergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "production"

[server]
port = 9999

[pricing]
lookback_days = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Pricing.LookbackDays != 5 {
		t.Errorf("Pricing.LookbackDays = %d, want 5", cfg.Pricing.LookbackDays)
	}
	// Unset fields keep defaults
	if cfg.Clients.Stooq.BaseURL != "https://stooq.com" {
		t.Errorf("Stooq.BaseURL = %q, want default", cfg.Clients.Stooq.BaseURL)
	}
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/folio.toml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}
