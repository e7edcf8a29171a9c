package model

import "testing"

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.DXFHeight != 10 {
		t.Errorf("expected DXFHeight=10, got %f", cfg.DXFHeight)
	}
	if !cfg.SortByHeight {
		t.Error("expected SortByHeight to default to true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
	if cfg.DefaultProfile != "" {
		t.Errorf("expected no default profile, got %s", cfg.DefaultProfile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default app config should be valid: %v", err)
	}
}

func TestAppConfigValidate(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DXFHeight = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative DXF height")
	}
}
