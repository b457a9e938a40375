package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.MaxUploadBytes != 16<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 16<<20)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", cfg.TokenTTL)
	}
	if !cfg.UsingDevSecret() {
		t.Error("UsingDevSecret() = false with no JWT_SECRET set")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "a-real-secret-of-decent-length!!")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.UsingDevSecret() {
		t.Error("UsingDevSecret() = true after JWT_SECRET override")
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.TokenTTL)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an out-of-range port")
	}
}

func TestLoad_InvalidMaxUpload(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a negative upload cap")
	}
}
