package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/recipebook/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}

	cfg = AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("empty token error = %v", err)
	}

	cfg = AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("invalid mode should fail validation")
	}
}

func TestStoreConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"sqlite", StoreConfig{Backend: "sqlite", Path: "x.db"}, false},
		{"fs", StoreConfig{Backend: "fs", Path: "./favs"}, false},
		{"memory without path", StoreConfig{Backend: "memory"}, false},
		{"sqlite without path", StoreConfig{Backend: "sqlite"}, true},
		{"unknown backend", StoreConfig{Backend: "redis", Path: "x"}, true},
		{"empty backend", StoreConfig{Path: "x"}, true},
		{"negative max sessions", StoreConfig{Backend: "memory", MaxSessions: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFullConfig_SectionsValidated(t *testing.T) {
	mutate := map[string]func(*Config){
		"port":      func(c *Config) { c.App.HTTP.Port = 70000 },
		"auth":      func(c *Config) { c.Auth.Mode = "token" },
		"store":     func(c *Config) { c.Store.Backend = "bolt" },
		"max stars": func(c *Config) { c.Catalog.MaxStars = 0 },
		"throttle":  func(c *Config) { c.Events.ReloadThrottle = -time.Second },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			fn(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	t.Setenv("RECIPEBOOK_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  log_level: debug
  http:
    port: 9090
dataset:
  path: ./recipes.yaml
  watch: false
store:
  backend: fs
  path: ./favorites
events:
  reload_throttle: 500ms
auth:
  mode: token
  token: ${RECIPEBOOK_TEST_TOKEN}
cors:
  allowed_origins: ["http://localhost:5173"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Dataset.Path != "./recipes.yaml" || cfg.Dataset.Watch {
		t.Errorf("dataset = %+v", cfg.Dataset)
	}
	if cfg.Store.Backend != "fs" || cfg.Events.ReloadThrottle != 500*time.Millisecond {
		t.Errorf("store = %+v events = %+v", cfg.Store, cfg.Events)
	}
	if cfg.Auth.Token != "s3cret" {
		t.Errorf("token = %q, want env-expanded value", cfg.Auth.Token)
	}
	if cfg.Catalog.MaxStars != 5 {
		t.Errorf("max_stars = %d, want default 5", cfg.Catalog.MaxStars)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 {
		t.Errorf("cors = %+v", cfg.CORS)
	}
}

func TestLoadIfExists_MissingFileUsesDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	found, err := pkgconfig.LoadIfExists(filepath.Join(t.TempDir(), "absent.yaml"), cfg)
	if err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	if found {
		t.Error("found = true for a missing file")
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.App.HTTP.Port)
	}
}
