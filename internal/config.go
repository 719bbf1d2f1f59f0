package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/recipebook/internal/kvstore"
	"github.com/starford/recipebook/internal/render"
	"github.com/starford/recipebook/internal/session"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Dataset DatasetConfig     `yaml:"dataset"`
	Store   StoreConfig       `yaml:"store"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Events  EventsConfig      `yaml:"events"`
	Auth    AuthConfig        `yaml:"auth"`
	CORS    CORSConfig        `yaml:"cors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool `yaml:"secure_cookies"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatasetConfig locates the recipe dataset.
//
// An empty Path serves the embedded sample dataset. Watch reloads the
// file when it changes on disk. ImagesDir is served at /images; images
// missing from it (or all of them when it is empty) get a placeholder.
type DatasetConfig struct {
	Path      string `yaml:"path"`
	Watch     bool   `yaml:"watch"`
	ImagesDir string `yaml:"images_dir"`
}

// StoreConfig selects the favorites key-value backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	// MaxSessions caps the favorites sets kept in memory.
	MaxSessions int `yaml:"max_sessions"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(kvstore.BackendSQLite, kvstore.BackendFS, kvstore.BackendMemory)),
		validation.Field(&c.Path, validation.When(c.Backend != kvstore.BackendMemory, validation.Required)),
		validation.Field(&c.MaxSessions, validation.Min(0)),
	)
}

// CatalogConfig holds presentation settings.
type CatalogConfig struct {
	MaxStars int `yaml:"max_stars"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxStars, validation.Required, validation.Min(1), validation.Max(10)),
	)
}

// EventsConfig holds SSE settings.
type EventsConfig struct {
	ReloadThrottle time.Duration `yaml:"reload_throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ReloadThrottle, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration for the JSON API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// CORSConfig lists origins allowed to call the JSON API from a browser.
// Empty disables CORS headers.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Dataset: DatasetConfig{
			Watch: true,
		},
		Store: StoreConfig{
			Backend:     kvstore.BackendSQLite,
			Path:        "./recipebook.db",
			MaxSessions: session.DefaultCapacity,
		},
		Catalog: CatalogConfig{
			MaxStars: render.DefaultMaxStars,
		},
		Events: EventsConfig{
			ReloadThrottle: 2 * time.Second,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
