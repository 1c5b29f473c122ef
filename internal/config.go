package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // chart.timezone must resolve on hosts without zoneinfo

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ganttview/internal/catalog"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/projectservice"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Library LibraryConfig     `yaml:"library"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Chart   ChartConfig       `yaml:"chart"`
	Uploads UploadsConfig     `yaml:"uploads"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Library.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Chart.Validate(); err != nil {
		return err
	}
	return c.Uploads.Validate()
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

// LibraryConfig holds the path to the directory of project XML files.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the library configuration.
func (c *LibraryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds the catalog database DSN. The default keeps the catalog
// in memory; it is rebuilt from the library on every start.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
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

// ChartConfig holds rendering defaults shared by every surface.
type ChartConfig struct {
	PixelsPerDay float64 `yaml:"pixels_per_day"`
	RowHeight    float64 `yaml:"row_height"`
	HeaderHeight float64 `yaml:"header_height"`
	DateFormat   string  `yaml:"date_format"`
	Timezone     string  `yaml:"timezone"`
	Mode         string  `yaml:"mode"`
}

// Validate validates the chart configuration.
func (c *ChartConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PixelsPerDay, validation.Required, validation.Min(1.0), validation.Max(500.0)),
		validation.Field(&c.RowHeight, validation.Required, validation.Min(16.0)),
		validation.Field(&c.HeaderHeight, validation.Required, validation.Min(24.0)),
		validation.Field(&c.Mode, validation.Required, validation.In(string(gantt.ModeDay), string(gantt.ModeWeek))),
		validation.Field(&c.Timezone, validation.By(func(any) error {
			_, err := c.Location()
			return err
		})),
	)
}

// Location resolves Timezone. Empty means UTC.
func (c *ChartConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return loc, nil
}

// Options returns the geometry options for the configured chart.
func (c *ChartConfig) Options() gantt.Options {
	return gantt.Options{
		PixelsPerDay: c.PixelsPerDay,
		RowHeight:    c.RowHeight,
		HeaderHeight: c.HeaderHeight,
		Mode:         gantt.Mode(c.Mode),
	}
}

// UploadsConfig bounds the in-memory upload sessions.
type UploadsConfig struct {
	MaxBytes    int64         `yaml:"max_bytes"`
	MaxSessions int           `yaml:"max_sessions"`
	TTL         time.Duration `yaml:"ttl"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1024))),
		validation.Field(&c.MaxSessions, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.TTL < time.Minute {
		return errors.New("uploads: ttl must be at least 1m")
	}
	return nil
}

// ServiceSettings converts the chart and uploads sections into service
// settings. The configuration must have been validated.
func (c *Config) ServiceSettings() projectservice.Settings {
	loc, err := c.Chart.Location()
	if err != nil {
		loc = time.UTC
	}
	return projectservice.Settings{
		Chart:       c.Chart.Options(),
		DateLayout:  c.Chart.DateFormat,
		Location:    loc,
		MaxBytes:    c.Uploads.MaxBytes,
		MaxSessions: c.Uploads.MaxSessions,
		SessionTTL:  c.Uploads.TTL,
		Now:         time.Now,
	}
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
		Library: LibraryConfig{
			Path: "./projects",
		},
		SQLite: SQLiteConfig{
			Path: catalog.MemoryDSN,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Chart: ChartConfig{
			PixelsPerDay: 34,
			RowHeight:    40,
			HeaderHeight: 48,
			DateFormat:   gantt.DefaultDateLayout,
			Mode:         string(gantt.ModeWeek),
		},
		Uploads: UploadsConfig{
			MaxBytes:    10 << 20,
			MaxSessions: 32,
			TTL:         time.Hour,
		},
	}
}
