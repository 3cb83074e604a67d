// Package config loads the server's settings from environment variables,
// applies defaults and validates the result on startup.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Preference backends.
const (
	PrefsMemory   = "memory"
	PrefsSQLite   = "sqlite"
	PrefsPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Grid    GridConfig
	Import  ImportConfig
	Prefs   PrefsConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// GridConfig holds view settings shared by every table.
type GridConfig struct {
	PageSize int `env:"GRID_PAGE_SIZE" default:"10"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// MaxFileSize is the largest accepted file in bytes (default: 10MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"10485760"`

	MaxConcurrent int           `env:"IMPORT_MAX_CONCURRENT" default:"2"`
	MaxWaitTime   time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"10s"`

	// StrictDates rejects rows whose date cells cannot be parsed. When off,
	// the trimmed text is stored as is.
	StrictDates bool `env:"IMPORT_STRICT_DATES" default:"true"`

	// DropDir is watched for new CSV files when set.
	DropDir string `env:"IMPORT_DROP_DIR"`
}

// PrefsConfig selects where user preferences are kept.
type PrefsConfig struct {
	Backend    string `env:"PREFS_BACKEND" default:"memory"`
	SQLitePath string `env:"PREFS_SQLITE_PATH" default:"./datagrid.db"`

	// DatabaseURL is only used by the postgres backend.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Validate checks every section and reports all failures together.
func (c *Config) Validate() error {
	return validation.Errors{
		"server":  c.Server.Validate(),
		"grid":    c.Grid.Validate(),
		"import":  c.Import.Validate(),
		"prefs":   c.Prefs.Validate(),
		"logging": c.Logging.Validate(),
	}.Filter()
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.IdleTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ShutdownTimeout, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Duration(1))),
	)
}

// Validate validates the grid configuration.
func (c *GridConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// Validate validates the import configuration.
func (c *ImportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxFileSize, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.MaxConcurrent, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxWaitTime, validation.Required, validation.Min(time.Duration(1))),
	)
}

// Validate validates the preference backend configuration.
func (c *PrefsConfig) Validate() error {
	c.Backend = strings.ToLower(c.Backend)
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(PrefsMemory, PrefsSQLite, PrefsPostgres)),
		validation.Field(&c.SQLitePath, validation.When(c.Backend == PrefsSQLite, validation.Required)),
		validation.Field(&c.DatabaseURL, validation.When(c.Backend == PrefsPostgres, validation.Required)),
		validation.Field(&c.MaxConns, validation.When(c.Backend == PrefsPostgres, validation.Required, validation.Min(1))),
	)
}

// Validate validates the logging configuration.
func (c *LoggingConfig) Validate() error {
	c.Level = strings.ToLower(c.Level)
	c.Format = strings.ToLower(c.Format)
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("text", "json")),
	)
}

// String returns a representation safe for logging. The database URL is
// masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Addr: %q}, ", c.Server.Addr())
	fmt.Fprintf(&b, "Grid: {PageSize: %d}, ", c.Grid.PageSize)
	fmt.Fprintf(&b, "Import: {MaxFileSize: %d, MaxConcurrent: %d, StrictDates: %v, DropDir: %q}, ",
		c.Import.MaxFileSize, c.Import.MaxConcurrent, c.Import.StrictDates, c.Import.DropDir)
	url := ""
	if c.Prefs.DatabaseURL != "" {
		url = "[MASKED]"
	}
	fmt.Fprintf(&b, "Prefs: {Backend: %q, SQLitePath: %q, DatabaseURL: %q}, ",
		c.Prefs.Backend, c.Prefs.SQLitePath, url)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
