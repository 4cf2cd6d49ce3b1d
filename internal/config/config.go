// Package config loads the server configuration from a TOML file.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
	"github.com/mugiliam/hatchschemesrv/internal/common/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	ConfigEnv         = "HATCHSCHEMES_CONFIG"
	DefaultConfigFile = "hatchschemes.toml"

	StorageFile       = "file"
	StoragePostgreSQL = "postgresql"
	StorageMemory     = "memory"
)

var (
	ErrConfig        apperrors.Error = apperrors.New("configuration error")
	ErrConfigRead    apperrors.Error = ErrConfig.New("unable to read configuration").SetExpandError(true)
	ErrConfigInvalid apperrors.Error = ErrConfig.New("invalid configuration").SetExpandError(true)
)

type DBConfig struct {
	DSN string `toml:"dsn"`
}

type ConfigParam struct {
	ServerPort     string   `toml:"server_port" validate:"required,numeric"`
	HandleCORS     bool     `toml:"handle_cors"`
	CORSOrigin     string   `toml:"cors_origin"`
	LogLevel       string   `toml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat      string   `toml:"log_format" validate:"oneof=console json"`
	Storage        string   `toml:"storage" validate:"oneof=file postgresql memory"`
	StorageRoot    string   `toml:"storage_root" validate:"required_if=Storage file"`
	DB             DBConfig `toml:"db"`
	DefaultProject string   `toml:"default_project"`
	Projects       []string `toml:"projects"`
}

func Defaults() *ConfigParam {
	return &ConfigParam{
		ServerPort:  "8194",
		CORSOrigin:  "http://localhost:8190",
		LogLevel:    "info",
		LogFormat:   "console",
		Storage:     StorageFile,
		StorageRoot: "schemes",
	}
}

// Validate checks the configuration, including the constraints that span
// nested tables.
func (c *ConfigParam) Validate() error {
	if err := validation.V().Struct(c); err != nil {
		return ErrConfigInvalid.MsgErr("invalid configuration: "+strings.Join(validation.FieldErrors(err), ", "), err)
	}
	if c.Storage == StoragePostgreSQL && c.DB.DSN == "" {
		return ErrConfigInvalid.Msg("db.dsn is required for postgresql storage")
	}
	for _, p := range c.Projects {
		if !validation.ValidateDirectoryName(p) || strings.Contains(p, "/") {
			return ErrConfigInvalid.Msg("invalid project id '" + p + "'")
		}
	}
	return nil
}

var (
	cfgMu sync.RWMutex
	cfg   *ConfigParam
)

// Config returns the loaded configuration, or the defaults if nothing was loaded.
func Config() *ConfigParam {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	if cfg == nil {
		return Defaults()
	}
	return cfg
}

// Load reads the configuration from path on top of the defaults. A missing
// file leaves the defaults in place.
func Load(path string) (*ConfigParam, error) {
	c := Defaults()
	if _, err := toml.DecodeFile(path, c); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigRead.MsgErr("unable to read "+path, err)
		}
		log.Warn().Str("path", path).Msg("configuration file not found, using defaults")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfgMu.Lock()
	cfg = c
	cfgMu.Unlock()
	return c, nil
}

// LoadConfig loads the file named by HATCHSCHEMES_CONFIG, or the default file.
func LoadConfig() (*ConfigParam, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		path = DefaultConfigFile
	}
	return Load(path)
}

// SetConfigForTesting installs c and returns a function restoring the previous configuration.
func SetConfigForTesting(c *ConfigParam) (restore func()) {
	cfgMu.Lock()
	prev := cfg
	cfg = c
	cfgMu.Unlock()
	return func() {
		cfgMu.Lock()
		cfg = prev
		cfgMu.Unlock()
	}
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(c *ConfigParam, out io.Writer) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
