package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	FileName      = "config.yaml"
	DefaultDriver = "sqlite"
	DefaultAddr   = ":3000"
	DefaultDBFile = "todos.db"
)

var drivers = []string{"memory", "sqlite", "postgres"}

type Config struct {
	Storage  StorageConfig `yaml:"storage,omitempty"`
	IDPolicy string        `yaml:"id_policy,omitempty"`
	Server   ServerConfig  `yaml:"server,omitempty"`
	Remote   *RemoteConfig `yaml:"remote,omitempty"`
	Log      LogConfig     `yaml:"log,omitempty"`
}

type StorageConfig struct {
	Driver   string          `yaml:"driver,omitempty"`
	DSN      string          `yaml:"dsn,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// PostgresConfig mirrors the POSTGRES_* variables. It is only consulted when
// no explicit DSN is set.
type PostgresConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       string `yaml:"db,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type RemoteConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load reads config.yaml from dataDir. A missing file yields an empty config.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, FileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv exports the variables in path into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Resolve layers defaults, config.yaml, .env in the working directory and the
// process environment, in that order of increasing precedence, and validates
// the result.
func Resolve(dataDir string) (*Config, error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyDefaults(dataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TODOS_STORAGE"); v != "" {
		c.Storage.Driver = v
	}
	if v := getenv("TODOS_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := getenv("TODOS_ID_POLICY"); v != "" {
		c.IDPolicy = v
	}
	if v := getenv("TODOS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("TODOS_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("TODOS_SERVER"); v != "" {
		c.Remote = &RemoteConfig{URL: v}
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}

	if c.Storage.Postgres == nil {
		c.Storage.Postgres = &PostgresConfig{}
	}
	p := c.Storage.Postgres
	for _, kv := range []struct {
		key   string
		field *string
	}{
		{"POSTGRES_HOST", &p.Host},
		{"POSTGRES_PORT", &p.Port},
		{"POSTGRES_USER", &p.User},
		{"POSTGRES_PASSWORD", &p.Password},
		{"POSTGRES_DB", &p.DB},
	} {
		if v := getenv(kv.key); v != "" {
			*kv.field = v
		}
	}
	if *p == (PostgresConfig{}) {
		c.Storage.Postgres = nil
	}
}

// ApplyDefaults fills every unset key.
func (c *Config) ApplyDefaults(dataDir string) {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultDriver
	}
	if c.Storage.DSN == "" && c.Storage.Driver == "sqlite" {
		c.Storage.DSN = filepath.Join(dataDir, DefaultDBFile)
	}
	if c.IDPolicy == "" {
		c.IDPolicy = string(id.KindSequence)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks every set value and that the selected driver has what it
// needs to connect.
func (c *Config) Validate() error {
	if err := c.validateValues(); err != nil {
		return err
	}
	if c.Storage.Driver == "postgres" && c.DSN() == "" {
		return fmt.Errorf("postgres storage needs storage.dsn or POSTGRES_HOST and POSTGRES_DB")
	}
	return nil
}

func (c *Config) validateValues() error {
	if c.Storage.Driver != "" && !contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("unknown storage driver %q (valid: %s)", c.Storage.Driver, strings.Join(drivers, ", "))
	}
	if c.IDPolicy != "" {
		if _, err := id.ParseKind(c.IDPolicy); err != nil {
			return err
		}
	}
	return logging.Validate(c.Log.Level, c.Log.Format)
}

// DSN returns the explicit DSN, or one assembled from the postgres settings
// when the driver is postgres.
func (c *Config) DSN() string {
	if c.Storage.DSN != "" {
		return c.Storage.DSN
	}
	p := c.Storage.Postgres
	if c.Storage.Driver != "postgres" || p == nil || p.Host == "" || p.DB == "" {
		return ""
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	parts := []string{"host=" + p.Host, "port=" + port}
	if p.User != "" {
		parts = append(parts, "user="+p.User)
	}
	if p.Password != "" {
		parts = append(parts, "password="+p.Password)
	}
	parts = append(parts, "dbname="+p.DB, "sslmode=disable")
	return strings.Join(parts, " ")
}

// RemoteURL returns the configured server url, if any.
func (c *Config) RemoteURL() string {
	if c.Remote == nil {
		return ""
	}
	return c.Remote.URL
}

func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	if c.Log.Level != "" {
		opts.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		opts.Format = c.Log.Format
	}
	return opts
}

// setters backs Set and Get for the dotted keys accepted by `config set`.
var setters = map[string]struct {
	get func(c *Config) string
	set func(c *Config, v string)
}{
	"storage.driver": {
		func(c *Config) string { return c.Storage.Driver },
		func(c *Config, v string) { c.Storage.Driver = v },
	},
	"storage.dsn": {
		func(c *Config) string { return c.Storage.DSN },
		func(c *Config, v string) { c.Storage.DSN = v },
	},
	"id_policy": {
		func(c *Config) string { return c.IDPolicy },
		func(c *Config, v string) { c.IDPolicy = v },
	},
	"server.addr": {
		func(c *Config) string { return c.Server.Addr },
		func(c *Config, v string) { c.Server.Addr = v },
	},
	"remote.url": {
		func(c *Config) string { return c.RemoteURL() },
		func(c *Config, v string) {
			if v == "" {
				c.Remote = nil
				return
			}
			c.Remote = &RemoteConfig{URL: v}
		},
	},
	"log.level": {
		func(c *Config) string { return c.Log.Level },
		func(c *Config, v string) { c.Log.Level = v },
	},
	"log.format": {
		func(c *Config) string { return c.Log.Format },
		func(c *Config, v string) { c.Log.Format = v },
	},
}

// Keys lists the keys accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to a dotted key. The value is checked but the config as
// a whole may still be incomplete.
func (c *Config) Set(key, value string) error {
	s, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	prev := s.get(c)
	s.set(c, value)
	if err := c.validateValues(); err != nil {
		s.set(c, prev)
		return err
	}
	return nil
}

func (c *Config) Get(key string) (string, error) {
	s, ok := setters[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return s.get(c), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
