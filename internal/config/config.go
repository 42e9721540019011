package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store StoreConfig
	Query QueryConfig
	Auth  AuthConfig
	UI    UIConfig
	Log   LogConfig
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend    string
	Collection string
	Mongo      MongoConfig
	Firestore  FirestoreConfig
	SQLite     SQLiteConfig
	Memory     MemoryConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// SQLiteConfig holds the local document store settings.
type SQLiteConfig struct {
	Path string
}

// MemoryConfig sizes the in-process demo store.
type MemoryConfig struct {
	Seed    int
	Latency time.Duration
}

type QueryConfig struct {
	Timeout time.Duration
}

// AuthConfig holds session verification settings. The token is read from the
// environment variable named by TokenEnv, falling back to Token.
type AuthConfig struct {
	Secret   string
	TokenEnv string `mapstructure:"token_env"`
	Token    string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencyCode string `mapstructure:"currency_code"`
	Locale       string
	Timezone     string
	TimeLayout   string `mapstructure:"time_layout"`
}

type LogConfig struct {
	Path   string
	Level  string
	Format string
}

const (
	BackendSQLite    = "sqlite"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Load reads configuration from file and env. Env var overrides use prefix TXDESK_.
func Load() (Config, error) {
	v := viper.New()
	home := os.Getenv("HOME")

	// default values
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.collection", "transactions")
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "txdesk")
	v.SetDefault("store.firestore.project_id", "")
	v.SetDefault("store.firestore.credentials_file", "")
	v.SetDefault("store.sqlite.path", filepath.Join(home, ".local", "share", "txdesk", "txdesk.db"))
	v.SetDefault("store.memory.seed", 40)
	v.SetDefault("store.memory.latency", "600ms")
	v.SetDefault("query.timeout", "15s")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_env", "TXDESK_SESSION")
	v.SetDefault("auth.token", "")
	v.SetDefault("ui.currency_code", "NPR")
	v.SetDefault("ui.locale", "en-US")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.time_layout", "1/2/2006, 3:04:05 PM")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "txdesk", "txdesk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TXDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "txdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TXDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports settings the console cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLite.Path == "" {
			errs = append(errs, errors.New("store.sqlite.path is required"))
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" {
			errs = append(errs, errors.New("store.mongo.uri and store.mongo.database are required"))
		}
	case BackendFirestore:
		if c.Store.Firestore.ProjectID == "" {
			errs = append(errs, errors.New("store.firestore.project_id is required"))
		}
	case BackendMemory:
		if c.Store.Memory.Seed < 0 || c.Store.Memory.Latency < 0 {
			errs = append(errs, errors.New("store.memory.seed and store.memory.latency must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Query.Timeout < 0 {
		errs = append(errs, errors.New("query.timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// Location resolves the display timezone.
func (c Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" || strings.EqualFold(c.UI.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ui.timezone: %w", err)
	}
	return loc, nil
}

// SessionToken returns the configured session token, preferring the
// environment variable named by auth.token_env.
func (c Config) SessionToken() string {
	if c.Auth.TokenEnv != "" {
		if v := strings.TrimSpace(os.Getenv(c.Auth.TokenEnv)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Auth.Token)
}
