package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	errMissingSigningKey = errors.New("api.jwt_signing_key is required")
	errInvalidTokenTTL   = errors.New("api.token_ttl must be positive")
	errUnknownDriver     = errors.New("database.driver must be postgres or sqlite")
	errMissingAMQPURL    = errors.New("notify.amqp_url is required when notify is enabled")
)

type AppConfig struct {
	API        *APIConfig      `mapstructure:"api"`
	Gin        *GinConfig      `mapstructure:"gin"`
	Database   *DatabaseConfig `mapstructure:"database"`
	Postgres   *PostgresConfig `mapstructure:"postgres"`
	Filter     *FilterConfig   `mapstructure:"filter"`
	Notify     *NotifyConfig   `mapstructure:"notify"`
	Categories []string        `mapstructure:"categories"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a libpq style connection string.
func (c *PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

type FilterConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	ExtraWords []string `mapstructure:"extra_words"`
}

type NotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

// Load reads the yml file at path, then lets EVENTAPI_* environment variables override it.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("eventapi")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed, restart to apply",
			zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	v.WatchConfig()

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.token_ttl", time.Hour)
	v.SetDefault("api.read_timeout", 10*time.Second)
	v.SetDefault("api.write_timeout", 30*time.Second)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "events.db")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("filter.enabled", true)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.exchange", "events")
}

func (c *AppConfig) Validate() error {
	if c.API == nil || c.API.JWTSigningKey == "" {
		return errMissingSigningKey
	}
	if c.API.TokenTTL <= 0 {
		return errInvalidTokenTTL
	}
	if c.Database == nil || (c.Database.Driver != DriverPostgres && c.Database.Driver != DriverSQLite) {
		return errUnknownDriver
	}
	if c.Notify != nil && c.Notify.Enabled && c.Notify.AMQPURL == "" {
		return errMissingAMQPURL
	}

	return nil
}
