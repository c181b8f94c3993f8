package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// RateLimitRPS is the per-client request rate; document rendering is
	// expensive, so the API is rate limited by default
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// SigningConfig holds the token signing key configuration. The key is
// process-wide and constant for the process lifetime.
type SigningConfig struct {
	Secret string `mapstructure:"secret"`
}

// IssuerConfig holds batch issuance configuration
type IssuerConfig struct {
	// InsertChunkSize bounds single token-insert statements
	InsertChunkSize int `mapstructure:"insert_chunk_size"`
	// UTCOffsetHours fixes the zone used for derived functional dates
	UTCOffsetHours int `mapstructure:"utc_offset_hours"`
}

// PrintConfig holds document rendering configuration
type PrintConfig struct {
	// RedeemBaseURL prefixes redemption URLs encoded into token QR codes
	RedeemBaseURL string `mapstructure:"redeem_base_url"`
	// TemplateDir is prepended to relative template file paths
	TemplateDir string  `mapstructure:"template_dir"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	ChunkSize   int     `mapstructure:"chunk_size"`
	MarginMm    float64 `mapstructure:"margin_mm"`
	SpacingMm   float64 `mapstructure:"spacing_mm"`
	CodeSizePx  int     `mapstructure:"code_size_px"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Signing    SigningConfig  `mapstructure:"signing"`
	Issuer     IssuerConfig   `mapstructure:"issuer"`
	Print      PrintConfig    `mapstructure:"print"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("issuer.insert_chunk_size", 1000)
	v.SetDefault("issuer.utc_offset_hours", 2)
	v.SetDefault("print.template_dir", "templates/")
	v.SetDefault("print.max_tokens", 500)
	v.SetDefault("print.chunk_size", 100)
	v.SetDefault("print.margin_mm", 5.0)
	v.SetDefault("print.spacing_mm", 0.0)
	v.SetDefault("print.code_size_px", 512)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Signing.Secret == "" {
		return nil, errors.New("signing.secret is required")
	}
	if config.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and
// environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("PRIZEPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// Required for viper to map env vars to struct fields when no config file
// exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.rate_limit_rps",
		"server.rate_limit_burst",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Signing
		"signing.secret",
		// Issuer
		"issuer.insert_chunk_size",
		"issuer.utc_offset_hours",
		// Print
		"print.redeem_base_url",
		"print.template_dir",
		"print.max_tokens",
		"print.chunk_size",
		"print.margin_mm",
		"print.spacing_mm",
		"print.code_size_px",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // later files override earlier ones
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Location returns the fixed zone functional dates are derived in.
func (c *IssuerConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}
