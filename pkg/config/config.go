package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Geocoding providers
const (
	GeocoderStatic = "static"
	GeocoderGoogle = "google"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Search    SearchConfig
	Geocoding GeocodingConfig
	CORS      CORSConfig
	OTEL      OTELConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects the repository implementation
type StorageConfig struct {
	Driver string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds session and login settings
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	CookieName    string
	CookieSecure  bool
	LoginAttempts int
	LoginWindow   time.Duration
}

// SearchConfig bounds nearest-provider queries
type SearchConfig struct {
	DefaultK      int
	MaxK          int
	DefaultRadius float64
	StrictDefault bool
	RejectBadRows bool
}

// GeocodingConfig holds geocoding provider configuration
type GeocodingConfig struct {
	Provider string
	APIKey   string
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Env:             getEnv("APP_ENV", "development"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "care_connect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),
			CookieName:    getEnv("AUTH_COOKIE_NAME", "access_token"),
			CookieSecure:  getEnvAsBool("AUTH_COOKIE_SECURE", false),
			LoginAttempts: getEnvAsInt("LOGIN_RATE_ATTEMPTS", 5),
			LoginWindow:   getEnvAsDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		},
		Search: SearchConfig{
			DefaultK:      getEnvAsInt("SEARCH_DEFAULT_K", 5),
			MaxK:          getEnvAsInt("SEARCH_MAX_K", 50),
			DefaultRadius: getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 10),
			StrictDefault: getEnvAsBool("SEARCH_STRICT", false),
			RejectBadRows: getEnvAsBool("SEARCH_REJECT_INVALID_RECORDS", false),
		},
		Geocoding: GeocodingConfig{
			Provider: strings.ToLower(getEnv("GEOCODING_PROVIDER", GeocoderStatic)),
			APIKey:   getEnv("GEOCODING_API_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "care-connect"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.Auth.JWTSecret = "care-connect-dev-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Driver))
	}
	switch c.Geocoding.Provider {
	case GeocoderStatic:
	case GeocoderGoogle:
		if c.Geocoding.APIKey == "" {
			errs = append(errs, errors.New("GEOCODING_API_KEY is required for the google provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("GEOCODING_PROVIDER must be %q or %q, got %q", GeocoderStatic, GeocoderGoogle, c.Geocoding.Provider))
	}
	if c.Search.DefaultK < 0 || c.Search.MaxK < 1 || c.Search.DefaultK > c.Search.MaxK {
		errs = append(errs, fmt.Errorf("SEARCH_DEFAULT_K (%d) must be between 0 and SEARCH_MAX_K (%d)", c.Search.DefaultK, c.Search.MaxK))
	}
	if c.Search.DefaultRadius <= 0 {
		errs = append(errs, errors.New("SEARCH_DEFAULT_RADIUS_KM must be positive"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.Auth.LoginAttempts < 1 || c.Auth.LoginWindow <= 0 {
		errs = append(errs, errors.New("login rate limit needs a positive attempt count and window"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
