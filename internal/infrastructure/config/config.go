package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultHealthMessage = "ForgeAI Omega API Gateway is running!"

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App      AppSettings
	HTTP     HTTPSettings
	Log      LogSettings
	Health   HealthSettings
	Database DatabaseSettings
	Redis    RedisSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type LogSettings struct {
	Level string
}

// HealthSettings controls what /health reports. With probes disabled the
// dependency descriptions are static and no connection is ever opened.
type HealthSettings struct {
	Message       string
	ProbesEnabled bool
	ProbeTimeout  time.Duration
	ProbeCacheTTL time.Duration
}

type DatabaseSettings struct {
	Driver          string
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisSettings struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Load resolves the configuration from environment variables, after loading
// envFiles (default ".env") when present. Variables already set in the
// environment take precedence over file values.
func Load(envFiles ...string) (AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return AppConfig{}, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	env := &envReader{}
	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "omega-gateway"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:            env.getEnvAsInt("APP_PORT", 3001),
			ReadTimeout:     env.getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    env.getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     env.getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: env.getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Health: HealthSettings{
			Message:       getEnv("HEALTH_MESSAGE", DefaultHealthMessage),
			ProbesEnabled: env.getEnvAsBool("HEALTH_PROBES_ENABLED", false),
			ProbeTimeout:  env.getEnvAsDuration("HEALTH_PROBE_TIMEOUT", time.Second),
			ProbeCacheTTL: env.getEnvAsDuration("HEALTH_PROBE_CACHE_TTL", 2*time.Second),
		},
		Database: DatabaseSettings{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "pgx")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            env.getEnvAsInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "omega"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    env.getEnvAsInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    env.getEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: env.getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisSettings{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     env.getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       env.getEnvAsInt("REDIS_DB", 0),
		},
	}

	if err := env.err(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late.
func (c AppConfig) Validate() error {
	if err := validatePort("APP_PORT", c.HTTP.Port); err != nil {
		return err
	}
	if err := validatePort("DB_PORT", c.Database.Port); err != nil {
		return err
	}
	if err := validatePort("REDIS_PORT", c.Redis.Port); err != nil {
		return err
	}
	if c.Database.Driver != "pgx" && c.Database.Driver != "postgres" {
		return errors.New("invalid config: DB_DRIVER must be 'pgx' or 'postgres'")
	}
	if c.Health.ProbeTimeout <= 0 {
		return errors.New("invalid config: HEALTH_PROBE_TIMEOUT must be greater than 0")
	}
	if c.Health.ProbeCacheTTL < 0 {
		return errors.New("invalid config: HEALTH_PROBE_CACHE_TTL cannot be negative")
	}
	return nil
}

func validatePort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid config: %s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}

// Address returns the HTTP listen address in :port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

// Address returns host:port of the database.
func (d DatabaseSettings) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// Address returns host:port of the cache.
func (r RedisSettings) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

// envReader reads typed variables and remembers every malformed value, so a
// typo such as APP_PORT=abc is reported instead of silently replaced.
type envReader struct {
	errs []error
}

// lookup returns the trimmed value of key. Unset and blank both count as missing.
func (r *envReader) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (r *envReader) invalid(key, kind, value string) {
	r.errs = append(r.errs, fmt.Errorf("invalid config: %s must be %s, got %q", key, kind, value))
}

func (r *envReader) getEnvAsBool(key string, fallback bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.invalid(key, "a boolean", value)
		return fallback
	}
	return parsed
}

func (r *envReader) getEnvAsInt(key string, fallback int) int {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.invalid(key, "an integer", value)
		return fallback
	}
	return parsed
}

func (r *envReader) getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.invalid(key, "a duration", value)
		return fallback
	}
	return parsed
}

// err joins every malformed value seen so far, or returns nil.
func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
