package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/status"
	"github.com/prasetyowira/starter/infrastructure/async"
	"go.uber.org/multierr"
)

// Config is the application configuration read from the environment
type Config struct {
	Port        int
	DatabaseURL string
	AuthUser    string
	AuthPass    string
	BaseURL     string
	CacheSize   int
	LogLevel    string

	AsyncTimeout   time.Duration
	Pool           async.PoolConfig
	ExposeDebugMsg bool
}

// LoadConfig reads the configuration. Values that cannot be parsed are
// reported together; the returned Config then holds the defaults for them.
func LoadConfig() (Config, error) {
	var errs error
	intEnv := func(key string, def int) int {
		n, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil {
			errs = multierr.Append(errs, apperror.New(status.ConfigValidate, key))
			return def
		}
		return n
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		d, err := parseDuration(getEnv(key, def.String()))
		if err != nil {
			errs = multierr.Append(errs, apperror.New(status.ConfigValidate, key))
			return def
		}
		return d
	}

	logLevel := getEnv("LOG_LEVEL", "INFO")
	exposeDebug, err := strconv.ParseBool(getEnv("EXPOSE_DEBUG_MSG", strconv.FormatBool(logLevel != "INFO")))
	if err != nil {
		errs = multierr.Append(errs, apperror.New(status.ConfigValidate, "EXPOSE_DEBUG_MSG"))
	}

	defaults := async.DefaultPoolConfig()
	cfg := Config{
		Port:        intEnv("PORT", 8080),
		DatabaseURL: getEnv("DATABASE_URL", "starter.db"),
		AuthUser:    getEnv("AUTH_USER", "admin"),
		AuthPass:    getEnv("AUTH_PASS", "password"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		CacheSize:   intEnv("CACHE_SIZE", 1000),
		LogLevel:    logLevel,

		AsyncTimeout: durationEnv("ASYNC_TIMEOUT", async.DefaultTimeout),
		Pool: async.PoolConfig{
			CoreSize:      intEnv("POOL_CORE_SIZE", defaults.CoreSize),
			MaxSize:       intEnv("POOL_MAX_SIZE", defaults.MaxSize),
			QueueCapacity: intEnv("POOL_QUEUE_CAPACITY", defaults.QueueCapacity),
			KeepAlive:     durationEnv("POOL_KEEP_ALIVE", defaults.KeepAlive),
			NamePrefix:    getEnv("POOL_NAME_PREFIX", defaults.NamePrefix),
		},
		ExposeDebugMsg: exposeDebug,
	}
	return cfg, errs
}

// IsProduction reports whether the service runs with production logging
func (c Config) IsProduction() bool {
	return c.LogLevel == "INFO"
}

// Validate rejects inconsistent settings. Every problem is reported with
// status.ConfigValidate naming the offending variable.
func (c Config) Validate() error {
	var errs error
	check := func(ok bool, key string) {
		if !ok {
			errs = multierr.Append(errs, apperror.New(status.ConfigValidate, key))
		}
	}

	check(c.Port > 0 && c.Port < 65536, "PORT")
	check(c.DatabaseURL != "", "DATABASE_URL")
	check(c.AuthUser != "", "AUTH_USER")
	check(c.CacheSize >= 0, "CACHE_SIZE")
	check(c.AsyncTimeout > 0, "ASYNC_TIMEOUT")
	check(c.Pool.CoreSize > 0, "POOL_CORE_SIZE")
	check(c.Pool.MaxSize >= c.Pool.CoreSize, "POOL_MAX_SIZE")
	check(c.Pool.QueueCapacity >= 0, "POOL_QUEUE_CAPACITY")
	check(c.Pool.KeepAlive > 0, "POOL_KEEP_ALIVE")
	return errs
}

// parseDuration accepts Go durations ("90s", "1m") and plain seconds ("60")
func parseDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
