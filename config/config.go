// Package config loads the service configuration from environment variables
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends accepted by STORE_BACKEND
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string // empty: chosen from Env
	LogDir            string
	LogRetentionWeeks int
	MaxLogFileSize    int64
	MaxRequestBody    int64
	MaxHeaderSize     int64

	DatasetPath           string // empty: bundled dataset
	DatasetEncoding       string
	DatasetReloadInterval time.Duration

	StoreBackend   string
	StorePath      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	FilterCacheSize   int
	StaticDir         string
	AssetCacheVersion string
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               env,
		LogLevel:          strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 100*1024*1024),
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1024*1024),
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1024*1024),

		DatasetPath:           os.Getenv("DATASET_PATH"),
		DatasetEncoding:       strings.ToLower(getEnvWithDefault("DATASET_ENCODING", "utf-8")),
		DatasetReloadInterval: getDurationEnvWithDefault("DATASET_RELOAD_INTERVAL", time.Hour),

		StoreBackend:   strings.ToLower(getEnvWithDefault("STORE_BACKEND", StoreFile)),
		StorePath:      getEnvWithDefault("STORE_PATH", "data/userstate.json"),
		RedisAddr:      getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getIntEnvWithDefault("REDIS_DB", 0),
		RedisKeyPrefix: getEnvWithDefault("REDIS_KEY_PREFIX", "emergency-reference:"),

		FilterCacheSize:   getIntEnvWithDefault("FILTER_CACHE_SIZE", 50),
		StaticDir:         getEnvWithDefault("STATIC_DIR", "html"),
		AssetCacheVersion: getEnvWithDefault("ASSET_CACHE_VERSION", "v1"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	checks := []struct {
		name string
		err  error
	}{
		{"PORT", validatePort(cfg.Port)},
		{"ADDRESS", validateAddress(cfg.Address)},
		{"LOG_LEVEL", validateLogLevel(cfg.LogLevel)},
		{"MAX_REQUEST_BODY", validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY")},
		{"MAX_HEADER_SIZE", validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE")},
		{"LOG_RETENTION_WEEKS", validateLogRetentionWeeks(cfg.LogRetentionWeeks)},
		{"MAX_LOG_FILE_SIZE", validateMaxLogFileSize(cfg.MaxLogFileSize)},
		{"DATASET_ENCODING", validateDatasetEncoding(cfg.DatasetEncoding)},
		{"DATASET_RELOAD_INTERVAL", validateReloadInterval(cfg.DatasetReloadInterval)},
		{"STORE_BACKEND", validateStoreBackend(cfg)},
		{"FILTER_CACHE_SIZE", validateFilterCacheSize(cfg.FilterCacheSize)},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("invalid %s: %w", c.name, c.err)
		}
	}
	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if portNum < 1024 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1024 and 65535, got: %d", portNum)
	}
	return nil
}

// validateAddress accepts loopback names and private or loopback IPs.
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}
	if address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, use a loopback or private address", address)
	}
	return nil
}

func validateLogLevel(logLevel string) error {
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", logLevel)
}

func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}
	if size > 100*1024*1024 {
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}
	return nil
}

func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 || weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be between 1 and 52, got: %d", weeks)
	}
	return nil
}

func validateMaxLogFileSize(size int64) error {
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}
	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}
	return nil
}

func validateDatasetEncoding(encoding string) error {
	switch encoding {
	case "utf-8", "utf8", "windows-1252", "cp1252":
		return nil
	}
	return fmt.Errorf("DATASET_ENCODING must be utf-8 or windows-1252, got: %s", encoding)
}

func validateReloadInterval(d time.Duration) error {
	if d < time.Minute {
		return fmt.Errorf("DATASET_RELOAD_INTERVAL must be at least 1m, got: %s", d)
	}
	return nil
}

func validateStoreBackend(cfg *Config) error {
	switch cfg.StoreBackend {
	case StoreMemory:
		return nil
	case StoreFile:
		if cfg.StorePath == "" {
			return fmt.Errorf("STORE_PATH cannot be empty for the file backend")
		}
		return nil
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty for the redis backend")
		}
		if cfg.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative, got: %d", cfg.RedisDB)
		}
		return nil
	}
	return fmt.Errorf("STORE_BACKEND must be one of: memory, file, redis, got: %s", cfg.StoreBackend)
}

func validateFilterCacheSize(size int) error {
	if size < 1 || size > 10000 {
		return fmt.Errorf("FILTER_CACHE_SIZE must be between 1 and 10000, got: %d", size)
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all recognised environment variables
func GetEnvVars() []string {
	return []string{
		"PORT", "ADDRESS", "ENV", "LOG_LEVEL", "LOG_DIR",
		"LOG_RETENTION_WEEKS", "MAX_LOG_FILE_SIZE", "MAX_REQUEST_BODY", "MAX_HEADER_SIZE",
		"DATASET_PATH", "DATASET_ENCODING", "DATASET_RELOAD_INTERVAL",
		"STORE_BACKEND", "STORE_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_KEY_PREFIX",
		"FILTER_CACHE_SIZE", "STATIC_DIR", "ASSET_CACHE_VERSION",
	}
}
