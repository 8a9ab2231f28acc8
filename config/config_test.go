package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every recognised variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range GetEnvVars() {
		t.Setenv(name, "")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "" {
		t.Errorf("Expected empty log level, got %s", cfg.LogLevel)
	}
	if cfg.StoreBackend != StoreFile || cfg.StorePath != "data/userstate.json" {
		t.Errorf("Unexpected store defaults: %s %s", cfg.StoreBackend, cfg.StorePath)
	}
	if cfg.FilterCacheSize != 50 {
		t.Errorf("Expected filter cache size 50, got %d", cfg.FilterCacheSize)
	}
	if cfg.DatasetReloadInterval != time.Hour {
		t.Errorf("Expected reload interval 1h, got %s", cfg.DatasetReloadInterval)
	}
	if cfg.RedisKeyPrefix != "emergency-reference:" {
		t.Errorf("Unexpected redis prefix %q", cfg.RedisKeyPrefix)
	}
}

func TestLoadValidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8002")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DATASET_ENCODING", "windows-1252")
	t.Setenv("DATASET_RELOAD_INTERVAL", "30m")
	t.Setenv("FILTER_CACHE_SIZE", "200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != "8002" || cfg.Env != EnvProduction || cfg.LogLevel != "debug" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.StoreBackend != StoreRedis || cfg.RedisDB != 3 {
		t.Errorf("Unexpected redis config: %s db=%d", cfg.StoreBackend, cfg.RedisDB)
	}
	if cfg.DatasetEncoding != "windows-1252" || cfg.DatasetReloadInterval != 30*time.Minute {
		t.Errorf("Unexpected dataset config: %s %s", cfg.DatasetEncoding, cfg.DatasetReloadInterval)
	}
	if cfg.FilterCacheSize != 200 {
		t.Errorf("Expected cache size 200, got %d", cfg.FilterCacheSize)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"privileged port", "PORT", "80", "PORT"},
		{"non numeric port", "PORT", "abc", "PORT"},
		{"public address", "ADDRESS", "8.8.8.8", "ADDRESS"},
		{"garbage address", "ADDRESS", "not-an-ip", "ADDRESS"},
		{"unknown env", "ENV", "qa", "ENV"},
		{"unknown log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"retention too long", "LOG_RETENTION_WEEKS", "60", "LOG_RETENTION_WEEKS"},
		{"log file too small", "MAX_LOG_FILE_SIZE", "1024", "MAX_LOG_FILE_SIZE"},
		{"body too large", "MAX_REQUEST_BODY", "209715200", "MAX_REQUEST_BODY"},
		{"unknown encoding", "DATASET_ENCODING", "latin-9", "DATASET_ENCODING"},
		{"reload too frequent", "DATASET_RELOAD_INTERVAL", "10s", "DATASET_RELOAD_INTERVAL"},
		{"unknown backend", "STORE_BACKEND", "sqlite", "STORE_BACKEND"},
		{"cache too small", "FILTER_CACHE_SIZE", "0", "FILTER_CACHE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	for _, addr := range []string{"127.0.0.1", "::1", "localhost", "10.0.0.5", "192.168.1.10", "0.0.0.0"} {
		if err := validateAddress(addr); err != nil {
			t.Errorf("validateAddress(%s) = %v, want nil", addr, err)
		}
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"Production", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError != (err != nil) {
				t.Fatalf("ParseEnvironment(%s) error = %v, hasError %v", tt.input, err, tt.hasError)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	if EnvStaging.String() != "staging" || EnvTest.String() != "test" {
		t.Errorf("unexpected String() values")
	}
}
