package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT  string
	BASE_PATH string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// employee feed config
	FEED_URL                  string
	FEED_FILE                 string
	FEED_TIMEOUT              time.Duration
	FEED_REFRESH_ON_START     bool
	FEED_BREAKER_MAX_FAILURES int
	FEED_BREAKER_TIMEOUT      time.Duration
	// chart config
	CHART_CONFIG_PATH string
}

// LoadEnvConfig reads .env when present and fills DefaultEnvConfig from the
// environment.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:                  getEnvString("APP_PORT", "8080"),
		BASE_PATH:                 getEnvString("BASE_PATH", ""),
		LOG_FILE_PATH:             getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:                 getEnvString("LOG_LEVEL", "info"),
		FEED_URL:                  getEnvString("FEED_URL", ""),
		FEED_FILE:                 getEnvString("FEED_FILE", ""),
		FEED_TIMEOUT:              getEnvDuration("FEED_TIMEOUT", 15*time.Second),
		FEED_REFRESH_ON_START:     getEnvBool("FEED_REFRESH_ON_START", true),
		FEED_BREAKER_MAX_FAILURES: getEnvInt("FEED_BREAKER_MAX_FAILURES", 3),
		FEED_BREAKER_TIMEOUT:      getEnvDuration("FEED_BREAKER_TIMEOUT", 30*time.Second),
		CHART_CONFIG_PATH:         getEnvString("CHART_CONFIG_PATH", ""),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
