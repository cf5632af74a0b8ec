package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	HTTPListenAddr   string
	ExcelFile        string
	LogoPath         string
	ZhipuAPIKey      string
	GLMModel         string
	GLMTimeout       time.Duration
	MetricsNamespace string
	SessionTTL       time.Duration
	SessionMaxCount  int
	CatalogCacheTTL  time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CompanyName      string
	CompanyPhone     string
}

// Load returns configuration populated from environment variables with fallbacks.
// ZHIPU_API_KEY is deliberately optional: without it the service runs in
// deterministic-extraction mode instead of refusing to start.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getenvDefault("APP_ENV", "development"),
		HTTPListenAddr:   getenvDefault("HTTP_LISTEN_ADDR", ":5001"),
		ExcelFile:        getenvDefault("EXCEL_FILE", "orcamento.xlsx"),
		LogoPath:         getenvDefault("LOGO_PATH", "logoBoa.png"),
		ZhipuAPIKey:      trimmedEnv("ZHIPU_API_KEY"),
		GLMModel:         getenvDefault("GLM_MODEL", "glm-4"),
		MetricsNamespace: getenvDefault("METRICS_NAMESPACE", "architec"),
		RedisAddr:        trimmedEnv("REDIS_ADDR"),
		RedisPassword:    trimmedEnv("REDIS_PASSWORD"),
		CompanyName:      getenvDefault("COMPANY_NAME", "Boa Vista"),
		CompanyPhone:     getenvDefault("COMPANY_PHONE", "(85) 9-9615-0458"),
	}

	var err error
	if cfg.GLMTimeout, err = parseDurationEnv("GLM_TIMEOUT", "20s"); err != nil {
		return nil, err
	}
	// SESSION_TTL=0 keeps sessions for the process lifetime.
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", "0s"); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}

	if maxStr := getenvDefault("SESSION_MAX_COUNT", "0"); maxStr != "" {
		maxVal, convErr := strconv.Atoi(maxStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid SESSION_MAX_COUNT value: %w", convErr)
		}
		if maxVal < 0 {
			maxVal = 0
		}
		cfg.SessionMaxCount = maxVal
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}

	if cfg.ExcelFile == "" {
		return nil, fmt.Errorf("EXCEL_FILE is required")
	}

	return cfg, nil
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getenvDefault(key, fallback)
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return dur, nil
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
