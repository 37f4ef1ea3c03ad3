// Package config provides configuration loading for reelpipe services.
package config

import (
	"os"
	"strconv"
)

// Config holds pipeline configuration loaded from environment.
type Config struct {
	// Object store settings
	StoreEndpoint  string
	StoreRegion    string
	StoreAccessKey string
	StoreSecretKey string
	StoreBucket    string
	StoreUseSSL    bool

	// Dataset locations within the bucket
	InputKey         string
	CuratedPrefix    string
	QuarantinePrefix string
	OutcomesPrefix   string

	// Warehouse settings
	WarehouseHost     string
	WarehousePort     int
	WarehouseDatabase string
	WarehouseUser     string
	WarehousePassword string
	WarehouseSSLMode  string
	WarehouseTable    string

	// Ruleset declaration file (optional; empty uses the built-in rules)
	RulesFile string

	// Run ledger (optional; empty disables it)
	RunStoreDSN string

	// Notification webhook (optional; empty disables it)
	WebhookURL string

	// Temporal settings
	TemporalHost      string
	TemporalNamespace string
	TemporalTaskQueue string
}

// Load reads configuration from environment.
func Load() *Config {
	return &Config{
		StoreEndpoint:  getEnv("REELPIPE_STORE_ENDPOINT", ""),
		StoreRegion:    getEnv("REELPIPE_STORE_REGION", "us-east-1"),
		StoreAccessKey: getEnv("REELPIPE_STORE_ACCESS_KEY", ""),
		StoreSecretKey: getEnv("REELPIPE_STORE_SECRET_KEY", ""),
		StoreBucket:    getEnv("REELPIPE_STORE_BUCKET", "reelpipe"),
		StoreUseSSL:    getEnvBool("REELPIPE_STORE_USE_SSL", true),

		InputKey:         getEnv("REELPIPE_INPUT_KEY", "landing/imdb_top_1000.csv"),
		CuratedPrefix:    getEnv("REELPIPE_CURATED_PREFIX", "curated/movies"),
		QuarantinePrefix: getEnv("REELPIPE_QUARANTINE_PREFIX", "quarantine/movies"),
		OutcomesPrefix:   getEnv("REELPIPE_OUTCOMES_PREFIX", "quality/movies"),

		WarehouseHost:     getEnv("REELPIPE_WAREHOUSE_HOST", "localhost"),
		WarehousePort:     getEnvInt("REELPIPE_WAREHOUSE_PORT", 5432),
		WarehouseDatabase: getEnv("REELPIPE_WAREHOUSE_DATABASE", "reelpipe"),
		WarehouseUser:     getEnv("REELPIPE_WAREHOUSE_USER", "reelpipe"),
		WarehousePassword: getEnv("REELPIPE_WAREHOUSE_PASSWORD", ""),
		WarehouseSSLMode:  getEnv("REELPIPE_WAREHOUSE_SSL_MODE", "disable"),
		WarehouseTable:    getEnv("REELPIPE_WAREHOUSE_TABLE", "movies"),

		RulesFile: getEnv("REELPIPE_RULES_FILE", ""),

		RunStoreDSN: getEnv("REELPIPE_RUNSTORE_DSN", ""),
		WebhookURL:  getEnv("REELPIPE_WEBHOOK_URL", ""),

		TemporalHost:      getEnv("REELPIPE_TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: getEnv("REELPIPE_TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue: getEnv("REELPIPE_TEMPORAL_TASK_QUEUE", "reelpipe-workers"),
	}
}

// StoreParams shapes object-store settings as a connector parameter bag.
func (c *Config) StoreParams() map[string]any {
	return map[string]any{
		"endpoint_url":      c.StoreEndpoint,
		"region":            c.StoreRegion,
		"access_key_id":     c.StoreAccessKey,
		"secret_access_key": c.StoreSecretKey,
		"bucket":            c.StoreBucket,
		"use_ssl":           c.StoreUseSSL,
	}
}

// WarehouseParams shapes warehouse settings as a connector parameter bag.
func (c *Config) WarehouseParams() map[string]any {
	return map[string]any{
		"host":      c.WarehouseHost,
		"port":      c.WarehousePort,
		"database":  c.WarehouseDatabase,
		"user":      c.WarehouseUser,
		"password":  c.WarehousePassword,
		"ssl_mode":  c.WarehouseSSLMode,
		"table":     c.WarehouseTable,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
