package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds server configuration
type Config struct {
	Addr           string  `yaml:"addr"`
	DatabaseURL    string  `yaml:"database_url"`
	TemplatesDir   string  `yaml:"templates_dir"`
	StaticDir      string  `yaml:"static_dir"`
	DevMode        bool    `yaml:"dev_mode"`
	EnableReload   bool    `yaml:"enable_reload"`
	SessionSecret  string  `yaml:"session_secret"`
	DBMaxOpenConns int     `yaml:"db_max_open_conns"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	LogRequests    bool    `yaml:"log_requests"`
}

func defaultConfig() Config {
	return Config{
		Addr:           ":3000",
		TemplatesDir:   "templates",
		StaticDir:      "static",
		DBMaxOpenConns: 10,
		LogRequests:    true,
	}
}

// loadConfig builds a Config from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func loadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.TemplatesDir = getEnv("TEMPLATES_DIR", cfg.TemplatesDir)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.DevMode = parseBool(getEnv("DEV_MODE", ""), cfg.DevMode)
	// /reload follows dev mode unless set explicitly
	cfg.EnableReload = parseBool(getEnv("ENABLE_RELOAD", ""), cfg.EnableReload || cfg.DevMode)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	if v := getEnv("DB_MAX_OPEN_CONNS", ""); v != "" {
		cfg.DBMaxOpenConns = int(parseInt64(v))
	}
	if v := getEnv("RATE_LIMIT_RPS", ""); v != "" {
		cfg.RateLimitRPS = parseFloat64(v)
	}
	if v := getEnv("RATE_LIMIT_BURST", ""); v != "" {
		cfg.RateLimitBurst = int(parseInt64(v))
	}
	cfg.LogRequests = parseBool(getEnv("LOG_REQUESTS", ""), cfg.LogRequests)
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be a positive integer, got %d", c.DBMaxOpenConns)
	}
	info, err := os.Stat(c.TemplatesDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s directory does not exist", c.TemplatesDir)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

func parseInt64(s string) int64 {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return 0
}

func parseFloat64(s string) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}
