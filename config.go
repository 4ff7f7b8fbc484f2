package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type config struct {
	Port            string
	StatsFile       string
	LogLevel        string
	StaleGameAge    time.Duration
	CleanupInterval time.Duration
}

func defaultConfig() config {
	return config{
		Port:            "8080",
		StatsFile:       "./data/stats.json",
		LogLevel:        "info",
		StaleGameAge:    time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

// loadConfig reads configuration from the environment, falling back to defaults for
// anything unset.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := defaultConfig()
	if port := getenv("PORT"); len(port) != 0 {
		cfg.Port = port
	}
	if file := getenv("STATS_FILE"); len(file) != 0 {
		cfg.StatsFile = file
	}
	if lvl := getenv("LOG_LEVEL"); len(lvl) != 0 {
		cfg.LogLevel = lvl
	}

	var err error
	if cfg.StaleGameAge, err = secondsFromEnv(getenv, "STALE_GAME_SECONDS", cfg.StaleGameAge); err != nil {
		return cfg, err
	}
	if cfg.CleanupInterval, err = secondsFromEnv(getenv, "CLEANUP_INTERVAL_SECONDS", cfg.CleanupInterval); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func secondsFromEnv(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if len(raw) == 0 {
		return fallback, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %q", key, raw)
	}
	return time.Duration(seconds) * time.Second, nil
}

func loadConfigFromEnv() (config, error) {
	return loadConfig(os.Getenv)
}
