package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything aedkeeper reads from its config file.
type Config struct {
	DataDir      string
	LogFile      string
	LogLevel     string
	LatencyScale float64
	StartOffline bool
	SyncInterval time.Duration
	SeedFile     string
}

const (
	defaultConfigPath   = "~/.config/aedkeeper/config.toml"
	defaultDataDir      = "~/.local/share/aedkeeper"
	defaultLogFileName  = "aedkeeper.log"
	defaultLogLevel     = "info"
	defaultLatencyScale = 1.0
	defaultSyncSeconds  = 5
)

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		DataDir:      dataDir,
		LogFile:      filepath.Join(dataDir, defaultLogFileName),
		LogLevel:     defaultLogLevel,
		LatencyScale: defaultLatencyScale,
		SyncInterval: defaultSyncSeconds * time.Second,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir             string   `toml:"data_dir"`
		LogFile             string   `toml:"log_file"`
		LogLevel            string   `toml:"log_level"`
		LatencyScale        *float64 `toml:"latency_scale"`
		StartOffline        bool     `toml:"start_offline"`
		SyncIntervalSeconds int      `toml:"sync_interval_seconds"`
		SeedFile            string   `toml:"seed_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	cfg.LogFile = filepath.Join(cfg.DataDir, defaultLogFileName)
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}

	if raw.LatencyScale != nil {
		if *raw.LatencyScale < 0 {
			return Config{}, fmt.Errorf("latency_scale must not be negative, got %v", *raw.LatencyScale)
		}
		cfg.LatencyScale = *raw.LatencyScale
	}

	cfg.StartOffline = raw.StartOffline

	switch {
	case raw.SyncIntervalSeconds < 0:
		return Config{}, fmt.Errorf("sync_interval_seconds must not be negative, got %d", raw.SyncIntervalSeconds)
	case raw.SyncIntervalSeconds > 0:
		cfg.SyncInterval = time.Duration(raw.SyncIntervalSeconds) * time.Second
	}

	if seedFile := strings.TrimSpace(raw.SeedFile); seedFile != "" {
		cfg.SeedFile = mustExpand(seedFile)
	}

	return cfg, nil
}

// StoreDir returns the directory holding the local persistence blobs.
func (c Config) StoreDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/store")
	}
	return filepath.Join(c.DataDir, "store")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
