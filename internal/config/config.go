// Package config loads runtime configuration for PinchPoint.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frudas24/pinchpoint/internal/hand"
	"github.com/frudas24/pinchpoint/internal/inject"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr      = "0.0.0.0:8787"
	defaultDataDir         = "./data"
	defaultInjector        = inject.BackendAuto
	defaultInjectorRetries = 3
	defaultScreenWidth     = 1920
	defaultScreenHeight    = 1080
	defaultMonitorIdx      = 1
	defaultTrackerMode     = hand.ModeFront
	defaultViewerPolicy    = "replace"
)

// Config holds runtime configuration values. Fields can be set from
// DATA_DIR/config.yaml, DATA_DIR/.env, and the environment, in that order of
// increasing precedence.
type Config struct {
	ListenAddr      string  `yaml:"listenAddr" envconfig:"LISTEN_ADDR"`
	DataDir         string  `yaml:"-" envconfig:"DATA_DIR"`
	CalibPath       string  `yaml:"calibPath" envconfig:"CALIB_PATH"`
	UIPassword      string  `yaml:"-" envconfig:"UI_PASSWORD"`
	PasswordMode    bool    `yaml:"passwordMode" envconfig:"PASSWORD_MODE"`
	Injector        string  `yaml:"injector" envconfig:"INJECTOR"`
	InjectorRetries uint    `yaml:"injectorRetries" envconfig:"INJECTOR_RETRIES"`
	ScreenWidth     int     `yaml:"screenWidth" envconfig:"SCREEN_WIDTH"`
	ScreenHeight    int     `yaml:"screenHeight" envconfig:"SCREEN_HEIGHT"`
	MonitorIndex    int     `yaml:"monitorIndex" envconfig:"MONITOR_INDEX"`
	TrackerMode     string  `yaml:"trackerMode" envconfig:"TRACKER_MODE"`
	PinchThreshold  float64 `yaml:"pinchThreshold" envconfig:"PINCH_THRESHOLD"`
	PinchBuffer     int     `yaml:"pinchBuffer" envconfig:"PINCH_BUFFER"`
	ViewerPolicy    string  `yaml:"viewerPolicy" envconfig:"VIEWER_POLICY"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:      defaultListenAddr,
		DataDir:         defaultDataDir,
		PasswordMode:    true,
		Injector:        defaultInjector,
		InjectorRetries: defaultInjectorRetries,
		ScreenWidth:     defaultScreenWidth,
		ScreenHeight:    defaultScreenHeight,
		MonitorIndex:    defaultMonitorIdx,
		TrackerMode:     defaultTrackerMode,
		ViewerPolicy:    defaultViewerPolicy,
	}
}

// Load reads configuration from the data directory and the environment.
func Load() (Config, error) {
	cfg := Default()
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)

	if err := loadYAMLFile(filepath.Join(cfg.DataDir, "config.yaml"), &cfg); err != nil {
		return Config{}, err
	}
	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}

	cfg.UIPassword = strings.TrimSpace(cfg.UIPassword)
	if cfg.CalibPath == "" {
		cfg.CalibPath = filepath.Join(cfg.DataDir, "calib.json")
	}
	mode, err := hand.ParseMode(cfg.TrackerMode)
	if err != nil {
		return Config{}, fmt.Errorf("TRACKER_MODE: %w", err)
	}
	cfg.TrackerMode = mode
	cfg.ViewerPolicy = strings.ToLower(strings.TrimSpace(cfg.ViewerPolicy))
	cfg.Injector = strings.ToLower(strings.TrimSpace(cfg.Injector))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Injector {
	case inject.BackendAuto, inject.BackendLog:
	default:
		return fmt.Errorf("INJECTOR must be %q or %q", inject.BackendAuto, inject.BackendLog)
	}
	switch c.ViewerPolicy {
	case "replace", "reject":
	default:
		return fmt.Errorf("VIEWER_POLICY must be \"replace\" or \"reject\"")
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("SCREEN_WIDTH and SCREEN_HEIGHT must be > 0")
	}
	if c.MonitorIndex <= 0 {
		return fmt.Errorf("MONITOR_INDEX must be >= 1")
	}
	if c.PinchThreshold < 0 {
		return fmt.Errorf("PINCH_THRESHOLD must be >= 0")
	}
	if c.PinchBuffer < 0 {
		return fmt.Errorf("PINCH_BUFFER must be >= 0")
	}
	if c.PasswordMode && c.UIPassword == "" {
		return errors.New("UI_PASSWORD is required")
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// loadYAMLFile overlays values from an optional YAML file onto cfg.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without overriding
// variables already present in the environment.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
