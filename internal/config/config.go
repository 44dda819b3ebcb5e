package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FontNoto      = "noto"
	FontHelvetica = "helvetica"

	envPrefix = "YOCTO_"
)

type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`
	JSONLogs bool   `yaml:"json_logs"`

	// Documents
	OutputDir string `yaml:"output_dir"`
	Font      string `yaml:"font"`

	// Window
	WindowWidth  float32 `yaml:"window_width"`
	WindowHeight float32 `yaml:"window_height"`
}

// Default returns the settings used when nothing overrides them
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		LogLevel:     "info",
		OutputDir:    home,
		Font:         FontNoto,
		WindowWidth:  900,
		WindowHeight: 700,
	}
}

// DefaultPath is where the YAML config file lives unless overridden
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "yocto-invoice.yaml"
	}
	return filepath.Join(dir, "yocto-invoice", "config.yaml")
}

// Load layers defaults, the YAML file at path (if present), a .env file in
// the working directory (if present) and YOCTO_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.mergeEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.JSONLogs = getEnvBool("JSON_LOGS", c.JSONLogs)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.Font = getEnv("FONT", c.Font)
	c.WindowWidth = getEnvFloat("WINDOW_WIDTH", c.WindowWidth)
	c.WindowHeight = getEnvFloat("WINDOW_HEIGHT", c.WindowHeight)

	// DEBUG=1 is honoured as a shortcut for debug logging
	if os.Getenv("DEBUG") == "1" {
		c.LogLevel = "debug"
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	switch c.Font {
	case FontNoto, FontHelvetica:
	default:
		problems = append(problems, fmt.Sprintf("invalid font '%s': must be %s or %s", c.Font, FontNoto, FontHelvetica))
	}

	if c.WindowWidth < 400 || c.WindowHeight < 300 {
		problems = append(problems, fmt.Sprintf("window %.0fx%.0f is smaller than 400x300", c.WindowWidth, c.WindowHeight))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(envPrefix + key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float32) float32 {
	if value := os.Getenv(envPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}
