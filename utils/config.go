package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the game
type Config struct {
	Width            int           `json:"width" yaml:"width"`
	Height           int           `json:"height" yaml:"height"`
	FrameRate        time.Duration `json:"frame_rate" yaml:"frame_rate"`
	ReportInterval   time.Duration `json:"report_interval" yaml:"report_interval"`
	AutoRestart      bool          `json:"auto_restart" yaml:"auto_restart"`
	StagnationWindow int           `json:"stagnation_window" yaml:"stagnation_window"`
	UseMemoryPool    bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	MaxGenerations   int           `json:"max_generations" yaml:"max_generations"`
	RandomDensity    float64       `json:"random_density" yaml:"random_density"`
	InjectionCount   int           `json:"injection_count" yaml:"injection_count"`
	InitialPattern   string        `json:"initial_pattern" yaml:"initial_pattern"`
	LogLevel         string        `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:            60,
		Height:           30,
		FrameRate:        150 * time.Millisecond,
		ReportInterval:   2 * time.Second,
		AutoRestart:      false,
		StagnationWindow: 5,
		UseMemoryPool:    true,
		MaxGenerations:   1000,
		RandomDensity:    0.15,
		InjectionCount:   3,
		InitialPattern:   "showcase",
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Load resolves the effective configuration: defaults, then an optional
// config file (discovered in the working directory when path is empty),
// then GOL_* environment overrides. The result is validated before it is
// returned.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	if path == "" {
		path = discoverConfigFile()
	}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return config, errors.Wrapf(err, "[Load] failed to load config: %+v", path)
		}
		config = loaded
	}

	applyEnvOverrides(&config)

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func discoverConfigFile() string {
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GOL_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Width = n
		}
	}
	if v := os.Getenv("GOL_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Height = n
		}
	}
	if v := os.Getenv("GOL_FRAME_RATE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.FrameRate = d
		}
	}
	if v := os.Getenv("GOL_REPORT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ReportInterval = d
		}
	}
	if v := os.Getenv("GOL_AUTO_RESTART"); v != "" {
		config.AutoRestart = v == "true" || v == "1"
	}
	if v := os.Getenv("GOL_STAGNATION_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.StagnationWindow = n
		}
	}
	if v := os.Getenv("GOL_USE_MEMORY_POOL"); v != "" {
		config.UseMemoryPool = v == "true" || v == "1"
	}
	if v := os.Getenv("GOL_MAX_GENERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxGenerations = n
		}
	}
	if v := os.Getenv("GOL_RANDOM_DENSITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.RandomDensity = f
		}
	}
	if v := os.Getenv("GOL_INJECTION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.InjectionCount = n
		}
	}
	if v := os.Getenv("GOL_INITIAL_PATTERN"); v != "" {
		config.InitialPattern = v
	}
	if v := os.Getenv("GOL_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}

// Validate reports the first configuration value that would break the game
func (c Config) Validate() error {
	if c.Width < 1 {
		return errors.Errorf("[Validate] width must be at least 1, got %d", c.Width)
	}
	if c.Height < 1 {
		return errors.Errorf("[Validate] height must be at least 1, got %d", c.Height)
	}
	if c.FrameRate <= 0 {
		return errors.Errorf("[Validate] frame_rate must be positive, got %v", c.FrameRate)
	}
	if c.ReportInterval <= 0 {
		return errors.Errorf("[Validate] report_interval must be positive, got %v", c.ReportInterval)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Errorf("[Validate] random_density must be between 0 and 1, got %v", c.RandomDensity)
	}
	if c.StagnationWindow < 0 {
		return errors.Errorf("[Validate] stagnation_window must be non-negative, got %d", c.StagnationWindow)
	}
	if c.InjectionCount < 0 {
		return errors.Errorf("[Validate] injection_count must be non-negative, got %d", c.InjectionCount)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("[Validate] max_generations must be non-negative, got %d", c.MaxGenerations)
	}
	switch c.LogLevel {
	case "", "info", "debug":
	default:
		return errors.Errorf("[Validate] log_level must be info or debug, got %q", c.LogLevel)
	}
	return nil
}
