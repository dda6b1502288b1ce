package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (GIRDER_*)
// 2. Config file (.girder/config.yml or .girder/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir + "/.girder")

	v.SetEnvPrefix("GIRDER")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., GIRDER_UNITS_UNITLESS_ASSUME)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("units.unitless_assume")
	v.BindEnv("validation.min_length_meters")
	v.BindEnv("validation.min_area_sq_meters")
	v.BindEnv("storage.location")
	v.BindEnv("graph.infer_connections")
	v.BindEnv("graph.tolerance_meters")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("units.unitless_assume", defaults.Units.UnitlessAssume)
	v.SetDefault("paths.drawings", defaults.Paths.Drawings)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("validation.min_length_meters", defaults.Validation.MinLengthMeters)
	v.SetDefault("validation.min_area_sq_meters", defaults.Validation.MinAreaSqMeters)
	v.SetDefault("storage.location", defaults.Storage.Location)
	v.SetDefault("graph.infer_connections", defaults.Graph.InferConnections)
	v.SetDefault("graph.tolerance_meters", defaults.Graph.ToleranceMeters)
}

// LoadConfig is a convenience function that creates a loader and loads
// config from the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// LoadConfigFromFile loads configuration from an explicit config file path
// instead of the .girder directory search.
func LoadConfigFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("GIRDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
