package config

// Config is the complete girder configuration. It can be loaded from
// .girder/config.yml with environment variable overrides.
type Config struct {
	Units          UnitsConfig          `yaml:"units" mapstructure:"units"`
	Classification ClassificationConfig `yaml:"classification" mapstructure:"classification"`
	Paths          PathsConfig          `yaml:"paths" mapstructure:"paths"`
	Validation     ValidationConfig     `yaml:"validation" mapstructure:"validation"`
	Storage        StorageConfig        `yaml:"storage" mapstructure:"storage"`
	Graph          GraphConfig          `yaml:"graph" mapstructure:"graph"`
}

// UnitsConfig controls unit normalization policy.
type UnitsConfig struct {
	// UnitlessAssume names the unit assumed for drawings with no unit
	// declaration. The assumption is policy, not physics, so it is
	// configurable rather than hard-coded.
	UnitlessAssume string `yaml:"unitless_assume" mapstructure:"unitless_assume"`
}

// KeywordRule maps a layer-name keyword onto a component type. Custom rules
// are matched ahead of the built-in conventions.
type KeywordRule struct {
	Keyword string `yaml:"keyword" mapstructure:"keyword"`
	Type    string `yaml:"type" mapstructure:"type"`
}

// ClassificationConfig extends the built-in classification conventions.
type ClassificationConfig struct {
	Keywords       []KeywordRule  `yaml:"keywords" mapstructure:"keywords"`
	ColorMaterials map[int]string `yaml:"color_materials" mapstructure:"color_materials"`
}

// PathsConfig defines which drawing files batch commands discover.
type PathsConfig struct {
	Drawings []string `yaml:"drawings" mapstructure:"drawings"` // glob patterns for drawing files
	Ignore   []string `yaml:"ignore" mapstructure:"ignore"`     // glob patterns to skip
}

// ValidationConfig overrides the reasonableness thresholds.
type ValidationConfig struct {
	MinLengthMeters float64 `yaml:"min_length_meters" mapstructure:"min_length_meters"`
	MinAreaSqMeters float64 `yaml:"min_area_sq_meters" mapstructure:"min_area_sq_meters"`
}

// StorageConfig defines where batch results are persisted.
type StorageConfig struct {
	Location string `yaml:"location" mapstructure:"location"` // Override default .girder/girder.db
}

// GraphConfig controls the optional connection-inference pass.
type GraphConfig struct {
	InferConnections bool    `yaml:"infer_connections" mapstructure:"infer_connections"`
	ToleranceMeters  float64 `yaml:"tolerance_meters" mapstructure:"tolerance_meters"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Units: UnitsConfig{
			UnitlessAssume: "meters",
		},
		Classification: ClassificationConfig{
			Keywords:       []KeywordRule{},
			ColorMaterials: map[int]string{},
		},
		Paths: PathsConfig{
			Drawings: []string{
				"**/*.dxf",
				"**/*.DXF",
			},
			Ignore: []string{
				".girder/**",
				".git/**",
				"backup/**",
			},
		},
		Validation: ValidationConfig{
			MinLengthMeters: 1e-3,
			MinAreaSqMeters: 1e-6,
		},
		Storage: StorageConfig{
			Location: "", // Empty means use default .girder/girder.db
		},
		Graph: GraphConfig{
			InferConnections: false,
			ToleranceMeters:  1e-3,
		},
	}
}
