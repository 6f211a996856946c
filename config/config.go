// Package config provides configuration loading and management for ontomerge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config represents the complete ontomerge configuration
type Config struct {
	Data        DataConfig     `yaml:"data"`
	Ontology    OntologyConfig `yaml:"ontology"`
	MergeConfig MergeConfig    `yaml:"merge"`
	Watch       WatchConfig    `yaml:"watch"`
	Log         LogConfig      `yaml:"log"`
}

// DataConfig configures where dataset files live
type DataConfig struct {
	// Dir is the directory holding sparta_data_v<VERSION>.json files
	Dir string `yaml:"dir" validate:"required"`
}

// OntologyConfig configures the merge target
type OntologyConfig struct {
	// Path is the Turtle ontology file merges rewrite in place
	Path string `yaml:"path" validate:"required"`
}

// MergeConfig configures how records are translated
type MergeConfig struct {
	// URIScheme selects how record URIs are minted: "prefixed" or
	// "bare". Empty means derive it from the dataset version.
	URIScheme string `yaml:"uri_scheme" validate:"omitempty,oneof=prefixed bare"`

	// StrictIDs rejects reserved back-reference identifiers when
	// resolving records. Unset means derive it from the dataset version.
	StrictIDs *bool `yaml:"strict_ids"`

	// Backup writes a .bak copy of the ontology before rewriting it.
	Backup *bool `yaml:"backup"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Addr is the listen address for metrics and health endpoints
	Addr string `yaml:"addr" validate:"required"`

	// Debounce is how long to wait after a file event before re-merging
	Debounce time.Duration `yaml:"debounce" validate:"min=0"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, or error
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	backup := true
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Ontology: OntologyConfig{
			Path: filepath.Join("src", "ontology", "d3fend-protege.sparta.ttl"),
		},
		MergeConfig: MergeConfig{
			URIScheme: "", // Derived from dataset version
			StrictIDs: nil,
			Backup:    &backup,
		},
		Watch: WatchConfig{
			Addr:     ":9090",
			Debounce: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// BackupEnabled reports whether merges should write a backup first.
func (c *Config) BackupEnabled() bool {
	return c.MergeConfig.Backup == nil || *c.MergeConfig.Backup
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}

// LoadFromFile loads configuration from a YAML file on top of defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// parseOverlay parses a YAML file into a zero config so only the keys the
// file actually sets survive a Merge.
func parseOverlay(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for set values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Data.Dir != "" {
		c.Data.Dir = other.Data.Dir
	}

	if other.Ontology.Path != "" {
		c.Ontology.Path = other.Ontology.Path
	}

	if other.MergeConfig.URIScheme != "" {
		c.MergeConfig.URIScheme = other.MergeConfig.URIScheme
	}
	if other.MergeConfig.StrictIDs != nil {
		c.MergeConfig.StrictIDs = other.MergeConfig.StrictIDs
	}
	if other.MergeConfig.Backup != nil {
		c.MergeConfig.Backup = other.MergeConfig.Backup
	}

	if other.Watch.Addr != "" {
		c.Watch.Addr = other.Watch.Addr
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
