package svtoolbox_api

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ReadConfig reads the YAML configuration file and fills in the missing values
// An empty path returns the default configuration
func ReadConfig(path string) (*Config, error) {
	config := &Config{}
	if path != "" {
		configFile, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open the config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(configFile, config); err != nil {
			return nil, fmt.Errorf("failed to parse the config file: %w", err)
		}
	}

	config.defineMissing()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Define all missing fields
func (config *Config) defineMissing() {
	if config.Tolerance == 0 {
		config.Tolerance = DefaultTolerance
	}
	if config.MinDeletion == 0 {
		config.MinDeletion = DefaultMinDeletion
	}
	if config.Score == "" {
		config.Score = DefaultScore
	}
	if config.QualityChar == "" {
		config.QualityChar = DefaultQualityChar
	}
	if config.SupportedDescription == "" {
		config.SupportedDescription = "Supported by contig breakpoints"
	}
}

func (config *Config) validate() error {
	if config.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, found %d", config.Tolerance)
	}
	if config.MinDeletion < 0 {
		return fmt.Errorf("min_deletion must not be negative, found %d", config.MinDeletion)
	}
	if len([]rune(config.QualityChar)) != 1 {
		return fmt.Errorf("quality_char must be a single character, found '%s'", config.QualityChar)
	}
	if config.Threads < 0 {
		return fmt.Errorf("threads must not be negative, found %d", config.Threads)
	}
	return nil
}

// ValidationOptions returns the validation settings of the configuration
func (config *Config) ValidationOptions() ValidationOptions {
	return ValidationOptions{
		Tolerance:   config.Tolerance,
		MinDeletion: config.MinDeletion,
	}
}

// The declaration of the INFO field added to supported variants
func (config *Config) supportedDeclaration() HeaderLineIdNumberTypeDescription {
	return HeaderLineIdNumberTypeDescription{
		Id:          SupportedKey,
		Number:      "0",
		Type:        "Flag",
		Description: config.SupportedDescription,
	}
}
