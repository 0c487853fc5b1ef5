package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for depmender.
type Config struct {
	// Registry endpoints. Advisory defaults to the package registry.
	Registries struct {
		Npm      string `yaml:"npm"`
		Advisory string `yaml:"advisory"`
	} `yaml:"registries"`

	// Output configuration
	Output struct {
		Format string `yaml:"format"` // text, json, sarif
		File   string `yaml:"file"`   // Output file path (stdout if empty)
	} `yaml:"output"`

	// Fix gating
	Fix struct {
		MaxRisk string `yaml:"maxRisk"` // highest risk level applied automatically
		DryRun  bool   `yaml:"dryRun"`
	} `yaml:"fix"`

	// Ignore specific packages
	IgnorePackages []string `yaml:"ignorePackages"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Output.Format = "text"
	config.Fix.MaxRisk = "medium"
	return config
}

// LoadConfig loads the configuration from the specified file path
// If no path is provided, it looks for .depmender.yaml in the current directory
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path provided, look in current directory
	if configPath == "" {
		configPath = ".depmender.yaml"
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return default config
		return config, nil
	}

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse the YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// FindAndLoadConfig searches for a config file in the project directory and its parents
func FindAndLoadConfig(projectPath string) (*Config, error) {
	config := DefaultConfig()

	// Start from the project directory and work up to the root
	currentDir := projectPath
	for {
		configPath := filepath.Join(currentDir, ".depmender.yaml")
		if _, err := os.Stat(configPath); err == nil {
			// Found a config file, load it
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
			}

			// Parse the YAML
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
			}

			return config, nil
		}

		// Move up to the parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached the root directory, no config file found
			break
		}
		currentDir = parentDir
	}

	// No config file found, return default config
	return config, nil
}

// IsPackageIgnored checks if a package should be ignored based on the configuration
func (c *Config) IsPackageIgnored(packageName string) bool {
	for _, ignoredPackage := range c.IgnorePackages {
		if ignoredPackage == packageName {
			return true
		}
	}
	return false
}

// AdvisoryURL returns the advisory endpoint base, falling back to the
// package registry.
func (c *Config) AdvisoryURL() string {
	if c.Registries.Advisory != "" {
		return c.Registries.Advisory
	}
	return c.Registries.Npm
}
