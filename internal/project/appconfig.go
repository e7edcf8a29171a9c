package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PlateArrange/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.platearrange/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".platearrange")
}

// DefaultConfigPath returns the default path for the printer config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfig persists a Config to the given path as JSON, or YAML for .yaml/.yml paths.
// It creates any missing parent directories automatically.
func SaveConfig(path string, config model.Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConfig reads a Config from the given path.
// If the file does not exist, it returns DefaultConfig with no error.
// Parse and validation failures wrap model.ErrInvalidConfig.
func LoadConfig(path string) (model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return model.Config{}, err
	}
	return ParseConfig(data, isYAML(path))
}

// ParseConfig decodes JSON or YAML config data and validates it.
func ParseConfig(data []byte, asYAML bool) (model.Config, error) {
	var config model.Config
	if asYAML {
		err := yaml.Unmarshal(data, &config)
		if err != nil {
			return model.Config{}, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
		}
	} else {
		err := json.Unmarshal(data, &config)
		if err != nil {
			return model.Config{}, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
		}
	}
	if err := config.Validate(); err != nil {
		return model.Config{}, err
	}
	return config, nil
}

// FileSource re-reads a config file for every new plate, so edits between plates
// are picked up. A missing file yields the default config.
type FileSource struct {
	Path string
}

func (s FileSource) Next() (model.Config, error) {
	return LoadConfig(s.Path)
}

// DefaultAppConfigPath returns the default path for application preferences.
func DefaultAppConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "app.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON, or YAML for
// .yaml/.yml paths.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return model.AppConfig{}, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}
