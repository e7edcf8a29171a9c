package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PlateArrange/internal/model"
)

// DefaultProfilesPath returns the default file path for custom printer profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.PrinterProfile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.PrinterProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.PrinterProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.PrinterProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}

	for i := range profiles {
		profiles[i].IsBuiltIn = false
		if profiles[i].Name == "" {
			return nil, fmt.Errorf("%w: profile %d has no name", model.ErrInvalidConfig, i+1)
		}
		if err := profiles[i].Config.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", profiles[i].Name, err)
		}
	}
	return profiles, nil
}

// ResolveProfile looks a profile up by name, custom profiles first.
func ResolveProfile(name string, custom []model.PrinterProfile) (model.PrinterProfile, error) {
	for _, p := range custom {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	if p, ok := model.GetProfile(name); ok {
		return p, nil
	}
	return model.PrinterProfile{}, fmt.Errorf("%w: unknown printer profile %q", model.ErrInvalidConfig, name)
}
