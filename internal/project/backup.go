package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PlateArrange/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                 `json:"version"`
	CreatedAt string                 `json:"created_at"`
	App       model.AppConfig        `json:"app"`
	Config    model.Config           `json:"config"`
	Profiles  []model.PrinterProfile `json:"profiles"`
}

// ExportAllData exports the preferences, printer config and custom profiles
// to a single JSON file at the specified path.
func ExportAllData(exportPath string, app model.AppConfig, config model.Config, profiles []model.PrinterProfile) error {
	if profiles == nil {
		profiles = []model.PrinterProfile{}
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		App:       app,
		Config:    config,
		Profiles:  profiles,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// Everything in it is validated; applying it is left to RestoreAllData.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{App: model.DefaultAppConfig(), Config: model.DefaultConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup file: missing version field")
	}
	if err := backup.App.Validate(); err != nil {
		return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
	}
	if err := backup.Config.Validate(); err != nil {
		return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
	}
	if backup.Profiles == nil {
		backup.Profiles = []model.PrinterProfile{}
	}
	for i := range backup.Profiles {
		backup.Profiles[i].IsBuiltIn = false
		if backup.Profiles[i].Name == "" {
			return BackupData{}, fmt.Errorf("invalid backup file: profile %d has no name", i+1)
		}
		if err := backup.Profiles[i].Config.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: profile %q: %w", backup.Profiles[i].Name, err)
		}
	}
	return backup, nil
}

// RestoreAllData writes each part of a backup to its file.
func RestoreAllData(backup BackupData, appPath, configPath, profilesPath string) error {
	if err := SaveAppConfig(appPath, backup.App); err != nil {
		return fmt.Errorf("restore preferences: %w", err)
	}
	if err := SaveConfig(configPath, backup.Config); err != nil {
		return fmt.Errorf("restore printer config: %w", err)
	}
	if err := SaveCustomProfiles(profilesPath, backup.Profiles); err != nil {
		return fmt.Errorf("restore profiles: %w", err)
	}
	return nil
}
