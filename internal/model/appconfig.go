package model

import "fmt"

// AppConfig holds application-wide preferences used as defaults by the
// command line tool.
type AppConfig struct {
	// Printer profile used when no -profile or -config is given. Empty means
	// the config file.
	DefaultProfile string `json:"default_profile" yaml:"default_profile"`

	// Object height for DXF outlines, which carry no Z extent.
	DXFHeight float64 `json:"dxf_height" yaml:"dxf_height"`

	SortByHeight bool   `json:"sort_by_height" yaml:"sort_by_height"`
	CheckLayout  bool   `json:"check_layout" yaml:"check_layout"`
	LogLevel     string `json:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
	ListenAddr   string `json:"listen_addr" yaml:"listen_addr"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DXFHeight:    10,
		SortByHeight: true,
		LogLevel:     "info",
		ListenAddr:   ":8080",
	}
}

// Validate checks the preference values that have a fixed range.
func (c AppConfig) Validate() error {
	if c.DXFHeight < 0 {
		return fmt.Errorf("dxf_height must not be negative, got %g", c.DXFHeight)
	}
	return nil
}
