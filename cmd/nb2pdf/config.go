package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/fileutil"
	"github.com/alnah/go-nb2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds file-based defaults for conversion. CLI flags win over
// config values.
type Config struct {
	TitlePage TitlePageConfig `yaml:"titlePage"`
	TOC       TOCConfig       `yaml:"toc"`
	Render    RenderConfig    `yaml:"render"`
}

// TitlePageConfig defines title page defaults.
type TitlePageConfig struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Color    string `yaml:"color"` // hex, e.g. "#41395f"
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Disabled bool `yaml:"disabled"` // true = plain conversion, no title page or TOC
}

// RenderConfig defines typesetting wait delays as duration strings
// (e.g. "15s"). Empty fields keep the library defaults.
type RenderConfig struct {
	ReadyTimeout  string `yaml:"readyTimeout"`
	InitialGrace  string `yaml:"initialGrace"`
	SettleDelay   string `yaml:"settleDelay"`
	FallbackDelay string `yaml:"fallbackDelay"`
}

// Timing converts the configured delay strings into a RenderTiming.
func (r RenderConfig) Timing() (nb2pdf.RenderTiming, error) {
	t := nb2pdf.RenderTiming{}
	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"readyTimeout", r.ReadyTimeout, &t.ReadyTimeout},
		{"initialGrace", r.InitialGrace, &t.InitialGrace},
		{"settleDelay", r.SettleDelay, &t.SettleDelay},
		{"fallbackDelay", r.FallbackDelay, &t.FallbackDelay},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return t, fmt.Errorf("%w: render.%s: %v", ErrConfigParse, f.name, err)
		}
		*f.dst = d
	}
	return t, nil
}

// DefaultConfig returns a neutral configuration relying on library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if strings.ContainsAny(nameOrPath, "/\\") {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-nb2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-nb2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
