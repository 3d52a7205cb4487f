// =============================================================================
// Order Set Decoder - Configuration
// =============================================================================
//
// This module loads application settings and per-client profiles from YAML.
// A missing config file is not an error: defaults apply, so the tool works
// out of the box with a conventional directory layout.
//
// Client profiles describe how a client's order exports map onto the
// standard column shape; one YAML file per client in the profiles directory.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds application settings.
type Config struct {
	// InputDir is scanned for order export CSVs.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives decoded CSVs.
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir receives processed input files.
	ArchiveDir string `yaml:"archive_dir"`

	// ProfilesDir holds per-client profile YAMLs.
	ProfilesDir string `yaml:"profiles_dir"`

	// MasterFile is the default reference workbook path.
	MasterFile string `yaml:"master_file"`

	// OutputPattern names output files; see utils.GenerateOutputFileName
	// for supported placeholders.
	OutputPattern string `yaml:"output_pattern"`

	// HistoryFile records recently processed files.
	HistoryFile string `yaml:"history_file"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// CSVDelimiter is the field separator for order exports.
	CSVDelimiter string `yaml:"csv_delimiter"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		InputDir:      "input",
		OutputDir:     "output",
		ArchiveDir:    "archive",
		ProfilesDir:   "profiles",
		MasterFile:    "master.xlsx",
		OutputPattern: "decoded_{date}_{uuid}.csv",
		HistoryFile:   ".decoder_history.yaml",
		LogLevel:      "info",
		CSVDelimiter:  ",",
	}
}

// Load reads a config file, layering it over defaults. A missing file at the
// default location returns defaults; any other read or parse failure is an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Delimiter returns the configured CSV delimiter as a rune, comma when
// unset.
func (c *Config) Delimiter() rune {
	d := strings.TrimSpace(c.CSVDelimiter)
	if d == "" {
		return ','
	}
	return []rune(d)[0]
}

// EnsureDirectories creates the working directories if absent.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.InputDir, c.OutputDir, c.ArchiveDir, c.ProfilesDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// CLIENT PROFILES
// =============================================================================

// Profile describes one client's export format.
type Profile struct {
	// ClientName identifies the client.
	ClientName string `yaml:"client_name"`

	// Platform is the export's source platform (shopify, woocommerce, ...).
	// Informational; processing is driven by ColumnMapping.
	Platform string `yaml:"platform"`

	// ColumnMapping maps the client's column headers to standard headers.
	// Empty means the export already uses standard names.
	ColumnMapping map[string]string `yaml:"column_mapping"`
}

// LoadProfile reads one profile YAML.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if p.ClientName == "" {
		p.ClientName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &p, nil
}

// LoadProfiles reads every *.yaml / *.yml profile in a directory, keyed by
// client name. A missing directory yields an empty map.
func LoadProfiles(dir string) (map[string]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]*Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory %s: %w", dir, err)
	}

	profiles := make(map[string]*Profile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p, err := LoadProfile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		profiles[p.ClientName] = p
	}
	return profiles, nil
}
