// Package config loads the CLI's optional runtime knobs from a small YAML
// document (C12), independent of the database file itself.
package config

import (
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Config holds the runtime knobs the CLI exposes. The database file carries
// no configuration of its own; these only affect how the reader is driven.
type Config struct {
	// PreferIndex lets a caller force a full scan (e.g. for benchmarking)
	// by setting this false even when an applicable index exists.
	PreferIndex bool   `yaml:"prefer_index"`
	LogLevel    string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{PreferIndex: true, LogLevel: "info"}
}

// Load picks the config file path in the order used elsewhere in this
// domain: an explicit path argument, then the SQLITEREADER_CONFIG
// environment variable, then a per-user default path. Only the first
// non-empty candidate is tried: if that file does not exist, the built-in
// defaults are returned without trying later candidates, and any other
// open or decode error is returned.
func Load(pathOverride string) (Config, error) {
	cfg := defaultConfig()

	path := pathOverride
	if path == "" {
		path = os.Getenv("SQLITEREADER_CONFIG")
	}
	if path == "" {
		path = defaultPath()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sqlitereader", "config.yaml")
}
