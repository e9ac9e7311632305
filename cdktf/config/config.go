// Package config provides the minimal configuration a synth run needs.
package config

import (
	"encoding/json"
	"os"

	"github.com/cdktf-core/synth/cdktf/logging"
)

// Config is the top-level application configuration for a driver binary
// built on top of this engine.
type Config struct {
	// AppName is the local id of the application root construct.
	AppName string `json:"app_name"`

	// OutDir is the synthesis output directory root.
	OutDir string `json:"outdir"`

	// Logging configures the structured logger.
	Logging logging.Config `json:"logging"`
}

// DefaultConfig returns the defaults a fresh driver starts from.
func DefaultConfig() Config {
	return Config{
		AppName: "cdktf-app",
		OutDir:  "cdktf.out",
		Logging: logging.DefaultConfig(),
	}
}

var current = DefaultConfig()

// Get returns the process-wide current configuration.
func Get() Config { return current }

// Set replaces the process-wide current configuration.
func Set(cfg Config) { current = cfg }

// Load reads a JSON configuration file, defaulting unset fields.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
