package config

import (
	"fmt"

	"github.com/dmitrijs2005/supportdesk/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
)

// parseSources overlays the optional config file and then the environment.
func parseSources(cfg *Config, args []string) error {
	if path := flagx.ConfigFileFlag(args); path != "" {
		return ReadFile(path, cfg)
	}
	return ReadEnv(cfg)
}

// ReadFile overlays a YAML or JSON file (chosen by extension) and then the
// environment onto cfg. Keys absent from the file keep their current values.
func ReadFile(path string, cfg *Config) error {
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// ReadEnv overlays environment variables onto cfg.
func ReadEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return nil
}
