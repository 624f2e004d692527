package app

import (
	"errors"

	"github.com/xxxsen/retronav/internal/config"
	"github.com/xxxsen/retronav/internal/system"
)

var (
	defaultConfig     *config.Config
	defaultConfigPath string
	defaultRegistry   *system.Registry
)

// SetDefault installs the loaded configuration and the registry derived
// from it; the cli layer calls this before any runner executes.
func SetDefault(cfg *config.Config, path string, reg *system.Registry) {
	defaultConfig = cfg
	defaultConfigPath = path
	defaultRegistry = reg
}

// Default returns the configured environment.
func Default() (*config.Config, *system.Registry, error) {
	if defaultConfig == nil || defaultRegistry == nil {
		return nil, nil, errors.New("configuration not initialised")
	}
	return defaultConfig, defaultRegistry, nil
}

// ConfigPath returns the path the configuration was loaded from; needed by
// commands that write the document back (favorites).
func ConfigPath() string {
	return defaultConfigPath
}
