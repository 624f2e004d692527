package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config describes the application level configuration loaded from json.
// The catalog itself is never persisted; this document and the filesystem
// are the only durable state.
type Config struct {
	Emulator     string                 `json:"emulator"`
	EmulatorCore string                 `json:"emulator_core"`
	Systems      map[string]SystemPaths `json:"systems"`
	Joystick     JoystickConfig         `json:"joystick_config"`
	WrapAround   bool                   `json:"wrap_around"`
	HideClones   bool                   `json:"hide_clones"`
	Favorites    []Favorite             `json:"favorites"`
}

// SystemPaths holds the per-system directory and descriptor locations. All
// fields are optional; a missing rom_dir degrades that system to an empty
// list.
type SystemPaths struct {
	RomDir          string `json:"rom_dir"`
	DatFile         string `json:"dat_file"`
	TitlesFile      string `json:"titles_file"`
	TitleImageDir   string `json:"title_image_dir"`
	PreviewImageDir string `json:"preview_image_dir"`
}

// JoystickConfig maps raw buttons to actions and carries the navigation
// timing parameters. Durations are milliseconds.
type JoystickConfig struct {
	ScrollCooldownMS int64 `json:"hat_scroll_cooldown_ms"`
	RapidHoldMS      int64 `json:"rapid_hold_ms"`
	RapidDelayMS     int64 `json:"hat_fastest_delay_ms"`
	RapidSteps       int   `json:"hat_fastest_steps"`
	DebounceMS       int64 `json:"button_debounce_delay_ms"`
	PollIntervalMS   int64 `json:"poll_interval_ms"`
	ButtonUp         int   `json:"button_up"`
	ButtonDown       int   `json:"button_down"`
	ButtonSelect     int   `json:"button_select"`
	ButtonFavorites  int   `json:"button_favorites"`
	ButtonPrevSystem int   `json:"button_prev_tab"`
	ButtonNextSystem int   `json:"button_next_tab"`
}

// Favorite is a bookmarked rom. Favorites live in the config document, not
// in the catalog, so they survive restarts without any extra store.
type Favorite struct {
	System       string `json:"system"`
	Filename     string `json:"filename"`
	Title        string `json:"title"`
	Year         string `json:"year,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// LoadFirst tries to load configuration from the given paths, returning the
// first successfully decoded configuration. If none of the paths contain a
// readable config, an error is returned.
func LoadFirst(paths ...string) (*Config, string, error) {
	var lastErr error
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("config not found in paths: %v", paths)
	}
	return nil, "", lastErr
}

// Load reads configuration from a single json file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration back to path. Only the favorites list is
// expected to change at runtime.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir %s: %w", path, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Normalize fills in defaults for omitted timing parameters.
func (c *Config) Normalize() {
	if c.Systems == nil {
		c.Systems = map[string]SystemPaths{}
	}
	jc := &c.Joystick
	if jc.ScrollCooldownMS <= 0 {
		jc.ScrollCooldownMS = 80
	}
	if jc.RapidHoldMS <= 0 {
		jc.RapidHoldMS = 400
	}
	if jc.RapidDelayMS <= 0 {
		jc.RapidDelayMS = 20
	}
	if jc.RapidSteps <= 0 {
		jc.RapidSteps = 10
	}
	if jc.DebounceMS <= 0 {
		jc.DebounceMS = 200
	}
	if jc.PollIntervalMS <= 0 {
		jc.PollIntervalMS = 20
	}
}

// Validate performs basic validation of the configuration. Missing paths
// are not errors here: they surface later as empty lists or launch
// precondition failures.
func (c *Config) Validate() error {
	for i, fav := range c.Favorites {
		if fav.System == "" || fav.Filename == "" {
			return fmt.Errorf("config.favorites[%d] must carry system and filename", i)
		}
	}
	return nil
}

// SystemPathsFor returns the configured paths for a system key, zero-valued
// when the system has not been configured yet.
func (c *Config) SystemPathsFor(key string) SystemPaths {
	return c.Systems[key]
}
