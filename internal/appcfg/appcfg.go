// Package appcfg holds the YAML configuration shared by the demo
// applications: panel wiring, touch transform, UI tuning and the
// calendar board's sources.
package appcfg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DisplayConfig selects and wires the panel driver.
type DisplayConfig struct {
	// Driver is "st7789" or "ili9341".
	Driver string `yaml:"driver"`
	// Preset names a known board profile: "square240", "rect240x320",
	// "tdisplay", "tdisplay-s3", "esp32-s3-box". Empty uses Width/Height.
	Preset string `yaml:"preset"`
	// Width/Height override the preset's panel size when set.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// SPIPort is the periph spireg name; empty selects the first port.
	SPIPort string `yaml:"spi_port"`
	// SPIHz caps the SPI clock; zero keeps the driver default.
	SPIHz int64 `yaml:"spi_hz"`

	// Pin names resolved through gpioreg (e.g. "GPIO25").
	PinDC        string `yaml:"pin_dc"`
	PinReset     string `yaml:"pin_reset"`
	PinBacklight string `yaml:"pin_backlight"`

	// Rotation is the logical UI rotation in degrees: 0, 90, 180, 270.
	Rotation int `yaml:"rotation"`
}

// TouchConfig wires the CST816 touch controller.
type TouchConfig struct {
	Enabled bool `yaml:"enabled"`
	// I2CBus is the periph i2creg name; empty selects the first bus.
	I2CBus   string `yaml:"i2c_bus"`
	PinReset string `yaml:"pin_reset"`

	// Transform aligning the touch matrix with the panel scan order.
	SwapXY  bool `yaml:"swap_xy"`
	InvertX bool `yaml:"invert_x"`
	InvertY bool `yaml:"invert_y"`
}

// BatteryConfig enables the PiSugar battery gauge on portable boards.
type BatteryConfig struct {
	Enabled bool `yaml:"enabled"`
	// I2CBus is the periph i2creg name; empty selects the first bus.
	I2CBus string `yaml:"i2c_bus"`
}

// UIConfig tunes the widget runtime.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `yaml:"theme"`
	// LongPressMS overrides the long-press threshold; zero keeps the
	// default.
	LongPressMS int `yaml:"long_press_ms"`
}

// SourceConfig is one ICS subscription for the calendar board.
type SourceConfig struct {
	URL string `yaml:"url"`
	// ID is an internal identifier used for caching and logging.
	ID string `yaml:"id"`
	// Name is the label shown on the board.
	Name string `yaml:"name"`
	// Color is a hex RGB string for the source's dot, e.g. "#2196F3".
	Color string `yaml:"color"`
}

// CalendarConfig drives cmd/uical.
type CalendarConfig struct {
	Sources  []SourceConfig `yaml:"sources"`
	Timezone string         `yaml:"timezone"`
	// RefreshCron is a cron-style schedule for background refreshes.
	RefreshCron string `yaml:"refresh"`
	// HorizonDays is how many future days the agenda covers.
	HorizonDays int `yaml:"horizon_days"`
	// CacheDir caches fetched ICS payloads across restarts.
	CacheDir string `yaml:"cache_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Touch    TouchConfig    `yaml:"touch"`
	Battery  BatteryConfig  `yaml:"battery"`
	UI       UIConfig       `yaml:"ui"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// DefaultConfig returns an in-memory default configuration: a bare
// square ST7789 with touch disabled.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Driver: "st7789",
			Preset: "square240",
			PinDC:  "GPIO25",
		},
		Touch: TouchConfig{},
		UI: UIConfig{
			Theme: "dark",
		},
		Calendar: CalendarConfig{
			Timezone:    "UTC",
			RefreshCron: "*/15 * * * *",
			HorizonDays: 7,
			CacheDir:    defaultCacheDir(),
			Sources:     []SourceConfig{},
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "embui")
	}
	return ".embui-cache"
}

// Normalize fills in missing/zero values so partially-filled configs
// from older versions still behave.
func (c *Config) Normalize() {
	switch c.Display.Driver {
	case "st7789", "ili9341":
	default:
		c.Display.Driver = "st7789"
	}
	switch c.Display.Rotation {
	case 0, 90, 180, 270:
	default:
		c.Display.Rotation = 0
	}
	if c.Display.PinDC == "" {
		c.Display.PinDC = "GPIO25"
	}
	switch c.UI.Theme {
	case "dark", "light":
	case "":
		c.UI.Theme = "dark"
	default:
		c.UI.Theme = "dark"
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = "UTC"
	}
	if c.Calendar.RefreshCron == "" {
		c.Calendar.RefreshCron = "*/15 * * * *"
	}
	if c.Calendar.HorizonDays <= 0 {
		c.Calendar.HorizonDays = 7
	}
	if c.Calendar.CacheDir == "" {
		c.Calendar.CacheDir = defaultCacheDir()
	}
	if c.Calendar.Sources == nil {
		c.Calendar.Sources = []SourceConfig{}
	}
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults (0600, parent 0700) and the defaults returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg alongside the error so the caller can still
				// run with defaults.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically: temp file in the target
// directory, fsync, chmod 0600, rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".embui-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save so call sites can write
// cfg.Save(path).
func (c *Config) Save(path string) error {
	return Save(path, c)
}
