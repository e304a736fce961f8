package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. ARMEASURE_LOGLEVEL
const EnvPrefix = "ARMEASURE"

// PlanesConfig controls the optional surface reticle
type PlanesConfig struct {
	Visualize bool    `mapstructure:"visualize"`
	Width     float64 `mapstructure:"width"`
	Height    float64 `mapstructure:"height"`
}

// StyleConfig holds the visual style of measurement primitives
type StyleConfig struct {
	MarkerRadius float64 `mapstructure:"markerRadius"`
	LineWidth    float64 `mapstructure:"lineWidth"`
	LabelScale   float64 `mapstructure:"labelScale"`
}

// WindowConfig holds settings for the desktop preview
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	FPS    int `mapstructure:"fps"`
}

// Config is the typed application configuration
type Config struct {
	LogLevel      string        `mapstructure:"logLevel"`
	LogPretty     bool          `mapstructure:"logPretty"`
	Planes        PlanesConfig  `mapstructure:"planes"`
	Style         StyleConfig   `mapstructure:"style"`
	Window        WindowConfig  `mapstructure:"window"`
	WatchDebounce time.Duration `mapstructure:"watchDebounce"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", true)

	v.SetDefault("planes.visualize", false)
	v.SetDefault("planes.width", 0.2)
	v.SetDefault("planes.height", 0.2)

	v.SetDefault("style.markerRadius", 0.01)
	v.SetDefault("style.lineWidth", 0.005)
	v.SetDefault("style.labelScale", 0.001)

	v.SetDefault("window.width", 1400)
	v.SetDefault("window.height", 900)
	v.SetDefault("window.fps", 60)

	v.SetDefault("watchDebounce", "250ms")
}

// Default returns the built-in defaults. The environment is not consulted.
func Default() Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults alone always decode
		panic(err)
	}
	return cfg
}

// Load reads configuration from file (YAML, JSON or TOML by extension) and
// the environment on top of the defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that would make primitives invisible or the loop stall
func (c Config) Validate() error {
	var errs []error
	if c.Planes.Width <= 0 || c.Planes.Height <= 0 {
		errs = append(errs, fmt.Errorf("planes size must be positive, got %vx%v", c.Planes.Width, c.Planes.Height))
	}
	if c.Style.MarkerRadius <= 0 {
		errs = append(errs, fmt.Errorf("style.markerRadius must be positive, got %v", c.Style.MarkerRadius))
	}
	if c.Style.LineWidth <= 0 {
		errs = append(errs, fmt.Errorf("style.lineWidth must be positive, got %v", c.Style.LineWidth))
	}
	if c.Style.LabelScale <= 0 {
		errs = append(errs, fmt.Errorf("style.labelScale must be positive, got %v", c.Style.LabelScale))
	}
	if c.Window.FPS <= 0 {
		errs = append(errs, fmt.Errorf("window.fps must be positive, got %d", c.Window.FPS))
	}
	return errors.Join(errs...)
}
