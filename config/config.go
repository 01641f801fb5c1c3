package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure for the feed builder.
type AppConfig struct {
	// Buffer is how far (meters) from a trip path to look for stops.
	Buffer float64 `yaml:"buffer" validate:"gte=0"`
	// DefaultSpeed (km/h) applies where neither a speed zone nor a route
	// speed is available.
	DefaultSpeed float64 `yaml:"defaultSpeed" validate:"gt=0"`
	// Separator joins the chunks of composite IDs. It must not occur inside
	// any route, shape, or service window identifier.
	Separator string `yaml:"separator" validate:"len=1"`
	// NDigits is the number of decimal places kept for float values in the
	// output feed.
	NDigits int `yaml:"ndigits" validate:"gte=0"`
}

// Default returns the configuration used when no config file is present.
func Default() AppConfig {
	return AppConfig{
		Buffer:       10,
		DefaultSpeed: 22,
		Separator:    "-",
		NDigits:      6,
	}
}

// Load reads and validates the configuration at the given path. An empty
// path or a missing file yields the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
