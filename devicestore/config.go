package devicestore

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Config controls store sizing. Zero values fall back to the package
// defaults, so an empty file yields the same store as Shared.
type Config struct {
	ExpectedDevices   uint64  `json:"expected_devices"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
}

// LoadConfig reads a JSON config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return cfg, nil
}

// NewFromConfig creates a store from a config, applying defaults to zero
// fields.
func NewFromConfig(cfg Config) (*Store, error) {
	if cfg.ExpectedDevices == 0 {
		cfg.ExpectedDevices = DefaultExpectedDevices
	}
	if cfg.FalsePositiveRate == 0 {
		cfg.FalsePositiveRate = DefaultFalsePositiveRate
	}
	return New(cfg.ExpectedDevices, cfg.FalsePositiveRate)
}
