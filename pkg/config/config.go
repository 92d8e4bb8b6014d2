package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/datashelf/datashelf/pkg/version"
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type Config struct {
	Address         string   `json:"address"`
	StoreURL        string   `json:"store_url"`
	LogLevel        string   `json:"log_level"`
	APIToken        string   `json:"api_token"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
	Version         string   `json:"-"`
}

func Default() *Config {
	return &Config{
		Address:         ":8484",
		StoreURL:        "sqlite://datashelf.db",
		LogLevel:        "info",
		ShutdownTimeout: Duration{30 * time.Second},
		Version:         version.Version,
	}
}

// Load builds the effective configuration: defaults, then the optional
// JSON config file, then DATASHELF_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Address == "" {
		return nil, errors.New("address must not be empty")
	}
	if cfg.StoreURL == "" {
		return nil, errors.New("store_url must not be empty")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATASHELF_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("DATASHELF_STORE_URL"); v != "" {
		cfg.StoreURL = v
	}
	if v := os.Getenv("DATASHELF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DATASHELF_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
}
