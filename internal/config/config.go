// Package config loads the optional run configuration file. Everything
// in it can also be supplied (and is overridden) by CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/justinsiek/yardstick-engine/internal/contract"
)

const DefaultPath = "configs/yardstick.yaml"

type Config struct {
	Systems   []contract.System `yaml:"systems,omitempty"`
	Execution ExecutionConfig   `yaml:"execution"`
	Storage   StorageConfig     `yaml:"storage"`
}

type ExecutionConfig struct {
	Concurrency int           `yaml:"concurrency,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

const DefaultStorePath = "data/yardstick.db"

// Load reads a config file. A missing file at the default path is not
// an error; explicit paths must exist.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaults(&Config{}), nil
		}
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	for i, sys := range cfg.Systems {
		if strings.TrimSpace(sys.Name) == "" || strings.TrimSpace(sys.Endpoint) == "" {
			return nil, fmt.Errorf("config: systems[%d]: missing name or endpoint", i)
		}
	}

	return defaults(&cfg), nil
}

func defaults(cfg *Config) *Config {
	if cfg.Execution.Concurrency <= 0 {
		cfg.Execution.Concurrency = 1
	}
	if cfg.Execution.Timeout <= 0 {
		cfg.Execution.Timeout = contract.DefaultTimeout
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = DefaultStorePath
	}
	return cfg
}
