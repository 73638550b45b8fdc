package main

import (
	"errors"
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Jobs     int    `koanf:"jobs"`
	MaxDelay int    `koanf:"max_delay"` // ms; 0 = all jobs immediate
	Release  bool   `koanf:"release"`
	DBPath   string `koanf:"db_path"` // empty = don't record results
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Jobs: 200_000,
	}

	path := os.Getenv("CHRONO_STRESS_CONFIG")
	if path == "" {
		path = "stress.toml"
	}

	kConf := koanf.New("/")
	err := kConf.Load(file.Provider(path), toml.Parser())
	if err != nil {
		// The defaults are enough to run without a config file.
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	err = kConf.Unmarshal("", &cfg)
	if err != nil {
		return cfg, err
	}

	if cfg.Jobs <= 0 {
		return cfg, errors.New("jobs must be positive")
	}

	return cfg, nil
}
