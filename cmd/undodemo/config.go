package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is undodemo's on-disk configuration.
type Config struct {
	Instance       string `yaml:"instance"`
	HistoryLimit   int    `yaml:"historyLimit"`
	Timestamps     bool   `yaml:"timestamps"`
	MetricsEnabled bool   `yaml:"metricsEnabled"`
}

func defaultConfig() Config {
	return Config{Instance: "undodemo", HistoryLimit: 100, Timestamps: true, MetricsEnabled: false}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}
