package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk configuration for docjsonctl: cache
// tuning and the PKCS#12 identity used by the snapshot subcommand.
type Config struct {
	Cache struct {
		MaxEntries int `yaml:"maxEntries"`
		MaxBytes   int `yaml:"maxBytes"`
		MinSize    int `yaml:"minSize"`
	} `yaml:"cache"`
	Snapshot struct {
		IdentityFile string `yaml:"identityFile"`
		Password     string `yaml:"password"`
	} `yaml:"snapshot"`
}

// defaultConfig returns the configuration used when no config file is
// present or specified.
func defaultConfig() *Config {
	c := &Config{}
	c.Cache.MaxEntries = 256
	c.Cache.MaxBytes = 4 << 20
	c.Cache.MinSize = 64
	return c
}

// loadConfig reads and parses a YAML config file at path. A missing path
// (empty string) or missing file yields defaultConfig rather than an
// error, since the config is entirely optional.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
