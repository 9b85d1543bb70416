// Package cliconfig loads the command line tool's optional YAML
// configuration file. Flags override file values; file values override the
// defaults, which match the engine's demo scenario.
package cliconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Charset   string `yaml:"charset"`
	MaxLen    int    `yaml:"maxLen"`
	ChainLen  int    `yaml:"chainLen"`
	Algorithm string `yaml:"algorithm"`
	TableFile string `yaml:"tableFile"`
	Workers   int    `yaml:"workers"`
	StorePath string `yaml:"storePath"`
}

// Load reads path (default "config.yaml"). A missing file yields the
// defaults without error; a malformed file is an error.
func Load(path string) (Config, error) {
	config := Config{
		Charset:   "ab",
		MaxLen:    2,
		ChainLen:  3,
		Algorithm: "sha1",
	}

	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if config.Charset == "" {
		config.Charset = "ab"
	}
	if config.ChainLen == 0 {
		config.ChainLen = 3
	}
	if config.Algorithm == "" {
		config.Algorithm = "sha1"
	}

	return config, nil
}
