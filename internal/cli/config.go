package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the .autodoc.yml layout. Flags win over file values.
type fileConfig struct {
	Generate struct {
		Source string `yaml:"source"`
		Output string `yaml:"output"`
		Format string `yaml:"format"`
		Title  string `yaml:"title"`
	} `yaml:"generate"`
	Monitor struct {
		Interval  string            `yaml:"interval"`
		Endpoints map[string]string `yaml:"endpoints"`
	} `yaml:"monitor"`
	Serve struct {
		Addr string `yaml:"addr"`
	} `yaml:"serve"`
}

func readConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func parseInterval(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse interval %q: %w", s, err)
	}
	return d, nil
}
