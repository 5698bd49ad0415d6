package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences loaded from config.yaml.
type Config struct {
	MaxDepth    int      `yaml:"max_depth"`
	Concurrency int      `yaml:"concurrency"`
	Exclude     []string `yaml:"exclude"`
	Inset       float64  `yaml:"inset"`
	MinSize     string   `yaml:"min_size"`
	Locations   []string `yaml:"locations"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:    5,
		Concurrency: runtime.NumCPU() * 2,
		Exclude:     []string{},
		Locations:   []string{},
	}
}

// DefaultPath is config.yaml inside the per-user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "diskmap", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file, or an
// empty path, yields DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.MaxDepth < 0 {
		c.MaxDepth = 5
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU() * 2
	}
	if c.Inset < 0 {
		c.Inset = 0
	}
	if c.Exclude == nil {
		c.Exclude = []string{}
	}
	if c.Locations == nil {
		c.Locations = []string{}
	}
	if _, err := ParseSize(c.MinSize); err != nil {
		return err
	}
	return nil
}

// MinSizeBytes returns MinSize in bytes, 0 when unset.
func (c *Config) MinSizeBytes() int64 {
	n, _ := ParseSize(c.MinSize)
	return n
}

var sizeSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"KIB", 1 << 10}, {"MIB", 1 << 20}, {"GIB", 1 << 30}, {"TIB", 1 << 40},
	{"KB", 1e3}, {"MB", 1e6}, {"GB", 1e9}, {"TB", 1e12},
	{"K", 1e3}, {"M", 1e6}, {"G", 1e9}, {"T", 1e12},
	{"B", 1},
}

// ParseSize parses sizes such as "100MB", "1.5 GB", "512KiB" or "2048".
// Decimal suffixes are powers of 1000, binary ones powers of 1024. The empty
// string is 0.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	upper := strings.ToUpper(s)
	mult := int64(1)
	for _, u := range sizeSuffixes {
		if strings.HasSuffix(upper, u.suffix) {
			mult = u.mult
			upper = strings.TrimSpace(strings.TrimSuffix(upper, u.suffix))
			break
		}
	}
	v, err := strconv.ParseFloat(upper, 64)
	if err != nil || v < 0 || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	bytes := v * float64(mult)
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(bytes), nil
}
