// SPDX-License-Identifier: MIT

// Package config loads the hopshare run configuration: defaults, then an
// optional YAML (or JSON) file, then HOPSHARE_* environment overrides.
// Command-line flags are applied on top by the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hopshare/distance"
	"github.com/katalvlaran/hopshare/hops"
	"github.com/katalvlaran/hopshare/pool"
)

// Config is the whole document.
type Config struct {
	Matrix  MatrixConfig  `json:"matrix" yaml:"matrix"`
	Run     RunConfig     `json:"run" yaml:"run"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// MatrixConfig drives builder.Generate.
type MatrixConfig struct {
	Size      int     `json:"size" yaml:"size"`
	Density   float64 `json:"density" yaml:"density"`
	Seed      int64   `json:"seed" yaml:"seed"` // 0 = time-seeded
	Symmetric bool    `json:"symmetric" yaml:"symmetric"`
	SelfLoops bool    `json:"self_loops" yaml:"self_loops"`
}

// RunConfig drives distance.Strategy.Run.
type RunConfig struct {
	MaxHops  int    `json:"max_hops" yaml:"max_hops"`
	Workers  int    `json:"workers" yaml:"workers"`
	Pool     string `json:"pool" yaml:"pool"`
	Order    string `json:"order" yaml:"order"`
	Policy   string `json:"policy" yaml:"policy"`
	Kernel   string `json:"kernel" yaml:"kernel"`
	Strategy string `json:"strategy" yaml:"strategy"`
	Sample   int    `json:"sample" yaml:"sample"` // 0 = all pairs
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text | json
}

// MetricsConfig controls the Prometheus text dump.
type MetricsConfig struct {
	File string `json:"file" yaml:"file"` // empty = no dump
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Matrix: MatrixConfig{Size: 200, Density: 0.02, Seed: 1},
		Run: RunConfig{
			MaxHops:  8,
			Workers:  runtime.NumCPU(),
			Pool:     string(pool.KindThread),
			Order:    string(pool.SubmissionOrder),
			Policy:   string(distance.CollectAll),
			Kernel:   string(hops.KernelVecMat),
			Strategy: distance.StrategyShared,
			Sample:   1000,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load merges defaults, the file at path (if any) and the environment, and
// validates the result. An empty path skips the file; a named file that
// does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// YAML first; JSON as a fallback
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

// loadEnv applies HOPSHARE_* overrides. Malformed numbers are errors.
func loadEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"HOPSHARE_SIZE", &cfg.Matrix.Size},
		{"HOPSHARE_MAX_HOPS", &cfg.Run.MaxHops},
		{"HOPSHARE_WORKERS", &cfg.Run.Workers},
		{"HOPSHARE_SAMPLE", &cfg.Run.Sample},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", e.key, v, err)
			}
			*e.dst = n
		}
	}
	if v := os.Getenv("HOPSHARE_DENSITY"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("HOPSHARE_DENSITY=%q: %w", v, err)
		}
		cfg.Matrix.Density = d
	}
	if v := os.Getenv("HOPSHARE_SEED"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HOPSHARE_SEED=%q: %w", v, err)
		}
		cfg.Matrix.Seed = s
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"HOPSHARE_POOL", &cfg.Run.Pool},
		{"HOPSHARE_ORDER", &cfg.Run.Order},
		{"HOPSHARE_POLICY", &cfg.Run.Policy},
		{"HOPSHARE_KERNEL", &cfg.Run.Kernel},
		{"HOPSHARE_STRATEGY", &cfg.Run.Strategy},
		{"HOPSHARE_LOG_LEVEL", &cfg.Log.Level},
		{"HOPSHARE_LOG_FORMAT", &cfg.Log.Format},
		{"HOPSHARE_METRICS_FILE", &cfg.Metrics.File},
	}
	for _, e := range strs {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	return nil
}

// Validate checks every field against the values the run accepts.
func (c Config) Validate() error {
	var errs []error
	if c.Matrix.Size < 1 {
		errs = append(errs, fmt.Errorf("matrix.size must be >= 1, got %d", c.Matrix.Size))
	}
	if c.Matrix.Density < 0 || c.Matrix.Density > 1 {
		errs = append(errs, fmt.Errorf("matrix.density must be in [0,1], got %g", c.Matrix.Density))
	}
	if c.Run.MaxHops < 0 {
		errs = append(errs, fmt.Errorf("run.max_hops must be >= 0, got %d", c.Run.MaxHops))
	}
	if c.Run.Workers < 1 {
		errs = append(errs, fmt.Errorf("run.workers must be >= 1, got %d", c.Run.Workers))
	}
	if c.Run.Sample < 0 {
		errs = append(errs, fmt.Errorf("run.sample must be >= 0, got %d", c.Run.Sample))
	}
	if _, err := pool.ParseKind(c.Run.Pool); err != nil {
		errs = append(errs, err)
	}
	if _, err := pool.ParseOrder(c.Run.Order); err != nil {
		errs = append(errs, err)
	}
	if _, err := distance.ParsePolicy(c.Run.Policy); err != nil {
		errs = append(errs, err)
	}
	if _, err := hops.ParseKernel(c.Run.Kernel); err != nil {
		errs = append(errs, err)
	}
	if _, err := distance.ByName(c.Run.Strategy); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text|json, got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
