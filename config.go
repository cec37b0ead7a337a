package tiec

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Method selects the bounded local optimizer used for per-component updates.
type Method string

const (
	MethodNelderMead Method = "nelder-mead"
	MethodLBFGS      Method = "lbfgs"
)

// Config controls mixture fitting and order selection.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// MaxOrder is the largest mixture order the selector will try.
	// Must be >= 1. Default: 20.
	MaxOrder int `yaml:"max_order"`

	// Tol stops the fitter once consecutive Hellinger statistics differ by at
	// most Tol. Must be > 0. Default: 1e-5.
	Tol float64 `yaml:"tol"`

	// MaxIter caps the number of fitter iterations per fit. Must be >= 1.
	// Default: 50.
	MaxIter int `yaml:"max_iter"`

	// GridStep is the spacing of the integration grid. Default: 0.01.
	GridStep float64 `yaml:"grid_step"`

	// GridPad extends the grid beyond the sample range on both sides.
	// Default: 0.5.
	GridPad float64 `yaml:"grid_pad"`

	// PeakDelta is the neighborhood width, in sample units, used to find
	// initial component means. Must be at least 2*GridStep. Default: 0.2.
	PeakDelta float64 `yaml:"peak_delta"`

	// OptimizerIterations caps the iterations of each per-component
	// optimization. Default: 100.
	OptimizerIterations int `yaml:"optimizer_iterations"`

	// Method is the bounded optimizer. "nelder-mead" is derivative free;
	// "lbfgs" uses central finite-difference gradients. Default: "nelder-mead".
	Method Method `yaml:"method"`

	// Workers controls the goroutines used for grid evaluations and
	// per-component optimization. Results do not depend on it.
	// 0 means runtime.NumCPU(). Default: 0 (auto).
	Workers int `yaml:"workers"`
}

// DefaultConfig returns a Config holding the published defaults.
func DefaultConfig() Config {
	return Config{
		MaxOrder:            20,
		Tol:                 1e-5,
		MaxIter:             50,
		GridStep:            0.01,
		GridPad:             0.5,
		PeakDelta:           0.2,
		OptimizerIterations: 100,
		Method:              MethodNelderMead,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Fields absent from the file
// keep their defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("tiec: failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("tiec: failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.MaxOrder == 0 {
		cfg.MaxOrder = def.MaxOrder
	}
	if cfg.Tol == 0 {
		cfg.Tol = def.Tol
	}
	if cfg.MaxIter == 0 {
		cfg.MaxIter = def.MaxIter
	}
	if cfg.GridStep == 0 {
		cfg.GridStep = def.GridStep
	}
	if cfg.GridPad == 0 {
		cfg.GridPad = def.GridPad
	}
	if cfg.PeakDelta == 0 {
		cfg.PeakDelta = def.PeakDelta
	}
	if cfg.OptimizerIterations == 0 {
		cfg.OptimizerIterations = def.OptimizerIterations
	}
	if cfg.Method == "" {
		cfg.Method = def.Method
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a
// *ConfigurationError describing the first problem found.
func validateConfig(cfg *Config) error {
	if cfg.MaxOrder < 1 {
		return configErrorf("MaxOrder", "must be >= 1, got %d", cfg.MaxOrder)
	}
	if !(cfg.Tol > 0) || math.IsInf(cfg.Tol, 1) {
		return configErrorf("Tol", "must be a positive finite number, got %g", cfg.Tol)
	}
	if cfg.MaxIter < 1 {
		return configErrorf("MaxIter", "must be >= 1, got %d", cfg.MaxIter)
	}
	if !(cfg.GridStep > 0) {
		return configErrorf("GridStep", "must be > 0, got %g", cfg.GridStep)
	}
	if cfg.GridPad < 0 {
		return configErrorf("GridPad", "must be >= 0, got %g", cfg.GridPad)
	}
	if !(cfg.PeakDelta > 0) {
		return configErrorf("PeakDelta", "must be > 0, got %g", cfg.PeakDelta)
	}
	if cfg.PeakDelta/cfg.GridStep/2+1e-9 < 1 {
		return configErrorf("PeakDelta", "must span at least two grid steps (%g), got %g", 2*cfg.GridStep, cfg.PeakDelta)
	}
	if cfg.OptimizerIterations < 1 {
		return configErrorf("OptimizerIterations", "must be >= 1, got %d", cfg.OptimizerIterations)
	}
	switch cfg.Method {
	case MethodNelderMead, MethodLBFGS:
		// valid
	default:
		return configErrorf("Method", "must be %q or %q, got %q", MethodNelderMead, MethodLBFGS, cfg.Method)
	}
	if cfg.Workers < 0 {
		return configErrorf("Workers", "must be >= 0, got %d", cfg.Workers)
	}
	return nil
}
