// Package config provides unified configuration loading for cohortsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/cohortsim/internal/constants"
	"github.com/nvandessel/cohortsim/internal/logging"
	"github.com/nvandessel/cohortsim/internal/simulation"
)

// CohortConfig contains all cohortsim configuration settings.
type CohortConfig struct {
	// Simulation holds the model parameters for a run.
	Simulation simulation.Params `json:"simulation" yaml:"simulation"`

	// Runner controls how trials are executed.
	Runner RunnerConfig `json:"runner" yaml:"runner"`

	// Logging contains settings for operational logging and session traces.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// History controls the run history database.
	History HistoryConfig `json:"history" yaml:"history"`
}

// RunnerConfig configures trial execution.
type RunnerConfig struct {
	// Workers bounds concurrent trials. 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// LoggingConfig configures cohortsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables session tracing to .cohortsim/sessions.jsonl.
	// "trace" additionally records trial boundaries and gain totals.
	Level string `json:"level" yaml:"level"`
}

// HistoryConfig configures where and whether runs are saved.
type HistoryConfig struct {
	// Enabled saves every run without needing --save.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Scope is "local" (<root>/.cohortsim) or "global" (~/.cohortsim).
	Scope constants.Scope `json:"scope" yaml:"scope"`
}

// Default returns a CohortConfig with the classroom defaults.
func Default() *CohortConfig {
	return &CohortConfig{
		Simulation: simulation.DefaultParams(),
		Runner: RunnerConfig{
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: false,
			Scope:   constants.ScopeLocal,
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.cohortsim/config.yaml -> environment variables
func Load() (*CohortConfig, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, constants.DataDirName, "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadPath is Load with an explicit config file in place of
// ~/.cohortsim/config.yaml. An empty path behaves like Load.
func LoadPath(path string) (*CohortConfig, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Fields absent from the file keep their defaults.
func LoadFromFile(path string) (*CohortConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
// Simulation errors wrap simulation.ErrInvalidConfiguration.
func (c *CohortConfig) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	if c.Runner.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Runner.Workers)
	}

	if !c.History.Scope.Valid() {
		return fmt.Errorf("invalid history scope: %s (valid: local, global)", c.History.Scope)
	}

	return c.Simulation.Validate()
}

// Marshal renders the configuration as YAML.
func (c *CohortConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Malformed numbers are reported rather than silently ignored.
func applyEnvOverrides(config *CohortConfig) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"COHORTSIM_TRIALS", &config.Simulation.NumTrials},
		{"COHORTSIM_STUDENTS", &config.Simulation.NumStudents},
		{"COHORTSIM_SESSIONS", &config.Simulation.NumSessions},
		{"COHORTSIM_WORKERS", &config.Runner.Workers},
	}
	for _, o := range ints {
		if v := os.Getenv(o.env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", o.env, err)
			}
			*o.dst = n
		}
	}

	if v := os.Getenv("COHORTSIM_DECAY_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("COHORTSIM_DECAY_RATE: %w", err)
		}
		config.Simulation.DecayRate = f
	}

	if v := os.Getenv("COHORTSIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("COHORTSIM_SEED: %w", err)
		}
		config.Simulation.Seed = seed
	}

	if v := os.Getenv("COHORTSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	// COHORTSIM_HISTORY takes a boolean, or a scope name which also enables history.
	if v := os.Getenv("COHORTSIM_HISTORY"); v != "" {
		switch v {
		case "true", "1":
			config.History.Enabled = true
		case "false", "0":
			config.History.Enabled = false
		default:
			config.History.Enabled = true
			config.History.Scope = constants.Scope(v)
		}
	}

	return nil
}
