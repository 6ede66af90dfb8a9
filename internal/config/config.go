// Package config loads the optional gcpctl configuration file with operator
// defaults. Everything in it can also be supplied per-run through flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

// Config holds operator defaults applied to every run.
type Config struct {
	// Project overrides the project parsed from the input when set.
	Project string `yaml:"project" validate:"omitempty,hostname_rfc1123"`
	// OutputDir is where script artifacts are written. Defaults to the
	// working directory.
	OutputDir string `yaml:"output_dir"`
	// DefaultMode preselects the dispatch mode prompt.
	DefaultMode string `yaml:"default_mode" validate:"omitempty,oneof=execute emit-minimal emit-full"`
	// LogLevel sets the base log level.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{OutputDir: ".", LogLevel: "info"}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "gcpctl", "config.yaml")
}

// Load reads the config file at path. A missing file at the default
// location is not an error; a missing file explicitly passed by the
// operator is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, gcperrors.NewParseError(path, "", "invalid config YAML", err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validatorInstance = validator.New()

func validate(cfg Config) error {
	err := validatorInstance.Struct(cfg)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return gcperrors.NewValidationError(fe.Field(),
			fmt.Sprintf("value %q fails constraint %q", fmt.Sprint(fe.Value()), fe.Tag()), err)
	}
	return err
}
