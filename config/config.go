// Package config loads the run configuration of the report tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"kastelo.dev/attest"
	"kastelo.dev/attest/excel"
)

// Input locates one input table.
type Input struct {
	Path     string `yaml:"path"`
	Sheet    string `yaml:"sheet"`
	Encoding string `yaml:"encoding"`
	// Table, when set, loads a lookup table from the database instead of
	// Path.
	Table string `yaml:"table"`
}

type Lookup struct {
	Key     string `yaml:"key"`
	ColumnA string `yaml:"column_a"`
	ColumnB string `yaml:"column_b"`
}

type Config struct {
	APS    Input `yaml:"aps"`
	CIO    Input `yaml:"cio"`
	Owners Input `yaml:"owners"`
	Execs  Input `yaml:"execs"`

	OwnerLookup Lookup `yaml:"owner_lookup"`
	ExecLookup  Lookup `yaml:"exec_lookup"`

	// Strict rejects source tables with extra trailing columns.
	Strict bool `yaml:"strict"`

	OutputDir  string `yaml:"output_dir"`
	OutputName string `yaml:"output_name"`
	DateFormat string `yaml:"date_format"`

	DSN      string `yaml:"dsn"`
	LogLevel string `yaml:"log_level"`

	Layout excel.Layout `yaml:"layout"`
}

func Default() Config {
	return Config{
		OwnerLookup: Lookup{
			Key:     attest.OwnerLookup.Key,
			ColumnA: attest.OwnerLookup.ColumnA,
			ColumnB: attest.OwnerLookup.ColumnB,
		},
		ExecLookup: Lookup{
			Key:     attest.ExecLookup.Key,
			ColumnA: attest.ExecLookup.ColumnA,
			ColumnB: attest.ExecLookup.ColumnB,
		},
		OutputDir:  ".",
		OutputName: "Attestation_Report_{date}.xlsx",
		DateFormat: "2006-01-02",
		LogLevel:   "info",
		Layout:     excel.DefaultLayout(),
	}
}

// Load reads the YAML file at path, if any, fills in defaults and applies
// environment overrides. A .env file in the working directory is loaded
// first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}

	var cfg Config
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(bs, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg.resolve(filepath.Dir(path))
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("ATTEST_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("ATTEST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// resolve makes input paths relative to the config file's directory.
func (c *Config) resolve(dir string) {
	for _, in := range []*Input{&c.APS, &c.CIO, &c.Owners, &c.Execs} {
		if in.Path != "" && !filepath.IsAbs(in.Path) {
			in.Path = filepath.Join(dir, in.Path)
		}
	}
	if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(dir, c.OutputDir)
	}
}

// Validate checks that every input is located.
func (c Config) Validate() error {
	var errs []error
	for _, in := range []struct {
		name  string
		in    Input
		table bool
	}{
		{"aps", c.APS, false},
		{"cio", c.CIO, false},
		{"owners", c.Owners, true},
		{"execs", c.Execs, true},
	} {
		switch {
		case in.in.Path != "":
		case in.table && in.in.Table != "":
			if c.DSN == "" {
				errs = append(errs, fmt.Errorf("%s: table %q requires a dsn", in.name, in.in.Table))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: no input path", in.name))
		}
	}
	if !strings.Contains(c.OutputName, ".") {
		errs = append(errs, fmt.Errorf("output name %q has no extension", c.OutputName))
	}
	return errors.Join(errs...)
}

// OutputPath returns the report file path for a run at the given time.
func (c Config) OutputPath(now time.Time) string {
	name := strings.ReplaceAll(c.OutputName, "{date}", now.Format(c.DateFormat))
	return filepath.Join(c.OutputDir, name)
}

// Options returns the pipeline options for the configuration.
func (c Config) Options() attest.Options {
	opts := attest.DefaultOptions()
	opts.Normalize.Strict = c.Strict
	opts.OwnerLookup.Key = c.OwnerLookup.Key
	opts.OwnerLookup.ColumnA = c.OwnerLookup.ColumnA
	opts.OwnerLookup.ColumnB = c.OwnerLookup.ColumnB
	opts.ExecLookup.Key = c.ExecLookup.Key
	opts.ExecLookup.ColumnA = c.ExecLookup.ColumnA
	opts.ExecLookup.ColumnB = c.ExecLookup.ColumnB
	return opts
}
