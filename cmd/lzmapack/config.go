package main

import (
	"io/ioutil"
	"math"

	"github.com/dustin/go-humanize"
	e "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ei-projects/lzmapack/pkg/lzmapack"
)

// fileConfig is the layout of the optional YAML config file.
type fileConfig struct {
	Level    *int   `yaml:"level"`
	DictSize string `yaml:"dict_size"`
	LogLevel string `yaml:"log_level"`
}

type config struct {
	options  lzmapack.Options
	logLevel logrus.Level

	levelSet bool
	dictSet  bool
}

func defaultConfig() *config {
	return &config{
		options:  lzmapack.DefaultOptions(),
		logLevel: logrus.InfoLevel,
	}
}

func parseDictSize(s string) (int, error) {
	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, e.Wrapf(err, "dict-size %q", s)
	}
	if size > math.MaxInt32 {
		return 0, e.Errorf("dict-size %q is too large", s)
	}
	return int(size), nil
}

// loadConfig returns the defaults overridden by the file at path. An empty
// path means no file.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, e.Wrapf(err, "config")
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, e.Wrapf(err, "config %s", path)
	}

	if fc.Level != nil {
		cfg.options.Level = *fc.Level
		cfg.levelSet = true
	}
	if fc.DictSize != "" {
		if cfg.options.DictCap, err = parseDictSize(fc.DictSize); err != nil {
			return nil, e.Wrapf(err, "config %s", path)
		}
		cfg.dictSet = true
	}
	if fc.LogLevel != "" {
		if cfg.logLevel, err = logrus.ParseLevel(fc.LogLevel); err != nil {
			return nil, e.Wrapf(err, "config %s", path)
		}
	}
	return cfg, nil
}

// applyFlags overrides the config with flags set on the command line. Flags
// the command does not define are ignored. Must be called once after
// loadConfig, even without flags.
func (cfg *config) applyFlags(flags *pflag.FlagSet) error {
	var err error
	if flags.Changed("level") {
		if cfg.options.Level, err = flags.GetInt("level"); err != nil {
			return err
		}
		cfg.levelSet = true
	}
	if flags.Changed("dict-size") {
		s, err := flags.GetString("dict-size")
		if err != nil {
			return err
		}
		if cfg.options.DictCap, err = parseDictSize(s); err != nil {
			return err
		}
		cfg.dictSet = true
	}
	if flags.Changed("verbose") {
		verbose, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		if verbose {
			cfg.logLevel = logrus.DebugLevel
		}
	}
	// A level without an explicit dictionary size brings its own.
	if cfg.levelSet && !cfg.dictSet {
		cfg.options.DictCap = 0
	}
	return cfg.options.Verify()
}
