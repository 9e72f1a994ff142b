package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"nmea-ng/internal/export"
	"nmea-ng/internal/nmea"
)

type Config struct {
	// Talker is the two-letter code used when encoding without --talker.
	Talker  string        `yaml:"talker"`
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
	Capture CaptureConfig `yaml:"capture"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type CaptureConfig struct {
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	if err := cfg.applyDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			if allUnknownFields(te.Errors) {
				return Config{}, fmt.Errorf("config contains unknown fields: %s", stripLineNumbers(te.Errors))
			}
			return Config{}, fmt.Errorf("config is invalid: %s", stripLineNumbers(te.Errors))
		}
		return Config{}, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Talker == "" {
		cfg.Talker = "GP"
	}
	if _, err := nmea.ParseTalker(cfg.Talker); err != nil {
		return fmt.Errorf("talker %q is not a known talker code", cfg.Talker)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if !contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of %s", strings.Join(logLevels, ", "))
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = export.FormatText
	}
	if !contains(export.Formats(), cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of %s", strings.Join(export.Formats(), ", "))
	}

	if cfg.Capture.Speed == 0 {
		cfg.Capture.Speed = 1
	}
	if cfg.Capture.Speed < 0 {
		return fmt.Errorf("capture.speed must be > 0")
	}
	return nil
}

// allUnknownFields reports whether every yaml type error is a KnownFields
// rejection rather than a value that did not fit its field.
func allUnknownFields(errs []string) bool {
	for _, e := range errs {
		if !strings.Contains(e, " not found in type ") {
			return false
		}
	}
	return len(errs) > 0
}

// stripLineNumbers turns yaml's "line 3: field x not found ..." entries into
// "field x not found ...".
func stripLineNumbers(errs []string) string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		if strings.HasPrefix(e, "line ") {
			if i := strings.Index(e, ": "); i >= 0 {
				e = e[i+2:]
			}
		}
		out = append(out, e)
	}
	return strings.Join(out, "; ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
