// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "MSGPACK_CONFIG"

// Config holds the defaults for conversion options. Every field has a
// matching command-line flag that takes precedence.
type Config struct {
	// Bytes is how byte strings appear in JSON output: hex, base64,
	// array, or tagged.
	Bytes string `yaml:"bytes"`

	// Indent is the per-level indentation of JSON output. Empty means
	// compact output.
	Indent string `yaml:"indent"`

	// Compress is the compression applied to binary output: none,
	// zstd, or lz4.
	Compress string `yaml:"compress"`

	// JSONDriver is the JSON tokenizer: jsontext or gojson.
	JSONDriver string `yaml:"json_driver"`

	// Sequence accepts multiple concatenated top-level values.
	Sequence bool `yaml:"sequence"`

	// Color controls highlighting of JSON written to a terminal:
	// auto, always, or never.
	Color string `yaml:"color"`

	// Binary forces the binary encoding: msgpack or cbor. Empty means
	// infer it from file extensions, defaulting to msgpack.
	Binary string `yaml:"binary"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Bytes:      "hex",
		Indent:     "",
		Compress:   "none",
		JSONDriver: "jsontext",
		Sequence:   false,
		Color:      "auto",
		Binary:     "",
	}
}

// Load loads the file named by MSGPACK_CONFIG, or returns Default if
// the variable is unset or empty.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Keys absent
// from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile merges a YAML file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that every enumerated setting holds a known value.
func (c *Config) Validate() error {
	var errs []error

	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{"bytes", c.Bytes, []string{"hex", "base64", "array", "tagged"}},
		{"compress", c.Compress, []string{"none", "zstd", "lz4"}},
		{"json_driver", c.JSONDriver, []string{"jsontext", "gojson"}},
		{"color", c.Color, []string{"auto", "always", "never"}},
		{"binary", c.Binary, []string{"", "msgpack", "cbor"}},
	}
	for _, check := range checks {
		if !contains(check.allowed, check.value) {
			errs = append(errs, fmt.Errorf("%s must be one of: %v (got %q)", check.key, check.allowed, check.value))
		}
	}

	for _, character := range c.Indent {
		if character != ' ' && character != '\t' {
			errs = append(errs, fmt.Errorf("indent may contain only spaces and tabs (got %q)", c.Indent))
			break
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
