// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/minisoong/bp2make"
)

// DefaultConfigFile is read from the working directory when no --config flag is given.  It is
// optional.
const DefaultConfigFile = "bp2make.yaml"

// Config holds the settings of a run.  Fields are resolved from, highest precedence first,
// command-line flags and the environment, an optional dotenv file, an optional YAML file and
// DefaultConfig.
type Config struct {
	// Arch is the Debian host architecture, DEB_HOST_ARCH.
	Arch string `yaml:"arch"`
	// Multiarch is the Debian multiarch tuple, DEB_HOST_MULTIARCH.
	Multiarch string `yaml:"multiarch"`
	// Target selects the target overlay of every module.
	Target string `yaml:"target"`

	// Pattern is the doublestar pattern recipes are found with.
	Pattern string `yaml:"pattern"`
	// DebianDir holds the control and changelog files soversions are inferred from.
	DebianDir string `yaml:"debian_dir"`
	// CacheSize bounds the number of filesystem probes remembered while classifying libraries.
	CacheSize int `yaml:"cache_size"`
}

func DefaultConfig() Config {
	return Config{
		Target:    bp2make.DefaultTarget,
		Pattern:   "**/Android.bp",
		DebianDir: "debian",
		CacheSize: 1024,
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path.  A missing file is only
// an error when required is set.  Unknown keys are rejected.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.Pattern == "" {
		return errors.New("pattern must not be empty")
	}
	return nil
}

// Environment variables understood in dotenv files.  DEB_HOST_ARCH and DEB_HOST_MULTIARCH are
// also read from the process environment as flag defaults.
const (
	envHostArch      = "DEB_HOST_ARCH"
	envHostMultiarch = "DEB_HOST_MULTIARCH"
	envTarget        = "BP2MAKE_TARGET"
)

// ApplyEnvFile overlays the settings found in a dotenv file.  The process environment is left
// untouched.
func (c *Config) ApplyEnvFile(path string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading env file: %w", err)
	}
	c.Override(Config{
		Arch:      env[envHostArch],
		Multiarch: env[envHostMultiarch],
		Target:    env[envTarget],
	})
	return nil
}

// Override replaces every field of c that is set in o.
func (c *Config) Override(o Config) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&c.Arch, o.Arch)
	set(&c.Multiarch, o.Multiarch)
	set(&c.Target, o.Target)
	set(&c.Pattern, o.Pattern)
	set(&c.DebianDir, o.DebianDir)
	if o.CacheSize > 0 {
		c.CacheSize = o.CacheSize
	}
}

// Host returns the build host described by c.
func (c Config) Host() bp2make.Host {
	return bp2make.Host{
		Arch:      c.Arch,
		Multiarch: c.Multiarch,
		Target:    c.Target,
	}
}

// queryArchitecture asks dpkg-architecture for a variable of the host architecture.
var queryArchitecture = func(ctx context.Context, variable string) (string, error) {
	out, err := exec.CommandContext(ctx, "dpkg-architecture", "-q"+variable).Output()
	if err != nil {
		return "", fmt.Errorf("dpkg-architecture -q%s: %w", variable, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// probeHost fills in the host fields no other source set.  Failures leave the fields empty,
// which builds against /usr/lib with no arch overlay.
func (c *Config) probeHost(ctx context.Context, logger *slog.Logger) {
	for _, field := range []struct {
		variable string
		value    *string
	}{
		{envHostArch, &c.Arch},
		{envHostMultiarch, &c.Multiarch},
	} {
		if *field.value != "" {
			continue
		}
		value, err := queryArchitecture(ctx, field.variable)
		if err != nil {
			logger.Warn("cannot determine host architecture", "variable", field.variable, "error", err)
			continue
		}
		*field.value = value
	}
}
