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
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/minisoong/bp2make"
	"github.com/minisoong/bp2make/deptools"
	"github.com/minisoong/bp2make/pathtools"
	"github.com/minisoong/bp2make/pkgmeta"
)

// ErrReported wraps errors that Main has already logged.
var ErrReported = errors.New("bp2make failed")

type options struct {
	Directory string `short:"C" help:"Change to DIR before reading anything." placeholder:"DIR"`
	Output    string `short:"o" help:"Write the Makefile to FILE instead of standard output." placeholder:"FILE"`
	Depfile   string `short:"d" help:"Also write a dependency file listing the recipes read. Requires -o." placeholder:"FILE"`
	Config    string `help:"YAML configuration file. ${default_config} is read if present." placeholder:"FILE"`
	EnvFile   string `help:"Read host settings from a dotenv file." placeholder:"FILE"`

	Arch      string `help:"Debian host architecture." env:"DEB_HOST_ARCH"`
	Multiarch string `help:"Debian host multiarch tuple." env:"DEB_HOST_MULTIARCH"`
	Target    string `help:"Target overlay applied to every module."`
	DebianDir string `help:"Directory holding the Debian packaging metadata." placeholder:"DIR"`

	LogLevel   string `default:"info"   enum:"debug,info,warn,error" help:"Set log level."`
	LogFormat  string `default:"pretty" enum:"text,json,pretty"      help:"Set log format."`
	Cpuprofile string `help:"Write a CPU profile to DIR." placeholder:"DIR"`

	Pattern  string `arg:"" optional:"" help:"Doublestar pattern matching the recipes (default ${default_pattern})."`
	Makefile string `arg:"" optional:"" help:"Write the Makefile to FILE. Takes precedence over -o." placeholder:"FILE"`
}

// Main translates the recipes selected by args into a Makefile.  Nothing is written unless
// every recipe translates.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	exitCode := -1
	parser, err := kong.New(&opts,
		kong.Name("bp2make"),
		kong.Description("Translate Android.bp recipes into a Makefile."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.Vars{
			"default_config":  DefaultConfigFile,
			"default_pattern": DefaultConfig().Pattern,
		},
	)
	if err != nil {
		return err
	}

	_, err = parser.Parse(args)
	if exitCode == 0 {
		// --help
		return nil
	}
	if err != nil {
		return err
	}

	logger := newLogger(opts.LogLevel, opts.LogFormat, stderr)

	if errs := run(ctx, &opts, logger, stdout); len(errs) > 0 {
		for _, err := range errs {
			logger.Error("translation failed", "error", err)
		}
		return fmt.Errorf("%w: %w", ErrReported, errors.Join(errs...))
	}
	return nil
}

func run(ctx context.Context, opts *options, logger *slog.Logger, stdout io.Writer) []error {
	if opts.Makefile != "" {
		opts.Output = opts.Makefile
	}
	if opts.Depfile != "" && opts.Output == "" {
		return []error{errors.New("--depfile requires -o")}
	}

	if opts.Directory != "" {
		if err := os.Chdir(opts.Directory); err != nil {
			return []error{err}
		}
	}

	cfg, err := opts.config()
	if err != nil {
		return []error{err}
	}
	cfg.probeHost(ctx, logger)
	logger.Debug("configuration loaded", "arch", cfg.Arch, "multiarch", cfg.Multiarch,
		"target", cfg.Target, "pattern", cfg.Pattern)

	if opts.Cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.Cpuprofile),
			profile.Quiet, profile.NoShutdownHook).Stop()
	}

	fs, err := pathtools.NewCachedFs(pathtools.OsFs, cfg.CacheSize)
	if err != nil {
		return []error{err}
	}

	recipes, err := pathtools.FindRecipes(fs, ".", cfg.Pattern)
	if err != nil {
		return []error{err}
	}
	if len(recipes) == 0 {
		return []error{fmt.Errorf("no recipes match %q", cfg.Pattern)}
	}

	bctx := bp2make.NewContext(
		bp2make.WithFileSystem(fs),
		bp2make.WithMetadata(pkgmeta.NewDebian(cfg.DebianDir)),
		bp2make.WithHost(cfg.Host()),
		bp2make.WithLogger(logger))

	deps, errs := bctx.ParseRecipes(ctx, recipes)
	if len(errs) > 0 {
		return errs
	}
	logger.Info("translated recipes", "recipes", len(recipes),
		"targets", len(bctx.Targets()), "warnings", len(bctx.Warnings()))

	var buf strings.Builder
	if err := bctx.WriteMakefile(&buf); err != nil {
		return []error{fmt.Errorf("error generating Makefile contents: %w", err)}
	}

	if opts.Output == "" {
		if _, err := io.WriteString(stdout, buf.String()); err != nil {
			return []error{err}
		}
		return nil
	}

	const outFilePermissions = 0666
	if err := os.WriteFile(opts.Output, []byte(buf.String()), outFilePermissions); err != nil {
		return []error{fmt.Errorf("error writing %s: %w", opts.Output, err)}
	}

	if opts.Depfile != "" {
		if err := deptools.WriteDepFile(opts.Depfile, opts.Output, deps); err != nil {
			return []error{fmt.Errorf("error writing depfile: %w", err)}
		}
	}

	return nil
}

// config resolves the run's Config from the YAML file, the env file and the flags.
func (o *options) config() (Config, error) {
	path, required := DefaultConfigFile, false
	if o.Config != "" {
		path, required = o.Config, true
	}

	cfg, err := LoadConfig(path, required)
	if err != nil {
		return Config{}, err
	}

	if o.EnvFile != "" {
		if err := cfg.ApplyEnvFile(o.EnvFile); err != nil {
			return Config{}, err
		}
	}

	cfg.Override(Config{
		Arch:      o.Arch,
		Multiarch: o.Multiarch,
		Target:    o.Target,
		Pattern:   o.Pattern,
		DebianDir: o.DebianDir,
	})
	return cfg, nil
}
