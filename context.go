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

package bp2make

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/minisoong/bp2make/parser"
	"github.com/minisoong/bp2make/pathtools"
	"github.com/minisoong/bp2make/pkgmeta"
	"github.com/minisoong/bp2make/proptools"
)

// A Context contains all the state needed to translate a set of recipe files into a Makefile.
// Translation proceeds in two phases:
//
//	    Phase                  Methods
//	------------      ---------------------------
//	1. Parse          ParseRecipes, ParseRecipe
//	2. Write          WriteMakefile
//
// Recipes are parsed and executed one at a time, in the order given.  Variables and module
// names accumulate across recipes, so a recipe only sees what earlier recipes declared.  A
// Context is not safe for concurrent use.
type Context struct {
	// set at instantiation
	fs     pathtools.FileSystem
	meta   pkgmeta.Metadata
	host   Host
	logger *slog.Logger

	scope    *parser.Scope
	modules  map[string]bool
	defaults map[string]*parser.Map

	// replaced at the start of every recipe
	recipe Recipe

	rules         []*ModuleRules
	targets       []string
	binaryTargets []string
	sharedTargets []string

	warnings []error
}

// Recipe identifies the recipe file being executed.  Relative paths in its modules are
// resolved against Dir.
type Recipe struct {
	Path string
	Dir  string
}

type Option func(*Context)

// WithFileSystem sets the filesystem recipes are read from and libraries are probed in.
func WithFileSystem(fs pathtools.FileSystem) Option {
	return func(c *Context) { c.fs = fs }
}

// WithMetadata sets the packaging metadata used to infer shared library versions.
func WithMetadata(meta pkgmeta.Metadata) Option {
	return func(c *Context) { c.meta = meta }
}

func WithHost(host Host) Option {
	return func(c *Context) { c.host = host }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// NewContext creates a new Context.  Without options it reads the local disk, has no packaging
// metadata, builds for an empty Host and discards log output.
func NewContext(opts ...Option) *Context {
	c := &Context{
		fs:       pathtools.OsFs,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		scope:    parser.NewScope(),
		modules:  make(map[string]bool),
		defaults: make(map[string]*parser.Map),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseRecipes parses and executes the recipes in order, stopping at the first recipe that
// fails.  It returns the recipes that were read, for use as dependencies of the Makefile.
func (c *Context) ParseRecipes(ctx context.Context, paths []string) (deps []string, errs []error) {
	if len(paths) < 1 {
		return nil, []error{fmt.Errorf("no recipes provided to parse")}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return deps, []error{err}
		}
		deps = append(deps, path)
		if errs := c.ParseRecipe(path); len(errs) > 0 {
			return deps, errs
		}
	}
	return deps, nil
}

// ParseRecipe parses one recipe and executes its definitions in order.  The names of all
// modules in the recipe are registered before any of them executes, so a module may link
// against a module declared later in the same recipe but not against one from a later recipe.
func (c *Context) ParseRecipe(path string) []error {
	f, err := c.fs.Open(path)
	if err != nil {
		return []error{fmt.Errorf("reading recipe %s: %w", path, err)}
	}
	defer f.Close()

	file, errs := parser.Parse(path, f, c.scope)
	if len(errs) > 0 {
		return errs
	}

	modules := file.Modules()
	for _, m := range modules {
		if name, ok := m.Name(); ok {
			c.modules[name] = true
		}
	}

	c.recipe = Recipe{Path: path, Dir: filepath.Dir(path)}
	c.logger.Debug("executing recipe", "recipe", path, "modules", len(modules))

	for _, def := range file.Defs {
		switch def := def.(type) {
		case *parser.Module:
			if errs := c.runModule(def); len(errs) > 0 {
				return errs
			}
		case *parser.Assignment:
			// Already bound in the scope while parsing.
		default:
			panic("unknown definition type")
		}
	}

	return nil
}

func (c *Context) runModule(m *parser.Module) []error {
	kind := ParseModuleKind(m.Type)
	name, _ := m.Name()

	switch kind {
	case DefaultsModule:
		return c.buildDefaults(m)
	case BinaryModule:
		return c.buildCc(m, ccBinary, true)
	case LibraryModule:
		if errs := c.buildCc(m, ccShared, true); len(errs) > 0 {
			return errs
		}
		return c.buildCc(m, ccStatic, false)
	case SharedLibraryModule:
		return c.buildCc(m, ccShared, true)
	case StaticLibraryModule:
		return c.buildCc(m, ccStatic, true)
	case TestModule:
		c.logger.Debug("skipping test module", "type", m.Type, "module", name)
		return nil
	default:
		c.logger.Warn("module type not yet supported", "type", m.Type, "module", name,
			"recipe", c.recipe.Path)
		c.warnings = append(c.warnings, &UnsupportedModuleError{
			Type: m.Type,
			Name: name,
			Pos:  m.Pos(),
		})
		return nil
	}
}

func (c *Context) addRules(rules *ModuleRules) {
	c.rules = append(c.rules, rules)
}

// Rules returns the generated rules in output order.  A cc_library contributes two entries.
func (c *Context) Rules() []*ModuleRules {
	return c.rules
}

// Targets returns the primary targets in the order they were declared.
func (c *Context) Targets() []string {
	return c.targets
}

// Warnings returns the non-fatal problems found so far, such as *UnsupportedModuleError.
func (c *Context) Warnings() []error {
	return c.warnings
}

// HasModule reports whether a module with the given name was declared in a recipe parsed so
// far.
func (c *Context) HasModule(name string) bool {
	return c.modules[name]
}

// Scope returns the variables bound by the recipes parsed so far.
func (c *Context) Scope() *parser.Scope {
	return c.scope
}

// WriteMakefile writes the Makefile for everything parsed so far.
func (c *Context) WriteMakefile(w io.StringWriter) error {
	mw := newMakeWriter(w)

	if err := c.writeHeader(mw); err != nil {
		return err
	}

	for _, rules := range c.rules {
		if err := rules.write(mw); err != nil {
			return err
		}
	}

	return c.writeFooter(mw)
}

func (c *Context) writeHeader(w *makeWriter) error {
	libdir := "$(prefix)/lib"
	if c.host.Multiarch != "" {
		libdir += "/" + c.host.Multiarch
	}

	var ldlibs []string
	for _, lib := range globalLdlibs {
		ldlibs = append(ldlibs, "-l"+lib)
	}

	steps := []func() error{
		func() error { return w.Comment("Generated by bp2make. Do not edit.") },
		w.BlankLine,
		func() error {
			return w.Rule(".PHONY", []string{"build", "clean", "install",
				"install-binaries", "install-shlibs"}, nil)
		},
		func() error { return w.Assign(".DEFAULT_GOAL", ":=", "build", 0) },
		w.BlankLine,
		func() error { return w.Assign("prefix", "?=", "/usr", 0) },
		func() error { return w.Assign("libdir", "?=", libdir, 0) },
		w.BlankLine,
		func() error { return w.Assign("DPKG_EXPORT_BUILDFLAGS", "=", "1", 0) },
		func() error { return w.Include("/usr/share/dpkg/buildflags.mk", true) },
		w.BlankLine,
		func() error { return w.Assign("CXXFLAGS", "+=", join(globalCxxflags), 0) },
		func() error { return w.Assign("CFLAGS", "+=", join(globalCflags), 0) },
		func() error { return w.Assign("LDFLAGS", "+=", join(globalLdflags), 0) },
		func() error { return w.Assign("LDLIBS", "+=", join(ldlibs), 0) },
		w.BlankLine,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) writeFooter(w *makeWriter) error {
	type aggregate struct {
		target string
		deps   []string
	}

	rules := []aggregate{
		{"build", c.targets},
		{"clean", proptools.PrefixEach("clean-", c.targets)},
	}

	var install []string
	if len(c.binaryTargets) > 0 {
		rules = append(rules, aggregate{"install-binaries", proptools.PrefixEach("install-", c.binaryTargets)})
		install = append(install, "install-binaries")
	}
	if len(c.sharedTargets) > 0 {
		rules = append(rules, aggregate{"install-shlibs", proptools.PrefixEach("install-", c.sharedTargets)})
		install = append(install, "install-shlibs")
	}
	rules = append(rules, aggregate{"install", install})

	for _, r := range rules {
		if err := w.Rule(r.target, r.deps, nil); err != nil {
			return err
		}
	}
	return nil
}
