// Copyright 2020 Google Inc. All rights reserved.
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
	"path/filepath"
	"slices"
	"strings"

	"github.com/minisoong/bp2make/proptools"
)

// LibraryClass tells how a referenced library is satisfied.
type LibraryClass int

const (
	// InGraph libraries are modules declared in a recipe processed so far.
	InGraph LibraryClass = iota
	// ExternalAlternate libraries are installed in Host.AlternateLibDir.
	ExternalAlternate
	// ExternalStandard libraries are installed in Host.LibDir.
	ExternalStandard
	// ExternalMissing libraries were not found anywhere; they are linked on a best-effort basis.
	ExternalMissing
)

func (c LibraryClass) String() string {
	switch c {
	case InGraph:
		return "in-graph"
	case ExternalAlternate:
		return "external-alternate-location"
	case ExternalStandard:
		return "external-standard"
	default:
		return "external-missing"
	}
}

// LibraryRef is a classified library reference.
type LibraryRef struct {
	Name  string
	Class LibraryClass
	// Dir is the directory the library was found in, empty for in-graph and missing libraries.
	Dir string
}

// classifyLibraries classifies each name against the modules declared so far and the host's
// library directories.  Libraries in the graph never touch the filesystem.
func (c *Context) classifyLibraries(names []string) []LibraryRef {
	refs := make([]LibraryRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, c.classifyLibrary(name))
	}
	return refs
}

func (c *Context) classifyLibrary(name string) LibraryRef {
	if c.modules[name] {
		return LibraryRef{Name: name, Class: InGraph}
	}

	for _, candidate := range []struct {
		dir   string
		class LibraryClass
	}{
		{c.host.AlternateLibDir(), ExternalAlternate},
		{c.host.LibDir(), ExternalStandard},
	} {
		path := filepath.Join(candidate.dir, name+".so")
		exists, _, err := c.fs.Exists(path)
		if err != nil {
			c.logger.Warn("probing library failed", "library", name, "path", path, "error", err)
			continue
		}
		if exists {
			return LibraryRef{Name: name, Class: candidate.class, Dir: candidate.dir}
		}
	}

	c.logger.Debug("library not found, linking anyway", "library", name,
		"recipe", c.recipe.Path)
	return LibraryRef{Name: name, Class: ExternalMissing}
}

// linkInputs are the contributions of a module's library references to its rules.
type linkInputs struct {
	refs []LibraryRef

	// includes are added to both CFLAGS and CXXFLAGS.
	includes []string
	ldflags  []string
	ldlibs   []string
	// deps are make prerequisites of the module's target.
	deps []string
	// archives are static archives and the flags wrapping them, passed to the compiler driver.
	archives []string
}

// linkLibraries computes how props links against its libraries.  Shared libraries are linked
// with -l, as are static libraries that are not built here, and in-graph static libraries are
// linked from their archives.
func (c *Context) linkLibraries(props *CcProperties) linkInputs {
	var names []string
	names = append(names, props.Shared_libs...)
	for _, lib := range props.Static_libs {
		if !c.modules[lib] {
			names = append(names, lib)
		}
	}
	for _, lib := range props.Whole_static_libs {
		if !c.modules[lib] {
			names = append(names, lib)
		}
	}

	in := linkInputs{refs: c.classifyLibraries(names)}

	var searchDirs []string
	inGraph := false
	for _, ref := range in.refs {
		in.includes = append(in.includes,
			"$("+ref.Name+"_INCLUDES)", "$("+ref.Name+"_SYSTEM_INCLUDES)")
		in.ldlibs = append(in.ldlibs, linkFlag(ref.Name))

		switch ref.Class {
		case InGraph:
			inGraph = true
			in.deps = append(in.deps, ref.Name+".so")
		case ExternalAlternate:
			if !slices.Contains(searchDirs, ref.Dir) {
				searchDirs = append(searchDirs, ref.Dir)
			}
		}
	}

	in.ldflags = append(in.ldflags, proptools.PrefixEach("-L", searchDirs)...)
	if inGraph {
		in.ldflags = append(in.ldflags, "-L.")
	}

	for _, lib := range props.Static_libs {
		if c.modules[lib] {
			in.archives = append(in.archives, lib+".a")
			in.deps = append(in.deps, lib+".a")
		}
	}
	var whole []string
	for _, lib := range props.Whole_static_libs {
		if c.modules[lib] {
			whole = append(whole, lib+".a")
			in.deps = append(in.deps, lib+".a")
		}
	}
	if len(whole) > 0 {
		in.archives = append(in.archives, "-Wl,--whole-archive")
		in.archives = append(in.archives, whole...)
		in.archives = append(in.archives, "-Wl,--no-whole-archive")
	}

	return in
}

// linkFlag returns the -l flag for a library module name.
func linkFlag(lib string) string {
	return "-l" + strings.TrimPrefix(lib, "lib")
}
