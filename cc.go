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
	"errors"
	"fmt"
	"strings"

	"github.com/minisoong/bp2make/parser"
	"github.com/minisoong/bp2make/pathtools"
	"github.com/minisoong/bp2make/proptools"
)

// Flags added to every compilation and link, after dpkg-buildflags.
var (
	globalCxxflags = []string{
		"-D__STDC_FORMAT_MACROS",
		"-D__STDC_CONSTANT_MACROS",
		"-std=c++11",
	}
	globalCflags = []string{
		"-D_FILE_OFFSET_BITS=64",
		"-D_LARGEFILE_SOURCE=1",
		"-Wa,--noexecstack",
		"-fPIC",
		"-fcommon",
	}
	globalLdflags = []string{
		"-Wl,-z,noexecstack",
		"-Wl,--no-undefined-version",
		"-Wl,--as-needed",
	}
	globalLdlibs = []string{"c", "dl", "gcc", "m", "pthread", "rt", "util"}
)

var cxxExtensions = []string{".cc", ".cxx", ".cpp", ".CPP", ".c++", ".cp", ".C"}

func isCxx(file string) bool {
	for _, ext := range cxxExtensions {
		if strings.HasSuffix(file, ext) {
			return true
		}
	}
	return false
}

func haveCxx(files []string) bool {
	for _, f := range files {
		if isCxx(f) {
			return true
		}
	}
	return false
}

type ccVariant int

const (
	ccBinary ccVariant = iota
	ccShared
	ccStatic
)

func (v ccVariant) overlay() string {
	switch v {
	case ccShared:
		return "shared"
	case ccStatic:
		return "static"
	default:
		return ""
	}
}

func (v ccVariant) String() string {
	switch v {
	case ccShared:
		return "shared library"
	case ccStatic:
		return "static library"
	default:
		return "binary"
	}
}

var errMissingName = errors.New(`missing required property "name"`)

// unpackCc unpacks merged properties into CcProperties.
func (c *Context) unpackCc(m *parser.Module, props *parser.Map) (*CcProperties, []error) {
	cc := &CcProperties{}
	name, _ := m.Name()
	if errs := proptools.UnpackProperties(props, cc); len(errs) > 0 {
		for i, err := range errs {
			errs[i] = &PropertyError{Module: name, Pos: m.Pos(), Err: err}
		}
		return nil, errs
	}
	if proptools.String(cc.Name) == "" {
		return nil, []error{&PropertyError{Module: m.Type, Pos: m.Pos(), Err: errMissingName}}
	}
	return cc, nil
}

// buildDefaults stores a defaults bundle and writes the variables modules listing it refer to.
func (c *Context) buildDefaults(m *parser.Module) []error {
	props := m.Map.Copy().(*parser.Map)
	refs := c.collectDefaults(props, "")

	cc, errs := c.unpackCc(m, props)
	if len(errs) > 0 {
		return errs
	}
	name := proptools.String(cc.Name)

	props.RemoveProperty("name")
	c.defaults[name] = props

	dir := c.recipe.Dir
	localIncludes := proptools.PrefixEach("-I", pathtools.RelativeToAll(dir, cc.Local_include_dirs))

	var ldlibs []string
	ldlibs = append(ldlibs, refs.ldlibs...)
	for _, lib := range cc.Shared_libs {
		ldlibs = append(ldlibs, linkFlag(lib))
	}

	c.addRules(&ModuleRules{
		Name: name,
		Vars: []Var{
			{Name: name + "_CXXFLAGS", Value: join(proptools.FilterFlags(
				concat(refs.cxxflags, cc.Cppflags, localIncludes), flagDenylist))},
			{Name: name + "_CFLAGS", Value: join(proptools.FilterFlags(
				concat(refs.cflags, cc.Cflags, localIncludes), flagDenylist))},
			{Name: name + "_LDFLAGS", Value: join(proptools.FilterFlags(
				concat(refs.ldflags, cc.Ldflags), flagDenylist))},
			{Name: name + "_LDLIBS", Value: join(ldlibs)},
			{Name: name + "_SRCS", Value: join(pathtools.RelativeToAll(dir, concat(refs.srcs, cc.Srcs)))},
		},
	})
	return nil
}

// buildCc generates the rules for one variant of a C or C++ module.  The static variant of a
// cc_library reuses the variables of its shared variant and passes vars as false.
func (c *Context) buildCc(m *parser.Module, variant ccVariant, vars bool) []error {
	props := m.Map.Copy().(*parser.Map)
	refs := c.collectDefaults(props, variant.overlay())

	cc, errs := c.unpackCc(m, props)
	if len(errs) > 0 {
		return errs
	}
	name := proptools.String(cc.Name)
	dir := c.recipe.Dir
	ref := func(suffix string) string { return varRef(name, suffix) }

	localIncludes := proptools.PrefixEach("-I", pathtools.RelativeToAll(dir, cc.Local_include_dirs))
	cxxflags := proptools.FilterFlags(concat(refs.cxxflags, cc.Cppflags, localIncludes), flagDenylist)
	cflags := proptools.FilterFlags(concat(refs.cflags, cc.Cflags, localIncludes), flagDenylist)
	ldflags := proptools.FilterFlags(concat(refs.ldflags, cc.Ldflags), flagDenylist)

	var includes, systemIncludes []string
	if variant != ccBinary {
		includes = proptools.PrefixEach("-I", pathtools.RelativeToAll(dir, cc.Export_include_dirs))
		systemIncludes = proptools.PrefixEach("-isystem ",
			pathtools.RelativeToAll(dir, cc.Export_system_include_dirs))
		cxxflags = append(cxxflags, ref("INCLUDES"), ref("SYSTEM_INCLUDES"))
		cflags = append(cflags, ref("INCLUDES"), ref("SYSTEM_INCLUDES"))
	}

	link := c.linkLibraries(cc)
	cxxflags = append(cxxflags, link.includes...)
	cflags = append(cflags, link.includes...)
	ldflags = append(ldflags, link.ldflags...)
	ldlibs := concat(refs.ldlibs, link.ldlibs)
	srcs := pathtools.RelativeToAll(dir, concat(refs.srcs, cc.Srcs))

	rules := &ModuleRules{
		Name:    name,
		Comment: fmt.Sprintf("link %s %s", name, variant),
	}

	var target string
	switch variant {
	case ccShared:
		target = name + ".so." + ref("soversion")
	case ccStatic:
		target = name + ".a"
	default:
		target = name
	}

	if vars {
		rules.Vars = append(rules.Vars, Var{Name: name + "_DIR", Value: dir})
		if variant == ccShared {
			match := InferSoVersion(name, c.meta)
			if match.Source == VersionMetadataUnavailable {
				c.logger.Debug("packaging metadata unavailable, using default soversion",
					"module", name, "error", match.Err)
			} else {
				c.logger.Debug("inferred soversion", "module", name,
					"soversion", match.Version, "source", match.Source, "package", match.Package)
			}
			rules.Vars = append(rules.Vars,
				Var{Name: name + "_soversion", Value: match.Version.Full, Conditional: true},
				Var{Name: name + "_somajor", Value: "$(basename $(basename " + ref("soversion") + "))"})
		}
		rules.Vars = append(rules.Vars,
			Var{Name: name + "_CXXFLAGS", Value: join(cxxflags)},
			Var{Name: name + "_CFLAGS", Value: join(cflags)},
			Var{Name: name + "_LDFLAGS", Value: join(ldflags)},
			Var{Name: name + "_LDLIBS", Value: join(ldlibs)},
			Var{Name: name + "_SRCS", Value: join(srcs)})
		if variant != ccBinary {
			rules.Vars = append(rules.Vars,
				Var{Name: name + "_INCLUDES", Value: join(includes)},
				Var{Name: name + "_SYSTEM_INCLUDES", Value: join(systemIncludes)})
		}
	}

	linked := variant != ccStatic
	cxx := haveCxx(srcs)
	var cmd []string
	if linked {
		cmd = append(cmd, "$(CC) "+ref("SRCS")+" -o $@")
	} else {
		cmd = append(cmd, "$(CC) "+ref("SRCS")+" -c")
	}
	cmd = append(cmd, link.archives...)
	cmd = append(cmd, "$(CPPFLAGS)", "$(CFLAGS) "+ref("CFLAGS"))
	if cxx {
		cmd = append(cmd, "$(CXXFLAGS) "+ref("CXXFLAGS"))
	}
	if linked {
		cmd = append(cmd, "$(LDFLAGS) "+ref("LDFLAGS"))
		if variant == ccShared {
			cmd = append(cmd, "-shared -Wl,-soname,"+name+".so."+ref("somajor"))
		}
	}
	if cxx {
		cmd = append(cmd, "-lstdc++")
	}
	if linked {
		cmd = append(cmd, "$(LDLIBS) "+ref("LDLIBS"))
	}

	rules.Build = &Rule{
		Target: target,
		Deps:   append([]string{ref("SRCS")}, link.deps...),
		Recipe: []string{join(cmd)},
	}
	rules.Clean = &Rule{
		Target: "clean-" + target,
		Recipe: []string{"rm -f " + target},
	}

	// Substitution references turning the versioned file name held by an automatic variable
	// into the names of its symlinks.
	majorOf := func(auto string) string {
		return "$(" + auto + ":." + ref("soversion") + "=." + ref("somajor") + ")"
	}
	unversionedOf := func(auto string) string {
		return "$(" + auto + ":." + ref("soversion") + "=)"
	}
	objects := "$(patsubst %,%.o,$(notdir $(basename " + ref("SRCS") + ")))"

	switch variant {
	case ccShared:
		rules.Alias = &Rule{Target: name + ".so", Deps: []string{target}}
		rules.Build.Recipe = append(rules.Build.Recipe,
			"ln -sf $@ "+majorOf("@"),
			"ln -sf "+majorOf("@")+" "+unversionedOf("@"))
		rules.Clean.Recipe = append(rules.Clean.Recipe,
			"rm -f "+name+".so "+name+".so."+ref("somajor"))

		rules.InstallDir = "$(libdir)"
		rules.Install = &Rule{
			Target: "install-" + target,
			Deps:   []string{target},
			Recipe: []string{
				"install -m644 -D -t $(DESTDIR)$(libdir) $<",
				"ln -s $< $(DESTDIR)$(libdir)/" + majorOf("<"),
				"ln -s " + majorOf("<") + " $(DESTDIR)$(libdir)/" + unversionedOf("<"),
			},
		}

		headerDirs := pathtools.RelativeToAll(dir,
			concat(cc.Export_include_dirs, cc.Export_system_include_dirs))
		if len(headerDirs) > 0 {
			headers := "install-" + name + "-headers"
			includeDir := "$(DESTDIR)$(prefix)/include/" + name
			rules.Install.Deps = append(rules.Install.Deps, headers)
			rules.Headers = &Rule{
				Target: headers,
				Recipe: []string{"mkdir -p " + includeDir},
			}
			for _, d := range headerDirs {
				rules.Headers.Recipe = append(rules.Headers.Recipe,
					"cp -R -t "+includeDir+" "+d+"/*")
			}
		}
		c.sharedTargets = append(c.sharedTargets, target)
	case ccStatic:
		rules.Build.Recipe = append(rules.Build.Recipe,
			"ar rcs "+target+" "+objects,
			"rm "+objects)
	default:
		rules.InstallDir = "$(prefix)/bin"
		rules.Install = &Rule{
			Target: "install-" + target,
			Deps:   []string{target},
			Recipe: []string{"install -m755 -D -t $(DESTDIR)$(prefix)/bin $<"},
		}
		c.binaryTargets = append(c.binaryTargets, target)
	}

	c.targets = append(c.targets, target)
	c.addRules(rules)
	return nil
}

func concat(lists ...[]string) []string {
	var ret []string
	for _, l := range lists {
		ret = append(ret, l...)
	}
	return ret
}

func join(list []string) string {
	return strings.Join(list, " ")
}
