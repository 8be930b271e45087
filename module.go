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
	"fmt"
	"text/scanner"
)

// ModuleKind is the closed set of module types bp2make knows how to translate.
type ModuleKind int

const (
	UnknownModule ModuleKind = iota
	DefaultsModule
	BinaryModule
	LibraryModule
	SharedLibraryModule
	StaticLibraryModule
	TestModule
)

var moduleKindsByType = map[string]ModuleKind{
	"cc_defaults":            DefaultsModule,
	"cc_binary":              BinaryModule,
	"cc_binary_host":         BinaryModule,
	"cc_library":             LibraryModule,
	"cc_library_shared":      SharedLibraryModule,
	"cc_library_host_shared": SharedLibraryModule,
	"cc_library_static":      StaticLibraryModule,
	"cc_library_host_static": StaticLibraryModule,
	"cc_test":                TestModule,
	"cc_test_host":           TestModule,
	"cc_benchmark":           TestModule,
	"cc_benchmark_host":      TestModule,
}

// ParseModuleKind returns the kind for a module type name, UnknownModule if it is not supported.
func ParseModuleKind(typ string) ModuleKind {
	return moduleKindsByType[typ]
}

func (k ModuleKind) String() string {
	switch k {
	case DefaultsModule:
		return "defaults"
	case BinaryModule:
		return "binary"
	case LibraryModule:
		return "library"
	case SharedLibraryModule:
		return "shared library"
	case StaticLibraryModule:
		return "static library"
	case TestModule:
		return "test"
	default:
		return "unknown"
	}
}

// CcProperties are the properties of C and C++ modules that affect the generated rules.  Other
// properties are accepted and ignored.
type CcProperties struct {
	Name     *string
	Defaults []string

	Srcs     []string
	Cflags   []string
	Cppflags []string
	Ldflags  []string

	Local_include_dirs         []string
	Export_include_dirs        []string
	Export_system_include_dirs []string

	Shared_libs       []string
	Static_libs       []string
	Whole_static_libs []string
}

// An UnsupportedModuleError is recorded as a warning for every module whose type is not a
// known ModuleKind.  Processing continues with the next definition.
type UnsupportedModuleError struct {
	Type string
	Name string
	Pos  scanner.Position
}

func (e *UnsupportedModuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: module type %q not yet supported (module %q)", e.Pos, e.Type, e.Name)
	}
	return fmt.Sprintf("%s: module type %q not yet supported", e.Pos, e.Type)
}

// A PropertyError describes a module property that could not be turned into rules.  It aborts
// the run.
type PropertyError struct {
	Module string
	Pos    scanner.Position
	Err    error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("%s: module %q: %s", e.Pos, e.Module, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }
