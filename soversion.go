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
	"regexp"
	"sort"
	"strings"

	"github.com/minisoong/bp2make/pkgmeta"
)

// SoVersion is the ABI version of a shared object.
type SoVersion struct {
	Major string
	Full  string
}

var defaultSoVersion = SoVersion{Major: "0", Full: "0.0.0"}

func (v SoVersion) String() string { return v.Full }

// VersionSource tells where an inferred SoVersion came from.
type VersionSource int

const (
	// VersionDefault means no library package matched.
	VersionDefault VersionSource = iota
	// VersionFromPackage means a library package name supplied the major version.
	VersionFromPackage
	// VersionMetadataUnavailable means packaging metadata could not be read.
	VersionMetadataUnavailable
)

func (s VersionSource) String() string {
	switch s {
	case VersionFromPackage:
		return "package"
	case VersionMetadataUnavailable:
		return "metadata unavailable"
	default:
		return "default"
	}
}

type VersionMatch struct {
	Version SoVersion
	Source  VersionSource
	// Package is the library package that matched, if any.
	Package string
	// Err is the metadata error behind VersionMetadataUnavailable.
	Err error
}

var (
	digitBeforeSoRegexp = regexp.MustCompile(`([0-9])\.so$`)
	soSuffixRegexp      = regexp.MustCompile(`\.so$`)
)

// mangleLib turns a shared object name into the prefix of the Debian package that ships it:
// "libfoo2.so" becomes "libfoo2-", "libfoo_bar.so" becomes "libfoo-bar".
func mangleLib(lib string) string {
	lib = digitBeforeSoRegexp.ReplaceAllString(lib, "${1}-")
	lib = soSuffixRegexp.ReplaceAllString(lib, "")
	return strings.ToLower(strings.ReplaceAll(lib, "_", "-"))
}

// InferSoVersion infers the ABI version of the shared library module name from the library
// packages and project version reported by meta.
//
// The first library package, in sorted order, consisting of the mangled library name followed
// by digits supplies the major version.  The full version is the first three components of the
// project version when they start with the major version, and the major version alone
// otherwise.
func InferSoVersion(name string, meta pkgmeta.Metadata) VersionMatch {
	if meta == nil {
		return VersionMatch{Version: defaultSoVersion, Source: VersionDefault}
	}

	packages, err := meta.LibraryPackages()
	if err != nil {
		return VersionMatch{Version: defaultSoVersion, Source: VersionMetadataUnavailable, Err: err}
	}
	packages = append([]string(nil), packages...)
	sort.Strings(packages)

	soname := name
	if !strings.HasSuffix(soname, ".so") {
		soname += ".so"
	}
	mangled := mangleLib(soname)

	for _, pkg := range packages {
		if !strings.HasPrefix(pkg, mangled) {
			continue
		}
		major := strings.TrimPrefix(pkg, mangled)
		if !isDecimal(major) {
			continue
		}

		full := major
		if projectVersion, err := meta.ProjectVersion(); err == nil {
			if v := firstComponents(projectVersion, 3); strings.HasPrefix(v, major) {
				full = v
			}
		}
		return VersionMatch{
			Version: SoVersion{Major: major, Full: full},
			Source:  VersionFromPackage,
			Package: pkg,
		}
	}

	return VersionMatch{Version: defaultSoVersion, Source: VersionDefault}
}

func firstComponents(version string, n int) string {
	parts := strings.SplitN(version, ".", n+1)
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, ".")
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
