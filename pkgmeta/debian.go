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

package pkgmeta

import (
	"fmt"
	"path/filepath"
	"strings"

	"pault.ag/go/debian/changelog"
	"pault.ag/go/debian/control"
)

// Debian reads packaging metadata from a debian/ directory.  Both files are parsed at most
// once.
type Debian struct {
	// Dir is the debian/ directory, usually "debian".
	Dir string

	versionLoaded bool
	version       string
	versionErr    error

	packagesLoaded bool
	packages       []string
	packagesErr    error
}

func NewDebian(dir string) *Debian {
	return &Debian{Dir: dir}
}

// ProjectVersion returns the upstream part of the version of the newest debian/changelog entry.
func (d *Debian) ProjectVersion() (string, error) {
	if !d.versionLoaded {
		d.version, d.versionErr = d.readVersion()
		d.versionLoaded = true
	}
	return d.version, d.versionErr
}

func (d *Debian) readVersion() (string, error) {
	path := filepath.Join(d.Dir, "changelog")
	entry, err := changelog.ParseFileOne(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}
	if entry.Version.Version == "" {
		return "", fmt.Errorf("%w: %s: empty upstream version", ErrUnavailable, path)
	}
	return entry.Version.Version, nil
}

// LibraryPackages returns the binary packages in debian/control whose names start with "lib",
// excluding development packages ending in "-dev".
func (d *Debian) LibraryPackages() ([]string, error) {
	if !d.packagesLoaded {
		d.packages, d.packagesErr = d.readPackages()
		d.packagesLoaded = true
	}
	return d.packages, d.packagesErr
}

func (d *Debian) readPackages() ([]string, error) {
	path := filepath.Join(d.Dir, "control")
	ctrl, err := control.ParseControlFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}

	var packages []string
	for _, bin := range ctrl.Binaries {
		if strings.HasPrefix(bin.Package, "lib") && !strings.HasSuffix(bin.Package, "-dev") {
			packages = append(packages, bin.Package)
		}
	}
	return packages, nil
}
