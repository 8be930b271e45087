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
	"strings"
)

// DefaultTarget is the key of the target overlay applied to every module.
const DefaultTarget = "linux_glibc"

// Host describes the machine the generated Makefile builds for.
type Host struct {
	// Arch is the Debian architecture name, for example "amd64" or "armhf".
	Arch string
	// Multiarch is the multiarch tuple, for example "x86_64-linux-gnu".
	Multiarch string
	// Target selects the target overlay, DefaultTarget if empty.
	Target string
}

func (h Host) target() string {
	if h.Target == "" {
		return DefaultTarget
	}
	return h.Target
}

// LibDir returns the standard multiarch library directory.
func (h Host) LibDir() string {
	return filepath.Join("/usr/lib", h.Multiarch)
}

// AlternateLibDir returns the directory holding libraries that are not part of the standard
// multiarch search path.
func (h Host) AlternateLibDir() string {
	return filepath.Join(h.LibDir(), "android")
}

// MapArch maps a Debian architecture name to the name used by arch overlays.  Unrecognized
// names are returned unchanged.
func MapArch(arch string) string {
	switch {
	case arch == "amd64":
		return "x86_64"
	case arch == "i386":
		return "x86"
	case arch == "arm64":
		return "arm64"
	case strings.HasPrefix(arch, "arm"):
		return "arm"
	case strings.HasPrefix(arch, "mips64"):
		return "mips64"
	case strings.HasPrefix(arch, "mips"):
		return "mips"
	}
	return arch
}

// Multilib returns the multilib overlay key for a mapped architecture name.
func Multilib(mappedArch string) string {
	if strings.HasSuffix(mappedArch, "64") {
		return "lib64"
	}
	return "lib32"
}
