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

// Package pkgmeta answers the two questions shared object versioning asks of the surrounding
// distribution packaging: which library packages the source package builds, and which upstream
// version it is.
package pkgmeta

import (
	"errors"
)

// ErrUnavailable is wrapped by every error returned when packaging metadata is absent or
// malformed.
var ErrUnavailable = errors.New("packaging metadata unavailable")

type Metadata interface {
	// ProjectVersion returns the upstream version of the project, for example "3.4.1".
	ProjectVersion() (string, error)
	// LibraryPackages returns the names of the runtime library packages built from the project.
	LibraryPackages() ([]string, error)
}

// Static is a Metadata with fixed answers.
type Static struct {
	Version  string
	Packages []string

	// Err, if set, is returned from both queries.
	Err error
}

func (s Static) ProjectVersion() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if s.Version == "" {
		return "", ErrUnavailable
	}
	return s.Version, nil
}

func (s Static) LibraryPackages() ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Packages, nil
}
