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

package pathtools

import (
	"path/filepath"
	"strings"
)

// RelativeTo joins path with dir unless path is absolute or starts with '$', which marks a
// make variable reference that must reach the Makefile unchanged.
func RelativeTo(dir, path string) string {
	if strings.HasPrefix(path, "$") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// RelativeToAll applies RelativeTo to every element of paths.
func RelativeToAll(dir string, paths []string) []string {
	result := make([]string, len(paths))
	for i, path := range paths {
		result[i] = RelativeTo(dir, path)
	}
	return result
}
