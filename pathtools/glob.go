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
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FindRecipes returns the files under root matching the doublestar pattern, relative to root
// and sorted lexicographically.  Paths whose first component starts with a dot are skipped, so
// version control and editor directories never contribute recipes.
func FindRecipes(fs FileSystem, root, pattern string) ([]string, error) {
	matches, err := fs.Glob(root, pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %q in %q: %w", pattern, root, err)
	}

	recipes := make([]string, 0, len(matches))
	for _, m := range matches {
		m = filepath.ToSlash(filepath.Clean(m))
		if isHidden(m) {
			continue
		}
		recipes = append(recipes, filepath.FromSlash(m))
	}
	sort.Strings(recipes)
	return recipes, nil
}

func isHidden(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.HasPrefix(first, ".") && first != "." && first != ".."
}

// IsGlob reports whether pattern contains doublestar metacharacters.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
