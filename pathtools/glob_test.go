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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recipeFs = MockFs(map[string][]byte{
	"Android.bp":                  nil,
	"libcutils/Android.bp":        nil,
	"base/Android.bp":             nil,
	"base/tests/Android.bp":       nil,
	"base/README.md":              nil,
	".repo/manifests/Android.bp":  nil,
	".git/Android.bp":             nil,
	"base/.hidden/Android.bp":     nil,
	"external/zlib/Android.bp.in": nil,
})

func TestFindRecipes(t *testing.T) {
	testCases := []struct {
		root, pattern string
		want          []string
	}{
		{
			root:    ".",
			pattern: "**/Android.bp",
			want: []string{
				"Android.bp",
				"base/.hidden/Android.bp",
				"base/Android.bp",
				"base/tests/Android.bp",
				"libcutils/Android.bp",
			},
		},
		{
			root:    ".",
			pattern: "*/Android.bp",
			want:    []string{"base/Android.bp", "libcutils/Android.bp"},
		},
		{
			root:    "base",
			pattern: "**/Android.bp",
			want:    []string{"Android.bp", "tests/Android.bp"},
		},
		{
			root:    ".",
			pattern: "{base,libcutils}/Android.bp",
			want:    []string{"base/Android.bp", "libcutils/Android.bp"},
		},
		{
			root:    ".",
			pattern: "nothing/**/*.bp",
			want:    []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.root+"/"+tc.pattern, func(t *testing.T) {
			got, err := FindRecipes(recipeFs, tc.root, tc.pattern)
			require.NoError(t, err)
			want := make([]string, len(tc.want))
			for i, w := range tc.want {
				want[i] = filepath.FromSlash(w)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("FindRecipes(%q, %q) mismatch (-want +got):\n%s", tc.root, tc.pattern, diff)
			}
		})
	}
}

func TestFindRecipesBadPattern(t *testing.T) {
	_, err := FindRecipes(recipeFs, ".", "[")
	assert.Error(t, err)
}

func TestIsGlob(t *testing.T) {
	assert.True(t, IsGlob("**/Android.bp"))
	assert.True(t, IsGlob("{a,b}.bp"))
	assert.False(t, IsGlob("system/core/Android.bp"))
}
