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
	"testing"
)

func TestRelativeTo(t *testing.T) {
	testCases := []struct {
		dir, path, want string
	}{
		{".", "a.c", "a.c"},
		{"libcutils", "src/a.c", "libcutils/src/a.c"},
		{"libcutils", "../include", "include"},
		{"libcutils", "/usr/include", "/usr/include"},
		{"libcutils", "$(OUT)/gen.c", "$(OUT)/gen.c"},
	}

	for _, test := range testCases {
		t.Run(test.path, func(t *testing.T) {
			got := RelativeTo(test.dir, test.path)
			if got != test.want {
				t.Errorf("RelativeTo(%v, %v) = %v; want: %v", test.dir, test.path, got, test.want)
			}
		})
	}
}

func TestRelativeToAll(t *testing.T) {
	got := RelativeToAll("libcutils", []string{"a.c", "$(libbase_SRCS)"})
	want := []string{"libcutils/a.c", "$(libbase_SRCS)"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RelativeToAll()[%d] = %v; want: %v", i, got[i], want[i])
		}
	}
	if n := len(RelativeToAll("x", nil)); n != 0 {
		t.Errorf("RelativeToAll(nil) has %d elements", n)
	}
}
