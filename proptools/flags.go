// Copyright 2015 Google Inc. All rights reserved.
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

package proptools

// FilterFlags returns a new slice holding the flags that do not exactly match an entry of
// denylist.  Order is preserved.
func FilterFlags(flags []string, denylist []string) []string {
	deny := make(map[string]bool, len(denylist))
	for _, d := range denylist {
		deny[d] = true
	}

	ret := make([]string, 0, len(flags))
	for _, f := range flags {
		if !deny[f] {
			ret = append(ret, f)
		}
	}
	return ret
}

// PrefixEach returns a new slice with prefix prepended to every element of list.
func PrefixEach(prefix string, list []string) []string {
	ret := make([]string, len(list))
	for i, s := range list {
		ret[i] = prefix + s
	}
	return ret
}
