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

// Package proptools maps recipe property maps onto Go structs and merges the overlay maps that
// defaults bundles and arch, target, multilib and variant blocks contribute.
package proptools

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PropertyNameForField converts the name of a field in a property struct to the property name
// used in recipes.  Recipe properties are lower snake_case, so the first rune is lower cased,
// unless the rest of the name is all upper case, as in "CFLAGS".
func PropertyNameForField(fieldName string) string {
	r, size := utf8.DecodeRuneInString(fieldName)
	propertyName := string(unicode.ToLower(r))
	if size == len(fieldName) {
		return propertyName
	}
	if strings.IndexFunc(fieldName[size:], unicode.IsLower) == -1 &&
		strings.IndexFunc(fieldName[size:], unicode.IsUpper) != -1 {
		return fieldName
	}
	return propertyName + fieldName[size:]
}

// Bool returns true iff b is non-nil and points to true.
func Bool(b *bool) bool {
	return b != nil && *b
}

// String returns the string s points to, or "" if s is nil.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
