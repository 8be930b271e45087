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

package parser

import "sort"

// Scope is the variable table shared by every file parsed in a run.  Names are never removed.
// Assigning to a name that is already bound rebinds it for later references; values that were
// substituted before the rebinding are not affected.
type Scope struct {
	vars map[string]*Assignment
}

func NewScope() *Scope {
	return &Scope{
		vars: make(map[string]*Assignment),
	}
}

func (s *Scope) Set(assignment *Assignment) {
	s.vars[assignment.Name] = assignment
}

func (s *Scope) Get(name string) (*Assignment, bool) {
	a, ok := s.vars[name]
	return a, ok
}

// Names returns the bound variable names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
