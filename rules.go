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

// A Var is a make variable assignment.
type Var struct {
	Name  string
	Value string

	// Conditional assignments (?=) can be overridden from the make command line or environment.
	Conditional bool
}

func (v Var) op() string {
	if v.Conditional {
		return "?="
	}
	return "="
}

// A Rule is a make rule.
type Rule struct {
	Target string
	Deps   []string
	Recipe []string
}

// ModuleRules is everything generated for one variant of one module, in output order.
type ModuleRules struct {
	Name string

	Comment string
	Vars    []Var

	// Alias maps the unversioned shared object name to the versioned target.
	Alias *Rule
	Build *Rule
	Clean *Rule

	Install *Rule
	// InstallDir is where Install puts the target, relative to $(DESTDIR).
	InstallDir string

	Headers *Rule
}

// Target returns the primary target, empty if the module builds nothing.
func (r *ModuleRules) Target() string {
	if r.Build == nil {
		return ""
	}
	return r.Build.Target
}

// Var returns the value of the named variable and whether it is set.
func (r *ModuleRules) Var(name string) (string, bool) {
	for _, v := range r.Vars {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

func (r *ModuleRules) write(w *makeWriter) error {
	if r.Comment != "" {
		if err := w.Comment(r.Comment); err != nil {
			return err
		}
	}

	if len(r.Vars) > 0 {
		width := 0
		for _, v := range r.Vars {
			if len(v.Name) > width {
				width = len(v.Name)
			}
		}
		for _, v := range r.Vars {
			if err := w.Assign(v.Name, v.op(), v.Value, width); err != nil {
				return err
			}
		}
		if err := w.BlankLine(); err != nil {
			return err
		}
	}

	for _, group := range [][]*Rule{{r.Alias, r.Build}, {r.Clean}, {r.Install}, {r.Headers}} {
		wrote := false
		for _, rule := range group {
			if rule == nil {
				continue
			}
			if err := w.Rule(rule.Target, rule.Deps, rule.Recipe); err != nil {
				return err
			}
			wrote = true
		}
		if wrote {
			if err := w.BlankLine(); err != nil {
				return err
			}
		}
	}

	return nil
}
