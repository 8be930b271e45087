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
	"github.com/minisoong/bp2make/parser"
	"github.com/minisoong/bp2make/proptools"
)

// flagDenylist holds flags that are dropped from cflags, cppflags and ldflags.
var flagDenylist = []string{
	"-Werror",
	"-U_FORTIFY_SOURCE",
	"-m32",
	"-m64",
	"-Wno-#pragma-messages",
}

// defaultsRefs are the make variable references contributed by the defaults bundles a module
// lists.
type defaultsRefs struct {
	cxxflags []string
	cflags   []string
	ldflags  []string
	ldlibs   []string
	srcs     []string
}

func varRef(module, suffix string) string {
	return "$(" + module + "_" + suffix + ")"
}

// collectDefaults resolves the defaults of a module.  props must be a working copy; the arch,
// target and multilib overlays and then the variant overlay ("shared", "static" or none) are
// merged into it in that order.  The returned references point at the variables written for
// each known defaults bundle in props' defaults list.
func (c *Context) collectDefaults(props *parser.Map, variant string) defaultsRefs {
	var refs defaultsRefs
	for _, name := range proptools.GetStringList(props, "defaults") {
		if _, ok := c.defaults[name]; !ok {
			c.logger.Debug("skipping unknown defaults", "defaults", name, "recipe", c.recipe.Path)
			continue
		}
		refs.cxxflags = append(refs.cxxflags, varRef(name, "CXXFLAGS"))
		refs.cflags = append(refs.cflags, varRef(name, "CFLAGS"))
		refs.ldflags = append(refs.ldflags, varRef(name, "LDFLAGS"))
		refs.ldlibs = append(refs.ldlibs, varRef(name, "LDLIBS"))
		refs.srcs = append(refs.srcs, varRef(name, "SRCS"))
	}

	arch := MapArch(c.host.Arch)
	c.mergeOverlay(props, proptools.GetMap(proptools.GetMap(props, "arch"), arch))
	c.mergeOverlay(props, proptools.GetMap(proptools.GetMap(props, "target"), c.host.target()))
	c.mergeOverlay(props, proptools.GetMap(proptools.GetMap(props, "multilib"), Multilib(arch)))
	if variant != "" {
		c.mergeOverlay(props, proptools.GetMap(props, variant))
	}

	return refs
}

func (c *Context) mergeOverlay(props, overlay *parser.Map) {
	if overlay == nil {
		return
	}
	// The overlay may be nested inside props, so merge from a copy.
	proptools.MergeDefaults(props, overlay.Copy().(*parser.Map))
}
