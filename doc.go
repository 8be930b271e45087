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

// Package bp2make translates Soong-style Android.bp recipes into a GNU Makefile, so that
// projects described with cc_library, cc_binary and cc_defaults modules can be built with plain
// make and packaged with the usual Debian tooling.
//
// A recipe is a list of variable assignments and modules.  Values are strings, integers,
// booleans, null, lists of strings and maps, and "+" adds integers or concatenates lists while
// the recipe is parsed.  For example:
//
//	common_cflags = ["-Wall", "-Werror"]
//
//	cc_defaults {
//	    name: "libfoo_defaults",
//	    cflags: common_cflags + ["-DFOO"],
//	}
//
//	cc_library {
//	    name: "libfoo",
//	    defaults: ["libfoo_defaults"],
//	    srcs: ["foo.c"],
//	    shared_libs: ["liblog"],
//	    arch: {
//	        x86_64: {
//	            srcs: ["foo_x86_64.c"],
//	        },
//	    },
//	}
//
// Recipes are executed one after another.  Each module resolves its defaults bundles, its arch,
// target and multilib overlays and, for libraries, its shared or static overlay into flags.  A
// library it links against is part of the build graph if a module of that name was declared
// in a recipe executed so far; otherwise it is looked up in the host's library directories.
// Shared libraries take their ABI version from the library packages listed in debian/control.
//
// Module types that are not understood produce a warning and are skipped.
package bp2make
