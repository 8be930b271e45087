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
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overlayRecipe = `
cc_defaults {
    name: "base_defaults",
    cflags: ["-DBASE", "-Werror"],
    cppflags: ["-DCPP"],
    ldflags: ["-m64", "-Wl,--gc-sections"],
    shared_libs: ["liblog"],
    srcs: ["common.c"],
    local_include_dirs: ["inc"],
}

cc_library_shared {
    name: "libfoo",
    defaults: ["base_defaults", "missing_defaults"],
    srcs: ["foo.c"],
    cflags: ["-DEXPLICIT", "-Werror"],
    arch: {
        x86_64: {
            cflags: ["-DARCH"],
            srcs: ["x86.c"],
        },
        arm: {
            cflags: ["-DARM"],
        },
    },
    target: {
        linux_glibc: {
            cflags: ["-DTARGET"],
        },
        linux_bionic: {
            cflags: ["-DBIONIC"],
        },
    },
    multilib: {
        lib64: {
            cflags: ["-DLIB64"],
        },
        lib32: {
            cflags: ["-DLIB32"],
        },
    },
    shared: {
        cflags: ["-DSHARED"],
    },
    static: {
        cflags: ["-DSTATIC"],
    },
}
`

func TestDefaultsVariables(t *testing.T) {
	ctx := newTestContext(t, map[string]string{"foo/Android.bp": overlayRecipe})
	parseRecipes(t, ctx, "foo/Android.bp")

	rules := moduleRules(ctx, "base_defaults")
	require.Len(t, rules, 1)
	r := rules[0]

	assert.Nil(t, r.Build)
	assert.Empty(t, r.Target())
	assert.Equal(t, "-DCPP -Ifoo/inc", mustVar(t, r, "base_defaults_CXXFLAGS"))
	assert.Equal(t, "-DBASE -Ifoo/inc", mustVar(t, r, "base_defaults_CFLAGS"))
	assert.Equal(t, "-Wl,--gc-sections", mustVar(t, r, "base_defaults_LDFLAGS"))
	assert.Equal(t, "-llog", mustVar(t, r, "base_defaults_LDLIBS"))
	assert.Equal(t, "foo/common.c", mustVar(t, r, "base_defaults_SRCS"))

	// Defaults bundles are not build targets.
	assert.Equal(t, []string{"libfoo.so.$(libfoo_soversion)"}, ctx.Targets())
}

func TestOverlayOrder(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := newTestContext(t, map[string]string{"foo/Android.bp": overlayRecipe}, WithLogger(logger))
	parseRecipes(t, ctx, "foo/Android.bp")

	rules := moduleRules(ctx, "libfoo")
	require.Len(t, rules, 1)
	r := rules[0]

	assert.Equal(t,
		"$(base_defaults_CFLAGS) -DSHARED -DLIB64 -DTARGET -DARCH -DEXPLICIT $(libfoo_INCLUDES) $(libfoo_SYSTEM_INCLUDES)",
		mustVar(t, r, "libfoo_CFLAGS"))
	assert.Equal(t,
		"$(base_defaults_CXXFLAGS) $(libfoo_INCLUDES) $(libfoo_SYSTEM_INCLUDES)",
		mustVar(t, r, "libfoo_CXXFLAGS"))
	assert.Equal(t, "$(base_defaults_LDFLAGS)", mustVar(t, r, "libfoo_LDFLAGS"))
	assert.Equal(t, "$(base_defaults_LDLIBS)", mustVar(t, r, "libfoo_LDLIBS"))
	assert.Equal(t, "$(base_defaults_SRCS) foo/x86.c foo/foo.c", mustVar(t, r, "libfoo_SRCS"))
	assert.Equal(t, "foo", mustVar(t, r, "libfoo_DIR"))

	assert.Contains(t, logs.String(), `msg="skipping unknown defaults" defaults=missing_defaults`)
}

func TestOverlayOrderOtherHost(t *testing.T) {
	ctx := newTestContext(t, map[string]string{"foo/Android.bp": overlayRecipe},
		WithHost(Host{Arch: "armhf", Multiarch: "arm-linux-gnueabihf", Target: "linux_bionic"}))
	parseRecipes(t, ctx, "foo/Android.bp")

	rules := moduleRules(ctx, "libfoo")
	require.Len(t, rules, 1)
	assert.Equal(t,
		"$(base_defaults_CFLAGS) -DSHARED -DLIB32 -DBIONIC -DARM -DEXPLICIT $(libfoo_INCLUDES) $(libfoo_SYSTEM_INCLUDES)",
		mustVar(t, rules[0], "libfoo_CFLAGS"))
	assert.Equal(t, "$(base_defaults_SRCS) foo/foo.c", mustVar(t, rules[0], "libfoo_SRCS"))
}

func TestVariantOverlayOnlyAffectsItsVariant(t *testing.T) {
	ctx := newTestContext(t, map[string]string{
		"Android.bp": `
			cc_library_static {
				name: "libfoo",
				srcs: ["foo.c"],
				shared: { cflags: ["-DSHARED"] },
				static: { cflags: ["-DSTATIC"] },
			}
		`,
	})
	parseRecipes(t, ctx, "Android.bp")

	rules := moduleRules(ctx, "libfoo")
	require.Len(t, rules, 1)
	assert.Equal(t, "-DSTATIC $(libfoo_INCLUDES) $(libfoo_SYSTEM_INCLUDES)",
		mustVar(t, rules[0], "libfoo_CFLAGS"))
	assert.Equal(t, "libfoo.a", rules[0].Target())
}

func TestLibrarySharedVariantOwnsVariables(t *testing.T) {
	ctx := newTestContext(t, map[string]string{
		"Android.bp": `
			cc_library {
				name: "libfoo",
				srcs: ["foo.c"],
				shared: { srcs: ["shared.c"] },
				static: { srcs: ["static.c"] },
			}
		`,
	})
	parseRecipes(t, ctx, "Android.bp")

	rules := moduleRules(ctx, "libfoo")
	require.Len(t, rules, 2)
	// Only the shared variant writes variables, and they hold its own overlay.
	assert.Equal(t, "shared.c foo.c", mustVar(t, rules[0], "libfoo_SRCS"))
	assert.Empty(t, rules[1].Vars)
}

func TestFlagDenylist(t *testing.T) {
	ctx := newTestContext(t, map[string]string{
		"Android.bp": `
			cc_binary {
				name: "foo",
				srcs: ["main.c"],
				cflags: ["-Wall", "-Werror", "-U_FORTIFY_SOURCE", "-Wno-#pragma-messages", "-Werror=format"],
				cppflags: ["-m32", "-fno-rtti"],
				ldflags: ["-m64", "-Wl,-z,defs"],
			}
		`,
	})
	parseRecipes(t, ctx, "Android.bp")

	rules := moduleRules(ctx, "foo")
	require.Len(t, rules, 1)
	assert.Equal(t, "-Wall -Werror=format", mustVar(t, rules[0], "foo_CFLAGS"))
	assert.Equal(t, "-fno-rtti", mustVar(t, rules[0], "foo_CXXFLAGS"))
	assert.Equal(t, "-Wl,-z,defs", mustVar(t, rules[0], "foo_LDFLAGS"))
}

func TestDefaultsFromEarlierRecipe(t *testing.T) {
	ctx := newTestContext(t, map[string]string{
		"Android.bp":     `cc_defaults { name: "shared_defaults", cflags: ["-DX"] }`,
		"bin/Android.bp": `cc_binary { name: "foo", srcs: ["main.c"], defaults: ["shared_defaults"] }`,
	})
	parseRecipes(t, ctx, "Android.bp", "bin/Android.bp")

	rules := moduleRules(ctx, "foo")
	require.Len(t, rules, 1)
	assert.Equal(t, "$(shared_defaults_CFLAGS)", mustVar(t, rules[0], "foo_CFLAGS"))
	assert.Equal(t, "$(shared_defaults_SRCS) bin/main.c", mustVar(t, rules[0], "foo_SRCS"))
}
