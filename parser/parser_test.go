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

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"text/scanner"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkpos(offset, line, column int) scanner.Position {
	return scanner.Position{
		Offset: offset,
		Line:   line,
		Column: column,
	}
}

// plain converts an evaluated expression into ordinary Go values so tests can compare them
// without caring about positions.
func plain(e Expression) interface{} {
	switch v := e.Eval().(type) {
	case *String:
		return v.Value
	case *Int64:
		return v.Value
	case *Bool:
		return v.Value
	case *Null:
		return nil
	case *List:
		ret := []interface{}{}
		for _, x := range v.Values {
			ret = append(ret, plain(x))
		}
		return ret
	case *Map:
		ret := [][2]interface{}{}
		for _, p := range v.Properties {
			ret = append(ret, [2]interface{}{p.Name, plain(p.Value)})
		}
		return ret
	default:
		panic(fmt.Errorf("unexpected expression %T", e))
	}
}

func parseString(t *testing.T, input string, scope *Scope) *File {
	t.Helper()
	file, errs := Parse("test.bp", strings.NewReader(input), scope)
	require.Empty(t, errs)
	return file
}

func variable(t *testing.T, scope *Scope, name string) interface{} {
	t.Helper()
	a, ok := scope.Get(name)
	require.True(t, ok, "variable %q not bound", name)
	return plain(a.Value)
}

func TestParseModulePositions(t *testing.T) {
	input := "foo {\n\tname: \"abc\",\n}\n"
	file, errs := Parse("", bytes.NewBufferString(input), NewScope())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	expected := []Definition{
		&Module{
			Type:    "foo",
			TypePos: mkpos(0, 1, 1),
			Map: Map{
				LBracePos: mkpos(4, 1, 5),
				RBracePos: mkpos(20, 3, 1),
				Properties: []*Property{
					{
						Name:     "name",
						NamePos:  mkpos(7, 2, 2),
						ColonPos: mkpos(11, 2, 6),
						Value: &String{
							LiteralPos: mkpos(13, 2, 8),
							Value:      "abc",
						},
					},
				},
			},
		},
	}

	if !reflect.DeepEqual(file.Defs, expected) {
		t.Errorf("incorrect definitions:")
		t.Errorf("  expected: %s", expected[0])
		t.Errorf("       got: %s", file.Defs[0])
	}
}

func TestIntegerAddition(t *testing.T) {
	values := []int64{0, 1, 7, 42, 1000, 9223372036854775000}
	for _, a := range values {
		for _, b := range []int64{0, 3, 500, 807} {
			t.Run(fmt.Sprintf("%d+%d", a, b), func(t *testing.T) {
				scope := NewScope()
				parseString(t, fmt.Sprintf("x = %d + %d", a, b), scope)
				assert.Equal(t, a+b, variable(t, scope, "x"))
			})
		}
	}
}

func TestListConcatenationPreservesOrder(t *testing.T) {
	testCases := []struct {
		left, right []string
	}{
		{nil, nil},
		{[]string{"a"}, nil},
		{nil, []string{"b"}},
		{[]string{"a", "b"}, []string{"c"}},
		{[]string{"z", "y"}, []string{"x", "w", "v"}},
		{[]string{"same"}, []string{"same"}},
	}

	quote := func(l []string) string {
		q := make([]string, len(l))
		for i, s := range l {
			q[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	}

	for _, tc := range testCases {
		input := fmt.Sprintf("x = %s + %s", quote(tc.left), quote(tc.right))
		t.Run(input, func(t *testing.T) {
			scope := NewScope()
			parseString(t, input, scope)

			want := []interface{}{}
			for _, s := range append(append([]string{}, tc.left...), tc.right...) {
				want = append(want, s)
			}
			if diff := cmp.Diff(want, variable(t, scope, "x")); diff != "" {
				t.Errorf("concatenation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariableOperands(t *testing.T) {
	scope := NewScope()
	parseString(t, `
		A = 2
		B = 40
		SUM = A + B
		L1 = ["a", "b"]
		L2 = ["c"]
		L = L1 + L2
		CHAIN = L2 + L1 + ["d"]
	`, scope)

	assert.Equal(t, int64(42), variable(t, scope, "SUM"))
	assert.Equal(t, []interface{}{"a", "b", "c"}, variable(t, scope, "L"))
	assert.Equal(t, []interface{}{"c", "a", "b", "d"}, variable(t, scope, "CHAIN"))
}

func TestVariableInModule(t *testing.T) {
	file := parseString(t, `
		VAR = ["a", "b"]
		cc_library {
			name: "libx",
			srcs: VAR + ["c"],
		}
	`, NewScope())

	modules := file.Modules()
	require.Len(t, modules, 1)
	name, ok := modules[0].Name()
	require.True(t, ok)
	assert.Equal(t, "libx", name)

	srcs, ok := modules[0].GetProperty("srcs")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b", "c"}, plain(srcs.Value))
}

func TestVariablesAcrossFiles(t *testing.T) {
	scope := NewScope()
	parseString(t, `COMMON = ["-DFOO"]`, scope)
	file := parseString(t, `foo { cflags: COMMON }`, scope)

	prop, ok := file.Modules()[0].GetProperty("cflags")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"-DFOO"}, plain(prop.Value))
}

func TestRebindingKeepsEarlierSubstitutions(t *testing.T) {
	scope := NewScope()
	file := parseString(t, `
		X = ["old"]
		first { srcs: X }
		X = ["new"]
		second { srcs: X }
	`, scope)

	modules := file.Modules()
	require.Len(t, modules, 2)
	first, _ := modules[0].GetProperty("srcs")
	second, _ := modules[1].GetProperty("srcs")
	assert.Equal(t, []interface{}{"old"}, plain(first.Value))
	assert.Equal(t, []interface{}{"new"}, plain(second.Value))
	assert.Equal(t, []interface{}{"new"}, variable(t, scope, "X"))
}

func TestLiterals(t *testing.T) {
	file := parseString(t, `
		// leading comment
		foo {
			s: "double",
			q: 'single',
			e: "a\"b\n",
			i: 17,
			t: true,
			f: false,
			n: null,
			empty: [],
			trailing: ["x", "y",],
			"quoted key": "v",
			nested: {
				inner: ["z"],
				deeper: { flag: true, },
			},
		}
		/* trailing
		   block comment */
	`, NewScope())

	want := [][2]interface{}{
		{"s", "double"},
		{"q", "single"},
		{"e", `a\"b\n`},
		{"i", int64(17)},
		{"t", true},
		{"f", false},
		{"n", nil},
		{"empty", []interface{}{}},
		{"trailing", []interface{}{"x", "y"}},
		{"quoted key", "v"},
		{"nested", [][2]interface{}{
			{"inner", []interface{}{"z"}},
			{"deeper", [][2]interface{}{{"flag", true}}},
		}},
	}

	module := file.Modules()[0]
	if diff := cmp.Diff(want, plain(&module.Map)); diff != "" {
		t.Errorf("module properties mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, file.Comments, 2)
	assert.Equal(t, " leading comment\n", file.Comments[0].Text())
	assert.Equal(t, 2, len(file.Comments[1].Comment))
}

func TestDefinitionString(t *testing.T) {
	file := parseString(t, `
		l = ["a"]
		foo { name: "x", srcs: l + ["b"], n: 1 + 2, on: true, none: null, opts: {k: "v"} }
	`, NewScope())

	require.Len(t, file.Defs, 2)
	assert.Equal(t, `l = ["a"]`, file.Defs[0].String())
	assert.Equal(t, `foo {name: "x", srcs: l + ["b"], n: 1 + 2, on: true, none: null, opts: {k: "v"}}`,
		file.Defs[1].String())
}

func TestDuplicatePropertyReplacesInPlace(t *testing.T) {
	file := parseString(t, `foo { a: "1", b: "2", a: "3" }`, NewScope())
	want := [][2]interface{}{{"a", "3"}, {"b", "2"}}
	assert.Equal(t, want, plain(&file.Modules()[0].Map))
}

func TestParseExpression(t *testing.T) {
	scope := NewScope()
	parseString(t, `BASE = 40`, scope)

	value, errs := ParseExpression(strings.NewReader(`BASE + 2`), scope)
	require.Empty(t, errs)
	assert.Equal(t, int64(42), plain(value))
	assert.Equal(t, Int64Type, value.Type())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		err   string
	}{
		{"undefined variable", `foo { srcs: MISSING }`, `variable "MISSING" is not set`},
		{"undefined before assignment", "x = Y\nY = 1", `variable "Y" is not set`},
		{"string concatenation", `x = "a" + "b"`, "operator + not supported on type string"},
		{"mismatched concatenation", `x = ["a"] + 1`, "mismatched type in operator +: list != int64"},
		{"map concatenation", `x = {a: "b"} + {c: "d"}`, "operator + not supported on type map"},
		{"integer in list", `x = [1]`, "expected string in list, found int64"},
		{"unterminated module", `foo {`, "expected"},
		{"missing value", `foo { a: }`, "expected bool, integer, list, map, null or string value"},
		{"bare operator", `= 1`, "expected assignment or module definition"},
		{"negative integer", `x = -1`, "expected bool, integer, list, map, null or string value"},
		{"unterminated string", "x = \"abc\n", "string literal not terminated"},
		{"missing colon", `foo { a "b" }`, `expected ":"`},
		{"integer overflow", `x = 9223372036854775807 + 1`, "integer overflow in operator +"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := Parse("bad.bp", strings.NewReader(tc.input), NewScope())
			require.Len(t, errs, 1)

			var parseErr *ParseError
			require.True(t, errors.As(errs[0], &parseErr))
			assert.Contains(t, parseErr.Error(), tc.err)
			assert.Equal(t, "bad.bp", parseErr.Pos.Filename)
		})
	}
}

func TestOperatorErrorPosition(t *testing.T) {
	input := "x = 1\n" +
		"y = [\"a\"]\n" +
		"z = y +\n" +
		"    x\n"

	_, errs := Parse("a.bp", strings.NewReader(input), NewScope())
	require.Len(t, errs, 1)

	var parseErr *ParseError
	require.True(t, errors.As(errs[0], &parseErr))
	assert.Equal(t, 3, parseErr.Pos.Line)
	assert.Equal(t, 7, parseErr.Pos.Column)
	assert.Equal(t, "a.bp:3:7: mismatched type in operator +: list != int64", parseErr.Error())
}

func TestScopeNames(t *testing.T) {
	scope := NewScope()
	parseString(t, "b = 1\na = [\"x\"]\nb = 2", scope)
	assert.Equal(t, []string{"a", "b"}, scope.Names())
	assert.Equal(t, int64(2), variable(t, scope, "b"))
}
