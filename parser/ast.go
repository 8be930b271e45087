// Copyright 2016 Google Inc. All rights reserved.
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
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// A Node is anything parsed from a recipe.  Pos is the position of its first token.
type Node interface {
	Pos() scanner.Position
}

// Definition is an Assignment or a Module at the top level of a recipe file.
type Definition interface {
	Node
	String() string
	definitionTag()
}

// An Assignment is a variable assignment at the top level of a recipe file.  The variable is
// bound in the run's Scope as soon as the assignment is parsed.
type Assignment struct {
	Name      string
	NamePos   scanner.Position
	Value     Expression
	EqualsPos scanner.Position
}

func (a *Assignment) String() string { return a.Name + " = " + a.Value.String() }
func (a *Assignment) Pos() scanner.Position { return a.NamePos }
func (a *Assignment) definitionTag() {}

// A Module is a module definition at the top level of a recipe file.  Every Variable and
// Operator in its properties already carries its value.
type Module struct {
	Type    string
	TypePos scanner.Position
	Map
}

func (m *Module) String() string { return m.Type + " " + m.Map.String() }
func (m *Module) Pos() scanner.Position { return m.TypePos }
func (m *Module) definitionTag() {}

// Name returns the value of the module's name property, if it is a string.
func (m *Module) Name() (string, bool) {
	prop, ok := m.GetProperty("name")
	if !ok {
		return "", false
	}
	s, ok := prop.Value.Eval().(*String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// A Property is a name: value pair within a Map, which may be a top level Module.
type Property struct {
	Name     string
	NamePos  scanner.Position
	ColonPos scanner.Position
	Value    Expression
}

func (p *Property) Copy() *Property {
	ret := *p
	ret.Value = p.Value.Copy()
	return &ret
}

func (p *Property) String() string { return p.Name + ": " + p.Value.String() }
func (p *Property) Pos() scanner.Position { return p.NamePos }

// An Expression is the value of a Property or Assignment: a literal (String, Int64, Bool or
// Null), a Map, a List, an Operator combining two expressions, or a Variable substituting the
// value an Assignment had when it was referenced.
type Expression interface {
	Node
	// Copy returns a deep copy; mutating it never affects the receiver.
	Copy() Expression
	// String formats the expression in recipe syntax.
	String() string
	Type() Type
	// Eval returns the fully evaluated List, Map, String, Int64, Bool or Null.  Every call
	// returns the same object.
	Eval() Expression
}

type Type int

const (
	BoolType Type = iota + 1
	StringType
	Int64Type
	ListType
	MapType
	NullType
)

var typeNames = map[Type]string{
	BoolType:   "bool",
	StringType: "string",
	Int64Type:  "int64",
	ListType:   "list",
	MapType:    "map",
	NullType:   "null",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	panic(fmt.Errorf("unknown type %d", t))
}

// An Operator is a binary expression.  Value holds the result, computed when it was parsed.
type Operator struct {
	Args        [2]Expression
	Operator    rune
	OperatorPos scanner.Position
	Value       Expression
}

func (x *Operator) Copy() Expression {
	ret := *x
	ret.Args[0] = x.Args[0].Copy()
	ret.Args[1] = x.Args[1].Copy()
	ret.Value = x.Value.Copy()
	return &ret
}

func (x *Operator) Eval() Expression { return x.Value.Eval() }
func (x *Operator) Type() Type { return x.Value.Type() }
func (x *Operator) Pos() scanner.Position { return x.Args[0].Pos() }

func (x *Operator) String() string {
	return fmt.Sprintf("%s %c %s", x.Args[0], x.Operator, x.Args[1])
}

// A Variable is a reference to an Assignment.  Value is the value the variable was bound to
// when the reference was parsed.
type Variable struct {
	Name    string
	NamePos scanner.Position
	Value   Expression
}

func (x *Variable) Copy() Expression {
	ret := *x
	ret.Value = x.Value.Copy()
	return &ret
}

func (x *Variable) Eval() Expression { return x.Value.Eval() }
func (x *Variable) Type() Type { return x.Value.Type() }
func (x *Variable) Pos() scanner.Position { return x.NamePos }
func (x *Variable) String() string { return x.Name }

type Map struct {
	LBracePos  scanner.Position
	RBracePos  scanner.Position
	Properties []*Property
}

func (x *Map) Copy() Expression {
	ret := *x
	ret.Properties = make([]*Property, len(x.Properties))
	for i := range x.Properties {
		ret.Properties[i] = x.Properties[i].Copy()
	}
	return &ret
}

func (x *Map) Eval() Expression { return x }
func (x *Map) Type() Type { return MapType }
func (x *Map) Pos() scanner.Position { return x.LBracePos }

func (x *Map) String() string {
	props := make([]string, len(x.Properties))
	for i, p := range x.Properties {
		props[i] = p.String()
	}
	return "{" + strings.Join(props, ", ") + "}"
}

// GetProperty returns the property with the given name.
func (x *Map) GetProperty(name string) (*Property, bool) {
	if i := x.propertyIndex(name); i >= 0 {
		return x.Properties[i], true
	}
	return nil, false
}

func (x *Map) propertyIndex(name string) int {
	for i, prop := range x.Properties {
		if prop.Name == name {
			return i
		}
	}
	return -1
}

// SetProperty replaces the value of the property with the given name in place, keeping its
// position in the map, or appends a new property if there is none.
func (x *Map) SetProperty(name string, value Expression) {
	if prop, found := x.GetProperty(name); found {
		prop.Value = value
		return
	}
	x.Properties = append(x.Properties, &Property{
		Name:     name,
		NamePos:  value.Pos(),
		ColonPos: value.Pos(),
		Value:    value,
	})
}

// RemoveProperty removes the property with the given name, if it exists.
func (x *Map) RemoveProperty(name string) bool {
	i := x.propertyIndex(name)
	if i < 0 {
		return false
	}
	x.Properties = append(x.Properties[:i], x.Properties[i+1:]...)
	return true
}

type List struct {
	LBracePos scanner.Position
	RBracePos scanner.Position
	Values    []Expression
}

func (x *List) Copy() Expression {
	ret := *x
	ret.Values = make([]Expression, len(x.Values))
	for i := range ret.Values {
		ret.Values[i] = x.Values[i].Copy()
	}
	return &ret
}

func (x *List) Eval() Expression { return x }
func (x *List) Type() Type { return ListType }
func (x *List) Pos() scanner.Position { return x.LBracePos }

func (x *List) String() string {
	values := make([]string, len(x.Values))
	for i, v := range x.Values {
		values[i] = v.String()
	}
	return "[" + strings.Join(values, ", ") + "]"
}

// Strings returns the evaluated string elements of the list.
func (x *List) Strings() []string {
	ret := make([]string, 0, len(x.Values))
	for _, v := range x.Values {
		if s, ok := v.Eval().(*String); ok {
			ret = append(ret, s.Value)
		}
	}
	return ret
}

type String struct {
	LiteralPos scanner.Position
	Value      string
}

func (x *String) Copy() Expression { ret := *x; return &ret }
func (x *String) Eval() Expression { return x }
func (x *String) Type() Type { return StringType }
func (x *String) Pos() scanner.Position { return x.LiteralPos }
func (x *String) String() string { return `"` + x.Value + `"` }

type Int64 struct {
	LiteralPos scanner.Position
	Value      int64
}

func (x *Int64) Copy() Expression { ret := *x; return &ret }
func (x *Int64) Eval() Expression { return x }
func (x *Int64) Type() Type { return Int64Type }
func (x *Int64) Pos() scanner.Position { return x.LiteralPos }
func (x *Int64) String() string { return strconv.FormatInt(x.Value, 10) }

type Bool struct {
	LiteralPos scanner.Position
	Value      bool
}

func (x *Bool) Copy() Expression { ret := *x; return &ret }
func (x *Bool) Eval() Expression { return x }
func (x *Bool) Type() Type { return BoolType }
func (x *Bool) Pos() scanner.Position { return x.LiteralPos }
func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

type Null struct {
	LiteralPos scanner.Position
}

func (x *Null) Copy() Expression { ret := *x; return &ret }
func (x *Null) Eval() Expression { return x }
func (x *Null) Type() Type { return NullType }
func (x *Null) Pos() scanner.Position { return x.LiteralPos }
func (x *Null) String() string { return "null" }

// A Comment is a // line comment or a /* */ block comment, split into lines.
type Comment struct {
	Comment []string
	Slash   scanner.Position
}

// Text returns the comment with the comment markers stripped, one line per element followed by
// a newline.
func (c Comment) Text() string {
	var b strings.Builder
	block := strings.HasPrefix(c.Comment[0], "/*")
	for i, line := range c.Comment {
		if block {
			if i == 0 {
				line = strings.TrimPrefix(line, "/*")
			}
			if i == len(c.Comment)-1 {
				line = strings.TrimSuffix(line, "*/")
			}
		} else {
			line = strings.TrimPrefix(line, "//")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
