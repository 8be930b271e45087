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
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"
)

var errTooManyErrors = errors.New("too many errors")

const maxErrors = 1

type ParseError struct {
	Err error
	Pos scanner.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type File struct {
	Name     string
	Defs     []Definition
	Comments []*Comment
}

// Modules returns the module definitions of the file in source order.
func (f *File) Modules() []*Module {
	var modules []*Module
	for _, def := range f.Defs {
		if m, ok := def.(*Module); ok {
			modules = append(modules, m)
		}
	}
	return modules
}

func parse(p *parser) (file *File, errs []error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errTooManyErrors {
				errs = p.errors
				return
			}
			panic(r)
		}
	}()

	defs := p.parseDefinitions()
	p.accept(scanner.EOF)
	errs = p.errors
	comments := p.comments

	return &File{
		Name:     p.scanner.Filename,
		Defs:     defs,
		Comments: comments,
	}, errs

}

// Parse reads a recipe file and returns its definitions.  Variable references and operators are
// evaluated while parsing: every assignment is bound in scope as soon as it is read, so a
// reference can only see variables assigned earlier in this file or in files parsed before it
// with the same scope.
func Parse(filename string, r io.Reader, scope *Scope) (file *File, errs []error) {
	if scope == nil {
		scope = NewScope()
	}
	p := newParser(r, scope)
	p.scanner.Filename = filename

	return parse(p)
}

// ParseExpression parses a single value expression, for use in tests and tooling.
func ParseExpression(r io.Reader, scope *Scope) (value Expression, errs []error) {
	if scope == nil {
		scope = NewScope()
	}
	p := newParser(r, scope)
	defer func() {
		if r := recover(); r != nil {
			if r == errTooManyErrors {
				errs = p.errors
				return
			}
			panic(r)
		}
	}()
	value = p.parseExpression()
	p.accept(scanner.EOF)
	errs = p.errors
	return
}

type parser struct {
	scanner  scanner.Scanner
	tok      rune
	errors   []error
	scope    *Scope
	comments []*Comment
}

func newParser(r io.Reader, scope *Scope) *parser {
	p := &parser{}
	p.scope = scope
	p.scanner.Init(r)
	p.scanner.Error = func(sc *scanner.Scanner, msg string) {
		p.errorf(msg)
	}
	// String literals are scanned by hand: they keep their escapes verbatim and may use either
	// quote character.
	p.scanner.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments
	p.next()
	return p
}

func (p *parser) error(err error) {
	pos := p.scanner.Position
	if !pos.IsValid() {
		pos = p.scanner.Pos()
	}
	p.errorAt(pos, err)
}

func (p *parser) errorAt(pos scanner.Position, err error) {
	err = &ParseError{
		Err: err,
		Pos: pos,
	}
	p.errors = append(p.errors, err)
	if len(p.errors) >= maxErrors {
		panic(errTooManyErrors)
	}
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.error(fmt.Errorf(format, args...))
}

func (p *parser) accept(toks ...rune) bool {
	for _, tok := range toks {
		if p.tok != tok {
			p.errorf("expected %s, found %s", scanner.TokenString(tok),
				scanner.TokenString(p.tok))
			return false
		}
		p.next()
	}
	return true
}

func (p *parser) next() {
	if p.tok != scanner.EOF {
		p.tok = p.scanner.Scan()
		for p.tok == scanner.Comment {
			lines := strings.Split(p.scanner.TokenText(), "\n")
			p.comments = append(p.comments, &Comment{lines, p.scanner.Position})
			p.tok = p.scanner.Scan()
		}
	}
}

func (p *parser) parseDefinitions() (defs []Definition) {
	for {
		switch p.tok {
		case scanner.Ident:
			ident := p.scanner.TokenText()
			pos := p.scanner.Position

			p.accept(scanner.Ident)

			switch p.tok {
			case '=':
				defs = append(defs, p.parseAssignment(ident, pos))
			case '{':
				defs = append(defs, p.parseModule(ident, pos))
			default:
				p.errorf("expected \"=\" or \"{\", found %s",
					scanner.TokenString(p.tok))
			}
		case scanner.EOF:
			return
		default:
			p.errorf("expected assignment or module definition, found %s",
				scanner.TokenString(p.tok))
			return
		}
	}
}

func (p *parser) parseAssignment(name string, namePos scanner.Position) (assignment *Assignment) {
	assignment = new(Assignment)

	pos := p.scanner.Position
	if !p.accept('=') {
		return
	}
	value := p.parseExpression()

	assignment.Name = name
	assignment.NamePos = namePos
	assignment.Value = value
	assignment.EqualsPos = pos

	p.scope.Set(assignment)

	return
}

func (p *parser) parseModule(typ string, typPos scanner.Position) *Module {
	compat := p.parseMapValue()
	return &Module{
		Type:    typ,
		TypePos: typPos,
		Map:     *compat,
	}
}

func (p *parser) parsePropertyList() (properties []*Property) {
	for p.tok == scanner.Ident || isQuote(p.tok) {
		property := p.parseProperty()

		replaced := false
		for i, prev := range properties {
			if prev.Name == property.Name {
				properties[i] = property
				replaced = true
				break
			}
		}
		if !replaced {
			properties = append(properties, property)
		}

		if p.tok != ',' {
			// There was no comma, so the list is done.
			break
		}

		p.accept(',')
	}

	return
}

func (p *parser) parseProperty() (property *Property) {
	property = new(Property)

	var name string
	namePos := p.scanner.Position
	if isQuote(p.tok) {
		name = p.scanQuoted()
	} else {
		name = p.scanner.TokenText()
		p.accept(scanner.Ident)
	}
	pos := p.scanner.Position

	if !p.accept(':') {
		return
	}

	value := p.parseExpression()

	property.Name = name
	property.NamePos = namePos
	property.ColonPos = pos
	property.Value = value

	return
}

func (p *parser) parseExpression() (value Expression) {
	value = p.parseValue()
	for p.tok == '+' {
		value = p.parseOperator(value)
	}
	return value
}

func (p *parser) evaluateOperator(value1, value2 Expression, operator rune,
	pos scanner.Position) (*Operator, error) {

	left, right := value1.Eval(), value2.Eval()
	if left.Type() != right.Type() {
		return nil, fmt.Errorf("mismatched type in operator %c: %s != %s", operator,
			left.Type(), right.Type())
	}

	var value Expression
	switch operator {
	case '+':
		switch l := left.(type) {
		case *Int64:
			r := right.(*Int64)
			sum := l.Value + r.Value
			if (l.Value >= 0) == (r.Value >= 0) && (sum >= 0) != (l.Value >= 0) {
				return nil, fmt.Errorf("integer overflow in operator %c: %d %c %d", operator,
					l.Value, operator, r.Value)
			}
			value = &Int64{
				LiteralPos: l.LiteralPos,
				Value:      sum,
			}
		case *List:
			r := right.(*List)
			list := &List{
				LBracePos: l.LBracePos,
				RBracePos: r.RBracePos,
				Values:    make([]Expression, 0, len(l.Values)+len(r.Values)),
			}
			for _, v := range l.Values {
				list.Values = append(list.Values, v.Copy())
			}
			for _, v := range r.Values {
				list.Values = append(list.Values, v.Copy())
			}
			value = list
		default:
			return nil, fmt.Errorf("operator %c not supported on type %s", operator,
				left.Type())
		}
	default:
		panic("unknown operator " + string(operator))
	}

	return &Operator{
		Args:        [2]Expression{value1, value2},
		Operator:    operator,
		OperatorPos: pos,
		Value:       value,
	}, nil
}

func (p *parser) parseOperator(value1 Expression) Expression {
	operator := p.tok
	pos := p.scanner.Position
	p.accept(operator)

	value2 := p.parseValue()

	value, err := p.evaluateOperator(value1, value2, operator, pos)
	if err != nil {
		p.errorAt(pos, err)
		return value1
	}

	return value
}

func (p *parser) parseValue() (value Expression) {
	switch p.tok {
	case scanner.Ident:
		return p.parseVariable()
	case scanner.Int:
		return p.parseIntValue()
	case '"', '\'':
		return p.parseStringValue()
	case '[':
		return p.parseListValue()
	case '{':
		return p.parseMapValue()
	default:
		p.errorf("expected bool, integer, list, map, null or string value; found %s",
			scanner.TokenString(p.tok))
		return
	}
}

func (p *parser) parseVariable() Expression {
	var value Expression

	text := p.scanner.TokenText()
	pos := p.scanner.Position
	switch text {
	case "true":
		value = &Bool{LiteralPos: pos, Value: true}
	case "false":
		value = &Bool{LiteralPos: pos, Value: false}
	case "null":
		value = &Null{LiteralPos: pos}
	default:
		assignment, ok := p.scope.Get(text)
		if !ok {
			p.errorf("variable %q is not set", text)
			return nil
		}
		value = &Variable{
			Name:    text,
			NamePos: pos,
			Value:   assignment.Value,
		}
	}

	p.accept(scanner.Ident)
	return value
}

func (p *parser) parseIntValue() *Int64 {
	text := p.scanner.TokenText()
	pos := p.scanner.Position
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		p.errorf("couldn't parse integer: %s", err)
		return nil
	}
	p.accept(scanner.Int)
	return &Int64{
		LiteralPos: pos,
		Value:      i,
	}
}

func (p *parser) parseStringValue() *String {
	pos := p.scanner.Position
	str := p.scanQuoted()
	return &String{
		LiteralPos: pos,
		Value:      str,
	}
}

// scanQuoted consumes a string literal whose opening quote is the current token.  The contents
// are returned without the quotes; backslash escapes are kept as written, but an escaped quote
// does not terminate the literal.
func (p *parser) scanQuoted() string {
	quote := p.tok
	var buf strings.Builder
	for {
		ch := p.scanner.Next()
		switch ch {
		case quote:
			p.next()
			return buf.String()
		case '\\':
			buf.WriteRune(ch)
			ch = p.scanner.Next()
			if ch == scanner.EOF {
				p.errorf("string literal not terminated")
				return ""
			}
		case '\n', scanner.EOF:
			p.errorf("string literal not terminated")
			return ""
		}
		buf.WriteRune(ch)
	}
}

func (p *parser) parseListValue() *List {
	lBracePos := p.scanner.Position
	if !p.accept('[') {
		return nil
	}

	var elements []Expression
	for p.tok != ']' {
		element := p.parseExpression()
		if element.Eval().Type() != StringType {
			p.errorf("expected string in list, found %s", element.Eval().Type())
			return nil
		}
		elements = append(elements, element)

		if p.tok != ',' {
			// There was no comma, so the list is done.
			break
		}

		p.accept(',')
	}

	rBracePos := p.scanner.Position
	p.accept(']')

	return &List{
		LBracePos: lBracePos,
		RBracePos: rBracePos,
		Values:    elements,
	}
}

func (p *parser) parseMapValue() *Map {
	lBracePos := p.scanner.Position
	if !p.accept('{') {
		return nil
	}

	properties := p.parsePropertyList()

	rBracePos := p.scanner.Position
	p.accept('}')

	return &Map{
		LBracePos:  lBracePos,
		RBracePos:  rBracePos,
		Properties: properties,
	}
}

func isQuote(tok rune) bool {
	return tok == '"' || tok == '\''
}
