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

package bp2make

import (
	"io"
	"strings"
	"unicode"
)

const (
	indentWidth    = 4
	maxIndentDepth = 2
	lineWidth      = 80
)

var indentString = strings.Repeat(" ", indentWidth*maxIndentDepth)

type makeWriter struct {
	writer io.StringWriter

	justDidBlankLine bool // true if the last operation was a BlankLine
}

func newMakeWriter(writer io.StringWriter) *makeWriter {
	return &makeWriter{
		writer: writer,
	}
}

func (n *makeWriter) Comment(comment string) error {
	n.justDidBlankLine = false

	const lineHeaderLen = len("# ")
	const maxLineLen = lineWidth - lineHeaderLen

	var lineStart, lastSplitPoint int
	for i, r := range comment {
		if unicode.IsSpace(r) {
			// We know we can safely split the line here.
			lastSplitPoint = i + 1
		}

		var line string
		var writeLine bool
		switch {
		case r == '\n':
			// Output the line without trimming the left so as to allow comments
			// to contain their own indentation.
			line = strings.TrimRightFunc(comment[lineStart:i], unicode.IsSpace)
			writeLine = true

		case (i-lineStart > maxLineLen) && (lastSplitPoint > lineStart):
			// The line has grown too long and is splittable.  Split it at the
			// last split point.
			line = strings.TrimSpace(comment[lineStart:lastSplitPoint])
			writeLine = true
		}

		if writeLine {
			line = strings.TrimSpace("# "+line) + "\n"
			_, err := n.writer.WriteString(line)
			if err != nil {
				return err
			}
			lineStart = lastSplitPoint
		}
	}

	if lineStart != len(comment) {
		line := strings.TrimSpace(comment[lineStart:])
		_, err := n.writer.WriteString("# " + line + "\n")
		if err != nil {
			return err
		}
	}

	return nil
}

// Assign writes a variable assignment.  The name is padded to width so that the operators of
// consecutive assignments line up.
func (n *makeWriter) Assign(name, op, value string, width int) error {
	n.justDidBlankLine = false

	if pad := width - len(name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	line := name + " " + op
	if value != "" {
		line += " " + value
	}
	_, err := n.writer.WriteString(line + "\n")
	return err
}

// Rule writes a rule header followed by its recipe lines.  Long prerequisite lists are wrapped
// with backslash continuations.
func (n *makeWriter) Rule(target string, deps, recipe []string) error {
	n.justDidBlankLine = false

	const lineWrapLen = len(" \\")
	const maxLineLen = lineWidth - lineWrapLen

	wrapper := makeWriterWithWrap{
		makeWriter: n,
		maxLineLen: maxLineLen,
	}

	wrapper.WriteString(target + ":")
	for _, dep := range deps {
		wrapper.WriteStringWithSpace(dep)
	}
	if err := wrapper.Flush(); err != nil {
		return err
	}

	for _, line := range recipe {
		_, err := n.writer.WriteString("\t" + line + "\n")
		if err != nil {
			return err
		}
	}
	return nil
}

// Include writes an include directive; optional includes are silently skipped by make when the
// file does not exist.
func (n *makeWriter) Include(path string, optional bool) error {
	n.justDidBlankLine = false
	directive := "include"
	if optional {
		directive = "-include"
	}
	return n.writeStatement(directive, path)
}

func (n *makeWriter) BlankLine() (err error) {
	// We don't output multiple blank lines in a row.
	if !n.justDidBlankLine {
		n.justDidBlankLine = true
		_, err = n.writer.WriteString("\n")
	}
	return err
}

func (n *makeWriter) writeStatement(directive, name string) error {
	_, err := n.writer.WriteString(directive + " " + name + "\n")
	return err
}

type makeWriterWithWrap struct {
	*makeWriter
	maxLineLen int
	writtenLen int
	err        error
}

func (n *makeWriterWithWrap) writeString(s string, space bool) {
	if n.err != nil {
		return
	}

	spaceLen := 0
	if space {
		spaceLen = 1
	}

	if n.writtenLen > 0 && n.writtenLen+len(s)+spaceLen > n.maxLineLen {
		_, n.err = n.writer.WriteString(" \\\n")
		if n.err != nil {
			return
		}
		_, n.err = n.writer.WriteString(indentString[:indentWidth*2])
		if n.err != nil {
			return
		}
		n.writtenLen = indentWidth * 2
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	} else if space {
		_, n.err = n.writer.WriteString(" ")
		if n.err != nil {
			return
		}
		n.writtenLen++
	}

	_, n.err = n.writer.WriteString(s)
	n.writtenLen += len(s)
}

func (n *makeWriterWithWrap) WriteString(s string) {
	n.writeString(s, false)
}

func (n *makeWriterWithWrap) WriteStringWithSpace(s string) {
	n.writeString(s, true)
}

func (n *makeWriterWithWrap) Flush() error {
	if n.err != nil {
		return n.err
	}
	_, err := n.writer.WriteString("\n")
	return err
}
