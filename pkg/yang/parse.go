// Copyright 2015 Google Inc.
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

package yang

// Parse turns lexer tokens into a generic Statement tree: one node per
// keyword/argument/brace-block, with no notion yet of which keywords are
// legal where — see ast.go for that second pass, which type-checks a
// Statement tree against the Node types below and produces a *Module.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// a parser is used to parse the contents of a single .yang file.
type parser struct {
	lex    *lexer
	errout *bytes.Buffer

	tokens     []*token     // stack of pushed tokens (for backing up)
	statements []*Statement // list of root statements

	// hitBrace is the sentinel nextStatement returns for a bare '}': it
	// may be closing the caller's own block (expected) or may be
	// unmatched (an error) — only the caller knows which, so hitBrace is
	// stamped with the brace's location and handed back up either way.
	hitBrace *Statement
}

// A Statement is one keyword/argument/brace-block in a YANG source file,
// with any nested statements attached as children — the generic tree Parse
// produces, before ast.go's BuildAST knows which keywords mean what.
type Statement struct {
	Keyword     string
	HasArgument bool
	Argument    string
	statements  []*Statement

	file string
	line int // 1-based
	col  int // 1-based
}

// FakeStatement builds a Statement with no sub-statements, for synthesizing
// source locations that didn't come from an actual parse (e.g. augment
// targets, deviations applied programmatically).
func FakeStatement(keyword, file string, line, col int) *Statement {
	return &Statement{
		Keyword: keyword,
		file:    file,
		line:    line,
		col:     col,
	}
}

// Statement itself implements Node, trivially: a raw Statement has no
// notion of parent or extension, only its own keyword/argument/children.
func (s *Statement) NName() string         { return s.Argument }
func (s *Statement) Kind() string          { return s.Keyword }
func (s *Statement) Statement() *Statement { return s }
func (s *Statement) ParentNode() Node      { return nil }
func (s *Statement) Exts() []*Statement    { return nil }

// Arg returns s's argument and whether it had one at all.
func (s *Statement) Arg() (string, bool) { return s.Argument, s.HasArgument }

// SubStatements returns the Statements nested directly inside s.
func (s *Statement) SubStatements() []*Statement { return s.statements }

// String renders s and its whole subtree back out in YANG source form.
func (s *Statement) String() string {
	var b bytes.Buffer
	s.Write(&b, "")
	return b.String()
}

// Location describes where in the source s was parsed from, for error
// messages; it degrades gracefully when file/line info isn't available
// (e.g. a FakeStatement).
func (s *Statement) Location() string {
	switch {
	case s.file == "" && s.line == 0:
		return "unknown"
	case s.file == "":
		return fmt.Sprintf("line %d:%d", s.line, s.col)
	case s.line == 0:
		return fmt.Sprintf("%s", s.file)
	default:
		return fmt.Sprintf("%s:%d:%d", s.file, s.line, s.col)
	}
}

// Write serializes s's subtree to w, one statement per line, each level
// nested a tab deeper than indent. It reproduces the structure of s, not
// necessarily byte-for-byte the original source it was parsed from.
func (s *Statement) Write(w io.Writer, indent string) error {
	if s.Keyword == "" {
		// No keyword means s is just a holder for a list of top-level
		// statements (e.g. the slice Parse returns, wrapped in one).
		for _, s := range s.statements {
			if err := s.Write(w, indent); err != nil {
				return err
			}
		}
		return nil
	}

	parts := []string{fmt.Sprintf("%s%s", indent, s.Keyword)}
	if s.HasArgument {
		args := strings.Split(s.Argument, "\n")
		if len(args) == 1 {
			parts = append(parts, fmt.Sprintf(" %q", s.Argument))
		} else {
			parts = append(parts, ` "`, args[0], "\n")
			i := fmt.Sprintf("%*s", len(s.Keyword)+1, "")
			for x, p := range args[1:] {
				s := fmt.Sprintf("%q", p)
				s = s[1 : len(s)-1]
				parts = append(parts, indent, " ", i, s)
				if x == len(args[1:])-1 {
					// last part just needs the closing "
					parts = append(parts, `"`)
				} else {
					parts = append(parts, "\n")
				}
			}
		}
	}

	if len(s.statements) == 0 {
		_, err := fmt.Fprintf(w, "%s;\n", strings.Join(parts, ""))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s {\n", strings.Join(parts, "")); err != nil {
		return err
	}
	for _, s := range s.statements {
		if err := s.Write(w, indent+"\t"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s}\n", indent); err != nil {
		return err
	}
	return nil
}

// ignoreMe stands in for a Statement that failed to parse, so that
// nextStatement's caller can keep scanning for further errors in the same
// file rather than aborting on the first one.
var ignoreMe = &Statement{}

// Parse reads input as a generic YANG source file and returns its top-level
// statements. path identifies the source (e.g. the file it was read from)
// and is only used to annotate error messages and statement locations. When
// one or more syntax errors are found, Parse returns nil and a single error
// whose text accumulates every error found, not just the first.
func Parse(input, path string) ([]*Statement, error) {
	var statements []*Statement
	p := &parser{
		lex:      newLexer(input, path),
		errout:   &bytes.Buffer{},
		hitBrace: &Statement{},
	}
	p.lex.errout = p.errout
Loop:
	for {
		switch ns := p.nextStatement(); ns {
		case nil:
			break Loop
		case p.hitBrace:
			fmt.Fprintf(p.errout, "%s:%d:%d: unexpected %c\n", ns.file, ns.line, ns.col, closeBrace)
		default:
			statements = append(statements, ns)
		}
	}

	if p.errout.Len() == 0 {
		return statements, nil
	}
	return nil, errors.New(strings.TrimSpace(p.errout.String()))

}

// push puts tokens back in front of the input stream, last-in-first-out:
// the last token pushed is the first one next() will return.
func (p *parser) push(t ...*token) {
	p.tokens = append(p.tokens, t...)
}

// pop removes and returns the most recently pushed token, or nil if
// nothing has been pushed back.
func (p *parser) pop() *token {
	if n := len(p.tokens); n > 0 {
		n--
		defer func() { p.tokens = p.tokens[:n] }()
		return p.tokens[n]
	}
	return nil
}

// next returns the next token, preferring anything pushed back over the
// lexer, and transparently joins adjacent quoted strings separated by "+"
// into a single string token (YANG's string concatenation syntax).
func (p *parser) next() *token {
	if t := p.pop(); t != nil {
		return t
	}
	fromLexer := func() *token {
		for {
			if t := p.lex.NextToken(); t.Code() != tError {
				return t
			}
		}
	}
	t := fromLexer()
	if t.Code() != tString {
		return t
	}
	for {
		plus := fromLexer()
		switch plus.Code() {
		case tEOF:
			return t
		case tIdentifier:
			if plus.Text != "+" {
				p.push(plus)
				return t
			}
		default:
			p.push(plus)
			return t
		}
		// Found a "+"; the concatenation only holds if another string
		// follows it.
		cont := fromLexer()
		switch cont.Code() {
		case tEOF:
			p.push(plus)
			return t
		case tString:
			t.Text += cont.Text
		default:
			p.push(cont, plus)
			return t
		}
	}
}

// nextStatement reads one statement from the input, recursing into
// nextStatement again for each nested sub-statement.
func (p *parser) nextStatement() *Statement {
	t := p.next()
	switch t.Code() {
	case tEOF:
		return nil
	case closeBrace:
		p.hitBrace.file = t.File
		p.hitBrace.line = t.Line
		p.hitBrace.col = t.Col
		return p.hitBrace
	case tIdentifier:
	default:
		fmt.Fprintf(p.errout, "%v: not an identifier\n", t)
		return ignoreMe
	}

	s := &Statement{
		Keyword: t.Text,
		file:    t.File,
		line:    t.Line,
		col:     t.Col,
	}

	// "pattern" arguments are POSIX/XSD regexes, not ordinary YANG
	// strings, so the lexer must not apply its usual escape handling
	// while reading one.
	p.lex.inPattern = t.Text == "pattern"
	t = p.next()
	p.lex.inPattern = false
	switch t.Code() {
	case tString, tIdentifier:
		s.HasArgument = true
		s.Argument = t.Text
		t = p.next()
	}
	switch t.Code() {
	case tEOF:
		fmt.Fprintf(p.errout, "%s: unexpected EOF\n", s.file)
		return nil
	case ';':
		return s
	case openBrace:
		for {
			switch ns := p.nextStatement(); ns {
			case nil:
				return nil
			case p.hitBrace:
				return s
			default:
				s.statements = append(s.statements, ns)
			}
		}
	default:
		fmt.Fprintf(p.errout, "%v: syntax error\n", t)
		return ignoreMe
	}
}
