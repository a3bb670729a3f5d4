// Package dsl parses the docflow document language: a doc header, a meta
// block, paragraph style definitions and a page of content blocks.
//
//	doc Report v1 {
//	  meta { title: "Report" }
//	  styles { style Note extends Body { size: 12pt } }
//	  page A4 portrait margin 20mm { heading 1 "Intro" ... }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/lo"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `(?://|#)[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in|px|%)?`},
		// Backquoted strings may span lines and keep their content verbatim.
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|` + "`[^`]*`"},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+*/<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	kinds = tokenKinds(dslLexer.Symbols())

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Document is the root AST node of a docflow file.
type Document struct {
	Name     string     `parser:"Newline* 'doc' @Ident"`
	Version  string     `parser:"@Ident?"`
	Sections []*Section `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one of meta, styles or page.
type Section struct {
	Meta   *MetaSection   `parser:"  @@"`
	Styles *StylesSection `parser:"| @@"`
	Page   *PageSection   `parser:"| @@"`
}

// Kind names the section.
func (s *Section) Kind() string {
	switch {
	case s.Meta != nil:
		return "meta"
	case s.Styles != nil:
		return "styles"
	case s.Page != nil:
		return "page"
	}
	return ""
}

// MetaSection holds document properties as `key: value` assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// StylesSection holds `style Name [extends Parent] { key: value }` commands.
type StylesSection struct {
	Block *Block `parser:"'styles' @@"`
}

// PageSection carries the page setup and the content blocks in order.
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@"`
}

// PageSpec stores header tokens (eg: size, orientation, margin values).
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block is a braced list of statements separated by newlines or ';'.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is an assignment, a command or a bare text literal.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command is a content block or inline instruction: a name, loose
// arguments and an optional body.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral is a string statement, a paragraph of its own on a page and
// a run or line inside other blocks.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value is the right-hand side of an assignment.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Array  *ArrayValue    `parser:"| @@"`
	Words  []*Lexeme      `parser:"| @@+"`
}

// Text returns the value as written, without quotes. Arrays yield "".
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case len(v.Words) > 0:
		return strings.Join(lo.Map(v.Words, func(l *Lexeme, _ int) string { return l.Value }), " ")
	}
	return ""
}

// List returns array items, or the single value as a one-element list.
// Empty items are dropped.
func (v *Value) List() []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		return lo.Compact([]string{v.Text()})
	}
	return lo.Compact(lo.Map(v.Array.Values, func(item *Value, _ int) string { return item.Text() }))
}

// ArrayValue captures `[ ... ]` lists separated by commas or newlines.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Lexeme is a single loose token: a command argument or a bare word.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable. It takes any token up to the end
// of the statement: a newline, a brace or a separator.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok.EOF() || endsStatement(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	l.Type = kinds[tok.Type]
	l.Value, l.Raw, l.Pos = tok.Value, tok.Value, tok.Pos
	if l.Type == "String" {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return participle.Errorf(tok.Pos, "bad string %s: %v", tok.Value, err)
		}
		l.Value = unquoted
	}
	return nil
}

func endsStatement(tok *lexer.Token) bool {
	switch kinds[tok.Type] {
	case "Newline", "LBrace", "RBrace":
		return true
	case "Symbol":
		return tok.Value == ";" || tok.Value == "," || tok.Value == "]"
	}
	return false
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// SplitArgs separates positional arguments from `key value` pairs. Only
// identifiers listed in keys are treated as keys; a trailing key without a
// value stays positional.
func SplitArgs(args []*Lexeme, keys ...string) ([]string, map[string]string) {
	named := map[string]string{}
	var pos []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a.Type == "Ident" && lo.Contains(keys, a.Value) && i+1 < len(args) {
			named[a.Value] = args[i+1].Value
			i++
			continue
		}
		pos = append(pos, a.Value)
	}
	return pos, named
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

func tokenKinds(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	return lo.Invert(symbols)
}
