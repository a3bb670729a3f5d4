// Package omml converts LaTeX-like formula sources to Office Math elements.
package omml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/docflow/wordml"
)

var (
	ErrSyntax             = errors.New("formula syntax error")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// Converter turns a formula source into a math element.
type Converter interface {
	Convert(src string) (wordml.Element, error)
}

// Plain handles fractions, roots, scripts, \text and the common symbol
// commands. It has no layout knowledge; the equation height is nominal.
type Plain struct{}

var _ Converter = Plain{}

var symbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε", "varepsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"pi": "π", "rho": "ρ", "sigma": "σ", "tau": "τ", "phi": "φ", "varphi": "φ", "chi": "χ",
	"psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Pi": "Π", "Sigma": "Σ",
	"Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
	"sum": "∑", "prod": "∏", "int": "∫", "oint": "∮", "infty": "∞", "partial": "∂", "nabla": "∇",
	"cdot": "·", "times": "×", "div": "÷", "pm": "±", "mp": "∓",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠", "approx": "≈",
	"equiv": "≡", "sim": "∼", "propto": "∝",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒", "Leftrightarrow": "⇔",
	"in": "∈", "notin": "∉", "subset": "⊂", "cup": "∪", "cap": "∩", "forall": "∀", "exists": "∃",
	"ldots": "…", "dots": "…", "cdots": "⋯",
	"sin": "sin", "cos": "cos", "tan": "tan", "log": "log", "ln": "ln", "exp": "exp",
	"lim": "lim", "max": "max", "min": "min",
	"left": "", "right": "", ",": " ", ";": " ", ":": " ", "quad": " ", "qquad": "  ",
	"{": "{", "}": "}", "%": "%", "\\": " ",
}

var (
	mathLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Text", Pattern: `\\(?:text|mathrm|operatorname)\{[^}]*\}`},
		{Name: "Frac", Pattern: `\\[dt]?frac\b`},
		{Name: "Sqrt", Pattern: `\\sqrt\b`},
		{Name: "Command", Pattern: `\\(?:[A-Za-z]+|.)`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Script", Pattern: `[\^_]`},
		{Name: "Char", Pattern: `[^\s\\{}\^_\[\]]`},
	})

	formulaParser = participle.MustBuild[formula](
		participle.Lexer(mathLexer),
		participle.Elide("Whitespace"),
	)
)

// formula is a sequence of items; whitespace carries no meaning.
type formula struct {
	Items []*item `parser:"@@*"`
}

// item is a scripted atom. A stray ']' outside a radical degree is text.
type item struct {
	Term  *term   `parser:"  @@"`
	Close *string `parser:"| @RBracket"`
}

// term is a base followed by any number of ^ and _ attachments.
type term struct {
	Base    *atom     `parser:"@@"`
	Scripts []*script `parser:"@@*"`
}

type script struct {
	Op  string `parser:"@Script"`
	Arg *atom  `parser:"@@"`
}

type atom struct {
	Group   *group    `parser:"  @@"`
	Frac    *fraction `parser:"| @@"`
	Sqrt    *radical  `parser:"| @@"`
	Text    *string   `parser:"| @Text"`
	Command *string   `parser:"| @Command"`
	Char    *string   `parser:"| @(Char | LBracket)"`
}

type group struct {
	Items []*item `parser:"LBrace @@* RBrace"`
}

type fraction struct {
	Num *atom `parser:"Frac @@"`
	Den *atom `parser:"@@"`
}

// radical takes an optional [degree] before its base.
type radical struct {
	Degree *degree `parser:"Sqrt @@?"`
	Base   *atom   `parser:"@@"`
}

type degree struct {
	Terms []*term `parser:"LBracket @@* RBracket"`
}

// Convert parses src into an m:oMath element.
func (Plain) Convert(src string) (wordml.Element, error) {
	ast, err := formulaParser.ParseString("", strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	children, err := convertItems(ast.Items)
	if err != nil {
		return nil, err
	}
	return &wordml.Math{Children: children}, nil
}

func convertItems(items []*item) ([]wordml.Element, error) {
	var out []wordml.Element
	for _, it := range items {
		if it.Close != nil {
			out = append(out, &wordml.MathRun{Text: *it.Close})
			continue
		}
		els, err := it.Term.convert()
		if err != nil {
			return nil, err
		}
		out = append(out, els...)
	}
	return merge(out), nil
}

func convertTerms(terms []*term) ([]wordml.Element, error) {
	var out []wordml.Element
	for _, t := range terms {
		els, err := t.convert()
		if err != nil {
			return nil, err
		}
		out = append(out, els...)
	}
	return merge(out), nil
}

func (t *term) convert() ([]wordml.Element, error) {
	base, err := t.Base.convert()
	if err != nil || len(t.Scripts) == 0 {
		return base, err
	}
	s := &wordml.MathScript{Base: base}
	for _, sc := range t.Scripts {
		arg, err := sc.Arg.convert()
		if err != nil {
			return nil, err
		}
		if sc.Op == "^" {
			s.Sup = arg
		} else {
			s.Sub = arg
		}
	}
	return []wordml.Element{s}, nil
}

func (a *atom) convert() ([]wordml.Element, error) {
	switch {
	case a.Group != nil:
		return convertItems(a.Group.Items)
	case a.Frac != nil:
		num, err := a.Frac.Num.convert()
		if err != nil {
			return nil, err
		}
		den, err := a.Frac.Den.convert()
		if err != nil {
			return nil, err
		}
		return []wordml.Element{&wordml.MathFraction{Num: num, Den: den}}, nil
	case a.Sqrt != nil:
		var degree []wordml.Element
		if a.Sqrt.Degree != nil {
			var err error
			if degree, err = convertTerms(a.Sqrt.Degree.Terms); err != nil {
				return nil, err
			}
		}
		base, err := a.Sqrt.Base.convert()
		if err != nil {
			return nil, err
		}
		return []wordml.Element{&wordml.MathRadical{Degree: degree, Base: base}}, nil
	case a.Text != nil:
		raw := *a.Text
		text := raw[strings.IndexByte(raw, '{')+1 : len(raw)-1]
		return []wordml.Element{&wordml.MathRun{Text: text}}, nil
	case a.Command != nil:
		return command(strings.TrimPrefix(*a.Command, "\\"))
	case a.Char != nil:
		return []wordml.Element{&wordml.MathRun{Text: *a.Char}}, nil
	}
	return nil, nil
}

func command(name string) ([]wordml.Element, error) {
	switch name {
	case "text", "mathrm", "operatorname":
		return nil, fmt.Errorf("%w: \\%s needs a braced argument", ErrSyntax, name)
	}
	sym, ok := symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: \\%s", ErrUnsupportedCommand, name)
	}
	if sym == "" {
		return nil, nil
	}
	return []wordml.Element{&wordml.MathRun{Text: sym}}, nil
}

// merge joins adjacent plain runs.
func merge(els []wordml.Element) []wordml.Element {
	var out []wordml.Element
	for _, el := range els {
		run, ok := el.(*wordml.MathRun)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*wordml.MathRun); ok {
				out[len(out)-1] = &wordml.MathRun{Text: prev.Text + run.Text}
				continue
			}
		}
		out = append(out, el)
	}
	return out
}
