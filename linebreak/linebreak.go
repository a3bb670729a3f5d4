// Package linebreak simulates the word wrap of a word processor to predict
// how many lines a paragraph of styled runs occupies at a given width.
package linebreak

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ByLCY/docflow/metrics"
)

// epsilon absorbs float noise so that text summing exactly to the available
// width stays on the line.
const epsilon = 1e-6

// Run is a piece of text in one font. Zero Family or Size inherit from the
// paragraph font; Bold and Italic add to it.
type Run struct {
	Text string       `json:"text"`
	Font metrics.Font `json:"font"`
}

// Resolve returns the effective font of the run inside a paragraph whose
// font is base.
func (r Run) Resolve(base metrics.Font) metrics.Font {
	f := r.Font
	if f.Family == "" {
		f.Family = base.Family
	}
	if f.Size == 0 {
		f.Size = base.Size
	}
	f.Bold = f.Bold || base.Bold
	f.Italic = f.Italic || base.Italic
	return f
}

// Line is one predicted line. Start and End are rune offsets into the
// concatenated run text; End includes trailing spaces, Width does not.
type Line struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Width float64 `json:"width"`
}

// Breaker counts lines with a Measurer. It holds no state between calls.
type Breaker struct {
	m metrics.Measurer
}

// New returns a Breaker measuring with m.
func New(m metrics.Measurer) *Breaker {
	return &Breaker{m: m}
}

// CountLines returns the number of lines the runs occupy, always at least 1.
func (b *Breaker) CountLines(runs []Run, maxWidth float64, base metrics.Font, firstLineIndent float64, monospace bool) int {
	return len(b.Lines(runs, maxWidth, base, firstLineIndent, monospace))
}

type glyph struct {
	w     float64
	space bool
}

type token struct {
	start, visEnd, end int
	vis, trail         float64
}

// Lines breaks the runs greedily. The first line is shortened by
// firstLineIndent. A token that does not fit moves to a fresh line; a token
// wider than an empty line is broken between characters. With monospace set
// every character measures the fixed advance of its font.
func (b *Breaker) Lines(runs []Run, maxWidth float64, base metrics.Font, firstLineIndent float64, monospace bool) []Line {
	if maxWidth < 0 {
		panic(fmt.Sprintf("linebreak: negative max width %g", maxWidth))
	}
	if err := base.Validate(); err != nil {
		panic(fmt.Sprintf("linebreak: base font: %v", err))
	}

	glyphs := b.measure(runs, base, monospace)
	tokens := tokenize(glyphs)
	if len(tokens) == 0 {
		return []Line{{Start: 0, End: len(glyphs)}}
	}

	var lines []Line
	limit := func() float64 {
		if len(lines) == 0 {
			return max(maxWidth-firstLineIndent, 0)
		}
		return maxWidth
	}

	cur := Line{Start: 0}
	used := 0.0
	empty := true
	flush := func(at int) {
		cur.End = at
		lines = append(lines, cur)
		cur = Line{Start: at}
		used = 0
		empty = true
	}

	for _, tok := range tokens {
		if !empty && used+tok.vis > limit()+epsilon {
			flush(tok.start)
		}
		if empty && tok.vis > limit()+epsilon {
			for i := tok.start; i < tok.visEnd; i++ {
				w := glyphs[i].w
				if !empty && used+w > limit()+epsilon {
					flush(i)
				}
				used += w
				cur.Width = used
				empty = false
			}
		} else {
			used += tok.vis
			cur.Width = used
			empty = false
		}
		used += tok.trail
	}
	cur.End = len(glyphs)
	lines = append(lines, cur)
	return lines
}

func (b *Breaker) measure(runs []Run, base metrics.Font, monospace bool) []glyph {
	var glyphs []glyph
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		f := run.Resolve(base)
		advance := 0.0
		if monospace {
			advance = b.m.Advance(f)
		}
		for _, r := range run.Text {
			g := glyph{space: isBreakingSpace(r)}
			if monospace {
				g.w = advance
			} else {
				g.w = b.m.Width(string(r), f)
			}
			glyphs = append(glyphs, g)
		}
	}
	return glyphs
}

// tokenize groups glyphs into visible runs followed by their spaces. Spaces
// before the first visible glyph belong to the first token.
func tokenize(glyphs []glyph) []token {
	var tokens []token
	i := 0
	for i < len(glyphs) {
		tok := token{start: i}
		for i < len(glyphs) && glyphs[i].space && len(tokens) == 0 {
			tok.vis += glyphs[i].w
			i++
		}
		visStart := i
		for i < len(glyphs) && !glyphs[i].space {
			tok.vis += glyphs[i].w
			i++
		}
		tok.visEnd = i
		if visStart == tok.visEnd {
			// only the first token can lack visible glyphs: the text is whitespace
			return nil
		}
		for i < len(glyphs) && glyphs[i].space {
			tok.trail += glyphs[i].w
			i++
		}
		tok.end = i
		tokens = append(tokens, tok)
	}
	return tokens
}

func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}

// Text concatenates the run texts.
func Text(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Texts returns the content of each line without trailing spaces.
func Texts(runs []Run, lines []Line) []string {
	text := []rune(Text(runs))
	out := make([]string, len(lines))
	for i, l := range lines {
		end := min(l.End, len(text))
		start := min(l.Start, end)
		out[i] = strings.TrimRightFunc(string(text[start:end]), isBreakingSpace)
	}
	return out
}

// SplitRuns splits runs at a rune offset into the text before and after it.
func SplitRuns(runs []Run, offset int) (head, tail []Run) {
	pos := 0
	for i, run := range runs {
		n := len([]rune(run.Text))
		if offset <= pos {
			tail = append(tail, runs[i:]...)
			return head, tail
		}
		if offset < pos+n {
			rs := []rune(run.Text)
			cut := offset - pos
			head = append(head, Run{Text: string(rs[:cut]), Font: run.Font})
			tail = append(tail, Run{Text: string(rs[cut:]), Font: run.Font})
			tail = append(tail, runs[i+1:]...)
			return head, tail
		}
		head = append(head, run)
		pos += n
	}
	return head, tail
}
