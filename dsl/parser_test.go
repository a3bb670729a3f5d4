package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/docflow/dsl"
)

const sampleDSL = `
doc Report v1 {
  meta {
    title: "Quarterly report"
    keywords: [
      "layout"
      "docx"
    ]
  }

  styles {
    style Note extends Body {
      size: 12pt
      italic: true
    }
  }

  page A4 portrait margin 20mm 10mm 20mm 30mm {
    heading 1 "Introduction"
    paragraph { "Hello, ${user.name}! " bold { "Important" } " text." }
    paragraph Note { "See equation (" ref eq1; ")." }

    listing label lst1 caption "Main loop" {
      "for {"
      "    step()"
      "}"
    }

    equation label eq1 ` + "`E = mc^2`" + `

    table caption "Results" widths "30% 70%" {
      header { "Name" "Value" }
      row { "alpha" "1" }
    }

    break
    image "figure.png" width 80mm caption "Diagram"
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Report" {
		t.Fatalf("expected document name Report, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}

	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,styles,page" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); got != "Quarterly report" {
		t.Fatalf("expected title Quarterly report, got %s", got)
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	style := doc.Sections[1].Styles.Block.Statements[0].Command
	if style == nil || style.Name != "style" {
		t.Fatalf("expected style command, got %+v", doc.Sections[1].Styles.Block.Statements[0])
	}
	if got := tokensToString(style.Args); got != "Note extends Body" {
		t.Fatalf("unexpected style args: %s", got)
	}
	size := style.Block.Statements[0].Assignment
	if size == nil || size.Key != "size" || size.Value.Number == nil || *size.Value.Number != "12pt" {
		t.Fatalf("unexpected size assignment: %+v", style.Block.Statements[0])
	}
	italic := style.Block.Statements[1].Assignment
	if italic == nil || italic.Value.Text() != "true" || len(italic.Value.Words) != 1 {
		t.Fatalf("unexpected italic assignment: %+v", style.Block.Statements[1])
	}

	page := doc.Sections[2].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if got := tokensToString(page.Spec.Params); got != "portrait margin 20mm 10mm 20mm 30mm" {
		t.Fatalf("unexpected page params: %s", got)
	}

	var names []string
	for _, stmt := range page.Block.Statements {
		if stmt.Command == nil {
			t.Fatalf("expected only commands in page, got %+v", stmt)
		}
		names = append(names, stmt.Command.Name)
	}
	want := "heading,paragraph,paragraph,listing,equation,table,break,image"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("expected commands %s, got %s", want, got)
	}
	cmds := page.Block.Statements

	heading := cmds[0].Command
	if got := tokensToString(heading.Args); got != "1 Introduction" {
		t.Fatalf("unexpected heading args: %s", got)
	}

	para := cmds[1].Command
	if para.Block == nil || len(para.Block.Statements) != 3 {
		t.Fatalf("paragraph should hold 3 inline statements, got %+v", para.Block)
	}
	if got := string(para.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}
	if bold := para.Block.Statements[1].Command; bold == nil || bold.Name != "bold" || bold.Block == nil {
		t.Fatalf("expected bold inline command, got %+v", para.Block.Statements[1])
	}

	note := cmds[2].Command
	if len(note.Args) != 1 || note.Args[0].Type != "Ident" || note.Args[0].Value != "Note" {
		t.Fatalf("unexpected paragraph style arg: %+v", note.Args)
	}
	ref := note.Block.Statements[1].Command
	if ref == nil || ref.Name != "ref" || tokensToString(ref.Args) != "eq1" {
		t.Fatalf("expected ref eq1, got %+v", note.Block.Statements[1])
	}
	if got := string(note.Block.Statements[2].Text.Value); got != ")." {
		t.Fatalf("text after ref should stay a literal, got %q", got)
	}

	listing := cmds[3].Command
	if got := tokensToString(listing.Args); got != "label lst1 caption Main loop" {
		t.Fatalf("unexpected listing args: %s", got)
	}
	if len(listing.Block.Statements) != 3 || string(listing.Block.Statements[1].Text.Value) != "    step()" {
		t.Fatalf("listing lines not preserved: %+v", listing.Block.Statements)
	}

	eq := cmds[4].Command
	if len(eq.Args) != 3 || eq.Args[2].Type != "String" || eq.Args[2].Value != "E = mc^2" {
		t.Fatalf("raw string argument not unquoted: %+v", eq.Args)
	}
	if eq.Args[2].Raw != "`E = mc^2`" {
		t.Fatalf("raw token should keep backticks, got %s", eq.Args[2].Raw)
	}

	table := cmds[5].Command
	if len(table.Block.Statements) != 2 {
		t.Fatalf("table should have 2 rows, got %d", len(table.Block.Statements))
	}
	header := table.Block.Statements[0].Command
	if header == nil || header.Name != "header" || len(header.Block.Statements) != 2 {
		t.Fatalf("unexpected header row: %+v", table.Block.Statements[0])
	}

	image := cmds[7].Command
	if image.Args[0].Value != "figure.png" || image.Args[2].Value != "80mm" {
		t.Fatalf("unexpected image args: %+v", image.Args)
	}
}

func TestParseRawStringSpansLines(t *testing.T) {
	src := "doc D v1 {\n  page A4 {\n    listing {\n      `a := 1\n\"quoted\"\n`\n    }\n  }\n}\n"
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	listing := doc.Sections[0].Page.Block.Statements[0].Command
	if got := string(listing.Block.Statements[0].Text.Value); got != "a := 1\n\"quoted\"\n" {
		t.Fatalf("unexpected raw string %q", got)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString("doc D v1 {\n  footer { }\n}\n"); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func TestValueHelpers(t *testing.T) {
	doc, err := dsl.ParseString("doc D v1 {\n  meta {\n    title: \"T\"\n    keywords: [\"a\", \"\", \"b\"]\n    align: space between\n    size: 12pt\n    tags: one\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := map[string]string{}
	var keywords, tags []string
	for _, stmt := range doc.Sections[0].Meta.Block.Statements {
		got[stmt.Assignment.Key] = stmt.Assignment.Value.Text()
		switch stmt.Assignment.Key {
		case "keywords":
			keywords = stmt.Assignment.Value.List()
		case "tags":
			tags = stmt.Assignment.Value.List()
		}
	}
	if got["title"] != "T" || got["align"] != "space between" || got["size"] != "12pt" || got["keywords"] != "" {
		t.Fatalf("unexpected values: %v", got)
	}
	if strings.Join(keywords, ",") != "a,b" || strings.Join(tags, ",") != "one" {
		t.Fatalf("unexpected lists: %v %v", keywords, tags)
	}
	var nilValue *dsl.Value
	if nilValue.Text() != "" || nilValue.List() != nil {
		t.Fatalf("nil value should be empty")
	}
}

func TestSplitArgs(t *testing.T) {
	doc, err := dsl.ParseString("doc D v1 {\n  page A4 {\n    image \"a.png\" width 80mm caption \"Pic\" label\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cmd := doc.Sections[0].Page.Block.Statements[0].Command
	pos, named := dsl.SplitArgs(cmd.Args, "width", "caption", "label")
	if strings.Join(pos, ",") != "a.png,label" {
		t.Fatalf("unexpected positional args: %v", pos)
	}
	if named["width"] != "80mm" || named["caption"] != "Pic" || len(named) != 2 {
		t.Fatalf("unexpected named args: %v", named)
	}
}

func TestParseComments(t *testing.T) {
	src := "# header\ndoc D v1 {\n  // line\n  page A4 { /* block */ \"x\" # trailing\n  }\n}\n"
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := string(doc.Sections[0].Page.Block.Statements[0].Text.Value); got != "x" {
		t.Fatalf("unexpected text %q", got)
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
