package svgdoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/shuji/layout"
	"github.com/ByLCY/shuji/settings"
)

func newSheet(t *testing.T, text string, edit func(*settings.Settings)) *layout.Sheet {
	t.Helper()
	s := settings.Default()
	if edit != nil {
		edit(&s)
	}
	sh, err := layout.FromSettings(s, text)
	if err != nil {
		t.Fatalf("FromSettings: %v", err)
	}
	return sh
}

func TestRenderSinglePage(t *testing.T) {
	sh := newSheet(t, "永", func(s *settings.Settings) { s.CenterLine = true })
	out, err := NewRenderer(Options{}).Render(sh)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Ext != ".svg" || len(out.Files) != 1 {
		t.Fatalf("expected one .svg file, got %q x%d", out.Ext, len(out.Files))
	}
	doc := string(out.Files[0])
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`font-family="&#39;Noto Sans CJK JP&#39;,`,
		`sans-serif"`,
		`fill="#808080"`,
		`font-size="48"`,
		`text-anchor="middle"`,
		`stroke-dasharray="5,5"`,
		`>永</text>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %s in\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "writing-mode") {
		t.Fatalf("horizontal page must not set writing-mode")
	}
	if strings.Count(doc, "<line ") != 2 {
		t.Fatalf("expected 2 guide segments, got %d", strings.Count(doc, "<line "))
	}
	if strings.Index(doc, "<line ") > strings.Index(doc, "<text ") {
		t.Fatalf("guides must precede the glyph")
	}
}

func TestRenderNamedFontPassesThrough(t *testing.T) {
	sh := newSheet(t, "永", func(s *settings.Settings) { s.FontName = "Noto Serif CJK JP" })
	out, err := NewRenderer(Options{}).Render(sh)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out.Files[0]), `font-family="Noto Serif CJK JP"`) {
		t.Fatalf("named font must be written as is")
	}
}

func TestRenderWithoutCenterLine(t *testing.T) {
	out, err := NewRenderer(Options{Background: "white"}).Render(newSheet(t, "永字", nil))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := string(out.Files[0])
	if strings.Contains(doc, "<line ") {
		t.Fatalf("unexpected guide lines")
	}
	if !strings.Contains(doc, `fill="white"`) {
		t.Fatalf("missing background rect")
	}
}

func TestRenderPagination(t *testing.T) {
	// 默认 A4 纵向每页 22 行 15 列
	sh := newSheet(t, strings.Repeat("永", 22*15+1), nil)
	out, err := NewRenderer(Options{}).Render(sh)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out.Files) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(out.Files))
	}
	if n := strings.Count(string(out.Files[1]), "<text "); n != 1 {
		t.Fatalf("expected 1 glyph on page 2, got %d", n)
	}
}

func TestRenderVertical(t *testing.T) {
	sh := newSheet(t, "縦", func(s *settings.Settings) { s.Direction = "vertical" })
	out, err := NewRenderer(Options{}).Render(sh)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out.Files[0]), `writing-mode="tb"`) {
		t.Fatalf("vertical page must set writing-mode")
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	sh := newSheet(t, "<&>", func(s *settings.Settings) { s.FontName = `A"B` })
	out, err := NewRenderer(Options{}).Render(sh)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := string(out.Files[0])
	for _, want := range []string{">&lt;</text>", ">&amp;</text>", ">&gt;</text>", `font-family="A&#34;B"`} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %s in\n%s", want, doc)
		}
	}
}

func TestRenderRequiresFont(t *testing.T) {
	sh := newSheet(t, "永", func(s *settings.Settings) { s.FontName = "" })
	if _, err := NewRenderer(Options{}).Render(sh); !errors.Is(err, layout.ErrNoFontSelected) {
		t.Fatalf("expected ErrNoFontSelected, got %v", err)
	}
}

func TestRenderEmptyText(t *testing.T) {
	out, err := NewRenderer(Options{}).Render(newSheet(t, "", nil))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out.Files) != 1 || strings.Contains(string(out.Files[0]), "<text ") {
		t.Fatalf("expected one blank page")
	}
}

func TestNum(t *testing.T) {
	cases := map[float64]string{48: "48", 718.1102362204724: "718.11", 0.5: "0.5", 12.0004: "12"}
	for in, want := range cases {
		if got := num(in); got != want {
			t.Fatalf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
