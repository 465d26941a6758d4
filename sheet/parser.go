package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)(?:pt|px|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_-]*`},
		{Name: "Symbol", Pattern: `[:;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是练习纸文件的根节点：
//
//	sheet Name {
//	  font-size: 48
//	  paper: A4 landscape
//	  text {
//	    "永字八法"
//	  }
//	}
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'sheet' @Ident?"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Entry 是一条赋值或一段正文。
type Entry struct {
	Text       *TextBlock  `parser:"  @@"`
	Assignment *Assignment `parser:"| @@"`
}

// TextBlock 以字符串列表给出正文，每个字符串是一个逻辑行。
type TextBlock struct {
	Lines []*TextLine `parser:"'text' '{' Newline* ( @@ ( ';' | ',' | Newline )* )* '}'"`
}

// TextLine 包装一行正文。
type TextLine struct {
	Value StringLiteral `parser:"@String"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value 是赋值右侧的取值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Words  []string       `parser:"| @Ident+"`
}

// Raw 返回取值的文本形式，多个单词以空格连接。
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	default:
		return strings.Join(v.Words, " ")
	}
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

// Parse parses sheet content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses sheet content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Assignments 按出现顺序返回所有赋值。
func (d *Document) Assignments() []*Assignment {
	if d == nil {
		return nil
	}
	var out []*Assignment
	for _, e := range d.Entries {
		if e.Assignment != nil {
			out = append(out, e.Assignment)
		}
	}
	return out
}

// Text 拼接所有 text 段落，每个字符串作为一个逻辑行。
// 没有 text 段落时 ok 为 false，调用方可以沿用其它来源的正文。
func (d *Document) Text() (text string, ok bool) {
	if d == nil {
		return "", false
	}
	var lines []string
	for _, e := range d.Entries {
		if e.Text == nil {
			continue
		}
		ok = true
		for _, l := range e.Text.Lines {
			lines = append(lines, string(l.Value))
		}
	}
	return strings.Join(lines, "\n"), ok
}
