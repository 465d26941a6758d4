package layout

import (
	"strings"

	"github.com/rivo/uniseg"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Wrap 按显式换行拆分文本，再把超过 cols 个字符的行切成每段恰好 cols 个字符。
// 字符以字素簇为单位。空行不产生任何输出行（不会保留为空白行）。
func Wrap(text string, cols int) ([]Line, error) {
	if cols <= 0 {
		return nil, configErrorf("cols", "必须至少为 1，实际为 %d", cols)
	}
	var lines []Line
	for _, logical := range strings.Split(lineBreaks.Replace(text), "\n") {
		chars := graphemes(logical)
		for len(chars) > cols {
			lines = append(lines, chars[:cols:cols])
			chars = chars[cols:]
		}
		if len(chars) > 0 {
			lines = append(lines, chars)
		}
	}
	return lines, nil
}

func graphemes(s string) Line {
	if s == "" {
		return nil
	}
	out := make(Line, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
