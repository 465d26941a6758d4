package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Paper 是纸张的物理尺寸（mm），已按纵横方向处理。
type Paper struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// String 返回可被 ParsePaper 再次解析的写法，例如 "A4 landscape"。
func (p Paper) String() string {
	if p.Width > p.Height {
		return p.Name + " landscape"
	}
	return p.Name + " portrait"
}

var paperPresets = map[string][2]float64{
	"A4": {210, 297},
	"A5": {148, 210},
	"B5": {176, 250}, // JIS B5
}

// PaperNames 返回支持的纸张名称。
func PaperNames() []string {
	names := make([]string, 0, len(paperPresets))
	for name := range paperPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePaper 解析 "A4"、"A4 landscape"、"a5-portrait"、"B5横" 等写法，默认纵向。
func ParsePaper(value string) (Paper, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		s = "A4"
	}
	landscape := false
	for _, suf := range []struct {
		s         string
		landscape bool
	}{{"縦", false}, {"横", true}, {"portrait", false}, {"landscape", true}} {
		lower := strings.ToLower(s)
		if strings.HasSuffix(lower, suf.s) {
			landscape = suf.landscape
			s = strings.TrimRight(s[:len(s)-len(suf.s)], " -_")
			break
		}
	}
	name := strings.ToUpper(strings.TrimSpace(s))
	base, ok := paperPresets[name]
	if !ok {
		return Paper{}, configErrorf("paper", "暂不支持的纸张尺寸：%s（可选 %s）", value, strings.Join(PaperNames(), "/"))
	}
	p := Paper{Name: name, Width: base[0], Height: base[1]}
	if landscape {
		p.Width, p.Height = p.Height, p.Width
	}
	return p, nil
}

// MustPaper 用于预设常量，名称非法时 panic。
func MustPaper(value string) Paper {
	p, err := ParsePaper(value)
	if err != nil {
		panic(fmt.Sprintf("layout: %v", err))
	}
	return p
}
