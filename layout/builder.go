package layout

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/shuji/binding"
	"github.com/ByLCY/shuji/settings"
	"github.com/ByLCY/shuji/sheet"
)

// Build 把练习纸文件中的赋值叠加到默认设置上，填入数据后生成 Sheet。
func Build(doc *sheet.Document, data any, opts BuildOptions) (*Sheet, error) {
	if doc == nil {
		return nil, fmt.Errorf("练习纸文档为空")
	}
	s := settings.Default()
	if opts.Defaults != nil {
		s = *opts.Defaults
	}

	text, _ := doc.Text()
	for _, a := range doc.Assignments() {
		key := strings.ToLower(a.Key)
		if key == "text" {
			text = a.Value.Raw()
			continue
		}
		if err := applySetting(&s, key, a.Value.Raw()); err != nil {
			return nil, fmt.Errorf("第 %d 行 %s: %w", a.Pos.Line, a.Key, err)
		}
	}
	if opts.Text != "" {
		text = opts.Text
	}

	sh, err := FromSettings(s, binding.Interpolate(text, data))
	if err != nil {
		return nil, err
	}
	sh.Name = doc.Name
	return sh, nil
}

// FromSettings 校验扁平设置并生成 Sheet。正文统一为 NFC，使组合字符与预组字符排版一致。
func FromSettings(s settings.Settings, text string) (*Sheet, error) {
	paper, err := ParsePaper(s.Paper)
	if err != nil {
		return nil, err
	}
	dir, err := ParseDirection(s.Direction)
	if err != nil {
		return nil, err
	}
	weight, err := normalizeWeight(s.FontWeight)
	if err != nil {
		return nil, err
	}
	hex, err := resolveColor(s.Color)
	if err != nil {
		return nil, err
	}
	col, err := ParseColor(hex)
	if err != nil {
		return nil, err
	}

	cfg, err := NewConfig(Params{
		Paper:      paper,
		Margin:     s.PaperMargin,
		FontSize:   s.FontSize,
		Direction:  dir,
		CharMargin: s.CharMargin,
		LineMargin: s.LineMargin,
		CenterLine: s.CenterLine,
	})
	if err != nil {
		return nil, err
	}

	s.Paper = paper.String()
	s.Direction = dir.String()
	s.FontWeight = weight
	s.Color = hex

	return &Sheet{
		Paper:    paper,
		Margin:   s.PaperMargin,
		Config:   cfg,
		Style:    Style{Font: s.FontName, Weight: weight, Color: col},
		Text:     norm.NFC.String(text),
		Settings: s,
	}, nil
}

func applySetting(s *settings.Settings, key, raw string) error {
	switch key {
	case "font", "font-name":
		s.FontName = strings.TrimSpace(raw)
	case "font-size", "size":
		l, ok := ParseLength(raw)
		if !ok {
			return configErrorf("fontSize", "无法解析 %q", raw)
		}
		s.FontSize = l.ToPx()
	case "font-weight", "weight":
		w, err := normalizeWeight(raw)
		if err != nil {
			return err
		}
		s.FontWeight = w
	case "color":
		c, err := resolveColor(raw)
		if err != nil {
			return err
		}
		s.Color = c
	case "center-line":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return configErrorf("centerLine", "无法解析 %q", raw)
		}
		s.CenterLine = b
	case "paper":
		p, err := ParsePaper(raw)
		if err != nil {
			return err
		}
		s.Paper = p.String()
	case "paper-margin", "margin":
		l, ok := ParseLength(raw)
		if !ok {
			return configErrorf("paperMargin", "无法解析 %q", raw)
		}
		s.PaperMargin = l.ToMM()
	case "char-margin":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return configErrorf("charMargin", "无法解析 %q", raw)
		}
		s.CharMargin = f
	case "line-margin":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return configErrorf("lineMargin", "无法解析 %q", raw)
		}
		s.LineMargin = f
	case "direction":
		d, err := ParseDirection(raw)
		if err != nil {
			return err
		}
		s.Direction = d.String()
	default:
		return configErrorf(key, "是未知的配置项")
	}
	return nil
}
