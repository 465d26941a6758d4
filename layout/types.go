package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/shuji/settings"
)

// 该文件定义一次排版所需的配置、样式与排版产物，供排版、渲染后端与调试 JSON 共用。

// Direction 表示书写方向。
type Direction int

const (
	Horizontal Direction = iota // 横书：行自上而下，字自左向右
	Vertical                    // 竖书：行自右向左，字自上而下
)

func (d Direction) String() string {
	switch d {
	case Vertical:
		return "vertical"
	default:
		return "horizontal"
	}
}

// MarshalText 让方向在 JSON/YAML 中以字符串出现。
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText 接受 ParseDirection 支持的所有写法。
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection 解析书写方向，兼容日文选项文本（横書き/縦書き）。
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h", "横書き", "横书":
		return Horizontal, nil
	case "vertical", "v", "縦書き", "竖书":
		return Vertical, nil
	default:
		return Horizontal, configErrorf("direction", "无法识别的书写方向 %q", s)
	}
}

// Config 是一次排版的不可变快照。长度单位均为 CSS 像素（96px = 25.4mm）。
type Config struct {
	FontSize   float64   `json:"fontSize"`
	Direction  Direction `json:"direction"`
	CharMargin float64   `json:"charMargin"` // 字间距占格子边长的比例
	LineMargin float64   `json:"lineMargin"` // 行间距占格子边长的比例
	PageWidth  float64   `json:"pageWidth"`  // 扣除纸张边距后的可用宽度
	PageHeight float64   `json:"pageHeight"` // 扣除纸张边距后的可用高度
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	CenterLine bool      `json:"centerLine"`
}

// Validate 在任何绘制开始之前检查配置。
func (c Config) Validate() error {
	if !(c.FontSize > 0) || math.IsInf(c.FontSize, 0) {
		return configErrorf("fontSize", "必须是大于 0 的有限值，实际为 %g", c.FontSize)
	}
	if c.Rows < 1 {
		return configErrorf("rows", "必须至少为 1，实际为 %d", c.Rows)
	}
	if c.Cols < 1 {
		return configErrorf("cols", "必须至少为 1，实际为 %d", c.Cols)
	}
	if !finiteRatio(c.CharMargin) {
		return configErrorf("charMargin", "必须是非负的有限值，实际为 %g", c.CharMargin)
	}
	if !finiteRatio(c.LineMargin) {
		return configErrorf("lineMargin", "必须是非负的有限值，实际为 %g", c.LineMargin)
	}
	if c.Direction != Horizontal && c.Direction != Vertical {
		return configErrorf("direction", "未知取值 %d", int(c.Direction))
	}
	return nil
}

// finiteRatio 对负数、NaN 与 +Inf 返回 false。
func finiteRatio(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// PageBox 返回实际渲染页面的像素尺寸。竖书时行方向占据页面宽度，因此宽高互换。
func (c Config) PageBox() (width, height float64) {
	across := (float64(c.Cols) + float64(c.Cols+1)*c.CharMargin) * c.FontSize
	down := (float64(c.Rows) + float64(c.Rows+1)*c.LineMargin) * c.FontSize
	if c.Direction == Vertical {
		return down, across
	}
	return across, down
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex 返回 #RRGGBB 形式。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R&0xff, c.G&0xff, c.B&0xff)
}

// Style 是传给渲染后端的样式提示。Font 为不透明的字体标识，核心不检查其可用性。
type Style struct {
	Font   string `json:"font"`
	Weight string `json:"weight"`
	Color  Color  `json:"color"`
}

// Line 是折行后的一行，每个元素是一个字素簇。
type Line []string

func (l Line) String() string { return strings.Join(l, "") }

// Segment 是一条辅助线段（像素坐标）。
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// PlacedChar 是已确定中心坐标的字符。
type PlacedChar struct {
	Char   string    `json:"char"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Line   int       `json:"line"`  // 页内行号
	Index  int       `json:"index"` // 行内序号
	Guides []Segment `json:"guides,omitempty"`
}

// Sheet 是一份可直接渲染的练习纸：配置快照、样式与正文。
type Sheet struct {
	Name     string            `json:"name"`
	Paper    Paper             `json:"paper"`
	Margin   float64           `json:"margin"` // 纸张边距（mm）
	Config   Config            `json:"config"`
	Style    Style             `json:"style"`
	Text     string            `json:"text"`
	Settings settings.Settings `json:"settings"` // 规范化后的设置，可直接保存
}
