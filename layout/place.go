package layout

// axisMap 把"行方向/字方向"上的位置映射到页面坐标。每次排版按书写方向只选择一次。
type axisMap struct {
	width  float64
	height float64
	point  func(linePos, charPos float64) (x, y float64)
}

func axesFor(cfg Config) axisMap {
	w, h := cfg.PageBox()
	m := axisMap{width: w, height: h}
	if cfg.Direction == Vertical {
		// 行自右向左推进，行内自上而下
		m.point = func(linePos, charPos float64) (float64, float64) { return w - linePos, charPos }
	} else {
		m.point = func(linePos, charPos float64) (float64, float64) { return charPos, linePos }
	}
	return m
}

// LinePos 返回页内第 lineIdx 行中心在行推进方向上的偏移。首行之前同样留出一个行间距。
func (c Config) LinePos(lineIdx int) float64 {
	return (c.LineMargin+0.5)*c.FontSize + float64(lineIdx)*(1+c.LineMargin)*c.FontSize
}

// CharPos 返回行内第 charIdx 个字符中心在字方向上的偏移。
func (c Config) CharPos(charIdx int) float64 {
	return (c.CharMargin+0.5)*c.FontSize + float64(charIdx)*(1+c.CharMargin)*c.FontSize
}

// Guides 返回以 (x, y) 为中心、长度为一个字号的十字辅助线（先横后竖）。
func (c Config) Guides(x, y float64) []Segment {
	half := c.FontSize / 2
	return []Segment{
		{X1: x - half, Y1: y, X2: x + half, Y2: y},
		{X1: x, Y1: y - half, X2: x, Y2: y + half},
	}
}

func placeLine(cfg Config, axes axisMap, lineIdx int, line Line) []PlacedChar {
	out := make([]PlacedChar, 0, len(line))
	linePos := cfg.LinePos(lineIdx)
	for idx, ch := range line {
		x, y := axes.point(linePos, cfg.CharPos(idx))
		pc := PlacedChar{Char: ch, X: x, Y: y, Line: lineIdx, Index: idx}
		if cfg.CenterLine {
			pc.Guides = cfg.Guides(x, y)
		}
		out = append(out, pc)
	}
	return out
}
