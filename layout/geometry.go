package layout

import "math"

// Grid 是纸张扣除边距后的可用区域（像素）及其能容纳的行列数。
type Grid struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
}

// ResolveGrid 根据纸张尺寸、四周对称的边距（mm）与字号（px）计算网格容量。
// 宽度方向决定列数、高度方向决定行数，与书写方向无关；竖书只交换渲染页面的宽高（见 Config.PageBox）。
func ResolveGrid(paper Paper, margin, fontSize float64) (Grid, error) {
	if !(fontSize > 0) || math.IsInf(fontSize, 0) {
		return Grid{}, configErrorf("fontSize", "必须是大于 0 的有限值，实际为 %g", fontSize)
	}
	if math.IsNaN(margin) || math.IsInf(margin, 0) {
		return Grid{}, configErrorf("paperMargin", "必须是有限值，实际为 %g", margin)
	}
	wmm := paper.Width - 2*margin
	hmm := paper.Height - 2*margin
	if !(wmm > 0) || !(hmm > 0) {
		return Grid{}, configErrorf("paperMargin", "边距 %gmm 超出纸张 %s（%gx%gmm）的一半", margin, paper.Name, paper.Width, paper.Height)
	}
	g := Grid{Width: MMToPx(wmm), Height: MMToPx(hmm)}
	g.Cols = int(math.Ceil(g.Width / fontSize))
	g.Rows = int(math.Ceil(g.Height / fontSize))
	if g.Rows < 1 || g.Cols < 1 {
		return Grid{}, configErrorf("grid", "容量 %dx%d 无效", g.Rows, g.Cols)
	}
	return g, nil
}

// Params 是排版的物理输入，由设置或练习纸文件得到。
type Params struct {
	Paper      Paper
	Margin     float64 // mm
	FontSize   float64 // px
	Direction  Direction
	CharMargin float64
	LineMargin float64
	CenterLine bool
}

// NewConfig 解析网格并生成经过校验的配置快照。
func NewConfig(p Params) (Config, error) {
	g, err := ResolveGrid(p.Paper, p.Margin, p.FontSize)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		FontSize:   p.FontSize,
		Direction:  p.Direction,
		CharMargin: p.CharMargin,
		LineMargin: p.LineMargin,
		PageWidth:  g.Width,
		PageHeight: g.Height,
		Rows:       g.Rows,
		Cols:       g.Cols,
		CenterLine: p.CenterLine,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
