package layout

import (
	"encoding/json"
	"io"
)

// PagePlan 记录一页的尺寸与其中所有已定位的字符。
type PagePlan struct {
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Direction Direction    `json:"direction"`
	Lines     int          `json:"lines"`
	Chars     []PlacedChar `json:"chars"`
}

// Result 是一次排版的完整记录，用于调试输出与测试。
type Result struct {
	Config Config     `json:"config"`
	Style  Style      `json:"style"`
	Pages  []PagePlan `json:"pages"`
}

// Plan 执行与 Run 相同的排版，但把结果保存在内存中而不是交给渲染后端。
func Plan(cfg Config, style Style, text string) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lines, err := Wrap(text, cfg.Cols)
	if err != nil {
		return nil, err
	}
	rec := &recorder{}
	if err := walk(cfg, lines, rec); err != nil {
		return nil, err
	}
	return &Result{Config: cfg, Style: style, Pages: rec.pages}, nil
}

// WriteJSON 以缩进格式输出排版结果，供调试或可视化使用。
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// PlanSheet 是 Plan 针对 Sheet 的便捷封装。
func PlanSheet(s *Sheet) (*Result, error) {
	return Plan(s.Config, s.Style, s.Text)
}

type recorder struct {
	pages []PagePlan
}

func (r *recorder) begin(width, height float64, dir Direction) error {
	r.pages = append(r.pages, PagePlan{Width: width, Height: height, Direction: dir})
	return nil
}

func (r *recorder) place(pc PlacedChar) error {
	p := &r.pages[len(r.pages)-1]
	p.Chars = append(p.Chars, pc)
	return nil
}

func (r *recorder) end(lines int) error {
	r.pages[len(r.pages)-1].Lines = lines
	return nil
}
