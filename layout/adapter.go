package layout

import "fmt"

// PageHandle 标识渲染后端中的一页。EndPage 之后不会再被使用。
type PageHandle int

// Adapter 是渲染后端需要实现的绘制接口。
// Run 在第一个字符之前调用一次 BeginPage，每次换页调用 EndPage+BeginPage，结束时调用一次 EndPage。
// 同一字符的辅助线先于字形绘制。
type Adapter interface {
	BeginPage(width, height float64, dir Direction) (PageHandle, error)
	DrawGlyph(page PageHandle, char string, x, y float64, style Style) error
	DrawGuideSegment(page PageHandle, seg Segment) error
	EndPage(page PageHandle) error
}

// Run 对 text 做一次完整的排版与分页，并把绘制命令交给 a。
// 配置错误在调用 a 之前返回。text 为空时仍输出一张不含任何行的空白页。
func Run(cfg Config, style Style, text string, a Adapter) error {
	if a == nil {
		return fmt.Errorf("layout: 缺少渲染后端 Adapter")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	lines, err := Wrap(text, cfg.Cols)
	if err != nil {
		return err
	}
	return walk(cfg, lines, &adapterVisitor{a: a, style: style})
}

type adapterVisitor struct {
	a     Adapter
	style Style
	page  PageHandle
	n     int
}

func (v *adapterVisitor) begin(width, height float64, dir Direction) error {
	page, err := v.a.BeginPage(width, height, dir)
	if err != nil {
		return fmt.Errorf("创建第 %d 页失败: %w", v.n+1, err)
	}
	v.page = page
	v.n++
	return nil
}

func (v *adapterVisitor) place(pc PlacedChar) error {
	for _, seg := range pc.Guides {
		if err := v.a.DrawGuideSegment(v.page, seg); err != nil {
			return fmt.Errorf("第 %d 页绘制辅助线失败: %w", v.n, err)
		}
	}
	if err := v.a.DrawGlyph(v.page, pc.Char, pc.X, pc.Y, v.style); err != nil {
		return fmt.Errorf("第 %d 页绘制字符 %q 失败: %w", v.n, pc.Char, err)
	}
	return nil
}

func (v *adapterVisitor) end(int) error {
	if err := v.a.EndPage(v.page); err != nil {
		return fmt.Errorf("结束第 %d 页失败: %w", v.n, err)
	}
	return nil
}
