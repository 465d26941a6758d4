// Package svgdoc 是矢量渲染后端：每页输出一份独立的 SVG 文档。
// 字形以 <text> 元素输出，字体标识写入 font-family，由查看器负责解析字体。
package svgdoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ByLCY/shuji/fonts"
	"github.com/ByLCY/shuji/layout"
	"github.com/ByLCY/shuji/renderer"
)

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Adapter    = (*pass)(nil)
)

// Options configures the SVG renderer.
type Options struct {
	Background string // 页面底色，为空时透明
}

// Renderer renders sheets into standalone SVG documents.
type Renderer struct {
	background string
}

// NewRenderer creates an SVG renderer.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{background: opts.Background}
}

// Render 排版并输出每页一份 SVG。
func (r *Renderer) Render(s *layout.Sheet) (*renderer.Output, error) {
	if s == nil {
		return nil, fmt.Errorf("练习纸为空")
	}
	if strings.TrimSpace(s.Style.Font) == "" {
		return nil, layout.ErrNoFontSelected
	}
	p := &pass{
		background: r.background,
		stroke:     s.Style.Color.Hex(),
		fontSize:   s.Config.FontSize,
		current:    -1,
	}
	if err := layout.Run(s.Config, s.Style, s.Text, p); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"format": "svg", "pages": len(p.docs)}).Debug("渲染完成")
	return &renderer.Output{Ext: ".svg", Files: p.docs}, nil
}

// pass 保存一次渲染过程中的页面状态。
type pass struct {
	background string
	stroke     string
	fontSize   float64
	docs       [][]byte
	buf        bytes.Buffer
	current    layout.PageHandle
	dir        layout.Direction
}

func (p *pass) BeginPage(width, height float64, dir layout.Direction) (layout.PageHandle, error) {
	if p.current >= 0 {
		return -1, fmt.Errorf("第 %d 页尚未结束", p.current+1)
	}
	p.buf.Reset()
	p.dir = dir
	w, h := num(width), num(height)
	fmt.Fprintf(&p.buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%spx" height="%spx" viewBox="0 0 %s %s" style="display:block">`, w, h, w, h)
	p.buf.WriteByte('\n')
	if p.background != "" {
		fmt.Fprintf(&p.buf, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`, w, h, escape(p.background))
		p.buf.WriteByte('\n')
	}
	p.buf.WriteString("<g>\n")
	p.current = layout.PageHandle(len(p.docs))
	return p.current, nil
}

func (p *pass) DrawGuideSegment(page layout.PageHandle, seg layout.Segment) error {
	if err := p.check(page); err != nil {
		return err
	}
	fmt.Fprintf(&p.buf, `<line stroke="%s" stroke-width="1" stroke-dasharray="5,5" x1="%s" y1="%s" x2="%s" y2="%s"/>`,
		p.stroke, num(seg.X1), num(seg.Y1), num(seg.X2), num(seg.Y2))
	p.buf.WriteByte('\n')
	return nil
}

func (p *pass) DrawGlyph(page layout.PageHandle, char string, x, y float64, style layout.Style) error {
	if err := p.check(page); err != nil {
		return err
	}
	fmt.Fprintf(&p.buf, `<text font-family="%s" fill="%s" font-size="%s" font-weight="%s" text-anchor="middle" dominant-baseline="central" alignment-baseline="central"`,
		escape(fonts.CSSFamily(style.Font)), style.Color.Hex(), num(p.fontSize), escape(weightOrNormal(style.Weight)))
	if p.dir == layout.Vertical {
		p.buf.WriteString(` writing-mode="tb"`)
	}
	fmt.Fprintf(&p.buf, ` x="%s" y="%s">%s</text>`, num(x), num(y), escape(char))
	p.buf.WriteByte('\n')
	return nil
}

func (p *pass) EndPage(page layout.PageHandle) error {
	if err := p.check(page); err != nil {
		return err
	}
	p.buf.WriteString("</g>\n</svg>\n")
	p.docs = append(p.docs, append([]byte(nil), p.buf.Bytes()...))
	p.current = -1
	return nil
}

func (p *pass) check(page layout.PageHandle) error {
	if page != p.current || p.current < 0 {
		return fmt.Errorf("页面句柄 %d 无效", page)
	}
	return nil
}

func weightOrNormal(w string) string {
	if w == "" {
		return "normal"
	}
	return w
}

// num 保留三位小数并去掉多余的零。
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
