package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/shuji/fonts"
	"github.com/ByLCY/shuji/layout"
	"github.com/ByLCY/shuji/renderer"
)

// guideWidth 与 guideDash 为辅助线的线宽与虚线间隔，单位 px。
const (
	guideWidth = 1.0
	guideDash  = 5.0
)

// Format 是 canvas 后端支持的输出格式。
type Format int

const (
	FormatPDF Format = iota // 所有页写入同一份 PDF
	FormatSVG               // 每页一份 SVG，字形转为路径
	FormatPNG               // 每页一张 PNG
)

// Ext 返回格式对应的文件扩展名。
func (f Format) Ext() string {
	switch f {
	case FormatSVG:
		return ".svg"
	case FormatPNG:
		return ".png"
	default:
		return ".pdf"
	}
}

// Renderer draws sheets via github.com/tdewolff/canvas.
type Renderer struct {
	format Format
	dpmm   float64

	fontMu           sync.Mutex
	fontFamilies     map[string]*fontFamilyEntry
	fallbackFamilies map[bool]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Adapter    = (*pass)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// Scale 是 PNG 的像素倍率，1 表示一个 CSS 像素对应一个图像像素。默认为 1。
	Scale float64
}

// NewRenderer creates a canvas-based renderer.
func NewRenderer(opts Options) *Renderer {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{
		format:           opts.Format,
		dpmm:             scale * layout.PxPerInch / layout.MmPerInch,
		fontFamilies:     map[string]*fontFamilyEntry{},
		fallbackFamilies: map[bool]*canvas.FontFamily{},
	}
}

// Render 排版并按配置的格式输出。
func (r *Renderer) Render(s *layout.Sheet) (*renderer.Output, error) {
	if s == nil {
		return nil, fmt.Errorf("练习纸为空")
	}
	if strings.TrimSpace(s.Style.Font) == "" {
		return nil, layout.ErrNoFontSelected
	}
	// 字号为 px，字体系统使用 pt
	face, err := r.fontFace(s.Style, layout.PxToPt(s.Config.FontSize))
	if err != nil {
		return nil, err
	}

	p := &pass{r: r, sheet: s, face: face, current: -1, seen: map[string]bool{}}
	if err := layout.Run(s.Config, s.Style, s.Text, p); err != nil {
		return nil, err
	}
	if len(p.missing) > 0 {
		logrus.WithFields(logrus.Fields{
			"font":  s.Style.Font,
			"count": len(p.missing),
			"chars": strings.Join(p.missing, ""),
		}).Warn("字体缺少部分字符的字形，将显示为占位框")
	}
	if p.pdf != nil {
		if err := p.pdf.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
		p.files = append(p.files, p.pdfBuf.Bytes())
	}
	logrus.WithFields(logrus.Fields{"format": r.format.Ext(), "files": len(p.files)}).Debug("渲染完成")
	return &renderer.Output{Ext: r.format.Ext(), Files: p.files}, nil
}

// pass 是一次渲染的 layout.Adapter。页面坐标以 px 传入，canvas 内部使用 mm。
type pass struct {
	r     *Renderer
	sheet *layout.Sheet
	face  *canvas.FontFace

	current layout.PageHandle
	n       int
	dir     layout.Direction
	w, h    float64 // mm
	c       *canvas.Canvas
	ctx     *canvas.Context

	pdf    *pdf.PDF
	pdfBuf bytes.Buffer
	files  [][]byte

	seen    map[string]bool
	missing []string // 字体中没有字形的字符，按首次出现排列
}

func (p *pass) BeginPage(width, height float64, dir layout.Direction) (layout.PageHandle, error) {
	if p.current >= 0 {
		return -1, fmt.Errorf("第 %d 页尚未结束", p.current+1)
	}
	w, h := layout.PxToMM(width), layout.PxToMM(height)
	p.w, p.h = w, h
	p.c = canvas.New(w, h)
	p.ctx = canvas.NewContext(p.c)
	p.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点
	if p.r.format == FormatPNG {
		p.ctx.SetFillColor(color.White)
		p.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		p.ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	}
	p.dir = dir
	p.current = layout.PageHandle(p.n)
	p.n++
	return p.current, nil
}

func (p *pass) DrawGuideSegment(page layout.PageHandle, seg layout.Segment) error {
	if err := p.check(page); err != nil {
		return err
	}
	p.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	p.ctx.SetStrokeColor(colorFromLayout(p.sheet.Style.Color))
	p.ctx.SetStrokeWidth(layout.PxToMM(guideWidth))
	p.ctx.SetDashes(0, layout.PxToMM(guideDash), layout.PxToMM(guideDash))
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(layout.PxToMM(seg.X2-seg.X1), layout.PxToMM(seg.Y2-seg.Y1))
	p.ctx.DrawPath(layout.PxToMM(seg.X1), layout.PxToMM(seg.Y1), path)
	p.ctx.SetDashes(0)
	return nil
}

func (p *pass) DrawGlyph(page layout.PageHandle, char string, x, y float64, style layout.Style) error {
	if err := p.check(page); err != nil {
		return err
	}
	if p.dir == layout.Vertical {
		if v := verticalForm(char); v != char && hasGlyph(p.face, v) {
			char = v
		}
	}
	if !p.seen[char] {
		p.seen[char] = true
		if !hasGlyph(p.face, char) {
			p.missing = append(p.missing, char)
		}
	}
	text := canvas.NewTextLine(p.face, char, canvas.Center)
	// 字形在格子内垂直居中：基线位于中心下方 (ascent-descent)/2
	m := p.face.Metrics()
	baseline := layout.PxToMM(y) + (m.Ascent-m.Descent)/2
	p.ctx.DrawText(layout.PxToMM(x), baseline, text)
	return nil
}

func (p *pass) EndPage(page layout.PageHandle) error {
	if err := p.check(page); err != nil {
		return err
	}
	defer func() {
		p.c, p.ctx = nil, nil
		p.current = -1
	}()

	w, h := p.w, p.h
	switch p.r.format {
	case FormatPDF:
		if p.pdf == nil {
			p.pdf = pdf.New(&p.pdfBuf, w, h, nil)
			p.pdf.SetInfo(p.sheet.Name, "", "", "", "shuji")
		} else {
			p.pdf.NewPage(w, h)
		}
		p.c.RenderTo(p.pdf)
	case FormatSVG:
		var buf bytes.Buffer
		writer := svg.New(&buf, w, h, nil)
		p.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 SVG 失败: %w", err)
		}
		p.files = append(p.files, buf.Bytes())
	case FormatPNG:
		img := rasterizer.Draw(p.c, canvas.DPMM(p.r.dpmm), canvas.DefaultColorSpace)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("写入 PNG 失败: %w", err)
		}
		p.files = append(p.files, buf.Bytes())
	default:
		return fmt.Errorf("不支持的输出格式 %d", p.r.format)
	}
	return nil
}

func (p *pass) check(page layout.PageHandle) error {
	if p.current < 0 || page != p.current {
		return fmt.Errorf("页面句柄 %d 无效", page)
	}
	return nil
}

func (r *Renderer) fontFace(style layout.Style, sizePt float64) (*canvas.FontFace, error) {
	family, fontStyle, err := r.ensureFontFamily(style)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(style.Color), fontStyle, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(style layout.Style) (*canvas.FontFamily, canvas.FontStyle, error) {
	fontStyle := parseFontWeight(style.Weight)
	key := fontCacheKey(style.Font, fontStyle)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	family := canvas.NewFontFamily(style.Font)
	if err := loadFontIntoFamily(family, style.Font, fontStyle); err != nil {
		logrus.WithError(err).WithField("font", style.Font).Warn("字体不可用，改用内置字体")
		fallback, fbErr := r.fallback(isBold(fontStyle))
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: fontStyle}
	return family, fontStyle, nil
}

func loadFontIntoFamily(family *canvas.FontFamily, name string, style canvas.FontStyle) error {
	if fonts.IsBuiltin(name) {
		return family.LoadFont(fonts.Load(isBold(style)), 0, style)
	}
	locate := fonts.Locate
	if fonts.IsAuto(name) {
		locate = func(string) (string, error) { return fonts.LocateCJK() }
	}
	path, err := locate(name)
	if err != nil {
		return err
	}
	return family.LoadFontFile(path, style)
}

// fallback 返回内置字体。调用方需持有 fontMu。
func (r *Renderer) fallback(bold bool) (*canvas.FontFamily, error) {
	if family, ok := r.fallbackFamilies[bold]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily("shuji-fallback")
	if err := family.LoadFont(fonts.Load(bold), 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamilies[bold] = family
	return family, nil
}

// hasGlyph 报告字体是否含有字符簇首个码位的字形。组合符号等后续码位不检查。
func hasGlyph(face *canvas.FontFace, char string) bool {
	r, _ := utf8.DecodeRuneInString(char)
	if r == utf8.RuneError {
		return false
	}
	return face.Font.GlyphIndex(r) != 0
}

// parseFontWeight 把 normal/bold/bolder/lighter 映射为 canvas 的字重。
func parseFontWeight(weight string) canvas.FontStyle {
	switch strings.ToLower(weight) {
	case "bold":
		return canvas.FontBold
	case "bolder":
		return canvas.FontExtraBold
	case "lighter":
		return canvas.FontLight
	default:
		return canvas.FontRegular
	}
}

func isBold(style canvas.FontStyle) bool {
	return style == canvas.FontBold || style == canvas.FontExtraBold
}

func fontCacheKey(name string, style canvas.FontStyle) string {
	return fmt.Sprintf("%s|%d", name, style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
