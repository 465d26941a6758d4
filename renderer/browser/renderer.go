// Package browser 用无头 Chrome 把矢量页面栅格化为图片。
// 页面先由 svgdoc 生成，字体由浏览器按 font-family 解析，因此可以使用系统中安装的任意字体。
package browser

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/ByLCY/shuji/layout"
	"github.com/ByLCY/shuji/renderer"
	"github.com/ByLCY/shuji/renderer/svgdoc"
)

var _ renderer.Renderer = (*Renderer)(nil)

const defaultTimeout = time.Minute

// Options configures the browser renderer.
type Options struct {
	JPEG       bool          // 输出 JPEG，默认 PNG
	Quality    int           // JPEG 质量，默认 90
	Timeout    time.Duration // 整次渲染的超时，默认一分钟
	ExecPath   string        // Chrome 可执行文件，为空时由 chromedp 自动查找
	NoSandbox  bool
	Background string // 页面底色，默认白色
}

// Renderer screenshots SVG pages in headless Chrome.
type Renderer struct {
	opts Options
	svg  *svgdoc.Renderer
}

// NewRenderer creates a browser renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Quality <= 0 {
		opts.Quality = 90
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Background == "" {
		opts.Background = "white"
	}
	return &Renderer{opts: opts, svg: svgdoc.NewRenderer(svgdoc.Options{Background: opts.Background})}
}

// Render 使用后台 context 渲染。
func (r *Renderer) Render(s *layout.Sheet) (*renderer.Output, error) {
	return r.RenderContext(context.Background(), s)
}

// RenderContext 生成每页 SVG 后在同一个浏览器实例中逐页截图。
func (r *Renderer) RenderContext(ctx context.Context, s *layout.Sheet) (*renderer.Output, error) {
	pages, err := r.svg.Render(s)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	out := &renderer.Output{Ext: ".png"}
	if r.opts.JPEG {
		out.Ext = ".jpg"
	}
	for i, doc := range pages.Files {
		shot, err := screenshot(browserCtx, doc)
		if err != nil {
			return nil, fmt.Errorf("第 %d 页截图失败: %w", i+1, err)
		}
		if r.opts.JPEG {
			if shot, err = toJPEG(shot, r.opts.Quality); err != nil {
				return nil, fmt.Errorf("第 %d 页转换 JPEG 失败: %w", i+1, err)
			}
		}
		out.Files = append(out.Files, shot)
		logrus.WithField("page", i+1).Debug("截图完成")
	}
	return out, nil
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}
	if r.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// screenshot 通过 data URI 打开 SVG，截取 svg 元素。
func screenshot(ctx context.Context, doc []byte) ([]byte, error) {
	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(doc)
	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &buf, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("截图为空")
	}
	return buf, nil
}

func toJPEG(pngData []byte, quality int) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
