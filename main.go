package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ByLCY/shuji/binding"
	"github.com/ByLCY/shuji/fonts"
	"github.com/ByLCY/shuji/layout"
	"github.com/ByLCY/shuji/renderer"
	"github.com/ByLCY/shuji/renderer/browser"
	canvasrenderer "github.com/ByLCY/shuji/renderer/canvas"
	"github.com/ByLCY/shuji/renderer/svgdoc"
	"github.com/ByLCY/shuji/settings"
	"github.com/ByLCY/shuji/sheet"
)

type options struct {
	input        string
	text         string
	output       string
	settingsPath string
	saveSettings string
	debugPath    string
}

func main() {
	input := flag.String("in", "", "练习纸文件路径，为空时只使用设置与 -text")
	text := flag.String("text", "", "正文，非空时覆盖练习纸文件中的正文")
	output := flag.String("out", "output/sheet.svg", "输出路径，多页时追加 -<页码>")
	format := flag.String("format", "svg", "输出格式：svg|pdf|png|canvas-svg|browser-png|browser-jpg")
	settingsPath := flag.String("settings", "", "设置文件（.json/.yaml），不存在时使用默认设置")
	saveSettings := flag.String("save-settings", "", "把最终生效的设置保存到该路径")
	dataJSON := flag.String("data", "", "绑定到正文 ${...} 的 JSON 数据")
	debug := flag.String("debug", "", "排版调试 JSON 输出路径")
	chrome := flag.String("chrome", "", "browser-* 格式使用的 Chrome 路径")
	scale := flag.Float64("scale", 1, "png 格式的像素倍率，1 表示 1 个 CSS 像素对应 1 个图像像素")
	listFonts := flag.Bool("list-fonts", false, "列出可用字体后退出")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *listFonts {
		for _, name := range fonts.List() {
			fmt.Println(name)
		}
		return
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	r, err := newRenderer(*format, *chrome, *scale)
	if err != nil {
		log.Fatal(err)
	}
	files, err := run(options{
		input:        *input,
		text:         *text,
		output:       *output,
		settingsPath: *settingsPath,
		saveSettings: *saveSettings,
		debugPath:    *debug,
	}, inputData, r)
	if err != nil {
		log.Fatalf("生成练习纸失败: %v", err)
	}
	for _, f := range files {
		fmt.Printf("已生成：%s\n", f)
	}
}

func newRenderer(format, chrome string, scale float64) (renderer.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "svg":
		return svgdoc.NewRenderer(svgdoc.Options{}), nil
	case "pdf":
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Format: canvasrenderer.FormatPDF}), nil
	case "png":
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Format: canvasrenderer.FormatPNG, Scale: scale}), nil
	case "canvas-svg":
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Format: canvasrenderer.FormatSVG}), nil
	case "browser-png":
		return browser.NewRenderer(browser.Options{ExecPath: chrome}), nil
	case "browser-jpg":
		return browser.NewRenderer(browser.Options{ExecPath: chrome, JPEG: true}), nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", format)
	}
}

// run 串联设置、解析、排版与渲染，返回写出的文件路径。
func run(o options, data any, r renderer.Renderer) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	defaults := settings.Default()
	if o.settingsPath != "" {
		s, err := settings.Load(o.settingsPath)
		if err != nil {
			return nil, fmt.Errorf("读取设置失败: %w", err)
		}
		defaults = s
	}

	sh, err := buildSheet(o, data, defaults)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"paper": sh.Paper.String(),
		"rows":  sh.Config.Rows,
		"cols":  sh.Config.Cols,
	}).Debug("排版参数")

	if o.saveSettings != "" {
		if err := settings.Save(o.saveSettings, sh.Settings); err != nil {
			return nil, fmt.Errorf("保存设置失败: %w", err)
		}
	}
	if o.debugPath != "" {
		if err := writeDebug(sh, o.debugPath); err != nil {
			return nil, err
		}
	}

	out, err := r.Render(sh)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	paths := outputPaths(o.output, out.Ext, len(out.Files))
	if len(paths) > 0 {
		if err := os.MkdirAll(filepath.Dir(paths[0]), 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	for i, p := range paths {
		if err := os.WriteFile(p, out.Files[i], 0o644); err != nil {
			return nil, fmt.Errorf("写入 %s 失败: %w", p, err)
		}
	}
	return paths, nil
}

func buildSheet(o options, data any, defaults settings.Settings) (*layout.Sheet, error) {
	if o.input == "" {
		sh, err := layout.FromSettings(defaults, binding.Interpolate(o.text, data))
		if err != nil {
			return nil, fmt.Errorf("排版配置无效: %w", err)
		}
		return sh, nil
	}
	file, err := os.Open(o.input)
	if err != nil {
		return nil, fmt.Errorf("无法打开练习纸文件 %s: %w", o.input, err)
	}
	defer file.Close()

	doc, err := sheet.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析练习纸文件失败: %w", err)
	}
	sh, err := layout.Build(doc, data, layout.BuildOptions{Defaults: &defaults, Text: o.text})
	if err != nil {
		return nil, fmt.Errorf("排版配置无效: %w", err)
	}
	return sh, nil
}

// outputPaths 用渲染格式的扩展名替换 output 的扩展名，多于一个文件时按页编号。
func outputPaths(output, ext string, n int) []string {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	if n == 1 {
		return []string{base + ext}
	}
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s-%d%s", base, i+1, ext)
	}
	return paths
}

func writeDebug(sh *layout.Sheet, debugPath string) error {
	result, err := layout.PlanSheet(sh)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(debugPath)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	defer f.Close()
	if err := result.WriteJSON(f); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
