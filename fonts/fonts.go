// Package fonts 解析字体标识：内置的 Go 字体、字体文件路径或系统中已安装的字体名。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Builtin 是内置字体的名称。内置的 Go 字体只覆盖拉丁字母。
const Builtin = "Go"

// Auto 是默认字体：渲染时在系统中查找 CJK 字体，找不到时退回内置字体。
const Auto = "auto"

// cjkCandidates 按优先顺序列出常见 CJK 字体的文件名（不含扩展名）。
var cjkCandidates = []string{
	"NotoSansCJK-Regular",
	"NotoSansCJKjp-Regular",
	"NotoSansCJKsc-Regular",
	"NotoSansCJKtc-Regular",
	"NotoSerifCJK-Regular",
	"NotoSansJP-Regular",
	"NotoSansSC-Regular",
	"SourceHanSans-Regular",
	"SourceHanSansJP-Regular",
	"SourceHanSerif-Regular",
	"ipaexg",
	"ipag",
	"wqy-microhei",
	"wqy-zenhei",
	"DroidSansFallbackFull",
	"YuGothR",
	"msgothic",
	"msyh",
	"simsun",
	"Hiragino Sans GB",
}

// cjkCSS 是 Auto 在 SVG 中对应的 font-family，由查看器选择第一个可用的字体。
const cjkCSS = "'Noto Sans CJK JP', 'Noto Sans JP', 'Source Han Sans', 'Hiragino Sans', 'Yu Gothic', 'Microsoft YaHei', sans-serif"

var (
	cjkOnce sync.Once
	cjkPath string
	cjkErr  error
)

// IsAuto 判断标识是否为 Auto。
func IsAuto(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), Auto)
}

// LocateCJK 返回第一个找到的 CJK 字体文件路径，结果在进程内缓存。
func LocateCJK() (string, error) {
	cjkOnce.Do(func() {
		for _, name := range cjkCandidates {
			if path, err := Locate(name); err == nil {
				cjkPath = path
				return
			}
		}
		cjkErr = fmt.Errorf("系统中找不到 CJK 字体（已尝试 %s 等 %d 种）", cjkCandidates[0], len(cjkCandidates))
	})
	return cjkPath, cjkErr
}

// CSSFamily 返回写入 SVG font-family 的取值，Auto 展开为常见 CJK 字体族。
func CSSFamily(name string) string {
	if IsAuto(name) {
		return cjkCSS
	}
	return strings.TrimSpace(name)
}

var fontExts = []string{".ttf", ".otf", ".ttc"}

// IsBuiltin 判断标识是否指向内置字体，接受 "Go"、"embed:Go"、"embed:goregular" 等写法。
func IsBuiltin(name string) bool {
	n := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "embed:"))
	switch n {
	case "go", "goregular", "gobold", "go-regular", "go-bold":
		return true
	}
	return false
}

// Load 返回内置字体的字节数据，bold 为 true 时返回粗体。
func Load(bold bool) []byte {
	if bold {
		return gobold.TTF
	}
	return goregular.TTF
}

// Locate 把字体标识解析为字体文件路径。依次尝试：已存在的文件路径、系统字体目录中的同名文件。
func Locate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("字体名为空")
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		compact := strings.ReplaceAll(name, " ", "")
		for _, ext := range fontExts {
			candidates = append(candidates, name+ext, compact+ext, strings.ReplaceAll(name, " ", "-")+ext)
		}
	}
	for _, c := range candidates {
		if path, err := findfont.Find(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("找不到字体 %s", name)
}

// List 返回系统中可用字体文件的名称（不含扩展名），已排序去重。开头依次是 Auto 与内置字体。
func List() []string {
	seen := map[string]bool{Auto: true, Builtin: true}
	names := []string{Auto, Builtin}
	for _, path := range findfont.List() {
		ext := strings.ToLower(filepath.Ext(path))
		if !isFontExt(ext) {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if seen[base] {
			continue
		}
		seen[base] = true
		names = append(names, base)
	}
	sort.Strings(names[2:])
	return names
}

func isFontExt(ext string) bool {
	for _, e := range fontExts {
		if e == ext {
			return true
		}
	}
	return false
}
