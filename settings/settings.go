// Package settings 负责练习纸设置的扁平记录及其持久化（JSON 或 YAML 文件）。
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/shuji/fonts"
)

// Settings 是可保存的扁平设置记录，字段名与网页版保存的 JSON 保持一致。
type Settings struct {
	FontName    string  `json:"fontName" yaml:"fontName"`
	FontSize    float64 `json:"fontSize" yaml:"fontSize"` // px
	FontWeight  string  `json:"fontWeight" yaml:"fontWeight"`
	Color       string  `json:"color" yaml:"color"` // #RRGGBB
	CenterLine  bool    `json:"centerLine" yaml:"centerLine"`
	Paper       string  `json:"paper" yaml:"paper"`
	PaperMargin float64 `json:"paperMargin" yaml:"paperMargin"` // mm
	CharMargin  float64 `json:"charMargin" yaml:"charMargin"`
	LineMargin  float64 `json:"lineMargin" yaml:"lineMargin"`
	Direction   string  `json:"direction" yaml:"direction"`
}

// Default 返回首次启动时的设置。
func Default() Settings {
	return Settings{
		FontName:    fonts.Auto,
		FontSize:    48,
		FontWeight:  "normal",
		Color:       "#808080",
		Paper:       "A4 portrait",
		PaperMargin: 10,
		CharMargin:  0.5,
		LineMargin:  0.5,
		Direction:   "horizontal",
	}
}

// Format 是设置文件的编码格式。
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf 根据扩展名判断格式，.yaml/.yml 为 YAML，其余为 JSON。
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Decode 以 Default 为底读取设置，文件中缺少的字段保留默认值。
func Decode(r io.Reader, f Format) (Settings, error) {
	s := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return s, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return Default(), fmt.Errorf("解析设置失败: %w", err)
	}
	return s, nil
}

// Encode 按格式写出设置。
func Encode(w io.Writer, s Settings, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
}

// Load 读取设置文件。文件不存在时返回 Default 且不报错。
func Load(path string) (Settings, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("无法打开设置文件 %s: %w", path, err)
	}
	defer file.Close()
	s, err := Decode(file, FormatOf(path))
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save 写入设置文件，必要时创建目录。
func Save(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建设置目录失败: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, FormatOf(path)); err != nil {
		return fmt.Errorf("编码设置失败: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入设置文件失败: %w", err)
	}
	return nil
}
