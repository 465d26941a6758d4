package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration 表示排版参数无法得到有效网格（纸张过小、字号非法等）。
	ErrConfiguration = errors.New("排版配置无效")
	// ErrNoFontSelected 表示样式中没有指定字体。核心只把字体当作不透明标识，由渲染后端报告此错误。
	ErrNoFontSelected = errors.New("未选择字体")
)

// ConfigError 记录具体出错的配置项。errors.Is(err, ErrConfiguration) 对其成立。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
