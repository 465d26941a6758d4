package layout

import "github.com/ByLCY/shuji/settings"

// BuildOptions 配置从练习纸文件构建 Sheet 时的外部输入。
type BuildOptions struct {
	Defaults *settings.Settings // 为空时使用 settings.Default()
	Text     string             // 非空时覆盖练习纸文件中的正文
}
