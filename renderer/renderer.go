package renderer

import "github.com/ByLCY/shuji/layout"

// Output 是渲染结果。逐页输出的格式每页一个文件，PDF 这类多页文档只有一个文件。
type Output struct {
	Ext   string   // 文件扩展名，含点号，例如 ".svg"
	Files [][]byte // 按页序排列
}

// Renderer 将练习纸渲染为最终文件，例如 SVG、PDF 或 PNG。
// 实现通过 layout.Run 驱动自己的 layout.Adapter。
type Renderer interface {
	Render(s *layout.Sheet) (*Output, error)
}
