package canvasrenderer

// verticalForms 将横排标点映射为竖排表现形式（U+FE10–FE19、U+FE30–FE4F）。
var verticalForms = map[string]string{
	"，": "︐",
	"、": "︑",
	"。": "︒",
	"：": "︓",
	"；": "︔",
	"！": "︕",
	"？": "︖",
	"…": "︙",
	"‥": "︰",
	"—": "︱",
	"（": "︵",
	"）": "︶",
	"｛": "︷",
	"｝": "︸",
	"〔": "︹",
	"〕": "︺",
	"【": "︻",
	"】": "︼",
	"《": "︽",
	"》": "︾",
	"〈": "︿",
	"〉": "﹀",
	"「": "﹁",
	"」": "﹂",
	"『": "﹃",
	"』": "﹄",
}

func verticalForm(char string) string {
	if v, ok := verticalForms[char]; ok {
		return v
	}
	return char
}
