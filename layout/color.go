package layout

import (
	"strconv"
	"strings"
)

// Palette 是九级灰度，深色在前。色阶 n（1..9）对应 Palette[len(Palette)-n]，数值越大颜色越深。
var Palette = [...]string{"#000000", "#202020", "#404040", "#606060", "#808080", "#A0A0A0", "#C0C0C0", "#E0E0E0", "#F0F0F0"}

// ShadeColor 返回色阶对应的颜色值。
func ShadeColor(shade int) (string, error) {
	if shade < 1 || shade > len(Palette) {
		return "", configErrorf("color", "色阶必须在 1..%d 之间，实际为 %d", len(Palette), shade)
	}
	return Palette[len(Palette)-shade], nil
}

// ParseColor 解析 #RGB 或 #RRGGBB。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	case 6:
	default:
		return Color{}, configErrorf("color", "颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, configErrorf("color", "颜色值 %s 无法解析", value)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

// resolveColor 接受色阶数字或十六进制颜色，统一返回 #RRGGBB。
func resolveColor(value string) (string, error) {
	v := strings.TrimSpace(value)
	if shade, err := strconv.Atoi(v); err == nil {
		return ShadeColor(shade)
	}
	c, err := ParseColor(v)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

var fontWeights = map[string]bool{"normal": true, "bold": true, "bolder": true, "lighter": true}

func normalizeWeight(w string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(w))
	if v == "" {
		return "normal", nil
	}
	if !fontWeights[v] {
		return "", configErrorf("fontWeight", "不支持的字重 %q（可选 normal/bold/bolder/lighter）", w)
	}
	return v, nil
}
