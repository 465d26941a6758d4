package layout

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineStrings(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func TestWrapSplitsAtColumnBoundary(t *testing.T) {
	lines, err := Wrap("abcdefg", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def", "g"}, lineStrings(lines))
}

func TestWrapDropsEmptyLines(t *testing.T) {
	lines, err := Wrap("ab\n\n\ncd\n", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "cd"}, lineStrings(lines))

	lines, err = Wrap("", 5)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestWrapNormalizesLineBreaks(t *testing.T) {
	lines, err := Wrap("一二\r\n三\r四", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"一二", "三", "四"}, lineStrings(lines))
}

// 每个逻辑行产生 ceil(L/cols) 行，拼接后与原行一致。
func TestWrapLineCountAndConcatenation(t *testing.T) {
	for cols := 1; cols <= 7; cols++ {
		for l := 0; l <= 20; l++ {
			logical := strings.Repeat("永", l)
			lines, err := Wrap(logical, cols)
			require.NoError(t, err)
			want := int(math.Ceil(float64(l) / float64(cols)))
			require.Len(t, lines, want, "cols=%d len=%d", cols, l)

			var joined strings.Builder
			for i, line := range lines {
				require.LessOrEqual(t, len(line), cols)
				if i < len(lines)-1 {
					require.Len(t, line, cols)
				}
				joined.WriteString(line.String())
			}
			assert.Equal(t, logical, joined.String())
		}
	}
}

func TestWrapCountsGraphemeClusters(t *testing.T) {
	// e + 组合重音、国旗与带异体字选择符的汉字都各算一个字符
	text := "e\u0301🇯🇵葛\U000E0100x"
	lines, err := Wrap(text, 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, Line{"e\u0301", "🇯🇵"}, lines[0])
	assert.Equal(t, Line{"葛\U000E0100", "x"}, lines[1])
}

func TestWrapRejectsNonPositiveColumns(t *testing.T) {
	for _, cols := range []int{0, -1} {
		_, err := Wrap("abc", cols)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
	}
}

func TestWrapDoesNotAliasFollowingLine(t *testing.T) {
	lines, err := Wrap("abcd", 2)
	require.NoError(t, err)
	lines[0] = append(lines[0], "z")
	assert.Equal(t, "cd", lines[1].String())
}
