package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter 记录 Run 发出的绘制命令。
type fakeAdapter struct {
	calls   []string
	pages   [][]PlacedChar
	open    PageHandle
	next    PageHandle
	failOn  string
	ended   map[PageHandle]bool
	misused []string
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{open: -1, ended: map[PageHandle]bool{}}
}

func (f *fakeAdapter) fail(op string) error {
	if f.failOn == op {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeAdapter) check(page PageHandle, op string) {
	if page != f.open || f.ended[page] {
		f.misused = append(f.misused, fmt.Sprintf("%s on page %d", op, page))
	}
}

func (f *fakeAdapter) BeginPage(width, height float64, dir Direction) (PageHandle, error) {
	if f.open >= 0 {
		f.misused = append(f.misused, "BeginPage while a page is open")
	}
	f.calls = append(f.calls, fmt.Sprintf("begin %gx%g %s", width, height, dir))
	f.pages = append(f.pages, nil)
	f.open = f.next
	f.next++
	return f.open, f.fail("begin")
}

func (f *fakeAdapter) DrawGlyph(page PageHandle, char string, x, y float64, style Style) error {
	f.check(page, "DrawGlyph")
	f.calls = append(f.calls, fmt.Sprintf("glyph %s %g,%g", char, x, y))
	f.pages[len(f.pages)-1] = append(f.pages[len(f.pages)-1], PlacedChar{Char: char, X: x, Y: y})
	return f.fail("glyph")
}

func (f *fakeAdapter) DrawGuideSegment(page PageHandle, seg Segment) error {
	f.check(page, "DrawGuideSegment")
	f.calls = append(f.calls, fmt.Sprintf("guide %g,%g-%g,%g", seg.X1, seg.Y1, seg.X2, seg.Y2))
	return f.fail("guide")
}

func (f *fakeAdapter) EndPage(page PageHandle) error {
	f.check(page, "EndPage")
	f.calls = append(f.calls, "end")
	f.ended[page] = true
	f.open = -1
	return f.fail("end")
}

func (f *fakeAdapter) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func testConfig(rows, cols int) Config {
	return Config{FontSize: 10, Rows: rows, Cols: cols, CharMargin: 0.5, LineMargin: 0.5}
}

func TestPlacementFormula(t *testing.T) {
	res, err := Plan(testConfig(2, 3), Style{}, "ab")
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)
	chars := res.Pages[0].Chars
	require.Len(t, chars, 2)
	assert.Equal(t, 10.0, chars[0].X)
	assert.Equal(t, 10.0, chars[0].Y)
	assert.Equal(t, 25.0, chars[1].X)
	assert.Equal(t, 10.0, chars[1].Y)
}

func TestRunPaginatesFiveLinesIntoTwoTwoOne(t *testing.T) {
	f := newFakeAdapter()
	require.NoError(t, Run(testConfig(2, 1), Style{}, "abcde", f))
	assert.Empty(t, f.misused)
	assert.Equal(t, 3, f.count("begin"))
	assert.Equal(t, 3, f.count("end"))

	sizes := make([]int, len(f.pages))
	for i, p := range f.pages {
		sizes[i] = len(p)
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)

	// 两次换页 = 两个 "end" 紧跟 "begin"
	breaks := 0
	for i := 0; i+1 < len(f.calls); i++ {
		if f.calls[i] == "end" && strings.HasPrefix(f.calls[i+1], "begin") {
			breaks++
		}
	}
	assert.Equal(t, 2, breaks)
	assert.Equal(t, "end", f.calls[len(f.calls)-1])
}

func TestRunDoesNotBreakAfterFullLastPage(t *testing.T) {
	f := newFakeAdapter()
	require.NoError(t, Run(testConfig(2, 2), Style{}, "abcd", f))
	assert.Equal(t, 1, f.count("begin"))
	assert.Equal(t, 1, f.count("end"))

	res, err := Plan(testConfig(2, 2), Style{}, "abcdefgh")
	require.NoError(t, err)
	require.Len(t, res.Pages, 2)
	for _, p := range res.Pages {
		assert.Equal(t, 2, p.Lines)
	}
}

func TestRunEmptyTextProducesOneBlankPage(t *testing.T) {
	f := newFakeAdapter()
	require.NoError(t, Run(testConfig(3, 3), Style{}, "\n\n", f))
	assert.Equal(t, []string{"begin 50x50 horizontal", "end"}, f.calls)
}

func TestPaginationInvariant(t *testing.T) {
	text := strings.Repeat("一二三四五六七\n\n八九\n", 13)
	for rows := 1; rows <= 6; rows++ {
		cfg := testConfig(rows, 4)
		res, err := Plan(cfg, Style{}, text)
		require.NoError(t, err)
		lines, err := Wrap(text, cfg.Cols)
		require.NoError(t, err)

		total := 0
		for i, p := range res.Pages {
			if i < len(res.Pages)-1 {
				assert.Equal(t, rows, p.Lines, "rows=%d page=%d", rows, i)
			} else {
				assert.True(t, p.Lines >= 1 && p.Lines <= rows, "last page holds %d lines", p.Lines)
			}
			total += p.Lines
		}
		assert.Equal(t, len(lines), total)
		assert.Equal(t, int(math.Ceil(float64(len(lines))/float64(rows))), len(res.Pages))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(3, 4)
	cfg.CenterLine = true
	cfg.Direction = Vertical
	text := "春眠不覚暁\n処処聞啼鳥\n夜来風雨声\n花落知多少"
	a, b := newFakeAdapter(), newFakeAdapter()
	require.NoError(t, Run(cfg, Style{}, text, a))
	require.NoError(t, Run(cfg, Style{}, text, b))
	assert.Equal(t, a.calls, b.calls)

	p1, err := Plan(cfg, Style{}, text)
	require.NoError(t, err)
	p2, err := Plan(cfg, Style{}, text)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestPlanMatchesRun(t *testing.T) {
	cfg := testConfig(2, 3)
	text := "abcdefg\nhi"
	f := newFakeAdapter()
	require.NoError(t, Run(cfg, Style{}, text, f))
	res, err := Plan(cfg, Style{}, text)
	require.NoError(t, err)
	require.Len(t, res.Pages, len(f.pages))
	for i, p := range res.Pages {
		require.Len(t, p.Chars, len(f.pages[i]))
		for j, pc := range p.Chars {
			assert.Equal(t, f.pages[i][j].Char, pc.Char)
			assert.Equal(t, f.pages[i][j].X, pc.X)
			assert.Equal(t, f.pages[i][j].Y, pc.Y)
		}
	}
}

func TestPositionMonotonicity(t *testing.T) {
	for _, dir := range []Direction{Horizontal, Vertical} {
		cfg := testConfig(4, 5)
		cfg.Direction = dir
		cfg.CharMargin = 0.3
		cfg.LineMargin = 0.7
		res, err := Plan(cfg, Style{}, strings.Repeat("あいうえお", 7))
		require.NoError(t, err)
		for _, p := range res.Pages {
			for i := 1; i < len(p.Chars); i++ {
				prev, cur := p.Chars[i-1], p.Chars[i]
				if cur.Line == prev.Line {
					assert.Greater(t, cfg.CharPos(cur.Index), cfg.CharPos(prev.Index))
					if dir == Horizontal {
						assert.Greater(t, cur.X, prev.X)
						assert.Equal(t, cur.Y, prev.Y)
					} else {
						assert.Greater(t, cur.Y, prev.Y)
						assert.Equal(t, cur.X, prev.X)
					}
				} else {
					assert.Equal(t, prev.Line+1, cur.Line)
					assert.Greater(t, cfg.LinePos(cur.Line), cfg.LinePos(prev.Line))
				}
			}
		}
	}
}

func TestDirectionSymmetry(t *testing.T) {
	cfg := testConfig(2, 3)
	h, err := Plan(cfg, Style{}, "abc\ndef")
	require.NoError(t, err)
	cfg.Direction = Vertical
	v, err := Plan(cfg, Style{}, "abc\ndef")
	require.NoError(t, err)

	assert.Equal(t, 50.0, h.Pages[0].Width)
	assert.Equal(t, 35.0, h.Pages[0].Height)
	assert.Equal(t, 35.0, v.Pages[0].Width)
	assert.Equal(t, 50.0, v.Pages[0].Height)

	hc, vc := h.Pages[0].Chars, v.Pages[0].Chars
	// 横书第二行在下方，竖书第二行在左侧
	assert.Greater(t, hc[3].Y, hc[0].Y)
	assert.Less(t, vc[3].X, vc[0].X)
	assert.Equal(t, 25.0, vc[0].X)
	assert.Equal(t, 10.0, vc[3].X)
	for i := range hc {
		assert.Equal(t, hc[i].X, vc[i].Y, "char pos becomes y in vertical mode")
		assert.Equal(t, v.Pages[0].Width-hc[i].Y, vc[i].X, "line pos is mirrored from the right edge")
	}
}

func TestCenterLineGuidesPrecedeGlyph(t *testing.T) {
	cfg := testConfig(1, 1)
	cfg.CenterLine = true
	f := newFakeAdapter()
	require.NoError(t, Run(cfg, Style{}, "永", f))
	assert.Equal(t, []string{
		"begin 20x20 horizontal",
		"guide 5,10-15,10",
		"guide 10,5-10,15",
		"glyph 永 10,10",
		"end",
	}, f.calls)
}

func TestNoGuidesWithoutCenterLine(t *testing.T) {
	f := newFakeAdapter()
	require.NoError(t, Run(testConfig(1, 1), Style{}, "永", f))
	assert.Zero(t, f.count("guide"))
}

func TestRunRejectsInvalidConfigBeforeDrawing(t *testing.T) {
	bad := []Config{
		{FontSize: 0, Rows: 1, Cols: 1},
		{FontSize: 10, Rows: 0, Cols: 1},
		{FontSize: 10, Rows: 1, Cols: 0},
		{FontSize: 10, Rows: 1, Cols: 1, LineMargin: -1},
		{FontSize: 10, Rows: 1, Cols: 1, Direction: Direction(7)},
		{FontSize: math.Inf(1), Rows: 1, Cols: 1},
		{FontSize: math.NaN(), Rows: 1, Cols: 1},
		{FontSize: 10, Rows: 1, Cols: 1, CharMargin: math.NaN()},
		{FontSize: 10, Rows: 1, Cols: 1, CharMargin: math.Inf(1)},
		{FontSize: 10, Rows: 1, Cols: 1, LineMargin: math.NaN()},
		{FontSize: 10, Rows: 1, Cols: 1, LineMargin: math.Inf(1)},
		{FontSize: 10, Rows: 1, Cols: 1, LineMargin: math.Inf(-1)},
	}
	for _, cfg := range bad {
		f := newFakeAdapter()
		err := Run(cfg, Style{}, "abc", f)
		assert.True(t, errors.Is(err, ErrConfiguration), "config %+v: %v", cfg, err)
		assert.Empty(t, f.calls)
	}
	assert.Error(t, Run(testConfig(1, 1), Style{}, "a", nil))
}

func TestRunPropagatesAdapterErrors(t *testing.T) {
	cfg := testConfig(1, 2)
	cfg.CenterLine = true
	for _, op := range []string{"begin", "glyph", "guide", "end"} {
		f := newFakeAdapter()
		f.failOn = op
		err := Run(cfg, Style{}, "abc", f)
		require.Error(t, err, op)
		assert.Contains(t, err.Error(), "boom")
	}
}

func TestPageHandlesAreNotReused(t *testing.T) {
	f := newFakeAdapter()
	require.NoError(t, Run(testConfig(1, 2), Style{}, "abcdefgh", f))
	assert.Empty(t, f.misused)
	assert.Len(t, f.ended, 4)
}
