package layout

type pageState int

const (
	withinPage pageState = iota
	pageBoundary
)

// paginator 统计当前页已放置的行数。页满后进入 pageBoundary，
// 但只有在还有下一行时才真正换页，因此最后一页满了也不会多出空白页。
type paginator struct {
	rows  int
	count int
	state pageState
}

// lineDone 在一行放置完毕后调用。
func (p *paginator) lineDone() {
	p.count++
	if p.count == p.rows {
		p.state = pageBoundary
	}
}

// breakBefore 在放置下一行之前调用，返回是否需要先换页。
func (p *paginator) breakBefore() bool {
	if p.state != pageBoundary {
		return false
	}
	p.count = 0
	p.state = withinPage
	return true
}

// pageVisitor 接收分页过程中的事件。
type pageVisitor interface {
	begin(width, height float64, dir Direction) error
	place(pc PlacedChar) error
	end(lines int) error
}

// walk 是排版与分页的唯一实现：Run 与 Plan 都基于它。
func walk(cfg Config, lines []Line, v pageVisitor) error {
	axes := axesFor(cfg)
	if err := v.begin(axes.width, axes.height, cfg.Direction); err != nil {
		return err
	}
	pg := paginator{rows: cfg.Rows}
	for _, line := range lines {
		if pg.breakBefore() {
			if err := v.end(cfg.Rows); err != nil {
				return err
			}
			if err := v.begin(axes.width, axes.height, cfg.Direction); err != nil {
				return err
			}
		}
		for _, pc := range placeLine(cfg, axes, pg.count, line) {
			if err := v.place(pc); err != nil {
				return err
			}
		}
		pg.lineDone()
	}
	return v.end(pg.count)
}
