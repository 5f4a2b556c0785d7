package app

import (
	"image/color"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/zhyh329/fbpad/internal/config"
)

const indicatorLegend = "TAGS: "

// TagCell is the indicator state of one tag.
type TagCell struct {
	Label   byte
	Open    int // open banks, 0..2
	Current bool
	Saved   bool
}

// TagCells reports occupancy for every tag in display order.
func (p *Pad) TagCells() []TagCell {
	cells := make([]TagCell, p.Table.Tags())
	for tag := range cells {
		open := 0
		for bank := 0; bank < 2; bank++ {
			if p.Engine.Open(p.Table.Index(bank, tag)) {
				open++
			}
		}
		cells[tag] = TagCell{
			Label:   p.Table.Label(tag),
			Open:    open,
			Current: tag == p.Cursor.Tag,
			Saved:   p.Table.Saved(tag),
		}
	}
	return cells
}

func ansiColor(n int) color.Color {
	return lipgloss.Color(strconv.Itoa(n))
}

// RenderIndicator formats cells as the one-line tag indicator. Occupancy
// picks the label color; snapshot-eligible tags are drawn on a highlight
// background instead.
func RenderIndicator(cells []TagCell) string {
	fg := ansiColor(config.IndicatorFg)
	bg := ansiColor(config.IndicatorBg)
	hi := ansiColor(config.IndicatorHighlight)
	plain := lipgloss.NewStyle().Foreground(fg).Background(bg)

	var b strings.Builder
	b.WriteString(plain.Render(indicatorLegend))
	for _, c := range cells {
		left, right := " ", " "
		if c.Current {
			left, right = "(", ")"
		}
		occupancy := ansiColor(config.IndicatorColors[min(max(c.Open, 0), 2)])

		label := lipgloss.NewStyle().Foreground(occupancy).Background(bg)
		if c.Saved {
			label = lipgloss.NewStyle().Foreground(occupancy).Background(hi)
			if c.Open == 0 {
				label = label.Foreground(bg)
			}
		}
		b.WriteString(plain.Render(left))
		b.WriteString(label.Render(string(c.Label)))
		b.WriteString(plain.Render(right))
	}
	return b.String()
}

// ShowTags draws the tag indicator over the bottom row.
func (p *Pad) ShowTags() {
	if p.Hidden {
		return
	}
	p.Engine.Overlay(RenderIndicator(p.TagCells()))
}
