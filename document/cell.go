package document

import (
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

const (
	cellHead     = `\pard\intbl`
	cellNextHead = `\par\pard\intbl`
	emptyCell    = cellHead + "\n" + `\cell` + "\n"
)

// Cell is one cell of a table. A merged cell spans several grid
// coordinates and is returned for every one of them.
type Cell struct {
	BlockList
	// VerticalAlignment positions the content inside the cell.
	VerticalAlignment model.VerticalAlign

	row, col         int
	rowSpan, colSpan int
	background       int
	hasBackground    bool
}

func newCell(row, col int, dir model.Direction, res *resources) *Cell {
	return &Cell{
		BlockList: newBlockList(capsCell, dir, res),
		row:       row,
		col:       col,
		rowSpan:   1,
		colSpan:   1,
	}
}

// RowIndex returns the row of the cell's top-left corner.
func (c *Cell) RowIndex() int { return c.row }

// ColIndex returns the column of the cell's top-left corner.
func (c *Cell) ColIndex() int { return c.col }

// RowSpan returns the number of rows the cell covers.
func (c *Cell) RowSpan() int { return c.rowSpan }

// ColSpan returns the number of columns the cell covers.
func (c *Cell) ColSpan() int { return c.colSpan }

// IsMerged returns true if the cell covers more than one grid coordinate.
func (c *Cell) IsMerged() bool { return c.rowSpan > 1 || c.colSpan > 1 }

// SetBackground selects the shading color of the cell.
func (c *Cell) SetBackground(color ColorDescriptor) {
	c.background = color.index
	c.hasBackground = true
}

// SetBackgroundColor interns color in the document color table and uses it
// as the shading color.
func (c *Cell) SetBackgroundColor(color model.Color) error {
	if c.res == nil {
		return ErrDetached
	}
	c.SetBackground(c.res.color(color))
	return nil
}

// Background returns the shading color, if one is set.
func (c *Cell) Background() (ColorDescriptor, bool) {
	return ColorDescriptor{index: c.background}, c.hasBackground
}

// render writes the cell content terminated by \cell. Blocks inside a cell
// continue the row's paragraph instead of opening groups.
func (c *Cell) render(ctx renderContext) string {
	if len(c.blocks) == 0 {
		return emptyCell
	}
	ctx = ctx.with(c.defaultFormat)

	var sb strings.Builder
	for i, b := range c.blocks {
		head := cellHead
		if i > 0 {
			head = cellNextHead
		}
		sb.WriteString(b.render(ctx, head, ""))
		sb.WriteString("\n")
	}
	sb.WriteString(`\cell` + "\n")
	return sb.String()
}

// Render returns the RTF of the cell content.
func (c *Cell) Render() string {
	return c.render(renderContext{})
}
