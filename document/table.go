package document

import (
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// Table is a grid of cells. Cells are stored in a row-major arena; merging
// points every coordinate of a region at the region's top-left cell.
type Table struct {
	// Alignment positions the table between the page margins.
	Alignment model.Align
	// Margins are the spacing around the table in points. Top spacing is
	// measured from the previous block's font size; bottom spacing follows
	// the last row.
	Margins model.Margins
	// CellPadding is the padding applied inside every cell, in points.
	CellPadding model.Margins
	// StartNewPage forces a page break before the table.
	StartNewPage bool

	rowCount, colCount int
	cells              []*Cell
	rep                []int

	colWidths  []float64
	rowHeights []float64
	rowKeep    []bool

	fontSize  float64
	direction model.Direction
	inner     model.Border
	outer     model.Border

	defaultFormat *CharFormat
	res           *resources
}

// NewTable creates a detached rows x cols table. width is the total width
// and fontSize the body font size, both in points. Every column starts with
// an equal share of width.
func NewTable(rows, cols int, width, fontSize float64, dir model.Direction) (*Table, error) {
	const op = "NewTable"
	if rows < 1 {
		return nil, invalid(op, "rows", rows, "must be at least 1")
	}
	if cols < 1 {
		return nil, invalid(op, "cols", cols, "must be at least 1")
	}

	t := &Table{
		rowCount:   rows,
		colCount:   cols,
		cells:      make([]*Cell, rows*cols),
		rep:        make([]int, rows*cols),
		colWidths:  make([]float64, cols),
		rowHeights: make([]float64, rows),
		rowKeep:    make([]bool, rows),
		fontSize:   fontSize,
		direction:  dir,
	}
	for c := range t.colWidths {
		t.colWidths[c] = width / float64(cols)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			t.cells[i] = newCell(r, c, dir, nil)
			t.rep[i] = i
		}
	}
	return t, nil
}

// attach connects the table and its cells to a document's resources.
func (t *Table) attach(res *resources) {
	t.res = res
	for _, c := range t.cells {
		c.res = res
	}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return t.rowCount }

// ColCount returns the number of columns.
func (t *Table) ColCount() int { return t.colCount }

// Direction returns the table's reading direction.
func (t *Table) Direction() model.Direction { return t.direction }

// SetDirection changes the direction of the rows. Existing cells keep
// their own direction.
func (t *Table) SetDirection(d model.Direction) { t.direction = d }

// FontSize returns the body font size given at construction.
func (t *Table) FontSize() float64 { return t.fontSize }

// DefaultCharFormat returns the format applied beneath every cell, creating
// it on first use.
func (t *Table) DefaultCharFormat() *CharFormat {
	if t.defaultFormat == nil {
		t.defaultFormat = newCharFormat(-1, -1, t.res)
	}
	return t.defaultFormat
}

func (t *Table) inGrid(row, col int) bool {
	return row >= 0 && row < t.rowCount && col >= 0 && col < t.colCount
}

// Cell returns the cell at row, col. Inside a merged region it returns the
// region's representative. It returns nil outside the grid.
func (t *Table) Cell(row, col int) *Cell {
	if !t.inGrid(row, col) {
		return nil
	}
	return t.cells[t.rep[row*t.colCount+col]]
}

// Width returns the sum of the column widths in points.
func (t *Table) Width() float64 {
	var w float64
	for _, cw := range t.colWidths {
		w += cw
	}
	return w
}

func (t *Table) checkRow(op string, row int) error {
	if row < 0 {
		return invalid(op, "row", row, "must not be negative")
	}
	if row >= t.rowCount {
		return invalid(op, "row", row, "must be less than "+strconv.Itoa(t.rowCount))
	}
	return nil
}

func (t *Table) checkCol(op string, col int) error {
	if col < 0 {
		return invalid(op, "column", col, "must not be negative")
	}
	if col >= t.colCount {
		return invalid(op, "column", col, "must be less than "+strconv.Itoa(t.colCount))
	}
	return nil
}

// SetColWidth sets the width of column col in points.
func (t *Table) SetColWidth(col int, width float64) error {
	if err := t.checkCol("Table.SetColWidth", col); err != nil {
		return err
	}
	t.colWidths[col] = width
	return nil
}

// ColWidth returns the width of column col, or 0 outside the grid.
func (t *Table) ColWidth(col int) float64 {
	if col < 0 || col >= t.colCount {
		return 0
	}
	return t.colWidths[col]
}

// SetRowHeight sets the minimum height of row in points. Zero lets the
// reader size the row.
func (t *Table) SetRowHeight(row int, height float64) error {
	if err := t.checkRow("Table.SetRowHeight", row); err != nil {
		return err
	}
	t.rowHeights[row] = height
	return nil
}

// RowHeight returns the minimum height of row, or 0 outside the grid.
func (t *Table) RowHeight(row int) float64 {
	if row < 0 || row >= t.rowCount {
		return 0
	}
	return t.rowHeights[row]
}

// SetRowKeepInSamePage asks the reader not to split row across pages.
func (t *Table) SetRowKeepInSamePage(row int, keep bool) error {
	if err := t.checkRow("Table.SetRowKeepInSamePage", row); err != nil {
		return err
	}
	t.rowKeep[row] = keep
	return nil
}

// SetInnerBorder sets the style and width in points of edges shared by two
// cells.
func (t *Table) SetInnerBorder(style model.BorderStyle, width float64) {
	t.inner.Style = style
	t.inner.Width = width
}

// SetOuterBorder sets the style and width in points of edges on the table
// boundary.
func (t *Table) SetOuterBorder(style model.BorderStyle, width float64) {
	t.outer.Style = style
	t.outer.Width = width
}

// SetBorderColor selects the color of inner and outer borders.
func (t *Table) SetBorderColor(c ColorDescriptor) {
	t.inner.Color = c.index
	t.outer.Color = c.index
}

// InnerBorder returns the inner border.
func (t *Table) InnerBorder() model.Border { return t.inner }

// OuterBorder returns the outer border.
func (t *Table) OuterBorder() model.Border { return t.outer }

// Merge joins the rowSpan x colSpan region whose top-left corner is
// (top, left) into a single cell and returns it. The region must lie inside
// the grid and must not intersect another merged region. Merging a single
// cell changes nothing and returns the cell covering it, even when that is
// an earlier merged region.
func (t *Table) Merge(top, left, rowSpan, colSpan int) (*Cell, error) {
	const op = "Table.Merge"
	switch {
	case top < 0:
		return nil, invalid(op, "top row", top, "must not be negative")
	case left < 0:
		return nil, invalid(op, "left column", left, "must not be negative")
	case rowSpan < 1:
		return nil, invalid(op, "row span", rowSpan, "must be at least 1")
	case colSpan < 1:
		return nil, invalid(op, "column span", colSpan, "must be at least 1")
	case top+rowSpan > t.rowCount:
		return nil, invalid(op, "row span", rowSpan, "extends beyond row "+strconv.Itoa(t.rowCount-1))
	case left+colSpan > t.colCount:
		return nil, invalid(op, "column span", colSpan, "extends beyond column "+strconv.Itoa(t.colCount-1))
	}
	if rowSpan == 1 && colSpan == 1 {
		return t.Cell(top, left), nil
	}

	for r := top; r < top+rowSpan; r++ {
		for c := left; c < left+colSpan; c++ {
			if t.cells[t.rep[r*t.colCount+c]].IsMerged() {
				return nil, invalid(op, "region", [4]int{top, left, rowSpan, colSpan},
					"overlaps the merged cell at "+strconv.Itoa(r)+","+strconv.Itoa(c))
			}
		}
	}

	origin := top*t.colCount + left
	for r := top; r < top+rowSpan; r++ {
		for c := left; c < left+colSpan; c++ {
			t.rep[r*t.colCount+c] = origin
		}
	}
	cell := t.cells[origin]
	cell.rowSpan = rowSpan
	cell.colSpan = colSpan
	return cell, nil
}

// borderWords renders one cell edge.
func borderWords(side model.Side, b model.Border) string {
	if b.Style == model.BorderNone {
		return ""
	}
	return `\clbrdr` + side.Letter() +
		`\brdrw` + strconv.Itoa(model.Twips(b.Width)) +
		b.Style.Token() +
		`\brdrcf` + strconv.Itoa(b.Color)
}

// edge picks the outer border for edges on the grid boundary and the inner
// border otherwise.
func (t *Table) edge(outer bool) model.Border {
	if outer {
		return t.outer
	}
	return t.inner
}

// slot is one cell definition of a rendered row: a representative cell seen
// from one of the rows it spans.
type slot struct {
	cell  *Cell
	right int // last column covered
	first bool
}

func (t *Table) rowSlots(row int) []slot {
	var slots []slot
	for c := 0; c < t.colCount; {
		cell := t.cells[t.rep[row*t.colCount+c]]
		right := cell.col + cell.colSpan - 1
		slots = append(slots, slot{cell: cell, right: right, first: cell.row == row})
		c = right + 1
	}
	return slots
}

func (t *Table) rowHeader(row int) string {
	var sb strings.Builder
	sb.WriteString(`{\trowd\` + t.direction.Token() + `row\trgaph`)
	sb.WriteString(`\trpaddl` + strconv.Itoa(model.Twips(t.CellPadding.Left)))
	sb.WriteString(`\trpaddt` + strconv.Itoa(model.Twips(t.CellPadding.Top)))
	sb.WriteString(`\trpaddr` + strconv.Itoa(model.Twips(t.CellPadding.Right)))
	sb.WriteString(`\trpaddb` + strconv.Itoa(model.Twips(t.CellPadding.Bottom)))
	sb.WriteString("\n")

	sb.WriteString(`\trleft0`)
	switch t.Alignment {
	case model.AlignCenter:
		sb.WriteString(`\trqc`)
	case model.AlignRight:
		sb.WriteString(`\trqr`)
	}
	sb.WriteString("\n")

	if t.rowKeep[row] {
		sb.WriteString(`\trkeep`)
	}
	if t.rowHeights[row] > 0 {
		sb.WriteString(`\trrh` + strconv.Itoa(model.Twips(t.rowHeights[row])))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (t *Table) slotDefinition(row int, s slot, cellx int) string {
	left, right := s.cell.col, s.right
	var sb strings.Builder
	sb.WriteString(borderWords(model.SideTop, t.edge(row == 0)))
	sb.WriteString(borderWords(model.SideRight, t.edge(right == t.colCount-1)))
	sb.WriteString(borderWords(model.SideBottom, t.edge(row == t.rowCount-1)))
	sb.WriteString(borderWords(model.SideLeft, t.edge(left == 0)))
	if s.cell.hasBackground {
		sb.WriteString(`\clcbpat` + strconv.Itoa(s.cell.background))
	}
	if s.cell.rowSpan > 1 {
		if s.first {
			sb.WriteString(`\clvmgf`)
		} else {
			sb.WriteString(`\clvmrg`)
		}
	}
	sb.WriteString(s.cell.VerticalAlignment.CellToken())
	sb.WriteString(`\cellx` + strconv.Itoa(cellx))
	sb.WriteString("\n")
	return sb.String()
}

func (t *Table) spacer() string {
	gap := t.Margins.Top - t.fontSize
	if !t.StartNewPage && gap <= 0 {
		return ""
	}
	lines := 1
	if gap > 0 {
		lines = model.Twips(gap)
	}
	var sb strings.Builder
	sb.WriteString(`{\pard`)
	if t.StartNewPage {
		sb.WriteString(`\pagebb`)
	}
	sb.WriteString(`\sl-` + strconv.Itoa(lines) + `\slmult0\par}` + "\n")
	return sb.String()
}

func (t *Table) render(ctx renderContext) string {
	ctx = ctx.with(t.defaultFormat)

	var sb strings.Builder
	sb.WriteString(t.spacer())
	for r := 0; r < t.rowCount; r++ {
		sb.WriteString(t.rowHeader(r))

		slots := t.rowSlots(r)
		var x float64
		next := 0
		for _, s := range slots {
			for ; next <= s.right; next++ {
				x += t.colWidths[next]
			}
			sb.WriteString(t.slotDefinition(r, s, model.Twips(x)))
		}
		for _, s := range slots {
			if s.first {
				sb.WriteString(s.cell.render(ctx))
			} else {
				sb.WriteString(emptyCell)
			}
		}
		sb.WriteString(`\row}` + "\n")
	}
	if t.Margins.Bottom > 0 {
		sb.WriteString(`\sl-` + strconv.Itoa(model.Twips(t.Margins.Bottom)) + `\slmult`)
	}
	return sb.String()
}

// Render returns the RTF of the table.
func (t *Table) Render() string {
	return t.render(renderContext{})
}
