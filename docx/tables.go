package docx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// cellSlot places one w:tc in the table grid.
type cellSlot struct {
	cell             *tableCellXML
	row, col         int
	rowSpan, colSpan int
}

// layoutTable resolves gridSpan and vMerge into grid positions. A vMerge
// continuation extends the open restart cell above it; cells without an
// open restart start a new slot.
func layoutTable(tx *tableXML) (slots []cellSlot, rows, cols int) {
	open := make(map[int]int) // grid column -> index of the restart slot
	for r := range tx.Rows {
		col := 0
		for i := range tx.Rows[r].Cells {
			tc := &tx.Rows[r].Cells[i]
			span := atoi(tc.Properties.GridSpan.Val)
			if span < 1 {
				span = 1
			}

			vm := tc.Properties.VMerge
			continued := vm.XMLName.Local != "" && vm.Val != "restart"
			if idx, ok := open[col]; continued && ok && slots[idx].colSpan == span {
				slots[idx].rowSpan = r - slots[idx].row + 1
			} else {
				slots = append(slots, cellSlot{cell: tc, row: r, col: col, rowSpan: 1, colSpan: span})
				if vm.Val == "restart" {
					open[col] = len(slots) - 1
				} else {
					delete(open, col)
				}
			}
			col += span
		}
		if col > cols {
			cols = col
		}
	}
	if len(tx.Grid.Cols) > cols {
		cols = len(tx.Grid.Cols)
	}
	return slots, len(tx.Rows), cols
}

// table imports a w:tbl. Containers that cannot hold tables receive the
// cell contents in reading order instead.
func (im *importer) table(tx *tableXML) error {
	slots, rows, cols := layoutTable(tx)
	if rows == 0 || cols == 0 {
		return nil
	}

	widths := make([]float64, cols)
	var total float64
	for i := range widths {
		if i < len(tx.Grid.Cols) {
			widths[i] = parseTwips(tx.Grid.Cols[i].W)
			total += widths[i]
		}
	}
	width := total
	if width <= 0 {
		width = im.opts.TableWidth
	}

	t, err := im.dst.AddTable(rows, cols, width, im.opts.FontSize)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("table of %dx%d flattened: not allowed here", rows, cols)
		return im.flatten(slots)
	}
	if err != nil {
		return fmt.Errorf("adding table: %w", err)
	}

	props := tx.Properties
	if props.Bidi.on() {
		t.SetDirection(model.RightToLeft)
	}
	t.Alignment = alignment(props.Justification.Val)
	if total > 0 {
		for i, w := range widths {
			if w <= 0 {
				continue
			}
			if err := t.SetColWidth(i, w); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
	}
	for r, row := range tx.Rows {
		h := row.Properties.Height
		if pt := parseTwips(h.Val); pt > 0 && h.Rule != "auto" {
			if err := t.SetRowHeight(r, pt); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
		if row.Properties.CantSplit.on() {
			if err := t.SetRowKeepInSamePage(r, true); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
	}
	if style, w, ok := border(props.Borders.Top); ok {
		t.SetOuterBorder(style, w)
	}
	if style, w, ok := border(props.Borders.InsideH); ok {
		t.SetInnerBorder(style, w)
	}

	for _, s := range slots {
		cell := t.Cell(s.row, s.col)
		if s.rowSpan > 1 || s.colSpan > 1 {
			merged, err := t.Merge(s.row, s.col, s.rowSpan, s.colSpan)
			if err != nil {
				im.warn("cell %d,%d not merged: %v", s.row, s.col, err)
			} else {
				cell = merged
			}
		}
		if err := im.cell(cell, s.cell); err != nil {
			return err
		}
	}
	return nil
}

// cell fills one table cell.
func (im *importer) cell(c *document.Cell, tc *tableCellXML) error {
	if col, ok := hexColor(tc.Properties.Shading.Fill); ok {
		if err := c.SetBackgroundColor(col); err != nil {
			return fmt.Errorf("shading cell: %w", err)
		}
	}
	switch tc.Properties.VAlign.Val {
	case "center":
		c.VerticalAlignment = model.VAlignMiddle
	case "bottom":
		c.VerticalAlignment = model.VAlignBottom
	}

	sub := im.sub(c)
	err := sub.blocks(tc.Blocks)
	im.warnings = append(im.warnings, sub.warnings...)
	return err
}

// flatten writes the cell contents directly into the container.
func (im *importer) flatten(slots []cellSlot) error {
	for _, s := range slots {
		if err := im.blocks(s.cell.Blocks); err != nil {
			return err
		}
	}
	return nil
}

// border maps an OOXML border. Sizes are in eighths of a point.
func border(b borderXML) (model.BorderStyle, float64, bool) {
	var style model.BorderStyle
	switch b.Val {
	case "":
		return 0, 0, false
	case "nil", "none":
		return model.BorderNone, 0, true
	case "dotted":
		style = model.BorderDotted
	case "dashed", "dashSmallGap", "dotDash", "dotDotDash":
		style = model.BorderDashed
	case "double":
		style = model.BorderDouble
	default:
		style = model.BorderSingle
	}
	w := 0.5
	if sz, err := strconv.Atoi(b.Sz); err == nil && sz > 0 {
		w = float64(sz) / 8
	}
	return style, w, true
}
