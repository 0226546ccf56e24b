package odt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// maxRepeat caps number-rows-repeated and number-columns-repeated, which
// spreadsheet-like tables use for long runs of empty cells.
const maxRepeat = 64

// cellSlot places one table:table-cell in the table grid.
type cellSlot struct {
	cell             *tableCellXML
	row, col         int
	rowSpan, colSpan int
}

// layoutTable expands repeated rows and cells into grid positions.
// Covered cells only occupy their position; the spanning cell carries the
// merge.
func layoutTable(tx *tableXML) (slots []cellSlot, rows []*tableRowXML, cols int) {
	for i := range tx.Rows {
		row := &tx.Rows[i]
		for rep := 0; rep < min(row.Repeated, maxRepeat); rep++ {
			r := len(rows)
			rows = append(rows, row)
			col := 0
			for j := range row.Cells {
				tc := &row.Cells[j]
				for n := 0; n < min(tc.Repeated, maxRepeat); n++ {
					if !tc.Covered {
						slots = append(slots, cellSlot{
							cell: tc, row: r, col: col,
							rowSpan: tc.RowSpan, colSpan: tc.ColSpan,
						})
					}
					col++
				}
			}
			cols = max(cols, col)
		}
	}

	ncols := 0
	for _, c := range tx.Columns {
		ncols += min(c.Repeated, maxRepeat)
	}
	cols = max(cols, ncols)

	// Spans may not leave the grid.
	for i := range slots {
		s := &slots[i]
		s.rowSpan = max(1, min(s.rowSpan, len(rows)-s.row))
		s.colSpan = max(1, min(s.colSpan, cols-s.col))
	}
	return slots, rows, cols
}

// table imports a table:table. Containers that cannot hold tables receive
// the cell contents in reading order instead.
func (im *importer) table(tx *tableXML) error {
	sr := im.r.styles
	slots, rows, cols := layoutTable(tx)
	if len(rows) == 0 || cols == 0 {
		return nil
	}

	widths := make([]float64, 0, cols)
	var total float64
	for _, c := range tx.Columns {
		var w float64
		if def := sr.style("table-column", c.StyleName); def != nil && def.TableColumnProps != nil {
			w = parseLength(def.TableColumnProps.ColumnWidth)
		}
		for n := 0; n < min(c.Repeated, maxRepeat); n++ {
			widths = append(widths, w)
			total += w
		}
	}

	var props tablePropsXML
	if def := sr.style("table", tx.StyleName); def != nil && def.TableProps != nil {
		props = *def.TableProps
	}
	width := parseLength(props.Width)
	if width <= 0 {
		width = total
	}
	if width <= 0 {
		width = im.opts.TableWidth
	}

	t, err := im.dst.AddTable(len(rows), cols, width, im.opts.FontSize)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("table %q flattened: not allowed here", tx.Name)
		return im.flatten(slots)
	}
	if err != nil {
		return fmt.Errorf("adding table: %w", err)
	}

	if dir, ok := direction(props.WritingMode); ok {
		t.SetDirection(dir)
	}
	switch props.Align {
	case "center":
		t.Alignment = model.AlignCenter
	case "right":
		t.Alignment = model.AlignRight
	}
	if total > 0 {
		scale := width / total
		for i, w := range widths {
			if w <= 0 || i >= cols {
				continue
			}
			if err := t.SetColWidth(i, w*scale); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
	}
	for r, row := range rows {
		def := sr.style("table-row", row.StyleName)
		if def == nil || def.TableRowProps == nil {
			continue
		}
		rp := def.TableRowProps
		h := parseLength(rp.RowHeight)
		if h <= 0 {
			h = parseLength(rp.MinRowHeight)
		}
		if h > 0 {
			if err := t.SetRowHeight(r, h); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
		if rp.KeepTogether == "always" {
			if err := t.SetRowKeepInSamePage(r, true); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
	}
	if style, w, ok := im.tableBorder(slots); ok {
		t.SetOuterBorder(style, w)
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
	if def := im.r.styles.style("table-cell", tc.StyleName); def != nil && def.TableCellProps != nil {
		cp := def.TableCellProps
		if col, ok := hexColor(cp.BackgroundColor); ok {
			if err := c.SetBackgroundColor(col); err != nil {
				return fmt.Errorf("shading cell: %w", err)
			}
		}
		switch cp.VerticalAlign {
		case "middle":
			c.VerticalAlignment = model.VAlignMiddle
		case "bottom":
			c.VerticalAlignment = model.VAlignBottom
		}
	}

	sub := im.sub(c)
	err := sub.blocks(tc.Blocks)
	im.merge(sub)
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

// tableBorder returns the border of the first cell style that sets one.
func (im *importer) tableBorder(slots []cellSlot) (model.BorderStyle, float64, bool) {
	for _, s := range slots {
		def := im.r.styles.style("table-cell", s.cell.StyleName)
		if def == nil || def.TableCellProps == nil {
			continue
		}
		cp := def.TableCellProps
		for _, spec := range []string{cp.Border, cp.BorderTop, cp.BorderLeft, cp.BorderBottom, cp.BorderRight} {
			if style, w, ok := border(spec); ok {
				return style, w, true
			}
		}
	}
	return 0, 0, false
}

// border parses an fo:border value such as "0.5pt solid #000000".
func border(spec string) (model.BorderStyle, float64, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, false
	}
	style, width, known := model.BorderSingle, 0.5, false
	for _, word := range strings.Fields(spec) {
		switch word {
		case "none", "hidden":
			return model.BorderNone, 0, true
		case "solid":
			style, known = model.BorderSingle, true
		case "double":
			style, known = model.BorderDouble, true
		case "dotted":
			style, known = model.BorderDotted, true
		case "dashed":
			style, known = model.BorderDashed, true
		default:
			if w := parseLength(word); w > 0 {
				width, known = w, true
			}
		}
	}
	return style, width, known
}
