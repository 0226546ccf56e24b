package htmldoc

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// tableCell is a td or th placed on the table grid.
type tableCell struct {
	node     *html.Node
	row, col int
	rowSpan  int
	colSpan  int
	isHeader bool
}

// parsedTable is the grid layout of an HTML table.
type parsedTable struct {
	rows, cols int
	cells      []tableCell
}

// parseTable places the cells of tableNode on a grid, honouring rowspan and
// colspan the way browsers do: each cell takes the first free column of its
// row.
func parseTable(tableNode *html.Node) *parsedTable {
	var trs []*html.Node
	var headerRows = make(map[*html.Node]bool)
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					trs = append(trs, tr)
					headerRows[tr] = c.Data == "thead"
				}
			}
		case "tr":
			trs = append(trs, c)
		}
	}

	t := &parsedTable{rows: len(trs)}
	occupied := make(map[[2]int]bool)
	for r, tr := range trs {
		col := 0
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			for occupied[[2]int{r, col}] {
				col++
			}
			cell := tableCell{
				node:     c,
				row:      r,
				col:      col,
				rowSpan:  spanAttr(c, "rowspan"),
				colSpan:  spanAttr(c, "colspan"),
				isHeader: headerRows[tr] || c.Data == "th",
			}
			if r+cell.rowSpan > len(trs) {
				cell.rowSpan = len(trs) - r
			}
			for dr := 0; dr < cell.rowSpan; dr++ {
				for dc := 0; dc < cell.colSpan; dc++ {
					occupied[[2]int{r + dr, col + dc}] = true
				}
			}
			t.cells = append(t.cells, cell)
			col += cell.colSpan
			if col > t.cols {
				t.cols = col
			}
		}
	}
	return t
}

// spanAttr reads a rowspan or colspan attribute; anything but a positive
// integer counts as 1.
func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(attrValue(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// table imports an HTML table. When the container does not accept tables
// each row becomes a tab-separated paragraph.
func (im *importer) table(n *html.Node, st blockState) error {
	pt := parseTable(n)
	if pt.rows == 0 || pt.cols == 0 {
		return nil
	}

	t, err := im.dst.AddTable(pt.rows, pt.cols, im.opts.TableWidth, im.opts.FontSize)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("table with %d rows flattened: tables are not allowed here", pt.rows)
		return im.flatTable(pt, st)
	}
	if err != nil {
		return err
	}
	if st.hasDir {
		t.SetDirection(st.dir)
	}

	for _, c := range pt.cells {
		cell := t.Cell(c.row, c.col)
		if c.rowSpan > 1 || c.colSpan > 1 {
			merged, err := t.Merge(c.row, c.col, c.rowSpan, c.colSpan)
			if err != nil {
				im.warn("cell %d,%d not merged: %v", c.row, c.col, err)
			} else {
				cell = merged
			}
		}
		if err := im.cell(cell, c, st); err != nil {
			return err
		}
	}
	return nil
}

// cell fills a table cell with the inline content of c.
func (im *importer) cell(dst *document.Cell, c tableCell, st blockState) error {
	switch strings.ToLower(attrValue(c.node, "valign")) {
	case "middle", "center":
		dst.VerticalAlignment = model.VAlignMiddle
	case "bottom":
		dst.VerticalAlignment = model.VAlignBottom
	}
	if bg := attrValue(c.node, "bgcolor"); bg != "" {
		if color, err := model.ParseColor(bg); err == nil {
			if err := dst.SetBackgroundColor(color); err != nil {
				im.warn("cell %d,%d background not applied: %v", c.row, c.col, err)
			}
		} else {
			im.warn("cell %d,%d: %v", c.row, c.col, err)
		}
	}

	b := &runBuilder{}
	b.collect(c.node, false)

	sub := &importer{dst: dst, opts: im.opts, layout: im.layout}
	st.indent = 0
	err := sub.emit(b, st, func(p *document.Paragraph) {
		if c.isHeader {
			p.DefaultCharFormat().AddStyle(model.Bold)
		}
		switch strings.ToLower(attrValue(c.node, "align")) {
		case "center":
			p.Alignment = model.AlignCenter
		case "right":
			p.Alignment = model.AlignRight
		case "justify":
			p.Alignment = model.AlignJustify
		}
	})
	im.warnings = append(im.warnings, sub.warnings...)
	return err
}

// flatTable writes each row as one paragraph with cells separated by tabs.
func (im *importer) flatTable(pt *parsedTable, st blockState) error {
	rows := make([][]string, pt.rows)
	for _, c := range pt.cells {
		b := &runBuilder{}
		b.collect(c.node, false)
		b.trim()
		rows[c.row] = append(rows[c.row], strings.ReplaceAll(string(b.text), "\n", " "))
	}
	for _, cells := range rows {
		if len(cells) == 0 {
			continue
		}
		im.paragraph(st).SetText(strings.Join(cells, "\t"))
	}
	return nil
}
