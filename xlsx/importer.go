package xlsx

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// Container receives imported blocks. *document.Document, sections and
// table cells satisfy it; headers and footers reject tables.
type Container interface {
	AddParagraph() *document.Paragraph
	AddTable(rows, cols int, width, fontSize float64) (*document.Table, error)
}

// Options configures a workbook import.
type Options struct {
	// TableWidth is the widest a table may get in points. Wider sheets
	// are scaled down to fit.
	TableWidth float64
	// FontSize is the body font size in points passed to new tables.
	FontSize float64
	// SheetNames writes a bold paragraph with the sheet name before each
	// table.
	SheetNames bool
	// HeaderRow sets the first row of each table in bold.
	HeaderRow bool
	// Gridlines draws single borders around every cell.
	Gridlines bool
	// PageBreaks starts every sheet after the first on a new page.
	PageBreaks bool
	// Hidden imports hidden sheets too.
	Hidden bool
	// Sheets restricts the import to the named sheets, in that order.
	Sheets []string
	// Language selects the decimal and grouping separators of numbers.
	// The zero value means English.
	Language language.Tag
}

// DefaultOptions returns the default import options.
func DefaultOptions() Options {
	return Options{
		TableWidth: 450,
		FontSize:   10,
		SheetNames: true,
		Gridlines:  true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TableWidth <= 0 {
		o.TableWidth = d.TableWidth
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Language == language.Und {
		o.Language = language.English
	}
	return o
}

// ImportFile reads the workbook at filename into dst.
func ImportFile(filename string, dst Container, opts Options) ([]model.Warning, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Import(dst, opts)
}

// Import appends one table per selected sheet to dst. Problems found while
// reading the workbook are returned with the import warnings.
func (r *Reader) Import(dst Container, opts Options) ([]model.Warning, error) {
	opts = opts.withDefaults()
	im := &importer{
		dst:       dst,
		opts:      opts,
		formatter: newNumberFormatter(opts.Language, r.date1904),
		warnings:  r.Warnings(),
	}

	started := false
	for _, s := range im.selectSheets(r) {
		ok, err := im.sheet(s, im.opts.PageBreaks && started)
		if err != nil {
			return im.warnings, fmt.Errorf("importing sheet %q: %w", s.Name, err)
		}
		started = started || ok
	}
	return im.warnings, nil
}

type importer struct {
	dst       Container
	opts      Options
	formatter *numberFormatter
	warnings  []model.Warning
}

func (im *importer) warn(format string, args ...any) {
	im.warnings = append(im.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// selectSheets returns the sheets named in the options, or every sheet
// that is visible or allowed by Hidden.
func (im *importer) selectSheets(r *Reader) []*Sheet {
	var sheets []*Sheet
	if len(im.opts.Sheets) > 0 {
		for _, name := range im.opts.Sheets {
			s, err := r.SheetByName(name)
			if err != nil {
				im.warn("sheet %q not found", name)
				continue
			}
			sheets = append(sheets, s)
		}
		return sheets
	}
	for _, s := range r.sheets {
		if !s.Hidden || im.opts.Hidden {
			sheets = append(sheets, s)
		}
	}
	return sheets
}

// sheet writes one sheet. It reports false for sheets without content.
func (im *importer) sheet(s *Sheet, pageBreak bool) (bool, error) {
	minRow, maxRow, minCol, maxCol, ok := s.contentBounds()
	if !ok {
		im.warn("sheet %q skipped: empty", s.Name)
		return false, nil
	}
	rows, cols := maxRow-minRow+1, maxCol-minCol+1

	if im.opts.SheetNames {
		p := im.dst.AddParagraph()
		p.SetText(s.Name)
		p.AddCharFormatAll().AddStyle(model.Bold)
		p.Margins.Bottom = 6
		p.StartNewPage = pageBreak
		pageBreak = false
	}

	widths, total := im.columnWidths(s, minCol, cols)
	t, err := im.dst.AddTable(rows, cols, total, im.opts.FontSize)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("sheet %q flattened: tables not allowed here", s.Name)
		im.flatten(s, minRow, maxRow, minCol, maxCol)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("adding table: %w", err)
	}
	t.StartNewPage = pageBreak

	for c, w := range widths {
		if err := t.SetColWidth(c, w); err != nil {
			return false, fmt.Errorf("sizing table: %w", err)
		}
	}
	for r := 0; r < rows; r++ {
		if h := s.RowHeights[minRow+r]; h > 0 {
			if err := t.SetRowHeight(r, h); err != nil {
				return false, fmt.Errorf("sizing table: %w", err)
			}
		}
	}
	if im.opts.Gridlines {
		t.SetOuterBorder(model.BorderSingle, 0.5)
		t.SetInnerBorder(model.BorderSingle, 0.5)
	}

	for _, mr := range s.MergedRegions {
		_, err := t.Merge(mr.StartRow-minRow, mr.StartCol-minCol,
			mr.EndRow-mr.StartRow+1, mr.EndCol-mr.StartCol+1)
		if err != nil {
			im.warn("sheet %q: %s:%s not merged: %v", s.Name,
				CellRef(mr.StartCol, mr.StartRow), CellRef(mr.EndCol, mr.EndRow), err)
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := s.Cell(minRow+r, minCol+c)
			tc := t.Cell(r, c)
			if tc.RowIndex() != r || tc.ColIndex() != c {
				continue // covered by a merged cell
			}
			if err := im.cell(tc, cell, im.opts.HeaderRow && r == 0); err != nil {
				return false, fmt.Errorf("cell %s: %w", CellRef(minCol+c, minRow+r), err)
			}
		}
	}
	return true, nil
}

// columnWidths returns the widths of the imported columns, scaled down
// when their sum exceeds TableWidth, and their sum.
func (im *importer) columnWidths(s *Sheet, minCol, cols int) ([]float64, float64) {
	widths := make([]float64, cols)
	var total float64
	for c := range widths {
		widths[c] = s.ColWidths[minCol+c]
		total += widths[c]
	}
	if total > im.opts.TableWidth {
		for c := range widths {
			widths[c] = widths[c] * im.opts.TableWidth / total
		}
		total = im.opts.TableWidth
	}
	return widths, total
}

// display returns the text shown for a cell.
func (im *importer) display(cell *Cell) string {
	if cell.Type == CellTypeNumber {
		return im.formatter.format(cell.RawValue, cell.formatCode())
	}
	return cell.Value
}

// cell fills one table cell. Without an explicit alignment numbers are set
// right and booleans and errors centered, as spreadsheets show them.
func (im *importer) cell(tc *document.Cell, cell *Cell, bold bool) error {
	st := cell.Style
	if st == nil {
		st = &CellStyle{}
	}

	tc.VerticalAlignment = model.VAlignBottom
	if st.HasVAlign {
		tc.VerticalAlignment = st.VAlign
	}
	if st.Fill != nil {
		if err := tc.SetBackgroundColor(*st.Fill); err != nil {
			return err
		}
	}

	text := im.display(cell)
	if text == "" {
		return nil
	}
	p := tc.AddParagraph()
	p.SetText(text)
	switch {
	case st.HasAlign:
		p.Alignment = st.Align
	case cell.Type == CellTypeNumber:
		p.Alignment = model.AlignRight
	case cell.Type == CellTypeBoolean || cell.Type == CellTypeError:
		p.Alignment = model.AlignCenter
	}

	style := st.Style
	if bold {
		style |= model.Bold
	}
	if st.Font == "" && st.Size == 0 && style == 0 && st.Color == nil {
		return nil
	}
	f := p.AddCharFormatAll()
	if st.Font != "" {
		if err := f.SetFontName(st.Font); err != nil {
			return err
		}
	}
	if st.Size > 0 {
		f.SetFontSize(st.Size)
	}
	if style != 0 {
		f.AddStyle(style)
	}
	if st.Color != nil {
		if err := f.SetForegroundColor(*st.Color); err != nil {
			return err
		}
	}
	return nil
}

// flatten writes each non-empty row as a tab-separated paragraph.
func (im *importer) flatten(s *Sheet, minRow, maxRow, minCol, maxCol int) {
	for r := minRow; r <= maxRow; r++ {
		values := make([]string, 0, maxCol-minCol+1)
		empty := true
		for c := minCol; c <= maxCol; c++ {
			cell := s.Cell(r, c)
			v := ""
			if !cell.IsMerged || cell.IsMergeRoot {
				v = im.display(cell)
			}
			empty = empty && v == ""
			values = append(values, v)
		}
		if !empty {
			im.dst.AddParagraph().SetText(strings.Join(values, "\t"))
		}
	}
}
