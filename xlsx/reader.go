package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/model"
)

const workbookPart = "xl/workbook.xml"

const (
	// charWidth is the width in points of one character of the default
	// font, the unit of column widths.
	charWidth = 5.25
	// defaultColWidth is the width in characters of columns without a
	// width of their own.
	defaultColWidth = 8.43
)

// ErrNotXLSX is returned when an archive lacks the parts of a workbook.
var ErrNotXLSX = errors.New("xlsx: not an Excel workbook")

// Metadata holds the document properties of a workbook.
type Metadata struct {
	Title   string
	Subject string
	Creator string
}

// Reader provides access to XLSX document content.
type Reader struct {
	closer        io.Closer
	files         map[string]*zip.File
	workbook      *workbookXML
	sharedStrings []string
	styles        []*CellStyle // one per cellXfs entry
	sheetRels     map[string]relationshipXML
	metadata      Metadata
	date1904      bool
	sheets        []*Sheet
	warnings      []model.Warning
}

// Open opens an XLSX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// NewReader reads a workbook of size bytes from ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		files:     make(map[string]*zip.File, len(zr.File)),
		sheetRels: make(map[string]relationshipXML),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}
	if r.files[workbookPart] == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotXLSX, workbookPart)
	}

	r.workbook = &workbookXML{}
	if err := r.decode(workbookPart, r.workbook); err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}
	r.date1904 = isTrue(r.workbook.Props.Date1904)

	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	// Shared strings, styles and properties are optional.
	if err := r.parseSharedStrings(); err != nil {
		return nil, fmt.Errorf("parsing shared strings: %w", err)
	}
	if err := r.parseStyles(); err != nil {
		return nil, fmt.Errorf("parsing styles: %w", err)
	}
	r.parseCoreProperties()

	if err := r.parseWorksheets(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the file opened by Open. It is a no-op for readers made
// with NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// read returns the content of a part.
func (r *Reader) read(name string) ([]byte, error) {
	f := r.files[name]
	if f == nil {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decode unmarshals a part into v.
func (r *Reader) decode(name string, v any) error {
	data, err := r.read(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

func (r *Reader) warn(format string, args ...any) {
	r.warnings = append(r.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// parseRelationships maps relationship IDs of the workbook to parts.
func (r *Reader) parseRelationships() error {
	name := "xl/_rels/workbook.xml.rels"
	if r.files[name] == nil {
		return nil
	}
	var rels relationshipsXML
	if err := r.decode(name, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationship {
		r.sheetRels[rel.ID] = rel
	}
	return nil
}

// parseSharedStrings parses the shared strings table.
func (r *Reader) parseSharedStrings() error {
	name := "xl/sharedStrings.xml"
	if r.files[name] == nil {
		return nil
	}
	var sst sharedStringsXML
	if err := r.decode(name, &sst); err != nil {
		return err
	}
	r.sharedStrings = make([]string, len(sst.SI))
	for i := range sst.SI {
		r.sharedStrings[i] = sst.SI[i].text()
	}
	return nil
}

// parseStyles resolves every cell format into a CellStyle. Font name and
// size are kept only where they differ from the workbook default font.
func (r *Reader) parseStyles() error {
	name := "xl/styles.xml"
	if r.files[name] == nil {
		return nil
	}
	var ss stylesXML
	if err := r.decode(name, &ss); err != nil {
		return err
	}

	formats := make(map[int]string, len(ss.NumFmts))
	for _, nf := range ss.NumFmts {
		formats[nf.NumFmtID] = nf.FormatCode
	}

	var base fontXML
	if len(ss.Fonts) > 0 {
		base = ss.Fonts[0]
	}

	r.styles = make([]*CellStyle, len(ss.CellXfs))
	for i, xf := range ss.CellXfs {
		st := &CellStyle{}

		code, ok := formats[xf.NumFmtID]
		if !ok {
			code = builtinFormats[xf.NumFmtID]
		}
		if !strings.EqualFold(code, "general") {
			st.FormatCode = code
		}

		if xf.FontID >= 0 && xf.FontID < len(ss.Fonts) {
			font := ss.Fonts[xf.FontID]
			if font.Name.Val != base.Name.Val {
				st.Font = font.Name.Val
			}
			if font.Size.Val != base.Size.Val {
				st.Size, _ = strconv.ParseFloat(font.Size.Val, 64)
			}
			if font.Bold.on() {
				st.Style |= model.Bold
			}
			if font.Italic.on() {
				st.Style |= model.Italic
			}
			if font.Underline.on() {
				st.Style |= model.Underline
			}
			if font.Strike.on() {
				st.Style |= model.Strike
			}
			if c, ok := argbColor(font.Color); ok {
				st.Color = &c
			}
		}

		if xf.FillID >= 0 && xf.FillID < len(ss.Fills) {
			fill := ss.Fills[xf.FillID].Pattern
			if fill.Type == "solid" {
				if c, ok := argbColor(fill.Fg); ok {
					st.Fill = &c
				}
			}
		}

		if a := xf.Alignment; a != nil {
			st.Align, st.HasAlign = horizontal(a.Horizontal)
			st.VAlign, st.HasVAlign = vertical(a.Vertical)
		}

		if *st != (CellStyle{}) {
			r.styles[i] = st
		}
	}
	return nil
}

// argbColor parses an ARGB color. Theme and indexed colors are not
// resolved.
func argbColor(c *colorXML) (model.Color, bool) {
	if c == nil || len(c.RGB) < 6 {
		return model.Color{}, false
	}
	col, err := model.ParseColor(c.RGB[len(c.RGB)-6:])
	if err != nil {
		return model.Color{}, false
	}
	return col, true
}

func horizontal(s string) (model.Align, bool) {
	switch s {
	case "left":
		return model.AlignLeft, true
	case "center", "centerContinuous":
		return model.AlignCenter, true
	case "right":
		return model.AlignRight, true
	case "justify", "distributed":
		return model.AlignJustify, true
	}
	return model.AlignLeft, false
}

func vertical(s string) (model.VerticalAlign, bool) {
	switch s {
	case "top":
		return model.VAlignTop, true
	case "center", "distributed", "justify":
		return model.VAlignMiddle, true
	case "bottom":
		return model.VAlignBottom, true
	}
	return model.VAlignTop, false
}

// parseCoreProperties reads docProps/core.xml, ignoring a broken part.
func (r *Reader) parseCoreProperties() {
	var core corePropertiesXML
	if err := r.decode("docProps/core.xml", &core); err != nil {
		return
	}
	r.metadata = Metadata{
		Title:   strings.TrimSpace(core.Title),
		Subject: strings.TrimSpace(core.Subject),
		Creator: strings.TrimSpace(core.Creator),
	}
}

// sheetPart returns the part of the i-th sheet, or "" for sheets that are
// not worksheets.
func (r *Reader) sheetPart(i int, ref sheetRefXML) string {
	rel, ok := r.sheetRels[ref.RID]
	if !ok {
		return fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
	}
	if !strings.HasSuffix(rel.Type, "/worksheet") {
		return ""
	}
	if strings.HasPrefix(rel.Target, "/") {
		return strings.TrimPrefix(rel.Target, "/")
	}
	return path.Join("xl", rel.Target)
}

// parseWorksheets parses all worksheet parts. Sheets that cannot be read
// are skipped with a warning.
func (r *Reader) parseWorksheets() error {
	formatter := newNumberFormatter(language.English, r.date1904)
	r.sheets = make([]*Sheet, 0, len(r.workbook.Sheets))
	for i, ref := range r.workbook.Sheets {
		part := r.sheetPart(i, ref)
		if part == "" {
			r.warn("sheet %q skipped: not a worksheet", ref.Name)
			continue
		}
		var ws worksheetXML
		if err := r.decode(part, &ws); err != nil {
			r.warn("sheet %q skipped: %v", ref.Name, err)
			continue
		}
		sheet := r.parseWorksheet(&ws, ref.Name, len(r.sheets), formatter)
		sheet.Hidden = ref.State == "hidden" || ref.State == "veryHidden"
		r.sheets = append(r.sheets, sheet)
	}

	if len(r.sheets) == 0 {
		return fmt.Errorf("%w: no worksheets found", ErrNotXLSX)
	}
	return nil
}

// parseWorksheet builds the cell grid of one worksheet. Rows and cells
// without a reference follow their predecessor.
func (r *Reader) parseWorksheet(ws *worksheetXML, name string, index int, formatter *numberFormatter) *Sheet {
	sheet := &Sheet{Name: name, Index: index}

	for _, mc := range ws.MergeCells {
		startCol, startRow, endCol, endRow, err := ParseRangeRef(mc.Ref)
		if err != nil {
			r.warn("sheet %q: merge %q ignored: %v", name, mc.Ref, err)
			continue
		}
		sheet.MergedRegions = append(sheet.MergedRegions, MergedRegion{
			StartRow: startRow,
			StartCol: startCol,
			EndRow:   endRow,
			EndCol:   endCol,
		})
	}

	// First pass: place rows and cells and find dimensions
	type placed struct {
		row, col int
		x        *cellXML
	}
	var cells []placed
	heights := make(map[int]float64)
	maxRow, maxCol := -1, -1
	rowIdx := -1
	for _, row := range ws.Rows {
		if row.R > 0 {
			rowIdx = row.R - 1
		} else {
			rowIdx++
		}
		if row.CustomHeight && row.Height > 0 {
			heights[rowIdx] = row.Height
		}
		col := -1
		for i := range row.Cells {
			x := &row.Cells[i]
			if c, _, err := ParseCellRef(x.R); err == nil {
				col = c
			} else {
				col++
			}
			cells = append(cells, placed{rowIdx, col, x})
			maxCol = max(maxCol, col)
		}
		maxRow = max(maxRow, rowIdx)
	}
	for _, mr := range sheet.MergedRegions {
		maxRow = max(maxRow, mr.EndRow)
		maxCol = max(maxCol, mr.EndCol)
	}

	sheet.MaxRow = maxRow
	sheet.MaxCol = max(maxCol, 0)
	sheet.Rows = make([][]Cell, maxRow+1)
	for i := range sheet.Rows {
		sheet.Rows[i] = make([]Cell, sheet.MaxCol+1)
		for j := range sheet.Rows[i] {
			sheet.Rows[i][j] = Cell{
				Row:       i,
				Col:       j,
				Type:      CellTypeEmpty,
				MergeRows: 1,
				MergeCols: 1,
			}
		}
	}

	// Second pass: populate cells
	for _, p := range cells {
		cell := &sheet.Rows[p.row][p.col]
		x := p.x
		cell.RawValue = x.V
		cell.Formula = x.F
		if x.S >= 0 && x.S < len(r.styles) {
			cell.Style = r.styles[x.S]
		}

		switch x.T {
		case "s":
			cell.Type = CellTypeString
			idx, err := strconv.Atoi(x.V)
			if err == nil && idx >= 0 && idx < len(r.sharedStrings) {
				cell.Value = r.sharedStrings[idx]
			}
		case "b":
			cell.Type = CellTypeBoolean
			if x.V == "1" {
				cell.Value = "TRUE"
			} else {
				cell.Value = "FALSE"
			}
		case "e":
			cell.Type = CellTypeError
			cell.Value = x.V
		case "str", "d":
			cell.Type = CellTypeString
			cell.Value = x.V
		case "inlineStr":
			cell.Type = CellTypeString
			cell.Value = x.Is.text()
			cell.RawValue = cell.Value
		default:
			switch {
			case x.V != "":
				cell.Type = CellTypeNumber
				cell.Value = formatter.format(x.V, cell.formatCode())
			case x.F != "":
				cell.Type = CellTypeFormula
			}
		}
	}

	for _, mr := range sheet.MergedRegions {
		for row := mr.StartRow; row <= mr.EndRow; row++ {
			for col := mr.StartCol; col <= mr.EndCol; col++ {
				cell := &sheet.Rows[row][col]
				cell.IsMerged = true
				if row == mr.StartRow && col == mr.StartCol {
					cell.IsMergeRoot = true
					cell.MergeRows = mr.EndRow - mr.StartRow + 1
					cell.MergeCols = mr.EndCol - mr.StartCol + 1
				}
			}
		}
	}

	sheet.ColWidths = make([]float64, sheet.MaxCol+1)
	for i := range sheet.ColWidths {
		sheet.ColWidths[i] = defaultWidth(ws)
	}
	for _, c := range ws.Cols {
		if c.Width <= 0 {
			continue
		}
		for i := max(c.Min, 1) - 1; i < c.Max && i < len(sheet.ColWidths); i++ {
			sheet.ColWidths[i] = c.Width * charWidth
		}
	}
	sheet.RowHeights = make([]float64, len(sheet.Rows))
	for row, h := range heights {
		sheet.RowHeights[row] = h
	}
	return sheet
}

// formatCode returns the number format of the cell, "" for General.
func (c *Cell) formatCode() string {
	if c.Style == nil {
		return ""
	}
	return c.Style.FormatCode
}

// defaultWidth returns the default column width of a sheet in points.
func defaultWidth(ws *worksheetXML) float64 {
	if w, err := strconv.ParseFloat(ws.Format.DefaultColWidth, 64); err == nil && w > 0 {
		return w * charWidth
	}
	if w, err := strconv.ParseFloat(ws.Format.BaseColWidth, 64); err == nil && w > 0 {
		return (w + 0.71) * charWidth
	}
	return defaultColWidth * charWidth
}

func isTrue(s string) bool {
	return s == "1" || s == "true"
}

// Metadata returns the document properties of the workbook.
func (r *Reader) Metadata() Metadata {
	return r.metadata
}

// Date1904 reports whether date serials count from 1904.
func (r *Reader) Date1904() bool {
	return r.date1904
}

// Warnings returns the problems found while reading the workbook.
func (r *Reader) Warnings() []model.Warning {
	return append([]model.Warning(nil), r.warnings...)
}

// SheetCount returns the number of sheets in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// SheetNames returns the names of all sheets.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet at the given index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.sheets) {
		return nil, fmt.Errorf("sheet index %d out of range (0-%d)", index, len(r.sheets)-1)
	}
	return r.sheets[index], nil
}

// SheetByName returns the sheet with the given name.
func (r *Reader) SheetByName(name string) (*Sheet, error) {
	for _, s := range r.sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sheet not found: %s", name)
}
