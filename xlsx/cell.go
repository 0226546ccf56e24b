package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeEmpty indicates an empty cell.
	CellTypeEmpty CellType = iota
	// CellTypeString indicates a string value.
	CellTypeString
	// CellTypeNumber indicates a numeric value, including dates.
	CellTypeNumber
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeFormula indicates a formula without a cached result.
	CellTypeFormula
	// CellTypeError indicates an error value such as #DIV/0!.
	CellTypeError
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeFormula:
		return "formula"
	case CellTypeError:
		return "error"
	case CellTypeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// CellStyle is the subset of a cell format that survives the import.
type CellStyle struct {
	Font       string
	Size       float64
	Style      model.FontStyleFlag
	Color      *model.Color
	Fill       *model.Color
	Align      model.Align
	HasAlign   bool
	VAlign     model.VerticalAlign
	HasVAlign  bool
	FormatCode string
}

// Cell represents a cell in a worksheet.
type Cell struct {
	Value    string // formatted display value
	RawValue string // value as stored
	Type     CellType
	Row      int // 0-indexed
	Col      int // 0-indexed
	Formula  string
	Style    *CellStyle // nil for the default format

	// Merge information
	IsMerged    bool // part of a merged region
	IsMergeRoot bool // top-left cell of a merged region
	MergeRows   int  // rows in the region, 1 when not merged
	MergeCols   int  // columns in the region, 1 when not merged
}

// IsEmpty returns true if the cell has no value.
func (c *Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty || c.Value == ""
}

// Sheet represents a worksheet in the workbook.
type Sheet struct {
	Name   string
	Index  int
	Hidden bool
	Rows   [][]Cell
	MaxRow int // 0-indexed
	MaxCol int // 0-indexed

	// ColWidths holds column widths in points.
	ColWidths []float64
	// RowHeights holds custom row heights in points; 0 means automatic.
	RowHeights []float64

	MergedRegions []MergedRegion
}

// MergedRegion represents a merged cell region, inclusive on both ends.
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Cell returns the cell at the given row and column (0-indexed), or nil.
func (s *Sheet) Cell(row, col int) *Cell {
	if row < 0 || row >= len(s.Rows) {
		return nil
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return nil
	}
	return &s.Rows[row][col]
}

// CellByRef returns the cell at the given reference (e.g., "A1"), or nil.
func (s *Sheet) CellByRef(ref string) *Cell {
	col, row, err := ParseCellRef(ref)
	if err != nil {
		return nil
	}
	return s.Cell(row, col)
}

// RowCount returns the number of rows in the sheet.
func (s *Sheet) RowCount() int {
	return len(s.Rows)
}

// ColCount returns the maximum number of columns in any row.
func (s *Sheet) ColCount() int {
	return s.MaxCol + 1
}

// contentBounds returns the smallest rectangle holding every non-empty
// cell and every merged region, or ok false for an empty sheet.
func (s *Sheet) contentBounds() (minRow, maxRow, minCol, maxCol int, ok bool) {
	minRow, minCol = len(s.Rows), s.MaxCol+1
	maxRow, maxCol = -1, -1
	grow := func(r, c int) {
		minRow, maxRow = min(minRow, r), max(maxRow, r)
		minCol, maxCol = min(minCol, c), max(maxCol, c)
	}
	for r, row := range s.Rows {
		for c := range row {
			if !row[c].IsEmpty() {
				grow(r, c)
			}
		}
	}
	for _, mr := range s.MergedRegions {
		if mr.EndRow < len(s.Rows) && mr.EndCol <= s.MaxCol {
			grow(mr.StartRow, mr.StartCol)
			grow(mr.EndRow, mr.EndCol)
		}
	}
	return minRow, maxRow, minCol, maxCol, maxRow >= 0
}

// ParseCellRef parses a cell reference like "A1" or "$AA$100" into column
// and row indices (0-indexed).
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no column letters", ref)
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no row number", ref)
	}

	col = ColumnToIndex(ref[:i])
	if col < 0 {
		return 0, 0, fmt.Errorf("invalid column: %s", ref[:i])
	}

	rowNum, err := strconv.Atoi(ref[i:])
	if err != nil || rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row: %s", ref[i:])
	}
	return col, rowNum - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column number:
// A=0, Z=25, AA=26. It returns -1 for anything but letters.
func ColumnToIndex(col string) int {
	if col == "" {
		return -1
	}
	result := 0
	for _, c := range strings.ToUpper(col) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

// IndexToColumn converts a 0-indexed column number to column letters.
func IndexToColumn(index int) string {
	if index < 0 {
		return ""
	}
	var buf []byte
	for index++; index > 0; index /= 26 {
		index--
		buf = append([]byte{byte('A' + index%26)}, buf...)
	}
	return string(buf)
}

// CellRef creates a cell reference string from column and row indices.
func CellRef(col, row int) string {
	return IndexToColumn(col) + strconv.Itoa(row+1)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ParseRangeRef parses a range like "A1:D10". A single cell reference is a
// one-cell range.
func ParseRangeRef(ref string) (startCol, startRow, endCol, endRow int, err error) {
	first, last, found := strings.Cut(ref, ":")
	if !found {
		last = first
	}

	startCol, startRow, err = ParseCellRef(first)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid start cell: %w", err)
	}
	endCol, endRow, err = ParseCellRef(last)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid end cell: %w", err)
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return startCol, startRow, endCol, endRow, nil
}
