// Package xlsx imports Excel (.xlsx) workbooks into a document block list.
// Every visible worksheet becomes a table; cell styles carry over as
// character formats, alignment and shading.
package xlsx

import "encoding/xml"

// workbookXML represents the xl/workbook.xml file structure.
type workbookXML struct {
	XMLName xml.Name      `xml:"workbook"`
	Props   workbookProps `xml:"workbookPr"`
	Sheets  []sheetRefXML `xml:"sheets>sheet"`
}

type workbookProps struct {
	Date1904 string `xml:"date1904,attr"`
}

type sheetRefXML struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	State   string `xml:"state,attr"` // "", "visible", "hidden" or "veryHidden"
	RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// worksheetXML represents a xl/worksheets/sheet*.xml file structure.
type worksheetXML struct {
	XMLName    xml.Name       `xml:"worksheet"`
	Format     sheetFormatXML `xml:"sheetFormatPr"`
	Cols       []colXML       `xml:"cols>col"`
	Rows       []rowXML       `xml:"sheetData>row"`
	MergeCells []mergeCellXML `xml:"mergeCells>mergeCell"`
}

type sheetFormatXML struct {
	DefaultColWidth string `xml:"defaultColWidth,attr"`
	BaseColWidth    string `xml:"baseColWidth,attr"`
}

// colXML sets the width of columns Min through Max, 1-based.
type colXML struct {
	Min    int     `xml:"min,attr"`
	Max    int     `xml:"max,attr"`
	Width  float64 `xml:"width,attr"`
	Hidden bool    `xml:"hidden,attr"`
}

type rowXML struct {
	R            int       `xml:"r,attr"` // 1-based
	Height       float64   `xml:"ht,attr"`
	CustomHeight bool      `xml:"customHeight,attr"`
	Hidden       bool      `xml:"hidden,attr"`
	Cells        []cellXML `xml:"c"`
}

type cellXML struct {
	R  string       `xml:"r,attr"` // reference such as "A1"
	T  string       `xml:"t,attr"` // s, n, b, str, inlineStr, e or d
	S  int          `xml:"s,attr"` // index into cellXfs
	V  string       `xml:"v"`
	F  string       `xml:"f"`
	Is *richTextXML `xml:"is"`
}

type mergeCellXML struct {
	Ref string `xml:"ref,attr"` // e.g., "A1:B2"
}

// richTextXML is a shared or inline string: plain text or a list of runs.
type richTextXML struct {
	T string       `xml:"t"`
	R []richRunXML `xml:"r"`
}

type richRunXML struct {
	T string `xml:"t"`
}

// text joins the plain text and every run.
func (rt *richTextXML) text() string {
	if rt == nil {
		return ""
	}
	s := rt.T
	for _, r := range rt.R {
		s += r.T
	}
	return s
}

// sharedStringsXML represents the xl/sharedStrings.xml file structure.
type sharedStringsXML struct {
	XMLName xml.Name      `xml:"sst"`
	SI      []richTextXML `xml:"si"`
}

// stylesXML represents the xl/styles.xml file structure.
type stylesXML struct {
	XMLName xml.Name    `xml:"styleSheet"`
	NumFmts []numFmtXML `xml:"numFmts>numFmt"`
	Fonts   []fontXML   `xml:"fonts>font"`
	Fills   []fillXML   `xml:"fills>fill"`
	CellXfs []xfXML     `xml:"cellXfs>xf"`
}

type numFmtXML struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

// flagXML is an element whose presence switches a property on unless its
// val attribute says otherwise.
type flagXML struct {
	Val *string `xml:"val,attr"`
}

func (f *flagXML) on() bool {
	if f == nil {
		return false
	}
	return f.Val == nil || (*f.Val != "0" && *f.Val != "false" && *f.Val != "none")
}

type colorXML struct {
	RGB string `xml:"rgb,attr"` // ARGB hex
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type fontXML struct {
	Bold      *flagXML  `xml:"b"`
	Italic    *flagXML  `xml:"i"`
	Strike    *flagXML  `xml:"strike"`
	Underline *flagXML  `xml:"u"`
	Size      valXML    `xml:"sz"`
	Name      valXML    `xml:"name"`
	Color     *colorXML `xml:"color"`
}

type fillXML struct {
	Pattern struct {
		Type string    `xml:"patternType,attr"`
		Fg   *colorXML `xml:"fgColor"`
	} `xml:"patternFill"`
}

type xfXML struct {
	NumFmtID  int           `xml:"numFmtId,attr"`
	FontID    int           `xml:"fontId,attr"`
	FillID    int           `xml:"fillId,attr"`
	Alignment *alignmentXML `xml:"alignment"`
}

type alignmentXML struct {
	Horizontal string `xml:"horizontal,attr"`
	Vertical   string `xml:"vertical,attr"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Subject string   `xml:"subject"`
	Creator string   `xml:"creator"`
}
