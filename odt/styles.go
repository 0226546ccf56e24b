package odt

import "encoding/xml"

// stylesXML represents the structure of styles.xml
type stylesXML struct {
	XMLName      xml.Name         `xml:"document-styles"`
	FontFaces    []fontFaceXML    `xml:"font-face-decls>font-face"`
	Styles       *styleListXML    `xml:"styles"`
	AutoStyles   *styleListXML    `xml:"automatic-styles"`
	MasterStyles *masterStylesXML `xml:"master-styles"`
}

// styleListXML holds the styles of office:styles or
// office:automatic-styles.
type styleListXML struct {
	Defaults   []styleDefXML  `xml:"default-style"`
	Styles     []styleDefXML  `xml:"style"`
	ListStyles []listStyleXML `xml:"list-style"`
	Outline    *listStyleXML  `xml:"outline-style"`
}

// masterStylesXML represents the office:master-styles element.
type masterStylesXML struct {
	MasterPages []masterPageXML `xml:"master-page"`
}

// masterPageXML represents a master page (<style:master-page>). Only the
// default header and footer are kept.
type masterPageXML struct {
	Name   string     `xml:"name,attr"`
	Header *blocksXML `xml:"header"`
	Footer *blocksXML `xml:"footer"`
}

// styleDefXML represents a style definition (<style:style>) or a family
// default (<style:default-style>).
type styleDefXML struct {
	Name                string               `xml:"name,attr"`
	Family              string               `xml:"family,attr"` // paragraph, text, table, table-cell, etc.
	ParentStyleName     string               `xml:"parent-style-name,attr"`
	DisplayName         string               `xml:"display-name,attr"`
	DefaultOutlineLevel string               `xml:"default-outline-level,attr"`
	ListStyleName       string               `xml:"list-style-name,attr"`
	ParagraphProps      *paragraphPropsXML   `xml:"paragraph-properties"`
	TextProps           *textPropsXML        `xml:"text-properties"`
	TableProps          *tablePropsXML       `xml:"table-properties"`
	TableColumnProps    *tableColumnPropsXML `xml:"table-column-properties"`
	TableRowProps       *tableRowPropsXML    `xml:"table-row-properties"`
	TableCellProps      *tableCellPropsXML   `xml:"table-cell-properties"`
}

// paragraphPropsXML represents paragraph properties (<style:paragraph-properties>).
type paragraphPropsXML struct {
	TextAlign         string `xml:"text-align,attr"` // start, end, left, right, center, justify
	MarginTop         string `xml:"margin-top,attr"`
	MarginBottom      string `xml:"margin-bottom,attr"`
	MarginLeft        string `xml:"margin-left,attr"`
	MarginRight       string `xml:"margin-right,attr"`
	TextIndent        string `xml:"text-indent,attr"`
	LineHeight        string `xml:"line-height,attr"`
	LineHeightAtLeast string `xml:"line-height-at-least,attr"`
	BreakBefore       string `xml:"break-before,attr"`
	WritingMode       string `xml:"writing-mode,attr"`
}

// textPropsXML represents text properties (<style:text-properties>).
type textPropsXML struct {
	FontName        string `xml:"font-name,attr"`
	FontFamily      string `xml:"font-family,attr"`
	FontSize        string `xml:"font-size,attr"`
	FontStyle       string `xml:"font-style,attr"`           // normal, italic, oblique
	FontWeight      string `xml:"font-weight,attr"`          // normal, bold, 100-900
	FontVariant     string `xml:"font-variant,attr"`         // normal, small-caps
	TextUnderline   string `xml:"text-underline-style,attr"` // none, solid, ...
	TextLineThrough string `xml:"text-line-through-style,attr"`
	TextPosition    string `xml:"text-position,attr"` // super, sub or a percentage
	Color           string `xml:"color,attr"`
	BackgroundColor string `xml:"background-color,attr"`
}

// tablePropsXML represents table properties (<style:table-properties>).
type tablePropsXML struct {
	Width       string `xml:"width,attr"`
	Align       string `xml:"align,attr"`
	WritingMode string `xml:"writing-mode,attr"`
}

// tableColumnPropsXML represents table column properties.
type tableColumnPropsXML struct {
	ColumnWidth string `xml:"column-width,attr"`
}

// tableRowPropsXML represents table row properties.
type tableRowPropsXML struct {
	RowHeight    string `xml:"row-height,attr"`
	MinRowHeight string `xml:"min-row-height,attr"`
	KeepTogether string `xml:"keep-together,attr"`
}

// tableCellPropsXML represents table cell properties.
type tableCellPropsXML struct {
	VerticalAlign   string `xml:"vertical-align,attr"` // top, middle, bottom
	BackgroundColor string `xml:"background-color,attr"`
	Border          string `xml:"border,attr"`
	BorderTop       string `xml:"border-top,attr"`
	BorderBottom    string `xml:"border-bottom,attr"`
	BorderLeft      string `xml:"border-left,attr"`
	BorderRight     string `xml:"border-right,attr"`
}

// listStyleXML represents a list style (<text:list-style>) or the outline
// numbering of headings (<text:outline-style>).
type listStyleXML struct {
	Name    string         `xml:"name,attr"`
	Bullets []listLevelXML `xml:"list-level-style-bullet"`
	Numbers []listLevelXML `xml:"list-level-style-number"`
	Images  []listLevelXML `xml:"list-level-style-image"`
	Outline []listLevelXML `xml:"outline-level-style"`
}

// listLevelXML is the style of one list level.
type listLevelXML struct {
	Level         string             `xml:"level,attr"`
	BulletChar    string             `xml:"bullet-char,attr"`
	NumFormat     string             `xml:"num-format,attr"` // "1", "a", "A", "i", "I" or ""
	NumPrefix     string             `xml:"num-prefix,attr"`
	NumSuffix     string             `xml:"num-suffix,attr"`
	StartValue    string             `xml:"start-value,attr"`
	DisplayLevels string             `xml:"display-levels,attr"`
	Props         *listLevelPropsXML `xml:"list-level-properties"`
}

// listLevelPropsXML holds the indents of a list level. Older documents
// use space-before and min-label-width; newer ones a label alignment.
type listLevelPropsXML struct {
	SpaceBefore   string             `xml:"space-before,attr"`
	MinLabelWidth string             `xml:"min-label-width,attr"`
	Alignment     *labelAlignmentXML `xml:"list-level-label-alignment"`
}

// labelAlignmentXML represents <style:list-level-label-alignment>.
type labelAlignmentXML struct {
	MarginLeft string `xml:"margin-left,attr"`
	TextIndent string `xml:"text-indent,attr"`
}
