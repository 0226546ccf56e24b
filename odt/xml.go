package odt

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// contentXML represents the structure of content.xml
type contentXML struct {
	XMLName    xml.Name       `xml:"document-content"`
	FontFaces  []fontFaceXML  `xml:"font-face-decls>font-face"`
	AutoStyles *styleListXML  `xml:"automatic-styles"`
	Body       contentBodyXML `xml:"body"`
}

// contentBodyXML holds office:body. Spreadsheets and presentations have
// no office:text child.
type contentBodyXML struct {
	Text *blocksXML `xml:"text"`
}

// fontFaceXML declares a font used by style:font-name.
type fontFaceXML struct {
	Name   string `xml:"name,attr"`
	Family string `xml:"font-family,attr"`
}

// blocksXML holds paragraphs, headings, lists and tables in document
// order.
type blocksXML struct {
	Blocks []blockXML
}

// blockXML is one block-level element.
type blockXML struct {
	Paragraph *paragraphXML
	List      *listXML
	Table     *tableXML
}

// UnmarshalXML keeps the blocks in document order.
func (b *blocksXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	blocks, err := decodeBlocks(d)
	b.Blocks = blocks
	return err
}

// decodeBlocks reads blocks up to the end of the current element.
// Sections and generated indexes are unwrapped; everything else that is
// not a block, such as tracked changes and declarations, is skipped.
func decodeBlocks(d *xml.Decoder) ([]blockXML, error) {
	var blocks []blockXML
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p", "h":
				p := &paragraphXML{}
				if err := d.DecodeElement(p, &t); err != nil {
					return nil, err
				}
				blocks = append(blocks, blockXML{Paragraph: p})
			case "list":
				l := &listXML{}
				if err := d.DecodeElement(l, &t); err != nil {
					return nil, err
				}
				blocks = append(blocks, blockXML{List: l})
			case "table":
				tbl := &tableXML{}
				if err := d.DecodeElement(tbl, &t); err != nil {
					return nil, err
				}
				blocks = append(blocks, blockXML{Table: tbl})
			case "section", "table-of-content", "alphabetical-index", "illustration-index",
				"index-body", "index-title":
				inner, err := decodeBlocks(d)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, inner...)
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return blocks, nil
		}
	}
}

// attr returns the value of the attribute named local in any namespace.
func attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// paragraphXML represents a paragraph (<text:p>) or heading (<text:h>).
type paragraphXML struct {
	Heading      bool
	StyleName    string
	OutlineLevel int  // heading level, 0 when not given
	ListHeader   bool // heading excluded from outline numbering
	Content      []inlineXML
}

// UnmarshalXML reads the attributes and the inline content in order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Heading = start.Name.Local == "h"
	p.StyleName = attr(start, "style-name")
	p.OutlineLevel = atoi(attr(start, "outline-level"))
	p.ListHeader = attr(start, "is-list-header") == "true"
	content, err := decodeInline(d)
	p.Content = content
	return err
}

// inlineKind tells the pieces of paragraph content apart.
type inlineKind int

const (
	inlineText inlineKind = iota
	inlineSpaces
	inlineSpan
	inlineLink
	inlineTab
	inlineBreak
	inlineField
	inlineFrame
	inlineNote
	inlineBookmark
)

// inlineXML is one piece of paragraph content. Spans and links nest.
type inlineXML struct {
	kind     inlineKind
	text     string // text, cached field result or bookmark name
	style    string // span style name
	href     string // link target
	field    string // element name of a field
	children []inlineXML
	frame    *frameXML
	note     *noteXML
}

// skippedInline holds content that is not part of the visible text.
var skippedInline = map[string]bool{
	"annotation":      true,
	"annotation-end":  true,
	"change":          true,
	"change-start":    true,
	"change-end":      true,
	"soft-page-break": true,
	"sequence-decls":  true,
	"ruby-text":       true,
}

// fieldElements are the text fields rendered as field control words. Any
// other field keeps only its cached text.
var fieldElements = map[string]bool{
	"page-number": true,
	"page-count":  true,
	"date":        true,
	"time":        true,
	"title":       true,
}

// decodeInline reads inline content up to the end of the current element.
func decodeInline(d *xml.Decoder) ([]inlineXML, error) {
	var items []inlineXML
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			items = append(items, inlineXML{kind: inlineText, text: string(t)})
		case xml.StartElement:
			item, keep, err := decodeInlineElement(d, t)
			if err != nil {
				return nil, err
			}
			if keep {
				items = append(items, item)
			}
		case xml.EndElement:
			return items, nil
		}
	}
}

func decodeInlineElement(d *xml.Decoder, t xml.StartElement) (inlineXML, bool, error) {
	name := t.Name.Local
	switch {
	case skippedInline[name]:
		return inlineXML{}, false, d.Skip()

	case name == "span", name == "a":
		children, err := decodeInline(d)
		if err != nil {
			return inlineXML{}, false, err
		}
		if name == "a" {
			return inlineXML{kind: inlineLink, href: attr(t, "href"), children: children}, true, nil
		}
		return inlineXML{kind: inlineSpan, style: attr(t, "style-name"), children: children}, true, nil

	case name == "s":
		n := 1
		if c, err := strconv.Atoi(attr(t, "c")); err == nil && c > 0 {
			n = c
		}
		return inlineXML{kind: inlineSpaces, text: strings.Repeat(" ", n)}, true, d.Skip()

	case name == "tab":
		return inlineXML{kind: inlineTab}, true, d.Skip()

	case name == "line-break":
		return inlineXML{kind: inlineBreak}, true, d.Skip()

	case name == "bookmark", name == "bookmark-start":
		return inlineXML{kind: inlineBookmark, text: attr(t, "name")}, true, d.Skip()

	case fieldElements[name]:
		var v struct {
			Text string `xml:",chardata"`
		}
		if err := d.DecodeElement(&v, &t); err != nil {
			return inlineXML{}, false, err
		}
		return inlineXML{kind: inlineField, field: name, text: v.Text}, true, nil

	case name == "frame":
		f := &frameXML{}
		if err := d.DecodeElement(f, &t); err != nil {
			return inlineXML{}, false, err
		}
		return inlineXML{kind: inlineFrame, frame: f}, true, nil

	case name == "note":
		n := &noteXML{}
		if err := d.DecodeElement(n, &t); err != nil {
			return inlineXML{}, false, err
		}
		return inlineXML{kind: inlineNote, note: n}, true, nil
	}

	// Other fields and wrappers such as text:meta keep their text.
	children, err := decodeInline(d)
	if err != nil {
		return inlineXML{}, false, err
	}
	return inlineXML{kind: inlineSpan, children: children}, len(children) > 0, nil
}

// frameXML represents a drawing frame (<draw:frame>).
type frameXML struct {
	Name    string     `xml:"name,attr"`
	Width   string     `xml:"width,attr"`
	Height  string     `xml:"height,attr"`
	Image   *imageXML  `xml:"image"`
	TextBox *blocksXML `xml:"text-box"`
	Title   string     `xml:"title"`
	Desc    string     `xml:"desc"`
}

// imageXML references a picture in the package or carries it inline.
type imageXML struct {
	Href   string `xml:"href,attr"`
	Binary string `xml:"binary-data"`
}

// noteXML represents a footnote or endnote (<text:note>).
type noteXML struct {
	Class    string    `xml:"note-class,attr"`
	Citation string    `xml:"note-citation"`
	Body     blocksXML `xml:"note-body"`
}

// listXML represents a list (<text:list>).
type listXML struct {
	StyleName         string
	ContinueNumbering bool
	Items             []listItemXML
}

// listItemXML is a list item or, when Header is set, an unnumbered list
// header.
type listItemXML struct {
	Header     bool
	StartValue int // 0 when not given
	Blocks     []blockXML
}

// UnmarshalXML keeps list items and headers in order.
func (l *listXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	l.StyleName = attr(start, "style-name")
	l.ContinueNumbering = attr(start, "continue-numbering") == "true" || attr(start, "continue-list") != ""
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "list-item" && t.Name.Local != "list-header" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			item := listItemXML{
				Header:     t.Name.Local == "list-header",
				StartValue: atoi(attr(t, "start-value")),
			}
			if item.Blocks, err = decodeBlocks(d); err != nil {
				return err
			}
			l.Items = append(l.Items, item)
		case xml.EndElement:
			return nil
		}
	}
}

// tableXML represents a table (<table:table>). Column and row groups are
// flattened.
type tableXML struct {
	Name      string
	StyleName string
	Columns   []tableColumnXML
	Rows      []tableRowXML
}

// tableColumnXML represents a table column definition.
type tableColumnXML struct {
	StyleName string
	Repeated  int
}

// tableRowXML represents a table row (<table:table-row>).
type tableRowXML struct {
	StyleName string
	Repeated  int
	Cells     []tableCellXML
}

// tableCellXML represents a cell or, when Covered is set, a position
// covered by a spanning cell.
type tableCellXML struct {
	StyleName string
	ColSpan   int
	RowSpan   int
	Repeated  int
	Covered   bool
	Blocks    []blockXML
}

// UnmarshalXML reads columns and rows, descending into their groups.
func (t *tableXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	t.Name = attr(start, "name")
	t.StyleName = attr(start, "style-name")
	return t.decodeChildren(d)
}

func (t *tableXML) decodeChildren(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch e := tok.(type) {
		case xml.StartElement:
			switch e.Name.Local {
			case "table-column":
				t.Columns = append(t.Columns, tableColumnXML{
					StyleName: attr(e, "style-name"),
					Repeated:  repeat(attr(e, "number-columns-repeated")),
				})
				err = d.Skip()
			case "table-row":
				row := tableRowXML{
					StyleName: attr(e, "style-name"),
					Repeated:  repeat(attr(e, "number-rows-repeated")),
				}
				row.Cells, err = decodeCells(d)
				t.Rows = append(t.Rows, row)
			case "table-columns", "table-header-columns", "table-column-group",
				"table-rows", "table-header-rows", "table-row-group":
				err = t.decodeChildren(d)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// decodeCells reads the cells of a row in order.
func decodeCells(d *xml.Decoder) ([]tableCellXML, error) {
	var cells []tableCellXML
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch e := tok.(type) {
		case xml.StartElement:
			if e.Name.Local != "table-cell" && e.Name.Local != "covered-table-cell" {
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			c := tableCellXML{
				StyleName: attr(e, "style-name"),
				ColSpan:   repeat(attr(e, "number-columns-spanned")),
				RowSpan:   repeat(attr(e, "number-rows-spanned")),
				Repeated:  repeat(attr(e, "number-columns-repeated")),
				Covered:   e.Name.Local == "covered-table-cell",
			}
			if c.Blocks, err = decodeBlocks(d); err != nil {
				return nil, err
			}
			cells = append(cells, c)
		case xml.EndElement:
			return cells, nil
		}
	}
}

// repeat parses a count attribute that defaults to 1.
func repeat(s string) int {
	if n := atoi(s); n > 0 {
		return n
	}
	return 1
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// metaXML represents document metadata from meta.xml.
type metaXML struct {
	XMLName xml.Name    `xml:"document-meta"`
	Meta    metaInfoXML `xml:"meta"`
}

// metaInfoXML represents the office:meta element.
type metaInfoXML struct {
	Title          string   `xml:"title"`
	Description    string   `xml:"description"`
	Subject        string   `xml:"subject"`
	Keywords       []string `xml:"keyword"`
	InitialCreator string   `xml:"initial-creator"`
	Creator        string   `xml:"creator"`
	Language       string   `xml:"language"`
}
