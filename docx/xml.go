package docx

import (
	"encoding/xml"
	"strconv"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

// bodyXML holds the blocks of the document body in document order, plus
// the final section properties.
type bodyXML struct {
	Blocks []blockXML
	SectPr *sectPrXML
}

// blockXML is a paragraph or a table.
type blockXML struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// partXML is the content of a header, footer or footnote part.
type partXML struct {
	Blocks []blockXML
}

// decodeBlocks reads paragraphs and tables up to the end of the current
// element. Content controls (w:sdt) are unwrapped. other handles any other
// child element and reports whether it consumed it.
func decodeBlocks(d *xml.Decoder, other func(xml.StartElement) (bool, error)) ([]blockXML, error) {
	var blocks []blockXML
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p := &paragraphXML{}
				if err := d.DecodeElement(p, &t); err != nil {
					return nil, err
				}
				blocks = append(blocks, blockXML{Paragraph: p})
			case "tbl":
				tbl := &tableXML{}
				if err := d.DecodeElement(tbl, &t); err != nil {
					return nil, err
				}
				blocks = append(blocks, blockXML{Table: tbl})
			case "sdt", "sdtContent", "customXml":
				inner, err := decodeBlocks(d, nil)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, inner...)
			default:
				handled := false
				if other != nil {
					if handled, err = other(t); err != nil {
						return nil, err
					}
				}
				if !handled {
					if err := d.Skip(); err != nil {
						return nil, err
					}
				}
			}
		case xml.EndElement:
			return blocks, nil
		}
	}
}

// UnmarshalXML keeps paragraphs and tables in document order.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	blocks, err := decodeBlocks(d, func(t xml.StartElement) (bool, error) {
		if t.Name.Local != "sectPr" {
			return false, nil
		}
		b.SectPr = &sectPrXML{}
		return true, d.DecodeElement(b.SectPr, &t)
	})
	b.Blocks = blocks
	return err
}

// UnmarshalXML reads the blocks of a hdr, ftr or footnote element.
func (p *partXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	blocks, err := decodeBlocks(d, nil)
	p.Blocks = blocks
	return err
}

// sectPrXML represents section properties (<w:sectPr>).
type sectPrXML struct {
	HeaderRefs []partRefXML `xml:"headerReference"`
	FooterRefs []partRefXML `xml:"footerReference"`
}

// partRefXML references a header or footer part by relationship ID.
type partRefXML struct {
	Type string `xml:"type,attr"` // default, first, even
	ID   string `xml:"id,attr"`
}

// paragraphXML represents a paragraph element (<w:p>). Runs, hyperlinks,
// simple fields and bookmarks are kept in document order.
type paragraphXML struct {
	Properties paragraphPropsXML
	Content    []inlineXML
}

// inlineXML is one piece of paragraph content.
type inlineXML struct {
	Run       *runXML
	Hyperlink *hyperlinkXML
	Field     *simpleFieldXML
	Bookmark  string
}

// UnmarshalXML keeps the inline content of the paragraph in order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				err = d.DecodeElement(&p.Properties, &t)
			case "r":
				r := &runXML{}
				err = d.DecodeElement(r, &t)
				p.Content = append(p.Content, inlineXML{Run: r})
			case "hyperlink":
				h := &hyperlinkXML{}
				err = d.DecodeElement(h, &t)
				p.Content = append(p.Content, inlineXML{Hyperlink: h})
			case "fldSimple":
				f := &simpleFieldXML{}
				err = d.DecodeElement(f, &t)
				p.Content = append(p.Content, inlineXML{Field: f})
			case "bookmarkStart":
				var b bookmarkXML
				err = d.DecodeElement(&b, &t)
				p.Content = append(p.Content, inlineXML{Bookmark: b.Name})
			case "ins", "smartTag", "sdt", "sdtContent":
				// Wrappers whose runs belong to the paragraph.
				var inner paragraphXML
				err = inner.UnmarshalXML(d, t)
				p.Content = append(p.Content, inner.Content...)
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

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style           styleRefXML       `xml:"pStyle"`
	NumPr           numberingPropsXML `xml:"numPr"`
	Justification   justificationXML  `xml:"jc"`
	Spacing         spacingXML        `xml:"spacing"`
	Indent          indentXML         `xml:"ind"`
	OutlineLvl      outlineLvlXML     `xml:"outlineLvl"`
	Bidi            boolXML           `xml:"bidi"`
	PageBreakBefore boolXML           `xml:"pageBreakBefore"`
	RPr             runPropsXML       `xml:"rPr"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// numberingPropsXML represents numbering properties for lists.
type numberingPropsXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

// valXML is an element carrying only a w:val attribute.
type valXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, start, center, right, end, both
}

// spacingXML represents paragraph spacing.
type spacingXML struct {
	Before   string `xml:"before,attr"`   // Space before in twips
	After    string `xml:"after,attr"`    // Space after in twips
	Line     string `xml:"line,attr"`     // Line spacing
	LineRule string `xml:"lineRule,attr"` // auto, exact, atLeast
}

// indentXML represents paragraph indentation.
type indentXML struct {
	Left      string `xml:"left,attr"`
	Start     string `xml:"start,attr"`
	Right     string `xml:"right,attr"`
	End       string `xml:"end,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// outlineLvlXML represents outline level.
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>) with its content in order.
type runXML struct {
	Properties runPropsXML
	Parts      []runPart
}

type partKind int

const (
	partText partKind = iota
	partPageBreak
	partDrawing
	partFootnote
	partFieldBegin
	partFieldInstr
	partFieldSeparate
	partFieldEnd
)

// runPart is one piece of run content.
type runPart struct {
	kind    partKind
	text    string
	drawing *drawingXML
}

// UnmarshalXML keeps text, tabs, breaks, drawings and field characters in
// order.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				err = d.DecodeElement(&r.Properties, &t)
			case "t":
				var txt textXML
				err = d.DecodeElement(&txt, &t)
				r.add(partText, txt.Value)
			case "instrText":
				var txt textXML
				err = d.DecodeElement(&txt, &t)
				r.add(partFieldInstr, txt.Value)
			case "tab":
				r.add(partText, "\t")
				err = d.Skip()
			case "br", "cr":
				var br breakXML
				err = d.DecodeElement(&br, &t)
				if br.Type == "page" {
					r.add(partPageBreak, "")
				} else {
					r.add(partText, "\n")
				}
			case "noBreakHyphen":
				r.add(partText, "-")
				err = d.Skip()
			case "sym":
				var sym symXML
				err = d.DecodeElement(&sym, &t)
				if s := sym.text(); s != "" {
					r.add(partText, s)
				}
			case "fldChar":
				var fc fldCharXML
				err = d.DecodeElement(&fc, &t)
				switch fc.Type {
				case "begin":
					r.add(partFieldBegin, "")
				case "separate":
					r.add(partFieldSeparate, "")
				case "end":
					r.add(partFieldEnd, "")
				}
			case "footnoteReference":
				var ref noteRefXML
				err = d.DecodeElement(&ref, &t)
				r.add(partFootnote, ref.ID)
			case "drawing":
				dr := &drawingXML{}
				err = d.DecodeElement(dr, &t)
				r.Parts = append(r.Parts, runPart{kind: partDrawing, drawing: dr})
			case "AlternateContent":
				var ac alternateContentXML
				err = d.DecodeElement(&ac, &t)
				for _, txt := range ac.Fallback.Text {
					r.add(partText, txt.Value)
				}
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

func (r *runXML) add(kind partKind, text string) {
	r.Parts = append(r.Parts, runPart{kind: kind, text: text})
}

// symXML represents a symbol character (<w:sym>).
type symXML struct {
	Font string `xml:"font,attr"` // Font name (e.g., "Segoe UI Emoji")
	Char string `xml:"char,attr"` // Hex character code
}

// text returns the symbol as text, or "" for characters in the Private Use
// Area that only render in symbol fonts.
func (s symXML) text() string {
	code, err := strconv.ParseUint(s.Char, 16, 32)
	if err != nil || code < 0x20 || (code >= 0xE000 && code <= 0xF8FF) {
		return ""
	}
	return string(rune(code))
}

// fldCharXML marks the structure of a complex field.
type fldCharXML struct {
	Type string `xml:"fldCharType,attr"` // begin, separate, end
}

// noteRefXML references a footnote by ID.
type noteRefXML struct {
	ID string `xml:"id,attr"`
}

// alternateContentXML represents mc:AlternateContent for emoji fallbacks.
type alternateContentXML struct {
	Fallback fallbackXML `xml:"Fallback"`
}

// fallbackXML represents mc:Fallback containing text.
type fallbackXML struct {
	Text []textXML `xml:"r>t"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     styleRefXML  `xml:"rStyle"`
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	Strike    boolXML      `xml:"strike"`
	DStrike   boolXML      `xml:"dstrike"`
	SmallCaps boolXML      `xml:"smallCaps"`
	VertAlign valXML       `xml:"vertAlign"` // superscript, subscript, baseline
	FontSize  sizeXML      `xml:"sz"`
	Font      fontXML      `xml:"rFonts"`
	Color     colorXML     `xml:"color"`
	Highlight highlightXML `xml:"highlight"`
	Shading   shadingXML   `xml:"shd"`
	RTL       boolXML      `xml:"rtl"`
}

// boolXML represents an OOXML on/off property. Presence without a value
// means on.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

func (b boolXML) present() bool { return b.XMLName.Local != "" }

func (b boolXML) on() bool {
	return b.present() && b.Val != "false" && b.Val != "0" && b.Val != "off"
}

// underlineXML represents underline style.
type underlineXML struct {
	Val string `xml:"val,attr"` // single, double, none, etc.
}

// sizeXML represents font size (in half-points).
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

func (f fontXML) name() string {
	if f.ASCII != "" {
		return f.ASCII
	}
	return f.HAnsi
}

// colorXML represents text color.
type colorXML struct {
	Val string `xml:"val,attr"` // Hex color or "auto"
}

// highlightXML represents highlight color.
type highlightXML struct {
	Val string `xml:"val,attr"` // Color name like "yellow"
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"` // preserve
	Value string `xml:",chardata"`
}

// breakXML represents a break (line or page).
type breakXML struct {
	Type string `xml:"type,attr"` // page, column, textWrapping
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline *inlineDrawingXML `xml:"inline"`
	Anchor *inlineDrawingXML `xml:"anchor"`
}

// picture returns the inline or anchored picture, if any.
func (d *drawingXML) picture() *inlineDrawingXML {
	if d.Inline != nil {
		return d.Inline
	}
	return d.Anchor
}

// inlineDrawingXML represents an inline or anchored picture.
type inlineDrawingXML struct {
	Extent extentXML `xml:"extent"`
	DocPr  docPrXML  `xml:"docPr"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// extentXML represents image dimensions.
type extentXML struct {
	CX string `xml:"cx,attr"` // Width in EMUs
	CY string `xml:"cy,attr"` // Height in EMUs
}

// docPrXML represents document properties of an image.
type docPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"` // Alt text
}

// blipXML represents an image reference.
type blipXML struct {
	Embed string `xml:"embed,attr"` // Relationship ID
}

// hyperlinkXML represents a hyperlink. Anchor targets a bookmark in the
// same document; ID references an external relationship.
type hyperlinkXML struct {
	ID      string   `xml:"id,attr"`
	Anchor  string   `xml:"anchor,attr"`
	Tooltip string   `xml:"tooltip,attr"`
	Runs    []runXML `xml:"r"`
}

// simpleFieldXML represents a field stored as <w:fldSimple>.
type simpleFieldXML struct {
	Instr string   `xml:"instr,attr"`
	Runs  []runXML `xml:"r"`
}

// bookmarkXML represents a bookmark.
type bookmarkXML struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Grid       tableGridXML  `xml:"tblGrid"`
	Rows       []tableRowXML `xml:"tr"`
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style         styleRefXML      `xml:"tblStyle"`
	Width         tableSizeXML     `xml:"tblW"`
	Justification justificationXML `xml:"jc"`
	Borders       tableBordersXML  `xml:"tblBorders"`
	Bidi          boolXML          `xml:"bidiVisual"`
}

// tableSizeXML represents table/cell size.
type tableSizeXML struct {
	W    string `xml:"w,attr"`    // Width value
	Type string `xml:"type,attr"` // dxa (twips), pct, auto
}

// tableBordersXML represents table borders.
type tableBordersXML struct {
	Top     borderXML `xml:"top"`
	Bottom  borderXML `xml:"bottom"`
	Left    borderXML `xml:"left"`
	Right   borderXML `xml:"right"`
	InsideH borderXML `xml:"insideH"`
	InsideV borderXML `xml:"insideV"`
}

// borderXML represents a single border.
type borderXML struct {
	Val   string `xml:"val,attr"`   // Border style: single, double, etc.
	Sz    string `xml:"sz,attr"`    // Size in eighths of a point
	Space string `xml:"space,attr"` // Space from text
	Color string `xml:"color,attr"` // Color
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Height    rowHeightXML `xml:"trHeight"`
	Header    boolXML      `xml:"tblHeader"` // Is this a header row?
	CantSplit boolXML      `xml:"cantSplit"`
}

// rowHeightXML represents row height.
type rowHeightXML struct {
	Val  string `xml:"val,attr"`
	Rule string `xml:"hRule,attr"` // exact, atLeast, auto
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML
	Blocks     []blockXML
}

// UnmarshalXML reads the cell properties and its blocks in order.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	blocks, err := decodeBlocks(d, func(t xml.StartElement) (bool, error) {
		if t.Name.Local != "tcPr" {
			return false, nil
		}
		return true, d.DecodeElement(&c.Properties, &t)
	})
	c.Blocks = blocks
	return err
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	Width    tableSizeXML `xml:"tcW"`
	GridSpan valXML       `xml:"gridSpan"`
	VMerge   vMergeXML    `xml:"vMerge"`
	Shading  shadingXML   `xml:"shd"`
	VAlign   valXML       `xml:"vAlign"`
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"` // "restart" or empty (continue)
}

// shadingXML represents cell or run shading.
type shadingXML struct {
	Val   string `xml:"val,attr"`   // Pattern
	Color string `xml:"color,attr"` // Pattern color
	Fill  string `xml:"fill,attr"`  // Background color
}

// footnotesXML represents word/footnotes.xml.
type footnotesXML struct {
	Footnotes []footnoteXML `xml:"footnote"`
}

// footnoteXML is one footnote. Separator notes carry a type attribute.
type footnoteXML struct {
	ID     string  `xml:"id,attr"`
	Type   string  `xml:"type,attr"`
	Blocks partXML `xml:"-"`
}

// UnmarshalXML reads the footnote's attributes and blocks.
func (f *footnoteXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "id":
			f.ID = a.Value
		case "type":
			f.Type = a.Value
		}
	}
	return f.Blocks.UnmarshalXML(d, start)
}
