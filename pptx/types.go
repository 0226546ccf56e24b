// Package pptx imports PowerPoint (.pptx) presentations into documents.
//
// Each slide becomes a run of blocks: the title as a bold paragraph, text
// boxes as paragraphs with their bullets and numbering, tables with their
// merged cells, and pictures. Slides are separated by page breaks.
package pptx

import (
	"encoding/xml"
	"strconv"
)

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name       `xml:"presentation"`
	SlideIDList slideIDListXML `xml:"sldIdLst"`
	SlideSize   *slideSizeXML  `xml:"sldSz"`
}

type slideIDListXML struct {
	SlideIDs []slideIDXML `xml:"sldId"`
}

type slideIDXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type slideSizeXML struct {
	CX int64 `xml:"cx,attr"` // width in EMUs
	CY int64 `xml:"cy,attr"`
}

// slideXML represents a slide or notes slide part.
type slideXML struct {
	Show       string      `xml:"show,attr"` // "0" hides the slide
	CommonData commonSlide `xml:"cSld"`
}

type commonSlide struct {
	Name string       `xml:"name,attr"`
	Tree shapeTreeXML `xml:"spTree"`
}

// shapeTreeXML holds the shapes of a slide or group in z-order.
type shapeTreeXML struct {
	Shapes []shapeXML
}

// shapeXML is one member of a shape tree. Exactly one field is set.
type shapeXML struct {
	Text    *spXML
	Picture *picXML
	Frame   *graphicFrameXML
	Group   *shapeTreeXML
}

// alternateContentXML is a markup compatibility block. Only the fallback
// content is read.
type alternateContentXML struct {
	Fallback *shapeTreeXML `xml:"Fallback"`
}

// UnmarshalXML keeps the shapes of the tree in order.
func (t *shapeTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sp":
				sp := &spXML{}
				err = d.DecodeElement(sp, &el)
				t.Shapes = append(t.Shapes, shapeXML{Text: sp})
			case "pic":
				pic := &picXML{}
				err = d.DecodeElement(pic, &el)
				t.Shapes = append(t.Shapes, shapeXML{Picture: pic})
			case "graphicFrame":
				gf := &graphicFrameXML{}
				err = d.DecodeElement(gf, &el)
				t.Shapes = append(t.Shapes, shapeXML{Frame: gf})
			case "grpSp":
				grp := &shapeTreeXML{}
				err = d.DecodeElement(grp, &el)
				t.Shapes = append(t.Shapes, shapeXML{Group: grp})
			case "AlternateContent":
				var alt alternateContentXML
				err = d.DecodeElement(&alt, &el)
				if alt.Fallback != nil {
					t.Shapes = append(t.Shapes, alt.Fallback.Shapes...)
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

type nonVisualPropsXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

// spXML represents a shape with an optional text body.
type spXML struct {
	NonVisual struct {
		Props nonVisualPropsXML `xml:"cNvPr"`
		App   struct {
			Placeholder *placeholderXML `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	Props  shapePropsXML `xml:"spPr"`
	TxBody *txBodyXML    `xml:"txBody"`
}

type placeholderXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, ftr ...
	Idx  string `xml:"idx,attr"`
}

type shapePropsXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

type xfrmXML struct {
	Ext extentXML `xml:"ext"`
}

type extentXML struct {
	CX int64 `xml:"cx,attr"` // EMUs
	CY int64 `xml:"cy,attr"`
}

// txBodyXML represents the text of a shape or table cell.
type txBodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// paragraphXML represents a paragraph (<a:p>). Runs, breaks and fields are
// kept in order.
type paragraphXML struct {
	Props   *paraPropsXML
	Content []inlineXML
}

// inlineXML is a run (Field empty, Break false), a field or a line break.
type inlineXML struct {
	Props *runPropsXML
	Text  string
	Field string // field type, e.g. slidenum
	Break bool
}

type runXML struct {
	Props *runPropsXML `xml:"rPr"`
	Text  string       `xml:"t"`
	Type  string       `xml:"type,attr"`
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
				p.Props = &paraPropsXML{}
				err = d.DecodeElement(p.Props, &t)
			case "r", "fld":
				var r runXML
				err = d.DecodeElement(&r, &t)
				it := inlineXML{Props: r.Props, Text: r.Text}
				if t.Name.Local == "fld" {
					it.Field = r.Type
				}
				p.Content = append(p.Content, it)
			case "br":
				var r runXML
				err = d.DecodeElement(&r, &t)
				p.Content = append(p.Content, inlineXML{Props: r.Props, Break: true})
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

// paraPropsXML represents paragraph properties (<a:pPr>).
type paraPropsXML struct {
	Level     string         `xml:"lvl,attr"`
	Align     string         `xml:"algn,attr"` // l, ctr, r, just, dist
	MarL      string         `xml:"marL,attr"`
	Indent    string         `xml:"indent,attr"`
	RTL       string         `xml:"rtl,attr"`
	LineSpace *spacingXML    `xml:"lnSpc"`
	Before    *spacingXML    `xml:"spcBef"`
	After     *spacingXML    `xml:"spcAft"`
	BuNone    *struct{}      `xml:"buNone"`
	BuChar    *bulletCharXML `xml:"buChar"`
	BuAutoNum *autoNumXML    `xml:"buAutoNum"`
}

type spacingXML struct {
	Points *valXML `xml:"spcPts"` // hundredths of a point
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type bulletCharXML struct {
	Char string `xml:"char,attr"`
}

type autoNumXML struct {
	Type    string `xml:"type,attr"` // arabicPeriod, alphaLcParenR ...
	StartAt string `xml:"startAt,attr"`
}

// runPropsXML represents run properties (<a:rPr>).
type runPropsXML struct {
	Size      string       `xml:"sz,attr"` // hundredths of a point
	Bold      string       `xml:"b,attr"`
	Italic    string       `xml:"i,attr"`
	Underline string       `xml:"u,attr"`
	Strike    string       `xml:"strike,attr"`
	Baseline  string       `xml:"baseline,attr"`
	Cap       string       `xml:"cap,attr"`
	Fill      *fillXML     `xml:"solidFill"`
	Highlight *fillXML     `xml:"highlight"`
	Latin     *typefaceXML `xml:"latin"`
}

type fillXML struct {
	RGB *valXML `xml:"srgbClr"`
}

// color returns the sRGB color of the fill, if it has one.
func (f *fillXML) color() string {
	if f == nil || f.RGB == nil {
		return ""
	}
	return f.RGB.Val
}

type typefaceXML struct {
	Typeface string `xml:"typeface,attr"`
}

// picXML represents a picture.
type picXML struct {
	NonVisual struct {
		Props nonVisualPropsXML `xml:"cNvPr"`
	} `xml:"nvPicPr"`
	BlipFill struct {
		Blip *struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
			Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	Props shapePropsXML `xml:"spPr"`
}

// graphicFrameXML represents a table, chart or diagram frame.
type graphicFrameXML struct {
	NonVisual struct {
		Props nonVisualPropsXML `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm    *xfrmXML `xml:"xfrm"`
	Graphic struct {
		Data struct {
			URI   string    `xml:"uri,attr"`
			Table *tableXML `xml:"tbl"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

// tableXML represents a table (<a:tbl>).
type tableXML struct {
	Props *struct {
		RTL string `xml:"rtl,attr"`
	} `xml:"tblPr"`
	Grid struct {
		Cols []struct {
			W int64 `xml:"w,attr"` // EMUs
		} `xml:"gridCol"`
	} `xml:"tblGrid"`
	Rows []tableRowXML `xml:"tr"`
}

type tableRowXML struct {
	H     int64          `xml:"h,attr"` // EMUs
	Cells []tableCellXML `xml:"tc"`
}

type tableCellXML struct {
	RowSpan  string     `xml:"rowSpan,attr"`
	GridSpan string     `xml:"gridSpan,attr"`
	VMerge   string     `xml:"vMerge,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	TxBody   *txBodyXML `xml:"txBody"`
	Props    *struct {
		Anchor string   `xml:"anchor,attr"` // t, ctr, b
		Fill   *fillXML `xml:"solidFill"`
	} `xml:"tcPr"`
}

// covered reports whether the cell is hidden by a merge.
func (c *tableCellXML) covered() bool {
	return isTrue(c.VMerge) || isTrue(c.HMerge)
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Subject string   `xml:"subject"`
	Creator string   `xml:"creator"`
}

// isTrue reports whether an xsd:boolean attribute is set.
func isTrue(s string) bool {
	return s == "1" || s == "true"
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
