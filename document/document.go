package document

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/internal/rtftext"
	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
)

// DefaultFontSize is the document font size in points when no format sets
// one.
const DefaultFontSize = 12

// DefaultMargins are the page margins of a new document, in points.
var DefaultMargins = model.Margins{Top: 72, Right: 90, Bottom: 72, Left: 90}

// Document is the root of an RTF document. It owns the font and color
// tables, the page header and footer, the body and the sections.
//
// A Document is not safe for concurrent mutation. Rendering does not modify
// it, so a fully built document renders identically every time.
type Document struct {
	BlockList
	// Margins are the page margins in points.
	Margins model.Margins

	paper       model.PaperSize
	orientation model.Orientation
	lcid        locale.Lcid
	header      *HeaderFooter
	footer      *HeaderFooter
	sections    []*Section
}

// New creates an empty document. Its direction is derived from lcid.
func New(paper model.PaperSize, orientation model.Orientation, lcid locale.Lcid) *Document {
	res := newResources()
	return &Document{
		BlockList:   newBlockList(capsBody, lcid.Direction(), res),
		Margins:     DefaultMargins,
		paper:       paper,
		orientation: orientation,
		lcid:        lcid,
	}
}

// NewWithLanguage creates an empty document for a BCP 47 language tag. The
// direction is right-to-left for Arabic, Hebrew, Persian, Urdu and the other
// right-to-left scripts.
func NewWithLanguage(paper model.PaperSize, orientation model.Orientation, tag language.Tag) *Document {
	d := New(paper, orientation, locale.LcidOf(tag))
	d.direction = locale.DirectionOf(tag)
	return d
}

// Paper returns the paper size.
func (d *Document) Paper() model.PaperSize { return d.paper }

// Orientation returns the paper orientation.
func (d *Document) Orientation() model.Orientation { return d.orientation }

// Lcid returns the document language.
func (d *Document) Lcid() locale.Lcid { return d.lcid }

// Header returns the page header, creating it with the document's current
// direction on first use.
func (d *Document) Header() *HeaderFooter {
	if d.header == nil {
		d.header, _ = newHeaderFooter(model.Header, d.direction, d.res)
	}
	return d.header
}

// Footer returns the page footer, creating it with the document's current
// direction on first use.
func (d *Document) Footer() *HeaderFooter {
	if d.footer == nil {
		d.footer, _ = newHeaderFooter(model.Footer, d.direction, d.res)
	}
	return d.footer
}

// AddSection appends a section marker with the document's current direction.
func (d *Document) AddSection(startEnd model.SectionStartEnd) *Section {
	s := newSection(startEnd, d.direction, d.res)
	d.sections = append(d.sections, s)
	return s
}

// Sections returns the sections in order.
func (d *Document) Sections() []*Section {
	return append([]*Section(nil), d.sections...)
}

// CreateFont returns the font table entry for name, adding it if needed.
func (d *Document) CreateFont(name string) FontDescriptor {
	return d.res.font(name)
}

// CreateColor returns the color table entry for c, adding it if needed.
func (d *Document) CreateColor(c model.Color) ColorDescriptor {
	return d.res.color(c)
}

// SetDefaultFont makes name the font of all text that does not select
// another one.
func (d *Document) SetDefaultFont(name string) {
	d.DefaultCharFormat().SetFont(d.res.font(name))
}

// Fonts returns the font table in index order.
func (d *Document) Fonts() []string { return d.res.fonts.Values() }

// Colors returns the color table in index order.
func (d *Document) Colors() []model.Color { return d.res.colors.Values() }

func (d *Document) preamble() string {
	var sb strings.Builder
	sb.WriteString(`{\rtf1\ansi\ansicpg1252\deff0\deflang` + strconv.Itoa(int(d.lcid)) + "\n")

	sb.WriteString(`{\fonttbl` + "\n")
	for i, name := range d.res.fonts.Values() {
		sb.WriteString(`{\f` + strconv.Itoa(d.res.fonts.Base()+i) + `\fnil ` + rtftext.Escape(name) + ";}\n")
	}
	sb.WriteString("}\n")

	sb.WriteString(`{\colortbl` + "\n")
	for _, c := range d.res.colors.Values() {
		sb.WriteString(`\red` + strconv.Itoa(int(c.R)) +
			`\green` + strconv.Itoa(int(c.G)) +
			`\blue` + strconv.Itoa(int(c.B)) + ";\n")
	}
	sb.WriteString("}\n")

	sb.WriteString(`\plain\fs` + strconv.Itoa(model.HalfPoints(DefaultFontSize)) + `\widowctrl\hyphauto\ftnbj` + "\n")

	w, h := d.paper.Twips()
	if d.orientation == model.Landscape {
		w, h = h, w
	}
	sb.WriteString(`\paperw` + strconv.Itoa(w) + `\paperh` + strconv.Itoa(h))
	sb.WriteString(`\margl` + strconv.Itoa(model.Twips(d.Margins.Left)))
	sb.WriteString(`\margr` + strconv.Itoa(model.Twips(d.Margins.Right)))
	sb.WriteString(`\margt` + strconv.Itoa(model.Twips(d.Margins.Top)))
	sb.WriteString(`\margb` + strconv.Itoa(model.Twips(d.Margins.Bottom)))
	if d.orientation == model.Landscape {
		sb.WriteString(`\landscape`)
	}
	sb.WriteString(`\` + d.direction.Token() + "doc\n")
	return sb.String()
}

// Render returns the complete RTF document. A section opened by a
// SectionStart marker is closed before the next SectionStart and at the end
// of the document if no SectionEnd closes it.
func (d *Document) Render() string {
	ctx := renderContext{}.with(d.defaultFormat)

	var sb strings.Builder
	sb.WriteString(d.preamble())
	if d.header != nil {
		sb.WriteString(d.header.render(ctx))
	}
	if d.footer != nil {
		sb.WriteString(d.footer.render(ctx))
	}
	sb.WriteString(d.BlockList.render(renderContext{}))

	open := false
	for _, s := range d.sections {
		switch s.startEnd {
		case model.SectionStart:
			if open {
				sb.WriteString(sectionClose)
			}
			sb.WriteString(s.render(ctx))
			open = true
		case model.SectionEnd:
			if open {
				sb.WriteString(s.render(ctx))
			} else {
				sb.WriteString(s.BlockList.render(ctx))
			}
			open = false
		default:
			panic("rtf: section with unknown marker " + s.startEnd.String())
		}
	}
	if open {
		sb.WriteString(sectionClose)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Render())
	return int64(n), err
}
