package pptx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/imaging"
	"github.com/tsawler/rtfwriter/model"
)

const (
	titleSize    = 24 // points
	subtitleSize = 16
)

// Container receives imported blocks. *document.Document, sections,
// headers, footers and table cells all satisfy it.
type Container interface {
	AddParagraph() *document.Paragraph
	AddParagraphDir(dir model.Direction) *document.Paragraph
	AddTable(rows, cols int, width, fontSize float64) (*document.Table, error)
	AddImage(src model.Image) (*document.Image, error)
}

// Options configures a presentation import.
type Options struct {
	// Width is the width in points that the slide width maps to. Picture
	// and table sizes are scaled down by the same factor.
	Width float64
	// FontSize is the body font size in points passed to new tables.
	FontSize float64
	// PageBreaks starts every slide after the first on a new page.
	PageBreaks bool
	// Notes appends the speaker notes after each slide.
	Notes bool
	// Hidden imports hidden slides too.
	Hidden bool
	// Footers keeps the footer, date and slide number placeholders.
	Footers bool
	// Slides restricts the import to the given 1-based slide numbers, in
	// that order.
	Slides []int
}

// DefaultOptions returns the default import options.
func DefaultOptions() Options {
	return Options{Width: 450, FontSize: 12, PageBreaks: true}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

// ImportFile reads the presentation at filename into dst.
func ImportFile(filename string, dst Container, opts Options) ([]model.Warning, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Import(dst, opts)
}

// Import appends the selected slides to dst. Problems found while reading
// the presentation are returned with the import warnings.
func (r *Reader) Import(dst Container, opts Options) ([]model.Warning, error) {
	opts = opts.withDefaults()
	im := &importer{
		r:        r,
		dst:      dst,
		opts:     opts,
		scale:    1,
		warnings: r.Warnings(),
	}
	if r.slideWidth > opts.Width {
		im.scale = opts.Width / r.slideWidth
	}

	started := false
	for _, s := range im.selectSlides() {
		im.slide = s
		im.pageBreak = opts.PageBreaks && started
		im.wrote = false
		if err := im.slideContent(s); err != nil {
			return im.warnings, fmt.Errorf("importing slide %d: %w", s.Number, err)
		}
		started = started || im.wrote
	}
	return im.warnings, nil
}

// importer writes slides into one container.
type importer struct {
	r        *Reader
	dst      Container
	opts     Options
	scale    float64 // slide geometry to page points
	warnings []model.Warning

	slide     *Slide
	pageBreak bool // the next top-level block starts a new page
	wrote     bool
}

func (im *importer) warn(format string, args ...any) {
	im.warnings = append(im.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// selectSlides returns the slides named in the options, or every slide
// that is visible or allowed by Hidden.
func (im *importer) selectSlides() []*Slide {
	var slides []*Slide
	if len(im.opts.Slides) > 0 {
		for _, n := range im.opts.Slides {
			s, err := im.r.SlideByNumber(n)
			if err != nil {
				im.warn("slide %d not found", n)
				continue
			}
			slides = append(slides, s)
		}
		return slides
	}
	for _, s := range im.r.slides {
		if !s.Hidden || im.opts.Hidden {
			slides = append(slides, s)
		}
	}
	return slides
}

// slideContent writes the title, the remaining shapes in z-order and the
// notes of one slide.
func (im *importer) slideContent(s *Slide) error {
	title := findTitle(s.tree.Shapes)
	if title != nil {
		if err := im.textBody(im.dst, title.TxBody, bodyTitle); err != nil {
			return err
		}
	}
	if err := im.shapes(s.tree.Shapes, title); err != nil {
		return err
	}

	if !im.opts.Notes || len(s.notes) == 0 {
		return nil
	}
	p := im.paragraph(im.dst, nil)
	p.SetText("Notes")
	p.AddCharFormatAll().AddStyle(model.Bold | model.Italic)
	p.Margins.Top = 6
	for _, body := range s.notes {
		if err := im.textBody(im.dst, body, bodyNotes); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) shapes(shapes []shapeXML, title *spXML) error {
	for _, sh := range shapes {
		var err error
		switch {
		case sh.Text != nil:
			if sh.Text == title {
				continue
			}
			err = im.textShape(sh.Text)
		case sh.Picture != nil:
			im.picture(sh.Picture)
		case sh.Frame != nil:
			err = im.frame(sh.Frame)
		case sh.Group != nil:
			err = im.shapes(sh.Group.Shapes, title)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// bodyKind selects the default formatting of a text body.
type bodyKind int

const (
	bodyPlain bodyKind = iota
	bodyList           // body placeholder: bullets unless switched off
	bodyTitle
	bodySubtitle
	bodyNotes
)

func (im *importer) textShape(sp *spXML) error {
	if sp.TxBody == nil {
		return nil
	}
	kind := bodyPlain
	switch placeholderType(sp) {
	case "ftr", "dt", "sldNum", "hdr":
		if !im.opts.Footers {
			return nil
		}
	case "title", "ctrTitle":
		kind = bodyTitle
	case "subTitle":
		kind = bodySubtitle
	case "body", "obj":
		kind = bodyList
	}
	return im.textBody(im.dst, sp.TxBody, kind)
}

// paragraph adds a paragraph to dst. A pending page break is taken by the
// first block written to the top-level container.
func (im *importer) paragraph(dst Container, ppr *paraPropsXML) *document.Paragraph {
	var p *document.Paragraph
	if ppr != nil && isTrue(ppr.RTL) {
		p = dst.AddParagraphDir(model.RightToLeft)
	} else {
		p = dst.AddParagraph()
	}
	if dst == im.dst {
		p.StartNewPage = im.pageBreak
		im.pageBreak = false
		im.wrote = true
	}
	return p
}

// textBody writes the non-blank paragraphs of body into dst.
func (im *importer) textBody(dst Container, body *txBodyXML, kind bodyKind) error {
	if body == nil {
		return nil
	}
	var list listState
	for i := range body.Paragraphs {
		px := &body.Paragraphs[i]
		b := &textBuilder{}
		b.content(px.Content, im.slide.Number)
		if b.blank() {
			continue
		}

		ppr := px.Props
		level := 0
		if ppr != nil {
			level = atoi(ppr.Level)
		}
		pre := list.prefix(ppr, level, kind == bodyList)

		p := im.paragraph(dst, ppr)
		paragraphFormat(p, ppr)
		marked := ppr != nil && ppr.MarL != ""
		switch {
		case pre != "":
			if !marked {
				p.Margins.Left = float64(listIndent * (level + 1))
				p.FirstLineIndent = -listIndent
			}
			pre += "\t"
		case level > 0 && !marked:
			p.Margins.Left = float64(listIndent * level)
		}

		b.prepend(pre)
		p.SetText(string(b.text))
		def := p.DefaultCharFormat()
		switch kind {
		case bodyTitle:
			def.SetFontSize(titleSize).AddStyle(model.Bold)
		case bodySubtitle:
			def.SetFontSize(subtitleSize).AddStyle(model.Italic)
		case bodyNotes:
			def.AddStyle(model.Italic)
		}
		if err := b.apply(p); err != nil {
			return fmt.Errorf("formatting paragraph: %w", err)
		}
	}
	return nil
}

// picture adds an embedded picture. Pictures that cannot be read are
// reported as warnings.
func (im *importer) picture(pic *picXML) {
	props := pic.NonVisual.Props
	label := props.Name
	blip := pic.BlipFill.Blip
	if blip == nil || (blip.Embed == "" && blip.Link == "") {
		return
	}
	if blip.Embed == "" {
		im.warn("slide %d: linked image %q skipped", im.slide.Number, label)
		return
	}

	name, external, ok := im.r.target(im.slide.part, blip.Embed)
	switch {
	case !ok:
		im.warn("slide %d: image %q skipped: missing relationship %s", im.slide.Number, label, blip.Embed)
		return
	case external:
		im.warn("slide %d: linked image %q skipped", im.slide.Number, name)
		return
	}
	data, err := im.r.read(name)
	if err != nil {
		im.warn("slide %d: image %q skipped: %v", im.slide.Number, label, err)
		return
	}
	img, err := imaging.DecodeBytes(data)
	if err != nil {
		im.warn("slide %d: image %q skipped: %v", im.slide.Number, label, err)
		return
	}
	img.AltText = props.Descr

	if im.pageBreak {
		im.paragraph(im.dst, nil)
	}
	added, err := im.dst.AddImage(img)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("slide %d: image %q skipped: not allowed here", im.slide.Number, label)
		return
	}
	if err != nil {
		im.warn("slide %d: image %q skipped: %v", im.slide.Number, label, err)
		return
	}
	im.wrote = true

	switch w := im.extent(pic.Props.Xfrm); {
	case w > 0:
		added.SetWidth(w)
	case added.Width() > im.opts.Width:
		added.SetWidth(im.opts.Width)
	}
}

// extent returns the scaled width of a shape in points, or 0 when the
// shape takes its size from the layout.
func (im *importer) extent(x *xfrmXML) float64 {
	if x == nil || x.Ext.CX <= 0 {
		return 0
	}
	return float64(x.Ext.CX) / emuPerPoint * im.scale
}

// frame imports a table frame. Charts and diagrams are reported.
func (im *importer) frame(gf *graphicFrameXML) error {
	tbl := gf.Graphic.Data.Table
	if tbl == nil {
		im.warn("slide %d: graphic %q skipped: unsupported content", im.slide.Number, gf.NonVisual.Props.Name)
		return nil
	}
	return im.table(gf.NonVisual.Props.Name, tbl)
}

func (im *importer) table(name string, tbl *tableXML) error {
	rows := len(tbl.Rows)
	cols := len(tbl.Grid.Cols)
	for _, tr := range tbl.Rows {
		cols = max(cols, len(tr.Cells))
	}
	if rows == 0 || cols == 0 {
		return nil
	}

	widths := make([]float64, cols)
	var total float64
	for c := range widths {
		if c < len(tbl.Grid.Cols) {
			widths[c] = float64(tbl.Grid.Cols[c].W) / emuPerPoint * im.scale
		}
		total += widths[c]
	}
	if total <= 0 {
		for c := range widths {
			widths[c] = im.opts.Width / float64(cols)
		}
		total = im.opts.Width
	}

	t, err := im.dst.AddTable(rows, cols, total, im.opts.FontSize)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("slide %d: table %q flattened: tables not allowed here", im.slide.Number, name)
		im.flatten(tbl)
		return nil
	}
	if err != nil {
		return fmt.Errorf("adding table: %w", err)
	}
	t.StartNewPage = im.pageBreak
	im.pageBreak = false
	im.wrote = true
	if tbl.Props != nil && isTrue(tbl.Props.RTL) {
		t.SetDirection(model.RightToLeft)
	}

	for c, w := range widths {
		if w <= 0 {
			continue
		}
		if err := t.SetColWidth(c, w); err != nil {
			return fmt.Errorf("sizing table: %w", err)
		}
	}
	for r, tr := range tbl.Rows {
		if tr.H > 0 {
			if err := t.SetRowHeight(r, float64(tr.H)/emuPerPoint*im.scale); err != nil {
				return fmt.Errorf("sizing table: %w", err)
			}
		}
	}
	t.SetOuterBorder(model.BorderSingle, 0.5)
	t.SetInnerBorder(model.BorderSingle, 0.5)

	for r, tr := range tbl.Rows {
		for c := range tr.Cells {
			tc := &tr.Cells[c]
			rs, cs := max(atoi(tc.RowSpan), 1), max(atoi(tc.GridSpan), 1)
			if tc.covered() || c >= cols || (rs == 1 && cs == 1) {
				continue
			}
			rs, cs = min(rs, rows-r), min(cs, cols-c)
			if _, err := t.Merge(r, c, rs, cs); err != nil {
				im.warn("slide %d: table %q: cell (%d,%d) not merged: %v", im.slide.Number, name, r, c, err)
			}
		}
	}

	for r, tr := range tbl.Rows {
		for c := range tr.Cells {
			tc := &tr.Cells[c]
			if tc.covered() || c >= cols {
				continue
			}
			cell := t.Cell(r, c)
			if cell.RowIndex() != r || cell.ColIndex() != c {
				continue // covered by a merged cell
			}
			if err := im.cell(cell, tc); err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
		}
	}
	return nil
}

func (im *importer) cell(dst *document.Cell, tc *tableCellXML) error {
	if pr := tc.Props; pr != nil {
		switch pr.Anchor {
		case "ctr":
			dst.VerticalAlignment = model.VAlignMiddle
		case "b":
			dst.VerticalAlignment = model.VAlignBottom
		}
		if c, err := model.ParseColor(pr.Fill.color()); err == nil {
			if err := dst.SetBackgroundColor(c); err != nil {
				return err
			}
		}
	}
	return im.textBody(dst, tc.TxBody, bodyPlain)
}

// flatten writes each non-empty table row as a tab-separated paragraph.
func (im *importer) flatten(tbl *tableXML) {
	for _, tr := range tbl.Rows {
		values := make([]string, 0, len(tr.Cells))
		empty := true
		for c := range tr.Cells {
			v := ""
			if !tr.Cells[c].covered() {
				v = strings.Join(plainParagraphs(tr.Cells[c].TxBody), " ")
			}
			empty = empty && v == ""
			values = append(values, v)
		}
		if !empty {
			im.paragraph(im.dst, nil).SetText(strings.Join(values, "\t"))
		}
	}
}
