package docx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/imaging"
	"github.com/tsawler/rtfwriter/model"
)

// Container receives imported blocks. *document.Document, sections,
// headers, footers, footnotes and table cells all satisfy it.
type Container interface {
	AddParagraph() *document.Paragraph
	AddParagraphDir(dir model.Direction) *document.Paragraph
	AddTable(rows, cols int, width, fontSize float64) (*document.Table, error)
	AddImage(src model.Image) (*document.Image, error)
}

// Options configures a DOCX import.
type Options struct {
	// TableWidth is the width in points of tables without a column grid.
	TableWidth float64
	// FontSize is the body font size in points passed to new tables.
	FontSize float64
}

// DefaultOptions returns the default import options.
func DefaultOptions() Options {
	return Options{TableWidth: 450, FontSize: 12}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TableWidth <= 0 {
		o.TableWidth = d.TableWidth
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

// ImportFile reads the body of the DOCX file at filename into dst.
func ImportFile(filename string, dst Container, opts Options) ([]model.Warning, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ImportBody(dst, opts)
}

// ImportBody appends the document body to dst as paragraphs, tables and
// images. Content that cannot be represented is reported as warnings.
func (r *Reader) ImportBody(dst Container, opts Options) ([]model.Warning, error) {
	im := r.importer(mainPart, dst, opts)
	err := im.blocks(r.document.Body.Blocks)
	return im.warnings, err
}

// ImportHeader appends the default page header to dst. It does nothing
// when the document has no header.
func (r *Reader) ImportHeader(dst Container, opts Options) ([]model.Warning, error) {
	return r.importPart(r.headerFooterPart(false), dst, opts)
}

// ImportFooter appends the default page footer to dst. It does nothing
// when the document has no footer.
func (r *Reader) ImportFooter(dst Container, opts Options) ([]model.Warning, error) {
	return r.importPart(r.headerFooterPart(true), dst, opts)
}

func (r *Reader) importPart(name string, dst Container, opts Options) ([]model.Warning, error) {
	if name == "" {
		return nil, nil
	}
	var part partXML
	if err := r.decode(name, &part); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	im := r.importer(name, dst, opts)
	err := im.blocks(part.Blocks)
	return im.warnings, err
}

func (r *Reader) importer(part string, dst Container, opts Options) *importer {
	return &importer{r: r, part: part, dst: dst, opts: opts.withDefaults()}
}

// importer writes the blocks of one part into one container.
type importer struct {
	r        *Reader
	part     string // relationships of images resolve against this part
	dst      Container
	opts     Options
	warnings []model.Warning
}

func (im *importer) warn(format string, args ...any) {
	im.warnings = append(im.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// sub returns an importer for the same part writing into dst.
func (im *importer) sub(dst Container) *importer {
	return &importer{r: im.r, part: im.part, dst: dst, opts: im.opts}
}

func (im *importer) blocks(blocks []blockXML) error {
	for _, b := range blocks {
		var err error
		switch {
		case b.Paragraph != nil:
			err = im.paragraph(b.Paragraph)
		case b.Table != nil:
			err = im.table(b.Table)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// paragraph imports one w:p. Pictures in the paragraph follow it as image
// blocks.
func (im *importer) paragraph(px *paragraphXML) error {
	style := im.r.styles.Resolve(px.Properties.Style.Val)
	ppr := style.PPr

	b := &textBuilder{styles: im.r.styles}
	direct := px.Properties
	numPr := mergeParaProps(ppr, direct).NumPr
	level := atoi(numPr.ILvl.Val)
	if pre, lvl, ok := im.r.numbering.next(numPr.NumID.Val, level); ok {
		ppr = mergeParaProps(ppr, lvl.PPr)
		if ppr.Indent.Left == "" && ppr.Indent.Start == "" {
			ppr.Indent.Left = strconv.Itoa(listIndent * 20 * (level + 1))
		}
		b.write(pre, runPropsXML{}, "", "")
	}
	ppr = mergeParaProps(ppr, direct)
	b.content(px.Content)

	if b.blank() && len(b.images) > 0 {
		return im.images(b.images, ppr)
	}

	var p *document.Paragraph
	switch {
	case ppr.Bidi.present() && ppr.Bidi.on():
		p = im.dst.AddParagraphDir(model.RightToLeft)
	case ppr.Bidi.present():
		p = im.dst.AddParagraphDir(model.LeftToRight)
	default:
		p = im.dst.AddParagraph()
	}
	paragraphFormat(p, ppr)
	if b.pageBreak {
		p.StartNewPage = true
	}
	if p.AllowsField() {
		b.replaceFieldResults()
	}

	p.SetText(string(b.text))
	if err := applyRunProps(p.DefaultCharFormat(), style.RPr); err != nil {
		return fmt.Errorf("formatting paragraph: %w", err)
	}
	if err := b.apply(p); err != nil {
		return fmt.Errorf("formatting paragraph: %w", err)
	}
	if p.AllowsField() {
		for _, f := range b.fields {
			if _, err := p.AddControlWord(before(f.at), f.typ); err != nil {
				return fmt.Errorf("adding field: %w", err)
			}
		}
	}
	for _, n := range b.notes {
		if err := im.footnote(p, n); err != nil {
			return err
		}
	}
	return im.images(b.images, ppr)
}

// before maps a cut point to "after the character at" positions.
func before(at int) int {
	if at > 0 {
		return at - 1
	}
	return 0
}

// paragraphFormat applies alignment, indents and spacing.
func paragraphFormat(p *document.Paragraph, ppr paragraphPropsXML) {
	p.Alignment = alignment(ppr.Justification.Val)

	left := ppr.Indent.Left
	if left == "" {
		left = ppr.Indent.Start
	}
	right := ppr.Indent.Right
	if right == "" {
		right = ppr.Indent.End
	}
	p.Margins.Left = parseTwips(left)
	p.Margins.Right = parseTwips(right)
	p.Margins.Top = parseTwips(ppr.Spacing.Before)
	p.Margins.Bottom = parseTwips(ppr.Spacing.After)

	switch {
	case ppr.Indent.Hanging != "":
		p.FirstLineIndent = -parseTwips(ppr.Indent.Hanging)
	case ppr.Indent.FirstLine != "":
		p.FirstLineIndent = parseTwips(ppr.Indent.FirstLine)
	}

	// "auto" spacing is in 240ths of a line and has no exact equivalent.
	if ppr.Spacing.Line != "" && (ppr.Spacing.LineRule == "exact" || ppr.Spacing.LineRule == "atLeast") {
		p.LineSpacing = parseTwips(ppr.Spacing.Line)
	}
	if ppr.PageBreakBefore.on() {
		p.StartNewPage = true
	}
}

func alignment(jc string) model.Align {
	switch jc {
	case "center":
		return model.AlignCenter
	case "right", "end":
		return model.AlignRight
	case "both", "distribute":
		return model.AlignJustify
	default:
		return model.AlignLeft
	}
}

// footnote attaches the footnote referenced at n to p.
func (im *importer) footnote(p *document.Paragraph, n note) error {
	fx, ok := im.r.footnotes[n.id]
	if !ok {
		im.warn("footnote %s skipped: not found", n.id)
		return nil
	}
	if !p.AllowsFootnote() {
		im.warn("footnote %s skipped: not allowed here", n.id)
		return nil
	}
	fn, err := p.AddFootnote(before(n.at))
	if err != nil {
		return fmt.Errorf("adding footnote: %w", err)
	}
	sub := &importer{r: im.r, part: "word/footnotes.xml", dst: fn, opts: im.opts}
	err = sub.blocks(fx.Blocks.Blocks)
	im.warnings = append(im.warnings, sub.warnings...)
	return err
}

// images embeds the pictures of a paragraph.
func (im *importer) images(drawings []*drawingXML, ppr paragraphPropsXML) error {
	for _, d := range drawings {
		pic := d.picture()
		if pic == nil || pic.Blip == nil || pic.Blip.Embed == "" {
			continue
		}
		label := pic.DocPr.Name
		if label == "" {
			label = pic.Blip.Embed
		}

		name, external, ok := im.r.target(im.part, pic.Blip.Embed)
		switch {
		case !ok:
			im.warn("image %q skipped: missing relationship %s", label, pic.Blip.Embed)
			continue
		case external:
			im.warn("linked image %q skipped", name)
			continue
		}
		data, err := im.r.read(name)
		if err != nil {
			im.warn("image %q skipped: %v", label, err)
			continue
		}
		img, err := imaging.DecodeBytes(data)
		if err != nil {
			im.warn("image %q skipped: %v", label, err)
			continue
		}
		img.AltText = pic.DocPr.Descr

		added, err := im.dst.AddImage(img)
		if errors.Is(err, document.ErrNotAllowed) {
			im.warn("image %q skipped: not allowed here", label)
			continue
		}
		if err != nil {
			im.warn("image %q skipped: %v", label, err)
			continue
		}
		added.Alignment = alignment(ppr.Justification.Val)
		if ppr.Bidi.on() {
			added.SetDirection(model.RightToLeft)
		}
		if w := emuToPoints(pic.Extent.CX); w > 0 {
			added.SetWidth(w)
		} else if h := emuToPoints(pic.Extent.CY); h > 0 {
			added.SetHeight(h)
		}
	}
	return nil
}

// emuToPoints converts English Metric Units (12700 per point) to points.
func emuToPoints(s string) float64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return float64(v) / 12700
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
