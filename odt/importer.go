package odt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path"
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

// Options configures an ODT import.
type Options struct {
	// TableWidth is the width in points of tables without column widths.
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

// ImportFile reads the body of the ODT file at filename into dst.
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
	im := r.importer(dst, opts)
	err := im.blocks(r.content.Body.Text.Blocks)
	return im.warnings, err
}

// ImportHeader appends the page header to dst. It does nothing when the
// document has no header.
func (r *Reader) ImportHeader(dst Container, opts Options) ([]model.Warning, error) {
	if !r.HasHeader() {
		return nil, nil
	}
	im := r.importer(dst, opts)
	err := im.blocks(r.masterPage().Header.Blocks)
	return im.warnings, err
}

// ImportFooter appends the page footer to dst. It does nothing when the
// document has no footer.
func (r *Reader) ImportFooter(dst Container, opts Options) ([]model.Warning, error) {
	if !r.HasFooter() {
		return nil, nil
	}
	im := r.importer(dst, opts)
	err := im.blocks(r.masterPage().Footer.Blocks)
	return im.warnings, err
}

func (r *Reader) importer(dst Container, opts Options) *importer {
	return &importer{
		r:     r,
		dst:   dst,
		opts:  opts.withDefaults(),
		state: &numberingState{lists: make(map[string]*listCounter)},
	}
}

// numberingState carries list and heading numbers across containers.
type numberingState struct {
	lists   map[string]*listCounter // last list per list style
	outline listCounter
}

// importer writes blocks into one container.
type importer struct {
	r        *Reader
	dst      Container
	opts     Options
	state    *numberingState
	warnings []model.Warning
}

func (im *importer) warn(format string, args ...any) {
	im.warnings = append(im.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// sub returns an importer writing into dst that shares the numbering.
func (im *importer) sub(dst Container) *importer {
	return &importer{r: im.r, dst: dst, opts: im.opts, state: im.state}
}

// merge collects the warnings of a sub importer.
func (im *importer) merge(sub *importer) {
	im.warnings = append(im.warnings, sub.warnings...)
}

func (im *importer) blocks(blocks []blockXML) error {
	for _, b := range blocks {
		var err error
		switch {
		case b.Paragraph != nil:
			err = im.paragraph(b.Paragraph, nil)
		case b.List != nil:
			err = im.list(b.List, "", 0, nil)
		case b.Table != nil:
			err = im.table(b.Table)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// listItem is the list context of the paragraphs of one list item. The
// label goes to the first paragraph only.
type listItem struct {
	label string
	level listLevel
}

// paragraph imports a text:p or text:h. Frames in the paragraph follow it
// as image blocks.
func (im *importer) paragraph(px *paragraphXML, item *listItem) error {
	sr := im.r.styles
	style := sr.Resolve("paragraph", px.StyleName)
	tp := style.Text

	label, sep := "", "\t"
	if item != nil {
		label, item.label = item.label, ""
	}
	if px.Heading {
		level := px.OutlineLevel
		if level < 1 {
			level = max(style.HeadingLevel, 1)
		}
		if tp.FontSize == "" {
			tp.FontSize = strconv.FormatFloat(headingSize(level), 'f', -1, 64) + "pt"
		}
		if tp.FontWeight == "" {
			tp.FontWeight = "bold"
		}
		if item == nil && !px.ListHeader {
			label, sep = im.headingNumber(level), " "
		}
	}

	b := newTextBuilder(sr)
	b.content(px.Content, textPropsXML{}, "")
	b.finish()

	if b.blank() && len(b.frames) > 0 && label == "" {
		return im.frames(b.frames, style.Para)
	}
	if label != "" {
		b.prepend(label + sep)
	}

	var p *document.Paragraph
	if dir, ok := direction(style.Para.WritingMode); ok {
		p = im.dst.AddParagraphDir(dir)
	} else {
		p = im.dst.AddParagraph()
	}
	paragraphFormat(p, style.Para)
	if item != nil && style.Para.MarginLeft == "" {
		p.Margins.Left = item.level.left
		p.FirstLineIndent = 0
		if label != "" {
			p.FirstLineIndent = item.level.first
		}
	}
	if p.AllowsField() {
		b.replaceFieldResults()
	}

	p.SetText(string(b.text))
	if err := applyTextProps(p.DefaultCharFormat(), tp, sr); err != nil {
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
	return im.frames(b.frames, style.Para)
}

// before maps a cut point to "after the character at" positions.
func before(at int) int {
	if at > 0 {
		return at - 1
	}
	return 0
}

// headingNumber advances the outline numbering and returns the label of a
// heading at level (1-based), or "" when headings are not numbered.
func (im *importer) headingNumber(level int) string {
	sr := im.r.styles
	l := level - 1
	ll := sr.outlineLevel(l)
	if !ll.numbered {
		return ""
	}
	c := &im.state.outline
	c.next(l, ll, 0)
	return c.label(l, ll, sr.outlineLevel)
}

// list imports a text:list at depth, the nesting level. Nested lists
// without a style use the style of their parent and continue its
// numbering.
func (im *importer) list(lx *listXML, inherited string, depth int, counter *listCounter) error {
	sr := im.r.styles
	styleName := lx.StyleName
	if styleName == "" {
		styleName = inherited
	}
	if counter == nil {
		counter = im.state.lists[styleName]
		if counter == nil || !lx.ContinueNumbering {
			counter = &listCounter{}
		}
		im.state.lists[styleName] = counter
	}

	ll := sr.listLevel(styleName, depth)
	for _, it := range lx.Items {
		item := &listItem{level: ll}
		if !it.Header && hasParagraph(it.Blocks) {
			counter.next(depth, ll, it.StartValue)
			item.label = counter.label(depth, ll, func(l int) listLevel {
				return sr.listLevel(styleName, l)
			})
		}
		for _, b := range it.Blocks {
			var err error
			switch {
			case b.Paragraph != nil:
				err = im.paragraph(b.Paragraph, item)
			case b.List != nil:
				err = im.list(b.List, styleName, depth+1, counter)
			case b.Table != nil:
				err = im.table(b.Table)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func hasParagraph(blocks []blockXML) bool {
	for _, b := range blocks {
		if b.Paragraph != nil {
			return true
		}
	}
	return false
}

// footnote attaches a footnote or endnote to p. Endnotes become
// footnotes.
func (im *importer) footnote(p *document.Paragraph, n note) error {
	if !p.AllowsFootnote() {
		im.warn("footnote %q skipped: not allowed here", strings.TrimSpace(n.note.Citation))
		return nil
	}
	fn, err := p.AddFootnote(before(n.at))
	if err != nil {
		return fmt.Errorf("adding footnote: %w", err)
	}
	sub := im.sub(fn)
	err = sub.blocks(n.note.Body.Blocks)
	im.merge(sub)
	return err
}

// frames embeds the pictures of a paragraph and imports the content of
// its text boxes.
func (im *importer) frames(frames []*frameXML, ppr paragraphPropsXML) error {
	for _, f := range frames {
		if f.Image != nil {
			im.image(f, ppr)
		}
		if f.TextBox != nil {
			if err := im.blocks(f.TextBox.Blocks); err != nil {
				return err
			}
		}
	}
	return nil
}

// image embeds the picture of a frame. Failures are warnings.
func (im *importer) image(f *frameXML, ppr paragraphPropsXML) {
	href := f.Image.Href
	label := f.Name
	if label == "" {
		label = href
	}

	var data []byte
	var err error
	switch {
	case f.Image.Binary != "":
		data, err = base64.StdEncoding.DecodeString(strings.Join(strings.Fields(f.Image.Binary), ""))
	case href == "":
		im.warn("image %q skipped: no picture", label)
		return
	case strings.Contains(href, "://"):
		im.warn("linked image %q skipped", href)
		return
	default:
		name := path.Clean(strings.TrimPrefix(href, "./"))
		data, err = im.r.read(strings.TrimPrefix(name, "/"))
	}
	if err != nil {
		im.warn("image %q skipped: %v", label, err)
		return
	}
	img, err := imaging.DecodeBytes(data)
	if err != nil {
		im.warn("image %q skipped: %v", label, err)
		return
	}
	img.AltText = strings.TrimSpace(f.Desc)
	if img.AltText == "" {
		img.AltText = strings.TrimSpace(f.Title)
	}

	added, err := im.dst.AddImage(img)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("image %q skipped: not allowed here", label)
		return
	}
	if err != nil {
		im.warn("image %q skipped: %v", label, err)
		return
	}
	added.Alignment = alignment(ppr.TextAlign)
	if dir, ok := direction(ppr.WritingMode); ok {
		added.SetDirection(dir)
	}
	if w := parseLength(f.Width); w > 0 {
		added.SetWidth(w)
	} else if h := parseLength(f.Height); h > 0 {
		added.SetHeight(h)
	}
}
