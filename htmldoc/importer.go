package htmldoc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/imaging"
	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
)

// ImportFile reads the HTML file at filename into dst. Relative image paths
// resolve against the file's directory unless opts.BaseDir is set.
func ImportFile(filename string, dst Container, opts Options) ([]model.Warning, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(filename)
	}
	return Import(f, dst, opts)
}

// Import parses HTML from r and appends its content to dst as paragraphs,
// tables and images. Content that cannot be represented is reported as
// warnings; an error is returned only when parsing fails or dst rejects a
// block in a way that cannot be worked around.
func Import(r io.Reader, dst Container, opts Options) ([]model.Warning, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var p pages
	if opts.PageRegions {
		p, _ = dst.(pages)
	}
	im := &importer{
		dst:    dst,
		opts:   opts.withDefaults(),
		layout: newPageLayout(doc, opts.Navigation, p),
	}
	if err := im.blocks(im.layout.body, blockState{}); err != nil {
		return im.warnings, err
	}
	return im.warnings, nil
}

// blockState is inherited by nested block elements.
type blockState struct {
	dir       model.Direction
	hasDir    bool
	indent    float64
	italic    bool
	listLevel int
}

// withDir applies the dir attribute of n, if any. dir="auto" takes the
// dominant direction of the element's text.
func (s blockState) withDir(n *html.Node) blockState {
	switch strings.ToLower(attrValue(n, "dir")) {
	case "rtl":
		s.dir, s.hasDir = model.RightToLeft, true
	case "ltr":
		s.dir, s.hasDir = model.LeftToRight, true
	case "auto":
		b := &runBuilder{}
		b.collect(n, false)
		if d, ok := locale.TextDirection(string(b.text)); ok {
			s.dir, s.hasDir = d, true
		}
	}
	return s
}

type importer struct {
	dst      Container
	opts     Options
	layout   *pageLayout
	warnings []model.Warning
}

func (im *importer) warn(format string, args ...any) {
	im.warnings = append(im.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

func (im *importer) paragraph(st blockState) *document.Paragraph {
	var p *document.Paragraph
	if st.hasDir {
		p = im.dst.AddParagraphDir(st.dir)
	} else {
		p = im.dst.AddParagraph()
	}
	p.Margins.Left = st.indent
	if st.italic {
		p.DefaultCharFormat().AddStyle(model.Italic)
	}
	return p
}

// blocks walks the children of n as a sequence of blocks. Loose inline
// content between block elements is gathered into paragraphs.
func (im *importer) blocks(n *html.Node, st blockState) error {
	var loose *runBuilder
	flush := func() error {
		if loose == nil {
			return nil
		}
		b := loose
		loose = nil
		return im.emit(b, st, nil)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			if err := flush(); err != nil {
				return err
			}
			if err := im.block(c, st); err != nil {
				return err
			}
			continue
		}
		if c.Type == html.ElementNode && im.skip(c) {
			continue
		}
		if loose == nil {
			loose = &runBuilder{}
		}
		loose.node(c, false)
	}
	return flush()
}

func (im *importer) skip(n *html.Node) bool {
	return shouldSkipElement(n.Data) || im.layout.classify(n) == regionSkip
}

// block imports one block-level element, or routes it to the page header
// or footer.
func (im *importer) block(n *html.Node, st blockState) error {
	if shouldSkipElement(n.Data) {
		return nil
	}
	switch im.layout.classify(n) {
	case regionSkip:
		return nil
	case regionHeader:
		return im.pageRegion(im.layout.pages.Header(), n, st)
	case regionFooter:
		return im.pageRegion(im.layout.pages.Footer(), n, st)
	}
	return im.element(n, st)
}

// pageRegion imports n into a page header or footer. Tables there are
// flattened like in any container that rejects them.
func (im *importer) pageRegion(dst Container, n *html.Node, st blockState) error {
	sub := &importer{dst: dst, opts: im.opts, layout: im.layout}
	err := sub.element(n, st)
	im.warnings = append(im.warnings, sub.warnings...)
	return err
}

// element imports the content of block-level element n.
func (im *importer) element(n *html.Node, st blockState) error {
	st = st.withDir(n)

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b := &runBuilder{}
		b.collect(n, false)
		size := headingSizes[n.Data[1]-'1']
		return im.emit(b, st, func(p *document.Paragraph) {
			p.DefaultCharFormat().AddStyle(model.Bold).SetFontSize(size)
			im.bookmark(p, n)
		})

	case "p":
		b := &runBuilder{}
		b.collect(n, false)
		return im.emit(b, st, func(p *document.Paragraph) { im.bookmark(p, n) })

	case "div", "article", "section", "main", "header", "footer", "nav", "aside", "figure":
		if !isBlockContainer(n) {
			b := &runBuilder{}
			b.collect(n, false)
			return im.emit(b, st, func(p *document.Paragraph) { im.bookmark(p, n) })
		}
		return im.blocks(n, st)

	case "ul", "ol":
		return im.list(n, st)

	case "li":
		// A list item outside a list.
		return im.listItem(n, st, bullet)

	case "blockquote":
		st.indent += blockquoteIndent
		st.italic = true
		if isBlockContainer(n) {
			return im.blocks(n, st)
		}
		b := &runBuilder{}
		b.collect(n, false)
		return im.emit(b, st, nil)

	case "pre":
		b := &runBuilder{preserve: true}
		b.collect(n, false)
		return im.emit(b, st, func(p *document.Paragraph) {
			if err := p.DefaultCharFormat().SetFontName(im.opts.CodeFont); err != nil {
				im.warn("code font %q not applied: %v", im.opts.CodeFont, err)
			}
		})

	case "table":
		return im.table(n, st)

	case "hr":
		return nil
	}
	return im.blocks(n, st)
}

// emit adds a paragraph for the collected text, then any images it
// contained. style runs after the text is set.
func (im *importer) emit(b *runBuilder, st blockState, style func(*document.Paragraph)) error {
	if !b.empty() {
		p := im.paragraph(st)
		if err := b.apply(p); err != nil {
			return fmt.Errorf("formatting paragraph: %w", err)
		}
		if style != nil {
			style(p)
		}
	}
	for _, img := range b.images {
		if err := im.image(img, st); err != nil {
			return err
		}
	}
	return nil
}

// bookmark names the paragraph after the element id so that "#id" links
// can reach it.
func (im *importer) bookmark(p *document.Paragraph, n *html.Node) {
	if id := attrValue(n, "id"); id != "" && p.Len() > 0 {
		p.AddCharFormatAll().SetBookmark(id)
	}
}

func (im *importer) list(n *html.Node, st blockState) error {
	ordered := n.Data == "ol"
	num := 1
	if ordered {
		if v, err := strconv.Atoi(attrValue(n, "start")); err == nil {
			num = v
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" || im.skip(c) {
			continue
		}
		prefix := bullet
		if ordered {
			prefix = strconv.Itoa(num) + ". "
			num++
		}
		if err := im.listItem(c, st.withDir(n), prefix); err != nil {
			return err
		}
	}
	return nil
}

// listItem adds the item's own text as an indented paragraph, then its
// nested lists one level deeper.
func (im *importer) listItem(li *html.Node, st blockState, prefix string) error {
	item := st.withDir(li)
	item.indent = st.indent + listIndent*float64(st.listLevel+1)

	b := &runBuilder{}
	b.collect(li, true)
	if !b.empty() {
		b.text = append([]rune(prefix), b.text...)
		for i := range b.spans {
			b.spans[i].lo += len([]rune(prefix))
			b.spans[i].hi += len([]rune(prefix))
		}
	}
	if err := im.emit(b, item, nil); err != nil {
		return err
	}

	nested := st
	nested.listLevel++
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") && !im.skip(c) {
			if err := im.list(c, nested); err != nil {
				return err
			}
		}
	}
	return nil
}

// image embeds an <img>. data: URIs are decoded in place; other sources
// are read relative to BaseDir. Remote images are skipped with a warning.
func (im *importer) image(n *html.Node, st blockState) error {
	src := attrValue(n, "src")
	var (
		img model.Image
		err error
	)
	switch {
	case src == "":
		return nil
	case strings.HasPrefix(src, "data:"):
		img, err = decodeDataURI(src)
	case strings.Contains(src, "://"):
		im.warn("remote image %q skipped", src)
		return nil
	case im.opts.FS != nil:
		img, err = decodeFS(im.opts.FS, im.opts.BaseDir, src)
	case filepath.IsAbs(src):
		img, err = imaging.DecodeFile(src)
	case im.opts.BaseDir == "":
		im.warn("relative image %q skipped: no base directory", src)
		return nil
	default:
		img, err = imaging.DecodeFile(filepath.Join(im.opts.BaseDir, filepath.FromSlash(src)))
	}
	if err != nil {
		im.warn("image %q skipped: %v", truncate(src, 64), err)
		return nil
	}
	img.AltText = attrValue(n, "alt")

	added, err := im.dst.AddImage(img)
	if errors.Is(err, document.ErrNotAllowed) {
		im.warn("image %q skipped: not allowed here", truncate(src, 64))
		return nil
	}
	if err != nil {
		im.warn("image %q skipped: %v", truncate(src, 64), err)
		return nil
	}
	if st.hasDir {
		added.SetDirection(st.dir)
	}
	return nil
}

// decodeFS reads src relative to dir inside fsys.
func decodeFS(fsys fs.FS, dir, src string) (model.Image, error) {
	name := src
	if !strings.HasPrefix(src, "/") {
		name = path.Join(dir, src)
	}
	name = strings.TrimPrefix(path.Clean(name), "/")
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return model.Image{}, err
	}
	return imaging.DecodeBytes(data)
}

// decodeDataURI decodes a base64 data: URI holding a raster image.
func decodeDataURI(uri string) (model.Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return model.Image{}, errors.New("only base64 data URIs are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return model.Image{}, fmt.Errorf("decoding data URI: %w", err)
	}
	return imaging.DecodeBytes(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "head", "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// isBlockContainer returns true if the element is a block container with block-level children.
func isBlockContainer(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			return true
		}
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}
