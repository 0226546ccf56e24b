package epubdoc

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/htmldoc"
	"github.com/tsawler/rtfwriter/model"
)

// ImportFile opens the EPUB at filename and imports it into dst.
func ImportFile(filename string, dst htmldoc.Container, opts Options) ([]model.Warning, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Import(dst, opts)
}

// Import appends the publication to dst: an optional title page and table
// of contents, then every linear chapter in spine order. Each chapter
// starts with a bookmark that the table of contents links to.
func (r *Reader) Import(dst htmldoc.Container, opts Options) ([]model.Warning, error) {
	warnings := r.Warnings()
	started := false

	if opts.TitlePage {
		started = r.titlePage(dst) || started
	}
	if opts.Contents {
		started = r.contents(dst, opts.PageBreaks && started) || started
	}

	for _, ch := range r.chapters {
		if !ch.Linear && !opts.NonLinear {
			continue
		}
		htmlOpts := opts.HTML
		htmlOpts.FS = r.fsys
		htmlOpts.BaseDir = path.Dir(ch.Href)

		start := &chapterStart{
			Container: dst,
			pageBreak: opts.PageBreaks && started,
			bookmark:  chapterBookmark(ch),
		}
		ws, err := htmldoc.Import(bytes.NewReader(ch.Content), start, htmlOpts)
		for _, w := range ws {
			warnings = append(warnings, model.Warning{Message: ch.Href + ": " + w.Message})
		}
		if err != nil {
			return warnings, fmt.Errorf("importing %s: %w", ch.Href, err)
		}
		started = started || start.added
	}
	return warnings, nil
}

// titlePage adds the title and creators. It reports whether anything was
// added.
func (r *Reader) titlePage(dst htmldoc.Container) bool {
	meta := r.pkg.Metadata
	if meta.Title == "" && len(meta.Creator) == 0 {
		return false
	}
	if meta.Title != "" {
		p := dst.AddParagraph().SetText(meta.Title)
		p.Alignment = model.AlignCenter
		p.DefaultCharFormat().AddStyle(model.Bold).SetFontSize(titleSize)
	}
	if len(meta.Creator) > 0 {
		p := dst.AddParagraph().SetText(strings.Join(meta.Creator, ", "))
		p.Alignment = model.AlignCenter
		p.Margins.Top = titleSize
	}
	return true
}

// contents adds the table of contents as paragraphs linking to chapter
// bookmarks, or to the fragment id for entries that point inside a
// chapter. It reports whether anything was added.
func (r *Reader) contents(dst htmldoc.Container, pageBreak bool) bool {
	toc := r.TableOfContents()
	if len(toc.Entries) == 0 {
		return false
	}

	byHref := make(map[string]*Chapter, len(r.chapters))
	for _, ch := range r.chapters {
		byHref[ch.Href] = ch
	}

	heading := dst.AddParagraph().SetText("Contents")
	heading.StartNewPage = pageBreak
	heading.DefaultCharFormat().AddStyle(model.Bold).SetFontSize(contentsSize)
	if toc.Title != "" && toc.Title != r.pkg.Metadata.Title {
		heading.SetText(toc.Title)
	}

	var walk func(entries []TOCEntry, depth int)
	walk = func(entries []TOCEntry, depth int) {
		for _, e := range entries {
			if e.Title != "" {
				p := dst.AddParagraph().SetText(e.Title)
				p.Margins.Left = tocIndent * float64(depth)
				if target := tocTarget(e.Href, byHref); target != "" {
					p.AddCharFormatAll().SetLocalHyperlink(target, "")
				}
			}
			walk(e.Children, depth+1)
		}
	}
	walk(toc.Entries, 0)
	return true
}

// tocTarget maps a table of contents href to the bookmark it links to.
func tocTarget(href string, byHref map[string]*Chapter) string {
	file, frag, _ := strings.Cut(href, "#")
	if frag != "" {
		return frag
	}
	if ch, ok := byHref[file]; ok {
		return chapterBookmark(ch)
	}
	return ""
}

// chapterBookmark names the bookmark at the start of a chapter. Bookmark
// names are limited to letters, digits and underscores.
func chapterBookmark(ch *Chapter) string {
	var sb strings.Builder
	sb.WriteString("chapter_")
	for _, c := range ch.ID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteRune(c)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// chapterStart passes blocks through to a container and marks the first
// one as the start of a chapter.
type chapterStart struct {
	htmldoc.Container
	pageBreak bool
	bookmark  string
	added     bool
}

func (c *chapterStart) AddParagraph() *document.Paragraph {
	return c.paragraph(c.Container.AddParagraph())
}

func (c *chapterStart) AddParagraphDir(dir model.Direction) *document.Paragraph {
	return c.paragraph(c.Container.AddParagraphDir(dir))
}

func (c *chapterStart) paragraph(p *document.Paragraph) *document.Paragraph {
	if !c.added {
		c.added = true
		p.StartNewPage = c.pageBreak
		p.AddCharFormatAll().SetBookmark(c.bookmark)
	}
	return p
}

func (c *chapterStart) AddTable(rows, cols int, width, fontSize float64) (*document.Table, error) {
	t, err := c.Container.AddTable(rows, cols, width, fontSize)
	if err == nil && !c.added {
		c.added = true
		t.StartNewPage = c.pageBreak
	}
	return t, err
}

func (c *chapterStart) AddImage(src model.Image) (*document.Image, error) {
	img, err := c.Container.AddImage(src)
	if err == nil && !c.added {
		c.added = true
		img.StartNewPage = c.pageBreak
	}
	return img, err
}
