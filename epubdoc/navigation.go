package epubdoc

import (
	"bytes"
	"encoding/xml"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// ncxDocument represents an EPUB 2 NCX navigation document.
type ncxDocument struct {
	XMLName   xml.Name      `xml:"ncx"`
	Title     string        `xml:"docTitle>text"`
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxNavPoint struct {
	ID      string `xml:"id,attr"`
	Label   string `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// TableOfContents returns the navigation structure. The EPUB 3 nav
// document is preferred over the EPUB 2 NCX; without either, the chapters
// are listed in spine order.
func (r *Reader) TableOfContents() *TableOfContents {
	if r.toc == nil {
		r.toc = r.parseNavigation()
	}
	return r.toc
}

func (r *Reader) parseNavigation() *TableOfContents {
	if item, ok := r.findNavDocument(); ok {
		href := r.resolveHref(item.Href)
		if content, err := r.readFile(href); err == nil {
			if toc, ok := parseNavXHTML(content, path.Dir(href)); ok {
				return toc
			}
		}
	}

	if item, ok := r.findNCX(); ok {
		href := r.resolveHref(item.Href)
		if content, err := r.readFile(href); err == nil {
			if toc, err := parseNCX(content, path.Dir(href)); err == nil {
				return toc
			}
		}
	}

	return r.generateTOCFromSpine()
}

// findNavDocument finds the manifest item with the "nav" property.
func (r *Reader) findNavDocument() (ManifestItem, bool) {
	for _, item := range r.pkg.Manifest {
		for _, prop := range item.Properties {
			if prop == "nav" {
				return item, true
			}
		}
	}
	return ManifestItem{}, false
}

// findNCX finds the NCX named by the spine, or any NCX in the manifest.
func (r *Reader) findNCX() (ManifestItem, bool) {
	if item, ok := r.pkg.Manifest[r.pkg.NCX]; ok {
		return item, true
	}
	for _, item := range r.pkg.Manifest {
		if item.MediaType == "application/x-dtbncx+xml" {
			return item, true
		}
	}
	return ManifestItem{}, false
}

// parseNavXHTML reads the <nav epub:type="toc"> list of an EPUB 3 nav
// document. Hrefs are resolved against dir.
func parseNavXHTML(content []byte, dir string) (*TableOfContents, bool) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, false
	}

	nav := findTOCNav(doc)
	if nav == nil {
		return nil, false
	}

	toc := &TableOfContents{}
	if h := findFirst(nav, "h1", "h2", "h3", "h4", "h5", "h6"); h != nil {
		toc.Title = extractText(h)
	}
	if ol := findFirst(nav, "ol"); ol != nil {
		toc.Entries = parseOLEntries(ol, dir)
	}
	return toc, true
}

func findTOCNav(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "nav" {
		for _, attr := range n.Attr {
			if (attr.Key == "epub:type" || attr.Key == "type") && strings.Contains(attr.Val, "toc") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTOCNav(c); found != nil {
			return found
		}
	}
	return nil
}

// parseOLEntries parses the <li> children of an <ol>.
func parseOLEntries(ol *html.Node, dir string) []TOCEntry {
	var entries []TOCEntry
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		if entry := parseLIEntry(c, dir); entry.Title != "" || entry.Href != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// parseLIEntry reads a link or heading span and an optional nested list.
func parseLIEntry(li *html.Node, dir string) TOCEntry {
	entry := TOCEntry{}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "a":
			entry.Title = extractText(c)
			for _, attr := range c.Attr {
				if attr.Key == "href" {
					entry.Href = resolve(dir, attr.Val)
				}
			}
		case "span":
			if entry.Title == "" {
				entry.Title = extractText(c)
			}
		case "ol":
			entry.Children = parseOLEntries(c, dir)
		}
	}
	return entry
}

// parseNCX parses an EPUB 2 NCX document. Hrefs are resolved against dir.
func parseNCX(content []byte, dir string) (*TableOfContents, error) {
	var ncx ncxDocument
	if err := xml.Unmarshal(content, &ncx); err != nil {
		return nil, err
	}
	return &TableOfContents{
		Title:   strings.TrimSpace(ncx.Title),
		Entries: convertNCXNavPoints(ncx.NavPoints, dir),
	}, nil
}

func convertNCXNavPoints(points []ncxNavPoint, dir string) []TOCEntry {
	entries := make([]TOCEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, TOCEntry{
			Title:    strings.TrimSpace(p.Label),
			Href:     resolve(dir, p.Content.Src),
			Children: convertNCXNavPoints(p.Children, dir),
		})
	}
	return entries
}

// generateTOCFromSpine lists the chapters, titled by their own title or
// manifest ID.
func (r *Reader) generateTOCFromSpine() *TableOfContents {
	toc := &TableOfContents{
		Title:   r.pkg.Metadata.Title,
		Entries: make([]TOCEntry, 0, len(r.chapters)),
	}
	for _, chapter := range r.chapters {
		title := chapter.Title
		if title == "" {
			title = chapter.ID
		}
		toc.Entries = append(toc.Entries, TOCEntry{Title: title, Href: chapter.Href})
	}
	return toc
}

// extractText returns the text below n with runs of whitespace collapsed.
func extractText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
