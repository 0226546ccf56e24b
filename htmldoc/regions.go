package htmldoc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/tsawler/rtfwriter/document"
)

// region says where the content of an element goes.
type region int

const (
	regionContent region = iota
	regionSkip
	regionHeader
	regionFooter
)

// Class and id values are matched after normalizeClass, on word
// boundaries.
var (
	navClass    = regexp.MustCompile(`(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumbs?|sidebar|widget|widget-area|aside)([^a-z]|$)`)
	headerClass = regexp.MustCompile(`(^|[^a-z])(site-header|page-header|masthead|banner)([^a-z]|$)`)
	footerClass = regexp.MustCompile(`(^|[^a-z])(footer|site-footer|page-footer|colophon)([^a-z]|$)`)
)

// pages is implemented by destinations with a running page header and
// footer, such as *document.Document.
type pages interface {
	Header() *document.HeaderFooter
	Footer() *document.HeaderFooter
}

// pageLayout classifies the elements of one parsed page.
type pageLayout struct {
	mode    NavigationExclusionMode
	body    *html.Node
	wrapper *html.Node // only div or main child of body, if any
	pages   pages      // nil unless page regions are routed
}

func newPageLayout(doc *html.Node, mode NavigationExclusionMode, p pages) *pageLayout {
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	return &pageLayout{mode: mode, body: body, wrapper: soleWrapper(body), pages: p}
}

// soleWrapper returns the single div or main child of body, as in
// <body><div id="page">...</div></body>.
func soleWrapper(body *html.Node) *html.Node {
	var found *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || shouldSkipElement(c.Data) {
			continue
		}
		if (c.Data != "div" && c.Data != "main") || found != nil {
			return nil
		}
		found = c
	}
	return found
}

// topLevel reports whether n sits directly in body or in its sole wrapper.
func (l *pageLayout) topLevel(n *html.Node) bool {
	return n.Parent != nil && (n.Parent == l.body || (l.wrapper != nil && n.Parent == l.wrapper))
}

// classify returns the region of element n. Page headers and footers are
// routed to the page only at the top level and only when a page is set;
// otherwise the exclusion mode decides.
func (l *pageLayout) classify(n *html.Node) region {
	if n.Type != html.ElementNode {
		return regionContent
	}
	if l.pages != nil && l.topLevel(n) {
		switch {
		case n.Data == "header", attrValue(n, "role") == "banner", classMatches(n, headerClass):
			return regionHeader
		case n.Data == "footer", attrValue(n, "role") == "contentinfo", classMatches(n, footerClass):
			return regionFooter
		}
	}
	if l.excluded(n) {
		return regionSkip
	}
	return regionContent
}

func (l *pageLayout) excluded(n *html.Node) bool {
	if l.mode == NavigationExclusionNone {
		return false
	}
	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		if l.topLevel(n) {
			return true
		}
	}
	switch attrValue(n, "role") {
	case "navigation", "complementary":
		return true
	case "banner", "contentinfo":
		if l.topLevel(n) {
			return true
		}
	}
	if l.mode >= NavigationExclusionStandard &&
		(classMatches(n, navClass) || classMatches(n, headerClass) || classMatches(n, footerClass)) {
		return true
	}
	return l.mode >= NavigationExclusionAggressive && linkHeavy(n)
}

// linkHeavy reports whether a block container is mostly link text: more
// than 60% of its text inside at least four links.
func linkHeavy(n *html.Node) bool {
	switch n.Data {
	case "div", "section", "ul", "ol":
	default:
		return false
	}
	var total, linked, links int
	var walk func(n *html.Node, inLink bool)
	walk = func(n *html.Node, inLink bool) {
		switch {
		case n.Type == html.TextNode:
			k := len(strings.TrimSpace(n.Data))
			total += k
			if inLink {
				linked += k
			}
		case n.Type == html.ElementNode && n.Data == "a":
			links++
			inLink = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inLink)
		}
	}
	walk(n, false)
	return total > 0 && links >= 4 && float64(linked) > 0.6*float64(total)
}

func classMatches(n *html.Node, re *regexp.Regexp) bool {
	for _, key := range []string{"class", "id"} {
		if v := attrValue(n, key); v != "" && re.MatchString(normalizeClass(v)) {
			return true
		}
	}
	return false
}

// attrValue returns the value of attribute key of n, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// normalizeClass lower-cases s and splits camelCase words with '-', so
// "mainNav" reads like "main-nav".
func normalizeClass(s string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range s {
		if unicode.IsUpper(r) && prevLower {
			sb.WriteByte('-')
		}
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
