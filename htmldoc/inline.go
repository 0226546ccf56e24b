package htmldoc

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// span is a styled rune range [lo, hi) of the collected text.
type span struct {
	lo, hi int
	style  model.FontStyleFlag
	link   string
	tip    string
}

// runBuilder collects the text of inline content with collapsed whitespace
// and records the styled ranges inside it.
type runBuilder struct {
	text     []rune
	spans    []span
	images   []*html.Node
	preserve bool
}

// inlineStyles maps inline elements to the style they switch on.
var inlineStyles = map[string]model.FontStyleFlag{
	"b":      model.Bold,
	"strong": model.Bold,
	"i":      model.Italic,
	"em":     model.Italic,
	"cite":   model.Italic,
	"u":      model.Underline,
	"ins":    model.Underline,
	"s":      model.Strike,
	"strike": model.Strike,
	"del":    model.Strike,
	"sup":    model.Super,
	"sub":    model.Sub,
}

// writeText appends s, collapsing whitespace unless preserve is set.
func (b *runBuilder) writeText(s string) {
	for _, r := range s {
		if b.preserve {
			if r != '\r' {
				b.text = append(b.text, r)
			}
			continue
		}
		if unicode.IsSpace(r) {
			if n := len(b.text); n == 0 || b.text[n-1] == ' ' || b.text[n-1] == '\n' {
				continue
			}
			r = ' '
		}
		b.text = append(b.text, r)
	}
}

// lineBreak appends a hard line break, dropping a pending space.
func (b *runBuilder) lineBreak() {
	if n := len(b.text); n > 0 && b.text[n-1] == ' ' && !b.preserve {
		b.text = b.text[:n-1]
	}
	b.text = append(b.text, '\n')
}

// separate inserts a word break at a block boundary inside inline content.
func (b *runBuilder) separate() {
	if n := len(b.text); n > 0 && b.text[n-1] != ' ' && b.text[n-1] != '\n' {
		b.text = append(b.text, ' ')
	}
}

// collect walks n's children as inline content. Nested lists are left to
// the caller when skipLists is set.
func (b *runBuilder) collect(n *html.Node, skipLists bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.node(c, skipLists)
	}
}

func (b *runBuilder) node(n *html.Node, skipLists bool) {
	switch n.Type {
	case html.TextNode:
		b.writeText(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	if shouldSkipElement(n.Data) {
		return
	}

	switch n.Data {
	case "br":
		b.lineBreak()
		return
	case "img":
		b.images = append(b.images, n)
		return
	case "ul", "ol":
		if skipLists {
			return
		}
	}

	if isBlockElement(n.Data) {
		b.separate()
	}

	lo := len(b.text)
	b.collect(n, skipLists)
	hi := len(b.text)

	if isBlockElement(n.Data) {
		b.separate()
	}
	if hi <= lo {
		return
	}
	if style, ok := inlineStyles[n.Data]; ok {
		b.spans = append(b.spans, span{lo: lo, hi: hi, style: style})
	}
	if n.Data == "a" {
		if href := attrValue(n, "href"); strings.HasPrefix(href, "#") && len(href) > 1 {
			b.spans = append(b.spans, span{lo: lo, hi: hi, link: href[1:], tip: attrValue(n, "title")})
		}
	}
}

// trim removes trailing collapsed whitespace and clamps the spans to the
// remaining text.
func (b *runBuilder) trim() {
	if !b.preserve {
		for n := len(b.text); n > 0 && (b.text[n-1] == ' ' || b.text[n-1] == '\n'); n = len(b.text) {
			b.text = b.text[:n-1]
		}
	} else {
		for n := len(b.text); n > 0 && b.text[n-1] == '\n'; n = len(b.text) {
			b.text = b.text[:n-1]
		}
	}
	kept := b.spans[:0]
	for _, s := range b.spans {
		if s.hi > len(b.text) {
			s.hi = len(b.text)
		}
		if s.hi > s.lo {
			kept = append(kept, s)
		}
	}
	b.spans = kept
}

// empty reports whether no visible text was collected.
func (b *runBuilder) empty() bool {
	return strings.TrimSpace(string(b.text)) == ""
}

// apply writes the collected text and spans into p.
func (b *runBuilder) apply(p *document.Paragraph) error {
	b.trim()
	p.SetText(string(b.text))
	for _, s := range b.spans {
		f, err := p.AddCharFormat(s.lo, s.hi-1)
		if err != nil {
			return err
		}
		if s.style != 0 {
			f.AddStyle(s.style)
		}
		if s.link != "" {
			f.SetLocalHyperlink(s.link, s.tip)
		}
	}
	return nil
}

// isBlockElement reports whether tag starts a new line in flowing text.
func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "tr", "table", "blockquote", "pre", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6", "article", "section", "header", "footer", "main",
		"nav", "aside", "figure":
		return true
	}
	return false
}
