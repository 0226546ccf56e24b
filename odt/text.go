package odt

import (
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// span is a formatted range of paragraph text, [lo, hi) in runes.
type span struct {
	lo, hi int
	tp     textPropsXML
	link   string // bookmark a local link points to
}

// field is a page, date or similar field whose cached result occupies
// [at, end).
type field struct {
	at, end int
	typ     model.FieldType
}

// note is a footnote placed at cut point at.
type note struct {
	at   int
	note *noteXML
}

// mark is a bookmark starting at cut point at.
type mark struct {
	at   int
	name string
}

// fieldTypes maps text field elements to field control words.
var fieldTypes = map[string]model.FieldType{
	"page-number": model.FieldPage,
	"page-count":  model.FieldNumPages,
	"date":        model.FieldDate,
	"time":        model.FieldTime,
	"title":       model.FieldTitle,
}

// textBuilder accumulates the text of one paragraph with its formatting.
// Whitespace in character data collapses the way ODF requires: runs of
// spaces become one and leading and trailing spaces are dropped.
type textBuilder struct {
	styles *styleResolver

	text   []rune
	spans  []span
	fields []field
	notes  []note
	marks  []mark
	frames []*frameXML

	space     bool // the last rune collapses following whitespace
	collapsed int  // index of the last collapsible space, or -1
}

func newTextBuilder(styles *styleResolver) *textBuilder {
	return &textBuilder{styles: styles, space: true, collapsed: -1}
}

// blank reports whether the paragraph has no text and no inline anchors.
func (b *textBuilder) blank() bool {
	return len(b.text) == 0 && len(b.fields) == 0 && len(b.notes) == 0
}

// content adds inline content formatted with tp on top of the paragraph.
func (b *textBuilder) content(items []inlineXML, tp textPropsXML, link string) {
	for _, it := range items {
		switch it.kind {
		case inlineText:
			b.writeCollapsed(it.text, tp, link)
		case inlineSpaces:
			b.write(it.text, tp, link)
			b.space = false
		case inlineTab:
			b.write("\t", tp, link)
			b.space = false
		case inlineBreak:
			b.write("\n", tp, link)
			b.space = true
		case inlineSpan:
			inner := tp
			if it.style != "" {
				inner = mergeTextProps(tp, b.styles.textStyle(it.style))
			}
			b.content(it.children, inner, link)
		case inlineLink:
			target := link
			if anchor, ok := strings.CutPrefix(it.href, "#"); ok && anchor != "" && !strings.Contains(anchor, "|") {
				target = anchor
			}
			b.content(it.children, tp, target)
		case inlineField:
			at := len(b.text)
			b.write(it.text, tp, link)
			b.space = false
			if typ, ok := fieldTypes[it.field]; ok {
				b.fields = append(b.fields, field{at: at, end: len(b.text), typ: typ})
			}
		case inlineBookmark:
			if it.text != "" {
				b.marks = append(b.marks, mark{at: len(b.text), name: it.text})
			}
		case inlineFrame:
			b.frames = append(b.frames, it.frame)
		case inlineNote:
			b.notes = append(b.notes, note{at: len(b.text), note: it.note})
		}
	}
}

// writeCollapsed appends character data with its whitespace collapsed.
func (b *textBuilder) writeCollapsed(s string, tp textPropsXML, link string) {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			if b.space {
				continue
			}
			b.space = true
			b.collapsed = len(b.text) + len(out)
			out = append(out, ' ')
		default:
			b.space = false
			out = append(out, r)
		}
	}
	b.write(string(out), tp, link)
}

// write appends text in the given format.
func (b *textBuilder) write(s string, tp textPropsXML, link string) {
	if s == "" {
		return
	}
	lo := len(b.text)
	b.text = append(b.text, []rune(s)...)
	if n := len(b.spans); n > 0 {
		last := &b.spans[n-1]
		if last.hi == lo && last.tp == tp && last.link == link {
			last.hi = len(b.text)
			return
		}
	}
	b.spans = append(b.spans, span{lo: lo, hi: len(b.text), tp: tp, link: link})
}

// finish drops a trailing collapsed space.
func (b *textBuilder) finish() {
	if n := len(b.text); n > 0 && b.collapsed == n-1 {
		b.cut(n-1, n)
	}
}

// prepend inserts unformatted s before the text.
func (b *textBuilder) prepend(s string) {
	n := len([]rune(s))
	if n == 0 {
		return
	}
	b.text = append([]rune(s), b.text...)
	for i := range b.spans {
		b.spans[i].lo += n
		b.spans[i].hi += n
	}
	for i := range b.fields {
		b.fields[i].at += n
		b.fields[i].end += n
	}
	for i := range b.notes {
		b.notes[i].at += n
	}
	for i := range b.marks {
		b.marks[i].at += n
	}
}

// replaceFieldResults drops the cached results of fields; the reader
// computes them when the field control word is rendered.
func (b *textBuilder) replaceFieldResults() {
	for i := len(b.fields) - 1; i >= 0; i-- {
		f := b.fields[i]
		b.cut(f.at, f.end)
	}
}

// cut removes the text [lo, hi) and moves every later offset back.
func (b *textBuilder) cut(lo, hi int) {
	if hi <= lo {
		return
	}
	n := hi - lo
	shift := func(at int) int {
		switch {
		case at >= hi:
			return at - n
		case at > lo:
			return lo
		default:
			return at
		}
	}

	b.text = append(b.text[:lo], b.text[hi:]...)
	kept := b.spans[:0]
	for _, s := range b.spans {
		s.lo, s.hi = shift(s.lo), shift(s.hi)
		if s.hi > s.lo {
			kept = append(kept, s)
		}
	}
	b.spans = kept
	for i := range b.fields {
		b.fields[i].at, b.fields[i].end = shift(b.fields[i].at), shift(b.fields[i].end)
	}
	for i := range b.notes {
		b.notes[i].at = shift(b.notes[i].at)
	}
	for i := range b.marks {
		b.marks[i].at = shift(b.marks[i].at)
	}
}

// apply adds the span formats, links and bookmarks to p, whose text must
// already be set.
func (b *textBuilder) apply(p *document.Paragraph) error {
	for _, s := range b.spans {
		if s.tp == (textPropsXML{}) && s.link == "" {
			continue
		}
		f, err := p.AddCharFormat(s.lo, s.hi-1)
		if err != nil {
			return err
		}
		if err := applyTextProps(f, s.tp, b.styles); err != nil {
			return err
		}
		if s.link != "" {
			f.SetLocalHyperlink(s.link, "")
		}
	}

	// A bookmark covers the rest of the paragraph.
	n := p.Len()
	for _, m := range b.marks {
		if n == 0 {
			break
		}
		at := min(m.at, n-1)
		f, err := p.AddCharFormat(at, n-1)
		if err != nil {
			return err
		}
		f.SetBookmark(m.name)
	}
	return nil
}

// applyTextProps sets the properties present in tp on f. Properties
// switched off explicitly are removed so they override inherited formats.
func applyTextProps(f *document.CharFormat, tp textPropsXML, sr *styleResolver) error {
	if name := sr.fontName(tp); name != "" {
		if err := f.SetFontName(name); err != nil {
			return err
		}
	}
	if size := parseLength(tp.FontSize); size > 0 {
		f.SetFontSize(size)
	}

	var on, off model.FontStyleFlag
	switch w := tp.FontWeight; {
	case w == "":
	case w == "bold", atoi(w) >= 600:
		on |= model.Bold
	default:
		off |= model.Bold
	}
	switch tp.FontStyle {
	case "":
	case "italic", "oblique":
		on |= model.Italic
	default:
		off |= model.Italic
	}
	switch tp.FontVariant {
	case "":
	case "small-caps":
		on |= model.Scaps
	default:
		off |= model.Scaps
	}
	switch tp.TextUnderline {
	case "":
	case "none":
		off |= model.Underline
	default:
		on |= model.Underline
	}
	switch tp.TextLineThrough {
	case "":
	case "none":
		off |= model.Strike
	default:
		on |= model.Strike
	}
	switch baseline(tp.TextPosition) {
	case 1:
		on |= model.Super
	case -1:
		on |= model.Sub
	case 0:
		if tp.TextPosition != "" {
			off |= model.Super | model.Sub
		}
	}
	if off != 0 {
		f.RemoveStyle(off)
	}
	if on != 0 {
		f.AddStyle(on)
	}

	if c, ok := hexColor(tp.Color); ok {
		if err := f.SetForegroundColor(c); err != nil {
			return err
		}
	}
	if c, ok := hexColor(tp.BackgroundColor); ok {
		if err := f.SetBackgroundColor(c); err != nil {
			return err
		}
	}
	return nil
}

// baseline returns 1 for raised text, -1 for lowered text and 0 otherwise.
// The first word of style:text-position is "super", "sub" or a
// percentage.
func baseline(pos string) int {
	fields := strings.Fields(pos)
	if len(fields) == 0 {
		return 0
	}
	switch fields[0] {
	case "super":
		return 1
	case "sub":
		return -1
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
	switch {
	case err != nil || v == 0:
		return 0
	case v > 0:
		return 1
	default:
		return -1
	}
}

// hexColor parses an ODF "#RRGGBB" color. "transparent" is not a color.
func hexColor(s string) (model.Color, bool) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return model.Color{}, false
	}
	c, err := model.ParseColor(hex)
	if err != nil {
		return model.Color{}, false
	}
	return c, true
}

// paragraphFormat applies alignment, indents and spacing.
func paragraphFormat(p *document.Paragraph, ppr paragraphPropsXML) {
	p.Alignment = alignment(ppr.TextAlign)
	p.Margins.Left = parseLength(ppr.MarginLeft)
	p.Margins.Right = parseLength(ppr.MarginRight)
	p.Margins.Top = parseLength(ppr.MarginTop)
	p.Margins.Bottom = parseLength(ppr.MarginBottom)
	p.FirstLineIndent = parseLength(ppr.TextIndent)

	// Proportional line heights have no exact equivalent.
	if v := parseLength(ppr.LineHeight); v > 0 {
		p.LineSpacing = v
	} else if v := parseLength(ppr.LineHeightAtLeast); v > 0 {
		p.LineSpacing = v
	}
	if ppr.BreakBefore == "page" {
		p.StartNewPage = true
	}
}

func alignment(align string) model.Align {
	switch align {
	case "center":
		return model.AlignCenter
	case "right", "end":
		return model.AlignRight
	case "justify":
		return model.AlignJustify
	default:
		return model.AlignLeft
	}
}

// direction maps style:writing-mode. ok is false when the mode does not
// set a direction.
func direction(mode string) (model.Direction, bool) {
	switch mode {
	case "rl-tb", "rl":
		return model.RightToLeft, true
	case "lr-tb", "lr":
		return model.LeftToRight, true
	}
	return 0, false
}
