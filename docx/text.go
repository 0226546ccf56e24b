package docx

import (
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// span is a formatted range of paragraph text, [lo, hi) in runes.
type span struct {
	lo, hi    int
	rpr       runPropsXML
	link, tip string
}

// field is a page, date or similar field whose cached result occupies
// [at, end).
type field struct {
	at, end int
	typ     model.FieldType
}

// note is a footnote reference placed at cut point at.
type note struct {
	at int
	id string
}

// mark is a bookmark starting at cut point at.
type mark struct {
	at   int
	name string
}

// textBuilder accumulates the text of one paragraph with its formatting.
type textBuilder struct {
	styles *styleResolver

	text      []rune
	spans     []span
	fields    []field
	notes     []note
	marks     []mark
	images    []*drawingXML
	pageBreak bool

	// Complex field state. Only the outermost field is tracked.
	depth    int
	inInstr  bool
	instr    strings.Builder
	resultAt int
	split    bool
}

// blank reports whether the paragraph has no text and no inline anchors.
func (b *textBuilder) blank() bool {
	return len(b.text) == 0 && len(b.fields) == 0 && len(b.notes) == 0
}

// content adds the inline content of a paragraph.
func (b *textBuilder) content(items []inlineXML) {
	for _, it := range items {
		switch {
		case it.Run != nil:
			b.run(it.Run, "", "")
		case it.Hyperlink != nil:
			for i := range it.Hyperlink.Runs {
				b.run(&it.Hyperlink.Runs[i], it.Hyperlink.Anchor, it.Hyperlink.Tooltip)
			}
		case it.Field != nil:
			b.split = true
			at := len(b.text)
			for i := range it.Field.Runs {
				b.run(&it.Field.Runs[i], "", "")
			}
			b.endField(it.Field.Instr, at)
		case it.Bookmark != "" && it.Bookmark != "_GoBack":
			b.marks = append(b.marks, mark{at: len(b.text), name: it.Bookmark})
		}
	}
}

// run adds the content of one run. link names the bookmark the run links
// to, if any.
func (b *textBuilder) run(r *runXML, link, tip string) {
	rpr := b.styles.runProps(r.Properties)
	for _, part := range r.Parts {
		switch part.kind {
		case partFieldBegin:
			b.depth++
			if b.depth == 1 {
				b.instr.Reset()
				b.inInstr = true
				b.resultAt = len(b.text)
			}
		case partFieldInstr:
			if b.depth == 1 && b.inInstr {
				b.instr.WriteString(part.text)
			}
		case partFieldSeparate:
			if b.depth == 1 {
				b.inInstr = false
				b.resultAt = len(b.text)
				b.split = true
			}
		case partFieldEnd:
			if b.depth == 1 {
				b.inInstr = false
				b.endField(b.instr.String(), b.resultAt)
			}
			if b.depth > 0 {
				b.depth--
			}
		case partText:
			if !b.inInstr {
				b.write(part.text, rpr, link, tip)
			}
		case partPageBreak:
			if len(b.text) == 0 {
				b.pageBreak = true
			} else {
				b.write("\n", rpr, link, tip)
			}
		case partDrawing:
			b.images = append(b.images, part.drawing)
		case partFootnote:
			b.notes = append(b.notes, note{at: len(b.text), id: part.text})
		}
	}
}

// endField records a field whose result text started at cut point at.
// Known fields become field control words; local HYPERLINK fields turn
// their result into a link.
func (b *textBuilder) endField(instr string, at int) {
	b.split = true
	if typ, ok := fieldType(instr); ok {
		b.fields = append(b.fields, field{at: at, end: len(b.text), typ: typ})
		return
	}
	if anchor, tip, ok := localLink(instr); ok {
		for i := range b.spans {
			s := &b.spans[i]
			if s.lo >= at && s.hi <= len(b.text) && s.link == "" {
				s.link, s.tip = anchor, tip
			}
		}
	}
}

// write appends text in the given format.
func (b *textBuilder) write(s string, rpr runPropsXML, link, tip string) {
	if s == "" {
		return
	}
	lo := len(b.text)
	b.text = append(b.text, []rune(s)...)
	if n := len(b.spans); n > 0 && !b.split {
		last := &b.spans[n-1]
		if last.hi == lo && last.rpr == rpr && last.link == link && last.tip == tip {
			last.hi = len(b.text)
			return
		}
	}
	b.split = false
	b.spans = append(b.spans, span{lo: lo, hi: len(b.text), rpr: rpr, link: link, tip: tip})
}

// replaceFieldResults drops the cached results of known fields; the
// reader computes them when the field control word is rendered.
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

// apply adds the run formats, links and bookmarks to p, whose text must
// already be set.
func (b *textBuilder) apply(p *document.Paragraph) error {
	for _, s := range b.spans {
		if s.rpr == (runPropsXML{}) && s.link == "" {
			continue
		}
		f, err := p.AddCharFormat(s.lo, s.hi-1)
		if err != nil {
			return err
		}
		if err := applyRunProps(f, s.rpr); err != nil {
			return err
		}
		if s.link != "" {
			f.SetLocalHyperlink(s.link, s.tip)
		}
	}

	// A bookmark covers the rest of the paragraph.
	n := p.Len()
	for _, m := range b.marks {
		if n == 0 {
			break
		}
		at := m.at
		if at >= n {
			at = n - 1
		}
		f, err := p.AddCharFormat(at, n-1)
		if err != nil {
			return err
		}
		f.SetBookmark(m.name)
	}
	return nil
}

// fieldType maps a field instruction to a field control word.
func fieldType(instr string) (model.FieldType, bool) {
	args := fieldArgs(instr)
	if len(args) == 0 {
		return 0, false
	}
	switch strings.ToUpper(args[0]) {
	case "PAGE":
		return model.FieldPage, true
	case "NUMPAGES":
		return model.FieldNumPages, true
	case "DATE":
		return model.FieldDate, true
	case "TIME":
		return model.FieldTime, true
	case "TITLE":
		return model.FieldTitle, true
	}
	return 0, false
}

// localLink parses `HYPERLINK \l "bookmark" \o "tip"`.
func localLink(instr string) (anchor, tip string, ok bool) {
	args := fieldArgs(instr)
	if len(args) == 0 || !strings.EqualFold(args[0], "HYPERLINK") {
		return "", "", false
	}
	for i := 1; i+1 < len(args); i++ {
		switch args[i] {
		case `\l`:
			anchor = args[i+1]
		case `\o`:
			tip = args[i+1]
		}
	}
	return anchor, tip, anchor != ""
}

// fieldArgs splits a field instruction into words. Quoted words keep
// their spaces and lose the quotes.
func fieldArgs(instr string) []string {
	var args []string
	var cur strings.Builder
	quoted, started := false, false
	for _, r := range instr {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	return args
}
