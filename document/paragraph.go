package document

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/internal/rtftext"
	"github.com/tsawler/rtfwriter/model"
)

// Paragraph is a run of text with optional character format ranges,
// footnotes and fields.
type Paragraph struct {
	// Alignment is the horizontal alignment.
	Alignment model.Align
	// Margins are the paragraph indents (left, right) and spacing (top,
	// bottom) in points. Only positive values are written.
	Margins model.Margins
	// LineSpacing is the exact line height in points; negative means the
	// reader's default.
	LineSpacing float64
	// FirstLineIndent is the first-line indent in points.
	FirstLineIndent float64
	// StartNewPage forces a page break before the paragraph.
	StartNewPage bool

	text          []rune
	direction     model.Direction
	defaultFormat *CharFormat
	formats       []*CharFormat
	footnotes     []*Footnote
	fields        []*FieldControlWord

	allowFootnote bool
	allowField    bool
	res           *resources
}

// NewParagraph creates a detached paragraph. allowFootnote and allowField
// control whether AddFootnote and AddControlWord succeed.
func NewParagraph(allowFootnote, allowField bool, dir model.Direction) *Paragraph {
	return &Paragraph{
		LineSpacing:   -1,
		direction:     dir,
		allowFootnote: allowFootnote,
		allowField:    allowField,
	}
}

// Direction returns the paragraph's reading direction.
func (p *Paragraph) Direction() model.Direction { return p.direction }

// SetDirection changes the paragraph's reading direction.
func (p *Paragraph) SetDirection(d model.Direction) { p.direction = d }

// Text returns the paragraph text.
func (p *Paragraph) Text() string { return string(p.text) }

// Len returns the text length in characters.
func (p *Paragraph) Len() int { return len(p.text) }

// SetText replaces the paragraph text. It returns p for chaining. Formats
// added earlier keep their positions and are cut off at the new end.
func (p *Paragraph) SetText(s string) *Paragraph {
	p.text = []rune(s)
	return p
}

// DefaultCharFormat returns the format applied to all text of the paragraph,
// creating it on first use.
func (p *Paragraph) DefaultCharFormat() *CharFormat {
	if p.defaultFormat == nil {
		p.defaultFormat = newCharFormat(-1, -1, p.res)
	}
	return p.defaultFormat
}

// AddCharFormatAll adds a format covering the whole text.
func (p *Paragraph) AddCharFormatAll() *CharFormat {
	f := newCharFormat(-1, -1, p.res)
	p.formats = append(p.formats, f)
	return f
}

// AddCharFormat adds a format covering characters begin through end, both
// inclusive. (-1, -1) covers the whole text. Later formats take precedence
// over earlier ones where they overlap.
//
// The range is checked against the current text: end must be less than the
// text length and begin must not exceed end.
func (p *Paragraph) AddCharFormat(begin, end int) (*CharFormat, error) {
	if begin == -1 && end == -1 {
		return p.AddCharFormatAll(), nil
	}
	const op = "Paragraph.AddCharFormat"
	if begin < 0 {
		return nil, invalid(op, "begin", begin, "must not be negative")
	}
	if end >= len(p.text) {
		return nil, invalid(op, "end", end, "must be less than the text length "+strconv.Itoa(len(p.text)))
	}
	if begin > end {
		return nil, invalid(op, "begin", begin, "must not exceed end "+strconv.Itoa(end))
	}
	f := newCharFormat(begin, end, p.res)
	p.formats = append(p.formats, f)
	return f, nil
}

// CharFormats returns the range formats in insertion order.
func (p *Paragraph) CharFormats() []*CharFormat {
	return append([]*CharFormat(nil), p.formats...)
}

// Footnotes returns the footnotes in insertion order.
func (p *Paragraph) Footnotes() []*Footnote {
	return append([]*Footnote(nil), p.footnotes...)
}

// Fields returns the field control words in insertion order.
func (p *Paragraph) Fields() []*FieldControlWord {
	return append([]*FieldControlWord(nil), p.fields...)
}

// AllowsFootnote reports whether AddFootnote can succeed in the paragraph's
// container.
func (p *Paragraph) AllowsFootnote() bool { return p.allowFootnote }

// AllowsField reports whether AddControlWord can succeed in the paragraph's
// container.
func (p *Paragraph) AllowsField() bool { return p.allowField }

// AddFootnote attaches a footnote after the character at position.
func (p *Paragraph) AddFootnote(position int) (*Footnote, error) {
	if !p.allowFootnote {
		return nil, ErrNotAllowed
	}
	if position < 0 {
		return nil, invalid("Paragraph.AddFootnote", "position", position, "must not be negative")
	}
	fn := newFootnote(position, p.direction, p.res)
	p.footnotes = append(p.footnotes, fn)
	return fn, nil
}

// AddControlWord inserts a field after the character at position.
func (p *Paragraph) AddControlWord(position int, typ model.FieldType) (*FieldControlWord, error) {
	if !p.allowField {
		return nil, ErrNotAllowed
	}
	if position < 0 {
		return nil, invalid("Paragraph.AddControlWord", "position", position, "must not be negative")
	}
	if typ.Instruction() == "" {
		return nil, invalid("Paragraph.AddControlWord", "field type", int(typ), "unknown field")
	}
	fw := &FieldControlWord{position: position, typ: typ}
	p.fields = append(p.fields, fw)
	return fw, nil
}

// span resolves the covered half-open rune interval of f, clamped to
// [0, n]. A range added before SetText shortened the text covers only
// what is left of it.
func (f *CharFormat) span(n int) (lo, hi int) {
	if f.begin == -1 && f.end == -1 {
		return 0, n
	}
	return min(f.begin, n), min(f.end+1, n)
}

// anchorOffset maps "after the character at position" to a cut point.
func anchorOffset(position, n int) int {
	if position+1 > n {
		return n
	}
	return position + 1
}

// inlineAnchors collects the tokens placed between characters, keyed by
// cut point. Bookmark ends come first, then footnotes and fields in
// insertion order, then bookmark starts.
func (p *Paragraph) inlineAnchors(ctx renderContext) map[int]string {
	n := len(p.text)
	ends := make(map[int][]string)
	mids := make(map[int][]string)
	starts := make(map[int][]string)

	for _, f := range p.formats {
		if f.bookmark == "" {
			continue
		}
		lo, hi := f.span(n)
		name := rtftext.Escape(f.bookmark)
		starts[lo] = append(starts[lo], `{\*\bkmkstart `+name+`}`)
		ends[hi] = append(ends[hi], `{\*\bkmkend `+name+`}`)
	}

	for _, fn := range p.footnotes {
		at := anchorOffset(fn.position, n)
		mids[at] = append(mids[at], fn.render(ctx))
	}
	for _, fw := range p.fields {
		at := anchorOffset(fw.position, n)
		mids[at] = append(mids[at], fw.render())
	}

	out := make(map[int]string)
	for _, m := range []map[int][]string{ends, mids, starts} {
		for at, toks := range m {
			out[at] += strings.Join(toks, "")
		}
	}
	return out
}

// renderRuns partitions the text at every format boundary and anchor,
// computes the effective format of each elementary segment and merges
// neighbours with equal formats into runs.
func (p *Paragraph) renderRuns(ctx renderContext) string {
	n := len(p.text)
	base := ctx.defaults.overlay(p.defaultFormat.effective())
	anchors := p.inlineAnchors(ctx)

	cutSet := map[int]bool{0: true, n: true}
	for _, f := range p.formats {
		lo, hi := f.span(n)
		cutSet[lo] = true
		cutSet[hi] = true
	}
	for at := range anchors {
		cutSet[at] = true
	}
	cuts := make([]int, 0, len(cutSet))
	for c := range cutSet {
		cuts = append(cuts, c)
	}
	sort.Ints(cuts)

	var sb strings.Builder
	sb.WriteString(anchors[0])

	runStart := 0
	var runProps charProps
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		props := base
		for _, f := range p.formats {
			flo, fhi := f.span(n)
			if flo <= lo && hi <= fhi {
				props = props.overlay(f.props)
			}
		}

		switch {
		case i == 0:
			runProps = props
		case anchors[lo] != "" || props != runProps:
			sb.WriteString(runProps.renderRun(rtftext.EscapeRunes(p.text[runStart:lo])))
			sb.WriteString(anchors[lo])
			runStart = lo
			runProps = props
		}
	}
	if n > 0 {
		sb.WriteString(runProps.renderRun(rtftext.EscapeRunes(p.text[runStart:n])))
		sb.WriteString(anchors[n])
	}
	return sb.String()
}

// formatWords returns the paragraph formatting control words that follow
// the block head.
func (p *Paragraph) formatWords() string {
	var sb strings.Builder
	if p.StartNewPage {
		sb.WriteString(`\pagebb`)
	}
	sb.WriteString(`\fi` + strconv.Itoa(model.Twips(p.FirstLineIndent)))
	sb.WriteString(`\` + p.direction.Token() + "par")
	sb.WriteString(p.Alignment.ParagraphToken())
	sb.WriteString(marginWords(p.Margins))
	if p.LineSpacing >= 0 {
		sb.WriteString(`\sl-` + strconv.Itoa(model.Twips(p.LineSpacing)) + `\slmult0`)
	}
	return sb.String()
}

// marginWords renders the positive paragraph margins.
func marginWords(m model.Margins) string {
	var sb strings.Builder
	if m.Left > 0 {
		sb.WriteString(`\li` + strconv.Itoa(model.Twips(m.Left)))
	}
	if m.Right > 0 {
		sb.WriteString(`\ri` + strconv.Itoa(model.Twips(m.Right)))
	}
	if m.Top > 0 {
		sb.WriteString(`\sb` + strconv.Itoa(model.Twips(m.Top)))
	}
	if m.Bottom > 0 {
		sb.WriteString(`\sa` + strconv.Itoa(model.Twips(m.Bottom)))
	}
	return sb.String()
}

func (p *Paragraph) render(ctx renderContext, head, tail string) string {
	var sb strings.Builder
	sb.WriteString(head)
	sb.WriteString(p.formatWords())
	sb.WriteString("\n")
	sb.WriteString(p.renderRuns(ctx))
	sb.WriteString("\n")
	sb.WriteString(tail)
	sb.WriteString("\n")
	return sb.String()
}

// Render returns the RTF of the paragraph as a top-level block.
func (p *Paragraph) Render() string {
	return p.render(renderContext{}, blockHead, blockTail)
}
