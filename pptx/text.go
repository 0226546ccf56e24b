package pptx

import (
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// listIndent is the indent per list level, in points, used when a
// paragraph has no left margin of its own.
const listIndent = 18

// span is a formatted range of paragraph text, [lo, hi) in runes.
type span struct {
	lo, hi int
	rpr    *runPropsXML
}

// textBuilder accumulates the text of one paragraph with its formatting.
type textBuilder struct {
	text  []rune
	spans []span
}

// write appends s formatted with rpr.
func (b *textBuilder) write(s string, rpr *runPropsXML) {
	if s == "" {
		return
	}
	lo := len(b.text)
	b.text = append(b.text, []rune(s)...)
	if rpr != nil {
		b.spans = append(b.spans, span{lo: lo, hi: len(b.text), rpr: rpr})
	}
}

// content adds the runs, fields and breaks of a paragraph. Fields keep
// their cached text; an empty slide number field shows slide.
func (b *textBuilder) content(items []inlineXML, slide int) {
	for _, it := range items {
		switch {
		case it.Break:
			b.write("\n", nil)
		case it.Field == "slidenum" && it.Text == "" && slide > 0:
			b.write(strconv.Itoa(slide), it.Props)
		default:
			b.write(it.Text, it.Props)
		}
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
}

func (b *textBuilder) blank() bool {
	return strings.TrimSpace(string(b.text)) == ""
}

// apply adds a character format per formatted span.
func (b *textBuilder) apply(p *document.Paragraph) error {
	for _, s := range b.spans {
		f, err := p.AddCharFormat(s.lo, s.hi-1)
		if err != nil {
			return err
		}
		if err := applyRunProps(f, s.rpr); err != nil {
			return err
		}
	}
	return nil
}

// applyRunProps sets the character properties of rpr on f. Explicit "off"
// values remove flags set by the paragraph default.
func applyRunProps(f *document.CharFormat, rpr *runPropsXML) error {
	if rpr == nil {
		return nil
	}
	if n := atoi(rpr.Size); n > 0 {
		f.SetFontSize(float64(n) / 100)
	}
	toggle(f, model.Bold, rpr.Bold)
	toggle(f, model.Italic, rpr.Italic)

	switch rpr.Underline {
	case "":
	case "none":
		f.RemoveStyle(model.Underline)
	default:
		f.AddStyle(model.Underline)
	}
	switch rpr.Strike {
	case "":
	case "noStrike":
		f.RemoveStyle(model.Strike)
	default:
		f.AddStyle(model.Strike)
	}
	switch n := atoi(rpr.Baseline); {
	case n > 0:
		f.AddStyle(model.Super)
	case n < 0:
		f.AddStyle(model.Sub)
	}
	if rpr.Cap == "small" {
		f.AddStyle(model.Scaps)
	}

	// Theme fonts such as "+mn-lt" are references, not names.
	if rpr.Latin != nil && rpr.Latin.Typeface != "" && !strings.HasPrefix(rpr.Latin.Typeface, "+") {
		if err := f.SetFontName(rpr.Latin.Typeface); err != nil {
			return err
		}
	}
	if c, err := model.ParseColor(rpr.Fill.color()); err == nil {
		if err := f.SetForegroundColor(c); err != nil {
			return err
		}
	}
	if c, err := model.ParseColor(rpr.Highlight.color()); err == nil {
		if err := f.SetBackgroundColor(c); err != nil {
			return err
		}
	}
	return nil
}

func toggle(f *document.CharFormat, flag model.FontStyleFlag, val string) {
	switch val {
	case "1", "true":
		f.AddStyle(flag)
	case "0", "false":
		f.RemoveStyle(flag)
	}
}

// paragraphFormat sets alignment, indents and spacing from ppr.
func paragraphFormat(p *document.Paragraph, ppr *paraPropsXML) {
	if ppr == nil {
		return
	}
	p.Alignment = alignment(ppr.Align)
	if ppr.MarL != "" {
		p.Margins.Left = emuToPoints(ppr.MarL)
	}
	if ppr.Indent != "" {
		p.FirstLineIndent = emuToPoints(ppr.Indent)
	}
	if v, ok := spacing(ppr.Before); ok {
		p.Margins.Top = v
	}
	if v, ok := spacing(ppr.After); ok {
		p.Margins.Bottom = v
	}
	if v, ok := spacing(ppr.LineSpace); ok && v > 0 {
		p.LineSpacing = v
	}
}

func alignment(val string) model.Align {
	switch val {
	case "ctr":
		return model.AlignCenter
	case "r":
		return model.AlignRight
	case "just", "dist", "justLow", "thaiDist":
		return model.AlignJustify
	default:
		return model.AlignLeft
	}
}

// spacing returns an absolute spacing in points. Percentage spacing is
// not supported.
func spacing(s *spacingXML) (float64, bool) {
	if s == nil || s.Points == nil {
		return 0, false
	}
	n, err := strconv.Atoi(s.Points.Val)
	if err != nil {
		return 0, false
	}
	return float64(n) / 100, true
}

// emuToPoints converts a signed EMU attribute to points.
func emuToPoints(s string) float64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return float64(v) / emuPerPoint
}
