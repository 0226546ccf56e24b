package document

import (
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/internal/rtftext"
	"github.com/tsawler/rtfwriter/model"
)

// propMask records which scalar properties of a charProps are set.
type propMask uint8

const (
	propFont propMask = 1 << iota
	propSize
	propForeground
	propBackground
)

// charProps is the comparable value behind a CharFormat. Unset properties
// are inherited when formats are overlaid.
type charProps struct {
	set      propMask
	font     int
	size     float64
	fg, bg   int
	styleOn  model.FontStyleFlag
	styleOff model.FontStyleFlag
	link     string
	linkTip  string
}

// overlay returns p with every property set in q applied on top.
func (p charProps) overlay(q charProps) charProps {
	if q.set&propFont != 0 {
		p.font = q.font
	}
	if q.set&propSize != 0 {
		p.size = q.size
	}
	if q.set&propForeground != 0 {
		p.fg = q.fg
	}
	if q.set&propBackground != 0 {
		p.bg = q.bg
	}
	p.set |= q.set
	p.styleOn = p.styleOn&^q.styleOff | q.styleOn
	p.styleOff = p.styleOff&^q.styleOn | q.styleOff
	if q.link != "" {
		p.link = q.link
		p.linkTip = q.linkTip
	}
	return p
}

func (p charProps) isEmpty() bool {
	return p.set == 0 && p.styleOn == 0 && p.styleOff == 0 && p.link == ""
}

// controlWords renders the character formatting control words in a fixed
// order: font, size, colors, then style flags.
func (p charProps) controlWords() string {
	var sb strings.Builder
	if p.set&propFont != 0 {
		sb.WriteString(`\f` + strconv.Itoa(p.font))
	}
	if p.set&propSize != 0 {
		sb.WriteString(`\fs` + strconv.Itoa(model.HalfPoints(p.size)))
	}
	if p.set&propForeground != 0 {
		sb.WriteString(`\cf` + strconv.Itoa(p.fg))
	}
	if p.set&propBackground != 0 {
		sb.WriteString(`\chcbpat` + strconv.Itoa(p.bg))
	}
	sb.WriteString(model.ControlWords(p.styleOn, p.styleOff))
	return sb.String()
}

// renderRun wraps already escaped text in the group for p.
func (p charProps) renderRun(text string) string {
	if p.isEmpty() {
		return text
	}
	run := text
	if cw := p.controlWords(); cw != "" {
		run = "{" + cw + " " + text + "}"
	}
	if p.link == "" {
		return run
	}
	inst := `HYPERLINK \\l "` + rtftext.Escape(p.link) + `"`
	if p.linkTip != "" {
		inst += ` \\o "` + rtftext.Escape(p.linkTip) + `"`
	}
	return `{\field{\*\fldinst ` + inst + `}{\fldrslt ` + run + `}}`
}

// CharFormat is a set of character formatting properties. A CharFormat
// obtained from Paragraph.AddCharFormat applies to a range of the
// paragraph's text; the default format of a paragraph or block list applies
// to all text below it.
type CharFormat struct {
	begin, end int
	props      charProps
	bookmark   string
	res        *resources
}

func newCharFormat(begin, end int, res *resources) *CharFormat {
	return &CharFormat{begin: begin, end: end, res: res}
}

// Begin returns the first character offset covered, or -1 for the whole text.
func (f *CharFormat) Begin() int { return f.begin }

// End returns the last character offset covered (inclusive), or -1 for the
// whole text.
func (f *CharFormat) End() int { return f.end }

// SetFont selects a font from the document font table.
func (f *CharFormat) SetFont(font FontDescriptor) *CharFormat {
	f.props.font = font.index
	f.props.set |= propFont
	return f
}

// SetFontName interns name in the document font table and selects it.
func (f *CharFormat) SetFontName(name string) error {
	if f.res == nil {
		return ErrDetached
	}
	f.SetFont(f.res.font(name))
	return nil
}

// Font returns the selected font, if any.
func (f *CharFormat) Font() (FontDescriptor, bool) {
	return FontDescriptor{index: f.props.font}, f.props.set&propFont != 0
}

// SetFontSize sets the font size in points.
func (f *CharFormat) SetFontSize(pt float64) *CharFormat {
	f.props.size = pt
	f.props.set |= propSize
	return f
}

// FontSize returns the font size in points, or 0 if unset.
func (f *CharFormat) FontSize() float64 {
	if f.props.set&propSize == 0 {
		return 0
	}
	return f.props.size
}

// SetForeground selects the text color.
func (f *CharFormat) SetForeground(c ColorDescriptor) *CharFormat {
	f.props.fg = c.index
	f.props.set |= propForeground
	return f
}

// SetBackground selects the character shading color.
func (f *CharFormat) SetBackground(c ColorDescriptor) *CharFormat {
	f.props.bg = c.index
	f.props.set |= propBackground
	return f
}

// SetForegroundColor interns c in the document color table and selects it
// as the text color.
func (f *CharFormat) SetForegroundColor(c model.Color) error {
	if f.res == nil {
		return ErrDetached
	}
	f.SetForeground(f.res.color(c))
	return nil
}

// SetBackgroundColor interns c in the document color table and selects it
// as the shading color.
func (f *CharFormat) SetBackgroundColor(c model.Color) error {
	if f.res == nil {
		return ErrDetached
	}
	f.SetBackground(f.res.color(c))
	return nil
}

// AddStyle switches the given style flags on.
func (f *CharFormat) AddStyle(flags model.FontStyleFlag) *CharFormat {
	f.props.styleOn |= flags
	f.props.styleOff &^= flags
	return f
}

// RemoveStyle explicitly switches the given style flags off, overriding any
// inherited format.
func (f *CharFormat) RemoveStyle(flags model.FontStyleFlag) *CharFormat {
	f.props.styleOff |= flags
	f.props.styleOn &^= flags
	return f
}

// Style returns the flags switched on and the flags switched off.
func (f *CharFormat) Style() (on, off model.FontStyleFlag) {
	return f.props.styleOn, f.props.styleOff
}

// SetBookmark names a bookmark around the formatted range.
func (f *CharFormat) SetBookmark(name string) *CharFormat {
	f.bookmark = name
	return f
}

// Bookmark returns the bookmark name, or "".
func (f *CharFormat) Bookmark() string { return f.bookmark }

// SetLocalHyperlink turns the range into a link to the named bookmark.
// tip is shown as a tooltip by readers that support it and may be empty.
func (f *CharFormat) SetLocalHyperlink(bookmark, tip string) *CharFormat {
	f.props.link = bookmark
	f.props.linkTip = tip
	return f
}

// Link returns the linked bookmark and tooltip, or "" when the range is
// not a link.
func (f *CharFormat) Link() (bookmark, tip string) {
	return f.props.link, f.props.linkTip
}

// IsEmpty returns true if no property is set.
func (f *CharFormat) IsEmpty() bool {
	return f.props.isEmpty() && f.bookmark == ""
}

// ControlWords returns the control words the format renders as.
func (f *CharFormat) ControlWords() string {
	return f.props.controlWords()
}

// CopyFrom sets every property that is set in src.
func (f *CharFormat) CopyFrom(src *CharFormat) {
	if src == nil {
		return
	}
	f.props = f.props.overlay(src.props)
}

// effective returns the properties of a possibly nil format.
func (f *CharFormat) effective() charProps {
	if f == nil {
		return charProps{}
	}
	return f.props
}
