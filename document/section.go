package document

import (
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

// DefaultFooterHeight is the distance of a section footer from the bottom
// edge of the page, in points.
const DefaultFooterHeight = 36

// Section is a page-geometry unit of a document. A SectionStart section
// opens a section group carrying its footer and body; a SectionEnd section
// renders its body and closes the group.
type Section struct {
	BlockList
	// FooterHeight is the footer distance from the page bottom in points.
	FooterHeight float64
	// PageWidth and PageHeight override the document paper size for the
	// section, in points. Zero keeps the document setting.
	PageWidth, PageHeight float64
	// Margins override the document page margins for the section.
	Margins model.Margins

	startEnd model.SectionStartEnd
	footer   *SectionFooter
}

func newSection(startEnd model.SectionStartEnd, dir model.Direction, res *resources) *Section {
	s := &Section{
		BlockList:    newBlockList(capsBody, dir, res),
		FooterHeight: DefaultFooterHeight,
		startEnd:     startEnd,
	}
	// s is non-nil, so this cannot fail.
	s.footer, _ = newSectionFooter(s, dir, res)
	return s
}

// StartEnd returns whether the section opens or closes a section group.
func (s *Section) StartEnd() model.SectionStartEnd { return s.startEnd }

// Footer returns the section footer.
func (s *Section) Footer() *SectionFooter { return s.footer }

func (s *Section) header() string {
	var sb strings.Builder
	sb.WriteString(`{\sectd\` + s.direction.Token() + `sect`)
	sb.WriteString(`\footery` + strconv.Itoa(model.Twips(s.FooterHeight)))
	sb.WriteString(`\sectdefaultcl\sftnbj\qd ` + "\n")
	sb.WriteString(`\pgwsxn` + strconv.Itoa(model.Twips(s.PageWidth)))
	sb.WriteString(`\pghsxn` + strconv.Itoa(model.Twips(s.PageHeight)) + " ")
	sb.WriteString(`\marglsxn` + strconv.Itoa(model.Twips(s.Margins.Left)))
	sb.WriteString(`\margrsxn` + strconv.Itoa(model.Twips(s.Margins.Right)))
	sb.WriteString(`\margtsxn` + strconv.Itoa(model.Twips(s.Margins.Top)))
	sb.WriteString(`\margbsxn` + strconv.Itoa(model.Twips(s.Margins.Bottom)) + " ")
	return sb.String()
}

const sectionClose = `\sect }` + "\n"

func (s *Section) render(ctx renderContext) string {
	switch s.startEnd {
	case model.SectionStart:
		return s.header() + s.footer.render(ctx) + s.BlockList.render(ctx)
	case model.SectionEnd:
		return s.BlockList.render(ctx) + sectionClose
	default:
		panic("rtf: section with unknown marker " + s.startEnd.String())
	}
}

// Render returns the RTF of the section. A SectionStart section is left
// open; Document.Render closes it.
func (s *Section) Render() string {
	return s.render(renderContext{})
}

// SectionFooter is the footer of one section.
type SectionFooter struct {
	BlockList
}

func newSectionFooter(s *Section, dir model.Direction, res *resources) (*SectionFooter, error) {
	if s == nil {
		return nil, invalid("newSectionFooter", "section", nil, "a section footer needs a section")
	}
	return &SectionFooter{BlockList: newBlockList(capsSectionFooter, dir, res)}, nil
}

func (f *SectionFooter) render(ctx renderContext) string {
	var sb strings.Builder
	sb.WriteString(`{\footerr \` + f.direction.Token() + `par \pard\plain` + "\n")
	sb.WriteString(`\par ` + "\n")
	sb.WriteString(f.BlockList.render(ctx))
	sb.WriteString(`\par` + "\n")
	sb.WriteString("}\n")
	return sb.String()
}

// Render returns the RTF of the footer.
func (f *SectionFooter) Render() string {
	return f.render(renderContext{})
}
