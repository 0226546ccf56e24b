package rtfwriter

import (
	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/docx"
	"github.com/tsawler/rtfwriter/epubdoc"
	"github.com/tsawler/rtfwriter/htmldoc"
	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
	"github.com/tsawler/rtfwriter/odt"
	"github.com/tsawler/rtfwriter/pptx"
	"github.com/tsawler/rtfwriter/xlsx"
)

// contentKind is the kind of a queued content item.
type contentKind int

const (
	contentParagraph contentKind = iota
	contentHTML
	contentFile
	contentImage
)

// content is one item added to the document body, in call order.
type content struct {
	kind contentKind
	text string // paragraph text, HTML source or file name
	data []byte // encoded image
}

// BuildOptions holds the document configuration collected by a Builder.
type BuildOptions struct {
	paper       model.PaperSize
	orientation model.Orientation

	// Language: a tag wins over an explicit Lcid.
	lcid   locale.Lcid
	tag    language.Tag
	hasTag bool

	direction    model.Direction
	hasDirection bool

	defaultFont string
	margins     *model.Margins

	// OCR descriptions for pictures without alt text.
	describe bool
	ocrLang  string

	html    htmldoc.Options
	docx    docx.Options
	epub    epubdoc.Options
	xlsx    xlsx.Options
	pptx    pptx.Options
	odt     odt.Options
	content []content
}

// defaultOptions returns the default build options.
func defaultOptions() BuildOptions {
	return BuildOptions{
		paper:       model.PaperA4,
		orientation: model.Portrait,
		lcid:        locale.English,
		html:        htmldoc.DefaultOptions(),
		docx:        docx.DefaultOptions(),
		epub:        epubdoc.DefaultOptions(),
		xlsx:        xlsx.DefaultOptions(),
		pptx:        pptx.DefaultOptions(),
		odt:         odt.DefaultOptions(),
	}
}

// clone creates a deep copy of BuildOptions.
func (o BuildOptions) clone() BuildOptions {
	newOpts := o
	if o.margins != nil {
		m := *o.margins
		newOpts.margins = &m
	}
	if o.xlsx.Sheets != nil {
		newOpts.xlsx.Sheets = append([]string(nil), o.xlsx.Sheets...)
	}
	if o.pptx.Slides != nil {
		newOpts.pptx.Slides = append([]int(nil), o.pptx.Slides...)
	}
	if o.content != nil {
		newOpts.content = make([]content, len(o.content))
		copy(newOpts.content, o.content)
	}
	return newOpts
}
