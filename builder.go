package rtfwriter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/docx"
	"github.com/tsawler/rtfwriter/epubdoc"
	"github.com/tsawler/rtfwriter/format"
	"github.com/tsawler/rtfwriter/htmldoc"
	"github.com/tsawler/rtfwriter/imaging"
	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
	"github.com/tsawler/rtfwriter/odt"
	"github.com/tsawler/rtfwriter/pptx"
	"github.com/tsawler/rtfwriter/xlsx"
)

// Builder provides a fluent interface for setting up a document.
// Each configuration method returns a new Builder instance, making it
// safe for concurrent use and allowing method chaining.
type Builder struct {
	options BuildOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Builder with a deep copy of options.
func (b *Builder) clone() *Builder {
	return &Builder{
		options: b.options.clone(),
		err:     b.err,
	}
}

// fail returns a copy of b carrying err, unless b already failed.
func (b *Builder) fail(err error) *Builder {
	newB := b.clone()
	if newB.err == nil {
		newB.err = err
	}
	return newB
}

func (b *Builder) add(c content) *Builder {
	newB := b.clone()
	newB.options.content = append(newB.options.content, c)
	return newB
}

// ============================================================================
// Page setup
// ============================================================================

// Paper selects the paper size.
//
// Example:
//
//	doc, _, err := rtfwriter.New().Paper(model.PaperLetter).Document()
func (b *Builder) Paper(p model.PaperSize) *Builder {
	newB := b.clone()
	newB.options.paper = p
	return newB
}

// Landscape selects landscape orientation.
func (b *Builder) Landscape() *Builder {
	newB := b.clone()
	newB.options.orientation = model.Landscape
	return newB
}

// Portrait selects portrait orientation. It is the default.
func (b *Builder) Portrait() *Builder {
	newB := b.clone()
	newB.options.orientation = model.Portrait
	return newB
}

// Margins sets the page margins in points.
func (b *Builder) Margins(m model.Margins) *Builder {
	newB := b.clone()
	newB.options.margins = &m
	return newB
}

// ============================================================================
// Language and direction
// ============================================================================

// Locale sets the document language from a BCP 47 tag such as "en-US" or
// "ar-AE". The language decides the document's default direction.
//
// Example:
//
//	doc, _, err := rtfwriter.New().Locale("he-IL").Document()
func (b *Builder) Locale(tag string) *Builder {
	t, err := locale.Parse(tag)
	if err != nil {
		return b.fail(err)
	}
	return b.Language(t)
}

// Language sets the document language from a parsed tag.
func (b *Builder) Language(tag language.Tag) *Builder {
	newB := b.clone()
	newB.options.tag = tag
	newB.options.hasTag = true
	return newB
}

// Lcid sets the document language from a Windows locale identifier. It
// clears any language set by Locale or Language.
func (b *Builder) Lcid(l locale.Lcid) *Builder {
	newB := b.clone()
	newB.options.lcid = l
	newB.options.hasTag = false
	return newB
}

// Direction overrides the direction derived from the language.
func (b *Builder) Direction(d model.Direction) *Builder {
	newB := b.clone()
	newB.options.direction = d
	newB.options.hasDirection = true
	return newB
}

// DefaultFont replaces the document's default font.
func (b *Builder) DefaultFont(name string) *Builder {
	newB := b.clone()
	newB.options.defaultFont = name
	return newB
}

// ============================================================================
// Content
// ============================================================================

// Paragraph appends a paragraph of plain text.
func (b *Builder) Paragraph(text string) *Builder {
	return b.add(content{kind: contentParagraph, text: text})
}

// HTML reads HTML from r and appends its content. r is read immediately.
func (b *Builder) HTML(r io.Reader) *Builder {
	data, err := io.ReadAll(r)
	if err != nil {
		return b.fail(fmt.Errorf("reading HTML: %w", err))
	}
	return b.add(content{kind: contentHTML, text: string(data)})
}

// HTMLFile appends the content of an HTML file. Relative image paths in the
// file resolve against its directory.
func (b *Builder) HTMLFile(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// DOCXFile appends the body of a Word document. The document's default
// page header and footer are imported into the header and footer.
func (b *Builder) DOCXFile(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// EPUBFile appends the chapters of an EPUB publication.
func (b *Builder) EPUBFile(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// XLSXFile appends one table per visible worksheet of an Excel workbook.
func (b *Builder) XLSXFile(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// PPTXFile appends the slides of a PowerPoint presentation. Each slide
// after the first starts a new page unless PPTXOptions turns that off.
func (b *Builder) PPTXFile(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// ODTFile appends the body of an OpenDocument text document. The header
// and footer of its default master page are imported into the header and
// footer.
func (b *Builder) ODTFile(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// File appends a file of any supported kind, chosen by its content and
// then its extension.
func (b *Builder) File(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// Image appends an image file. JPEG and PNG are embedded as is; GIF, BMP,
// TIFF and WebP are converted to PNG.
func (b *Builder) Image(path string) *Builder {
	return b.add(content{kind: contentFile, text: path})
}

// ImageData appends an encoded image.
func (b *Builder) ImageData(data []byte) *Builder {
	return b.add(content{kind: contentImage, data: data})
}

// HTMLOptions sets the options used for HTML content.
//
// Example:
//
//	opts := htmldoc.DefaultOptions()
//	opts.Navigation = htmldoc.NavigationExclusionStandard
//	doc, _, err := rtfwriter.New().HTMLOptions(opts).HTMLFile("page.html").Document()
func (b *Builder) HTMLOptions(opts htmldoc.Options) *Builder {
	newB := b.clone()
	newB.options.html = opts
	return newB
}

// DOCXOptions sets the options used for Word documents.
func (b *Builder) DOCXOptions(opts docx.Options) *Builder {
	newB := b.clone()
	newB.options.docx = opts
	return newB
}

// EPUBOptions sets the options used for EPUB publications.
//
// Example:
//
//	opts := epubdoc.DefaultOptions()
//	opts.Contents = true
//	_, err := rtfwriter.New().EPUBOptions(opts).EPUBFile("book.epub").Save("book.rtf")
func (b *Builder) EPUBOptions(opts epubdoc.Options) *Builder {
	newB := b.clone()
	newB.options.epub = opts
	return newB
}

// XLSXOptions sets the options used for Excel workbooks. A zero Language
// follows the document language.
func (b *Builder) XLSXOptions(opts xlsx.Options) *Builder {
	newB := b.clone()
	newB.options.xlsx = opts
	newB.options.xlsx.Sheets = append([]string(nil), opts.Sheets...)
	return newB
}

// PPTXOptions sets the options used for PowerPoint presentations.
//
// Example:
//
//	opts := pptx.DefaultOptions()
//	opts.Notes = true
//	_, err := rtfwriter.New().PPTXOptions(opts).PPTXFile("talk.pptx").Save("talk.rtf")
func (b *Builder) PPTXOptions(opts pptx.Options) *Builder {
	newB := b.clone()
	newB.options.pptx = opts
	newB.options.pptx.Slides = append([]int(nil), opts.Slides...)
	return newB
}

// DescribeImages gives every picture without alt text a description made
// of the text recognized in it. lang is a Tesseract language list such as
// "eng" or "deu+eng"; empty uses Tesseract's default. Recognition needs a
// build with the "ocr" tag; other builds report a warning.
//
// Example:
//
//	_, err := rtfwriter.New().DescribeImages("eng").HTMLFile("scan.html").Save("scan.rtf")
func (b *Builder) DescribeImages(lang string) *Builder {
	newB := b.clone()
	newB.options.describe = true
	newB.options.ocrLang = lang
	return newB
}

// ODTOptions sets the options used for OpenDocument text documents.
func (b *Builder) ODTOptions(opts odt.Options) *Builder {
	newB := b.clone()
	newB.options.odt = opts
	return newB
}

// ============================================================================
// Terminal operations
// ============================================================================

// Document creates the document and appends the queued content in call
// order.
func (b *Builder) Document() (*document.Document, []Warning, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	o := b.options

	var doc *document.Document
	if o.hasTag {
		doc = document.NewWithLanguage(o.paper, o.orientation, o.tag)
	} else {
		doc = document.New(o.paper, o.orientation, o.lcid)
	}
	if o.hasDirection {
		doc.SetDirection(o.direction)
	}
	if o.margins != nil {
		doc.Margins = *o.margins
	}
	if o.defaultFont != "" {
		doc.SetDefaultFont(o.defaultFont)
	}

	var warnings []Warning
	for _, c := range o.content {
		ws, err := b.addContent(doc, c)
		warnings = append(warnings, ws...)
		if err != nil {
			return nil, warnings, err
		}
	}
	if o.describe {
		warnings = append(warnings, describeImages(doc, o.ocrLang)...)
	}
	return doc, warnings, nil
}

// Save builds the document and writes it to filename.
//
// Example:
//
//	_, err := rtfwriter.New().HTMLFile("in.html").Save("out.rtf")
func (b *Builder) Save(filename string) ([]Warning, error) {
	doc, warnings, err := b.Document()
	if err != nil {
		return warnings, err
	}
	return warnings, Save(doc, filename)
}

// Render builds the document and returns its RTF.
func (b *Builder) Render() (string, []Warning, error) {
	doc, warnings, err := b.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.Render(), warnings, nil
}

func (b *Builder) addContent(doc *document.Document, c content) ([]Warning, error) {
	switch c.kind {
	case contentParagraph:
		doc.AddParagraph().SetText(c.text)
		return nil, nil

	case contentHTML:
		ws, err := htmldoc.Import(strings.NewReader(c.text), doc, b.options.html)
		if err != nil {
			return ws, fmt.Errorf("importing HTML: %w", err)
		}
		return ws, nil

	case contentImage:
		return nil, addImage(doc, c.data)

	case contentFile:
		return b.addFile(doc, c.text)
	}
	return nil, fmt.Errorf("unknown content kind %d", c.kind)
}

// addFile dispatches on the file's format.
func (b *Builder) addFile(doc *document.Document, path string) ([]Warning, error) {
	f, err := format.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	switch {
	case f == format.DOCX:
		return b.addDOCX(doc, path)

	case f == format.ODT:
		return b.addODT(doc, path)

	case f == format.EPUB:
		ws, err := epubdoc.ImportFile(path, doc, b.options.epub)
		if err != nil {
			return ws, fmt.Errorf("importing %s: %w", path, err)
		}
		return ws, nil

	case f == format.XLSX:
		opts := b.options.xlsx
		if opts.Language == language.Und && b.options.hasTag {
			opts.Language = b.options.tag
		}
		ws, err := xlsx.ImportFile(path, doc, opts)
		if err != nil {
			return ws, fmt.Errorf("importing %s: %w", path, err)
		}
		return ws, nil

	case f == format.PPTX:
		ws, err := pptx.ImportFile(path, doc, b.options.pptx)
		if err != nil {
			return ws, fmt.Errorf("importing %s: %w", path, err)
		}
		return ws, nil

	case f == format.HTML:
		ws, err := htmldoc.ImportFile(path, doc, b.options.html)
		if err != nil {
			return ws, fmt.Errorf("importing %s: %w", path, err)
		}
		return ws, nil

	case f.IsImage(), f == format.Unknown:
		img, err := imaging.DecodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading image %s: %w", path, err)
		}
		if _, err := doc.AddImage(img); err != nil {
			return nil, fmt.Errorf("adding image %s: %w", path, err)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported file format: %s", f)
}

// addDOCX imports the body, header and footer of a Word document.
func (b *Builder) addDOCX(doc *document.Document, path string) ([]Warning, error) {
	r, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	opts := b.options.docx
	warnings, err := r.ImportBody(doc, opts)
	if err != nil {
		return warnings, fmt.Errorf("importing %s: %w", path, err)
	}
	if r.HasHeader() {
		ws, err := r.ImportHeader(doc.Header(), opts)
		warnings = append(warnings, ws...)
		if err != nil {
			return warnings, fmt.Errorf("importing header of %s: %w", path, err)
		}
	}
	if r.HasFooter() {
		ws, err := r.ImportFooter(doc.Footer(), opts)
		warnings = append(warnings, ws...)
		if err != nil {
			return warnings, fmt.Errorf("importing footer of %s: %w", path, err)
		}
	}
	return warnings, nil
}

// addODT imports the body, header and footer of an OpenDocument text
// document.
func (b *Builder) addODT(doc *document.Document, path string) ([]Warning, error) {
	r, err := odt.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	opts := b.options.odt
	warnings, err := r.ImportBody(doc, opts)
	if err != nil {
		return warnings, fmt.Errorf("importing %s: %w", path, err)
	}
	ws, err := r.ImportHeader(doc.Header(), opts)
	warnings = append(warnings, ws...)
	if err != nil {
		return warnings, fmt.Errorf("importing header of %s: %w", path, err)
	}
	ws, err = r.ImportFooter(doc.Footer(), opts)
	warnings = append(warnings, ws...)
	if err != nil {
		return warnings, fmt.Errorf("importing footer of %s: %w", path, err)
	}
	return warnings, nil
}

func addImage(doc *document.Document, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	if _, err := doc.AddImage(img); err != nil {
		return fmt.Errorf("adding image: %w", err)
	}
	return nil
}
