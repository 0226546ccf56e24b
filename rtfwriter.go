// Package rtfwriter provides a fluent API for building Rich Text Format
// documents.
//
// Basic usage:
//
//	doc, warnings, err := rtfwriter.New().
//	    Paper(model.PaperA4).
//	    Landscape().
//	    Locale("ar-AE").
//	    HTMLFile("report.html").
//	    Document()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", rtfwriter.FormatWarnings(warnings))
//	}
//	err = rtfwriter.Save(doc, "report.rtf")
//
// HTML pages, Word (.docx) and OpenDocument (.odt) documents, EPUB books,
// Excel (.xlsx) workbooks, PowerPoint (.pptx) presentations and images can
// be appended with HTMLFile, DOCXFile, ODTFile, EPUBFile, XLSXFile,
// PPTXFile, Image or File, which picks the importer from the file's
// content.
//
// The builder only sets up the document. For fine-grained control over
// paragraphs, tables and sections use the returned *document.Document
// directly.
package rtfwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/tsawler/rtfwriter/document"
)

// New returns a Builder for an A4 portrait English document.
//
// Example:
//
//	doc, _, err := rtfwriter.New().Paragraph("Hello").Document()
func New() *Builder {
	return &Builder{options: defaultOptions()}
}

// Save renders doc and writes it to filename, replacing any existing file.
func Save(doc *document.Document, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filename, err)
	}
	return nil
}

// Write renders doc to w.
func Write(doc *document.Document, w io.Writer) error {
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	t := rtfwriter.Must(doc.AddTable(2, 2, 400, 12))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument is a helper that wraps a call to Document() and panics if
// the error is non-nil. It discards warnings.
//
// Example:
//
//	doc := rtfwriter.MustDocument(rtfwriter.New().Landscape().Document())
func MustDocument(doc *document.Document, _ []Warning, err error) *document.Document {
	if err != nil {
		panic(err)
	}
	return doc
}
