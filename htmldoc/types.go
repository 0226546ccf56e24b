// Package htmldoc imports simple HTML into a document block list.
package htmldoc

import (
	"io/fs"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// Container is anything that accepts blocks: a document body, a section, a
// header or footer, a table cell or a footnote.
type Container interface {
	AddParagraph() *document.Paragraph
	AddParagraphDir(dir model.Direction) *document.Paragraph
	AddTable(rows, cols int, width, fontSize float64) (*document.Table, error)
	AddImage(src model.Image) (*document.Image, error)
}

// NavigationExclusionMode selects which page boilerplate is left out.
type NavigationExclusionMode int

const (
	// NavigationExclusionNone imports everything.
	NavigationExclusionNone NavigationExclusionMode = iota

	// NavigationExclusionExplicit leaves out <nav>, <aside> and the
	// navigation and complementary roles, plus <header>, <footer> and the
	// banner and contentinfo roles at the top level of the page: directly
	// in <body> or in its only wrapper <div> or <main>.
	NavigationExclusionExplicit

	// NavigationExclusionStandard also leaves out elements whose class or
	// id names navigation, a sidebar or a page header or footer.
	// "mainNav" matches like "main-nav".
	NavigationExclusionStandard

	// NavigationExclusionAggressive also leaves out lists and containers
	// that are mostly links.
	NavigationExclusionAggressive
)

// Options configures an import.
type Options struct {
	// Navigation selects which boilerplate elements are skipped.
	Navigation NavigationExclusionMode
	// TableWidth is the total width of imported tables in points.
	TableWidth float64
	// FontSize is the body font size passed to imported tables, in points.
	FontSize float64
	// BaseDir resolves relative <img src> paths. Images with a relative path
	// are skipped with a warning when it is empty.
	BaseDir string
	// FS, when set, serves relative image paths instead of the local disk.
	// BaseDir is then a slash-separated path inside FS.
	FS fs.FS
	// CodeFont is the font used for <pre> and <code> blocks.
	CodeFont string
	// PageRegions imports the top-level page header and footer into the
	// header and footer of the destination when it has them, as a
	// *document.Document does. They are then never left out.
	PageRegions bool
}

// DefaultOptions returns the options used by Import when none are given.
func DefaultOptions() Options {
	return Options{
		Navigation: NavigationExclusionNone,
		TableWidth: 450,
		FontSize:   12,
		CodeFont:   "Courier New",
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TableWidth <= 0 {
		o.TableWidth = d.TableWidth
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.CodeFont == "" {
		o.CodeFont = d.CodeFont
	}
	return o
}

// headingSizes maps h1..h6 to font sizes in points.
var headingSizes = [6]float64{24, 18, 14, 12, 10, 8}

const (
	listIndent       = 18
	blockquoteIndent = 36
	bullet           = "• "
)
