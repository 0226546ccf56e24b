// Package epubdoc imports EPUB publications into a document block list.
// Each chapter in the spine is imported with htmldoc; images are read from
// the archive.
package epubdoc

import (
	"time"

	"github.com/tsawler/rtfwriter/htmldoc"
)

// Package represents the parsed OPF document.
type Package struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // keyed by ID
	Spine    []SpineItem
	Version  string // "2.0" or "3.0"
	NCX      string // manifest ID of the EPUB 2 navigation file, if named
}

// Metadata contains EPUB metadata (Dublin Core).
type Metadata struct {
	Title       string
	Creator     []string
	Language    string
	Identifier  string
	Publisher   string
	Date        string
	Description string
	Subjects    []string
	Rights      string
	Modified    time.Time
}

// ManifestItem represents a file in the EPUB.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string // "nav", "cover-image", etc.
}

// SpineItem represents a content document in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// Chapter is one content document from the spine.
type Chapter struct {
	ID     string
	Title  string
	Index  int    // position in the spine
	Href   string // archive path
	Linear bool
	// Content is the raw XHTML.
	Content []byte
}

// TableOfContents represents the navigation structure.
type TableOfContents struct {
	Title   string
	Entries []TOCEntry
}

// TOCEntry is a single navigation entry. Href is an archive path with an
// optional fragment.
type TOCEntry struct {
	Title    string
	Href     string
	Children []TOCEntry
}

// Options configures an import.
type Options struct {
	// HTML configures the import of each chapter. FS and BaseDir are set
	// per chapter.
	HTML htmldoc.Options
	// TitlePage adds the title and creators from the metadata before the
	// first chapter.
	TitlePage bool
	// Contents adds the table of contents as a list of links to the
	// chapters.
	Contents bool
	// PageBreaks starts every chapter after the first on a new page.
	PageBreaks bool
	// NonLinear also imports spine items marked linear="no".
	NonLinear bool
}

// DefaultOptions returns the options used by ImportFile when none are given.
func DefaultOptions() Options {
	html := htmldoc.DefaultOptions()
	html.Navigation = htmldoc.NavigationExclusionExplicit
	return Options{
		HTML:       html,
		PageBreaks: true,
	}
}

const (
	titleSize    = 24
	contentsSize = 16
	tocIndent    = 18
)
