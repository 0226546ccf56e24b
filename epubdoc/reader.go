package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/rtfwriter/model"
)

// Reader-related errors.
var (
	ErrInvalidArchive  = errors.New("epub: invalid or corrupted archive")
	ErrInvalidMimetype = errors.New("epub: invalid mimetype (not an EPUB)")
	ErrMissingContent  = errors.New("epub: referenced content file not found")
)

const epubMimetype = "application/epub+zip"

// Reader provides access to the content of an EPUB archive.
type Reader struct {
	closer   io.Closer
	fsys     fs.FS
	pkg      *Package
	baseDir  string // directory of the OPF, for resolving relative paths
	chapters []*Chapter
	toc      *TableOfContents
	warnings []model.Warning
}

// Open opens an EPUB file from a path.
func Open(filePath string) (*Reader, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// NewReader reads an EPUB archive of size bytes from ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	return newReader(zr)
}

// newReader parses the archive structure: DRM markers, the container, the
// OPF and the chapters in spine order.
func newReader(fsys fs.FS) (*Reader, error) {
	r := &Reader{fsys: fsys}

	// Many readers accept archives without a valid mimetype entry.
	if err := validateMimetype(fsys); err != nil {
		r.warn("%v", err)
	}

	if err := checkForDRM(fsys); err != nil {
		return nil, err
	}

	opfPath, err := parseContainer(fsys)
	if err != nil {
		return nil, err
	}

	pkg, baseDir, err := parseOPF(fsys, opfPath)
	if err != nil {
		return nil, err
	}
	r.pkg = pkg
	r.baseDir = baseDir

	if err := r.loadChapters(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) warn(format string, args ...any) {
	r.warnings = append(r.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// validateMimetype checks that the mimetype entry names an EPUB.
func validateMimetype(fsys fs.FS) error {
	data, err := fs.ReadFile(fsys, "mimetype")
	if err != nil {
		return ErrInvalidMimetype
	}
	if strings.TrimSpace(string(data)) != epubMimetype {
		return ErrInvalidMimetype
	}
	return nil
}

// loadChapters reads every spine item that resolves to a file. Items
// missing from the manifest or the archive are skipped with a warning.
func (r *Reader) loadChapters() error {
	r.chapters = make([]*Chapter, 0, len(r.pkg.Spine))

	for i, spineItem := range r.pkg.Spine {
		item, ok := r.pkg.Manifest[spineItem.IDRef]
		if !ok {
			r.warn("spine item %q skipped: not in manifest", spineItem.IDRef)
			continue
		}

		href := r.resolveHref(item.Href)
		content, err := r.readFile(href)
		if err != nil {
			r.warn("chapter %q skipped: %v", href, err)
			continue
		}

		r.chapters = append(r.chapters, &Chapter{
			ID:      item.ID,
			Title:   chapterTitle(content),
			Index:   i,
			Href:    href,
			Linear:  spineItem.Linear,
			Content: content,
		})
	}

	if len(r.chapters) == 0 {
		return ErrEmptySpine
	}
	return nil
}

// resolveHref resolves a relative href against the OPF base directory.
func (r *Reader) resolveHref(href string) string {
	return resolve(r.baseDir, href)
}

// resolve joins a percent-encoded href to dir, keeping any fragment.
func resolve(dir, href string) string {
	href, frag, _ := strings.Cut(href, "#")
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	if href != "" {
		href = path.Join(dir, href)
	}
	if frag != "" {
		return href + "#" + frag
	}
	return href
}

// readFile reads a file from the archive.
func (r *Reader) readFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMissingContent
	}
	return data, err
}

// chapterTitle returns the <title> of an XHTML document, or the text of
// its first heading.
func chapterTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}
	if t := findFirst(doc, "title"); t != nil {
		if s := extractText(t); s != "" {
			return s
		}
	}
	if h := findFirst(doc, "h1", "h2", "h3", "h4", "h5", "h6"); h != nil {
		return extractText(h)
	}
	return ""
}

// findFirst returns the first element in document order named one of tags.
func findFirst(n *html.Node, tags ...string) *html.Node {
	if n.Type == html.ElementNode {
		for _, tag := range tags {
			if n.Data == tag {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tags...); found != nil {
			return found
		}
	}
	return nil
}

// Close closes the reader and releases resources.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Metadata returns the EPUB metadata.
func (r *Reader) Metadata() Metadata {
	return r.pkg.Metadata
}

// Version returns the package version, "2.0" or "3.0".
func (r *Reader) Version() string {
	return r.pkg.Version
}

// ChapterCount returns the number of chapters.
func (r *Reader) ChapterCount() int {
	return len(r.chapters)
}

// Chapters returns all chapters in spine order.
func (r *Reader) Chapters() []*Chapter {
	return r.chapters
}

// Warnings returns the problems found while opening the archive.
func (r *Reader) Warnings() []model.Warning {
	return append([]model.Warning(nil), r.warnings...)
}
