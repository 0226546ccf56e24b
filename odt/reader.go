// Package odt imports OpenDocument Text (.odt) documents into a document
// block list.
package odt

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	contentPart = "content.xml"
	stylesPart  = "styles.xml"
	metaPart    = "meta.xml"

	// textMIME prefixes the mimetype of text documents, text templates
	// and master documents.
	textMIME = "application/vnd.oasis.opendocument.text"
)

// ErrNotODT is returned when an archive is not an OpenDocument text
// document.
var ErrNotODT = errors.New("odt: not an OpenDocument text document")

// Metadata holds the document properties of meta.xml.
type Metadata struct {
	Title       string
	Subject     string
	Description string
	Author      string
	Language    string
	Keywords    []string
}

// Reader provides access to the parts of an ODT package.
type Reader struct {
	closer  io.Closer
	files   map[string]*zip.File
	content *contentXML
	styles  *styleResolver
	masters []masterPageXML
	meta    Metadata
}

// Open opens an ODT file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// NewReader reads an ODT package of size bytes from ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// The mimetype entry is optional, but when present it must name a
	// text document.
	if r.files["mimetype"] != nil {
		data, err := r.read("mimetype")
		if err != nil {
			return nil, fmt.Errorf("reading mimetype: %w", err)
		}
		if mime := strings.TrimSpace(string(data)); !strings.HasPrefix(mime, textMIME) {
			return nil, fmt.Errorf("%w: mimetype %s", ErrNotODT, mime)
		}
	}
	if r.files[contentPart] == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotODT, contentPart)
	}

	r.content = &contentXML{}
	if err := r.decode(contentPart, r.content); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	if r.content.Body.Text == nil {
		return nil, fmt.Errorf("%w: no text body", ErrNotODT)
	}

	// Styles and metadata are optional.
	var styles *stylesXML
	if r.files[stylesPart] != nil {
		styles = &stylesXML{}
		if err := r.decode(stylesPart, styles); err != nil {
			return nil, fmt.Errorf("parsing styles: %w", err)
		}
		if styles.MasterStyles != nil {
			r.masters = styles.MasterStyles.MasterPages
		}
	}
	r.styles = newStyleResolver(styles, r.content)

	if r.files[metaPart] != nil {
		var meta metaXML
		if err := r.decode(metaPart, &meta); err != nil {
			return nil, fmt.Errorf("parsing metadata: %w", err)
		}
		m := meta.Meta
		r.meta = Metadata{
			Title:       strings.TrimSpace(m.Title),
			Subject:     strings.TrimSpace(m.Subject),
			Description: strings.TrimSpace(m.Description),
			Author:      strings.TrimSpace(m.Creator),
			Language:    strings.TrimSpace(m.Language),
			Keywords:    m.Keywords,
		}
		if r.meta.Author == "" {
			r.meta.Author = strings.TrimSpace(m.InitialCreator)
		}
	}
	return r, nil
}

// Close releases the file opened by Open. It is a no-op for readers made
// with NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Metadata returns the document properties.
func (r *Reader) Metadata() Metadata {
	m := r.meta
	m.Keywords = append([]string(nil), r.meta.Keywords...)
	return m
}

// read returns the content of a part.
func (r *Reader) read(name string) ([]byte, error) {
	f := r.files[name]
	if f == nil {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decode unmarshals the XML part name into v.
func (r *Reader) decode(name string, v any) error {
	data, err := r.read(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", name, err)
	}
	return nil
}

// masterPage returns the master page of the body: "Standard" when it
// exists, otherwise the first one.
func (r *Reader) masterPage() *masterPageXML {
	for i := range r.masters {
		if r.masters[i].Name == "Standard" {
			return &r.masters[i]
		}
	}
	if len(r.masters) > 0 {
		return &r.masters[0]
	}
	return nil
}

// HasHeader reports whether the document has a page header.
func (r *Reader) HasHeader() bool {
	mp := r.masterPage()
	return mp != nil && mp.Header != nil && len(mp.Header.Blocks) > 0
}

// HasFooter reports whether the document has a page footer.
func (r *Reader) HasFooter() bool {
	mp := r.masterPage()
	return mp != nil && mp.Footer != nil && len(mp.Footer.Blocks) > 0
}
