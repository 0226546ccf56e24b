// Package docx imports Word (.docx) documents into a document block list.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const mainPart = "word/document.xml"

// ErrNotDOCX is returned when an archive lacks the parts of a Word
// document.
var ErrNotDOCX = errors.New("docx: not a Word document")

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

// Reader provides access to the parts of a DOCX package.
type Reader struct {
	closer    io.Closer
	files     map[string]*zip.File
	document  *documentXML
	styles    *styleResolver
	numbering *numberingResolver
	footnotes map[string]*footnoteXML
	rels      map[string]map[string]relationshipXML // part -> id -> relationship
}

// Open opens a DOCX file for reading.
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

// NewReader reads a DOCX package of size bytes from ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		files: make(map[string]*zip.File, len(zr.File)),
		rels:  make(map[string]map[string]relationshipXML),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}
	if r.files[mainPart] == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDOCX, mainPart)
	}

	r.document = &documentXML{}
	if err := r.decode(mainPart, r.document); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Styles, numbering and footnotes are optional.
	var styles *stylesXML
	if r.files["word/styles.xml"] != nil {
		styles = &stylesXML{}
		if err := r.decode("word/styles.xml", styles); err != nil {
			return nil, fmt.Errorf("parsing styles: %w", err)
		}
	}
	r.styles = newStyleResolver(styles)

	var numbering *numberingXML
	if r.files["word/numbering.xml"] != nil {
		numbering = &numberingXML{}
		if err := r.decode("word/numbering.xml", numbering); err != nil {
			return nil, fmt.Errorf("parsing numbering: %w", err)
		}
	}
	r.numbering = newNumberingResolver(numbering)

	r.footnotes = make(map[string]*footnoteXML)
	if r.files["word/footnotes.xml"] != nil {
		notes := &footnotesXML{}
		if err := r.decode("word/footnotes.xml", notes); err != nil {
			return nil, fmt.Errorf("parsing footnotes: %w", err)
		}
		for i := range notes.Footnotes {
			fn := &notes.Footnotes[i]
			if fn.Type == "" || fn.Type == "normal" {
				r.footnotes[fn.ID] = fn
			}
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

// relationships returns the relationships of part, loading them on first
// use. A part without a .rels file has none.
func (r *Reader) relationships(part string) map[string]relationshipXML {
	if rels, ok := r.rels[part]; ok {
		return rels
	}
	rels := make(map[string]relationshipXML)
	name := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	var parsed relationshipsXML
	if r.decode(name, &parsed) == nil {
		for _, rel := range parsed.Relationships {
			rels[rel.ID] = rel
		}
	}
	r.rels[part] = rels
	return rels
}

// target resolves relationship id of part to a part name. external
// reports a link outside the package.
func (r *Reader) target(part, id string) (name string, external bool, ok bool) {
	rel, ok := r.relationships(part)[id]
	if !ok {
		return "", false, false
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return rel.Target, true, true
	}
	if strings.HasPrefix(rel.Target, "/") {
		return strings.TrimPrefix(rel.Target, "/"), false, true
	}
	return path.Join(path.Dir(part), rel.Target), false, true
}

// headerFooterPart returns the part holding the default header (footer
// when footer is true) of the last section, or "" when there is none.
func (r *Reader) headerFooterPart(footer bool) string {
	sect := r.document.Body.SectPr
	if sect == nil {
		return ""
	}
	refs := sect.HeaderRefs
	if footer {
		refs = sect.FooterRefs
	}
	var id string
	for _, ref := range refs {
		if ref.Type == "default" || ref.Type == "" {
			id = ref.ID
			break
		}
	}
	if id == "" {
		return ""
	}
	name, external, ok := r.target(mainPart, id)
	if !ok || external || r.files[name] == nil {
		return ""
	}
	return name
}

// HasHeader reports whether the document has a default page header.
func (r *Reader) HasHeader() bool { return r.headerFooterPart(false) != "" }

// HasFooter reports whether the document has a default page footer.
func (r *Reader) HasFooter() bool { return r.headerFooterPart(true) != "" }
