package pptx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/model"
)

const presentationPart = "ppt/presentation.xml"

// emuPerPoint is the number of English Metric Units in a point.
const emuPerPoint = 12700

// ErrNotPPTX is returned when an archive lacks the parts of a presentation.
var ErrNotPPTX = errors.New("pptx: not a PowerPoint presentation")

// Metadata holds the document properties of a presentation.
type Metadata struct {
	Title   string
	Subject string
	Creator string
}

// Slide is one parsed slide.
type Slide struct {
	// Number is the 1-based position of the slide in the presentation.
	Number int
	// Name is the optional slide name.
	Name string
	// Hidden reports a slide hidden from the slide show.
	Hidden bool
	// Title is the text of the title placeholder.
	Title string
	// Notes is the plain text of the speaker notes.
	Notes string

	part  string
	tree  shapeTreeXML
	notes []*txBodyXML
}

// Reader provides access to PPTX document content.
type Reader struct {
	closer      io.Closer
	files       map[string]*zip.File
	rels        map[string]map[string]relationshipXML
	metadata    Metadata
	slideWidth  float64 // points
	slideHeight float64
	slides      []*Slide
	warnings    []model.Warning
}

// Open opens a PPTX file for reading.
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

// NewReader reads a presentation of size bytes from ra.
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
	if r.files[presentationPart] == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotPPTX, presentationPart)
	}

	var pres presentationXML
	if err := r.decode(presentationPart, &pres); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}
	if sz := pres.SlideSize; sz != nil {
		r.slideWidth = float64(sz.CX) / emuPerPoint
		r.slideHeight = float64(sz.CY) / emuPerPoint
	}
	r.parseCoreProperties()

	if err := r.parseSlides(r.slideParts(&pres)); err != nil {
		return nil, err
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

// decode unmarshals a part into v.
func (r *Reader) decode(name string, v any) error {
	data, err := r.read(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

func (r *Reader) warn(format string, args ...any) {
	r.warnings = append(r.warnings, model.Warning{Message: fmt.Sprintf(format, args...)})
}

// relationships returns the relationships of part by ID. A missing or
// broken relationships part yields an empty map.
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
	return resolve(part, rel)
}

func resolve(part string, rel relationshipXML) (string, bool, bool) {
	if strings.EqualFold(rel.TargetMode, "External") {
		return rel.Target, true, true
	}
	if strings.HasPrefix(rel.Target, "/") {
		return strings.TrimPrefix(rel.Target, "/"), false, true
	}
	return path.Join(path.Dir(part), rel.Target), false, true
}

// slideParts lists the slide parts in presentation order. Without a slide
// list the slide parts of the package are taken in numeric order.
func (r *Reader) slideParts(pres *presentationXML) []string {
	var parts []string
	for i, id := range pres.SlideIDList.SlideIDs {
		name, external, ok := r.target(presentationPart, id.RID)
		if !ok || external {
			r.warn("slide %d skipped: missing relationship %s", i+1, id.RID)
			parts = append(parts, "")
			continue
		}
		parts = append(parts, name)
	}
	if len(parts) > 0 {
		return parts
	}

	for name := range r.files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			parts = append(parts, name)
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		return slideNumber(parts[i]) < slideNumber(parts[j])
	})
	return parts
}

// slideNumber extracts the number from a part name like
// "ppt/slides/slide12.xml".
func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	n, _ := strconv.Atoi(strings.TrimSuffix(name, ".xml"))
	return n
}

// parseSlides reads every slide part. An empty string in parts keeps the
// numbering of a slide that could not be located.
func (r *Reader) parseSlides(parts []string) error {
	for i, part := range parts {
		if part == "" {
			continue
		}
		var sx slideXML
		if err := r.decode(part, &sx); err != nil {
			r.warn("slide %d skipped: %v", i+1, err)
			continue
		}
		s := &Slide{
			Number: i + 1,
			Name:   sx.CommonData.Name,
			Hidden: sx.Show == "0" || sx.Show == "false",
			part:   part,
			tree:   sx.CommonData.Tree,
		}
		if title := findTitle(s.tree.Shapes); title != nil {
			s.Title = strings.Join(plainParagraphs(title.TxBody), " ")
		}
		r.parseNotes(s)
		r.slides = append(r.slides, s)
	}
	if len(r.slides) == 0 {
		return fmt.Errorf("%w: no slides found", ErrNotPPTX)
	}
	return nil
}

// parseNotes reads the body placeholders of the slide's notes slide.
func (r *Reader) parseNotes(s *Slide) {
	for _, rel := range r.relationships(s.part) {
		if !strings.HasSuffix(rel.Type, "/notesSlide") {
			continue
		}
		name, external, _ := resolve(s.part, rel)
		if external {
			return
		}
		var nx slideXML
		if err := r.decode(name, &nx); err != nil {
			r.warn("slide %d: notes skipped: %v", s.Number, err)
			return
		}
		var text []string
		for _, sh := range nx.CommonData.Tree.Shapes {
			sp := sh.Text
			if sp == nil || sp.TxBody == nil || placeholderType(sp) != "body" {
				continue
			}
			s.notes = append(s.notes, sp.TxBody)
			text = append(text, plainParagraphs(sp.TxBody)...)
		}
		s.Notes = strings.Join(text, "\n")
		return
	}
}

// parseCoreProperties reads docProps/core.xml, ignoring a broken part.
func (r *Reader) parseCoreProperties() {
	var core corePropertiesXML
	if err := r.decode("docProps/core.xml", &core); err != nil {
		return
	}
	r.metadata = Metadata{
		Title:   strings.TrimSpace(core.Title),
		Subject: strings.TrimSpace(core.Subject),
		Creator: strings.TrimSpace(core.Creator),
	}
}

// placeholderType returns the placeholder type of a shape: "" for shapes
// that are not placeholders and "obj" for placeholders without a type.
func placeholderType(sp *spXML) string {
	ph := sp.NonVisual.App.Placeholder
	switch {
	case ph == nil:
		return ""
	case ph.Type == "":
		return "obj"
	default:
		return ph.Type
	}
}

func isTitle(sp *spXML) bool {
	t := placeholderType(sp)
	return t == "title" || t == "ctrTitle"
}

// findTitle returns the first title placeholder with text, searching
// groups too.
func findTitle(shapes []shapeXML) *spXML {
	for _, sh := range shapes {
		switch {
		case sh.Text != nil && sh.Text.TxBody != nil && isTitle(sh.Text):
			if len(plainParagraphs(sh.Text.TxBody)) > 0 {
				return sh.Text
			}
		case sh.Group != nil:
			if sp := findTitle(sh.Group.Shapes); sp != nil {
				return sp
			}
		}
	}
	return nil
}

// plainParagraphs returns the non-blank paragraphs of body as plain text.
func plainParagraphs(body *txBodyXML) []string {
	if body == nil {
		return nil
	}
	var out []string
	for i := range body.Paragraphs {
		var sb strings.Builder
		for _, it := range body.Paragraphs[i].Content {
			if it.Break {
				sb.WriteByte('\n')
				continue
			}
			sb.WriteString(it.Text)
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Metadata returns the document properties.
func (r *Reader) Metadata() Metadata {
	return r.metadata
}

// SlideSize returns the slide width and height in points, or zeros when
// the presentation does not declare them.
func (r *Reader) SlideSize() (width, height float64) {
	return r.slideWidth, r.slideHeight
}

// Warnings returns the problems found while reading the presentation.
func (r *Reader) Warnings() []model.Warning {
	return append([]model.Warning(nil), r.warnings...)
}

// SlideCount returns the number of slides that could be read.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// Slide returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(r.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.slides)-1)
	}
	return r.slides[index], nil
}

// SlideByNumber returns the slide with the given 1-based number.
func (r *Reader) SlideByNumber(n int) (*Slide, error) {
	for _, s := range r.slides {
		if s.Number == n {
			return s, nil
		}
	}
	return nil, fmt.Errorf("slide %d not found", n)
}
