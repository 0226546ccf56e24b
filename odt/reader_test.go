package odt

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const namespaces = `xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" ` +
	`xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" ` +
	`xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" ` +
	`xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" ` +
	`xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0" ` +
	`xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" ` +
	`xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0" ` +
	`xmlns:xlink="http://www.w3.org/1999/xlink" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" ` +
	`xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0"`

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// contentDoc builds content.xml from automatic styles and body content.
func contentDoc(autoStyles, body string) string {
	return xmlHeader + `<office:document-content ` + namespaces + `>` +
		`<office:automatic-styles>` + autoStyles + `</office:automatic-styles>` +
		`<office:body><office:text>` + body + `</office:text></office:body></office:document-content>`
}

// stylesDoc builds styles.xml from font faces, named styles and master
// pages.
func stylesDoc(fonts, styles, masters string) string {
	return xmlHeader + `<office:document-styles ` + namespaces + `>` +
		`<office:font-face-decls>` + fonts + `</office:font-face-decls>` +
		`<office:styles>` + styles + `</office:styles>` +
		`<office:master-styles>` + masters + `</office:master-styles></office:document-styles>`
}

// textBody returns parts holding only content.xml with body.
func textBody(content string) map[string]string {
	return map[string]string{contentPart: contentDoc("", content)}
}

// packageBytes zips parts into an ODT package. A non-empty mimetype is
// stored first, uncompressed, as ODF requires.
func packageBytes(t *testing.T, mimetype string, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if mimetype != "" {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
		if err != nil {
			t.Fatalf("failed to create mimetype: %v", err)
		}
		w.Write([]byte(mimetype))
	}

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// createTestODT writes parts to a temporary .odt file.
func createTestODT(t *testing.T, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.odt")
	if err := os.WriteFile(path, packageBytes(t, textMIME, parts), 0o644); err != nil {
		t.Fatalf("failed to write ODT: %v", err)
	}
	return path
}

func newTestReader(t *testing.T, parts map[string]string) *Reader {
	t.Helper()
	data := packageBytes(t, textMIME, parts)
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	return r
}

func TestOpen(t *testing.T) {
	path := createTestODT(t, textBody(`<text:p>Hello, World!</text:p>`))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(r.content.Body.Text.Blocks) != 1 {
		t.Errorf("blocks = %d, want 1", len(r.content.Body.Text.Blocks))
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	spreadsheet := xmlHeader + `<office:document-content ` + namespaces + `>` +
		`<office:body><office:spreadsheet/></office:body></office:document-content>`

	tests := []struct {
		name     string
		mimetype string
		parts    map[string]string
		notODT   bool
	}{
		{"missing content", textMIME, map[string]string{"styles.xml": stylesDoc("", "", "")}, true},
		{"spreadsheet mimetype", "application/vnd.oasis.opendocument.spreadsheet", textBody(`<text:p/>`), true},
		{"spreadsheet body", "", map[string]string{contentPart: spreadsheet}, true},
		{"malformed content", textMIME, map[string]string{contentPart: "<office:document-content"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := packageBytes(t, tt.mimetype, tt.parts)
			_, err := NewReader(bytes.NewReader(data), int64(len(data)))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNotODT) != tt.notODT {
				t.Errorf("errors.Is(%v, ErrNotODT) = %v, want %v", err, !tt.notODT, tt.notODT)
			}
		})
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.odt")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := NewReader(bytes.NewReader([]byte("not a zip")), 9); err == nil {
		t.Error("expected error for non-ZIP data")
	}
}

func TestOpen_TemplateMimetype(t *testing.T) {
	data := packageBytes(t, "application/vnd.oasis.opendocument.text-template", textBody(`<text:p>x</text:p>`))
	if _, err := NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Errorf("NewReader failed for a text template: %v", err)
	}
}

func TestReader_Metadata(t *testing.T) {
	meta := xmlHeader + `<office:document-meta ` + namespaces + `><office:meta>
    <dc:title> Annual Report </dc:title>
    <dc:subject>Finance</dc:subject>
    <meta:initial-creator>Sam Doe</meta:initial-creator>
    <dc:language>en-GB</dc:language>
    <meta:keyword>budget</meta:keyword>
    <meta:keyword>2024</meta:keyword>
  </office:meta></office:document-meta>`
	parts := textBody(`<text:p/>`)
	parts[metaPart] = meta

	got := newTestReader(t, parts).Metadata()
	want := Metadata{
		Title:    "Annual Report",
		Subject:  "Finance",
		Author:   "Sam Doe",
		Language: "en-GB",
		Keywords: []string{"budget", "2024"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Metadata() mismatch (-want +got):\n%s", diff)
	}

	if m := newTestReader(t, textBody(`<text:p/>`)).Metadata(); m.Title != "" || m.Keywords != nil {
		t.Errorf("Metadata() without meta.xml = %+v, want empty", m)
	}
}

func TestReader_Blocks(t *testing.T) {
	content := `
<text:sequence-decls><text:sequence-decl text:name="Table"/></text:sequence-decls>
<text:h text:outline-level="2">Heading</text:h>
<text:section text:name="S1"><text:p>In section</text:p></text:section>
<text:tracked-changes><text:changed-region><text:deletion><text:p>Deleted</text:p></text:deletion></text:changed-region></text:tracked-changes>
<text:list text:style-name="L1" text:continue-numbering="true">
  <text:list-header><text:p>Header</text:p></text:list-header>
  <text:list-item text:start-value="4"><text:p>Item</text:p></text:list-item>
</text:list>
<table:table table:name="T">
  <table:table-columns><table:table-column table:number-columns-repeated="2"/></table:table-columns>
  <table:table-header-rows><table:table-row><table:table-cell table:number-columns-spanned="2"><text:p>H</text:p></table:table-cell><table:covered-table-cell/></table:table-row></table:table-header-rows>
  <table:table-row table:number-rows-repeated="2"><table:table-cell table:number-columns-repeated="2"/></table:table-row>
</table:table>`
	blocks := newTestReader(t, textBody(content)).content.Body.Text.Blocks
	if len(blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(blocks))
	}

	h := blocks[0].Paragraph
	if h == nil || !h.Heading || h.OutlineLevel != 2 {
		t.Errorf("first block = %+v, want a level 2 heading", h)
	}
	if p := blocks[1].Paragraph; p == nil || p.Heading {
		t.Errorf("second block = %+v, want the section paragraph", p)
	}

	l := blocks[2].List
	if l == nil || l.StyleName != "L1" || !l.ContinueNumbering || len(l.Items) != 2 {
		t.Fatalf("third block = %+v, want list L1 with two items", l)
	}
	if !l.Items[0].Header || l.Items[1].Header || l.Items[1].StartValue != 4 {
		t.Errorf("items = %+v, want a header then an item starting at 4", l.Items)
	}

	tbl := blocks[3].Table
	if tbl == nil || tbl.Name != "T" {
		t.Fatalf("fourth block = %+v, want table T", tbl)
	}
	if len(tbl.Columns) != 1 || tbl.Columns[0].Repeated != 2 {
		t.Errorf("columns = %+v, want one repeated twice", tbl.Columns)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1].Repeated != 2 {
		t.Fatalf("rows = %+v, want a header row and a repeated row", tbl.Rows)
	}
	head := tbl.Rows[0].Cells
	if len(head) != 2 || head[0].ColSpan != 2 || !head[1].Covered {
		t.Errorf("header cells = %+v, want a spanning and a covered cell", head)
	}
}

func TestReader_InlineContent(t *testing.T) {
	content := `<text:p text:style-name="P1">a<text:span text:style-name="T1">b<text:s text:c="3"/></text:span>` +
		`<text:a xlink:href="#top">c</text:a><text:tab/><text:line-break/>` +
		`<text:page-number>7</text:page-number><text:bookmark text:name="here"/>` +
		`<office:annotation><text:p>comment</text:p></office:annotation>` +
		`<text:note text:note-class="footnote"><text:note-citation>1</text:note-citation><text:note-body><text:p>Note</text:p></text:note-body></text:note>` +
		`<draw:frame draw:name="Image1" svg:width="2in"><draw:image xlink:href="Pictures/a.png"/><svg:desc>Alt</svg:desc></draw:frame>` +
		`<text:author-name>Kim</text:author-name></text:p>`
	p := newTestReader(t, textBody(content)).content.Body.Text.Blocks[0].Paragraph
	if p.StyleName != "P1" {
		t.Errorf("StyleName = %q, want P1", p.StyleName)
	}

	var kinds []inlineKind
	for _, it := range p.Content {
		kinds = append(kinds, it.kind)
	}
	want := []inlineKind{inlineText, inlineSpan, inlineLink, inlineTab, inlineBreak, inlineField,
		inlineBookmark, inlineNote, inlineFrame, inlineSpan}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("inline kinds mismatch (-want +got):\n%s", diff)
	}

	span := p.Content[1]
	if span.style != "T1" || len(span.children) != 2 || span.children[1].text != "   " {
		t.Errorf("span = %+v, want style T1 with three spaces", span)
	}
	if p.Content[2].href != "#top" {
		t.Errorf("link href = %q, want #top", p.Content[2].href)
	}
	if f := p.Content[5]; f.field != "page-number" || f.text != "7" {
		t.Errorf("field = %+v, want page-number 7", f)
	}
	if n := p.Content[7].note; n.Class != "footnote" || n.Citation != "1" || len(n.Body.Blocks) != 1 {
		t.Errorf("note = %+v", n)
	}
	if f := p.Content[8].frame; f.Name != "Image1" || f.Width != "2in" || f.Image.Href != "Pictures/a.png" || f.Desc != "Alt" {
		t.Errorf("frame = %+v", f)
	}
}
