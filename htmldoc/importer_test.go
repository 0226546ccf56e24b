package htmldoc

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
)

func newDoc() *document.Document {
	return document.New(model.PaperA4, model.Portrait, locale.English)
}

// importDoc imports src into a fresh document and fails on error.
func importDoc(t *testing.T, src string, opts Options) (*document.Document, []model.Warning) {
	t.Helper()
	doc := newDoc()
	warnings, err := Import(strings.NewReader(src), doc, opts)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	return doc, warnings
}

// paragraphs returns the top-level paragraphs of doc.
func paragraphs(doc *document.Document) []*document.Paragraph {
	var ps []*document.Paragraph
	for _, b := range doc.Blocks() {
		if p := b.Paragraph(); p != nil {
			ps = append(ps, p)
		}
	}
	return ps
}

// importText imports src and returns the paragraph texts, one per line.
func importText(t *testing.T, src string, opts Options) string {
	t.Helper()
	doc, _ := importDoc(t, src, opts)
	var texts []string
	for _, p := range paragraphs(doc) {
		texts = append(texts, p.Text())
	}
	return strings.Join(texts, "\n")
}

func texts(ps []*document.Paragraph) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text()
	}
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestImport_Headings(t *testing.T) {
	doc, _ := importDoc(t, `<h1>One</h1><h2>Two</h2><h6>Six</h6>`, DefaultOptions())
	ps := paragraphs(doc)
	if diff := cmp.Diff([]string{"One", "Two", "Six"}, texts(ps)); diff != "" {
		t.Fatalf("paragraph texts mismatch (-want +got):\n%s", diff)
	}

	for i, want := range []float64{24, 18, 8} {
		f := ps[i].DefaultCharFormat()
		if got := f.FontSize(); got != want {
			t.Errorf("heading %d FontSize() = %v, want %v", i, got, want)
		}
		if on, _ := f.Style(); on&model.Bold == 0 {
			t.Errorf("heading %d is not bold", i)
		}
	}
}

func TestImport_ParagraphWhitespaceAndInlineStyles(t *testing.T) {
	doc, _ := importDoc(t, "<p>  Hello \n  <b>bold</b>   and <i>it</i>  </p>", DefaultOptions())
	ps := paragraphs(doc)
	if len(ps) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(ps))
	}
	if got, want := ps[0].Text(), "Hello bold and it"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	formats := ps[0].CharFormats()
	if len(formats) != 2 {
		t.Fatalf("got %d char formats, want 2", len(formats))
	}
	tests := []struct {
		begin, end int
		style      model.FontStyleFlag
	}{
		{6, 9, model.Bold},
		{15, 16, model.Italic},
	}
	for i, tt := range tests {
		f := formats[i]
		if f.Begin() != tt.begin || f.End() != tt.end {
			t.Errorf("format %d range = [%d,%d], want [%d,%d]", i, f.Begin(), f.End(), tt.begin, tt.end)
		}
		if on, _ := f.Style(); on != tt.style {
			t.Errorf("format %d style = %v, want %v", i, on, tt.style)
		}
	}
}

func TestImport_NestedInlineStyles(t *testing.T) {
	doc, _ := importDoc(t, `<p><b>a<i>b</i></b><sup>2</sup><s>x</s><u>y</u><sub>z</sub></p>`, DefaultOptions())
	ps := paragraphs(doc)
	if got := ps[0].Text(); got != "ab2xyz" {
		t.Fatalf("Text() = %q, want %q", got, "ab2xyz")
	}

	var got []model.FontStyleFlag
	for _, f := range ps[0].CharFormats() {
		on, _ := f.Style()
		got = append(got, on)
	}
	want := []model.FontStyleFlag{model.Italic, model.Bold, model.Super, model.Strike, model.Underline, model.Sub}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_LineBreak(t *testing.T) {
	text := importText(t, `<p>first <br> second</p>`, DefaultOptions())
	if text != "first\nsecond" {
		t.Errorf("text = %q, want %q", text, "first\nsecond")
	}
}

func TestImport_LooseTextBecomesParagraph(t *testing.T) {
	text := importText(t, `Loose <b>text</b><p>Para</p>tail`, DefaultOptions())
	if text != "Loose text\nPara\ntail" {
		t.Errorf("text = %q", text)
	}
}

func TestImport_Lists(t *testing.T) {
	src := `<ul>
		<li>One</li>
		<li>Two
			<ol start="3"><li>Three</li><li>Four</li></ol>
		</li>
	</ul>`
	doc, _ := importDoc(t, src, DefaultOptions())
	ps := paragraphs(doc)

	want := []string{"• One", "• Two", "3. Three", "4. Four"}
	if diff := cmp.Diff(want, texts(ps)); diff != "" {
		t.Fatalf("list texts mismatch (-want +got):\n%s", diff)
	}
	for i, indent := range []float64{18, 18, 36, 36} {
		if got := ps[i].Margins.Left; got != indent {
			t.Errorf("item %d Margins.Left = %v, want %v", i, got, indent)
		}
	}
}

func TestImport_ListItemStyleOffsetsIncludePrefix(t *testing.T) {
	doc, _ := importDoc(t, `<ol><li><b>Bold</b> item</li></ol>`, DefaultOptions())
	p := paragraphs(doc)[0]
	if p.Text() != "1. Bold item" {
		t.Fatalf("Text() = %q", p.Text())
	}
	f := p.CharFormats()[0]
	if f.Begin() != 3 || f.End() != 6 {
		t.Errorf("bold range = [%d,%d], want [3,6]", f.Begin(), f.End())
	}
}

func TestImport_Blockquote(t *testing.T) {
	doc, _ := importDoc(t, `<blockquote>Quoted text</blockquote>`, DefaultOptions())
	p := paragraphs(doc)[0]
	if p.Margins.Left != 36 {
		t.Errorf("Margins.Left = %v, want 36", p.Margins.Left)
	}
	if on, _ := p.DefaultCharFormat().Style(); on&model.Italic == 0 {
		t.Error("blockquote paragraph is not italic")
	}
}

func TestImport_PreservesPreformattedText(t *testing.T) {
	doc, warnings := importDoc(t, "<pre>func main() {\n    x := 1\n}\n</pre>", DefaultOptions())
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	p := paragraphs(doc)[0]
	if want := "func main() {\n    x := 1\n}"; p.Text() != want {
		t.Errorf("Text() = %q, want %q", p.Text(), want)
	}
	if _, ok := p.DefaultCharFormat().Font(); !ok {
		t.Error("code font not set")
	}
	if diff := cmp.Diff([]string{"Times New Roman", "Courier New"}, doc.Fonts()); diff != "" {
		t.Errorf("font table mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_SkipsScriptAndStyle(t *testing.T) {
	text := importText(t, `<html><head><title>T</title><style>p{}</style></head>
		<body><script>var x;</script><p>Visible</p><noscript>No</noscript></body></html>`, DefaultOptions())
	if text != "Visible" {
		t.Errorf("text = %q, want %q", text, "Visible")
	}
}

func TestImport_LocalLinksAndBookmarks(t *testing.T) {
	doc, _ := importDoc(t, `<h2 id="intro">Intro</h2>
		<p>See <a href="#intro" title="Go there">the intro</a> or <a href="https://x.example">site</a>.</p>`,
		DefaultOptions())
	ps := paragraphs(doc)

	var bookmark string
	for _, f := range ps[0].CharFormats() {
		if f.Bookmark() != "" {
			bookmark = f.Bookmark()
		}
	}
	if bookmark != "intro" {
		t.Errorf("heading bookmark = %q, want %q", bookmark, "intro")
	}

	if got := len(ps[1].CharFormats()); got != 1 {
		t.Errorf("got %d link formats, want 1", got)
	}
	rtf := ps[1].Render()
	if want := `HYPERLINK \\l "intro" \\o "Go there"`; !strings.Contains(rtf, want) {
		t.Errorf("Render() = %q, want it to contain %q", rtf, want)
	}
}

func TestImport_Direction(t *testing.T) {
	doc, _ := importDoc(t, `<div dir="rtl"><p>right</p><p dir="ltr">left</p></div><p>default</p>`, DefaultOptions())
	ps := paragraphs(doc)
	want := []model.Direction{model.RightToLeft, model.LeftToRight, model.LeftToRight}
	for i, d := range want {
		if got := ps[i].Direction(); got != d {
			t.Errorf("paragraph %d Direction() = %v, want %v", i, got, d)
		}
	}
}

func TestImport_AutoDirection(t *testing.T) {
	doc, _ := importDoc(t, `<p dir="auto">مرحبا بالعالم</p><p dir="auto">Hello</p><p dir="auto">123</p>`, DefaultOptions())
	ps := paragraphs(doc)
	want := []model.Direction{model.RightToLeft, model.LeftToRight, model.LeftToRight}
	for i, d := range want {
		if got := ps[i].Direction(); got != d {
			t.Errorf("paragraph %d Direction() = %v, want %v", i, got, d)
		}
	}
}

func TestImport_Table(t *testing.T) {
	src := `<table>
		<thead><tr><th colspan="2">Head</th><th>C</th></tr></thead>
		<tbody>
			<tr><td rowspan="2" valign="middle" bgcolor="#FF0000">Tall</td><td>b</td><td align="right">c</td></tr>
			<tr><td>e</td><td>f</td></tr>
		</tbody>
	</table>`
	doc, warnings := importDoc(t, src, DefaultOptions())
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	blocks := doc.Blocks()
	if len(blocks) != 1 || blocks[0].Table() == nil {
		t.Fatalf("got blocks %v, want a single table", blocks)
	}
	tbl := blocks[0].Table()
	if tbl.RowCount() != 3 || tbl.ColCount() != 3 {
		t.Fatalf("table is %dx%d, want 3x3", tbl.RowCount(), tbl.ColCount())
	}
	if tbl.Width() != 450 {
		t.Errorf("Width() = %v, want 450", tbl.Width())
	}

	head := tbl.Cell(0, 0)
	if head.ColSpan() != 2 || tbl.Cell(0, 1) != head {
		t.Errorf("header cell span = %d, want 2 covering (0,1)", head.ColSpan())
	}
	tall := tbl.Cell(1, 0)
	if tall.RowSpan() != 2 || tbl.Cell(2, 0) != tall {
		t.Errorf("tall cell span = %d, want 2 covering (2,0)", tall.RowSpan())
	}
	if tall.VerticalAlignment != model.VAlignMiddle {
		t.Errorf("VerticalAlignment = %v, want middle", tall.VerticalAlignment)
	}
	if _, ok := tall.Background(); !ok {
		t.Error("background color not set")
	}

	cellText := func(c *document.Cell) string {
		bs := c.Blocks()
		if len(bs) == 0 || bs[0].Paragraph() == nil {
			return ""
		}
		return bs[0].Paragraph().Text()
	}
	got := []string{cellText(head), cellText(tbl.Cell(0, 2)), cellText(tall), cellText(tbl.Cell(1, 1)),
		cellText(tbl.Cell(1, 2)), cellText(tbl.Cell(2, 1)), cellText(tbl.Cell(2, 2))}
	if diff := cmp.Diff([]string{"Head", "C", "Tall", "b", "c", "e", "f"}, got); diff != "" {
		t.Errorf("cell texts mismatch (-want +got):\n%s", diff)
	}

	hp := head.Blocks()[0].Paragraph()
	if on, _ := hp.DefaultCharFormat().Style(); on&model.Bold == 0 {
		t.Error("header cell is not bold")
	}
	if a := tbl.Cell(1, 2).Blocks()[0].Paragraph().Alignment; a != model.AlignRight {
		t.Errorf("Alignment = %v, want Right", a)
	}
}

func TestImport_TableFlattenedWhereNotAllowed(t *testing.T) {
	doc := newDoc()
	warnings, err := Import(strings.NewReader(`<table><tr><td>a</td><td>b</td></tr><tr><td>c</td></tr></table>`),
		doc.Header(), DefaultOptions())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "flattened") {
		t.Errorf("warnings = %v, want one flattening warning", warnings)
	}

	var got []string
	for _, b := range doc.Header().Blocks() {
		got = append(got, b.Paragraph().Text())
	}
	if diff := cmp.Diff([]string{"a\tb", "c"}, got); diff != "" {
		t.Errorf("flattened rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_Placement(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<table>
		<tr><td rowspan="2">A</td><td>B</td><td rowspan="x">C</td></tr>
		<tr><td colspan="2">D</td></tr>
	</table>`))
	if err != nil {
		t.Fatal(err)
	}
	pt := parseTable(findElement(doc, "table"))
	if pt.rows != 2 || pt.cols != 3 {
		t.Fatalf("grid is %dx%d, want 2x3", pt.rows, pt.cols)
	}

	type pos struct{ Row, Col, RowSpan, ColSpan int }
	var got []pos
	for _, c := range pt.cells {
		got = append(got, pos{c.row, c.col, c.rowSpan, c.colSpan})
	}
	want := []pos{{0, 0, 2, 1}, {0, 1, 1, 1}, {0, 2, 1, 1}, {1, 1, 1, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("placement mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_DataURIImage(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	doc, warnings := importDoc(t, `<p>Logo <img src="`+uri+`" alt="logo"></p>`, DefaultOptions())
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want paragraph and image", len(blocks))
	}
	img := blocks[1].Image()
	if img == nil {
		t.Fatalf("second block is %v, want Image", blocks[1].Type())
	}
	src := img.Source()
	if src.Width != 4 || src.Height != 2 || src.AltText != "logo" {
		t.Errorf("image = %dx%d alt %q, want 4x2 alt %q", src.Width, src.Height, src.AltText, "logo")
	}
}

func TestImport_ImageWarnings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"remote", "https://example.com/a.png", "remote image"},
		{"relative without base", "a.png", "no base directory"},
		{"bad data uri", "data:image/png,abc", "base64"},
		{"missing file", "/does/not/exist.png", "skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, warnings := importDoc(t, `<img src="`+tt.src+`">`, DefaultOptions())
			if doc.Len() != 0 {
				t.Errorf("got %d blocks, want none", doc.Len())
			}
			if len(warnings) != 1 || !strings.Contains(warnings[0].Message, tt.want) {
				t.Errorf("warnings = %v, want one containing %q", warnings, tt.want)
			}
		})
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}
	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte(`<h1>Title</h1><img src="pic.png">`), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := newDoc()
	warnings, err := ImportFile(page, doc, Options{})
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	blocks := doc.Blocks()
	if len(blocks) != 2 || blocks[1].Type() != model.BlockTypeImage {
		t.Errorf("got %d blocks, want heading and image", len(blocks))
	}
}

func TestImport_ImagesFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"OEBPS/images/pic.png": {Data: pngBytes(t)},
		"cover.png":            {Data: pngBytes(t)},
	}
	opts := DefaultOptions()
	opts.FS = fsys
	opts.BaseDir = "OEBPS/text"

	doc, warnings := importDoc(t, `<img src="../images/pic.png"><img src="/cover.png"><img src="missing.png">`, opts)
	if doc.Len() != 2 {
		t.Errorf("got %d blocks, want 2 images", doc.Len())
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "missing.png") {
		t.Errorf("warnings = %v, want one for missing.png", warnings)
	}
}

func TestImportFile_NotFound(t *testing.T) {
	_, err := ImportFile("/nonexistent/page.html", newDoc(), DefaultOptions())
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{Navigation: NavigationExclusionStandard}.withDefaults()
	want := DefaultOptions()
	want.Navigation = NavigationExclusionStandard
	if got != want {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}
}
