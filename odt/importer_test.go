package odt

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/locale"
	"github.com/tsawler/rtfwriter/model"
)

func newDoc() *document.Document {
	return document.New(model.PaperA4, model.Portrait, locale.English)
}

// importBody imports the body of parts into a fresh document.
func importBody(t *testing.T, parts map[string]string) (*document.Document, []model.Warning) {
	t.Helper()
	doc := newDoc()
	warnings, err := newTestReader(t, parts).ImportBody(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("ImportBody failed: %v", err)
	}
	return doc, warnings
}

func paragraphs(l *document.BlockList) []*document.Paragraph {
	var ps []*document.Paragraph
	for _, b := range l.Blocks() {
		if p := b.Paragraph(); p != nil {
			ps = append(ps, p)
		}
	}
	return ps
}

func texts(ps []*document.Paragraph) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text()
	}
	return out
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

// ============================================================================
// Paragraph Tests
// ============================================================================

func TestImportBody_Paragraphs(t *testing.T) {
	styles := `
<style:style style:name="P1" style:family="paragraph">
  <style:paragraph-properties fo:text-align="center" fo:margin-top="12pt" fo:margin-bottom="6pt" fo:margin-left="0.5in" fo:text-indent="-18pt"/>
</style:style>
<style:style style:name="T1" style:family="text"><style:text-properties fo:font-weight="bold"/></style:style>
<style:style style:name="T2" style:family="text"><style:text-properties fo:font-style="italic" fo:color="#ff0000"/></style:style>`
	body := `
<text:h text:outline-level="1">Title</text:h>
<text:p text:style-name="P1">Plain <text:span text:style-name="T1">bold</text:span><text:span text:style-name="T2"> red</text:span></text:p>`
	doc, warnings := importBody(t, map[string]string{contentPart: contentDoc(styles, body)})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	ps := paragraphs(&doc.BlockList)
	if diff := cmp.Diff([]string{"Title", "Plain bold red"}, texts(ps)); diff != "" {
		t.Fatalf("paragraphs mismatch (-want +got):\n%s", diff)
	}

	heading := ps[0].DefaultCharFormat()
	if heading.FontSize() != 24 {
		t.Errorf("heading FontSize() = %v, want 24", heading.FontSize())
	}
	if on, _ := heading.Style(); on&model.Bold == 0 {
		t.Error("heading is not bold")
	}

	p := ps[1]
	if p.Alignment != model.AlignCenter {
		t.Errorf("Alignment = %v, want Center", p.Alignment)
	}
	wantMargins := model.Margins{Top: 12, Bottom: 6, Left: 36}
	if p.Margins != wantMargins {
		t.Errorf("Margins = %+v, want %+v", p.Margins, wantMargins)
	}
	if p.FirstLineIndent != -18 {
		t.Errorf("FirstLineIndent = %v, want -18", p.FirstLineIndent)
	}

	formats := p.CharFormats()
	if len(formats) != 2 {
		t.Fatalf("CharFormats() = %d, want 2", len(formats))
	}
	if formats[0].Begin() != 6 || formats[0].End() != 9 {
		t.Errorf("bold range = [%d,%d], want [6,9]", formats[0].Begin(), formats[0].End())
	}
	if on, _ := formats[0].Style(); on != model.Bold {
		t.Errorf("bold Style() = %v, want Bold", on)
	}
	if on, _ := formats[1].Style(); on != model.Italic {
		t.Errorf("italic Style() = %v, want Italic", on)
	}
	if !strings.Contains(doc.Render(), `\red255\green0\blue0;`) {
		t.Error("red not added to the color table")
	}
}

func TestImportBody_Whitespace(t *testing.T) {
	body := `<text:p>  a   b<text:s text:c="2"/>c<text:tab/>d<text:line-break/>  e  </text:p>
<text:p><text:soft-page-break/>x<text:s/></text:p>`
	doc, _ := importBody(t, textBody(body))
	if diff := cmp.Diff([]string{"a b  c\td\ne", "x "}, texts(paragraphs(&doc.BlockList))); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestImportBody_TextProperties(t *testing.T) {
	styles := `
<style:style style:name="P1" style:family="paragraph"><style:text-properties fo:font-weight="bold"/></style:style>
<style:style style:name="T1" style:family="text">
  <style:text-properties style:text-underline-style="solid" style:text-line-through-style="solid" style:text-position="super 58%" fo:font-variant="small-caps"/>
</style:style>
<style:style style:name="T2" style:family="text"><style:text-properties fo:font-weight="normal" style:text-position="-33% 58%"/></style:style>`
	body := `<text:p text:style-name="P1">a<text:span text:style-name="T1">b</text:span><text:span text:style-name="T2">c</text:span></text:p>`
	doc, _ := importBody(t, map[string]string{contentPart: contentDoc(styles, body)})

	p := paragraphs(&doc.BlockList)[0]
	if on, _ := p.DefaultCharFormat().Style(); on != model.Bold {
		t.Errorf("paragraph Style() = %v, want Bold", on)
	}
	formats := p.CharFormats()
	if len(formats) != 2 {
		t.Fatalf("CharFormats() = %d, want 2", len(formats))
	}
	if on, _ := formats[0].Style(); on != model.Underline|model.Strike|model.Super|model.Scaps {
		t.Errorf("T1 Style() = %v", on)
	}
	on, off := formats[1].Style()
	if on != model.Sub || off != model.Bold {
		t.Errorf("T2 Style() = (%v, %v), want (Sub, Bold)", on, off)
	}
}

func TestImportBody_StylesAndDefaults(t *testing.T) {
	fonts := `<style:font-face style:name="Serif" svg:font-family="'Liberation Serif'"/>`
	named := `
<style:default-style style:family="paragraph"><style:text-properties style:font-name="Serif" fo:font-size="16pt"/></style:default-style>
<style:style style:name="Standard" style:family="paragraph"/>
<style:style style:name="Big" style:family="paragraph" style:parent-style-name="Standard">
  <style:paragraph-properties fo:margin-left="0.25in"/>
  <style:text-properties fo:font-size="150%" fo:font-weight="bold"/>
</style:style>`
	auto := `<style:style style:name="P1" style:family="paragraph" style:parent-style-name="Big"><style:paragraph-properties fo:text-align="end"/></style:style>`
	body := `<text:p text:style-name="Standard">Normal text</text:p><text:p text:style-name="P1">Big text</text:p>`
	doc, _ := importBody(t, map[string]string{
		contentPart: contentDoc(auto, body),
		stylesPart:  stylesDoc(fonts, named, ""),
	})

	ps := paragraphs(&doc.BlockList)
	if len(ps) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(ps))
	}
	if size := ps[0].DefaultCharFormat().FontSize(); size != 16 {
		t.Errorf("default FontSize() = %v, want 16", size)
	}
	if diff := cmp.Diff([]string{"Times New Roman", "Liberation Serif"}, doc.Fonts()); diff != "" {
		t.Errorf("Fonts() mismatch (-want +got):\n%s", diff)
	}

	big := ps[1]
	if size := big.DefaultCharFormat().FontSize(); size != 24 {
		t.Errorf("derived FontSize() = %v, want 24", size)
	}
	if on, _ := big.DefaultCharFormat().Style(); on&model.Bold == 0 {
		t.Error("derived style is not bold")
	}
	if big.Margins.Left != 18 || big.Alignment != model.AlignRight {
		t.Errorf("derived paragraph = left %v, %v, want 18, Right", big.Margins.Left, big.Alignment)
	}
}

func TestImportBody_HeadingStyles(t *testing.T) {
	named := `<style:style style:name="Heading_20_3" style:display-name="Heading 3" style:family="paragraph"/>
<style:style style:name="Chapter" style:family="paragraph" style:default-outline-level="2">
  <style:text-properties fo:font-size="20pt"/>
</style:style>`
	body := `<text:h text:style-name="Heading_20_3">Sub</text:h><text:h text:style-name="Chapter">Chapter</text:h>`
	doc, _ := importBody(t, map[string]string{
		contentPart: contentDoc("", body),
		stylesPart:  stylesDoc("", named, ""),
	})

	ps := paragraphs(&doc.BlockList)
	if size := ps[0].DefaultCharFormat().FontSize(); size != 14 {
		t.Errorf("Heading 3 FontSize() = %v, want 14", size)
	}
	if size := ps[1].DefaultCharFormat().FontSize(); size != 20 {
		t.Errorf("styled heading FontSize() = %v, want 20", size)
	}
	for i, p := range ps {
		if on, _ := p.DefaultCharFormat().Style(); on&model.Bold == 0 {
			t.Errorf("heading %d is not bold", i)
		}
	}
}

func TestImportBody_BreaksAndDirection(t *testing.T) {
	styles := `
<style:style style:name="P1" style:family="paragraph"><style:paragraph-properties fo:break-before="page"/></style:style>
<style:style style:name="P2" style:family="paragraph"><style:paragraph-properties style:writing-mode="rl-tb"/></style:style>
<style:style style:name="P3" style:family="paragraph"><style:paragraph-properties style:writing-mode="lr-tb"/></style:style>`
	body := `<text:p>Before</text:p><text:p text:style-name="P1">After</text:p>` +
		`<text:p text:style-name="P2">مرحبا</text:p><text:p text:style-name="P3">Hello</text:p>`
	doc := document.New(model.PaperA4, model.Portrait, locale.Arabic)
	warnings, err := newTestReader(t, map[string]string{contentPart: contentDoc(styles, body)}).
		ImportBody(doc, DefaultOptions())
	if err != nil || len(warnings) != 0 {
		t.Fatalf("ImportBody = %v, %v", warnings, err)
	}

	ps := paragraphs(&doc.BlockList)
	if ps[0].StartNewPage || !ps[1].StartNewPage {
		t.Errorf("StartNewPage = %v, %v, want false, true", ps[0].StartNewPage, ps[1].StartNewPage)
	}
	if ps[2].Direction() != model.RightToLeft || ps[3].Direction() != model.LeftToRight {
		t.Errorf("directions = %v, %v, want RTL, LTR", ps[2].Direction(), ps[3].Direction())
	}
}

// ============================================================================
// List Tests
// ============================================================================

const listStyles = `
<text:list-style style:name="L1">
  <text:list-level-style-number text:level="1" style:num-suffix="." style:num-format="1">
    <style:list-level-properties text:list-level-position-and-space-mode="label-alignment">
      <style:list-level-label-alignment fo:margin-left="0.5in" fo:text-indent="-0.25in"/>
    </style:list-level-properties>
  </text:list-level-style-number>
  <text:list-level-style-number text:level="2" style:num-suffix=")" style:num-format="a" text:display-levels="2"/>
</text:list-style>
<text:list-style style:name="L2">
  <text:list-level-style-bullet text:level="1" text:bullet-char="-"/>
</text:list-style>`

func TestImportBody_Lists(t *testing.T) {
	body := `
<text:list text:style-name="L1">
  <text:list-item><text:p>One</text:p></text:list-item>
  <text:list-item>
    <text:p>Two</text:p>
    <text:list><text:list-item><text:p>Sub</text:p></text:list-item></text:list>
  </text:list-item>
</text:list>
<text:p>Break</text:p>
<text:list text:style-name="L1" text:continue-numbering="true"><text:list-item><text:p>Three</text:p></text:list-item></text:list>
<text:list text:style-name="L1"><text:list-item text:start-value="5"><text:p>Five</text:p></text:list-item></text:list>
<text:list text:style-name="L2"><text:list-item><text:p>Dash</text:p><text:p>More</text:p></text:list-item></text:list>`
	doc, warnings := importBody(t, map[string]string{contentPart: contentDoc(listStyles, body)})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	ps := paragraphs(&doc.BlockList)
	want := []string{"1.\tOne", "2.\tTwo", "2.a)\tSub", "Break", "3.\tThree", "5.\tFive", "-\tDash", "More"}
	if diff := cmp.Diff(want, texts(ps)); diff != "" {
		t.Fatalf("paragraphs mismatch (-want +got):\n%s", diff)
	}

	type indent struct{ Left, First float64 }
	var got []indent
	for _, p := range ps {
		got = append(got, indent{p.Margins.Left, p.FirstLineIndent})
	}
	wantIndents := []indent{{36, -18}, {36, -18}, {36, -18}, {0, 0}, {36, -18}, {36, -18}, {18, -18}, {18, 0}}
	if diff := cmp.Diff(wantIndents, got); diff != "" {
		t.Errorf("indents mismatch (-want +got):\n%s", diff)
	}
}

func TestImportBody_OutlineNumbering(t *testing.T) {
	named := `
<text:outline-style style:name="Outline">
  <text:outline-level-style text:level="1" style:num-format="1"/>
  <text:outline-level-style text:level="2" style:num-format="1" text:display-levels="2"/>
</text:outline-style>`
	body := `
<text:h text:outline-level="1" text:is-list-header="true">Preface</text:h>
<text:h text:outline-level="1">Intro</text:h>
<text:h text:outline-level="2">Scope</text:h>
<text:h text:outline-level="2">Terms</text:h>
<text:h text:outline-level="1">Method</text:h>
<text:h text:outline-level="2">Data</text:h>
<text:h text:outline-level="3">Detail</text:h>`
	doc, _ := importBody(t, map[string]string{
		contentPart: contentDoc("", body),
		stylesPart:  stylesDoc("", named, ""),
	})

	want := []string{"Preface", "1 Intro", "1.1 Scope", "1.2 Terms", "2 Method", "2.1 Data", "Detail"}
	if diff := cmp.Diff(want, texts(paragraphs(&doc.BlockList))); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Table Tests
// ============================================================================

const tableStyles = `
<style:style style:name="Tbl" style:family="table"><style:table-properties style:width="300pt" table:align="center"/></style:style>
<style:style style:name="Tbl.A" style:family="table-column"><style:table-column-properties style:column-width="100pt"/></style:style>
<style:style style:name="Tbl.B" style:family="table-column"><style:table-column-properties style:column-width="200pt"/></style:style>
<style:style style:name="Tbl.R1" style:family="table-row"><style:table-row-properties style:min-row-height="20pt" fo:keep-together="always"/></style:style>
<style:style style:name="Tbl.C1" style:family="table-cell">
  <style:table-cell-properties fo:background-color="#cccccc" fo:border="1pt solid #000000" style:vertical-align="middle"/>
</style:style>`

const spannedTable = `
<table:table table:name="Prices" table:style-name="Tbl">
  <table:table-column table:style-name="Tbl.A"/>
  <table:table-column table:style-name="Tbl.B"/>
  <table:table-row table:style-name="Tbl.R1">
    <table:table-cell table:style-name="Tbl.C1" table:number-columns-spanned="2"><text:p>Header</text:p></table:table-cell>
    <table:covered-table-cell/>
  </table:table-row>
  <table:table-row>
    <table:table-cell table:number-rows-spanned="2"><text:p>A</text:p></table:table-cell>
    <table:table-cell><text:p>B</text:p></table:table-cell>
  </table:table-row>
  <table:table-row>
    <table:covered-table-cell/>
    <table:table-cell><text:p>C</text:p></table:table-cell>
  </table:table-row>
</table:table>`

func TestImportBody_Table(t *testing.T) {
	doc, warnings := importBody(t, map[string]string{contentPart: contentDoc(tableStyles, spannedTable)})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if doc.Len() != 1 {
		t.Fatalf("blocks = %d, want 1", doc.Len())
	}
	tbl := doc.Blocks()[0].Table()
	if tbl == nil {
		t.Fatal("block is not a table")
	}

	if tbl.RowCount() != 3 || tbl.ColCount() != 2 {
		t.Errorf("grid = %dx%d, want 3x2", tbl.RowCount(), tbl.ColCount())
	}
	if tbl.ColWidth(0) != 100 || tbl.ColWidth(1) != 200 {
		t.Errorf("column widths = %v, %v, want 100, 200", tbl.ColWidth(0), tbl.ColWidth(1))
	}
	if tbl.RowHeight(0) != 20 {
		t.Errorf("RowHeight(0) = %v, want 20", tbl.RowHeight(0))
	}
	if tbl.Alignment != model.AlignCenter {
		t.Errorf("Alignment = %v, want Center", tbl.Alignment)
	}
	if b := tbl.OuterBorder(); b.Style != model.BorderSingle || b.Width != 1 {
		t.Errorf("OuterBorder() = %+v, want single 1pt", b)
	}
	if b := tbl.InnerBorder(); b.Style != model.BorderSingle || b.Width != 1 {
		t.Errorf("InnerBorder() = %+v, want single 1pt", b)
	}

	header := tbl.Cell(0, 1)
	if header.ColSpan() != 2 || header.ColIndex() != 0 {
		t.Errorf("header span = %d at column %d, want 2 at 0", header.ColSpan(), header.ColIndex())
	}
	if c, ok := header.Background(); !ok {
		t.Error("header has no background")
	} else if got := doc.Colors()[c.Index()]; got != (model.Color{R: 0xcc, G: 0xcc, B: 0xcc}) {
		t.Errorf("header background = %v, want #cccccc", got)
	}
	if header.VerticalAlignment != model.VAlignMiddle {
		t.Errorf("VerticalAlignment = %v, want middle", header.VerticalAlignment)
	}

	a := tbl.Cell(2, 0)
	if a.RowSpan() != 2 || a.RowIndex() != 1 {
		t.Errorf("merged cell span = %d at row %d, want 2 at 1", a.RowSpan(), a.RowIndex())
	}

	got := map[string]string{
		"header": strings.Join(texts(paragraphs(&header.BlockList)), "|"),
		"a":      strings.Join(texts(paragraphs(&a.BlockList)), "|"),
		"b":      strings.Join(texts(paragraphs(&tbl.Cell(1, 1).BlockList)), "|"),
		"c":      strings.Join(texts(paragraphs(&tbl.Cell(2, 1).BlockList)), "|"),
	}
	want := map[string]string{"header": "Header", "a": "A", "b": "B", "c": "C"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cell texts mismatch (-want +got):\n%s", diff)
	}
}

func TestImportBody_TableWithoutWidths(t *testing.T) {
	body := `<table:table><table:table-column table:number-columns-repeated="3"/>` +
		`<table:table-row><table:table-cell table:number-columns-repeated="3"><text:p>x</text:p></table:table-cell></table:table-row></table:table>`
	doc, _ := importBody(t, textBody(body))

	tbl := doc.Blocks()[0].Table()
	if tbl.ColCount() != 3 {
		t.Fatalf("ColCount() = %d, want 3", tbl.ColCount())
	}
	if tbl.ColWidth(0) != 150 {
		t.Errorf("ColWidth(0) = %v, want 150", tbl.ColWidth(0))
	}
	for c := 0; c < 3; c++ {
		if got := texts(paragraphs(&tbl.Cell(0, c).BlockList)); len(got) != 1 || got[0] != "x" {
			t.Errorf("cell %d = %v, want [x]", c, got)
		}
	}
}

func TestLayoutTable(t *testing.T) {
	tx := &tableXML{
		Columns: []tableColumnXML{{Repeated: 1}, {Repeated: 1}, {Repeated: 1}},
		Rows: []tableRowXML{
			{Repeated: 1, Cells: []tableCellXML{
				{Repeated: 1, RowSpan: 3, ColSpan: 1},
				{Repeated: 1, RowSpan: 1, ColSpan: 5},
			}},
			{Repeated: 2, Cells: []tableCellXML{
				{Repeated: 1, Covered: true, RowSpan: 1, ColSpan: 1},
				{Repeated: 2, RowSpan: 1, ColSpan: 1},
			}},
		},
	}

	slots, rows, cols := layoutTable(tx)
	if len(rows) != 3 || cols != 3 {
		t.Fatalf("layoutTable() grid = %dx%d, want 3x3", len(rows), cols)
	}

	type pos struct{ Row, Col, RowSpan, ColSpan int }
	var got []pos
	for _, s := range slots {
		got = append(got, pos{s.row, s.col, s.rowSpan, s.colSpan})
	}
	want := []pos{
		{0, 0, 3, 1},
		{0, 1, 1, 2},
		{1, 1, 1, 1},
		{1, 2, 1, 1},
		{2, 1, 1, 1},
		{2, 2, 1, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutTable_RepeatCap(t *testing.T) {
	tx := &tableXML{Rows: []tableRowXML{
		{Repeated: 1, Cells: []tableCellXML{{Repeated: 1, RowSpan: 1, ColSpan: 1}, {Repeated: 16384, RowSpan: 1, ColSpan: 1}}},
		{Repeated: 1048576, Cells: []tableCellXML{{Repeated: 1, RowSpan: 1, ColSpan: 1}}},
	}}
	_, rows, cols := layoutTable(tx)
	if len(rows) != 1+maxRepeat || cols != 1+maxRepeat {
		t.Errorf("layoutTable() grid = %dx%d, want %dx%d", len(rows), cols, 1+maxRepeat, 1+maxRepeat)
	}
}

// ============================================================================
// Image Tests
// ============================================================================

func TestImportBody_Images(t *testing.T) {
	styles := `<style:style style:name="P1" style:family="paragraph"><style:paragraph-properties fo:text-align="end"/></style:style>`
	inline := base64.StdEncoding.EncodeToString(testPNG(t))
	body := `
<text:p text:style-name="P1"><draw:frame draw:name="Chart" svg:width="100pt" svg:height="50pt"><draw:image xlink:href="Pictures/a.png"/><svg:desc>A chart</svg:desc></draw:frame></text:p>
<text:p>Caption<draw:frame draw:name="Remote"><draw:image xlink:href="https://example.com/x.png"/></draw:frame><draw:frame draw:name="Inline" svg:height="30pt"><draw:image><office:binary-data>
` + inline + `
</office:binary-data></draw:image><svg:title>Inline picture</svg:title></draw:frame></text:p>`
	doc, warnings := importBody(t, map[string]string{
		contentPart:      contentDoc(styles, body),
		"Pictures/a.png": string(testPNG(t)),
	})

	var kinds []model.BlockType
	for _, b := range doc.Blocks() {
		kinds = append(kinds, b.Type())
	}
	want := []model.BlockType{model.BlockTypeImage, model.BlockTypeParagraph, model.BlockTypeImage}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("block kinds mismatch (-want +got):\n%s", diff)
	}

	img := doc.Blocks()[0].Image()
	if img.Source().AltText != "A chart" {
		t.Errorf("AltText = %q, want %q", img.Source().AltText, "A chart")
	}
	if img.Source().Format != model.ImageFormatPNG {
		t.Errorf("Format = %v, want PNG", img.Source().Format)
	}
	if img.Width() != 100 {
		t.Errorf("Width() = %v, want 100", img.Width())
	}
	if img.Alignment != model.AlignRight {
		t.Errorf("Alignment = %v, want Right", img.Alignment)
	}

	embedded := doc.Blocks()[2].Image()
	if embedded.Source().AltText != "Inline picture" {
		t.Errorf("inline AltText = %q, want %q", embedded.Source().AltText, "Inline picture")
	}
	if embedded.Height() != 30 {
		t.Errorf("inline Height() = %v, want 30", embedded.Height())
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "linked image") {
		t.Errorf("warnings = %v, want one linked image", warnings)
	}
}

func TestImportBody_ImageErrors(t *testing.T) {
	body := `<text:p><draw:frame draw:name="Empty"><draw:image/></draw:frame>` +
		`<draw:frame draw:name="Missing"><draw:image xlink:href="Pictures/none.png"/></draw:frame>` +
		`<draw:frame draw:name="Broken"><draw:image xlink:href="Pictures/bad.png"/></draw:frame></text:p>`
	doc, warnings := importBody(t, map[string]string{
		contentPart:        contentDoc("", body),
		"Pictures/bad.png": "not a picture",
	})

	if doc.Len() != 0 {
		t.Errorf("blocks = %d, want 0", doc.Len())
	}
	if len(warnings) != 3 {
		t.Fatalf("warnings = %v, want 3", warnings)
	}
	for i, name := range []string{"Empty", "Missing", "Broken"} {
		if !strings.Contains(warnings[i].Message, name) {
			t.Errorf("warning %q does not name %s", warnings[i].Message, name)
		}
	}
}

func TestImportBody_TextBox(t *testing.T) {
	body := `<text:p>Outer<draw:frame draw:name="Box"><draw:text-box><text:p>Inside</text:p></draw:text-box></draw:frame></text:p>`
	doc, _ := importBody(t, textBody(body))
	if diff := cmp.Diff([]string{"Outer", "Inside"}, texts(paragraphs(&doc.BlockList))); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestImportBody_ImageInFootnoteIsSkipped(t *testing.T) {
	body := `<text:p>Text<text:note text:note-class="footnote"><text:note-citation>1</text:note-citation>` +
		`<text:note-body><text:p><draw:frame><draw:image xlink:href="Pictures/a.png"/></draw:frame>Note</text:p></text:note-body></text:note></text:p>`
	doc, warnings := importBody(t, map[string]string{
		contentPart:      contentDoc("", body),
		"Pictures/a.png": string(testPNG(t)),
	})

	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "not allowed") {
		t.Errorf("warnings = %v, want one not allowed", warnings)
	}
	notes := paragraphs(&doc.BlockList)[0].Footnotes()
	if len(notes) != 1 {
		t.Fatalf("Footnotes() = %d, want 1", len(notes))
	}
	if diff := cmp.Diff([]string{"Note"}, texts(paragraphs(&notes[0].BlockList))); diff != "" {
		t.Errorf("footnote mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Footnote, Field and Link Tests
// ============================================================================

func TestImportBody_Footnotes(t *testing.T) {
	body := `<text:p>See<text:note text:id="ftn1" text:note-class="footnote"><text:note-citation>1</text:note-citation>` +
		`<text:note-body><text:p>Note text</text:p></text:note-body></text:note> more` +
		`<text:note text:id="edn1" text:note-class="endnote"><text:note-citation>i</text:note-citation>` +
		`<text:note-body><text:p>End</text:p></text:note-body></text:note></text:p>`
	doc, warnings := importBody(t, textBody(body))
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	p := paragraphs(&doc.BlockList)[0]
	if p.Text() != "See more" {
		t.Errorf("Text() = %q, want %q", p.Text(), "See more")
	}
	notes := p.Footnotes()
	if len(notes) != 2 {
		t.Fatalf("Footnotes() = %d, want 2", len(notes))
	}
	if notes[0].Position() != 2 || notes[1].Position() != 7 {
		t.Errorf("positions = %d, %d, want 2, 7", notes[0].Position(), notes[1].Position())
	}
	if diff := cmp.Diff([]string{"Note text"}, texts(paragraphs(&notes[0].BlockList))); diff != "" {
		t.Errorf("footnote mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"End"}, texts(paragraphs(&notes[1].BlockList))); diff != "" {
		t.Errorf("endnote mismatch (-want +got):\n%s", diff)
	}
}

const fieldParagraph = `<text:p>Page <text:page-number text:select-page="current">1</text:page-number> of <text:page-count>3</text:page-count></text:p>`

const headerTable = `<table:table table:name="HT"><table:table-column table:number-columns-repeated="2"/>` +
	`<table:table-row><table:table-cell><text:p>A</text:p></table:table-cell><table:table-cell><text:p>B</text:p></table:table-cell></table:table-row></table:table>`

func TestImportHeaderFooter(t *testing.T) {
	masters := `
<style:master-page style:name="Landscape"><style:header><text:p>Wrong page</text:p></style:header></style:master-page>
<style:master-page style:name="Standard">
  <style:header><text:p>Confidential</text:p>` + headerTable + `</style:header>
  <style:footer>` + fieldParagraph + `</style:footer>
</style:master-page>`
	r := newTestReader(t, map[string]string{
		contentPart: contentDoc("", fieldParagraph),
		stylesPart:  stylesDoc("", "", masters),
	})
	if !r.HasHeader() || !r.HasFooter() {
		t.Fatalf("HasHeader() = %v, HasFooter() = %v", r.HasHeader(), r.HasFooter())
	}

	doc := newDoc()
	if _, err := r.ImportBody(doc, DefaultOptions()); err != nil {
		t.Fatalf("ImportBody failed: %v", err)
	}
	hw, err := r.ImportHeader(doc.Header(), DefaultOptions())
	if err != nil {
		t.Fatalf("ImportHeader failed: %v", err)
	}
	if _, err := r.ImportFooter(doc.Footer(), DefaultOptions()); err != nil {
		t.Fatalf("ImportFooter failed: %v", err)
	}

	// The body cannot hold fields, so the cached results stay as text.
	if got := paragraphs(&doc.BlockList)[0].Text(); got != "Page 1 of 3" {
		t.Errorf("body Text() = %q, want %q", got, "Page 1 of 3")
	}

	// Headers cannot hold tables.
	if len(hw) != 1 || !strings.Contains(hw[0].Message, "flattened") {
		t.Errorf("header warnings = %v, want one flattened table", hw)
	}
	want := []string{"Confidential", "A", "B"}
	if diff := cmp.Diff(want, texts(paragraphs(&doc.Header().BlockList))); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	footer := paragraphs(&doc.Footer().BlockList)[0]
	if footer.Text() != "Page  of " {
		t.Errorf("footer Text() = %q, want %q", footer.Text(), "Page  of ")
	}
	type fieldPos struct {
		Pos  int
		Type model.FieldType
	}
	var fields []fieldPos
	for _, f := range footer.Fields() {
		fields = append(fields, fieldPos{f.Position(), f.Type()})
	}
	wantFields := []fieldPos{{4, model.FieldPage}, {8, model.FieldNumPages}}
	if diff := cmp.Diff(wantFields, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(doc.Render(), `Page {\field{\*\fldinst PAGE}{\fldrslt }} of {\field{\*\fldinst NUMPAGES}{\fldrslt }}`) {
		t.Error("footer fields not rendered in place")
	}
}

func TestImportHeader_None(t *testing.T) {
	r := newTestReader(t, textBody(`<text:p/>`))
	doc := newDoc()
	warnings, err := r.ImportHeader(doc.Header(), DefaultOptions())
	if err != nil || warnings != nil {
		t.Errorf("ImportHeader() = %v, %v, want nothing", warnings, err)
	}
	if doc.Header().Len() != 0 {
		t.Errorf("header has %d blocks, want 0", doc.Header().Len())
	}
}

func TestImportBody_LinksAndBookmarks(t *testing.T) {
	body := `
<text:p><text:bookmark-start text:name="target"/>Target<text:bookmark-end text:name="target"/></text:p>
<text:p><text:a xlink:href="#target">link</text:a> and <text:a xlink:href="https://example.com">site</text:a></text:p>`
	doc, _ := importBody(t, textBody(body))
	ps := paragraphs(&doc.BlockList)

	marks := ps[0].CharFormats()
	if len(marks) != 1 || marks[0].Bookmark() != "target" {
		t.Fatalf("bookmark formats = %d, want one named target", len(marks))
	}
	if marks[0].Begin() != 0 || marks[0].End() != 5 {
		t.Errorf("bookmark range = [%d,%d], want [0,5]", marks[0].Begin(), marks[0].End())
	}

	if ps[1].Text() != "link and site" {
		t.Errorf("Text() = %q", ps[1].Text())
	}
	type link struct {
		Begin, End int
		Anchor     string
	}
	var got []link
	for _, f := range ps[1].CharFormats() {
		anchor, _ := f.Link()
		got = append(got, link{f.Begin(), f.End(), anchor})
	}
	if diff := cmp.Diff([]link{{0, 3, "target"}}, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestImportFile(t *testing.T) {
	path := createTestODT(t, textBody(`<text:p>From file</text:p>`))
	doc := newDoc()
	if _, err := ImportFile(path, doc, Options{}); err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if diff := cmp.Diff([]string{"From file"}, texts(paragraphs(&doc.BlockList))); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
	if _, err := ImportFile(path+".missing", doc, Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}
