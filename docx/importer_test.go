package docx

import (
	"bytes"
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
	body := `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
<w:p>
  <w:pPr>
    <w:jc w:val="center"/>
    <w:spacing w:before="240" w:after="120"/>
    <w:ind w:left="720" w:hanging="360"/>
  </w:pPr>
  <w:r><w:t xml:space="preserve">Plain </w:t></w:r>
  <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
  <w:r><w:rPr><w:i/><w:color w:val="FF0000"/></w:rPr><w:t xml:space="preserve"> red</w:t></w:r>
</w:p>`
	doc, warnings := importBody(t, map[string]string{"word/document.xml": documentPart(body)})
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

func TestImportBody_StylesAndDefaults(t *testing.T) {
	styles := rootPart("styles", `
<w:docDefaults>
  <w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Quote">
  <w:name w:val="Quote"/><w:basedOn w:val="Normal"/>
  <w:pPr><w:ind w:left="864"/></w:pPr>
  <w:rPr><w:i/></w:rPr>
</w:style>
<w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/><w:rPr><w:b/></w:rPr></w:style>`)
	body := `
<w:p><w:r><w:t>Normal text</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr>
  <w:r><w:rPr><w:rStyle w:val="Strong"/><w:i w:val="0"/></w:rPr><w:t>Quoted</w:t></w:r>
</w:p>`
	doc, _ := importBody(t, map[string]string{
		"word/document.xml": documentPart(body),
		"word/styles.xml":   styles,
	})

	ps := paragraphs(&doc.BlockList)
	if len(ps) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(ps))
	}
	if size := ps[0].DefaultCharFormat().FontSize(); size != 11 {
		t.Errorf("default FontSize() = %v, want 11", size)
	}
	if diff := cmp.Diff([]string{"Times New Roman", "Calibri"}, doc.Fonts()); diff != "" {
		t.Errorf("Fonts() mismatch (-want +got):\n%s", diff)
	}

	quote := ps[1]
	if quote.Margins.Left != 43.2 {
		t.Errorf("quote Margins.Left = %v, want 43.2", quote.Margins.Left)
	}
	if on, _ := quote.DefaultCharFormat().Style(); on&model.Italic == 0 {
		t.Error("quote style is not italic")
	}
	formats := quote.CharFormats()
	if len(formats) != 1 {
		t.Fatalf("CharFormats() = %d, want 1", len(formats))
	}
	on, off := formats[0].Style()
	if on != model.Bold || off != model.Italic {
		t.Errorf("run Style() = (%v, %v), want (Bold, Italic)", on, off)
	}
}

func TestImportBody_Breaks(t *testing.T) {
	body := `
<w:p><w:r><w:t>Before</w:t></w:r></w:p>
<w:p><w:r><w:br w:type="page"/><w:t>After</w:t></w:r></w:p>
<w:p><w:r><w:t>a</w:t><w:br/><w:t>b</w:t><w:tab/><w:t>c</w:t></w:r></w:p>
<w:p><w:pPr><w:pageBreakBefore/></w:pPr><w:r><w:t>New page</w:t></w:r></w:p>`
	doc, _ := importBody(t, map[string]string{"word/document.xml": documentPart(body)})

	ps := paragraphs(&doc.BlockList)
	if diff := cmp.Diff([]string{"Before", "After", "a\nb\tc", "New page"}, texts(ps)); diff != "" {
		t.Fatalf("paragraphs mismatch (-want +got):\n%s", diff)
	}
	want := []bool{false, true, false, true}
	for i, p := range ps {
		if p.StartNewPage != want[i] {
			t.Errorf("paragraph %d StartNewPage = %v, want %v", i, p.StartNewPage, want[i])
		}
	}
}

func TestImportBody_Direction(t *testing.T) {
	body := `
<w:p><w:pPr><w:bidi/></w:pPr><w:r><w:t>مرحبا</w:t></w:r></w:p>
<w:p><w:pPr><w:bidi w:val="0"/></w:pPr><w:r><w:t>Hello</w:t></w:r></w:p>`
	doc := document.New(model.PaperA4, model.Portrait, locale.Arabic)
	warnings, err := newTestReader(t, map[string]string{"word/document.xml": documentPart(body)}).
		ImportBody(doc, DefaultOptions())
	if err != nil || len(warnings) != 0 {
		t.Fatalf("ImportBody = %v, %v", warnings, err)
	}
	ps := paragraphs(&doc.BlockList)
	if ps[0].Direction() != model.RightToLeft || ps[1].Direction() != model.LeftToRight {
		t.Errorf("directions = %v, %v, want RTL, LTR", ps[0].Direction(), ps[1].Direction())
	}
}

func TestImportBody_ContentControls(t *testing.T) {
	body := `
<w:sdt><w:sdtPr/><w:sdtContent>
  <w:p><w:r><w:t>Wrapped</w:t></w:r></w:p>
</w:sdtContent></w:sdt>
<w:p>
  <w:ins w:id="1"><w:r><w:t>Inserted</w:t></w:r></w:ins>
  <w:del w:id="2"><w:r><w:delText>Deleted</w:delText></w:r></w:del>
  <w:r><w:sym w:font="Symbol" w:char="F0B7"/><w:sym w:char="03A9"/></w:r>
</w:p>`
	doc, _ := importBody(t, map[string]string{"word/document.xml": documentPart(body)})
	if diff := cmp.Diff([]string{"Wrapped", "InsertedΩ"}, texts(paragraphs(&doc.BlockList))); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// List Tests
// ============================================================================

func TestImportBody_Lists(t *testing.T) {
	numbering := rootPart("numbering", `
<w:abstractNum w:abstractNumId="0">
  <w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
  <w:lvl w:ilvl="1"><w:start w:val="1"/><w:numFmt w:val="lowerLetter"/><w:lvlText w:val="%2)"/></w:lvl>
</w:abstractNum>
<w:abstractNum w:abstractNumId="1">
  <w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/>
    <w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr>
  </w:lvl>
</w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>`)

	item := func(numID, level, text string) string {
		return `<w:p><w:pPr><w:numPr><w:ilvl w:val="` + level + `"/><w:numId w:val="` + numID + `"/></w:numPr></w:pPr>` +
			`<w:r><w:t>` + text + `</w:t></w:r></w:p>`
	}
	body := item("1", "0", "One") + item("1", "0", "Two") + item("1", "1", "Sub") +
		item("1", "0", "Three") + item("2", "0", "Dot") + item("0", "0", "Not a list")

	doc, _ := importBody(t, map[string]string{
		"word/document.xml":  documentPart(body),
		"word/numbering.xml": numbering,
	})

	ps := paragraphs(&doc.BlockList)
	want := []string{"1. One", "2. Two", "a) Sub", "3. Three", "• Dot", "Not a list"}
	if diff := cmp.Diff(want, texts(ps)); diff != "" {
		t.Fatalf("list items mismatch (-want +got):\n%s", diff)
	}

	indents := []float64{18, 18, 36, 18, 72, 0}
	for i, p := range ps {
		if p.Margins.Left != indents[i] {
			t.Errorf("item %d Margins.Left = %v, want %v", i, p.Margins.Left, indents[i])
		}
	}
	if ps[4].FirstLineIndent != -18 {
		t.Errorf("bullet FirstLineIndent = %v, want -18", ps[4].FirstLineIndent)
	}
}

// ============================================================================
// Table Tests
// ============================================================================

const mergedTable = `
<w:tbl>
  <w:tblPr>
    <w:bidiVisual/>
    <w:jc w:val="center"/>
    <w:tblBorders>
      <w:top w:val="single" w:sz="8"/>
      <w:insideH w:val="double" w:sz="4"/>
    </w:tblBorders>
  </w:tblPr>
  <w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="3000"/></w:tblGrid>
  <w:tr>
    <w:trPr><w:trHeight w:val="400" w:hRule="exact"/><w:cantSplit/></w:trPr>
    <w:tc><w:tcPr><w:gridSpan w:val="2"/><w:shd w:val="clear" w:fill="DDDDDD"/></w:tcPr>
      <w:p><w:r><w:t>Header</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:tcPr><w:vMerge w:val="restart"/><w:vAlign w:val="center"/></w:tcPr><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
    <w:tc><w:p><w:r><w:t>C</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>`

func TestImportBody_Table(t *testing.T) {
	doc, warnings := importBody(t, map[string]string{"word/document.xml": documentPart(mergedTable)})
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
	if tbl.ColWidth(0) != 100 || tbl.ColWidth(1) != 150 {
		t.Errorf("column widths = %v, %v, want 100, 150", tbl.ColWidth(0), tbl.ColWidth(1))
	}
	if tbl.RowHeight(0) != 20 {
		t.Errorf("RowHeight(0) = %v, want 20", tbl.RowHeight(0))
	}
	if tbl.Direction() != model.RightToLeft || tbl.Alignment != model.AlignCenter {
		t.Errorf("table = %v %v, want RTL centered", tbl.Direction(), tbl.Alignment)
	}
	if b := tbl.OuterBorder(); b.Style != model.BorderSingle || b.Width != 1 {
		t.Errorf("OuterBorder() = %+v, want single 1pt", b)
	}
	if b := tbl.InnerBorder(); b.Style != model.BorderDouble || b.Width != 0.5 {
		t.Errorf("InnerBorder() = %+v, want double 0.5pt", b)
	}

	header := tbl.Cell(0, 1)
	if header.ColSpan() != 2 || header.ColIndex() != 0 {
		t.Errorf("header span = %d at column %d, want 2 at 0", header.ColSpan(), header.ColIndex())
	}
	if _, ok := header.Background(); !ok {
		t.Error("header cell has no background")
	}

	a := tbl.Cell(2, 0)
	if a.RowSpan() != 2 || a.RowIndex() != 1 {
		t.Errorf("merged cell span = %d at row %d, want 2 at 1", a.RowSpan(), a.RowIndex())
	}
	if a.VerticalAlignment != model.VAlignMiddle {
		t.Errorf("VerticalAlignment = %v, want middle", a.VerticalAlignment)
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

func TestImportBody_NestedTableIsFlattened(t *testing.T) {
	inner := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>y</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	body := `<w:tbl><w:tblGrid><w:gridCol w:w="4000"/></w:tblGrid><w:tr><w:tc>` + inner + `</w:tc></w:tr></w:tbl>`
	doc, warnings := importBody(t, map[string]string{"word/document.xml": documentPart(body)})

	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "flattened") {
		t.Errorf("warnings = %v, want one flattened table", warnings)
	}
	tbl := doc.Blocks()[0].Table()
	if diff := cmp.Diff([]string{"x", "y"}, texts(paragraphs(&tbl.Cell(0, 0).BlockList))); diff != "" {
		t.Errorf("cell mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutTable(t *testing.T) {
	cell := func(span, vmerge string) tableCellXML {
		var c tableCellXML
		c.Properties.GridSpan.Val = span
		if vmerge != "" {
			c.Properties.VMerge.XMLName.Local = "vMerge"
			if vmerge == "restart" {
				c.Properties.VMerge.Val = "restart"
			}
		}
		return c
	}
	tx := &tableXML{Rows: []tableRowXML{
		{Cells: []tableCellXML{cell("", "restart"), cell("2", "")}},
		{Cells: []tableCellXML{cell("", "continue"), cell("", ""), cell("", "")}},
		{Cells: []tableCellXML{cell("", "continue")}},
		{Cells: []tableCellXML{cell("", "continue")}},
	}}
	tx.Rows[3].Cells = append(tx.Rows[3].Cells, cell("", ""))

	slots, rows, cols := layoutTable(tx)
	if rows != 4 || cols != 3 {
		t.Fatalf("layoutTable() grid = %dx%d, want 4x3", rows, cols)
	}

	type pos struct{ Row, Col, RowSpan, ColSpan int }
	var got []pos
	for _, s := range slots {
		got = append(got, pos{s.row, s.col, s.rowSpan, s.colSpan})
	}
	want := []pos{
		{0, 0, 4, 1},
		{0, 1, 1, 2},
		{1, 1, 1, 1},
		{1, 2, 1, 1},
		{3, 1, 1, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestBorder(t *testing.T) {
	tests := []struct {
		in    borderXML
		style model.BorderStyle
		width float64
		ok    bool
	}{
		{borderXML{}, 0, 0, false},
		{borderXML{Val: "nil"}, model.BorderNone, 0, true},
		{borderXML{Val: "single", Sz: "12"}, model.BorderSingle, 1.5, true},
		{borderXML{Val: "thick"}, model.BorderSingle, 0.5, true},
		{borderXML{Val: "dotted", Sz: "4"}, model.BorderDotted, 0.5, true},
		{borderXML{Val: "dashSmallGap", Sz: "16"}, model.BorderDashed, 2, true},
		{borderXML{Val: "double", Sz: "x"}, model.BorderDouble, 0.5, true},
	}
	for _, tt := range tests {
		style, width, ok := border(tt.in)
		if style != tt.style || width != tt.width || ok != tt.ok {
			t.Errorf("border(%+v) = (%v, %v, %v), want (%v, %v, %v)",
				tt.in, style, width, ok, tt.style, tt.width, tt.ok)
		}
	}
}

// ============================================================================
// Image Tests
// ============================================================================

func drawing(rid, descr string) string {
	return `<w:r><w:drawing><wp:inline>
  <wp:extent cx="1270000" cy="635000"/>
  <wp:docPr id="1" name="Picture 1" descr="` + descr + `"/>
  <a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="` + rid + `"/></pic:blipFill></pic:pic></a:graphicData></a:graphic>
</wp:inline></w:drawing></w:r>`
}

func TestImportBody_Images(t *testing.T) {
	body := `<w:p><w:pPr><w:jc w:val="right"/></w:pPr>` + drawing("rId5", "A chart") + `</w:p>` +
		`<w:p><w:r><w:t>Caption</w:t></w:r>` + drawing("rId9", "") + drawing("rId6", "") + `</w:p>`
	doc, warnings := importBody(t, map[string]string{
		"word/document.xml":            documentPart(body),
		"word/_rels/document.xml.rels": relsPart("rId5", "media/image1.png", "rId6", "https://example.com/x.png"),
		"word/media/image1.png":        string(testPNG(t)),
	})

	var kinds []model.BlockType
	for _, b := range doc.Blocks() {
		kinds = append(kinds, b.Type())
	}
	if diff := cmp.Diff([]model.BlockType{model.BlockTypeImage, model.BlockTypeParagraph}, kinds); diff != "" {
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

	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if !strings.Contains(warnings[0].Message, "rId9") {
		t.Errorf("warning %q does not name the missing relationship", warnings[0].Message)
	}
	if !strings.Contains(warnings[1].Message, "linked image") {
		t.Errorf("warning %q does not report the linked image", warnings[1].Message)
	}
}

func TestImportBody_ImageInFootnoteIsSkipped(t *testing.T) {
	footnotes := rootPart("footnotes", `<w:footnote w:id="1"><w:p>`+drawing("rId1", "")+`<w:r><w:t>Note</w:t></w:r></w:p></w:footnote>`)
	body := `<w:p><w:r><w:t>Text</w:t></w:r><w:r><w:footnoteReference w:id="1"/></w:r></w:p>`
	doc, warnings := importBody(t, map[string]string{
		"word/document.xml":             documentPart(body),
		"word/footnotes.xml":            footnotes,
		"word/_rels/footnotes.xml.rels": relsPart("rId1", "media/n.png"),
		"word/media/n.png":              string(testPNG(t)),
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
	footnotes := rootPart("footnotes", `
<w:footnote w:type="separator" w:id="-1"><w:p><w:r><w:separator/></w:r></w:p></w:footnote>
<w:footnote w:id="1"><w:p><w:r><w:t>Note text</w:t></w:r></w:p></w:footnote>`)
	body := `<w:p>
  <w:r><w:t>See</w:t></w:r>
  <w:r><w:rPr><w:vertAlign w:val="superscript"/></w:rPr><w:footnoteReference w:id="1"/></w:r>
  <w:r><w:t xml:space="preserve"> more</w:t></w:r>
  <w:r><w:footnoteReference w:id="7"/></w:r>
</w:p>`
	doc, warnings := importBody(t, map[string]string{
		"word/document.xml":  documentPart(body),
		"word/footnotes.xml": footnotes,
	})

	p := paragraphs(&doc.BlockList)[0]
	if p.Text() != "See more" {
		t.Errorf("Text() = %q, want %q", p.Text(), "See more")
	}
	notes := p.Footnotes()
	if len(notes) != 1 {
		t.Fatalf("Footnotes() = %d, want 1", len(notes))
	}
	if notes[0].Position() != 2 {
		t.Errorf("Position() = %d, want 2", notes[0].Position())
	}
	if diff := cmp.Diff([]string{"Note text"}, texts(paragraphs(&notes[0].BlockList))); diff != "" {
		t.Errorf("footnote mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "7") {
		t.Errorf("warnings = %v, want one for footnote 7", warnings)
	}
}

const fieldParagraph = `<w:p>
  <w:r><w:t xml:space="preserve">Page </w:t></w:r>
  <w:fldSimple w:instr=" PAGE \* MERGEFORMAT "><w:r><w:t>1</w:t></w:r></w:fldSimple>
  <w:r><w:t xml:space="preserve"> of </w:t></w:r>
  <w:r><w:fldChar w:fldCharType="begin"/></w:r>
  <w:r><w:instrText xml:space="preserve"> NUMPAGES </w:instrText></w:r>
  <w:r><w:fldChar w:fldCharType="separate"/></w:r>
  <w:r><w:t>3</w:t></w:r>
  <w:r><w:fldChar w:fldCharType="end"/></w:r>
</w:p>`

func TestImportHeaderFooter(t *testing.T) {
	sect := `<w:sectPr><w:headerReference w:type="default" r:id="rId1"/><w:footerReference w:type="default" r:id="rId2"/></w:sectPr>`
	header := `<w:p><w:r><w:t>Confidential</w:t></w:r></w:p>` + mergedTable
	r := newTestReader(t, map[string]string{
		"word/document.xml":            documentPart(fieldParagraph + sect),
		"word/_rels/document.xml.rels": relsPart("rId1", "header1.xml", "rId2", "footer1.xml"),
		"word/header1.xml":             rootPart("hdr", header),
		"word/footer1.xml":             rootPart("ftr", fieldParagraph),
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
	want := []string{"Confidential", "Header", "A", "B", "C"}
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
	r := newTestReader(t, map[string]string{"word/document.xml": documentPart(`<w:p/>`)})
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
<w:p><w:bookmarkStart w:id="0" w:name="_GoBack"/><w:bookmarkStart w:id="1" w:name="target"/><w:r><w:t>Target</w:t></w:r><w:bookmarkEnd w:id="1"/></w:p>
<w:p>
  <w:hyperlink w:anchor="target" w:tooltip="Go"><w:r><w:t>link</w:t></w:r></w:hyperlink>
  <w:r><w:t xml:space="preserve"> and </w:t></w:r>
  <w:r><w:fldChar w:fldCharType="begin"/></w:r>
  <w:r><w:instrText xml:space="preserve"> HYPERLINK \l "target" </w:instrText></w:r>
  <w:r><w:fldChar w:fldCharType="separate"/></w:r>
  <w:r><w:t>there</w:t></w:r>
  <w:r><w:fldChar w:fldCharType="end"/></w:r>
</w:p>`
	doc, _ := importBody(t, map[string]string{"word/document.xml": documentPart(body)})
	ps := paragraphs(&doc.BlockList)

	marks := ps[0].CharFormats()
	if len(marks) != 1 || marks[0].Bookmark() != "target" {
		t.Fatalf("bookmark formats = %d, want one named target", len(marks))
	}
	if marks[0].Begin() != 0 || marks[0].End() != 5 {
		t.Errorf("bookmark range = [%d,%d], want [0,5]", marks[0].Begin(), marks[0].End())
	}

	if ps[1].Text() != "link and there" {
		t.Errorf("Text() = %q", ps[1].Text())
	}
	type link struct {
		Begin, End int
		Anchor     string
		Tip        string
	}
	var got []link
	for _, f := range ps[1].CharFormats() {
		anchor, tip := f.Link()
		got = append(got, link{f.Begin(), f.End(), anchor, tip})
	}
	want := []link{{0, 3, "target", "Go"}, {9, 13, "target", ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestImportFile(t *testing.T) {
	path := createTestDOCX(t, map[string]string{
		"word/document.xml": documentPart(`<w:p><w:r><w:t>From file</w:t></w:r></w:p>`),
	})
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
