package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/rtfwriter/internal/rtftext"
	"github.com/tsawler/rtfwriter/model"
)

// Image is an embedded JPEG or PNG picture.
type Image struct {
	// Alignment is the horizontal alignment of the picture's paragraph.
	Alignment model.Align
	// Margins are the paragraph indents and spacing in points.
	Margins model.Margins
	// StartNewPage forces a page break before the picture.
	StartNewPage bool
	// KeepAspectRatio makes SetWidth and SetHeight scale the other
	// dimension proportionally.
	KeepAspectRatio bool

	src           model.Image
	width, height float64
	direction     model.Direction
}

// NewImage wraps a decoded image. The data must be JPEG or PNG and the
// pixel size must be known. The display size defaults to the pixel size at
// the image's resolution, or 96 dpi when none is recorded.
func NewImage(src model.Image, dir model.Direction) (*Image, error) {
	const op = "NewImage"
	if len(src.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data", ErrUnsupportedImage)
	}
	if src.Format.BlipToken() == "" {
		return nil, fmt.Errorf("%w: format %s cannot be embedded", ErrUnsupportedImage, src.Format)
	}
	if src.Width <= 0 {
		return nil, invalid(op, "pixel width", src.Width, "must be positive")
	}
	if src.Height <= 0 {
		return nil, invalid(op, "pixel height", src.Height, "must be positive")
	}
	if src.DPI <= 0 {
		src.DPI = model.DefaultDPI
	}
	return &Image{
		KeepAspectRatio: true,
		src:             src,
		width:           model.PixelsToPoints(src.Width, src.DPI),
		height:          model.PixelsToPoints(src.Height, src.DPI),
		direction:       dir,
	}, nil
}

// Source returns the wrapped image.
func (img *Image) Source() model.Image { return img.src }

// Width returns the display width in points.
func (img *Image) Width() float64 { return img.width }

// Height returns the display height in points.
func (img *Image) Height() float64 { return img.height }

// SetWidth sets the display width in points.
func (img *Image) SetWidth(pt float64) {
	if img.KeepAspectRatio && img.width > 0 {
		img.height *= pt / img.width
	}
	img.width = pt
}

// SetHeight sets the display height in points.
func (img *Image) SetHeight(pt float64) {
	if img.KeepAspectRatio && img.height > 0 {
		img.width *= pt / img.height
	}
	img.height = pt
}

// Direction returns the direction of the picture's paragraph.
func (img *Image) Direction() model.Direction { return img.direction }

// SetDirection changes the direction of the picture's paragraph.
func (img *Image) SetDirection(d model.Direction) { img.direction = d }

// SetAltText sets the description written with the picture.
func (img *Image) SetAltText(s string) { img.src.AltText = s }

func (img *Image) render(head, tail string) string {
	var sb strings.Builder
	sb.WriteString(head)
	if img.StartNewPage {
		sb.WriteString(`\pagebb`)
	}
	sb.WriteString(`\` + img.direction.Token() + "par")
	sb.WriteString(img.Alignment.ParagraphToken())
	sb.WriteString(marginWords(img.Margins))
	sb.WriteString("\n")

	sb.WriteString(`{\*\shppict{\pict`)
	if img.src.AltText != "" {
		sb.WriteString(`{\*\picprop{\sp{\sn wzDescription}{\sv ` + rtftext.Escape(img.src.AltText) + `}}}`)
	}
	sb.WriteString(img.src.Format.BlipToken())
	sb.WriteString(`\picw` + strconv.Itoa(img.src.Width))
	sb.WriteString(`\pich` + strconv.Itoa(img.src.Height))
	sb.WriteString(`\picwgoal` + strconv.Itoa(model.Twips(img.width)))
	sb.WriteString(`\pichgoal` + strconv.Itoa(model.Twips(img.height)))
	sb.WriteString("\n")
	sb.WriteString(rtftext.HexLines(img.src.Data, rtftext.DefaultLineBytes))
	sb.WriteString("}}\n")
	sb.WriteString(tail)
	sb.WriteString("\n")
	return sb.String()
}

// Render returns the RTF of the picture as a top-level block.
func (img *Image) Render() string {
	return img.render(blockHead, blockTail)
}

// Images returns every picture of the document in reading order: the page
// header and footer, the body, then each section with its footer. Pictures
// in table cells are included.
func (d *Document) Images() []*Image {
	var out []*Image
	if d.header != nil {
		out = d.header.collectImages(out)
	}
	if d.footer != nil {
		out = d.footer.collectImages(out)
	}
	out = d.BlockList.collectImages(out)
	for _, s := range d.sections {
		out = s.BlockList.collectImages(out)
		out = s.footer.collectImages(out)
	}
	return out
}

func (l *BlockList) collectImages(out []*Image) []*Image {
	for _, b := range l.blocks {
		switch {
		case b.image != nil:
			out = append(out, b.image)
		case b.table != nil:
			// Merged cells are returned for every position they cover.
			seen := make(map[*Cell]bool)
			for r := 0; r < b.table.RowCount(); r++ {
				for c := 0; c < b.table.ColCount(); c++ {
					cell := b.table.Cell(r, c)
					if cell == nil || seen[cell] {
						continue
					}
					seen[cell] = true
					out = cell.BlockList.collectImages(out)
				}
			}
		}
	}
	return out
}
