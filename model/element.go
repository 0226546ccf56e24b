package model

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockType identifies the kind of block stored in a block list
type BlockType int

const (
	BlockTypeUnknown BlockType = iota
	BlockTypeParagraph
	BlockTypeTable
	BlockTypeImage
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeParagraph:
		return "Paragraph"
	case BlockTypeTable:
		return "Table"
	case BlockTypeImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// Align represents horizontal alignment of paragraphs, images and tables
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	case AlignJustify:
		return "Justify"
	default:
		return "Unknown"
	}
}

// ParagraphToken returns the paragraph alignment control word.
func (a Align) ParagraphToken() string {
	switch a {
	case AlignCenter:
		return `\qc`
	case AlignRight:
		return `\qr`
	case AlignJustify:
		return `\qj`
	default:
		return `\ql`
	}
}

// VerticalAlign represents vertical alignment of cell content
type VerticalAlign int

const (
	VAlignTop VerticalAlign = iota
	VAlignMiddle
	VAlignBottom
)

// CellToken returns the cell vertical alignment control word.
func (v VerticalAlign) CellToken() string {
	switch v {
	case VAlignMiddle:
		return `\clvertalc`
	case VAlignBottom:
		return `\clvertalb`
	default:
		return `\clvertalt`
	}
}

// FontStyleFlag is a bit set of character style flags.
type FontStyleFlag uint8

const (
	Bold FontStyleFlag = 1 << iota
	Italic
	Underline
	Super
	Sub
	Scaps
	Strike
)

// fontStyleWords is in emission order.
var fontStyleWords = []struct {
	flag FontStyleFlag
	word string
}{
	{Bold, "b"},
	{Italic, "i"},
	{Underline, "ul"},
	{Super, "super"},
	{Sub, "sub"},
	{Scaps, "scaps"},
	{Strike, "strike"},
}

// ControlWords renders the flags in on as switched on and the flags in off
// as switched off, for example `\b\i0`. Super and Sub have no "0" form in
// RTF, so removing either of them emits `\nosupersub`.
func ControlWords(on, off FontStyleFlag) string {
	var sb strings.Builder
	nosupersub := false
	for _, fw := range fontStyleWords {
		switch {
		case on&fw.flag != 0:
			sb.WriteString(`\` + fw.word)
		case off&fw.flag != 0:
			if fw.flag == Super || fw.flag == Sub {
				nosupersub = true
				continue
			}
			sb.WriteString(`\` + fw.word + "0")
		}
	}
	if nosupersub && on&(Super|Sub) == 0 {
		sb.WriteString(`\nosupersub`)
	}
	return sb.String()
}

// FieldType identifies a field control word that can be placed inside a
// paragraph.
type FieldType int

const (
	FieldPage FieldType = iota
	FieldNumPages
	FieldDate
	FieldTime
	FieldTitle
)

// Instruction returns the field instruction text.
func (f FieldType) Instruction() string {
	switch f {
	case FieldPage:
		return "PAGE"
	case FieldNumPages:
		return "NUMPAGES"
	case FieldDate:
		return "DATE"
	case FieldTime:
		return "TIME"
	case FieldTitle:
		return "TITLE"
	default:
		return ""
	}
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// Black is the first entry of every color table.
var Black = Color{0, 0, 0}

// ParseColor parses a hexadecimal color of the form "RRGGBB" or "#RRGGBB".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the color as "RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Image represents a decoded raster image ready to be embedded
type Image struct {
	Data   []byte // encoded bytes in Format
	Format ImageFormat
	Width  int     // pixels
	Height int     // pixels
	DPI    float64 // 0 means unknown
	// Alt text if available
	AltText string
}

// ImageFormat represents image format
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatJPEG
	ImageFormatPNG
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatJPEG:
		return "JPEG"
	case ImageFormatPNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// MIME returns the MIME type of the format.
func (f ImageFormat) MIME() string {
	switch f {
	case ImageFormatJPEG:
		return "image/jpeg"
	case ImageFormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// BlipToken returns the picture type control word, or "" when the format
// cannot be embedded.
func (f ImageFormat) BlipToken() string {
	switch f {
	case ImageFormatJPEG:
		return `\jpegblip`
	case ImageFormatPNG:
		return `\pngblip`
	default:
		return ""
	}
}

// ImageFormatFromMIME maps a MIME type to an ImageFormat.
func ImageFormatFromMIME(mime string) ImageFormat {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return ImageFormatJPEG
	case "image/png":
		return ImageFormatPNG
	default:
		return ImageFormatUnknown
	}
}
