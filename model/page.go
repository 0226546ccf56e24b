package model

// PaperSize is a named paper format
type PaperSize int

const (
	PaperA4 PaperSize = iota
	PaperLetter
	PaperA3
	PaperA5
	PaperLegal
)

func (p PaperSize) String() string {
	switch p {
	case PaperA4:
		return "A4"
	case PaperLetter:
		return "Letter"
	case PaperA3:
		return "A3"
	case PaperA5:
		return "A5"
	case PaperLegal:
		return "Legal"
	default:
		return "Unknown"
	}
}

// Twips returns the portrait width and height of the paper in twips
func (p PaperSize) Twips() (width, height int) {
	switch p {
	case PaperLetter:
		return 12240, 15840
	case PaperA3:
		return 16838, 23811
	case PaperA5:
		return 8391, 11906
	case PaperLegal:
		return 12240, 20160
	default:
		return 11906, 16838
	}
}

// Orientation is the paper orientation
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "Landscape"
	}
	return "Portrait"
}

// SectionStartEnd marks whether a section opens or closes a section group.
type SectionStartEnd int

const (
	SectionStart SectionStartEnd = iota
	SectionEnd
)

func (s SectionStartEnd) String() string {
	switch s {
	case SectionStart:
		return "Start"
	case SectionEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// HeaderFooterType selects between a page header and a page footer.
type HeaderFooterType int

const (
	Header HeaderFooterType = iota
	Footer
)

func (h HeaderFooterType) String() string {
	switch h {
	case Header:
		return "Header"
	case Footer:
		return "Footer"
	default:
		return "Unknown"
	}
}

// Valid reports whether h is Header or Footer.
func (h HeaderFooterType) Valid() bool {
	return h == Header || h == Footer
}
