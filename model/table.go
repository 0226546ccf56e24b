package model

// BorderStyle is the line style of a table cell border
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDotted
	BorderDashed
	BorderDouble
)

func (s BorderStyle) String() string {
	switch s {
	case BorderNone:
		return "None"
	case BorderSingle:
		return "Single"
	case BorderDotted:
		return "Dotted"
	case BorderDashed:
		return "Dashed"
	case BorderDouble:
		return "Double"
	default:
		return "Unknown"
	}
}

// Token returns the border style control word, or "" for BorderNone.
func (s BorderStyle) Token() string {
	switch s {
	case BorderSingle:
		return `\brdrs`
	case BorderDotted:
		return `\brdrdot`
	case BorderDashed:
		return `\brdrdash`
	case BorderDouble:
		return `\brdrdb`
	default:
		return ""
	}
}

// Border describes one edge of a table cell. Width is in points and Color
// is an index into the document color table.
type Border struct {
	Style BorderStyle
	Width float64
	Color int
}

// Side names one edge of a cell
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// Letter returns the suffix used by the \clbrdr control words.
func (s Side) Letter() string {
	switch s {
	case SideTop:
		return "t"
	case SideRight:
		return "r"
	case SideBottom:
		return "b"
	default:
		return "l"
	}
}
