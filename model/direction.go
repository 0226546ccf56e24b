package model

// Direction is the reading direction of a block of content.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	default:
		return "Unknown"
	}
}

// Token returns the control word prefix for the direction, "ltr" or "rtl".
// It is combined with a suffix such as "par", "row", "sect" or "doc".
func (d Direction) Token() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// IsRTL reports whether d is right-to-left.
func (d Direction) IsRTL() bool {
	return d == RightToLeft
}
