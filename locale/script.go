package locale

import (
	"unicode"

	"github.com/tsawler/rtfwriter/model"
)

// rtlScripts are the Unicode scripts written right to left.
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// RuneDirection returns the inherent direction of r. strong is false for
// digits, punctuation, spaces, symbols and marks, which take the direction
// of their surroundings.
func RuneDirection(r rune) (dir model.Direction, strong bool) {
	if !unicode.IsLetter(r) {
		return model.LeftToRight, false
	}
	if unicode.In(r, rtlScripts...) {
		return model.RightToLeft, true
	}
	return model.LeftToRight, true
}

// TextDirection returns the dominant direction of s by counting its
// strongly directional letters. Ties go to left-to-right. ok is false when
// s has no strong letters at all.
func TextDirection(s string) (dir model.Direction, ok bool) {
	var ltr, rtl int
	for _, r := range s {
		d, strong := RuneDirection(r)
		if !strong {
			continue
		}
		if d == model.RightToLeft {
			rtl++
		} else {
			ltr++
		}
	}
	switch {
	case ltr == 0 && rtl == 0:
		return model.LeftToRight, false
	case rtl > ltr:
		return model.RightToLeft, true
	default:
		return model.LeftToRight, true
	}
}
