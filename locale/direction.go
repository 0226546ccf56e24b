package locale

import (
	"golang.org/x/text/language"

	"github.com/tsawler/rtfwriter/model"
)

// rtlLanguages are the base languages written right to left.
var rtlLanguages = map[string]bool{
	"ar":  true,
	"he":  true,
	"fa":  true,
	"ur":  true,
	"yi":  true,
	"ps":  true,
	"sd":  true,
	"ug":  true,
	"dv":  true,
	"ckb": true,
}

// DirectionOf returns the reading direction of the language of tag.
func DirectionOf(tag language.Tag) model.Direction {
	base, _ := tag.Base()
	if rtlLanguages[base.String()] {
		return model.RightToLeft
	}
	return model.LeftToRight
}

// Direction returns the reading direction of the identifier's language.
func (l Lcid) Direction() model.Direction {
	return DirectionOf(l.Tag())
}
