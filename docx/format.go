package docx

import (
	"github.com/tsawler/rtfwriter/document"
	"github.com/tsawler/rtfwriter/model"
)

// highlightColors maps the named highlight colors of OOXML.
var highlightColors = map[string]model.Color{
	"black":       {R: 0, G: 0, B: 0},
	"blue":        {R: 0, G: 0, B: 255},
	"cyan":        {R: 0, G: 255, B: 255},
	"green":       {R: 0, G: 255, B: 0},
	"magenta":     {R: 255, G: 0, B: 255},
	"red":         {R: 255, G: 0, B: 0},
	"yellow":      {R: 255, G: 255, B: 0},
	"white":       {R: 255, G: 255, B: 255},
	"darkBlue":    {R: 0, G: 0, B: 139},
	"darkCyan":    {R: 0, G: 139, B: 139},
	"darkGreen":   {R: 0, G: 100, B: 0},
	"darkMagenta": {R: 139, G: 0, B: 139},
	"darkRed":     {R: 139, G: 0, B: 0},
	"darkYellow":  {R: 128, G: 128, B: 0},
	"darkGray":    {R: 169, G: 169, B: 169},
	"lightGray":   {R: 211, G: 211, B: 211},
}

// applyRunProps sets the properties present in rpr on f. Properties
// switched off explicitly are removed so they override inherited formats.
func applyRunProps(f *document.CharFormat, rpr runPropsXML) error {
	if name := rpr.Font.name(); name != "" {
		if err := f.SetFontName(name); err != nil {
			return err
		}
	}
	if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
		f.SetFontSize(size)
	}

	var on, off model.FontStyleFlag
	toggle := func(b boolXML, flag model.FontStyleFlag) {
		switch {
		case b.on():
			on |= flag
		case b.present():
			off |= flag
		}
	}
	toggle(rpr.Bold, model.Bold)
	toggle(rpr.Italic, model.Italic)
	toggle(rpr.Strike, model.Strike)
	toggle(rpr.DStrike, model.Strike)
	toggle(rpr.SmallCaps, model.Scaps)
	switch rpr.Underline.Val {
	case "":
	case "none":
		off |= model.Underline
	default:
		on |= model.Underline
	}
	switch rpr.VertAlign.Val {
	case "superscript":
		on |= model.Super
	case "subscript":
		on |= model.Sub
	case "baseline":
		off |= model.Super | model.Sub
	}
	if off != 0 {
		f.RemoveStyle(off)
	}
	if on != 0 {
		f.AddStyle(on)
	}

	if c, ok := hexColor(rpr.Color.Val); ok {
		if err := f.SetForegroundColor(c); err != nil {
			return err
		}
	}
	if c, ok := highlightColors[rpr.Highlight.Val]; ok {
		if err := f.SetBackgroundColor(c); err != nil {
			return err
		}
	} else if c, ok := hexColor(rpr.Shading.Fill); ok {
		if err := f.SetBackgroundColor(c); err != nil {
			return err
		}
	}
	return nil
}

// hexColor parses an OOXML RRGGBB color. "auto" and empty values are not
// colors.
func hexColor(s string) (model.Color, bool) {
	if s == "" || s == "auto" {
		return model.Color{}, false
	}
	c, err := model.ParseColor(s)
	if err != nil {
		return model.Color{}, false
	}
	return c, true
}
