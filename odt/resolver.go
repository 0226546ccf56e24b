package odt

import (
	"strconv"
	"strings"
)

// headingSizes are the font sizes of heading levels 1 to 6 when the
// heading style sets none.
var headingSizes = [6]float64{24, 18, 14, 12, 10, 8}

// resolvedStyle is a style with its ancestors and the family default
// applied.
type resolvedStyle struct {
	Name         string
	Para         paragraphPropsXML
	Text         textPropsXML
	ListStyle    string
	IsHeading    bool
	HeadingLevel int // 1-10, 0 if not a heading
}

// styleKey identifies a style. Names are unique per family only.
type styleKey struct {
	family, name string
}

// styleResolver resolves styles with inheritance support.
type styleResolver struct {
	styles     map[styleKey]*styleDefXML
	defaults   map[string]*styleDefXML // family -> default style
	listStyles map[string]*listStyleXML
	outline    *listStyleXML
	fonts      map[string]string // font face name -> font family
	resolved   map[styleKey]*resolvedStyle
}

// newStyleResolver creates a resolver from styles.xml, which may be nil,
// and the automatic styles of content.xml. Later definitions win.
func newStyleResolver(docStyles *stylesXML, content *contentXML) *styleResolver {
	sr := &styleResolver{
		styles:     make(map[styleKey]*styleDefXML),
		defaults:   make(map[string]*styleDefXML),
		listStyles: make(map[string]*listStyleXML),
		fonts:      make(map[string]string),
		resolved:   make(map[styleKey]*resolvedStyle),
	}
	if docStyles != nil {
		sr.addFonts(docStyles.FontFaces)
		sr.add(docStyles.Styles)
		sr.add(docStyles.AutoStyles)
	}
	if content != nil {
		sr.addFonts(content.FontFaces)
		sr.add(content.AutoStyles)
	}
	return sr
}

func (sr *styleResolver) addFonts(faces []fontFaceXML) {
	for _, f := range faces {
		if family := cleanFontFamily(f.Family); family != "" {
			sr.fonts[f.Name] = family
		}
	}
}

func (sr *styleResolver) add(list *styleListXML) {
	if list == nil {
		return
	}
	for i := range list.Defaults {
		def := &list.Defaults[i]
		sr.defaults[def.Family] = def
	}
	for i := range list.Styles {
		style := &list.Styles[i]
		sr.styles[styleKey{style.Family, style.Name}] = style
	}
	for i := range list.ListStyles {
		ls := &list.ListStyles[i]
		sr.listStyles[ls.Name] = ls
	}
	if list.Outline != nil {
		sr.outline = list.Outline
	}
}

// style returns the definition of a style without its ancestors.
func (sr *styleResolver) style(family, name string) *styleDefXML {
	if name == "" {
		return nil
	}
	return sr.styles[styleKey{family, name}]
}

// Resolve returns the fully resolved style. An empty name resolves to the
// family default.
func (sr *styleResolver) Resolve(family, name string) *resolvedStyle {
	key := styleKey{family, name}
	if resolved, ok := sr.resolved[key]; ok {
		return resolved
	}

	resolved := &resolvedStyle{Name: name}
	if def := sr.defaults[family]; def != nil {
		applyStyleDef(resolved, def)
	}

	outline := ""
	display := name
	for _, def := range sr.inheritanceChain(family, name) {
		applyStyleDef(resolved, def)
		if def.DefaultOutlineLevel != "" {
			outline = def.DefaultOutlineLevel
		}
	}
	if def := sr.style(family, name); def != nil && def.DisplayName != "" {
		display = def.DisplayName
	}

	if level := atoi(outline); level >= 1 && level <= 10 {
		resolved.IsHeading, resolved.HeadingLevel = true, level
	} else if family == "paragraph" {
		resolved.IsHeading, resolved.HeadingLevel = detectBuiltInHeading(display)
	}

	sr.resolved[key] = resolved
	return resolved
}

// textStyle returns the text properties of a text style and its
// ancestors, without the family default.
func (sr *styleResolver) textStyle(name string) textPropsXML {
	var tp textPropsXML
	for _, def := range sr.inheritanceChain("text", name) {
		if def.TextProps != nil {
			tp = mergeTextProps(tp, *def.TextProps)
		}
	}
	return tp
}

// inheritanceChain returns the definitions from base to derived.
func (sr *styleResolver) inheritanceChain(family, name string) []*styleDefXML {
	var chain []*styleDefXML
	visited := make(map[string]bool)

	current := name
	for current != "" && !visited[current] {
		visited[current] = true
		def := sr.style(family, current)
		if def == nil {
			break
		}
		chain = append([]*styleDefXML{def}, chain...)
		current = def.ParentStyleName
	}
	return chain
}

// applyStyleDef overlays a style definition's properties.
func applyStyleDef(resolved *resolvedStyle, def *styleDefXML) {
	if def.ParagraphProps != nil {
		resolved.Para = mergeParaProps(resolved.Para, *def.ParagraphProps)
	}
	if def.TextProps != nil {
		resolved.Text = mergeTextProps(resolved.Text, *def.TextProps)
	}
	if def.ListStyleName != "" {
		resolved.ListStyle = def.ListStyleName
	}
}

// mergeParaProps overlays the properties set in over onto base.
func mergeParaProps(base, over paragraphPropsXML) paragraphPropsXML {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.TextAlign, over.TextAlign)
	set(&base.MarginTop, over.MarginTop)
	set(&base.MarginBottom, over.MarginBottom)
	set(&base.MarginLeft, over.MarginLeft)
	set(&base.MarginRight, over.MarginRight)
	set(&base.TextIndent, over.TextIndent)
	set(&base.LineHeight, over.LineHeight)
	set(&base.LineHeightAtLeast, over.LineHeightAtLeast)
	set(&base.BreakBefore, over.BreakBefore)
	set(&base.WritingMode, over.WritingMode)
	return base
}

// mergeTextProps overlays the properties set in over onto base. A
// percentage font size scales the inherited size.
func mergeTextProps(base, over textPropsXML) textPropsXML {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	if over.FontName != "" || over.FontFamily != "" {
		base.FontName, base.FontFamily = over.FontName, over.FontFamily
	}
	if pct, ok := strings.CutSuffix(strings.TrimSpace(over.FontSize), "%"); ok {
		p, err := strconv.ParseFloat(pct, 64)
		if size := parseLength(base.FontSize); err == nil && size > 0 {
			base.FontSize = strconv.FormatFloat(size*p/100, 'f', -1, 64) + "pt"
		}
	} else {
		set(&base.FontSize, over.FontSize)
	}
	set(&base.FontStyle, over.FontStyle)
	set(&base.FontWeight, over.FontWeight)
	set(&base.FontVariant, over.FontVariant)
	set(&base.TextUnderline, over.TextUnderline)
	set(&base.TextLineThrough, over.TextLineThrough)
	set(&base.TextPosition, over.TextPosition)
	set(&base.Color, over.Color)
	set(&base.BackgroundColor, over.BackgroundColor)
	return base
}

// fontName returns the font family of tp, looking style:font-name up in
// the font face declarations.
func (sr *styleResolver) fontName(tp textPropsXML) string {
	if tp.FontName != "" {
		if family, ok := sr.fonts[tp.FontName]; ok {
			return family
		}
		return tp.FontName
	}
	return cleanFontFamily(tp.FontFamily)
}

// detectBuiltInHeading checks for common heading style names.
func detectBuiltInHeading(styleName string) (bool, int) {
	name := strings.ToLower(strings.ReplaceAll(styleName, "_20_", " "))
	rest, ok := strings.CutPrefix(name, "heading")
	if !ok {
		return false, 0
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return false, 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 10 {
		return false, 0
	}
	return true, level
}

func headingSize(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > len(headingSizes) {
		level = len(headingSizes)
	}
	return headingSizes[level-1]
}

// parseLength parses an ODF length value to points.
// Supports: pt, pc, in, cm, mm, px. Percentages are not lengths.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			break
		}
	}
	if i == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0
	}

	switch strings.ToLower(strings.TrimSpace(s[i:])) {
	case "pt", "":
		return value
	case "pc":
		return value * 12
	case "in":
		return value * 72
	case "cm":
		return value * 72 / 2.54
	case "mm":
		return value * 72 / 25.4
	case "px":
		return value * 0.75 // 96 DPI
	default:
		return 0
	}
}

// cleanFontFamily removes quotes from font family names.
func cleanFontFamily(family string) string {
	family = strings.TrimSpace(family)
	if i := strings.IndexByte(family, ','); i >= 0 {
		family = family[:i]
	}
	return strings.Trim(strings.TrimSpace(family), "'\"")
}
