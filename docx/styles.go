package docx

import (
	"strconv"
	"strings"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	DocDefaults docDefaultsXML `xml:"docDefaults"`
	Styles      []styleDefXML  `xml:"style"`
}

// docDefaultsXML represents document default styles.
type docDefaultsXML struct {
	RPrDefault struct {
		RPr runPropsXML `xml:"rPr"`
	} `xml:"rPrDefault"`
	PPrDefault struct {
		PPr paragraphPropsXML `xml:"pPr"`
	} `xml:"pPrDefault"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string            `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string            `xml:"styleId,attr"`
	Default string            `xml:"default,attr"` // "1" if default style
	Name    valXML            `xml:"name"`
	BasedOn valXML            `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
	RPr     runPropsXML       `xml:"rPr"`
}

// headingSizes are the font sizes in points given to built-in heading
// styles that styles.xml does not define, indexed by level-1.
var headingSizes = [6]float64{24, 18, 14, 12, 10, 8}

// resolvedStyle is a paragraph style with its inheritance chain and the
// document defaults applied.
type resolvedStyle struct {
	ID           string
	Name         string
	PPr          paragraphPropsXML
	RPr          runPropsXML
	IsHeading    bool
	HeadingLevel int // 1-9, 0 if not a heading
}

// styleResolver resolves styles with inheritance support.
type styleResolver struct {
	styles           map[string]*styleDefXML
	defaults         docDefaultsXML
	defaultParagraph string
	resolved         map[string]*resolvedStyle
}

// newStyleResolver creates a resolver from parsed styles, which may be nil.
func newStyleResolver(styles *stylesXML) *styleResolver {
	sr := &styleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]*resolvedStyle),
	}
	if styles == nil {
		return sr
	}

	sr.defaults = styles.DocDefaults
	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
		if style.Type == "paragraph" && style.Default == "1" {
			sr.defaultParagraph = style.StyleID
		}
	}
	return sr
}

// Resolve returns the fully resolved paragraph style for styleID. An empty
// ID means the default paragraph style.
func (sr *styleResolver) Resolve(styleID string) *resolvedStyle {
	if styleID == "" {
		styleID = sr.defaultParagraph
	}
	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := &resolvedStyle{
		ID:  styleID,
		PPr: sr.defaults.PPrDefault.PPr,
		RPr: sr.defaults.RPrDefault.RPr,
	}

	def, ok := sr.styles[styleID]
	if !ok {
		// Built-in heading styles referenced without a definition.
		resolved.IsHeading, resolved.HeadingLevel = detectBuiltInHeading(styleID)
		if resolved.IsHeading {
			resolved.RPr.Bold = boolXML{}
			resolved.RPr.Bold.XMLName.Local = "b"
			resolved.RPr.FontSize.Val = strconv.Itoa(int(headingSize(resolved.HeadingLevel) * 2))
		}
		sr.resolved[styleID] = resolved
		return resolved
	}

	resolved.Name = def.Name.Val
	for _, sid := range sr.inheritanceChain(styleID) {
		if d, ok := sr.styles[sid]; ok {
			resolved.PPr = mergeParaProps(resolved.PPr, d.PPr)
			resolved.RPr = mergeRunProps(resolved.RPr, d.RPr)
		}
	}
	resolved.PPr.Style = styleRefXML{}
	resolved.IsHeading, resolved.HeadingLevel = detectHeading(def, resolved.PPr)

	sr.resolved[styleID] = resolved
	return resolved
}

// character returns the run properties of a character style and its
// ancestors, without the document defaults.
func (sr *styleResolver) character(styleID string) runPropsXML {
	var rpr runPropsXML
	if styleID == "" {
		return rpr
	}
	for _, sid := range sr.inheritanceChain(styleID) {
		if d, ok := sr.styles[sid]; ok {
			rpr = mergeRunProps(rpr, d.RPr)
		}
	}
	return rpr
}

// runProps resolves the formatting a run sets on top of its paragraph: the
// run's character style overlaid with its direct formatting.
func (sr *styleResolver) runProps(direct runPropsXML) runPropsXML {
	rpr := mergeRunProps(sr.character(direct.Style.Val), direct)
	rpr.Style = styleRefXML{}
	return rpr
}

// inheritanceChain returns style IDs from base to derived.
func (sr *styleResolver) inheritanceChain(styleID string) []string {
	var chain []string
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		chain = append([]string{current}, chain...)

		def, ok := sr.styles[current]
		if !ok {
			break
		}
		current = def.BasedOn.Val
	}
	return chain
}

// mergeRunProps overlays the properties set in over onto base.
func mergeRunProps(base, over runPropsXML) runPropsXML {
	if over.Style.Val != "" {
		base.Style = over.Style
	}
	for _, p := range []struct{ dst, src *boolXML }{
		{&base.Bold, &over.Bold},
		{&base.Italic, &over.Italic},
		{&base.Strike, &over.Strike},
		{&base.DStrike, &over.DStrike},
		{&base.SmallCaps, &over.SmallCaps},
		{&base.RTL, &over.RTL},
	} {
		if p.src.present() {
			*p.dst = *p.src
		}
	}
	if over.Underline.Val != "" {
		base.Underline = over.Underline
	}
	if over.VertAlign.Val != "" {
		base.VertAlign = over.VertAlign
	}
	if over.FontSize.Val != "" {
		base.FontSize = over.FontSize
	}
	if over.Font.name() != "" {
		base.Font = over.Font
	}
	if over.Color.Val != "" {
		base.Color = over.Color
	}
	if over.Highlight.Val != "" {
		base.Highlight = over.Highlight
	}
	if over.Shading.Fill != "" {
		base.Shading = over.Shading
	}
	return base
}

// mergeParaProps overlays the properties set in over onto base.
func mergeParaProps(base, over paragraphPropsXML) paragraphPropsXML {
	if over.Style.Val != "" {
		base.Style = over.Style
	}
	if over.NumPr.NumID.Val != "" {
		base.NumPr = over.NumPr
	} else if over.NumPr.ILvl.Val != "" {
		base.NumPr.ILvl = over.NumPr.ILvl
	}
	if over.Justification.Val != "" {
		base.Justification = over.Justification
	}
	for _, p := range []struct{ dst, src *string }{
		{&base.Spacing.Before, &over.Spacing.Before},
		{&base.Spacing.After, &over.Spacing.After},
		{&base.Spacing.Line, &over.Spacing.Line},
		{&base.Spacing.LineRule, &over.Spacing.LineRule},
		{&base.Indent.Left, &over.Indent.Left},
		{&base.Indent.Start, &over.Indent.Start},
		{&base.Indent.Right, &over.Indent.Right},
		{&base.Indent.End, &over.Indent.End},
		{&base.Indent.FirstLine, &over.Indent.FirstLine},
		{&base.Indent.Hanging, &over.Indent.Hanging},
		{&base.OutlineLvl.Val, &over.OutlineLvl.Val},
	} {
		if *p.src != "" {
			*p.dst = *p.src
		}
	}
	if over.Bidi.present() {
		base.Bidi = over.Bidi
	}
	if over.PageBreakBefore.present() {
		base.PageBreakBefore = over.PageBreakBefore
	}
	base.RPr = mergeRunProps(base.RPr, over.RPr)
	return base
}

// detectHeading determines if a style represents a heading.
func detectHeading(def *styleDefXML, ppr paragraphPropsXML) (bool, int) {
	if isHeading, level := detectBuiltInHeading(def.StyleID); isHeading {
		return true, level
	}

	name := strings.ToLower(def.Name.Val)
	if strings.HasPrefix(name, "heading") {
		for i := 1; i <= 9; i++ {
			if strings.Contains(name, strconv.Itoa(i)) {
				return true, i
			}
		}
		return true, 1
	}

	if ppr.OutlineLvl.Val != "" {
		if level := parseOutlineLevel(ppr.OutlineLvl.Val); level >= 0 {
			return true, level + 1
		}
	}
	return false, 0
}

// detectBuiltInHeading checks for Word's built-in heading style IDs.
func detectBuiltInHeading(styleID string) (bool, int) {
	id := strings.ToLower(styleID)
	switch id {
	case "title":
		return true, 1
	case "subtitle":
		return true, 2
	}
	if rest, ok := strings.CutPrefix(id, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
		return true, int(rest[0] - '0')
	}
	return false, 0
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

// parseOutlineLevel parses a 0-based outline level; body text levels (9)
// and garbage return -1.
func parseOutlineLevel(s string) int {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || level < 0 || level > 8 {
		return -1
	}
	return level
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 2
}

// parseTwips parses a size in twips to points.
// 1 point = 20 twips.
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 20
}
