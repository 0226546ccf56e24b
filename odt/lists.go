package odt

import (
	"strconv"
	"strings"
)

// listIndent is the indent per list level, in points, used when the list
// style gives none.
const listIndent = 18

// maxListLevels is the deepest list level ODF defines.
const maxListLevels = 10

// listLevel is the resolved style of one list level.
type listLevel struct {
	numbered bool
	bullet   string
	format   string // "1", "a", "A", "i", "I" or "" for no number
	prefix   string
	suffix   string
	start    int
	display  int // levels shown in the label, counting this one

	left, first float64 // paragraph indents in points
}

// listLevel resolves level (0-based) of the named list style. Unknown
// styles and levels give a bullet.
func (sr *styleResolver) listLevel(styleName string, level int) listLevel {
	return resolveListLevel(sr.listStyles[styleName], level)
}

// outlineLevel resolves the heading numbering of level (0-based).
func (sr *styleResolver) outlineLevel(level int) listLevel {
	if sr.outline == nil {
		return listLevel{}
	}
	return resolveListLevel(sr.outline, level)
}

func resolveListLevel(ls *listStyleXML, level int) listLevel {
	ll := listLevel{
		bullet:  getBulletChar(level),
		start:   1,
		display: 1,
		left:    float64(listIndent * (level + 1)),
		first:   -listIndent,
	}
	if ls == nil {
		return ll
	}

	want := strconv.Itoa(level + 1)
	find := func(levels []listLevelXML) *listLevelXML {
		for i := range levels {
			if levels[i].Level == want {
				return &levels[i]
			}
		}
		return nil
	}

	var def *listLevelXML
	switch {
	case find(ls.Bullets) != nil:
		def = find(ls.Bullets)
		if isRenderableBullet(def.BulletChar) {
			ll.bullet = def.BulletChar
		}
	case find(ls.Numbers) != nil:
		def = find(ls.Numbers)
		ll.numbered = true
	case find(ls.Outline) != nil:
		def = find(ls.Outline)
		ll.numbered = true
	case find(ls.Images) != nil:
		def = find(ls.Images)
	default:
		return ll
	}

	if ll.numbered {
		ll.format = def.NumFormat
		if n, err := strconv.Atoi(def.StartValue); err == nil {
			ll.start = n
		}
		if n := atoi(def.DisplayLevels); n > 1 {
			ll.display = min(n, level+1)
		}
	}
	ll.prefix, ll.suffix = def.NumPrefix, def.NumSuffix

	if props := def.Props; props != nil {
		switch {
		case props.Alignment != nil:
			ll.left = parseLength(props.Alignment.MarginLeft)
			ll.first = parseLength(props.Alignment.TextIndent)
		case props.SpaceBefore != "" || props.MinLabelWidth != "":
			label := parseLength(props.MinLabelWidth)
			ll.left = parseLength(props.SpaceBefore) + label
			ll.first = -label
		}
	}
	return ll
}

// listCounter numbers the items of one list across all its levels.
type listCounter struct {
	counts  [maxListLevels]int
	started [maxListLevels]bool
}

// next advances level and restarts the deeper levels. start overrides the
// next value when positive.
func (c *listCounter) next(level int, ll listLevel, start int) {
	if level < 0 || level >= maxListLevels {
		return
	}
	switch {
	case start > 0:
		c.counts[level] = start
	case !c.started[level]:
		c.counts[level] = ll.start
	default:
		c.counts[level]++
	}
	c.started[level] = true
	for i := level + 1; i < maxListLevels; i++ {
		c.counts[i], c.started[i] = 0, false
	}
}

// label renders the label of the current item at level. levels resolves
// the style of the parent levels shown with display-levels.
func (c *listCounter) label(level int, ll listLevel, levels func(int) listLevel) string {
	if !ll.numbered {
		return ll.prefix + ll.bullet + ll.suffix
	}
	if ll.format == "" || level < 0 || level >= maxListLevels {
		return ""
	}

	parts := make([]string, 0, ll.display)
	for l := level - ll.display + 1; l < level; l++ {
		n := c.counts[l]
		if !c.started[l] {
			n = levels(l).start
		}
		parts = append(parts, formatListNumber(n, levels(l).format))
	}
	parts = append(parts, formatListNumber(c.counts[level], ll.format))
	return ll.prefix + strings.Join(parts, ".") + ll.suffix
}

// getBulletChar returns a bullet character based on nesting level.
func getBulletChar(level int) string {
	bullets := []string{"•", "◦", "▪", "•", "◦", "▪", "•", "◦", "▪", "•"}
	if level >= 0 && level < len(bullets) {
		return bullets[level]
	}
	return "•"
}

// isRenderableBullet rejects empty bullets and Private Use Area symbols
// that only make sense in their symbol font.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}

// formatListNumber formats a number according to the format type.
func formatListNumber(num int, format string) string {
	switch format {
	case "a":
		return toLowerLetter(num)
	case "A":
		return strings.ToUpper(toLowerLetter(num))
	case "i":
		return strings.ToLower(toUpperRoman(num))
	case "I":
		return toUpperRoman(num)
	case "":
		return ""
	default:
		return strconv.Itoa(num)
	}
}

// toLowerLetter converts 1, 2, ... 26, 27 to a, b, ... z, aa.
func toLowerLetter(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	letter := string(rune('a' + (n-1)%26))
	return strings.Repeat(letter, (n-1)/26+1)
}

// toUpperRoman converts n to Roman numerals. Values outside 1..3999 are
// written in decimal.
func toUpperRoman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var sb strings.Builder
	for i, v := range values {
		for n >= v {
			sb.WriteString(symbols[i])
			n -= v
		}
	}
	return sb.String()
}
