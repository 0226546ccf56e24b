package docx

import (
	"strconv"
	"strings"
)

// numberingXML represents word/numbering.xml
type numberingXML struct {
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

// lvlXML represents a numbering level.
type lvlXML struct {
	ILvl    string            `xml:"ilvl,attr"`
	Start   valXML            `xml:"start"`
	NumFmt  valXML            `xml:"numFmt"`  // decimal, bullet, lowerLetter, upperLetter, lowerRoman, upperRoman
	LvlText valXML            `xml:"lvlText"` // e.g., "%1.", "%1.%2"
	PPr     paragraphPropsXML `xml:"pPr"`
}

// numXML represents a numbering instance.
type numXML struct {
	NumID         string           `xml:"numId,attr"`
	AbstractNumID valXML           `xml:"abstractNumId"`
	Overrides     []lvlOverrideXML `xml:"lvlOverride"`
}

// lvlOverrideXML restarts a level of a numbering instance.
type lvlOverrideXML struct {
	ILvl          string `xml:"ilvl,attr"`
	StartOverride valXML `xml:"startOverride"`
}

// listIndent is the indent per list level, in points, used when the
// numbering definition has none.
const listIndent = 18

// numberingResolver turns numbering references into list prefixes. It
// keeps one counter per level for every numbering instance.
type numberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	nums         map[string]*numXML         // numId -> instance
	counters     map[string][]int           // numId -> current value per level
}

// newNumberingResolver creates a resolver from parsed numbering.xml, which
// may be nil.
func newNumberingResolver(numbering *numberingXML) *numberingResolver {
	nr := &numberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		nums:         make(map[string]*numXML),
		counters:     make(map[string][]int),
	}
	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for i := range numbering.Nums {
		num := &numbering.Nums[i]
		nr.nums[num.NumID] = num
	}
	return nr
}

// levels returns the level definitions of numID indexed by level.
func (nr *numberingResolver) levels(numID string) []lvlXML {
	num, ok := nr.nums[numID]
	if !ok {
		return nil
	}
	an, ok := nr.abstractNums[num.AbstractNumID.Val]
	if !ok {
		return nil
	}
	levels := make([]lvlXML, 9)
	for _, lvl := range an.Levels {
		if i, err := strconv.Atoi(lvl.ILvl); err == nil && i >= 0 && i < len(levels) {
			levels[i] = lvl
		}
	}
	for _, o := range num.Overrides {
		if i, err := strconv.Atoi(o.ILvl); err == nil && i >= 0 && i < len(levels) && o.StartOverride.Val != "" {
			levels[i].Start = o.StartOverride
		}
	}
	return levels
}

// next advances the counter of numID at level and returns the item's
// prefix and level definition. ok is false when numID is not a list.
func (nr *numberingResolver) next(numID string, level int) (prefix string, lvl lvlXML, ok bool) {
	if numID == "" || numID == "0" {
		return "", lvlXML{}, false
	}
	levels := nr.levels(numID)
	if levels == nil {
		return "", lvlXML{}, false
	}
	if level < 0 || level >= len(levels) {
		level = 0
	}

	counts, seen := nr.counters[numID]
	if !seen {
		counts = make([]int, len(levels))
		for i := range counts {
			counts[i] = startValue(levels[i]) - 1
		}
	}
	counts[level]++
	// Deeper levels restart after a higher level advances.
	for i := level + 1; i < len(counts); i++ {
		counts[i] = startValue(levels[i]) - 1
	}
	nr.counters[numID] = counts

	lvl = levels[level]
	if lvl.NumFmt.Val == "bullet" {
		return getBulletChar(lvl.LvlText.Val, level) + " ", lvl, true
	}

	text := lvl.LvlText.Val
	if text == "" {
		text = "%" + strconv.Itoa(level+1) + "."
	}
	for i := 0; i <= level; i++ {
		n := counts[i]
		if n < startValue(levels[i]) {
			n = startValue(levels[i])
		}
		text = strings.ReplaceAll(text, "%"+strconv.Itoa(i+1), formatNumber(levels[i].NumFmt.Val, n))
	}
	if text == "" {
		return "", lvl, true
	}
	return text + " ", lvl, true
}

func startValue(lvl lvlXML) int {
	if s, err := strconv.Atoi(lvl.Start.Val); err == nil {
		return s
	}
	return 1
}

// getBulletChar returns the appropriate bullet character for the level.
func getBulletChar(lvlText string, level int) string {
	// Common Word bullet characters (standard Unicode)
	bullets := []string{"•", "○", "■", "□", "▪", "▫", "►", "◦"}

	// Word often uses Symbol/Wingdings fonts with characters in the
	// Private Use Area that are meaningless in other fonts.
	if lvlText != "" && !strings.Contains(lvlText, "%") && isRenderableBullet(lvlText) {
		return lvlText
	}
	if level < len(bullets) {
		return bullets[level]
	}
	return "•"
}

// isRenderableBullet checks if a bullet character will render properly.
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

// formatNumber renders n in an OOXML number format.
func formatNumber(numFmt string, n int) string {
	switch numFmt {
	case "lowerLetter":
		return toLowerLetter(n)
	case "upperLetter":
		return strings.ToUpper(toLowerLetter(n))
	case "lowerRoman":
		return strings.ToLower(toUpperRoman(n))
	case "upperRoman":
		return toUpperRoman(n)
	case "decimalZero":
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	case "none":
		return ""
	default:
		return strconv.Itoa(n)
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
