package pptx

import (
	"strconv"
	"strings"
)

// listState numbers the auto-numbered paragraphs of one text body.
type listState struct {
	levels map[int]counter
}

type counter struct {
	scheme string
	n      int
}

// prefix returns the bullet or number written before a paragraph at
// level, or "" for none. implicit is set for body placeholders, whose
// paragraphs carry bullets unless they say otherwise.
func (ls *listState) prefix(ppr *paraPropsXML, level int, implicit bool) string {
	if ls.levels == nil {
		ls.levels = make(map[int]counter)
	}
	for l := range ls.levels {
		if l > level {
			delete(ls.levels, l)
		}
	}

	var none bool
	var char string
	var num *autoNumXML
	if ppr != nil {
		none, char, num = ppr.BuNone != nil, ppr.BuChar.char(), ppr.BuAutoNum
	}

	if num != nil && !none {
		scheme := num.Type
		if scheme == "" {
			scheme = "arabicPeriod"
		}
		c, ok := ls.levels[level]
		if ok && c.scheme == scheme {
			c.n++
		} else {
			c = counter{scheme: scheme, n: 1}
			if start := atoi(num.StartAt); start > 0 {
				c.n = start
			}
		}
		ls.levels[level] = c
		return autoNumber(scheme, c.n)
	}

	delete(ls.levels, level)
	switch {
	case none:
		return ""
	case char != "":
		return char
	case implicit:
		return "•"
	}
	return ""
}

func (b *bulletCharXML) char() string {
	if b == nil || !isRenderable(b.Char) {
		return ""
	}
	return b.Char
}

// isRenderable rejects symbol font characters in the Private Use Area,
// which are meaningless in other fonts.
func isRenderable(s string) bool {
	for _, r := range s {
		if r < 0x20 || (r >= 0xE000 && r <= 0xF8FF) {
			return false
		}
	}
	return s != ""
}

// numberStyles pairs the scheme prefixes of auto-numbering with their
// digit formatters.
var numberStyles = []struct {
	prefix string
	format func(int) string
}{
	{"arabic", strconv.Itoa},
	{"alphaLc", lowerLetter},
	{"alphaUc", func(n int) string { return strings.ToUpper(lowerLetter(n)) }},
	{"romanLc", func(n int) string { return strings.ToLower(upperRoman(n)) }},
	{"romanUc", upperRoman},
}

// autoNumber renders n in a DrawingML auto-numbering scheme such as
// "arabicPeriod" (1.) or "alphaLcParenBoth" ((a)). Unknown schemes are
// written as arabic numbers with a period.
func autoNumber(scheme string, n int) string {
	for _, st := range numberStyles {
		rest, ok := strings.CutPrefix(scheme, st.prefix)
		if !ok {
			continue
		}
		s := st.format(n)
		switch rest {
		case "ParenR":
			return s + ")"
		case "ParenBoth":
			return "(" + s + ")"
		case "Plain":
			return s
		case "Minus":
			return "- " + s + " -"
		default:
			return s + "."
		}
	}
	return strconv.Itoa(n) + "."
}

// lowerLetter converts 1, 2, ... 26, 27 to a, b, ... z, aa.
func lowerLetter(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	letter := string(rune('a' + (n-1)%26))
	return strings.Repeat(letter, (n-1)/26+1)
}

// upperRoman converts n to Roman numerals. Values outside 1..3999 are
// written in decimal.
func upperRoman(n int) string {
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
