package xlsx

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// builtinFormats are the number formats with implicit codes. IDs 14 to 22
// are locale dependent; these are the en-US renditions.
var builtinFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "m/d/yyyy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yyyy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// numberFormatter renders cell values with their format codes.
type numberFormatter struct {
	printer  *message.Printer
	date1904 bool
}

func newNumberFormatter(tag language.Tag, date1904 bool) *numberFormatter {
	return &numberFormatter{printer: message.NewPrinter(tag), date1904: date1904}
}

// format renders the stored value raw with code. Values that do not parse
// as numbers are returned unchanged.
func (f *numberFormatter) format(raw, code string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}

	sections := splitSections(code)
	sec := sections[0]
	neg := v < 0
	switch {
	case neg && len(sections) > 1:
		sec, v, neg = sections[1], -v, false
	case v == 0 && len(sections) > 2:
		sec = sections[2]
	}
	sec = stripBrackets(sec)

	var out string
	switch {
	case strings.EqualFold(strings.TrimSpace(sec), "general") || strings.TrimSpace(sec) == "":
		out = f.general(math.Abs(v))
	case sec == "@":
		return raw
	case isDateFormat(sec):
		return f.date(v, sec)
	default:
		out = f.number(math.Abs(v), sec)
	}
	if neg {
		return "-" + out
	}
	return out
}

// general mimics the General format: up to 15 significant digits with
// the decimal separator of the language.
func (f *numberFormatter) general(v float64) string {
	s := strconv.FormatFloat(v, 'g', 15, 64)
	if strings.Contains(s, "e") {
		return s
	}
	_, frac, _ := strings.Cut(s, ".")
	return f.printer.Sprintf("%v", number.Decimal(v, number.Scale(len(frac)), number.NoSeparator()))
}

// splitSections splits a format code at semicolons outside quotes.
func splitSections(code string) []string {
	var sections []string
	var sb strings.Builder
	quoted := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			quoted = !quoted
		case c == '\\' && i+1 < len(code):
			sb.WriteByte(c)
			i++
			c = code[i]
		case c == ';' && !quoted:
			sections = append(sections, sb.String())
			sb.Reset()
			continue
		}
		sb.WriteByte(c)
	}
	return append(sections, sb.String())
}

// stripBrackets removes color and condition brackets, keeps elapsed time
// markers such as [h] as plain tokens and turns [$€-407] into its symbol.
func stripBrackets(sec string) string {
	var sb strings.Builder
	for {
		open := strings.IndexByte(sec, '[')
		if open < 0 {
			break
		}
		end := strings.IndexByte(sec[open:], ']')
		if end < 0 {
			break
		}
		sb.WriteString(sec[:open])
		inner := sec[open+1 : open+end]
		switch {
		case strings.HasPrefix(inner, "$"):
			sym, _, _ := strings.Cut(inner[1:], "-")
			sb.WriteString(`"` + sym + `"`)
		case strings.Trim(strings.ToLower(inner), "hms") == "":
			sb.WriteString(inner)
		}
		sec = sec[open+end+1:]
	}
	sb.WriteString(sec)
	return sb.String()
}

// literal drops quotes and escapes and the padding markers _x and *x.
func literal(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
		case '\\':
			if i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
			}
		case '_':
			i++
			sb.WriteByte(' ')
		case '*':
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// unquoted returns sec with quoted text and escaped characters removed.
func unquoted(sec string) string {
	var sb strings.Builder
	quoted := false
	for i := 0; i < len(sec); i++ {
		switch c := sec[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '\\':
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// isDateFormat reports whether sec formats dates or times.
func isDateFormat(sec string) bool {
	s := strings.ToLower(unquoted(sec))
	if strings.ContainsAny(s, "#?") {
		return false
	}
	return strings.ContainsAny(s, "ymdhs")
}

// number renders a non-negative value with a numeric format section.
func (f *numberFormatter) number(v float64, sec string) string {
	plain := unquoted(sec)
	first := strings.IndexAny(plain, "0#?")
	if first < 0 {
		return literal(sec)
	}
	last := strings.LastIndexAny(plain, "0#?")
	pattern := plain[first : last+1]

	if strings.Contains(plain, "%") {
		v *= 100
	}
	if strings.Contains(pattern, "/") {
		return f.general(v)
	}

	// Literal text before the first and after the last digit placeholder.
	pi := placeholderIndex(sec, true)
	si := placeholderIndex(sec, false)
	prefix, suffix := literal(sec[:pi]), literal(sec[si+1:])

	intPart, frac, _ := strings.Cut(pattern, ".")
	mantissa, _, _ := strings.Cut(strings.ToUpper(frac), "E")
	decimals := len(mantissa) - len(strings.Trim(mantissa, "0#?"))

	if strings.ContainsAny(pattern, "Ee") {
		return prefix + strconv.FormatFloat(v, 'E', decimals, 64) + suffix
	}

	opts := []number.Option{number.Scale(decimals)}
	if !strings.Contains(intPart, ",") {
		opts = append(opts, number.NoSeparator())
	}
	return prefix + f.printer.Sprintf("%v", number.Decimal(v, opts...)) + suffix
}

// placeholderIndex finds the first or last digit placeholder of sec that
// is not quoted or escaped.
func placeholderIndex(sec string, first bool) int {
	idx := -1
	quoted := false
	for i := 0; i < len(sec); i++ {
		c := sec[i]
		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '\\':
			i++
		case c == '0' || c == '#' || c == '?':
			if first {
				return i
			}
			idx = i
		}
	}
	return idx
}

// serialTime converts a date serial to a time. The 1900 system counts the
// nonexistent 29 February 1900, so serials before it are shifted by a day.
func (f *numberFormatter) serialTime(v float64) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	switch {
	case f.date1904:
		base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	case v < 61:
		base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	days := math.Floor(v)
	secs := math.Round((v - days) * 86400)
	return base.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
}

// date renders a serial with a date or time format section.
func (f *numberFormatter) date(v float64, sec string) string {
	t := f.serialTime(v)
	lower := strings.ToLower(sec)
	twelve := strings.Contains(lower, "am/pm") || strings.Contains(lower, "a/p")

	var sb strings.Builder
	prevHour := false
	for i := 0; i < len(sec); {
		c := sec[i]
		switch {
		case c == '"':
			end := strings.IndexByte(sec[i+1:], '"')
			if end < 0 {
				end = len(sec) - i - 1
			}
			sb.WriteString(sec[i+1 : i+1+end])
			i += end + 2
			continue
		case c == '\\' && i+1 < len(sec):
			sb.WriteByte(sec[i+1])
			i += 2
			continue
		case strings.HasPrefix(lower[i:], "am/pm"):
			sb.WriteString(t.Format("PM"))
			i += 5
			continue
		case strings.HasPrefix(lower[i:], "a/p"):
			sb.WriteString(t.Format("PM")[:1])
			i += 3
			continue
		}

		n := run(lower, i)
		switch lower[i] {
		case 'y':
			if n <= 2 {
				sb.WriteString(t.Format("06"))
			} else {
				sb.WriteString(strconv.Itoa(t.Year()))
			}
		case 'd':
			switch {
			case n == 1:
				sb.WriteString(strconv.Itoa(t.Day()))
			case n == 2:
				sb.WriteString(t.Format("02"))
			case n == 3:
				sb.WriteString(t.Format("Mon"))
			default:
				sb.WriteString(t.Format("Monday"))
			}
		case 'h':
			h := t.Hour()
			if twelve {
				h = (h+11)%12 + 1
			}
			sb.WriteString(pad(h, n))
			prevHour = true
			i += n
			continue
		case 'm':
			minute := prevHour || strings.HasPrefix(strings.TrimLeft(lower[i+n:], ":. "), "s")
			switch {
			case minute:
				sb.WriteString(pad(t.Minute(), n))
			case n == 1:
				sb.WriteString(strconv.Itoa(int(t.Month())))
			case n == 2:
				sb.WriteString(t.Format("01"))
			case n == 3:
				sb.WriteString(t.Format("Jan"))
			case n == 5:
				sb.WriteString(t.Format("Jan")[:1])
			default:
				sb.WriteString(t.Format("January"))
			}
		case 's':
			sb.WriteString(pad(t.Second(), n))
		default:
			sb.WriteByte(c)
			i++
			continue
		}
		prevHour = false
		i += n
	}
	return sb.String()
}

// run counts the repetitions of s[i] starting at i.
func run(s string, i int) int {
	n := 1
	for i+n < len(s) && s[i+n] == s[i] {
		n++
	}
	return n
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if width >= 2 && len(s) < 2 {
		return "0" + s
	}
	return s
}
