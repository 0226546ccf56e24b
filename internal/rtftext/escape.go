package rtftext

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// Escape returns s encoded as RTF text.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		writeRune(&sb, r)
	}
	return sb.String()
}

// EscapeRunes is like Escape but works on a rune slice.
func EscapeRunes(rs []rune) string {
	var sb strings.Builder
	sb.Grow(len(rs))
	for _, r := range rs {
		writeRune(&sb, r)
	}
	return sb.String()
}

func writeRune(sb *strings.Builder, r rune) {
	switch r {
	case '\\', '{', '}':
		sb.WriteByte('\\')
		sb.WriteRune(r)
		return
	case '\n':
		sb.WriteString(`\line `)
		return
	case '\t':
		sb.WriteString(`\tab `)
		return
	case '\r':
		return
	}

	if r < 0x80 {
		sb.WriteRune(r)
		return
	}

	if b, ok := charmap.Windows1252.EncodeRune(r); ok {
		sb.WriteString(`\'`)
		sb.WriteString(hexByte(b))
		return
	}

	if r > 0xFFFF {
		r1, r2 := utf16.EncodeRune(r)
		writeUnicode(sb, r1)
		writeUnicode(sb, r2)
		return
	}
	writeUnicode(sb, r)
}

// writeUnicode emits \uN? where N is the signed 16-bit value of the code
// unit, as RTF readers expect.
func writeUnicode(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	sb.WriteString(strconv.Itoa(int(int16(uint16(r)))))
	sb.WriteByte('?')
}

const hexDigits = "0123456789abcdef"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
