package rtftext

import "strings"

// DefaultLineBytes is the number of input bytes written per hex line.
const DefaultLineBytes = 64

// HexLines encodes data as hexadecimal digits, starting a new line after
// every perLine input bytes. Every line, including the last, ends in a
// newline. A non-positive perLine selects DefaultLineBytes.
func HexLines(data []byte, perLine int) string {
	if perLine <= 0 {
		perLine = DefaultLineBytes
	}
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	lines := (len(data) + perLine - 1) / perLine
	sb.Grow(len(data)*2 + lines)

	for i, b := range data {
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0F])
		if (i+1)%perLine == 0 || i == len(data)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
