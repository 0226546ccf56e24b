package imaging

import (
	"encoding/binary"
	"math"

	"github.com/tsawler/rtfwriter/format"
)

// resolution returns the horizontal resolution recorded in the image
// header, or 0 if there is none.
func resolution(f format.Format, data []byte) float64 {
	switch f {
	case format.JPEG:
		return jfifDensity(data)
	case format.PNG:
		return pngDensity(data)
	default:
		return 0
	}
}

// jfifDensity reads the density of a JFIF APP0 segment.
func jfifDensity(data []byte) float64 {
	pos := 2 // after SOI
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0
		}
		marker := data[pos+1]
		// Start of scan: no more header segments.
		if marker == 0xDA {
			return 0
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		if length < 2 || pos+2+length > len(data) {
			return 0
		}
		payload := data[pos+4 : pos+2+length]
		if marker == 0xE0 && len(payload) >= 12 && string(payload[:5]) == "JFIF\x00" {
			units := payload[7]
			x := float64(binary.BigEndian.Uint16(payload[8:]))
			switch units {
			case 1:
				return x
			case 2:
				return math.Round(x * 2.54)
			}
			return 0
		}
		pos += 2 + length
	}
	return 0
}

// pngDensity reads the pHYs chunk of a PNG stream.
func pngDensity(data []byte) float64 {
	pos := 8 // after signature
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		if length < 0 || start+length+4 > len(data) {
			return 0
		}
		switch typ {
		case "pHYs":
			if length < 9 || data[start+8] != 1 {
				return 0
			}
			ppm := float64(binary.BigEndian.Uint32(data[start:]))
			return math.Round(ppm * 0.0254)
		case "IDAT", "IEND":
			return 0
		}
		pos = start + length + 4
	}
	return 0
}
