package theme

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NormalizeHex converts a hex-like color string ("#abc", "AABBCC",
// "#aabbccff") to upper-case #RRGGBB. Alpha is dropped.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	if len(s) == 8 {
		s = s[:6]
	}
	if len(s) != 3 && len(s) != 6 {
		return "", false
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return "", false
		}
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return "", false
	}
	return strings.ToUpper(c.Hex()), true
}

// HexFromRGB converts normalized float channels (0..1) to #RRGGBB. Each
// channel is scaled by 255 and rounded half up; out-of-range input is
// clamped.
func HexFromRGB(r, g, b float64) string {
	c := colorful.Color{R: r, G: g, B: b}.Clamped()
	return strings.ToUpper(c.Hex())
}

// RGB8 returns the 0..255 channel values for normalized floats, with the
// same rounding as HexFromRGB.
func RGB8(r, g, b float64) (uint8, uint8, uint8) {
	return colorful.Color{R: r, G: g, B: b}.Clamped().RGB255()
}

// IsHex reports whether s is already a canonical #RRGGBB string.
func IsHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}
