package domain

import (
	"fmt"
	"math/rand/v2"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// RandomSource yields uniformly distributed 32-bit values.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Uint32() uint32
}

// RandomColor returns an uppercase #RRGGBB color drawn uniformly from the
// 24-bit space. A nil src uses the global generator.
func RandomColor(src RandomSource) string {
	var v uint32
	if src == nil {
		v = rand.Uint32()
	} else {
		v = src.Uint32()
	}

	return fmt.Sprintf("#%06X", v&0xFFFFFF)
}

// ValidHexColor reports whether s is a #RRGGBB hex color.
func ValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
