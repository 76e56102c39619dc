// Package color derives placeholder avatar colors for users without a
// profile image.
package color

import (
	"fmt"
	"hash/fnv"
	"math"
)

const (
	avatarSaturation = 0.45
	avatarLightness  = 0.6
)

// ForUser returns a stable "#RRGGBB" color for userID. Every ID maps to a
// hue on a fixed saturation and lightness, so white initials stay legible.
func ForUser(userID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	hue := float64(h.Sum32() % 360)

	r, g, b := hsl(hue, avatarSaturation, avatarLightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hsl converts a hue in degrees plus saturation and lightness in [0,1]
// to 8-bit RGB, using the chroma form of the conversion.
func hsl(hue, s, l float64) (r, g, b uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := l - c/2

	var r1, g1, b1 float64
	switch {
	case hue < 60:
		r1, g1, b1 = c, x, 0
	case hue < 120:
		r1, g1, b1 = x, c, 0
	case hue < 180:
		r1, g1, b1 = 0, c, x
	case hue < 240:
		r1, g1, b1 = 0, x, c
	case hue < 300:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}

	return channel(r1 + m), channel(g1 + m), channel(b1 + m)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
