package hslwatch

import (
	"fmt"
	"math"
)

// HSL is a Hue, Saturation, Lightness color. H is in degrees, S and L are fractions.
// S and L are single precision; the chromatic path truncates, so the precision
// decides channels that land close to a whole number.
type HSL struct {
	H int
	S float32
	L float32
}

// NewHSL builds a HSL color. Saturation and lightness above 1 are assumed to be
// percentages and divided by 100 once.
//
// The heuristic is ambiguous at the edge: 1 is read as 100% rather than 1%, and
// values such as 1.5 become 1.5% instead of being rejected. Values above 100 are
// left out of range.
func NewHSL(h int, s, l float32) HSL {
	if s > 1 {
		s = s / 100
	}

	if l > 1 {
		l = l / 100
	}

	return HSL{H: h, S: s, L: l}
}

// Equals reports whether both colors hold exactly the same H, S and L.
func (c HSL) Equals(other HSL) bool {
	return c.H == other.H && c.S == other.S && c.L == other.L
}

const (
	oneThird  = float32(1.0) / 3
	twoThirds = float32(2.0) / 3
)

// ToRGB converts the color to RGB. Hue is not wrapped, so hues outside [0, 360)
// produce whatever the formula yields.
func (c HSL) ToRGB() RGB {
	if c.S == 0 {
		v := int(math.Round(float64(c.L * 255)))
		return NewRGB(v, v, v)
	}

	hue := float32(c.H) / 360

	var v2 float32
	if c.L < 0.5 {
		v2 = c.L * (1 + c.S)
	} else {
		v2 = (c.L + c.S) - float32(c.L*c.S)
	}
	v1 := float32(2*c.L) - v2

	// chromatic channels truncate, the grey path above rounds
	return NewRGB(
		int(255*hueToChannel(v1, v2, hue+oneThird)),
		int(255*hueToChannel(v1, v2, hue)),
		int(255*hueToChannel(v1, v2, hue-oneThird)),
	)
}

func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %.4g%%, %.4g%%)", c.H, c.S*100, c.L*100)
}

// hueToChannel interpolates one channel across a sector of the color wheel.
// The hue is wrapped at most once in each direction. Products are converted
// explicitly so they round to float32 instead of fusing into the addition.
func hueToChannel(v1, v2, hue float32) float32 {
	if hue < 0 {
		hue += 1
	}
	if hue > 1 {
		hue -= 1
	}

	switch {
	case 6*hue < 1:
		return v1 + float32((v2-v1)*6*hue)
	case 2*hue < 1:
		return v2
	case 3*hue < 2:
		return v1 + float32((v2-v1)*(twoThirds-hue)*6)
	}
	return v1
}
