package hslwatch

import "fmt"

// RGB holds three integer channels, conventionally in [0, 255]. Channels are
// stored unclamped.
type RGB struct {
	R int
	G int
	B int
}

func NewRGB(r, g, b int) RGB {
	return RGB{R: r, G: g, B: b}
}

// RGBA implements color.Color. Channels are clamped to [0, 255] and the color is opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(clampChannel(c.R))
	g = uint32(clampChannel(c.G))
	b = uint32(clampChannel(c.B))
	r |= r << 8
	g |= g << 8
	b |= b << 8
	a = 0xffff
	return
}

// Hex formats the clamped channels as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(c.R), clampChannel(c.G), clampChannel(c.B))
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
