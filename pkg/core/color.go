package core

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrNegativeColor is the panic value for negative components or scale factors
var ErrNegativeColor = errors.New("negative color component")

// similarityFraction bounds the RGB distance between two similar colors,
// relative to their average magnitude
const similarityFraction = 0.25

// Color is an RGB triple with non-negative channels on a 0..255 display
// scale. Values above 255 are legal (light intensities) and clamp on output.
type Color struct {
	R, G, B float64
}

// Black is the zero color
var Black = Color{}

// NewColor creates a color, panicking with ErrNegativeColor on a negative channel
func NewColor(r, g, b float64) Color {
	if r < 0 || g < 0 || b < 0 {
		panic(fmt.Errorf("color (%g, %g, %g): %w", r, g, b, ErrNegativeColor))
	}
	return Color{R: r, G: g, B: b}
}

// Add returns the channel-wise sum of c and all others
func (c Color) Add(others ...Color) Color {
	for _, o := range others {
		c.R += o.R
		c.G += o.G
		c.B += o.B
	}
	return c
}

// Scale multiplies every channel by a non-negative factor
func (c Color) Scale(k float64) Color {
	if k < 0 {
		panic(fmt.Errorf("scale by %g: %w", k, ErrNegativeColor))
	}
	return Color{c.R * k, c.G * k, c.B * k}
}

// ScaleVec multiplies channels by a non-negative attenuation triple
func (c Color) ScaleVec(k Vec3) Color {
	if k.X < 0 || k.Y < 0 || k.Z < 0 {
		panic(fmt.Errorf("scale by %v: %w", k, ErrNegativeColor))
	}
	return Color{c.R * k.X, c.G * k.Y, c.B * k.Z}
}

// Reduce divides every channel by n, which must be at least 1
func (c Color) Reduce(n int) Color {
	if n < 1 {
		panic(fmt.Errorf("reduce by %d: %w", n, ErrNegativeColor))
	}
	return Color{c.R / float64(n), c.G / float64(n), c.B / float64(n)}
}

// Magnitude is the length of the color as an RGB vector
func (c Color) Magnitude() float64 {
	return math.Sqrt(c.R*c.R + c.G*c.G + c.B*c.B)
}

// Similar reports whether two colors are perceptually indistinguishable:
// their RGB distance is within a fixed fraction of their average magnitude
func (c Color) Similar(other Color) bool {
	dr, dg, db := c.R-other.R, c.G-other.G, c.B-other.B
	distance := math.Sqrt(dr*dr + dg*dg + db*db)
	avg := (c.Magnitude() + other.Magnitude()) / 2
	return distance <= similarityFraction*avg
}

// Equals compares channels within tolerance
func (c Color) Equals(other Color) bool {
	return IsZero(c.R-other.R) && IsZero(c.G-other.G) && IsZero(c.B-other.B)
}

// Average returns the equally weighted mean of colors, Black for none
func Average(colors []Color) Color {
	if len(colors) == 0 {
		return Black
	}
	return Black.Add(colors...).Reduce(len(colors))
}

// RGBA converts to 8-bit color, truncating and clamping each channel to 255
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: clampChannel(c.R),
		G: clampChannel(c.G),
		B: clampChannel(c.B),
		A: 255,
	}
}

func clampChannel(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return uint8(v)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%g, %g, %g)", c.R, c.G, c.B)
}
