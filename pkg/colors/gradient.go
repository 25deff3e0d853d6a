package colors

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Viridis is the name of the default perceptual palette for 2-D plots.
const Viridis = "viridis"

// Gradient describes a piecewise-linear color ramp. Stops are increasing
// positions in [0,1]; R, G and B hold the channel values at each stop.
type Gradient struct {
	Stops   []float64
	R, G, B []float64
}

// Alternative2D is the gradient used by the alternative 2-D palette.
var Alternative2D = Gradient{
	Stops: []float64{0.00, 0.15, 0.70, 1.00},
	R:     []float64{0.00, 0.00, 1.00, 0.70},
	G:     []float64{0.30, 0.50, 0.70, 0.00},
	B:     []float64{0.50, 0.40, 0.20, 0.15},
}

// Validate checks that the gradient is well formed.
func (g Gradient) Validate() error {
	n := len(g.Stops)
	if n < 2 {
		return fmt.Errorf("gradient needs at least 2 stops, got %d", n)
	}
	if len(g.R) != n || len(g.G) != n || len(g.B) != n {
		return fmt.Errorf("gradient channels must have %d entries", n)
	}
	for i := 1; i < n; i++ {
		if g.Stops[i] < g.Stops[i-1] {
			return fmt.Errorf("gradient stops must be increasing")
		}
	}
	return nil
}

// At returns the color at position t in [0,1].
func (g Gradient) At(t float64) colorful.Color {
	n := len(g.Stops)
	if t <= g.Stops[0] {
		return colorful.Color{R: g.R[0], G: g.G[0], B: g.B[0]}
	}
	if t >= g.Stops[n-1] {
		return colorful.Color{R: g.R[n-1], G: g.G[n-1], B: g.B[n-1]}
	}
	for i := 1; i < n; i++ {
		if t <= g.Stops[i] {
			lo := colorful.Color{R: g.R[i-1], G: g.G[i-1], B: g.B[i-1]}
			hi := colorful.Color{R: g.R[i], G: g.G[i], B: g.B[i]}
			span := g.Stops[i] - g.Stops[i-1]
			if span == 0 {
				return hi
			}
			return lo.BlendRgb(hi, (t-g.Stops[i-1])/span)
		}
	}
	return colorful.Color{R: g.R[n-1], G: g.G[n-1], B: g.B[n-1]}
}

// Sample returns n evenly spaced colors along the gradient.
func (g Gradient) Sample(n int, alpha float64) []color.NRGBA {
	if n <= 0 {
		return nil
	}
	a := uint8(255)
	if alpha > 0 && alpha < 1 {
		a = uint8(alpha*255 + 0.5)
	}
	out := make([]color.NRGBA, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r, gg, b := g.At(t).Clamped().RGB255()
		out[i] = color.NRGBA{R: r, G: gg, B: b, A: a}
	}
	return out
}

// RegisterGradient samples g and registers every color, returning the
// resulting palette indices.
func RegisterGradient(g Gradient, n int, alpha float64) ([]Index, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	samples := g.Sample(n, alpha)
	out := make([]Index, len(samples))
	for i, c := range samples {
		out[i] = Register(c)
	}
	return out, nil
}
