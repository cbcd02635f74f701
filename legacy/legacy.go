// Package legacy is the first demo renderer: a self-contained escape-time loop with hue
// colouring and no lookup table. It backs the JSON route and serves as a reference to check
// the LUT pipeline against.
package legacy

import (
	"MandelbrotRenderer/mandelbrot"

	"github.com/lucasb-eyer/go-colorful"
)

const DefaultMaxIterations = 100

// Pixel is one [r, g, b] triple; it marshals to a JSON array.
type Pixel [3]uint8

type Response struct {
	Pixels []Pixel `json:"pixels"`
}

func escape(cRe float64, cIm float64, maxIter int) int {
	zRe, zIm := 0.0, 0.0
	for i := 0; i < maxIter; i++ {
		if zRe*zRe+zIm*zIm > 4.0 {
			return i
		}
		zReNew := zRe*zRe - zIm*zIm + cRe
		zIm = 2.0*zRe*zIm + cIm
		zRe = zReNew
	}
	return maxIter
}

// Color spreads the escape time over the hue wheel at full saturation and half lightness.
// Both the hue and the channels are truncated, not rounded, so hue 51 gives green 216.
func Color(iterations int, maxIter int) Pixel {
	if iterations == maxIter {
		return Pixel{0, 0, 0}
	}
	hue := float64(int(float64(iterations) / float64(maxIter) * 360))
	c := colorful.Hsl(hue, 1, 0.5).Clamped()
	return Pixel{truncateChannel(c.R), truncateChannel(c.G), truncateChannel(c.B)}
}

func truncateChannel(v float64) uint8 {
	return uint8(v * 255)
}

// Render colours every pixel of viewport, row-major.
func Render(viewport mandelbrot.Viewport, maxIter int) Response {
	width, height := viewport.Width(), viewport.Height()
	minRe, maxRe := viewport.MinReal(), viewport.MaxReal()
	minIm, maxIm := viewport.MinImag(), viewport.MaxImag()

	pixels := make([]Pixel, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cRe := minRe + (maxRe-minRe)*float64(x)/float64(width)
			cIm := minIm + (maxIm-minIm)*float64(y)/float64(height)
			pixels = append(pixels, Color(escape(cRe, cIm, maxIter), maxIter))
		}
	}
	return Response{Pixels: pixels}
}
