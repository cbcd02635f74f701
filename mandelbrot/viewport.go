package mandelbrot

import (
	"fmt"
	"math"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultZoom   = 1.0

	// DefaultMaxPixels caps width*height for one render, a 128 MiB iteration buffer.
	DefaultMaxPixels = 1 << 26

	// baseHalfRange is the real-axis half width shown at zoom 1.
	baseHalfRange = 3.5
)

// Viewport is the rectangle of the complex plane mapped onto a width x height pixel canvas.
// It is immutable once built by NewViewport.
type Viewport struct {
	width      int
	height     int
	centerReal float64
	centerImag float64
	zoom       float64

	minReal, maxReal float64
	minImag, maxImag float64
}

// NewViewport builds the viewport centred on (centerReal, centerImag). The imaginary range is
// scaled by height/width so pixels stay square.
func NewViewport(width int, height int, centerReal float64, centerImag float64, zoom float64) (Viewport, error) {
	if width <= 0 {
		return Viewport{}, validationErrorf("width", "must be > 0, got %d", width)
	}
	if height <= 0 {
		return Viewport{}, validationErrorf("height", "must be > 0, got %d", height)
	}
	if height > math.MaxInt/2/width {
		return Viewport{}, validationErrorf("size", "%dx%d overflows the iteration buffer", width, height)
	}
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		return Viewport{}, validationErrorf("zoom", "must be a finite number > 0, got %v", zoom)
	}
	if !isFinite(centerReal) || !isFinite(centerImag) {
		return Viewport{}, validationErrorf("center", "must be finite, got (%v, %v)", centerReal, centerImag)
	}

	halfRange := baseHalfRange / zoom
	halfImag := halfRange * float64(height) / float64(width)
	return Viewport{
		width:      width,
		height:     height,
		centerReal: centerReal,
		centerImag: centerImag,
		zoom:       zoom,
		minReal:    centerReal - halfRange,
		maxReal:    centerReal + halfRange,
		minImag:    centerImag - halfImag,
		maxImag:    centerImag + halfImag,
	}, nil
}

// DefaultViewport is the 800x600 view of the whole set.
func DefaultViewport() Viewport {
	v, _ := NewViewport(DefaultWidth, DefaultHeight, 0, 0, DefaultZoom)
	return v
}

func (v Viewport) Width() int          { return v.width }
func (v Viewport) Height() int         { return v.height }
func (v Viewport) CenterReal() float64 { return v.centerReal }
func (v Viewport) CenterImag() float64 { return v.centerImag }
func (v Viewport) Zoom() float64       { return v.zoom }
func (v Viewport) MinReal() float64    { return v.minReal }
func (v Viewport) MaxReal() float64    { return v.maxReal }
func (v Viewport) MinImag() float64    { return v.minImag }
func (v Viewport) MaxImag() float64    { return v.maxImag }

// PixelToComplex converts the (column, row) pixel, indexed from the top left, into the
// complex coordinate the Renderer samples for it.
func (v Viewport) PixelToComplex(column int, row int) (float64, float64) {
	dx := (v.maxReal - v.minReal) / float64(v.width)
	dy := (v.maxImag - v.minImag) / float64(v.height)
	return v.minReal + float64(column)*dx, v.minImag + float64(row)*dy
}

func (v Viewport) String() string {
	return fmt.Sprintf("{Viewport %dx%d center: (%g, %g) zoom: %g real: [%g, %g] imag: [%g, %g]}",
		v.width, v.height, v.centerReal, v.centerImag, v.zoom, v.minReal, v.maxReal, v.minImag, v.maxImag)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
