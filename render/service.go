// Package render ties the renderer, the LUT cache and the encoder together for one request.
package render

import (
	"context"

	"MandelbrotRenderer/imaging"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/palette"
)

// IterationRenderer produces the packed iteration buffer for a viewport.
type IterationRenderer interface {
	Render(ctx context.Context, viewport mandelbrot.Viewport, maxIter int) (mandelbrot.IterationBuffer, error)
}

type Service struct {
	renderer IterationRenderer
	encoder  *imaging.Encoder
	luts     *palette.LUTCache

	maxPixels int
}

// NewService builds a service that refuses viewports larger than maxPixels; 0 disables the limit.
func NewService(renderer IterationRenderer, encoder *imaging.Encoder, luts *palette.LUTCache, maxPixels int) *Service {
	return &Service{
		renderer:  renderer,
		encoder:   encoder,
		luts:      luts,
		maxPixels: maxPixels,
	}
}

func (s *Service) Format() imaging.Format {
	return s.encoder.Format()
}

// RenderImage renders viewport in the service's configured format.
func (s *Service) RenderImage(ctx context.Context, viewport mandelbrot.Viewport, p palette.Palette, maxIter int) ([]byte, error) {
	return s.RenderFormat(ctx, viewport, p, maxIter, s.encoder.Format())
}

// RenderPNG renders viewport as a PNG regardless of the configured format.
func (s *Service) RenderPNG(ctx context.Context, viewport mandelbrot.Viewport, p palette.Palette, maxIter int) ([]byte, error) {
	return s.RenderFormat(ctx, viewport, p, maxIter, imaging.PNG)
}

// RenderFormat checks the iteration budget and canvas size, then computes the iteration
// buffer, fetches the LUT and encodes. Errors from each step are returned unchanged.
func (s *Service) RenderFormat(ctx context.Context, viewport mandelbrot.Viewport, p palette.Palette, maxIter int, format imaging.Format) ([]byte, error) {
	if err := mandelbrot.ValidateMaxIterations(maxIter); err != nil {
		return nil, err
	}
	if err := mandelbrot.ValidatePixels(viewport.Width(), viewport.Height(), s.maxPixels); err != nil {
		return nil, err
	}

	buffer, err := s.renderer.Render(ctx, viewport, maxIter)
	if err != nil {
		return nil, err
	}

	lut := s.luts.Fetch(p, maxIter)

	return s.encoder.WithFormat(format).Encode(buffer, viewport.Width(), viewport.Height(), maxIter, lut)
}
