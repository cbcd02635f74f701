package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MandelbrotRenderer/imaging"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/palette"
)

// Request is the net/rpc argument of Remote.Render. A zero field means "use the default":
// gob leaves zero values out of the encoding, so Width, Height, Zoom or MaxIterations of 0
// cannot reach the server as an invalid value the way ?width=0 does over HTTP. Negative
// values are sent and rejected.
type Request struct {
	Width         int
	Height        int
	CenterReal    float64
	CenterImag    float64
	Zoom          float64
	MaxIterations int
	Palette       string
	Format        string
}

func (r *Request) String() string {
	output := "{Request "
	output += fmt.Sprintf("Size: %dx%d ", r.Width, r.Height)
	output += fmt.Sprintf("Center: (%g, %g) ", r.CenterReal, r.CenterImag)
	output += fmt.Sprintf("Zoom: %g ", r.Zoom)
	output += fmt.Sprintf("MaxIterations: %d ", r.MaxIterations)
	output += fmt.Sprintf("Palette: %s ", r.Palette)
	output += fmt.Sprintf("Format: %s}", r.Format)
	return output
}

// Reply carries the encoded image back to the caller.
type Reply struct {
	Image       []byte
	ContentType string
}

// Remote exposes a Service over net/rpc. Zero fields of a Request fall back to the
// server defaults, the palette to "base".
type Remote struct {
	service       *Service
	palettes      *palette.Registry
	maxIterations int
	timeout       time.Duration
}

func NewRemote(service *Service, palettes *palette.Registry, maxIterations int, timeout time.Duration) *Remote {
	return &Remote{
		service:       service,
		palettes:      palettes,
		maxIterations: maxIterations,
		timeout:       timeout,
	}
}

func (r *Remote) Render(request Request, reply *Reply) error {
	if request.Width == 0 {
		request.Width = mandelbrot.DefaultWidth
	}
	if request.Height == 0 {
		request.Height = mandelbrot.DefaultHeight
	}
	if request.Zoom == 0 {
		request.Zoom = mandelbrot.DefaultZoom
	}
	if request.MaxIterations == 0 {
		request.MaxIterations = r.maxIterations
	}
	if request.Palette == "" {
		request.Palette = palette.Base{}.Identity()
	}

	viewport, err := mandelbrot.NewViewport(request.Width, request.Height, request.CenterReal, request.CenterImag, request.Zoom)
	if err != nil {
		return err
	}
	p, found := r.palettes.Get(request.Palette)
	if !found {
		return fmt.Errorf("unknown palette %q", request.Palette)
	}
	format := r.service.Format()
	if request.Format != "" {
		if format, err = imaging.ParseFormat(request.Format); err != nil {
			return err
		}
	}

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	image, err := r.service.RenderFormat(ctx, viewport, p, request.MaxIterations, format)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("render of %s timed out after %s", request.String(), r.timeout)
		}
		return err
	}

	reply.Image = image
	reply.ContentType = format.ContentType()
	return nil
}
