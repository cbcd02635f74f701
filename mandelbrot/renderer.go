package mandelbrot

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"golang.org/x/sync/errgroup"
)

// IterationBuffer holds one little-endian uint16 escape time per pixel, row-major.
type IterationBuffer []byte

// Len is the number of iteration counts in the buffer.
func (b IterationBuffer) Len() int {
	return len(b) / 2
}

// At returns the iteration count of the i-th pixel.
func (b IterationBuffer) At(i int) uint16 {
	return binary.LittleEndian.Uint16(b[2*i:])
}

// BufferSize is the byte length of the iteration buffer for a width x height canvas.
func BufferSize(width int, height int) int {
	return width * height * 2
}

// Renderer computes iteration buffers, spreading rows across a bounded number of goroutines.
// Rows are independent so the buffer is identical whatever the worker count.
type Renderer struct {
	logger  bslogger.Logger
	workers int
}

func NewRenderer(settings Settings) *Renderer {
	workers := settings.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Renderer{
		logger:  bslogger.NewLogger("Renderer", bslogger.Normal, nil),
		workers: workers,
	}
}

// Render runs EscapeTime for every pixel of viewport. It stops early with the context's
// error when ctx is cancelled; the pixel loop checks for cancellation once per row.
func (r *Renderer) Render(ctx context.Context, viewport Viewport, maxIter int) (IterationBuffer, error) {
	if maxIter < 0 || maxIter > MaxIterations {
		panic(fmt.Sprintf("mandelbrot: max iterations %d does not fit in 16 bits", maxIter))
	}
	width, height := viewport.Width(), viewport.Height()
	if width <= 0 || height <= 0 {
		return nil, validationErrorf("viewport", "zero value, use NewViewport")
	}

	startTime := time.Now()
	buffer := make(IterationBuffer, BufferSize(width, height))

	minReal, minImag := viewport.MinReal(), viewport.MinImag()
	dx := (viewport.MaxReal() - minReal) / float64(width)
	dy := (viewport.MaxImag() - minImag) / float64(height)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for y := 0; y < height; y++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cImag := minImag + float64(y)*dy
			row := buffer[y*width*2 : (y+1)*width*2]
			for x := 0; x < width; x++ {
				iteration := EscapeTime(minReal+float64(x)*dx, cImag, maxIter)
				binary.LittleEndian.PutUint16(row[2*x:], uint16(iteration))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debugf("Rendered %dx%d with max iterations %d in %s", width, height, maxIter, time.Since(startTime))
	return buffer, nil
}
