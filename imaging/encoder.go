// Package imaging composites iteration buffers through a palette LUT and hands the
// resulting RGB grid to an image codec.
package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"

	"MandelbrotRenderer/palette"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/tiff"
)

// Options are the codec-specific encoder options.
type Options struct {
	// PNGCompression is passed to png.Encoder.
	PNGCompression png.CompressionLevel
	// TIFFCompression selects the TIFF compression scheme; deflate by default.
	TIFFCompression tiff.CompressionType
}

func DefaultOptions() Options {
	return Options{
		PNGCompression:  png.DefaultCompression,
		TIFFCompression: tiff.Deflate,
	}
}

type Encoder struct {
	format  Format
	options Options
	logger  bslogger.Logger

	pngBuffers *bufferPool
}

func NewEncoder(format Format, options Options) *Encoder {
	return &Encoder{
		format:     format,
		options:    options,
		logger:     bslogger.NewLogger("Encoder", bslogger.Normal, nil),
		pngBuffers: &bufferPool{},
	}
}

func (e *Encoder) Format() Format {
	return e.format
}

// WithFormat returns an encoder sharing e's options that writes format instead.
func (e *Encoder) WithFormat(format Format) *Encoder {
	if format == e.format {
		return e
	}
	return &Encoder{
		format:     format,
		options:    e.options,
		logger:     e.logger,
		pngBuffers: e.pngBuffers,
	}
}

// Encode maps each iteration count in buffer through lut and encodes the resulting
// width x height image.
func (e *Encoder) Encode(buffer []byte, width int, height int, maxIter int, lut *palette.LUT) ([]byte, error) {
	img, err := Composite(buffer, width, height, maxIter, lut)
	if err != nil {
		return nil, err
	}
	return e.EncodeImage(img)
}

// Composite validates buffer against the dimensions and returns the opaque RGB image
// it describes, one LUT lookup per pixel.
func Composite(buffer []byte, width int, height int, maxIter int, lut *palette.LUT) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, &EncodingError{Reason: fmt.Sprintf("invalid dimensions: width = %d, height = %d", width, height)}
	}
	if len(buffer) != width*height*2 {
		return nil, &EncodingError{Reason: fmt.Sprintf(
			"iteration buffer does not match dimensions: buffer length = %d, width = %d, height = %d, desired length = %d",
			len(buffer), width, height, width*height*2)}
	}
	if lut == nil || lut.MaxIter() != maxIter {
		return nil, &EncodingError{Reason: fmt.Sprintf("palette LUT does not cover max iterations %d", maxIter)}
	}

	table := lut.Bytes()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, o := 0, 0; i < len(buffer); i, o = i+2, o+4 {
		iteration := int(binary.LittleEndian.Uint16(buffer[i:]))
		if iteration > maxIter {
			return nil, &EncodingError{Reason: fmt.Sprintf("pixel %d has %d iterations, above max %d", i/2, iteration, maxIter)}
		}
		entry := table[3*iteration : 3*iteration+3 : 3*iteration+3]
		img.Pix[o] = entry[0]
		img.Pix[o+1] = entry[1]
		img.Pix[o+2] = entry[2]
		img.Pix[o+3] = 0xff
	}
	return img, nil
}

// EncodeImage writes img in the encoder's format.
func (e *Encoder) EncodeImage(img image.Image) ([]byte, error) {
	var out bytes.Buffer
	var err error
	switch e.format {
	case PNG:
		encoder := png.Encoder{CompressionLevel: e.options.PNGCompression, BufferPool: e.pngBuffers}
		err = encoder.Encode(&out, img)
	case WebP:
		err = nativewebp.Encode(&out, img, nil)
	case TIFF:
		err = tiff.Encode(&out, img, &tiff.Options{Compression: e.options.TIFFCompression, Predictor: true})
	default:
		return nil, &EncodingError{Reason: fmt.Sprintf("unsupported format: %s", e.format)}
	}
	if err != nil {
		e.logger.Errorf("Encoding %s image: %s", e.format, err)
		return nil, err
	}
	return out.Bytes(), nil
}
