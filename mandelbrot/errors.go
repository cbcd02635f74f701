package mandelbrot

import "fmt"

// ValidationError reports request parameters that cannot describe a render.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErrorf(field string, format string, values ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, values...)}
}

// ValidateMaxIterations checks that maxIter can be packed into the iteration buffer and
// coloured by a logarithmic palette, which needs ln(maxIter) > 0.
func ValidateMaxIterations(maxIter int) error {
	if maxIter < 2 || maxIter > MaxIterations {
		return validationErrorf("max_iter", "must be between 2 and %d, got %d", MaxIterations, maxIter)
	}
	return nil
}

// ValidatePixels rejects a width x height canvas with more than maxPixels pixels.
// A maxPixels of 0 or less disables the limit.
func ValidatePixels(width int, height int, maxPixels int) error {
	if maxPixels <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	if height > maxPixels/width {
		return validationErrorf("size", "%dx%d is more than %d pixels", width, height, maxPixels)
	}
	return nil
}
