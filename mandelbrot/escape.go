package mandelbrot

// MaxIterations is the largest iteration budget that fits the 16-bit iteration buffer.
const MaxIterations = 1<<16 - 1

// escapeRadiusSquared is |z|^2 for an escape modulus of 2.
const escapeRadiusSquared = 4.0

// EscapeTime iterates z = z^2 + c from z = 0 and returns the iteration at which |z| exceeded 2,
// or maxIter if it never did.
// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Optimized_escape_time_algorithms
func EscapeTime(cReal float64, cImag float64, maxIter int) int {
	zr, zi := 0.0, 0.0
	for i := 0; i < maxIter; i++ {
		zr2 := zr * zr
		zi2 := zi * zi
		if zr2+zi2 > escapeRadiusSquared {
			return i
		}

		zi = 2*zr*zi + cImag
		zr = zr2 - zi2 + cReal
	}
	return maxIter
}
