package mandelbrot

import (
	"fmt"
	"runtime"
)

const DefaultMaxIterations = 1000

type Settings struct {
	MaxIterations int
	Workers       int
}

func (s *Settings) String() string {
	output := "\nMandelbrot settings\n"
	output += fmt.Sprintf("Max Iterations: %d\n", s.MaxIterations)
	output += fmt.Sprintf("Workers: %d\n", s.Workers)
	return output
}

// Verify fills in defaults and rejects iteration budgets the renderer cannot represent.
func (s *Settings) Verify() error {
	if s.MaxIterations == 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	return ValidateMaxIterations(s.MaxIterations)
}
