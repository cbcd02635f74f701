package palette

import (
	"errors"
	"fmt"
	"image/color"

	"MandelbrotRenderer/misc"
)

// GradientStop blends StartColor into EndColor over NumberColors entries.
type GradientStop struct {
	StartColor   color.RGBA
	EndColor     color.RGBA
	NumberColors int
}

// GradientSettings describes a named gradient palette in the settings file.
type GradientSettings struct {
	Name  string
	Stops []GradientStop
}

// Gradient cycles through a fixed list of colours, one step per iteration.
type Gradient struct {
	name   string
	colors []RGB
}

// NewGradient expands the stops of settings into a colour list.
func NewGradient(settings GradientSettings) (Gradient, error) {
	if settings.Name == "" {
		return Gradient{}, errors.New("gradient palette needs a name")
	}

	colors := make([]RGB, 0)
	for _, stop := range settings.Stops {
		if stop.NumberColors <= 0 {
			return Gradient{}, fmt.Errorf("gradient palette %q: NumberColors must be > 0", settings.Name)
		}
		for j := 0; j < stop.NumberColors; j++ {
			fraction := float64(j) / float64(stop.NumberColors)
			colors = append(colors, RGB{
				R: misc.LerpUint8(stop.StartColor.R, stop.EndColor.R, fraction),
				G: misc.LerpUint8(stop.StartColor.G, stop.EndColor.G, fraction),
				B: misc.LerpUint8(stop.StartColor.B, stop.EndColor.B, fraction),
			})
		}
	}
	if len(colors) == 0 {
		return Gradient{}, fmt.Errorf("gradient palette %q has no colors", settings.Name)
	}

	return Gradient{name: settings.Name, colors: colors}, nil
}

func (g Gradient) Identity() string { return "gradient:" + g.name }

func (g Gradient) ColorFor(iter int, maxIter int) RGB {
	if iter >= maxIter {
		return Black
	}
	return g.colors[iter%len(g.colors)]
}

// Len is the number of colours in one cycle of the gradient.
func (g Gradient) Len() int {
	return len(g.colors)
}
