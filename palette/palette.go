// Package palette turns escape times into colours. A Palette is sampled once per iteration
// value into a LUT, and LUTs are shared between requests through a LUTCache.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is one 8-bit-per-channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

var (
	Black = RGB{}
	White = RGB{R: 255, G: 255, B: 255}
)

// Palette maps an iteration count to a colour. ColorFor must be pure, and Identity must
// name the mapping uniquely since it keys the LUT cache.
type Palette interface {
	ColorFor(iter int, maxIter int) RGB
	Identity() string
}

// Base is the default palette: three sine waves a third of a turn apart, driven by the
// log-normalised iteration count.
type Base struct{}

func (Base) Identity() string { return "base" }

// ColorFor returns black for points inside the set. With maxIter <= 1 there is no usable
// log scale, so every escaping point gets the white sentinel.
func (Base) ColorFor(iter int, maxIter int) RGB {
	if iter >= maxIter {
		return Black
	}
	if maxIter <= 1 {
		return White
	}

	normalized := math.Log(float64(iter+1)) / math.Log(float64(maxIter))
	if normalized < 0 {
		return White
	}

	phase := 2 * math.Pi * normalized
	return RGB{
		R: sineChannel(phase),
		G: sineChannel(phase + 2*math.Pi/3),
		B: sineChannel(phase + 4*math.Pi/3),
	}
}

func sineChannel(phase float64) uint8 {
	return uint8(math.Round(255 * (0.5 + 0.5*math.Sin(phase))))
}

// HSV walks once around the hue wheel at full saturation as the iteration count grows.
type HSV struct{}

func (HSV) Identity() string { return "hsv" }

func (HSV) ColorFor(iter int, maxIter int) RGB {
	if iter >= maxIter {
		return Black
	}
	hue := 360 * float64(iter) / float64(maxIter)
	r, g, b := colorful.Hsv(hue, 1, 1).RGB255()
	return RGB{R: r, G: g, B: b}
}

// HSLuv cycles the hue in the perceptually uniform HSLuv space, so bands of equal
// iteration width look equally bright.
type HSLuv struct{}

func (HSLuv) Identity() string { return "hsluv" }

func (HSLuv) ColorFor(iter int, maxIter int) RGB {
	if iter >= maxIter {
		return Black
	}
	hue := math.Mod(float64(iter)*7.5, 360)
	r, g, b := colorful.HSLuv(hue, 0.9, 0.6).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Registry holds the palettes a request can select by name.
type Registry struct {
	mutex    sync.RWMutex
	palettes map[string]Palette
}

// NewRegistry returns a registry with the built-in palettes.
func NewRegistry() *Registry {
	r := &Registry{palettes: make(map[string]Palette)}
	for _, p := range []Palette{Base{}, HSV{}, HSLuv{}} {
		r.palettes[p.Identity()] = p
	}
	return r
}

// Register adds p under its identity, failing if that name is taken.
func (r *Registry) Register(p Palette) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, found := r.palettes[p.Identity()]; found {
		return fmt.Errorf("palette %q already registered", p.Identity())
	}
	r.palettes[p.Identity()] = p
	return nil
}

func (r *Registry) Get(name string) (Palette, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, found := r.palettes[name]
	return p, found
}

// Names lists the registered palettes in sorted order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.palettes))
	for name := range r.palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
