package palette

import (
	"image/color"
	"math"
	"sync"
	"testing"
)

func TestBaseInteriorIsBlack(t *testing.T) {
	p := Base{}
	for _, maxIter := range []int{2, 10, 1000} {
		for _, iter := range []int{maxIter, maxIter + 1, maxIter * 2} {
			if got := p.ColorFor(iter, maxIter); got != Black {
				t.Errorf("ColorFor(%d, %d) = %v, want black", iter, maxIter, got)
			}
		}
	}
}

func TestBaseColorFor(t *testing.T) {
	// iter 0 gives normalized 0, so the channels sit at phases 0, 2pi/3 and 4pi/3
	want := RGB{
		R: uint8(math.Round(255 * 0.5)),
		G: uint8(math.Round(255 * (0.5 + 0.5*math.Sin(2*math.Pi/3)))),
		B: uint8(math.Round(255 * (0.5 + 0.5*math.Sin(4*math.Pi/3)))),
	}
	if got := (Base{}).ColorFor(0, 100); got != want {
		t.Errorf("ColorFor(0, 100) = %v, want %v", got, want)
	}
	if got := (Base{}).ColorFor(0, 100); got != (RGB{R: 128, G: 238, B: 17}) {
		t.Errorf("ColorFor(0, 100) = %v", got)
	}
}

func TestBaseDegenerateBudget(t *testing.T) {
	p := Base{}
	if got := p.ColorFor(0, 1); got != White {
		t.Errorf("ColorFor(0, 1) = %v, want the white sentinel", got)
	}
	if got := p.ColorFor(0, 0); got != Black {
		t.Errorf("ColorFor(0, 0) = %v, want black", got)
	}
}

func TestPalettesAreDeterministic(t *testing.T) {
	gradient, err := NewGradient(GradientSettings{
		Name:  "fire",
		Stops: []GradientStop{{StartColor: color.RGBA{R: 255}, EndColor: color.RGBA{G: 255}, NumberColors: 8}},
	})
	if err != nil {
		t.Fatalf("NewGradient: %v", err)
	}
	for _, p := range []Palette{Base{}, HSV{}, HSLuv{}, gradient} {
		for iter := 0; iter <= 50; iter++ {
			if a, b := p.ColorFor(iter, 50), p.ColorFor(iter, 50); a != b {
				t.Fatalf("%s: ColorFor(%d) not deterministic: %v != %v", p.Identity(), iter, a, b)
			}
		}
		if got := p.ColorFor(50, 50); got != Black {
			t.Errorf("%s: interior colour %v, want black", p.Identity(), got)
		}
	}
}

func TestNewGradient(t *testing.T) {
	g, err := NewGradient(GradientSettings{
		Name: "blues",
		Stops: []GradientStop{
			{StartColor: color.RGBA{B: 0}, EndColor: color.RGBA{B: 200}, NumberColors: 4},
			{StartColor: color.RGBA{R: 10}, EndColor: color.RGBA{R: 10}, NumberColors: 1},
		},
	})
	if err != nil {
		t.Fatalf("NewGradient: %v", err)
	}
	if g.Len() != 5 {
		t.Fatalf("Len = %d, want 5", g.Len())
	}
	if g.Identity() != "gradient:blues" {
		t.Errorf("Identity = %q", g.Identity())
	}
	if got := g.ColorFor(2, 100); got != (RGB{B: 100}) {
		t.Errorf("ColorFor(2) = %v, want {0 0 100}", got)
	}
	if got := g.ColorFor(9, 100); got != (RGB{R: 10}) {
		t.Errorf("ColorFor(9) = %v, want the wrapped fifth colour", got)
	}

	if _, err := NewGradient(GradientSettings{Name: "empty"}); err == nil {
		t.Error("NewGradient accepted a gradient without colours")
	}
	if _, err := NewGradient(GradientSettings{Stops: []GradientStop{{NumberColors: 1}}}); err == nil {
		t.Error("NewGradient accepted a gradient without a name")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"base", "hsv", "hsluv"} {
		if _, found := r.Get(name); !found {
			t.Errorf("built-in palette %q missing", name)
		}
	}
	if err := r.Register(Base{}); err == nil {
		t.Error("Register accepted a duplicate identity")
	}
	g, err := NewGradient(GradientSettings{Name: "grey", Stops: []GradientStop{{EndColor: color.RGBA{R: 255, G: 255, B: 255}, NumberColors: 16}}})
	if err != nil {
		t.Fatalf("NewGradient: %v", err)
	}
	if err := r.Register(g); err != nil {
		t.Fatalf("Register: %v", err)
	}
	names := r.Names()
	want := []string{"base", "gradient:grey", "hsluv", "hsv"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names = %v, want %v", names, want)
			break
		}
	}
}

func TestLUTSize(t *testing.T) {
	for _, maxIter := range []int{0, 1, 2, 100, 1000, 65535} {
		lut := NewLUT(Base{}, maxIter)
		if len(lut.Bytes()) != (maxIter+1)*3 {
			t.Errorf("maxIter %d: table is %d bytes, want %d", maxIter, len(lut.Bytes()), (maxIter+1)*3)
		}
		if lut.Entries() != maxIter+1 {
			t.Errorf("maxIter %d: %d entries", maxIter, lut.Entries())
		}
	}
}

func TestLUTMatchesPalette(t *testing.T) {
	const maxIter = 257
	for _, p := range []Palette{Base{}, HSV{}, HSLuv{}} {
		lut := NewLUT(p, maxIter)
		if lut.Name() != p.Identity() || lut.MaxIter() != maxIter {
			t.Errorf("LUT metadata %q/%d", lut.Name(), lut.MaxIter())
		}
		for i := 0; i <= maxIter; i++ {
			if lut.At(i) != p.ColorFor(i, maxIter) {
				t.Fatalf("%s: entry %d = %v, want %v", p.Identity(), i, lut.At(i), p.ColorFor(i, maxIter))
			}
		}
		if lut.At(maxIter) != Black {
			t.Errorf("%s: last entry %v, want black", p.Identity(), lut.At(maxIter))
		}
	}
}

func TestLUTCacheReusesInstances(t *testing.T) {
	cache := NewLUTCache(0)

	first := cache.Fetch(Base{}, 100)
	for i := 0; i < 5; i++ {
		if cache.Fetch(Base{}, 100) != first {
			t.Fatal("Fetch returned a different LUT for the same key")
		}
	}
	if cache.Builds() != 1 {
		t.Errorf("Builds = %d, want 1", cache.Builds())
	}

	otherBudget := cache.Fetch(Base{}, 200)
	otherPalette := cache.Fetch(HSV{}, 100)
	if otherBudget == first || otherPalette == first || otherBudget == otherPalette {
		t.Error("distinct keys shared a LUT")
	}
	cache.Fetch(HSV{}, 100)
	cache.Fetch(Base{}, 200)
	if cache.Builds() != 3 {
		t.Errorf("Builds = %d, want 3", cache.Builds())
	}
	if cache.Len() != 3 {
		t.Errorf("Len = %d, want 3", cache.Len())
	}
}

type countingPalette struct {
	mutex sync.Mutex
	calls int
}

func (p *countingPalette) Identity() string { return "counting" }

func (p *countingPalette) ColorFor(iter int, maxIter int) RGB {
	p.mutex.Lock()
	p.calls++
	p.mutex.Unlock()
	return Base{}.ColorFor(iter, maxIter)
}

func TestLUTCacheConcurrentFirstFetch(t *testing.T) {
	const maxIter = 5000
	cache := NewLUTCache(0)
	p := &countingPalette{}

	var wg sync.WaitGroup
	luts := make([]*LUT, 32)
	for i := range luts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			luts[i] = cache.Fetch(p, maxIter)
		}(i)
	}
	wg.Wait()

	for i := range luts {
		if luts[i] != luts[0] {
			t.Fatalf("goroutine %d got a different LUT", i)
		}
	}
	if cache.Builds() != 1 {
		t.Errorf("Builds = %d, want 1", cache.Builds())
	}
	if p.calls != maxIter+1 {
		t.Errorf("palette sampled %d times, want %d", p.calls, maxIter+1)
	}
}

func TestLUTCacheEviction(t *testing.T) {
	cache := NewLUTCache(2)

	a := cache.Fetch(Base{}, 10)
	cache.Fetch(Base{}, 20)
	// touch a so that 20 is the oldest
	if cache.Fetch(Base{}, 10) != a {
		t.Fatal("expected a cache hit")
	}
	cache.Fetch(Base{}, 30)

	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}
	if cache.Fetch(Base{}, 10) != a {
		t.Error("most recently used entry was evicted")
	}
	builds := cache.Builds()
	cache.Fetch(Base{}, 20)
	if cache.Builds() != builds+1 {
		t.Error("expected the least recently used entry to be rebuilt")
	}
}

func TestLUTCacheBoundedReuseWithinCapacity(t *testing.T) {
	cache := NewLUTCache(DefaultCacheCapacity)

	first := make([]*LUT, DefaultCacheCapacity)
	for i := range first {
		first[i] = cache.Fetch(Base{}, i+2)
	}
	for round := 0; round < 3; round++ {
		for i := range first {
			if cache.Fetch(Base{}, i+2) != first[i] {
				t.Fatalf("max iterations %d: new instance while within capacity", i+2)
			}
		}
	}
	if cache.Builds() != DefaultCacheCapacity {
		t.Errorf("Builds = %d, want %d", cache.Builds(), DefaultCacheCapacity)
	}

	// one key over capacity evicts the least recently fetched, max iterations 2
	cache.Fetch(Base{}, DefaultCacheCapacity+2)
	if cache.Len() != DefaultCacheCapacity {
		t.Errorf("Len = %d, want %d", cache.Len(), DefaultCacheCapacity)
	}
	if cache.Fetch(Base{}, 2) == first[0] {
		t.Error("evicted key returned its old instance")
	}
	if cache.Builds() != DefaultCacheCapacity+2 {
		t.Errorf("Builds = %d, want %d", cache.Builds(), DefaultCacheCapacity+2)
	}
}

func TestLUTCacheUnboundedKeepsEveryKey(t *testing.T) {
	cache := NewLUTCache(0)
	first := make([]*LUT, 3*DefaultCacheCapacity)
	for i := range first {
		first[i] = cache.Fetch(HSV{}, i+2)
	}
	for i := range first {
		if cache.Fetch(HSV{}, i+2) != first[i] {
			t.Fatalf("max iterations %d: new instance from an unbounded cache", i+2)
		}
	}
	if cache.Builds() != int64(len(first)) {
		t.Errorf("Builds = %d, want %d", cache.Builds(), len(first))
	}
}
