package palette

import "fmt"

// LUT is a palette sampled at every iteration count from 0 to MaxIter, three bytes per entry.
// The table is never modified after NewLUT returns.
type LUT struct {
	maxIter int
	name    string
	table   []byte
}

func NewLUT(p Palette, maxIter int) *LUT {
	if maxIter < 0 {
		panic(fmt.Sprintf("palette: negative max iterations %d", maxIter))
	}

	table := make([]byte, (maxIter+1)*3)
	for i := 0; i <= maxIter; i++ {
		c := p.ColorFor(i, maxIter)
		table[3*i] = c.R
		table[3*i+1] = c.G
		table[3*i+2] = c.B
	}
	return &LUT{
		maxIter: maxIter,
		name:    p.Identity(),
		table:   table,
	}
}

func (l *LUT) MaxIter() int { return l.maxIter }
func (l *LUT) Name() string { return l.name }

// Entries is MaxIter + 1.
func (l *LUT) Entries() int { return l.maxIter + 1 }

// Bytes exposes the packed table. Callers must not modify it.
func (l *LUT) Bytes() []byte { return l.table }

// At returns the colour for iteration count iter.
func (l *LUT) At(iter int) RGB {
	return RGB{R: l.table[3*iter], G: l.table[3*iter+1], B: l.table[3*iter+2]}
}
