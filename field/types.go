package field

import (
	"slices"

	"github.com/hupe1980/levito/emitter"
	"gonum.org/v1/gonum/floats"
)

// Field is a dense grid of complex pressure samples.
type Field struct {
	Volume Volume
	Dims   Dims
	// Omega is the angular carrier frequency the field was computed at.
	Omega float64
	Data  []complex128
}

func newField(v Volume, omega float64) *Field {
	d := v.Dims()
	return &Field{
		Volume: v,
		Dims:   d,
		Omega:  omega,
		Data:   make([]complex128, d.Len()),
	}
}

// At returns the sample of cell (i, j, k).
func (f *Field) At(i, j, k int) complex128 {
	return f.Data[f.Dims.Index(i, j, k)]
}

// AtPoint returns the sample of the cell containing p.
func (f *Field) AtPoint(p emitter.Point3D) (complex128, bool) {
	idx, ok := f.Volume.Nearest(p)
	if !ok {
		return 0, false
	}
	return f.Data[idx], true
}

// Add returns the element-wise sum of f and g. Both must share a volume.
func (f *Field) Add(g *Field) *Field {
	out := &Field{Volume: f.Volume, Dims: f.Dims, Omega: f.Omega, Data: slices.Clone(f.Data)}
	for i, z := range g.Data {
		out.Data[i] += z
	}
	return out
}

// Potential is a dense grid of Gorkov potential values. Negative values
// attract the particle.
type Potential struct {
	Volume Volume
	Dims   Dims
	Data   []float64
}

func newPotential(v Volume, d Dims) *Potential {
	return &Potential{Volume: v, Dims: d, Data: make([]float64, d.Len())}
}

// At returns the value of cell (i, j, k).
func (p *Potential) At(i, j, k int) float64 {
	return p.Data[p.Dims.Index(i, j, k)]
}

// ValueAt returns the value of the cell containing pt.
func (p *Potential) ValueAt(pt emitter.Point3D) (float64, bool) {
	idx, ok := p.Volume.Nearest(pt)
	if !ok {
		return 0, false
	}
	return p.Data[idx], true
}

// Max returns the global maximum.
func (p *Potential) Max() float64 {
	return floats.Max(p.Data)
}

// Min returns the global minimum.
func (p *Potential) Min() float64 {
	return floats.Min(p.Data)
}

// Mean returns the average over all cells.
func (p *Potential) Mean() float64 {
	return floats.Sum(p.Data) / float64(len(p.Data))
}

// SizeBytes is the memory held by the sample slice.
func (p *Potential) SizeBytes() int64 {
	return int64(len(p.Data)) * 8
}
