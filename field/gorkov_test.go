package field

import (
	"testing"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticField fills a field with fn(i, j, k).
func syntheticField(vol Volume, fn func(i, j, k int) complex128) *Field {
	f := newField(vol, DefaultPhysics().Medium.AngularFrequency(0.5))
	d := f.Dims
	for idx := range f.Data {
		i, j, k := d.Coords(idx)
		f.Data[idx] = fn(i, j, k)
	}
	return f
}

func TestGorkovBoundaryConvention(t *testing.T) {
	vol := Volume{Size: emitter.Point3D{X: 10, Y: 1, Z: 1}, Resolution: 1}
	phys := DefaultPhysics()
	// p = i² along x; y and z have a single cell.
	f := syntheticField(vol, func(i, _, _ int) complex128 {
		return complex(float64(i*i), 0)
	})
	c := phys.coeffs(f.Omega)
	h := vol.Resolution * 1e-3
	n := f.Dims.NX

	grad := func(i int) float64 {
		switch i {
		case 0:
			return 1 / h
		case n - 1:
			return float64(2*n-3) / h
		default:
			return float64(2*i) / h
		}
	}

	for name, u := range map[string]*Potential{
		"stencil": gorkovStencil(f, phys),
		"sweep":   gorkovSweep(f, phys),
	} {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < n; i++ {
				p := float64(i * i)
				g := grad(i)
				want := c.pressure*p*p - c.velocity*g*g
				assert.InEpsilon(t, want, u.At(i, 0, 0), 1e-9, "cell %d", i)
			}
		})
	}
}

func TestGorkovKernelParity(t *testing.T) {
	vol := Volume{Size: emitter.Point3D{X: 12, Y: 8, Z: 6}, Resolution: 2}
	rng := testutil.NewRNG(5)
	f := syntheticField(vol, func(_, _, _ int) complex128 {
		return complex(rng.Float64()*2-1, rng.Float64()*2-1)
	})

	a := gorkovStencil(f, DefaultPhysics())
	b := gorkovSweep(f, DefaultPhysics())
	require.Len(t, b.Data, len(a.Data))

	d := f.Dims
	for idx := range a.Data {
		i, j, k := d.Coords(idx)
		boundary := i == 0 || j == 0 || k == 0 || i == d.NX-1 || j == d.NY-1 || k == d.NZ-1
		assert.InDelta(t, a.Data[idx], b.Data[idx], 1e-9*testutil.MaxAbs(a.Data), "cell %v boundary=%v", [3]int{i, j, k}, boundary)
	}
}

func TestGorkovConstantField(t *testing.T) {
	vol := CubeVolume(6, 1)
	phys := DefaultPhysics()
	f := syntheticField(vol, func(_, _, _ int) complex128 { return 3 + 4i })
	c := phys.coeffs(f.Omega)

	u := gorkovSweep(f, phys)
	for _, v := range u.Data {
		assert.InEpsilon(t, c.pressure*25, v, 1e-12)
	}
	assert.InEpsilon(t, c.pressure*25, u.Max(), 1e-12)
	assert.InEpsilon(t, c.pressure*25, u.Mean(), 1e-12)
	assert.Equal(t, int64(len(u.Data)*8), u.SizeBytes())
}
