package field

import "github.com/hupe1980/levito/internal/simd"

// gorkovSweep evaluates the potential with whole-line forward-difference
// sweeps per axis. It follows the same boundary convention as gorkovStencil:
// averaged differences inside, one-sided differences on the faces.
func gorkovSweep(f *Field, phys Physics) *Potential {
	d := f.Dims
	h := f.Volume.Resolution * 1e-3
	c := phys.coeffs(f.Omega)

	g2 := make([]float64, d.Len())
	longest := max(d.NX, d.NY, d.NZ)
	diff := make([]complex128, longest)

	for axis := 0; axis < 3; axis++ {
		forEachLine(d, axis, func(base, stride, n int) {
			sweepLine(f.Data, g2, diff, base, stride, n, h)
		})
	}

	out := newPotential(f.Volume, d)
	simd.SquaredMagnitude(f.Data, out.Data)
	for idx, p2 := range out.Data {
		out.Data[idx] = c.pressure*p2 - c.velocity*g2[idx]
	}
	return out
}

// forEachLine visits every grid line parallel to axis (0=x, 1=y, 2=z).
func forEachLine(d Dims, axis int, fn func(base, stride, n int)) {
	switch axis {
	case 0:
		for j := 0; j < d.NY; j++ {
			for k := 0; k < d.NZ; k++ {
				fn(j*d.NZ+k, d.NY*d.NZ, d.NX)
			}
		}
	case 1:
		for i := 0; i < d.NX; i++ {
			for k := 0; k < d.NZ; k++ {
				fn(i*d.NY*d.NZ+k, d.NZ, d.NY)
			}
		}
	case 2:
		for i := 0; i < d.NX; i++ {
			for j := 0; j < d.NY; j++ {
				fn((i*d.NY+j)*d.NZ, 1, d.NZ)
			}
		}
	}
}

// sweepLine adds |∂p|² along one line into g2. diff is scratch of at least
// n-1 elements.
func sweepLine(data []complex128, g2 []float64, diff []complex128, base, stride, n int, h float64) {
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		diff[i] = data[base+(i+1)*stride] - data[base+i*stride]
	}

	inv := complex(1/h, 0)
	half := complex(1/(2*h), 0)

	g2[base] += abs2(diff[0] * inv)
	for i := 1; i < n-1; i++ {
		g2[base+i*stride] += abs2((diff[i-1] + diff[i]) * half)
	}
	g2[base+(n-1)*stride] += abs2(diff[n-2] * inv)
}
