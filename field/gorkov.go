package field

// gorkovStencil evaluates the potential cell by cell with a three-point
// stencil per axis.
func gorkovStencil(f *Field, phys Physics) *Potential {
	d := f.Dims
	h := f.Volume.Resolution * 1e-3
	c := phys.coeffs(f.Omega)
	out := newPotential(f.Volume, d)

	for i := 0; i < d.NX; i++ {
		for j := 0; j < d.NY; j++ {
			for k := 0; k < d.NZ; k++ {
				idx := d.Index(i, j, k)
				p := f.Data[idx]

				gx := derivative(f.Data, idx, i, d.NX, d.NY*d.NZ, h)
				gy := derivative(f.Data, idx, j, d.NY, d.NZ, h)
				gz := derivative(f.Data, idx, k, d.NZ, 1, h)

				g2 := abs2(gx)
				g2 += abs2(gy)
				g2 += abs2(gz)
				out.Data[idx] = c.pressure*abs2(p) - c.velocity*g2
			}
		}
	}
	return out
}

// derivative returns ∂p along one axis at flat index idx whose position on
// that axis is pos of n, with neighbours stride apart.
func derivative(data []complex128, idx, pos, n, stride int, h float64) complex128 {
	switch {
	case n < 2:
		return 0
	case pos == 0:
		return (data[idx+stride] - data[idx]) / complex(h, 0)
	case pos == n-1:
		return (data[idx] - data[idx-stride]) / complex(h, 0)
	default:
		return (data[idx+stride] - data[idx-stride]) / complex(2*h, 0)
	}
}

func abs2(z complex128) float64 {
	r, i := real(z), imag(z)
	return r*r + i*i
}
