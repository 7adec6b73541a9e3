package simd

import "math"

var (
	phasorDotImpl      = phasorDotGeneric
	phasorDotBatchImpl = phasorDotBatchGeneric
)

func selectKernels(k Kernel) {
	if k == KernelUnrolled {
		phasorDotImpl = phasorDotUnrolled
		phasorDotBatchImpl = phasorDotBatchUnrolled
		return
	}
	phasorDotImpl = phasorDotGeneric
	phasorDotBatchImpl = phasorDotBatchGeneric
}

// Drive fills dst[i] = exp(i·phases[i]).
//
// SAFETY: len(dst) must be at least len(phases).
func Drive(phases []float64, dst []complex128) {
	dst = dst[:len(phases)]
	for i, p := range phases {
		s, c := math.Sincos(p)
		dst[i] = complex(c, s)
	}
}

// PhasorDot returns Σ row[i]·drive[i], widening row to complex128.
//
// SAFETY: len(drive) must be at least len(row).
func PhasorDot(row []complex64, drive []complex128) complex128 {
	return phasorDotImpl(row, drive)
}

// PhasorDotBatch computes out[p] = Σ_i row[i]·drives[p*n+i] for every p.
// drives is a flattened population of n-element drive vectors; out must
// have one slot per individual.
func PhasorDotBatch(row []complex64, drives []complex128, n int, out []complex128) {
	phasorDotBatchImpl(row, drives, n, out)
}

// SquaredMagnitude fills dst[i] = |src[i]|².
func SquaredMagnitude(src []complex128, dst []float64) {
	dst = dst[:len(src)]
	for i, z := range src {
		r, im := real(z), imag(z)
		dst[i] = r*r + im*im
	}
}

func phasorDotGeneric(row []complex64, drive []complex128) complex128 {
	drive = drive[:len(row)]
	var re, im float64
	for i, t := range row {
		tr, ti := float64(real(t)), float64(imag(t))
		dr, di := real(drive[i]), imag(drive[i])
		re += tr*dr - ti*di
		im += tr*di + ti*dr
	}
	return complex(re, im)
}

func phasorDotUnrolled(row []complex64, drive []complex128) complex128 {
	n := len(row)
	drive = drive[:n]
	var re0, im0, re1, im1, re2, im2, re3, im3 float64
	i := 0
	for ; i+3 < n; i += 4 {
		t0, t1, t2, t3 := row[i], row[i+1], row[i+2], row[i+3]
		d0, d1, d2, d3 := drive[i], drive[i+1], drive[i+2], drive[i+3]

		re0 += float64(real(t0))*real(d0) - float64(imag(t0))*imag(d0)
		im0 += float64(real(t0))*imag(d0) + float64(imag(t0))*real(d0)
		re1 += float64(real(t1))*real(d1) - float64(imag(t1))*imag(d1)
		im1 += float64(real(t1))*imag(d1) + float64(imag(t1))*real(d1)
		re2 += float64(real(t2))*real(d2) - float64(imag(t2))*imag(d2)
		im2 += float64(real(t2))*imag(d2) + float64(imag(t2))*real(d2)
		re3 += float64(real(t3))*real(d3) - float64(imag(t3))*imag(d3)
		im3 += float64(real(t3))*imag(d3) + float64(imag(t3))*real(d3)
	}
	for ; i < n; i++ {
		t, d := row[i], drive[i]
		re0 += float64(real(t))*real(d) - float64(imag(t))*imag(d)
		im0 += float64(real(t))*imag(d) + float64(imag(t))*real(d)
	}
	return complex((re0+re1)+(re2+re3), (im0+im1)+(im2+im3))
}

func phasorDotBatchGeneric(row []complex64, drives []complex128, n int, out []complex128) {
	if n <= 0 || len(row) < n {
		return
	}
	row = row[:n]
	count := len(drives) / n
	if len(out) < count {
		count = len(out)
	}
	for p := 0; p < count; p++ {
		out[p] = phasorDotGeneric(row, drives[p*n:(p+1)*n])
	}
}

func phasorDotBatchUnrolled(row []complex64, drives []complex128, n int, out []complex128) {
	if n <= 0 || len(row) < n {
		return
	}
	row = row[:n]
	count := len(drives) / n
	if len(out) < count {
		count = len(out)
	}
	for p := 0; p < count; p++ {
		out[p] = phasorDotUnrolled(row, drives[p*n:(p+1)*n])
	}
}
