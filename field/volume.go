package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/levito/emitter"
)

// ErrInvalidVolume is returned for non-positive extents or resolution.
var ErrInvalidVolume = errors.New("invalid volume")

// Volume is an axis-aligned box sampled at cell centres.
type Volume struct {
	// Origin is the minimum corner in millimetres.
	Origin emitter.Point3D `json:"origin"`
	// Size holds the extents in millimetres.
	Size emitter.Point3D `json:"size"`
	// Resolution is the cell edge length in millimetres.
	Resolution float64 `json:"resolution"`
}

// CubeVolume returns a cube of the given edge length at the origin.
func CubeVolume(size, resolution float64) Volume {
	return Volume{
		Size:       emitter.Point3D{X: size, Y: size, Z: size},
		Resolution: resolution,
	}
}

// DefaultVolume is a 100 mm cube at 2 mm resolution.
func DefaultVolume() Volume {
	return CubeVolume(100, 2)
}

// Validate checks extents and resolution.
func (v Volume) Validate() error {
	if !(v.Resolution > 0) {
		return fmt.Errorf("%w: resolution %v", ErrInvalidVolume, v.Resolution)
	}
	if !(v.Size.X > 0 && v.Size.Y > 0 && v.Size.Z > 0) {
		return fmt.Errorf("%w: size %v", ErrInvalidVolume, v.Size)
	}
	return nil
}

// Dims returns the number of cells per axis.
func (v Volume) Dims() Dims {
	return Dims{
		NX: cellsAlong(v.Size.X, v.Resolution),
		NY: cellsAlong(v.Size.Y, v.Resolution),
		NZ: cellsAlong(v.Size.Z, v.Resolution),
	}
}

func cellsAlong(extent, res float64) int {
	n := int(math.Round(extent / res))
	if n < 1 {
		n = 1
	}
	return n
}

// Center returns the geometric centre of the volume.
func (v Volume) Center() emitter.Point3D {
	return v.Origin.Add(v.Size.Scale(0.5))
}

// CellCenter returns the centre of cell (i, j, k) in millimetres.
func (v Volume) CellCenter(i, j, k int) emitter.Point3D {
	r := v.Resolution
	return emitter.Point3D{
		X: v.Origin.X + (float64(i)+0.5)*r,
		Y: v.Origin.Y + (float64(j)+0.5)*r,
		Z: v.Origin.Z + (float64(k)+0.5)*r,
	}
}

// Locate returns the cell containing p. ok is false outside the volume.
func (v Volume) Locate(p emitter.Point3D) (i, j, k int, ok bool) {
	d := v.Dims()
	var okX, okY, okZ bool
	i, okX = locateAxis(p.X-v.Origin.X, v.Resolution, d.NX)
	j, okY = locateAxis(p.Y-v.Origin.Y, v.Resolution, d.NY)
	k, okZ = locateAxis(p.Z-v.Origin.Z, v.Resolution, d.NZ)
	return i, j, k, okX && okY && okZ
}

func locateAxis(offset, res float64, n int) (int, bool) {
	f := offset / res
	if math.IsNaN(f) || f < 0 || f > float64(n) {
		return 0, false
	}
	idx := int(math.Floor(f))
	if idx >= n {
		// Points on the far face belong to the last cell.
		idx = n - 1
	}
	return idx, true
}

// Nearest returns the flat index of the cell containing p.
func (v Volume) Nearest(p emitter.Point3D) (int, bool) {
	i, j, k, ok := v.Locate(p)
	if !ok {
		return -1, false
	}
	return v.Dims().Index(i, j, k), true
}

// Contains reports whether p lies inside the volume.
func (v Volume) Contains(p emitter.Point3D) bool {
	_, _, _, ok := v.Locate(p)
	return ok
}

// Dims is the cell count per axis. Cells are stored row-major with z fastest.
type Dims struct {
	NX, NY, NZ int
}

// Len returns the total number of cells.
func (d Dims) Len() int {
	return d.NX * d.NY * d.NZ
}

// Index flattens (i, j, k).
func (d Dims) Index(i, j, k int) int {
	return (i*d.NY+j)*d.NZ + k
}

// Coords expands a flat index.
func (d Dims) Coords(idx int) (i, j, k int) {
	k = idx % d.NZ
	idx /= d.NZ
	j = idx % d.NY
	i = idx / d.NY
	return i, j, k
}
