package levito

import (
	"cmp"
	"slices"
	"sync"

	"github.com/hupe1980/levito/emitter"
)

// Shape names a primitive in a ShapeRegistry.
type Shape string

const (
	ShapeCube   Shape = "cube"
	ShapeSquare Shape = "square"
	ShapePoint  Shape = "point"
)

// TargetGenerator expands a shape placed at location into target points.
// halfExtent is the distance from the centre to a face in millimetres.
type TargetGenerator func(location emitter.Point3D, halfExtent float64) []emitter.Point3D

// ShapeRegistry maps shape names to target generators.
type ShapeRegistry struct {
	mu         sync.RWMutex
	generators map[Shape]TargetGenerator
}

// NewShapeRegistry creates an empty registry.
func NewShapeRegistry() *ShapeRegistry {
	return &ShapeRegistry{
		generators: make(map[Shape]TargetGenerator),
	}
}

// Register adds a generator. An existing generator with the same name is
// replaced.
func (r *ShapeRegistry) Register(shape Shape, gen TargetGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[shape] = gen
}

// Get returns the generator for shape.
func (r *ShapeRegistry) Get(shape Shape) (TargetGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[shape]
	return gen, ok
}

// List returns the registered shapes sorted by name.
func (r *ShapeRegistry) List() []Shape {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shapes := make([]Shape, 0, len(r.generators))
	for s := range r.generators {
		shapes = append(shapes, s)
	}
	slices.SortFunc(shapes, func(a, b Shape) int { return cmp.Compare(a, b) })
	return shapes
}

// DefaultShapes returns a registry with cube, square and point.
func DefaultShapes() *ShapeRegistry {
	r := NewShapeRegistry()
	r.Register(ShapeCube, CubeTargets)
	r.Register(ShapeSquare, SquareTargets)
	r.Register(ShapePoint, PointTargets)
	return r
}

// CubeTargets returns the eight corners of an axis-aligned cube.
func CubeTargets(loc emitter.Point3D, h float64) []emitter.Point3D {
	out := make([]emitter.Point3D, 0, 8)
	for _, dx := range [2]float64{-h, h} {
		for _, dy := range [2]float64{-h, h} {
			for _, dz := range [2]float64{-h, h} {
				out = append(out, loc.Add(emitter.Point3D{X: dx, Y: dy, Z: dz}))
			}
		}
	}
	return out
}

// SquareTargets returns the four corners of a square in the XY plane.
func SquareTargets(loc emitter.Point3D, h float64) []emitter.Point3D {
	out := make([]emitter.Point3D, 0, 4)
	for _, dx := range [2]float64{-h, h} {
		for _, dy := range [2]float64{-h, h} {
			out = append(out, loc.Add(emitter.Point3D{X: dx, Y: dy}))
		}
	}
	return out
}

// PointTargets returns location itself.
func PointTargets(loc emitter.Point3D, _ float64) []emitter.Point3D {
	return []emitter.Point3D{loc}
}
