package emitter

import (
	"fmt"
	"math"
)

// TwoPi is a full phase turn.
const TwoPi = 2 * math.Pi

// Point3D is a position in millimetres.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p * s.
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Distance returns the Euclidean distance between p and q in millimetres.
func (p Point3D) Distance(q Point3D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// String returns a compact representation of the point.
func (p Point3D) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// Centroid returns the arithmetic mean of pts. It returns the zero point for
// an empty slice.
func Centroid(pts []Point3D) Point3D {
	if len(pts) == 0 {
		return Point3D{}
	}
	var c Point3D
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// Translate returns a copy of pts shifted by delta.
func Translate(pts []Point3D, delta Point3D) []Point3D {
	out := make([]Point3D, len(pts))
	for i, p := range pts {
		out[i] = p.Add(delta)
	}
	return out
}

// Emitter is a single point source.
type Emitter struct {
	// Position in millimetres.
	Position Point3D `json:"position"`
	// FrequencySelect maps onto the carrier band, 0 = lowest, 1 = highest.
	FrequencySelect float64 `json:"frequency_select"`
	// Amplitude of the emitted wavelet.
	Amplitude float64 `json:"amplitude"`
	// Phase in radians, [0, 2π).
	Phase float64 `json:"phase"`
}

// WrapPhase maps an angle in radians into [0, 2π).
func WrapPhase(phi float64) float64 {
	phi = math.Mod(phi, TwoPi)
	if phi < 0 {
		phi += TwoPi
	}
	// math.Mod can return TwoPi for values just below a multiple of 2π
	// after the negative correction.
	if phi >= TwoPi {
		phi = 0
	}
	return phi
}

// WrapPhases wraps every element of phases in place.
func WrapPhases(phases []float64) {
	for i, p := range phases {
		phases[i] = WrapPhase(p)
	}
}
