package emitter

import "fmt"

// Face identifies one of the six planes of a cubic enclosure.
type Face uint8

const (
	FaceXMin Face = iota
	FaceXMax
	FaceYMin
	FaceYMax
	FaceZMin
	FaceZMax
)

// String returns the face name.
func (f Face) String() string {
	switch f {
	case FaceXMin:
		return "x-min"
	case FaceXMax:
		return "x-max"
	case FaceYMin:
		return "y-min"
	case FaceYMax:
		return "y-max"
	case FaceZMin:
		return "z-min"
	case FaceZMax:
		return "z-max"
	default:
		return "unknown"
	}
}

// AllFaces lists the six faces in construction order.
var AllFaces = []Face{FaceXMin, FaceXMax, FaceYMin, FaceYMax, FaceZMin, FaceZMax}

// FaceConfig describes a face-mounted array around an axis-aligned cube.
type FaceConfig struct {
	// Origin is the minimum corner of the enclosed volume in millimetres.
	Origin Point3D
	// Size is the edge length of the enclosed volume in millimetres.
	Size float64
	// GridN is the number of transducers per face edge.
	GridN int
	// Faces to populate. Defaults to all six.
	Faces []Face
	// FrequencySelect is applied to every emitter.
	FrequencySelect float64
	// Amplitude is applied to every emitter.
	Amplitude float64
}

// DefaultFaceConfig returns the 6 x 8 x 8 layout around a 100 mm cube.
func DefaultFaceConfig() FaceConfig {
	return FaceConfig{
		Size:            100,
		GridN:           8,
		Faces:           AllFaces,
		FrequencySelect: 0.5,
		Amplitude:       1,
	}
}

// NewFaceArray builds an array of GridN x GridN transducers on each face.
// Transducers sit at the centres of an even GridN x GridN tiling of the face.
func NewFaceArray(cfg FaceConfig) (*Array, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("face array: size must be positive, got %v", cfg.Size)
	}
	if cfg.GridN <= 0 {
		return nil, fmt.Errorf("face array: grid must be positive, got %d", cfg.GridN)
	}
	faces := cfg.Faces
	if len(faces) == 0 {
		faces = AllFaces
	}

	pitch := cfg.Size / float64(cfg.GridN)
	o := cfg.Origin
	emitters := make([]Emitter, 0, len(faces)*cfg.GridN*cfg.GridN)
	for _, f := range faces {
		for i := 0; i < cfg.GridN; i++ {
			u := (float64(i) + 0.5) * pitch
			for j := 0; j < cfg.GridN; j++ {
				v := (float64(j) + 0.5) * pitch
				var p Point3D
				switch f {
				case FaceXMin:
					p = Point3D{X: o.X, Y: o.Y + u, Z: o.Z + v}
				case FaceXMax:
					p = Point3D{X: o.X + cfg.Size, Y: o.Y + u, Z: o.Z + v}
				case FaceYMin:
					p = Point3D{X: o.X + u, Y: o.Y, Z: o.Z + v}
				case FaceYMax:
					p = Point3D{X: o.X + u, Y: o.Y + cfg.Size, Z: o.Z + v}
				case FaceZMin:
					p = Point3D{X: o.X + u, Y: o.Y + v, Z: o.Z}
				case FaceZMax:
					p = Point3D{X: o.X + u, Y: o.Y + v, Z: o.Z + cfg.Size}
				default:
					return nil, fmt.Errorf("face array: unknown face %d", f)
				}
				emitters = append(emitters, Emitter{
					Position:        p,
					FrequencySelect: cfg.FrequencySelect,
					Amplitude:       cfg.Amplitude,
				})
			}
		}
	}
	return NewArray(emitters)
}
