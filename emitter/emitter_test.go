package emitter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPhase(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"inside", 1.5, 1.5},
		{"full turn", TwoPi, 0},
		{"above", TwoPi + 1, 1},
		{"negative", -1, TwoPi - 1},
		{"tiny negative", -1e-18, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapPhase(tt.in)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, TwoPi)
		})
	}
}

func TestNewFaceArray(t *testing.T) {
	arr, err := NewFaceArray(DefaultFaceConfig())
	require.NoError(t, err)
	assert.Equal(t, 6*8*8, arr.Len())

	t.Run("EmittersOnFaces", func(t *testing.T) {
		for i := 0; i < arr.Len(); i++ {
			p := arr.At(i).Position
			onFace := p.X == 0 || p.X == 100 || p.Y == 0 || p.Y == 100 || p.Z == 0 || p.Z == 100
			assert.True(t, onFace, "emitter %d at %v is not on a face", i, p)
		}
	})

	t.Run("Pitch", func(t *testing.T) {
		first := arr.At(0).Position
		second := arr.At(1).Position
		assert.InDelta(t, 6.25, first.Y, 1e-12)
		assert.InDelta(t, 12.5, second.Z-first.Z, 1e-12)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		_, err := NewFaceArray(FaceConfig{Size: 0, GridN: 8})
		require.Error(t, err)
		_, err = NewFaceArray(FaceConfig{Size: 10, GridN: 0})
		require.Error(t, err)
	})
}

func TestArrayPhases(t *testing.T) {
	arr, err := NewArray([]Emitter{
		{Position: Point3D{X: 0}, FrequencySelect: 0.5, Amplitude: 1},
		{Position: Point3D{X: 1}, FrequencySelect: 0.5, Amplitude: 1},
	})
	require.NoError(t, err)

	t.Run("LengthMismatch", func(t *testing.T) {
		err := arr.ApplyPhases([]float64{1})
		var pl *ErrPhaseLength
		require.ErrorAs(t, err, &pl)
		assert.Equal(t, 2, pl.Expected)
		assert.Equal(t, 1, pl.Actual)
	})

	t.Run("ApplyWraps", func(t *testing.T) {
		require.NoError(t, arr.ApplyPhases([]float64{-math.Pi, 3 * math.Pi}))
		ph := arr.Phases()
		assert.InDelta(t, math.Pi, ph[0], 1e-12)
		assert.InDelta(t, math.Pi, ph[1], 1e-12)
	})

	t.Run("WithPhasesDoesNotMutate", func(t *testing.T) {
		before := arr.Phases()
		em, err := arr.WithPhases([]float64{0.1, 0.2})
		require.NoError(t, err)
		assert.InDelta(t, 0.1, em[0].Phase, 1e-12)
		assert.Equal(t, before, arr.Phases())
		assert.True(t, arr.SameGeometry(em))
	})

	t.Run("InvalidSelector", func(t *testing.T) {
		_, err := NewArray([]Emitter{{FrequencySelect: 2}})
		require.ErrorIs(t, err, ErrInvalidFrequencySelect)
		_, err = NewArray(nil)
		require.ErrorIs(t, err, ErrEmptyArray)
	})
}

func TestPointHelpers(t *testing.T) {
	pts := []Point3D{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 4, Z: 6}}
	assert.Equal(t, Point3D{X: 1, Y: 2, Z: 3}, Centroid(pts))
	assert.Equal(t, Point3D{}, Centroid(nil))

	moved := Translate(pts, Point3D{X: 1})
	assert.Equal(t, Point3D{X: 3, Y: 4, Z: 6}, moved[1])
	assert.Equal(t, Point3D{X: 2, Y: 4, Z: 6}, pts[1])

	assert.InDelta(t, 5.0, Point3D{}.Distance(Point3D{X: 3, Y: 4}), 1e-12)
}
