package levito

import (
	"math"
	"testing"

	"github.com/hupe1980/levito/emitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeRegistry(t *testing.T) {
	r := DefaultShapes()
	assert.Equal(t, []Shape{ShapeCube, ShapePoint, ShapeSquare}, r.List())

	_, ok := r.Get("torus")
	assert.False(t, ok)

	r.Register("line", func(loc emitter.Point3D, h float64) []emitter.Point3D {
		return []emitter.Point3D{loc.Sub(emitter.Point3D{X: h}), loc.Add(emitter.Point3D{X: h})}
	})
	gen, ok := r.Get("line")
	require.True(t, ok)
	assert.Len(t, gen(emitter.Point3D{}, 1), 2)
	assert.Equal(t, []Shape{ShapeCube, "line", ShapePoint, ShapeSquare}, r.List())

	assert.Empty(t, NewShapeRegistry().List())
}

func TestShapeTargets(t *testing.T) {
	loc := emitter.Point3D{X: 50, Y: 50, Z: 50}

	t.Run("cube", func(t *testing.T) {
		pts := CubeTargets(loc, 25)
		require.Len(t, pts, 8)
		seen := make(map[emitter.Point3D]bool)
		for _, p := range pts {
			d := p.Sub(loc)
			assert.Equal(t, 25.0, math.Abs(d.X))
			assert.Equal(t, 25.0, math.Abs(d.Y))
			assert.Equal(t, 25.0, math.Abs(d.Z))
			seen[p] = true
		}
		assert.Len(t, seen, 8)
		assert.Equal(t, loc, emitter.Centroid(pts))
	})

	t.Run("square", func(t *testing.T) {
		pts := SquareTargets(loc, 10)
		require.Len(t, pts, 4)
		for _, p := range pts {
			assert.Equal(t, loc.Z, p.Z)
			assert.Equal(t, 10.0, math.Abs(p.X-loc.X))
		}
		assert.Equal(t, loc, emitter.Centroid(pts))
	})

	t.Run("point", func(t *testing.T) {
		assert.Equal(t, []emitter.Point3D{loc}, PointTargets(loc, 25))
	})
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	err := translateError(&emitter.ErrPhaseLength{Expected: 3, Actual: 2})
	var pl *ErrPhaseLength
	require.ErrorAs(t, err, &pl)
	assert.Equal(t, 3, pl.Expected)
	assert.Equal(t, 2, pl.Actual)

	var inner *emitter.ErrPhaseLength
	assert.ErrorAs(t, err, &inner)

	assert.Equal(t, ErrClosed, translateError(ErrClosed))
}
