package field

import (
	"testing"

	"github.com/hupe1980/levito/emitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeDims(t *testing.T) {
	tests := []struct {
		name string
		vol  Volume
		want Dims
	}{
		{"default", DefaultVolume(), Dims{50, 50, 50}},
		{"rounded", CubeVolume(21, 2), Dims{11, 11, 11}},
		{"thin", Volume{Size: emitter.Point3D{X: 10, Y: 10, Z: 0.4}, Resolution: 1}, Dims{10, 10, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.vol.Dims())
		})
	}
}

func TestVolumeValidate(t *testing.T) {
	assert.NoError(t, DefaultVolume().Validate())
	assert.ErrorIs(t, CubeVolume(10, 0).Validate(), ErrInvalidVolume)
	assert.ErrorIs(t, CubeVolume(-1, 1).Validate(), ErrInvalidVolume)
}

func TestVolumeLocate(t *testing.T) {
	v := Volume{Origin: emitter.Point3D{X: -5, Y: -5, Z: -5}, Size: emitter.Point3D{X: 10, Y: 10, Z: 10}, Resolution: 1}

	t.Run("interior", func(t *testing.T) {
		i, j, k, ok := v.Locate(emitter.Point3D{X: 0.2, Y: -4.9, Z: 4.5})
		require.True(t, ok)
		assert.Equal(t, []int{5, 0, 9}, []int{i, j, k})
	})

	t.Run("far face", func(t *testing.T) {
		i, j, k, ok := v.Locate(emitter.Point3D{X: 5, Y: 5, Z: 5})
		require.True(t, ok)
		assert.Equal(t, []int{9, 9, 9}, []int{i, j, k})
	})

	t.Run("outside", func(t *testing.T) {
		assert.False(t, v.Contains(emitter.Point3D{X: -5.01}))
		assert.False(t, v.Contains(emitter.Point3D{Y: 5.01}))
		_, ok := v.Nearest(emitter.Point3D{Z: 100})
		assert.False(t, ok)
	})
}

func TestCellCenter(t *testing.T) {
	v := CubeVolume(21, 1)

	assert.Equal(t, emitter.Point3D{X: 0.5, Y: 10.5, Z: 20.5}, v.CellCenter(0, 10, 20))
	assert.Equal(t, emitter.Point3D{X: 10.5, Y: 10.5, Z: 10.5}, v.Center())

	idx, ok := v.Nearest(v.CellCenter(3, 4, 5))
	require.True(t, ok)
	assert.Equal(t, v.Dims().Index(3, 4, 5), idx)
}

func TestDimsRoundTrip(t *testing.T) {
	d := Dims{NX: 3, NY: 4, NZ: 5}
	for idx := 0; idx < d.Len(); idx++ {
		i, j, k := d.Coords(idx)
		assert.Equal(t, idx, d.Index(i, j, k))
	}
	// z is the fastest axis.
	assert.Equal(t, 1, d.Index(0, 0, 1))
	assert.Equal(t, 5, d.Index(0, 1, 0))
	assert.Equal(t, 20, d.Index(1, 0, 0))
}

func TestPhysics(t *testing.T) {
	p := DefaultPhysics()
	require.NoError(t, p.Validate())

	assert.InDelta(t, 40e3, p.Medium.Frequency(0.5), 1e-9)
	assert.InDelta(t, 2*3.141592653589793*30e3/343, p.Medium.Wavenumber(0), 1e-9)
	assert.Greater(t, p.Monopole(), 0.99)
	assert.InDelta(t, 2*(29-1.225)/(58+1.225), p.Dipole(), 1e-12)

	c := p.coeffs(p.Medium.AngularFrequency(0.5))
	assert.Greater(t, c.pressure, 0.0)
	assert.Greater(t, c.velocity, 0.0)

	bad := p
	bad.Particle.Radius = 0
	assert.Error(t, bad.Validate())
}
