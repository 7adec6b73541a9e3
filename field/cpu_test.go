package field

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/internal/resource"
	"github.com/hupe1980/levito/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallArray(t *testing.T) *emitter.Array {
	t.Helper()
	arr, err := testutil.FaceArray(40, 4)
	require.NoError(t, err)
	return arr
}

func smallVolume() Volume {
	return CubeVolume(40, 2)
}

func TestNewCPUValidation(t *testing.T) {
	arr := smallArray(t)

	_, err := NewCPU(nil, smallVolume())
	assert.ErrorIs(t, err, emitter.ErrEmptyArray)

	_, err = NewCPU(arr, CubeVolume(40, 0))
	assert.ErrorIs(t, err, ErrInvalidVolume)

	_, err = NewCPU(arr, smallVolume(), func(o *Options) { o.Physics.Medium.SoundSpeed = 0 })
	assert.Error(t, err)
}

func TestCPUDeterministic(t *testing.T) {
	arr := smallArray(t)
	phases := testutil.NewRNG(1).Phases(arr.Len())

	serial, err := NewCPU(arr, smallVolume(), func(o *Options) {
		o.Resources = resource.NewController(resource.Config{MaxWorkers: 1})
	})
	require.NoError(t, err)
	wide, err := NewCPU(arr, smallVolume(), func(o *Options) {
		o.Resources = resource.NewController(resource.Config{MaxWorkers: 7})
	})
	require.NoError(t, err)

	a, err := serial.PropagatePhases(phases)
	require.NoError(t, err)
	b, err := wide.PropagatePhases(phases)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
	assert.Equal(t, serial.GorkovPotential(a).Data, wide.GorkovPotential(b).Data)
}

func TestCPUPropagatePhasesDoesNotMutateArray(t *testing.T) {
	arr := smallArray(t)
	before := arr.Phases()
	eng, err := NewCPU(arr, smallVolume())
	require.NoError(t, err)

	_, err = eng.PropagatePhases(testutil.NewRNG(2).Phases(arr.Len()))
	require.NoError(t, err)
	assert.Equal(t, before, arr.Phases())

	_, err = eng.PropagatePhases([]float64{1, 2})
	var perr *emitter.ErrPhaseLength
	assert.ErrorAs(t, err, &perr)
}

func TestCPUSuperposition(t *testing.T) {
	arr := smallArray(t)
	em, err := arr.WithPhases(testutil.NewRNG(3).Phases(arr.Len()))
	require.NoError(t, err)
	eng, err := NewCPU(arr, smallVolume())
	require.NoError(t, err)

	half := len(em) / 2
	all, err := eng.Propagate(em)
	require.NoError(t, err)
	a, err := eng.Propagate(em[:half])
	require.NoError(t, err)
	b, err := eng.Propagate(em[half:])
	require.NoError(t, err)

	assert.Less(t, testutil.MaxAbsDiff(all.Data, a.Add(b).Data), 1e-9)
}

func TestCPUAntiphaseNode(t *testing.T) {
	vol := CubeVolume(21, 1)
	c := vol.Center()
	arr, err := emitter.NewArray([]emitter.Emitter{
		{Position: c.Add(emitter.Point3D{X: -5}), FrequencySelect: 0.5, Amplitude: 1},
		{Position: c.Add(emitter.Point3D{X: 5}), FrequencySelect: 0.5, Amplitude: 1, Phase: math.Pi},
	})
	require.NoError(t, err)
	eng, err := NewCPU(arr, vol)
	require.NoError(t, err)

	f, err := eng.Propagate(arr.Emitters())
	require.NoError(t, err)

	mid, ok := f.AtPoint(c)
	require.True(t, ok)
	assert.Less(t, cmplx.Abs(mid), 1e-9)

	// Off the symmetry plane the waves no longer cancel.
	off := f.At(12, 10, 10)
	assert.Greater(t, cmplx.Abs(off), 0.1)
}

func TestCPUSingleEmitter(t *testing.T) {
	vol := CubeVolume(10, 1)
	arr, err := emitter.NewArray([]emitter.Emitter{
		{Position: emitter.Point3D{X: 0.5, Y: 0.5, Z: 0.5}, Amplitude: 2},
	})
	require.NoError(t, err)
	eng, err := NewCPU(arr, vol)
	require.NoError(t, err)

	f, err := eng.Propagate(arr.Emitters())
	require.NoError(t, err)

	// The emitter sits on a cell centre: distance clamps, phase ≈ 0.
	assert.InDelta(t, 2.0, real(f.At(0, 0, 0)), 1e-6)
	for _, z := range f.Data {
		assert.InDelta(t, 2.0, cmplx.Abs(z), 1e-9)
	}
	assert.InDelta(t, DefaultPhysics().Medium.AngularFrequency(0), f.Omega, 1e-9)
}
