package emitter

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyArray is returned when an array has no emitters.
	ErrEmptyArray = errors.New("emitter array is empty")

	// ErrInvalidFrequencySelect is returned when a selector is outside [0,1].
	ErrInvalidFrequencySelect = errors.New("frequency select must be within [0,1]")
)

// ErrPhaseLength indicates a phase vector whose length differs from the
// number of emitters.
type ErrPhaseLength struct {
	Expected int
	Actual   int
}

func (e *ErrPhaseLength) Error() string {
	return fmt.Sprintf("phase vector length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Array is an ordered set of emitters. The geometry is fixed after
// construction; only the stored phases change.
type Array struct {
	emitters []Emitter
}

// NewArray builds an array from the given emitters. The slice is copied.
func NewArray(emitters []Emitter) (*Array, error) {
	if len(emitters) == 0 {
		return nil, ErrEmptyArray
	}
	for i, e := range emitters {
		if e.FrequencySelect < 0 || e.FrequencySelect > 1 {
			return nil, fmt.Errorf("emitter %d: %w", i, ErrInvalidFrequencySelect)
		}
	}
	cp := slices.Clone(emitters)
	for i := range cp {
		cp[i].Phase = WrapPhase(cp[i].Phase)
	}
	return &Array{emitters: cp}, nil
}

// Len returns the number of emitters.
func (a *Array) Len() int { return len(a.emitters) }

// At returns the i-th emitter.
func (a *Array) At(i int) Emitter { return a.emitters[i] }

// Emitters returns a copy of the emitters.
func (a *Array) Emitters() []Emitter { return slices.Clone(a.emitters) }

// Phases returns a copy of the stored phase vector.
func (a *Array) Phases() []float64 {
	out := make([]float64, len(a.emitters))
	for i, e := range a.emitters {
		out[i] = e.Phase
	}
	return out
}

// CheckPhases validates the length of a phase vector.
func (a *Array) CheckPhases(phases []float64) error {
	if len(phases) != len(a.emitters) {
		return &ErrPhaseLength{Expected: len(a.emitters), Actual: len(phases)}
	}
	return nil
}

// ApplyPhases stores a solved phase vector, wrapping values into [0, 2π).
func (a *Array) ApplyPhases(phases []float64) error {
	if err := a.CheckPhases(phases); err != nil {
		return err
	}
	for i, p := range phases {
		a.emitters[i].Phase = WrapPhase(p)
	}
	return nil
}

// WithPhases returns a copy of the emitters carrying the given phases.
// The array itself is not modified.
func (a *Array) WithPhases(phases []float64) ([]Emitter, error) {
	if err := a.CheckPhases(phases); err != nil {
		return nil, err
	}
	out := slices.Clone(a.emitters)
	for i, p := range phases {
		out[i].Phase = WrapPhase(p)
	}
	return out, nil
}

// MeanFrequencySelect returns the average carrier selector of the array.
func (a *Array) MeanFrequencySelect() float64 {
	return MeanFrequencySelect(a.emitters)
}

// MeanFrequencySelect returns the average carrier selector of emitters.
func MeanFrequencySelect(emitters []Emitter) float64 {
	if len(emitters) == 0 {
		return 0
	}
	var sum float64
	for _, e := range emitters {
		sum += e.FrequencySelect
	}
	return sum / float64(len(emitters))
}

// SameGeometry reports whether emitters match the array in position,
// carrier and amplitude. Phases are ignored.
func (a *Array) SameGeometry(emitters []Emitter) bool {
	if len(emitters) != len(a.emitters) {
		return false
	}
	for i, e := range emitters {
		ref := a.emitters[i]
		if e.Position != ref.Position || e.FrequencySelect != ref.FrequencySelect || e.Amplitude != ref.Amplitude {
			return false
		}
	}
	return true
}
