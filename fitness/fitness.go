package fitness

import (
	"errors"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/field"
	"gonum.org/v1/gonum/floats"
)

// OutOfBoundsPenalty is the contribution of a target outside the volume.
const OutOfBoundsPenalty = -50.0

// ErrEmptyTargets is returned when a target set has no points.
var ErrEmptyTargets = errors.New("target set is empty")

// Targets is a target set resolved against one volume. Resolving once lets
// a solver score every individual without re-locating the points.
type Targets struct {
	vol    field.Volume
	points []emitter.Point3D
	cells  []int // flat cell index, -1 when out of bounds
	oob    int
}

// Resolve maps every point to the cell containing it.
func Resolve(vol field.Volume, points []emitter.Point3D) *Targets {
	t := &Targets{
		vol:    vol,
		points: points,
		cells:  make([]int, len(points)),
	}
	for i, p := range points {
		idx, ok := vol.Nearest(p)
		if !ok {
			t.oob++
		}
		t.cells[i] = idx
	}
	return t
}

// Len returns the number of targets.
func (t *Targets) Len() int { return len(t.points) }

// Points returns the target points.
func (t *Targets) Points() []emitter.Point3D { return t.points }

// OutOfBounds returns the number of targets outside the volume.
func (t *Targets) OutOfBounds() int { return t.oob }

// Volume returns the volume the targets were resolved against.
func (t *Targets) Volume() field.Volume { return t.vol }

// Score returns the fitness of pot. Higher is better.
func (t *Targets) Score(pot *field.Potential) float64 {
	peak := floats.Max(pot.Data)
	var sum float64
	for _, idx := range t.cells {
		if idx < 0 {
			sum += OutOfBoundsPenalty
			continue
		}
		sum += peak - pot.Data[idx]
	}
	return sum
}

// ScoreBatch scores one potential per individual.
func (t *Targets) ScoreBatch(pots []*field.Potential) []float64 {
	out := make([]float64, len(pots))
	for i, p := range pots {
		out[i] = t.Score(p)
	}
	return out
}

// Diagnostics summarises how well a potential traps the targets.
type Diagnostics struct {
	// Fitness is the value Score returns.
	Fitness float64 `json:"fitness"`
	// PeakPotential is max(U) over the grid.
	PeakPotential float64 `json:"peak_potential"`
	// MeanTargetPotential is the mean U over in-bounds targets.
	MeanTargetPotential float64 `json:"mean_target_potential"`
	// TargetRatio is MeanTargetPotential / PeakPotential.
	TargetRatio float64 `json:"target_ratio"`
	// OutOfBounds counts targets outside the volume.
	OutOfBounds int `json:"out_of_bounds"`
}

// Evaluate computes diagnostics for pot.
func (t *Targets) Evaluate(pot *field.Potential) Diagnostics {
	d := Diagnostics{
		Fitness:             t.Score(pot),
		PeakPotential:       floats.Max(pot.Data),
		MeanTargetPotential: t.Mean(pot),
		OutOfBounds:         t.oob,
	}
	// A silent field has no meaningful ratio.
	if d.PeakPotential != 0 {
		d.TargetRatio = d.MeanTargetPotential / d.PeakPotential
	}
	return d
}

// Mean returns the mean potential over in-bounds targets, or 0 when every
// target is out of bounds.
func (t *Targets) Mean(pot *field.Potential) float64 {
	vals := make([]float64, 0, len(t.cells))
	for _, idx := range t.cells {
		if idx >= 0 {
			vals = append(vals, pot.Data[idx])
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}

// Score resolves targets against pot's volume and scores it.
func Score(pot *field.Potential, targets []emitter.Point3D) float64 {
	return Resolve(pot.Volume, targets).Score(pot)
}

// ScoreBatch scores every potential against the same targets.
func ScoreBatch(pots []*field.Potential, targets []emitter.Point3D) []float64 {
	if len(pots) == 0 {
		return nil
	}
	return Resolve(pots[0].Volume, targets).ScoreBatch(pots)
}

// Evaluate resolves targets against pot's volume and reports diagnostics.
func Evaluate(pot *field.Potential, targets []emitter.Point3D) Diagnostics {
	return Resolve(pot.Volume, targets).Evaluate(pot)
}
