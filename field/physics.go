package field

import (
	"fmt"
	"math"
)

// MinDistance is the smallest emitter-to-cell distance in metres. Closer
// cells are clamped to avoid the source singularity.
const MinDistance = 1e-9

// Medium describes the propagation medium and the carrier band.
type Medium struct {
	// SoundSpeed in m/s.
	SoundSpeed float64 `json:"sound_speed"`
	// Density in kg/m³.
	Density float64 `json:"density"`
	// MinFrequency and MaxFrequency bound the carrier band in Hz.
	MinFrequency float64 `json:"min_frequency"`
	MaxFrequency float64 `json:"max_frequency"`
}

// DefaultMedium is air at room temperature with a 30-50 kHz band.
func DefaultMedium() Medium {
	return Medium{
		SoundSpeed:   343,
		Density:      1.225,
		MinFrequency: 30e3,
		MaxFrequency: 50e3,
	}
}

// Frequency maps a [0,1] selector onto the carrier band.
func (m Medium) Frequency(sel float64) float64 {
	return m.MinFrequency + sel*(m.MaxFrequency-m.MinFrequency)
}

// Wavenumber returns k = 2πf/c in rad/m.
func (m Medium) Wavenumber(sel float64) float64 {
	return 2 * math.Pi * m.Frequency(sel) / m.SoundSpeed
}

// AngularFrequency returns ω = 2πf in rad/s.
func (m Medium) AngularFrequency(sel float64) float64 {
	return 2 * math.Pi * m.Frequency(sel)
}

// Particle describes the levitated body.
type Particle struct {
	// Radius in metres.
	Radius float64 `json:"radius"`
	// Density in kg/m³.
	Density float64 `json:"density"`
	// SoundSpeed in m/s.
	SoundSpeed float64 `json:"sound_speed"`
}

// DefaultParticle is a 1 mm expanded-polystyrene bead.
func DefaultParticle() Particle {
	return Particle{
		Radius:     1e-3,
		Density:    29,
		SoundSpeed: 900,
	}
}

// Physics bundles the medium and particle used by an engine.
type Physics struct {
	Medium   Medium   `json:"medium"`
	Particle Particle `json:"particle"`
}

// DefaultPhysics returns air with an EPS bead.
func DefaultPhysics() Physics {
	return Physics{Medium: DefaultMedium(), Particle: DefaultParticle()}
}

// Validate rejects non-physical parameters.
func (p Physics) Validate() error {
	m, q := p.Medium, p.Particle
	if !(m.SoundSpeed > 0 && m.Density > 0) {
		return fmt.Errorf("invalid medium: speed %v density %v", m.SoundSpeed, m.Density)
	}
	if !(m.MinFrequency > 0 && m.MaxFrequency >= m.MinFrequency) {
		return fmt.Errorf("invalid carrier band [%v, %v]", m.MinFrequency, m.MaxFrequency)
	}
	if !(q.Radius > 0 && q.Density > 0 && q.SoundSpeed > 0) {
		return fmt.Errorf("invalid particle: %+v", q)
	}
	return nil
}

// Monopole returns f1 = 1 - κp/κ0.
func (p Physics) Monopole() float64 {
	k0 := 1 / (p.Medium.Density * p.Medium.SoundSpeed * p.Medium.SoundSpeed)
	kp := 1 / (p.Particle.Density * p.Particle.SoundSpeed * p.Particle.SoundSpeed)
	return 1 - kp/k0
}

// Dipole returns f2 = 2(ρp - ρ0)/(2ρp + ρ0).
func (p Physics) Dipole() float64 {
	rp, r0 := p.Particle.Density, p.Medium.Density
	return 2 * (rp - r0) / (2*rp + r0)
}

// gorkovCoeffs folds the Gorkov constants so that
// U = pressure·|p|² - velocity·|∇p|².
type gorkovCoeffs struct {
	pressure float64
	velocity float64
}

// coeffs expands
// U = 2πR³(f1·<p²>/(3ρ0c0²) - f2·ρ0<v²>/2) with <p²> = |p|²/2 and
// <v²> = |∇p|²/(2ω²ρ0²).
func (p Physics) coeffs(omega float64) gorkovCoeffs {
	r := p.Particle.Radius
	vol := 2 * math.Pi * r * r * r
	rho0, c0 := p.Medium.Density, p.Medium.SoundSpeed
	return gorkovCoeffs{
		pressure: vol * p.Monopole() / (6 * rho0 * c0 * c0),
		velocity: vol * p.Dipole() / (4 * omega * omega * rho0),
	}
}
