package simd

import (
	"os"
	"strings"
)

// Kernel names one of the two kernel families.
type Kernel uint8

const (
	// KernelGeneric uses one accumulator per output.
	KernelGeneric Kernel = iota
	// KernelUnrolled splits each sum over four accumulators so wide vector
	// units can keep several multiply-adds in flight.
	KernelUnrolled
)

func (k Kernel) String() string {
	switch k {
	case KernelGeneric:
		return "generic"
	case KernelUnrolled:
		return "unrolled"
	default:
		return "unknown"
	}
}

// ParseKernel parses a kernel family name.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return KernelGeneric, true
	case "unrolled":
		return KernelUnrolled, true
	default:
		return KernelGeneric, false
	}
}

// OverrideEnv names the environment variable that pins the kernel family.
const OverrideEnv = "LEVITO_SIMD"

// Set by the platform init, read-only afterwards.
var (
	wideVectors  bool
	activeKernel Kernel
	overridden   bool
)

func finishCapabilities() {
	activeKernel, overridden = chooseKernel(os.Getenv(OverrideEnv), wideVectors)
	selectKernels(activeKernel)
}

// chooseKernel honours a valid override and otherwise unrolls only when the
// CPU has wide vector units.
func chooseKernel(override string, wide bool) (Kernel, bool) {
	if k, ok := ParseKernel(override); ok {
		return k, true
	}
	if wide {
		return KernelUnrolled, false
	}
	return KernelGeneric, false
}

// ActiveKernel returns the kernel family in use.
func ActiveKernel() Kernel { return activeKernel }

// IsOverridden reports whether LEVITO_SIMD selected the kernel family.
func IsOverridden() bool { return overridden }

// WideVectors reports whether the CPU has AVX2+FMA (amd64) or ASIMD (arm64).
func WideVectors() bool { return wideVectors }
