package levito

import (
	"errors"
	"fmt"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/fitness"
	"github.com/hupe1980/levito/internal/resource"
)

var (
	// ErrUnknownShape is returned when a shape is not in the registry.
	ErrUnknownShape = errors.New("unknown shape")

	// ErrEmptyTargets is returned when an object has no target points.
	ErrEmptyTargets = fitness.ErrEmptyTargets

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("operator is closed")

	// ErrMemoryLimitExceeded is returned when the accelerator cache does not
	// fit the configured memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrInvalidSnapshot is returned for snapshots that cannot be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// ErrPhaseLength indicates a phase vector whose length differs from the
// emitter count.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrPhaseLength struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrPhaseLength) Error() string {
	return fmt.Sprintf("phase length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrPhaseLength) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pl *emitter.ErrPhaseLength
	if errors.As(err, &pl) {
		return &ErrPhaseLength{Expected: pl.Expected, Actual: pl.Actual, cause: err}
	}

	return err
}
