package simd

import (
	"fmt"
	"os"
	"runtime"
	"testing"
)

// TestMain prints which kernel family the tests exercise.
func TestMain(m *testing.M) {
	fmt.Printf("simd: GOARCH=%s %s=%q kernel=%s wide=%v override=%v\n\n",
		runtime.GOARCH, OverrideEnv, os.Getenv(OverrideEnv),
		ActiveKernel(), WideVectors(), IsOverridden())
	os.Exit(m.Run())
}
