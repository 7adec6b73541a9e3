//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func init() {
	wideVectors = cpu.ARM64.HasASIMD
	finishCapabilities()
}
