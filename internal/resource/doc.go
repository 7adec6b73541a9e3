// Package resource implements the Controller for process-wide compute limits.
//
// The Controller governs three resources:
//
//   - Memory: byte budget for long-lived tensors and caches (non-blocking, fail-fast)
//   - Workers: number of concurrent data-parallel kernel chunks
//   - Solves: admission rate of optimizer runs (token bucket)
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Limit   │  Worker Slots   │  Solve Rate Limiter     │
//	│  (fail-fast)    │  (semaphore)    │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquireWorker  │  WaitSolve              │
//	│  TryAcquire...  │  ReleaseWorker  │  TryAcquireSolve        │
//	│  ReleaseMemory  │  Workers        │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Memory Management
//
// The accelerator engine reserves its propagation tensor once at
// construction:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//	if err := rc.AcquireMemory(tensorBytes); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops with
// GOMAXPROCS workers.
package resource
