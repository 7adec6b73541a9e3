package levito

import (
	"log/slog"

	"github.com/hupe1980/levito/codec"
	"github.com/hupe1980/levito/field"
	"github.com/hupe1980/levito/internal/compress"
	"github.com/hupe1980/levito/solver"
)

// EngineKind selects the field engine.
type EngineKind uint8

const (
	// EngineAccelerator caches the propagation tensor and scores whole
	// populations per call.
	EngineAccelerator EngineKind = iota
	// EngineCPU superposes wavelets directly for every propagation.
	EngineCPU
)

// String returns the engine name.
func (k EngineKind) String() string {
	switch k {
	case EngineAccelerator:
		return "accelerator"
	case EngineCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// Compression selects the block compression of snapshots.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(name string) (Compression, error) {
	return compress.ParseType(name)
}

// DefaultHalfExtent is the half edge length of primitive shapes in millimetres.
const DefaultHalfExtent = 25.0

// DefaultPotentialCacheSize bounds the potential cache in bytes.
const DefaultPotentialCacheSize = 64 << 20

type options struct {
	volume             field.Volume
	physics            field.Physics
	engine             EngineKind
	solver             solver.Config
	seededMoves        bool
	halfExtent         float64
	logger             *Logger
	metricsCollector   MetricsCollector
	memoryLimit        int64
	maxWorkers         int64
	solvesPerSecond    float64
	solveBurst         int
	potentialCacheSize int64
	codec              codec.Codec
	compression        Compression
	shapes             *ShapeRegistry
}

func defaultOptions() options {
	return options{
		volume:             field.DefaultVolume(),
		physics:            field.DefaultPhysics(),
		engine:             EngineAccelerator,
		solver:             solver.DefaultConfig(),
		seededMoves:        true,
		halfExtent:         DefaultHalfExtent,
		logger:             NoopLogger(),
		metricsCollector:   NoopMetricsCollector{},
		potentialCacheSize: DefaultPotentialCacheSize,
		codec:              codec.Default,
		compression:        CompressionZSTD,
	}
}

// Option configures an Operator.
type Option func(*options)

// WithVolume sets the sampled working volume.
func WithVolume(v field.Volume) Option {
	return func(o *options) {
		o.volume = v
	}
}

// WithMedium sets the propagation medium and carrier band.
func WithMedium(m field.Medium) Option {
	return func(o *options) {
		o.physics.Medium = m
	}
}

// WithParticle sets the levitated particle.
func WithParticle(p field.Particle) Option {
	return func(o *options) {
		o.physics.Particle = p
	}
}

// WithEngine selects the field engine. Defaults to EngineAccelerator.
func WithEngine(kind EngineKind) Option {
	return func(o *options) {
		o.engine = kind
	}
}

// WithSolverConfig sets the genetic solver configuration.
func WithSolverConfig(cfg solver.Config) Option {
	return func(o *options) {
		o.solver = cfg
	}
}

// WithSeededMoves controls whether a move starts from the previous phases.
// Enabled by default.
func WithSeededMoves(enabled bool) Option {
	return func(o *options) {
		o.seededMoves = enabled
	}
}

// WithHalfExtent sets the half edge length passed to shape generators.
func WithHalfExtent(mm float64) Option {
	return func(o *options) {
		o.halfExtent = mm
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := levito.NewJSONLogger(slog.LevelInfo)
//	op, _ := levito.New(arr, levito.WithLogger(logger))
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel installs a text logger on stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &levito.BasicMetricsCollector{}
//	op, _ := levito.New(arr, levito.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMemoryLimit bounds the memory of the accelerator tensor and the
// potential cache. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxWorkers bounds the number of concurrent kernel chunks.
// 0 uses GOMAXPROCS.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = int64(n)
	}
}

// WithSolveRate throttles solver runs to perSecond with the given burst.
// 0 disables throttling.
func WithSolveRate(perSecond float64, burst int) Option {
	return func(o *options) {
		o.solvesPerSecond = perSecond
		o.solveBurst = burst
	}
}

// WithPotentialCacheSize bounds the cache of derived potentials in bytes.
// 0 disables caching.
func WithPotentialCacheSize(bytes int64) Option {
	return func(o *options) {
		o.potentialCacheSize = bytes
	}
}

// WithCodec configures the codec used for new snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the block compression for new snapshots.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithShapeRegistry replaces the default primitive shapes.
func WithShapeRegistry(r *ShapeRegistry) Option {
	return func(o *options) {
		o.shapes = r
	}
}
