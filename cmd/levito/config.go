package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/levito"
	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/solver"
)

// config is the resolved CLI configuration.
type config struct {
	VolumeSize      float64
	Resolution      float64
	GridN           int
	FrequencySelect float64
	Engine          levito.EngineKind
	Shape           levito.Shape
	Location        emitter.Point3D
	HalfExtent      float64
	Solver          solver.Config
	MemoryLimitMB   int64
	MaxWorkers      int
	LogLevel        slog.Level
	LogJSON         bool
	Snapshot        snapshotConfig
}

type snapshotConfig struct {
	Name          string
	Dir           string
	CacheDir      string
	S3Bucket      string
	S3Prefix      string
	MinioEndpoint string
	MinioBucket   string
	MinioSecure   bool
	Codec         string
	Compression   levito.Compression
}

func defaultConfig() config {
	return config{
		VolumeSize:      100,
		Resolution:      2,
		GridN:           8,
		FrequencySelect: 0.5,
		Engine:          levito.EngineAccelerator,
		Shape:           levito.ShapeCube,
		Location:        emitter.Point3D{X: 50, Y: 50, Z: 50},
		HalfExtent:      levito.DefaultHalfExtent,
		Solver:          solver.DefaultConfig(),
		LogLevel:        slog.LevelInfo,
		Snapshot: snapshotConfig{
			Codec:       "go-json",
			Compression: levito.CompressionZSTD,
		},
	}
}

// levito config.toml key mapping.
type fileConfig struct {
	VolumeSize      float64            `toml:"volume_size"`
	Resolution      float64            `toml:"resolution"`
	GridN           int                `toml:"grid_n"`
	FrequencySelect float64            `toml:"frequency_select"`
	Engine          string             `toml:"engine"`
	Shape           string             `toml:"shape"`
	Location        []float64          `toml:"location"`
	HalfExtent      float64            `toml:"half_extent"`
	Solver          solver.Config      `toml:"solver"`
	MemoryLimitMB   int64              `toml:"memory_limit_mb"`
	MaxWorkers      int                `toml:"max_workers"`
	LogLevel        string             `toml:"log_level"`
	LogFormat       string             `toml:"log_format"`
	Snapshot        snapshotFileConfig `toml:"snapshot"`
}

type snapshotFileConfig struct {
	Name          string `toml:"name"`
	Dir           string `toml:"dir"`
	CacheDir      string `toml:"cache_dir"`
	S3Bucket      string `toml:"s3_bucket"`
	S3Prefix      string `toml:"s3_prefix"`
	MinioEndpoint string `toml:"minio_endpoint"`
	MinioBucket   string `toml:"minio_bucket"`
	MinioSecure   bool   `toml:"minio_secure"`
	Codec         string `toml:"codec"`
	Compression   string `toml:"compression"`
}

// loadConfig overlays the TOML file at path onto the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load levito config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load levito config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("volume_size") {
		cfg.VolumeSize = raw.VolumeSize
	}
	if meta.IsDefined("resolution") {
		cfg.Resolution = raw.Resolution
	}
	if meta.IsDefined("grid_n") {
		cfg.GridN = raw.GridN
	}
	if meta.IsDefined("frequency_select") {
		cfg.FrequencySelect = raw.FrequencySelect
	}
	if meta.IsDefined("engine") {
		kind, err := parseEngine(raw.Engine)
		if err != nil {
			return config{}, fmt.Errorf("load levito config: %w", err)
		}
		cfg.Engine = kind
	}
	if meta.IsDefined("shape") {
		cfg.Shape = levito.Shape(strings.TrimSpace(raw.Shape))
	}
	if meta.IsDefined("location") {
		if len(raw.Location) != 3 {
			return config{}, fmt.Errorf("load levito config: location needs 3 values, got %d", len(raw.Location))
		}
		cfg.Location = emitter.Point3D{X: raw.Location[0], Y: raw.Location[1], Z: raw.Location[2]}
	}
	if meta.IsDefined("half_extent") {
		cfg.HalfExtent = raw.HalfExtent
	}
	if meta.IsDefined("memory_limit_mb") {
		cfg.MemoryLimitMB = raw.MemoryLimitMB
	}
	if meta.IsDefined("max_workers") {
		cfg.MaxWorkers = raw.MaxWorkers
	}
	if meta.IsDefined("log_level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw.LogLevel)); err != nil {
			return config{}, fmt.Errorf("load levito config: %w", err)
		}
	}
	if meta.IsDefined("log_format") {
		switch strings.TrimSpace(raw.LogFormat) {
		case "json":
			cfg.LogJSON = true
		case "text":
			cfg.LogJSON = false
		default:
			return config{}, fmt.Errorf("load levito config: unsupported log format %q (expected text or json)", raw.LogFormat)
		}
	}

	overlaySolver(&cfg.Solver, raw.Solver, meta)
	if err := cfg.Solver.Validate(); err != nil {
		return config{}, fmt.Errorf("load levito config: %w", err)
	}

	if err := overlaySnapshot(&cfg.Snapshot, raw.Snapshot, meta); err != nil {
		return config{}, fmt.Errorf("load levito config: %w", err)
	}
	return cfg, nil
}

func overlaySolver(dst *solver.Config, raw solver.Config, meta toml.MetaData) {
	if meta.IsDefined("solver", "generations") {
		dst.Generations = raw.Generations
	}
	if meta.IsDefined("solver", "population_size") {
		dst.PopulationSize = raw.PopulationSize
	}
	if meta.IsDefined("solver", "elite_fraction") {
		dst.EliteFraction = raw.EliteFraction
	}
	if meta.IsDefined("solver", "mutation_rate") {
		dst.MutationRate = raw.MutationRate
	}
	if meta.IsDefined("solver", "init") {
		dst.Init = raw.Init
	}
	if meta.IsDefined("solver", "seed_sigma") {
		dst.SeedSigma = raw.SeedSigma
	}
	if meta.IsDefined("solver", "rand_seed") {
		dst.RandSeed = raw.RandSeed
	}
}

func overlaySnapshot(dst *snapshotConfig, raw snapshotFileConfig, meta toml.MetaData) error {
	if meta.IsDefined("snapshot", "name") {
		dst.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("snapshot", "dir") {
		dst.Dir = strings.TrimSpace(raw.Dir)
	}
	if meta.IsDefined("snapshot", "cache_dir") {
		dst.CacheDir = strings.TrimSpace(raw.CacheDir)
	}
	if meta.IsDefined("snapshot", "s3_bucket") {
		dst.S3Bucket = strings.TrimSpace(raw.S3Bucket)
	}
	if meta.IsDefined("snapshot", "s3_prefix") {
		dst.S3Prefix = strings.TrimSpace(raw.S3Prefix)
	}
	if meta.IsDefined("snapshot", "minio_endpoint") {
		dst.MinioEndpoint = strings.TrimSpace(raw.MinioEndpoint)
	}
	if meta.IsDefined("snapshot", "minio_bucket") {
		dst.MinioBucket = strings.TrimSpace(raw.MinioBucket)
	}
	if meta.IsDefined("snapshot", "minio_secure") {
		dst.MinioSecure = raw.MinioSecure
	}
	if meta.IsDefined("snapshot", "codec") {
		dst.Codec = strings.TrimSpace(raw.Codec)
	}
	if meta.IsDefined("snapshot", "compression") {
		c, err := levito.ParseCompression(strings.TrimSpace(raw.Compression))
		if err != nil {
			return err
		}
		dst.Compression = c
	}

	remotes := 0
	for _, v := range []string{dst.S3Bucket, dst.MinioEndpoint} {
		if v != "" {
			remotes++
		}
	}
	if remotes > 1 {
		return fmt.Errorf("snapshot: s3_bucket and minio_endpoint are mutually exclusive")
	}
	if dst.MinioEndpoint != "" && dst.MinioBucket == "" {
		return fmt.Errorf("snapshot: minio_endpoint requires minio_bucket")
	}
	return nil
}

func parseEngine(name string) (levito.EngineKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "accelerator", "":
		return levito.EngineAccelerator, nil
	case "cpu":
		return levito.EngineCPU, nil
	default:
		return 0, fmt.Errorf("unsupported engine %q (expected cpu or accelerator)", name)
	}
}
