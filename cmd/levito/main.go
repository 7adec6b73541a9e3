// Command levito compiles one primitive shape on a face-mounted array and
// prints its diagnostics.
//
// Usage:
//
//	levito -config levito.toml -shape cube -engine accelerator
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hupe1980/levito"
	"github.com/hupe1980/levito/blobstore"
	minioblob "github.com/hupe1980/levito/blobstore/minio"
	s3blob "github.com/hupe1980/levito/blobstore/s3"
	"github.com/hupe1980/levito/codec"
	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/field"
	"github.com/hupe1980/levito/fitness"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "levito: %v\n", err)
		os.Exit(1)
	}
}

// report is printed as JSON after a successful compile.
type report struct {
	Run         string              `json:"run"`
	Engine      string              `json:"engine"`
	Object      levito.ObjectID     `json:"object"`
	Shape       levito.Shape        `json:"shape"`
	Location    emitter.Point3D     `json:"location"`
	Targets     int                 `json:"targets"`
	Stability   float64             `json:"stability"`
	Diagnostics fitness.Diagnostics `json:"diagnostics"`
	Snapshot    string              `json:"snapshot,omitempty"`
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("levito", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	shape := fs.String("shape", "", "shape to compile (overrides config)")
	engine := fs.String("engine", "", "cpu or accelerator (overrides config)")
	location := fs.String("location", "", "x,y,z in millimetres (overrides config)")
	snapshot := fs.String("snapshot", "", "snapshot name (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return err
		}
	}
	if *shape != "" {
		cfg.Shape = levito.Shape(*shape)
	}
	if *engine != "" {
		kind, err := parseEngine(*engine)
		if err != nil {
			return err
		}
		cfg.Engine = kind
	}
	if *location != "" {
		p, err := parsePoint(*location)
		if err != nil {
			return err
		}
		cfg.Location = p
	}
	if *snapshot != "" {
		cfg.Snapshot.Name = *snapshot
	}

	runID := uuid.New()
	logger := levito.NewTextLogger(cfg.LogLevel)
	if cfg.LogJSON {
		logger = levito.NewJSONLogger(cfg.LogLevel)
	}
	logger = &levito.Logger{Logger: logger.With("cli_run", runID.String())}

	arrCfg := emitter.DefaultFaceConfig()
	arrCfg.Size = cfg.VolumeSize
	arrCfg.GridN = cfg.GridN
	arrCfg.FrequencySelect = cfg.FrequencySelect
	arr, err := emitter.NewFaceArray(arrCfg)
	if err != nil {
		return err
	}

	c, ok := codec.ByName(cfg.Snapshot.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", cfg.Snapshot.Codec)
	}

	op, err := levito.New(arr,
		levito.WithVolume(field.CubeVolume(cfg.VolumeSize, cfg.Resolution)),
		levito.WithEngine(cfg.Engine),
		levito.WithSolverConfig(cfg.Solver),
		levito.WithHalfExtent(cfg.HalfExtent),
		levito.WithMemoryLimit(cfg.MemoryLimitMB<<20),
		levito.WithMaxWorkers(cfg.MaxWorkers),
		levito.WithLogger(logger),
		levito.WithCodec(c),
		levito.WithCompression(cfg.Snapshot.Compression),
	)
	if err != nil {
		return err
	}
	defer op.Close()

	id, err := op.CreateObject(ctx, cfg.Shape, cfg.Location)
	if err != nil {
		return err
	}
	diag, _ := op.Diagnostics(id)
	obj, _ := op.Object(id)

	rep := report{
		Run:         runID.String(),
		Engine:      op.Engine(),
		Object:      id,
		Shape:       cfg.Shape,
		Location:    cfg.Location,
		Targets:     len(obj.Targets),
		Stability:   op.Stability(id),
		Diagnostics: diag,
	}

	if cfg.Snapshot.Name != "" {
		store, err := openStore(ctx, cfg.Snapshot)
		if err != nil {
			return err
		}
		if err := op.Snapshot(ctx, store, cfg.Snapshot.Name); err != nil {
			return err
		}
		rep.Snapshot = cfg.Snapshot.Name
	}

	out, err := gojson.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

// openStore picks S3, MinIO or a local directory. A remote store is
// mirrored into CacheDir when set.
func openStore(ctx context.Context, cfg snapshotConfig) (blobstore.Store, error) {
	var remote blobstore.Store
	switch {
	case cfg.S3Bucket != "":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		remote = s3blob.NewStore(awss3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix)
	case cfg.MinioEndpoint != "":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: cfg.MinioSecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		remote = minioblob.NewStore(client, cfg.MinioBucket, "")
	default:
		dir := cfg.Dir
		if dir == "" {
			dir = "."
		}
		return blobstore.NewLocalStore(dir), nil
	}

	if cfg.CacheDir != "" {
		return blobstore.NewCachingStore(remote, blobstore.NewLocalStore(cfg.CacheDir)), nil
	}
	return remote, nil
}

func parsePoint(s string) (emitter.Point3D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return emitter.Point3D{}, errors.New("location must be x,y,z")
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return emitter.Point3D{}, fmt.Errorf("location: %w", err)
		}
		v[i] = f
	}
	return emitter.Point3D{X: v[0], Y: v[1], Z: v[2]}, nil
}
