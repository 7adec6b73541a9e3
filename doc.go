// Package levito compiles target point sets into phase vectors for an
// ultrasonic phased array.
//
// An Operator owns one emitter array and a registry of compiled objects. Each
// object is a set of target points; creating or moving it runs the genetic
// phase solver until the array's Gorkov potential forms traps at the targets.
//
// # Quick Start
//
//	arr, _ := emitter.NewFaceArray(emitter.DefaultFaceConfig())
//	op, _ := levito.New(arr)
//	defer op.Close()
//
//	id, _ := op.CreateObject(ctx, levito.ShapeCube, emitter.Point3D{X: 50, Y: 50, Z: 50})
//	fmt.Println(op.Stability(id))
//
// # Engines
//
// Two field engines are available:
//
//	levito.New(arr, levito.WithEngine(levito.EngineCPU))         // direct superposition
//	levito.New(arr, levito.WithEngine(levito.EngineAccelerator)) // cached tensor, batched solves
//
// The accelerator precomputes one complex weight per cell and emitter at
// construction. Its memory is reserved against WithMemoryLimit.
//
// # Shapes
//
// Primitive shapes are resolved through a ShapeRegistry:
//
//	reg := levito.DefaultShapes()
//	reg.Register("line", func(loc emitter.Point3D, h float64) []emitter.Point3D {
//	    return []emitter.Point3D{loc.Sub(emitter.Point3D{X: h}), loc.Add(emitter.Point3D{X: h})}
//	})
//	op, _ := levito.New(arr, levito.WithShapeRegistry(reg))
//
// Arbitrary point clouds go through CreateFromPointCloud and are translated
// rigidly on move.
//
// # Snapshots
//
// The object registry can be written to any blobstore.Store:
//
//	store := blobstore.NewLocalStore("./scenes")
//	op.Snapshot(ctx, store, "demo")
//	op.Restore(ctx, store, "demo")
//
// # Thread Safety
//
// All Operator methods are safe for concurrent use. Calls are serialized by
// one mutex; a solve holds it until completion.
package levito
