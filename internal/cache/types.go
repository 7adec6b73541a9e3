package cache

// PotentialKey identifies a derived potential. Bumping the revision on every
// re-solve makes stale entries unreachable.
type PotentialKey struct {
	Object   uint64
	Revision uint64
}

// Sizer reports the memory held by a cached value in bytes.
type Sizer interface {
	SizeBytes() int64
}
