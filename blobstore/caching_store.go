package blobstore

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// CachingStore keeps a local mirror of a remote store. Writes go to both,
// reads are served from the mirror and filled from the remote on a miss.
type CachingStore struct {
	remote Store
	local  Store
}

// NewCachingStore creates a new CachingStore.
func NewCachingStore(remote, local Store) *CachingStore {
	return &CachingStore{remote: remote, local: local}
}

// Put writes the blob to the remote and the mirror in parallel.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.remote.Put(gctx, name, data) })
	g.Go(func() error { return s.local.Put(gctx, name, data) })
	if err := g.Wait(); err != nil {
		// A half-written pair must not serve stale data.
		_ = s.local.Delete(context.WithoutCancel(ctx), name)
		return err
	}
	return nil
}

// Get reads from the mirror, falling back to the remote.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.local.Get(ctx, name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data, err = s.remote.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	// Best effort; the remote copy is authoritative.
	_ = s.local.Put(ctx, name, data)
	return data, nil
}

// Delete removes the blob from both stores.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.remote.Delete(gctx, name) })
	g.Go(func() error { return s.local.Delete(gctx, name) })
	return g.Wait()
}

// List lists the remote store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}
