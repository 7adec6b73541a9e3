package levito

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/levito/blobstore"
	"github.com/hupe1980/levito/codec"
	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/field"
	"github.com/hupe1980/levito/internal/cache"
	"github.com/hupe1980/levito/internal/compress"
)

const snapshotVersion uint16 = 1

var snapshotMagic = [4]byte{'L', 'V', 'T', 'O'}

// snapshotState is the encoded registry.
type snapshotState struct {
	Emitters int          `json:"emitters"`
	Volume   field.Volume `json:"volume"`
	NextID   ObjectID     `json:"next_id"`
	Objects  []Object     `json:"objects"`
}

// Snapshot writes the object registry to store under name.
//
// Layout: magic(4) | version(u16) | codec name length(u8) | codec name |
// compressed block.
func (o *Operator) Snapshot(ctx context.Context, store blobstore.Store, name string) error {
	o.mu.Lock()
	state := snapshotState{
		Emitters: o.array.Len(),
		Volume:   o.engine.Volume(),
		NextID:   o.nextID,
		Objects:  make([]Object, 0, len(o.objects)),
	}
	it := o.live.Iterator()
	for it.HasNext() {
		state.Objects = append(state.Objects, o.objects[ObjectID(it.Next())].clone())
	}
	o.mu.Unlock()

	data, err := encodeSnapshot(state, o.opts.codec, o.opts.compression)
	if err == nil {
		err = store.Put(ctx, name, data)
	}
	o.logger.LogSnapshot(ctx, name, len(state.Objects), err)
	return err
}

// Restore replaces the object registry with a snapshot read from store.
// IDs issued after a restore stay above every id seen before it.
func (o *Operator) Restore(ctx context.Context, store blobstore.Store, name string) error {
	data, err := store.Get(ctx, name)
	if err != nil {
		o.logger.LogRestore(ctx, name, 0, err)
		return err
	}

	state, err := decodeSnapshot(data)
	if err == nil {
		err = o.restore(state)
	}
	o.logger.LogRestore(ctx, name, len(state.Objects), err)
	return err
}

func (o *Operator) restore(state snapshotState) error {
	n := o.array.Len()
	if state.Emitters != n {
		return &ErrPhaseLength{Expected: n, Actual: state.Emitters}
	}

	objects := make(map[ObjectID]*Object, len(state.Objects))
	maxID := ObjectID(0)
	for i := range state.Objects {
		obj := state.Objects[i]
		if len(obj.Phases) != n {
			return &ErrPhaseLength{Expected: n, Actual: len(obj.Phases)}
		}
		if len(obj.Targets) == 0 {
			return fmt.Errorf("%w: object %d: %w", ErrInvalidSnapshot, obj.ID, ErrEmptyTargets)
		}
		if !finite(obj.Phases...) {
			return fmt.Errorf("%w: object %d: non-finite phase", ErrInvalidSnapshot, obj.ID)
		}
		for _, p := range append([]emitter.Point3D{obj.Location}, obj.Targets...) {
			if !finite(p.X, p.Y, p.Z) {
				return fmt.Errorf("%w: object %d: non-finite coordinate", ErrInvalidSnapshot, obj.ID)
			}
		}
		emitter.WrapPhases(obj.Phases)
		if _, dup := objects[obj.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidSnapshot, obj.ID)
		}
		objects[obj.ID] = &obj
		maxID = max(maxID, obj.ID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}

	o.objects = objects
	o.live = roaring64.New()
	for id := range objects {
		o.live.Add(uint64(id))
	}
	o.nextID = max(o.nextID, state.NextID, maxID+1)
	o.potentials.Invalidate(func(cache.PotentialKey) bool { return true })
	return nil
}

func encodeSnapshot(state snapshotState, c codec.Codec, t compress.Type) ([]byte, error) {
	payload, err := c.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("snapshot encode: %w", err)
	}
	block, err := compress.Encode(payload, t)
	if err != nil {
		return nil, err
	}

	codecName := c.Name()
	if len(codecName) > 255 {
		return nil, fmt.Errorf("snapshot encode: codec name %q too long", codecName)
	}

	var buf bytes.Buffer
	buf.Grow(len(snapshotMagic) + 3 + len(codecName) + len(block))
	buf.Write(snapshotMagic[:])
	_ = binary.Write(&buf, binary.LittleEndian, snapshotVersion)
	buf.WriteByte(byte(len(codecName)))
	buf.WriteString(codecName)
	buf.Write(block)
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (snapshotState, error) {
	var state snapshotState

	const fixed = len(snapshotMagic) + 3
	if len(data) < fixed || !bytes.Equal(data[:4], snapshotMagic[:]) {
		return state, fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != snapshotVersion {
		return state, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, v)
	}
	nameLen := int(data[6])
	if len(data) < fixed+nameLen {
		return state, fmt.Errorf("%w: truncated header", ErrInvalidSnapshot)
	}
	codecName := string(data[fixed : fixed+nameLen])
	c, ok := codec.ByName(codecName)
	if !ok {
		return state, fmt.Errorf("%w: unknown codec %q", ErrInvalidSnapshot, codecName)
	}

	payload, err := compress.Decode(data[fixed+nameLen:])
	if err != nil {
		return state, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := c.Unmarshal(payload, &state); err != nil {
		return state, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return state, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
