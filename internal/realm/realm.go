// Package realm holds a loaded world: its chunk cache, its generator, and
// the bulk generator that fills rectangular regions of it.
package realm

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/gen"
)

// Realm tracks generated chunks. Chunk lookups are safe from any goroutine;
// block edits lock the chunk they touch.
type Realm struct {
	log       *slog.Logger
	generator gen.Generator

	mu     sync.RWMutex
	chunks map[chunk.Pos]*chunk.Chunk

	// batch serializes bulk operations against this realm.
	batch       sync.Mutex
	initialized atomic.Bool
}

// New creates an empty realm around an initialized generator.
func New(generator gen.Generator, log *slog.Logger) *Realm {
	return &Realm{
		log:       log,
		generator: generator,
		chunks:    make(map[chunk.Pos]*chunk.Chunk),
	}
}

// Generator returns the realm's terrain generator.
func (r *Realm) Generator() gen.Generator { return r.generator }

// Initialized reports whether a generation batch has completed.
func (r *Realm) Initialized() bool { return r.initialized.Load() }

// SetInitialized records the initialized state, e.g. when loading a saved realm.
func (r *Realm) SetInitialized(v bool) { r.initialized.Store(v) }

// Chunk returns a loaded chunk.
func (r *Realm) Chunk(pos chunk.Pos) (*chunk.Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chunks[pos]
	return c, ok
}

// Store adds c to the realm, replacing any chunk at the same position.
func (r *Realm) Store(c *chunk.Chunk) {
	r.mu.Lock()
	r.chunks[c.Pos()] = c
	r.mu.Unlock()
}

// Len returns the number of loaded chunks.
func (r *Realm) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks)
}

// Chunks returns every loaded chunk ordered by position.
func (r *Realm) Chunks() []*chunk.Chunk {
	r.mu.RLock()
	out := make([]*chunk.Chunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		out = append(out, c)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *chunk.Chunk) int {
		switch {
		case a.Pos().Less(b.Pos()):
			return -1
		case b.Pos().Less(a.Pos()):
			return 1
		}
		return 0
	})
	return out
}

// GetOrGenerateChunk returns the chunk at pos, generating and caching it if
// needed.
func (r *Realm) GetOrGenerateChunk(pos chunk.Pos) (*chunk.Chunk, error) {
	if c, ok := r.Chunk(pos); ok {
		return c, nil
	}

	c, err := r.generator.GenerateChunk(pos)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", pos, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Double-check after acquiring write lock.
	if existing, ok := r.chunks[pos]; ok {
		return existing, nil
	}
	r.chunks[pos] = c
	r.log.Debug("chunk generated", "pos", pos)
	return c, nil
}

// Block returns the cell at world block (x,y,z), generating its chunk if
// needed.
func (r *Realm) Block(x, y, z int) (chunk.Cell, error) {
	c, err := r.GetOrGenerateChunk(chunk.PosOf(x, z))
	if err != nil {
		return chunk.Cell{}, err
	}
	return c.Block(x&0xF, y, z&0xF)
}

// SetBlock writes the cell at world block (x,y,z) under the chunk's lock.
func (r *Realm) SetBlock(x, y, z int, cell chunk.Cell) error {
	c, err := r.GetOrGenerateChunk(chunk.PosOf(x, z))
	if err != nil {
		return err
	}
	c.Lock()
	defer c.Unlock()
	return c.SetBlock(x&0xF, y, z&0xF, cell)
}

// Modified returns the loaded chunks with unsaved changes, ordered by
// position.
func (r *Realm) Modified() []*chunk.Chunk {
	var out []*chunk.Chunk
	for _, c := range r.Chunks() {
		if c.Modified() {
			out = append(out, c)
		}
	}
	return out
}
