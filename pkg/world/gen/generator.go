// Package gen fills chunks: the generator and populator contract, the
// registry of named generators, the chunk builder and the block canvas used
// for edits that cross chunk borders.
package gen

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

var (
	// ErrUnknownGenerator is returned by Registry.Create for an unregistered name.
	ErrUnknownGenerator = errors.New("gen: unknown generator")
	// ErrOptions is returned by Initialize for an unparsable options string.
	ErrOptions = errors.New("gen: invalid generator options")
)

// ChunkSource resolves loaded chunks by position.
type ChunkSource interface {
	Chunk(pos chunk.Pos) (*chunk.Chunk, bool)
}

// Generator produces terrain deterministically from a seed.
// GenerateChunk may be called from many goroutines at once after Initialize.
type Generator interface {
	Name() string
	Version() int
	Initialize(seed int64, options string) error
	GenerateChunk(pos chunk.Pos) (*chunk.Chunk, error)
	// Populators returns the ordered passes run after generation.
	Populators() []Populator
}

// Populator edits already generated chunks. PopulateChunk is called without
// any chunk lock held; implementations lock c themselves and route edits
// into other chunks through a Canvas.
type Populator interface {
	Name() string
	PopulateChunk(src ChunkSource, c *chunk.Chunk) error
}

// Lighting is implemented by populators that only compute light.
type Lighting interface {
	Lighting() bool
}

// IsLighting reports whether p is a lighting pass.
func IsLighting(p Populator) bool {
	l, ok := p.(Lighting)
	return ok && l.Lighting()
}

// Factory returns a new, uninitialized generator.
type Factory func() Generator

// Registry maps generator names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry returns a registry holding the bundled generators.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(FlatName, func() Generator { return NewFlat() })
	_ = r.Register(DefaultName, func() Generator { return NewDefault() })
	return r
}

// Register adds a factory. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("generator %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Create returns a fresh generator registered under name.
func (r *Registry) Create(name string) (Generator, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}
	return f(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
