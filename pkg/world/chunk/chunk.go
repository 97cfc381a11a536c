package chunk

import (
	"fmt"
	"sync"
	"time"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
)

// Chunk is a 16×256×16 column of the world: sixteen stacked sections plus
// per-column biome and height tables.
type Chunk struct {
	// edit is the chunk-level lock taken by code that mutates block data
	// while other goroutines may touch the same chunk.
	edit sync.Mutex

	mu         sync.RWMutex
	pos        Pos
	sections   [SectionCount]*Section
	biomes     *BiomeData
	heights    *HeightData
	populated  bool
	lastUpdate int64
	modified   bool
}

// New returns an empty chunk at pos.
func New(pos Pos) *Chunk {
	c := &Chunk{
		pos:     pos,
		biomes:  NewBiomeData(),
		heights: NewHeightData(),
	}
	for i := range c.sections {
		s, _ := NewSection(i)
		c.adopt(s)
	}
	return c
}

// adopt installs s at its y index. Type writes made through s keep the
// chunk's height table current.
func (c *Chunk) adopt(s *Section) {
	s.mu.Lock()
	s.placed = func(x, y, z int, id block.ID) { _ = c.raise(x, y, z, id) }
	sy := s.y
	s.mu.Unlock()
	c.sections[sy] = s
}

// Lock acquires the chunk edit lock.
func (c *Chunk) Lock() { c.edit.Lock() }

// Unlock releases the chunk edit lock.
func (c *Chunk) Unlock() { c.edit.Unlock() }

// Pos returns the chunk coordinate.
func (c *Chunk) Pos() Pos { return c.pos }

// Section returns section sy. Block types written through it raise the
// chunk's height table like Chunk.SetBlockType does.
func (c *Chunk) Section(sy int) (*Section, error) {
	if sy < 0 || sy >= SectionCount {
		return nil, fmt.Errorf("section index %d: %w", sy, ErrOutOfRange)
	}
	return c.sections[sy], nil
}

// Biomes returns the biome table.
func (c *Chunk) Biomes() *BiomeData { return c.biomes }

// Heights returns the height table.
func (c *Chunk) Heights() *HeightData { return c.heights }

// TerrainPopulated reports whether every populator has run on the chunk.
func (c *Chunk) TerrainPopulated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// SetTerrainPopulated sets the populated flag.
func (c *Chunk) SetTerrainPopulated(v bool) {
	c.mu.Lock()
	if c.populated != v {
		c.populated = v
		c.modified = true
	}
	c.mu.Unlock()
}

// LastUpdate returns the last update time in unix milliseconds.
func (c *Chunk) LastUpdate() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// SetLastUpdate sets the last update time in unix milliseconds.
func (c *Chunk) SetLastUpdate(ms int64) {
	c.mu.Lock()
	c.lastUpdate = ms
	c.modified = true
	c.mu.Unlock()
}

// Touch stamps LastUpdate with the current time.
func (c *Chunk) Touch() {
	c.SetLastUpdate(time.Now().UnixMilli())
}

// Modified reports whether the chunk or any of its tables changed since the
// flag was cleared.
func (c *Chunk) Modified() bool {
	c.mu.RLock()
	own := c.modified
	c.mu.RUnlock()
	if own || c.biomes.Modified() || c.heights.Modified() {
		return true
	}
	for _, s := range c.sections {
		if s.Modified() {
			return true
		}
	}
	return false
}

// ClearModificationFlag clears the chunk flag and every table flag.
func (c *Chunk) ClearModificationFlag() {
	c.mu.Lock()
	c.modified = false
	c.mu.Unlock()
	c.biomes.ClearModificationFlag()
	c.heights.ClearModificationFlag()
	for _, s := range c.sections {
		s.ClearModificationFlag()
	}
}

// locate resolves chunk-local coordinates to a section and its local y.
func (c *Chunk) locate(x, y, z int) (*Section, int, error) {
	if err := checkLocal(x, y, z, Height); err != nil {
		return nil, 0, err
	}
	return c.sections[y>>4], y & 0xF, nil
}

// Block returns the cell at chunk-local (x,y,z).
func (c *Chunk) Block(x, y, z int) (Cell, error) {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return Cell{}, err
	}
	return s.Block(x, ly, z)
}

// SetBlock writes every channel of the cell at chunk-local (x,y,z).
func (c *Chunk) SetBlock(x, y, z int, cell Cell) error {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return err
	}
	return s.SetBlock(x, ly, z, cell)
}

// BlockTypeAt returns the block type at chunk-local (x,y,z).
func (c *Chunk) BlockTypeAt(x, y, z int) (block.ID, error) {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return 0, err
	}
	return s.BlockType(x, ly, z)
}

// SetBlockType sets the block type at chunk-local (x,y,z).
func (c *Chunk) SetBlockType(x, y, z int, id block.ID) error {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return err
	}
	return s.SetBlockType(x, ly, z, id)
}

// BlockDataAt returns the data nibble at chunk-local (x,y,z).
func (c *Chunk) BlockDataAt(x, y, z int) (byte, error) {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return 0, err
	}
	return s.BlockData(x, ly, z)
}

// SetBlockData sets the data nibble at chunk-local (x,y,z).
func (c *Chunk) SetBlockData(x, y, z int, v byte) error {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return err
	}
	return s.SetBlockData(x, ly, z, v)
}

// SkyLightAt returns the sky light at chunk-local (x,y,z).
func (c *Chunk) SkyLightAt(x, y, z int) (byte, error) {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return 0, err
	}
	return s.SkyLight(x, ly, z)
}

// SetSkyLight sets the sky light at chunk-local (x,y,z).
func (c *Chunk) SetSkyLight(x, y, z int, v byte) error {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return err
	}
	return s.SetSkyLight(x, ly, z, v)
}

// BlockLightAt returns the block light at chunk-local (x,y,z).
func (c *Chunk) BlockLightAt(x, y, z int) (byte, error) {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return 0, err
	}
	return s.BlockLight(x, ly, z)
}

// SetBlockLight sets the block light at chunk-local (x,y,z).
func (c *Chunk) SetBlockLight(x, y, z int, v byte) error {
	s, ly, err := c.locate(x, y, z)
	if err != nil {
		return err
	}
	return s.SetBlockLight(x, ly, z, v)
}

// raise keeps the height table above every non-air block so that
// serialization, which skips sections above the tallest column, never drops
// one that holds blocks.
func (c *Chunk) raise(x, y, z int, id block.ID) error {
	if id == block.Air {
		return nil
	}
	return c.heights.Raise(x, z, int32(y+1))
}

// BlockTypes returns a copy of every section's block type array.
func (c *Chunk) BlockTypes() [SectionCount][]byte {
	var out [SectionCount][]byte
	for i, s := range c.sections {
		out[i] = s.Types()
	}
	return out
}

// BlockData returns a copy of every section's packed data nibbles.
func (c *Chunk) BlockData() [SectionCount][]byte { return c.nibbles(ChannelData) }

// SkyLight returns a copy of every section's packed sky light nibbles.
func (c *Chunk) SkyLight() [SectionCount][]byte { return c.nibbles(ChannelSkyLight) }

// BlockLight returns a copy of every section's packed block light nibbles.
func (c *Chunk) BlockLight() [SectionCount][]byte { return c.nibbles(ChannelBlockLight) }

func (c *Chunk) nibbles(ch Channel) [SectionCount][]byte {
	var out [SectionCount][]byte
	for i, s := range c.sections {
		out[i] = s.Nibbles(ch)
	}
	return out
}

// raiseHeights lifts every column that is lower than its highest non-air
// block. Columns already high enough keep their value.
func (c *Chunk) raiseHeights() {
	for z := 0; z < Width; z++ {
		for x := 0; x < Width; x++ {
			if h := c.topBlock(x, z); h > 0 {
				_ = c.heights.Raise(x, z, h)
			}
		}
	}
}

// topBlock returns one above the highest non-air block of column (x,z), or 0.
func (c *Chunk) topBlock(x, z int) int32 {
	for y := Height - 1; y >= 0; y-- {
		if id, _ := c.sections[y>>4].BlockType(x, y&0xF, z); id != block.Air {
			return int32(y + 1)
		}
	}
	return 0
}

// RecalculateHeights rebuilds the height table from block data: each column
// gets one above its highest non-air block.
func (c *Chunk) RecalculateHeights() {
	for z := 0; z < Width; z++ {
		for x := 0; x < Width; x++ {
			_ = c.heights.Set(x, z, c.topBlock(x, z))
		}
	}
}
