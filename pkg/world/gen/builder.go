package gen

import (
	"fmt"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// Box is a half-open chunk-local volume [Min, Max).
type Box struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

func (b Box) valid() bool {
	return b.MinX >= 0 && b.MinY >= 0 && b.MinZ >= 0 &&
		b.MaxX <= chunk.Width && b.MaxY <= chunk.Height && b.MaxZ <= chunk.Width &&
		b.MinX <= b.MaxX && b.MinY <= b.MaxY && b.MinZ <= b.MaxZ
}

// Builder paints a fresh chunk. It is owned by a single generation call.
type Builder struct {
	c *chunk.Chunk
}

// NewBuilder returns a builder over an empty chunk at pos.
func NewBuilder(pos chunk.Pos) *Builder {
	return &Builder{c: chunk.New(pos)}
}

// Chunk returns the chunk being built.
func (b *Builder) Chunk() *chunk.Chunk { return b.c }

// SetBlock sets the block type and data at (x,y,z).
func (b *Builder) SetBlock(x, y, z int, id block.ID, data byte) error {
	return b.c.SetBlock(x, y, z, chunk.Cell{Type: id, Data: data})
}

// Block returns the block type at (x,y,z), or air outside the chunk.
func (b *Builder) Block(x, y, z int) block.ID {
	id, err := b.c.BlockTypeAt(x, y, z)
	if err != nil {
		return block.Air
	}
	return id
}

// Fill sets every block in box.
func (b *Builder) Fill(box Box, id block.ID, data byte) error {
	if !box.valid() {
		return fmt.Errorf("fill %+v: %w", box, chunk.ErrOutOfRange)
	}
	cell := chunk.Cell{Type: id, Data: data}
	for y := box.MinY; y < box.MaxY; y++ {
		for z := box.MinZ; z < box.MaxZ; z++ {
			for x := box.MinX; x < box.MaxX; x++ {
				if err := b.c.SetBlock(x, y, z, cell); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// FillColumn writes layers[i] at y = i for column (x,z). Air entries are
// skipped.
func (b *Builder) FillColumn(x, z int, layers []block.ID) error {
	if len(layers) > chunk.Height {
		return fmt.Errorf("column of %d layers: %w", len(layers), chunk.ErrOutOfRange)
	}
	for y, id := range layers {
		if id == block.Air {
			continue
		}
		if err := b.c.SetBlockType(x, y, z, id); err != nil {
			return err
		}
	}
	return nil
}

// SetBiome sets the biome of column (x,z).
func (b *Builder) SetBiome(x, z int, biome chunk.Biome) error {
	return b.c.Biomes().Set(x, z, biome)
}

// Biome returns the biome of column (x,z).
func (b *Builder) Biome(x, z int) chunk.Biome {
	v, _ := b.c.Biomes().Get(x, z)
	return v
}
