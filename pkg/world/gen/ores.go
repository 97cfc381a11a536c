package gen

import (
	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// Ores places ore veins in stone using a seeded per-chunk RNG. Veins stay
// inside the chunk.
type Ores struct {
	seed int64
}

// NewOres creates an ore populator from a seed.
func NewOres(seed int64) *Ores {
	return &Ores{seed: seed}
}

type oreConfig struct {
	block    block.ID
	minY     int
	maxY     int
	veinSize int // max blocks per vein
	attempts int // veins per chunk
}

var ores = []oreConfig{
	{block.CoalOre, 0, 128, 12, 20},
	{block.IronOre, 0, 64, 8, 20},
	{block.GoldOre, 0, 32, 8, 2},
	{block.DiamondOre, 0, 16, 6, 1},
	{block.RedstoneOre, 0, 16, 6, 8},
	{block.LapisOre, 0, 32, 6, 1},
}

func (o *Ores) Name() string { return "ores" }

// PopulateChunk scatters ore veins within c.
func (o *Ores) PopulateChunk(_ ChunkSource, c *chunk.Chunk) error {
	c.Lock()
	defer c.Unlock()

	pos := c.Pos()
	rng := newChunkRNG(o.seed, pos.X, pos.Z, 500)
	heights := c.Heights()

	for _, ore := range ores {
		for range ore.attempts {
			x := rng.nextN(16)
			y := ore.minY + rng.nextN(ore.maxY-ore.minY)
			z := rng.nextN(16)

			if h, _ := heights.Get(x, z); int32(y) >= h {
				continue
			}
			if err := o.placeVein(c, x, y, z, ore.block, ore.veinSize, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Ores) placeVein(c *chunk.Chunk, cx, cy, cz int, id block.ID, size int, rng *chunkRNG) error {
	for range size {
		if cx >= 0 && cx < 16 && cz >= 0 && cz < 16 && cy >= 1 && cy < chunk.Height {
			// Only replace stone.
			if cur, _ := c.BlockTypeAt(cx, cy, cz); cur == block.Stone {
				if err := c.SetBlockType(cx, cy, cz, id); err != nil {
					return err
				}
			}
		}

		// Random walk.
		switch rng.nextN(6) {
		case 0:
			cx++
		case 1:
			cx--
		case 2:
			cy++
		case 3:
			cy--
		case 4:
			cz++
		case 5:
			cz--
		}
	}
	return nil
}
