package gen

import (
	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/noise"
)

// Trees places trees and vegetation per biome. Canopies may reach into
// neighbouring chunks; those edits go through a Canvas and are dropped when
// the neighbour is not loaded.
type Trees struct {
	seed    int64
	sea     int
	density noise.Source
}

// NewTrees creates a tree populator from a seed.
func NewTrees(seed int64, sea int) *Trees {
	return &Trees{
		seed:    seed,
		sea:     sea,
		density: noise.NewPipeline(noise.NewValue(seed + 600)).Pre(noise.UniformScale(1.0 / 64)),
	}
}

func (tg *Trees) Name() string { return "trees" }

// PopulateChunk plans trees for c under its lock, then applies the canvas.
func (tg *Trees) PopulateChunk(src ChunkSource, c *chunk.Chunk) error {
	cv := NewCanvas()
	tg.plan(cv, c)
	cv.Apply(src, c.Pos(), Point{})
	return nil
}

// surface returns the y of the top block of a column, looking through snow.
func surface(c *chunk.Chunk, x, z int) (int, block.ID) {
	h, _ := c.Heights().Get(x, z)
	y := int(h) - 1
	if y < 0 {
		return -1, block.Air
	}
	id, _ := c.BlockTypeAt(x, y, z)
	if id == block.Snow && y > 0 {
		y--
		id, _ = c.BlockTypeAt(x, y, z)
	}
	return y, id
}

func (tg *Trees) plan(cv *Canvas, c *chunk.Chunk) {
	c.Lock()
	defer c.Unlock()

	pos := c.Pos()
	rng := newChunkRNG(tg.seed, pos.X, pos.Z, 600)

	// Determine biome from center of chunk for tree density.
	centerBiome, _ := c.Biomes().Get(8, 8)
	treeCount := treesForBiome(centerBiome)
	if treeCount > 0 {
		d := tg.density.Generate2(float64(pos.BlockX()+8), float64(pos.BlockZ()+8))
		treeCount = max(treeCount+int(d*2), 0)
	}

	for range treeCount {
		x := rng.nextN(16)
		z := rng.nextN(16)
		y, top := surface(c, x, z)

		if y <= tg.sea || y >= 250 {
			continue
		}
		// Check that the top block is grass.
		if top != block.Grass {
			continue
		}

		localBiome, _ := c.Biomes().Get(x, z)
		tg.placeTree(cv, x, y+1, z, localBiome, rng)
	}

	// Place vegetation (tall grass, flowers, cacti, dead bushes).
	tg.placeVegetation(cv, c, rng)
}

func treesForBiome(biome chunk.Biome) int {
	switch biome {
	case chunk.BiomeDesert:
		return 0
	case chunk.BiomeOcean, chunk.BiomeBeach:
		return 0
	case chunk.BiomePlains, chunk.BiomeSavanna:
		return 1
	case chunk.BiomeTundra, chunk.BiomeSnowyTaiga:
		return 4
	case chunk.BiomeTaiga:
		return 6
	case chunk.BiomeForest:
		return 8
	case chunk.BiomeDarkForest:
		return 10
	case chunk.BiomeJungle:
		return 12
	default:
		return 2
	}
}

func (tg *Trees) placeTree(cv *Canvas, x, baseY, z int, biome chunk.Biome, rng *chunkRNG) {
	switch biome {
	case chunk.BiomeTaiga, chunk.BiomeSnowyTaiga:
		tg.placeSpruce(cv, x, baseY, z, rng)
	case chunk.BiomeForest, chunk.BiomeDarkForest:
		if rng.nextN(3) == 0 {
			tg.placeBroadleaf(cv, x, baseY, z, block.WoodBirch, 5+rng.nextN(2), rng)
		} else {
			tg.placeBroadleaf(cv, x, baseY, z, block.WoodOak, 4+rng.nextN(3), rng)
		}
	default:
		tg.placeBroadleaf(cv, x, baseY, z, block.WoodOak, 4+rng.nextN(3), rng)
	}
}

// placeBroadleaf places an oak or birch: trunk plus a rounded canopy.
func (tg *Trees) placeBroadleaf(cv *Canvas, x, baseY, z int, wood byte, trunkHeight int, rng *chunkRNG) {
	if baseY+trunkHeight+2 > 255 {
		return
	}

	for y := baseY; y < baseY+trunkHeight; y++ {
		cv.Set(x, y, z, chunk.Cell{Type: block.Log, Data: wood})
	}

	leafBase := baseY + trunkHeight - 2
	for dy := 0; dy < 4; dy++ {
		y := leafBase + dy
		radius := 2
		if dy >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				// Don't replace trunk.
				if dx == 0 && dz == 0 && dy < 2 {
					continue
				}
				// Skip corners for round shape on wider layers.
				if radius == 2 && abs(dx) == 2 && abs(dz) == 2 && rng.nextN(2) == 0 {
					continue
				}
				cv.SetIfEmpty(x+dx, y, z+dz, chunk.Cell{Type: block.Leaves, Data: wood})
			}
		}
	}
}

// placeSpruce places a spruce/taiga tree (conical shape).
func (tg *Trees) placeSpruce(cv *Canvas, x, baseY, z int, rng *chunkRNG) {
	trunkHeight := 6 + rng.nextN(4) // 6-9

	if baseY+trunkHeight+1 > 255 {
		return
	}

	for y := baseY; y < baseY+trunkHeight; y++ {
		cv.Set(x, y, z, chunk.Cell{Type: block.Log, Data: block.WoodSpruce})
	}

	// Conical leaves: widest at bottom, narrowing to top.
	for dy := 1; dy <= trunkHeight; dy++ {
		y := baseY + dy
		radius := min((trunkHeight-dy)/2, 3)
		if radius <= 0 && dy < trunkHeight {
			continue
		}
		// Only place every other row for the wider sections.
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx == 0 && dz == 0 {
					continue
				}
				cv.SetIfEmpty(x+dx, y, z+dz, chunk.Cell{Type: block.Leaves, Data: block.WoodSpruce})
			}
		}
	}
	cv.Set(x, baseY+trunkHeight, z, chunk.Cell{Type: block.Leaves, Data: block.WoodSpruce})
}

// placeVegetation scatters grass, flowers, cacti, and dead bushes.
func (tg *Trees) placeVegetation(cv *Canvas, c *chunk.Chunk, rng *chunkRNG) {
	for range 20 {
		x := rng.nextN(16)
		z := rng.nextN(16)
		y, top := surface(c, x, z)
		if y <= tg.sea || y >= 255 {
			continue
		}
		biome, _ := c.Biomes().Get(x, z)

		switch biome {
		case chunk.BiomeDesert:
			if top != block.Sand {
				continue
			}
			if rng.nextN(8) == 0 {
				// Cactus (1-3 blocks tall).
				h := 1 + rng.nextN(3)
				for dy := 1; dy <= h && y+dy < chunk.Height; dy++ {
					cv.SetIfEmpty(x, y+dy, z, chunk.Cell{Type: block.Cactus})
				}
			} else if rng.nextN(4) == 0 {
				cv.SetIfEmpty(x, y+1, z, chunk.Cell{Type: block.DeadBush})
			}

		case chunk.BiomePlains, chunk.BiomeForest, chunk.BiomeDarkForest, chunk.BiomeSavanna, chunk.BiomeJungle:
			if top != block.Grass {
				continue
			}
			if rng.nextN(3) == 0 {
				// Data 1 is tall grass rather than a dead shrub.
				cv.SetIfEmpty(x, y+1, z, chunk.Cell{Type: block.TallGrass, Data: 1})
			} else if rng.nextN(8) == 0 {
				cv.SetIfEmpty(x, y+1, z, chunk.Cell{Type: block.Flower})
			}

		case chunk.BiomeTaiga, chunk.BiomeSnowyTaiga, chunk.BiomeTundra:
			if top != block.Grass {
				continue
			}
			if rng.nextN(6) == 0 {
				cv.SetIfEmpty(x, y+1, z, chunk.Cell{Type: block.TallGrass, Data: 1})
			}
		}
	}
}
