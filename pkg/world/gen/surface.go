package gen

import (
	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// surfaceColumn overwrites the top of col, a stone column whose top block
// is at height, with the biome's surface blocks.
func surfaceColumn(col []block.ID, height, sea int, biome chunk.Biome) {
	set := func(y int, id block.ID) {
		if y > 3 && y < len(col) {
			col[y] = id
		}
	}

	switch biome {
	case chunk.BiomeDesert:
		// Sand on top, sandstone below.
		for y := height; y > height-4; y-- {
			set(y, block.Sand)
		}
		set(height-4, block.Sandstone)
		set(height-5, block.Sandstone)

	case chunk.BiomeOcean:
		// Gravel on the ocean floor.
		for y := height; y > height-3; y-- {
			set(y, block.Gravel)
		}
		for y := height - 3; y > height-5; y-- {
			set(y, block.Dirt)
		}

	case chunk.BiomeBeach:
		for y := height; y > height-4; y-- {
			set(y, block.Sand)
		}
		set(height-4, block.Sandstone)

	case chunk.BiomeMountains:
		// Bare stone peaks above the tree line.
		if height > 100 {
			for y := height; y > height-4; y-- {
				set(y, block.Stone)
			}
		} else {
			defaultSurface(set, height, sea)
		}

	case chunk.BiomeSnowyTaiga, chunk.BiomeTundra:
		defaultSurface(set, height, sea)
		if height >= sea {
			set(height+1, block.Snow)
		}

	default:
		defaultSurface(set, height, sea)
	}
}

// defaultSurface places grass on top with dirt below.
func defaultSurface(set func(int, block.ID), height, sea int) {
	if height > sea {
		set(height, block.Grass)
	} else {
		// Underwater: dirt instead of grass.
		set(height, block.Dirt)
	}
	for y := height - 1; y > height-4; y-- {
		set(y, block.Dirt)
	}
}

// surfaceLayerDepth returns how many blocks of surface material go below
// the top block.
func surfaceLayerDepth(biome chunk.Biome) int {
	switch biome {
	case chunk.BiomeDesert:
		return 5 // deep sand
	default:
		return 4
	}
}
