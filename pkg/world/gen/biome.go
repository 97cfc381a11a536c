package gen

import (
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/noise"
)

// biomeSelector picks biomes from temperature and rainfall fields.
type biomeSelector struct {
	temp    noise.Source
	rain    noise.Source
	terrain noise.Source
	sea     int
}

func newBiomeSelector(seed int64, terrain noise.Source, sea int) *biomeSelector {
	return &biomeSelector{
		temp: noise.NewPipeline(noise.Octaves{Source: noise.NewSimplex(seed + 100), Count: 4, Persistence: 0.5}).
			Pre(noise.UniformScale(1.0/512)).
			Post(noise.Range{FromMin: -1, FromMax: 1, ToMin: -0.05, ToMax: 1.55}),
		rain: noise.NewPipeline(noise.Octaves{Source: noise.NewSimplex(seed + 200), Count: 4, Persistence: 0.5}).
			Pre(noise.UniformScale(1.0/512), noise.Translate{X: 100, Y: 100, Z: 100}).
			Post(noise.Range{FromMin: -1, FromMax: 1, ToMin: 0, ToMax: 1}),
		terrain: terrain,
		sea:     sea,
	}
}

// BiomeAt returns the biome at world block (bx, bz).
func (bs *biomeSelector) BiomeAt(bx, bz int) chunk.Biome {
	x, z := float64(bx), float64(bz)
	terrainHeight := float64(bs.sea) + bs.terrain.Generate2(x, z)*8.0
	if terrainHeight < float64(bs.sea)-8 {
		return chunk.BiomeOcean
	}
	if terrainHeight < float64(bs.sea)-2 {
		return chunk.BiomeBeach
	}
	return selectBiome(bs.temp.Generate2(x, z), bs.rain.Generate2(x, z))
}

// selectBiome maps temperature and rainfall to a biome.
//
//	Temp\Rain     | Dry (<0.3)    | Medium (0.3-0.6) | Wet (>0.6)
//	Cold <0.3     | Tundra        | Snowy Taiga      | Taiga
//	Mild 0.3-0.7  | Plains        | Forest           | Dark Forest
//	Warm 0.7-1.2  | Savanna       | Plains           | Jungle
//	Hot >1.2      | Desert        | Desert           | Jungle
func selectBiome(temp, rain float64) chunk.Biome {
	switch {
	case temp < 0.3:
		switch {
		case rain < 0.3:
			return chunk.BiomeTundra
		case rain < 0.6:
			return chunk.BiomeSnowyTaiga
		default:
			return chunk.BiomeTaiga
		}
	case temp < 0.7:
		switch {
		case rain < 0.3:
			return chunk.BiomePlains
		case rain < 0.6:
			return chunk.BiomeForest
		default:
			return chunk.BiomeDarkForest
		}
	case temp < 1.2:
		switch {
		case rain < 0.3:
			return chunk.BiomeSavanna
		case rain < 0.6:
			return chunk.BiomePlains
		default:
			return chunk.BiomeJungle
		}
	default:
		if rain > 0.6 {
			return chunk.BiomeJungle
		}
		return chunk.BiomeDesert
	}
}

// biomeTerrainParams returns (amplitude, baseHeight) for terrain noise scaling.
func biomeTerrainParams(biome chunk.Biome, sea int) (amplitude, baseHeight float64) {
	s := float64(sea)
	switch biome {
	case chunk.BiomeOcean:
		return 8.0, s - 22
	case chunk.BiomePlains, chunk.BiomeSavanna:
		return 12.0, s
	case chunk.BiomeForest, chunk.BiomeDarkForest:
		return 16.0, s + 2
	case chunk.BiomeTaiga, chunk.BiomeSnowyTaiga:
		return 18.0, s + 4
	case chunk.BiomeDesert:
		return 10.0, s + 2
	case chunk.BiomeJungle:
		return 18.0, s + 4
	case chunk.BiomeMountains:
		return 40.0, s + 10
	case chunk.BiomeBeach:
		return 3.0, s
	case chunk.BiomeTundra:
		return 10.0, s
	default:
		return 14.0, s
	}
}
