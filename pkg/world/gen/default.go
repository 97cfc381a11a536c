package gen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/noise"
)

// DefaultName is the registry name of the noise terrain generator.
const DefaultName = "default"

const defaultSeaLevel = 62

var errNotInitialized = errors.New("gen: generator not initialized")

// Default produces terrain with biomes, caves, ores and trees. Options are
// comma separated key=value pairs: sealevel=N (1..250) and caves=bool.
type Default struct {
	seed  int64
	sea   int
	caves bool

	base    noise.Source
	ridged  noise.Source
	control noise.Source
	shape   noise.Source
	detail  noise.Source
	dunes   noise.Source
	bedrock noise.Source

	biomes *biomeSelector
	carver *caveCarver

	populators []Populator
}

// NewDefault returns an uninitialized default generator.
func NewDefault() *Default {
	return &Default{}
}

func (g *Default) Name() string { return DefaultName }
func (g *Default) Version() int { return 1 }

func (g *Default) Initialize(seed int64, options string) error {
	sea, caves, err := parseDefaultOptions(options)
	if err != nil {
		return err
	}

	perlin, err := noise.NewPerlin(seed, 8)
	if err != nil {
		return err
	}
	ridged, err := noise.NewRidgedMulti(noise.NewSimplex(seed+2), 4, 2)
	if err != nil {
		return err
	}
	carver, err := newCaveCarver(seed)
	if err != nil {
		return err
	}

	g.seed, g.sea, g.caves = seed, sea, caves
	g.base = noise.NewPipeline(perlin).Pre(noise.UniformScale(1.0 / 128))
	g.ridged = noise.NewPipeline(ridged).Pre(noise.UniformScale(1.0 / 192))
	// Mostly below zero, so ridges only blend in over a minority of the map.
	g.control = noise.NewPipeline(noise.NewSimplex(seed+3)).
		Pre(noise.UniformScale(1.0/640)).
		Post(noise.Range{FromMin: -1, FromMax: 1, ToMin: -3, ToMax: 1}, noise.Clamp{Min: -1, Max: 1})
	g.shape = noise.Selector{A: g.base, B: g.ridged, Control: g.control, Blend: true}
	g.detail = noise.NewPipeline(noise.Octaves{Source: noise.NewSimplex(seed + 1), Count: 3, Persistence: 0.5}).
		Pre(noise.NewRotate(0, 0, 30), noise.UniformScale(1.0/32))
	g.dunes = noise.NewPipeline(noise.Sine{Freq: 0.15}).Pre(noise.NewRotate(0, 0, 35))
	g.bedrock = noise.NewWhite(seed + 7)
	g.biomes = newBiomeSelector(seed, g.base, sea)
	g.carver = carver

	g.populators = []Populator{
		NewOres(seed),
		NewTrees(seed, sea),
		SkyLight{},
		BlockLight{},
	}
	return nil
}

func parseDefaultOptions(options string) (sea int, caves bool, err error) {
	sea, caves = defaultSeaLevel, true
	for _, kv := range strings.Split(options, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return 0, false, fmt.Errorf("%w: %q", ErrOptions, kv)
		}
		switch strings.ToLower(k) {
		case "sealevel":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 250 {
				return 0, false, fmt.Errorf("%w: sealevel %q", ErrOptions, v)
			}
			sea = n
		case "caves":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return 0, false, fmt.Errorf("%w: caves %q", ErrOptions, v)
			}
			caves = b
		default:
			return 0, false, fmt.Errorf("%w: unknown key %q", ErrOptions, k)
		}
	}
	return sea, caves, nil
}

// SeaLevel returns the configured sea level.
func (g *Default) SeaLevel() int { return g.sea }

func (g *Default) Populators() []Populator { return g.populators }

func (g *Default) GenerateChunk(pos chunk.Pos) (*chunk.Chunk, error) {
	if g.shape == nil {
		return nil, errNotInitialized
	}
	b := NewBuilder(pos)

	// Pass 1: heights, biomes and the filled columns.
	var heights [16][16]int
	col := make([]block.ID, chunk.Height)
	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			bx := pos.BlockX() + x
			bz := pos.BlockZ() + z

			biome := g.biomeAt(bx, bz)
			if err := b.SetBiome(x, z, biome); err != nil {
				return nil, err
			}

			height := g.terrainHeight(bx, bz, biome)
			heights[x][z] = height

			clear(col)
			top := g.fillColumn(col, bx, bz, height, biome)
			if err := b.FillColumn(x, z, col[:top]); err != nil {
				return nil, fmt.Errorf("chunk %v column (%d,%d): %w", pos, x, z, err)
			}
		}
	}

	// Pass 2: carve caves.
	if g.caves {
		if err := g.carver.carve(b, &heights); err != nil {
			return nil, fmt.Errorf("chunk %v caves: %w", pos, err)
		}
	}
	return b.Chunk(), nil
}

// HeightAt returns the top terrain block y at a world column.
func (g *Default) HeightAt(blockX, blockZ int) int {
	return g.terrainHeight(blockX, blockZ, g.biomeAt(blockX, blockZ))
}

func (g *Default) biomeAt(bx, bz int) chunk.Biome {
	biome := g.biomes.BiomeAt(bx, bz)
	if biome == chunk.BiomeOcean || biome == chunk.BiomeBeach {
		return biome
	}
	if g.control.Generate2(float64(bx), float64(bz)) > 0.2 {
		return chunk.BiomeMountains
	}
	return biome
}

// terrainHeight computes the terrain height at a world block coordinate.
// Different biomes scale noise amplitude differently.
func (g *Default) terrainHeight(bx, bz int, biome chunk.Biome) int {
	x, z := float64(bx), float64(bz)
	amplitude, baseHeight := biomeTerrainParams(biome, g.sea)

	height := baseHeight + g.shape.Generate2(x, z)*amplitude + g.detail.Generate2(x, z)*4.0
	if biome == chunk.BiomeDesert {
		height += g.dunes.Generate2(x, z) * 2
	}
	return min(max(int(height), 1), 250)
}

// fillColumn writes one terrain column into col and returns the number of
// layers used.
func (g *Default) fillColumn(col []block.ID, bx, bz, height int, biome chunk.Biome) int {
	// Bedrock layers: y=0 always, y=1..3 randomized.
	col[0] = block.Bedrock
	for y := 1; y <= 3; y++ {
		if g.bedrock.Generate3(float64(bx), float64(y), float64(bz)) > 0 {
			col[y] = block.Bedrock
		} else {
			col[y] = block.Stone
		}
	}

	stoneTop := max(height-surfaceLayerDepth(biome), 4)
	for y := 4; y <= stoneTop && y <= height; y++ {
		col[y] = block.Stone
	}

	surfaceColumn(col, height, g.sea, biome)

	// Water fill from surface+1 to sea level where terrain is below sea level.
	for y := height + 1; y <= g.sea; y++ {
		col[y] = block.Water
	}
	return min(max(height+2, g.sea+1), chunk.Height)
}
