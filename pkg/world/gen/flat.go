package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// FlatName is the registry name of the superflat generator.
const FlatName = "flat"

// DefaultFlatLayers is bedrock at y=0, stone y=1..2, dirt y=3, grass y=4.
const DefaultFlatLayers = "7,1*2,3,2"

// Flat generates a superflat world. Options are "layers[;biome]" where
// layers is a comma separated bottom-up list of "id" or "id*count".
type Flat struct {
	layers []block.ID
	biome  chunk.Biome
}

// NewFlat returns a flat generator with the default layers.
func NewFlat() *Flat {
	f := &Flat{}
	_ = f.Initialize(0, "")
	return f
}

func (f *Flat) Name() string { return FlatName }
func (f *Flat) Version() int { return 1 }

func (f *Flat) Initialize(_ int64, options string) error {
	layerSpec, biomeSpec, hasBiome := strings.Cut(options, ";")
	if strings.TrimSpace(layerSpec) == "" {
		layerSpec = DefaultFlatLayers
	}
	layers, err := parseLayers(layerSpec)
	if err != nil {
		return err
	}
	biome := chunk.BiomePlains
	if hasBiome {
		v, err := strconv.ParseUint(strings.TrimSpace(biomeSpec), 10, 8)
		if err != nil {
			return fmt.Errorf("%w: biome %q", ErrOptions, biomeSpec)
		}
		biome = chunk.Biome(v)
	}
	f.layers, f.biome = layers, biome
	return nil
}

func parseLayers(list string) ([]block.ID, error) {
	var layers []block.ID
	for _, part := range strings.Split(list, ",") {
		idStr, countStr, hasCount := strings.Cut(strings.TrimSpace(part), "*")
		id, err := strconv.ParseUint(idStr, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q", ErrOptions, part)
		}
		count := 1
		if hasCount {
			count, err = strconv.Atoi(countStr)
			if err != nil || count < 1 {
				return nil, fmt.Errorf("%w: layer %q", ErrOptions, part)
			}
		}
		if len(layers)+count > chunk.Height {
			return nil, fmt.Errorf("%w: layers exceed world height", ErrOptions)
		}
		for range count {
			layers = append(layers, block.ID(id))
		}
	}
	return layers, nil
}

// Layers returns the bottom-up layer ids.
func (f *Flat) Layers() []block.ID { return f.layers }

func (f *Flat) GenerateChunk(pos chunk.Pos) (*chunk.Chunk, error) {
	b := NewBuilder(pos)
	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			if err := b.FillColumn(x, z, f.layers); err != nil {
				return nil, err
			}
			if err := b.SetBiome(x, z, f.biome); err != nil {
				return nil, err
			}
		}
	}
	return b.Chunk(), nil
}

func (f *Flat) Populators() []Populator {
	return []Populator{SkyLight{}, BlockLight{}}
}
