package gen

import (
	"errors"
	"testing"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	names := r.Names()
	if len(names) != 2 || names[0] != DefaultName || names[1] != FlatName {
		t.Fatalf("Names = %v, want [default flat]", names)
	}

	g, err := r.Create(FlatName)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != FlatName {
		t.Fatalf("Create(flat).Name() = %q", g.Name())
	}
	g2, _ := r.Create(FlatName)
	if g == g2 {
		t.Fatal("Create should return a fresh generator each time")
	}

	if _, err := r.Create("nether"); !errors.Is(err, ErrUnknownGenerator) {
		t.Fatalf("Create(nether) err = %v, want ErrUnknownGenerator", err)
	}
	if err := r.Register(FlatName, func() Generator { return NewFlat() }); err == nil {
		t.Fatal("duplicate Register should fail")
	}

	// Registries are independent values.
	if len(NewRegistry().Names()) != 0 {
		t.Fatal("new registry should be empty")
	}
}

func TestBuilderFill(t *testing.T) {
	b := NewBuilder(chunk.Pos{X: 1, Z: 1})
	if err := b.Fill(Box{MinX: 2, MinY: 10, MinZ: 3, MaxX: 4, MaxY: 12, MaxZ: 5}, block.Cobblestone, 0); err != nil {
		t.Fatal(err)
	}
	count := 0
	for y := 0; y < 20; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				if b.Block(x, y, z) == block.Cobblestone {
					count++
				}
			}
		}
	}
	if count != 8 {
		t.Fatalf("filled %d blocks, want 8", count)
	}
	if h, _ := b.Chunk().Heights().Get(2, 3); h != 12 {
		t.Fatalf("height = %d, want 12", h)
	}

	for _, box := range []Box{
		{MaxX: 17, MaxY: 1, MaxZ: 1},
		{MinX: -1, MaxX: 1, MaxY: 1, MaxZ: 1},
		{MaxX: 1, MaxY: 257, MaxZ: 1},
		{MinX: 5, MaxX: 4, MaxY: 1, MaxZ: 1},
	} {
		if err := b.Fill(box, block.Stone, 0); !errors.Is(err, chunk.ErrOutOfRange) {
			t.Errorf("Fill(%+v) err = %v, want ErrOutOfRange", box, err)
		}
	}
	if b.Block(0, 300, 0) != block.Air {
		t.Error("Block outside the chunk should read as air")
	}
}

func TestSkyLightFlat(t *testing.T) {
	c := generate(t, NewFlat(), 0, 0)
	if err := (SkyLight{}).PopulateChunk(nil, c); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.SkyLightAt(3, 5, 3); v != 15 {
		t.Errorf("sky light above grass = %d, want 15", v)
	}
	if v, _ := c.SkyLightAt(3, 200, 3); v != 15 {
		t.Errorf("sky light in open air = %d, want 15", v)
	}
	if v, _ := c.SkyLightAt(3, 4, 3); v != 0 {
		t.Errorf("sky light inside grass = %d, want 0", v)
	}
}

func TestSkyLightSpreadsUnderOverhang(t *testing.T) {
	b := NewBuilder(chunk.Pos{})
	_ = b.Fill(Box{MaxX: 16, MaxY: 1, MaxZ: 16}, block.Stone, 0)
	// Roof over x<8 at y=5 leaves an open gap at x>=8.
	_ = b.Fill(Box{MaxX: 8, MinY: 5, MaxY: 6, MaxZ: 16}, block.Stone, 0)
	c := b.Chunk()
	if err := (SkyLight{}).PopulateChunk(nil, c); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.SkyLightAt(8, 2, 8); v != 15 {
		t.Errorf("open column = %d, want 15", v)
	}
	if v, _ := c.SkyLightAt(7, 2, 8); v != 14 {
		t.Errorf("one under the roof = %d, want 14", v)
	}
	if v, _ := c.SkyLightAt(5, 2, 8); v != 12 {
		t.Errorf("three under the roof = %d, want 12", v)
	}
}

func TestBlockLight(t *testing.T) {
	b := NewBuilder(chunk.Pos{})
	_ = b.SetBlock(8, 100, 8, block.Glowstone, 0)
	_ = b.SetBlock(8, 100, 10, block.Stone, 0)
	c := b.Chunk()
	if err := (BlockLight{}).PopulateChunk(nil, c); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x, y, z int
		want    byte
	}{
		{8, 100, 8, 15},
		{8, 101, 8, 14},
		{9, 101, 8, 13},
		{8, 100, 10, 0},  // opaque
		{8, 100, 11, 10}, // around the stone
		{8, 80, 8, 0},
	}
	for _, tt := range tests {
		if v, _ := c.BlockLightAt(tt.x, tt.y, tt.z); v != tt.want {
			t.Errorf("block light (%d,%d,%d) = %d, want %d", tt.x, tt.y, tt.z, v, tt.want)
		}
	}
	if !IsLighting(BlockLight{}) || !IsLighting(SkyLight{}) || IsLighting(NewOres(1)) {
		t.Error("IsLighting misclassifies populators")
	}
}

func TestOresReplaceOnlyStone(t *testing.T) {
	b := NewBuilder(chunk.Pos{X: 3, Z: 9})
	_ = b.Fill(Box{MaxX: 16, MaxY: 64, MaxZ: 16}, block.Stone, 0)
	c := b.Chunk()
	if err := NewOres(77).PopulateChunk(nil, c); err != nil {
		t.Fatal(err)
	}

	ores := 0
	for y := 0; y < chunk.Height; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				id, _ := c.BlockTypeAt(x, y, z)
				switch id {
				case block.Stone:
				case block.CoalOre, block.IronOre, block.GoldOre, block.DiamondOre, block.RedstoneOre, block.LapisOre:
					ores++
					if y >= 64 {
						t.Fatalf("ore above terrain at y=%d", y)
					}
				case block.Air:
					if y < 64 {
						t.Fatalf("stone removed at (%d,%d,%d)", x, y, z)
					}
				default:
					t.Fatalf("unexpected block %d", id)
				}
			}
		}
	}
	if ores == 0 {
		t.Fatal("no ore placed")
	}
}

func TestTreesInForest(t *testing.T) {
	world := make(chunkMap)
	for x := -1; x <= 1; x++ {
		for z := -1; z <= 1; z++ {
			b := NewBuilder(chunk.Pos{X: x, Z: z})
			_ = b.Fill(Box{MaxX: 16, MaxY: 70, MaxZ: 16}, block.Dirt, 0)
			_ = b.Fill(Box{MinY: 70, MaxX: 16, MaxY: 71, MaxZ: 16}, block.Grass, 0)
			for bx := 0; bx < 16; bx++ {
				for bz := 0; bz < 16; bz++ {
					_ = b.SetBiome(bx, bz, chunk.BiomeForest)
				}
			}
			world[b.Chunk().Pos()] = b.Chunk()
		}
	}

	center := world[chunk.Pos{}]
	if err := NewTrees(5, 62).PopulateChunk(world, center); err != nil {
		t.Fatal(err)
	}

	logs := 0
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			if id, _ := center.BlockTypeAt(x, 71, z); id == block.Log {
				logs++
			}
		}
	}
	if logs == 0 {
		t.Fatal("no tree trunk placed in a forest")
	}
}
