package chunk

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/Tnze/go-mc/nbt"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
)

func TestChunkAddressing(t *testing.T) {
	c := New(Pos{X: 2, Z: -3})

	if err := c.SetBlockType(1, 37, 2, block.Stone); err != nil {
		t.Fatal(err)
	}
	s, _ := c.Section(2)
	if id, _ := s.BlockType(1, 5, 2); id != block.Stone {
		t.Fatalf("section 2 local y 5 = %d, want stone", id)
	}
	if id, _ := c.BlockTypeAt(1, 37, 2); id != block.Stone {
		t.Fatalf("BlockTypeAt = %d, want stone", id)
	}

	if err := c.SetSkyLight(1, 255, 2, 15); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.SkyLightAt(1, 255, 2); v != 15 {
		t.Fatalf("SkyLightAt = %d, want 15", v)
	}

	for _, y := range []int{-1, 256} {
		if err := c.SetBlockType(0, y, 0, block.Dirt); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetBlockType(y=%d) err = %v, want ErrOutOfRange", y, err)
		}
	}
	if _, err := c.Block(16, 0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Block(x=16) err = %v, want ErrOutOfRange", err)
	}
}

func TestHeightMaximumInvariant(t *testing.T) {
	h := NewHeightData()
	r := rand.New(rand.NewSource(1))
	var want int32
	for i := 0; i < 2000; i++ {
		v := int32(r.Intn(400) - 50)
		_ = h.Set(r.Intn(16), r.Intn(16), v)
		want = max(want, min(max(v, 0), Height))
		if got := h.Maximum(); got != want {
			t.Fatalf("after write %d of %d: Maximum = %d, want %d", i, v, got, want)
		}
	}
}

func TestHeightClamped(t *testing.T) {
	h := NewHeightData()
	_ = h.Set(0, 0, 500)
	_ = h.Set(1, 0, -4)
	if v, _ := h.Get(0, 0); v != Height {
		t.Errorf("Get(0,0) = %d, want %d", v, Height)
	}
	if v, _ := h.Get(1, 0); v != 0 {
		t.Errorf("Get(1,0) = %d, want 0", v)
	}
	if err := h.Set(16, 0, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Set(16,0) err = %v, want ErrOutOfRange", err)
	}
}

func TestChunkModifiedIsOrOfTables(t *testing.T) {
	c := New(Pos{})
	if c.Modified() {
		t.Fatal("fresh chunk should not be modified")
	}

	_ = c.Biomes().Set(3, 3, BiomeDesert)
	if !c.Modified() {
		t.Fatal("biome write should mark the chunk modified")
	}
	c.ClearModificationFlag()
	if c.Modified() || c.Biomes().Modified() {
		t.Fatal("ClearModificationFlag should clear tables")
	}

	_ = c.SetBlockLight(0, 100, 0, 4)
	if !c.Modified() {
		t.Fatal("section write should mark the chunk modified")
	}
	c.ClearModificationFlag()

	c.SetTerrainPopulated(true)
	if !c.Modified() {
		t.Fatal("scalar write should mark the chunk modified")
	}
}

func TestSetBlockRaisesHeight(t *testing.T) {
	c := New(Pos{})
	_ = c.SetBlockType(4, 70, 9, block.Dirt)
	if v, _ := c.Heights().Get(4, 9); v != 71 {
		t.Fatalf("height = %d, want 71", v)
	}
	_ = c.SetBlockType(4, 10, 9, block.Dirt)
	_ = c.SetBlockType(4, 80, 9, block.Air)
	if v, _ := c.Heights().Get(4, 9); v != 71 {
		t.Fatalf("height = %d, want 71 after lower and air writes", v)
	}
}

func TestChunkRoundTrip(t *testing.T) {
	c := New(Pos{X: -7, Z: 12})
	_ = c.SetBlock(0, 0, 0, Cell{Type: block.Bedrock})
	_ = c.SetBlock(5, 64, 5, Cell{Type: block.Log, Data: block.WoodSpruce, SkyLight: 9, BlockLight: 3})
	_ = c.Biomes().Set(5, 5, BiomeTaiga)
	c.SetTerrainPopulated(true)
	c.SetLastUpdate(1234567)

	data, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, rep, err := DecodeWithRepairs(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rep) != 0 {
		t.Errorf("unexpected repairs: %v", rep)
	}

	if got.Pos() != c.Pos() {
		t.Errorf("Pos = %v, want %v", got.Pos(), c.Pos())
	}
	if !got.TerrainPopulated() || got.LastUpdate() != 1234567 {
		t.Errorf("scalars = %v,%d", got.TerrainPopulated(), got.LastUpdate())
	}
	if b, _ := got.Biomes().Get(5, 5); b != BiomeTaiga {
		t.Errorf("biome = %d, want taiga", b)
	}
	cell, _ := got.Block(5, 64, 5)
	if cell != (Cell{Type: block.Log, Data: block.WoodSpruce, SkyLight: 9, BlockLight: 3}) {
		t.Errorf("cell = %+v", cell)
	}
	if got.Heights().Maximum() != 65 {
		t.Errorf("Maximum = %d, want 65", got.Heights().Maximum())
	}
	if got.Modified() {
		t.Error("decoded chunk should not be modified")
	}

	want := c.BlockTypes()
	have := got.BlockTypes()
	for sy := range want {
		if !bytes.Equal(want[sy], have[sy]) {
			t.Errorf("section %d block types differ", sy)
		}
	}
}

func TestEncodeSkipsSectionsAboveMaximum(t *testing.T) {
	c := New(Pos{})
	_ = c.SetBlockType(0, 40, 0, block.Stone) // height 41 -> ceil(41/16) = 3

	data, err := Encode(c)
	if err != nil {
		t.Fatal(err)
	}
	var root struct {
		Level struct {
			Sections []struct {
				Y byte `nbt:"Y"`
			} `nbt:"Sections"`
		} `nbt:"Level"`
	}
	if err := nbt.Unmarshal(data, &root); err != nil {
		t.Fatal(err)
	}
	if n := len(root.Level.Sections); n != 4 {
		t.Fatalf("wrote %d sections, want 4", n)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	for sy := 0; sy < SectionCount; sy++ {
		s, _ := got.Section(sy)
		if y, ok := s.Y(); !ok || y != sy {
			t.Fatalf("section %d has y %d,%v", sy, y, ok)
		}
	}
}

func TestDecodePlacesSectionsByY(t *testing.T) {
	blocks := make([]byte, SectionVolume)
	blocks[0] = byte(block.Sand)
	data, err := nbt.Marshal(map[string]any{
		"Level": map[string]any{
			"xPos": int32(1),
			"zPos": int32(2),
			"Sections": []map[string]any{
				{"Y": int8(5), "Blocks": blocks},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c, rep, err := DecodeWithRepairs(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if id, _ := c.BlockTypeAt(0, 80, 0); id != block.Sand {
		t.Fatalf("block at y=80 = %d, want sand", id)
	}
	if len(rep) == 0 {
		t.Fatal("expected repairs for missing fields")
	}
}

func TestDecodeMissingBiomesDefaults(t *testing.T) {
	data, err := nbt.Marshal(map[string]any{
		"Level": map[string]any{
			"xPos":      int32(0),
			"zPos":      int32(0),
			"HeightMap": make([]int32, ColumnCount),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for z := 0; z < Width; z++ {
		for x := 0; x < Width; x++ {
			if b, _ := c.Biomes().Get(x, z); b != DefaultBiome {
				t.Fatalf("biome (%d,%d) = %d, want %d", x, z, b, DefaultBiome)
			}
		}
	}
}

func TestDecodeStructuralErrors(t *testing.T) {
	notCompound, _ := nbt.Marshal(int32(1))
	badLevel, _ := nbt.Marshal(map[string]any{"Level": int32(3)})
	noLevel, _ := nbt.Marshal(map[string]any{"Other": int32(3)})

	for name, data := range map[string][]byte{
		"root":    notCompound,
		"level":   badLevel,
		"missing": noLevel,
		"garbage": {0xFF, 0x00},
	} {
		if _, err := Decode(data); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: err = %v, want ErrFormat", name, err)
		}
	}
}

func TestRecalculateHeights(t *testing.T) {
	c := New(Pos{})
	_ = c.SetBlockType(2, 30, 2, block.Stone)
	_ = c.SetBlockType(2, 30, 2, block.Air)
	_ = c.SetBlockType(2, 12, 2, block.Stone)
	c.RecalculateHeights()
	if v, _ := c.Heights().Get(2, 2); v != 13 {
		t.Fatalf("height = %d, want 13", v)
	}
}

func TestDecodeKeepsBlocksAboveStaleHeights(t *testing.T) {
	blocks := make([]byte, SectionVolume)
	blocks[4<<8] = byte(block.Stone) // y=100 is local y 4 of section 6

	tests := []struct {
		name    string
		heights any
	}{
		{"missing", nil},
		{"malformed", []int32{1, 2, 3}},
		{"zeroed", make([]int32, ColumnCount)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := map[string]any{
				"xPos":     int32(0),
				"zPos":     int32(0),
				"Sections": []map[string]any{{"Y": int8(6), "Blocks": blocks}},
			}
			if tt.heights != nil {
				lvl["HeightMap"] = tt.heights
			}
			data, err := nbt.Marshal(map[string]any{"Level": lvl})
			if err != nil {
				t.Fatal(err)
			}
			c, err := Decode(data)
			if err != nil {
				t.Fatal(err)
			}
			if h, _ := c.Heights().Get(0, 0); h != 101 {
				t.Fatalf("height = %d, want 101", h)
			}

			again, err := Encode(c)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(again)
			if err != nil {
				t.Fatal(err)
			}
			if id, _ := got.BlockTypeAt(0, 100, 0); id != block.Stone {
				t.Fatalf("block at y=100 after re-encode = %d, want stone", id)
			}
		})
	}
}

func TestSectionWritesRaiseChunkHeight(t *testing.T) {
	tests := []struct {
		name  string
		write func(s *Section) error
	}{
		{"SetBlockType", func(s *Section) error { return s.SetBlockType(1, 2, 3, block.Stone) }},
		{"SetBlock", func(s *Section) error { return s.SetBlock(1, 2, 3, Cell{Type: block.Stone}) }},
		{"Set", func(s *Section) error { return s.Set(ChannelType, Index(1, 2, 3), byte(block.Stone)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Pos{})
			s, err := c.Section(9)
			if err != nil {
				t.Fatal(err)
			}
			if err := tt.write(s); err != nil {
				t.Fatal(err)
			}
			if h, _ := c.Heights().Get(1, 3); h != 9*16+3 {
				t.Fatalf("height = %d, want %d", h, 9*16+3)
			}

			data, err := Encode(c)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatal(err)
			}
			if id, _ := got.BlockTypeAt(1, 9*16+2, 3); id != block.Stone {
				t.Fatalf("block after round trip = %d, want stone", id)
			}
		})
	}

	// Light writes leave the table alone.
	c := New(Pos{})
	s, _ := c.Section(12)
	_ = s.SetSkyLight(0, 0, 0, 15)
	if c.Heights().Maximum() != 0 {
		t.Fatalf("Maximum = %d after a light write, want 0", c.Heights().Maximum())
	}
}
