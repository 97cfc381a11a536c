package chunk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/tag"
)

const nibbleBytes = SectionVolume / 2

type sectionNode struct {
	Y          byte   `nbt:"Y"`
	Blocks     []byte `nbt:"Blocks"`
	Data       []byte `nbt:"Data"`
	SkyLight   []byte `nbt:"SkyLight"`
	BlockLight []byte `nbt:"BlockLight"`
}

// Entities and tile entities are not modelled; the lists are written empty.
type levelNode struct {
	TerrainPopulated bool          `nbt:"TerrainPopulated"`
	X                int32         `nbt:"xPos"`
	Z                int32         `nbt:"zPos"`
	LastUpdate       int64         `nbt:"LastUpdate"`
	Biomes           []byte        `nbt:"Biomes"`
	HeightMap        []int32       `nbt:"HeightMap"`
	Entities         []struct{}    `nbt:"Entities"`
	Sections         []sectionNode `nbt:"Sections"`
	TileEntities     []struct{}    `nbt:"TileEntities"`
}

type chunkNode struct {
	Level levelNode `nbt:"Level"`
}

func (s *Section) node() (sectionNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return sectionNode{}, ErrInvalidSection
	}
	return sectionNode{
		Y:          byte(s.y),
		Blocks:     block.ToBytes(s.types[:]),
		Data:       s.data.clone(),
		SkyLight:   s.skyLight.clone(),
		BlockLight: s.blockLight.clone(),
	}, nil
}

// EncodeSection serializes a section as a standalone compound.
func EncodeSection(s *Section) ([]byte, error) {
	n, err := s.node()
	if err != nil {
		return nil, err
	}
	return nbt.Marshal(n)
}

// DecodeSection parses a section compound. Missing or malformed arrays are
// replaced by zeroed ones; a missing or out-of-range Y leaves the section
// without an index. Only a root that is not a compound is an error.
func DecodeSection(data []byte) (*Section, error) {
	fields, err := tag.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: section: %v", ErrFormat, err)
	}
	s, _ := sectionFrom(fields, nil)
	return s, nil
}

// sectionFrom builds a section from its fields, appending a note to rep for
// every defaulted field.
func sectionFrom(f tag.Compound, rep *Repairs) (*Section, bool) {
	s := NewScaffoldSection()
	if y, ok := f.Byte("Y"); ok && y >= 0 && int(y) < SectionCount {
		s.y, s.valid = int(y), true
	} else {
		rep.add("section Y missing or invalid")
	}

	if b, ok := f.ByteArray("Blocks", SectionVolume); ok {
		block.FromBytes(s.types[:], b)
	} else {
		rep.add(fmt.Sprintf("section %d: Blocks defaulted", s.y))
	}
	s.data = nibblesOrZero(f, "Data", s.y, rep)
	s.skyLight = nibblesOrZero(f, "SkyLight", s.y, rep)
	s.blockLight = nibblesOrZero(f, "BlockLight", s.y, rep)
	return s, s.valid
}

func nibblesOrZero(f tag.Compound, name string, sy int, rep *Repairs) *NibbleArray {
	if b, ok := f.ByteArray(name, nibbleBytes); ok {
		return NibbleArrayFrom(b, SectionVolume)
	}
	rep.add(fmt.Sprintf("section %d: %s defaulted", sy, name))
	return NewNibbleArray(SectionVolume)
}

// Repairs lists the fields a decoder had to default.
type Repairs []string

func (r *Repairs) add(note string) {
	if r != nil {
		*r = append(*r, note)
	}
}

// Write serializes c to w. Sections above ceil(Maximum/16) are omitted.
func Write(w io.Writer, c *Chunk) error {
	n, err := c.node()
	if err != nil {
		return err
	}
	return nbt.NewEncoder(w).Encode(n, "")
}

// Encode serializes c into a byte slice.
func Encode(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Chunk) node() (chunkNode, error) {
	c.mu.RLock()
	lvl := levelNode{
		TerrainPopulated: c.populated,
		X:                int32(c.pos.X),
		Z:                int32(c.pos.Z),
		LastUpdate:       c.lastUpdate,
		Entities:         []struct{}{},
		TileEntities:     []struct{}{},
	}
	c.mu.RUnlock()

	lvl.Biomes = c.biomes.Bytes()
	lvl.HeightMap = c.heights.Values()

	top := min(int(c.heights.Maximum()+SectionHeight-1)/SectionHeight, SectionCount-1)
	lvl.Sections = make([]sectionNode, 0, top+1)
	for sy := 0; sy <= top; sy++ {
		sn, err := c.sections[sy].node()
		if err != nil {
			return chunkNode{}, fmt.Errorf("section %d: %w", sy, err)
		}
		lvl.Sections = append(lvl.Sections, sn)
	}
	return chunkNode{Level: lvl}, nil
}

// Read parses a chunk from r. See DecodeWithRepairs.
func Read(r io.Reader) (*Chunk, error) {
	c, _, err := readChunk(r)
	return c, err
}

// Decode parses a chunk from data. See DecodeWithRepairs.
func Decode(data []byte) (*Chunk, error) {
	c, _, err := readChunk(bytes.NewReader(data))
	return c, err
}

// DecodeWithRepairs parses a chunk and reports every field it defaulted.
// A root or Level node that is not a compound fails with ErrFormat; any
// other missing or malformed field is replaced by its default.
func DecodeWithRepairs(data []byte) (*Chunk, Repairs, error) {
	return readChunk(bytes.NewReader(data))
}

func readChunk(r io.Reader) (*Chunk, Repairs, error) {
	root, err := tag.Read(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	lvl, ok := root.Compound("Level")
	if !ok {
		return nil, nil, fmt.Errorf("%w: Level is missing or not a compound", ErrFormat)
	}

	var rep Repairs
	x, okX := lvl.Int("xPos")
	z, okZ := lvl.Int("zPos")
	if !okX || !okZ {
		rep.add("position defaulted")
	}
	c := &Chunk{pos: Pos{X: int(x), Z: int(z)}}

	if v, ok := lvl.Byte("TerrainPopulated"); ok {
		c.populated = v != 0
	} else {
		rep.add("TerrainPopulated defaulted")
	}
	if v, ok := lvl.Long("LastUpdate"); ok {
		c.lastUpdate = v
	} else {
		rep.add("LastUpdate defaulted")
	}

	if b, ok := lvl.ByteArray("Biomes", ColumnCount); ok {
		c.biomes = biomeDataFrom(b)
	} else {
		c.biomes = NewBiomeData()
		rep.add("Biomes defaulted")
	}
	h, heightsOK := lvl.IntArray("HeightMap", ColumnCount)
	if heightsOK {
		c.heights = heightDataFrom(h)
	} else {
		c.heights = NewHeightData()
		rep.add("HeightMap defaulted")
	}

	list, ok := lvl.List("Sections")
	if !ok {
		rep.add("Sections defaulted")
	}
	for _, raw := range list {
		if raw.Type != nbt.TagCompound {
			rep.add("non-compound section skipped")
			continue
		}
		f, err := tag.Parse(raw)
		if err != nil {
			rep.add("unreadable section skipped")
			continue
		}
		s, valid := sectionFrom(f, &rep)
		if !valid {
			continue
		}
		c.adopt(s)
	}
	for sy := range c.sections {
		if c.sections[sy] == nil {
			s, _ := NewSection(sy)
			c.adopt(s)
		}
	}
	// A stored height map may sit below the blocks; Write would then drop
	// the sections above it.
	if heightsOK {
		c.raiseHeights()
	} else {
		c.RecalculateHeights()
	}
	return c, rep, nil
}
