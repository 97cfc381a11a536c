package chunk

import (
	"fmt"
	"sync"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
)

// Channel selects one of the four parallel per-cell arrays of a section.
type Channel int

const (
	ChannelType Channel = iota
	ChannelData
	ChannelSkyLight
	ChannelBlockLight
)

func (c Channel) valid() bool {
	return c >= ChannelType && c <= ChannelBlockLight
}

func (c Channel) String() string {
	switch c {
	case ChannelType:
		return "type"
	case ChannelData:
		return "data"
	case ChannelSkyLight:
		return "skylight"
	case ChannelBlockLight:
		return "blocklight"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Cell is the full state of one block: type, data nibble and both light
// nibbles.
type Cell struct {
	Type       block.ID
	Data       byte
	SkyLight   byte
	BlockLight byte
}

// Section is a 16×16×16 slab of a chunk.
type Section struct {
	mu sync.RWMutex

	y     int
	valid bool

	types      [SectionVolume]block.ID
	data       *NibbleArray
	skyLight   *NibbleArray
	blockLight *NibbleArray

	modified bool

	// placed is called after a block type lands at section-local (x,y,z)
	// with the chunk-local y, outside the section lock.
	placed func(x, y, z int, id block.ID)
}

// NewSection creates an empty section at index sy.
func NewSection(sy int) (*Section, error) {
	if sy < 0 || sy >= SectionCount {
		return nil, fmt.Errorf("section index %d: %w", sy, ErrOutOfRange)
	}
	s := newSection()
	s.y, s.valid = sy, true
	return s, nil
}

// NewScaffoldSection creates a section without a y index. Block accessors
// fail with ErrInvalidSection until SetY is called.
func NewScaffoldSection() *Section {
	return newSection()
}

func newSection() *Section {
	return &Section{
		data:       NewNibbleArray(SectionVolume),
		skyLight:   NewNibbleArray(SectionVolume),
		blockLight: NewNibbleArray(SectionVolume),
	}
}

// Y returns the section index and whether it has been assigned.
func (s *Section) Y() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.y, s.valid
}

// Valid reports whether the section has a y index.
func (s *Section) Valid() bool {
	_, ok := s.Y()
	return ok
}

// SetY assigns the section index.
func (s *Section) SetY(sy int) error {
	if sy < 0 || sy >= SectionCount {
		return fmt.Errorf("section index %d: %w", sy, ErrOutOfRange)
	}
	s.mu.Lock()
	s.y, s.valid = sy, true
	s.modified = true
	s.mu.Unlock()
	return nil
}

// Modified reports whether the section changed since the flag was cleared.
func (s *Section) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// ClearModificationFlag resets Modified.
func (s *Section) ClearModificationFlag() {
	s.mu.Lock()
	s.modified = false
	s.mu.Unlock()
}

func (s *Section) index(x, y, z int) (int, error) {
	if !s.valid {
		return 0, ErrInvalidSection
	}
	if err := checkLocal(x, y, z, SectionHeight); err != nil {
		return 0, err
	}
	return Index(x, y, z), nil
}

// Get returns channel ch of the cell at flat index i.
func (s *Section) Get(ch Channel, i int) (byte, error) {
	if !ch.valid() {
		return 0, fmt.Errorf("%v: %w", ch, ErrInvalidChannel)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return 0, ErrInvalidSection
	}
	if i < 0 || i >= SectionVolume {
		return 0, fmt.Errorf("section index %d: %w", i, ErrOutOfRange)
	}
	return s.get(ch, i), nil
}

// Set stores v in channel ch of the cell at flat index i. Nibble channels
// keep only the low four bits of v.
func (s *Section) Set(ch Channel, i int, v byte) error {
	if !ch.valid() {
		return fmt.Errorf("%v: %w", ch, ErrInvalidChannel)
	}
	s.mu.Lock()
	if !s.valid {
		s.mu.Unlock()
		return ErrInvalidSection
	}
	if i < 0 || i >= SectionVolume {
		s.mu.Unlock()
		return fmt.Errorf("section index %d: %w", i, ErrOutOfRange)
	}
	s.set(ch, i, v)
	s.modified = true
	sy, placed := s.y, s.placed
	s.mu.Unlock()

	if ch == ChannelType && placed != nil {
		x, y, z := Coords(i)
		placed(x, sy<<4|y, z, block.ID(v))
	}
	return nil
}

func (s *Section) get(ch Channel, i int) byte {
	switch ch {
	case ChannelType:
		return byte(s.types[i])
	case ChannelData:
		return s.data.at(i)
	case ChannelSkyLight:
		return s.skyLight.at(i)
	case ChannelBlockLight:
		return s.blockLight.at(i)
	}
	return 0
}

func (s *Section) set(ch Channel, i int, v byte) {
	switch ch {
	case ChannelType:
		s.types[i] = block.ID(v)
	case ChannelData:
		s.data.put(i, v)
	case ChannelSkyLight:
		s.skyLight.put(i, v)
	case ChannelBlockLight:
		s.blockLight.put(i, v)
	}
}

func (s *Section) getAt(ch Channel, x, y, z int) (byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.index(x, y, z)
	if err != nil {
		return 0, err
	}
	return s.get(ch, i), nil
}

func (s *Section) setAt(ch Channel, x, y, z int, v byte) error {
	s.mu.Lock()
	i, err := s.index(x, y, z)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.set(ch, i, v)
	s.modified = true
	sy, placed := s.y, s.placed
	s.mu.Unlock()

	if ch == ChannelType && placed != nil {
		placed(x, sy<<4|y, z, block.ID(v))
	}
	return nil
}

// BlockType returns the block type at local (x,y,z).
func (s *Section) BlockType(x, y, z int) (block.ID, error) {
	v, err := s.getAt(ChannelType, x, y, z)
	return block.ID(v), err
}

// SetBlockType sets the block type at local (x,y,z).
func (s *Section) SetBlockType(x, y, z int, id block.ID) error {
	return s.setAt(ChannelType, x, y, z, byte(id))
}

// BlockData returns the data nibble at local (x,y,z).
func (s *Section) BlockData(x, y, z int) (byte, error) {
	return s.getAt(ChannelData, x, y, z)
}

// SetBlockData sets the data nibble at local (x,y,z).
func (s *Section) SetBlockData(x, y, z int, v byte) error {
	return s.setAt(ChannelData, x, y, z, v)
}

// SkyLight returns the sky light at local (x,y,z).
func (s *Section) SkyLight(x, y, z int) (byte, error) {
	return s.getAt(ChannelSkyLight, x, y, z)
}

// SetSkyLight sets the sky light at local (x,y,z).
func (s *Section) SetSkyLight(x, y, z int, v byte) error {
	return s.setAt(ChannelSkyLight, x, y, z, v)
}

// BlockLight returns the block light at local (x,y,z).
func (s *Section) BlockLight(x, y, z int) (byte, error) {
	return s.getAt(ChannelBlockLight, x, y, z)
}

// SetBlockLight sets the block light at local (x,y,z).
func (s *Section) SetBlockLight(x, y, z int, v byte) error {
	return s.setAt(ChannelBlockLight, x, y, z, v)
}

// Block returns all four channels of the cell at local (x,y,z).
func (s *Section) Block(x, y, z int) (Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.index(x, y, z)
	if err != nil {
		return Cell{}, err
	}
	return Cell{
		Type:       s.types[i],
		Data:       s.data.at(i),
		SkyLight:   s.skyLight.at(i),
		BlockLight: s.blockLight.at(i),
	}, nil
}

// SetBlock writes all four channels of the cell at local (x,y,z) under one
// lock.
func (s *Section) SetBlock(x, y, z int, c Cell) error {
	s.mu.Lock()
	i, err := s.index(x, y, z)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.types[i] = c.Type
	s.data.put(i, c.Data)
	s.skyLight.put(i, c.SkyLight)
	s.blockLight.put(i, c.BlockLight)
	s.modified = true
	sy, placed := s.y, s.placed
	s.mu.Unlock()

	if placed != nil {
		placed(x, sy<<4|y, z, c.Type)
	}
	return nil
}

// Empty reports whether every cell is air.
func (s *Section) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.types {
		if id != block.Air {
			return false
		}
	}
	return true
}

// Types returns a copy of the block type array.
func (s *Section) Types() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return block.ToBytes(s.types[:])
}

// Nibbles returns a copy of the packed array behind a nibble channel.
// ChannelType yields nil.
func (s *Section) Nibbles(ch Channel) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch ch {
	case ChannelData:
		return s.data.clone()
	case ChannelSkyLight:
		return s.skyLight.clone()
	case ChannelBlockLight:
		return s.blockLight.clone()
	}
	return nil
}
