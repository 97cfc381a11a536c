package chunk

import "fmt"

const (
	// Width is the x and z extent of a chunk and of a section.
	Width = 16
	// Height is the y extent of a chunk.
	Height = 256
	// SectionHeight is the y extent of a section.
	SectionHeight = 16
	// SectionCount is the number of sections stacked in a chunk.
	SectionCount = Height / SectionHeight
	// SectionVolume is the number of cells in a section.
	SectionVolume = Width * Width * SectionHeight
	// ColumnCount is the number of x,z columns in a chunk.
	ColumnCount = Width * Width
)

// Pos identifies a chunk by its X and Z coordinates.
type Pos struct{ X, Z int }

// PosOf returns the chunk holding world block (bx, bz). Negative
// coordinates floor toward negative infinity.
func PosOf(bx, bz int) Pos {
	return Pos{X: bx >> 4, Z: bz >> 4}
}

// BlockX returns the world x of the chunk's first column.
func (p Pos) BlockX() int { return p.X << 4 }

// BlockZ returns the world z of the chunk's first column.
func (p Pos) BlockZ() int { return p.Z << 4 }

// Less orders positions by X, then Z.
func (p Pos) Less(o Pos) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Z < o.Z
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Z) }

// Index returns the flat section index of local coordinates: Y-major, then
// Z, then X.
func Index(x, y, z int) int {
	return y<<8 | z<<4 | x
}

// Coords is the inverse of Index.
func Coords(i int) (x, y, z int) {
	return i & 0xF, i >> 8, (i >> 4) & 0xF
}

func checkLocal(x, y, z, maxY int) error {
	if x < 0 || x >= Width || z < 0 || z >= Width || y < 0 || y >= maxY {
		return fmt.Errorf("block (%d,%d,%d): %w", x, y, z, ErrOutOfRange)
	}
	return nil
}

func checkColumn(x, z int) error {
	if x < 0 || x >= Width || z < 0 || z >= Width {
		return fmt.Errorf("column (%d,%d): %w", x, z, ErrOutOfRange)
	}
	return nil
}
