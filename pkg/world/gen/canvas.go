package gen

import (
	"slices"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// Point is a block coordinate relative to a canvas origin.
type Point struct{ X, Y, Z int }

type edit struct {
	cell    chunk.Cell
	ifEmpty bool
}

// Canvas buffers block edits that may span several chunks. Coordinates are
// relative to the origin chunk's first block and may be negative or reach
// past its far edge.
type Canvas struct {
	edits map[Point]edit
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{edits: make(map[Point]edit)}
}

// Set buffers an unconditional write. A later edit to the same point
// replaces an earlier one.
func (cv *Canvas) Set(x, y, z int, cell chunk.Cell) {
	cv.edits[Point{x, y, z}] = edit{cell: cell}
}

// SetIfEmpty buffers a write that only lands on air.
func (cv *Canvas) SetIfEmpty(x, y, z int, cell chunk.Cell) {
	cv.edits[Point{x, y, z}] = edit{cell: cell, ifEmpty: true}
}

// Len returns the number of buffered edits.
func (cv *Canvas) Len() int { return len(cv.edits) }

// Reset drops every buffered edit.
func (cv *Canvas) Reset() { clear(cv.edits) }

// ApplyResult counts what Apply did with the buffered edits.
type ApplyResult struct {
	Applied int
	// Skipped edits were conditional and found a non-air block.
	Skipped int
	// Dropped edits fell outside the world height or into a chunk src does
	// not hold.
	Dropped int
	Chunks  int
}

// Apply writes the buffered edits into the chunks they fall in. Edit (x,y,z)
// lands at world block origin.BlockX()+offset.X+x and so on.
//
// Every affected chunk is locked in ascending position order before any
// edit is written and all are released together afterwards, so two
// concurrent Apply calls over overlapping chunks cannot deadlock and each
// is atomic with respect to the other. The caller must not hold any chunk
// lock.
func (cv *Canvas) Apply(src ChunkSource, origin chunk.Pos, offset Point) ApplyResult {
	var res ApplyResult

	type local struct {
		x, y, z int
		e       edit
	}
	groups := make(map[chunk.Pos][]local)
	for p, e := range cv.edits {
		wx := origin.BlockX() + offset.X + p.X
		wy := offset.Y + p.Y
		wz := origin.BlockZ() + offset.Z + p.Z
		if wy < 0 || wy >= chunk.Height {
			res.Dropped++
			continue
		}
		pos := chunk.PosOf(wx, wz)
		groups[pos] = append(groups[pos], local{wx & 0xF, wy, wz & 0xF, e})
	}

	positions := make([]chunk.Pos, 0, len(groups))
	targets := make(map[chunk.Pos]*chunk.Chunk, len(groups))
	for pos, edits := range groups {
		c, ok := src.Chunk(pos)
		if !ok {
			res.Dropped += len(edits)
			continue
		}
		positions = append(positions, pos)
		targets[pos] = c
	}
	slices.SortFunc(positions, func(a, b chunk.Pos) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})

	for _, pos := range positions {
		targets[pos].Lock()
	}
	defer func() {
		for i := len(positions) - 1; i >= 0; i-- {
			targets[positions[i]].Unlock()
		}
	}()

	for _, pos := range positions {
		c := targets[pos]
		for _, l := range groups[pos] {
			if l.e.ifEmpty {
				if id, _ := c.BlockTypeAt(l.x, l.y, l.z); id != block.Air {
					res.Skipped++
					continue
				}
			}
			if err := c.SetBlock(l.x, l.y, l.z, l.e.cell); err != nil {
				res.Dropped++
				continue
			}
			res.Applied++
		}
	}
	res.Chunks = len(positions)
	return res
}
