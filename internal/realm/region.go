package realm

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// ErrInvalidRegion is returned for a region with no chunks.
var ErrInvalidRegion = errors.New("realm: invalid region")

// Region is the chunk rectangle [StartX, StartX+CountX) x [StartZ, StartZ+CountZ).
type Region struct {
	StartX, StartZ int
	CountX, CountZ int
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.StartX, r.StartX+r.CountX, r.StartZ, r.StartZ+r.CountZ)
}

// Count returns the number of chunks in the region.
func (r Region) Count() int { return r.CountX * r.CountZ }

// Validate rejects empty regions.
func (r Region) Validate() error {
	if r.CountX <= 0 || r.CountZ <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRegion, r)
	}
	return nil
}

// Contains reports whether pos lies in the region.
func (r Region) Contains(pos chunk.Pos) bool {
	return pos.X >= r.StartX && pos.X < r.StartX+r.CountX &&
		pos.Z >= r.StartZ && pos.Z < r.StartZ+r.CountZ
}

// Positions returns every chunk position in the region, X-major.
func (r Region) Positions() []chunk.Pos {
	out := make([]chunk.Pos, 0, max(r.Count(), 0))
	for x := r.StartX; x < r.StartX+r.CountX; x++ {
		for z := r.StartZ; z < r.StartZ+r.CountZ; z++ {
			out = append(out, chunk.Pos{X: x, Z: z})
		}
	}
	return out
}

// Tiles splits the region into squares of the given side, clipped at the
// far edges. Every chunk falls in exactly one tile.
func (r Region) Tiles(side int) []Region {
	side = max(side, 1)
	var out []Region
	for x := r.StartX; x < r.StartX+r.CountX; x += side {
		for z := r.StartZ; z < r.StartZ+r.CountZ; z += side {
			out = append(out, Region{
				StartX: x,
				StartZ: z,
				CountX: min(side, r.StartX+r.CountX-x),
				CountZ: min(side, r.StartZ+r.CountZ-z),
			})
		}
	}
	return out
}

// Speed trades tile size against a fixed pause after each tile.
type Speed int

const (
	SpeedFull Speed = iota
	SpeedFast
	SpeedNormal
	SpeedSlow
	SpeedMinimal
)

var speeds = [...]struct {
	name  string
	side  int
	delay time.Duration
}{
	SpeedFull:    {"full", 32, 0},
	SpeedFast:    {"fast", 16, 2000 * time.Millisecond},
	SpeedNormal:  {"normal", 8, 5000 * time.Millisecond},
	SpeedSlow:    {"slow", 4, 7000 * time.Millisecond},
	SpeedMinimal: {"minimal", 1, 10000 * time.Millisecond},
}

func (s Speed) valid() bool { return s >= 0 && int(s) < len(speeds) }

func (s Speed) String() string {
	if !s.valid() {
		return fmt.Sprintf("Speed(%d)", int(s))
	}
	return speeds[s].name
}

// TileSide returns the side length of a work tile in chunks.
func (s Speed) TileSide() int {
	if !s.valid() {
		return speeds[SpeedFull].side
	}
	return speeds[s].side
}

// Delay returns the pause after each tile.
func (s Speed) Delay() time.Duration {
	if !s.valid() {
		return 0
	}
	return speeds[s].delay
}

// ParseSpeed maps a case-insensitive speed name to a Speed.
func ParseSpeed(name string) (Speed, error) {
	for i, sp := range speeds {
		if strings.EqualFold(name, sp.name) {
			return Speed(i), nil
		}
	}
	return 0, fmt.Errorf("unknown generation speed %q", name)
}
