package noise

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// latticeHash hashes a seed and up to three lattice coordinates.
func latticeHash(seed int64, i, j, k int) uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(i)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(j)))
	binary.LittleEndian.PutUint64(buf[24:], uint64(int64(k)))
	return xxhash.Sum64(buf[:])
}

// unit maps a hash onto [-1, 1].
func unit(h uint64) float64 {
	return float64(h>>11)/(1<<52) - 1
}

// White is uncorrelated noise: every integer lattice cell holds an
// independent value in [-1, 1].
type White struct {
	seed int64
}

// NewWhite returns white noise for seed.
func NewWhite(seed int64) *White {
	return &White{seed: seed}
}

func (w *White) Generate2(x, y float64) float64 {
	return unit(latticeHash(w.seed, fastFloor(x), fastFloor(y), math.MinInt32))
}

func (w *White) Generate3(x, y, z float64) float64 {
	return unit(latticeHash(w.seed, fastFloor(x), fastFloor(y), fastFloor(z)))
}

// Value interpolates white lattice values with a quintic fade, giving a
// smooth field in [-1, 1].
type Value struct {
	seed int64
}

// NewValue returns value noise for seed.
func NewValue(seed int64) *Value {
	return &Value{seed: seed}
}

func (v *Value) at2(i, j int) float64 {
	return unit(latticeHash(v.seed, i, j, math.MinInt32))
}

func (v *Value) at3(i, j, k int) float64 {
	return unit(latticeHash(v.seed, i, j, k))
}

func (v *Value) Generate2(x, y float64) float64 {
	x0, y0 := fastFloor(x), fastFloor(y)
	fx, fy := fade(x-float64(x0)), fade(y-float64(y0))

	i0 := lerp(v.at2(x0, y0), v.at2(x0+1, y0), fx)
	i1 := lerp(v.at2(x0, y0+1), v.at2(x0+1, y0+1), fx)
	return lerp(i0, i1, fy)
}

func (v *Value) Generate3(x, y, z float64) float64 {
	x0, y0, z0 := fastFloor(x), fastFloor(y), fastFloor(z)
	fx, fy, fz := fade(x-float64(x0)), fade(y-float64(y0)), fade(z-float64(z0))

	c00 := lerp(v.at3(x0, y0, z0), v.at3(x0+1, y0, z0), fx)
	c10 := lerp(v.at3(x0, y0+1, z0), v.at3(x0+1, y0+1, z0), fx)
	c01 := lerp(v.at3(x0, y0, z0+1), v.at3(x0+1, y0, z0+1), fx)
	c11 := lerp(v.at3(x0, y0+1, z0+1), v.at3(x0+1, y0+1, z0+1), fx)
	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}
