package noise

import (
	"fmt"
	"math"
)

// Distance measures the separation of two points.
type Distance int

const (
	// Euclidean is the squared euclidean distance.
	Euclidean Distance = iota
	Manhattan
	Chebyshev
)

func (d Distance) measure(dx, dy, dz float64) float64 {
	switch d {
	case Manhattan:
		return math.Abs(dx) + math.Abs(dy) + math.Abs(dz)
	case Chebyshev:
		return max(math.Abs(dx), math.Abs(dy), math.Abs(dz))
	default:
		return dx*dx + dy*dy + dz*dz
	}
}

// Combination selects how the nearest feature distances form the output.
type Combination int

const (
	// D1 is the distance to the nearest feature point.
	D1 Combination = iota
	// D2MinusD1 is the gap between the second and first nearest.
	D2MinusD1
	// D3MinusD1 is the gap between the third and first nearest.
	D3MinusD1
)

// poissonCount is the cumulative distribution of the feature point count
// per cell, scaled to uint32. A draw below entry i yields i+1 points.
var poissonCount = [...]uint32{
	393325350, 1022645910, 1861739990, 2700834071,
	3372109335, 3819626178, 4075350088, 4203212043,
}

func featureCount(v uint32) int {
	for i, c := range poissonCount {
		if v < c {
			return i + 1
		}
	}
	return len(poissonCount) + 1
}

// cellLCG advances the per-cell feature stream.
func cellLCG(v uint32) uint32 {
	return 1103515245*v + 12345
}

const cellNearest = 3

// Cell is Worley noise. Each lattice cell holds a hashed number of feature
// points; the output is derived from the distances to the nearest three.
type Cell struct {
	seed     int64
	distance Distance
	combine  Combination
}

// NewCell returns cell noise.
func NewCell(seed int64, d Distance, c Combination) (*Cell, error) {
	if d < Euclidean || d > Chebyshev {
		return nil, fmt.Errorf("unknown distance function %d", d)
	}
	if c < D1 || c > D3MinusD1 {
		return nil, fmt.Errorf("unknown combination %d", c)
	}
	return &Cell{seed: seed, distance: d, combine: c}, nil
}

func (c *Cell) Generate2(x, y float64) float64 {
	nearest := [cellNearest]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	ci, cj := fastFloor(x), fastFloor(y)
	for i := ci - 1; i <= ci+1; i++ {
		for j := cj - 1; j <= cj+1; j++ {
			v := uint32(latticeHash(c.seed, i, j, math.MinInt32))
			n := featureCount(v)
			for range n {
				v = cellLCG(v)
				fx := float64(v) / (1 << 32)
				v = cellLCG(v)
				fy := float64(v) / (1 << 32)
				d := c.distance.measure(float64(i)+fx-x, float64(j)+fy-y, 0)
				insertNearest(&nearest, d)
			}
		}
	}
	return c.fold(&nearest)
}

func (c *Cell) Generate3(x, y, z float64) float64 {
	nearest := [cellNearest]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	ci, cj, ck := fastFloor(x), fastFloor(y), fastFloor(z)
	for i := ci - 1; i <= ci+1; i++ {
		for j := cj - 1; j <= cj+1; j++ {
			for k := ck - 1; k <= ck+1; k++ {
				v := uint32(latticeHash(c.seed, i, j, k))
				n := featureCount(v)
				for range n {
					v = cellLCG(v)
					fx := float64(v) / (1 << 32)
					v = cellLCG(v)
					fy := float64(v) / (1 << 32)
					v = cellLCG(v)
					fz := float64(v) / (1 << 32)
					d := c.distance.measure(float64(i)+fx-x, float64(j)+fy-y, float64(k)+fz-z)
					insertNearest(&nearest, d)
				}
			}
		}
	}
	return c.fold(&nearest)
}

// insertNearest keeps the smallest distances in ascending order.
func insertNearest(a *[cellNearest]float64, d float64) {
	for i := range a {
		if d < a[i] {
			copy(a[i+1:], a[i:cellNearest-1])
			a[i] = d
			return
		}
	}
}

func (c *Cell) fold(a *[cellNearest]float64) float64 {
	var v float64
	switch c.combine {
	case D2MinusD1:
		v = a[1] - a[0]
	case D3MinusD1:
		v = a[2] - a[0]
	default:
		v = a[0]
	}
	return clamp(v*4-1, -1, 1)
}
