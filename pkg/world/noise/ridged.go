package noise

import (
	"fmt"
	"math"
)

// RidgedMulti is ridged multifractal noise over a basis source. Each octave
// contributes (1-|basis|)^2, attenuated by the previous octave's weight and
// by a spectral weight of freq^-1.
type RidgedMulti struct {
	basis      Source
	lacunarity float64
	gain       float64
	spectral   []float64
}

// NewRidgedMulti precomputes the spectral weights for octaves in [1,30].
func NewRidgedMulti(basis Source, octaves int, lacunarity float64) (*RidgedMulti, error) {
	if octaves < 1 || octaves > 30 {
		return nil, fmt.Errorf("ridged octaves %d not in [1,30]", octaves)
	}
	if lacunarity <= 0 {
		return nil, fmt.Errorf("ridged lacunarity %v must be positive", lacunarity)
	}
	r := &RidgedMulti{basis: basis, lacunarity: lacunarity, gain: 2, spectral: make([]float64, octaves)}
	freq := 1.0
	for i := range r.spectral {
		r.spectral[i] = math.Pow(freq, -1)
		freq *= lacunarity
	}
	return r, nil
}

func (r *RidgedMulti) Generate2(x, y float64) float64 {
	var value float64
	weight := 1.0
	for _, sw := range r.spectral {
		signal := r.signal(r.basis.Generate2(x, y), &weight)
		value += signal * sw
		x *= r.lacunarity
		y *= r.lacunarity
	}
	return clamp(value*1.25-1, -1, 1)
}

func (r *RidgedMulti) Generate3(x, y, z float64) float64 {
	var value float64
	weight := 1.0
	for _, sw := range r.spectral {
		signal := r.signal(r.basis.Generate3(x, y, z), &weight)
		value += signal * sw
		x *= r.lacunarity
		y *= r.lacunarity
		z *= r.lacunarity
	}
	return clamp(value*1.25-1, -1, 1)
}

func (r *RidgedMulti) signal(n float64, weight *float64) float64 {
	s := 1 - math.Abs(n)
	s *= s
	s *= *weight
	*weight = clamp(s*r.gain, 0, 1)
	return s
}
