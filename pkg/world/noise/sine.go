package noise

import "math"

// Sine is the periodic field sin(x*Freq)*cos(y*Freq), with a further
// cos(z*Freq) factor in 3D.
type Sine struct {
	Freq float64
}

func (s Sine) Generate2(x, y float64) float64 {
	return math.Sin(x*s.Freq) * math.Cos(y*s.Freq)
}

func (s Sine) Generate3(x, y, z float64) float64 {
	return math.Sin(x*s.Freq) * math.Cos(y*s.Freq) * math.Cos(z*s.Freq)
}
