package noise

import "fmt"

// Op is a binary operation applied by a Combiner.
type Op int

const (
	Add Op = iota
	Subtract
	Multiply
	Average
	Min
	Max
)

var opNames = [...]string{"add", "subtract", "multiply", "average", "min", "max"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

func (o Op) apply(a, b float64) float64 {
	switch o {
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Average:
		return (a + b) / 2
	case Min:
		return min(a, b)
	case Max:
		return max(a, b)
	default:
		return a + b
	}
}

// Combiner merges two sources with Op. When Clamp is set the result is
// bounded to [-1, 1].
type Combiner struct {
	A, B  Source
	Op    Op
	Clamp bool
}

func (c Combiner) Generate2(x, y float64) float64 {
	return c.finish(c.Op.apply(c.A.Generate2(x, y), c.B.Generate2(x, y)))
}

func (c Combiner) Generate3(x, y, z float64) float64 {
	return c.finish(c.Op.apply(c.A.Generate3(x, y, z), c.B.Generate3(x, y, z)))
}

func (c Combiner) finish(v float64) float64 {
	if c.Clamp {
		return clamp(v, -1, 1)
	}
	return v
}

// Selector picks between A and B using Control. In switch mode the output
// is A where control < Cutoff and B otherwise. In blend mode the control is
// mapped from [-1, 1] onto an interpolation weight between A and B.
type Selector struct {
	A, B    Source
	Control Source
	Blend   bool
	Cutoff  float64
}

func (s Selector) Generate2(x, y float64) float64 {
	c := s.Control.Generate2(x, y)
	if s.Blend {
		return lerp(s.A.Generate2(x, y), s.B.Generate2(x, y), blendWeight(c))
	}
	if c < s.Cutoff {
		return s.A.Generate2(x, y)
	}
	return s.B.Generate2(x, y)
}

func (s Selector) Generate3(x, y, z float64) float64 {
	c := s.Control.Generate3(x, y, z)
	if s.Blend {
		return lerp(s.A.Generate3(x, y, z), s.B.Generate3(x, y, z), blendWeight(c))
	}
	if c < s.Cutoff {
		return s.A.Generate3(x, y, z)
	}
	return s.B.Generate3(x, y, z)
}

func blendWeight(c float64) float64 {
	return clamp((c+1)/2, 0, 1)
}

// Constant is a flat field.
type Constant float64

func (c Constant) Generate2(_, _ float64) float64    { return float64(c) }
func (c Constant) Generate3(_, _, _ float64) float64 { return float64(c) }
