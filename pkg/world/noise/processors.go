package noise

import "github.com/go-gl/mathgl/mgl64"

// Scale multiplies each axis of the input coordinate.
type Scale struct{ X, Y, Z float64 }

// UniformScale scales every axis by f.
func UniformScale(f float64) Scale { return Scale{f, f, f} }

func (s Scale) Process2(x, y float64) (float64, float64) { return x * s.X, y * s.Y }

func (s Scale) Process3(x, y, z float64) (float64, float64, float64) {
	return x * s.X, y * s.Y, z * s.Z
}

// Translate offsets the input coordinate.
type Translate struct{ X, Y, Z float64 }

func (t Translate) Process2(x, y float64) (float64, float64) { return x + t.X, y + t.Y }

func (t Translate) Process3(x, y, z float64) (float64, float64, float64) {
	return x + t.X, y + t.Y, z + t.Z
}

// Rotate turns the input coordinate about the origin. Angles are in
// degrees and applied X, then Y, then Z. 2D input is treated as the
// z = 0 plane and projected back.
type Rotate struct {
	m mgl64.Mat3
}

// NewRotate builds the rotation matrix once.
func NewRotate(xDeg, yDeg, zDeg float64) Rotate {
	rx := mgl64.Rotate3DX(mgl64.DegToRad(xDeg))
	ry := mgl64.Rotate3DY(mgl64.DegToRad(yDeg))
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(zDeg))
	return Rotate{m: rz.Mul3(ry).Mul3(rx)}
}

func (r Rotate) Process2(x, y float64) (float64, float64) {
	v := r.m.Mul3x1(mgl64.Vec3{x, y, 0})
	return v[0], v[1]
}

func (r Rotate) Process3(x, y, z float64) (float64, float64, float64) {
	v := r.m.Mul3x1(mgl64.Vec3{x, y, z})
	return v[0], v[1], v[2]
}

// Clamp bounds the output to [Min, Max].
type Clamp struct{ Min, Max float64 }

func (c Clamp) Process(v float64) float64 { return clamp(v, c.Min, c.Max) }

// Range linearly maps [FromMin, FromMax] onto [ToMin, ToMax]. Values outside
// the source range extrapolate.
type Range struct{ FromMin, FromMax, ToMin, ToMax float64 }

func (r Range) Process(v float64) float64 {
	span := r.FromMax - r.FromMin
	if span == 0 {
		return r.ToMin
	}
	return r.ToMin + (v-r.FromMin)/span*(r.ToMax-r.ToMin)
}

// Invert negates the output.
type Invert struct{}

func (Invert) Process(v float64) float64 { return -v }
