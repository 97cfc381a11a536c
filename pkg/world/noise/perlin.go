package noise

import "fmt"

// MaxPerlinOctaves bounds the permutation table at 2^16 entries.
const MaxPerlinOctaves = 16

// Perlin is multi-octave gradient noise. The seed yields a coordinate
// offset and the permutation shuffle; the permutation table holds
// 2^octaves entries. Octave i runs at frequency 2^i with weight 2^-(i+1).
type Perlin struct {
	octaves    int
	mask       int
	perm       []int
	ox, oy, oz float64
}

// NewPerlin returns Perlin noise with octaves in [1, MaxPerlinOctaves].
func NewPerlin(seed int64, octaves int) (*Perlin, error) {
	if octaves < 1 || octaves > MaxPerlinOctaves {
		return nil, fmt.Errorf("perlin octaves %d not in [1,%d]", octaves, MaxPerlinOctaves)
	}
	r := &lcg{state: seed}
	p := &Perlin{
		octaves: octaves,
		mask:    1<<octaves - 1,
		ox:      r.float() * 256,
		oy:      r.float() * 256,
		oz:      r.float() * 256,
	}
	p.perm = permutation(r.next(), 1<<octaves)
	return p, nil
}

// Octaves returns the octave count.
func (p *Perlin) Octaves() int { return p.octaves }

func (p *Perlin) Generate2(x, y float64) float64 {
	x, y = x+p.ox, y+p.oy
	var sum float64
	freq, weight := 1.0, 0.5
	for range p.octaves {
		v := clamp(p.gradient2(x*freq, y*freq), -1, 1)
		sum += (v + 1) / 2 * weight
		freq *= 2
		weight /= 2
	}
	return 1 - 2*sum
}

func (p *Perlin) Generate3(x, y, z float64) float64 {
	x, y, z = x+p.ox, y+p.oy, z+p.oz
	var sum float64
	freq, weight := 1.0, 0.5
	for range p.octaves {
		v := clamp(p.gradient3(x*freq, y*freq, z*freq), -1, 1)
		sum += (v + 1) / 2 * weight
		freq *= 2
		weight /= 2
	}
	return 1 - 2*sum
}

func (p *Perlin) gradient2(x, y float64) float64 {
	xf, yf := fastFloor(x), fastFloor(y)
	xi, yi := xf&p.mask, yf&p.mask
	x -= float64(xf)
	y -= float64(yf)
	u, v := fade(x), fade(y)

	a := p.perm[xi] + yi
	b := p.perm[xi+1] + yi
	return lerp(
		lerp(grad2(p.perm[a&p.mask], x, y), grad2(p.perm[b&p.mask], x-1, y), u),
		lerp(grad2(p.perm[(a+1)&p.mask], x, y-1), grad2(p.perm[(b+1)&p.mask], x-1, y-1), u),
		v,
	)
}

func (p *Perlin) gradient3(x, y, z float64) float64 {
	xf, yf, zf := fastFloor(x), fastFloor(y), fastFloor(z)
	xi, yi, zi := xf&p.mask, yf&p.mask, zf&p.mask
	x -= float64(xf)
	y -= float64(yf)
	z -= float64(zf)
	u, v, w := fade(x), fade(y), fade(z)

	m := p.mask
	a := p.perm[xi] + yi
	aa := p.perm[a&m] + zi
	ab := p.perm[(a+1)&m] + zi
	b := p.perm[xi+1] + yi
	ba := p.perm[b&m] + zi
	bb := p.perm[(b+1)&m] + zi

	return lerp(
		lerp(
			lerp(grad3At(p.perm[aa&m], x, y, z), grad3At(p.perm[ba&m], x-1, y, z), u),
			lerp(grad3At(p.perm[ab&m], x, y-1, z), grad3At(p.perm[bb&m], x-1, y-1, z), u),
			v),
		lerp(
			lerp(grad3At(p.perm[(aa+1)&m], x, y, z-1), grad3At(p.perm[(ba+1)&m], x-1, y, z-1), u),
			lerp(grad3At(p.perm[(ab+1)&m], x, y-1, z-1), grad3At(p.perm[(bb+1)&m], x-1, y-1, z-1), u),
			v),
		w,
	)
}

func grad2(h int, x, y float64) float64 {
	switch h & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

func grad3At(h int, x, y, z float64) float64 {
	return dot3(grad3[h%12], x, y, z)
}
