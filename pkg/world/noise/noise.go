// Package noise provides seeded scalar fields over 2D and 3D coordinates and
// a pipeline to compose them with coordinate and value processors.
//
// Every generator is fixed at construction; evaluation never mutates state,
// so one generator may be shared by any number of goroutines.
package noise

// Source is a scalar field. Implementations evaluate 2D and 3D input
// independently; the 2D field need not be a slice of the 3D one.
type Source interface {
	Generate2(x, y float64) float64
	Generate3(x, y, z float64) float64
}

// PreProcessor transforms an input coordinate before evaluation.
type PreProcessor interface {
	Process2(x, y float64) (float64, float64)
	Process3(x, y, z float64) (float64, float64, float64)
}

// PostProcessor transforms an evaluated value.
type PostProcessor interface {
	Process(v float64) float64
}

// Pipeline wraps a Source with ordered pre- and post-processors:
//
//	coord -> pre[0] -> ... -> pre[n] -> source -> post[0] -> ... -> post[m]
//
// A Pipeline is itself a Source. Configure it before sharing it.
type Pipeline struct {
	src  Source
	pre  []PreProcessor
	post []PostProcessor
}

// NewPipeline returns a pipeline over src with no processors.
func NewPipeline(src Source) *Pipeline {
	return &Pipeline{src: src}
}

// Pre appends coordinate processors and returns p.
func (p *Pipeline) Pre(procs ...PreProcessor) *Pipeline {
	p.pre = append(p.pre, procs...)
	return p
}

// Post appends value processors and returns p.
func (p *Pipeline) Post(procs ...PostProcessor) *Pipeline {
	p.post = append(p.post, procs...)
	return p
}

func (p *Pipeline) Generate2(x, y float64) float64 {
	for _, pp := range p.pre {
		x, y = pp.Process2(x, y)
	}
	return p.finish(p.src.Generate2(x, y))
}

func (p *Pipeline) Generate3(x, y, z float64) float64 {
	for _, pp := range p.pre {
		x, y, z = pp.Process3(x, y, z)
	}
	return p.finish(p.src.Generate3(x, y, z))
}

func (p *Pipeline) finish(v float64) float64 {
	for _, pp := range p.post {
		v = pp.Process(v)
	}
	return v
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// lcg is the 64-bit linear congruential stream used to derive offsets and
// shuffle permutation tables from a seed.
type lcg struct{ state int64 }

func (r *lcg) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// intn returns a value in [0,n).
func (r *lcg) intn(n int) int {
	return int(uint64(r.next()>>33) % uint64(n))
}

// float returns a value in [0,1).
func (r *lcg) float() float64 {
	return float64(uint64(r.next())>>11) / (1 << 53)
}

// permutation returns a shuffled identity table of length n, doubled so
// that lookups of the form perm[perm[i]+j] need no wrapping.
func permutation(seed int64, n int) []int {
	p := make([]int, 2*n)
	for i := 0; i < n; i++ {
		p[i] = i
	}
	r := &lcg{state: seed}
	for i := n - 1; i > 0; i-- {
		j := r.intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	copy(p[n:], p[:n])
	return p
}
