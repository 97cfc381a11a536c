package noise

import (
	"math"
	"testing"
)

func mustPerlin(t *testing.T, seed int64, octaves int) *Perlin {
	t.Helper()
	p, err := NewPerlin(seed, octaves)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustCell(t *testing.T, seed int64, d Distance, c Combination) *Cell {
	t.Helper()
	n, err := NewCell(seed, d, c)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func mustRidged(t *testing.T, basis Source) *RidgedMulti {
	t.Helper()
	r, err := NewRidgedMulti(basis, 6, 2)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestSourcesStayInRange(t *testing.T) {
	sources := map[string]Source{
		"white":    NewWhite(7),
		"value":    NewValue(7),
		"perlin":   mustPerlin(t, 7, 6),
		"simplex":  NewSimplex(7),
		"cell-d1":  mustCell(t, 7, Euclidean, D1),
		"cell-d2":  mustCell(t, 7, Manhattan, D2MinusD1),
		"cell-d3":  mustCell(t, 7, Chebyshev, D3MinusD1),
		"ridged":   mustRidged(t, NewSimplex(7)),
		"sine":     Sine{Freq: 0.3},
		"octaves":  Octaves{Source: NewSimplex(7), Count: 4, Persistence: 0.5},
		"combine":  Combiner{A: NewSimplex(1), B: NewSimplex(2), Op: Add, Clamp: true},
		"selector": Selector{A: NewSimplex(1), B: NewValue(2), Control: NewSimplex(3), Blend: true},
		"pipeline": NewPipeline(NewSimplex(7)).Pre(UniformScale(0.05), NewRotate(10, 20, 30)).Post(Clamp{-1, 1}),
	}

	for name, src := range sources {
		for i := 0; i < 5000; i++ {
			x := float64(i)*0.37 - 500
			y := float64(i)*0.53 - 500
			z := float64(i)*0.71 - 500
			if v := src.Generate2(x, y); v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s: Generate2(%f, %f) = %f, out of [-1,1]", name, x, y, v)
			}
			if v := src.Generate3(x, y, z); v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s: Generate3(%f, %f, %f) = %f, out of [-1,1]", name, x, y, z, v)
			}
		}
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	pairs := map[string][2]Source{
		"white":   {NewWhite(99), NewWhite(99)},
		"value":   {NewValue(99), NewValue(99)},
		"perlin":  {mustPerlin(t, 99, 8), mustPerlin(t, 99, 8)},
		"simplex": {NewSimplex(99), NewSimplex(99)},
		"cell":    {mustCell(t, 99, Euclidean, D1), mustCell(t, 99, Euclidean, D1)},
		"ridged":  {mustRidged(t, mustPerlin(t, 99, 4)), mustRidged(t, mustPerlin(t, 99, 4))},
	}
	for name, p := range pairs {
		for i := 0; i < 200; i++ {
			x := float64(i) * 0.15
			y := float64(i) * 0.25
			z := float64(i) * 0.35
			if p[0].Generate2(x, y) != p[1].Generate2(x, y) {
				t.Fatalf("%s: Generate2 not deterministic at (%f, %f)", name, x, y)
			}
			if p[0].Generate3(x, y, z) != p[1].Generate3(x, y, z) {
				t.Fatalf("%s: Generate3 not deterministic at (%f, %f, %f)", name, x, y, z)
			}
		}
	}
}

func TestDifferentSeedsDifferentNoise(t *testing.T) {
	pairs := map[string][2]Source{
		"white":   {NewWhite(1), NewWhite(2)},
		"perlin":  {mustPerlin(t, 1, 8), mustPerlin(t, 2, 8)},
		"simplex": {NewSimplex(1), NewSimplex(2)},
		"cell":    {mustCell(t, 1, Euclidean, D1), mustCell(t, 2, Euclidean, D1)},
	}
	for name, p := range pairs {
		different := false
		for i := 0; i < 100; i++ {
			x := float64(i)*0.1 + 0.05
			y := float64(i)*0.2 + 0.05
			if p[0].Generate2(x, y) != p[1].Generate2(x, y) {
				different = true
				break
			}
		}
		if !different {
			t.Errorf("%s: different seeds should produce different noise", name)
		}
	}
}

func TestPerlinOctaveBounds(t *testing.T) {
	for _, n := range []int{0, -1, MaxPerlinOctaves + 1} {
		if _, err := NewPerlin(1, n); err == nil {
			t.Errorf("NewPerlin(octaves=%d) should fail", n)
		}
	}
	p := mustPerlin(t, 1, 3)
	if len(p.perm) != 2*8 {
		t.Fatalf("permutation length = %d, want 16", len(p.perm))
	}
}

func TestWhiteIsConstantWithinCell(t *testing.T) {
	w := NewWhite(5)
	if w.Generate3(2.1, 3.2, 4.3) != w.Generate3(2.9, 3.9, 4.9) {
		t.Fatal("white noise should not vary inside one lattice cell")
	}
}

type recorder struct {
	x, y, z float64
}

func (r *recorder) Generate2(x, y float64) float64 {
	r.x, r.y = x, y
	return 0.5
}

func (r *recorder) Generate3(x, y, z float64) float64 {
	r.x, r.y, r.z = x, y, z
	return 0.5
}

func TestPipelineOrder(t *testing.T) {
	rec := &recorder{}
	p := NewPipeline(rec).
		Pre(Translate{X: 1, Y: 2, Z: 3}, UniformScale(10)).
		Post(Range{FromMin: 0, FromMax: 1, ToMin: 0, ToMax: 4}, Invert{})

	got := p.Generate3(1, 1, 1)
	if rec.x != 20 || rec.y != 30 || rec.z != 40 {
		t.Fatalf("source saw (%v,%v,%v), want (20,30,40)", rec.x, rec.y, rec.z)
	}
	if got != -2 {
		t.Fatalf("output = %v, want -2", got)
	}

	p2 := NewPipeline(rec).Pre(UniformScale(10), Translate{X: 1, Y: 2})
	p2.Generate2(1, 1)
	if rec.x != 11 || rec.y != 12 {
		t.Fatalf("source saw (%v,%v), want (11,12)", rec.x, rec.y)
	}
}

func TestRotate(t *testing.T) {
	r := NewRotate(0, 0, 90)
	x, y, z := r.Process3(1, 0, 0)
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 || math.Abs(z) > 1e-9 {
		t.Fatalf("rotate z 90 of (1,0,0) = (%v,%v,%v), want (0,1,0)", x, y, z)
	}
	x, y = NewRotate(0, 0, 180).Process2(2, 0)
	if math.Abs(x+2) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Fatalf("rotate z 180 of (2,0) = (%v,%v), want (-2,0)", x, y)
	}
}

func TestCombiner(t *testing.T) {
	a, b := Constant(0.75), Constant(0.5)
	tests := []struct {
		op    Op
		clamp bool
		want  float64
	}{
		{Add, false, 1.25},
		{Add, true, 1},
		{Subtract, false, 0.25},
		{Multiply, false, 0.375},
		{Average, false, 0.625},
		{Min, false, 0.5},
		{Max, false, 0.75},
	}
	for _, tt := range tests {
		c := Combiner{A: a, B: b, Op: tt.op, Clamp: tt.clamp}
		if got := c.Generate2(0, 0); got != tt.want {
			t.Errorf("%s clamp=%v: got %v, want %v", tt.op, tt.clamp, got, tt.want)
		}
	}
}

func TestSelector(t *testing.T) {
	a, b := Constant(-1), Constant(1)

	sw := Selector{A: a, B: b, Control: Constant(0.2), Cutoff: 0.5}
	if got := sw.Generate2(0, 0); got != -1 {
		t.Errorf("switch below cutoff = %v, want -1", got)
	}
	sw.Control = Constant(0.7)
	if got := sw.Generate3(0, 0, 0); got != 1 {
		t.Errorf("switch above cutoff = %v, want 1", got)
	}

	bl := Selector{A: a, B: b, Control: Constant(0), Blend: true}
	if got := bl.Generate2(0, 0); got != 0 {
		t.Errorf("blend at control 0 = %v, want 0", got)
	}
	bl.Control = Constant(1)
	if got := bl.Generate2(0, 0); got != 1 {
		t.Errorf("blend at control 1 = %v, want 1", got)
	}
}

func TestInsertNearest(t *testing.T) {
	a := [cellNearest]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	for _, d := range []float64{5, 1, 4, 0.5, 9} {
		insertNearest(&a, d)
	}
	if a != [cellNearest]float64{0.5, 1, 4} {
		t.Fatalf("nearest = %v, want [0.5 1 4]", a)
	}
}

func TestFeatureCount(t *testing.T) {
	if n := featureCount(0); n != 1 {
		t.Errorf("featureCount(0) = %d, want 1", n)
	}
	if n := featureCount(math.MaxUint32); n != 9 {
		t.Errorf("featureCount(max) = %d, want 9", n)
	}
}
