package realm

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/gen"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubGenerator counts GenerateChunk calls and can fail at one position.
type stubGenerator struct {
	calls   atomic.Int64
	failAt  *chunk.Pos
	pops    []gen.Populator
	stoneTo int
}

func (g *stubGenerator) Name() string                   { return "stub" }
func (g *stubGenerator) Version() int                   { return 1 }
func (g *stubGenerator) Initialize(int64, string) error { return nil }
func (g *stubGenerator) Populators() []gen.Populator    { return g.pops }

func (g *stubGenerator) GenerateChunk(pos chunk.Pos) (*chunk.Chunk, error) {
	g.calls.Add(1)
	if g.failAt != nil && *g.failAt == pos {
		return nil, errors.New("boom")
	}
	b := gen.NewBuilder(pos)
	if err := b.Fill(gen.Box{MaxX: 16, MaxY: max(g.stoneTo, 1), MaxZ: 16}, block.Stone, 0); err != nil {
		return nil, err
	}
	return b.Chunk(), nil
}

// recorder logs every (populator, chunk) visit in order.
type recorder struct {
	mu     sync.Mutex
	visits []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.visits = append(r.visits, s)
	r.mu.Unlock()
}

type recordingPopulator struct {
	name     string
	lighting bool
	rec      *recorder
	err      error
}

func (p *recordingPopulator) Name() string   { return p.name }
func (p *recordingPopulator) Lighting() bool { return p.lighting }

func (p *recordingPopulator) PopulateChunk(_ gen.ChunkSource, c *chunk.Chunk) error {
	p.rec.add(p.name)
	return p.err
}

func TestGetOrGenerateChunkCaches(t *testing.T) {
	g := &stubGenerator{stoneTo: 4}
	r := New(g, testLogger())

	var wg sync.WaitGroup
	got := make([]*chunk.Chunk, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := r.GetOrGenerateChunk(chunk.Pos{X: 2, Z: -3})
			if err != nil {
				t.Error(err)
				return
			}
			got[i] = c
		}()
	}
	wg.Wait()

	for _, c := range got[1:] {
		if c != got[0] {
			t.Fatal("GetOrGenerateChunk returned different chunks for one position")
		}
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}

func TestRealmWorldCoordinates(t *testing.T) {
	r := New(&stubGenerator{stoneTo: 4}, testLogger())

	if err := r.SetBlock(-1, 10, 17, chunk.Cell{Type: block.Glowstone}); err != nil {
		t.Fatal(err)
	}
	c, ok := r.Chunk(chunk.Pos{X: -1, Z: 1})
	if !ok {
		t.Fatal("chunk (-1,1) was not generated")
	}
	if id, _ := c.BlockTypeAt(15, 10, 1); id != block.Glowstone {
		t.Fatalf("local block = %d, want glowstone", id)
	}
	cell, err := r.Block(-1, 10, 17)
	if err != nil || cell.Type != block.Glowstone {
		t.Fatalf("Block = %+v, %v", cell, err)
	}
	if _, err := r.Block(0, 300, 0); !errors.Is(err, chunk.ErrOutOfRange) {
		t.Fatalf("Block above the world err = %v, want ErrOutOfRange", err)
	}

	r.Store(chunk.New(chunk.Pos{X: -5, Z: 0}))
	chunks := r.Chunks()
	if len(chunks) != 3 {
		t.Fatalf("Chunks len = %d, want 3", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if !chunks[i-1].Pos().Less(chunks[i].Pos()) {
			t.Fatalf("Chunks not ordered: %v before %v", chunks[i-1].Pos(), chunks[i].Pos())
		}
	}
	if len(r.Modified()) == 0 {
		t.Fatal("edited chunk should be reported modified")
	}
}

func TestRegionTiles(t *testing.T) {
	tests := []struct {
		region Region
		side   int
		tiles  int
	}{
		{Region{CountX: 2, CountZ: 2}, 32, 1},
		{Region{StartX: -3, StartZ: 5, CountX: 10, CountZ: 7}, 4, 6},
		{Region{CountX: 3, CountZ: 3}, 1, 9},
		{Region{CountX: 33, CountZ: 1}, 16, 3},
	}
	for _, tt := range tests {
		tiles := tt.region.Tiles(tt.side)
		if len(tiles) != tt.tiles {
			t.Errorf("%v.Tiles(%d) = %d tiles, want %d", tt.region, tt.side, len(tiles), tt.tiles)
		}
		seen := make(map[chunk.Pos]int)
		for _, tile := range tiles {
			if tile.CountX > tt.side || tile.CountZ > tt.side {
				t.Errorf("tile %v exceeds side %d", tile, tt.side)
			}
			for _, p := range tile.Positions() {
				seen[p]++
			}
		}
		if len(seen) != tt.region.Count() {
			t.Errorf("%v: tiles cover %d chunks, want %d", tt.region, len(seen), tt.region.Count())
		}
		for p, n := range seen {
			if n != 1 || !tt.region.Contains(p) {
				t.Errorf("%v: chunk %v covered %d times", tt.region, p, n)
			}
		}
	}

	if err := (Region{CountX: 0, CountZ: 4}).Validate(); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("Validate empty region err = %v", err)
	}
}

func TestSpeeds(t *testing.T) {
	tests := []struct {
		name  string
		speed Speed
		side  int
		delay time.Duration
	}{
		{"full", SpeedFull, 32, 0},
		{"FAST", SpeedFast, 16, 2 * time.Second},
		{"Normal", SpeedNormal, 8, 5 * time.Second},
		{"slow", SpeedSlow, 4, 7 * time.Second},
		{"minimal", SpeedMinimal, 1, 10 * time.Second},
	}
	for _, tt := range tests {
		s, err := ParseSpeed(tt.name)
		if err != nil {
			t.Fatalf("ParseSpeed(%q): %v", tt.name, err)
		}
		if s != tt.speed || s.TileSide() != tt.side || s.Delay() != tt.delay {
			t.Errorf("%q = %v side %d delay %v", tt.name, s, s.TileSide(), s.Delay())
		}
	}
	if _, err := ParseSpeed("ludicrous"); err == nil {
		t.Fatal("ParseSpeed should reject unknown names")
	}
}
