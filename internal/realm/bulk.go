package realm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/gen"
)

var (
	// ErrBatchFailed wraps the first error raised by any work unit of a batch.
	ErrBatchFailed = errors.New("realm: batch failed")
	// ErrChunkNotFound is raised when population reaches a chunk that was
	// never generated or loaded.
	ErrChunkNotFound = errors.New("realm: chunk not loaded")
)

// Progress reports a batch's completed chunk count. Counts only increase
// within a phase, but events from different workers may arrive out of order.
type Progress struct {
	Region    Region
	Completed int
	Total     int
}

// PopulationProgress is Progress for one populator pass.
type PopulationProgress struct {
	Progress
	Populator       string
	PopulatorsDone  int
	TotalPopulators int
}

// Options configures a BulkGenerator. Callbacks run on worker goroutines
// and must be safe for concurrent use.
type Options struct {
	Speed        Speed
	Workers      int // defaults to GOMAXPROCS
	SkipLighting bool

	OnProgress   func(Progress)
	OnPopulation func(PopulationProgress)
}

// BulkGenerator fills regions of a realm using a bounded worker pool.
type BulkGenerator struct {
	realm *Realm
	opts  Options
	log   *slog.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBulkGenerator creates a bulk generator for realm.
func NewBulkGenerator(realm *Realm, opts Options, log *slog.Logger) *BulkGenerator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &BulkGenerator{realm: realm, opts: opts, log: log, sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run generates region and then populates it as one batch.
func (b *BulkGenerator) Run(ctx context.Context, region Region) error {
	if err := region.Validate(); err != nil {
		return err
	}
	b.realm.batch.Lock()
	defer b.realm.batch.Unlock()

	if err := b.generate(ctx, region); err != nil {
		return err
	}
	return b.populate(ctx, region)
}

// Generate calls the realm's generator once for every chunk in region,
// replacing any chunk already loaded there. On success the realm is marked
// initialized.
func (b *BulkGenerator) Generate(ctx context.Context, region Region) error {
	if err := region.Validate(); err != nil {
		return err
	}
	b.realm.batch.Lock()
	defer b.realm.batch.Unlock()
	return b.generate(ctx, region)
}

// Populate runs every populator of the realm's generator over region. Each
// populator finishes the whole region before the next one starts. Chunks
// already marked populated are left alone; the last pass marks the rest.
func (b *BulkGenerator) Populate(ctx context.Context, region Region) error {
	if err := region.Validate(); err != nil {
		return err
	}
	b.realm.batch.Lock()
	defer b.realm.batch.Unlock()
	return b.populate(ctx, region)
}

// counter is the per-phase completed count.
type counter struct {
	mu        sync.Mutex
	completed int
}

func (c *counter) add(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed += n
	return c.completed
}

func (b *BulkGenerator) generate(ctx context.Context, region Region) error {
	id := uuid.New()
	start := time.Now()
	tiles := region.Tiles(b.opts.Speed.TileSide())
	total := region.Count()
	log := b.log.With("batch", id, "phase", "generate")
	log.Info("batch started", "region", region, "tiles", len(tiles), "speed", b.opts.Speed, "workers", b.opts.Workers)

	var done counter
	err := b.runTiles(ctx, tiles, func(ctx context.Context, pos chunk.Pos) error {
		c, err := b.realm.generator.GenerateChunk(pos)
		if err != nil {
			return fmt.Errorf("generate chunk %v: %w", pos, err)
		}
		b.realm.Store(c)
		return nil
	}, func(tile Region) {
		n := done.add(tile.Count())
		log.Debug("tile done", "tile", tile, "completed", n, "total", total)
		if b.opts.OnProgress != nil {
			b.opts.OnProgress(Progress{Region: region, Completed: n, Total: total})
		}
	})
	if err != nil {
		log.Error("batch failed", "error", err)
		return fmt.Errorf("%w: %s: %w", ErrBatchFailed, id, err)
	}

	b.realm.SetInitialized(true)
	log.Info("batch finished", "chunks", total, "elapsed", time.Since(start))
	return nil
}

// activePopulators returns the passes to run, without lighting when it is
// skipped.
func (b *BulkGenerator) activePopulators() []gen.Populator {
	all := b.realm.generator.Populators()
	if !b.opts.SkipLighting {
		return all
	}
	out := make([]gen.Populator, 0, len(all))
	for _, p := range all {
		if !gen.IsLighting(p) {
			out = append(out, p)
		}
	}
	return out
}

func (b *BulkGenerator) populate(ctx context.Context, region Region) error {
	id := uuid.New()
	start := time.Now()
	pops := b.activePopulators()
	tiles := region.Tiles(b.opts.Speed.TileSide())
	total := region.Count()
	log := b.log.With("batch", id, "phase", "populate")
	log.Info("batch started", "region", region, "populators", len(pops), "skipLighting", b.opts.SkipLighting)

	for i, p := range pops {
		last := i == len(pops)-1
		plog := log.With("populator", p.Name())

		var done counter
		err := b.runTiles(ctx, tiles, func(ctx context.Context, pos chunk.Pos) error {
			c, ok := b.realm.Chunk(pos)
			if !ok {
				return fmt.Errorf("%s at %v: %w", p.Name(), pos, ErrChunkNotFound)
			}
			if c.TerrainPopulated() {
				return nil
			}
			if err := p.PopulateChunk(b.realm, c); err != nil {
				return fmt.Errorf("%s at %v: %w", p.Name(), pos, err)
			}
			if last {
				c.SetTerrainPopulated(true)
			}
			return nil
		}, func(tile Region) {
			n := done.add(tile.Count())
			plog.Debug("tile done", "tile", tile, "completed", n, "total", total)
			if b.opts.OnPopulation != nil {
				b.opts.OnPopulation(PopulationProgress{
					Progress:        Progress{Region: region, Completed: n, Total: total},
					Populator:       p.Name(),
					PopulatorsDone:  i,
					TotalPopulators: len(pops),
				})
			}
		})
		if err != nil {
			plog.Error("batch failed", "error", err)
			return fmt.Errorf("%w: %s: %w", ErrBatchFailed, id, err)
		}
		plog.Info("populator finished", "done", i+1, "of", len(pops))
	}

	log.Info("batch finished", "chunks", total, "elapsed", time.Since(start))
	return nil
}

// runTiles runs work for every chunk of every tile on the worker pool,
// sequentially inside a tile. After a tile it sleeps the speed's delay and
// then calls tileDone. The first error cancels the remaining tiles and is
// returned once every started worker has stopped.
func (b *BulkGenerator) runTiles(ctx context.Context, tiles []Region,
	work func(context.Context, chunk.Pos) error, tileDone func(Region)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	delay := b.opts.Speed.Delay()

	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			for _, pos := range tile.Positions() {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := work(gctx, pos); err != nil {
					return err
				}
			}
			if err := b.sleep(gctx, delay); err != nil {
				return err
			}
			tileDone(tile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// gctx is always cancelled once Wait returns; only the caller's
	// cancellation counts here. It may stop the loop before any worker sees it.
	return ctx.Err()
}
