package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tnze/go-mc/save/region"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// RegionProvider stores chunks in .mca region files, 32x32 chunks per file.
// Open files are cached until Close.
type RegionProvider struct {
	dir string
	log *slog.Logger

	mu    sync.Mutex
	files map[[2]int]*region.Region
}

// NewRegionProvider creates a provider over dir, creating it if needed.
func NewRegionProvider(dir string, log *slog.Logger) (*RegionProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &RegionProvider{dir: dir, log: log, files: make(map[[2]int]*region.Region)}, nil
}

// RegionFileName returns the file holding the chunk at pos.
func RegionFileName(pos chunk.Pos) string {
	return fmt.Sprintf("r.%d.%d.mca", pos.X>>5, pos.Z>>5)
}

// file returns the region file for pos. With create unset a missing file
// yields ErrNotFound. Callers hold p.mu.
func (p *RegionProvider) file(pos chunk.Pos, create bool) (*region.Region, error) {
	key := [2]int{pos.X >> 5, pos.Z >> 5}
	if r, ok := p.files[key]; ok {
		return r, nil
	}

	path := filepath.Join(p.dir, RegionFileName(pos))
	r, err := region.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if !create {
			return nil, ErrNotFound
		}
		r, err = region.Create(path)
		if err == nil {
			p.log.Debug("region file created", "path", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open region %s: %w", path, err)
	}
	p.files[key] = r
	return r, nil
}

// Load reads the chunk at pos.
func (p *RegionProvider) Load(pos chunk.Pos) (*chunk.Chunk, error) {
	p.mu.Lock()
	r, err := p.file(pos, false)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	x, z := pos.X&31, pos.Z&31
	if !r.ExistSector(x, z) {
		p.mu.Unlock()
		return nil, ErrNotFound
	}
	data, err := r.ReadSector(x, z)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read chunk %v: %w", pos, err)
	}

	raw, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("chunk %v: %w", pos, err)
	}
	c, err := chunk.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("chunk %v: %w", pos, err)
	}
	if c.Pos() != pos {
		return nil, fmt.Errorf("%w: chunk %v stored at %v", chunk.ErrFormat, c.Pos(), pos)
	}
	return c, nil
}

// Save writes c, creating its region file if needed.
func (p *RegionProvider) Save(c *chunk.Chunk) error {
	data, err := compress(c)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	r, err := p.file(c.Pos(), true)
	if err != nil {
		return err
	}
	if err := r.WriteSector(c.Pos().X&31, c.Pos().Z&31, data); err != nil {
		return fmt.Errorf("write chunk %v: %w", c.Pos(), err)
	}
	return nil
}

// Close closes every open region file.
func (p *RegionProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for key, r := range p.files {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close region %d,%d: %w", key[0], key[1], err))
		}
		delete(p.files, key)
	}
	return errors.Join(errs...)
}
