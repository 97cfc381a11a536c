package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Tnze/go-mc/save/region"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// ChunkReport describes one chunk that did not decode cleanly.
type ChunkReport struct {
	File    string
	X, Z    int // sector within the file
	Pos     chunk.Pos
	Repairs chunk.Repairs
	Err     error
}

// Report summarizes a ValidateRegionDir run.
type Report struct {
	Files    int
	Chunks   int
	Repaired []ChunkReport
	Failed   []ChunkReport
}

// ValidateRegionDir decodes every chunk of every region file in dir.
// Chunks whose fields had to be defaulted are listed in Repaired; with fix
// set they are rewritten in place with recomputed height maps. Chunks that
// cannot be decoded at all are listed in Failed and left untouched.
func ValidateRegionDir(dir string, fix bool, log *slog.Logger) (*Report, error) {
	files, err := filepath.Glob(filepath.Join(dir, "r.*.*.mca"))
	if err != nil {
		return nil, fmt.Errorf("list region files: %w", err)
	}
	slices.Sort(files)

	rep := &Report{}
	for _, path := range files {
		if err := validateFile(path, fix, rep, log); err != nil {
			return rep, err
		}
		rep.Files++
	}
	log.Info("region validation finished", "dir", dir, "files", rep.Files, "chunks", rep.Chunks,
		"repaired", len(rep.Repaired), "failed", len(rep.Failed))
	return rep, nil
}

func validateFile(path string, fix bool, rep *Report, log *slog.Logger) error {
	r, err := region.Open(path)
	if err != nil {
		return fmt.Errorf("open region %s: %w", path, err)
	}
	defer r.Close()

	name := filepath.Base(path)
	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			if !r.ExistSector(x, z) {
				continue
			}
			rep.Chunks++

			data, err := r.ReadSector(x, z)
			if err == nil {
				data, err = decompress(data)
			}
			if err != nil {
				rep.Failed = append(rep.Failed, ChunkReport{File: name, X: x, Z: z, Err: err})
				log.Warn("unreadable chunk", "file", name, "x", x, "z", z, "error", err)
				continue
			}

			c, repairs, err := chunk.DecodeWithRepairs(data)
			if err != nil {
				rep.Failed = append(rep.Failed, ChunkReport{File: name, X: x, Z: z, Err: err})
				log.Warn("undecodable chunk", "file", name, "x", x, "z", z, "error", err)
				continue
			}
			if len(repairs) == 0 {
				continue
			}

			rep.Repaired = append(rep.Repaired, ChunkReport{File: name, X: x, Z: z, Pos: c.Pos(), Repairs: repairs})
			log.Info("chunk repaired", "file", name, "pos", c.Pos(), "repairs", strings.Join(repairs, "; "))
			if !fix {
				continue
			}
			c.RecalculateHeights()
			fixed, err := compress(c)
			if err != nil {
				return err
			}
			if err := r.WriteSector(x, z, fixed); err != nil {
				return fmt.Errorf("rewrite chunk %v in %s: %w", c.Pos(), name, err)
			}
		}
	}
	return nil
}
