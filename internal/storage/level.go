package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
	"github.com/OCharnyshevich/realmgen/pkg/world/gen"
	"github.com/OCharnyshevich/realmgen/pkg/world/tag"
)

// Level is the realm-wide record kept in level.dat.
type Level struct {
	Name             string
	Seed             int64
	Generator        string
	GeneratorVersion int
	GeneratorOptions string
	SpawnX           int
	SpawnY           int
	SpawnZ           int
	Time             int64
	LastPlayed       int64 // unix milliseconds
	Initialized      bool
}

// NewLevel describes a fresh realm built by g.
func NewLevel(name string, seed int64, g gen.Generator, options string) Level {
	return Level{
		Name:             name,
		Seed:             seed,
		Generator:        g.Name(),
		GeneratorVersion: g.Version(),
		GeneratorOptions: options,
		SpawnY:           64,
	}
}

type levelData struct {
	LevelName        string `nbt:"LevelName"`
	RandomSeed       int64  `nbt:"RandomSeed"`
	GeneratorName    string `nbt:"generatorName"`
	GeneratorVersion int32  `nbt:"generatorVersion"`
	GeneratorOptions string `nbt:"generatorOptions"`
	SpawnX           int32  `nbt:"SpawnX"`
	SpawnY           int32  `nbt:"SpawnY"`
	SpawnZ           int32  `nbt:"SpawnZ"`
	Time             int64  `nbt:"Time"`
	LastPlayed       int64  `nbt:"LastPlayed"`
	Initialized      bool   `nbt:"initialized"`
}

type levelRoot struct {
	Data levelData `nbt:"Data"`
}

// WriteLevel writes l to w as gzip-compressed NBT, stamping LastPlayed.
func WriteLevel(w io.Writer, l Level) error {
	if l.LastPlayed == 0 {
		l.LastPlayed = time.Now().UnixMilli()
	}
	root := levelRoot{Data: levelData{
		LevelName:        l.Name,
		RandomSeed:       l.Seed,
		GeneratorName:    l.Generator,
		GeneratorVersion: int32(l.GeneratorVersion),
		GeneratorOptions: l.GeneratorOptions,
		SpawnX:           int32(l.SpawnX),
		SpawnY:           int32(l.SpawnY),
		SpawnZ:           int32(l.SpawnZ),
		Time:             l.Time,
		LastPlayed:       l.LastPlayed,
		Initialized:      l.Initialized,
	}}

	zw := gzip.NewWriter(w)
	if err := nbt.NewEncoder(zw).Encode(root, ""); err != nil {
		return fmt.Errorf("encode level: %w", err)
	}
	return zw.Close()
}

// ReadLevel parses level.dat. LevelName, RandomSeed, generatorName and
// generatorVersion are required; a missing one fails with chunk.ErrFormat.
// Every other field falls back to its default.
func ReadLevel(r io.Reader) (Level, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return Level{}, fmt.Errorf("%w: level: %v", chunk.ErrFormat, err)
	}
	defer zr.Close()

	root, err := tag.Read(zr)
	if err != nil {
		return Level{}, fmt.Errorf("%w: level: %v", chunk.ErrFormat, err)
	}
	data, ok := root.Compound("Data")
	if !ok {
		return Level{}, fmt.Errorf("%w: level: Data is missing or not a compound", chunk.ErrFormat)
	}

	var l Level
	var version int32
	var okName, okSeed, okGen, okVer bool
	l.Name, okName = data.Text("LevelName")
	l.Seed, okSeed = data.Long("RandomSeed")
	l.Generator, okGen = data.Text("generatorName")
	version, okVer = data.Int("generatorVersion")
	for _, req := range []struct {
		field string
		ok    bool
	}{
		{"LevelName", okName},
		{"RandomSeed", okSeed},
		{"generatorName", okGen},
		{"generatorVersion", okVer},
	} {
		if !req.ok {
			return Level{}, fmt.Errorf("%w: level: %s is missing", chunk.ErrFormat, req.field)
		}
	}
	l.GeneratorVersion = int(version)

	l.GeneratorOptions, _ = data.Text("generatorOptions")
	l.SpawnY = 64
	if v, ok := data.Int("SpawnX"); ok {
		l.SpawnX = int(v)
	}
	if v, ok := data.Int("SpawnY"); ok {
		l.SpawnY = int(v)
	}
	if v, ok := data.Int("SpawnZ"); ok {
		l.SpawnZ = int(v)
	}
	l.Time, _ = data.Long("Time")
	l.LastPlayed, _ = data.Long("LastPlayed")
	if v, ok := data.Byte("initialized"); ok {
		l.Initialized = v != 0
	}
	return l, nil
}
