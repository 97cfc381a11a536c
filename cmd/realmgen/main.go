package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/realmgen/internal/config"
	"github.com/OCharnyshevich/realmgen/internal/realm"
	"github.com/OCharnyshevich/realmgen/internal/storage"
	"github.com/OCharnyshevich/realmgen/pkg/world/gen"
)

func main() {
	cfg := config.DefaultConfig()

	dir := flag.String("dir", "./realm", "realm directory")
	verbose := flag.Bool("v", false, "log every finished tile")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "realm name")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, "terrain generator (default, flat)")
	flag.StringVar(&cfg.Options, "options", cfg.Options, "generator options")
	flag.IntVar(&cfg.StartX, "x", cfg.StartX, "first chunk x")
	flag.IntVar(&cfg.StartZ, "z", cfg.StartZ, "first chunk z")
	flag.IntVar(&cfg.CountX, "width", cfg.CountX, "region width in chunks")
	flag.IntVar(&cfg.CountZ, "depth", cfg.CountZ, "region depth in chunks")
	flag.StringVar(&cfg.Speed, "speed", cfg.Speed, "generation speed (full, fast, normal, slow, minimal)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker goroutines (0 = GOMAXPROCS)")
	flag.BoolVar(&cfg.SkipLighting, "skip-lighting", cfg.SkipLighting, "skip the lighting populators")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "chunk storage (region, leveldb)")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *dir, cfg, explicit, log); err != nil {
		log.Error("realm generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dir string, cfg *config.Config, explicit map[string]bool, log *slog.Logger) error {
	store, err := storage.New(dir, log)
	if err != nil {
		return err
	}
	fromFile := config.DefaultConfig()
	if err := store.LoadConfig(fromFile); err != nil {
		return err
	}
	config.Merge(cfg, fromFile, explicit)

	// An existing realm keeps the generator it was created with.
	lvl, exists, err := store.LoadLevel()
	if err != nil {
		return err
	}
	if exists {
		if cfg.Seed != lvl.Seed || cfg.GeneratorType != lvl.Generator || cfg.Options != lvl.GeneratorOptions {
			log.Warn("using the realm's saved generator settings", "seed", lvl.Seed, "generator", lvl.Generator)
		}
		cfg.Name, cfg.Seed, cfg.GeneratorType, cfg.Options = lvl.Name, lvl.Seed, lvl.Generator, lvl.GeneratorOptions
	}

	g, err := gen.NewDefaultRegistry().Create(cfg.GeneratorType)
	if err != nil {
		return err
	}
	if exists && g.Version() != lvl.GeneratorVersion {
		log.Warn("generator version changed", "saved", lvl.GeneratorVersion, "current", g.Version())
	}
	if err := g.Initialize(cfg.Seed, cfg.Options); err != nil {
		return err
	}

	speed, err := realm.ParseSpeed(cfg.Speed)
	if err != nil {
		return err
	}
	region := realm.Region{StartX: cfg.StartX, StartZ: cfg.StartZ, CountX: cfg.CountX, CountZ: cfg.CountZ}
	if err := region.Validate(); err != nil {
		return err
	}

	provider, err := store.OpenProvider(cfg.Format)
	if err != nil {
		return err
	}
	defer provider.Close()

	r := realm.New(g, log)
	loaded := 0
	if exists {
		r.SetInitialized(lvl.Initialized)
		if loaded, err = storage.LoadRegion(provider, r, region); err != nil {
			return err
		}
	}

	bulk := realm.NewBulkGenerator(r, realm.Options{
		Speed:        speed,
		Workers:      cfg.Workers,
		SkipLighting: cfg.SkipLighting,
		OnProgress: func(p realm.Progress) {
			log.Info("generation progress", "completed", p.Completed, "total", p.Total)
		},
		OnPopulation: func(p realm.PopulationProgress) {
			log.Info("population progress", "populator", p.Populator,
				"pass", p.PopulatorsDone+1, "passes", p.TotalPopulators,
				"completed", p.Completed, "total", p.Total)
		},
	}, log)

	if loaded == region.Count() {
		log.Info("region already generated, populating", "region", region)
		err = bulk.Populate(ctx, region)
	} else {
		err = bulk.Run(ctx, region)
	}
	if err != nil {
		return err
	}

	saved, err := storage.SaveRealm(provider, r)
	if err != nil {
		return err
	}
	if !exists {
		lvl = storage.NewLevel(cfg.Name, cfg.Seed, g, cfg.Options)
	}
	lvl.Initialized = r.Initialized()
	lvl.LastPlayed = 0
	if err := store.SaveLevel(lvl); err != nil {
		return err
	}
	if err := store.SaveConfig(cfg); err != nil {
		return err
	}
	log.Info("realm saved", "dir", store.Dir(), "chunks", saved, "format", cfg.Format)
	return nil
}
