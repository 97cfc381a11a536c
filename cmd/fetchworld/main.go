package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/realmgen/internal/storage"
)

func main() {
	var (
		src = flag.String("src", "", "world archive url (any go-getter source)")
		out = flag.String("o", "./world", "output dir path")
		fix = flag.Bool("fix", false, "rewrite repaired chunks in place")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *src == "" {
		log.Error("source url required")
		os.Exit(2)
	}
	if *out == "" {
		log.Error("output dir path required")
		os.Exit(2)
	}

	if err := os.RemoveAll(*out); err != nil {
		log.Error("clean output dir", "error", err)
		os.Exit(1)
	}

	log.Info("start downloading world", "src", *src, "dst", *out)
	if err := get.Get(*out, *src); err != nil {
		log.Error("download world", "error", err)
		os.Exit(1)
	}
	log.Info("done downloading world", "dst", *out)

	store, err := storage.New(*out, log)
	if err != nil {
		log.Error("open world", "error", err)
		os.Exit(1)
	}
	if lvl, ok, err := store.LoadLevel(); err != nil {
		log.Warn("level.dat unreadable", "error", err)
	} else if ok {
		log.Info("level", "name", lvl.Name, "seed", lvl.Seed, "generator", lvl.Generator, "version", lvl.GeneratorVersion)
	}

	rep, err := storage.ValidateRegionDir(filepath.Join(*out, "region"), *fix, log)
	if err != nil {
		log.Error("validate regions", "error", err)
		os.Exit(1)
	}
	if len(rep.Failed) > 0 {
		for _, f := range rep.Failed {
			log.Warn("broken chunk", "file", f.File, "x", f.X, "z", f.Z, "error", f.Err)
		}
		os.Exit(1)
	}
}
