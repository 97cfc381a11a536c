package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OCharnyshevich/realmgen/internal/config"
)

// Storage handles file-based persistence for a realm directory: config,
// level record and chunk data.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating it as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the realm directory.
func (s *Storage) Dir() string { return s.dir }

// LoadConfig reads config.json into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.json atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return atomicWrite(filepath.Join(s.dir, "config.json"), append(data, '\n'))
}

// LoadLevel reads level.dat. The bool is false when the file does not exist.
func (s *Storage) LoadLevel() (Level, bool, error) {
	f, err := os.Open(filepath.Join(s.dir, "level.dat"))
	if err != nil {
		if os.IsNotExist(err) {
			return Level{}, false, nil
		}
		return Level{}, false, fmt.Errorf("read level: %w", err)
	}
	defer f.Close()
	l, err := ReadLevel(f)
	if err != nil {
		return Level{}, false, err
	}
	return l, true, nil
}

// SaveLevel writes level.dat atomically.
func (s *Storage) SaveLevel(l Level) error {
	var buf bytes.Buffer
	if err := WriteLevel(&buf, l); err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.dir, "level.dat"), buf.Bytes())
}

// OpenProvider opens the chunk store for format, "region" or "leveldb".
func (s *Storage) OpenProvider(format string) (Provider, error) {
	switch format {
	case "", "region":
		return NewRegionProvider(filepath.Join(s.dir, "region"), s.log)
	case "leveldb":
		return OpenLevelDB(filepath.Join(s.dir, "db"))
	}
	return nil, fmt.Errorf("unknown storage format %q", format)
}

// atomicWrite writes data using a temp file + rename.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
