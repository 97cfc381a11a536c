package config

// Config holds the realm generation settings.
type Config struct {
	Name          string `json:"name"`
	Seed          int64  `json:"seed"`
	GeneratorType string `json:"generator_type"` // "default" or "flat"
	Options       string `json:"generator_options"`

	// Region to fill, in chunks.
	StartX int `json:"start_x"`
	StartZ int `json:"start_z"`
	CountX int `json:"count_x"`
	CountZ int `json:"count_z"`

	Speed        string `json:"speed"`   // full, fast, normal, slow or minimal
	Workers      int    `json:"workers"` // 0 = GOMAXPROCS
	SkipLighting bool   `json:"skip_lighting"`

	Format string `json:"format"` // "region" or "leveldb"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:          "realm",
		GeneratorType: "default",
		StartX:        -4,
		StartZ:        -4,
		CountX:        8,
		CountZ:        8,
		Speed:         "full",
		Format:        "region",
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["name"] {
		cfg.Name = fromFile.Name
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["options"] {
		cfg.Options = fromFile.Options
	}
	if !explicitFlags["x"] {
		cfg.StartX = fromFile.StartX
	}
	if !explicitFlags["z"] {
		cfg.StartZ = fromFile.StartZ
	}
	if !explicitFlags["width"] {
		cfg.CountX = fromFile.CountX
	}
	if !explicitFlags["depth"] {
		cfg.CountZ = fromFile.CountZ
	}
	if !explicitFlags["speed"] {
		cfg.Speed = fromFile.Speed
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["skip-lighting"] {
		cfg.SkipLighting = fromFile.SkipLighting
	}
	if !explicitFlags["format"] {
		cfg.Format = fromFile.Format
	}
}
