package chunk

import "sync"

// Biome is a biome id stored per column.
type Biome uint8

// Biome ids used by the bundled generators.
const (
	BiomeOcean      Biome = 0
	BiomePlains     Biome = 1
	BiomeDesert     Biome = 2
	BiomeMountains  Biome = 3
	BiomeForest     Biome = 4
	BiomeTaiga      Biome = 5
	BiomeTundra     Biome = 12
	BiomeBeach      Biome = 16
	BiomeJungle     Biome = 21
	BiomeDarkForest Biome = 29
	BiomeSnowyTaiga Biome = 30
	BiomeSavanna    Biome = 35
)

// DefaultBiome fills a fresh or repaired biome table.
const DefaultBiome = BiomeOcean

// BiomeData is the per-column biome table of a chunk, indexed z*16+x.
type BiomeData struct {
	mu       sync.RWMutex
	cells    [ColumnCount]Biome
	modified bool
}

// NewBiomeData returns a table filled with DefaultBiome.
func NewBiomeData() *BiomeData {
	b := &BiomeData{}
	for i := range b.cells {
		b.cells[i] = DefaultBiome
	}
	return b
}

func biomeDataFrom(raw []byte) *BiomeData {
	b := &BiomeData{}
	for i := range b.cells {
		b.cells[i] = Biome(raw[i])
	}
	return b
}

// Get returns the biome of column (x,z).
func (b *BiomeData) Get(x, z int) (Biome, error) {
	if err := checkColumn(x, z); err != nil {
		return 0, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cells[z<<4|x], nil
}

// Set sets the biome of column (x,z).
func (b *BiomeData) Set(x, z int, v Biome) error {
	if err := checkColumn(x, z); err != nil {
		return err
	}
	b.mu.Lock()
	b.cells[z<<4|x] = v
	b.modified = true
	b.mu.Unlock()
	return nil
}

// Bytes returns a copy of the table.
func (b *BiomeData) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]byte, ColumnCount)
	for i, v := range b.cells {
		out[i] = byte(v)
	}
	return out
}

// Modified reports whether the table changed since the flag was cleared.
func (b *BiomeData) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

// ClearModificationFlag resets Modified.
func (b *BiomeData) ClearModificationFlag() {
	b.mu.Lock()
	b.modified = false
	b.mu.Unlock()
}

// HeightData is the per-column height table of a chunk, indexed z*16+x.
// Values are clamped to [0, Height]. Maximum is the largest value ever
// stored and never decreases.
type HeightData struct {
	mu       sync.RWMutex
	cells    [ColumnCount]int32
	maximum  int32
	modified bool
}

// NewHeightData returns a zeroed table.
func NewHeightData() *HeightData {
	return &HeightData{}
}

func heightDataFrom(raw []int32) *HeightData {
	h := &HeightData{}
	for i, v := range raw {
		v = clampHeight(v)
		h.cells[i] = v
		h.maximum = max(h.maximum, v)
	}
	return h
}

func clampHeight(v int32) int32 {
	return min(max(v, 0), Height)
}

// Get returns the height of column (x,z).
func (h *HeightData) Get(x, z int) (int32, error) {
	if err := checkColumn(x, z); err != nil {
		return 0, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cells[z<<4|x], nil
}

// Set stores v, clamped to [0, Height], for column (x,z).
func (h *HeightData) Set(x, z int, v int32) error {
	if err := checkColumn(x, z); err != nil {
		return err
	}
	v = clampHeight(v)
	h.mu.Lock()
	h.cells[z<<4|x] = v
	h.maximum = max(h.maximum, v)
	h.modified = true
	h.mu.Unlock()
	return nil
}

// Raise stores v for column (x,z) only if it exceeds the current value.
func (h *HeightData) Raise(x, z int, v int32) error {
	if err := checkColumn(x, z); err != nil {
		return err
	}
	v = clampHeight(v)
	h.mu.Lock()
	defer h.mu.Unlock()
	if v <= h.cells[z<<4|x] {
		return nil
	}
	h.cells[z<<4|x] = v
	h.maximum = max(h.maximum, v)
	h.modified = true
	return nil
}

// Maximum returns the largest height ever stored.
func (h *HeightData) Maximum() int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maximum
}

// Values returns a copy of the table.
func (h *HeightData) Values() []int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]int32, ColumnCount)
	copy(out, h.cells[:])
	return out
}

// Modified reports whether the table changed since the flag was cleared.
func (h *HeightData) Modified() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.modified
}

// ClearModificationFlag resets Modified.
func (h *HeightData) ClearModificationFlag() {
	h.mu.Lock()
	h.modified = false
	h.mu.Unlock()
}
