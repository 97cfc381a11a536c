// Package block holds the byte-wide block identity used by chunk storage.
// The full block catalogue lives outside this module; only the ids the
// generators and lighting passes need are named here.
package block

// ID is a block type. Chunk sections store one ID per cell.
type ID uint8

const (
	Air         ID = 0
	Stone       ID = 1
	Grass       ID = 2
	Dirt        ID = 3
	Cobblestone ID = 4
	Bedrock     ID = 7
	Water       ID = 9 // stationary
	Lava        ID = 11
	Sand        ID = 12
	Gravel      ID = 13
	GoldOre     ID = 14
	IronOre     ID = 15
	CoalOre     ID = 16
	Log         ID = 17
	Leaves      ID = 18
	LapisOre    ID = 21
	Sandstone   ID = 24
	TallGrass   ID = 31
	DeadBush    ID = 32
	Flower      ID = 38
	Torch       ID = 50
	DiamondOre  ID = 56
	RedstoneOre ID = 73
	Snow        ID = 78
	Ice         ID = 79
	Cactus      ID = 81
	Glowstone   ID = 89
)

// Log and leaves variants stored in the data nibble.
const (
	WoodOak    byte = 0
	WoodSpruce byte = 1
	WoodBirch  byte = 2
)

// opacity is how much light a block removes when light passes through it.
// Unlisted ids are fully opaque.
var opacity = [256]byte{}

// emission is the block light level a block produces.
var emission = [256]byte{}

func init() {
	for i := range opacity {
		opacity[i] = 15
	}
	for _, id := range []ID{Air, TallGrass, DeadBush, Flower, Torch, Snow} {
		opacity[id] = 0
	}
	opacity[Leaves] = 1
	opacity[Cactus] = 0
	opacity[Glowstone] = 0
	opacity[Water] = 3
	opacity[Ice] = 3

	emission[Lava] = 15
	emission[Glowstone] = 15
	emission[Torch] = 14
}

// Opacity returns the light attenuation of id, 0 (transparent) to 15 (opaque).
func (id ID) Opacity() byte { return opacity[id] }

// Emission returns the block light emitted by id.
func (id ID) Emission() byte { return emission[id] }

// Solid reports whether id fully blocks light.
func (id ID) Solid() bool { return opacity[id] == 15 }

// ToBytes copies ids into a new byte slice.
func ToBytes(ids []ID) []byte {
	out := make([]byte, len(ids))
	for i, id := range ids {
		out[i] = byte(id)
	}
	return out
}

// FromBytes copies b into dst and returns the number of ids written.
func FromBytes(dst []ID, b []byte) int {
	n := min(len(dst), len(b))
	for i := 0; i < n; i++ {
		dst[i] = ID(b[i])
	}
	return n
}
