package gen

import (
	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

const chunkVolume = chunk.SectionCount * chunk.SectionVolume

// lightVolume is a working copy of one chunk's block types and one light
// channel, indexed y<<8 | z<<4 | x over the full chunk height.
type lightVolume struct {
	types [chunkVolume]block.ID
	level [chunkVolume]byte
	queue []int
}

func loadLightVolume(c *chunk.Chunk) *lightVolume {
	v := &lightVolume{}
	for sy, types := range c.BlockTypes() {
		block.FromBytes(v.types[sy*chunk.SectionVolume:(sy+1)*chunk.SectionVolume], types)
	}
	return v
}

func (v *lightVolume) enqueue(i int) { v.queue = append(v.queue, i) }

// spread floods light outward from every queued cell. Each step into a
// neighbour costs that neighbour's opacity, and at least one.
func (v *lightVolume) spread() {
	for head := 0; head < len(v.queue); head++ {
		i := v.queue[head]
		l := v.level[i]
		if l <= 1 {
			continue
		}
		x, y, z := i&0xF, i>>8, (i>>4)&0xF
		v.visit(l, x-1, y, z)
		v.visit(l, x+1, y, z)
		v.visit(l, x, y-1, z)
		v.visit(l, x, y+1, z)
		v.visit(l, x, y, z-1)
		v.visit(l, x, y, z+1)
	}
	v.queue = v.queue[:0]
}

func (v *lightVolume) visit(from byte, x, y, z int) {
	if x < 0 || x >= chunk.Width || z < 0 || z >= chunk.Width || y < 0 || y >= chunk.Height {
		return
	}
	j := y<<8 | z<<4 | x
	cost := max(v.types[j].Opacity(), 1)
	if from <= cost {
		return
	}
	if next := from - cost; v.level[j] < next {
		v.level[j] = next
		v.enqueue(j)
	}
}

// store writes the level array into channel ch of c.
func (v *lightVolume) store(c *chunk.Chunk, ch chunk.Channel) error {
	for sy := 0; sy < chunk.SectionCount; sy++ {
		s, err := c.Section(sy)
		if err != nil {
			return err
		}
		base := sy * chunk.SectionVolume
		for i := 0; i < chunk.SectionVolume; i++ {
			if err := s.Set(ch, i, v.level[base+i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// SkyLight computes sky light inside each chunk: full light falls straight
// down until it meets an opaque block and then spreads sideways. Light does
// not cross chunk borders.
type SkyLight struct{}

func (SkyLight) Name() string   { return "skylight" }
func (SkyLight) Lighting() bool { return true }

func (SkyLight) PopulateChunk(_ ChunkSource, c *chunk.Chunk) error {
	c.Lock()
	defer c.Unlock()

	v := loadLightVolume(c)
	ceiling := int(c.Heights().Maximum())
	for z := 0; z < chunk.Width; z++ {
		for x := 0; x < chunk.Width; x++ {
			l := byte(15)
			for y := chunk.Height - 1; y >= 0; y-- {
				i := y<<8 | z<<4 | x
				op := v.types[i].Opacity()
				if op >= l {
					l = 0
				} else {
					l -= op
				}
				v.level[i] = l
				if l == 0 {
					break
				}
				// Above the tallest column every cell is already at full light.
				if y <= ceiling {
					v.enqueue(i)
				}
			}
		}
	}
	v.spread()
	return v.store(c, chunk.ChannelSkyLight)
}

// BlockLight spreads light from emitting blocks inside each chunk.
type BlockLight struct{}

func (BlockLight) Name() string   { return "blocklight" }
func (BlockLight) Lighting() bool { return true }

func (BlockLight) PopulateChunk(_ ChunkSource, c *chunk.Chunk) error {
	c.Lock()
	defer c.Unlock()

	v := loadLightVolume(c)
	for i, id := range v.types {
		if e := id.Emission(); e > 0 {
			v.level[i] = e
			v.enqueue(i)
		}
	}
	v.spread()
	return v.store(c, chunk.ChannelBlockLight)
}
