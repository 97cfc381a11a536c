package gen

import (
	"github.com/OCharnyshevich/realmgen/pkg/world/block"
	"github.com/OCharnyshevich/realmgen/pkg/world/noise"
)

// caveCarver removes blocks to form tunnels and small caverns.
type caveCarver struct {
	tunnels noise.Source
	pockets noise.Source
}

func newCaveCarver(seed int64) (*caveCarver, error) {
	pockets, err := noise.NewCell(seed+500, noise.Euclidean, noise.D1)
	if err != nil {
		return nil, err
	}
	return &caveCarver{
		// Two fields averaged for more interesting cave shapes.
		tunnels: noise.Combiner{
			A:  noise.NewPipeline(noise.NewSimplex(seed+300)).Pre(noise.Scale{X: 1.0 / 32, Y: 1.0 / 24, Z: 1.0 / 32}),
			B:  noise.NewPipeline(noise.NewSimplex(seed+400)).Pre(noise.Scale{X: 1.0 / 48, Y: 1.0 / 32, Z: 1.0 / 48}),
			Op: noise.Average,
		},
		// Inverted so that points near a feature score high.
		pockets: noise.NewPipeline(pockets).Pre(noise.UniformScale(1.0 / 20)).Post(noise.Invert{}),
	}, nil
}

// carve hollows the chunk in b. heights holds the top terrain block of
// every column.
func (cc *caveCarver) carve(b *Builder, heights *[16][16]int) error {
	const (
		tunnelThreshold = 0.55
		pocketThreshold = 0.9
		lavaLevel       = 10
	)
	pos := b.Chunk().Pos()

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			bx := float64(pos.BlockX() + x)
			bz := float64(pos.BlockZ() + z)
			maxY := heights[x][z]
			if maxY < 5 {
				continue
			}

			for y := 4; y < maxY-4; y++ { // Don't carve bedrock or surface
				by := float64(y)
				if cc.tunnels.Generate3(bx, by, bz) <= tunnelThreshold &&
					cc.pockets.Generate3(bx, by, bz) <= pocketThreshold {
					continue
				}
				id := block.Air
				if y < lavaLevel {
					id = block.Lava
				}
				if err := b.SetBlock(x, y, z, id, 0); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
