package meshing

import (
	"voxmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// naiveOrder is the order faces are tested per voxel.
var naiveOrder = [6]world.Facing{
	world.FacingFront,
	world.FacingBack,
	world.FacingTop,
	world.FacingBottom,
	world.FacingRight,
	world.FacingLeft,
}

var unit = mgl32.Vec3{1, 1, 1}

// Naive emits one unit quad for every solid voxel face that is not covered
// by another solid voxel. Neighbor lookups go through the perimeter buffer,
// so the result only depends on p.
func Naive(p *world.Perimeter, m *Mesh) {
	data := p.Data()
	for x := 0; x < world.ChunkSize; x++ {
		for y := 0; y < world.ChunkSize; y++ {
			for z := 0; z < world.ChunkSize; z++ {
				if data[world.Index(x, y, z)] == world.Air {
					continue
				}
				pos := mgl32.Vec3{float32(x), float32(y), float32(z)}
				for _, f := range naiveOrder {
					if !p.Obscured(x, y, z, f.Direction()) {
						m.AddFace(pos, f, unit)
					}
				}
			}
		}
	}
}

// NaiveFromRegistry produces the same output as Naive but resolves
// neighbors through the live registry. It must run on the goroutine that
// owns the registry.
func NaiveFromRegistry(reg world.Lookup, c *world.Chunk, m *Mesh) {
	for x := 0; x < world.ChunkSize; x++ {
		for y := 0; y < world.ChunkSize; y++ {
			for z := 0; z < world.ChunkSize; z++ {
				if c.Get(x, y, z) == world.Air {
					continue
				}
				pos := mgl32.Vec3{float32(x), float32(y), float32(z)}
				for _, f := range naiveOrder {
					if !c.HasAdjacency(reg, x, y, z, f.Direction()) {
						m.AddFace(pos, f, unit)
					}
				}
			}
		}
	}
}
