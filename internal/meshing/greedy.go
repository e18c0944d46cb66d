package meshing

import (
	"voxmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Greedy merges coplanar, same-material, unobscured voxel faces into
// rectangles and emits one quad per rectangle.
//
// For every facing the chunk is sliced into layers along the face normal.
// Within a layer, cells are scanned with axis1 as the outer and axis2 as the
// inner loop. A new rectangle first grows along axis2 to find its height h,
// then along axis1 one row at a time; a row is taken only if all h of its
// cells are mergeable, otherwise growth stops. Partially mergeable rows are
// left for later rectangles.
func Greedy(p *world.Perimeter, m *Mesh) {
	const S = world.ChunkSize
	data := p.Data()
	var visited [world.ChunkArea]bool

	for _, f := range world.Facings {
		s := f.Axis()
		a1 := (s + 1) % 3
		a2 := (s + 2) % 3
		dir := f.Direction()

		cell := func(layer, i, j int) world.Vec3i {
			var pos world.Vec3i
			pos.SetAxis(s, layer)
			pos.SetAxis(a1, i)
			pos.SetAxis(a2, j)
			return pos
		}

		for layer := 0; layer < S; layer++ {
			clear(visited[:])

			for i := 0; i < S; i++ {
				for j := 0; j < S; j++ {
					if visited[i*S+j] {
						continue
					}
					start := cell(layer, i, j)
					startType := data[world.Index(start.X, start.Y, start.Z)]
					if startType == world.Air || p.Obscured(start.X, start.Y, start.Z, dir) {
						continue
					}

					mergeable := func(i, j int) bool {
						if visited[i*S+j] {
							return false
						}
						c := cell(layer, i, j)
						v := data[world.Index(c.X, c.Y, c.Z)]
						return v != world.Air && v == startType && !p.Obscured(c.X, c.Y, c.Z, dir)
					}

					h := 1
					for j+h < S && mergeable(i, j+h) {
						h++
					}

					w := 1
				rows:
					for i+w < S {
						for k := 0; k < h; k++ {
							if !mergeable(i+w, j+k) {
								break rows
							}
						}
						w++
					}

					var size mgl32.Vec3
					size[s] = 1
					size[a1] = float32(w)
					size[a2] = float32(h)
					m.AddFace(mgl32.Vec3{float32(start.X), float32(start.Y), float32(start.Z)}, f, size)

					startIndex := i*S + j
					for a := 0; a < w; a++ {
						for b := 0; b < h; b++ {
							visited[startIndex+a*S+b] = true
						}
					}
				}
			}
		}
	}
}
