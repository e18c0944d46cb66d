package meshing

import (
	"fmt"
	"math"

	"voxmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Worst case for one chunk is a 3-D checkerboard: half the voxels solid,
	// every one of them exposing all six faces.
	MaxFaces    = world.ChunkVolume / 2 * 6
	MaxVertices = MaxFaces * 4
	MaxIndices  = MaxFaces * 6

	// GrowHeadroom is the number of faces a growable mesh starts with and the
	// minimum it extends by when it runs out of room.
	GrowHeadroom = world.ChunkVolume / 16
)

// Vertex is a single mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh holds the vertex and index buffers produced for one chunk. Positions
// are chunk-local; Origin is the world-space offset of the chunk.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Origin   mgl32.Vec3

	bounded bool
}

// NewGrowableMesh creates a mesh that extends its buffers on demand.
func NewGrowableMesh() *Mesh {
	return &Mesh{
		Vertices: make([]Vertex, 0, GrowHeadroom*4),
		Indices:  make([]uint32, 0, GrowHeadroom*6),
	}
}

// NewBoundedMesh creates a mesh sized for the worst case chunk. Appending to
// it never reallocates, so a background task may fill it while the buffers
// are already owned by the renderer.
func NewBoundedMesh() *Mesh {
	return &Mesh{
		Vertices: make([]Vertex, 0, MaxVertices),
		Indices:  make([]uint32, 0, MaxIndices),
		bounded:  true,
	}
}

// VertexCount returns the number of vertices written so far.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// IndexCount returns the number of indices written so far.
func (m *Mesh) IndexCount() int { return len(m.Indices) }

// FaceCount returns the number of quads written so far.
func (m *Mesh) FaceCount() int { return len(m.Vertices) / 4 }

// IsBounded reports whether the mesh was pre-sized to the worst case.
func (m *Mesh) IsBounded() bool { return m.bounded }

// Reset empties the mesh, keeping its buffers.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// Clone returns a deep copy trimmed to its contents.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]Vertex(nil), m.Vertices...),
		Indices:  append([]uint32(nil), m.Indices...),
		Origin:   m.Origin,
	}
}

func (m *Mesh) reserve(faces int) {
	if len(m.Vertices)+faces*4 <= cap(m.Vertices) && len(m.Indices)+faces*6 <= cap(m.Indices) {
		return
	}
	if m.bounded {
		panic(fmt.Sprintf("meshing: bounded mesh overflow at %d faces", m.FaceCount()))
	}
	grow := max(GrowHeadroom, m.FaceCount(), faces)
	verts := make([]Vertex, len(m.Vertices), cap(m.Vertices)+grow*4)
	copy(verts, m.Vertices)
	idx := make([]uint32, len(m.Indices), cap(m.Indices)+grow*6)
	copy(idx, m.Indices)
	m.Vertices, m.Indices = verts, idx
}

var (
	right   = mgl32.Vec3{1, 0, 0}
	up      = mgl32.Vec3{0, 1, 0}
	forward = mgl32.Vec3{0, 0, 1}
)

// AddFace appends one axis-aligned quad anchored at origin. size holds the
// extent along each axis; the component along the face normal is ignored
// except to place the quad on the far side of the voxel for positive facings.
func (m *Mesh) AddFace(origin mgl32.Vec3, f world.Facing, size mgl32.Vec3) {
	m.reserve(1)
	sx, sy, sz := size.X(), size.Y(), size.Z()
	cp := uint32(len(m.Vertices))

	var p [4]mgl32.Vec3
	var uv [4]mgl32.Vec2
	var n mgl32.Vec3

	switch f {
	case world.FacingFront:
		o := origin.Add(forward)
		p = [4]mgl32.Vec3{o, o.Add(right.Mul(sx)), o.Add(right.Mul(sx)).Add(up.Mul(sy)), o.Add(up.Mul(sy))}
		uv = [4]mgl32.Vec2{{0, 0}, {sx, 0}, {sx, sy}, {0, sy}}
		n = forward
	case world.FacingBack:
		o := origin
		p = [4]mgl32.Vec3{o, o.Add(up.Mul(sy)), o.Add(up.Mul(sy)).Add(right.Mul(sx)), o.Add(right.Mul(sx))}
		uv = [4]mgl32.Vec2{{0, 0}, {0, sy}, {sx, sy}, {sx, 0}}
		n = forward.Mul(-1)
	case world.FacingTop:
		o := origin.Add(up)
		p = [4]mgl32.Vec3{o, o.Add(forward.Mul(sz)), o.Add(right.Mul(sx)).Add(forward.Mul(sz)), o.Add(right.Mul(sx))}
		uv = [4]mgl32.Vec2{{0, 0}, {0, sz}, {sx, sz}, {sx, 0}}
		n = up
	case world.FacingBottom:
		o := origin
		p = [4]mgl32.Vec3{o, o.Add(right.Mul(sx)), o.Add(right.Mul(sx)).Add(forward.Mul(sz)), o.Add(forward.Mul(sz))}
		uv = [4]mgl32.Vec2{{0, 0}, {sx, 0}, {sx, sz}, {0, sz}}
		n = up.Mul(-1)
	case world.FacingRight:
		o := origin.Add(right)
		p = [4]mgl32.Vec3{o, o.Add(up.Mul(sy)), o.Add(up.Mul(sy)).Add(forward.Mul(sz)), o.Add(forward.Mul(sz))}
		uv = [4]mgl32.Vec2{{0, 0}, {0, sy}, {sz, sy}, {sz, 0}}
		n = right
	case world.FacingLeft:
		o := origin
		p = [4]mgl32.Vec3{o, o.Add(forward.Mul(sz)), o.Add(forward.Mul(sz)).Add(up.Mul(sy)), o.Add(up.Mul(sy))}
		uv = [4]mgl32.Vec2{{0, 0}, {sz, 0}, {sz, sy}, {0, sy}}
		n = right.Mul(-1)
	default:
		panic(fmt.Sprintf("meshing: invalid facing %d", int(f)))
	}

	for i := range p {
		m.Vertices = append(m.Vertices, Vertex{Position: p[i], Normal: n, UV: uv[i]})
	}
	m.Indices = append(m.Indices, cp, cp+1, cp+2, cp, cp+2, cp+3)
}

// Area returns the total surface area covered by the mesh's quads.
func (m *Mesh) Area() float32 {
	var total float32
	for q := 0; q+3 < len(m.Vertices); q += 4 {
		total += quadArea(m.Vertices[q:])
	}
	return total
}

// FacingArea returns the area of the quads whose normal matches f.
func (m *Mesh) FacingArea(f world.Facing) float32 {
	d := f.Direction()
	n := mgl32.Vec3{float32(d.X), float32(d.Y), float32(d.Z)}
	var total float32
	for q := 0; q+3 < len(m.Vertices); q += 4 {
		if m.Vertices[q].Normal.ApproxEqual(n) {
			total += quadArea(m.Vertices[q:])
		}
	}
	return total
}

func quadArea(v []Vertex) float32 {
	a := v[1].Position.Sub(v[0].Position)
	b := v[3].Position.Sub(v[0].Position)
	return a.Cross(b).Len()
}

// Bounds returns the axis-aligned box enclosing every vertex. An empty mesh
// returns two zero vectors.
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	inf := float32(math.Inf(1))
	lo := mgl32.Vec3{inf, inf, inf}
	hi := lo.Mul(-1)
	for _, v := range m.Vertices {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], v.Position[a])
			hi[a] = max(hi[a], v.Position[a])
		}
	}
	return lo, hi
}
