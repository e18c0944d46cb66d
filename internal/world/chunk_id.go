package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3i is an integer offset or position.
type Vec3i struct {
	X, Y, Z int
}

// Add returns the component-wise sum.
func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Axis returns component 0 (x), 1 (y) or 2 (z).
func (v Vec3i) Axis(a int) int {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// SetAxis assigns component a.
func (v *Vec3i) SetAxis(a, val int) {
	switch a {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}

// ChunkID addresses a chunk on the chunk grid. It is a comparable value and
// can be used directly as a map key.
type ChunkID struct {
	X, Y, Z int
}

// Shift returns the id offset by the given number of chunks.
func (id ChunkID) Shift(offset Vec3i) ChunkID {
	return ChunkID{id.X + offset.X, id.Y + offset.Y, id.Z + offset.Z}
}

// Neighbor returns the face neighbor in direction f.
func (id ChunkID) Neighbor(f Facing) ChunkID {
	return id.Shift(f.Direction())
}

// Hash returns the Morton code of the id, so spatially close chunks hash
// close together.
func (id ChunkID) Hash() uint32 {
	return Morton3(id.X, id.Y, id.Z)
}

// WorldOrigin returns the world-space voxel coordinates of the chunk's
// (0, 0, 0) corner.
func (id ChunkID) WorldOrigin() (x, y, z int) {
	return id.X << ChunkBits, id.Y << ChunkBits, id.Z << ChunkBits
}

// Origin is WorldOrigin as a render-space vector.
func (id ChunkID) Origin() mgl32.Vec3 {
	x, y, z := id.WorldOrigin()
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

func (id ChunkID) String() string {
	return fmt.Sprintf("chunk(%d,%d,%d)", id.X, id.Y, id.Z)
}

// FromWorldPos returns the id of the chunk containing world voxel (x, y, z).
// The arithmetic shift floors negative coordinates.
func FromWorldPos(x, y, z int) ChunkID {
	return ChunkID{x >> ChunkBits, y >> ChunkBits, z >> ChunkBits}
}

// LocalPos converts world voxel coordinates into chunk-local coordinates.
func LocalPos(x, y, z int) (int, int, int) {
	return x & ChunkMask, y & ChunkMask, z & ChunkMask
}
