package world

const (
	// Chunk dimensions
	ChunkBits   = 4
	ChunkSize   = 1 << ChunkBits
	ChunkMask   = ChunkSize - 1
	ChunkArea   = ChunkSize * ChunkSize
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// Voxel is a material code. Zero is air, anything else is solid.
type Voxel uint32

const Air Voxel = 0

// IsSolid reports whether the voxel occludes neighboring faces.
func (v Voxel) IsSolid() bool {
	return v != Air
}

// Lookup resolves neighbor chunks. Registry implements it; chunks never
// hold a reference to their owner.
type Lookup interface {
	TryGet(id ChunkID) (*Chunk, bool)
}

// Chunk is a ChunkSize^3 cube of voxels stored flat in x, y, z order.
type Chunk struct {
	ID     ChunkID
	voxels [ChunkVolume]Voxel
	dirty  bool
}

// NewChunk creates an all-air chunk at the given chunk coordinates
func NewChunk(id ChunkID) *Chunk {
	return &Chunk{
		ID:    id,
		dirty: true,
	}
}

// Index converts local coordinates (x, y, z) → flat index
func Index(x, y, z int) int {
	return x*ChunkArea + y*ChunkSize + z
}

// Unindex is the inverse of Index.
func Unindex(i int) (x, y, z int) {
	return i >> (ChunkBits * 2), (i >> ChunkBits) & ChunkMask, i & ChunkMask
}

// InBounds reports whether local coordinates fall inside a chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// ChunkShift returns which neighbor chunk an out-of-range local coordinate
// falls into: ChunkSize maps to 1, -1 maps to -1 and 0..ChunkSize-1 to 0.
func ChunkShift(x, y, z int) Vec3i {
	return Vec3i{x >> ChunkBits, y >> ChunkBits, z >> ChunkBits}
}

// Wrap maps a coordinate into [0, ChunkSize), so -1 becomes ChunkSize-1.
func Wrap(x, y, z int) (int, int, int) {
	return x & ChunkMask, y & ChunkMask, z & ChunkMask
}

// Get returns the voxel at the specified local coordinates
func (c *Chunk) Get(x, y, z int) Voxel {
	if !InBounds(x, y, z) {
		return Air
	}
	return c.voxels[Index(x, y, z)]
}

// Set writes the voxel at the specified local coordinates. The chunk is
// marked dirty only when the stored value actually changes.
func (c *Chunk) Set(x, y, z int, v Voxel) bool {
	if !InBounds(x, y, z) {
		return false
	}
	i := Index(x, y, z)
	if c.voxels[i] == v {
		return false
	}
	c.voxels[i] = v
	c.dirty = true
	return true
}

// Fill overwrites every voxel.
func (c *Chunk) Fill(v Voxel) {
	for i := range c.voxels {
		c.voxels[i] = v
	}
	c.dirty = true
}

// Voxels exposes the backing array for bulk copies. Callers must not write
// through it from a background goroutine.
func (c *Chunk) Voxels() *[ChunkVolume]Voxel {
	return &c.voxels
}

// Snapshot returns a private copy of the voxel array.
func (c *Chunk) Snapshot() [ChunkVolume]Voxel {
	return c.voxels
}

// IsEmpty reports whether the chunk holds only air.
func (c *Chunk) IsEmpty() bool {
	return c.SolidCount() == 0
}

// SolidCount returns the number of non-air voxels.
func (c *Chunk) SolidCount() int {
	n := 0
	for _, v := range c.voxels {
		if v != Air {
			n++
		}
	}
	return n
}

// IsDirty returns whether the chunk has been modified since it was last scheduled for meshing
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// SetDirty flags the chunk for remeshing
func (c *Chunk) SetDirty() {
	c.dirty = true
}

// SetClean marks the chunk as clean (not modified)
func (c *Chunk) SetClean() {
	c.dirty = false
}

// HasAdjacency reports whether the voxel next to (x, y, z) in direction dir
// is solid. Coordinates that leave the chunk are resolved through reg; an
// unloaded neighbor counts as air so world-edge faces are never culled.
func (c *Chunk) HasAdjacency(reg Lookup, x, y, z int, dir Vec3i) bool {
	nx, ny, nz := x+dir.X, y+dir.Y, z+dir.Z
	shift := ChunkShift(nx, ny, nz)
	if shift == (Vec3i{}) {
		return c.voxels[Index(nx, ny, nz)] != Air
	}
	if reg == nil {
		return false
	}
	nb, ok := reg.TryGet(c.ID.Shift(shift))
	if !ok {
		return false
	}
	wx, wy, wz := Wrap(nx, ny, nz)
	return nb.voxels[Index(wx, wy, wz)] != Air
}
