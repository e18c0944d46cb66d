package world

import "sync"

// PerimeterSize is the length of a perimeter buffer: the chunk itself plus
// one boundary layer from each of its six face neighbors.
const PerimeterSize = ChunkVolume + 6*ChunkArea

// Slab order inside a perimeter buffer, after the chunk's own voxels.
const (
	SlabLeft = iota
	SlabRight
	SlabDown
	SlabUp
	SlabBack
	SlabForward
)

// slabOf maps a facing to the slab holding the neighbor across that face.
var slabOf = [6]int{
	FacingRight:  SlabRight,
	FacingTop:    SlabUp,
	FacingBack:   SlabBack,
	FacingLeft:   SlabLeft,
	FacingBottom: SlabDown,
	FacingFront:  SlabForward,
}

// Slab returns the slab index for the neighbor across face f.
func (f Facing) Slab() int {
	return slabOf[f]
}

func slabBase(slab int) int {
	return ChunkVolume + slab*ChunkArea
}

// Perimeter is a self-contained copy of a chunk and the nearest boundary
// layer of each face neighbor. Slabs are indexed by the two axes parallel to
// the face, in x, y, z order: left/right by (y, z), down/up by (x, z) and
// back/forward by (x, y). A missing neighbor leaves its slab as air.
type Perimeter struct {
	ID   ChunkID
	data [PerimeterSize]Voxel
}

var perimeterPool = sync.Pool{
	New: func() any { return new(Perimeter) },
}

// NewPerimeter returns a cleared buffer from the pool.
func NewPerimeter(id ChunkID) *Perimeter {
	p := perimeterPool.Get().(*Perimeter)
	p.ID = id
	clear(p.data[:])
	return p
}

// Release returns the buffer to the pool. p must not be used afterwards.
func (p *Perimeter) Release() {
	if p == nil {
		return
	}
	perimeterPool.Put(p)
}

// Data exposes the raw buffer.
func (p *Perimeter) Data() []Voxel {
	return p.data[:]
}

// Slab returns the CHUNK_SIZE² region for one neighbor.
func (p *Perimeter) Slab(slab int) []Voxel {
	b := slabBase(slab)
	return p.data[b : b+ChunkArea]
}

// At returns the voxel at a local coordinate, or at a boundary coordinate
// where exactly one axis is -1 or ChunkSize. Anything further out (edges and
// corners of the neighborhood) is not captured and reads as air.
func (p *Perimeter) At(x, y, z int) Voxel {
	inX := x >= 0 && x < ChunkSize
	inY := y >= 0 && y < ChunkSize
	inZ := z >= 0 && z < ChunkSize
	switch {
	case inX && inY && inZ:
		return p.data[Index(x, y, z)]
	case inY && inZ && x == -1:
		return p.data[slabBase(SlabLeft)+y*ChunkSize+z]
	case inY && inZ && x == ChunkSize:
		return p.data[slabBase(SlabRight)+y*ChunkSize+z]
	case inX && inZ && y == -1:
		return p.data[slabBase(SlabDown)+x*ChunkSize+z]
	case inX && inZ && y == ChunkSize:
		return p.data[slabBase(SlabUp)+x*ChunkSize+z]
	case inX && inY && z == -1:
		return p.data[slabBase(SlabBack)+x*ChunkSize+y]
	case inX && inY && z == ChunkSize:
		return p.data[slabBase(SlabForward)+x*ChunkSize+y]
	}
	return Air
}

// Obscured reports whether the face of (x, y, z) pointing along dir is
// covered by a solid voxel.
func (p *Perimeter) Obscured(x, y, z int, dir Vec3i) bool {
	return p.At(x+dir.X, y+dir.Y, z+dir.Z) != Air
}

// BuildPerimeter snapshots chunk id and its face neighbors. It reports false
// if the chunk itself is not loaded.
func BuildPerimeter(reg Lookup, id ChunkID) (*Perimeter, bool) {
	c, ok := reg.TryGet(id)
	if !ok {
		return nil, false
	}
	p := NewPerimeter(id)
	copy(p.data[:ChunkVolume], c.voxels[:])

	// x neighbors: their boundary planes are contiguous in (y, z) order
	if nb, ok := reg.TryGet(id.Shift(Vec3i{-1, 0, 0})); ok {
		src := Index(ChunkMask, 0, 0)
		copy(p.Slab(SlabLeft), nb.voxels[src:src+ChunkArea])
	}
	if nb, ok := reg.TryGet(id.Shift(Vec3i{1, 0, 0})); ok {
		copy(p.Slab(SlabRight), nb.voxels[:ChunkArea])
	}

	if nb, ok := reg.TryGet(id.Shift(Vec3i{0, -1, 0})); ok {
		copyPlaneY(p.Slab(SlabDown), nb, ChunkMask)
	}
	if nb, ok := reg.TryGet(id.Shift(Vec3i{0, 1, 0})); ok {
		copyPlaneY(p.Slab(SlabUp), nb, 0)
	}

	if nb, ok := reg.TryGet(id.Shift(Vec3i{0, 0, -1})); ok {
		copyPlaneZ(p.Slab(SlabBack), nb, ChunkMask)
	}
	if nb, ok := reg.TryGet(id.Shift(Vec3i{0, 0, 1})); ok {
		copyPlaneZ(p.Slab(SlabForward), nb, 0)
	}
	return p, true
}

func copyPlaneY(dst []Voxel, c *Chunk, y int) {
	for x := 0; x < ChunkSize; x++ {
		outer := x * ChunkSize
		for z := 0; z < ChunkSize; z++ {
			dst[outer+z] = c.voxels[Index(x, y, z)]
		}
	}
}

func copyPlaneZ(dst []Voxel, c *Chunk, z int) {
	for x := 0; x < ChunkSize; x++ {
		outer := x * ChunkSize
		for y := 0; y < ChunkSize; y++ {
			dst[outer+y] = c.voxels[Index(x, y, z)]
		}
	}
}
