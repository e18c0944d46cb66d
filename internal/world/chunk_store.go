package world

import (
	"fmt"
	"sync"
)

// ViewHandle is the opaque render proxy the rendering backend associates
// with a chunk.
type ViewHandle any

// ViewFactory creates the view for a newly registered chunk.
type ViewFactory func(id ChunkID) ViewHandle

// Registry maps chunk ids to their voxel storage and to their view. Every
// id present in one map is present in the other.
type Registry struct {
	chunks  map[ChunkID]*Chunk
	views   map[ChunkID]ViewHandle
	newView ViewFactory
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry. With a nil factory the chunk id
// itself is used as the view handle.
func NewRegistry(newView ViewFactory) *Registry {
	if newView == nil {
		newView = func(id ChunkID) ViewHandle { return id }
	}
	return &Registry{
		chunks:  make(map[ChunkID]*Chunk),
		views:   make(map[ChunkID]ViewHandle),
		newView: newView,
	}
}

// TryGet returns the chunk with the given id if it is loaded.
func (r *Registry) TryGet(id ChunkID) (*Chunk, bool) {
	r.mu.RLock()
	c, ok := r.chunks[id]
	r.mu.RUnlock()
	return c, ok
}

// View returns the view handle registered for id.
func (r *Registry) View(id ChunkID) (ViewHandle, bool) {
	r.mu.RLock()
	v, ok := r.views[id]
	r.mu.RUnlock()
	return v, ok
}

// Has checks if a chunk exists.
func (r *Registry) Has(id ChunkID) bool {
	r.mu.RLock()
	_, ok := r.chunks[id]
	r.mu.RUnlock()
	return ok
}

// Len returns the number of loaded chunks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks)
}

// IDs returns every loaded id in Morton order.
func (r *Registry) IDs() []ChunkID {
	r.mu.RLock()
	ids := make([]ChunkID, 0, len(r.chunks))
	for id := range r.chunks {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	SortMorton(ids)
	return ids
}

// Add registers a populated chunk and creates its view. It returns false if
// the id is already taken.
func (r *Registry) Add(c *Chunk) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunks[c.ID]; ok {
		return false
	}
	r.chunks[c.ID] = c
	r.views[c.ID] = r.newView(c.ID)
	return true
}

// GenerateChunk allocates a chunk, fills it from gen and registers it as
// dirty. If the chunk is already loaded the existing one is returned along
// with false.
func (r *Registry) GenerateChunk(id ChunkID, gen TerrainGenerator) (*Chunk, bool) {
	if c, ok := r.TryGet(id); ok {
		return c, false
	}
	c := NewChunk(id)
	if gen != nil {
		gen.Populate(c)
	}
	c.SetDirty()
	if !r.Add(c) {
		// lost a race with another Add
		existing, _ := r.TryGet(id)
		return existing, false
	}
	return c, true
}

// Remove unloads a chunk and its view.
func (r *Registry) Remove(id ChunkID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunks[id]; !ok {
		return false
	}
	delete(r.chunks, id)
	delete(r.views, id)
	return true
}

// GetVoxel returns the voxel at world coordinates. Unloaded space is air.
func (r *Registry) GetVoxel(x, y, z int) Voxel {
	c, ok := r.TryGet(FromWorldPos(x, y, z))
	if !ok {
		return Air
	}
	lx, ly, lz := LocalPos(x, y, z)
	return c.Get(lx, ly, lz)
}

// SetVoxel writes a voxel at world coordinates. It returns the ids whose
// mesh is now stale: the owning chunk and any loaded face neighbor sharing
// the edited boundary voxel. ok is false when the owning chunk is not
// loaded. Writing the value already stored touches nothing.
func (r *Registry) SetVoxel(x, y, z int, v Voxel) (touched []ChunkID, ok bool) {
	id := FromWorldPos(x, y, z)
	c, ok := r.TryGet(id)
	if !ok {
		return nil, false
	}
	lx, ly, lz := LocalPos(x, y, z)
	if !c.Set(lx, ly, lz, v) {
		return nil, true
	}
	touched = append(touched, id)

	// Mark neighbor chunks dirty if we touched a border voxel
	for _, f := range Facings {
		if !onFace(lx, ly, lz, f) {
			continue
		}
		nid := id.Neighbor(f)
		if nb, ok := r.TryGet(nid); ok {
			nb.SetDirty()
			touched = append(touched, nid)
		}
	}
	return touched, true
}

// LoadedNeighbors returns the ids of loaded face neighbors of id.
func (r *Registry) LoadedNeighbors(id ChunkID) []ChunkID {
	var out []ChunkID
	for _, f := range Facings {
		if nid := id.Neighbor(f); r.Has(nid) {
			out = append(out, nid)
		}
	}
	return out
}

// Perimeter snapshots id and its neighbors for meshing.
func (r *Registry) Perimeter(id ChunkID) (*Perimeter, bool) {
	return BuildPerimeter(r, id)
}

// Validate checks that both maps hold the same keys.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.chunks) != len(r.views) {
		return fmt.Errorf("registry: %d chunks but %d views", len(r.chunks), len(r.views))
	}
	for id := range r.chunks {
		if _, ok := r.views[id]; !ok {
			return fmt.Errorf("registry: %v has no view", id)
		}
	}
	return nil
}

func onFace(lx, ly, lz int, f Facing) bool {
	switch f {
	case FacingLeft:
		return lx == 0
	case FacingRight:
		return lx == ChunkMask
	case FacingBottom:
		return ly == 0
	case FacingTop:
		return ly == ChunkMask
	case FacingBack:
		return lz == 0
	case FacingFront:
		return lz == ChunkMask
	}
	return false
}
