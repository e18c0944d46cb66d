package render

import (
	"sync"

	"voxmesh/internal/meshing"
	"voxmesh/internal/pipeline"
	"voxmesh/internal/world"
)

// View is the render proxy of one chunk. It holds the last mesh assigned to
// it.
type View struct {
	ID world.ChunkID

	mu       sync.RWMutex
	vertices []meshing.Vertex
	indices  []uint32
	baked    bool
	assigned int
}

// Mesh returns the current buffers.
func (v *View) Mesh() ([]meshing.Vertex, []uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vertices, v.indices
}

// FaceCount returns the number of quads in the current mesh.
func (v *View) FaceCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.vertices) / 4
}

// Baked reports whether the current mesh has a collision shape.
func (v *View) Baked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.baked
}

// Assigned returns how many meshes the view has received.
func (v *View) Assigned() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.assigned
}

func (v *View) set(vertices []meshing.Vertex, indices []uint32) {
	v.mu.Lock()
	v.vertices, v.indices = vertices, indices
	v.baked = false
	v.assigned++
	v.mu.Unlock()
}

// Recorder is a headless rendering backend. Instead of uploading meshes to
// a GPU it keeps them on their views, which is enough to drive the pipeline
// from tests and the command line.
type Recorder struct {
	mu      sync.Mutex
	views   map[world.ChunkID]*View
	assigns int
	batches int
	baked   int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{views: make(map[world.ChunkID]*View)}
}

// NewView is a world.ViewFactory.
func (r *Recorder) NewView(id world.ChunkID) world.ViewHandle {
	v := &View{ID: id}
	r.mu.Lock()
	r.views[id] = v
	r.mu.Unlock()
	return v
}

// View returns the view created for id.
func (r *Recorder) View(id world.ChunkID) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	return v, ok
}

func (r *Recorder) AssignMesh(view world.ViewHandle, vertices []meshing.Vertex, indices []uint32) {
	r.mu.Lock()
	r.assigns++
	r.mu.Unlock()
	view.(*View).set(vertices, indices)
}

func (r *Recorder) AllocateMeshes(n int) pipeline.MeshArray {
	return &MeshArray{slots: make([]*meshing.Mesh, n)}
}

func (r *Recorder) ApplyMeshes(arr pipeline.MeshArray, views []world.ViewHandle) {
	ma := arr.(*MeshArray)
	r.mu.Lock()
	r.batches++
	r.assigns += len(views)
	r.mu.Unlock()
	for i, view := range views {
		m := ma.slots[i]
		if m == nil {
			view.(*View).set(nil, nil)
			continue
		}
		view.(*View).set(m.Vertices, m.Indices)
	}
}

func (r *Recorder) SetBakedMesh(view world.ViewHandle) {
	v := view.(*View)
	v.mu.Lock()
	v.baked = true
	v.mu.Unlock()
	r.mu.Lock()
	r.baked++
	r.mu.Unlock()
}

// Stats summarises what the recorder has received.
type Stats struct {
	Views   int
	Assigns int
	Batches int
	Baked   int
	Faces   int
}

// Stats returns totals across all views.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	s := Stats{Views: len(r.views), Assigns: r.assigns, Batches: r.batches, Baked: r.baked}
	r.mu.Unlock()
	for _, v := range views {
		s.Faces += v.FaceCount()
	}
	return s
}

// MeshArray is the shared allocation handed to a meshing batch.
type MeshArray struct {
	slots []*meshing.Mesh
}

func (a *MeshArray) Len() int { return len(a.slots) }

// Write stores m in slot i. Distinct slots may be written concurrently.
func (a *MeshArray) Write(i int, m *meshing.Mesh) {
	a.slots[i] = m
}

var (
	_ pipeline.Renderer  = (*Recorder)(nil)
	_ pipeline.MeshArray = (*MeshArray)(nil)
)
