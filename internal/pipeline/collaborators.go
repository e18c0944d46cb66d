package pipeline

import (
	"voxmesh/internal/meshing"
	"voxmesh/internal/world"
)

// Task is a handle to asynchronous work.
type Task = meshing.Task

// Scheduler starts background work. *meshing.WorkerPool implements it.
type Scheduler interface {
	Go(fn func() error) Task
}

// Renderer is the rendering backend. All methods are called from the
// goroutine that calls Tick.
type Renderer interface {
	// AssignMesh hands a finished mesh to a chunk's view. Ownership of the
	// slices passes to the renderer.
	AssignMesh(view world.ViewHandle, vertices []meshing.Vertex, indices []uint32)
	// AllocateMeshes reserves storage for n meshes filled by one batch.
	AllocateMeshes(n int) MeshArray
	// ApplyMeshes publishes slot i of a filled allocation to views[i]. views
	// may be shorter than the allocation; the remaining slots are unused.
	ApplyMeshes(arr MeshArray, views []world.ViewHandle)
	// SetBakedMesh marks the view's collision mesh as ready.
	SetBakedMesh(view world.ViewHandle)
}

// MeshArray is shared storage for a batch of meshes. Write is called from
// background tasks, at most once per index, with distinct indices running
// concurrently. Once every task is done the pipeline may rewrite slots to
// pack the batch before publishing it.
type MeshArray interface {
	Len() int
	Write(i int, m *meshing.Mesh)
}

// Physics bakes collision meshes. The mesh is read-only for the task.
type Physics interface {
	BakeCollision(view world.ViewHandle, m *meshing.Mesh) Task
}
