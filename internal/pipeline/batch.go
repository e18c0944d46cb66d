package pipeline

import (
	"log"

	"voxmesh/internal/meshing"
	"voxmesh/internal/world"

	"github.com/google/uuid"
)

// BatchJob is a group of tasks whose completion is tracked jointly.
type BatchJob interface {
	// Run polls the outstanding tasks within the budget.
	Run(b *Budget)
	// IsCompleted reports whether every task of the batch has finished.
	IsCompleted() bool
	// OnCompletion publishes the results and may return a follow-up batch.
	OnCompletion() BatchJob
}

// meshBatch meshes several chunks into one shared renderer allocation.
type meshBatch struct {
	id        uuid.UUID
	p         *Pipeline
	ids       []world.ChunkID
	chunks    []*world.Chunk
	views     []world.ViewHandle
	meshes    []*meshing.Mesh
	arr       MeshArray
	jobs      DoubleQueue[*job]
	failed    map[world.ChunkID]bool
	completed bool
}

func newMeshBatch(p *Pipeline, ids []world.ChunkID) *meshBatch {
	mb := &meshBatch{
		id:     uuid.New(),
		p:      p,
		failed: make(map[world.ChunkID]bool),
	}
	// Only ids whose perimeter can be built get a slot in the allocation.
	type prepared struct {
		id    world.ChunkID
		chunk *world.Chunk
		view  world.ViewHandle
		per   *world.Perimeter
	}
	var ready []prepared
	for _, id := range ids {
		c, view, per, ok := p.prepare(id)
		if !ok {
			continue
		}
		ready = append(ready, prepared{id, c, view, per})
	}
	if len(ready) == 0 {
		mb.completed = true
		return mb
	}

	mb.arr = p.renderer.AllocateMeshes(len(ready))
	alg := p.opts.Algorithm
	for i, r := range ready {
		m := meshing.NewBoundedMesh()
		m.Origin = r.id.Origin()
		arr := mb.arr
		per := r.per
		p.startJob(r.id)
		task := p.sched.Go(func() error {
			alg.Build(per, m)
			arr.Write(i, m)
			return nil
		})
		mb.ids = append(mb.ids, r.id)
		mb.chunks = append(mb.chunks, r.chunk)
		mb.views = append(mb.views, r.view)
		mb.meshes = append(mb.meshes, m)
		mb.jobs.Enqueue(&job{id: r.id, chunk: r.chunk, view: r.view, perimeter: per, mesh: m, task: task})
	}
	mb.jobs.Swap()
	return mb
}

func (mb *meshBatch) Run(b *Budget) {
	for mb.jobs.CurrentLen() > 0 {
		j, _ := mb.jobs.Dequeue()
		if b.Expired() {
			mb.jobs.Enqueue(j)
			mb.p.stats.Deferred++
			continue
		}
		if !b.Ready(j.task) {
			mb.jobs.Enqueue(j)
			continue
		}
		if err := j.task.Wait(); err != nil {
			log.Printf("pipeline: batch %s: meshing %v failed: %v", mb.id, j.id, err)
			mb.failed[j.id] = true
		}
		j.release()
	}
	if mb.jobs.Len() == 0 {
		mb.completed = true
	}
	mb.jobs.Swap()
}

func (mb *meshBatch) IsCompleted() bool { return mb.completed }

// OnCompletion publishes the members that are still loaded. Their meshes
// are packed to the front of the allocation so that views[i] matches slot i;
// failed and unloaded members are left out.
func (mb *meshBatch) OnCompletion() BatchJob {
	if len(mb.ids) == 0 {
		return nil
	}
	var views []world.ViewHandle
	var ready []readyMesh
	for i, id := range mb.ids {
		if mb.failed[id] {
			mb.p.failJob(id)
			continue
		}
		if !mb.p.meshReady(id, mb.chunks[i]) {
			continue
		}
		if n := len(views); n != i {
			mb.arr.Write(n, mb.meshes[i])
		}
		views = append(views, mb.views[i])
		ready = append(ready, readyMesh{id: id, view: mb.views[i], mesh: mb.meshes[i]})
	}
	if len(views) > 0 {
		mb.p.renderer.ApplyMeshes(mb.arr, views)
	}
	mb.p.stats.Batches++
	return mb.p.bakeFollowUp(ready)
}

// bakeBatch waits for the physics backend to bake collision meshes for a
// set of chunks whose render meshes are already assigned.
type bakeBatch struct {
	id        uuid.UUID
	p         *Pipeline
	tasks     DoubleQueue[bakeTask]
	done      []bakeTask
	completed bool
}

type bakeTask struct {
	id    world.ChunkID
	chunk *world.Chunk
	view  world.ViewHandle
	task  Task
	err   error
}

// newBakeBatch bakes each mesh for the view it was delivered to.
func newBakeBatch(p *Pipeline, ready []readyMesh) *bakeBatch {
	bb := &bakeBatch{id: uuid.New(), p: p}
	for _, r := range ready {
		c, ok := p.reg.TryGet(r.id)
		if !ok {
			continue
		}
		bb.tasks.Enqueue(bakeTask{id: r.id, chunk: c, view: r.view, task: p.physics.BakeCollision(r.view, r.mesh)})
		p.setState(r.id, StateBaking)
	}
	bb.tasks.Swap()
	if bb.tasks.Len() == 0 {
		bb.completed = true
	}
	return bb
}

func (bb *bakeBatch) Run(b *Budget) {
	for bb.tasks.CurrentLen() > 0 {
		t, _ := bb.tasks.Dequeue()
		if b.Expired() {
			bb.tasks.Enqueue(t)
			bb.p.stats.Deferred++
			continue
		}
		if !b.Ready(t.task) {
			bb.tasks.Enqueue(t)
			continue
		}
		t.err = t.task.Wait()
		bb.done = append(bb.done, t)
	}
	if bb.tasks.Len() == 0 {
		bb.completed = true
	}
	bb.tasks.Swap()
}

func (bb *bakeBatch) IsCompleted() bool { return bb.completed }

func (bb *bakeBatch) OnCompletion() BatchJob {
	for _, t := range bb.done {
		if !bb.p.live(t.id, t.chunk) {
			continue
		}
		if t.err != nil {
			log.Printf("pipeline: batch %s: baking %v failed: %v", bb.id, t.id, t.err)
			bb.p.setState(t.id, StateMeshReady)
			continue
		}
		bb.p.renderer.SetBakedMesh(t.view)
		bb.p.stats.Baked++
		bb.p.setState(t.id, StateClean)
	}
	return nil
}
