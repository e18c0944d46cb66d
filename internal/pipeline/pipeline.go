package pipeline

import (
	"fmt"
	"log"
	"strings"
	"time"

	"voxmesh/internal/meshing"
	"voxmesh/internal/profiling"
	"voxmesh/internal/world"
)

// Mode selects how dirty chunks are meshed.
type Mode int

const (
	// ModeAsync meshes every chunk in its own background task.
	ModeAsync Mode = iota
	// ModeSync meshes on the calling goroutine during Tick.
	ModeSync
	// ModeBatched meshes each tick's dirty chunks as one batch that fills a
	// single renderer allocation.
	ModeBatched
)

func (m Mode) String() string {
	switch m {
	case ModeAsync:
		return "async"
	case ModeSync:
		return "sync"
	case ModeBatched:
		return "batched"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "sync", "async" or "batched".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "async":
		return ModeAsync, nil
	case "sync":
		return ModeSync, nil
	case "batched", "batch":
		return ModeBatched, nil
	}
	return 0, fmt.Errorf("pipeline: unknown mode %q", s)
}

// Options configure a Pipeline.
type Options struct {
	Algorithm meshing.Algorithm
	Mode      Mode
	// Workers sizes the internal worker pool. Ignored when Scheduler is set.
	Workers int
	// CompletionBudget caps the wall-clock time spent polling finished work
	// per tick. Zero means no cap.
	CompletionBudget time.Duration
	// BakeCollision sends every assigned mesh to the physics backend.
	BakeCollision bool
	// SlowTick logs ticks that take longer than this. Zero disables it.
	SlowTick time.Duration
	// Scheduler runs background work. Nil creates a meshing.WorkerPool that
	// the pipeline owns and shuts down on Close.
	Scheduler Scheduler
}

// Pipeline turns dirty chunks into meshes. Every method must be called from
// a single goroutine; only the meshing and baking work runs elsewhere.
type Pipeline struct {
	reg      *world.Registry
	renderer Renderer
	physics  Physics
	sched    Scheduler
	pool     *meshing.WorkerPool
	opts     Options

	dirty    *DirtyQueue
	jobs     DoubleQueue[*job]
	batches  DoubleQueue[BatchJob]
	inFlight map[world.ChunkID]struct{}
	states   map[world.ChunkID]State
	stats    Stats
	now      func() time.Time
	closed   bool
}

// New creates a pipeline over reg. renderer must not be nil; physics may be
// nil, in which case collision baking is disabled.
func New(reg *world.Registry, renderer Renderer, physics Physics, opts Options) *Pipeline {
	if reg == nil || renderer == nil {
		panic("pipeline: registry and renderer are required")
	}
	p := &Pipeline{
		reg:      reg,
		renderer: renderer,
		physics:  physics,
		opts:     opts,
		dirty:    NewDirtyQueue(),
		inFlight: make(map[world.ChunkID]struct{}),
		states:   make(map[world.ChunkID]State),
		now:      time.Now,
	}
	if physics == nil && opts.BakeCollision {
		log.Printf("pipeline: no physics backend, collision baking disabled")
		p.opts.BakeCollision = false
	}
	p.sched = opts.Scheduler
	if p.sched == nil && opts.Mode != ModeSync {
		p.pool = meshing.NewWorkerPool(opts.Workers)
		p.sched = p.pool
	}
	return p
}

// Registry returns the chunk registry the pipeline meshes.
func (p *Pipeline) Registry() *world.Registry {
	return p.reg
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// SetVoxel writes a voxel at world coordinates and queues every chunk whose
// mesh it invalidates. It returns false if the chunk is not loaded.
func (p *Pipeline) SetVoxel(x, y, z int, v world.Voxel) bool {
	touched, ok := p.reg.SetVoxel(x, y, z, v)
	for _, id := range touched {
		p.dirty.Enqueue(id)
	}
	return ok
}

// GetVoxel reads a voxel at world coordinates.
func (p *Pipeline) GetVoxel(x, y, z int) world.Voxel {
	return p.reg.GetVoxel(x, y, z)
}

// GenerateChunk creates and populates a chunk, then queues it along with
// its loaded neighbors, whose facing surfaces may now be hidden.
func (p *Pipeline) GenerateChunk(id world.ChunkID, gen world.TerrainGenerator) (*world.Chunk, bool) {
	c, created := p.reg.GenerateChunk(id, gen)
	if !created {
		return c, false
	}
	p.dirty.Enqueue(id)
	for _, nid := range p.reg.LoadedNeighbors(id) {
		p.MarkDirty(nid)
	}
	return c, true
}

// RemoveChunk unloads a chunk. A task already running for it finishes, but
// its mesh is discarded.
func (p *Pipeline) RemoveChunk(id world.ChunkID) bool {
	if !p.reg.Remove(id) {
		return false
	}
	if _, busy := p.inFlight[id]; !busy {
		delete(p.states, id)
	}
	for _, nid := range p.reg.LoadedNeighbors(id) {
		p.MarkDirty(nid)
	}
	return true
}

// MarkDirty queues a loaded chunk for remeshing.
func (p *Pipeline) MarkDirty(id world.ChunkID) bool {
	c, ok := p.reg.TryGet(id)
	if !ok {
		return false
	}
	c.SetDirty()
	p.dirty.Enqueue(id)
	return true
}

// MarkAllDirty queues every loaded chunk.
func (p *Pipeline) MarkAllDirty() int {
	n := 0
	for _, id := range p.reg.IDs() {
		if p.MarkDirty(id) {
			n++
		}
	}
	return n
}

// Tick advances the pipeline by one frame: finished work is harvested
// first, then the chunks dirtied since the last tick are scheduled.
func (p *Pipeline) Tick() {
	if p.closed {
		return
	}
	start := p.now()
	stop := profiling.Track("pipeline.Tick")
	p.stats.Ticks++

	b := newBudget(p.now, p.opts.CompletionBudget)
	p.completeJobs(b)
	p.runBatches(b)

	p.dirty.Swap()
	p.scheduleDirty()
	stop()

	if p.opts.SlowTick > 0 {
		if d := p.now().Sub(start); d > p.opts.SlowTick {
			log.Printf("pipeline: slow tick %.2fms (limit %.2fms): %s",
				float64(d.Microseconds())/1000.0,
				float64(p.opts.SlowTick.Microseconds())/1000.0,
				profiling.TopN(3))
		}
	}
}

// Flush blocks until every scheduled meshing and baking task has been
// harvested. Dirty chunks not yet scheduled stay queued.
func (p *Pipeline) Flush() {
	for p.jobs.Len() > 0 || p.batches.Len() > 0 {
		b := blockingBudget()
		p.completeJobs(b)
		p.runBatches(b)
	}
}

// Close flushes outstanding work and stops the worker pool if the pipeline
// created it. Tick does nothing afterwards.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.Flush()
	if p.pool != nil {
		p.pool.Shutdown()
	}
	p.closed = true
}

// State returns where a chunk is in the remeshing cycle.
func (p *Pipeline) State(id world.ChunkID) State {
	if p.dirty.Contains(id) {
		return StateDirty
	}
	if s, ok := p.states[id]; ok {
		return s
	}
	return StateClean
}

// InFlight returns the number of chunks with a meshing task running.
func (p *Pipeline) InFlight() int {
	return len(p.inFlight)
}

// Pending returns the number of chunks waiting to be scheduled.
func (p *Pipeline) Pending() int {
	return p.dirty.Len()
}

// Idle reports whether there is no queued or running work.
func (p *Pipeline) Idle() bool {
	return p.dirty.Len() == 0 && p.jobs.Len() == 0 && p.batches.Len() == 0
}

// Stats returns a copy of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

func (p *Pipeline) completeJobs(b *Budget) {
	defer profiling.Track("pipeline.complete")()
	p.jobs.Swap()

	var ready []readyMesh
	for p.jobs.CurrentLen() > 0 {
		j, _ := p.jobs.Dequeue()
		if b.Expired() {
			p.jobs.Enqueue(j)
			p.stats.Deferred++
			continue
		}
		if !b.Ready(j.task) {
			p.jobs.Enqueue(j)
			continue
		}
		err := j.task.Wait()
		j.release()
		if err != nil {
			log.Printf("pipeline: meshing %v failed: %v", j.id, err)
			p.failJob(j.id)
			continue
		}
		if !p.meshReady(j.id, j.chunk) {
			continue
		}
		p.renderer.AssignMesh(j.view, j.mesh.Vertices, j.mesh.Indices)
		ready = append(ready, readyMesh{id: j.id, view: j.view, mesh: j.mesh})
	}
	if next := p.bakeFollowUp(ready); next != nil {
		p.batches.Enqueue(next)
	}
}

func (p *Pipeline) runBatches(b *Budget) {
	defer profiling.Track("pipeline.batches")()
	p.batches.Swap()
	for p.batches.CurrentLen() > 0 {
		bj, _ := p.batches.Dequeue()
		bj.Run(b)
		if !bj.IsCompleted() {
			p.batches.Enqueue(bj)
			continue
		}
		if next := bj.OnCompletion(); next != nil {
			p.batches.Enqueue(next)
		}
	}
}

func (p *Pipeline) scheduleDirty() {
	defer profiling.Track("pipeline.schedule")()

	ids := make([]world.ChunkID, 0, p.dirty.CurrentLen())
	for {
		id, ok := p.dirty.Dequeue()
		if !ok {
			break
		}
		if !p.reg.Has(id) {
			delete(p.states, id)
			continue
		}
		if _, busy := p.inFlight[id]; busy {
			// picked up again once the running task is harvested
			p.dirty.Enqueue(id)
			p.stats.Requeued++
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	world.SortMorton(ids)

	switch p.opts.Mode {
	case ModeSync:
		p.meshSync(ids)
	case ModeBatched:
		p.batches.Enqueue(newMeshBatch(p, ids))
	default:
		for _, id := range ids {
			p.scheduleJob(id)
		}
	}
}

func (p *Pipeline) scheduleJob(id world.ChunkID) {
	c, view, per, ok := p.prepare(id)
	if !ok {
		return
	}
	m := meshing.NewGrowableMesh()
	m.Origin = id.Origin()
	alg := p.opts.Algorithm
	p.startJob(id)
	task := p.sched.Go(func() error {
		alg.Build(per, m)
		return nil
	})
	p.jobs.Enqueue(&job{id: id, chunk: c, view: view, perimeter: per, mesh: m, task: task})
}

func (p *Pipeline) meshSync(ids []world.ChunkID) {
	var ready []readyMesh
	for _, id := range ids {
		c, ok := p.reg.TryGet(id)
		if !ok {
			continue
		}
		view, _ := p.reg.View(id)
		m := meshing.NewGrowableMesh()
		m.Origin = id.Origin()
		c.SetClean()
		if p.opts.Algorithm == meshing.AlgorithmNaive {
			meshing.NaiveFromRegistry(p.reg, c, m)
		} else {
			per, _ := p.reg.Perimeter(id)
			p.opts.Algorithm.Build(per, m)
			per.Release()
		}
		p.stats.Scheduled++
		p.renderer.AssignMesh(view, m.Vertices, m.Indices)
		p.stats.Completed++
		p.setState(id, StateMeshReady)
		ready = append(ready, readyMesh{id: id, view: view, mesh: m})
	}
	if next := p.bakeFollowUp(ready); next != nil {
		p.batches.Enqueue(next)
	}
}

// prepare snapshots a chunk for meshing. The returned chunk identifies the
// registration the snapshot was taken from.
func (p *Pipeline) prepare(id world.ChunkID) (*world.Chunk, world.ViewHandle, *world.Perimeter, bool) {
	c, ok := p.reg.TryGet(id)
	if !ok {
		return nil, nil, nil, false
	}
	view, ok := p.reg.View(id)
	if !ok {
		return nil, nil, nil, false
	}
	per, ok := p.reg.Perimeter(id)
	if !ok {
		return nil, nil, nil, false
	}
	p.setState(id, StatePerimeterBuilt)
	return c, view, per, true
}

// live reports whether c is still the chunk registered under id. It is
// false once the chunk has been removed, and stays false if the id is loaded
// again.
func (p *Pipeline) live(id world.ChunkID, c *world.Chunk) bool {
	cur, ok := p.reg.TryGet(id)
	return ok && cur == c
}

func (p *Pipeline) startJob(id world.ChunkID) {
	if _, busy := p.inFlight[id]; busy {
		panic(fmt.Sprintf("pipeline: %v scheduled while its previous task is running", id))
	}
	p.inFlight[id] = struct{}{}
	if c, ok := p.reg.TryGet(id); ok {
		c.SetClean()
	}
	p.setState(id, StateMeshing)
	p.stats.Scheduled++
}

func (p *Pipeline) failJob(id world.ChunkID) {
	delete(p.inFlight, id)
	p.stats.Failed++
	if !p.MarkDirty(id) {
		delete(p.states, id)
	}
}

// meshReady records a harvested task for the chunk registration c. It
// reports false if that chunk was unloaded while the task ran, in which case
// the result must be dropped.
func (p *Pipeline) meshReady(id world.ChunkID, c *world.Chunk) bool {
	delete(p.inFlight, id)
	if !p.live(id, c) {
		p.discard(id)
		return false
	}
	p.stats.Completed++
	p.setState(id, StateMeshReady)
	return true
}

// discard forgets a stale result. A chunk loaded again under the same id is
// queued for its own mesh.
func (p *Pipeline) discard(id world.ChunkID) {
	p.stats.Discarded++
	if !p.MarkDirty(id) {
		delete(p.states, id)
	}
}

// bakeFollowUp starts collision baking for freshly assigned meshes, or
// settles them as clean when baking is off.
func (p *Pipeline) bakeFollowUp(ready []readyMesh) BatchJob {
	if len(ready) == 0 {
		return nil
	}
	if !p.opts.BakeCollision {
		for _, r := range ready {
			p.setState(r.id, StateClean)
		}
		return nil
	}
	return newBakeBatch(p, ready)
}

func (p *Pipeline) setState(id world.ChunkID, s State) {
	if s == StateClean {
		delete(p.states, id)
		return
	}
	p.states[id] = s
}
