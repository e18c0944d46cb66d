package pipeline

import (
	"time"

	"voxmesh/internal/meshing"
	"voxmesh/internal/world"
)

type fakeTask struct {
	done chan struct{}
	err  error
}

func (t *fakeTask) Done() <-chan struct{} { return t.done }
func (t *fakeTask) Wait() error {
	<-t.done
	return t.err
}

type pendingTask struct {
	fn   func() error
	task *fakeTask
}

// gatedScheduler holds every task until released, unless immediate is set.
type gatedScheduler struct {
	immediate bool
	fail      error
	pending   []pendingTask
	calls     int
}

func (s *gatedScheduler) Go(fn func() error) Task {
	s.calls++
	t := &fakeTask{done: make(chan struct{})}
	s.pending = append(s.pending, pendingTask{fn, t})
	if s.immediate {
		s.releaseAll()
	}
	return t
}

func (s *gatedScheduler) releaseN(n int) {
	for i := 0; i < n && len(s.pending) > 0; i++ {
		pt := s.pending[0]
		s.pending = s.pending[1:]
		pt.task.err = pt.fn()
		if s.fail != nil {
			pt.task.err = s.fail
		}
		close(pt.task.done)
	}
}

func (s *gatedScheduler) releaseAll() { s.releaseN(len(s.pending)) }

type assignment struct {
	view  world.ViewHandle
	faces int
}

type fakeArray struct {
	meshes []*meshing.Mesh
}

func (a *fakeArray) Len() int                     { return len(a.meshes) }
func (a *fakeArray) Write(i int, m *meshing.Mesh) { a.meshes[i] = m }

type fakeRenderer struct {
	assigned []assignment
	applied  [][]world.ViewHandle
	baked    []world.ViewHandle
}

func (r *fakeRenderer) AssignMesh(view world.ViewHandle, vertices []meshing.Vertex, indices []uint32) {
	r.assigned = append(r.assigned, assignment{view, len(vertices) / 4})
}

func (r *fakeRenderer) AllocateMeshes(n int) MeshArray {
	return &fakeArray{meshes: make([]*meshing.Mesh, n)}
}

func (r *fakeRenderer) ApplyMeshes(arr MeshArray, views []world.ViewHandle) {
	r.applied = append(r.applied, views)
	fa := arr.(*fakeArray)
	for i, v := range views {
		r.assigned = append(r.assigned, assignment{v, fa.meshes[i].FaceCount()})
	}
}

func (r *fakeRenderer) SetBakedMesh(view world.ViewHandle) {
	r.baked = append(r.baked, view)
}

// last returns the faces of the latest mesh assigned to view.
func (r *fakeRenderer) last(view world.ViewHandle) (int, bool) {
	for i := len(r.assigned) - 1; i >= 0; i-- {
		if r.assigned[i].view == view {
			return r.assigned[i].faces, true
		}
	}
	return 0, false
}

type fakePhysics struct {
	sched *gatedScheduler
	seen  []world.ViewHandle
}

func (f *fakePhysics) BakeCollision(view world.ViewHandle, m *meshing.Mesh) Task {
	f.seen = append(f.seen, view)
	return f.sched.Go(func() error { return nil })
}

// stepClock advances by step on every reading.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}
