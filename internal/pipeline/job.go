package pipeline

import (
	"time"

	"voxmesh/internal/meshing"
	"voxmesh/internal/world"
)

// job tracks one chunk's meshing task. The task owns perimeter and mesh
// until it is done. chunk and view are the registration the task was
// started for.
type job struct {
	id        world.ChunkID
	chunk     *world.Chunk
	view      world.ViewHandle
	perimeter *world.Perimeter
	mesh      *meshing.Mesh
	task      Task
}

// release returns the perimeter to its pool.
func (j *job) release() {
	j.perimeter.Release()
	j.perimeter = nil
}

// readyMesh is a mesh delivered to its view and awaiting collision baking.
type readyMesh struct {
	id   world.ChunkID
	view world.ViewHandle
	mesh *meshing.Mesh
}

// Budget limits how much completion polling one tick may do. A zero
// deadline means unlimited. At least one record is always polled so work
// keeps moving under any budget.
type Budget struct {
	deadline time.Time
	now      func() time.Time
	block    bool
	polled   int
}

func newBudget(now func() time.Time, d time.Duration) *Budget {
	b := &Budget{now: now}
	if d > 0 {
		b.deadline = now().Add(d)
	}
	return b
}

// blockingBudget waits for every task instead of polling.
func blockingBudget() *Budget {
	return &Budget{now: time.Now, block: true}
}

// Expired reports whether polling should stop for this tick.
func (b *Budget) Expired() bool {
	if b.block || b.deadline.IsZero() || b.polled == 0 {
		return false
	}
	return !b.now().Before(b.deadline)
}

// Ready polls t. Under a blocking budget it waits for t to finish.
func (b *Budget) Ready(t Task) bool {
	b.polled++
	if b.block {
		<-t.Done()
		return true
	}
	select {
	case <-t.Done():
		return true
	default:
		return false
	}
}
