package physics

import (
	"errors"
	"runtime"
	"sync"

	"voxmesh/internal/meshing"
	"voxmesh/internal/world"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Collider is the baked collision shape of one chunk mesh: its world-space
// bounding box and triangle count.
type Collider struct {
	Min, Max  mgl32.Vec3
	Triangles int
}

// Empty reports whether the source mesh had no geometry.
func (c Collider) Empty() bool {
	return c.Triangles == 0
}

// Contains reports whether p lies inside the box.
func (c Collider) Contains(p mgl32.Vec3) bool {
	for a := 0; a < 3; a++ {
		if p[a] < c.Min[a] || p[a] > c.Max[a] {
			return false
		}
	}
	return !c.Empty()
}

// Baker is a headless collision backend. Bakes run on a pond pool and
// store their result per view.
type Baker struct {
	pool      pond.Pool
	mu        sync.RWMutex
	colliders map[world.ViewHandle]Collider
}

// NewBaker creates a baker. workers <= 0 uses one worker per CPU.
func NewBaker(workers int) *Baker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Baker{
		pool:      pond.NewPool(workers),
		colliders: make(map[world.ViewHandle]Collider),
	}
}

// BakeCollision computes the collider for m in the background. m must not
// be modified until the task is done.
func (b *Baker) BakeCollision(view world.ViewHandle, m *meshing.Mesh) meshing.Task {
	return b.pool.SubmitErr(func() error {
		if m == nil {
			return errors.New("physics: nil mesh")
		}
		lo, hi := m.Bounds()
		c := Collider{
			Min:       lo.Add(m.Origin),
			Max:       hi.Add(m.Origin),
			Triangles: m.IndexCount() / 3,
		}
		b.mu.Lock()
		b.colliders[view] = c
		b.mu.Unlock()
		return nil
	})
}

// Collider returns the latest collider baked for view.
func (b *Baker) Collider(view world.ViewHandle) (Collider, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.colliders[view]
	return c, ok
}

// Len returns the number of views with a collider.
func (b *Baker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.colliders)
}

// Shutdown waits for running bakes and stops the pool.
func (b *Baker) Shutdown() {
	b.pool.StopAndWait()
}
