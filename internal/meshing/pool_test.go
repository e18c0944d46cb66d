package meshing

import (
	"errors"
	"testing"

	"voxmesh/internal/world"
)

func TestWorkerPoolSubmit(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Shutdown()

	type pending struct {
		task Task
		mesh *Mesh
		per  *world.Perimeter
	}
	var jobs []pending
	for seed := int64(0); seed < 4; seed++ {
		p := terrainPerimeter(t, seed)
		m := NewGrowableMesh()
		jobs = append(jobs, pending{pool.Submit(AlgorithmGreedy, p, m), m, p})
	}
	for _, j := range jobs {
		<-j.task.Done()
		if err := j.task.Wait(); err != nil {
			t.Fatalf("task failed: %v", err)
		}
		if j.mesh.FaceCount() != build(AlgorithmGreedy, j.per).FaceCount() {
			t.Fatal("pooled mesh differs from inline mesh")
		}
		j.per.Release()
	}
}

func TestWorkerPoolGoReportsErrors(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	want := errors.New("bake failed")
	task := pool.Go(func() error { return want })
	if err := task.Wait(); !errors.Is(err, want) {
		t.Fatalf("Wait = %v, want %v", err, want)
	}

	task = pool.Go(func() error { panic("boom") })
	if err := task.Wait(); err == nil {
		t.Fatal("expected panic to surface as an error")
	}
}

func TestWorkerPoolDefaults(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()
	if pool.Workers() <= 0 {
		t.Fatalf("Workers = %d", pool.Workers())
	}
}
