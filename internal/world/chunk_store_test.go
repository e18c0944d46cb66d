package world

import (
	"sort"
	"testing"
)

func TestRegistryGenerateChunk(t *testing.T) {
	var made []ChunkID
	reg := NewRegistry(func(id ChunkID) ViewHandle {
		made = append(made, id)
		return "view-" + id.String()
	})

	c, created := reg.GenerateChunk(ChunkID{1, 2, 3}, FillGenerator(Stone))
	if !created || c == nil {
		t.Fatal("expected a new chunk")
	}
	if !c.IsDirty() {
		t.Fatal("generated chunk should be dirty")
	}
	again, created := reg.GenerateChunk(ChunkID{1, 2, 3}, nil)
	if created || again != c {
		t.Fatal("second GenerateChunk should return the existing chunk")
	}
	v, ok := reg.View(ChunkID{1, 2, 3})
	if !ok || v != "view-chunk(1,2,3)" {
		t.Fatalf("View = %v, %v", v, ok)
	}
	if len(made) != 1 {
		t.Fatalf("view factory called %d times, want 1", len(made))
	}
	if err := reg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryRemoveKeepsMapsInSync(t *testing.T) {
	reg := NewRegistry(nil)
	reg.GenerateChunk(ChunkID{}, nil)
	reg.GenerateChunk(ChunkID{X: 1}, nil)

	if !reg.Remove(ChunkID{}) {
		t.Fatal("Remove returned false")
	}
	if reg.Remove(ChunkID{}) {
		t.Fatal("second Remove should return false")
	}
	if _, ok := reg.View(ChunkID{}); ok {
		t.Fatal("view survived removal")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	if err := reg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestRegistrySetVoxelInterior(t *testing.T) {
	reg := NewRegistry(nil)
	c, _ := reg.GenerateChunk(ChunkID{}, nil)
	reg.GenerateChunk(ChunkID{X: 1}, nil)
	c.SetClean()

	touched, ok := reg.SetVoxel(5, 5, 5, Stone)
	if !ok {
		t.Fatal("SetVoxel on a loaded chunk failed")
	}
	if len(touched) != 1 || touched[0] != (ChunkID{}) {
		t.Fatalf("touched = %v, want only the owning chunk", touched)
	}
	if got := reg.GetVoxel(5, 5, 5); got != Stone {
		t.Fatalf("GetVoxel = %v", got)
	}

	touched, _ = reg.SetVoxel(5, 5, 5, Stone)
	if len(touched) != 0 {
		t.Fatalf("rewriting the same value touched %v", touched)
	}
}

func TestRegistrySetVoxelBoundary(t *testing.T) {
	reg := NewRegistry(nil)
	reg.GenerateChunk(ChunkID{}, nil)
	right, _ := reg.GenerateChunk(ChunkID{X: 1}, nil)
	top, _ := reg.GenerateChunk(ChunkID{Y: 1}, nil)
	right.SetClean()
	top.SetClean()

	// corner voxel: shares a face with +x and +y neighbors; -z neighbor is unloaded
	touched, ok := reg.SetVoxel(ChunkMask, ChunkMask, 0, Stone)
	if !ok {
		t.Fatal("SetVoxel failed")
	}
	got := append([]ChunkID(nil), touched...)
	sort.Slice(got, func(i, j int) bool { return got[i].Hash() < got[j].Hash() })
	want := []ChunkID{{}, {Y: 1}, {X: 1}}
	sort.Slice(want, func(i, j int) bool { return want[i].Hash() < want[j].Hash() })
	if len(got) != len(want) {
		t.Fatalf("touched = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("touched = %v, want %v", got, want)
		}
	}
	if !right.IsDirty() || !top.IsDirty() {
		t.Fatal("boundary edit did not dirty neighbors")
	}
}

func TestRegistrySetVoxelUnloaded(t *testing.T) {
	reg := NewRegistry(nil)
	if _, ok := reg.SetVoxel(100, 0, 0, Stone); ok {
		t.Fatal("SetVoxel in unloaded space should fail")
	}
	if got := reg.GetVoxel(100, 0, 0); got != Air {
		t.Fatalf("unloaded GetVoxel = %v, want air", got)
	}
}

func TestRegistrySetVoxelNegativeCoords(t *testing.T) {
	reg := NewRegistry(nil)
	c, _ := reg.GenerateChunk(ChunkID{-1, -1, -1}, nil)
	if _, ok := reg.SetVoxel(-1, -16, -5, Dirt); !ok {
		t.Fatal("SetVoxel failed")
	}
	if got := c.Get(15, 0, 11); got != Dirt {
		t.Fatalf("local voxel = %v, want dirt", got)
	}
}

func TestRegistryIDsAndNeighbors(t *testing.T) {
	reg := NewRegistry(nil)
	for _, id := range []ChunkID{{1, 0, 0}, {0, 0, 0}, {0, 0, 1}, {5, 5, 5}} {
		reg.GenerateChunk(id, nil)
	}
	ids := reg.IDs()
	if ids[0] != (ChunkID{}) || ids[len(ids)-1] != (ChunkID{5, 5, 5}) {
		t.Fatalf("IDs not Morton-ordered: %v", ids)
	}
	nb := reg.LoadedNeighbors(ChunkID{})
	if len(nb) != 2 {
		t.Fatalf("LoadedNeighbors = %v, want 2 entries", nb)
	}
}
