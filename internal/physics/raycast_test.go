package physics_test

import (
	"testing"

	"voxmesh/internal/physics"
	"voxmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func newRegistry() *world.Registry {
	reg := world.NewRegistry(nil)
	reg.GenerateChunk(world.ChunkID{}, nil)
	reg.GenerateChunk(world.ChunkID{X: -1}, nil)
	return reg
}

func TestRaycast(t *testing.T) {
	reg := newRegistry()

	// Place a voxel at (5, 0, 0)
	reg.SetVoxel(5, 0, 0, world.Stone)

	// Test 1: Raycast hitting the voxel
	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}
	minDist := float32(0.1)
	maxDist := float32(10.0)

	result := physics.Raycast(start, dir, minDist, maxDist, reg)

	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != [3]int{5, 0, 0} {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.HitPosition)
	}
	if result.AdjacentPosition != [3]int{4, 0, 0} {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.AdjacentPosition)
	}
	// Ray starts at X=0.5 and enters the voxel at X=5.0
	if result.Distance < 4.49 || result.Distance > 4.51 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	// Test 2: Raycast missing (max dist)
	resultShort := physics.Raycast(start, dir, minDist, 4.0, reg)
	if resultShort.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", resultShort.HitPosition)
	}

	// Test 3: Raycast missing (wrong direction)
	resultWrong := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, minDist, maxDist, reg)
	if resultWrong.Hit {
		t.Errorf("Expected miss, got hit")
	}
}

func TestRaycastAcrossChunkBorder(t *testing.T) {
	reg := newRegistry()
	reg.SetVoxel(-3, 2, 2, world.Dirt)

	result := physics.Raycast(mgl32.Vec3{1.5, 2.5, 2.5}, mgl32.Vec3{-1, 0, 0}, 0, 10, reg)
	if !result.Hit {
		t.Fatal("Expected hit in the neighboring chunk")
	}
	if result.HitPosition != [3]int{-3, 2, 2} {
		t.Errorf("Expected hit at {-3,2,2}, got %v", result.HitPosition)
	}
	if result.AdjacentPosition != [3]int{-2, 2, 2} {
		t.Errorf("Expected adjacent at {-2,2,2}, got %v", result.AdjacentPosition)
	}
}

func TestRaycastUnloadedSpaceIsEmpty(t *testing.T) {
	reg := newRegistry()
	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, 0, 1}, 0, 40, reg)
	if result.Hit {
		t.Fatalf("Expected miss through unloaded space, got hit at %v", result.HitPosition)
	}
}
