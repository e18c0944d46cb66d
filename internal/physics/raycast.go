package physics

import (
	"math"

	"voxmesh/internal/profiling"
	"voxmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0
)

// VoxelSource answers voxel queries at world coordinates.
type VoxelSource interface {
	GetVoxel(x, y, z int) world.Voxel
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Hit              bool
}

// Raycast marches a ray from start and reports the first solid voxel it
// enters. Voxel (x, y, z) covers [x, x+1) on each axis. AdjacentPosition is
// the last empty voxel crossed, which is where a placed voxel would go.
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, src VoxelSource) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	stepSize := float32(0.02)
	steps := int(maxDist / stepSize)

	lastEmptyPos := voxelAt(start)
	result := RaycastResult{Hit: false}

	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}

		pos := start.Add(direction.Mul(dist))
		voxelPos := voxelAt(pos)

		if src.GetVoxel(voxelPos[0], voxelPos[1], voxelPos[2]).IsSolid() {
			result.HitPosition = voxelPos
			result.AdjacentPosition = lastEmptyPos
			result.Distance = dist
			result.Hit = true
			return result
		}

		lastEmptyPos = voxelPos
	}

	return result
}

func voxelAt(p mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p.X()))),
		int(math.Floor(float64(p.Y()))),
		int(math.Floor(float64(p.Z()))),
	}
}
