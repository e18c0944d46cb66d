package world

import (
	"crypto/sha256"
	"testing"
)

func TestGeneratorsImplementInterface(t *testing.T) {
	var _ TerrainGenerator = NewNoiseGenerator(123, 0.05)
	var _ TerrainGenerator = NewHeightGenerator(123)
	var _ TerrainGenerator = NewFlatGenerator(10)
	var _ TerrainGenerator = FillGenerator(Stone)
}

func TestFlatGeneratorPopulate(t *testing.T) {
	c := NewChunk(ChunkID{})
	c.SetClean()
	NewFlatGenerator(5).Populate(c)

	for y := 0; y < ChunkSize; y++ {
		want := Air
		if y < 5 {
			want = Stone
		}
		if v := c.Get(3, y, 7); v != want {
			t.Errorf("y=%d: got %v, want %v", y, v, want)
		}
	}
	if !c.IsDirty() {
		t.Fatal("populated chunk should be dirty")
	}
}

func TestFlatGeneratorAboveHeightIsEmpty(t *testing.T) {
	c := NewChunk(ChunkID{Y: 1})
	NewFlatGenerator(ChunkSize).Populate(c)
	if !c.IsEmpty() {
		t.Fatalf("chunk above the surface has %d solid voxels", c.SolidCount())
	}
}

func TestFillGenerator(t *testing.T) {
	c := NewChunk(ChunkID{})
	FillGenerator(Dirt).Populate(c)
	if n := c.SolidCount(); n != ChunkVolume {
		t.Fatalf("got %d solid voxels, want %d", n, ChunkVolume)
	}
}

// hashChunkVoxels computes a SHA-256 hash of all voxels in a chunk
func hashChunkVoxels(c *Chunk) [32]byte {
	h := sha256.New()
	for _, v := range c.Voxels() {
		h.Write([]byte{byte(v), byte(v >> 8)})
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

func TestNoiseDeterminism(t *testing.T) {
	id := ChunkID{2, -1, 5}
	a, b := NewChunk(id), NewChunk(id)
	NewNoiseGenerator(12345, 0.05).Populate(a)
	NewNoiseGenerator(12345, 0.05).Populate(b)
	if hashChunkVoxels(a) != hashChunkVoxels(b) {
		t.Fatal("same seed produced different chunks")
	}
}

func TestNoiseSeedsDiffer(t *testing.T) {
	id := ChunkID{}
	a, b := NewChunk(id), NewChunk(id)
	NewNoiseGenerator(1, 0.1).Populate(a)
	NewNoiseGenerator(2, 0.1).Populate(b)
	if hashChunkVoxels(a) == hashChunkVoxels(b) {
		t.Fatal("different seeds produced identical chunks")
	}
}

func TestNoiseVoxelRange(t *testing.T) {
	g := NewNoiseGenerator(7, 0.08)
	solid := 0
	for x := -20; x < 20; x++ {
		for y := -20; y < 20; y++ {
			v := g.VoxelAt(x, y, 0)
			if v > 2 {
				t.Fatalf("VoxelAt(%d,%d,0) = %d, want 0..2", x, y, v)
			}
			if v != Air {
				solid++
			}
		}
	}
	if solid == 0 || solid == 40*40 {
		t.Fatalf("expected mixed solid and air, got %d solid of %d", solid, 40*40)
	}
}

func TestHeightGeneratorLayers(t *testing.T) {
	g := NewHeightGenerator(99)
	for cy := 0; cy < 4; cy++ {
		c := NewChunk(ChunkID{0, cy, 0})
		g.Populate(c)
		for ly := 0; ly < ChunkSize; ly++ {
			wy := cy*ChunkSize + ly
			h := g.HeightAt(4, 9)
			v := c.Get(4, ly, 9)
			switch {
			case wy > h && v != Air:
				t.Fatalf("wy=%d above height %d: got %v", wy, h, v)
			case wy == h && wy != 0 && v != Grass:
				t.Fatalf("wy=%d at surface: got %v, want grass", wy, v)
			case wy == 0 && v != Bedrock:
				t.Fatalf("wy=0: got %v, want bedrock", v)
			}
		}
	}
}

func TestMaterialName(t *testing.T) {
	if got := MaterialName(Grass); got != "grass" {
		t.Errorf("MaterialName(Grass) = %q", got)
	}
	if got := MaterialName(Voxel(999)); got != "" {
		t.Errorf("MaterialName(999) = %q, want empty", got)
	}
}
