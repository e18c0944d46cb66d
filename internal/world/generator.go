package world

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// TerrainGenerator supplies the initial voxel content of a new chunk.
type TerrainGenerator interface {
	Populate(c *Chunk)
}

// NoiseGenerator carves solid space out of 3-D simplex noise: a voxel is
// floor(noise)+1, so positive noise gives stone and negative gives air.
type NoiseGenerator struct {
	noise     opensimplex.Noise32
	frequency float32
}

// NewNoiseGenerator creates a generator with the given seed and sample
// frequency (noise units per voxel).
func NewNoiseGenerator(seed int64, frequency float32) *NoiseGenerator {
	if frequency <= 0 {
		frequency = 0.05
	}
	return &NoiseGenerator{
		noise:     opensimplex.New32(seed),
		frequency: frequency,
	}
}

// VoxelAt samples the generator at world coordinates.
func (g *NoiseGenerator) VoxelAt(x, y, z int) Voxel {
	f := g.frequency
	n := g.noise.Eval3(float32(x)*f, float32(y)*f, float32(z)*f)
	v := int(math.Floor(float64(n))) + 1
	if v <= 0 {
		return Air
	}
	return Voxel(v)
}

// Populate fills a chunk from noise.
func (g *NoiseGenerator) Populate(c *Chunk) {
	ox, oy, oz := c.ID.WorldOrigin()
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				c.voxels[Index(x, y, z)] = g.VoxelAt(ox+x, oy+y, oz+z)
			}
		}
	}
	c.dirty = true
}

// HeightGenerator builds a grass-topped heightmap from octave noise.
type HeightGenerator struct {
	noise       opensimplex.Noise
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewHeightGenerator creates a heightmap generator with default settings.
func NewHeightGenerator(seed int64) *HeightGenerator {
	return &HeightGenerator{
		noise:       opensimplex.New(seed),
		scale:       1.0 / 64.0,
		baseHeight:  24,
		amp:         16,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// HeightAt computes world surface height (voxel Y) at world X,Z.
func (g *HeightGenerator) HeightAt(worldX, worldZ int) int {
	x := float64(worldX) * g.scale
	z := float64(worldZ) * g.scale
	total, freq, amp, norm := 0.0, 1.0, 1.0, 0.0
	for i := 0; i < g.octaves; i++ {
		total += g.noise.Eval2(x*freq, z*freq) * amp
		norm += amp
		amp *= g.persistence
		freq *= g.lacunarity
	}
	height := float64(g.baseHeight) + total/norm*g.amp
	if height < 0 {
		height = 0
	}
	return int(math.Floor(height))
}

// Populate fills a chunk using the heightmap.
func (g *HeightGenerator) Populate(c *Chunk) {
	ox, oy, oz := c.ID.WorldOrigin()
	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			height := g.HeightAt(ox+lx, oz+lz)
			for ly := 0; ly < ChunkSize; ly++ {
				wy := oy + ly
				var v Voxel
				switch {
				case wy > height:
					v = Air
				case wy == 0:
					v = Bedrock
				case wy == height:
					v = Grass
				case wy >= height-3:
					v = Dirt
				default:
					v = Stone
				}
				c.voxels[Index(lx, ly, lz)] = v
			}
		}
	}
	c.dirty = true
}

// FlatGenerator fills every voxel with world y below Height with Material.
type FlatGenerator struct {
	Height   int
	Material Voxel
}

// NewFlatGenerator creates a flat world of stone.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{Height: height, Material: Stone}
}

func (g *FlatGenerator) Populate(c *Chunk) {
	_, oy, _ := c.ID.WorldOrigin()
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			if oy+y >= g.Height {
				continue
			}
			for z := 0; z < ChunkSize; z++ {
				c.voxels[Index(x, y, z)] = g.Material
			}
		}
	}
	c.dirty = true
}

// FillGenerator sets every voxel to the same value.
type FillGenerator Voxel

func (g FillGenerator) Populate(c *Chunk) {
	c.Fill(Voxel(g))
}
