package meshing

import (
	"fmt"
	"strings"

	"voxmesh/internal/profiling"
	"voxmesh/internal/world"
)

// Algorithm selects the face generation strategy.
type Algorithm int

const (
	AlgorithmNaive Algorithm = iota
	AlgorithmGreedy
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNaive:
		return "naive"
	case AlgorithmGreedy:
		return "greedy"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm accepts "naive" or "greedy", case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naive", "culling":
		return AlgorithmNaive, nil
	case "greedy":
		return AlgorithmGreedy, nil
	}
	return 0, fmt.Errorf("meshing: unknown algorithm %q", s)
}

// Build runs the algorithm over p, appending to m.
func (a Algorithm) Build(p *world.Perimeter, m *Mesh) {
	switch a {
	case AlgorithmGreedy:
		defer profiling.Track("meshing.greedy")()
		Greedy(p, m)
	default:
		defer profiling.Track("meshing.naive")()
		Naive(p, m)
	}
}
