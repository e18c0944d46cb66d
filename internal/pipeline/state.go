package pipeline

import "fmt"

// State is where a chunk is in the remeshing cycle.
type State int

const (
	StateClean State = iota
	StateDirty
	StatePerimeterBuilt
	StateMeshing
	StateMeshReady
	StateBaking
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StatePerimeterBuilt:
		return "perimeter-built"
	case StateMeshing:
		return "meshing"
	case StateMeshReady:
		return "mesh-ready"
	case StateBaking:
		return "baking"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats are cumulative pipeline counters.
type Stats struct {
	Ticks     uint64
	Scheduled uint64 // meshing tasks started
	Completed uint64 // meshes handed to the renderer
	Failed    uint64 // meshing tasks that returned an error
	Requeued  uint64 // dirty ids pushed back because a task was in flight
	Deferred  uint64 // records left unpolled when the time budget ran out
	Discarded uint64 // results dropped because their chunk was unloaded
	Batches   uint64 // batches completed
	Baked     uint64 // collision meshes assigned
}
