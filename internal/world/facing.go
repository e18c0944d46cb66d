package world

import "fmt"

// Facing is one of the six axis-aligned face directions. The order is such
// that Facing%3 is the axis the face is perpendicular to (0 x, 1 y, 2 z).
type Facing int

const (
	FacingRight Facing = iota // +x
	FacingTop                 // +y
	FacingBack                // -z
	FacingLeft                // -x
	FacingBottom              // -y
	FacingFront               // +z
)

// Facings lists every facing in enum order.
var Facings = [6]Facing{FacingRight, FacingTop, FacingBack, FacingLeft, FacingBottom, FacingFront}

var facingDirections = [6]Vec3i{
	FacingRight:  {1, 0, 0},
	FacingTop:    {0, 1, 0},
	FacingBack:   {0, 0, -1},
	FacingLeft:   {-1, 0, 0},
	FacingBottom: {0, -1, 0},
	FacingFront:  {0, 0, 1},
}

// Direction returns the unit offset pointing out of the face.
func (f Facing) Direction() Vec3i {
	return facingDirections[f]
}

// Axis returns the axis perpendicular to the face.
func (f Facing) Axis() int {
	return int(f) % 3
}

// Opposite returns the facing pointing the other way.
func (f Facing) Opposite() Facing {
	return (f + 3) % 6
}

func (f Facing) String() string {
	switch f {
	case FacingRight:
		return "right"
	case FacingTop:
		return "top"
	case FacingBack:
		return "back"
	case FacingLeft:
		return "left"
	case FacingBottom:
		return "bottom"
	case FacingFront:
		return "front"
	}
	return fmt.Sprintf("Facing(%d)", int(f))
}
