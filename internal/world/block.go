package world

// Material codes produced by the bundled generators. Any non-zero code is a
// valid solid material; these only name the ones the generators emit.
const (
	Stone Voxel = iota + 1
	Dirt
	Grass
	Bedrock
)

var materialNames = map[Voxel]string{
	Air:     "air",
	Stone:   "stone",
	Dirt:    "dirt",
	Grass:   "grass",
	Bedrock: "bedrock",
}

// MaterialName returns a readable name for known codes and "" otherwise.
func MaterialName(v Voxel) string {
	return materialNames[v]
}
