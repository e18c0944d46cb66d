package world

import "sort"

// Part1By2 spreads the low 10 bits of a, inserting two zero bits between
// each one.
func Part1By2(a uint32) uint32 {
	a &= 0x000003ff
	a = (a ^ (a << 16)) & 0xff0000ff
	a = (a ^ (a << 8)) & 0x0300f00f
	a = (a ^ (a << 4)) & 0x030c30c3
	a = (a ^ (a << 2)) & 0x09249249
	return a
}

// Compact1By2 is the inverse of Part1By2.
func Compact1By2(a uint32) uint32 {
	a &= 0x09249249
	a = (a ^ (a >> 2)) & 0x030c30c3
	a = (a ^ (a >> 4)) & 0x0300f00f
	a = (a ^ (a >> 8)) & 0xff0000ff
	a = (a ^ (a >> 16)) & 0x000003ff
	return a
}

// Morton3 interleaves the low 10 bits of each coordinate, x in the highest
// position. Negative coordinates wrap in two's complement, which keeps
// neighbors adjacent within a 1024-chunk window.
func Morton3(x, y, z int) uint32 {
	return Part1By2(uint32(x))<<2 | Part1By2(uint32(y))<<1 | Part1By2(uint32(z))
}

// DecodeMorton3 recovers the (unsigned, 10-bit) coordinates of a code.
func DecodeMorton3(code uint32) (x, y, z uint32) {
	return Compact1By2(code >> 2), Compact1By2(code >> 1), Compact1By2(code)
}

// SortMorton orders ids along the Z-order curve, ties broken by component.
func SortMorton(ids []ChunkID) {
	sort.Slice(ids, func(i, j int) bool {
		hi, hj := ids[i].Hash(), ids[j].Hash()
		if hi != hj {
			return hi < hj
		}
		if ids[i].X != ids[j].X {
			return ids[i].X < ids[j].X
		}
		if ids[i].Y != ids[j].Y {
			return ids[i].Y < ids[j].Y
		}
		return ids[i].Z < ids[j].Z
	})
}
