package world

import "testing"

func TestMortonRoundTrip(t *testing.T) {
	for _, c := range [][3]uint32{{0, 0, 0}, {1, 2, 3}, {1023, 0, 511}, {77, 900, 12}} {
		code := Morton3(int(c[0]), int(c[1]), int(c[2]))
		x, y, z := DecodeMorton3(code)
		if [3]uint32{x, y, z} != c {
			t.Errorf("DecodeMorton3(Morton3(%v)) = %d,%d,%d", c, x, y, z)
		}
	}
}

func TestMortonInterleave(t *testing.T) {
	if got := Morton3(1, 0, 0); got != 4 {
		t.Errorf("Morton3(1,0,0) = %d, want 4", got)
	}
	if got := Morton3(0, 1, 0); got != 2 {
		t.Errorf("Morton3(0,1,0) = %d, want 2", got)
	}
	if got := Morton3(0, 0, 1); got != 1 {
		t.Errorf("Morton3(0,0,1) = %d, want 1", got)
	}
	if got := Morton3(1, 1, 1); got != 7 {
		t.Errorf("Morton3(1,1,1) = %d, want 7", got)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	a, b := ChunkID{3, -4, 5}, ChunkID{3, -4, 5}
	if a.Hash() != b.Hash() {
		t.Fatal("equal ids hash differently")
	}
	if a.Hash() == (ChunkID{5, -4, 3}).Hash() {
		t.Fatal("permuted id collides")
	}
}

func TestSortMorton(t *testing.T) {
	ids := []ChunkID{{1, 1, 1}, {0, 0, 1}, {1, 0, 0}, {0, 0, 0}, {0, 1, 0}}
	SortMorton(ids)
	want := []ChunkID{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {1, 0, 0}, {1, 1, 1}}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}
