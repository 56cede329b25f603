package locus

import "testing"

func Test_forest(t *testing.T) {
	f := forest{}
	for i := 0; i < 6; i++ {
		f.add()
	}

	f.union(1, 0)
	f.union(2, 1)
	f.union(4, 3)

	same := [][2]int{{0, 1}, {0, 2}, {1, 2}, {3, 4}}
	for _, p := range same {
		if f.find(p[0]) != f.find(p[1]) {
			t.Errorf("%d and %d should share a root", p[0], p[1])
		}
	}

	apart := [][2]int{{0, 3}, {2, 4}, {5, 0}, {5, 3}}
	for _, p := range apart {
		if f.find(p[0]) == f.find(p[1]) {
			t.Errorf("%d and %d shouldn't share a root", p[0], p[1])
		}
	}

	// after a find the path is compressed to point at the root
	root := f.find(2)
	if f[2] != root {
		t.Errorf("f[2] = %d, expected root %d", f[2], root)
	}
}
