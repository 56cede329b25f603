package locus

// forest is a union-find over provisional cluster IDs. Each entry points at
// its parent; roots point at themselves.
type forest []int

// add creates a new singleton cluster and returns its ID
func (f *forest) add() int {
	id := len(*f)
	*f = append(*f, id)
	return id
}

// find returns the root of cluster i, compressing the path on the way
func (f forest) find(i int) int {
	root := i
	for f[root] != root {
		root = f[root]
	}
	for f[i] != root {
		next := f[i]
		f[i] = root
		i = next
	}
	return root
}

// union merges the cluster of a into the cluster of b
func (f forest) union(a, b int) {
	ra, rb := f.find(a), f.find(b)
	if ra != rb {
		f[ra] = rb
	}
}
