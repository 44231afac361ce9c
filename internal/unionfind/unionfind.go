// Package unionfind implements a disjoint-set forest over comparable keys.
package unionfind

// UnionFind partitions values into disjoint sets. Values are added lazily
// the first time they are seen by Find or Union.
type UnionFind[T comparable] struct {
	parent map[T]T
	rank   map[T]int
	order  []T
}

// New creates an empty union-find
func New[T comparable]() *UnionFind[T] {
	return &UnionFind[T]{
		parent: make(map[T]T),
		rank:   make(map[T]int),
	}
}

// Add registers v as a singleton set if it is not already known
func (u *UnionFind[T]) Add(v T) {
	if _, ok := u.parent[v]; ok {
		return
	}
	u.parent[v] = v
	u.order = append(u.order, v)
}

// Find returns the root of the set containing v
func (u *UnionFind[T]) Find(v T) T {
	u.Add(v)
	root := v
	for u.parent[root] != root {
		root = u.parent[root]
	}
	// path compression
	for v != root {
		next := u.parent[v]
		u.parent[v] = root
		v = next
	}
	return root
}

// Union merges the sets containing a and b
func (u *UnionFind[T]) Union(a, b T) {
	x, y := u.Find(a), u.Find(b)
	if x == y {
		return
	}
	if u.rank[x] > u.rank[y] {
		u.parent[y] = x
		return
	}
	u.parent[x] = y
	if u.rank[x] == u.rank[y] {
		u.rank[y]++
	}
}

// Same reports whether a and b are in the same set
func (u *UnionFind[T]) Same(a, b T) bool {
	return u.Find(a) == u.Find(b)
}

// Len returns the number of values known to the union-find
func (u *UnionFind[T]) Len() int {
	return len(u.order)
}

// Sets materializes every partition. Sets and their members are ordered by
// the first time each value was added, so the result is deterministic.
func (u *UnionFind[T]) Sets() [][]T {
	index := make(map[T]int)
	var sets [][]T
	for _, v := range u.order {
		root := u.Find(v)
		i, ok := index[root]
		if !ok {
			i = len(sets)
			index[root] = i
			sets = append(sets, nil)
		}
		sets[i] = append(sets[i], v)
	}
	return sets
}

// Partitions maps every known value to the full set it belongs to. Values in
// the same set share the same slice.
func (u *UnionFind[T]) Partitions() map[T][]T {
	out := make(map[T][]T, len(u.order))
	for _, set := range u.Sets() {
		for _, v := range set {
			out[v] = set
		}
	}
	return out
}
