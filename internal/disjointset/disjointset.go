// Package disjointset implements a union-find structure over integer
// elements, with union by rank and path compression. Find is iterative,
// so deep parent chains cannot overflow the stack.
package disjointset

// Set partitions the elements 0..n-1 into disjoint groups.
type Set struct {
	parent []int
	rank   []int
}

// New returns a Set of n singleton elements.
func New(n int) *Set {
	s := &Set{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

// Len returns the number of elements in the set.
func (s *Set) Len() int { return len(s.parent) }

// Find returns the representative of x's group.
func (s *Set) Find(x int) int {
	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}
	// Path compression: point everything on the walk at the root.
	for s.parent[x] != root {
		s.parent[x], x = root, s.parent[x]
	}
	return root
}

// Union merges the groups containing x and y.
func (s *Set) Union(x, y int) {
	rx, ry := s.Find(x), s.Find(y)
	if rx == ry {
		return
	}
	if s.rank[rx] < s.rank[ry] {
		rx, ry = ry, rx
	}
	s.parent[ry] = rx
	if s.rank[rx] == s.rank[ry] {
		s.rank[rx]++
	}
}
