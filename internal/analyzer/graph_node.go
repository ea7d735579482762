package analyzer

// GraphNode is a vertex in the block adjacency graph. Identity is the ID
// alone; neighbors accumulate in insertion order and are never removed.
type GraphNode[K comparable] struct {
	ID K

	neighbors []*GraphNode[K]
	seen      map[K]struct{}
}

// NewGraphNode creates a vertex with no neighbors
func NewGraphNode[K comparable](id K) *GraphNode[K] {
	return &GraphNode[K]{
		ID:   id,
		seen: make(map[K]struct{}),
	}
}

// Connect records other as a neighbor. It reports false when other was
// already a neighbor or is nil.
func (n *GraphNode[K]) Connect(other *GraphNode[K]) bool {
	if other == nil {
		return false
	}
	if _, ok := n.seen[other.ID]; ok {
		return false
	}
	n.seen[other.ID] = struct{}{}
	n.neighbors = append(n.neighbors, other)
	return true
}

// IsConnectedTo reports whether id is a direct neighbor
func (n *GraphNode[K]) IsConnectedTo(id K) bool {
	_, ok := n.seen[id]
	return ok
}

// ConnectedNodes returns the neighbors in the order they were connected
func (n *GraphNode[K]) ConnectedNodes() []*GraphNode[K] {
	out := make([]*GraphNode[K], len(n.neighbors))
	copy(out, n.neighbors)
	return out
}

// Degree returns the number of direct neighbors
func (n *GraphNode[K]) Degree() int {
	return len(n.neighbors)
}

// Equal compares by identifier only
func (n *GraphNode[K]) Equal(other *GraphNode[K]) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.ID == other.ID
}
