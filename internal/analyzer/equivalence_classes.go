package analyzer

import "fmt"

// EquivalenceClasses is a union-find partition over identifiers, with a
// GraphNode per identifier recording the direct connections made through
// Connect.
type EquivalenceClasses[K comparable] struct {
	parent []int
	size   []int
	keys   []K
	index  map[K]int
	nodes  map[K]*GraphNode[K]
	count  int
}

// NewEquivalenceClasses creates an empty partition
func NewEquivalenceClasses[K comparable]() *EquivalenceClasses[K] {
	return &EquivalenceClasses[K]{
		index: make(map[K]int),
		nodes: make(map[K]*GraphNode[K]),
	}
}

// Add starts tracking id in a class of its own
func (ec *EquivalenceClasses[K]) Add(id K) error {
	if _, ok := ec.index[id]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateIdentifier, id)
	}
	slot := len(ec.parent)
	ec.parent = append(ec.parent, slot)
	ec.size = append(ec.size, 1)
	ec.keys = append(ec.keys, id)
	ec.index[id] = slot
	ec.nodes[id] = NewGraphNode(id)
	ec.count++
	return nil
}

// Contains reports whether id is tracked
func (ec *EquivalenceClasses[K]) Contains(id K) bool {
	_, ok := ec.index[id]
	return ok
}

// Find returns the root slot of id's class. Roots are internal and only
// meaningful for comparison against other Find results on the same instance.
func (ec *EquivalenceClasses[K]) Find(id K) (int, error) {
	slot, ok := ec.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUntrackedIdentifier, id)
	}
	return ec.root(slot), nil
}

// root resolves the root of slot with path halving
func (ec *EquivalenceClasses[K]) root(slot int) int {
	for ec.parent[slot] != slot {
		ec.parent[slot] = ec.parent[ec.parent[slot]]
		slot = ec.parent[slot]
	}
	return slot
}

// Union merges the classes of a and b. It reports whether the number of
// classes went down.
func (ec *EquivalenceClasses[K]) Union(a, b K) (bool, error) {
	ra, err := ec.Find(a)
	if err != nil {
		return false, err
	}
	rb, err := ec.Find(b)
	if err != nil {
		return false, err
	}
	if ra == rb {
		return false, nil
	}
	if ec.size[ra] < ec.size[rb] {
		ra, rb = rb, ra
	}
	ec.parent[rb] = ra
	ec.size[ra] += ec.size[rb]
	ec.count--
	return true, nil
}

// Connect merges the classes of a and b and, when that reduced the class
// count, records b as a direct neighbor of a. An untracked a is a no-op; an
// untracked b is an error.
func (ec *EquivalenceClasses[K]) Connect(a, b K) (bool, error) {
	if !ec.Contains(a) {
		return false, nil
	}
	merged, err := ec.Union(a, b)
	if err != nil || !merged {
		return merged, err
	}
	ec.nodes[a].Connect(ec.nodes[b])
	return true, nil
}

// Same reports whether a and b are in one class
func (ec *EquivalenceClasses[K]) Same(a, b K) (bool, error) {
	ra, err := ec.Find(a)
	if err != nil {
		return false, err
	}
	rb, err := ec.Find(b)
	if err != nil {
		return false, err
	}
	return ra == rb, nil
}

// Node returns the graph vertex of id
func (ec *EquivalenceClasses[K]) Node(id K) (*GraphNode[K], error) {
	node, ok := ec.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUntrackedIdentifier, id)
	}
	return node, nil
}

// Count returns the number of distinct classes
func (ec *EquivalenceClasses[K]) Count() int {
	return ec.count
}

// Len returns the number of tracked identifiers
func (ec *EquivalenceClasses[K]) Len() int {
	return len(ec.keys)
}

// Members returns every class as a list of identifiers. Classes are ordered
// by their earliest-added member and members keep insertion order.
func (ec *EquivalenceClasses[K]) Members() [][]K {
	byRoot := make(map[int]int)
	var classes [][]K
	for slot, id := range ec.keys {
		r := ec.root(slot)
		i, ok := byRoot[r]
		if !ok {
			i = len(classes)
			byRoot[r] = i
			classes = append(classes, nil)
		}
		classes[i] = append(classes[i], id)
	}
	return classes
}
