package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/pyblocks/internal/parser"
)

// CFG is the result of one build: the input statements, the basic blocks in
// discovery order and the partition of blocks into connected classes.
type CFG struct {
	// Nodes is the statement sequence the CFG was built from
	Nodes []*parser.Node

	// Blocks lists non-empty blocks in pre-order: a block, then the blocks
	// nested inside the construct that follows it, then the continuation.
	Blocks []*BasicBlock

	// Classes groups block IDs that are reachable from one another
	Classes *EquivalenceClasses[int]

	byID map[int]*BasicBlock
}

func newCFG(nodes []*parser.Node, blocks []*BasicBlock, classes *EquivalenceClasses[int]) *CFG {
	cfg := &CFG{
		Nodes:   nodes,
		Blocks:  blocks,
		Classes: classes,
		byID:    make(map[int]*BasicBlock, len(blocks)),
	}
	for _, block := range blocks {
		cfg.byID[block.ID] = block
	}
	return cfg
}

// Block retrieves a block by its ID
func (cfg *CFG) Block(id int) (*BasicBlock, bool) {
	block, ok := cfg.byID[id]
	return block, ok
}

// Size returns the number of blocks in the graph
func (cfg *CFG) Size() int {
	return len(cfg.Blocks)
}

// ClassCount returns the number of connected classes
func (cfg *CFG) ClassCount() int {
	return cfg.Classes.Count()
}

// Connected reports whether two blocks ended up in the same class
func (cfg *CFG) Connected(a, b int) (bool, error) {
	return cfg.Classes.Same(a, b)
}

// Groups returns block IDs grouped by class, ordered by their first block
func (cfg *CFG) Groups() [][]int {
	return cfg.Classes.Members()
}

// Successors returns the IDs recorded as direct neighbors of a block
func (cfg *CFG) Successors(id int) ([]int, error) {
	node, err := cfg.Classes.Node(id)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, n := range node.ConnectedNodes() {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

// String returns a string representation of the CFG
func (cfg *CFG) String() string {
	return fmt.Sprintf("CFG: %d blocks, %d classes", cfg.Size(), cfg.ClassCount())
}
