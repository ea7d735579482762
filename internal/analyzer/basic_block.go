package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/pyblocks/internal/parser"
)

// BasicBlock is a maximal straight-line run of statements
type BasicBlock struct {
	// ID is unique within one CFG build
	ID int

	// Body holds the statements, with expression statements unwrapped
	Body []*parser.Node

	// Calls lists the call expressions inside Body in source order. Bodies of
	// nested definitions and lambdas are skipped.
	Calls []*parser.Node
}

func newBasicBlock(id int, body []*parser.Node) *BasicBlock {
	block := &BasicBlock{ID: id, Body: body}
	for _, stmt := range body {
		block.Calls = append(block.Calls, collectCalls(stmt)...)
	}
	return block
}

func collectCalls(stmt *parser.Node) []*parser.Node {
	var calls []*parser.Node
	stmt.WalkDeep(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeFunctionDef, parser.NodeAsyncFunctionDef, parser.NodeClassDef, parser.NodeLambda:
			return false
		case parser.NodeCall:
			calls = append(calls, n)
		}
		return true
	})
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].Location.Before(calls[j].Location)
	})
	return calls
}

// IsEmpty returns true if the block has no statements
func (bb *BasicBlock) IsEmpty() bool {
	return len(bb.Body) == 0
}

// Lines returns the first and last source line covered by the block, or
// zeros for an empty block.
func (bb *BasicBlock) Lines() (start, end int) {
	for _, stmt := range bb.Body {
		if start == 0 || stmt.Location.StartLine < start {
			start = stmt.Location.StartLine
		}
		if stmt.Location.EndLine > end {
			end = stmt.Location.EndLine
		}
	}
	return start, end
}

// String returns a string representation of the basic block
func (bb *BasicBlock) String() string {
	return fmt.Sprintf("[bb%d: %d stmts]", bb.ID, len(bb.Body))
}

// BlockExtractor cuts the leading straight-line block off a statement
// sequence. It owns the identifier counter of one build.
type BlockExtractor struct {
	classifier *NodeClassifier
	nextID     int
}

// NewBlockExtractor creates an extractor whose first block gets ID 0
func NewBlockExtractor(classifier *NodeClassifier) *BlockExtractor {
	if classifier == nil {
		classifier = NewNodeClassifier()
	}
	return &BlockExtractor{classifier: classifier}
}

// ExtractFirst returns the block formed by the statements before the first
// boundary node, plus the remaining nodes starting at that boundary node.
// A new identifier is used even when the block is empty.
func (e *BlockExtractor) ExtractFirst(nodes []*parser.Node) (*BasicBlock, []*parser.Node, error) {
	for i, node := range nodes {
		if err := e.classifier.Validate(node); err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	var body []*parser.Node
	var remaining []*parser.Node
	for i, node := range nodes {
		if e.classifier.IsBoundary(node.Type) {
			remaining = nodes[i:]
			break
		}
		if e.classifier.IsWrapper(node.Type) {
			body = append(body, e.classifier.unwrap(node))
			continue
		}
		body = append(body, node)
	}

	block := newBasicBlock(e.nextID, body)
	e.nextID++
	return block, remaining, nil
}
