package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/pyblocks/internal/parser"
)

// DefaultBoundaryKinds end a straight-line block: definitions, return,
// loops, conditionals and exception handling.
var DefaultBoundaryKinds = []parser.NodeType{
	parser.NodeFunctionDef,
	parser.NodeAsyncFunctionDef,
	parser.NodeClassDef,
	parser.NodeReturn,
	parser.NodeFor,
	parser.NodeAsyncFor,
	parser.NodeWhile,
	parser.NodeIf,
	parser.NodeMatch,
	parser.NodeMatchCase,
	parser.NodeTry,
	parser.NodeExceptHandler,
}

// invalidKinds can never appear in a statement sequence: containers that
// hold statements and auxiliary nodes that only live inside other nodes.
var invalidKinds = map[parser.NodeType]bool{
	parser.NodeModule:        true,
	parser.NodeInteractive:   true,
	parser.NodeExpression:    true,
	parser.NodeSuite:         true,
	parser.NodeBlock:         true,
	parser.NodeElseClause:    true,
	parser.NodeElifClause:    true,
	parser.NodeArguments:     true,
	parser.NodeArg:           true,
	parser.NodeKeyword:       true,
	parser.NodeAlias:         true,
	parser.NodeComprehension: true,
	parser.NodeDecorator:     true,
	parser.NodeWithItem:      true,
	parser.NodeMatchPattern:  true,
}

// NodeClassifier decides how the block builder treats each node kind
type NodeClassifier struct {
	boundary  map[parser.NodeType]bool
	wrapper   map[parser.NodeType]bool
	exception map[parser.NodeType]bool
}

// NewNodeClassifier returns the default classification extended with extra
// boundary kinds.
func NewNodeClassifier(extraBoundary ...parser.NodeType) *NodeClassifier {
	c := &NodeClassifier{
		boundary:  make(map[parser.NodeType]bool),
		wrapper:   map[parser.NodeType]bool{parser.NodeExpr: true},
		exception: map[parser.NodeType]bool{parser.NodeTry: true},
	}
	for _, k := range DefaultBoundaryKinds {
		c.boundary[k] = true
	}
	for _, k := range extraBoundary {
		c.boundary[k] = true
	}
	return c
}

// IsBoundary reports whether kind terminates a basic block
func (c *NodeClassifier) IsBoundary(kind parser.NodeType) bool {
	return c.boundary[kind]
}

// IsWrapper reports whether kind is a bare expression used as a statement
func (c *NodeClassifier) IsWrapper(kind parser.NodeType) bool {
	return c.wrapper[kind]
}

// IsExceptionHandling reports whether nested blocks of kind are chained forward
func (c *NodeClassifier) IsExceptionHandling(kind parser.NodeType) bool {
	return c.exception[kind]
}

// BoundaryKinds returns the boundary kinds in sorted order
func (c *NodeClassifier) BoundaryKinds() []string {
	kinds := make([]string, 0, len(c.boundary))
	for k := range c.boundary {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// Fingerprint identifies the classification, so results computed under
// different boundary sets are not confused.
func (c *NodeClassifier) Fingerprint() string {
	return strings.Join(c.BoundaryKinds(), ",")
}

// Validate checks that node can sit in a statement sequence
func (c *NodeClassifier) Validate(node *parser.Node) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidNode)
	}
	if node.Type == "" || invalidKinds[node.Type] {
		return fmt.Errorf("%w: %q is not a statement or expression", ErrInvalidNode, node.Type)
	}
	if c.IsWrapper(node.Type) && c.unwrap(node) == nil {
		return fmt.Errorf("%w: %s without an inner expression", ErrInvalidNode, node.Type)
	}
	return nil
}

func (c *NodeClassifier) unwrap(node *parser.Node) *parser.Node {
	inner, ok := node.Value.(*parser.Node)
	if !ok || inner == nil {
		return nil
	}
	return inner
}

// ChildSequences returns the non-empty nested statement sequences of node,
// in the order body, else, one per handler, finally. Match statements yield
// one sequence per case.
func (c *NodeClassifier) ChildSequences(node *parser.Node) [][]*parser.Node {
	var seqs [][]*parser.Node
	add := func(seq []*parser.Node) {
		if len(seq) > 0 {
			seqs = append(seqs, seq)
		}
	}

	if node.Type == parser.NodeMatch {
		for _, matchCase := range node.Body {
			add(matchCase.Body)
		}
		return seqs
	}

	add(node.Body)
	add(node.Orelse)
	for _, handler := range node.Handlers {
		add(handler.Body)
	}
	add(node.Finalbody)
	return seqs
}
