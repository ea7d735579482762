package parser

import (
	"fmt"
	"sort"
)

// NodeType represents the type of AST node
type NodeType string

// Python AST node types
const (
	// Module and structure
	NodeModule      NodeType = "Module"
	NodeInteractive NodeType = "Interactive"
	NodeExpression  NodeType = "Expression"
	NodeSuite       NodeType = "Suite"

	// Statements
	NodeFunctionDef      NodeType = "FunctionDef"
	NodeAsyncFunctionDef NodeType = "AsyncFunctionDef"
	NodeClassDef         NodeType = "ClassDef"
	NodeReturn           NodeType = "Return"
	NodeDelete           NodeType = "Delete"
	NodeAssign           NodeType = "Assign"
	NodeAugAssign        NodeType = "AugAssign"
	NodeAnnAssign        NodeType = "AnnAssign"
	NodeTypeAlias        NodeType = "TypeAlias"
	NodeFor              NodeType = "For"
	NodeAsyncFor         NodeType = "AsyncFor"
	NodeWhile            NodeType = "While"
	NodeIf               NodeType = "If"
	NodeWith             NodeType = "With"
	NodeAsyncWith        NodeType = "AsyncWith"
	NodeMatch            NodeType = "Match"
	NodeRaise            NodeType = "Raise"
	NodeTry              NodeType = "Try"
	NodeAssert           NodeType = "Assert"
	NodeImport           NodeType = "Import"
	NodeImportFrom       NodeType = "ImportFrom"
	NodeGlobal           NodeType = "Global"
	NodeNonlocal         NodeType = "Nonlocal"
	NodeExpr             NodeType = "Expr"
	NodePass             NodeType = "Pass"
	NodeBreak            NodeType = "Break"
	NodeContinue         NodeType = "Continue"

	// Expressions
	NodeBoolOp       NodeType = "BoolOp"
	NodeNamedExpr    NodeType = "NamedExpr"
	NodeBinOp        NodeType = "BinOp"
	NodeUnaryOp      NodeType = "UnaryOp"
	NodeLambda       NodeType = "Lambda"
	NodeIfExp        NodeType = "IfExp"
	NodeDict         NodeType = "Dict"
	NodeSet          NodeType = "Set"
	NodeListComp     NodeType = "ListComp"
	NodeSetComp      NodeType = "SetComp"
	NodeDictComp     NodeType = "DictComp"
	NodeGeneratorExp NodeType = "GeneratorExp"
	NodeAwait        NodeType = "Await"
	NodeYield        NodeType = "Yield"
	NodeCompare      NodeType = "Compare"
	NodeCall         NodeType = "Call"
	NodeJoinedStr    NodeType = "JoinedStr"
	NodeConstant     NodeType = "Constant"
	NodeAttribute    NodeType = "Attribute"
	NodeSubscript    NodeType = "Subscript"
	NodeStarred      NodeType = "Starred"
	NodeName         NodeType = "Name"
	NodeList         NodeType = "List"
	NodeTuple        NodeType = "Tuple"
	NodeSlice        NodeType = "Slice"

	// Other
	NodeAlias         NodeType = "Alias"
	NodeExceptHandler NodeType = "ExceptHandler"
	NodeArguments     NodeType = "Arguments"
	NodeArg           NodeType = "Arg"
	NodeKeyword       NodeType = "Keyword"
	NodeComprehension NodeType = "Comprehension"
	NodeDecorator     NodeType = "Decorator"
	NodeWithItem      NodeType = "WithItem"
	NodeMatchCase     NodeType = "MatchCase"
	NodeMatchPattern  NodeType = "MatchPattern"
	NodeElseClause    NodeType = "else_clause" // Structural marker from parser
	NodeElifClause    NodeType = "elif_clause" // Structural marker from parser
	NodeBlock         NodeType = "block"       // Block of statements from parser
)

// Location represents the position of a node in the source code
type Location struct {
	StartLine int `json:"start_line" yaml:"start_line"`
	StartCol  int `json:"start_col" yaml:"start_col"`
	EndLine   int `json:"end_line" yaml:"end_line"`
	EndCol    int `json:"end_col" yaml:"end_col"`
}

// Before reports whether l starts before other.
func (l Location) Before(other Location) bool {
	if l.StartLine != other.StartLine {
		return l.StartLine < other.StartLine
	}
	return l.StartCol < other.StartCol
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Value    interface{} // Can hold various values depending on node type
	Children []*Node
	Location Location
	Parent   *Node

	// Additional fields for specific node types
	Name      string  // For function/class definitions, names, attributes
	Targets   []*Node // For assignments and for loops
	Body      []*Node // For compound statements
	Orelse    []*Node // For if/for/while/try statements
	Finalbody []*Node // For try statements
	Handlers  []*Node // For try statements
	Test      *Node   // For if/while statements, match subject, case pattern
	Iter      *Node   // For for loops
	Args      []*Node // For function calls and definitions
	Keywords  []*Node // For function calls
	Decorator []*Node // For decorated functions/classes
	Bases     []*Node // For class definitions
	Op        string  // For operations
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

// AddToBody adds a node to the body
func (n *Node) AddToBody(node *Node) {
	if node != nil {
		node.Parent = n
		n.Body = append(n.Body, node)
	}
}

// GetChildren returns all child nodes
func (n *Node) GetChildren() []*Node {
	var all []*Node
	if n.Test != nil {
		all = append(all, n.Test)
	}
	if n.Iter != nil {
		all = append(all, n.Iter)
	}
	all = append(all, n.Decorator...)
	all = append(all, n.Targets...)
	all = append(all, n.Bases...)
	all = append(all, n.Args...)
	all = append(all, n.Keywords...)
	all = append(all, n.Children...)
	all = append(all, n.Body...)
	all = append(all, n.Orelse...)
	all = append(all, n.Handlers...)
	all = append(all, n.Finalbody...)
	return all
}

// IsStatement returns true if the node is a statement
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeFunctionDef, NodeAsyncFunctionDef, NodeClassDef,
		NodeReturn, NodeDelete, NodeAssign, NodeAugAssign, NodeAnnAssign, NodeTypeAlias,
		NodeFor, NodeAsyncFor, NodeWhile, NodeIf, NodeWith, NodeAsyncWith,
		NodeMatch, NodeRaise, NodeTry, NodeAssert, NodeImport, NodeImportFrom,
		NodeGlobal, NodeNonlocal, NodeExpr, NodePass, NodeBreak, NodeContinue:
		return true
	default:
		return false
	}
}

// IsExpression returns true if the node is an expression
func (n *Node) IsExpression() bool {
	switch n.Type {
	case NodeBoolOp, NodeNamedExpr, NodeBinOp, NodeUnaryOp, NodeLambda,
		NodeIfExp, NodeDict, NodeSet, NodeListComp, NodeSetComp, NodeDictComp,
		NodeGeneratorExp, NodeAwait, NodeYield, NodeCompare,
		NodeCall, NodeJoinedStr, NodeConstant,
		NodeAttribute, NodeSubscript, NodeStarred, NodeName, NodeList,
		NodeTuple, NodeSlice:
		return true
	default:
		return false
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)", n.Type, n.Name)
	}
	if s, ok := n.Value.(string); ok {
		return fmt.Sprintf("%s(%s)", n.Type, s)
	}
	return string(n.Type)
}

// Walk traverses the AST using depth-first search
func (n *Node) Walk(visitor func(*Node) bool) {
	if !visitor(n) {
		return
	}

	for _, child := range n.GetChildren() {
		if child != nil {
			child.Walk(visitor)
		}
	}
}

// WalkDeep traverses the AST including the Value field when it contains a *Node.
// Call nodes keep the callee in Value and Expr/Assign/Return keep their
// expression there.
func (n *Node) WalkDeep(visitor func(*Node) bool) {
	if n == nil || !visitor(n) {
		return
	}
	for _, child := range n.GetChildren() {
		child.WalkDeep(visitor)
	}
	if valueNode, ok := n.Value.(*Node); ok {
		valueNode.WalkDeep(visitor)
	}
}

// FindByType finds all nodes of a specific type, including those reachable
// through Value, ordered by source position.
func (n *Node) FindByType(nodeType NodeType) []*Node {
	var results []*Node
	n.WalkDeep(func(node *Node) bool {
		if node.Type == nodeType {
			results = append(results, node)
		}
		return true
	})
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Location.Before(results[j].Location)
	})
	return results
}

// CallName returns the dotted name of the callee for Call nodes, or "" when
// the callee is not a plain name or attribute chain.
func (n *Node) CallName() string {
	if n.Type != NodeCall {
		return ""
	}
	callee, ok := n.Value.(*Node)
	if !ok {
		return ""
	}
	return dottedName(callee)
}

func dottedName(n *Node) string {
	switch n.Type {
	case NodeName:
		return n.Name
	case NodeAttribute:
		obj, ok := n.Value.(*Node)
		if !ok {
			return ""
		}
		prefix := dottedName(obj)
		if prefix == "" {
			return ""
		}
		return prefix + "." + n.Name
	default:
		return ""
	}
}
