package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// expressionKinds maps tree-sitter expression node types onto AST node types.
// Expressions listed here are built generically from their named children.
var expressionKinds = map[string]NodeType{
	"binary_operator":          NodeBinOp,
	"unary_operator":           NodeUnaryOp,
	"not_operator":             NodeUnaryOp,
	"boolean_operator":         NodeBoolOp,
	"named_expression":         NodeNamedExpr,
	"comparison_operator":      NodeCompare,
	"conditional_expression":   NodeIfExp,
	"lambda":                   NodeLambda,
	"subscript":                NodeSubscript,
	"slice":                    NodeSlice,
	"list":                     NodeList,
	"tuple":                    NodeTuple,
	"expression_list":          NodeTuple,
	"pattern_list":             NodeTuple,
	"tuple_pattern":            NodeTuple,
	"list_pattern":             NodeList,
	"dictionary":               NodeDict,
	"set":                      NodeSet,
	"list_comprehension":       NodeListComp,
	"dictionary_comprehension": NodeDictComp,
	"set_comprehension":        NodeSetComp,
	"generator_expression":     NodeGeneratorExp,
	"for_in_clause":            NodeComprehension,
	"yield":                    NodeYield,
	"await":                    NodeAwait,
	"list_splat":               NodeStarred,
	"dictionary_splat":         NodeStarred,
	"list_splat_pattern":       NodeStarred,
	"string":                   NodeJoinedStr,
	"concatenated_string":      NodeJoinedStr,
	"case_pattern":             NodeMatchPattern,
}

// constantKinds are leaf literals stored as Constant nodes with their source text.
var constantKinds = map[string]bool{
	"integer": true, "float": true, "true": true, "false": true,
	"none": true, "ellipsis": true, "string_content": true,
}

// simpleStatements maps leaf-like statements onto AST node types.
var simpleStatements = map[string]NodeType{
	"pass_statement":          NodePass,
	"break_statement":         NodeBreak,
	"continue_statement":      NodeContinue,
	"raise_statement":         NodeRaise,
	"delete_statement":        NodeDelete,
	"assert_statement":        NodeAssert,
	"global_statement":        NodeGlobal,
	"nonlocal_statement":      NodeNonlocal,
	"import_statement":        NodeImport,
	"import_from_statement":   NodeImportFrom,
	"future_import_statement": NodeImportFrom,
	"type_alias_statement":    NodeTypeAlias,
}

// ASTBuilder converts tree-sitter parse trees to internal AST representation
type ASTBuilder struct {
	source []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(source []byte) *ASTBuilder {
	return &ASTBuilder{source: source}
}

// Build converts a tree-sitter tree to a Module node
func (b *ASTBuilder) Build(tree *sitter.Tree) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("root node is nil")
	}

	module := NewNode(NodeModule)
	module.Location = b.getLocation(root)
	for _, stmt := range b.buildStatements(root) {
		module.AddToBody(stmt)
	}
	return module, nil
}

// buildStatements builds every statement child of a module or block node.
func (b *ASTBuilder) buildStatements(tsNode *sitter.Node) []*Node {
	var stmts []*Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if stmt := b.buildStatement(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// buildBody builds the statements of a block-valued field of tsNode.
func (b *ASTBuilder) buildBody(tsNode *sitter.Node, field string, parent *Node) []*Node {
	block := tsNode.ChildByFieldName(field)
	if block == nil {
		return nil
	}
	return b.adopt(b.buildStatements(block), parent)
}

// firstBlock builds the first block child of clauses that have no body field.
func (b *ASTBuilder) firstBlock(tsNode *sitter.Node, parent *Node) []*Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if child := tsNode.NamedChild(i); child != nil && child.Type() == "block" {
			return b.adopt(b.buildStatements(child), parent)
		}
	}
	return nil
}

func (b *ASTBuilder) adopt(nodes []*Node, parent *Node) []*Node {
	for _, n := range nodes {
		n.Parent = parent
	}
	return nodes
}

func (b *ASTBuilder) buildStatement(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "function_definition":
		return b.buildFunctionDef(tsNode)
	case "class_definition":
		return b.buildClassDef(tsNode)
	case "decorated_definition":
		return b.buildDecoratedDefinition(tsNode)
	case "if_statement", "elif_clause":
		return b.buildIf(tsNode)
	case "for_statement":
		return b.buildFor(tsNode)
	case "while_statement":
		return b.buildWhile(tsNode)
	case "with_statement":
		return b.buildWith(tsNode)
	case "try_statement":
		return b.buildTry(tsNode)
	case "match_statement":
		return b.buildMatch(tsNode)
	case "return_statement":
		return b.buildReturn(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	}

	if kind, ok := simpleStatements[tsNode.Type()]; ok {
		node := NewNode(kind)
		node.Location = b.getLocation(tsNode)
		b.addNamedChildren(node, tsNode)
		return node
	}

	// Unknown statements are kept as plain nodes named after the grammar rule.
	node := NewNode(NodeType(tsNode.Type()))
	node.Location = b.getLocation(tsNode)
	b.addNamedChildren(node, tsNode)
	return node
}

func (b *ASTBuilder) buildFunctionDef(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFunctionDef)
	node.Location = b.getLocation(tsNode)
	if b.hasChildOfType(tsNode, "async") {
		node.Type = NodeAsyncFunctionDef
	}
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Name = b.getNodeText(name)
	}
	if params := tsNode.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p == nil || b.isTrivia(p) {
				continue
			}
			arg := NewNode(NodeArg)
			arg.Location = b.getLocation(p)
			arg.Name = b.getNodeText(p)
			arg.Parent = node
			node.Args = append(node.Args, arg)
		}
	}
	if returnType := tsNode.ChildByFieldName("return_type"); returnType != nil {
		node.Value = b.getNodeText(returnType)
	}
	node.Body = b.buildBody(tsNode, "body", node)
	return node
}

func (b *ASTBuilder) buildClassDef(tsNode *sitter.Node) *Node {
	node := NewNode(NodeClassDef)
	node.Location = b.getLocation(tsNode)
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Name = b.getNodeText(name)
	}
	if supers := tsNode.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			if base := b.buildExpression(supers.NamedChild(i)); base != nil {
				base.Parent = node
				node.Bases = append(node.Bases, base)
			}
		}
	}
	node.Body = b.buildBody(tsNode, "body", node)
	return node
}

func (b *ASTBuilder) buildDecoratedDefinition(tsNode *sitter.Node) *Node {
	var decorators []*Node
	var def *Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "decorator":
			dec := NewNode(NodeDecorator)
			dec.Location = b.getLocation(child)
			if child.NamedChildCount() > 0 {
				dec.Value = b.buildExpression(child.NamedChild(0))
			}
			decorators = append(decorators, dec)
		case "function_definition", "class_definition":
			def = b.buildStatement(child)
		}
	}
	if def == nil {
		return nil
	}
	for _, dec := range decorators {
		dec.Parent = def
	}
	def.Decorator = decorators
	def.Location = b.getLocation(tsNode)
	return def
}

// buildIf builds if statements and elif clauses. Elif chains become nested
// If nodes held in Orelse, the else body hangs off the innermost one.
func (b *ASTBuilder) buildIf(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIf)
	node.Location = b.getLocation(tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildExpression(cond)
	}
	node.Body = b.buildBody(tsNode, "consequence", node)
	if tsNode.Type() == "elif_clause" {
		return node
	}

	tail := node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if tsNode.FieldNameForChild(i) != "alternative" {
			continue
		}
		alt := tsNode.Child(i)
		switch alt.Type() {
		case "elif_clause":
			elif := b.buildIf(alt)
			elif.Parent = tail
			tail.Orelse = []*Node{elif}
			tail = elif
		case "else_clause":
			tail.Orelse = b.buildBody(alt, "body", tail)
		}
	}
	return node
}

func (b *ASTBuilder) buildFor(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFor)
	node.Location = b.getLocation(tsNode)
	if b.hasChildOfType(tsNode, "async") {
		node.Type = NodeAsyncFor
	}
	if left := tsNode.ChildByFieldName("left"); left != nil {
		if target := b.buildExpression(left); target != nil {
			target.Parent = node
			node.Targets = []*Node{target}
		}
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		node.Iter = b.buildExpression(right)
	}
	node.Body = b.buildBody(tsNode, "body", node)
	if alt := tsNode.ChildByFieldName("alternative"); alt != nil {
		node.Orelse = b.buildBody(alt, "body", node)
	}
	return node
}

func (b *ASTBuilder) buildWhile(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWhile)
	node.Location = b.getLocation(tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildExpression(cond)
	}
	node.Body = b.buildBody(tsNode, "body", node)
	if alt := tsNode.ChildByFieldName("alternative"); alt != nil {
		node.Orelse = b.buildBody(alt, "body", node)
	}
	return node
}

func (b *ASTBuilder) buildWith(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWith)
	node.Location = b.getLocation(tsNode)
	if b.hasChildOfType(tsNode, "async") {
		node.Type = NodeAsyncWith
	}
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		clause := tsNode.NamedChild(i)
		if clause == nil || clause.Type() != "with_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			item := clause.NamedChild(j)
			if item == nil || item.Type() != "with_item" {
				continue
			}
			withItem := NewNode(NodeWithItem)
			withItem.Location = b.getLocation(item)
			if value := item.ChildByFieldName("value"); value != nil {
				withItem.Value = b.buildExpression(value)
			}
			node.AddChild(withItem)
		}
	}
	node.Body = b.buildBody(tsNode, "body", node)
	return node
}

func (b *ASTBuilder) buildTry(tsNode *sitter.Node) *Node {
	node := NewNode(NodeTry)
	node.Location = b.getLocation(tsNode)
	node.Body = b.buildBody(tsNode, "body", node)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "except_clause", "except_group_clause":
			node.Handlers = append(node.Handlers, b.buildExceptHandler(child, node))
		case "else_clause":
			node.Orelse = b.buildBody(child, "body", node)
		case "finally_clause":
			node.Finalbody = b.firstBlock(child, node)
		}
	}
	return node
}

func (b *ASTBuilder) buildExceptHandler(tsNode *sitter.Node, parent *Node) *Node {
	node := NewNode(NodeExceptHandler)
	node.Location = b.getLocation(tsNode)
	node.Parent = parent
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "block":
			node.Body = b.adopt(b.buildStatements(child), node)
		case "as_pattern":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				node.Name = b.getNodeText(alias)
			}
			if child.NamedChildCount() > 0 {
				node.Value = b.buildExpression(child.NamedChild(0))
			}
		default:
			if node.Value == nil {
				node.Value = b.buildExpression(child)
			} else if node.Name == "" && child.Type() == "identifier" {
				// Older grammars: except E as name
				node.Name = b.getNodeText(child)
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildMatch(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMatch)
	node.Location = b.getLocation(tsNode)
	if subject := tsNode.ChildByFieldName("subject"); subject != nil {
		node.Test = b.buildExpression(subject)
	}
	body := tsNode.ChildByFieldName("body")
	if body == nil {
		return node
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		clause := body.NamedChild(i)
		if clause == nil || clause.Type() != "case_clause" {
			continue
		}
		matchCase := NewNode(NodeMatchCase)
		matchCase.Location = b.getLocation(clause)
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			if p := clause.NamedChild(j); p != nil && p.Type() == "case_pattern" {
				matchCase.Test = b.buildExpression(p)
				break
			}
		}
		if guard := clause.ChildByFieldName("guard"); guard != nil {
			matchCase.Value = b.buildExpression(guard)
		}
		matchCase.Body = b.buildBody(clause, "consequence", matchCase)
		node.AddToBody(matchCase)
	}
	return node
}

func (b *ASTBuilder) buildReturn(tsNode *sitter.Node) *Node {
	node := NewNode(NodeReturn)
	node.Location = b.getLocation(tsNode)
	if tsNode.NamedChildCount() > 0 {
		node.Value = b.buildExpression(tsNode.NamedChild(0))
	}
	return node
}

// buildExpressionStatement returns Assign/AugAssign/AnnAssign statements as-is
// and wraps anything else in an Expr node holding the expression in Value.
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	var exprs []*sitter.Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if child := tsNode.NamedChild(i); child != nil && !b.isTrivia(child) {
			exprs = append(exprs, child)
		}
	}
	if len(exprs) == 1 {
		switch exprs[0].Type() {
		case "assignment":
			return b.buildAssignment(exprs[0])
		case "augmented_assignment":
			return b.buildAugmentedAssignment(exprs[0])
		}
	}

	node := NewNode(NodeExpr)
	node.Location = b.getLocation(tsNode)
	var value *Node
	if len(exprs) == 1 {
		value = b.buildExpression(exprs[0])
	} else {
		value = NewNode(NodeTuple)
		value.Location = node.Location
		for _, e := range exprs {
			value.AddChild(b.buildExpression(e))
		}
	}
	if value != nil {
		value.Parent = node
		node.Value = value
	}
	return node
}

func (b *ASTBuilder) buildAssignment(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAssign)
	node.Location = b.getLocation(tsNode)
	if left := tsNode.ChildByFieldName("left"); left != nil {
		if target := b.buildExpression(left); target != nil {
			target.Parent = node
			node.Targets = []*Node{target}
		}
	}
	if typeNode := tsNode.ChildByFieldName("type"); typeNode != nil {
		node.Type = NodeAnnAssign
		node.AddChild(b.buildExpression(typeNode))
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		if right.Type() == "assignment" {
			// Chained assignment: a = b = value
			inner := b.buildAssignment(right)
			node.Targets = append(node.Targets, inner.Targets...)
			node.Value = inner.Value
		} else {
			node.Value = b.buildExpression(right)
		}
	}
	return node
}

func (b *ASTBuilder) buildAugmentedAssignment(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAugAssign)
	node.Location = b.getLocation(tsNode)
	if left := tsNode.ChildByFieldName("left"); left != nil {
		if target := b.buildExpression(left); target != nil {
			target.Parent = node
			node.Targets = []*Node{target}
		}
	}
	if op := tsNode.ChildByFieldName("operator"); op != nil {
		node.Op = strings.TrimSuffix(b.getNodeText(op), "=")
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		node.Value = b.buildExpression(right)
	}
	return node
}

// buildExpression builds an expression subtree. Calls, names, attributes and
// constants get dedicated shapes, other expressions keep their named children.
func (b *ASTBuilder) buildExpression(tsNode *sitter.Node) *Node {
	if tsNode == nil || b.isTrivia(tsNode) {
		return nil
	}

	switch tsNode.Type() {
	case "parenthesized_expression":
		if tsNode.NamedChildCount() == 1 {
			return b.buildExpression(tsNode.NamedChild(0))
		}
	case "call":
		return b.buildCall(tsNode)
	case "identifier", "keyword_identifier":
		node := NewNode(NodeName)
		node.Location = b.getLocation(tsNode)
		node.Name = b.getNodeText(tsNode)
		return node
	case "attribute":
		node := NewNode(NodeAttribute)
		node.Location = b.getLocation(tsNode)
		if obj := tsNode.ChildByFieldName("object"); obj != nil {
			if value := b.buildExpression(obj); value != nil {
				value.Parent = node
				node.Value = value
			}
		}
		if attr := tsNode.ChildByFieldName("attribute"); attr != nil {
			node.Name = b.getNodeText(attr)
		}
		return node
	case "keyword_argument":
		node := NewNode(NodeKeyword)
		node.Location = b.getLocation(tsNode)
		if name := tsNode.ChildByFieldName("name"); name != nil {
			node.Name = b.getNodeText(name)
		}
		if value := tsNode.ChildByFieldName("value"); value != nil {
			node.AddChild(b.buildExpression(value))
		}
		return node
	case "assignment", "augmented_assignment":
		// Assignments nested inside expressions, e.g. in lambda defaults.
		return b.buildStatement(tsNode)
	}

	if constantKinds[tsNode.Type()] {
		node := NewNode(NodeConstant)
		node.Location = b.getLocation(tsNode)
		node.Value = b.getNodeText(tsNode)
		return node
	}

	kind, ok := expressionKinds[tsNode.Type()]
	if !ok {
		kind = NodeType(tsNode.Type())
	}
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)
	if kind == NodeBinOp || kind == NodeBoolOp {
		if op := tsNode.ChildByFieldName("operator"); op != nil {
			node.Op = b.getNodeText(op)
		}
	}
	b.addNamedChildren(node, tsNode)
	return node
}

func (b *ASTBuilder) buildCall(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCall)
	node.Location = b.getLocation(tsNode)
	if function := tsNode.ChildByFieldName("function"); function != nil {
		if callee := b.buildExpression(function); callee != nil {
			callee.Parent = node
			node.Value = callee
		}
	}
	args := tsNode.ChildByFieldName("arguments")
	if args == nil {
		return node
	}
	if args.Type() == "generator_expression" {
		if gen := b.buildExpression(args); gen != nil {
			gen.Parent = node
			node.Args = []*Node{gen}
		}
		return node
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := b.buildExpression(args.NamedChild(i))
		if arg == nil {
			continue
		}
		arg.Parent = node
		if arg.Type == NodeKeyword {
			node.Keywords = append(node.Keywords, arg)
		} else {
			node.Args = append(node.Args, arg)
		}
	}
	return node
}

func (b *ASTBuilder) addNamedChildren(node *Node, tsNode *sitter.Node) {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		node.AddChild(b.buildExpression(tsNode.NamedChild(i)))
	}
}

func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()
	return Location{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

func (b *ASTBuilder) getNodeText(tsNode *sitter.Node) string {
	return tsNode.Content(b.source)
}

func (b *ASTBuilder) hasChildOfType(tsNode *sitter.Node, childType string) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil && child.Type() == childType {
			return true
		}
	}
	return false
}

// isTrivia checks if a node is trivia (comments, line continuations)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" || nodeType == "line_continuation"
}
