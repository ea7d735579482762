// Package parser turns Python source into a small statement-level AST.
//
// Parsing is done by tree-sitter; ASTBuilder then maps the concrete syntax
// tree onto Node values whose types mirror the names of Python's own ast
// module (FunctionDef, If, Try, Expr, Call, ...). Compound statements expose
// their nested statements through Body, Orelse, Handlers and Finalbody, and
// expression statements keep the wrapped expression in Value.
//
// Basic usage:
//
//	p := parser.New()
//	result, err := p.Parse(ctx, []byte("def hello(): pass"))
//	if err != nil {
//	    // Handle parsing error
//	}
//	for _, stmt := range result.Statements() {
//	    fmt.Println(stmt.Type)
//	}
package parser
