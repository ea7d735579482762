package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseStatements(t *testing.T, source string) []*Node {
	t.Helper()
	result, err := New().Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	return result.Statements()
}

func TestBuildStatementKinds(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   NodeType
	}{
		{"function", "def f():\n    pass\n", NodeFunctionDef},
		{"async function", "async def f():\n    pass\n", NodeAsyncFunctionDef},
		{"class", "class A:\n    pass\n", NodeClassDef},
		{"decorated", "@dec\ndef f():\n    pass\n", NodeFunctionDef},
		{"return", "def f():\n    return 1\n", NodeFunctionDef},
		{"for", "for i in x:\n    pass\n", NodeFor},
		{"while", "while x:\n    pass\n", NodeWhile},
		{"if", "if x:\n    pass\n", NodeIf},
		{"with", "with open(p) as f:\n    pass\n", NodeWith},
		{"try", "try:\n    pass\nexcept E:\n    pass\n", NodeTry},
		{"match", "match x:\n    case 1:\n        pass\n", NodeMatch},
		{"assign", "x = 1\n", NodeAssign},
		{"annotated assign", "x: int = 1\n", NodeAnnAssign},
		{"augmented assign", "x += 1\n", NodeAugAssign},
		{"expression", "print(x)\n", NodeExpr},
		{"import", "import os\n", NodeImport},
		{"import from", "from os import path\n", NodeImportFrom},
		{"raise", "raise ValueError()\n", NodeRaise},
		{"pass", "pass\n", NodePass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := parseStatements(t, tt.source)
			require.Len(t, stmts, 1)
			assert.Equal(t, tt.want, stmts[0].Type)
		})
	}
}

func TestBuildExpressionStatementWrapsValue(t *testing.T) {
	stmts := parseStatements(t, "print('hi')\n")
	require.Len(t, stmts, 1)

	expr := stmts[0]
	require.Equal(t, NodeExpr, expr.Type)
	call, ok := expr.Value.(*Node)
	require.True(t, ok)
	assert.Equal(t, NodeCall, call.Type)
	assert.Equal(t, "print", call.CallName())
	assert.Len(t, call.Args, 1)
}

func TestBuildIfElifChain(t *testing.T) {
	source := `if a:
    x = 1
elif b:
    x = 2
elif c:
    x = 3
else:
    x = 4
`
	stmts := parseStatements(t, source)
	require.Len(t, stmts, 1)

	top := stmts[0]
	require.Equal(t, NodeIf, top.Type)
	require.Len(t, top.Body, 1)
	require.Len(t, top.Orelse, 1)

	elif1 := top.Orelse[0]
	require.Equal(t, NodeIf, elif1.Type)
	require.Len(t, elif1.Orelse, 1)

	elif2 := elif1.Orelse[0]
	require.Equal(t, NodeIf, elif2.Type)
	require.Len(t, elif2.Orelse, 1)
	assert.Equal(t, NodeAssign, elif2.Orelse[0].Type)
}

func TestBuildTrySequences(t *testing.T) {
	source := `try:
    a()
except ValueError as e:
    b()
except KeyError:
    c()
else:
    d()
finally:
    e()
`
	stmts := parseStatements(t, source)
	require.Len(t, stmts, 1)

	try := stmts[0]
	require.Equal(t, NodeTry, try.Type)
	assert.Len(t, try.Body, 1)
	require.Len(t, try.Handlers, 2)
	assert.Equal(t, NodeExceptHandler, try.Handlers[0].Type)
	assert.Equal(t, "e", try.Handlers[0].Name)
	assert.Len(t, try.Handlers[0].Body, 1)
	assert.Len(t, try.Handlers[1].Body, 1)
	assert.Len(t, try.Orelse, 1)
	assert.Len(t, try.Finalbody, 1)
}

func TestBuildLoopElse(t *testing.T) {
	stmts := parseStatements(t, "for i in x:\n    a()\nelse:\n    b()\n")
	require.Len(t, stmts, 1)
	assert.Len(t, stmts[0].Body, 1)
	assert.Len(t, stmts[0].Orelse, 1)
	require.Len(t, stmts[0].Targets, 1)
	assert.Equal(t, "i", stmts[0].Targets[0].Name)
}

func TestBuildMatchCases(t *testing.T) {
	source := `match cmd:
    case "go":
        go()
    case _:
        stop()
        log()
`
	stmts := parseStatements(t, source)
	require.Len(t, stmts, 1)

	match := stmts[0]
	require.Equal(t, NodeMatch, match.Type)
	require.Len(t, match.Body, 2)
	assert.Equal(t, NodeMatchCase, match.Body[0].Type)
	assert.Len(t, match.Body[0].Body, 1)
	assert.Len(t, match.Body[1].Body, 2)
}

func TestBuildDecorators(t *testing.T) {
	stmts := parseStatements(t, "@a\n@b.c\nclass K(Base):\n    pass\n")
	require.Len(t, stmts, 1)

	class := stmts[0]
	assert.Equal(t, "K", class.Name)
	assert.Len(t, class.Decorator, 2)
	assert.Len(t, class.Bases, 1)
	assert.Equal(t, 1, class.Location.StartLine)
}

func TestFindByTypeOrdersCalls(t *testing.T) {
	stmts := parseStatements(t, "x = f(g(1), h())\n")
	require.Len(t, stmts, 1)

	calls := stmts[0].FindByType(NodeCall)
	require.Len(t, calls, 3)
	assert.Equal(t, "f", calls[0].CallName())
	assert.Equal(t, "g", calls[1].CallName())
	assert.Equal(t, "h", calls[2].CallName())
}

func TestCallNameAttributeChain(t *testing.T) {
	stmts := parseStatements(t, "os.path.join(a, b)\n")
	require.Len(t, stmts, 1)

	call := stmts[0].Value.(*Node)
	assert.Equal(t, "os.path.join", call.CallName())
}

func TestLocations(t *testing.T) {
	stmts := parseStatements(t, "a = 1\n\nb = 2\n")
	require.Len(t, stmts, 2)
	assert.Equal(t, 1, stmts[0].Location.StartLine)
	assert.Equal(t, 3, stmts[1].Location.StartLine)
	assert.True(t, stmts[0].Location.Before(stmts[1].Location))
}
