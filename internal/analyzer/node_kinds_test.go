package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyblocks/internal/parser"
)

func TestNodeClassifierDefaults(t *testing.T) {
	c := NewNodeClassifier()

	for _, kind := range DefaultBoundaryKinds {
		assert.True(t, c.IsBoundary(kind), string(kind))
	}
	assert.False(t, c.IsBoundary(parser.NodeAssign))
	assert.False(t, c.IsBoundary(parser.NodeWith))
	assert.True(t, c.IsWrapper(parser.NodeExpr))
	assert.True(t, c.IsExceptionHandling(parser.NodeTry))
	assert.False(t, c.IsExceptionHandling(parser.NodeIf))
}

func TestNodeClassifierFingerprint(t *testing.T) {
	def := NewNodeClassifier()
	withRaise := NewNodeClassifier(parser.NodeRaise)

	assert.NotEqual(t, def.Fingerprint(), withRaise.Fingerprint())
	assert.Equal(t, def.Fingerprint(), NewNodeClassifier().Fingerprint())
	assert.Contains(t, withRaise.BoundaryKinds(), "Raise")
}

func TestChildSequencesOrder(t *testing.T) {
	stmts := parseSource(t, `try:
    a()
except A:
    b()
except B:
    c()
else:
    d()
finally:
    e()
`)
	require.Len(t, stmts, 1)

	seqs := NewNodeClassifier().ChildSequences(stmts[0])
	require.Len(t, seqs, 5)

	var order []string
	for _, seq := range seqs {
		require.Len(t, seq, 1)
		order = append(order, seq[0].Value.(*parser.Node).CallName())
	}
	assert.Equal(t, []string{"a", "d", "b", "c", "e"}, order)
}

func TestChildSequencesSkipsEmpty(t *testing.T) {
	ret := parser.NewNode(parser.NodeReturn)
	assert.Empty(t, NewNodeClassifier().ChildSequences(ret))

	loop := parser.NewNode(parser.NodeWhile)
	loop.Body = []*parser.Node{parser.NewNode(parser.NodePass)}
	assert.Len(t, NewNodeClassifier().ChildSequences(loop), 1)
}

func TestChildSequencesMatch(t *testing.T) {
	stmts := parseSource(t, "match x:\n    case 1:\n        a()\n    case 2:\n        b()\n        c()\n")
	require.Len(t, stmts, 1)

	seqs := NewNodeClassifier().ChildSequences(stmts[0])
	require.Len(t, seqs, 2)
	assert.Len(t, seqs[0], 1)
	assert.Len(t, seqs[1], 2)
}
