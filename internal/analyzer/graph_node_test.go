package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphNode(t *testing.T) {
	t.Run("ConnectOnce", func(t *testing.T) {
		a := NewGraphNode(1)
		b := NewGraphNode(2)

		assert.True(t, a.Connect(b))
		assert.False(t, a.Connect(b))
		assert.False(t, a.Connect(NewGraphNode(2)), "identity is the ID")
		assert.False(t, a.Connect(nil))
		assert.Equal(t, 1, a.Degree())
	})

	t.Run("InsertionOrder", func(t *testing.T) {
		a := NewGraphNode("a")
		for _, id := range []string{"c", "b", "d"} {
			a.Connect(NewGraphNode(id))
		}

		var got []string
		for _, n := range a.ConnectedNodes() {
			got = append(got, n.ID)
		}
		assert.Equal(t, []string{"c", "b", "d"}, got)
	})

	t.Run("ConnectedNodesIsACopy", func(t *testing.T) {
		a := NewGraphNode(1)
		a.Connect(NewGraphNode(2))

		nodes := a.ConnectedNodes()
		nodes[0] = NewGraphNode(99)
		assert.True(t, a.IsConnectedTo(2))
		assert.Equal(t, 2, a.ConnectedNodes()[0].ID)
	})

	t.Run("Equal", func(t *testing.T) {
		assert.True(t, NewGraphNode(3).Equal(NewGraphNode(3)))
		assert.False(t, NewGraphNode(3).Equal(NewGraphNode(4)))

		var nilNode *GraphNode[int]
		assert.True(t, nilNode.Equal(nil))
		assert.False(t, NewGraphNode(3).Equal(nil))
	})
}
