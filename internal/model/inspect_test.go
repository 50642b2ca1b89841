package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mickamy/pgexplain/internal/model"
	"github.com/mickamy/pgexplain/test"
)

func TestWalkVisitsPreOrder(t *testing.T) {
	results := test.LoadSample(t, "nested_join.json")
	root := results[0].Plan

	var ids []string
	var depths []int
	root.Walk(func(node *model.PlanNode, depth int) bool {
		ids = append(ids, node.ID)
		depths = append(depths, depth)
		return true
	})

	require.Equal(t, []string{"0", "0.0", "0.1", "0.1.0"}, ids)
	require.Equal(t, []int{0, 1, 1, 2}, depths)
	require.Equal(t, 4, root.Count())
	require.Equal(t, 2, root.Depth())
	require.Len(t, results[0].Nodes(), 4)
}

func TestWalkStopsEarly(t *testing.T) {
	root := test.LoadSample(t, "nested_join.json")[0].Plan

	visited := 0
	root.Walk(func(node *model.PlanNode, _ int) bool {
		visited++
		return node.NodeType != model.NodeSeqScan
	})
	require.Equal(t, 2, visited)
}

func TestFind(t *testing.T) {
	root := test.LoadSample(t, "nested_join.json")[0].Plan

	hash := root.Find(func(n *model.PlanNode) bool { return n.NodeType == model.NodeHash })
	require.NotNil(t, hash)
	require.Equal(t, "0.1", hash.ID)

	require.Nil(t, root.Find(func(n *model.PlanNode) bool { return n.NodeType == model.NodeGather }))
}

func TestEqual(t *testing.T) {
	a := test.LoadSample(t, "nested_join.json")[0].Plan
	b := test.LoadSample(t, "nested_join.json")[0].Plan
	require.True(t, a.Equal(&b))

	c := test.LoadSample(t, "minimal.json")[0].Plan
	require.False(t, a.Equal(&c))

	var nilNode *model.PlanNode
	require.True(t, nilNode.Equal(nil))
	require.False(t, a.Equal(nil))
}

func TestLeafDepthIsZero(t *testing.T) {
	root := test.LoadSample(t, "minimal.json")[0].Plan
	require.True(t, root.IsLeaf())
	require.Equal(t, 0, root.Depth())
	require.Equal(t, 1, root.Count())
}

func TestBuffers(t *testing.T) {
	var empty model.Buffers
	require.False(t, empty.Present())
	require.Zero(t, empty.Total())

	hit, read := int64(10), int64(0)
	b := model.Buffers{SharedHit: &hit, SharedRead: &read}
	require.True(t, b.Present())
	require.Equal(t, int64(10), b.Total())

	ioTime := 0.5
	require.True(t, model.Buffers{IOReadTimeMs: &ioTime}.Present())
}

func TestNodeTypeKnown(t *testing.T) {
	require.True(t, model.NodeHashJoin.Known())
	require.True(t, model.NodeType("Memoize").Known())
	require.False(t, model.NodeType("Hyper Scan").Known())
	require.False(t, model.NodeType("").Known())

	require.True(t, model.JoinAnti.Known())
	require.True(t, model.JoinType("Right Semi").Known())
	require.False(t, model.JoinType("Outer").Known())
}

func TestAnalyzed(t *testing.T) {
	require.True(t, test.LoadSample(t, "analyzed.json")[0].Analyzed())
	require.False(t, test.LoadSample(t, "minimal.json")[0].Analyzed())
}
