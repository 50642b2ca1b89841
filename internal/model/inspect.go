package model

import "reflect"

// IsLeaf reports whether the node has no children.
func (n *PlanNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits n and its descendants in pre-order. depth is 0 for n itself.
// Returning false from fn stops the walk.
func (n *PlanNode) Walk(fn func(node *PlanNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *PlanNode) walk(fn func(*PlanNode, int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *PlanNode) Count() int {
	total := 0
	n.Walk(func(*PlanNode, int) bool {
		total++
		return true
	})
	return total
}

// Depth returns the number of edges on the longest path from n to a leaf.
func (n *PlanNode) Depth() int {
	deepest := 0
	n.Walk(func(_ *PlanNode, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}

// Find returns the first node, in pre-order, for which match returns true.
func (n *PlanNode) Find(match func(*PlanNode) bool) *PlanNode {
	var found *PlanNode
	n.Walk(func(node *PlanNode, _ int) bool {
		if match(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// Equal reports whether two subtrees carry identical values, including absence.
func (n *PlanNode) Equal(other *PlanNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return reflect.DeepEqual(n, other)
}

// Present reports whether any buffer statistic was reported.
func (b Buffers) Present() bool {
	for _, v := range []*int64{
		b.SharedHit, b.SharedRead, b.SharedDirtied, b.SharedWritten,
		b.LocalHit, b.LocalRead, b.LocalDirtied, b.LocalWritten,
		b.TempRead, b.TempWritten,
	} {
		if v != nil {
			return true
		}
	}
	for _, v := range b.ioTimings() {
		if v != nil {
			return true
		}
	}
	return false
}

func (b Buffers) ioTimings() []*float64 {
	return []*float64{
		b.IOReadTimeMs, b.IOWriteTimeMs,
		b.SharedIOReadTimeMs, b.SharedIOWriteTimeMs,
		b.LocalIOReadTimeMs, b.LocalIOWriteTimeMs,
		b.TempIOReadTimeMs, b.TempIOWriteTimeMs,
		b.BlockReadTimeMs,
	}
}

// Total returns the sum of all reported block counters.
func (b Buffers) Total() int64 {
	var total int64
	for _, v := range []*int64{
		b.SharedHit, b.SharedRead, b.SharedDirtied, b.SharedWritten,
		b.LocalHit, b.LocalRead, b.LocalDirtied, b.LocalWritten,
		b.TempRead, b.TempWritten,
	} {
		if v != nil {
			total += *v
		}
	}
	return total
}

// Analyzed reports whether the result carries ANALYZE measurements.
func (r *ExplainResult) Analyzed() bool {
	return r.ExecutionTime != nil || r.Plan.ActualTotalTime != nil || r.Plan.ActualLoops != nil
}

// Nodes returns every node of the plan in pre-order.
func (r *ExplainResult) Nodes() []*PlanNode {
	var out []*PlanNode
	r.Plan.Walk(func(node *PlanNode, _ int) bool {
		out = append(out, node)
		return true
	})
	return out
}
