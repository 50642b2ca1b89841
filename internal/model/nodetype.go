package model

// NodeType names the kind of a plan node as spelled by PostgreSQL.
//
// Values outside the declared constants are kept verbatim so plans from newer
// PostgreSQL releases still parse; Known reports whether a value is one of them.
type NodeType string

const (
	NodeSeqScan            NodeType = "Seq Scan"
	NodeSampleScan         NodeType = "Sample Scan"
	NodeIndexScan          NodeType = "Index Scan"
	NodeIndexOnlyScan      NodeType = "Index Only Scan"
	NodeBitmapIndexScan    NodeType = "Bitmap Index Scan"
	NodeBitmapHeapScan     NodeType = "Bitmap Heap Scan"
	NodeBitmapAnd          NodeType = "BitmapAnd"
	NodeBitmapOr           NodeType = "BitmapOr"
	NodeTidScan            NodeType = "Tid Scan"
	NodeTidRangeScan       NodeType = "Tid Range Scan"
	NodeSubqueryScan       NodeType = "Subquery Scan"
	NodeFunctionScan       NodeType = "Function Scan"
	NodeTableFunctionScan  NodeType = "Table Function Scan"
	NodeValuesScan         NodeType = "Values Scan"
	NodeCTEScan            NodeType = "CTE Scan"
	NodeNamedTuplestore    NodeType = "Named Tuplestore Scan"
	NodeWorkTableScan      NodeType = "WorkTable Scan"
	NodeForeignScan        NodeType = "Foreign Scan"
	NodeCustomScan         NodeType = "Custom Scan"
	NodeNestedLoop         NodeType = "Nested Loop"
	NodeMergeJoin          NodeType = "Merge Join"
	NodeHashJoin           NodeType = "Hash Join"
	NodeHash               NodeType = "Hash"
	NodeMaterialize        NodeType = "Materialize"
	NodeMemoize            NodeType = "Memoize"
	NodeSort               NodeType = "Sort"
	NodeIncrementalSort    NodeType = "Incremental Sort"
	NodeGroup              NodeType = "Group"
	NodeAggregate          NodeType = "Aggregate"
	NodeWindowAgg          NodeType = "WindowAgg"
	NodeUnique             NodeType = "Unique"
	NodeSetOp              NodeType = "SetOp"
	NodeLockRows           NodeType = "LockRows"
	NodeLimit              NodeType = "Limit"
	NodeResult             NodeType = "Result"
	NodeProjectSet         NodeType = "ProjectSet"
	NodeModifyTable        NodeType = "ModifyTable"
	NodeAppend             NodeType = "Append"
	NodeMergeAppend        NodeType = "Merge Append"
	NodeRecursiveUnion     NodeType = "Recursive Union"
	NodeGather             NodeType = "Gather"
	NodeGatherMerge        NodeType = "Gather Merge"
)

var knownNodeTypes = map[NodeType]struct{}{
	NodeSeqScan: {}, NodeSampleScan: {}, NodeIndexScan: {}, NodeIndexOnlyScan: {},
	NodeBitmapIndexScan: {}, NodeBitmapHeapScan: {}, NodeBitmapAnd: {}, NodeBitmapOr: {},
	NodeTidScan: {}, NodeTidRangeScan: {}, NodeSubqueryScan: {}, NodeFunctionScan: {},
	NodeTableFunctionScan: {}, NodeValuesScan: {}, NodeCTEScan: {}, NodeNamedTuplestore: {},
	NodeWorkTableScan: {}, NodeForeignScan: {}, NodeCustomScan: {}, NodeNestedLoop: {},
	NodeMergeJoin: {}, NodeHashJoin: {}, NodeHash: {}, NodeMaterialize: {}, NodeMemoize: {},
	NodeSort: {}, NodeIncrementalSort: {}, NodeGroup: {}, NodeAggregate: {}, NodeWindowAgg: {},
	NodeUnique: {}, NodeSetOp: {}, NodeLockRows: {}, NodeLimit: {}, NodeResult: {},
	NodeProjectSet: {}, NodeModifyTable: {}, NodeAppend: {}, NodeMergeAppend: {},
	NodeRecursiveUnion: {}, NodeGather: {}, NodeGatherMerge: {},
}

// Known reports whether t is one of the node kinds declared in this package.
func (t NodeType) Known() bool {
	_, ok := knownNodeTypes[t]
	return ok
}

func (t NodeType) String() string {
	return string(t)
}

// JoinType is the join semantics reported on join nodes.
type JoinType string

const (
	JoinInner     JoinType = "Inner"
	JoinLeft      JoinType = "Left"
	JoinRight     JoinType = "Right"
	JoinFull      JoinType = "Full"
	JoinSemi      JoinType = "Semi"
	JoinAnti      JoinType = "Anti"
	JoinRightSemi JoinType = "Right Semi"
	JoinRightAnti JoinType = "Right Anti"
)

// Known reports whether j is one of the join types declared in this package.
func (j JoinType) Known() bool {
	switch j {
	case JoinInner, JoinLeft, JoinRight, JoinFull, JoinSemi, JoinAnti, JoinRightSemi, JoinRightAnti:
		return true
	default:
		return false
	}
}

func (j JoinType) String() string {
	return string(j)
}
