package model

// ExplainResult represents one element of a PostgreSQL EXPLAIN (FORMAT JSON) document.
type ExplainResult struct {
	Plan            PlanNode
	PlanningTime    *float64
	ExecutionTime   *float64
	Triggers        []Trigger
	Settings        map[string]string
	QueryIdentifier *int64
}

// PlanNode captures one node in the execution plan tree.
//
// Optional fields are nil when the key was absent from the source document,
// so callers can tell "not measured" apart from "measured as zero".
type PlanNode struct {
	// ID is the dotted position of the node in its tree, "0" for the root.
	ID                 string
	NodeType           NodeType
	ParentRelationship *string
	SubplanName        *string
	CTEName            *string
	ParallelAware      *bool
	AsyncCapable       *bool

	RelationName  *string
	Schema        *string
	Alias         *string
	IndexName     *string
	ScanDirection *string
	FunctionName  *string
	Operation     *string
	Strategy      *string
	PartialMode   *string

	StartupCost float64
	TotalCost   float64
	PlanRows    int64
	PlanWidth   int64

	ActualStartupTime *float64
	ActualTotalTime   *float64
	// ActualRows is fractional on PostgreSQL 18+, which averages rows over loops
	// with two decimals.
	ActualRows  *float64
	ActualLoops *int64

	JoinType                  *JoinType
	InnerUnique               *bool
	HashCond                  *string
	MergeCond                 *string
	IndexCond                 *string
	RecheckCond               *string
	JoinFilter                *string
	Filter                    *string
	RowsRemovedByFilter       *int64
	RowsRemovedByIndexRecheck *int64
	RowsRemovedByJoinFilter   *int64

	SortKey       []string
	GroupKey      []string
	SortMethod    *string
	SortSpaceUsed *int64
	SortSpaceType *string

	HashBuckets         *int64
	HashBatches         *int64
	OriginalHashBatches *int64
	PeakMemoryUsage     *int64

	WorkersPlanned  *int64
	WorkersLaunched *int64
	Workers         []Worker

	Output  []string
	Buffers Buffers

	Children []PlanNode
}

// Worker holds the per-worker statistics reported for parallel plan nodes.
type Worker struct {
	WorkerNumber      int64
	ActualStartupTime *float64
	ActualTotalTime   *float64
	ActualRows        *float64
	ActualLoops       *int64
	SortMethod        *string
	SortSpaceUsed     *int64
	SortSpaceType     *string
	Buffers           Buffers
}

// Trigger is the timing record PostgreSQL reports for each fired trigger under ANALYZE.
type Trigger struct {
	TriggerName    string
	ConstraintName *string
	Relation       string
	// Time is nil when the plan was produced with TIMING OFF.
	Time           *float64
	Calls          int64
}

// Buffers holds buffer usage statistics for a node. Every counter is absent
// unless the plan was produced with the BUFFERS option.
type Buffers struct {
	SharedHit           *int64
	SharedRead          *int64
	SharedDirtied       *int64
	SharedWritten       *int64
	LocalHit            *int64
	LocalRead           *int64
	LocalDirtied        *int64
	LocalWritten        *int64
	TempRead            *int64
	TempWritten         *int64
	// IOReadTimeMs and IOWriteTimeMs are the pre-15 totals; newer servers
	// split I/O timing into shared, local and temp.
	IOReadTimeMs        *float64
	IOWriteTimeMs       *float64
	SharedIOReadTimeMs  *float64
	SharedIOWriteTimeMs *float64
	LocalIOReadTimeMs   *float64
	LocalIOWriteTimeMs  *float64
	TempIOReadTimeMs    *float64
	TempIOWriteTimeMs   *float64
	BlockReadTimeMs     *float64
}
