package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mickamy/pgexplain/internal/model"
)

// Parse decodes a PostgreSQL EXPLAIN (FORMAT JSON) document. Every element of
// the top-level array becomes one ExplainResult, in document order.
func Parse(data []byte) ([]model.ExplainResult, error) {
	return ParseJSON(bytes.NewReader(data))
}

// ParseJSON reads a PostgreSQL EXPLAIN (FORMAT JSON) document from r.
func ParseJSON(r io.Reader) ([]model.ExplainResult, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, &Error{Kind: KindMalformedJSON, Depth: -1, Msg: "decode", Err: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &Error{Kind: KindMalformedJSON, Depth: -1, Msg: "trailing data", Err: err}
	}

	return ParseValue(payload)
}

// ParseValue converts an already decoded JSON value, as produced by
// encoding/json into an any, into explain results. Decode with
// json.Decoder.UseNumber: integers beyond 2^53 held as float64 have already
// lost precision and are rejected with ErrInvalidValue.
func ParseValue(payload any) ([]model.ExplainResult, error) {
	entries, ok := payload.([]any)
	if !ok {
		return nil, &Error{
			Kind:  KindUnexpectedShape,
			Path:  "$",
			Depth: -1,
			Msg:   fmt.Sprintf("expected top-level array, got %s", jsonType(payload)),
		}
	}
	if len(entries) == 0 {
		return nil, &Error{Kind: KindUnexpectedShape, Path: "$", Depth: -1, Msg: "empty payload"}
	}

	results := make([]model.ExplainResult, 0, len(entries))
	for i, entry := range entries {
		result, err := parseResult(entry, fmt.Sprintf("$[%d]", i))
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func parseResult(entry any, path string) (model.ExplainResult, error) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return model.ExplainResult{}, &Error{
			Kind:  KindUnexpectedShape,
			Path:  path,
			Depth: -1,
			Msg:   fmt.Sprintf("expected object, got %s", jsonType(entry)),
		}
	}

	f := newFields(obj, path, -1)
	planMap := f.RequiredObject("Plan")
	result := model.ExplainResult{
		PlanningTime:    f.Float("Planning Time"),
		ExecutionTime:   f.Float("Execution Time"),
		QueryIdentifier: f.Int("Query Identifier"),
	}
	result.Settings = parseSettings(f)
	triggers := f.Array("Triggers")
	if f.err != nil {
		return model.ExplainResult{}, f.err
	}

	root, err := parsePlanNode(planMap, path+".Plan", "0", 0)
	if err != nil {
		return model.ExplainResult{}, err
	}
	result.Plan = root

	if triggers != nil {
		result.Triggers = make([]model.Trigger, 0, len(triggers))
		for i, raw := range triggers {
			trigger, err := parseTrigger(raw, fmt.Sprintf("%s.Triggers[%d]", path, i))
			if err != nil {
				return model.ExplainResult{}, err
			}
			result.Triggers = append(result.Triggers, trigger)
		}
	}

	return result, nil
}

func parsePlanNode(data map[string]any, path, id string, depth int) (model.PlanNode, error) {
	f := newFields(data, path, depth)

	node := model.PlanNode{
		ID:                 id,
		NodeType:           model.NodeType(f.RequiredString("Node Type")),
		ParentRelationship: f.String("Parent Relationship"),
		SubplanName:        f.String("Subplan Name"),
		CTEName:            f.String("CTE Name"),
		ParallelAware:      f.Bool("Parallel Aware"),
		AsyncCapable:       f.Bool("Async Capable"),

		RelationName:  f.String("Relation Name"),
		Schema:        f.String("Schema"),
		Alias:         f.String("Alias"),
		IndexName:     f.String("Index Name"),
		ScanDirection: f.String("Scan Direction"),
		FunctionName:  f.String("Function Name"),
		Operation:     f.String("Operation"),
		Strategy:      f.String("Strategy"),
		PartialMode:   f.String("Partial Mode"),

		StartupCost: f.RequiredFloat("Startup Cost"),
		TotalCost:   f.RequiredFloat("Total Cost"),
		PlanRows:    f.RequiredCount("Plan Rows"),
		PlanWidth:   f.RequiredCount("Plan Width"),

		ActualStartupTime: f.Float("Actual Startup Time"),
		ActualTotalTime:   f.Float("Actual Total Time"),
		ActualRows:        f.Float("Actual Rows"),
		ActualLoops:       f.Count("Actual Loops"),

		InnerUnique:               f.Bool("Inner Unique"),
		HashCond:                  f.String("Hash Cond"),
		MergeCond:                 f.String("Merge Cond"),
		IndexCond:                 f.String("Index Cond"),
		RecheckCond:               f.String("Recheck Cond"),
		JoinFilter:                f.String("Join Filter"),
		Filter:                    f.String("Filter"),
		RowsRemovedByFilter:       f.Count("Rows Removed by Filter"),
		RowsRemovedByIndexRecheck: f.Count("Rows Removed by Index Recheck"),
		RowsRemovedByJoinFilter:   f.Count("Rows Removed by Join Filter"),

		SortKey:       f.Strings("Sort Key"),
		GroupKey:      f.Strings("Group Key"),
		SortMethod:    f.String("Sort Method"),
		SortSpaceUsed: f.Count("Sort Space Used"),
		SortSpaceType: f.String("Sort Space Type"),

		HashBuckets:         f.Count("Hash Buckets"),
		HashBatches:         f.Count("Hash Batches"),
		OriginalHashBatches: f.Count("Original Hash Batches"),
		PeakMemoryUsage:     f.Count("Peak Memory Usage"),

		WorkersPlanned:  f.Count("Workers Planned"),
		WorkersLaunched: f.Count("Workers Launched"),

		Output:  f.Strings("Output"),
		Buffers: parseBuffers(f),
	}
	if jt := f.String("Join Type"); jt != nil {
		joinType := model.JoinType(*jt)
		node.JoinType = &joinType
	}

	workers := f.Array("Workers")
	children := f.Array("Plans")
	if f.err != nil {
		return model.PlanNode{}, f.err
	}

	if workers != nil {
		node.Workers = make([]model.Worker, 0, len(workers))
		for i, raw := range workers {
			worker, err := parseWorker(raw, fmt.Sprintf("%s.Workers[%d]", path, i), depth)
			if err != nil {
				return model.PlanNode{}, err
			}
			node.Workers = append(node.Workers, worker)
		}
	}

	if len(children) > 0 {
		node.Children = make([]model.PlanNode, 0, len(children))
	}
	for i, childVal := range children {
		childPath := fmt.Sprintf("%s.Plans[%d]", path, i)
		childMap, ok := childVal.(map[string]any)
		if !ok {
			return model.PlanNode{}, &Error{
				Kind:  KindUnexpectedShape,
				Path:  childPath,
				Depth: depth + 1,
				Msg:   fmt.Sprintf("expected object, got %s", jsonType(childVal)),
			}
		}

		child, err := parsePlanNode(childMap, childPath, fmt.Sprintf("%s.%d", id, i), depth+1)
		if err != nil {
			return model.PlanNode{}, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

func parseWorker(raw any, path string, depth int) (model.Worker, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Worker{}, &Error{
			Kind:  KindUnexpectedShape,
			Path:  path,
			Depth: depth,
			Msg:   fmt.Sprintf("expected object, got %s", jsonType(raw)),
		}
	}

	f := newFields(obj, path, depth)
	worker := model.Worker{
		WorkerNumber:      f.RequiredCount("Worker Number"),
		ActualStartupTime: f.Float("Actual Startup Time"),
		ActualTotalTime:   f.Float("Actual Total Time"),
		ActualRows:        f.Float("Actual Rows"),
		ActualLoops:       f.Count("Actual Loops"),
		SortMethod:        f.String("Sort Method"),
		SortSpaceUsed:     f.Count("Sort Space Used"),
		SortSpaceType:     f.String("Sort Space Type"),
		Buffers:           parseBuffers(f),
	}
	if f.err != nil {
		return model.Worker{}, f.err
	}
	return worker, nil
}

func parseTrigger(raw any, path string) (model.Trigger, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Trigger{}, &Error{
			Kind:  KindUnexpectedShape,
			Path:  path,
			Depth: -1,
			Msg:   fmt.Sprintf("expected object, got %s", jsonType(raw)),
		}
	}

	f := newFields(obj, path, -1)
	trigger := model.Trigger{
		TriggerName:    f.RequiredString("Trigger Name"),
		ConstraintName: f.String("Constraint Name"),
		Relation:       f.RequiredString("Relation"),
		Time:           f.Float("Time"),
		Calls:          f.RequiredCount("Calls"),
	}
	if f.err != nil {
		return model.Trigger{}, f.err
	}
	return trigger, nil
}

func parseBuffers(f *fields) model.Buffers {
	return model.Buffers{
		SharedHit:           f.Count("Shared Hit Blocks"),
		SharedRead:          f.Count("Shared Read Blocks"),
		SharedDirtied:       f.Count("Shared Dirtied Blocks"),
		SharedWritten:       f.Count("Shared Written Blocks"),
		LocalHit:            f.Count("Local Hit Blocks"),
		LocalRead:           f.Count("Local Read Blocks"),
		LocalDirtied:        f.Count("Local Dirtied Blocks"),
		LocalWritten:        f.Count("Local Written Blocks"),
		TempRead:            f.Count("Temp Read Blocks"),
		TempWritten:         f.Count("Temp Written Blocks"),
		IOReadTimeMs:        f.Float("I/O Read Time"),
		IOWriteTimeMs:       f.Float("I/O Write Time"),
		SharedIOReadTimeMs:  f.Float("Shared I/O Read Time"),
		SharedIOWriteTimeMs: f.Float("Shared I/O Write Time"),
		LocalIOReadTimeMs:   f.Float("Local I/O Read Time"),
		LocalIOWriteTimeMs:  f.Float("Local I/O Write Time"),
		TempIOReadTimeMs:    f.Float("Temp I/O Read Time"),
		TempIOWriteTimeMs:   f.Float("Temp I/O Write Time"),
		BlockReadTimeMs:     f.Float("Block Read Time"),
	}
}

func parseSettings(f *fields) map[string]string {
	obj := f.Object("Settings")
	if obj == nil {
		return nil
	}
	result := make(map[string]string, len(obj))
	for name, raw := range obj {
		value, ok := raw.(string)
		if !ok {
			f.fail(KindUnexpectedShape, "Settings", "setting %q: expected string, got %s", name, jsonType(raw))
			return nil
		}
		result[name] = value
	}
	return result
}
