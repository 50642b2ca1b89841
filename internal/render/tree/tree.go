package tree

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/mickamy/pgexplain/internal/model"
)

// blockSize is PostgreSQL's default page size, used to estimate buffer volume.
const blockSize = 8192

// Options controls how the tree printer behaves.
type Options struct {
	EnableColor bool
	MaxDepth    int
	// Verbose prints Output column lists.
	Verbose bool
}

type printer struct {
	w       io.Writer
	opts    Options
	known   *color.Color
	unknown *color.Color
	faint   *color.Color
}

// Render prints every result as an indented plan tree for diagnostics.
func Render(w io.Writer, results []model.ExplainResult, opts Options) error {
	if w == nil {
		return errors.New("tree: writer is nil")
	}
	if len(results) == 0 {
		return errors.New("tree: no results")
	}

	p := &printer{
		w:       w,
		opts:    opts,
		known:   color.New(color.FgCyan, color.Bold),
		unknown: color.New(color.FgYellow, color.Bold),
		faint:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.known, p.unknown, p.faint} {
		if opts.EnableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for i := range results {
		if len(results) > 1 {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintf(w, "Result %d of %d\n", i+1, len(results))
		}
		p.renderResult(&results[i])
	}
	return nil
}

func (p *printer) renderResult(r *model.ExplainResult) {
	_, _ = fmt.Fprintln(p.w, p.renderLine(&r.Plan))
	p.renderDetails(&r.Plan, "")
	p.printChildren(&r.Plan, "", 0)

	if r.PlanningTime != nil {
		_, _ = fmt.Fprintf(p.w, "Planning Time: %.3f ms\n", *r.PlanningTime)
	}
	for _, trigger := range r.Triggers {
		if trigger.Time != nil {
			_, _ = fmt.Fprintf(p.w, "Trigger %s on %s: time=%.3f calls=%d\n", trigger.TriggerName, trigger.Relation, *trigger.Time, trigger.Calls)
			continue
		}
		_, _ = fmt.Fprintf(p.w, "Trigger %s on %s: calls=%d\n", trigger.TriggerName, trigger.Relation, trigger.Calls)
	}
	if r.ExecutionTime != nil {
		_, _ = fmt.Fprintf(p.w, "Execution Time: %.3f ms\n", *r.ExecutionTime)
	}
}

func (p *printer) printChildren(parent *model.PlanNode, prefix string, depth int) {
	for i := range parent.Children {
		p.renderBranch(&parent.Children[i], prefix, depth+1, i == len(parent.Children)-1)
	}
}

func (p *printer) renderBranch(node *model.PlanNode, prefix string, depth int, isLast bool) {
	connector := "|-- "
	childPrefix := prefix + "|   "
	if isLast {
		connector = "`-- "
		childPrefix = prefix + "    "
	}

	_, _ = fmt.Fprintf(p.w, "%s%s%s\n", prefix, connector, p.renderLine(node))

	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		if len(node.Children) > 0 {
			_, _ = fmt.Fprintf(p.w, "%s`-- ... (%d more nodes)\n", childPrefix, node.Count()-1)
		}
		return
	}

	p.renderDetails(node, childPrefix)
	p.printChildren(node, childPrefix, depth)
}

func (p *printer) renderLine(node *model.PlanNode) string {
	kind := p.known
	if !node.NodeType.Known() {
		kind = p.unknown
	}

	parts := []string{kind.Sprint(label(node))}
	parts = append(parts, p.faint.Sprintf("(cost=%.2f..%.2f rows=%d width=%d)",
		node.StartupCost, node.TotalCost, node.PlanRows, node.PlanWidth))

	switch {
	case node.ActualLoops != nil && *node.ActualLoops == 0:
		parts = append(parts, "(never executed)")
	case node.ActualTotalTime != nil:
		parts = append(parts, fmt.Sprintf("(actual time=%.3f..%.3f rows=%s loops=%d)",
			deref(node.ActualStartupTime), *node.ActualTotalTime, formatRows(node.ActualRows), derefInt(node.ActualLoops)))
	}

	return strings.Join(parts, " ")
}

func (p *printer) renderDetails(node *model.PlanNode, childPrefix string) {
	details := details(node, p.opts.Verbose)
	if len(details) == 0 {
		return
	}
	indent := childPrefix + "    "
	if len(node.Children) > 0 {
		indent = childPrefix + "|   "
	}
	for _, d := range details {
		_, _ = fmt.Fprintf(p.w, "%s%s\n", indent, d)
	}
}

func label(node *model.PlanNode) string {
	var b strings.Builder
	if node.ParallelAware != nil && *node.ParallelAware {
		b.WriteString("Parallel ")
	}
	b.WriteString(node.NodeType.String())
	if node.IndexName != nil {
		b.WriteString(" using ")
		b.WriteString(*node.IndexName)
	}
	switch {
	case node.RelationName != nil:
		b.WriteString(" on ")
		if node.Schema != nil {
			b.WriteString(*node.Schema + ".")
		}
		b.WriteString(*node.RelationName)
		if node.Alias != nil && *node.Alias != *node.RelationName {
			b.WriteString(" " + *node.Alias)
		}
	case node.CTEName != nil:
		b.WriteString(" on " + *node.CTEName)
	case node.FunctionName != nil:
		b.WriteString(" on " + *node.FunctionName)
	}
	return b.String()
}

func details(node *model.PlanNode, verbose bool) []string {
	var out []string
	add := func(name string, v *string) {
		if v != nil {
			out = append(out, name+": "+*v)
		}
	}

	add("Subplan", node.SubplanName)
	if node.JoinType != nil && *node.JoinType != model.JoinInner {
		out = append(out, "Join Type: "+node.JoinType.String())
	}
	add("Hash Cond", node.HashCond)
	add("Merge Cond", node.MergeCond)
	add("Index Cond", node.IndexCond)
	add("Recheck Cond", node.RecheckCond)
	add("Join Filter", node.JoinFilter)
	add("Filter", node.Filter)
	if node.RowsRemovedByFilter != nil {
		out = append(out, fmt.Sprintf("Rows Removed by Filter: %d", *node.RowsRemovedByFilter))
	}
	if node.RowsRemovedByIndexRecheck != nil {
		out = append(out, fmt.Sprintf("Rows Removed by Index Recheck: %d", *node.RowsRemovedByIndexRecheck))
	}
	if len(node.GroupKey) > 0 {
		out = append(out, "Group Key: "+strings.Join(node.GroupKey, ", "))
	}
	if len(node.SortKey) > 0 {
		out = append(out, "Sort Key: "+strings.Join(node.SortKey, ", "))
	}
	if node.SortMethod != nil {
		line := "Sort Method: " + *node.SortMethod
		if node.SortSpaceType != nil && node.SortSpaceUsed != nil {
			line += fmt.Sprintf("  %s: %dkB", *node.SortSpaceType, *node.SortSpaceUsed)
		}
		out = append(out, line)
	}
	if node.WorkersPlanned != nil {
		line := fmt.Sprintf("Workers Planned: %d", *node.WorkersPlanned)
		if node.WorkersLaunched != nil {
			line += fmt.Sprintf("  Launched: %d", *node.WorkersLaunched)
		}
		out = append(out, line)
	}
	for _, w := range node.Workers {
		out = append(out, fmt.Sprintf("Worker %d: actual time=%.3f..%.3f rows=%s loops=%d",
			w.WorkerNumber, deref(w.ActualStartupTime), deref(w.ActualTotalTime), formatRows(w.ActualRows), derefInt(w.ActualLoops)))
	}
	if node.Buffers.Present() {
		if line := formatBuffers(node.Buffers); line != "" {
			out = append(out, line)
		}
		if line := formatIOTimings(node.Buffers); line != "" {
			out = append(out, line)
		}
	}
	if verbose && len(node.Output) > 0 {
		out = append(out, "Output: "+strings.Join(node.Output, ", "))
	}
	return out
}

func formatBuffers(b model.Buffers) string {
	var parts []string
	reported := false
	add := func(group string, counters ...any) {
		var fields []string
		for i := 0; i < len(counters); i += 2 {
			v := counters[i+1].(*int64)
			if v != nil {
				reported = true
			}
			if v != nil && *v > 0 {
				fields = append(fields, fmt.Sprintf("%s=%d", counters[i], *v))
			}
		}
		if len(fields) > 0 {
			parts = append(parts, group+" "+strings.Join(fields, " "))
		}
	}
	add("shared", "hit", b.SharedHit, "read", b.SharedRead, "dirtied", b.SharedDirtied, "written", b.SharedWritten)
	add("local", "hit", b.LocalHit, "read", b.LocalRead, "dirtied", b.LocalDirtied, "written", b.LocalWritten)
	add("temp", "read", b.TempRead, "written", b.TempWritten)

	if !reported {
		return ""
	}
	if len(parts) == 0 {
		return "Buffers: none"
	}
	return fmt.Sprintf("Buffers: %s (~%s)", strings.Join(parts, ", "), humanize.IBytes(uint64(b.Total())*blockSize))
}

// formatIOTimings renders track_io_timing figures in milliseconds.
func formatIOTimings(b model.Buffers) string {
	var parts []string
	add := func(group string, read, write *float64) {
		var fields []string
		if read != nil {
			fields = append(fields, fmt.Sprintf("read=%.3f", *read))
		}
		if write != nil {
			fields = append(fields, fmt.Sprintf("write=%.3f", *write))
		}
		if len(fields) > 0 {
			parts = append(parts, strings.TrimSpace(group+" "+strings.Join(fields, " ")))
		}
	}
	add("", b.IOReadTimeMs, b.IOWriteTimeMs)
	add("shared", b.SharedIOReadTimeMs, b.SharedIOWriteTimeMs)
	add("local", b.LocalIOReadTimeMs, b.LocalIOWriteTimeMs)
	add("temp", b.TempIOReadTimeMs, b.TempIOWriteTimeMs)
	add("block", b.BlockReadTimeMs, nil)

	if len(parts) == 0 {
		return ""
	}
	return "I/O Timings: " + strings.Join(parts, ", ")
}

func formatRows(rows *float64) string {
	if rows == nil {
		return "?"
	}
	if *rows == math.Trunc(*rows) {
		return fmt.Sprintf("%.0f", *rows)
	}
	return fmt.Sprintf("%.2f", *rows)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
