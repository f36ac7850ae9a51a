package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/ordmap/pkg/rbtree"
)

const (
	metricOpsTotal       = "ordmap.tree.ops.total"
	metricRotationsTotal = "ordmap.tree.rotations.total"
	metricFixupsTotal    = "ordmap.tree.fixups.total"
	metricNodes          = "ordmap.tree.nodes"

	attrOp        = "op"
	attrDirection = "direction"
	attrCase      = "case"

	opInsert = "insert"
	opDelete = "delete"
)

// TreeMetrics records structural events of one tree as OTel instruments.
// It implements rbtree.Observer; pass it with rbtree.WithObserver.
type TreeMetrics struct {
	opsTotal       metric.Int64Counter
	rotationsTotal metric.Int64Counter
	fixupsTotal    metric.Int64Counter
	nodes          metric.Int64UpDownCounter

	// Attribute sets are built once, the observer runs on every mutation.
	insertAttrs   metric.MeasurementOption
	deleteAttrs   metric.MeasurementOption
	treeAttrs     metric.MeasurementOption
	rotationAttrs [2]metric.MeasurementOption
	fixupAttrs    [rbtree.NumFixupCases]metric.MeasurementOption
}

var _ rbtree.Observer = (*TreeMetrics)(nil)

// NewTreeMetrics creates the tree instruments from the given meter.
func NewTreeMetrics(mt metric.Meter, treeName string) (*TreeMetrics, error) {
	if treeName == "" {
		treeName = defaultTreeName
	}

	opsTotal, err := mt.Int64Counter(metricOpsTotal,
		metric.WithDescription("Total number of mutating tree operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOpsTotal, err)
	}

	rotationsTotal, err := mt.Int64Counter(metricRotationsTotal,
		metric.WithDescription("Total number of rotations"),
		metric.WithUnit("{rotation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRotationsTotal, err)
	}

	fixupsTotal, err := mt.Int64Counter(metricFixupsTotal,
		metric.WithDescription("Total number of rebalancing steps by case"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFixupsTotal, err)
	}

	nodes, err := mt.Int64UpDownCounter(metricNodes,
		metric.WithDescription("Number of nodes in the tree"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNodes, err)
	}

	tree := attribute.String(attrTree, treeName)
	tm := &TreeMetrics{
		opsTotal:       opsTotal,
		rotationsTotal: rotationsTotal,
		fixupsTotal:    fixupsTotal,
		nodes:          nodes,
		insertAttrs:    metric.WithAttributes(tree, attribute.String(attrOp, opInsert)),
		deleteAttrs:    metric.WithAttributes(tree, attribute.String(attrOp, opDelete)),
		treeAttrs:      metric.WithAttributes(tree),
	}

	for _, dir := range []rbtree.Direction{rbtree.Left, rbtree.Right} {
		tm.rotationAttrs[dir] = metric.WithAttributes(tree, attribute.String(attrDirection, dir.String()))
	}

	for fc := range rbtree.NumFixupCases {
		tm.fixupAttrs[fc] = metric.WithAttributes(tree, attribute.String(attrCase, rbtree.FixupCase(fc).String()))
	}

	return tm, nil
}

// Inserted records one insert.
func (tm *TreeMetrics) Inserted(rbtree.Key) {
	ctx := context.Background()
	tm.opsTotal.Add(ctx, 1, tm.insertAttrs)
	tm.nodes.Add(ctx, 1, tm.treeAttrs)
}

// Deleted records one delete.
func (tm *TreeMetrics) Deleted(rbtree.Key) {
	ctx := context.Background()
	tm.opsTotal.Add(ctx, 1, tm.deleteAttrs)
	tm.nodes.Add(ctx, -1, tm.treeAttrs)
}

// Rotated records one rotation.
func (tm *TreeMetrics) Rotated(dir rbtree.Direction) {
	tm.rotationsTotal.Add(context.Background(), 1, tm.rotationAttrs[dir])
}

// Fixup records one rebalancing step.
func (tm *TreeMetrics) Fixup(fc rbtree.FixupCase) {
	tm.fixupsTotal.Add(context.Background(), 1, tm.fixupAttrs[fc])
}
