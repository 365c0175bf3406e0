package observability

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/rbmap/lib/tree"
)

const (
	meterName       = "rbmap/tree"
	treeAttrKey     = "tree"
	defaultTreeName = "default"
)

// RBTreeStatsSource is anything able to snapshot the tree analytics.
// Every RBTree satisfies it, whatever its key and value types.
type RBTreeStatsSource interface {
	Stats() tree.RBTreeStats
}

type rbTreeStats struct {
	size                   metric.Int64ObservableGauge
	height                 metric.Int64ObservableGauge
	leaves                 metric.Int64ObservableGauge
	internalNodes          metric.Int64ObservableGauge
	diameter               metric.Int64ObservableGauge
	maxWidth               metric.Int64ObservableGauge
	successfulSearchCost   metric.Float64ObservableGauge
	unsuccessfulSearchCost metric.Float64ObservableGauge
}

func (stats *rbTreeStats) instruments() []metric.Observable {
	return []metric.Observable{
		stats.size,
		stats.height,
		stats.leaves,
		stats.internalNodes,
		stats.diameter,
		stats.maxWidth,
		stats.successfulSearchCost,
		stats.unsuccessfulSearchCost,
	}
}

func (stats *rbTreeStats) observe(src RBTreeStatsSource, opt metric.MeasurementOption) metric.Callback {
	return func(ctx context.Context, ob metric.Observer) error {
		s := src.Stats()
		ob.ObserveInt64(stats.size, s.Size, opt)
		ob.ObserveInt64(stats.height, s.Height, opt)
		ob.ObserveInt64(stats.leaves, s.LeafCount, opt)
		ob.ObserveInt64(stats.internalNodes, s.InternalNodeCount, opt)
		ob.ObserveInt64(stats.diameter, s.Diameter, opt)
		ob.ObserveInt64(stats.maxWidth, s.MaxWidth, opt)
		ob.ObserveFloat64(stats.successfulSearchCost, s.SuccessfulSearchCost, opt)
		ob.ObserveFloat64(stats.unsuccessfulSearchCost, s.UnsuccessfulSearchCost, opt)
		return nil
	}
}

func treeName(name string) string {
	if len(strings.TrimSpace(name)) == 0 {
		return defaultTreeName
	}
	return name
}

// RegisterRBTreeStats publishes the analytics of src as observable gauges.
// The analytics walk the whole tree, so they are computed once per
// collection. Data points carry the attribute tree=name.
// Unregister the returned registration before releasing the tree.
func RegisterRBTreeStats(meter metric.Meter, name string, src RBTreeStatsSource) (metric.Registration, error) {
	stats := &rbTreeStats{
		size: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.size",
			metric.WithDescription(`The number of entries stored in the tree.`),
		)),
		height: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.height",
			metric.WithDescription(`The edges on the longest root-to-leaf path, -1 if empty.`),
		)),
		leaves: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.leaves",
			metric.WithDescription(`The nodes without children.`),
		)),
		internalNodes: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.internal_nodes",
			metric.WithDescription(`The nodes with at least one child.`),
		)),
		diameter: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.diameter",
			metric.WithDescription(`The edges on the longest path between two nodes.`),
		)),
		maxWidth: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.max_width",
			metric.WithDescription(`The node count of the widest level.`),
		)),
		successfulSearchCost: lo.Must[metric.Float64ObservableGauge](meter.Float64ObservableGauge(
			"rbtree.search.successful_cost",
			metric.WithDescription(`The mean comparisons of a hit.`),
		)),
		unsuccessfulSearchCost: lo.Must[metric.Float64ObservableGauge](meter.Float64ObservableGauge(
			"rbtree.search.unsuccessful_cost",
			metric.WithDescription(`The mean comparisons of a miss.`),
		)),
	}
	opt := metric.WithAttributes(attribute.String(treeAttrKey, treeName(name)))
	return meter.RegisterCallback(stats.observe(src, opt), stats.instruments()...)
}

// StartRuntimeStats reports the go runtime metrics (goroutines, gc, memory)
// of the process hosting the trees.
func StartRuntimeStats(mp metric.MeterProvider) error {
	return otelruntime.Start(
		otelruntime.WithMeterProvider(mp),
		otelruntime.WithMinimumReadMemStatsInterval(time.Second),
	)
}
