package main

import (
	"context"
	"fmt"
	"io"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/rbmap/lib/infra"
	"github.com/benz9527/rbmap/lib/tree"
	"github.com/benz9527/rbmap/lib/xlog"
)

type statsOptions struct {
	src        keySource
	draw       bool
	drawValues bool
	depths     bool
	validate   bool
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats [keys...]",
		Short: "build a tree and print its structural analytics",
		Long: `
Inserts the keys one at a time, duplicates are skipped with a warning.
Prints the size, height, diameter, max width, leaf and internal node counts
and the average successful and unsuccessful search costs.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.WithValue(context.Background(), xlog.ContextKey("command"), "stats")
			rbtree, err := opts.src.build(args, root.logger)
			if err != nil {
				return err
			}
			root.logger.InfoContext(ctx, "tree built", zap.Int64("size", rbtree.Len()))
			if opts.validate {
				if err := tree.Validate(rbtree); err != nil {
					root.logger.ErrorContext(ctx, err, "tree violates the red-black invariants")
					return err
				}
			}

			stdout := cmd.OutOrStdout()
			writeStatsTable(stdout, rbtree.Stats())
			if opts.draw {
				drawer := tree.NewRBTreeDrawer(rbtree.Root())
				if opts.drawValues {
					drawer = drawer.WithValues()
				}
				if _, err := drawer.WriteTo(stdout); err != nil {
					return err
				}
			}
			if opts.depths {
				writeDepthHistogram(stdout, rbtree)
			}
			return nil
		},
	}
	opts.src.register(cmd)
	cmd.Flags().BoolVar(
		&opts.draw, "draw", false, "draw the tree, <k> is RED and [k] is BLACK")
	cmd.Flags().BoolVar(
		&opts.drawValues, "draw-values", false, "draw the values next to the keys")
	cmd.Flags().BoolVar(
		&opts.depths, "depths", false, "print the node depth distribution")
	cmd.Flags().BoolVar(
		&opts.validate, "validate", true, "check the red-black invariants before printing")
	return cmd
}

func writeStatsTable(w io.Writer, stats tree.RBTreeStats) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Metric", "Value"})
	tbl.Append([]string{"size", fmt.Sprintf("%d", stats.Size)})
	tbl.Append([]string{"height", fmt.Sprintf("%d", stats.Height)})
	tbl.Append([]string{"leaves", fmt.Sprintf("%d", stats.LeafCount)})
	tbl.Append([]string{"internal nodes", fmt.Sprintf("%d", stats.InternalNodeCount)})
	tbl.Append([]string{"diameter", fmt.Sprintf("%d", stats.Diameter)})
	tbl.Append([]string{"max width", fmt.Sprintf("%d", stats.MaxWidth)})
	tbl.Append([]string{"successful search cost", fmt.Sprintf("%.4f", stats.SuccessfulSearchCost)})
	tbl.Append([]string{"unsuccessful search cost", fmt.Sprintf("%.4f", stats.UnsuccessfulSearchCost)})
	tbl.Render()
}

// nodeDepths visits every node with its depth, the root is at depth 0.
func nodeDepths[K infra.OrderedKey, V any](node tree.RBNode[K, V], depth int64, fn func(depth int64)) {
	if node == nil {
		return
	}
	fn(depth)
	nodeDepths(node.Left(), depth+1, fn)
	nodeDepths(node.Right(), depth+1, fn)
}

func depthHistogram[K infra.OrderedKey, V any](rbtree tree.RBTree[K, V]) *hdrhistogram.Histogram {
	// Red-black trees never get deeper than 2*log2(n+1), 128 levels is plenty.
	hist := hdrhistogram.New(0, 128, 3)
	nodeDepths(rbtree.Root(), 0, func(depth int64) {
		_ = hist.RecordValue(depth)
	})
	return hist
}

func writeDepthHistogram[K infra.OrderedKey, V any](w io.Writer, rbtree tree.RBTree[K, V]) {
	hist := depthHistogram(rbtree)
	if hist.TotalCount() == 0 {
		fmt.Fprintf(w, "depths: (empty)\n")
		return
	}
	fmt.Fprintf(w, "depths: count: %d mean: %.2f p50: %d p90: %d p99: %d max: %d\n",
		hist.TotalCount(), hist.Mean(),
		hist.ValueAtQuantile(50), hist.ValueAtQuantile(90),
		hist.ValueAtQuantile(99), hist.Max())
}
