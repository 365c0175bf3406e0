package main

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/benz9527/rbmap/lib/tree"
)

type growthOptions struct {
	max    int64
	height int
	desc   bool
}

func newGrowthCmd(root *rootOptions) *cobra.Command {
	opts := &growthOptions{}
	cmd := &cobra.Command{
		Use:   "growth",
		Short: "plot the tree height against its size for sequential inserts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.max <= 0 {
				return errors.Newf("--max must be positive, got %d", opts.max)
			}
			heights, err := growthHeights(opts.max, opts.desc)
			if err != nil {
				return err
			}
			bound := 2 * math.Log2(float64(opts.max)+1)
			fmt.Fprintln(cmd.OutOrStdout(), asciigraph.Plot(heights,
				asciigraph.Height(opts.height),
				asciigraph.Caption(fmt.Sprintf("height over %d sequential inserts (bound %.2f)", opts.max, bound)),
			))
			return nil
		},
	}
	cmd.Flags().Int64Var(
		&opts.max, "max", 1024, "number of keys to insert")
	cmd.Flags().IntVar(
		&opts.height, "height", 10, "plot height in lines")
	cmd.Flags().BoolVar(
		&opts.desc, "desc", false, "insert the keys in descending order")
	return cmd
}

// growthHeights records the height after each insertion of 1..n.
func growthHeights(n int64, desc bool) ([]float64, error) {
	rbtree := tree.NewRBTree[int64, struct{}]()
	heights := make([]float64, 0, n)
	for i := int64(1); i <= n; i++ {
		key := i
		if desc {
			key = n - i + 1
		}
		if err := rbtree.Insert(key, struct{}{}); err != nil {
			return nil, err
		}
		heights = append(heights, float64(rbtree.Height()))
	}
	return heights, nil
}
