package main

import (
	"math/rand/v2"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/benz9527/rbmap/lib/tree"
	"github.com/benz9527/rbmap/lib/xlog"
)

// keySource collects the keys to insert from the positional arguments
// and the generator flags, in that order.
type keySource struct {
	seq  int64
	rand int64
	seed uint64
	desc bool
}

func (src *keySource) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(
		&src.seq, "seq", 0, "insert the ascending keys 1..N")
	cmd.Flags().Int64Var(
		&src.rand, "rand", 0, "insert N pseudo random keys in [0, 10N)")
	cmd.Flags().Uint64Var(
		&src.seed, "seed", 1, "seed of the --rand generator")
	cmd.Flags().BoolVar(
		&src.desc, "desc", false, "order the keys descending")
}

func (src *keySource) keys(args []string) ([]int64, error) {
	if src.seq < 0 || src.rand < 0 {
		return nil, errors.New("--seq and --rand must not be negative")
	}
	keys := make([]int64, 0, int64(len(args))+src.seq+src.rand)
	for _, arg := range args {
		key, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid key %q", arg)
		}
		keys = append(keys, key)
	}
	for i := int64(1); i <= src.seq; i++ {
		keys = append(keys, i)
	}
	if src.rand > 0 {
		rng := rand.New(rand.NewPCG(src.seed, src.seed))
		for i := int64(0); i < src.rand; i++ {
			keys = append(keys, rng.Int64N(10*src.rand))
		}
	}
	return keys, nil
}

// build inserts the keys, each valued with its input position.
// Duplicates are skipped and logged.
func (src *keySource) build(args []string, logger xlog.XLogger) (tree.RBTree[int64, int64], error) {
	keys, err := src.keys(args)
	if err != nil {
		return nil, err
	}
	opts := []tree.RBTreeOpt[int64, int64]{
		tree.WithRBTreeLogger[int64, int64](logger),
	}
	if src.desc {
		opts = append(opts, tree.WithRBTreeDesc[int64, int64]())
	}
	elements := lo.Map(keys, func(key int64, idx int) lo.Entry[int64, int64] {
		return lo.Entry[int64, int64]{Key: key, Value: int64(idx)}
	})
	return tree.NewRBTreeFrom[int64, int64](elements, opts...), nil
}
