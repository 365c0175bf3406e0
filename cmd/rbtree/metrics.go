package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"

	"github.com/benz9527/rbmap/observability"
)

type metricsOptions struct {
	src  keySource
	name string
}

func newMetricsCmd(root *rootOptions) *cobra.Command {
	opts := &metricsOptions{}
	cmd := &cobra.Command{
		Use:   "metrics [keys...]",
		Short: "build a tree and export its analytics once as otel metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rbtree, err := opts.src.build(args, root.logger)
			if err != nil {
				return err
			}
			mp, err := observability.NewConsoleMetricsExporter(
				time.Hour, 10*time.Second,
				stdoutmetric.WithWriter(cmd.OutOrStdout()),
				stdoutmetric.WithPrettyPrint(),
			)
			if err != nil {
				return err
			}
			if _, err = observability.RegisterRBTreeStats(observability.Meter(), opts.name, rbtree); err != nil {
				return err
			}
			// The periodic reader exports the last collection on shutdown.
			return mp.Shutdown(context.Background())
		},
	}
	opts.src.register(cmd)
	cmd.Flags().StringVar(
		&opts.name, "name", "rbtree", "value of the tree attribute")
	return cmd
}
