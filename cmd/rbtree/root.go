package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/benz9527/rbmap/lib/xlog"
)

type rootOptions struct {
	logLevel   string
	logEncoder string
	logger     xlog.XLogger
}

func (o *rootOptions) setupLogger() error {
	var enc xlog.LogEncoderType
	switch strings.ToLower(o.logEncoder) {
	case "json":
		enc = xlog.JSON
	case "text", "plain":
		enc = xlog.PlainText
	default:
		return errors.Newf("unknown log encoder %q", o.logEncoder)
	}
	o.logger = xlog.NewXLogger(
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerLevel(xlog.LogLevel(strings.ToUpper(o.logLevel))),
		xlog.WithXLoggerContextFieldExtract("command"),
	)
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "rbtree [command] (flags)",
		Short:         "red-black tree builder and structural analytics tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogger()
		},
	}
	root.PersistentFlags().StringVar(
		&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(
		&opts.logEncoder, "log-encoder", "text", "log encoder (json, text)")

	root.AddCommand(
		newStatsCmd(opts),
		newGrowthCmd(opts),
		newMetricsCmd(opts),
		newServeCmd(opts),
	)
	return root
}
