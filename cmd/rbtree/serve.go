package main

import (
	"context"
	"net"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/rbmap/lib/infra"
	"github.com/benz9527/rbmap/lib/tree"
	"github.com/benz9527/rbmap/lib/xlog"
	"github.com/benz9527/rbmap/observability"
)

type serveOptions struct {
	src     keySource
	name    string
	listen  string
	runtime bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve [keys...]",
		Short: "build a tree and serve its analytics as prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rbtree, err := opts.src.build(args, root.logger)
			if err != nil {
				return err
			}
			app := fx.New(serveAppOptions(opts, root.logger, rbtree)...)
			if err = app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
	opts.src.register(cmd)
	cmd.Flags().StringVar(
		&opts.name, "name", "rbtree", "value of the tree attribute")
	cmd.Flags().StringVar(
		&opts.listen, "listen", "127.0.0.1:9464", "address of the /metrics endpoint")
	cmd.Flags().BoolVar(
		&opts.runtime, "runtime", true, "also serve the go runtime metrics")
	return cmd
}

type metricsServer struct {
	srv *http.Server
	ln  net.Listener
}

func (s *metricsServer) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func newPromRegistry() *promclient.Registry {
	return promclient.NewRegistry()
}

func newMeterProvider(lc fx.Lifecycle, reg *promclient.Registry) (*sdkmetric.MeterProvider, error) {
	mp, err := observability.NewPrometheusMetricsExporter(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: mp.Shutdown,
	})
	return mp, nil
}

func newMetricsServer(lc fx.Lifecycle, opts *serveOptions, reg *promclient.Registry, logger xlog.XLogger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s := &metricsServer{
		srv: &http.Server{
			Addr:              opts.listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", s.srv.Addr)
			if err != nil {
				return err
			}
			s.ln = ln
			go func() {
				if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error(err, "metrics server stopped")
				}
			}()
			logger.Info("serving metrics", zap.String("addr", s.Addr()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.srv.Shutdown(ctx)
		},
	})
	return s
}

func registerTreeStats[K infra.OrderedKey, V any](lc fx.Lifecycle, opts *serveOptions, mp *sdkmetric.MeterProvider, rbtree tree.RBTree[K, V]) error {
	if opts.runtime {
		if err := observability.StartRuntimeStats(mp); err != nil {
			return err
		}
	}
	reg, err := observability.RegisterRBTreeStats(mp.Meter("rbmap/tree"), opts.name, rbtree)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return reg.Unregister()
		},
	})
	return nil
}

func serveAppOptions(opts *serveOptions, logger xlog.XLogger, rbtree tree.RBTree[int64, int64]) []fx.Option {
	return []fx.Option{
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(opts),
		fx.Provide(
			func() xlog.XLogger { return logger },
			func() tree.RBTree[int64, int64] { return rbtree },
			newPromRegistry,
			newMeterProvider,
			newMetricsServer,
		),
		fx.Invoke(
			registerTreeStats[int64, int64],
			func(*metricsServer) {},
		),
	}
}
