package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phobologic/funcatalog/internal/catalog"
	"github.com/phobologic/funcatalog/internal/watch"
)

func (a *app) watchCommand() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the catalog whenever library sources change",
		Long: "Watch the configured source roots and rebuild the catalog after each burst of\n" +
			"changes to annotated source files. Runs until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.Roots) == 0 {
				return errors.New("no source roots to watch (set roots or --root)")
			}
			ctx := cmd.Context()

			if metricsAddr != "" {
				stop, err := a.serveMetrics(metricsAddr)
				if err != nil {
					return err
				}
				defer stop()
			}

			w, err := watch.New(watch.Config{
				Roots:    a.cfg.Roots,
				Patterns: watch.Patterns(a.cfg.Languages),
				Debounce: a.cfg.Watch.Debounce,
				Logger:   a.logger.Named("watch"),
				OnChange: func(ctx context.Context, changed []string) error {
					a.logger.Info("rebuilding catalog", zap.Int("changed", len(changed)))
					a.scanner.Purge()
					a.report(a.catalog.Rebuild(ctx))
					return nil
				},
			})
			if err != nil {
				return err
			}

			a.report(a.catalog.Snapshot(ctx))
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet period before rebuilding")
	return cmd
}

func (a *app) report(snap *catalog.Snapshot) {
	a.logger.Debug("catalog built",
		zap.String("id", snap.ID()),
		zap.Duration("age", time.Since(snap.BuiltAt())))
	_, _ = fmt.Fprintf(a.stdout, "catalog %s: %d functions from %d modules, %d warnings\n",
		snap.ID(), len(snap.AllFunctions()), len(snap.Modules()), len(snap.Warnings()))
}

// serveMetrics exposes the metrics registry over HTTP until the returned
// function is called.
func (a *app) serveMetrics(addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
