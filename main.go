// funcatalog catalogs expression functions and finds the ones an
// expression uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phobologic/funcatalog/internal/builtin"
	"github.com/phobologic/funcatalog/internal/catalog"
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/config"
	"github.com/phobologic/funcatalog/internal/discover"
	"github.com/phobologic/funcatalog/internal/logging"
	"github.com/phobologic/funcatalog/internal/module"
	"github.com/phobologic/funcatalog/internal/scan"
	"github.com/phobologic/funcatalog/internal/source"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runContext(ctx, args, stdout, stderr)
}

func runContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if a.sources != nil {
		a.sources.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// app holds the components shared by the subcommands. They are built by
// setup once flags and configuration are known.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string

	cfg      *config.Config
	logger   *zap.Logger
	metrics  *prometheus.Registry
	sources  *source.Resolver
	catalog  *catalog.Catalog
	scanner  *scan.Scanner
	category *category.Resolver
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "funcatalog",
		Short:         "Catalog expression functions and find their use in expressions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./funcatalog.yaml, then $XDG_CONFIG_HOME/funcatalog/funcatalog.yaml)")
	pf.StringSlice("module", nil, "contributor module ids (comma-separated, repeatable)")
	pf.StringSlice("root", nil, "library source directories to scan for annotated functions")
	pf.StringSlice("lang", nil, "source languages to include (go, java)")
	pf.String("locale", "", "locale of category labels")
	pf.String("bundles", "", "directory with extra messages_<locale>.yaml category bundles")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console, json)")

	root.AddCommand(
		a.listCommand(),
		a.categoriesCommand(),
		a.describeCommand(),
		a.existsCommand(),
		a.modulesCommand(),
		a.scanCommand(),
		a.docsCommand(),
		a.watchCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Load(config.LoadOptions{File: a.configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("loaded config", zap.String("path", path))
	}
	a.cfg = cfg
	a.logger = logger

	a.metrics = prometheus.NewRegistry()
	a.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.sources = source.NewResolver(cfg.Roots, source.Options{
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger.Named("source"),
	})
	discoverer := discover.All{
		discover.Static(cfg.Modules),
		discover.Sources{Roots: cfg.Roots, Languages: cfg.Languages},
	}
	a.catalog = catalog.New(
		preloader{next: discoverer, sources: a.sources},
		module.Chain{builtin.Registry(), a.sources},
		catalog.Options{Logger: logger.Named("catalog"), Registerer: a.metrics},
	)

	a.scanner, err = scan.NewScanner(a.catalog, scan.Options{
		CacheSize:  cfg.Scan.CacheSize,
		Logger:     logger.Named("scan"),
		Registerer: a.metrics,
	})
	if err != nil {
		return err
	}

	opts := []category.Option{category.WithLogger(logger.Named("category"))}
	if cfg.Bundles != "" {
		opts = append(opts, category.WithDir(cfg.Bundles))
	}
	a.category, err = category.New(cfg.Locale, opts...)
	return err
}

// preloader parses the discovered source modules in parallel before the
// catalog resolves them one by one.
type preloader struct {
	next    discover.Discoverer
	sources *source.Resolver
}

func (p preloader) Discover(ctx context.Context) ([]string, error) {
	ids, err := p.next.Discover(ctx)
	p.sources.Preload(ctx, ids)
	return ids, err
}
