package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/audit"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/codec"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/journal"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/driver"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/server"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/shared/id"
)

type options struct {
	workers     int
	ops         []string
	path        string
	noSeed      bool
	serve       bool
	codec       string
	jsonOutput  bool
	journalPath string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("fileops", pflag.ContinueOnError)
	flagSet.IntVarP(&opts.workers, "workers", "n", 0, "number of workers (prompted when 0)")
	flagSet.StringSliceVarP(&opts.ops, "ops", "o", nil, "operation per worker, by number (1-8) or name; a single value applies to all")
	flagSet.StringVarP(&opts.path, "path", "p", driver.DefaultPath, "shared file, or a ** glob of files")
	flagSet.BoolVar(&opts.noSeed, "no-seed", false, "do not create the shared file before starting")
	flagSet.BoolVar(&opts.serve, "serve", false, "serve the HTTP API until interrupted")
	flagSet.StringVar(&opts.codec, "codec", "", "compression codec, overrides FILEOPS_CODEC")
	flagSet.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	flagSet.StringVar(&opts.journalPath, "journal", "", "append one line per worker result to this file")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.codec != "" {
		cfg.Executor.Codec = opts.codec
	}
	if opts.serve {
		cfg.Server.Enabled = true
	}

	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Sync()

	// Metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(promReg)

	exec, reg, err := buildExecutor(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	jrnl := journal.New()

	if cfg.Server.Enabled {
		srv, err := server.NewServer(server.Deps{
			Config:   cfg,
			Executor: exec,
			Journal:  jrnl,
			Metrics:  metrics,
			Gatherer: promReg,
			Logger:   logger.Named("http"),
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	// A server started without a workload just serves
	if !cfg.Server.Enabled || opts.workers > 0 || len(opts.ops) > 0 {
		if err := workload(gctx, exec, jrnl, cfg, opts, stdin, stdout); err != nil {
			stop()
			_ = g.Wait()
			return err
		}
	}

	if cfg.Server.Enabled {
		fmt.Fprintf(stdout, "Serving on %s, press Ctrl+C to stop.\n", cfg.Server.Addr())
	} else {
		stop()
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}

func buildExecutor(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (*executor.Executor, *registry.Manager, error) {
	reg, err := registry.New(cfg.Registry.Capacity)
	if err != nil {
		return nil, nil, err
	}

	c, err := codec.Lookup(cfg.Executor.Codec)
	if err != nil {
		return nil, nil, err
	}

	auditLog := audit.New(cfg.Audit.Path).WithErrorHandler(func(err error) {
		metrics.IncAuditFailures()
		logger.Warn("Audit write failed", zap.String("path", cfg.Audit.Path), zap.Error(err))
	})

	exec := executor.New(reg, auditLog).
		WithCodec(c).
		WithChunkSize(cfg.Executor.ChunkSize).
		WithFileMode(cfg.Executor.FileMode).
		WithAtomicTransfers(cfg.Executor.AtomicTransfers).
		WithLogger(logger.Named("executor")).
		WithMetrics(metrics)

	return exec, reg, nil
}

func workload(ctx context.Context, exec *executor.Executor, jrnl *journal.Journal, cfg *config.Config, opts options, stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)

	workers := opts.workers
	if workers == 0 && len(opts.ops) > 1 {
		workers = len(opts.ops)
	}
	if workers == 0 {
		n, err := promptWorkers(scanner, stdout)
		if err != nil {
			return err
		}
		workers = n
	}
	if workers <= 0 {
		return errors.New("invalid number of workers")
	}

	ops, err := resolveOps(scanner, stdout, workers, opts.ops)
	if err != nil {
		return err
	}

	paths, err := driver.Expand(ctx, opts.path)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %s", opts.path)
	}

	if !opts.noSeed && !driver.IsPattern(opts.path) {
		if err := exec.Write(opts.path, []byte(driver.SeedContent)); err != nil {
			return fmt.Errorf("seed %s: %w", opts.path, err)
		}
		fmt.Fprintf(stdout, "Created initial test file: %s\n", opts.path)
	}

	plans := buildPlans(paths, ops)
	runID := id.NewRunID()

	fmt.Fprintln(stdout, "\nStarting workers...")
	out := stdout
	if opts.jsonOutput {
		out = io.Discard
	}
	results, err := driver.Run(ctx, exec, plans, out)
	if err != nil {
		return err
	}

	if opts.journalPath != "" {
		for _, r := range results {
			if err := jrnl.Append(opts.journalPath, journalLine(runID, r)); err != nil {
				return err
			}
		}
	}

	if opts.jsonOutput {
		return writeJSON(stdout, runID, results)
	}

	ok, failed := driver.Summary(results)
	fmt.Fprintf(stdout, "\nAll workers completed: %d succeeded, %d failed.\n", ok, failed)
	fmt.Fprintf(stdout, "Check %s for detailed operation history.\n", cfg.Audit.Path)
	return nil
}

// buildPlans runs the worker set against every path, numbering workers
// across the whole run.
func buildPlans(paths []string, ops []executor.Op) []driver.Plan {
	plans := make([]driver.Plan, 0, len(paths)*len(ops))
	for _, path := range paths {
		for _, plan := range driver.Plans(path, ops) {
			plan.Worker = len(plans) + 1
			plans = append(plans, plan)
		}
	}
	return plans
}
