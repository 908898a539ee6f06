// Command netdesign-replay plays a scripted editing session against a network
// design and prints the undo/redo timeline after every step.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"netdesign/infrastructure/config"
	"netdesign/infrastructure/di"
	"netdesign/infrastructure/logging"
	"netdesign/interfaces/cli/replay"
)

type options struct {
	configDir   string
	environment string
	script      string
	audit       string
	metrics     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(opts.configDir, config.ParseEnvironment(opts.environment))
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	logger := container.Logger
	defer func() { _ = logger.Sync() }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := container.Tracing.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	logger.Info("Configuration loaded",
		zap.Strings("sources", cfg.LoadedFrom),
		zap.Int("historySize", cfg.History.MaxSize),
		zap.String("backupSource", cfg.History.BackupSource),
	)
	if !cfg.HistoryEnabled() {
		logger.Warn("History is disabled; undo and redo will do nothing", zap.Int("historySize", cfg.History.MaxSize))
	}

	watcher, err := config.NewWatcher(loader, cfg, logger)
	if err != nil {
		logger.Warn("Configuration hot reload unavailable", zap.Error(err))
	} else {
		watcher.OnChange(logging.FollowConfig(container.Level, logger))
		defer watcher.Stop()
	}

	script, err := replay.LoadScript(opts.script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.audit != "" {
		f, err := os.OpenFile(opts.audit, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open audit log: %v\n", err)
			return 1
		}
		defer f.Close()
		replay.RegisterAudit(container.Hooks, f, logger)
	}

	runner := replay.NewRunner(container.Editor, os.Stdout, logger)
	if err := runner.Run(ctx, script); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.metrics {
		fmt.Fprintln(os.Stdout)
		if err := container.Metrics.WriteText(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write metrics: %v\n", err)
			return 1
		}
	}
	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configDir, "config", "config", "Configuration directory")
	flag.StringVar(&opts.configDir, "c", "config", "Configuration directory (shorthand)")
	flag.StringVar(&opts.environment, "env", os.Getenv(config.EnvEnvironment), "Environment (development, staging, production, test)")
	flag.StringVar(&opts.audit, "audit", "", "Append a JSON line per history operation to this file")
	flag.BoolVar(&opts.metrics, "metrics", false, "Print collected metrics after the run")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "netdesign-replay - replay an editing script and show the undo/redo timeline\n\n")
		fmt.Fprintf(os.Stderr, "Usage: netdesign-replay [options] script.yaml\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nTimeline legend: '*' marks the cursor, 'b' a snapshot restored from a navigation backup.\n")
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.script = flag.Arg(0)
	return opts
}
