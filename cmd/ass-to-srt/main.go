package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/thomaslty/ass-to-srt/internal/batch"
	"github.com/thomaslty/ass-to-srt/internal/client/apprise"
	"github.com/thomaslty/ass-to-srt/internal/config"
	"github.com/thomaslty/ass-to-srt/internal/converter"
	"github.com/thomaslty/ass-to-srt/internal/version"
	"github.com/thomaslty/ass-to-srt/pkg/logger"
)

const (
	exitOK    = 0
	exitFail  = 1 // one or more files failed to convert
	exitFatal = 2 // run aborted (missing input dir, bad config)
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("ass-to-srt", pflag.ContinueOnError)
	flags.String("input", "input", "input directory containing .ass/.ssa files")
	flags.String("output", "output", "output directory for .srt files")
	configPath := flags.String("config", "config.yaml", "path to config YAML file")
	showVersion := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitFatal
	}

	if *showVersion {
		fmt.Println("ass-to-srt", version.Version)
		return exitOK
	}

	// Initialize logger
	isDev := os.Getenv("ENV") != "production"
	logger.Init(isDev)
	defer logger.Sync()

	version.PrintBanner(nil)

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		logger.Errorf("❌ Config error: %v", err)
		return exitFatal
	}

	logger.Infof("📂 Input:  %s", cfg.Paths.Input)
	logger.Infof("📂 Output: %s", cfg.Paths.Output)
	if cfg.Apprise.Enabled {
		logger.Infof("🔔 Notifications: enabled (key=%s)", cfg.Apprise.Key)
	}

	// SIGINT/SIGTERM stop the batch before the next job starts; an in-flight
	// conversion is never interrupted mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(cfg, converter.New())

	summary, err := runner.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, batch.ErrInputDirNotFound):
			logger.Errorf("❌ Input directory does not exist: %s", cfg.Paths.Input)
		case errors.Is(err, context.Canceled):
			logger.Warnf("🛑 Interrupted after %d/%d file(s)", summary.Converted, summary.Total)
		default:
			logger.Errorf("❌ Batch error: %v", err)
		}
		return exitFatal
	}

	logger.Info(separator())
	logger.Infof("✅ Converted %d/%d file(s) in %v", summary.Converted, summary.Total, summary.Elapsed)
	for _, f := range summary.Failed {
		logger.Errorf("   ✗ %s: %s", f.File, f.Reason)
	}
	logger.Info(separator())

	if cfg.Apprise.Enabled {
		notifier := apprise.NewClient(cfg.Apprise)
		if err := notifier.NotifyRunSummary(summary); err != nil {
			logger.Warnf("⚠️ Notification failed: %v", err)
		}
	}

	if len(summary.Failed) > 0 {
		return exitFail
	}
	return exitOK
}

func separator() string {
	return "────────────────────────────────────────────────────────────"
}
