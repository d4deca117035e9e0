package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ReviewFeeds/internal/app"
	"ReviewFeeds/internal/config"
	"ReviewFeeds/internal/logging"
	"ReviewFeeds/internal/usecase"
)

type rootFlags struct {
	configPath string
	limit      int
	clearCache bool
	interval   string
	noPublish  bool
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:           "reviewfeeds",
		Short:         "Turn a Letterboxd review feed into per-platform Atom feeds",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	fs := rootCmd.Flags()
	fs.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	fs.IntVar(&flags.limit, "limit", 0, "Process only the newest N entries and ignore the processed cache")
	fs.BoolVar(&flags.clearCache, "clear-cache", false, "Delete the processed cache before running")
	fs.StringVar(&flags.interval, "interval", "", "Repeat the run at this interval (e.g. 30m); overrides scheduler.interval")
	fs.BoolVar(&flags.noPublish, "no-publish", false, "Write feeds but skip the git publish step")
	fs.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}

func run(cmd *cobra.Command, flags rootFlags) error {
	if flags.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	cfg := config.Load(flags.configPath)
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.interval != "" {
		cfg.Scheduler.Interval = flags.interval
	}
	interval, err := cfg.Scheduler.IntervalDuration()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx := cmd.Context()

	application, err := app.New(ctx, cfg, app.Options{NoPublish: flags.noPublish}, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}()

	opts := usecase.RunOptions{Limit: flags.limit, ClearState: flags.clearCache}
	if interval > 0 {
		if err := application.Serve(ctx, opts, interval); err != nil {
			logger.Error("application stopped", "error", err)
			return err
		}
		return nil
	}

	start := time.Now()
	report, err := application.Run(ctx, opts)
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}
	logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond).String())
	fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
	return nil
}
