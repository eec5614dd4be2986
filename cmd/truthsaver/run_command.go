package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
	"github.com/WodahsReklaw/TruthSaver/internal/download"
	"github.com/WodahsReklaw/TruthSaver/internal/fetch"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/preflight"
	"github.com/WodahsReklaw/TruthSaver/internal/progress"
	"github.com/WodahsReklaw/TruthSaver/internal/scrape"
	"github.com/WodahsReklaw/TruthSaver/internal/services/ytdlp"
	"github.com/WodahsReklaw/TruthSaver/internal/store"
	"github.com/WodahsReklaw/TruthSaver/internal/videolink"
	"github.com/WodahsReklaw/TruthSaver/internal/workflow"
)

type runFlags struct {
	updateOnly   bool
	downloadOnly bool
	tryAll       bool
	lowQuality   bool
	newDownloads string
}

func bindRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().BoolVar(&flags.updateOnly, "update-only", false, "Only refresh the store from the rankings site")
	cmd.Flags().BoolVar(&flags.downloadOnly, "download-only", false, "Only download videos for stored entries")
	bindDownloadFlags(cmd, flags)
	cmd.MarkFlagsMutuallyExclusive("update-only", "download-only")
}

func bindDownloadFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().BoolVar(&flags.tryAll, "try-all", false, "Retry entries previously marked bad_link or bad_video")
	cmd.Flags().BoolVar(&flags.lowQuality, "low-quality", false, "Download the smallest rendition instead of the largest")
	cmd.Flags().StringVar(&flags.newDownloads, "new-downloads", "", "Append the paths of videos downloaded in this run to this file")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Update the store, then download pending videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, ctx, flags)
		},
	}
	bindRunFlags(cmd, &flags)
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Scrape every stage and record unseen times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, ctx, runFlags{updateOnly: true})
		},
	}
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download videos for stored entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.downloadOnly = true
			return runWorkflow(cmd, ctx, flags)
		},
	}
	bindDownloadFlags(cmd, &flags)
	return cmd
}

func runWorkflow(cmd *cobra.Command, ctx *commandContext, flags runFlags) (err error) {
	if flags.updateOnly && flags.downloadOnly {
		return errors.New("--update-only and --download-only cannot be combined")
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	phases := preflight.Phases{Update: !flags.downloadOnly, Download: !flags.updateOnly}
	if err := checkPreflight(cmd, cfg, phases, logger); err != nil {
		return err
	}

	newDownloads := cfg.Paths.NewDownloadsPath
	if value := strings.TrimSpace(flags.newDownloads); value != "" {
		if newDownloads, err = config.ExpandPath(value); err != nil {
			return fmt.Errorf("--new-downloads: %w", err)
		}
	}

	s, err := ctx.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
		}
	}()

	client, err := ctx.fetchClient()
	if err != nil {
		return err
	}

	var downloader workflow.Downloader
	if phases.Download {
		manager, err := newDownloadManager(cfg, s, client, flags, newDownloads, logger)
		if err != nil {
			return err
		}
		downloader = manager
	}

	stageBar := progress.ForStderr("Updating")
	mgr := workflow.New(s, scrape.New(client, cfg.Rankings.BaseURL, logger), downloader, workflow.Options{
		OnStage: stageBar.Stage,
		Logger:  logger,
	})
	report, runErr := mgr.Run(cmd.Context(), workflow.RunOptions{
		UpdateOnly:   flags.updateOnly,
		DownloadOnly: flags.downloadOnly,
	})
	printReport(cmd.OutOrStdout(), report)
	notifyRun(cmd.Context(), cfg, report, runErr, logger)
	return runErr
}

func newDownloadManager(cfg *config.Config, s *store.Store, client *fetch.Client, flags runFlags, newDownloads string, logger *slog.Logger) (*download.Manager, error) {
	ytClient, err := ytdlp.New(cfg.Download.YtdlpBinary, cfg.Download.Timeout)
	if err != nil {
		return nil, err
	}
	policy := fetch.DefaultPolicy()
	policy.Attempts = cfg.Rankings.RetryAttempts
	policy.BaseDelay = cfg.RetryBaseDelay()
	fetcher := ytdlp.NewFetcher(ytClient, ytdlp.FetcherOptions{
		LowQuality: flags.lowQuality || cfg.Download.LowQuality,
		Policy:     policy,
		Logger:     logger,
	})
	return download.New(s, videolink.New(client, logger), fetcher, download.Options{
		VideoRoot:        cfg.Paths.VideoDir,
		TryAll:           flags.tryAll || cfg.Download.TryAll,
		NewDownloadsPath: newDownloads,
		CheckpointEvery:  cfg.Download.CheckpointEvery,
		Progress:         progress.ForStderr("Downloading"),
		Logger:           logger,
	})
}

// checkPreflight logs optional failures and refuses to start when a required
// check fails.
func checkPreflight(cmd *cobra.Command, cfg *config.Config, phases preflight.Phases, logger *slog.Logger) error {
	results := preflight.RunAll(cmd.Context(), cfg, phases)
	for _, result := range results {
		if result.Passed || !result.Optional {
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_warning",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
	failed := preflight.Failures(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}

func printReport(out io.Writer, report workflow.Report) {
	if update := report.Update; update != nil {
		fmt.Fprintf(out, "Update: %d times observed, %d added, %d stored\n", update.Observed, update.Added, update.Total)
		if len(update.FailedStages) > 0 {
			fmt.Fprintf(out, "Failed stages: %s\n", strings.Join(update.FailedStages, ", "))
		}
	}
	if summary := report.Download; summary != nil {
		fmt.Fprintf(out, "Download: %d eligible, %d downloaded, %d bad links, %d bad videos, %d deferred\n",
			summary.Eligible, summary.Downloaded, summary.BadLink, summary.BadVideo, summary.Deferred)
	}
}
