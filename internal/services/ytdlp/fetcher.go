package ytdlp

import (
	"context"
	"log/slog"

	"github.com/WodahsReklaw/TruthSaver/internal/fetch"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

// Fetcher probes, selects and downloads a video in one call, retrying
// transient failures.
type Fetcher struct {
	client     *Client
	policy     fetch.Policy
	lowQuality bool
	logger     *slog.Logger
	sampler    *logging.ProgressSampler
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	LowQuality bool
	Policy     fetch.Policy
	Logger     *slog.Logger
}

// NewFetcher wraps client. A zero policy falls back to fetch.DefaultPolicy.
func NewFetcher(client *Client, opts FetcherOptions) *Fetcher {
	policy := opts.Policy
	if policy.Attempts <= 0 {
		policy = fetch.DefaultPolicy()
	}
	policy.Retryable = IsTransient
	return &Fetcher{
		client:     client,
		policy:     policy,
		lowQuality: opts.LowQuality,
		logger:     logging.NewComponentLogger(opts.Logger, "ytdlp"),
		sampler:    logging.NewProgressSampler(25),
	}
}

// Fetch downloads link into dir/filename.<ext> and returns the written path.
func (f *Fetcher) Fetch(ctx context.Context, link, dir, filename string) (string, error) {
	logger := logging.WithContext(ctx, f.logger)

	renditions, err := fetch.Retry(ctx, f.policy, func(ctx context.Context) ([]Rendition, error) {
		return f.client.Renditions(ctx, link)
	})
	if err != nil {
		return "", err
	}
	rendition, err := Select(renditions, f.lowQuality)
	if err != nil {
		return "", err
	}
	logger.Info("downloading video",
		logging.String("link", link),
		logging.String("rendition", rendition.String()),
		logging.Bool("low_quality", f.lowQuality),
	)

	f.sampler.Reset()
	path, err := fetch.Retry(ctx, f.policy, func(ctx context.Context) (string, error) {
		return f.client.Download(ctx, link, rendition, dir, filename, func(update ProgressUpdate) {
			if f.sampler.ShouldLog(update.Percent, filename) {
				logger.Debug("download progress",
					logging.String("file", filename),
					logging.Int("percent", int(update.Percent)),
				)
			}
		})
	})
	if err != nil {
		if _, classified := services.FailureStatus(err); !classified {
			logging.WarnWithContext(logger, "video download deferred", "download_deferred",
				logging.Error(err),
				logging.String("link", link),
				logging.String(logging.FieldErrorHint, "check disk space, permissions and network, then re-run download"),
				logging.String(logging.FieldImpact, "entry keeps its status and is retried next run"),
			)
		}
		return "", err
	}
	return path, nil
}
