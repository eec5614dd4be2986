package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

const (
	progressPrefix = "truthsaver-progress "
	filePrefix     = "truthsaver-file "
)

// Rendition is one downloadable format of a video.
type Rendition struct {
	FormatID string
	Height   int
	Ext      string
	HasAudio bool
}

func (r Rendition) String() string {
	return fmt.Sprintf("%s (%dp %s)", r.FormatID, r.Height, r.Ext)
}

// ProgressUpdate reports download progress in percent.
type ProgressUpdate struct {
	Percent float64
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a yt-dlp client. timeoutSeconds bounds each download; zero
// disables the bound.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type videoInfo struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Formats []formatInfo `json:"formats"`
}

type formatInfo struct {
	FormatID string `json:"format_id"`
	Height   *int   `json:"height"`
	Ext      string `json:"ext"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
}

// Renditions probes link and returns its video renditions in the order
// yt-dlp lists them. Audio-only formats are dropped.
func (c *Client) Renditions(ctx context.Context, link string) ([]Rendition, error) {
	args := []string{"--dump-single-json", "--no-playlist", "--no-warnings", link}
	var out strings.Builder
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		out.WriteString(line)
		out.WriteByte('\n')
	}); err != nil {
		return nil, classify(ctx, "probe", err)
	}

	var info videoInfo
	if err := json.Unmarshal([]byte(out.String()), &info); err != nil {
		return nil, services.Wrap(services.ErrBadVideo, "ytdlp", "probe", "unreadable metadata", fmt.Errorf("%w: %w", ErrExtraction, err))
	}
	renditions := make([]Rendition, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f.Height == nil || *f.Height <= 0 || f.VCodec == "none" {
			continue
		}
		renditions = append(renditions, Rendition{
			FormatID: f.FormatID,
			Height:   *f.Height,
			Ext:      f.Ext,
			HasAudio: f.ACodec != "" && f.ACodec != "none",
		})
	}
	return renditions, nil
}

// Select picks the tallest rendition, or the shortest when lowQuality is
// set. Among equal heights a rendition carrying audio wins, then the later
// listed one.
func Select(renditions []Rendition, lowQuality bool) (Rendition, error) {
	if len(renditions) == 0 {
		return Rendition{}, services.Wrap(services.ErrBadVideo, "ytdlp", "select", "", ErrNoRendition)
	}
	ordered := make([]Rendition, len(renditions))
	copy(ordered, renditions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Height != ordered[j].Height {
			if lowQuality {
				return ordered[i].Height < ordered[j].Height
			}
			return ordered[i].Height > ordered[j].Height
		}
		return ordered[i].HasAudio && !ordered[j].HasAudio
	})
	best := ordered[0]
	for _, candidate := range ordered[1:] {
		if candidate.Height != best.Height || candidate.HasAudio != best.HasAudio {
			break
		}
		best = candidate
	}
	return best, nil
}

// Download fetches rendition of link into dir as filename plus the
// extension yt-dlp chooses, and returns the written path. dir is created
// when missing.
func (c *Client) Download(ctx context.Context, link string, rendition Rendition, dir, filename string, progress func(ProgressUpdate)) (string, error) {
	if dir == "" || filename == "" {
		return "", errors.New("download target required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrLocalIO, "ytdlp", "download", "create target directory", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	format := rendition.FormatID
	if !rendition.HasAudio {
		format = rendition.FormatID + "+bestaudio/" + rendition.FormatID
	}
	args := []string{
		"--no-playlist",
		"--no-continue",
		"--newline",
		"--progress",
		"--progress-template", "download:" + progressPrefix + "%(progress._percent_str)s",
		"--print", "after_move:" + filePrefix + "%(filepath)s",
		"-f", format,
		"-o", filepath.Join(dir, filename) + ".%(ext)s",
		link,
	}

	var written string
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		switch {
		case strings.HasPrefix(line, filePrefix):
			written = strings.TrimSpace(strings.TrimPrefix(line, filePrefix))
		case strings.HasPrefix(line, progressPrefix):
			if progress == nil {
				return
			}
			if update, ok := parseProgress(line); ok {
				progress(update)
			}
		}
	})
	if err != nil {
		return "", classify(runCtx, "download", err)
	}
	if written == "" {
		matches, globErr := filepath.Glob(filepath.Join(dir, filename) + ".*")
		if globErr != nil || len(matches) == 0 {
			return "", services.Wrap(services.ErrLocalIO, "ytdlp", "download", "yt-dlp reported no output file", nil)
		}
		written = matches[0]
	}
	return written, nil
}

func parseProgress(line string) (ProgressUpdate, bool) {
	value := strings.TrimSpace(strings.TrimPrefix(line, progressPrefix))
	value = strings.TrimSuffix(value, "%")
	percent, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Percent: percent}, true
}
