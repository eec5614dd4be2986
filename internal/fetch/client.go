package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/WodahsReklaw/TruthSaver/internal/logging"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "truthsaver/dev"
	maxBodyBytes       = 32 << 20
)

// ErrFetch marks every transport failure returned by Client.
var ErrFetch = errors.New("fetch failed")

// Error describes a failed GET: either a non-2xx status or a transport error.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrFetch.
func (e *Error) Is(target error) bool { return target == ErrFetch }

// Getter is the page retrieval behaviour the scrapers and resolver need.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	Policy     Policy
	Logger     *slog.Logger
}

// Client issues GET requests with retry.
type Client struct {
	http      *http.Client
	userAgent string
	policy    Policy
	logger    *slog.Logger
}

// New constructs a Client. Zero-valued options fall back to defaults.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	policy := opts.Policy
	if policy.Attempts <= 0 {
		policy = DefaultPolicy()
	}
	return &Client{
		http:      httpClient,
		userAgent: userAgent,
		policy:    policy,
		logger:    logging.NewComponentLogger(opts.Logger, "fetch"),
	}
}

// Get fetches url and returns the body of the first 2xx response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	attempt := 0
	return Retry(ctx, c.policy, func(ctx context.Context) ([]byte, error) {
		attempt++
		body, err := c.getOnce(ctx, url)
		if err != nil {
			c.logger.Debug("fetch attempt failed",
				logging.String("url", url),
				logging.Int("attempt", attempt),
				logging.Error(err),
			)
		}
		return body, err
	})
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &Error{URL: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}
