package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
	"github.com/WodahsReklaw/TruthSaver/internal/deps"
)

const rankingsCheckTimeout = 10 * time.Second

// CheckRankings verifies the rankings site answers at baseURL. A single
// attempt is made; the passes themselves retry.
func CheckRankings(ctx context.Context, baseURL, userAgent string) Result {
	const name = "Rankings site"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, rankingsCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	client := &http.Client{Timeout: rankingsCheckTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	}
	return Result{Name: name, Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckSystemDeps evaluates the external binaries the download phase needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.DownloadRequirements(cfg.Download.YtdlpBinary))
	return append(statuses, deps.CheckFFmpegForYtdlp(cfg.Download.YtdlpBinary))
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out (site unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out (site unreachable)"
	}
	return fmt.Sprintf("request failed (%v)", err)
}
