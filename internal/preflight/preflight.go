package preflight

import (
	"context"
	"path/filepath"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
	"github.com/WodahsReklaw/TruthSaver/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Phases selects which checks apply.
type Phases struct {
	Update   bool
	Download bool
}

// RunAll executes the checks that apply to the selected phases.
func RunAll(ctx context.Context, cfg *config.Config, phases Phases) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Store directory", filepath.Dir(cfg.Paths.StorePath)),
	}
	if phases.Update {
		// An unreachable site only warns: the update pass records failed
		// stages and keeps going.
		rankings := CheckRankings(ctx, cfg.Rankings.BaseURL, cfg.Rankings.UserAgent)
		rankings.Optional = true
		results = append(results, rankings)
	}
	if phases.Download {
		results = append(results, CheckDirectoryAccess("Video directory", cfg.Paths.VideoDir))
		for _, status := range CheckSystemDeps(cfg) {
			results = append(results, resultFromStatus(status))
		}
	}
	return results
}

// Failures returns the failed checks that are not optional.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}

func resultFromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Command
	}
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Optional: status.Optional,
		Detail:   detail,
	}
}
