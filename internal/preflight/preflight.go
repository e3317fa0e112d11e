package preflight

import (
	"context"

	"cardpress/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. Exports write
// staged batches and the final deliverable, so both directories must be
// usable before any rendering starts.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckFreeSpace("Staging free space", cfg.Paths.StagingDir, minStagingBytes),
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		if status.Optional && !status.Available {
			result.Passed = true
		}
		results = append(results, result)
	}
	return results
}

// Passed reports whether every check succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
