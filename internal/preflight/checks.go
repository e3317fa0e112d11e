package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"cardpress/internal/config"
	"cardpress/internal/deps"
)

// minStagingBytes is the free-space floor for the staging directory. Batch
// artifacts for a large duplex job can run to hundreds of megabytes.
const minStagingBytes = 1 << 30

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
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
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes
// available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}

	available := stat.Bavail * uint64(stat.Bsize)
	if available < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, %.1f GiB required)", path, gib(available), gib(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, gib(available))}
}

// CheckSystemDeps evaluates the external binaries cardpress shells out to.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Compositor",
			Command:     cfg.CompositorBinary(),
			Description: "Required for rendering card pages",
		},
	}
	return deps.CheckBinaries(requirements)
}

func gib(bytes uint64) float64 {
	return float64(bytes) / (1 << 30)
}
