// Package preflight checks the filesystem state reelmatch depends on before
// a command does real work.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"reelmatch/internal/config"
)

// Result captures the outcome of a single check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
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
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckArtifactSource verifies a local artifact is a readable file. Remote
// sources pass here and are checked when fetched.
func CheckArtifactSource(name, source string) Result {
	if config.IsRemote(source) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (remote, fetched on load)", source)}
	}
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", source)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", source, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", source)}
	}
	if err := unix.Access(source, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", source, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", source, info.Size())}
}

// Run evaluates every filesystem check for cfg.
func Run(cfg *config.Config) []Result {
	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Artifact cache", cfg.Artifacts.CacheDir),
	}
	if cfg.UsesBundle() {
		return append(results, CheckArtifactSource("Bundle", cfg.Artifacts.Bundle))
	}
	return append(results,
		CheckArtifactSource("Catalog", cfg.Artifacts.Catalog),
		CheckArtifactSource("Similarity", cfg.Artifacts.Similarity),
	)
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
