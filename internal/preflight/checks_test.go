package preflight_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelmatch/internal/preflight"
	"reelmatch/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if r := preflight.CheckDirectoryAccess("dir", dir); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}

	missing := filepath.Join(dir, "missing")
	if r := preflight.CheckDirectoryAccess("dir", missing); r.Passed || !strings.Contains(r.Detail, "does not exist") {
		t.Fatalf("expected missing failure, got %+v", r)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if r := preflight.CheckDirectoryAccess("dir", file); r.Passed || !strings.Contains(r.Detail, "not a directory") {
		t.Fatalf("expected not-a-directory failure, got %+v", r)
	}
}

func TestCheckArtifactSource(t *testing.T) {
	if r := preflight.CheckArtifactSource("remote", "https://example.com/movies.json"); !r.Passed {
		t.Fatalf("expected remote source to pass, got %+v", r)
	}
	if r := preflight.CheckArtifactSource("dir", t.TempDir()); r.Passed {
		t.Fatalf("expected directory to fail, got %+v", r)
	}
}

func TestRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithArtifacts(testsupport.GreekTitles, testsupport.GreekRows))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := preflight.Run(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := preflight.Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}

	cfg.Artifacts.Similarity = filepath.Join(testsupport.BaseDir(cfg), "nope.npy")
	failed := preflight.Failed(preflight.Run(cfg))
	if len(failed) != 1 || failed[0].Name != "Similarity" {
		t.Fatalf("expected similarity failure, got %+v", failed)
	}
}
