package diagnostics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fotosorter/internal/domain"
)

func newRealChecker() *Checker {
	return NewCheckerForTests(os.Stat, os.ReadDir, os.MkdirAll, os.CreateTemp, os.Remove)
}

// TestCheckerRunAllPass validates happy-path preflight report.
func TestCheckerRunAllPass(t *testing.T) {
	root := t.TempDir()
	sourceDir := filepath.Join(root, "inbox")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	for _, name := range []string{"a.jpg", "b.PNG"} {
		if err := os.WriteFile(filepath.Join(sourceDir, name), []byte("img"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	report := newRealChecker().Run(sourceDir, filepath.Join(root, "sorted"))
	if report.HasFailures {
		t.Fatalf("expected no failures, got %+v", report.Items)
	}

	item := itemByID(t, report, CheckSourceDir)
	if !strings.HasPrefix(item.Message, "2 images") {
		t.Fatalf("source message = %q", item.Message)
	}
	if _, err := os.Stat(filepath.Join(root, "sorted")); err != nil {
		t.Fatalf("destination not created: %v", err)
	}
}

// TestCheckerRunMissingPaths validates failure reporting.
func TestCheckerRunMissingPaths(t *testing.T) {
	report := newRealChecker().Run("", "")

	if !report.HasFailures {
		t.Fatal("expected failures")
	}
	assertStatusByID(t, report, CheckSourceDir, domain.CheckStatusFail)
	assertStatusByID(t, report, CheckDestDir, domain.CheckStatusFail)

	first, ok := report.FirstFailure()
	if !ok || first.ID != CheckSourceDir {
		t.Fatalf("first failure = %+v", first)
	}
}

// TestCheckerRunSourceWithoutImagesFails validates the empty-folder notice.
func TestCheckerRunSourceWithoutImagesFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "README.txt"), []byte("no images"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	report := newRealChecker().Run(root, filepath.Join(root, "out"))
	assertStatusByID(t, report, CheckSourceDir, domain.CheckStatusFail)
	assertStatusByID(t, report, CheckDestDir, domain.CheckStatusPass)
}

// TestCheckerRunSourceIsFile rejects a file selected as source.
func TestCheckerRunSourceIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "photo.jpg")
	if err := os.WriteFile(file, []byte("img"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report := newRealChecker().Run(file, root)
	assertStatusByID(t, report, CheckSourceDir, domain.CheckStatusFail)
}

// TestCheckerRunUnwritableDestination validates the write probe.
func TestCheckerRunUnwritableDestination(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.gif"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	checker := NewCheckerForTests(
		os.Stat,
		os.ReadDir,
		os.MkdirAll,
		func(string, string) (*os.File, error) { return nil, errors.New("read-only file system") },
		os.Remove,
	)
	report := checker.Run(root, filepath.Join(root, "out"))

	assertStatusByID(t, report, CheckSourceDir, domain.CheckStatusPass)
	assertStatusByID(t, report, CheckDestDir, domain.CheckStatusFail)
}

func itemByID(t *testing.T, report domain.CheckReport, id string) domain.CheckItem {
	t.Helper()
	for _, item := range report.Items {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("check item not found: %s", id)
	return domain.CheckItem{}
}

// assertStatusByID checks status for one check item by ID.
func assertStatusByID(t *testing.T, report domain.CheckReport, id string, want domain.CheckStatus) {
	t.Helper()
	if got := itemByID(t, report, id).Status; got != want {
		t.Fatalf("item %s: got %s, want %s", id, got, want)
	}
}
