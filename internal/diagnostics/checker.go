package diagnostics

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"fotosorter/internal/domain"
	"fotosorter/internal/library"
)

const (
	CheckSourceDir = "source_dir"
	CheckDestDir   = "dest_dir"
)

// Checker validates the directories a session reads from and writes to.
type Checker struct {
	stat       func(string) (os.FileInfo, error)
	readDir    func(string) ([]os.DirEntry, error)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{
		stat:       os.Stat,
		readDir:    os.ReadDir,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

// Run executes all preflight checks and returns a combined report.
func (c *Checker) Run(sourceDir, destDir string) domain.CheckReport {
	items := []domain.CheckItem{
		c.checkSourceDir(sourceDir),
		c.checkDestDir(destDir),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.CheckStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.CheckReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkSourceDir validates the source folder exists and holds images.
func (c *Checker) checkSourceDir(sourceDir string) domain.CheckItem {
	item := domain.CheckItem{
		ID:   CheckSourceDir,
		Name: "Source folder",
	}

	if strings.TrimSpace(sourceDir) == "" {
		item.Status = domain.CheckStatusFail
		item.Message = "No source folder selected."
		item.Hint = "Select the folder with pictures to sort."
		return item
	}

	info, err := c.stat(sourceDir)
	if err != nil {
		item.Status = domain.CheckStatusFail
		if errors.Is(err, os.ErrNotExist) {
			item.Message = fmt.Sprintf("Source folder does not exist: %s", sourceDir)
		} else {
			item.Message = fmt.Sprintf("Cannot access source folder: %s", sourceDir)
		}
		item.Hint = "Pick an existing folder."
		return item
	}
	if !info.IsDir() {
		item.Status = domain.CheckStatusFail
		item.Message = fmt.Sprintf("Source path is not a folder: %s", sourceDir)
		item.Hint = "Pick the folder that contains the pictures, not a single file."
		return item
	}

	entries, err := c.readDir(sourceDir)
	if err != nil {
		item.Status = domain.CheckStatusFail
		item.Message = fmt.Sprintf("Cannot read source folder: %s", sourceDir)
		item.Hint = "Check permissions for the source folder."
		return item
	}

	count := library.CountSupported(entries)
	if count == 0 {
		item.Status = domain.CheckStatusFail
		item.Message = fmt.Sprintf("No supported images in: %s", sourceDir)
		item.Hint = "Supported extensions: " + strings.Join(library.Extensions(), ", ")
		return item
	}

	item.Status = domain.CheckStatusPass
	item.Message = fmt.Sprintf("%d images found in %s", count, sourceDir)
	return item
}

// checkDestDir validates destination folder existence and write access.
func (c *Checker) checkDestDir(destDir string) domain.CheckItem {
	item := domain.CheckItem{
		ID:   CheckDestDir,
		Name: "Destination folder",
	}

	if strings.TrimSpace(destDir) == "" {
		item.Status = domain.CheckStatusFail
		item.Message = "No destination folder selected."
		item.Hint = "Select where the category folders should be created."
		return item
	}

	if err := c.mkdirAll(destDir, 0o755); err != nil {
		item.Status = domain.CheckStatusFail
		item.Message = fmt.Sprintf("Cannot create destination folder: %s", destDir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(destDir, ".write-check-*")
	if err != nil {
		item.Status = domain.CheckStatusFail
		item.Message = fmt.Sprintf("Destination folder is not writable: %s", destDir)
		item.Hint = "Choose a writable folder for the sorted pictures."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.CheckStatusPass
	item.Message = fmt.Sprintf("Writable folder: %s", destDir)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	stat func(string) (os.FileInfo, error),
	readDir func(string) ([]os.DirEntry, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		stat:       stat,
		readDir:    readDir,
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
	}
}
