package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"fotosorter/internal/domain"
)

// ErrNoImages is returned when the source folder holds no supported image.
var ErrNoImages = errors.New("no supported images found in the selected folder")

var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// IsSupported reports whether name has a recognized image extension.
func IsSupported(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Extensions returns the recognized extensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(supportedExts))
	for ext := range supportedExts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Scanner lists candidate images in a single directory.
type Scanner struct {
	readDir func(string) ([]os.DirEntry, error)
	newID   func() string
}

// NewScanner builds a scanner backed by the real filesystem.
func NewScanner() *Scanner {
	return &Scanner{
		readDir: os.ReadDir,
		newID:   uuid.NewString,
	}
}

// Scan returns one record per supported file directly inside dir. Sub
// directories are not visited. Records come back in listing order; the
// sorter shuffles them.
func (s *Scanner) Scan(dir string) ([]domain.ImageRecord, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("source directory is required")
	}

	entries, err := s.readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var records []domain.ImageRecord
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		records = append(records, domain.ImageRecord{
			ID:   s.newID(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoImages
	}
	return records, nil
}

// CountSupported returns how many entries are supported image files.
func CountSupported(entries []os.DirEntry) int {
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && IsSupported(entry.Name()) {
			n++
		}
	}
	return n
}

// NewScannerForTests creates a scanner with injectable dependencies.
func NewScannerForTests(readDir func(string) ([]os.DirEntry, error), newID func() string) *Scanner {
	return &Scanner{
		readDir: readDir,
		newID:   newID,
	}
}
