package mover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fotosorter/internal/domain"
)

// ErrDestinationExists is returned instead of overwriting a file in the target folder.
var ErrDestinationExists = errors.New("destination file already exists")

// Request describes one batch move of processed records.
type Request struct {
	SessionID string
	DestDir   string
	Records   []domain.ImageRecord
	OnResult  func(result domain.MoveResult)
}

// MoveError is a per-file failure with the step that failed.
type MoveError struct {
	Op          string
	Source      string
	Destination string
	Err         error
}

// Error formats move failures for logs and UI.
func (e *MoveError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Source, e.Destination, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *MoveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Mover moves processed images into one folder per category.
type Mover struct {
	mkdirAll func(path string, perm os.FileMode) error
	rename   func(oldpath, newpath string) error
	lstat    func(name string) (os.FileInfo, error)
	remove   func(name string) error
	copyFile func(src, dst string) error
	now      func() time.Time
}

// New builds a mover using real OS dependencies.
func New() *Mover {
	return &Mover{
		mkdirAll: os.MkdirAll,
		rename:   os.Rename,
		lstat:    os.Lstat,
		remove:   os.Remove,
		copyFile: copyFile,
		now:      time.Now,
	}
}

// Run moves every record into DestDir/<folder>. A failing file is reported
// and the batch continues with the next one. Cancelling ctx stops the batch
// between files; records not attempted are reported as failed.
func (m *Mover) Run(ctx context.Context, req Request) (domain.FinalizeReport, error) {
	report := domain.FinalizeReport{
		SessionID: req.SessionID,
		Confirmed: true,
		DestDir:   req.DestDir,
		StartedAt: m.now().UTC(),
		Results:   make([]domain.MoveResult, 0, len(req.Records)),
	}

	if strings.TrimSpace(req.DestDir) == "" {
		return report, fmt.Errorf("destination directory is required")
	}

	var runErr error
	for _, record := range req.Records {
		result := domain.MoveResult{
			RecordID:    record.ID,
			Source:      record.Path,
			Folder:      record.Folder(),
			Destination: filepath.Join(req.DestDir, record.Folder(), filepath.Base(record.Path)),
		}

		if runErr == nil {
			runErr = ctx.Err()
		}
		if runErr != nil {
			result.Status = domain.MoveStatusFailed
			result.Error = fmt.Sprintf("not attempted: %v", runErr)
		} else if err := m.moveOne(result.Source, result.Destination); err != nil {
			result.Status = domain.MoveStatusFailed
			result.Error = err.Error()
		} else {
			result.Status = domain.MoveStatusMoved
		}

		if result.Status == domain.MoveStatusMoved {
			report.Moved++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
		if req.OnResult != nil {
			req.OnResult(result)
		}
	}

	report.FinishedAt = m.now().UTC()
	return report, runErr
}

// moveOne renames src to dst, falling back to copy and remove when rename
// fails (for example across devices). dst is never overwritten, and a failed
// move leaves the file at src only.
func (m *Mover) moveOne(src, dst string) error {
	if err := m.mkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &MoveError{Op: "create folder", Source: src, Destination: dst, Err: err}
	}
	if _, err := m.lstat(src); err != nil {
		return &MoveError{Op: "stat source", Source: src, Destination: dst, Err: err}
	}
	if _, err := m.lstat(dst); err == nil {
		return &MoveError{Op: "move", Source: src, Destination: dst, Err: ErrDestinationExists}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &MoveError{Op: "stat destination", Source: src, Destination: dst, Err: err}
	}

	renameErr := m.rename(src, dst)
	if renameErr == nil {
		return nil
	}

	if err := m.copyFile(src, dst); err != nil {
		return &MoveError{Op: "move", Source: src, Destination: dst, Err: errors.Join(renameErr, err)}
	}
	if err := m.remove(src); err != nil {
		// The copy is undone so the file stays only at src and can be retried.
		if undoErr := m.remove(dst); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("undo copy: %w", undoErr))
		}
		return &MoveError{Op: "remove source", Source: src, Destination: dst, Err: err}
	}
	return nil
}

// copyFile copies src to a new file at dst, keeping its permission bits.
// A partially written dst is removed.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// NewForTests constructs a mover with injectable dependencies.
func NewForTests(
	mkdirAll func(path string, perm os.FileMode) error,
	rename func(oldpath, newpath string) error,
	copyFn func(src, dst string) error,
	remove func(name string) error,
) *Mover {
	m := New()
	if mkdirAll != nil {
		m.mkdirAll = mkdirAll
	}
	if rename != nil {
		m.rename = rename
	}
	if copyFn != nil {
		m.copyFile = copyFn
	}
	if remove != nil {
		m.remove = remove
	}
	return m
}

