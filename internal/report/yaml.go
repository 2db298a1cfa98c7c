package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"fotosorter/internal/domain"
)

// Summary is the header of a saved move report.
type Summary struct {
	SessionID  string         `yaml:"session_id"`
	DestDir    string         `yaml:"dest_dir"`
	Categories []string       `yaml:"categories"`
	StartedAt  string         `yaml:"started_at"`
	FinishedAt string         `yaml:"finished_at"`
	Moved      int            `yaml:"moved"`
	Failed     int            `yaml:"failed"`
	PerFolder  map[string]int `yaml:"per_folder"`
}

// Document is the complete YAML report of one confirmed finalization.
type Document struct {
	Summary Summary             `yaml:"summary"`
	Results []domain.MoveResult `yaml:"results"`
}

// Writer saves move reports into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer storing reports under dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Build converts a finalize report into its YAML document form.
func Build(r domain.FinalizeReport, categories []string) Document {
	perFolder := map[string]int{}
	for _, result := range r.Results {
		if result.Status == domain.MoveStatusMoved {
			perFolder[result.Folder]++
		}
	}

	return Document{
		Summary: Summary{
			SessionID:  r.SessionID,
			DestDir:    r.DestDir,
			Categories: categories,
			StartedAt:  r.StartedAt.Format(time.RFC3339),
			FinishedAt: r.FinishedAt.Format(time.RFC3339),
			Moved:      r.Moved,
			Failed:     r.Failed,
			PerFolder:  perFolder,
		},
		Results: r.Results,
	}
}

// Write saves the report and returns the file path.
func (w *Writer) Write(r domain.FinalizeReport, categories []string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	data, err := yaml.Marshal(Build(r, categories))
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(w.dir, fileName(r))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Folders returns the folder names in a document, sorted.
func (d Document) Folders() []string {
	out := make([]string, 0, len(d.Summary.PerFolder))
	for folder := range d.Summary.PerFolder {
		out = append(out, folder)
	}
	sort.Strings(out)
	return out
}

func fileName(r domain.FinalizeReport) string {
	id := r.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "session"
	}
	return fmt.Sprintf("%s-%s.yaml", r.FinishedAt.Format("2006-01-02_15-04-05"), id)
}
