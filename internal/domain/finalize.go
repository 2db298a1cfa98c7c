package domain

import "time"

// MoveStatus is the outcome of moving one processed record.
type MoveStatus string

const (
	MoveStatusMoved  MoveStatus = "moved"
	MoveStatusFailed MoveStatus = "failed"
)

// MoveResult describes what happened to one file during finalization.
type MoveResult struct {
	RecordID    string     `json:"recordId" yaml:"record_id"`
	Source      string     `json:"source" yaml:"source"`
	Destination string     `json:"destination" yaml:"destination"`
	Folder      string     `json:"folder" yaml:"folder"`
	Status      MoveStatus `json:"status" yaml:"status"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// FinalizeReport aggregates the outcome of the finalization step.
type FinalizeReport struct {
	SessionID  string       `json:"sessionId" yaml:"session_id"`
	Confirmed  bool         `json:"confirmed" yaml:"confirmed"`
	DestDir    string       `json:"destDir" yaml:"dest_dir"`
	StartedAt  time.Time    `json:"startedAt" yaml:"started_at"`
	FinishedAt time.Time    `json:"finishedAt" yaml:"finished_at"`
	Moved      int          `json:"moved" yaml:"moved"`
	Failed     int          `json:"failed" yaml:"failed"`
	Results    []MoveResult `json:"results" yaml:"results"`
	ReportPath string       `json:"reportPath,omitempty" yaml:"-"`
}

// HasFailures reports whether at least one file could not be moved.
func (r FinalizeReport) HasFailures() bool {
	return r.Failed > 0
}
