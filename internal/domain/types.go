package domain

// Phase tracks where a sorting session is in its lifecycle.
type Phase string

const (
	PhaseInitializing       Phase = "initializing"
	PhaseAwaitingCategories Phase = "awaiting_categories"
	PhaseAwaitingDecision   Phase = "awaiting_decision"
	PhaseFinalizing         Phase = "finalizing"
	PhaseDone               Phase = "done"
)

// SkippedFolder is the reserved destination for records without a selection.
const SkippedFolder = "skipped"

// Settings contains user-selectable configuration remembered between sessions.
type Settings struct {
	SourceDir  string   `json:"sourceDir"`
	DestDir    string   `json:"destDir"`
	Categories []string `json:"categories"`
	LogLevel   string   `json:"logLevel"`
}

// ImageRecord is one candidate file and the offers made for it so far.
type ImageRecord struct {
	ID        string   `json:"id"`
	Path      string   `json:"path"`
	Offered   []string `json:"offered"`
	Selection string   `json:"selection,omitempty"`
}

// Resolved reports whether the record received a category.
func (r ImageRecord) Resolved() bool {
	return r.Selection != ""
}

// HasBeenOffered reports whether label was already shown for this record.
func (r ImageRecord) HasBeenOffered(label string) bool {
	for _, offered := range r.Offered {
		if offered == label {
			return true
		}
	}
	return false
}

// Folder returns the destination folder name for the record.
func (r ImageRecord) Folder() string {
	if r.Selection == "" {
		return SkippedFolder
	}
	return r.Selection
}

// Offer is the pair of categories shown for the head record on one turn.
type Offer struct {
	RecordID string `json:"recordId"`
	First    string `json:"first"`
	Second   string `json:"second"`
}

// Contains reports whether label is one of the two offered categories.
func (o Offer) Contains(label string) bool {
	return label != "" && (o.First == label || o.Second == label)
}

// ImageInfo is display metadata for the image currently on screen.
type ImageInfo struct {
	Name       string `json:"name"`
	SizeBytes  int64  `json:"sizeBytes"`
	ModifiedAt string `json:"modifiedAt,omitempty"`
	CapturedAt string `json:"capturedAt,omitempty"`
	Camera     string `json:"camera,omitempty"`
}

// SessionView is the render-ready snapshot handed to front ends.
type SessionView struct {
	SessionID  string     `json:"sessionId"`
	Phase      Phase      `json:"phase"`
	SourceDir  string     `json:"sourceDir"`
	DestDir    string     `json:"destDir"`
	Categories []string   `json:"categories"`
	Current    *ImageInfo `json:"current,omitempty"`
	CurrentID  string     `json:"currentId,omitempty"`
	Offer      *Offer     `json:"offer,omitempty"`
	Total      int        `json:"total"`
	Queued     int        `json:"queued"`
	Processed  int        `json:"processed"`
	Skipped    int        `json:"skipped"`
}
