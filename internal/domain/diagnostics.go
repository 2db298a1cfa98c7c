package domain

import "time"

// CheckStatus indicates whether a single preflight check passed.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
)

// CheckItem is one preflight check result with an optional hint.
type CheckItem struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// CheckReport aggregates the directory checks run before a session starts.
type CheckReport struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	HasFailures bool        `json:"hasFailures"`
	Items       []CheckItem `json:"items"`
}

// FirstFailure returns the first failing item, if any.
func (r CheckReport) FirstFailure() (CheckItem, bool) {
	for _, item := range r.Items {
		if item.Status == CheckStatusFail {
			return item, true
		}
	}
	return CheckItem{}, false
}
