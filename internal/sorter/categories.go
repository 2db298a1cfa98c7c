package sorter

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinCategories is the smallest category list a session can start with.
	MinCategories = 2
	// MaxCategories matches the number of input slots offered to the user.
	MaxCategories = 8
)

var (
	ErrTooFewCategories  = errors.New("at least two categories are required")
	ErrTooManyCategories = errors.New("too many categories")
	ErrInvalidCategory   = errors.New("invalid category name")
)

// ParseCategories trims raw entries and drops empty ones. Duplicate labels are
// kept; they cannot be told apart once offered, so at least two distinct
// labels are required.
func ParseCategories(raw []string) ([]string, error) {
	categories := make([]string, 0, len(raw))
	for _, entry := range raw {
		label := strings.TrimSpace(entry)
		if label == "" {
			continue
		}
		if err := validateLabel(label); err != nil {
			return nil, err
		}
		categories = append(categories, label)
	}

	if len(Distinct(categories)) < MinCategories {
		return nil, ErrTooFewCategories
	}
	if len(categories) > MaxCategories {
		return nil, fmt.Errorf("%w: %d given, at most %d", ErrTooManyCategories, len(categories), MaxCategories)
	}
	return categories, nil
}

// Distinct returns categories with repeated labels removed, keeping first-seen order.
func Distinct(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, label := range categories {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// Duplicates returns each label that appears more than once, in first-seen order.
func Duplicates(categories []string) []string {
	counts := make(map[string]int, len(categories))
	var out []string
	for _, label := range categories {
		counts[label]++
		if counts[label] == 2 {
			out = append(out, label)
		}
	}
	return out
}

// validateLabel rejects labels that cannot be used as a single folder name.
func validateLabel(label string) error {
	if label == "." || label == ".." || strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, label)
	}
	return nil
}
