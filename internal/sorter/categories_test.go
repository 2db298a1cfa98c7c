package sorter

import (
	"errors"
	"slices"
	"testing"
)

// TestParseCategories checks trimming, empty slots and validation errors.
func TestParseCategories(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    []string
		wantErr error
	}{
		{
			name: "trims and drops empty slots",
			raw:  []string{"  cats ", "", "dogs", "   ", "birds"},
			want: []string{"cats", "dogs", "birds"},
		},
		{
			name: "keeps duplicates",
			raw:  []string{"a", "b", "a"},
			want: []string{"a", "b", "a"},
		},
		{
			name:    "single category",
			raw:     []string{"only", "", " "},
			wantErr: ErrTooFewCategories,
		},
		{
			name:    "one label entered twice",
			raw:     []string{"A", " A "},
			wantErr: ErrTooFewCategories,
		},
		{
			name:    "nothing entered",
			raw:     nil,
			wantErr: ErrTooFewCategories,
		},
		{
			name:    "nine categories",
			raw:     []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
			wantErr: ErrTooManyCategories,
		},
		{
			name:    "path separator",
			raw:     []string{"cats", "dogs/puppies"},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "parent directory",
			raw:     []string{"cats", ".."},
			wantErr: ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategories(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategories() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("categories = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestDistinctAndDuplicates verifies first-seen ordering for repeated labels.
func TestDistinctAndDuplicates(t *testing.T) {
	categories := []string{"b", "a", "b", "c", "a", "b"}

	if got, want := Distinct(categories), []string{"b", "a", "c"}; !slices.Equal(got, want) {
		t.Fatalf("Distinct() = %q, want %q", got, want)
	}
	if got, want := Duplicates(categories), []string{"b", "a"}; !slices.Equal(got, want) {
		t.Fatalf("Duplicates() = %q, want %q", got, want)
	}
	if got := Duplicates([]string{"x", "y"}); len(got) != 0 {
		t.Fatalf("Duplicates() = %q, want none", got)
	}
}
