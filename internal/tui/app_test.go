package tui

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"fotosorter/internal/domain"
	"fotosorter/internal/session"
)

// memoryStore keeps settings in memory.
type memoryStore struct {
	settings domain.Settings
}

func (s *memoryStore) Load() (domain.Settings, error) { return s.settings, nil }

func (s *memoryStore) Save(settings domain.Settings) error {
	s.settings = settings
	return nil
}

type fixture struct {
	src   string
	dest  string
	store *memoryStore
	model Model
}

func newFixture(t *testing.T, categories []string, images ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		src:  filepath.Join(root, "inbox"),
		dest: filepath.Join(root, "sorted"),
	}
	if err := os.MkdirAll(f.src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range images {
		if err := os.WriteFile(filepath.Join(f.src, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	f.store = &memoryStore{settings: domain.Settings{SourceDir: f.src, DestDir: f.dest, Categories: categories}}
	ctrl := session.New(session.Options{Store: f.store, Rand: rand.New(rand.NewPCG(9, 4))})
	f.model = NewModel(context.Background(), ctrl)
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model and runs any finalize command it returns.
func (f *fixture) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		next, cmd := f.model.Update(key(k))
		f.model = next.(Model)
		if cmd == nil {
			continue
		}
		if msg, ok := cmd().(finalizedMsg); ok {
			next, _ = f.model.Update(msg)
			f.model = next.(Model)
		}
	}
}

// TestNewModelPrefillsRememberedSettings shows the last folders and categories.
func TestNewModelPrefillsRememberedSettings(t *testing.T) {
	f := newFixture(t, []string{"cats", "dogs"}, "a.jpg")

	if got := f.model.dirs.inputs[fieldSource].Value(); got != f.src {
		t.Fatalf("source = %q, want %q", got, f.src)
	}
	if got := f.model.dirs.inputs[fieldDest].Value(); got != f.dest {
		t.Fatalf("dest = %q, want %q", got, f.dest)
	}
	values := f.model.categories.values()
	if len(values) != 8 || values[0] != "cats" || values[1] != "dogs" || values[2] != "" {
		t.Fatalf("category values = %q", values)
	}
}

// TestWholeRunMovesImages drives the program from folders to the move summary.
func TestWholeRunMovesImages(t *testing.T) {
	f := newFixture(t, []string{"X", "Y"}, "a.jpg", "b.png", "c.gif")

	f.press(t, "enter", "enter")
	if f.model.mode != modeCategories {
		t.Fatalf("mode = %d, want categories (notice %q)", f.model.mode, f.model.notice)
	}

	f.press(t, "enter")
	for i := 0; f.model.mode == modeDecision && i < 10; i++ {
		if !strings.Contains(f.model.View(), "1  ") {
			t.Fatalf("decision view lacks options:\n%s", f.model.View())
		}
		f.press(t, "1")
	}
	if f.model.mode != modeConfirm {
		t.Fatalf("mode = %d, want confirm", f.model.mode)
	}

	f.press(t, "y")
	if f.model.mode != modeDone {
		t.Fatalf("mode = %d, want done", f.model.mode)
	}
	report, ok := f.model.Report()
	if !ok || report.Moved != 3 || report.Failed != 0 {
		t.Fatalf("report = %+v, %v", report, ok)
	}
	entries, err := os.ReadDir(f.src)
	if err != nil {
		t.Fatalf("read src: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("source still holds %d files", len(entries))
	}
	if !strings.Contains(f.model.View(), "Moved 3 images") {
		t.Fatalf("done view:\n%s", f.model.View())
	}
}

// TestDeclineLeavesFilesInPlace answers no to the move question.
func TestDeclineLeavesFilesInPlace(t *testing.T) {
	f := newFixture(t, []string{"A", "B", "C"}, "a.jpg")

	f.press(t, "enter", "enter", "enter")
	for i := 0; f.model.mode == modeDecision && i < 10; i++ {
		f.press(t, "s")
	}
	if f.model.mode != modeConfirm || f.model.view.Skipped != 1 {
		t.Fatalf("mode = %d skipped = %d", f.model.mode, f.model.view.Skipped)
	}

	f.press(t, "n")
	report, ok := f.model.Report()
	if !ok || report.Confirmed {
		t.Fatalf("report = %+v, %v", report, ok)
	}
	if _, err := os.Stat(filepath.Join(f.src, "a.jpg")); err != nil {
		t.Fatalf("source image moved: %v", err)
	}
}

// TestCategoriesRepromptOnSingleLabel keeps the form open with a notice.
func TestCategoriesRepromptOnSingleLabel(t *testing.T) {
	f := newFixture(t, nil, "a.jpg")

	f.press(t, "enter", "enter", "X", "enter")
	if f.model.mode != modeCategories {
		t.Fatalf("mode = %d, want categories", f.model.mode)
	}
	if f.model.notice != "Enter at least two categories." {
		t.Fatalf("notice = %q", f.model.notice)
	}

	f.press(t, "tab", "Y", "enter")
	if f.model.mode != modeDecision && f.model.mode != modeConfirm {
		t.Fatalf("mode = %d after retry (notice %q)", f.model.mode, f.model.notice)
	}
}

// TestDirsRepromptOnEmptyFolder reports the missing images and stays on the form.
func TestDirsRepromptOnEmptyFolder(t *testing.T) {
	f := newFixture(t, nil)

	f.press(t, "enter", "enter")
	if f.model.mode != modeDirs {
		t.Fatalf("mode = %d, want dirs", f.model.mode)
	}
	if f.model.notice == "" {
		t.Fatal("expected notice")
	}
}

// TestDuplicateWarning flags repeated labels in the categories screen.
func TestDuplicateWarning(t *testing.T) {
	f := newFixture(t, []string{"a", " a", "b"}, "x.jpg")

	if got := f.model.categories.duplicates(); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("duplicates = %q", got)
	}
	f.press(t, "enter", "enter")
	if !strings.Contains(f.model.View(), "Entered more than once: a") {
		t.Fatalf("categories view:\n%s", f.model.View())
	}
}

// TestQuitClearsView exits from the folders screen.
func TestQuitClearsView(t *testing.T) {
	f := newFixture(t, nil, "a.jpg")

	next, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if view := next.(Model).View(); view != "" {
		t.Fatalf("view = %q, want empty", view)
	}
}
