package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fotosorter/internal/domain"
	"fotosorter/internal/library"
	"fotosorter/internal/session"
	"fotosorter/internal/sorter"
)

// dirsForm field indices
const (
	fieldSource = iota
	fieldDest
	fieldDirCount
)

type dirsForm struct {
	inputs [fieldDirCount]textinput.Model
	focus  int
}

func newDirsForm(sourceDir, destDir string) dirsForm {
	var f dirsForm
	for i, value := range []string{sourceDir, destDir} {
		in := textinput.New()
		in.CharLimit = 1024
		in.Width = 48
		in.SetValue(value)
		in.CursorEnd()
		f.inputs[i] = in
	}
	f.inputs[fieldSource].Placeholder = "~/Pictures/Inbox"
	f.inputs[fieldDest].Placeholder = "~/Pictures/Sorted"
	f.inputs[fieldSource].Focus()
	return f
}

func (f *dirsForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldDirCount) % fieldDirCount
	f.inputs[f.focus].Focus()
	f.inputs[f.focus].CursorEnd()
}

type categoriesForm struct {
	inputs []textinput.Model
	focus  int
}

func newCategoriesForm(saved []string) categoriesForm {
	f := categoriesForm{inputs: make([]textinput.Model, sorter.MaxCategories)}
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 64
		in.Width = 40
		in.Placeholder = fmt.Sprintf("category %d", i+1)
		if i < len(saved) {
			in.SetValue(saved[i])
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func (f *categoriesForm) move(delta int) {
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + n) % n
	f.inputs[f.focus].Focus()
	f.inputs[f.focus].CursorEnd()
}

func (f categoriesForm) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

// duplicates lists labels entered more than once.
func (f categoriesForm) duplicates() []string {
	var labels []string
	for _, value := range f.values() {
		if label := strings.TrimSpace(value); label != "" {
			labels = append(labels, label)
		}
	}
	return sorter.Duplicates(labels)
}

func (m Model) updateDirs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.dirs
	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down":
		f.move(1)
		return m, nil

	case "shift+tab", "up":
		f.move(-1)
		return m, nil

	case "enter":
		if f.focus == fieldSource {
			f.move(1)
			return m, nil
		}
		report, err := m.session.Begin(f.inputs[fieldSource].Value(), f.inputs[fieldDest].Value())
		if err != nil {
			m.notice = setupMessage(err, report)
			return m, nil
		}
		m.notice = ""
		m.report = nil
		m = m.show(m.session.View())
		return m, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.categories
	switch msg.String() {
	case "esc":
		m.notice = ""
		m.mode = modeDirs
		return m, nil

	case "tab", "down":
		f.move(1)
		return m, nil

	case "shift+tab", "up":
		f.move(-1)
		return m, nil

	case "enter":
		view, err := m.session.DefineCategories(f.values())
		if err != nil {
			m.notice = setupMessage(err, domain.CheckReport{})
			return m, nil
		}
		m.notice = ""
		return m.show(view), nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) viewDirs() string {
	f := m.dirs
	content := fmt.Sprintf(
		"%s\n\n%s\n%s\n\n%s\n%s\n\n%s",
		titleStyle.Render("Folders"),
		fieldLabel("Images to sort", f.focus == fieldSource), f.inputs[fieldSource].View(),
		fieldLabel("Destination", f.focus == fieldDest), f.inputs[fieldDest].View(),
		helpStyle.Render("Enter: continue  Tab: next field  Esc: quit"),
	)
	return m.place(boxStyle.Render(content))
}

func (m Model) viewCategories() string {
	f := m.categories
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories") + "\n")
	b.WriteString(dimStyle.Render("At least two; empty slots are ignored.") + "\n\n")
	for i, in := range f.inputs {
		b.WriteString(fieldLabel(fmt.Sprintf("%d", i+1), i == f.focus) + " " + in.View() + "\n")
	}
	if dups := f.duplicates(); len(dups) > 0 {
		b.WriteString("\n" + warnStyle.Render("Entered more than once: "+strings.Join(dups, ", ")) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("Enter: start sorting  Tab: next  Esc: back"))
	return m.place(boxStyle.Render(b.String()))
}

func (m Model) place(box string) string {
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, box)
}

func fieldLabel(label string, focused bool) string {
	style := lipgloss.NewStyle()
	if focused {
		style = style.Bold(true).Foreground(lipgloss.Color("39"))
	} else {
		style = style.Foreground(lipgloss.Color("252"))
	}
	return style.Render(label)
}

// setupMessage turns setup errors into a re-prompt notice.
func setupMessage(err error, report domain.CheckReport) string {
	switch {
	case errors.Is(err, session.ErrNoSourceDir):
		return "Enter the folder with the images to sort."
	case errors.Is(err, session.ErrNoDestinationDir):
		return "Enter where the category folders should be created."
	case errors.Is(err, sorter.ErrTooFewCategories):
		return "Enter at least two categories."
	case errors.Is(err, library.ErrNoImages):
		return "The selected folder contains no images."
	case errors.Is(err, session.ErrPreflight):
		if item, ok := report.FirstFailure(); ok {
			if item.Hint != "" {
				return item.Message + " " + item.Hint
			}
			return item.Message
		}
	}
	return err.Error()
}
