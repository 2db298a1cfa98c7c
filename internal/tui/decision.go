package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fotosorter/internal/domain"
)

func (m Model) updateDecision(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		view domain.SessionView
		err  error
	)
	switch msg.String() {
	case "1", "left":
		if m.view.Offer == nil {
			return m, nil
		}
		view, err = m.session.Choose(m.view.Offer.First)
	case "2", "right":
		if m.view.Offer == nil {
			return m, nil
		}
		view, err = m.session.Choose(m.view.Offer.Second)
	case "s", " ", "down":
		view, err = m.session.Skip()
	default:
		return m, nil
	}

	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	return m.show(view), nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeMoving
		return m, m.finalize(true)
	case "n", "N", "esc":
		m.mode = modeMoving
		return m, m.finalize(false)
	}
	return m, nil
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "enter", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		settings, _ := m.session.Settings()
		m.dirs = newDirsForm(settings.SourceDir, settings.DestDir)
		m.categories = newCategoriesForm(settings.Categories)
		m.view = domain.SessionView{}
		m.report = nil
		m.notice = ""
		m.mode = modeDirs
	}
	return m, nil
}

func (m Model) viewDecision() string {
	v := m.view
	var b strings.Builder

	name := ""
	if v.Current != nil {
		name = v.Current.Name
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(name) + "\n")
	b.WriteString(dimStyle.Render(describe(v.Current)) + "\n\n")

	if v.Offer != nil {
		b.WriteString(optionStyle.Render("1  "+v.Offer.First) + "  ")
		b.WriteString(optionStyle.Render("2  "+v.Offer.Second) + "  ")
	}
	b.WriteString(skipStyle.Render("s  skip"))
	b.WriteString("\n\n")
	b.WriteString(statusBarStyle.Render(fmt.Sprintf("%d of %d resolved  %d in queue  %d skipped",
		v.Processed, v.Total, v.Queued, v.Skipped)))
	b.WriteString("\n" + helpStyle.Render("1/←: first  2/→: second  s: skip  ctrl+c: quit"))
	return b.String()
}

func (m Model) viewConfirm() string {
	v := m.view
	content := fmt.Sprintf(
		"%s\n\n%d images resolved, %d skipped.\nMove them into %s?\n\n%s",
		titleStyle.Render("All images sorted"),
		v.Processed, v.Skipped, v.DestDir,
		helpStyle.Render("y: move  n: leave everything in place"),
	)
	if m.mode == modeMoving {
		content = titleStyle.Render("Moving images…")
	}
	return m.place(boxStyle.Render(content))
}

func (m Model) viewDone() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Done") + "\n\n")

	r := m.report
	switch {
	case r == nil:
	case !r.Confirmed:
		b.WriteString("Nothing was moved.\n")
	default:
		b.WriteString(okStyle.Render(fmt.Sprintf("Moved %d images", r.Moved)))
		if r.Failed > 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf(", %d failed", r.Failed)))
		}
		b.WriteString("\n")
		for _, result := range r.Results {
			if result.Status != domain.MoveStatusFailed {
				continue
			}
			b.WriteString(errorStyle.Render("  "+filepath.Base(result.Source)) + dimStyle.Render("  "+result.Error) + "\n")
		}
		if r.ReportPath != "" {
			b.WriteString(dimStyle.Render("Report: "+r.ReportPath) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("r: sort another folder  q: quit"))
	return m.place(boxStyle.Render(b.String()))
}

// describe renders the metadata line shown under the file name.
func describe(info *domain.ImageInfo) string {
	if info == nil {
		return ""
	}
	parts := []string{formatSize(info.SizeBytes)}
	if info.CapturedAt != "" {
		parts = append(parts, "taken "+info.CapturedAt)
	}
	if info.Camera != "" {
		parts = append(parts, info.Camera)
	}
	return strings.Join(parts, " · ")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
