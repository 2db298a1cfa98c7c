package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fotosorter/internal/domain"
)

type mode int

const (
	modeDirs mode = iota
	modeCategories
	modeDecision
	modeConfirm
	modeMoving
	modeDone
)

// controller is the part of the session controller the terminal drives.
type controller interface {
	Settings() (domain.Settings, error)
	Begin(sourceDir, destDir string) (domain.CheckReport, error)
	DefineCategories(raw []string) (domain.SessionView, error)
	Choose(category string) (domain.SessionView, error)
	Skip() (domain.SessionView, error)
	Finalize(ctx context.Context, confirm bool) (domain.FinalizeReport, error)
	View() domain.SessionView
}

// finalizedMsg carries the outcome of the batch move.
type finalizedMsg struct {
	report domain.FinalizeReport
	err    error
}

// Model is the Bubble Tea program state for one sorting run.
type Model struct {
	ctx        context.Context
	session    controller
	mode       mode
	width      int
	height     int
	dirs       dirsForm
	categories categoriesForm
	view       domain.SessionView
	report     *domain.FinalizeReport
	notice     string
	quitting   bool
}

// NewModel builds the program, prefilled with the remembered settings.
func NewModel(ctx context.Context, session controller) Model {
	settings, err := session.Settings()
	m := Model{
		ctx:        ctx,
		session:    session,
		mode:       modeDirs,
		width:      100,
		height:     30,
		dirs:       newDirsForm(settings.SourceDir, settings.DestDir),
		categories: newCategoriesForm(settings.Categories),
	}
	if err != nil {
		m.notice = err.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case finalizedMsg:
		return m.finalized(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.mode != modeMoving {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeDirs:
			return m.updateDirs(msg)
		case modeCategories:
			return m.updateCategories(msg)
		case modeDecision:
			return m.updateDecision(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeDone:
			return m.updateDone(msg)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.mode {
	case modeDirs:
		body = m.viewDirs()
	case modeCategories:
		body = m.viewCategories()
	case modeDecision:
		body = m.viewDecision()
	case modeConfirm, modeMoving:
		body = m.viewConfirm()
	case modeDone:
		body = m.viewDone()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Fotosorter"))
	if m.view.SessionID != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s", m.view.Phase)))
	}
	b.WriteString("\n\n")
	b.WriteString(body)
	if m.notice != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.notice))
	}
	return b.String()
}

// Report returns the finalization outcome once the run is done.
func (m Model) Report() (domain.FinalizeReport, bool) {
	if m.report == nil {
		return domain.FinalizeReport{}, false
	}
	return *m.report, true
}

// show switches to the screen matching the session phase.
func (m Model) show(view domain.SessionView) Model {
	m.view = view
	switch view.Phase {
	case domain.PhaseAwaitingDecision:
		m.mode = modeDecision
	case domain.PhaseFinalizing:
		m.mode = modeConfirm
	case domain.PhaseAwaitingCategories:
		m.mode = modeCategories
	case domain.PhaseDone:
		m.mode = modeDone
	default:
		m.mode = modeDirs
	}
	return m
}

func (m Model) finalize(confirm bool) tea.Cmd {
	ctx := m.ctx
	session := m.session
	return func() tea.Msg {
		report, err := session.Finalize(ctx, confirm)
		return finalizedMsg{report: report, err: err}
	}
}

func (m Model) finalized(msg finalizedMsg) (tea.Model, tea.Cmd) {
	m.view = m.session.View()
	if msg.err != nil {
		m.notice = msg.err.Error()
		if m.view.Phase == domain.PhaseFinalizing {
			m.mode = modeConfirm
			return m, nil
		}
	}
	m.report = &msg.report
	m.mode = modeDone
	return m, nil
}
