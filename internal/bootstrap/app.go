package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"fotosorter/internal/config"
	"fotosorter/internal/domain"
	"fotosorter/internal/events"
	"fotosorter/internal/library"
	"fotosorter/internal/preview"
	"fotosorter/internal/session"
	"fotosorter/internal/sorter"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventName is the runtime event every session event is pushed on.
const EventName = "session:event"

// App binds the session controller to the Wails window.
type App struct {
	Store       config.Store
	Session     *session.Controller
	Diagnostics domain.CheckReport
	assets      fs.FS
	logger      *slog.Logger
	dialogs     dialogs
	emit        func(ctx context.Context, name string, data ...interface{})
	shutdown    func() error

	mu         sync.Mutex
	runtimeCtx context.Context
	baseCtx    context.Context
	cancel     context.CancelFunc
}

// New builds the application serving the frontend from ./frontend.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	rt, err := NewRuntime("fotosorter")
	if err != nil {
		return nil, err
	}

	app := &App{
		Store:    rt.Store,
		Session:  rt.Session,
		assets:   assets,
		logger:   rt.Logger,
		dialogs:  nativeDialogs{},
		emit:     wailsruntime.EventsEmit,
		shutdown: rt.Close,
	}
	app.forwardEvents()
	return app, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	var fallback http.Handler
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		fallback = http.FileServer(http.Dir("./frontend"))
	}
	assetOptions.Handler = preview.NewHandler(a.Session, fallback)

	return wails.Run(&options.App{
		Title:       "Fotosorter",
		Width:       1180,
		Height:      780,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown:  a.Shutdown,
		Bind:        []interface{}{a},
	})
}

// Startup stores Wails runtime context for dialogs and push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
	a.baseCtx, a.cancel = context.WithCancel(context.Background())
}

// Shutdown stops an in-flight finalization between files and closes the log.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	cancel := a.cancel
	a.runtimeCtx = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if a.shutdown != nil {
		_ = a.shutdown()
	}
}

// GetSettings returns the remembered directories and categories.
func (a *App) GetSettings() (domain.Settings, error) {
	return a.Session.Settings()
}

// GetDiagnostics returns the preflight report of the last session start.
func (a *App) GetDiagnostics() domain.CheckReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// PickSourceDirectory opens a native directory picker for the image folder.
func (a *App) PickSourceDirectory() (string, error) {
	settings, _ := a.Session.Settings()
	return a.pickDirectory("Select the folder with images to sort", settings.SourceDir)
}

// PickDestinationDirectory opens a native directory picker for the sorted folders.
func (a *App) PickDestinationDirectory() (string, error) {
	settings, _ := a.Session.Settings()
	return a.pickDirectory("Select where the category folders go", settings.DestDir)
}

// BeginSession runs preflight checks and starts a session. Failures are
// shown as a blocking notice and returned to the renderer.
func (a *App) BeginSession(sourceDir, destDir string) (domain.CheckReport, error) {
	report, err := a.Session.Begin(sourceDir, destDir)

	a.mu.Lock()
	a.Diagnostics = report
	a.mu.Unlock()

	if err != nil {
		a.notice("Cannot start sorting", noticeMessage(err, report))
		return report, err
	}
	return report, nil
}

// DefineCategories submits the category entries and returns the first offer.
func (a *App) DefineCategories(raw []string) (domain.SessionView, error) {
	view, err := a.Session.DefineCategories(raw)
	if err != nil {
		a.notice("Cannot start sorting", noticeMessage(err, domain.CheckReport{}))
		return view, err
	}
	return view, nil
}

// DuplicateCategories lists labels entered more than once.
func (a *App) DuplicateCategories(raw []string) []string {
	labels := make([]string, 0, len(raw))
	for _, entry := range raw {
		if label := strings.TrimSpace(entry); label != "" {
			labels = append(labels, label)
		}
	}
	return sorter.Duplicates(labels)
}

// CurrentView returns the render-ready session snapshot.
func (a *App) CurrentView() domain.SessionView {
	return a.Session.View()
}

// Choose assigns one of the offered categories to the current image.
func (a *App) Choose(category string) (domain.SessionView, error) {
	return a.Session.Choose(category)
}

// Skip defers the current image.
func (a *App) Skip() (domain.SessionView, error) {
	return a.Session.Skip()
}

// Finalize asks for the single move confirmation and applies the answer.
func (a *App) Finalize() (domain.FinalizeReport, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return domain.FinalizeReport{}, err
	}

	view := a.Session.View()
	if view.Phase != domain.PhaseFinalizing {
		return domain.FinalizeReport{}, fmt.Errorf("finalize: %w (%s)", sorter.ErrWrongPhase, view.Phase)
	}

	confirm, err := a.dialogs.Confirm(ctx, "Move images",
		fmt.Sprintf("Move %d images into %s?", view.Processed, view.DestDir))
	if err != nil {
		return domain.FinalizeReport{}, fmt.Errorf("confirm dialog: %w", err)
	}

	report, err := a.Session.Finalize(a.finalizeContext(), confirm)
	if err != nil {
		a.notice("Moving images failed", err.Error())
		return report, err
	}
	if report.HasFailures() {
		a.notice("Some images were not moved", failureSummary(report))
	}
	return report, nil
}

// SessionEvents returns all events with sequence greater than sinceSeq.
func (a *App) SessionEvents(sinceSeq int64) []events.Event {
	return a.Session.Events().Since(sinceSeq)
}

// OpenDestinationFolder opens the session (or remembered) destination in the file manager.
func (a *App) OpenDestinationFolder() error {
	target := a.Session.DestDir()
	if target == "" {
		settings, err := a.Session.Settings()
		if err != nil {
			return err
		}
		target = settings.DestDir
	}
	if strings.TrimSpace(target) == "" {
		return session.ErrNoDestinationDir
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	if !info.IsDir() {
		target = filepath.Dir(target)
	}
	return openInFileManager(target)
}

// forwardEvents pushes every bus event to the renderer.
func (a *App) forwardEvents() {
	a.Session.Events().Subscribe(func(event events.Event) {
		a.mu.Lock()
		ctx := a.runtimeCtx
		a.mu.Unlock()
		if ctx != nil && a.emit != nil {
			a.emit(ctx, EventName, event)
		}
	})
}

func (a *App) pickDirectory(title, defaultDir string) (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(defaultDir); err != nil || !info.IsDir() {
		defaultDir = ""
	}

	path, err := a.dialogs.Directory(ctx, title, defaultDir)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// notice shows a blocking message; it is logged when no window is available.
func (a *App) notice(title, message string) {
	a.logger.Warn("notice", "title", title, "message", message)

	ctx, err := a.runtimeContext()
	if err != nil {
		return
	}
	if err := a.dialogs.Notice(ctx, title, message); err != nil {
		a.logger.Warn("notice_failed", "error", err)
	}
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// finalizeContext is cancelled on shutdown.
func (a *App) finalizeContext() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.baseCtx == nil {
		return context.Background()
	}
	return a.baseCtx
}

// noticeMessage turns setup errors into user-facing text.
func noticeMessage(err error, report domain.CheckReport) string {
	switch {
	case errors.Is(err, session.ErrNoSourceDir):
		return "Please choose the folder with the images to sort."
	case errors.Is(err, session.ErrNoDestinationDir):
		return "Please choose where the sorted folders should be created."
	case errors.Is(err, sorter.ErrTooFewCategories):
		return "Please enter at least two categories."
	case errors.Is(err, library.ErrNoImages):
		return "The selected folder contains no images."
	case errors.Is(err, session.ErrPreflight):
		if item, ok := report.FirstFailure(); ok {
			if item.Hint != "" {
				return item.Message + "\n" + item.Hint
			}
			return item.Message
		}
	}
	return err.Error()
}

// failureSummary lists the files that could not be moved.
func failureSummary(report domain.FinalizeReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Moved %d images, %d failed:", report.Moved, report.Failed)
	for _, result := range report.Results {
		if result.Status != domain.MoveStatusFailed {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %s", filepath.Base(result.Source), result.Error)
	}
	if report.ReportPath != "" {
		fmt.Fprintf(&b, "\n\nReport: %s", report.ReportPath)
	}
	return b.String()
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
