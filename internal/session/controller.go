package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fotosorter/internal/config"
	"fotosorter/internal/diagnostics"
	"fotosorter/internal/domain"
	"fotosorter/internal/events"
	"fotosorter/internal/library"
	"fotosorter/internal/logging"
	"fotosorter/internal/mover"
	"fotosorter/internal/sorter"
)

var (
	ErrNoSourceDir      = errors.New("no source directory selected")
	ErrNoDestinationDir = errors.New("no destination directory selected")
	ErrPreflight        = errors.New("preflight check failed")
)

// imageScanner discovers the images of a source folder.
type imageScanner interface {
	Scan(dir string) ([]domain.ImageRecord, error)
}

// moveRunner performs the batch move of processed records.
type moveRunner interface {
	Run(ctx context.Context, req mover.Request) (domain.FinalizeReport, error)
}

// preflightChecker validates the session directories.
type preflightChecker interface {
	Run(sourceDir, destDir string) domain.CheckReport
}

// reportWriter persists the outcome of a confirmed finalization.
type reportWriter interface {
	Write(r domain.FinalizeReport, categories []string) (string, error)
}

// Options carries the collaborators of a Controller. Zero fields fall back
// to the production implementations.
type Options struct {
	Store    config.Store
	Scanner  imageScanner
	Mover    moveRunner
	Checker  preflightChecker
	Reports  reportWriter
	Events   *events.Bus
	Logger   *slog.Logger
	Rand     sorter.Rand
	Describe func(path string) (domain.ImageInfo, error)
	NewID    func() string
}

// Controller owns one sorting session at a time. Front ends forward user
// input to it and render the views it returns.
type Controller struct {
	store    config.Store
	scanner  imageScanner
	mover    moveRunner
	checker  preflightChecker
	reports  reportWriter
	events   *events.Bus
	logger   *slog.Logger
	rng      sorter.Rand
	describe func(path string) (domain.ImageInfo, error)
	newID    func() string

	mu         sync.Mutex
	id         string
	sourceDir  string
	destDir    string
	state      sorter.State
	lastReport *domain.FinalizeReport
}

// New builds a controller in the initializing phase.
func New(opts Options) *Controller {
	c := &Controller{
		store:    opts.Store,
		scanner:  opts.Scanner,
		mover:    opts.Mover,
		checker:  opts.Checker,
		reports:  opts.Reports,
		events:   opts.Events,
		logger:   opts.Logger,
		rng:      opts.Rand,
		describe: opts.Describe,
		newID:    opts.NewID,
		state:    sorter.NewState(),
	}
	if c.scanner == nil {
		c.scanner = library.NewScanner()
	}
	if c.mover == nil {
		c.mover = mover.New()
	}
	if c.checker == nil {
		c.checker = diagnostics.NewChecker()
	}
	if c.events == nil {
		c.events = events.NewBus(1000)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.describe == nil {
		c.describe = library.Describe
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c
}

// Events returns the bus every session event is published on.
func (c *Controller) Events() *events.Bus {
	return c.events
}

// Settings loads the remembered settings, or defaults without a store.
func (c *Controller) Settings() (domain.Settings, error) {
	if c.store == nil {
		return config.DefaultSettings(), nil
	}
	settings, err := c.store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// Begin starts a new session for the given directories once preflight
// checks pass. Any unfinished session is discarded.
func (c *Controller) Begin(sourceDir, destDir string) (domain.CheckReport, error) {
	sourceDir = expandHome(strings.TrimSpace(sourceDir))
	destDir = expandHome(strings.TrimSpace(destDir))
	if sourceDir == "" {
		return domain.CheckReport{}, ErrNoSourceDir
	}
	if destDir == "" {
		return domain.CheckReport{}, ErrNoDestinationDir
	}

	report := c.checker.Run(sourceDir, destDir)
	if failed, ok := report.FirstFailure(); ok {
		c.logger.Warn("preflight_failed", "check", failed.ID, "message", failed.Message)
		return report, fmt.Errorf("%w: %s", ErrPreflight, failed.Message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id != "" && c.state.Phase != domain.PhaseDone {
		c.logger.Info("session_discarded", "session", c.id, "phase", c.state.Phase)
	}

	state, err := sorter.AwaitCategories(sorter.NewState())
	if err != nil {
		return report, err
	}

	c.id = c.newID()
	c.sourceDir = sourceDir
	c.destDir = destDir
	c.state = state
	c.lastReport = nil

	c.remember(func(s *domain.Settings) {
		s.SourceDir = sourceDir
		s.DestDir = destDir
	})
	c.logger.Info("session_started", "session", c.id, "source", sourceDir, "dest", destDir)
	c.publishPhase("Session started")
	return report, nil
}

// DefineCategories validates the raw category entries, scans the source
// folder and offers the first pair.
func (c *Controller) DefineCategories(raw []string) (domain.SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != domain.PhaseAwaitingCategories {
		return c.viewLocked(), fmt.Errorf("define categories: %w (%s)", sorter.ErrWrongPhase, c.state.Phase)
	}

	categories, err := sorter.ParseCategories(raw)
	if err != nil {
		return c.viewLocked(), err
	}
	if dups := sorter.Duplicates(categories); len(dups) > 0 {
		c.logger.Warn("duplicate_categories", "session", c.id, "labels", dups)
	}

	images, err := c.scanner.Scan(c.sourceDir)
	if err != nil {
		c.publishError(err)
		return c.viewLocked(), err
	}

	state, err := sorter.Start(c.state, categories, images, c.rng)
	if err != nil {
		return c.viewLocked(), err
	}
	c.state = state

	c.remember(func(s *domain.Settings) {
		s.Categories = categories
	})
	c.logger.Info("sorting_started", "session", c.id, "images", len(images), "categories", len(categories))
	c.publishResolved(nil, state.Processed)
	c.publishNext()
	return c.viewLocked(), nil
}

// Choose assigns one of the offered categories to the current image.
func (c *Controller) Choose(category string) (domain.SessionView, error) {
	return c.dispatch(sorter.Choose{Category: category})
}

// Skip defers the current image, or resolves it as skipped once every
// category has been offered.
func (c *Controller) Skip() (domain.SessionView, error) {
	return c.dispatch(sorter.Skip{})
}

// dispatch runs one action through the reducer and publishes what changed.
func (c *Controller) dispatch(action sorter.Action) (domain.SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state
	next, err := sorter.Reduce(prev, action, c.rng)
	if err != nil {
		return c.viewLocked(), err
	}
	c.state = next

	head, _ := prev.Head()
	if _, skipped := action.(sorter.Skip); skipped && queued(next.Queue, head.ID) {
		c.events.Publish(events.Event{
			SessionID: c.id,
			Type:      events.TypeDecision,
			Message:   "Image moved to the end of the queue",
			RecordID:  head.ID,
			Path:      head.Path,
		})
	}

	c.publishResolved(prev.Processed, next.Processed)
	c.publishNext()
	return c.viewLocked(), nil
}

// Finalize applies the user's answer to the move confirmation. Declining
// moves nothing. Confirming moves every processed image; per-file failures
// are reported in the result and do not stop the batch.
func (c *Controller) Finalize(ctx context.Context, confirm bool) (domain.FinalizeReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != domain.PhaseFinalizing {
		return domain.FinalizeReport{}, fmt.Errorf("finalize: %w (%s)", sorter.ErrWrongPhase, c.state.Phase)
	}

	var report domain.FinalizeReport
	if !confirm {
		report = domain.FinalizeReport{SessionID: c.id, DestDir: c.destDir}
		c.logger.Info("finalize_declined", "session", c.id, "images", len(c.state.Processed))
	} else {
		var err error
		report, err = c.mover.Run(ctx, mover.Request{
			SessionID: c.id,
			DestDir:   c.destDir,
			Records:   c.state.Processed,
			OnResult:  c.publishMove,
		})
		if err != nil && len(report.Results) == 0 {
			c.publishError(err)
			return report, fmt.Errorf("move images: %w", err)
		}
		if err != nil {
			c.logger.Warn("finalize_interrupted", "session", c.id, "error", err)
		}
		c.logger.Info("finalize_completed", "session", c.id, "moved", report.Moved, "failed", report.Failed)

		if c.reports != nil {
			path, werr := c.reports.Write(report, c.state.Categories)
			if werr != nil {
				c.logger.Warn("report_write_failed", "session", c.id, "error", werr)
			} else {
				report.ReportPath = path
			}
		}
	}

	done, err := sorter.Complete(c.state)
	if err != nil {
		return report, err
	}
	c.state = done
	c.lastReport = &report
	c.publishPhase(finalizeMessage(report))
	return report, nil
}

// View returns a render-ready snapshot of the session.
func (c *Controller) View() domain.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// LastReport returns the outcome of the most recent finalization.
func (c *Controller) LastReport() (domain.FinalizeReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastReport == nil {
		return domain.FinalizeReport{}, false
	}
	return *c.lastReport, true
}

// DestDir returns the destination of the current session.
func (c *Controller) DestDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destDir
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(dir string) string {
	if dir != "~" && !strings.HasPrefix(dir, "~/") && !strings.HasPrefix(dir, `~\`) {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir[1:])
}

// ImagePath resolves a record ID of the current session to its file. Only
// records that have not been moved yet resolve.
func (c *Controller) ImagePath(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == domain.PhaseDone {
		return "", false
	}
	for _, list := range [][]domain.ImageRecord{c.state.Queue, c.state.Processed} {
		for _, record := range list {
			if record.ID == id {
				return record.Path, true
			}
		}
	}
	return "", false
}

func (c *Controller) viewLocked() domain.SessionView {
	view := domain.SessionView{
		SessionID:  c.id,
		Phase:      c.state.Phase,
		SourceDir:  c.sourceDir,
		DestDir:    c.destDir,
		Categories: append([]string(nil), c.state.Categories...),
		Total:      c.state.Total(),
		Queued:     len(c.state.Queue),
		Processed:  len(c.state.Processed),
		Skipped:    c.state.SkippedCount(),
	}

	head, ok := c.state.Head()
	if !ok {
		return view
	}
	info, err := c.describe(head.Path)
	if err != nil {
		c.logger.Debug("describe_failed", "path", head.Path, "error", err)
		info = domain.ImageInfo{Name: filepath.Base(head.Path)}
	}
	view.Current = &info
	view.CurrentID = head.ID
	if c.state.Offer != nil {
		offer := *c.state.Offer
		view.Offer = &offer
	}
	return view
}

// remember updates persisted settings; failures are logged only.
func (c *Controller) remember(update func(*domain.Settings)) {
	if c.store == nil {
		return
	}
	settings, err := c.store.Load()
	if err != nil {
		c.logger.Warn("settings_load_failed", "error", err)
		return
	}
	update(&settings)
	if err := c.store.Save(settings); err != nil {
		c.logger.Warn("settings_save_failed", "error", err)
	}
}

// publishResolved emits one event per record added to the processed list.
func (c *Controller) publishResolved(before, after []domain.ImageRecord) {
	for _, record := range after[len(before):] {
		message := "Image sorted"
		if !record.Resolved() {
			message = "Image skipped"
		}
		c.logger.Info("image_resolved", "session", c.id, "path", record.Path, "category", record.Folder())
		c.events.Publish(events.Event{
			SessionID: c.id,
			Type:      events.TypeResolved,
			Message:   message,
			RecordID:  record.ID,
			Path:      record.Path,
			Category:  record.Selection,
		})
	}
}

// publishNext emits the new offer, or the phase change once the queue is empty.
func (c *Controller) publishNext() {
	if c.state.Offer == nil {
		c.publishPhase("All images resolved")
		return
	}
	offer := *c.state.Offer
	head, _ := c.state.Head()
	c.events.Publish(events.Event{
		SessionID: c.id,
		Type:      events.TypeOffer,
		RecordID:  head.ID,
		Path:      head.Path,
		Offer:     &offer,
	})
}

func (c *Controller) publishPhase(message string) {
	c.events.Publish(events.Event{
		SessionID: c.id,
		Type:      events.TypePhase,
		Phase:     c.state.Phase,
		Message:   message,
	})
}

func (c *Controller) publishMove(result domain.MoveResult) {
	if result.Status == domain.MoveStatusFailed {
		c.logger.Warn("move_failed", "session", c.id, "path", result.Source, "error", result.Error)
	}
	c.events.Publish(events.Event{
		SessionID: c.id,
		Type:      events.TypeMove,
		RecordID:  result.RecordID,
		Path:      result.Source,
		Category:  result.Folder,
		Move:      &result,
	})
}

func (c *Controller) publishError(err error) {
	c.events.Publish(events.Event{
		SessionID: c.id,
		Type:      events.TypeError,
		Message:   err.Error(),
	})
}

func finalizeMessage(report domain.FinalizeReport) string {
	if !report.Confirmed {
		return "Finished without moving files"
	}
	if report.HasFailures() {
		return fmt.Sprintf("Moved %d images, %d failed", report.Moved, report.Failed)
	}
	return fmt.Sprintf("Moved %d images", report.Moved)
}

func queued(queue []domain.ImageRecord, id string) bool {
	for _, record := range queue {
		if record.ID == id {
			return true
		}
	}
	return false
}
