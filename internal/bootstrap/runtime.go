package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fotosorter/internal/config"
	"fotosorter/internal/logging"
	"fotosorter/internal/report"
	"fotosorter/internal/session"
)

// Runtime is the backend shared by the desktop and terminal front ends.
type Runtime struct {
	Store   config.Store
	Logger  *slog.Logger
	Session *session.Controller
	logFile *os.File
}

// NewRuntime loads .env overrides and settings, opens the log file and
// builds the session controller.
func NewRuntime(service string) (*Runtime, error) {
	_ = godotenv.Load()

	appDir, err := config.AppDir()
	if err != nil {
		return nil, fmt.Errorf("resolve app directory: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(appDir, "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logFile, err := logging.OpenFile(appDir, "fotosorter.log")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.NewJSONLogger(service, config.EffectiveLogLevel(settings), logFile)
	logger.Info("startup", "app_dir", appDir, "settings", store.Path())

	ctrl := session.New(session.Options{
		Store:   store,
		Reports: report.NewWriter(filepath.Join(appDir, "reports")),
		Logger:  logger,
	})

	return &Runtime{
		Store:   store,
		Logger:  logger,
		Session: ctrl,
		logFile: logFile,
	}, nil
}

// Close flushes and closes the log file.
func (r *Runtime) Close() error {
	if r.logFile == nil {
		return nil
	}
	r.Logger.Info("shutdown")
	return r.logFile.Close()
}
