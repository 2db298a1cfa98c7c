package config

import (
	"os"
	"path/filepath"
	"strings"

	"fotosorter/internal/domain"
)

// HomeEnv overrides the directory holding settings, logs and move reports.
const HomeEnv = "FOTOSORTER_HOME"

// LogLevelEnv overrides the persisted log level.
const LogLevelEnv = "FOTOSORTER_LOG_LEVEL"

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		SourceDir: filepath.Join(homeDir, "Pictures"),
		DestDir:   filepath.Join(homeDir, "Pictures", "Sorted"),
		LogLevel:  "info",
	}
}

// AppDir resolves the application data directory.
func AppDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(HomeEnv)); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".fotosorter"), nil
}

// EffectiveLogLevel prefers the environment override over persisted settings.
func EffectiveLogLevel(settings domain.Settings) string {
	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		return level
	}
	if settings.LogLevel == "" {
		return "info"
	}
	return settings.LogLevel
}
