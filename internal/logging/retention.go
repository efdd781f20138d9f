package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// archiveLayout dates rotated logs, e.g. relnotes-2026-10-17.log.
const archiveLayout = "2006-01-02"

var archiveStem = strings.TrimSuffix(LogFileName, ".log") + "-"

func archiveName(day time.Time) string {
	return archiveStem + day.Format(archiveLayout) + ".log"
}

// archiveDay returns the day encoded in a rotated log name. The active log
// never parses.
func archiveDay(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, archiveStem) || !strings.HasSuffix(name, ".log") {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, archiveStem), ".log")
	day, err := time.ParseInLocation(archiveLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// RotateLog moves the active log aside when it was last written on a day
// before now, naming the archive after that day. It returns the archive path,
// or "" when nothing was rotated. An existing archive for the same day is
// never overwritten.
func RotateLog(logDir string, now time.Time) (string, error) {
	if strings.TrimSpace(logDir) == "" {
		return "", nil
	}
	active := filepath.Join(logDir, LogFileName)
	info, err := os.Stat(active)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat active log: %w", err)
	}
	day := startOfDay(info.ModTime().In(time.Local))
	if !day.Before(startOfDay(now.In(time.Local))) {
		return "", nil
	}
	archived := filepath.Join(logDir, archiveName(day))
	if _, err := os.Stat(archived); err == nil {
		return "", nil
	}
	if err := os.Rename(active, archived); err != nil {
		return "", fmt.Errorf("rotate log: %w", err)
	}
	return archived, nil
}

// PruneLogs removes rotated logs dated more than retentionDays before now and
// returns how many were removed. Files that do not follow the archive naming,
// including the active log, are left alone. retentionDays of 0 disables it.
func PruneLogs(logger *slog.Logger, logDir string, retentionDays int, now time.Time) int {
	if retentionDays <= 0 || strings.TrimSpace(logDir) == "" {
		return 0
	}
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return 0
	}
	cutoff := startOfDay(now.In(time.Local)).AddDate(0, 0, -retentionDays)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		day, ok := archiveDay(entry.Name())
		if !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(logDir, entry.Name())
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check file permissions and log_dir ownership"),
				String(FieldImpact, "old log archive remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log archive pruned",
				String("path", path),
				String("day", day.Format(archiveLayout)),
				String(FieldEventType, "log_pruned"),
			)
		}
	}
	return removed
}
