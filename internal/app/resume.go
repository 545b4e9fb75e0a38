package app

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

var (
	yearDirRe = regexp.MustCompile(`^\d{4}$`)
	dayDirRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ComputeResumePoint inspects the archive layout root/<year>/<YYYY-MM-DD>/
// and returns the timestamp below which source files are assumed already
// imported: midnight-local of the most-recently-modified day directory inside
// the most-recently-modified year directory, or January 1 when the year has
// no day directories yet. Returns nil when the archive has no year directory
// at all.
//
// This is a heuristic, not a checkpoint: the per-file destination-exists
// check is what actually makes reruns safe.
func ComputeResumePoint(fsys FileSystem, root string) *time.Time {
	yearName := latestDir(fsys, root, yearDirRe)
	if yearName == "" {
		return nil
	}

	dayName := latestDir(fsys, filepath.Join(root, yearName), dayDirRe)
	if dayName != "" {
		if t, err := time.ParseInLocation("2006-01-02", dayName, time.Local); err == nil {
			return &t
		}
	}

	if t, err := time.ParseInLocation("2006", yearName, time.Local); err == nil {
		return &t
	}
	return nil
}

// latestDir returns the name of the most-recently-modified subdirectory of
// dir whose name matches pattern, or "".
func latestDir(fsys FileSystem, dir string, pattern *regexp.Regexp) string {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return ""
	}

	var best string
	var bestMod time.Time
	for _, entry := range entries {
		if !entry.IsDir() || !pattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestMod) {
			best = entry.Name()
			bestMod = info.ModTime()
		}
	}
	return best
}

// ParseAfter parses an explicit --after override into the same midnight-local
// representation the resume calculation uses. Accepted forms: YYYY, YYYY-MM,
// YYYY-MM-DD.
func ParseAfter(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY, YYYY-MM or YYYY-MM-DD", s)
}

// DestinationDir returns the archive directory for a capture time:
// root/<year>/<year>-<month>-<day>.
func DestinationDir(root string, takenAt time.Time) string {
	day := takenAt.Format("2006-01-02")
	return filepath.Join(root, day[:4], day)
}
