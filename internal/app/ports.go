package app

import (
	"context"
	"io/fs"
	"time"

	"camclone/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(path string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	// WriteFileExcl creates the file, failing if it already exists.
	WriteFileExcl(path string, data []byte, perm fs.FileMode) error
	CopyFile(src, dst string) error
}

// CaptureTimeProbe is the cheap in-process capture-time read used while
// scanning, before the full inspection runs.
type CaptureTimeProbe interface {
	DateTimeOriginal(ctx context.Context, path string) (time.Time, error)
}

// Inspector performs the full metadata read for one file.
type Inspector interface {
	Inspect(ctx context.Context, path string) (domain.Inspection, error)
}

// GpsWriter injects a GPS fix into an in-memory image blob and returns a
// freshly owned buffer; the input blob is never retained.
type GpsWriter interface {
	AddGps(ctx context.Context, blob []byte, fix domain.GpsFix) ([]byte, error)
}

// Codec applies the resize/quality/format parts of a rewrite instruction to
// an image blob.
type Codec interface {
	Rewrite(ctx context.Context, blob []byte, srcMime string, info *domain.ConvertInfo) ([]byte, error)
}

// TrackLogSource retrieves track logs overlapping a time range.
type TrackLogSource interface {
	Fetch(ctx context.Context, start, end time.Time, maxFiles int) ([][]byte, error)
}
