package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// FileMeta describes one candidate source file found during the scan.
type FileMeta struct {
	SourcePath string
	Name       string
	BaseName   string
	Ext        string
	CreatedAt  time.Time
}

func NewFileMeta(sourcePath string, createdAt time.Time) FileMeta {
	name := filepath.Base(sourcePath)
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	return FileMeta{
		SourcePath: sourcePath,
		Name:       name,
		BaseName:   base,
		Ext:        ext,
		CreatedAt:  createdAt,
	}
}

// IsImportableExtension reports whether ext belongs to the fixed allow-list of
// raster and container formats the pipeline accepts.
func IsImportableExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".heic", ".heif", ".png", ".tif", ".tiff",
		".arw", ".cr2", ".cr3", ".nef", ".raf", ".rw2", ".orf", ".dng":
		return true
	default:
		return false
	}
}

// IsHeicMime reports whether the detected MIME belongs to the HEIC family,
// which the metadata writer cannot add GPS tags to.
func IsHeicMime(mime string) bool {
	switch strings.ToLower(mime) {
	case "image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence":
		return true
	default:
		return false
	}
}
