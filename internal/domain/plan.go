package domain

import "time"

// ConvertInfo is the fully resolved rewrite instruction for one file. A nil
// ConvertInfo on a CloneItem means a verbatim copy is sufficient.
type ConvertInfo struct {
	// Target dimensions; both zero when no resize is needed.
	Width  int
	Height int
	// Compression quality in percent; zero preserves the source quality.
	Quality int
	// Target format name; empty preserves the source format.
	Format string
	// GPS fix to inject; nil leaves location tags untouched.
	Gps *GpsFix
}

// IsNoop reports whether the instruction changes nothing at all.
func (c *ConvertInfo) IsNoop() bool {
	return c == nil || (c.Width == 0 && c.Quality == 0 && c.Format == "" && c.Gps == nil)
}

// CloneItem is one planned unit of work: a source file, its inspection, the
// computed destination, and an optional rewrite instruction.
type CloneItem struct {
	FileMeta   FileMeta
	Inspection Inspection
	TargetPath string
	Convert    *ConvertInfo
}

// ClonePlan is the outcome of the planning phase.
type ClonePlan struct {
	Items           []CloneItem
	SkippedExisting int
	SkippedResume   int
	RangeStart      *time.Time
	RangeEnd        *time.Time
	Warnings        []string
}

// DryRunStatistics reports a dry run in the same counters as a real one: a
// dry run writes nothing, so every planned and skipped file counts as
// skipped.
func (p ClonePlan) DryRunStatistics() RunStatistics {
	return RunStatistics{
		Skipped: len(p.Items) + p.SkippedExisting + p.SkippedResume,
	}
}

// FileError records a per-file failure; it never aborts the batch.
type FileError struct {
	Path  string
	Stage string
	Err   error
}

func (e FileError) Error() string {
	return e.Stage + " " + e.Path + ": " + e.Err.Error()
}
