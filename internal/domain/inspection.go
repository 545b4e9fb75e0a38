package domain

import "time"

// UnratedSentinel is the rating reported when a file carries no rating tag or
// the tag does not parse as an integer.
const UnratedSentinel = -1

// Inspection is the metadata snapshot of one source file, taken once at the
// start of orchestration and immutable afterwards.
type Inspection struct {
	SourcePath  string
	Mime        string
	Width       int
	Height      int
	GpsRecorded bool
	TakenAt     time.Time
	Rating      int
}

// GpsFix is a waypoint match to be injected into a file's metadata.
type GpsFix struct {
	Lat float64
	Lon float64
	Alt float64
}
