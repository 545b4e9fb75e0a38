// Package exiftool drives the exiftool binary for metadata inspection and
// blob-level GPS injection.
package exiftool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"camclone/internal/domain"
)

const DefaultBin = "exiftool"

type Tool struct {
	Bin string
}

func New() *Tool {
	return &Tool{Bin: DefaultBin}
}

// Check verifies the binary is runnable; called once before workers start.
func (t *Tool) Check(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, t.Bin, "-ver")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("exiftool not available: %v (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

var inspectTags = []string{
	"-MIMEType",
	"-ImageWidth",
	"-ImageHeight",
	"-GPSLatitude",
	"-GPSLongitude",
	"-DateTimeOriginal",
	"-CreateDate",
	"-Rating",
}

// Inspect reads the metadata snapshot for one file. Absent tags fall back to
// their defaults (no GPS, zero time, unrated); only a failed read of the file
// itself is an error.
func (t *Tool) Inspect(ctx context.Context, path string) (domain.Inspection, error) {
	args := append([]string{"-j", "-n", "-fast2"}, inspectTags...)
	args = append(args, path)

	cmd := exec.CommandContext(ctx, t.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return domain.Inspection{}, fmt.Errorf("exiftool: %v (%s)", err, strings.TrimSpace(stderr.String()))
	}

	var records []map[string]any
	if err := json.Unmarshal(out, &records); err != nil || len(records) == 0 {
		return domain.Inspection{}, fmt.Errorf("exiftool: unexpected output for %s", path)
	}
	tags := records[0]

	inspection := domain.Inspection{
		SourcePath: path,
		Mime:       asString(tags["MIMEType"]),
		Width:      asInt(tags["ImageWidth"]),
		Height:     asInt(tags["ImageHeight"]),
		Rating:     domain.UnratedSentinel,
	}

	_, hasLat := tags["GPSLatitude"]
	_, hasLon := tags["GPSLongitude"]
	inspection.GpsRecorded = hasLat && hasLon

	if raw, ok := tags["Rating"]; ok {
		if rating, ok := asRating(raw); ok {
			inspection.Rating = rating
		}
	}

	for _, key := range []string{"DateTimeOriginal", "CreateDate"} {
		if str := asString(tags[key]); str != "" {
			if taken, err := parseExifTime(str); err == nil {
				inspection.TakenAt = taken
				break
			}
		}
	}

	return inspection, nil
}

// AddGps pipes the blob through exiftool and returns the rewritten copy; the
// caller owns both buffers and must not reuse the input afterwards.
func (t *Tool) AddGps(ctx context.Context, blob []byte, fix domain.GpsFix) ([]byte, error) {
	latRef, lonRef := "N", "E"
	if fix.Lat < 0 {
		latRef = "S"
	}
	if fix.Lon < 0 {
		lonRef = "W"
	}
	altRef := "0"
	if fix.Alt < 0 {
		altRef = "1"
	}

	args := []string{
		"-n",
		fmt.Sprintf("-GPSLatitude=%f", math.Abs(fix.Lat)),
		"-GPSLatitudeRef=" + latRef,
		fmt.Sprintf("-GPSLongitude=%f", math.Abs(fix.Lon)),
		"-GPSLongitudeRef=" + lonRef,
		fmt.Sprintf("-GPSAltitude=%f", math.Abs(fix.Alt)),
		"-GPSAltitudeRef=" + altRef,
		"-o", "-",
		"-",
	}

	cmd := exec.CommandContext(ctx, t.Bin, args...)
	cmd.Stdin = bytes.NewReader(blob)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("exiftool gps write: %v (%s)", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("exiftool gps write produced no output")
	}
	return stdout.Bytes(), nil
}

func parseExifTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Subsecond and timezone suffixes vary by camera; the prefix is fixed.
	if len(s) > 19 {
		s = s[:19]
	}
	return time.ParseInLocation("2006:01:02 15:04:05", s, time.Local)
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(val))
		return n
	default:
		return 0
	}
}

func asRating(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
