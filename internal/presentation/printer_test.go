package presentation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"camclone/internal/domain"
)

func itemNamed(name string, convert *domain.ConvertInfo) domain.CloneItem {
	return domain.CloneItem{
		FileMeta: domain.FileMeta{Name: name},
		Inspection: domain.Inspection{
			TakenAt: time.Date(2023, 2, 3, 5, 29, 0, 0, time.UTC),
		},
		Convert: convert,
	}
}

func TestPrintDryRunListsActions(t *testing.T) {
	var buf bytes.Buffer
	plan := domain.ClonePlan{
		Items: []domain.CloneItem{
			itemNamed("IMG_0001.jpg", nil),
			itemNamed("IMG_0002.arw", &domain.ConvertInfo{Format: "heic"}),
		},
		SkippedExisting: 3,
	}

	Printer{Writer: &buf}.PrintDryRun(plan)
	out := buf.String()

	assert.Contains(t, out, "copy    IMG_0001.jpg")
	assert.Contains(t, out, "rewrite IMG_0002.arw")
	assert.Contains(t, out, "2 files would be imported, 3 skipped (already present)")
	assert.Contains(t, out, "Nothing was written; all 5 files count as skipped.")
}

func TestPrintDryRunTruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	var items []domain.CloneItem
	for i := 1; i <= 9; i++ {
		items = append(items, itemNamed(fmt.Sprintf("IMG_%04d.jpg", i), nil))
	}

	Printer{Writer: &buf}.PrintDryRun(domain.ClonePlan{Items: items})
	out := buf.String()

	assert.Contains(t, out, "IMG_0001.jpg")
	assert.Contains(t, out, "IMG_0002.jpg")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "IMG_0008.jpg")
	assert.Contains(t, out, "IMG_0009.jpg")
	assert.NotContains(t, out, "IMG_0005.jpg")
}

func TestPrintRunSummarizesStats(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2023, 2, 3, 5, 0, 0, 0, time.UTC)
	end := time.Date(2023, 2, 5, 19, 0, 0, 0, time.UTC)
	plan := domain.ClonePlan{RangeStart: &start, RangeEnd: &end}
	stats := domain.RunStatistics{
		Copied: 2, Rewritten: 5, Skipped: 1,
		Resized: 4, QualityAdjusted: 4, GpsAdded: 1,
		Reformatted: map[string]int{"jpeg": 1, "heic": 4},
	}

	Printer{Writer: &buf}.PrintRun(plan, stats, nil)
	out := buf.String()

	assert.Contains(t, out, "Import range 2023-02-03 until 2023-02-05.")
	assert.Contains(t, out, "Copied 2, rewrote 5, skipped 1 files.")
	assert.Contains(t, out, "4 resized, 4 quality-adjusted, 1 gps-added, 4 to heic, 1 to jpeg")
}

func TestPrintRunListsFailures(t *testing.T) {
	var buf bytes.Buffer
	fileErrors := []domain.FileError{
		{Path: "/src/BAD_0001.jpg", Stage: "inspect", Err: errors.New("truncated file")},
	}

	Printer{Writer: &buf}.PrintRun(domain.ClonePlan{}, domain.RunStatistics{}, fileErrors)
	out := buf.String()

	assert.Contains(t, out, "1 files failed:")
	assert.Contains(t, out, "- /src/BAD_0001.jpg (inspect): truncated file")
}

func TestWarningsOnlyWhenVerbose(t *testing.T) {
	plan := domain.ClonePlan{Warnings: []string{"no capture time in SCAN_0001.tif, using filesystem time"}}

	var quiet bytes.Buffer
	Printer{Writer: &quiet}.PrintRun(plan, domain.RunStatistics{}, nil)
	assert.False(t, strings.Contains(quiet.String(), "Warnings:"))

	var loud bytes.Buffer
	Printer{Writer: &loud, Verbose: true}.PrintRun(plan, domain.RunStatistics{}, nil)
	assert.Contains(t, loud.String(), "Warnings:")
	assert.Contains(t, loud.String(), "SCAN_0001.tif")
}
