package presentation

import (
	"fmt"
	"io"
	"sort"
	"time"

	"camclone/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintDryRun(plan domain.ClonePlan) {
	fmt.Fprintln(p.Writer, "Would import:")
	fmt.Fprintln(p.Writer)

	for _, line := range formatItemLines(plan.Items) {
		fmt.Fprintln(p.Writer, line)
	}

	fmt.Fprintln(p.Writer)
	p.printRange(plan)
	fmt.Fprintf(p.Writer, "%d files would be imported, %d skipped (already present), %d skipped (before resume point).\n",
		len(plan.Items), plan.SkippedExisting, plan.SkippedResume)
	fmt.Fprintf(p.Writer, "Nothing was written; all %d files count as skipped.\n",
		plan.DryRunStatistics().Skipped)

	p.printWarnings(plan.Warnings)
}

func (p Printer) PrintRun(plan domain.ClonePlan, stats domain.RunStatistics, fileErrors []domain.FileError) {
	p.printRange(plan)
	fmt.Fprintf(p.Writer, "Copied %d, rewrote %d, skipped %d files.\n", stats.Copied, stats.Rewritten, stats.Skipped)

	if stats.Rewritten > 0 {
		fmt.Fprintf(p.Writer, "Rewrites: %d resized, %d quality-adjusted, %d gps-added", stats.Resized, stats.QualityAdjusted, stats.GpsAdded)
		for _, format := range sortedKeys(stats.Reformatted) {
			fmt.Fprintf(p.Writer, ", %d to %s", stats.Reformatted[format], format)
		}
		fmt.Fprintln(p.Writer, ".")
	}

	if len(fileErrors) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintf(p.Writer, "%d files failed:\n", len(fileErrors))
		for _, fe := range fileErrors {
			fmt.Fprintf(p.Writer, "- %s (%s): %v\n", fe.Path, fe.Stage, fe.Err)
		}
	}

	p.printWarnings(plan.Warnings)
}

func (p Printer) printRange(plan domain.ClonePlan) {
	start := formatDate(plan.RangeStart)
	end := formatDate(plan.RangeEnd)
	if start != "" && end != "" {
		fmt.Fprintf(p.Writer, "Import range %s until %s.\n", start, end)
	}
}

func (p Printer) printWarnings(warnings []string) {
	if !p.Verbose || len(warnings) == 0 {
		return
	}
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Warnings:")
	for _, warning := range warnings {
		fmt.Fprintln(p.Writer, "- "+warning)
	}
}

func formatItemLines(items []domain.CloneItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		action := "copy"
		if item.Convert != nil {
			action = "rewrite"
		}
		date := item.Inspection.TakenAt.Format("2006-01-02 15:04")
		lines = append(lines, fmt.Sprintf("%-7s %s  %s", action, item.FileMeta.Name, date))
	}

	if len(lines) <= 4 {
		return lines
	}
	head := lines[:2]
	tail := lines[len(lines)-2:]
	return append(append(head, "..."), tail...)
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
