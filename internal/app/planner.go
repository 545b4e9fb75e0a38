package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"camclone/internal/domain"
	"camclone/internal/geo"
	"camclone/internal/logging"
	"camclone/internal/policy"
)

// ProgressFunc is called during scanning to report progress.
type ProgressFunc func(current, total int)

// Planner walks the source directory, inspects every eligible file and
// decides, per file, whether it needs a verbatim copy, a rewrite, or nothing
// at all. It performs no writes.
type Planner struct {
	FS         FileSystem
	Probe      CaptureTimeProbe
	Inspector  Inspector
	Geo        geo.Searcher
	Policies   policy.Table
	Workers    int
	Logger     logging.Logger
	OnProgress ProgressFunc
}

func (p *Planner) Plan(ctx context.Context, sourceDir, targetDir string, resume *time.Time) (domain.ClonePlan, []domain.FileError, error) {
	if p.FS == nil || p.Inspector == nil {
		return domain.ClonePlan{}, nil, errors.New("planner requires FS and Inspector")
	}
	if p.Geo == nil {
		p.Geo = geo.NullSearcher{}
	}

	stop := p.Logger.Measure("Planning clone")
	defer stop()

	candidates, err := p.collect(sourceDir)
	if err != nil {
		return domain.ClonePlan{}, nil, err
	}
	p.Logger.Verbosef("Found %d candidate files in %s", len(candidates), sourceDir)

	plan, fileErrors := p.inspectAll(ctx, candidates, targetDir, resume)

	sort.Slice(plan.Items, func(i, j int) bool {
		a, b := plan.Items[i], plan.Items[j]
		if a.Inspection.TakenAt.Equal(b.Inspection.TakenAt) {
			return a.FileMeta.Name < b.FileMeta.Name
		}
		return a.Inspection.TakenAt.Before(b.Inspection.TakenAt)
	})

	deriveRange(&plan)
	p.Logger.Verbosef("Planned %d items, %d skipped (existing), %d skipped (resume), %d errors",
		len(plan.Items), plan.SkippedExisting, plan.SkippedResume, len(fileErrors))

	return plan, fileErrors, nil
}

// collect walks the source tree and keeps files on the extension allow-list.
func (p *Planner) collect(sourceDir string) ([]string, error) {
	var paths []string
	err := p.FS.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if domain.IsImportableExtension(filepath.Ext(d.Name())) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

type planResult struct {
	item       domain.CloneItem
	ok         bool
	skipExist  bool
	skipResume bool
	warning    string
	fileErr    *domain.FileError
	fatal      error
}

// inspectAll fans the candidate list over a worker pool. Workers only read;
// every decision result folds back on this goroutine.
func (p *Planner) inspectAll(ctx context.Context, paths []string, targetDir string, resume *time.Time) (domain.ClonePlan, []domain.FileError) {
	workerCount := p.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	p.Logger.Verbosef("Using %d inspection workers", workerCount)

	jobs := make(chan string)
	// Buffered so in-flight workers can deposit their result and exit even
	// when planning stops early on cancellation.
	results := make(chan planResult, workerCount)

	for i := 0; i < workerCount; i++ {
		go func() {
			for path := range jobs {
				results <- p.planOne(ctx, path, targetDir, resume)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	var plan domain.ClonePlan
	var fileErrors []domain.FileError
	total := len(paths)
	for i := 0; i < total; i++ {
		var res planResult
		select {
		case <-ctx.Done():
			return plan, fileErrors
		case res = <-results:
		}
		if res.fatal != nil {
			return plan, fileErrors
		}
		if res.warning != "" {
			plan.Warnings = append(plan.Warnings, res.warning)
		}
		switch {
		case res.fileErr != nil:
			fileErrors = append(fileErrors, *res.fileErr)
		case res.skipResume:
			plan.SkippedResume++
		case res.skipExist:
			plan.SkippedExisting++
		case res.ok:
			plan.Items = append(plan.Items, res.item)
		}
		if p.OnProgress != nil {
			p.OnProgress(i+1, total)
		}
	}
	return plan, fileErrors
}

// planOne runs the per-file decision chain: resume filter, full inspection,
// geotag decision, policy resolution, destination placement.
func (p *Planner) planOne(ctx context.Context, path, targetDir string, resume *time.Time) planResult {
	info, err := p.FS.Stat(path)
	if err != nil {
		return planResult{fileErr: &domain.FileError{Path: path, Stage: "stat", Err: err}}
	}
	meta := domain.NewFileMeta(path, info.ModTime())

	// Capture time is almost always at or before the filesystem time, so a
	// modification time older than the resume point means the cheap probe
	// and the full inspection would agree.
	if resume != nil && info.ModTime().Before(*resume) {
		return planResult{skipResume: true}
	}

	warning := ""
	if p.Probe != nil && resume != nil {
		takenAt, probeErr := p.Probe.DateTimeOriginal(ctx, path)
		if probeErr != nil {
			if errors.Is(probeErr, context.Canceled) || errors.Is(probeErr, context.DeadlineExceeded) {
				return planResult{fatal: probeErr}
			}
		} else if takenAt.Before(*resume) {
			return planResult{skipResume: true}
		}
	}

	inspection, err := p.Inspector.Inspect(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return planResult{fatal: err}
		}
		return planResult{fileErr: &domain.FileError{Path: path, Stage: "inspect", Err: err}}
	}
	if inspection.TakenAt.IsZero() {
		inspection.TakenAt = meta.CreatedAt
		warning = fmt.Sprintf("no capture time in %s, using filesystem time", meta.Name)
	}
	if resume != nil && inspection.TakenAt.Before(*resume) {
		return planResult{skipResume: true}
	}

	item := domain.CloneItem{
		FileMeta:   meta,
		Inspection: inspection,
		Convert:    p.resolveConvert(inspection, meta),
	}

	targetFormat := policy.FormatPreserve
	if item.Convert != nil && item.Convert.Format != "" {
		targetFormat = policy.Format(item.Convert.Format)
	}
	item.TargetPath = filepath.Join(DestinationDir(targetDir, inspection.TakenAt), targetName(meta, targetFormat))

	exists, err := p.FS.Exists(item.TargetPath)
	if err != nil {
		return planResult{fileErr: &domain.FileError{Path: path, Stage: "stat-target", Err: err}}
	}
	if exists {
		return planResult{skipExist: true, warning: warning}
	}

	return planResult{item: item, ok: true, warning: warning}
}

// targetName keeps the source name when the output extension matches the
// source. When conversion changes the extension, the source type folds into
// the stem: a RAW+JPEG pair sharing a stem must never land on the same
// archive path.
func targetName(meta domain.FileMeta, format policy.Format) string {
	ext := policy.ExtensionFor(format, meta.Ext)
	if ext == meta.Ext {
		return meta.BaseName + ext
	}
	return meta.BaseName + "_" + strings.TrimPrefix(meta.Ext, ".") + ext
}

// resolveConvert combines the rating's policy with the inspection into a
// rewrite instruction, or nil when a verbatim copy is enough.
func (p *Planner) resolveConvert(inspection domain.Inspection, meta domain.FileMeta) *domain.ConvertInfo {
	pol := policy.Resolve(inspection.Rating, p.Policies)

	info := &domain.ConvertInfo{}
	if !pol.Bypass {
		if w, h, ok := policy.NeedsResize(inspection.Width, inspection.Height, pol.Resize); ok {
			info.Width, info.Height = w, h
		}
		if target, ok := policy.NeedsConvert(inspection.Mime, pol.Format); ok {
			info.Format = string(target)
		}
		info.Quality = pol.Quality
	}

	if !inspection.GpsRecorded && !domain.IsHeicMime(inspection.Mime) {
		if wp, ok := p.Geo.Search(inspection.TakenAt); ok {
			info.Gps = &domain.GpsFix{Lat: wp.Lat, Lon: wp.Lon, Alt: wp.Ele}
		}
	}

	if info.IsNoop() {
		return nil
	}
	return info
}

func deriveRange(plan *domain.ClonePlan) {
	if len(plan.Items) == 0 {
		return
	}
	min := plan.Items[0].Inspection.TakenAt
	max := min
	for _, item := range plan.Items[1:] {
		t := item.Inspection.TakenAt
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	plan.RangeStart, plan.RangeEnd = &min, &max
}
