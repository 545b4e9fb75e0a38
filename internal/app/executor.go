package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"camclone/internal/domain"
	"camclone/internal/logging"
)

// ExecProgressFunc reports per-file execution progress.
type ExecProgressFunc func(current, total int, file string)

// Executor carries out a plan sequentially: one writer, so at most one write
// per destination path without any locking. Per-file failures are collected
// and never abort the batch.
type Executor struct {
	FS         FileSystem
	Codec      Codec
	Gps        GpsWriter
	Logger     logging.Logger
	OnProgress ExecProgressFunc
}

func (e *Executor) Execute(ctx context.Context, plan domain.ClonePlan) (domain.RunStatistics, []domain.FileError) {
	stats := domain.RunStatistics{
		Skipped: plan.SkippedExisting,
	}
	var fileErrors []domain.FileError

	if e.FS == nil {
		fileErrors = append(fileErrors, domain.FileError{Stage: "setup", Err: errors.New("executor requires FS")})
		return stats, fileErrors
	}

	total := len(plan.Items)
	for i, item := range plan.Items {
		select {
		case <-ctx.Done():
			// Stop dispatching; everything already written stays valid.
			return stats, fileErrors
		default:
		}

		if err := e.processOne(ctx, item, &stats); err != nil {
			var fe domain.FileError
			if !errors.As(err, &fe) {
				fe = domain.FileError{Path: item.FileMeta.SourcePath, Stage: "process", Err: err}
			}
			fileErrors = append(fileErrors, fe)
			stats.Failed++
		}

		if e.OnProgress != nil {
			e.OnProgress(i+1, total, item.FileMeta.Name)
		}
	}

	return stats, fileErrors
}

func (e *Executor) processOne(ctx context.Context, item domain.CloneItem, stats *domain.RunStatistics) error {
	// The planner already filtered existing targets, but a rerun racing a
	// previous partial run may have produced the file since; re-checking
	// keeps placement idempotent.
	exists, err := e.FS.Exists(item.TargetPath)
	if err != nil {
		return domain.FileError{Path: item.FileMeta.SourcePath, Stage: "stat-target", Err: err}
	}
	if exists {
		stats.Skipped++
		return nil
	}

	if err := e.FS.MkdirAll(filepath.Dir(item.TargetPath), 0o755); err != nil {
		return domain.FileError{Path: item.TargetPath, Stage: "mkdir", Err: err}
	}

	if item.Convert == nil {
		if err := e.FS.CopyFile(item.FileMeta.SourcePath, item.TargetPath); err != nil {
			if os.IsExist(err) {
				stats.Skipped++
				return nil
			}
			return domain.FileError{Path: item.FileMeta.SourcePath, Stage: "copy", Err: err}
		}
		stats.Copied++
		e.Logger.Verbosef("copied %s", item.FileMeta.Name)
		return nil
	}

	blob, err := e.rewrite(ctx, item)
	if err != nil {
		return err
	}

	if err := e.FS.WriteFileExcl(item.TargetPath, blob, 0o644); err != nil {
		if os.IsExist(err) {
			stats.Skipped++
			return nil
		}
		return domain.FileError{Path: item.TargetPath, Stage: "write", Err: err}
	}

	stats.RecordRewrite(item.Convert)
	e.Logger.Verbosef("rewrote %s -> %s", item.FileMeta.Name, filepath.Base(item.TargetPath))
	return nil
}

// rewrite runs the in-memory pipeline: read, inject GPS, transform pixels.
// Each stage hands back a freshly owned buffer.
func (e *Executor) rewrite(ctx context.Context, item domain.CloneItem) ([]byte, error) {
	src := item.FileMeta.SourcePath

	blob, err := e.FS.ReadFile(src)
	if err != nil {
		return nil, domain.FileError{Path: src, Stage: "read", Err: err}
	}

	info := item.Convert
	if info.Gps != nil {
		if e.Gps == nil {
			return nil, domain.FileError{Path: src, Stage: "gps", Err: errors.New("no gps writer configured")}
		}
		blob, err = e.Gps.AddGps(ctx, blob, *info.Gps)
		if err != nil {
			return nil, domain.FileError{Path: src, Stage: "gps", Err: err}
		}
	}

	if info.Width > 0 || info.Quality > 0 || info.Format != "" {
		if e.Codec == nil {
			return nil, domain.FileError{Path: src, Stage: "transform", Err: errors.New("no codec configured")}
		}
		blob, err = e.Codec.Rewrite(ctx, blob, item.Inspection.Mime, info)
		if err != nil {
			return nil, domain.FileError{Path: src, Stage: "transform", Err: err}
		}
	}

	return blob, nil
}
