package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camclone/internal/domain"
	"camclone/internal/logging"
)

func cloneItem(src, target string, convert *domain.ConvertInfo) domain.CloneItem {
	return domain.CloneItem{
		FileMeta: domain.NewFileMeta(src, time.Date(2023, 2, 3, 8, 0, 0, 0, time.UTC)),
		Inspection: domain.Inspection{
			Mime:    "image/jpeg",
			TakenAt: time.Date(2023, 2, 3, 5, 0, 0, 0, time.UTC),
		},
		TargetPath: target,
		Convert:    convert,
	}
}

func TestExecuteCopiesBypassItems(t *testing.T) {
	fsys := newFakeFS()
	fsys.addFile("/src/IMG_0001.jpg", []byte("pixels"), time.Now())

	exec := &Executor{FS: fsys, Logger: logging.Nop()}
	plan := domain.ClonePlan{Items: []domain.CloneItem{
		cloneItem("/src/IMG_0001.jpg", "/dst/2023/2023-02-03/IMG_0001.jpg", nil),
	}}

	stats, fileErrors := exec.Execute(context.Background(), plan)
	assert.Empty(t, fileErrors)
	assert.Equal(t, 1, stats.Copied)
	assert.Equal(t, "/src/IMG_0001.jpg", fsys.copied["/dst/2023/2023-02-03/IMG_0001.jpg"])
}

func TestExecuteRewritePipeline(t *testing.T) {
	fsys := newFakeFS()
	fsys.addFile("/src/IMG_0002.jpg", []byte("pixels"), time.Now())
	codec := &fakeCodec{}
	gps := &fakeGpsWriter{}

	exec := &Executor{FS: fsys, Codec: codec, Gps: gps, Logger: logging.Nop()}
	convert := &domain.ConvertInfo{
		Width: 4000, Height: 3000, Quality: 92, Format: "heic",
		Gps: &domain.GpsFix{Lat: 37.28, Lon: 126.57, Alt: 18.2},
	}
	plan := domain.ClonePlan{Items: []domain.CloneItem{
		cloneItem("/src/IMG_0002.jpg", "/dst/2023/2023-02-03/IMG_0002.heic", convert),
	}}

	stats, fileErrors := exec.Execute(context.Background(), plan)
	assert.Empty(t, fileErrors)

	// GPS goes in first, then the pixel transform sees the tagged blob.
	require.Len(t, gps.calls, 1)
	assert.Equal(t, 37.28, gps.calls[0].Lat)
	require.Len(t, codec.calls, 1)
	assert.Equal(t, []byte("transformed:gps:pixels"), fsys.written["/dst/2023/2023-02-03/IMG_0002.heic"])

	assert.Equal(t, 1, stats.Rewritten)
	assert.Equal(t, 1, stats.Resized)
	assert.Equal(t, 1, stats.QualityAdjusted)
	assert.Equal(t, 1, stats.GpsAdded)
	assert.Equal(t, 1, stats.Reformatted["heic"])
}

func TestExecuteGpsOnlyRewriteSkipsCodec(t *testing.T) {
	fsys := newFakeFS()
	fsys.addFile("/src/IMG_0003.jpg", []byte("pixels"), time.Now())
	codec := &fakeCodec{}
	gps := &fakeGpsWriter{}

	exec := &Executor{FS: fsys, Codec: codec, Gps: gps, Logger: logging.Nop()}
	convert := &domain.ConvertInfo{Gps: &domain.GpsFix{Lat: 1, Lon: 2}}
	plan := domain.ClonePlan{Items: []domain.CloneItem{
		cloneItem("/src/IMG_0003.jpg", "/dst/2023/2023-02-03/IMG_0003.jpg", convert),
	}}

	stats, fileErrors := exec.Execute(context.Background(), plan)
	assert.Empty(t, fileErrors)
	assert.Empty(t, codec.calls)
	assert.Equal(t, []byte("gps:pixels"), fsys.written["/dst/2023/2023-02-03/IMG_0003.jpg"])
	assert.Equal(t, 1, stats.Rewritten)
	assert.Equal(t, 1, stats.GpsAdded)
	assert.Equal(t, 0, stats.Resized)
}

func TestExecuteSkipsTargetsCreatedSincePlanning(t *testing.T) {
	fsys := newFakeFS()
	fsys.addFile("/src/IMG_0004.jpg", []byte("pixels"), time.Now())
	fsys.addFile("/dst/2023/2023-02-03/IMG_0004.jpg", []byte("already there"), time.Now())

	exec := &Executor{FS: fsys, Logger: logging.Nop()}
	plan := domain.ClonePlan{
		SkippedExisting: 2,
		Items: []domain.CloneItem{
			cloneItem("/src/IMG_0004.jpg", "/dst/2023/2023-02-03/IMG_0004.jpg", nil),
		},
	}

	stats, fileErrors := exec.Execute(context.Background(), plan)
	assert.Empty(t, fileErrors)
	assert.Equal(t, 0, stats.Copied)
	// Planner skips plus the executor's own re-check.
	assert.Equal(t, 3, stats.Skipped)
	assert.NotContains(t, fsys.copied, "/dst/2023/2023-02-03/IMG_0004.jpg")
}

func TestExecuteCollectsFailuresAndContinues(t *testing.T) {
	fsys := newFakeFS()
	fsys.addFile("/src/BAD_0001.jpg", []byte("a"), time.Now())
	fsys.addFile("/src/GOOD_0001.jpg", []byte("b"), time.Now())
	codec := &fakeCodec{fail: errors.New("decoder blew up")}

	exec := &Executor{FS: fsys, Codec: codec, Logger: logging.Nop()}
	plan := domain.ClonePlan{Items: []domain.CloneItem{
		cloneItem("/src/BAD_0001.jpg", "/dst/2023/2023-02-03/BAD_0001.heic", &domain.ConvertInfo{Format: "heic"}),
		cloneItem("/src/GOOD_0001.jpg", "/dst/2023/2023-02-03/GOOD_0001.jpg", nil),
	}}

	stats, fileErrors := exec.Execute(context.Background(), plan)
	require.Len(t, fileErrors, 1)
	assert.Equal(t, "/src/BAD_0001.jpg", fileErrors[0].Path)
	assert.Equal(t, "transform", fileErrors[0].Stage)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Copied)
}

func TestExecuteStopsOnCancellation(t *testing.T) {
	fsys := newFakeFS()
	fsys.addFile("/src/IMG_0005.jpg", []byte("a"), time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &Executor{FS: fsys, Logger: logging.Nop()}
	plan := domain.ClonePlan{Items: []domain.CloneItem{
		cloneItem("/src/IMG_0005.jpg", "/dst/2023/2023-02-03/IMG_0005.jpg", nil),
	}}

	stats, fileErrors := exec.Execute(ctx, plan)
	assert.Empty(t, fileErrors)
	assert.Equal(t, 0, stats.Copied)
	assert.Empty(t, fsys.copied)
}
