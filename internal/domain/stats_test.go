package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeIsCommutative(t *testing.T) {
	a := RunStatistics{Skipped: 1, Copied: 2, Rewritten: 3, Resized: 1, Reformatted: map[string]int{"heic": 2}}
	b := RunStatistics{Skipped: 4, Rewritten: 1, GpsAdded: 2, Reformatted: map[string]int{"heic": 1, "jpeg": 5}}

	assert.Equal(t, a.Merge(b), b.Merge(a))
}

func TestMergeIsAssociative(t *testing.T) {
	a := RunStatistics{Copied: 1, Reformatted: map[string]int{"avif": 1}}
	b := RunStatistics{Rewritten: 2, QualityAdjusted: 2}
	c := RunStatistics{Skipped: 7, Failed: 1, Reformatted: map[string]int{"avif": 3}}

	assert.Equal(t, a.Merge(b).Merge(c), a.Merge(b.Merge(c)))
}

func TestMergeOfShardsEqualsWhole(t *testing.T) {
	shardA := RunStatistics{Copied: 3, Rewritten: 1, Reformatted: map[string]int{"heic": 1}}
	shardB := RunStatistics{Skipped: 2, Rewritten: 2, GpsAdded: 1, Reformatted: map[string]int{"heic": 2}}

	whole := shardA.Merge(shardB)
	assert.Equal(t, 3, whole.Copied)
	assert.Equal(t, 3, whole.Rewritten)
	assert.Equal(t, 2, whole.Skipped)
	assert.Equal(t, 3, whole.Reformatted["heic"])
	assert.Equal(t, 8, whole.Processed())
}

func TestRecordRewrite(t *testing.T) {
	var stats RunStatistics
	stats.RecordRewrite(&ConvertInfo{Width: 100, Height: 80, Quality: 92, Format: "heic", Gps: &GpsFix{Lat: 1, Lon: 2}})
	stats.RecordRewrite(&ConvertInfo{Gps: &GpsFix{Lat: 1, Lon: 2}})

	assert.Equal(t, 2, stats.Rewritten)
	assert.Equal(t, 1, stats.Resized)
	assert.Equal(t, 1, stats.QualityAdjusted)
	assert.Equal(t, 2, stats.GpsAdded)
	assert.Equal(t, 1, stats.Reformatted["heic"])
}

func TestDryRunStatisticsCountEverythingAsSkipped(t *testing.T) {
	plan := ClonePlan{Items: make([]CloneItem, 2), SkippedExisting: 3, SkippedResume: 1}

	stats := plan.DryRunStatistics()
	assert.Equal(t, 6, stats.Skipped)
	assert.Equal(t, 6, stats.Processed())
	assert.Equal(t, 0, stats.Copied)
	assert.Equal(t, 0, stats.Rewritten)
}

func TestConvertInfoIsNoop(t *testing.T) {
	var nilInfo *ConvertInfo
	assert.True(t, nilInfo.IsNoop())
	assert.True(t, (&ConvertInfo{}).IsNoop())
	assert.False(t, (&ConvertInfo{Gps: &GpsFix{}}).IsNoop())
	assert.False(t, (&ConvertInfo{Quality: 92}).IsNoop())
}
