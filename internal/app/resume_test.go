package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeResumePointPicksLatestDayDir(t *testing.T) {
	fsys := newFakeFS()
	fsys.dirs["/dst"] = []fakeDirEntry{
		{name: "2022", dir: true, modTime: time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "2023", dir: true, modTime: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC)},
		{name: "exports", dir: true, modTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "index.db", modTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	fsys.dirs["/dst/2023"] = []fakeDirEntry{
		{name: "2023-01-15", dir: true, modTime: time.Date(2023, 1, 15, 9, 0, 0, 0, time.UTC)},
		{name: "2023-02-03", dir: true, modTime: time.Date(2023, 2, 3, 9, 0, 0, 0, time.UTC)},
	}

	resume := ComputeResumePoint(fsys, "/dst")
	require.NotNil(t, resume)
	assert.Equal(t, time.Date(2023, 2, 3, 0, 0, 0, 0, time.Local), *resume)
}

func TestComputeResumePointFallsBackToYearStart(t *testing.T) {
	fsys := newFakeFS()
	fsys.dirs["/dst"] = []fakeDirEntry{
		{name: "2023", dir: true, modTime: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	fsys.dirs["/dst/2023"] = nil

	resume := ComputeResumePoint(fsys, "/dst")
	require.NotNil(t, resume)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local), *resume)
}

func TestComputeResumePointEmptyArchive(t *testing.T) {
	fsys := newFakeFS()
	fsys.dirs["/dst"] = []fakeDirEntry{
		{name: "misc", dir: true, modTime: time.Now()},
	}

	assert.Nil(t, ComputeResumePoint(fsys, "/dst"))
	assert.Nil(t, ComputeResumePoint(fsys, "/missing"))
}

func TestParseAfter(t *testing.T) {
	cases := map[string]time.Time{
		"2023":       time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local),
		"2023-02":    time.Date(2023, 2, 1, 0, 0, 0, 0, time.Local),
		"2023-02-03": time.Date(2023, 2, 3, 0, 0, 0, 0, time.Local),
	}
	for input, want := range cases {
		got, err := ParseAfter(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseAfter("Feb 3 2023")
	assert.Error(t, err)
	_, err = ParseAfter("2023/02/03")
	assert.Error(t, err)
}

func TestDestinationDir(t *testing.T) {
	takenAt := time.Date(2023, 2, 3, 5, 29, 40, 0, time.UTC)
	assert.Equal(t, "/dst/2023/2023-02-03", DestinationDir("/dst", takenAt))
}
