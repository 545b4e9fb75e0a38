package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"camclone/internal/domain"
)

type fakeFS struct {
	files    map[string][]byte
	modTimes map[string]time.Time
	dirs     map[string][]fakeDirEntry

	written map[string][]byte
	copied  map[string]string
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:    map[string][]byte{},
		modTimes: map[string]time.Time{},
		dirs:     map[string][]fakeDirEntry{},
		written:  map[string][]byte{},
		copied:   map[string]string{},
	}
}

func (f *fakeFS) addFile(path string, content []byte, modTime time.Time) {
	f.files[path] = content
	f.modTimes[path] = modTime
}

func (f *fakeFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	paths := make([]string, 0, len(f.files))
	for path := range f.files {
		if strings.HasPrefix(path, root) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	for _, path := range paths {
		entry := fakeDirEntry{name: filepath.Base(path), modTime: f.modTimes[path]}
		if err := fn(path, entry, nil); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	if mod, ok := f.modTimes[path]; ok {
		return fakeFileInfo{name: filepath.Base(path), modTime: mod}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) Exists(path string) (bool, error) {
	if _, ok := f.files[path]; ok {
		return true, nil
	}
	if _, ok := f.written[path]; ok {
		return true, nil
	}
	if _, ok := f.copied[path]; ok {
		return true, nil
	}
	return false, nil
}

func (f *fakeFS) MkdirAll(string, fs.FileMode) error { return nil }

func (f *fakeFS) ReadDir(path string) ([]fs.DirEntry, error) {
	entries, ok := f.dirs[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	out := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return content, nil
}

func (f *fakeFS) WriteFileExcl(path string, data []byte, _ fs.FileMode) error {
	if exists, _ := f.Exists(path); exists {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrExist}
	}
	f.written[path] = data
	return nil
}

func (f *fakeFS) CopyFile(src, dst string) error {
	if exists, _ := f.Exists(dst); exists {
		return &fs.PathError{Op: "open", Path: dst, Err: fs.ErrExist}
	}
	f.copied[dst] = src
	return nil
}

type fakeDirEntry struct {
	name    string
	dir     bool
	modTime time.Time
}

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return e.dir }
func (e fakeDirEntry) Type() fs.FileMode          { return 0 }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return fakeFileInfo{e.name, e.modTime}, nil }

type fakeFileInfo struct {
	name    string
	modTime time.Time
}

func (i fakeFileInfo) Name() string       { return i.name }
func (i fakeFileInfo) Size() int64        { return 0 }
func (i fakeFileInfo) Mode() fs.FileMode  { return 0o644 }
func (i fakeFileInfo) ModTime() time.Time { return i.modTime }
func (i fakeFileInfo) IsDir() bool        { return false }
func (i fakeFileInfo) Sys() any           { return nil }

type fakeInspector struct {
	inspections map[string]domain.Inspection
	failures    map[string]error
}

func (f *fakeInspector) Inspect(_ context.Context, path string) (domain.Inspection, error) {
	if err, ok := f.failures[path]; ok {
		return domain.Inspection{}, err
	}
	if inspection, ok := f.inspections[path]; ok {
		return inspection, nil
	}
	return domain.Inspection{}, errors.New("unexpected path " + path)
}

type fakeCodec struct {
	calls []*domain.ConvertInfo
	fail  error
}

func (f *fakeCodec) Rewrite(_ context.Context, blob []byte, _ string, info *domain.ConvertInfo) ([]byte, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.calls = append(f.calls, info)
	return append([]byte("transformed:"), blob...), nil
}

type fakeGpsWriter struct {
	calls []domain.GpsFix
	fail  error
}

func (f *fakeGpsWriter) AddGps(_ context.Context, blob []byte, fix domain.GpsFix) ([]byte, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.calls = append(f.calls, fix)
	return append([]byte("gps:"), blob...), nil
}
