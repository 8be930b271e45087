// Copyright 2016 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathtools

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

var OsFs FileSystem = osFs{}

func MockFs(files map[string][]byte) FileSystem {
	fs := &mockFs{
		files: make(map[string][]byte, len(files)),
		dirs:  make(map[string]bool),
		all:   []string(nil),
	}

	for f, b := range files {
		fs.files[filepath.Clean(f)] = b
		dir := filepath.Dir(f)
		for dir != "." && dir != "/" {
			fs.dirs[dir] = true
			dir = filepath.Dir(dir)
		}
		fs.dirs[dir] = true
	}

	for f := range fs.files {
		fs.all = append(fs.all, f)
	}

	for d := range fs.dirs {
		fs.all = append(fs.all, d)
	}

	sort.Strings(fs.all)

	return fs
}

type FileSystem interface {
	Open(name string) (io.ReadCloser, error)
	// Exists reports whether name exists and whether it is a directory.
	Exists(name string) (bool, bool, error)
	// Glob returns the files under root whose root-relative slash-separated path matches the
	// doublestar pattern.  Matches are relative to root.
	Glob(root, pattern string) (matches []string, err error)
}

// osFs implements FileSystem using the local disk.
type osFs struct{}

func (osFs) Open(name string) (io.ReadCloser, error) { return os.Open(name) }
func (osFs) Exists(name string) (bool, bool, error) {
	stat, err := os.Stat(name)
	if err == nil {
		return true, stat.IsDir(), nil
	} else if os.IsNotExist(err) {
		return false, false, nil
	} else {
		return false, false, err
	}
}

func (osFs) Glob(root, pattern string) ([]string, error) {
	return doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
}

type mockFs struct {
	files map[string][]byte
	dirs  map[string]bool
	all   []string
}

func (m *mockFs) Open(name string) (io.ReadCloser, error) {
	if f, ok := m.files[filepath.Clean(name)]; ok {
		return io.NopCloser(bytes.NewReader(f)), nil
	}

	return nil, &os.PathError{
		Op:   "open",
		Path: name,
		Err:  os.ErrNotExist,
	}
}

func (m *mockFs) Exists(name string) (bool, bool, error) {
	name = filepath.Clean(name)
	if _, ok := m.files[name]; ok {
		return ok, false, nil
	}
	if _, ok := m.dirs[name]; ok {
		return ok, true, nil
	}
	return false, false, nil
}

func (m *mockFs) Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	root = filepath.Clean(root)
	var matches []string
	for _, f := range m.all {
		if _, isFile := m.files[f]; !isFile {
			continue
		}
		rel := f
		if root != "." {
			if !strings.HasPrefix(f, root+"/") {
				continue
			}
			rel = strings.TrimPrefix(f, root+"/")
		}
		if doublestar.MatchUnvalidated(pattern, filepath.ToSlash(rel)) {
			matches = append(matches, rel)
		}
	}
	return matches, nil
}

// CachedFs memoizes Exists probes of the wrapped FileSystem.  Library classification asks about
// the same system paths for every module that links a library.
type CachedFs struct {
	FileSystem
	exists *lru.Cache[string, existsResult]
}

type existsResult struct {
	exists, isDir bool
}

// NewCachedFs wraps fs with an LRU cache holding up to size Exists results.  Errors are never
// cached.
func NewCachedFs(fs FileSystem, size int) (*CachedFs, error) {
	cache, err := lru.New[string, existsResult](size)
	if err != nil {
		return nil, err
	}
	return &CachedFs{FileSystem: fs, exists: cache}, nil
}

func (c *CachedFs) Exists(name string) (bool, bool, error) {
	name = filepath.Clean(name)
	if r, ok := c.exists.Get(name); ok {
		return r.exists, r.isDir, nil
	}
	exists, isDir, err := c.FileSystem.Exists(name)
	if err != nil {
		return false, false, err
	}
	c.exists.Add(name, existsResult{exists, isDir})
	return exists, isDir, nil
}
