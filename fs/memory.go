package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/lattice-web/lattice/contracts"
)

// InMemoryModTime is stamped on every file so tests can assert on headers.
var InMemoryModTime = time.Date(2023, time.March, 14, 15, 9, 26, 0, time.UTC)

type InMemoryFileSystem struct {
	root  string
	files map[string]*memoryFile
}

func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{files: make(map[string]*memoryFile)}
}

func (this *InMemoryFileSystem) RootPath() string {
	return this.root
}

func (this *InMemoryFileSystem) Listing() ([]contracts.FileInfo, error) {
	var paths []string
	for path := range this.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	var listing []contracts.FileInfo
	for _, path := range paths {
		listing = append(listing, this.fileInfo(path))
	}
	return listing, nil
}

func (this *InMemoryFileSystem) Open(path string) (io.ReadCloser, error) {
	file, found := this.files[path]
	if !found {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(file.content)), nil
}

func (this *InMemoryFileSystem) Create(path string) (io.WriteCloser, error) {
	file := &memoryFile{mode: 0644}
	this.files[path] = file
	return file, nil
}

func (this *InMemoryFileSystem) ReadFile(path string) ([]byte, error) {
	file, found := this.files[path]
	if !found {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return file.content, nil
}

func (this *InMemoryFileSystem) WriteFile(path string, content []byte) error {
	this.files[path] = &memoryFile{content: content, mode: 0644}
	return nil
}

func (this *InMemoryFileSystem) WriteSymlink(path, source string) {
	this.files[path] = &memoryFile{symlink: source, mode: 0644 | os.ModeSymlink}
}

func (this *InMemoryFileSystem) Chmod(path string, mode os.FileMode) {
	this.files[path].mode = mode
}

func (this *InMemoryFileSystem) fileInfo(path string) FileInfo {
	file := this.files[path]
	return FileInfo{
		path:    path,
		size:    int64(len(file.content)),
		symlink: file.symlink,
		mode:    file.mode,
	}
}

type memoryFile struct {
	content []byte
	symlink string
	mode    os.FileMode
}

func (this *memoryFile) Write(p []byte) (int, error) {
	this.content = append(this.content, p...)
	return len(p), nil
}

func (this *memoryFile) Close() error { return nil }

////////////////////////////////////////

type FileInfo struct {
	path    string
	size    int64
	symlink string
	mode    os.FileMode
}

func (this FileInfo) Path() string       { return this.path }
func (this FileInfo) Size() int64        { return this.size }
func (this FileInfo) ModTime() time.Time { return InMemoryModTime }
func (this FileInfo) Symlink() string    { return this.symlink }
func (this FileInfo) Mode() os.FileMode  { return this.mode }
