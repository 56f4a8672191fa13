package contracts

import (
	"io"
	"os"
	"time"
)

type PathLister interface {
	Listing() ([]FileInfo, error)
}

type FileOpener interface {
	Open(path string) (io.ReadCloser, error)
}

type FileCreator interface {
	Create(path string) (io.WriteCloser, error)
}

type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type FileWriter interface {
	WriteFile(path string, content []byte) error
}

type RootPath interface {
	RootPath() string
}

type FileSystem interface {
	PathLister
	FileOpener
	FileCreator
	FileReader
	FileWriter
	RootPath
}

type FileInfo interface {
	Path() string
	Size() int64
	ModTime() time.Time
	Symlink() string
	Mode() os.FileMode
}

func IsExecutable(mode os.FileMode) bool {
	return mode.Perm()&0111 > 0
}
