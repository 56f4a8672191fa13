package contracts

import (
	"io"
	"time"
)

type ArchiveWriter interface {
	io.WriteCloser
	WriteHeader(header ArchiveHeader) error
}

type ArchiveReader interface {
	io.Reader
	Next() (ArchiveHeader, error)
}

type ArchiveHeader struct {
	Name       string
	Size       int64
	ModTime    time.Time
	LinkName   string
	Directory  bool
	Executable bool
}

type ArchiveItem struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	MD5Checksum []byte `json:"md5_checksum"`
}

type Manifest struct {
	Name     string        `json:"name"`
	Version  string        `json:"version"`
	Created  time.Time     `json:"created"`
	Contents []ArchiveItem `json:"contents"`
}
