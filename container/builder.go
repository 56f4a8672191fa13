package container

import (
	"bytes"

	"github.com/lattice-web/lattice/archive"
	"github.com/lattice-web/lattice/contracts"
)

// Builder accumulates an in-memory, not-yet-finalized archive of named
// entries. It satisfies contracts.ArchiveWriter so directory packagers can
// stream into it; AddFile is the shortcut for callers that already hold the
// entry contents. FromData finalizes the builder and compresses the result.
type Builder struct {
	buffer *bytes.Buffer
	writer *archive.TarArchiveWriter
	closed bool
}

func NewBuilder() *Builder {
	buffer := new(bytes.Buffer)
	return &Builder{buffer: buffer, writer: archive.NewTarArchiveWriter(buffer)}
}

func (this *Builder) AddFile(name string, content []byte) error {
	header := contracts.ArchiveHeader{Name: name, Size: int64(len(content))}
	err := this.WriteHeader(header)
	if err != nil {
		return err
	}
	_, err = this.Write(content)
	return err
}

func (this *Builder) WriteHeader(header contracts.ArchiveHeader) error {
	return this.writer.WriteHeader(header)
}

func (this *Builder) Write(content []byte) (int, error) {
	return this.writer.Write(content)
}

func (this *Builder) Close() error {
	if this.closed {
		return nil
	}
	this.closed = true
	return this.writer.Close()
}

// finalize closes the archive (writing the trailing blocks) and returns the
// flat, uncompressed archive bytes.
func (this *Builder) finalize() ([]byte, error) {
	err := this.Close()
	if err != nil {
		return nil, err
	}
	return this.buffer.Bytes(), nil
}
