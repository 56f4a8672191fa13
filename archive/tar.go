package archive

import (
	"archive/tar"
	"io"

	"github.com/lattice-web/lattice/contracts"
)

type TarArchiveWriter struct {
	*tar.Writer
}

func NewTarArchiveWriter(writer io.Writer) *TarArchiveWriter {
	return &TarArchiveWriter{Writer: tar.NewWriter(writer)}
}

func (this *TarArchiveWriter) WriteHeader(header contracts.ArchiveHeader) error {
	tarHeader := &tar.Header{
		Name:    header.Name,
		Size:    header.Size,
		ModTime: header.ModTime,
		Mode:    0644,
	}
	if header.Executable {
		tarHeader.Mode = 0755
	}
	if header.LinkName != "" {
		tarHeader.Typeflag = tar.TypeSymlink
		tarHeader.Linkname = header.LinkName
		tarHeader.Size = 0
	}
	if header.Directory {
		tarHeader.Typeflag = tar.TypeDir
		tarHeader.Mode = 0755
		tarHeader.Size = 0
	}
	return this.Writer.WriteHeader(tarHeader)
}
