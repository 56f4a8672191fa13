package archive

import (
	"archive/tar"
	"io"

	"github.com/lattice-web/lattice/contracts"
)

type TarArchiveReader struct {
	reader *tar.Reader
}

func NewTarArchiveReader(reader io.Reader) *TarArchiveReader {
	return &TarArchiveReader{reader: tar.NewReader(reader)}
}

// Next advances to the next entry and returns its header.
// It returns io.EOF once the archive is exhausted.
func (this *TarArchiveReader) Next() (contracts.ArchiveHeader, error) {
	tarHeader, err := this.reader.Next()
	if err != nil {
		return contracts.ArchiveHeader{}, err
	}
	return contracts.ArchiveHeader{
		Name:       tarHeader.Name,
		Size:       tarHeader.Size,
		ModTime:    tarHeader.ModTime,
		LinkName:   tarHeader.Linkname,
		Directory:  tarHeader.Typeflag == tar.TypeDir,
		Executable: contracts.IsExecutable(tarHeader.FileInfo().Mode()),
	}, nil
}

// Read reads the contents of the current entry.
func (this *TarArchiveReader) Read(buffer []byte) (int, error) {
	return this.reader.Read(buffer)
}
