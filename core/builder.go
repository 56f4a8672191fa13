package core

import (
	"fmt"
	"hash"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/lattice-web/lattice/contracts"
)

type PackageBuilder interface {
	Build() error
	Contents() []contracts.ArchiveItem
}

type DirectoryPackageBuilderFileSystem interface {
	contracts.PathLister
	contracts.FileOpener
	contracts.RootPath
}

// DirectoryPackageBuilder streams every file beneath a root directory into
// an archive writer, recording a per-entry md5 inventory as it goes. A
// single regular file is archived under its basename.
type DirectoryPackageBuilder struct {
	storage      DirectoryPackageBuilderFileSystem
	archive      contracts.ArchiveWriter
	hasher       hash.Hash
	contents     []contracts.ArchiveItem
	showProgress bool
}

func NewDirectoryPackageBuilder(
	storage DirectoryPackageBuilderFileSystem,
	archive contracts.ArchiveWriter,
	hasher hash.Hash,
	showProgress bool,
) *DirectoryPackageBuilder {
	return &DirectoryPackageBuilder{
		storage:      storage,
		archive:      archive,
		hasher:       hasher,
		showProgress: showProgress,
	}
}

func (this *DirectoryPackageBuilder) Build() error {
	listing, err := this.storage.Listing()
	if err != nil {
		return err
	}
	if fileInfo, ok := fileOnly(listing); ok {
		err = this.add(fileInfo, true)
		if err != nil {
			return err
		}
	} else {
		for _, file := range listing {
			err = this.add(file, false)
			if err != nil {
				return err
			}
		}
	}
	return this.archive.Close()
}

func (this *DirectoryPackageBuilder) add(file contracts.FileInfo, fileOnly bool) error {
	log.Printf("Adding \"%s\" to archive.", file.Path())
	header, err := this.buildHeader(file, fileOnly)
	if err != nil {
		return err
	}
	err = this.archive.WriteHeader(header)
	if err != nil {
		return err
	}
	err = this.archiveContents(file, header.LinkName)
	if err != nil {
		return err
	}
	this.contents = append(this.contents, this.buildManifestEntry(file, header))
	return nil
}

func (this *DirectoryPackageBuilder) archiveContents(file contracts.FileInfo, symlinkSourcePath string) error {
	if symlinkSourcePath != "" {
		_, _ = io.WriteString(this.hasher, symlinkSourcePath)
		return nil
	}
	progress := newArchiveProgressCounter(file.Size(), func(archived, total string) {
		if this.showProgress {
			fmt.Printf("\033[2K\rArchived %s of %s.", archived, total)
		}
	})
	defer func() { _ = progress.Close() }()
	writer := io.MultiWriter(this.hasher, this.archive, progress)
	reader, err := this.storage.Open(file.Path())
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()
	_, err = io.Copy(writer, reader)
	return err
}

func (this *DirectoryPackageBuilder) buildHeader(file contracts.FileInfo, fileOnly bool) (header contracts.ArchiveHeader, err error) {
	header.Name = this.archivePath(file, fileOnly)
	header.Size = file.Size()
	header.ModTime = file.ModTime()
	header.Executable = contracts.IsExecutable(file.Mode())
	if file.Symlink() == "" {
		return header, nil
	}
	if this.outOfBounds(file) {
		return header, this.symlinkOutOfBoundError(file)
	}
	header.LinkName, err = this.relativeLinkSourcePath(file)
	return header, err
}

func (this *DirectoryPackageBuilder) archivePath(file contracts.FileInfo, fileOnly bool) string {
	if fileOnly {
		return filepath.Base(file.Path())
	}
	return strings.TrimPrefix(file.Path(), this.storage.RootPath()+"/")
}

func (this *DirectoryPackageBuilder) relativeLinkSourcePath(file contracts.FileInfo) (string, error) {
	path := file.Symlink()
	if this.isAbsolute(path) {
		return filepath.Rel(filepath.Dir(file.Path()), path)
	}
	joined := filepath.Join(filepath.Dir(file.Path()), path)
	path = filepath.Clean(joined)
	return filepath.Rel(filepath.Dir(file.Path()), path)
}

func (this *DirectoryPackageBuilder) symlinkOutOfBoundError(file contracts.FileInfo) error {
	return fmt.Errorf(
		"the file \"%s\" is a symlink that refers to \"%s\" which is outside of the configured root directory: \"%s\"",
		file.Path(),
		file.Symlink(),
		this.storage.RootPath())
}

func (this *DirectoryPackageBuilder) buildManifestEntry(file contracts.FileInfo, header contracts.ArchiveHeader) contracts.ArchiveItem {
	defer this.hasher.Reset()
	return contracts.ArchiveItem{
		Path:        header.Name,
		Size:        determineFileSize(file, header.LinkName),
		MD5Checksum: this.hasher.Sum(nil),
	}
}

func determineFileSize(file contracts.FileInfo, symlinkSourcePath string) int64 {
	if symlinkSourcePath == "" {
		return file.Size()
	}
	return int64(len(symlinkSourcePath))
}

func (this *DirectoryPackageBuilder) Contents() []contracts.ArchiveItem {
	return this.contents
}

func (this *DirectoryPackageBuilder) outOfBounds(info contracts.FileInfo) bool {
	if this.isAbsolute(info.Symlink()) {
		return !strings.HasPrefix(info.Symlink(), this.storage.RootPath())
	}
	cleaned := filepath.Clean(filepath.Join(filepath.Dir(info.Path()), info.Symlink()))
	return !strings.HasPrefix(cleaned, this.storage.RootPath())
}

func (this *DirectoryPackageBuilder) isAbsolute(path string) bool {
	return strings.HasPrefix(path, "/")
}

func fileOnly(listing []contracts.FileInfo) (contracts.FileInfo, bool) {
	if len(listing) == 1 && listing[0].Mode().IsRegular() {
		return listing[0], true
	}
	return nil, false
}
