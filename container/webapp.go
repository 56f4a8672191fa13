// Package container implements the binary envelope that bundles contract
// metadata with a compressed archive of a web application's static assets:
//
//	[u64be metadata length][metadata][u64be web length][web]
//
// The web payload is an xz-compressed tar archive and stays compressed for
// the lifetime of a WebApp value; every extraction derives a fresh
// decompression stream over it, so extraction is repeatable. Both length
// fields are untrusted on the parse path and are validated against fixed
// caps before any buffer of the claimed size is allocated.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/lattice-web/lattice/archive"
	"github.com/lattice-web/lattice/contracts"
)

const (
	MaxMetadataSize = 1024
	MaxWebSize      = 1024 * 1024 * 100
)

// 8 MiB dictionary, the ratio/speed tradeoff of the xz -6 preset.
const compressionDictCap = 8 << 20

type WebApp struct {
	Metadata []byte
	Web      []byte
}

// FromData finalizes the archive builder, compresses the result, and holds
// metadata plus compressed bytes. A failure here means the in-memory build
// itself went wrong, not that any input was malformed.
func FromData(metadata []byte, web *Builder) (*WebApp, error) {
	raw, err := web.finalize()
	if err != nil {
		return nil, fmt.Errorf("finalizing web archive: %w", err)
	}
	compressed, err := compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compressing web archive: %w", err)
	}
	return &WebApp{Metadata: metadata, Web: compressed}, nil
}

// FromCompressed stores metadata and already-compressed archive bytes
// verbatim.
func FromCompressed(metadata, compressedWeb []byte) *WebApp {
	return &WebApp{Metadata: metadata, Web: compressedWeb}
}

// Parse reconstructs a WebApp from an untrusted flat byte buffer. Each
// length field is validated against its cap before the destination buffer
// is allocated; the web payload is kept compressed exactly as received.
func Parse(state []byte) (*WebApp, error) {
	metadata, state, err := readLengthPrefixed(state, "metadata", MaxMetadataSize)
	if err != nil {
		return nil, err
	}
	web, _, err := readLengthPrefixed(state, "web", MaxWebSize)
	if err != nil {
		return nil, err
	}
	return &WebApp{Metadata: metadata, Web: web}, nil
}

func readLengthPrefixed(state []byte, field string, limit uint64) (value, rest []byte, err error) {
	if len(state) < 8 {
		return nil, nil, &ParseError{Reason: fmt.Sprintf(
			"reading %s length: need 8 bytes, have %d", field, len(state))}
	}
	length := binary.BigEndian.Uint64(state[:8])
	state = state[8:]
	if length > limit {
		return nil, nil, &ParseError{Reason: fmt.Sprintf(
			"%s length of %d bytes exceeds the limit of %d bytes", field, length, limit)}
	}
	if uint64(len(state)) < length {
		return nil, nil, &ParseError{Reason: fmt.Sprintf(
			"%s truncated: declared %d bytes, have %d", field, length, len(state))}
	}
	value = make([]byte, length)
	copy(value, state)
	return value, state[length:], nil
}

// Pack serializes the value into a single flat buffer suitable for storage
// or transmission as contract state. Both internal buffers are moved into
// the output; the receiver is spent afterwards.
func (this *WebApp) Pack() ([]byte, error) {
	output := bytes.NewBuffer(make([]byte, 0, len(this.Metadata)+len(this.Web)+16))
	err := writeLengthPrefixed(output, this.Metadata)
	if err != nil {
		return nil, err
	}
	err = writeLengthPrefixed(output, this.Web)
	if err != nil {
		return nil, err
	}
	this.Metadata = nil
	this.Web = nil
	return output.Bytes(), nil
}

func writeLengthPrefixed(output *bytes.Buffer, field []byte) error {
	err := binary.Write(output, binary.BigEndian, uint64(len(field)))
	if err != nil {
		return err
	}
	_, err = output.Write(field)
	return err
}

// Unpack decompresses the web payload and extracts every entry beneath the
// destination directory, preserving entry paths and content. Filesystem
// failures surface as StorageError; anything wrong with the archive itself
// surfaces as ParseError.
func (this *WebApp) Unpack(destination string) error {
	reader, err := this.decodeWeb()
	if err != nil {
		return err
	}
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Reason: "reading archive entry", Cause: err}
		}
		err = extractEntry(destination, header, reader)
		if err != nil {
			return err
		}
	}
}

// GetFile scans the archive in entry order and returns the contents of the
// first entry whose path matches exactly, without touching the filesystem.
// Each call derives an independent read cursor over the compressed bytes,
// so repeated calls always see the archive from the beginning.
func (this *WebApp) GetFile(path string) ([]byte, error) {
	reader, err := this.decodeWeb()
	if err != nil {
		return nil, err
	}
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil, &NotFoundError{Path: path}
		}
		if err != nil {
			return nil, &ParseError{Reason: "reading archive entry", Cause: err}
		}
		if header.Name != path {
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			return nil, &ParseError{
				Reason: fmt.Sprintf("reading contents of %q", path), Cause: err}
		}
		return content, nil
	}
}

func (this *WebApp) decodeWeb() (contracts.ArchiveReader, error) {
	decoder, err := xz.NewReader(bytes.NewReader(this.Web))
	if err != nil {
		return nil, &ParseError{Reason: "opening compressed web content", Cause: err}
	}
	return archive.NewTarArchiveReader(decoder), nil
}

func compress(raw []byte) ([]byte, error) {
	buffer := new(bytes.Buffer)
	encoder, err := xz.WriterConfig{DictCap: compressionDictCap}.NewWriter(buffer)
	if err != nil {
		return nil, err
	}
	_, err = encoder.Write(raw)
	if err != nil {
		return nil, err
	}
	err = encoder.Close()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func extractEntry(destination string, header contracts.ArchiveHeader, content io.Reader) error {
	target, err := entryTarget(destination, header.Name)
	if err != nil {
		return err
	}
	if header.Directory {
		return storing(os.MkdirAll(target, 0755))
	}
	if header.LinkName != "" {
		// The link source must resolve inside the destination too.
		source := header.LinkName
		if !filepath.IsAbs(source) {
			source = filepath.Join(filepath.Dir(header.Name), source)
		}
		_, err = entryTarget(destination, source)
		if err != nil {
			return err
		}
		return storing(createSymlink(header.LinkName, target))
	}
	err = os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return &StorageError{Cause: err}
	}
	mode := os.FileMode(0644)
	if header.Executable {
		mode = 0755
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return &StorageError{Cause: err}
	}
	_, copyErr := io.Copy(file, content)
	closeErr := file.Close()
	if copyErr != nil {
		return &StorageError{Cause: copyErr}
	}
	return storing(closeErr)
}

// entryTarget rejects entries whose cleaned path would land outside the
// destination; a hostile archive is bad input, not a local failure.
func entryTarget(destination, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." ||
		strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", &ParseError{Reason: fmt.Sprintf(
			"entry %q escapes the destination directory", name)}
	}
	return filepath.Join(destination, cleaned), nil
}

func createSymlink(source, target string) error {
	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(source, target)
}

func storing(err error) error {
	if err != nil {
		return &StorageError{Cause: err}
	}
	return nil
}
