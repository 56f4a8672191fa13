// Package store provides contract state stores: bytes in, bytes out, keyed
// by contract id. The disk store compresses records on the way down; the
// memory store backs local mode and tests.
package store

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/lattice-web/lattice/contracts"
)

type DiskStateStore struct {
	root  string
	codec recordCodec
}

// NewDiskStateStore keeps one compressed file per contract id under root.
// Supported algorithms: "zstd", "gzip".
func NewDiskStateStore(root, algorithm string) (*DiskStateStore, error) {
	codec, found := compression[algorithm]
	if !found {
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, err
	}
	return &DiskStateStore{root: filepath.Clean(root), codec: codec}, nil
}

func (this *DiskStateStore) Put(id string, state []byte) error {
	compressed, err := this.codec.compress(state)
	if err != nil {
		return err
	}
	err = os.WriteFile(this.recordPath(id), compressed, 0644)
	if err != nil {
		return fmt.Errorf("writing state for %q: %v: %w", id, err, contracts.RetryErr)
	}
	return nil
}

func (this *DiskStateStore) Get(id string) ([]byte, error) {
	compressed, err := os.ReadFile(this.recordPath(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrStateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading state for %q: %v: %w", id, err, contracts.RetryErr)
	}
	return this.codec.decompress(compressed)
}

func (this *DiskStateStore) recordPath(id string) string {
	return filepath.Join(this.root, url.PathEscape(id)+this.codec.extension)
}

////////////////////////////////////////

type recordCodec struct {
	extension  string
	compress   func(state []byte) ([]byte, error)
	decompress func(record []byte) ([]byte, error)
}

var compression = map[string]recordCodec{
	"zstd": {
		extension: ".zst",
		compress: func(state []byte) ([]byte, error) {
			encoder, err := zstd.NewWriter(nil)
			if err != nil {
				return nil, err
			}
			defer func() { _ = encoder.Close() }()
			return encoder.EncodeAll(state, nil), nil
		},
		decompress: func(record []byte) ([]byte, error) {
			decoder, err := zstd.NewReader(nil)
			if err != nil {
				return nil, err
			}
			defer decoder.Close()
			return decoder.DecodeAll(record, nil)
		},
	},
	"gzip": {
		extension: ".gz",
		compress: func(state []byte) ([]byte, error) {
			buffer := new(bytes.Buffer)
			compressor := gzip.NewWriter(buffer)
			_, err := compressor.Write(state)
			if err != nil {
				return nil, err
			}
			err = compressor.Close()
			if err != nil {
				return nil, err
			}
			return buffer.Bytes(), nil
		},
		decompress: func(record []byte) ([]byte, error) {
			decompressor, err := gzip.NewReader(bytes.NewReader(record))
			if err != nil {
				return nil, err
			}
			defer func() { _ = decompressor.Close() }()
			return io.ReadAll(decompressor)
		},
	},
}
