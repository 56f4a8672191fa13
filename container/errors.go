package container

import "fmt"

// The codec reports exactly three kinds of failure. ParseError covers
// everything wrong with the bytes themselves (malformed lengths, truncation,
// cap violations, a corrupt compression stream or archive). StorageError
// covers local filesystem failures during Unpack. NotFoundError is the
// expected outcome of probing for an entry that is not in the archive.

type ParseError struct {
	Reason string
	Cause  error
}

func (this *ParseError) Error() string {
	if this.Cause != nil {
		return fmt.Sprintf("unpacking error: %s: %s", this.Reason, this.Cause)
	}
	return "unpacking error: " + this.Reason
}

func (this *ParseError) Unwrap() error { return this.Cause }

type StorageError struct {
	Cause error
}

func (this *StorageError) Error() string { return "storing error: " + this.Cause.Error() }

func (this *StorageError) Unwrap() error { return this.Cause }

type NotFoundError struct {
	Path string
}

func (this *NotFoundError) Error() string { return "file not found: " + this.Path }
