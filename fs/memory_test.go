package fs

import (
	"io"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestMemoryFixture(t *testing.T) {
	gunit.Run(new(MemoryFixture), t)
}

type MemoryFixture struct {
	*gunit.Fixture
	fileSystem *InMemoryFileSystem
}

func (this *MemoryFixture) Setup() {
	this.fileSystem = NewInMemoryFileSystem()
}

func (this *MemoryFixture) TestWriteFileReadFile() {
	this.So(this.fileSystem.WriteFile("/file.txt", []byte("Hello World")), should.BeNil)

	content, err := this.fileSystem.ReadFile("/file.txt")

	this.So(err, should.BeNil)
	this.So(content, should.Resemble, []byte("Hello World"))
}

func (this *MemoryFixture) TestOpenReadsWrittenContent() {
	this.So(this.fileSystem.WriteFile("/file.txt", []byte("Hello World")), should.BeNil)

	reader, err := this.fileSystem.Open("/file.txt")
	this.So(err, should.BeNil)
	content, err := io.ReadAll(reader)

	this.So(err, should.BeNil)
	this.So(content, should.Resemble, []byte("Hello World"))
}

func (this *MemoryFixture) TestOpenMissingFileFails() {
	reader, err := this.fileSystem.Open("/nope.txt")

	this.So(reader, should.BeNil)
	this.So(err, should.NotBeNil)
}

func (this *MemoryFixture) TestListingIsSortedByPath() {
	this.So(this.fileSystem.WriteFile("b.txt", []byte("bb")), should.BeNil)
	this.So(this.fileSystem.WriteFile("a.txt", []byte("a")), should.BeNil)
	this.So(this.fileSystem.WriteFile("sub/c.txt", []byte("ccc")), should.BeNil)

	listing, err := this.fileSystem.Listing()

	this.So(err, should.BeNil)
	this.So(len(listing), should.Equal, 3)
	this.So(listing[0].Path(), should.Equal, "a.txt")
	this.So(listing[1].Path(), should.Equal, "b.txt")
	this.So(listing[2].Path(), should.Equal, "sub/c.txt")
	this.So(listing[0].Size(), should.Equal, 1)
	this.So(listing[0].ModTime(), should.Equal, InMemoryModTime)
}

func (this *MemoryFixture) TestCreateAccumulatesWrites() {
	writer, err := this.fileSystem.Create("/file.txt")
	this.So(err, should.BeNil)
	_, _ = writer.Write([]byte("Hello "))
	_, _ = writer.Write([]byte("World"))
	this.So(writer.Close(), should.BeNil)

	content, err := this.fileSystem.ReadFile("/file.txt")
	this.So(err, should.BeNil)
	this.So(content, should.Resemble, []byte("Hello World"))
}

func (this *MemoryFixture) TestSymlinksAppearInListing() {
	this.fileSystem.WriteSymlink("link.txt", "target.txt")

	listing, err := this.fileSystem.Listing()

	this.So(err, should.BeNil)
	this.So(listing[0].Symlink(), should.Equal, "target.txt")
}
