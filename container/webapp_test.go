package container

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestWebAppFixture(t *testing.T) {
	gunit.Run(new(WebAppFixture), t)
}

type WebAppFixture struct {
	*gunit.Fixture
	app *WebApp
}

func (this *WebAppFixture) Setup() {
	builder := NewBuilder()
	this.So(builder.AddFile("index.html", []byte("<html></html>")), should.BeNil)
	this.So(builder.AddFile("style/site.css", []byte("body { margin: 0 }")), should.BeNil)
	app, err := FromData([]byte("v1"), builder)
	this.So(err, should.BeNil)
	this.app = app
}

func (this *WebAppFixture) TestPackedEnvelopeLayout() {
	web := append([]byte(nil), this.app.Web...)

	packed, err := this.app.Pack()

	this.So(err, should.BeNil)
	this.So(packed[:8], should.Resemble, []byte{0, 0, 0, 0, 0, 0, 0, 2})
	this.So(packed[8:10], should.Resemble, []byte("v1"))
	this.So(binary.BigEndian.Uint64(packed[10:18]), should.Equal, uint64(len(web)))
	this.So(packed[18:], should.Resemble, web)
}

func (this *WebAppFixture) TestPackSpendsTheValue() {
	_, err := this.app.Pack()

	this.So(err, should.BeNil)
	this.So(this.app.Metadata, should.BeNil)
	this.So(this.app.Web, should.BeNil)
}

func (this *WebAppFixture) TestRoundTrip() {
	metadata := append([]byte(nil), this.app.Metadata...)
	web := append([]byte(nil), this.app.Web...)

	packed, err := this.app.Pack()
	this.So(err, should.BeNil)
	parsed, err := Parse(packed)

	this.So(err, should.BeNil)
	this.So(parsed.Metadata, should.Resemble, metadata)
	this.So(parsed.Web, should.Resemble, web)
}

func (this *WebAppFixture) TestRoundTripOfPreCompressedBytes() {
	// Parse validates the envelope, not the payload, so any bytes survive.
	app := FromCompressed([]byte("meta"), []byte("opaque-compressed-bytes"))

	packed, err := app.Pack()
	this.So(err, should.BeNil)
	parsed, err := Parse(packed)

	this.So(err, should.BeNil)
	this.So(parsed.Metadata, should.Resemble, []byte("meta"))
	this.So(parsed.Web, should.Resemble, []byte("opaque-compressed-bytes"))
}

func (this *WebAppFixture) TestParseRejectsMetadataBeyondTheCap() {
	state := envelope(MaxMetadataSize+1, nil, 0, nil)

	parsed, err := Parse(state)

	this.So(parsed, should.BeNil)
	this.So(err, shouldBeParseError)
	this.So(err.Error(), should.ContainSubstring, "1025")
}

func (this *WebAppFixture) TestParseAcceptsMetadataAtTheCap() {
	metadata := make([]byte, MaxMetadataSize)
	state := envelope(MaxMetadataSize, metadata, 0, nil)

	parsed, err := Parse(state)

	this.So(err, should.BeNil)
	this.So(len(parsed.Metadata), should.Equal, MaxMetadataSize)
}

func (this *WebAppFixture) TestParseRejectsWebBeyondTheCap() {
	state := envelope(0, nil, MaxWebSize+1, nil)

	parsed, err := Parse(state)

	this.So(parsed, should.BeNil)
	this.So(err, shouldBeParseError)
	this.So(err.Error(), should.ContainSubstring, "104857601")
}

func (this *WebAppFixture) TestParseFailsOnTruncatedMetadataLength() {
	parsed, err := Parse([]byte{0, 0, 0})

	this.So(parsed, should.BeNil)
	this.So(err, shouldBeParseError)
}

func (this *WebAppFixture) TestParseFailsOnTruncatedMetadata() {
	state := envelope(10, []byte("only4"), 0, nil)

	parsed, err := Parse(state[:12])

	this.So(parsed, should.BeNil)
	this.So(err, shouldBeParseError)
}

func (this *WebAppFixture) TestParseFailsOnTruncatedWebLength() {
	state := envelope(2, []byte("v1"), 0, nil)

	parsed, err := Parse(state[:14])

	this.So(parsed, should.BeNil)
	this.So(err, shouldBeParseError)
}

func (this *WebAppFixture) TestParseFailsOnTruncatedWeb() {
	state := envelope(2, []byte("v1"), 100, []byte("short"))

	parsed, err := Parse(state)

	this.So(parsed, should.BeNil)
	this.So(err, shouldBeParseError)
}

func (this *WebAppFixture) TestGetFileReturnsEntryContent() {
	content, err := this.app.GetFile("index.html")

	this.So(err, should.BeNil)
	this.So(content, should.Resemble, []byte("<html></html>"))
}

func (this *WebAppFixture) TestGetFileIsRepeatable() {
	first, err := this.app.GetFile("style/site.css")
	this.So(err, should.BeNil)
	second, err := this.app.GetFile("style/site.css")
	this.So(err, should.BeNil)

	this.So(first, should.Resemble, second)
}

func (this *WebAppFixture) TestGetFileAfterParseRoundTrip() {
	packed, err := this.app.Pack()
	this.So(err, should.BeNil)
	parsed, err := Parse(packed)
	this.So(err, should.BeNil)

	content, err := parsed.GetFile("index.html")

	this.So(err, should.BeNil)
	this.So(content, should.Resemble, []byte("<html></html>"))
}

func (this *WebAppFixture) TestGetFileMissingEntryIsNotFound() {
	content, err := this.app.GetFile("missing.css")

	this.So(content, should.BeNil)
	notFound, ok := err.(*NotFoundError)
	this.So(ok, should.BeTrue)
	this.So(notFound.Path, should.Equal, "missing.css")
	this.So(err.Error(), should.ContainSubstring, "missing.css")
}

func (this *WebAppFixture) TestCorruptArchiveIsDistinctFromNotFound() {
	app := FromCompressed([]byte("v1"), []byte("this is not an xz stream"))

	content, err := app.GetFile("index.html")

	this.So(content, should.BeNil)
	this.So(err, shouldBeParseError)
}

func (this *WebAppFixture) TestUnpackMaterializesEveryEntry() {
	destination := this.tempDir()

	// A prior GetFile must not advance any shared iteration state.
	_, err := this.app.GetFile("index.html")
	this.So(err, should.BeNil)

	this.So(this.app.Unpack(destination), should.BeNil)
	this.assertFileContents(filepath.Join(destination, "index.html"), "<html></html>")
	this.assertFileContents(filepath.Join(destination, "style", "site.css"), "body { margin: 0 }")
}

func (this *WebAppFixture) TestUnpackIsRepeatable() {
	first := this.tempDir()
	second := this.tempDir()

	this.So(this.app.Unpack(first), should.BeNil)
	this.So(this.app.Unpack(second), should.BeNil)
	this.assertFileContents(filepath.Join(second, "index.html"), "<html></html>")
}

func (this *WebAppFixture) TestUnpackReportsStorageErrors() {
	destination := filepath.Join(this.tempDir(), "occupied")
	this.So(os.WriteFile(destination, []byte("a file, not a directory"), 0644), should.BeNil)

	err := this.app.Unpack(filepath.Join(destination, "nested"))

	storing, ok := err.(*StorageError)
	this.So(ok, should.BeTrue)
	this.So(storing.Unwrap(), should.NotBeNil)
}

func (this *WebAppFixture) TestUnpackRejectsEscapingEntries() {
	builder := NewBuilder()
	this.So(builder.AddFile("../evil.txt", []byte("outside")), should.BeNil)
	app, err := FromData(nil, builder)
	this.So(err, should.BeNil)
	destination := this.tempDir()

	err = app.Unpack(destination)

	this.So(err, shouldBeParseError)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(destination), "evil.txt"))
	this.So(os.IsNotExist(statErr), should.BeTrue)
}

func (this *WebAppFixture) TestUnpackOfCorruptPayloadIsParseError() {
	app := FromCompressed(nil, []byte("garbage"))

	err := app.Unpack(this.tempDir())

	this.So(err, shouldBeParseError)
}

func (this *WebAppFixture) tempDir() string {
	directory, err := os.MkdirTemp("", "lattice-container-")
	this.So(err, should.BeNil)
	return directory
}

func (this *WebAppFixture) assertFileContents(path, expected string) {
	content, err := os.ReadFile(path)
	this.So(err, should.BeNil)
	this.So(string(content), should.Equal, expected)
}

/////////////////////////

// envelope synthesizes a flat buffer with explicit (possibly lying) length
// fields so parse failures can be provoked on purpose.
func envelope(metadataLength uint64, metadata []byte, webLength uint64, web []byte) []byte {
	state := make([]byte, 0, 16+len(metadata)+len(web))
	state = binary.BigEndian.AppendUint64(state, metadataLength)
	state = append(state, metadata...)
	state = binary.BigEndian.AppendUint64(state, webLength)
	state = append(state, web...)
	return state
}

func shouldBeParseError(actual interface{}, _ ...interface{}) string {
	err, ok := actual.(error)
	if !ok {
		return "expected an error, got none"
	}
	if _, ok := err.(*ParseError); !ok {
		return "expected a *ParseError, got: " + err.Error()
	}
	return ""
}
