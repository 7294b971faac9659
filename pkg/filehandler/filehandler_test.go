package filehandler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileFormatByExtension(t *testing.T) {
	for path, want := range map[string]string{
		"a.PNG":  "png",
		"b.jpg":  "jpeg",
		"c.tif":  "tiff",
		"d.bmp":  "bmp",
		"e.gif":  "gif",
		"f.tiff": "tiff",
	} {
		got, err := DetectFileFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestDetectFileFormatByContent(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(pngPath, []byte("\x89PNG\r\n\x1a\n0000"), 0644))
	format, err := DetectFileFormat(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	tiffPath := filepath.Join(dir, "tiffdata")
	require.NoError(t, os.WriteFile(tiffPath, []byte("II*\x00rest"), 0644))
	format, err = DetectFileFormat(tiffPath)
	require.NoError(t, err)
	assert.Equal(t, "tiff", format)

	txtPath := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(txtPath, []byte("just text"), 0644))
	_, err = DetectFileFormat(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSaveAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "payload.bin")
	require.NoError(t, SaveFile([]byte{1, 2, 3}, path))

	data, err := ReadFileBytes(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.txt", "sub/c.bmp"} {
		require.NoError(t, SaveFile(nil, filepath.Join(dir, name)))
	}

	files, err := FilesInDirectory(dir, []string{".png", ".bmp"})
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "sub", "c.bmp")}, files)

	all, err := FilesInDirectory(dir, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = FilesInDirectory(filepath.Join(dir, "a.png"), nil)
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nhttp://a\n\n  http://b  \n"), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a", "http://b"}, lines)
}

func TestDownloadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "image-bytes")
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := DownloadFromURL(srv.URL+"/img/carrier.png?x=1", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^carrier_[0-9a-f]{8}\.png$`, filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	_, err = DownloadFromURL(srv.URL+"/missing.png", dir)
	assert.Error(t, err)
}

func TestDownloadNameUnique(t *testing.T) {
	a, err := url.Parse("http://example.com/a/img.png")
	require.NoError(t, err)
	b, err := url.Parse("http://example.com/b/img.png")
	require.NoError(t, err)
	again, err := url.Parse("http://example.com/a/img.png")
	require.NoError(t, err)

	assert.NotEqual(t, downloadName(a), downloadName(b))
	assert.Equal(t, downloadName(a), downloadName(again))
	assert.Equal(t, ".png", filepath.Ext(downloadName(a)))

	root, err := url.Parse("http://example.com/")
	require.NoError(t, err)
	assert.Regexp(t, `^downloaded_file_[0-9a-f]{8}$`, downloadName(root))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.False(t, IsURL("/tmp/a.png"))
	assert.False(t, IsURL("ftp://example.com/a.png"))
	assert.False(t, IsURL("http://"))
	assert.Len(t, ImageExtensions(), len(SupportedImageFormats))
	assert.True(t, sort.StringsAreSorted(ImageExtensions()))
}
