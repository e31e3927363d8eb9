package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpeg = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x42}, 2048)...)

type part struct {
	field, filename, contentType string
	data                         []byte
}

func newContext(t *testing.T, parts ...part) echo.Context {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func entries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	es, err := os.ReadDir(dir)
	require.NoError(t, err)
	return es
}

func TestAcceptStoresFile(t *testing.T) {
	s := newStore(t)
	c := newContext(t, part{field: "file", filename: "leaf.JPG", contentType: "image/jpeg", data: jpeg})

	a, err := s.Accept(c, "file")
	require.NoError(t, err)

	assert.Equal(t, s.Dir(), filepath.Dir(a.Path))
	assert.True(t, strings.HasSuffix(a.Path, ".jpg"))
	assert.Equal(t, "leaf.JPG", a.Filename)
	assert.Equal(t, "image/jpeg", a.MIMEType)
	assert.Equal(t, int64(len(jpeg)), a.Size)

	got, err := a.Read()
	require.NoError(t, err)
	assert.Equal(t, jpeg, got)
}

func TestAcceptSniffsUnknownType(t *testing.T) {
	s := newStore(t)
	c := newContext(t, part{field: "file", filename: "blob", contentType: "application/octet-stream", data: jpeg})

	a, err := s.Accept(c, "file")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", a.MIMEType)
	assert.Equal(t, "", filepath.Ext(a.Path))
}

func TestAcceptNoFile(t *testing.T) {
	s := newStore(t)

	_, err := s.Accept(newContext(t, part{field: "image", filename: "a.png", data: jpeg}), "file")
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = s.Accept(newContext(t, part{field: "file", filename: "empty.jpg"}), "file")
	assert.ErrorIs(t, err, ErrNoFile)

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	_, err = s.Accept(echo.New().NewContext(req, httptest.NewRecorder()), "file")
	assert.ErrorIs(t, err, ErrNoFile)

	assert.Empty(t, entries(t, s.Dir()))
}

func TestAcceptUniquePaths(t *testing.T) {
	s := newStore(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		a, err := s.Accept(newContext(t, part{field: "file", filename: "leaf.jpg", data: jpeg}), "file")
		require.NoError(t, err)
		assert.False(t, seen[a.Path], a.Path)
		seen[a.Path] = true
	}
	assert.Len(t, entries(t, s.Dir()), 20)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newStore(t)
	a, err := s.Accept(newContext(t, part{field: "file", filename: "leaf.jpg", data: jpeg}), "file")
	require.NoError(t, err)

	require.NoError(t, a.Remove())
	assert.NoFileExists(t, a.Path)
	assert.NoError(t, a.Remove())
	assert.Empty(t, entries(t, s.Dir()))
}

func TestRemoveMissingFile(t *testing.T) {
	a := &Artifact{Path: filepath.Join(t.TempDir(), "gone.jpg")}
	assert.NoError(t, a.Remove())
}

func TestRemoveFailureReportedOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "busy")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "child"), 0o700))

	a := &Artifact{Path: dir}
	assert.Error(t, a.Remove())
	assert.NoError(t, a.Remove())
}

func TestNewStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := NewStore(dir)
	require.NoError(t, err)
	assert.DirExists(t, s.Dir())
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", extension("leaf.PNG"))
	assert.Equal(t, ".jpeg", extension("../../etc/leaf.jpeg"))
	assert.Equal(t, "", extension("noext"))
	assert.Equal(t, "", extension("x.tar gz"))
	assert.Equal(t, "", extension("x.verylongext"))
	assert.Equal(t, "", extension("trailing."))
}
