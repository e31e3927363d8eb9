// Package upload materializes multipart uploads as request-scoped temp files.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"leaf-doctor/api/internal/metrics"
	"leaf-doctor/api/internal/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	// ErrNoFile is returned when the request carries no usable file field.
	ErrNoFile = errors.New("no file uploaded")
	// ErrInvalidForm marks a multipart body the client sent malformed.
	ErrInvalidForm = errors.New("invalid multipart form")
)

const sniffLen = 512

type Store struct {
	dir string
}

// NewStore creates dir if needed. Every artifact lives directly under it.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "leaf-doctor")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Accept stores the file sent under field. A missing field, a non-multipart
// body or an empty file all map to ErrNoFile; an unparsable body maps to
// ErrInvalidForm. An *echo.HTTPError raised while reading the body (the
// BodyLimit 413 on chunked uploads) is returned as is. Any other error is a
// server-side storage failure.
func (s *Store) Accept(c echo.Context, field string) (*Artifact, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var he *echo.HTTPError
		switch {
		case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
			return nil, ErrNoFile
		case errors.As(err, &he):
			return nil, he
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return s.Save(fh)
}

func (s *Store) Save(fh *multipart.FileHeader) (*Artifact, error) {
	if fh == nil || fh.Size == 0 {
		return nil, ErrNoFile
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	path := filepath.Join(s.dir, uuid.NewString()+extension(fh.Filename))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	a := &Artifact{
		Path:     path,
		Filename: fh.Filename,
		MIMEType: util.PickMIME(fh.Header.Get("Content-Type"), "", head),
	}

	written, err := copyAll(dst, head, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = a.Remove()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	a.Size = written
	metrics.UploadBytes.Observe(float64(written))
	return a, nil
}

func copyAll(dst io.Writer, head []byte, rest io.Reader) (int64, error) {
	n, err := dst.Write(head)
	if err != nil {
		return int64(n), err
	}
	m, err := io.Copy(dst, rest)
	return int64(n) + m, err
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// Artifact is one uploaded file on disk. It is owned by a single request.
type Artifact struct {
	Path     string
	Filename string
	MIMEType string
	Size     int64

	once sync.Once
}

func (a *Artifact) Read() ([]byte, error) {
	return os.ReadFile(a.Path)
}

// Remove deletes the file. Only the first call touches the filesystem; later
// calls return nil. A file that is already gone is not an error.
func (a *Artifact) Remove() error {
	var err error
	a.once.Do(func() {
		if rerr := os.Remove(a.Path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			err = rerr
		}
	})
	return err
}
