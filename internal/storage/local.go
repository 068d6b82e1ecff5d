package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseDir = "./uploads"
	DefaultURLBase = "/static/uploads"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMimeType = errors.New("file type not allowed")
)

// AllowedMimeTypes defines which artifact types are accepted.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"application/pdf": true,
}

// ProgressFunc receives bytes written so far and the expected total (0 when unknown).
type ProgressFunc func(written, total int64)

type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// LocalStore keeps objects on local disk under baseDir and serves them from urlBase.
type LocalStore struct {
	baseDir string
	urlBase string
	maxSize int64
	now     func() time.Time
}

func NewLocalStore(baseDir, urlBase string, maxSize int64) *LocalStore {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	return &LocalStore{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/"), maxSize: maxSize, now: time.Now}
}

// Put streams r to disk. The content type is sniffed from the first 512 bytes.
// A partially written file is removed on failure.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader, size int64, progress ProgressFunc) (*Object, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)
	mimeType := strings.Split(http.DetectContentType(head), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(name)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(name), ext)
	absPath := filepath.Join(absDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	src := &progressReader{ctx: ctx, r: br, total: size, fn: progress}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	key := relDir + "/" + filename
	return &Object{
		Key:         key,
		URL:         s.urlBase + "/" + key,
		ContentType: mimeType,
		Size:        written,
	}, nil
}

// Delete removes the object. A missing object is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type progressReader struct {
	ctx     context.Context
	r       io.Reader
	total   int64
	written int64
	fn      ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		if p.fn != nil {
			p.fn(p.written, p.total)
		}
	}
	return n, err
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
