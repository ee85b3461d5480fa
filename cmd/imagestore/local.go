package imagestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
)

// Local keeps images in a directory served under <baseURL>/images/.
type Local struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocal(dir, baseURL string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Dir is the directory holding the stored files.
func (s *Local) Dir() string { return s.dir }

func (s *Local) Add(ctx context.Context, img model.ImageUpload) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img.Body == nil {
		return nil, ErrEmpty
	}
	if s.maxBytes > 0 && img.Size > s.maxBytes {
		return nil, ErrTooLarge
	}

	br := bufio.NewReaderSize(img.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmpty
	}
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
	}

	publicID := uuid.NewString() + extension(img.Filename, contentType)
	path := filepath.Join(s.dir, publicID)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}

	var src io.Reader = br
	if s.maxBytes > 0 {
		src = io.LimitReader(br, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write image: %w", err)
	}

	return &Result{URL: s.baseURL + "/images/" + publicID, PublicID: publicID}, nil
}

func (s *Local) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if publicID == "" || publicID != filepath.Base(publicID) || strings.HasPrefix(publicID, ".") {
		return ErrInvalidID
	}
	if err := os.Remove(filepath.Join(s.dir, publicID)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// extension picks the file suffix from the sniffed content type. The client's
// extension is kept only when it maps to that same type.
func extension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if byExt, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil && byExt == contentType {
			return ext
		}
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
