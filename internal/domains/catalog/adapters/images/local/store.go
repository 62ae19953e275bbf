package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

var _ ports.ImageStore = (*Store)(nil)

// ErrInvalidImageID is returned for ids that would resolve outside the upload root.
var ErrInvalidImageID = errors.New("invalid image id")

// Store writes images below a root directory that the HTTP server exposes under urlPrefix.
type Store struct {
	root      string
	folder    string
	urlPrefix string
}

func NewStore(root, folder, urlPrefix string) *Store {
	return &Store{root: root, folder: folder, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Upload stores the body as <folder>/<uuid><ext>; that relative path is the image id.
func (s *Store) Upload(ctx context.Context, upload catalogtypes.ImageUpload) (domain.Image, error) {
	if upload.Body == nil {
		return domain.Image{}, errors.New("upload body is required")
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	id := path.Join(s.folder, uuid.NewString()+ext)
	target, err := s.resolve(id)
	if err != nil {
		return domain.Image{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return domain.Image{}, fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.Image{}, err
	}
	if _, err := io.Copy(f, readerWithContext(ctx, upload.Body)); err != nil {
		f.Close()
		_ = os.Remove(target)
		return domain.Image{}, fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return domain.Image{}, err
	}
	return domain.Image{URL: s.urlPrefix + "/" + id, ID: id}, nil
}

// Destroy removes the file. Missing files are not an error.
func (s *Store) Destroy(_ context.Context, imageID string) error {
	target, err := s.resolve(imageID)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) resolve(id string) (string, error) {
	clean := path.Clean("/" + id)
	if clean == "/" || clean != "/"+id {
		return "", ErrInvalidImageID
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
